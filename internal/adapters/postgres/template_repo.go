package postgres

import (
	"context"
	"errors"

	"github.com/samirrijal/routedesk/internal/core/domain"
)

// TemplateRepo implements ports.TemplateRepository.
type TemplateRepo struct {
	db *DB
}

func NewTemplateRepo(db *DB) *TemplateRepo {
	return &TemplateRepo{db: db}
}

func (r *TemplateRepo) ActiveTemplateID(ctx context.Context, code string) (string, error) {
	var id string
	err := r.db.Pool.QueryRow(ctx, `
		SELECT template_id FROM message_templates
		WHERE code = $1 AND active
		ORDER BY updated_at DESC
		LIMIT 1
	`, code).Scan(&id)
	if err != nil {
		if errors.Is(notFound(err), domain.ErrNotFound) {
			return "", domain.ErrTemplateAbsent
		}
		return "", err
	}
	return id, nil
}

// LatestPhoto returns the newest proof-of-delivery photo for an order.
func (r *TemplateRepo) LatestPhoto(ctx context.Context, orderID string) (string, error) {
	var url string
	err := r.db.Pool.QueryRow(ctx, `
		SELECT img_url FROM delivery_images
		WHERE order_id = $1 AND img_type = 'PHOTO'
		ORDER BY created_at DESC
		LIMIT 1
	`, orderID).Scan(&url)
	if err != nil {
		return "", notFound(err)
	}
	return url, nil
}
