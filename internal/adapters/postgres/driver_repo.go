package postgres

import (
	"context"

	"github.com/samirrijal/routedesk/internal/core/domain"
)

// DriverRepo implements ports.DriverRepository.
type DriverRepo struct {
	db *DB
}

func NewDriverRepo(db *DB) *DriverRepo {
	return &DriverRepo{db: db}
}

// List returns drivers ordered by name with the unpaged total. nil centers
// means every center.
func (r *DriverRepo) List(ctx context.Context, centers []string, limit, offset int) ([]domain.Driver, int, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT id, name, COALESCE(email, ''), COALESCE(phone, ''), center,
		       count(*) OVER () AS total
		FROM drivers
		WHERE $1::text[] IS NULL OR center = ANY($1)
		ORDER BY name, id
		LIMIT $2 OFFSET $3
	`, centers, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	drivers := []domain.Driver{}
	total := 0
	for rows.Next() {
		var d domain.Driver
		if err := rows.Scan(&d.ID, &d.Name, &d.Email, &d.Phone, &d.Center, &total); err != nil {
			return nil, 0, err
		}
		drivers = append(drivers, d)
	}
	return drivers, total, rows.Err()
}

func (r *DriverRepo) GetByID(ctx context.Context, id string) (*domain.Driver, error) {
	var d domain.Driver
	err := r.db.Pool.QueryRow(ctx, `
		SELECT id, name, COALESCE(email, ''), COALESCE(phone, ''), center
		FROM drivers WHERE id = $1
	`, id).Scan(&d.ID, &d.Name, &d.Email, &d.Phone, &d.Center)
	if err != nil {
		return nil, notFound(err)
	}
	return &d, nil
}
