package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/samirrijal/routedesk/internal/core/domain"
)

// roleAll grants a menu to every role.
const roleAll = "ALL"

// MenuRepo implements ports.MenuRepository.
type MenuRepo struct {
	db *DB
}

func NewMenuRepo(db *DB) *MenuRepo {
	return &MenuRepo{db: db}
}

func (r *MenuRepo) RoleMenuIDs(ctx context.Context, role domain.Role) ([]string, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT menu_id FROM menu_role_grants WHERE role_code = $1 OR role_code = $2
	`, string(role), roleAll)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}

func (r *MenuRepo) UserMenuIDs(ctx context.Context, userID string) ([]string, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT menu_id FROM menu_user_grants WHERE user_id = $1
	`, userID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}

// MenusByID loads menu rows, disabled ones included, ordered by sort key.
func (r *MenuRepo) MenusByID(ctx context.Context, ids []string) ([]domain.Menu, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT id, name, path, sort, enabled
		FROM menus
		WHERE id = ANY($1)
		ORDER BY sort, id
	`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	menus := []domain.Menu{}
	for rows.Next() {
		var m domain.Menu
		if err := rows.Scan(&m.ID, &m.Name, &m.Path, &m.Sort, &m.Enabled); err != nil {
			return nil, err
		}
		menus = append(menus, m)
	}
	return menus, rows.Err()
}
