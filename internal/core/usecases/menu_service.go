package usecases

import (
	"context"
	"fmt"
	"sort"

	"github.com/samirrijal/routedesk/internal/core/domain"
	"github.com/samirrijal/routedesk/internal/core/ports"
)

// MenuService resolves the navigation a user is allowed to open.
type MenuService struct {
	menus ports.MenuRepository
}

// NewMenuService creates a new MenuService.
func NewMenuService(menus ports.MenuRepository) *MenuService {
	return &MenuService{menus: menus}
}

// Resolve returns the union of the menus granted to the session's role
// (including grants to every role) and to the user personally. Each menu
// appears once; disabled menus are dropped; the result is ordered by sort
// key, then id.
func (s *MenuService) Resolve(ctx context.Context, sess domain.Session) ([]domain.Menu, error) {
	if sess.UserID == "" {
		return nil, fmt.Errorf("%w: no user", domain.ErrForbidden)
	}

	roleIDs, err := s.menus.RoleMenuIDs(ctx, sess.Role)
	if err != nil {
		return nil, fmt.Errorf("role menus: %w", err)
	}
	userIDs, err := s.menus.UserMenuIDs(ctx, sess.UserID)
	if err != nil {
		return nil, fmt.Errorf("user menus: %w", err)
	}

	seen := map[string]bool{}
	var ids []string
	for _, id := range append(roleIDs, userIDs...) {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return []domain.Menu{}, nil
	}

	menus, err := s.menus.MenusByID(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load menus: %w", err)
	}

	out := make([]domain.Menu, 0, len(menus))
	listed := map[string]bool{}
	for _, m := range menus {
		if !m.Enabled || listed[m.ID] {
			continue
		}
		listed[m.ID] = true
		out = append(out, m)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Sort != out[j].Sort {
			return out[i].Sort < out[j].Sort
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}
