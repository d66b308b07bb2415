package usecases_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/samirrijal/routedesk/internal/core/domain"
	"github.com/samirrijal/routedesk/internal/core/usecases"
)

func menuFixture() *mockMenuRepo {
	return &mockMenuRepo{
		roleGrants: map[domain.Role][]string{
			domain.RoleLocalManager: {"status", "map"},
			"ALL":                   {"notice"},
		},
		userGrants: map[string][]string{
			"mgr-1": {"map", "drivers", "legacy"},
		},
		menus: map[string]domain.Menu{
			"map":     {ID: "map", Name: "Route map", Sort: 10, Enabled: true},
			"status":  {ID: "status", Name: "Delivery status", Sort: 20, Enabled: true},
			"drivers": {ID: "drivers", Name: "Drivers", Sort: 40, Enabled: true},
			"notice":  {ID: "notice", Name: "Notices", Sort: 5, Enabled: true},
			"legacy":  {ID: "legacy", Name: "Old board", Sort: 1, Enabled: false},
		},
	}
}

func menuIDs(menus []domain.Menu) []string {
	ids := make([]string, len(menus))
	for i, m := range menus {
		ids[i] = m.ID
	}
	return ids
}

func TestMenuService_UnionOfRoleAndUserGrants(t *testing.T) {
	repo := menuFixture()
	svc := usecases.NewMenuService(repo)

	menus, err := svc.Resolve(context.Background(), manager)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"notice", "map", "status", "drivers"}
	if diff := cmp.Diff(want, menuIDs(menus)); diff != "" {
		t.Errorf("menus mismatch (-want +got):\n%s", diff)
	}
}

func TestMenuService_DeduplicatesBeforeLoading(t *testing.T) {
	repo := menuFixture()
	svc := usecases.NewMenuService(repo)

	if _, err := svc.Resolve(context.Background(), manager); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	seen := map[string]int{}
	for _, id := range repo.requested {
		seen[id]++
	}
	if seen["map"] != 1 {
		t.Errorf("expected map requested once, got %d in %v", seen["map"], repo.requested)
	}
}

func TestMenuService_OtherRoleOnlyGetsSharedMenus(t *testing.T) {
	svc := usecases.NewMenuService(menuFixture())

	menus, err := svc.Resolve(context.Background(), guest)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff([]string{"notice"}, menuIDs(menus)); diff != "" {
		t.Errorf("menus mismatch (-want +got):\n%s", diff)
	}
}

func TestMenuService_NoGrants(t *testing.T) {
	svc := usecases.NewMenuService(&mockMenuRepo{})

	menus, err := svc.Resolve(context.Background(), guest)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if menus == nil || len(menus) != 0 {
		t.Errorf("expected empty non-nil list, got %#v", menus)
	}
}

func TestMenuService_RequiresUser(t *testing.T) {
	svc := usecases.NewMenuService(menuFixture())
	_, err := svc.Resolve(context.Background(), domain.Session{Role: domain.RoleAdmin})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("expected ErrForbidden, got %v", err)
	}
}
