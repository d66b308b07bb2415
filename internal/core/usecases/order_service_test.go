package usecases_test

import (
	"context"
	"errors"
	"testing"

	"github.com/samirrijal/routedesk/internal/core/domain"
	"github.com/samirrijal/routedesk/internal/core/usecases"
)

func boardOrders() map[string]*domain.Order {
	return map[string]*domain.Order{
		"o1": {ID: "o1", DriverID: "d1", DeliveryDate: day, Center: "yangju"},
		"o2": {ID: "o2", DriverID: "d1", DeliveryDate: day, Center: "yangju"},
		"o3": {ID: "o3", DriverID: "d2", DeliveryDate: day, Center: "pocheon"},
	}
}

func newOrderFixture() (*usecases.OrderService, *mockOrderRepo, *[]domain.Reassignment) {
	orders := boardOrders()
	var assigned []domain.Reassignment
	repo := &mockOrderRepo{
		getByIDFn: func(ctx context.Context, id string) (*domain.Order, error) {
			if o, ok := orders[id]; ok {
				c := *o
				return &c, nil
			}
			return nil, domain.ErrNotFound
		},
		assignFn: func(ctx context.Context, r domain.Reassignment) error {
			assigned = append(assigned, r)
			return nil
		},
	}
	drivers := &mockDriverRepo{getByIDFn: func(ctx context.Context, id string) (*domain.Driver, error) {
		switch id {
		case "d1":
			return &domain.Driver{ID: "d1", Center: "yangju"}, nil
		case "d2":
			return &domain.Driver{ID: "d2", Center: "pocheon"}, nil
		}
		return nil, domain.ErrNotFound
	}}
	return usecases.NewOrderService(repo, drivers), repo, &assigned
}

func TestOrderService_ListForDay_ScopesManagerToCenters(t *testing.T) {
	svc, repo, _ := newOrderFixture()
	var gotCenters []string
	repo.listForDayFn = func(ctx context.Context, date string, centers []string) ([]domain.Order, error) {
		gotCenters = centers
		return []domain.Order{{ID: "o1"}}, nil
	}

	if _, err := svc.ListForDay(context.Background(), manager, day); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(gotCenters) != 1 || gotCenters[0] != "yangju" {
		t.Errorf("expected manager centers, got %v", gotCenters)
	}

	if _, err := svc.ListForDay(context.Background(), admin, day); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotCenters != nil {
		t.Errorf("expected unrestricted listing for admin, got %v", gotCenters)
	}
}

func TestOrderService_ListForDay_ManagerWithoutCenters(t *testing.T) {
	svc, repo, _ := newOrderFixture()
	repo.listForDayFn = func(ctx context.Context, date string, centers []string) ([]domain.Order, error) {
		t.Error("repository should not be queried")
		return nil, nil
	}

	orders, err := svc.ListForDay(context.Background(), domain.Session{UserID: "m", Role: domain.RoleLocalManager}, day)
	if err != nil || len(orders) != 0 {
		t.Errorf("expected empty board, got %v, %v", orders, err)
	}
}

func TestOrderService_ListForDay_Rejects(t *testing.T) {
	svc, _, _ := newOrderFixture()
	if _, err := svc.ListForDay(context.Background(), driver, day); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("expected ErrForbidden for driver, got %v", err)
	}
	if _, err := svc.ListForDay(context.Background(), admin, "2026-13-01"); !errors.Is(err, domain.ErrInvalidDate) {
		t.Errorf("expected ErrInvalidDate, got %v", err)
	}
}

func TestOrderService_Reassign(t *testing.T) {
	svc, _, assigned := newOrderFixture()
	ra := domain.Reassignment{OrderIDs: []string{"o1", "o2"}, DriverID: "d1", Date: "2026-03-03"}

	if err := svc.Reassign(context.Background(), manager, ra); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(*assigned) != 1 || len((*assigned)[0].OrderIDs) != 2 {
		t.Errorf("expected one reassignment of two orders, got %+v", *assigned)
	}
}

func TestOrderService_Reassign_OutsideCenters(t *testing.T) {
	cases := map[string]domain.Reassignment{
		"target driver": {OrderIDs: []string{"o1"}, DriverID: "d2"},
		"order":         {OrderIDs: []string{"o1", "o3"}, DriverID: "d1"},
	}
	for name, ra := range cases {
		svc, _, assigned := newOrderFixture()
		if err := svc.Reassign(context.Background(), manager, ra); !errors.Is(err, domain.ErrForbidden) {
			t.Errorf("%s: expected ErrForbidden, got %v", name, err)
		}
		if len(*assigned) != 0 {
			t.Errorf("%s: nothing should be reassigned", name)
		}
	}
}

func TestOrderService_Reassign_Validation(t *testing.T) {
	svc, _, assigned := newOrderFixture()
	ctx := context.Background()

	if err := svc.Reassign(ctx, admin, domain.Reassignment{DriverID: "d1"}); !errors.Is(err, domain.ErrInvalidRequest) {
		t.Errorf("expected ErrInvalidRequest for no orders, got %v", err)
	}
	if err := svc.Reassign(ctx, admin, domain.Reassignment{OrderIDs: []string{"o1"}, DriverID: "d1", Date: "tomorrow"}); !errors.Is(err, domain.ErrInvalidDate) {
		t.Errorf("expected ErrInvalidDate, got %v", err)
	}
	if err := svc.Reassign(ctx, admin, domain.Reassignment{OrderIDs: []string{"nope"}, DriverID: "d1"}); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if err := svc.Reassign(ctx, guest, domain.Reassignment{OrderIDs: []string{"o1"}, DriverID: "d1"}); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("expected ErrForbidden for guest, got %v", err)
	}
	if len(*assigned) != 0 {
		t.Errorf("nothing should be reassigned, got %+v", *assigned)
	}
}
