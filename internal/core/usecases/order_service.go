package usecases

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/samirrijal/routedesk/internal/core/domain"
	"github.com/samirrijal/routedesk/internal/core/ports"
)

// maxReassign caps one bulk reassignment.
const maxReassign = 500

// OrderService serves the dispatch board: the day's orders across drivers
// and bulk moves of orders between drivers.
type OrderService struct {
	orders  ports.OrderRepository
	drivers ports.DriverRepository
}

// NewOrderService creates a new OrderService.
func NewOrderService(orders ports.OrderRepository, drivers ports.DriverRepository) *OrderService {
	return &OrderService{orders: orders, drivers: drivers}
}

// ListForDay returns the orders on a date that the session may see. Local
// managers only get orders of their own centers.
func (s *OrderService) ListForDay(ctx context.Context, sess domain.Session, date string) ([]domain.Order, error) {
	if err := domain.ValidateDate(date); err != nil {
		return nil, err
	}
	if !sess.CanEdit() {
		return nil, fmt.Errorf("%w: role %q cannot view the day board", domain.ErrForbidden, sess.Role)
	}
	centers := sess.CenterFilter()
	if centers != nil && len(centers) == 0 {
		return []domain.Order{}, nil
	}
	orders, err := s.orders.ListForDay(ctx, date, centers)
	if err != nil {
		return nil, fmt.Errorf("list orders for %s: %w", date, err)
	}
	return orders, nil
}

// Reassign moves the selected orders to another driver. The caller must be
// able to see the target driver and every order; otherwise nothing moves.
// Moved orders lose their sequence number, so the new driver's day needs a
// fresh plan.
func (s *OrderService) Reassign(ctx context.Context, sess domain.Session, ra domain.Reassignment) error {
	if !sess.CanEdit() {
		return fmt.Errorf("%w: role %q cannot reassign orders", domain.ErrForbidden, sess.Role)
	}
	if len(ra.OrderIDs) == 0 || ra.DriverID == "" {
		return fmt.Errorf("%w: order_ids and driver_id are required", domain.ErrInvalidRequest)
	}
	if len(ra.OrderIDs) > maxReassign {
		return fmt.Errorf("%w: at most %d orders per reassignment", domain.ErrInvalidRequest, maxReassign)
	}
	if ra.Date != "" {
		if err := domain.ValidateDate(ra.Date); err != nil {
			return err
		}
	}

	driver, err := s.drivers.GetByID(ctx, ra.DriverID)
	if err != nil {
		return fmt.Errorf("get driver %s: %w", ra.DriverID, err)
	}
	if !sess.CanSeeCenter(driver.Center) {
		return fmt.Errorf("%w: driver %s is outside your centers", domain.ErrForbidden, ra.DriverID)
	}

	for _, id := range ra.OrderIDs {
		o, err := s.orders.GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("get order %s: %w", id, err)
		}
		if !sess.CanSeeCenter(o.Center) {
			return fmt.Errorf("%w: order %s is outside your centers", domain.ErrForbidden, id)
		}
	}

	if err := s.orders.AssignDriver(ctx, ra); err != nil {
		return fmt.Errorf("reassign orders: %w", err)
	}
	slog.InfoContext(ctx, "orders reassigned",
		"driver_id", ra.DriverID,
		"orders", len(ra.OrderIDs),
		"date", ra.Date,
		"user_id", sess.UserID,
	)
	return nil
}
