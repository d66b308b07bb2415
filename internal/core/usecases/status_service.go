package usecases

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/samirrijal/routedesk/internal/core/domain"
	"github.com/samirrijal/routedesk/internal/core/ports"
	"github.com/samirrijal/routedesk/internal/pkg/metrics"
)

// StatusService records delivery progress reported by drivers.
type StatusService struct {
	orders    ports.OrderRepository
	drivers   ports.DriverRepository
	publisher ports.EventPublisher
	now       func() time.Time
}

// NewStatusService creates a new StatusService. publisher may be nil.
func NewStatusService(orders ports.OrderRepository, drivers ports.DriverRepository, publisher ports.EventPublisher) *StatusService {
	return &StatusService{orders: orders, drivers: drivers, publisher: publisher, now: time.Now}
}

// GetOrder returns an order the session is allowed to see.
func (s *StatusService) GetOrder(ctx context.Context, sess domain.Session, orderID string) (*domain.Order, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("get order %s: %w", orderID, err)
	}
	if !canTouchOrder(sess, order) {
		return nil, fmt.Errorf("%w: order %s", domain.ErrForbidden, orderID)
	}
	return order, nil
}

// Update stores the new status and publishes a delivery event. Customer
// notices are sent downstream from that event, so the caller is not held up
// by the messaging provider.
func (s *StatusService) Update(ctx context.Context, sess domain.Session, orderID string, upd domain.StatusUpdate) (*domain.Order, error) {
	if _, err := domain.ParseDeliveryStatus(string(upd.Status)); err != nil {
		return nil, err
	}
	if upd.Position != nil && !upd.Position.Valid() {
		return nil, fmt.Errorf("%w: position out of range", domain.ErrInvalidStatus)
	}

	order, err := s.GetOrder(ctx, sess, orderID)
	if err != nil {
		return nil, err
	}

	if err := s.orders.UpdateStatus(ctx, orderID, upd.Status); err != nil {
		return nil, fmt.Errorf("update status: %w", err)
	}
	order.Status = upd.Status
	metrics.StatusUpdates.WithLabelValues(string(upd.Status)).Inc()

	if s.publisher != nil {
		event := &domain.DeliveryEvent{
			EventID:    uuid.NewString(),
			OrderID:    order.ID,
			Status:     upd.Status,
			Customer:   order.CustomerName,
			Phone:      order.Phone,
			Items:      order.Items,
			DriverID:   order.DriverID,
			Position:   upd.Position,
			ImageURL:   upd.ImageURL,
			OccurredAt: s.now().UTC(),
		}
		if d, err := s.drivers.GetByID(ctx, order.DriverID); err == nil {
			event.DriverName = d.Name
			event.DriverTel = d.Phone
		}
		if err := s.publisher.PublishDeliveryEvent(ctx, event); err != nil {
			slog.WarnContext(ctx, "publish delivery event", "order_id", order.ID, "error", err)
		}
	}

	return order, nil
}

// Drivers may only touch their own orders; editors need the order's center.
func canTouchOrder(sess domain.Session, o *domain.Order) bool {
	if sess.Role == domain.RoleDriver {
		return sess.UserID != "" && sess.UserID == o.DriverID
	}
	return sess.CanSeeCenter(o.Center)
}
