package ports

import (
	"context"

	"github.com/samirrijal/routedesk/internal/core/domain"
)

// Geocoder resolves a free-text address. A nil coordinate with a nil error
// means the address could not be resolved.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (*domain.Coordinate, error)
}

// DirectionsProvider returns a road-following path through the given points.
type DirectionsProvider interface {
	Directions(ctx context.Context, origin, destination domain.Coordinate, waypoints []domain.Coordinate) ([]domain.Coordinate, error)
}

// DraftStore keeps a user's in-progress route between requests.
type DraftStore interface {
	Load(ctx context.Context, key DraftKey) (*domain.Route, error)
	Save(ctx context.Context, key DraftKey, route *domain.Route) error
	Delete(ctx context.Context, key DraftKey) error
}

// DraftKey identifies one editing session over a driver's day.
type DraftKey struct {
	UserID   string
	DriverID string
	Date     string
}

// EventPublisher publishes domain events to a message broker.
type EventPublisher interface {
	PublishRouteSaved(ctx context.Context, event *domain.RouteSavedEvent) error
	PublishDeliveryEvent(ctx context.Context, event *domain.DeliveryEvent) error
}

// EventSubscriber subscribes to domain events from a message broker.
type EventSubscriber interface {
	SubscribeDeliveryEvents(ctx context.Context, handler func(ctx context.Context, event *domain.DeliveryEvent) error) error
}

// CacheService provides read-through caching.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	Delete(ctx context.Context, key string) error
}

// NoticeDispatcher hands a delivery event to the notification pipeline.
type NoticeDispatcher interface {
	DispatchNotice(ctx context.Context, event *domain.DeliveryEvent) error
}

// MessageSender delivers a templated customer message.
type MessageSender interface {
	Send(ctx context.Context, msg domain.CustomerMessage) error
}
