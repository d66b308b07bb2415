package ports

import (
	"context"

	"github.com/samirrijal/routedesk/internal/core/domain"
)

// OrderRepository persists delivery orders.
type OrderRepository interface {
	// ListForDriverDay returns the driver's orders for a date in query order
	// (existing sequence first, then id).
	ListForDriverDay(ctx context.Context, driverID, date string) ([]domain.Order, error)
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	// UpsertSequences writes every assignment or none of them.
	UpsertSequences(ctx context.Context, assignments []domain.SequenceAssignment) error
	UpdateStatus(ctx context.Context, id string, status domain.DeliveryStatus) error
	// ListForDay returns every order on a date. A nil centers slice means
	// all centers.
	ListForDay(ctx context.Context, date string, centers []string) ([]domain.Order, error)
	// AssignDriver moves every listed order to the driver and clears its
	// sequence number, or moves none of them.
	AssignDriver(ctx context.Context, r domain.Reassignment) error
}

// DriverRepository reads the driver directory.
type DriverRepository interface {
	// List returns drivers ordered by name. A nil centers slice means all centers.
	List(ctx context.Context, centers []string, limit, offset int) ([]domain.Driver, int, error)
	GetByID(ctx context.Context, id string) (*domain.Driver, error)
}

// TemplateRepository resolves customer message templates.
type TemplateRepository interface {
	// ActiveTemplateID returns the provider template id for a code such as
	// DELIVERY_START, or domain.ErrTemplateAbsent.
	ActiveTemplateID(ctx context.Context, code string) (string, error)
	LatestPhoto(ctx context.Context, orderID string) (string, error)
}

// MenuRepository reads navigation menus and their grants.
type MenuRepository interface {
	// RoleMenuIDs returns menu ids granted to the role or to every role.
	RoleMenuIDs(ctx context.Context, role domain.Role) ([]string, error)
	UserMenuIDs(ctx context.Context, userID string) ([]string, error)
	MenusByID(ctx context.Context, ids []string) ([]domain.Menu, error)
}
