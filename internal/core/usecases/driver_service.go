package usecases

import (
	"context"
	"fmt"

	"github.com/samirrijal/routedesk/internal/core/domain"
	"github.com/samirrijal/routedesk/internal/core/ports"
)

// DriverService handles the driver directory.
type DriverService struct {
	drivers ports.DriverRepository
}

// NewDriverService creates a new DriverService.
func NewDriverService(drivers ports.DriverRepository) *DriverService {
	return &DriverService{drivers: drivers}
}

// List returns drivers visible to the session. Local managers only see their
// own centers.
func (s *DriverService) List(ctx context.Context, sess domain.Session, limit, offset int) ([]domain.Driver, int, error) {
	if !sess.CanEdit() {
		return nil, 0, fmt.Errorf("%w: role %q cannot list drivers", domain.ErrForbidden, sess.Role)
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	centers := sess.CenterFilter()
	if centers != nil && len(centers) == 0 {
		return []domain.Driver{}, 0, nil
	}
	return s.drivers.List(ctx, centers, limit, offset)
}

// GetByID returns a driver if the session may see it.
func (s *DriverService) GetByID(ctx context.Context, sess domain.Session, id string) (*domain.Driver, error) {
	d, err := s.drivers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sess.Role == domain.RoleDriver && sess.UserID == d.ID {
		return d, nil
	}
	if !sess.CanSeeCenter(d.Center) {
		return nil, fmt.Errorf("%w: driver %s is outside your centers", domain.ErrForbidden, id)
	}
	return d, nil
}
