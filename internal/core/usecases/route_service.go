package usecases

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/samirrijal/routedesk/internal/core/domain"
	"github.com/samirrijal/routedesk/internal/core/ports"
	"github.com/samirrijal/routedesk/internal/core/sequencing"
	"github.com/samirrijal/routedesk/internal/pkg/metrics"
)

var tracer = otel.Tracer("github.com/samirrijal/routedesk/internal/core/usecases")

// RouteService plans, edits and saves a driver's delivery sequence.
type RouteService struct {
	orders    ports.OrderRepository
	drivers   ports.DriverRepository
	geocode   *GeocodeService
	drafts    ports.DraftStore
	publisher ports.EventPublisher
	depot     domain.Coordinate
	now       func() time.Time
}

// NewRouteService creates a new RouteService. publisher may be nil.
func NewRouteService(
	orders ports.OrderRepository,
	drivers ports.DriverRepository,
	geocode *GeocodeService,
	drafts ports.DraftStore,
	publisher ports.EventPublisher,
	depot domain.Coordinate,
) *RouteService {
	return &RouteService{
		orders:    orders,
		drivers:   drivers,
		geocode:   geocode,
		drafts:    drafts,
		publisher: publisher,
		depot:     depot,
		now:       time.Now,
	}
}

// Depot returns the coordinate every route starts from.
func (s *RouteService) Depot() domain.Coordinate { return s.depot }

// Plan builds a fresh route for the driver's day and stores it as the
// caller's draft. A day with nothing to visit returns a route with NoData set.
func (s *RouteService) Plan(ctx context.Context, sess domain.Session, driverID, date string) (route *domain.Route, err error) {
	ctx, span := tracer.Start(ctx, "RouteService.Plan")
	span.SetAttributes(attribute.String("driver_id", driverID), attribute.String("date", date))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	start := s.now()
	if err := s.authorize(ctx, sess, driverID, date); err != nil {
		return nil, err
	}

	orders, err := s.orders.ListForDriverDay(ctx, driverID, date)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}

	route = &domain.Route{
		DriverID:  driverID,
		Date:      date,
		Depot:     s.depot,
		Stops:     []domain.Stop{},
		PlannedAt: start,
	}

	if len(orders) > 0 {
		resolved, unresolved := s.geocode.Resolve(ctx, orders)
		route.Stops = sequencing.NearestNeighbor(s.depot, sequencing.Aggregate(resolved))
		route.Unresolved = unresolved
	}
	route.NoData = route.Empty()

	span.SetAttributes(attribute.Int("stops", len(route.Stops)), attribute.Int("unresolved", len(route.Unresolved)))
	metrics.StopsPerRoute.Observe(float64(len(route.Stops)))
	metrics.PlanDuration.Observe(time.Since(start).Seconds())

	if err := s.drafts.Save(ctx, draftKey(sess, driverID, date), route); err != nil {
		return nil, fmt.Errorf("store draft: %w", err)
	}

	slog.InfoContext(ctx, "route planned",
		"driver_id", driverID,
		"date", date,
		"orders", len(orders),
		"stops", len(route.Stops),
		"unresolved", len(route.Unresolved),
	)
	return route, nil
}

// Current returns the caller's draft for the driver's day.
func (s *RouteService) Current(ctx context.Context, sess domain.Session, driverID, date string) (*domain.Route, error) {
	if err := s.authorize(ctx, sess, driverID, date); err != nil {
		return nil, err
	}
	return s.drafts.Load(ctx, draftKey(sess, driverID, date))
}

// MoveStop applies an operator drag to the draft. Distances are not
// recomputed; the operator's order wins.
func (s *RouteService) MoveStop(ctx context.Context, sess domain.Session, driverID, date string, from, to int) (*domain.Route, error) {
	route, err := s.Current(ctx, sess, driverID, date)
	if err != nil {
		return nil, err
	}

	stops, err := sequencing.Move(route.Stops, from, to)
	if err != nil {
		return nil, err
	}
	route.Stops = stops
	route.Revision++

	if err := s.drafts.Save(ctx, draftKey(sess, driverID, date), route); err != nil {
		return nil, fmt.Errorf("store draft: %w", err)
	}
	return route, nil
}

// Save writes sequence numbers for the draft route. Either every order is
// updated or none is; a failed save leaves the draft untouched.
func (s *RouteService) Save(ctx context.Context, sess domain.Session, driverID, date string) (assignments []domain.SequenceAssignment, err error) {
	ctx, span := tracer.Start(ctx, "RouteService.Save")
	span.SetAttributes(attribute.String("driver_id", driverID), attribute.String("date", date))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	route, err := s.Current(ctx, sess, driverID, date)
	if err != nil {
		return nil, err
	}
	if route.Empty() {
		return nil, domain.ErrNothingToSave
	}

	assignments = sequencing.Assign(route.Stops)
	if err := s.orders.UpsertSequences(ctx, assignments); err != nil {
		metrics.SequenceSaves.WithLabelValues("failed").Inc()
		return nil, fmt.Errorf("save sequences: %w", err)
	}
	metrics.SequenceSaves.WithLabelValues("saved").Inc()

	for i := range route.Stops {
		for j := range route.Stops[i].Orders {
			route.Stops[i].Orders[j].Sequence = i + 1
		}
	}
	if err := s.drafts.Save(ctx, draftKey(sess, driverID, date), route); err != nil {
		slog.WarnContext(ctx, "refresh draft after save", "error", err)
	}

	if s.publisher != nil {
		event := &domain.RouteSavedEvent{
			EventID:    uuid.NewString(),
			DriverID:   driverID,
			Date:       date,
			SavedBy:    sess.UserID,
			StopCount:  len(route.Stops),
			OrderCount: len(assignments),
			OccurredAt: s.now().UTC(),
		}
		if err := s.publisher.PublishRouteSaved(ctx, event); err != nil {
			slog.WarnContext(ctx, "publish route saved", "driver_id", driverID, "error", err)
		}
	}

	slog.InfoContext(ctx, "route saved", "driver_id", driverID, "date", date, "orders", len(assignments), "user_id", sess.UserID)
	return assignments, nil
}

// Discard drops the caller's draft.
func (s *RouteService) Discard(ctx context.Context, sess domain.Session, driverID, date string) error {
	if err := s.authorize(ctx, sess, driverID, date); err != nil {
		return err
	}
	err := s.drafts.Delete(ctx, draftKey(sess, driverID, date))
	if errors.Is(err, domain.ErrNoDraft) {
		return nil
	}
	return err
}

func (s *RouteService) authorize(ctx context.Context, sess domain.Session, driverID, date string) error {
	if err := domain.ValidateDate(date); err != nil {
		return err
	}
	if !sess.CanEdit() {
		return fmt.Errorf("%w: role %q cannot edit routes", domain.ErrForbidden, sess.Role)
	}
	driver, err := s.drivers.GetByID(ctx, driverID)
	if err != nil {
		return fmt.Errorf("get driver %s: %w", driverID, err)
	}
	if !sess.CanSeeCenter(driver.Center) {
		return fmt.Errorf("%w: driver %s is outside your centers", domain.ErrForbidden, driverID)
	}
	return nil
}

func draftKey(sess domain.Session, driverID, date string) ports.DraftKey {
	return ports.DraftKey{UserID: sess.UserID, DriverID: driverID, Date: date}
}
