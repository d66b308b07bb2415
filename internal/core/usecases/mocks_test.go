package usecases_test

import (
	"context"
	"sync"

	"github.com/samirrijal/routedesk/internal/core/domain"
)

// --- Mock OrderRepository ---

type mockOrderRepo struct {
	listFn         func(ctx context.Context, driverID, date string) ([]domain.Order, error)
	getByIDFn      func(ctx context.Context, id string) (*domain.Order, error)
	upsertFn       func(ctx context.Context, as []domain.SequenceAssignment) error
	updateStatusFn func(ctx context.Context, id string, status domain.DeliveryStatus) error
	listForDayFn   func(ctx context.Context, date string, centers []string) ([]domain.Order, error)
	assignFn       func(ctx context.Context, r domain.Reassignment) error
}

func (m *mockOrderRepo) ListForDriverDay(ctx context.Context, driverID, date string) ([]domain.Order, error) {
	if m.listFn != nil {
		return m.listFn(ctx, driverID, date)
	}
	return nil, nil
}

func (m *mockOrderRepo) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (m *mockOrderRepo) UpsertSequences(ctx context.Context, as []domain.SequenceAssignment) error {
	if m.upsertFn != nil {
		return m.upsertFn(ctx, as)
	}
	return nil
}

func (m *mockOrderRepo) UpdateStatus(ctx context.Context, id string, status domain.DeliveryStatus) error {
	if m.updateStatusFn != nil {
		return m.updateStatusFn(ctx, id, status)
	}
	return nil
}

func (m *mockOrderRepo) ListForDay(ctx context.Context, date string, centers []string) ([]domain.Order, error) {
	if m.listForDayFn != nil {
		return m.listForDayFn(ctx, date, centers)
	}
	return nil, nil
}

func (m *mockOrderRepo) AssignDriver(ctx context.Context, r domain.Reassignment) error {
	if m.assignFn != nil {
		return m.assignFn(ctx, r)
	}
	return nil
}

// --- Mock DriverRepository ---

type mockDriverRepo struct {
	listFn    func(ctx context.Context, centers []string, limit, offset int) ([]domain.Driver, int, error)
	getByIDFn func(ctx context.Context, id string) (*domain.Driver, error)
}

func (m *mockDriverRepo) List(ctx context.Context, centers []string, limit, offset int) ([]domain.Driver, int, error) {
	if m.listFn != nil {
		return m.listFn(ctx, centers, limit, offset)
	}
	return nil, 0, nil
}

func (m *mockDriverRepo) GetByID(ctx context.Context, id string) (*domain.Driver, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return &domain.Driver{ID: id, Name: "Driver " + id, Center: "yangju"}, nil
}

// --- Mock Geocoder ---

type mockGeocoder struct {
	mu    sync.Mutex
	calls []string
	fn    func(ctx context.Context, address string) (*domain.Coordinate, error)
}

func (m *mockGeocoder) Geocode(ctx context.Context, address string) (*domain.Coordinate, error) {
	m.mu.Lock()
	m.calls = append(m.calls, address)
	m.mu.Unlock()
	if m.fn != nil {
		return m.fn(ctx, address)
	}
	return nil, nil
}

func (m *mockGeocoder) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// table maps addresses to coordinates; anything else is unresolved.
func tableGeocoder(table map[string]domain.Coordinate) *mockGeocoder {
	return &mockGeocoder{fn: func(ctx context.Context, address string) (*domain.Coordinate, error) {
		if c, ok := table[address]; ok {
			return &c, nil
		}
		return nil, nil
	}}
}

// --- Mock EventPublisher ---

type mockPublisher struct {
	mu         sync.Mutex
	saved      []*domain.RouteSavedEvent
	deliveries []*domain.DeliveryEvent
	err        error
}

func (m *mockPublisher) PublishRouteSaved(ctx context.Context, e *domain.RouteSavedEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved = append(m.saved, e)
	return m.err
}

func (m *mockPublisher) PublishDeliveryEvent(ctx context.Context, e *domain.DeliveryEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deliveries = append(m.deliveries, e)
	return m.err
}

// --- Mock CacheService ---

type mockCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMockCache() *mockCache { return &mockCache{data: map[string][]byte{}} }

func (m *mockCache) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if v, ok := m.data[key]; ok {
		return v, nil
	}
	return nil, domain.ErrNotFound
}

func (m *mockCache) Set(ctx context.Context, key string, value []byte, ttlSeconds int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *mockCache) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// --- Mock DirectionsProvider ---

type mockDirections struct {
	calls int
	fn    func(ctx context.Context, origin, destination domain.Coordinate, waypoints []domain.Coordinate) ([]domain.Coordinate, error)
}

func (m *mockDirections) Directions(ctx context.Context, origin, destination domain.Coordinate, waypoints []domain.Coordinate) ([]domain.Coordinate, error) {
	m.calls++
	if m.fn != nil {
		return m.fn(ctx, origin, destination, waypoints)
	}
	return nil, nil
}

// --- Mock TemplateRepository / MessageSender ---

type mockTemplates struct {
	activeFn func(ctx context.Context, code string) (string, error)
	photoFn  func(ctx context.Context, orderID string) (string, error)
}

func (m *mockTemplates) ActiveTemplateID(ctx context.Context, code string) (string, error) {
	if m.activeFn != nil {
		return m.activeFn(ctx, code)
	}
	return "", domain.ErrTemplateAbsent
}

func (m *mockTemplates) LatestPhoto(ctx context.Context, orderID string) (string, error) {
	if m.photoFn != nil {
		return m.photoFn(ctx, orderID)
	}
	return "", domain.ErrNotFound
}

type mockSender struct {
	sent []domain.CustomerMessage
	err  error
}

func (m *mockSender) Send(ctx context.Context, msg domain.CustomerMessage) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

// --- Mock MenuRepository ---

type mockMenuRepo struct {
	roleGrants map[domain.Role][]string // "ALL" applies to every role
	userGrants map[string][]string
	menus      map[string]domain.Menu
	requested  []string
}

func (m *mockMenuRepo) RoleMenuIDs(ctx context.Context, role domain.Role) ([]string, error) {
	return append(append([]string{}, m.roleGrants[role]...), m.roleGrants["ALL"]...), nil
}

func (m *mockMenuRepo) UserMenuIDs(ctx context.Context, userID string) ([]string, error) {
	return m.userGrants[userID], nil
}

func (m *mockMenuRepo) MenusByID(ctx context.Context, ids []string) ([]domain.Menu, error) {
	m.requested = ids
	var out []domain.Menu
	for _, id := range ids {
		if menu, ok := m.menus[id]; ok {
			out = append(out, menu)
		}
	}
	return out, nil
}

// --- helpers ---

var (
	admin   = domain.Session{UserID: "admin-1", Role: domain.RoleAdmin}
	manager = domain.Session{UserID: "mgr-1", Role: domain.RoleLocalManager, Centers: []string{"yangju"}}
	driver  = domain.Session{UserID: "d1", Role: domain.RoleDriver}
	guest   = domain.Session{UserID: "g1", Role: domain.RoleGuest}
)

func coord(lat, lng float64) *domain.Coordinate {
	return &domain.Coordinate{Lat: lat, Lng: lng}
}
