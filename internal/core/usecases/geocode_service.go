package usecases

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/samirrijal/routedesk/internal/core/domain"
	"github.com/samirrijal/routedesk/internal/core/ports"
	"github.com/samirrijal/routedesk/internal/pkg/metrics"
)

const (
	defaultGeocodeConcurrency = 8
	defaultGeocodeTimeout     = 5 * time.Second
	geocodeCacheTTL           = 7 * 24 * 3600
)

// GeocodeService resolves order addresses to coordinates.
type GeocodeService struct {
	geocoder    ports.Geocoder
	cache       ports.CacheService
	concurrency int
	timeout     time.Duration
	cacheTTL    int
}

// NewGeocodeService creates a GeocodeService. cache may be nil.
func NewGeocodeService(geocoder ports.Geocoder, cache ports.CacheService, concurrency int, timeout time.Duration) *GeocodeService {
	if concurrency <= 0 {
		concurrency = defaultGeocodeConcurrency
	}
	if timeout <= 0 {
		timeout = defaultGeocodeTimeout
	}
	return &GeocodeService{geocoder: geocoder, cache: cache, concurrency: concurrency, timeout: timeout, cacheTTL: geocodeCacheTTL}
}

// WithCacheTTL overrides how long resolved coordinates stay cached.
func (s *GeocodeService) WithCacheTTL(ttl time.Duration) *GeocodeService {
	if ttl > 0 {
		s.cacheTTL = int(ttl.Seconds())
	}
	return s
}

// Resolve geocodes every order without a coordinate concurrently and waits
// for all lookups to settle. Both results keep input order. Lookup failures
// only affect their own order, which is returned as unresolved.
//
// The cache is read once before the fan-out and written once after it, so
// every order of a batch whose address was not cached beforehand costs one
// provider call, even when another order in the batch shares the address.
func (s *GeocodeService) Resolve(ctx context.Context, orders []domain.Order) (resolved, unresolved []domain.Order) {
	coords := make([]*domain.Coordinate, len(orders))
	fresh := make([]*domain.Coordinate, len(orders))
	cached := s.readCache(ctx, orders)

	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for i := range orders {
		if orders[i].Coordinate != nil {
			coords[i] = orders[i].Coordinate
			metrics.GeocodeResults.WithLabelValues("skipped").Inc()
			continue
		}
		if c, ok := cached[cacheKey(orders[i].Address)]; ok {
			c := c
			coords[i] = &c
			metrics.GeocodeResults.WithLabelValues("cached").Inc()
			continue
		}
		i := i
		g.Go(func() error {
			fresh[i] = s.lookup(ctx, orders[i])
			coords[i] = fresh[i]
			return nil
		})
	}
	_ = g.Wait()

	s.writeCache(ctx, orders, fresh)

	for i, o := range orders {
		if coords[i] == nil {
			unresolved = append(unresolved, o)
			continue
		}
		c := *coords[i]
		o.Coordinate = &c
		resolved = append(resolved, o)
	}
	return resolved, unresolved
}

// cacheKey normalizes whitespace so formatting differences share an entry.
// Blank addresses have no key.
func cacheKey(address string) string {
	fields := strings.Fields(address)
	if len(fields) == 0 {
		return ""
	}
	return "geocode:" + strings.Join(fields, " ")
}

// readCache returns the coordinates already cached for the batch's
// addresses, keyed by cacheKey.
func (s *GeocodeService) readCache(ctx context.Context, orders []domain.Order) map[string]domain.Coordinate {
	hits := map[string]domain.Coordinate{}
	if s.cache == nil {
		return hits
	}
	seen := map[string]bool{}
	for _, o := range orders {
		key := cacheKey(o.Address)
		if o.Coordinate != nil || key == "" || seen[key] {
			continue
		}
		seen[key] = true
		data, err := s.cache.Get(ctx, key)
		if err != nil {
			metrics.CacheMisses.WithLabelValues("geocode").Inc()
			continue
		}
		var c domain.Coordinate
		if err := json.Unmarshal(data, &c); err != nil {
			metrics.CacheMisses.WithLabelValues("geocode").Inc()
			continue
		}
		metrics.CacheHits.WithLabelValues("geocode").Inc()
		hits[key] = c
	}
	return hits
}

// writeCache stores the coordinates resolved by this batch.
func (s *GeocodeService) writeCache(ctx context.Context, orders []domain.Order, fresh []*domain.Coordinate) {
	if s.cache == nil {
		return
	}
	written := map[string]bool{}
	for i, c := range fresh {
		key := cacheKey(orders[i].Address)
		if c == nil || key == "" || written[key] {
			continue
		}
		written[key] = true
		data, err := json.Marshal(c)
		if err != nil {
			continue
		}
		if err := s.cache.Set(ctx, key, data, s.cacheTTL); err != nil {
			slog.WarnContext(ctx, "cache geocode result", "error", err)
		}
	}
}

func (s *GeocodeService) lookup(ctx context.Context, o domain.Order) *domain.Coordinate {
	address := strings.TrimSpace(o.Address)
	if address == "" {
		metrics.GeocodeResults.WithLabelValues("unresolved").Inc()
		return nil
	}
	if ctx.Err() != nil {
		metrics.GeocodeResults.WithLabelValues("error").Inc()
		return nil
	}

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	c, err := s.geocoder.Geocode(callCtx, address)
	if err != nil {
		metrics.GeocodeResults.WithLabelValues("error").Inc()
		slog.WarnContext(ctx, "geocode failed", "order_id", o.ID, "error", err)
		return nil
	}
	if c == nil {
		metrics.GeocodeResults.WithLabelValues("unresolved").Inc()
		slog.InfoContext(ctx, "address not resolved", "order_id", o.ID)
		return nil
	}
	metrics.GeocodeResults.WithLabelValues("resolved").Inc()
	return c
}
