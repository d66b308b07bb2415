package valkey

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/samirrijal/routedesk/internal/core/domain"
	"github.com/samirrijal/routedesk/internal/core/ports"
)

// DraftStore keeps editing drafts in Valkey so any API instance can serve
// the next request of a session.
type DraftStore struct {
	cache *Cache
	ttl   time.Duration
}

// NewDraftStore creates a DraftStore on top of an existing client.
func NewDraftStore(cache *Cache, ttl time.Duration) *DraftStore {
	return &DraftStore{cache: cache, ttl: ttl}
}

// draftKey escapes each part so an ID containing ':' cannot land on
// another session's key.
func draftKey(k ports.DraftKey) string {
	return fmt.Sprintf("draft:%s:%s:%s",
		url.QueryEscape(k.UserID), url.QueryEscape(k.DriverID), url.QueryEscape(k.Date))
}

// Load returns the draft for key, or domain.ErrNoDraft when none is stored
// or it has expired.
func (s *DraftStore) Load(ctx context.Context, key ports.DraftKey) (*domain.Route, error) {
	data, err := s.cache.Get(ctx, draftKey(key))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNoDraft
		}
		return nil, fmt.Errorf("load draft: %w", err)
	}
	var route domain.Route
	if err := json.Unmarshal(data, &route); err != nil {
		return nil, fmt.Errorf("decode draft: %w", err)
	}
	return &route, nil
}

// Save stores route under key and restarts its TTL.
func (s *DraftStore) Save(ctx context.Context, key ports.DraftKey, route *domain.Route) error {
	data, err := json.Marshal(route)
	if err != nil {
		return fmt.Errorf("encode draft: %w", err)
	}
	return s.cache.Set(ctx, draftKey(key), data, int(s.ttl.Seconds()))
}

// Delete drops the draft. Deleting a missing draft is not an error.
func (s *DraftStore) Delete(ctx context.Context, key ports.DraftKey) error {
	return s.cache.Delete(ctx, draftKey(key))
}
