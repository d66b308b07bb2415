// Package memory holds process-local adapters for single-instance
// deployments and tests.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/samirrijal/routedesk/internal/core/domain"
	"github.com/samirrijal/routedesk/internal/core/ports"
)

// DraftStore implements ports.DraftStore in memory. Routes are stored
// encoded so callers never share slices with the store.
type DraftStore struct {
	mu     sync.Mutex
	ttl    time.Duration
	now    func() time.Time
	drafts map[ports.DraftKey]draft
}

type draft struct {
	data      []byte
	expiresAt time.Time
}

// NewDraftStore creates a DraftStore whose entries expire after ttl.
func NewDraftStore(ttl time.Duration) *DraftStore {
	return &DraftStore{ttl: ttl, now: time.Now, drafts: make(map[ports.DraftKey]draft)}
}

// Load returns the draft or domain.ErrNoDraft.
func (s *DraftStore) Load(_ context.Context, key ports.DraftKey) (*domain.Route, error) {
	s.mu.Lock()
	d, ok := s.drafts[key]
	if ok && s.now().After(d.expiresAt) {
		delete(s.drafts, key)
		ok = false
	}
	s.mu.Unlock()
	if !ok {
		return nil, domain.ErrNoDraft
	}

	var route domain.Route
	if err := json.Unmarshal(d.data, &route); err != nil {
		return nil, fmt.Errorf("decode draft: %w", err)
	}
	return &route, nil
}

// Save replaces the draft.
func (s *DraftStore) Save(_ context.Context, key ports.DraftKey, route *domain.Route) error {
	data, err := json.Marshal(route)
	if err != nil {
		return fmt.Errorf("encode draft: %w", err)
	}
	s.mu.Lock()
	s.drafts[key] = draft{data: data, expiresAt: s.now().Add(s.ttl)}
	s.mu.Unlock()
	return nil
}

// Delete removes the draft.
func (s *DraftStore) Delete(_ context.Context, key ports.DraftKey) error {
	s.mu.Lock()
	delete(s.drafts, key)
	s.mu.Unlock()
	return nil
}
