package cart

import (
	"context"
	"sync"
	"time"

	"github.com/saascom/storefront-gateway/pkg/logger"
)

// Manager owns one synchronizer per authenticated user. Mirrors are created
// on first use, refreshed with the caller's credentials on every access, and
// dropped when the identity is lost or the mirror idles out.
type Manager struct {
	policy  Policy
	idleTTL time.Duration

	mu    sync.Mutex
	syncs map[int64]*Synchronizer
}

// NewManager creates an empty registry
func NewManager(policy Policy, idleTTL time.Duration) *Manager {
	return &Manager{
		policy:  policy,
		idleTTL: idleTTL,
		syncs:   make(map[int64]*Synchronizer),
	}
}

// GetOrCreate returns the user's synchronizer, creating it and kicking off
// the initial background load on first access. The upstream bindings are
// refreshed with the given credentials either way.
func (m *Manager) GetOrCreate(userID int64, api CartAPI, catalog CatalogAPI) *Synchronizer {
	joiner := NewJoiner(catalog)

	m.mu.Lock()
	s, ok := m.syncs[userID]
	if ok {
		m.mu.Unlock()
		s.Bind(api, joiner)
		return s
	}
	s = NewSynchronizer(userID, api, joiner, m.policy)
	m.syncs[userID] = s
	m.mu.Unlock()

	go s.Load(context.Background())
	return s
}

// Get returns the user's synchronizer if one exists
func (m *Manager) Get(userID int64) (*Synchronizer, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.syncs[userID]
	return s, ok
}

// Drop clears and removes the user's mirror. Called on logout and on token
// invalidation.
func (m *Manager) Drop(userID int64) {
	m.mu.Lock()
	s, ok := m.syncs[userID]
	delete(m.syncs, userID)
	m.mu.Unlock()

	if ok {
		s.Clear()
		logger.Info("Cart mirror dropped", map[string]interface{}{
			"user_id": userID,
		})
	}
}

// ReloadAll triggers a reconciling load on every active mirror
func (m *Manager) ReloadAll(ctx context.Context) {
	m.mu.Lock()
	active := make([]*Synchronizer, 0, len(m.syncs))
	for _, s := range m.syncs {
		active = append(active, s)
	}
	m.mu.Unlock()

	for _, s := range active {
		s.Load(ctx)
	}
}

// EvictIdle removes mirrors that have not been touched within the idle TTL
func (m *Manager) EvictIdle() int {
	if m.idleTTL <= 0 {
		return 0
	}
	cutoff := time.Now().Add(-m.idleTTL)

	m.mu.Lock()
	defer m.mu.Unlock()
	evicted := 0
	for userID, s := range m.syncs {
		if s.LastUsed().Before(cutoff) {
			delete(m.syncs, userID)
			evicted++
		}
	}
	return evicted
}
