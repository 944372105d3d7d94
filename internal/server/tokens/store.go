package tokens

import (
	"context"
	"sync"
	"time"

	"github.com/jayakumar9/Atlas-Account-Vault-09.04.25-V0/internal/logging"
)

// Grant allows fetching a single account's attachment until Expires.
type Grant struct {
	AccountID string
	Expires   time.Time
}

// Store holds short-lived file access grants.
type Store interface {
	Put(token string, accountID string, validity time.Duration)
	Get(token string) (Grant, bool)
	Sweep() int
}

// MemoryStore keeps grants in a map guarded by a mutex. Entries are
// removed lazily on Get and in bulk by Sweep.
type MemoryStore struct {
	mu     sync.RWMutex
	grants map[string]Grant
	now    func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		grants: make(map[string]Grant),
		now:    time.Now,
	}
}

func (s *MemoryStore) Put(token string, accountID string, validity time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.grants[token] = Grant{AccountID: accountID, Expires: s.now().Add(validity)}
}

func (s *MemoryStore) Get(token string) (Grant, bool) {
	s.mu.RLock()
	g, ok := s.grants[token]
	s.mu.RUnlock()
	if !ok {
		return Grant{}, false
	}
	if !s.now().Before(g.Expires) {
		s.mu.Lock()
		delete(s.grants, token)
		s.mu.Unlock()
		return Grant{}, false
	}
	return g, true
}

func (s *MemoryStore) Sweep() int {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for token, g := range s.grants {
		if !now.Before(g.Expires) {
			delete(s.grants, token)
			removed++
		}
	}
	return removed
}

// RunSweeper removes expired grants on a fixed interval until ctx is done.
func RunSweeper(ctx context.Context, store Store, interval time.Duration, logger logging.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := store.Sweep(); removed > 0 {
				logger.Debug(ctx, "expired file tokens removed", "count", removed)
			}
		}
	}
}
