package memory

import (
	"time"

	"connector-selector/pkg/store"

	"github.com/patrickmn/go-cache"
)

// DefaultSessionTTL is used when the configured TTL is not positive.
const DefaultSessionTTL = 1 * time.Hour

type SessionRepository struct {
	cache *cache.Cache
	ttl   time.Duration
}

// NewSessionRepository keeps sessions for ttl after their last save. Expired
// items are purged every ttl/6.
func NewSessionRepository(ttl time.Duration) *SessionRepository {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	c := cache.New(ttl, ttl/6)
	return &SessionRepository{
		cache: c,
		ttl:   ttl,
	}
}

// Save stores the session and restarts its TTL.
func (r *SessionRepository) Save(session *store.Session) {
	r.cache.Set(session.ID, session, cache.DefaultExpiration)
}

func (r *SessionRepository) Get(sessionID string) (*store.Session, bool) {
	if x, found := r.cache.Get(sessionID); found {
		return x.(*store.Session), true
	}
	return nil, false
}

func (r *SessionRepository) Delete(sessionID string) {
	r.cache.Delete(sessionID)
}

// Count includes expired sessions that have not been purged yet.
func (r *SessionRepository) Count() int {
	return r.cache.ItemCount()
}

func (r *SessionRepository) TTL() time.Duration {
	return r.ttl
}
