package memory

import (
	"time"

	"recipe-steps-be/pkg/store"

	"github.com/patrickmn/go-cache"
)

type SessionRepository struct {
	cache *cache.Cache
}

// NewSessionRepository keeps idle editor sessions for ttl and purges expired
// ones every ttl/6.
func NewSessionRepository(ttl time.Duration) *SessionRepository {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &SessionRepository{
		cache: cache.New(ttl, ttl/6),
	}
}

// Save stores or refreshes the session, restarting its expiry
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

// ByRecipe returns every open session editing the recipe
func (r *SessionRepository) ByRecipe(recipeID string) []*store.Session {
	var sessions []*store.Session
	for _, item := range r.cache.Items() {
		if s, ok := item.Object.(*store.Session); ok && s.RecipeID == recipeID {
			sessions = append(sessions, s)
		}
	}
	return sessions
}

// OnEvicted registers a callback for sessions that expire or are deleted
func (r *SessionRepository) OnEvicted(fn func(session *store.Session)) {
	r.cache.OnEvicted(func(_ string, v interface{}) {
		if s, ok := v.(*store.Session); ok {
			fn(s)
		}
	})
}
