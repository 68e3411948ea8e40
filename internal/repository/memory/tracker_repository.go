package memory

import (
	"time"

	"timetrack-be/internal/tracker"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// TrackerRepository holds the per-user active tracking session. Sessions are
// transient: an abandoned one is evicted by the cache and its ticker torn
// down, never partially persisted.
type TrackerRepository struct {
	cache *cache.Cache
}

func NewTrackerRepository() *TrackerRepository {
	c := cache.New(12*time.Hour, 30*time.Minute)
	c.OnEvicted(func(key string, value interface{}) {
		if t, ok := value.(*tracker.Tracker); ok {
			t.Discard()
		}
	})
	return &TrackerRepository{
		cache: c,
	}
}

func (r *TrackerRepository) Save(userID uuid.UUID, t *tracker.Tracker) {
	r.cache.Set(userID.String(), t, cache.DefaultExpiration)
}

func (r *TrackerRepository) Get(userID uuid.UUID) (*tracker.Tracker, bool) {
	if x, found := r.cache.Get(userID.String()); found {
		return x.(*tracker.Tracker), true
	}
	return nil, false
}

func (r *TrackerRepository) Delete(userID uuid.UUID) {
	r.cache.Delete(userID.String())
}
