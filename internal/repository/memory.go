package repository

import (
	"context"
	"sync"
	"time"

	"github.com/handicapstudent/ppt-project/internal/models"
)

// MemoryStateRepository is the default state store for a purely local
// client: nothing survives a process restart, which is acceptable because
// an abandoned dialog holds no reserved resources.
type MemoryStateRepository struct {
	states     sync.Map
	rateLimits sync.Map
}

func NewMemoryStateRepository() *MemoryStateRepository {
	return &MemoryStateRepository{}
}

func (r *MemoryStateRepository) GetState(ctx context.Context, userID string) (*models.SessionState, error) {
	val, ok := r.states.Load(userID)
	if !ok {
		return nil, nil
	}
	return val.(*models.SessionState), nil
}

func (r *MemoryStateRepository) SetState(ctx context.Context, state *models.SessionState) error {
	r.states.Store(state.UserID, state)
	return nil
}

func (r *MemoryStateRepository) ClearState(ctx context.Context, userID string) error {
	r.states.Delete(userID)
	return nil
}

type rateLimitEntry struct {
	count     int
	expiresAt time.Time
}

func (r *MemoryStateRepository) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	now := time.Now()
	val, ok := r.rateLimits.Load(key)

	var entry *rateLimitEntry
	if !ok {
		entry = &rateLimitEntry{
			count:     1,
			expiresAt: now.Add(window),
		}
	} else {
		entry = val.(*rateLimitEntry)
		if now.After(entry.expiresAt) {
			entry.count = 1
			entry.expiresAt = now.Add(window)
		} else {
			entry.count++
		}
	}

	r.rateLimits.Store(key, entry)
	return entry.count <= limit, nil
}
