package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/tair/catalog-search/internal/activity/domain"
	searchdomain "github.com/tair/catalog-search/internal/search/domain"
)

// MemoryActivityRepository keeps activity logs in memory. Each user's log
// has its own mutex so concurrent updates for one user serialize without any
// cross-user lock.
type MemoryActivityRepository struct {
	mu   sync.RWMutex
	logs map[uint]*logEntry
}

type logEntry struct {
	mu  sync.Mutex
	log *domain.Log
}

func NewMemoryActivityRepository() *MemoryActivityRepository {
	return &MemoryActivityRepository{logs: make(map[uint]*logEntry)}
}

func (r *MemoryActivityRepository) entry(userID uint, create bool) *logEntry {
	r.mu.RLock()
	e, ok := r.logs[userID]
	r.mu.RUnlock()
	if ok || !create {
		return e
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok = r.logs[userID]; ok {
		return e
	}
	e = &logEntry{log: domain.NewLog(userID)}
	r.logs[userID] = e
	return e
}

func (r *MemoryActivityRepository) Find(ctx context.Context, userID uint) (*domain.Log, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", searchdomain.ErrDependency, err)
	}
	e := r.entry(userID, false)
	if e == nil {
		return nil, fmt.Errorf("%w: activity log for user %d", searchdomain.ErrNotFound, userID)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.log.Clone(), nil
}

func (r *MemoryActivityRepository) GetOrCreate(ctx context.Context, userID uint) (*domain.Log, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", searchdomain.ErrDependency, err)
	}
	e := r.entry(userID, true)

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.log.Clone(), nil
}

func (r *MemoryActivityRepository) Update(ctx context.Context, userID uint, fn func(*domain.Log) error) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", searchdomain.ErrDependency, err)
	}
	e := r.entry(userID, true)

	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(e.log)
}
