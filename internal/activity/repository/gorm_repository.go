package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/tair/catalog-search/internal/activity/domain"
	searchdomain "github.com/tair/catalog-search/internal/search/domain"
)

// userActivityRecord is the persisted row: the whole log serialized as JSON.
// A log tops out at 500 events, so the document stays small.
type userActivityRecord struct {
	UserID       uint   `gorm:"primaryKey"`
	Log          []byte `gorm:"type:jsonb"`
	LastActiveAt time.Time
	UpdatedAt    time.Time
}

func (userActivityRecord) TableName() string {
	return "user_activity_logs"
}

// GormActivityRepository persists activity logs in PostgreSQL. Per-user
// mutexes serialize the read-modify-write cycle of Update; no global lock is
// held across users.
type GormActivityRepository struct {
	db *gorm.DB

	mu    sync.Mutex
	locks map[uint]*sync.Mutex
}

func NewGormActivityRepository(db *gorm.DB) *GormActivityRepository {
	return &GormActivityRepository{db: db, locks: make(map[uint]*sync.Mutex)}
}

func (r *GormActivityRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&userActivityRecord{})
}

func (r *GormActivityRepository) userLock(userID uint) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.locks[userID]
	if !ok {
		l = &sync.Mutex{}
		r.locks[userID] = l
	}
	return l
}

func (r *GormActivityRepository) load(ctx context.Context, userID uint) (*domain.Log, error) {
	var record userActivityRecord
	err := r.db.WithContext(ctx).First(&record, "user_id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: activity log for user %d", searchdomain.ErrNotFound, userID)
		}
		return nil, fmt.Errorf("%w: activity store: %v", searchdomain.ErrDependency, err)
	}

	log := &domain.Log{}
	if err := json.Unmarshal(record.Log, log); err != nil {
		return nil, fmt.Errorf("%w: corrupt activity log for user %d: %v", searchdomain.ErrDependency, userID, err)
	}
	return log, nil
}

func (r *GormActivityRepository) save(ctx context.Context, log *domain.Log) error {
	payload, err := json.Marshal(log)
	if err != nil {
		return fmt.Errorf("%w: encode activity log: %v", searchdomain.ErrDependency, err)
	}
	record := userActivityRecord{
		UserID:       log.UserID,
		Log:          payload,
		LastActiveAt: log.LastActiveAt,
	}
	if err := r.db.WithContext(ctx).Save(&record).Error; err != nil {
		return fmt.Errorf("%w: activity store: %v", searchdomain.ErrDependency, err)
	}
	return nil
}

func (r *GormActivityRepository) Find(ctx context.Context, userID uint) (*domain.Log, error) {
	lock := r.userLock(userID)
	lock.Lock()
	defer lock.Unlock()
	return r.load(ctx, userID)
}

func (r *GormActivityRepository) GetOrCreate(ctx context.Context, userID uint) (*domain.Log, error) {
	lock := r.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	log, err := r.load(ctx, userID)
	if err == nil {
		return log, nil
	}
	if !errors.Is(err, searchdomain.ErrNotFound) {
		return nil, err
	}

	log = domain.NewLog(userID)
	if err := r.save(ctx, log); err != nil {
		return nil, err
	}
	return log, nil
}

func (r *GormActivityRepository) Update(ctx context.Context, userID uint, fn func(*domain.Log) error) error {
	lock := r.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	log, err := r.load(ctx, userID)
	if err != nil {
		if !errors.Is(err, searchdomain.ErrNotFound) {
			return err
		}
		log = domain.NewLog(userID)
	}

	if err := fn(log); err != nil {
		return err
	}
	return r.save(ctx, log)
}
