package repository

import (
	"context"
	"sync"
	"time"

	"authapi/internal/entity"

	"gorm.io/gorm"
)

type SecurityLogRepository interface {
	Log(ctx context.Context, log *entity.SecurityLog) error
	ListByUser(ctx context.Context, userID int64, limit int) ([]entity.SecurityLog, error)
}

type securityLogRepository struct {
	db *gorm.DB
}

func NewSecurityLogRepository(db *gorm.DB) SecurityLogRepository {
	return &securityLogRepository{db: db}
}

func (r *securityLogRepository) Log(ctx context.Context, log *entity.SecurityLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *securityLogRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]entity.SecurityLog, error) {
	var logs []entity.SecurityLog
	query := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

// MemorySecurityLogRepository keeps security logs in process memory, newest last.
type MemorySecurityLogRepository struct {
	mutex  sync.Mutex
	nextID int64
	logs   []entity.SecurityLog
}

func NewMemorySecurityLogRepository() *MemorySecurityLogRepository {
	return &MemorySecurityLogRepository{}
}

func (r *MemorySecurityLogRepository) Log(_ context.Context, log *entity.SecurityLog) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.nextID++
	log.ID = r.nextID
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now()
	}
	r.logs = append(r.logs, *log)
	return nil
}

func (r *MemorySecurityLogRepository) ListByUser(_ context.Context, userID int64, limit int) ([]entity.SecurityLog, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	var logs []entity.SecurityLog
	for i := len(r.logs) - 1; i >= 0; i-- {
		if r.logs[i].UserID == nil || *r.logs[i].UserID != userID {
			continue
		}
		logs = append(logs, r.logs[i])
		if limit > 0 && len(logs) == limit {
			break
		}
	}
	return logs, nil
}

// Actions returns every recorded action in insertion order.
func (r *MemorySecurityLogRepository) Actions() []entity.SecurityAction {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	actions := make([]entity.SecurityAction, 0, len(r.logs))
	for _, log := range r.logs {
		actions = append(actions, log.Action)
	}
	return actions
}
