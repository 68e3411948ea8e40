package implementation

import (
	"context"
	"time"

	"timetrack-be/internal/model"
	"timetrack-be/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TimeEntryRepositoryImpl struct {
	db *gorm.DB
}

func NewTimeEntryRepository(db *gorm.DB) repository.TimeEntryRepository {
	return &TimeEntryRepositoryImpl{db: db}
}

func (r *TimeEntryRepositoryImpl) Create(ctx context.Context, entry *model.TimeEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *TimeEntryRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*model.TimeEntry, error) {
	var entry model.TimeEntry
	err := r.db.WithContext(ctx).
		Preload("Project").
		First(&entry, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *TimeEntryRepositoryImpl) ListByUserInRange(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]model.TimeEntry, error) {
	var entries []model.TimeEntry
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND start_time >= ? AND start_time <= ?", userID, start, end).
		Preload("Project").
		Order("start_time DESC").
		Find(&entries).Error
	return entries, err
}

func (r *TimeEntryRepositoryImpl) SetApproval(ctx context.Context, id uuid.UUID, approved bool, approverID uuid.UUID, at time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&model.TimeEntry{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"approved":       approved,
			"approved_by_id": approverID,
			"approved_at":    at,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
