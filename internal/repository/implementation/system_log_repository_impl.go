package implementation

import (
	"context"

	"timetrack-be/internal/model"
	"timetrack-be/internal/repository"

	"gorm.io/gorm"
)

type SystemLogRepositoryImpl struct {
	db *gorm.DB
}

func NewSystemLogRepository(db *gorm.DB) repository.SystemLogRepository {
	return &SystemLogRepositoryImpl{db: db}
}

func (r *SystemLogRepositoryImpl) Create(ctx context.Context, entry *model.SystemLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}
