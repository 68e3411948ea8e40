package repository

import (
	"context"

	"timetrack-be/internal/model"
)

type SystemLogRepository interface {
	Create(ctx context.Context, entry *model.SystemLog) error
}
