package repository

import (
	"context"
	"time"

	"timetrack-be/internal/model"

	"github.com/google/uuid"
)

type TimeEntryRepository interface {
	Create(ctx context.Context, entry *model.TimeEntry) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.TimeEntry, error)
	ListByUserInRange(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]model.TimeEntry, error)
	SetApproval(ctx context.Context, id uuid.UUID, approved bool, approverID uuid.UUID, at time.Time) error
}
