package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateTimeEntryRequest struct {
	ProjectId   uuid.UUID `json:"project_id" validate:"required"`
	StartTime   time.Time `json:"start_time" validate:"required"`
	EndTime     time.Time `json:"end_time" validate:"required"`
	Description string    `json:"description"`
}

type ListTimeEntriesQuery struct {
	Start *time.Time
	End   *time.Time
}
