package dto

import (
	"time"

	"github.com/google/uuid"
)

type StartTrackerRequest struct {
	ProjectId uuid.UUID `json:"project_id"`
}

type TrackerStatusResponse struct {
	Phase          string     `json:"phase"`
	ProjectId      *uuid.UUID `json:"project_id,omitempty"`
	ElapsedSeconds int        `json:"elapsed_seconds"`
	StartTime      *time.Time `json:"start_time,omitempty"`
}

type StopTrackerResponse struct {
	EntryId        uuid.UUID `json:"entry_id"`
	ProjectId      uuid.UUID `json:"project_id"`
	StartTime      time.Time `json:"start_time"`
	EndTime        time.Time `json:"end_time"`
	ElapsedSeconds int       `json:"elapsed_seconds"`
}
