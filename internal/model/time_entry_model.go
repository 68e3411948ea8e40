package model

import (
	"time"

	"github.com/google/uuid"
)

// TimeEntry is created once, at the moment a running session is stopped.
// Everything except the approval fields is immutable after that.
type TimeEntry struct {
	Id           uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserId       uuid.UUID  `gorm:"type:uuid;not null;index:idx_time_entries_user_start,priority:1" json:"user_id"`
	ProjectId    uuid.UUID  `gorm:"type:uuid;not null;index" json:"project_id"`
	Project      *Project   `gorm:"foreignKey:ProjectId" json:"project,omitempty"`
	StartTime    time.Time  `gorm:"not null;index:idx_time_entries_user_start,priority:2" json:"start_time"`
	EndTime      *time.Time `json:"end_time,omitempty"`
	Description  string     `gorm:"type:text" json:"description,omitempty"`
	Approved     bool       `gorm:"default:false" json:"approved"`
	ApprovedById *uuid.UUID `gorm:"type:uuid" json:"approved_by_id,omitempty"`
	ApprovedAt   *time.Time `json:"approved_at,omitempty"`
	CreatedAt    time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

func (TimeEntry) TableName() string {
	return "time_entries"
}
