package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// SystemLog rows are written by the audit consumer, not by request handlers.
type SystemLog struct {
	Id        uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Action    string         `gorm:"type:varchar(50);not null;index"`
	ActorId   *uuid.UUID     `gorm:"type:uuid;index"`
	Details   datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt time.Time      `gorm:"default:now();not null;index"`
}

func (SystemLog) TableName() string {
	return "system_logs"
}
