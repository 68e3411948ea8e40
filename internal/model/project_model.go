package model

import (
	"time"

	"github.com/google/uuid"
)

type Project struct {
	Id          uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name        string     `gorm:"type:varchar(255);not null" json:"name"`
	Description *string    `gorm:"type:text" json:"description,omitempty"`
	CreatedById *uuid.UUID `gorm:"type:uuid" json:"created_by_id,omitempty"`
	CreatedBy   *User      `gorm:"foreignKey:CreatedById" json:"created_by,omitempty"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

func (Project) TableName() string {
	return "projects"
}
