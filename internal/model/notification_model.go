package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Notification kinds. The column is free-form text so new kinds can be added
// without a migration.
const (
	NotificationApproval   = "APPROVAL"
	NotificationRejection  = "REJECTION"
	NotificationTeamInvite = "TEAM_INVITE"
)

// Notification is the durable per-user record. Append-only; only the read
// flag (and read_at) ever mutate.
type Notification struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID    uuid.UUID      `gorm:"type:uuid;not null;index:idx_notifications_user_created,priority:1;index:idx_notifications_user_unread,priority:1" json:"user_id"`
	Type      string         `gorm:"type:varchar(50);not null;index:idx_notifications_type" json:"type"`
	Message   string         `gorm:"type:text;not null" json:"message"`
	Metadata  datatypes.JSON `gorm:"type:jsonb" json:"metadata,omitempty"`
	Read      bool           `gorm:"default:false;index:idx_notifications_user_unread,priority:2" json:"read"`
	ReadAt    *time.Time     `json:"read_at,omitempty"`
	CreatedAt time.Time      `gorm:"default:CURRENT_TIMESTAMP;index:idx_notifications_user_created,priority:2" json:"created_at"`
}

func (Notification) TableName() string {
	return "notifications"
}
