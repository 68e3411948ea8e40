package model

import (
	"time"

	"github.com/google/uuid"
)

type Team struct {
	Id        uuid.UUID    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name      string       `gorm:"type:varchar(255);not null" json:"name"`
	ManagerId uuid.UUID    `gorm:"type:uuid;not null" json:"manager_id"`
	Manager   *User        `gorm:"foreignKey:ManagerId" json:"manager,omitempty"`
	Members   []TeamMember `gorm:"foreignKey:TeamId" json:"members,omitempty"`
	CreatedAt time.Time    `gorm:"autoCreateTime" json:"created_at"`
}

func (Team) TableName() string {
	return "teams"
}

type TeamMember struct {
	Id       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	TeamId   uuid.UUID `gorm:"type:uuid;not null;index:idx_team_members_team_user,priority:1" json:"team_id"`
	UserId   uuid.UUID `gorm:"type:uuid;not null;index:idx_team_members_team_user,priority:2" json:"user_id"`
	User     *User     `gorm:"foreignKey:UserId" json:"user,omitempty"`
	JoinedAt time.Time `gorm:"autoCreateTime" json:"joined_at"`
}

func (TeamMember) TableName() string {
	return "team_members"
}
