package dto

import "github.com/google/uuid"

type CreateTeamRequest struct {
	Name string `json:"name" validate:"required,max=255"`
}

type InviteMemberRequest struct {
	UserId uuid.UUID `json:"user_id" validate:"required"`
}
