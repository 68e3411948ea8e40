package repository

import (
	"context"

	"timetrack-be/internal/model"

	"github.com/google/uuid"
)

type TeamRepository interface {
	Create(ctx context.Context, team *model.Team) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Team, error)
	FindAll(ctx context.Context) ([]model.Team, error)
	AddMember(ctx context.Context, member *model.TeamMember) error
	IsMember(ctx context.Context, teamID, userID uuid.UUID) (bool, error)
}
