package repository

import (
	"context"

	"timetrack-be/internal/model"

	"github.com/google/uuid"
)

type ProjectRepository interface {
	Create(ctx context.Context, project *model.Project) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Project, error)
	FindAll(ctx context.Context) ([]model.Project, error)
}
