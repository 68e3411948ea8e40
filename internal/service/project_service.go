package service

import (
	"context"

	"timetrack-be/internal/dto"
	"timetrack-be/internal/model"
	"timetrack-be/internal/pkg/apperrors"
	"timetrack-be/internal/repository"

	"github.com/google/uuid"
)

type IProjectService interface {
	Create(ctx context.Context, userID uuid.UUID, req *dto.CreateProjectRequest) (*model.Project, error)
	Show(ctx context.Context, id uuid.UUID) (*model.Project, error)
	GetAll(ctx context.Context) ([]model.Project, error)
}

type projectService struct {
	repo repository.ProjectRepository
}

func NewProjectService(repo repository.ProjectRepository) IProjectService {
	return &projectService{repo: repo}
}

func (s *projectService) Create(ctx context.Context, userID uuid.UUID, req *dto.CreateProjectRequest) (*model.Project, error) {
	project := &model.Project{
		Id:          uuid.New(),
		Name:        req.Name,
		Description: req.Description,
		CreatedById: &userID,
	}
	if err := s.repo.Create(ctx, project); err != nil {
		return nil, apperrors.NewStorageError("create project", err)
	}
	return project, nil
}

func (s *projectService) Show(ctx context.Context, id uuid.UUID) (*model.Project, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *projectService) GetAll(ctx context.Context) ([]model.Project, error) {
	return s.repo.FindAll(ctx)
}
