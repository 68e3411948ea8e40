package implementation

import (
	"context"

	"timetrack-be/internal/model"
	"timetrack-be/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TeamRepositoryImpl struct {
	db *gorm.DB
}

func NewTeamRepository(db *gorm.DB) repository.TeamRepository {
	return &TeamRepositoryImpl{db: db}
}

func (r *TeamRepositoryImpl) Create(ctx context.Context, team *model.Team) error {
	return r.db.WithContext(ctx).Create(team).Error
}

func (r *TeamRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*model.Team, error) {
	var team model.Team
	err := r.db.WithContext(ctx).
		Preload("Manager").
		Preload("Members.User").
		First(&team, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &team, nil
}

func (r *TeamRepositoryImpl) FindAll(ctx context.Context) ([]model.Team, error) {
	var teams []model.Team
	err := r.db.WithContext(ctx).
		Preload("Manager").
		Preload("Members.User").
		Order("created_at ASC").
		Find(&teams).Error
	return teams, err
}

func (r *TeamRepositoryImpl) AddMember(ctx context.Context, member *model.TeamMember) error {
	return r.db.WithContext(ctx).Create(member).Error
}

func (r *TeamRepositoryImpl) IsMember(ctx context.Context, teamID, userID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.TeamMember{}).
		Where("team_id = ? AND user_id = ?", teamID, userID).
		Count(&count).Error
	return count > 0, err
}
