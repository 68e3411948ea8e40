package service

import (
	"context"
	"time"

	"timetrack-be/internal/dto"
	"timetrack-be/internal/model"
	"timetrack-be/internal/pkg/apperrors"
	"timetrack-be/internal/pkg/logger"
	"timetrack-be/internal/pkg/mailer"
	"timetrack-be/internal/repository"
	"timetrack-be/pkg/events"
	pktNats "timetrack-be/pkg/nats"

	"github.com/google/uuid"
)

type ITeamService interface {
	Create(ctx context.Context, managerID uuid.UUID, req *dto.CreateTeamRequest) (*model.Team, error)
	Show(ctx context.Context, id uuid.UUID) (*model.Team, error)
	GetAll(ctx context.Context) ([]model.Team, error)
	InviteMember(ctx context.Context, managerID, teamID uuid.UUID, req *dto.InviteMemberRequest) (*model.TeamMember, error)
}

type teamService struct {
	teamRepo       repository.TeamRepository
	userRepo       repository.UserRepository
	emailService   mailer.IEmailService
	eventPublisher *pktNats.Publisher
	logger         logger.ILogger
}

func NewTeamService(teamRepo repository.TeamRepository, userRepo repository.UserRepository, emailService mailer.IEmailService, eventPublisher *pktNats.Publisher, log logger.ILogger) ITeamService {
	return &teamService{
		teamRepo:       teamRepo,
		userRepo:       userRepo,
		emailService:   emailService,
		eventPublisher: eventPublisher,
		logger:         log,
	}
}

func (s *teamService) Create(ctx context.Context, managerID uuid.UUID, req *dto.CreateTeamRequest) (*model.Team, error) {
	team := &model.Team{
		Id:        uuid.New(),
		Name:      req.Name,
		ManagerId: managerID,
	}
	if err := s.teamRepo.Create(ctx, team); err != nil {
		return nil, apperrors.NewStorageError("create team", err)
	}
	return team, nil
}

func (s *teamService) Show(ctx context.Context, id uuid.UUID) (*model.Team, error) {
	return s.teamRepo.FindByID(ctx, id)
}

func (s *teamService) GetAll(ctx context.Context) ([]model.Team, error) {
	return s.teamRepo.FindAll(ctx)
}

// InviteMember adds a user to a team. Only the team's manager may invite.
// The new member is told twice: a TEAM_INVITE event feeds the notification
// worker, and an email goes out directly. Neither is allowed to fail the
// request once the membership row is written.
func (s *teamService) InviteMember(ctx context.Context, managerID, teamID uuid.UUID, req *dto.InviteMemberRequest) (*model.TeamMember, error) {
	team, err := s.teamRepo.FindByID(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if team.ManagerId != managerID {
		return nil, apperrors.NewValidationError("only the team manager can invite members")
	}

	user, err := s.userRepo.FindByID(ctx, req.UserId)
	if err != nil {
		return nil, err
	}

	already, err := s.teamRepo.IsMember(ctx, teamID, req.UserId)
	if err != nil {
		return nil, err
	}
	if already {
		return nil, apperrors.NewValidationError("user is already a member of this team")
	}

	member := &model.TeamMember{
		Id:     uuid.New(),
		TeamId: teamID,
		UserId: req.UserId,
	}
	if err := s.teamRepo.AddMember(ctx, member); err != nil {
		return nil, apperrors.NewStorageError("add team member", err)
	}

	managerName := ""
	if manager, err := s.userRepo.FindByID(ctx, managerID); err == nil {
		managerName = manager.Username
	}

	evt := events.BaseEvent{
		Type: events.TypeTeamInvite,
		Data: map[string]interface{}{
			"user_id":      user.Id.String(),
			"team_id":      team.Id.String(),
			"team_name":    team.Name,
			"manager_name": managerName,
		},
		OccurredAt: time.Now(),
	}
	if err := s.eventPublisher.Publish(ctx, evt); err != nil {
		s.logger.Error("TeamService", "Failed to publish team invite event", map[string]interface{}{"error": err.Error()})
	}

	if err := s.emailService.SendTeamInvite(user.Email, team.Name, managerName); err != nil {
		s.logger.Warn("TeamService", "Failed to send invite email", map[string]interface{}{"error": err.Error(), "email": user.Email})
	}

	return member, nil
}
