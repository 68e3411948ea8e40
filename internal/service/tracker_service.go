package service

import (
	"context"
	"fmt"
	"time"

	"timetrack-be/internal/dto"
	"timetrack-be/internal/model"
	"timetrack-be/internal/pkg/apperrors"
	"timetrack-be/internal/pkg/logger"
	"timetrack-be/internal/repository"
	"timetrack-be/internal/repository/memory"
	"timetrack-be/internal/tracker"

	"github.com/google/uuid"
)

type ITrackerService interface {
	Start(ctx context.Context, userID uuid.UUID, req *dto.StartTrackerRequest) (*dto.TrackerStatusResponse, error)
	Pause(ctx context.Context, userID uuid.UUID) (*dto.TrackerStatusResponse, error)
	Stop(ctx context.Context, userID uuid.UUID) (*dto.StopTrackerResponse, error)
	Status(ctx context.Context, userID uuid.UUID) (*dto.TrackerStatusResponse, error)
}

// trackerService holds the live sessions. Sessions are memory only: a crash
// loses whatever was running, and only a Stop that clears the minimum
// duration produces a durable time entry.
type trackerService struct {
	sessions    *memory.TrackerRepository
	entryRepo   repository.TimeEntryRepository
	projectRepo repository.ProjectRepository
	audit       IAuditService
	logger      logger.ILogger
}

func NewTrackerService(sessions *memory.TrackerRepository, entryRepo repository.TimeEntryRepository, projectRepo repository.ProjectRepository, audit IAuditService, log logger.ILogger) ITrackerService {
	return &trackerService{
		sessions:    sessions,
		entryRepo:   entryRepo,
		projectRepo: projectRepo,
		audit:       audit,
		logger:      log,
	}
}

func (s *trackerService) Start(ctx context.Context, userID uuid.UUID, req *dto.StartTrackerRequest) (*dto.TrackerStatusResponse, error) {
	if req.ProjectId == uuid.Nil {
		return nil, apperrors.NewValidationError("project_id is required")
	}
	if _, err := s.projectRepo.FindByID(ctx, req.ProjectId); err != nil {
		return nil, err
	}

	t, ok := s.sessions.Get(userID)
	if !ok {
		t = tracker.New(userID, s)
		s.sessions.Save(userID, t)
	}

	if err := t.Start(req.ProjectId); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, "TRACKER_START", userID, map[string]interface{}{"project_id": req.ProjectId.String()})
	return statusResponse(t.Status()), nil
}

func (s *trackerService) Pause(ctx context.Context, userID uuid.UUID) (*dto.TrackerStatusResponse, error) {
	t, ok := s.sessions.Get(userID)
	if !ok {
		return nil, apperrors.NewValidationError("no active session")
	}
	if err := t.Pause(); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, "TRACKER_PAUSE", userID, nil)
	return statusResponse(t.Status()), nil
}

func (s *trackerService) Stop(ctx context.Context, userID uuid.UUID) (*dto.StopTrackerResponse, error) {
	t, ok := s.sessions.Get(userID)
	if !ok {
		return nil, apperrors.NewValidationError("no active session")
	}

	elapsed := t.Status().ElapsedSeconds
	entry, err := t.Stop(ctx)
	if err != nil {
		// Validation errors left the session as it was; a storage error put
		// it back to running so the user can retry without losing time.
		return nil, err
	}

	s.sessions.Delete(userID)
	s.audit.Record(ctx, "TRACKER_STOP", userID, map[string]interface{}{
		"entry_id":   entry.Id.String(),
		"project_id": entry.ProjectId.String(),
	})

	return &dto.StopTrackerResponse{
		EntryId:        entry.Id,
		ProjectId:      entry.ProjectId,
		StartTime:      entry.StartTime,
		EndTime:        *entry.EndTime,
		ElapsedSeconds: elapsed,
	}, nil
}

func (s *trackerService) Status(ctx context.Context, userID uuid.UUID) (*dto.TrackerStatusResponse, error) {
	t, ok := s.sessions.Get(userID)
	if !ok {
		return &dto.TrackerStatusResponse{Phase: string(tracker.PhaseIdle)}, nil
	}
	return statusResponse(t.Status()), nil
}

// SaveEntry persists a finalized session as a time entry.
func (s *trackerService) SaveEntry(ctx context.Context, userID, projectID uuid.UUID, start, end time.Time, elapsedSeconds int) (*model.TimeEntry, error) {
	description := "Time tracked"
	if project, err := s.projectRepo.FindByID(ctx, projectID); err == nil {
		description = fmt.Sprintf("Time tracked for %s", project.Name)
	}

	entry := &model.TimeEntry{
		Id:          uuid.New(),
		UserId:      userID,
		ProjectId:   projectID,
		StartTime:   start,
		EndTime:     &end,
		Description: description,
	}
	if err := s.entryRepo.Create(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func statusResponse(st tracker.Status) *dto.TrackerStatusResponse {
	resp := &dto.TrackerStatusResponse{
		Phase:          string(st.Phase),
		ElapsedSeconds: st.ElapsedSeconds,
	}
	if st.ProjectID != uuid.Nil {
		projectID := st.ProjectID
		resp.ProjectId = &projectID
	}
	if !st.StartTime.IsZero() {
		startTime := st.StartTime
		resp.StartTime = &startTime
	}
	return resp
}
