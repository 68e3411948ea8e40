package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"timetrack-be/internal/model"
	"timetrack-be/internal/pkg/apperrors"
	"timetrack-be/pkg/events"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeNotificationRepo struct {
	created  []model.Notification
	failNext error
}

func (f *fakeNotificationRepo) Create(ctx context.Context, n *model.Notification) error {
	if f.failNext != nil {
		err := f.failNext
		f.failNext = nil
		return err
	}
	f.created = append(f.created, *n)
	return nil
}

func (f *fakeNotificationRepo) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Notification, int64, error) {
	var out []model.Notification
	for _, n := range f.created {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeNotificationRepo) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	for _, n := range f.created {
		if n.UserID == userID && !n.Read {
			count++
		}
	}
	return count, nil
}

func (f *fakeNotificationRepo) MarkRead(ctx context.Context, userID, id uuid.UUID) (*model.Notification, error) {
	for i := range f.created {
		if f.created[i].ID == id && f.created[i].UserID == userID {
			now := time.Now()
			f.created[i].Read = true
			f.created[i].ReadAt = &now
			return &f.created[i], nil
		}
	}
	return nil, errors.New("not found")
}

func (f *fakeNotificationRepo) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	for i := range f.created {
		if f.created[i].UserID == userID {
			f.created[i].Read = true
		}
	}
	return nil
}

type fakeDelivery struct {
	sent []model.Notification
}

func (f *fakeDelivery) Send(userID uuid.UUID, n model.Notification) {
	f.sent = append(f.sent, n)
}

type testLogger struct{}

func (testLogger) Debug(module, message string, details map[string]interface{}) {}
func (testLogger) Info(module, message string, details map[string]interface{})  {}
func (testLogger) Warn(module, message string, details map[string]interface{})  {}
func (testLogger) Error(module, message string, details map[string]interface{}) {}
func (testLogger) Sync() error                                                  { return nil }

func TestNotifyWritesThenPushes(t *testing.T) {
	repo := &fakeNotificationRepo{}
	delivery := &fakeDelivery{}
	svc := NewNotificationService(repo, nil, delivery, testLogger{})

	userID := uuid.New()
	notif, err := svc.Notify(context.Background(), userID, model.NotificationApproval, "Your time entry for Acme was approved", map[string]interface{}{"entry_id": uuid.New().String()})
	require.NoError(t, err)

	require.Len(t, repo.created, 1, "exactly one durable record")
	require.Len(t, delivery.sent, 1, "exactly one push")
	assert.Equal(t, repo.created[0].ID, delivery.sent[0].ID, "pushed frame carries the stored record")
	assert.Equal(t, userID, notif.UserID)
	assert.False(t, notif.Read)
	assert.NotNil(t, notif.Metadata)
}

func TestNotifyStorageFailureSkipsPush(t *testing.T) {
	repo := &fakeNotificationRepo{failNext: errors.New("connection refused")}
	delivery := &fakeDelivery{}
	svc := NewNotificationService(repo, nil, delivery, testLogger{})

	_, err := svc.Notify(context.Background(), uuid.New(), model.NotificationApproval, "msg", nil)
	require.Error(t, err)
	assert.True(t, apperrors.IsStorage(err), "durable write failure surfaces as a storage error")
	assert.Empty(t, delivery.sent, "nothing may be pushed when the write failed")
}

func TestNotifyWithoutDelivery(t *testing.T) {
	repo := &fakeNotificationRepo{}
	svc := NewNotificationService(repo, nil, nil, testLogger{})

	// The durable record stands on its own even with no live channel layer.
	_, err := svc.Notify(context.Background(), uuid.New(), model.NotificationTeamInvite, "msg", nil)
	require.NoError(t, err)
	assert.Len(t, repo.created, 1)
}

func TestHandleEventMapsKnownTypes(t *testing.T) {
	tests := []struct {
		name     string
		event    events.BaseEvent
		wantKind string
		wantMsg  string
	}{
		{
			name: "entry approved",
			event: events.BaseEvent{
				Type: events.TypeEntryApproved,
				Data: map[string]interface{}{"project_name": "Acme Redesign"},
			},
			wantKind: model.NotificationApproval,
			wantMsg:  "Your time entry for Acme Redesign was approved",
		},
		{
			name: "entry rejected",
			event: events.BaseEvent{
				Type: events.TypeEntryRejected,
				Data: map[string]interface{}{"project_name": "Acme Redesign"},
			},
			wantKind: model.NotificationRejection,
			wantMsg:  "Your time entry for Acme Redesign was rejected",
		},
		{
			name: "team invite",
			event: events.BaseEvent{
				Type: events.TypeTeamInvite,
				Data: map[string]interface{}{"team_name": "Platform", "manager_name": "dana"},
			},
			wantKind: model.NotificationTeamInvite,
			wantMsg:  "dana added you to the team Platform",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeNotificationRepo{}
			delivery := &fakeDelivery{}
			svc := NewNotificationService(repo, nil, delivery, testLogger{})

			userID := uuid.New()
			tt.event.Data["user_id"] = userID.String()
			tt.event.OccurredAt = time.Now()

			err := svc.handleEvent(context.Background(), tt.event)
			require.NoError(t, err)

			require.Len(t, repo.created, 1)
			assert.Equal(t, tt.wantKind, repo.created[0].Type)
			assert.Equal(t, tt.wantMsg, repo.created[0].Message)
			assert.Equal(t, userID, repo.created[0].UserID)
			require.Len(t, delivery.sent, 1)
		})
	}
}

func TestHandleEventUnknownTypeAcked(t *testing.T) {
	repo := &fakeNotificationRepo{}
	svc := NewNotificationService(repo, nil, nil, testLogger{})

	err := svc.handleEvent(context.Background(), events.BaseEvent{
		Type:       "SOMETHING_ELSE",
		Data:       map[string]interface{}{"user_id": uuid.New().String()},
		OccurredAt: time.Now(),
	})
	require.NoError(t, err, "unknown types must not be redelivered")
	assert.Empty(t, repo.created)
}

func TestHandleEventMissingUserSkipped(t *testing.T) {
	repo := &fakeNotificationRepo{}
	svc := NewNotificationService(repo, nil, nil, testLogger{})

	err := svc.handleEvent(context.Background(), events.BaseEvent{
		Type:       events.TypeEntryApproved,
		Data:       map[string]interface{}{"project_name": "Acme"},
		OccurredAt: time.Now(),
	})
	require.NoError(t, err)
	assert.Empty(t, repo.created)
}
