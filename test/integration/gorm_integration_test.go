package integration

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"timetrack-be/internal/model"
	"timetrack-be/internal/repository/implementation"
	"timetrack-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormConnection(t *testing.T) {
	// Load .env from root
	err := godotenv.Load("../../.env")
	if err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}

	// Basic Ping
	sqlDB, _ := gormDB.DB()
	err = sqlDB.Ping()
	assert.NoError(t, err)
	t.Log("Successfully connected to DB")

	ctx := context.Background()
	userRepo := implementation.NewUserRepository(gormDB)
	notifRepo := implementation.NewNotificationRepository(gormDB)
	entryRepo := implementation.NewTimeEntryRepository(gormDB)

	// Verify Data Access (implies columns exist)
	t.Run("Check User Repository", func(t *testing.T) {
		users, err := userRepo.FindAll(ctx)
		assert.NoError(t, err)
		t.Logf("User count: %d", len(users))
	})

	t.Run("Notification round trip", func(t *testing.T) {
		user := &model.User{
			Id:           uuid.New(),
			Username:     "it_" + uuid.NewString()[:8],
			Email:        uuid.NewString()[:8] + "@example.com",
			PasswordHash: "x",
		}
		require.NoError(t, userRepo.Create(ctx, user))
		defer gormDB.Delete(user)

		notif := &model.Notification{
			ID:      uuid.New(),
			UserID:  user.Id,
			Type:    model.NotificationApproval,
			Message: "integration check",
		}
		require.NoError(t, notifRepo.Create(ctx, notif))
		defer gormDB.Delete(notif)

		count, err := notifRepo.UnreadCount(ctx, user.Id)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)

		read, err := notifRepo.MarkRead(ctx, user.Id, notif.ID)
		require.NoError(t, err)
		assert.True(t, read.Read)
		assert.NotNil(t, read.ReadAt)

		count, err = notifRepo.UnreadCount(ctx, user.Id)
		require.NoError(t, err)
		assert.Equal(t, int64(0), count)
	})

	t.Run("Time entry range query", func(t *testing.T) {
		userID := uuid.New()
		entries, err := entryRepo.ListByUserInRange(ctx, userID, time.Now().AddDate(0, 0, -7), time.Now())
		assert.NoError(t, err)
		assert.Empty(t, entries)
	})
}
