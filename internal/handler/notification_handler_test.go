package handler

import (
	"net/http/httptest"
	"os"
	"testing"
	"time"

	internalWS "timetrack-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

func newWsApp(t *testing.T) (*fiber.App, *NotificationHandler) {
	t.Helper()
	hub := internalWS.NewHub(nil, nopLogger{})
	h := NewNotificationHandler(nil, hub, nopLogger{})

	app := fiber.New()
	app.Get("/ws", h.ServeWs)
	// Where vite-hmr traffic lands after the passthrough.
	app.Get("/ws", func(c *fiber.Ctx) error {
		return c.SendString("hmr")
	})
	return app, h
}

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(os.Getenv("JWT_SECRET")))
	require.NoError(t, err)
	return signed
}

func TestServeWsViteHmrPassthrough(t *testing.T) {
	app, _ := newWsApp(t)

	req := httptest.NewRequest("GET", "/ws", nil)
	req.Header.Set("Sec-Websocket-Protocol", "vite-hmr")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode, "hmr traffic must fall through to the next route")
}

func TestServeWsRequiresUpgrade(t *testing.T) {
	app, _ := newWsApp(t)

	req := httptest.NewRequest("GET", "/ws?token=whatever", nil)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUpgradeRequired, resp.StatusCode)
}

func TestParseIdentity(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	userID := uuid.New()
	valid := jwt.MapClaims{
		"user_id": userID.String(),
		"exp":     time.Now().Add(time.Hour).Unix(),
	}

	_, h := newWsApp(t)

	tests := []struct {
		name     string
		token    string
		wantOK   bool
		wantUser uuid.UUID
	}{
		{
			name:     "valid token",
			token:    signToken(t, valid),
			wantOK:   true,
			wantUser: userID,
		},
		{
			name:   "empty token",
			token:  "",
			wantOK: false,
		},
		{
			name:   "garbage token",
			token:  "not-a-jwt",
			wantOK: false,
		},
		{
			name: "missing user_id claim",
			token: signToken(t, jwt.MapClaims{
				"exp": time.Now().Add(time.Hour).Unix(),
			}),
			wantOK: false,
		},
		{
			name: "user_id not a uuid",
			token: signToken(t, jwt.MapClaims{
				"user_id": "42",
				"exp":     time.Now().Add(time.Hour).Unix(),
			}),
			wantOK: false,
		},
		{
			name: "expired token",
			token: signToken(t, jwt.MapClaims{
				"user_id": userID.String(),
				"exp":     time.Now().Add(-time.Hour).Unix(),
			}),
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := h.parseIdentity(tt.token)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantUser, got)
			}
		})
	}
}
