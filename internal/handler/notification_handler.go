package handler

import (
	"os"

	"timetrack-be/internal/pkg/logger"
	"timetrack-be/internal/pkg/serverutils"
	"timetrack-be/internal/service"
	internalWS "timetrack-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type NotificationHandler struct {
	service *service.NotificationService
	hub     *internalWS.Hub
	logger  logger.ILogger
}

func NewNotificationHandler(service *service.NotificationService, hub *internalWS.Hub, log logger.ILogger) *NotificationHandler {
	return &NotificationHandler{
		service: service,
		hub:     hub,
		logger:  log,
	}
}

// ServeWs handles websocket requests from the peer.
//
// Requests carrying the vite-hmr subprotocol belong to the dev server's
// hot-reload channel, not to us. They are passed through untouched so the
// next handler (or proxy) can pick them up.
func (h *NotificationHandler) ServeWs(c *fiber.Ctx) error {
	if proto := c.Get("Sec-Websocket-Protocol"); proto == "vite-hmr" {
		return c.Next()
	}

	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	// Resolve identity before the upgrade. Priority 1: query param (browser
	// WebSocket API cannot set headers). Priority 2: Authorization header.
	tokenStr := c.Query("token")
	if tokenStr == "" {
		authHeader := c.Get("Authorization")
		if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
			tokenStr = authHeader[7:]
		}
	}

	userID, identified := h.parseIdentity(tokenStr)

	return websocket.New(func(conn *websocket.Conn) {
		// A client with a bad or missing token still gets a completed
		// handshake; its socket is closed immediately and it is never
		// registered, so nothing can be delivered to it.
		if !identified {
			h.logger.Warn("NotificationHandler", "Closing unidentified WebSocket", map[string]interface{}{
				"remote": conn.RemoteAddr().String(),
			})
			conn.Close()
			return
		}

		h.logger.Info("NotificationHandler", "Starting WebSocket session", map[string]interface{}{"user_id": userID})
		client := internalWS.NewClient(h.hub, conn, userID)
		h.hub.Register(client)
		client.Run()
		h.logger.Info("NotificationHandler", "WebSocket session ended", map[string]interface{}{"user_id": userID})
	})(c)
}

func (h *NotificationHandler) parseIdentity(tokenStr string) (uuid.UUID, bool) {
	if tokenStr == "" {
		return uuid.Nil, false
	}

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.ErrUnauthorized
		}
		return []byte(os.Getenv("JWT_SECRET")), nil
	})
	if err != nil || !token.Valid {
		h.logger.Warn("NotificationHandler", "Invalid token in WS handshake", map[string]interface{}{"error": err})
		return uuid.Nil, false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, false
	}
	userIDStr, ok := claims["user_id"].(string)
	if !ok {
		return uuid.Nil, false
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return uuid.Nil, false
	}
	return userID, true
}

// GetNotifications returns the user's notifications, newest first.
func (h *NotificationHandler) GetNotifications(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Locals("user_id").(string))
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user ID"})
	}

	limit := c.QueryInt("limit", 20)
	offset := c.QueryInt("offset", 0)

	notifications, total, err := h.service.GetNotifications(c.UserContext(), userID, limit, offset)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"data":  notifications,
		"total": total,
		"limit": limit,
	})
}

// GetUnreadCount returns the number of unread notifications.
func (h *NotificationHandler) GetUnreadCount(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Locals("user_id").(string))
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user ID"})
	}

	count, err := h.service.GetUnreadCount(c.UserContext(), userID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"count": count})
}

// MarkAsRead marks a specific notification as read and returns the row.
func (h *NotificationHandler) MarkAsRead(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Locals("user_id").(string))
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user ID"})
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ID"})
	}

	notification, err := h.service.MarkAsRead(c.UserContext(), userID, id)
	if err != nil {
		return err
	}

	return c.JSON(notification)
}

// MarkAllAsRead marks all of the user's notifications as read.
func (h *NotificationHandler) MarkAllAsRead(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Locals("user_id").(string))
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user ID"})
	}

	if err := h.service.MarkAllAsRead(c.UserContext(), userID); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true})
}

// RegisterRoutes registers the notification routes.
func (h *NotificationHandler) RegisterRoutes(router fiber.Router) {
	notif := router.Group("/notifications")
	notif.Use(serverutils.JwtMiddleware)
	notif.Get("/", h.GetNotifications)
	notif.Get("/unread-count", h.GetUnreadCount)
	notif.Patch("/:id/read", h.MarkAsRead)
	notif.Patch("/read-all", h.MarkAllAsRead)

	// WebSocket
	router.Get("/ws", h.ServeWs)
}
