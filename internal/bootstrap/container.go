package bootstrap

import (
	"context"
	"log"

	"timetrack-be/internal/config"
	"timetrack-be/internal/controller"
	"timetrack-be/internal/handler"
	"timetrack-be/internal/pkg/logger"
	"timetrack-be/internal/pkg/mailer"
	"timetrack-be/internal/repository/implementation"
	"timetrack-be/internal/repository/memory"
	"timetrack-be/internal/service"
	"timetrack-be/internal/websocket"

	pktNats "timetrack-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const auditTopic = "audit_log"

type Container struct {
	// Controllers
	AuthController      controller.IAuthController
	ProjectController   controller.IProjectController
	TeamController      controller.ITeamController
	TimeEntryController controller.ITimeEntryController
	TrackerController   controller.ITrackerController

	// Background Services (Exposed for main.go to run)
	AuditService service.IAuditService

	// WebSockets & Notification
	NotificationHandler *handler.NotificationHandler
	WebSocketHub        *websocket.Hub
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.Email,
		cfg.App.ClientURL,
	)

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	}

	// Redis
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger("logs/notification.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run(context.Background())

	// 3. Repositories
	userRepo := implementation.NewUserRepository(db)
	projectRepo := implementation.NewProjectRepository(db)
	teamRepo := implementation.NewTeamRepository(db)
	entryRepo := implementation.NewTimeEntryRepository(db)
	notifRepo := implementation.NewNotificationRepository(db)
	sysLogRepo := implementation.NewSystemLogRepository(db)
	sessionRepo := memory.NewTrackerRepository()

	// 4. Services
	publisherService := service.NewPublisherService(pubSub, auditTopic)
	auditService := service.NewAuditService(publisherService, pubSub, auditTopic, sysLogRepo, sysLogger)

	authService := service.NewAuthService(userRepo)
	projectService := service.NewProjectService(projectRepo)
	teamService := service.NewTeamService(teamRepo, userRepo, emailService, natsPub, sysLogger)
	timeEntryService := service.NewTimeEntryService(entryRepo, projectRepo, natsPub, sysLogger)
	trackerService := service.NewTrackerService(sessionRepo, entryRepo, projectRepo, auditService, sysLogger)

	// Notification Domain
	notifService := service.NewNotificationService(notifRepo, natsSub, wsHub, wsLogger) // Hub implements NotificationDelivery

	// Start Service (Worker)
	if natsSub != nil {
		go notifService.Start()
	}

	// Handler
	notifHandler := handler.NewNotificationHandler(notifService, wsHub, wsLogger)

	// 5. Controllers
	return &Container{
		NotificationHandler: notifHandler,
		WebSocketHub:        wsHub,
		AuthController:      controller.NewAuthController(authService),
		ProjectController:   controller.NewProjectController(projectService),
		TeamController:      controller.NewTeamController(teamService),
		TimeEntryController: controller.NewTimeEntryController(timeEntryService),
		TrackerController:   controller.NewTrackerController(trackerService),

		AuditService: auditService,
	}
}
