package bootstrap

import (
	"context"
	"log"
	"time"

	"daily-journal-be/internal/config"
	"daily-journal-be/internal/controller"
	"daily-journal-be/internal/pkg/logger"
	"daily-journal-be/internal/pkg/mailer"
	"daily-journal-be/internal/repository/memory"
	"daily-journal-be/internal/repository/unitofwork"
	"daily-journal-be/internal/service"
	"daily-journal-be/pkg/admin/dashboard"
	"daily-journal-be/pkg/cache"
	"daily-journal-be/pkg/llm/factory"

	pktNats "daily-journal-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AuthController         controller.IAuthController
	PasswordlessController controller.IPasswordlessController
	UserController         controller.IUserController
	EntryController        controller.IEntryController
	AnalysisController     controller.IAnalysisController
	AdminController        controller.IAdminController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// Feature flags the server needs at route registration time
	PasswordlessEnabled bool
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
	)

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// LLM Provider based on Config
	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Keys.GoogleGemini,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// 2.5 Infrastructure
	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
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

	analysisCache := cache.NewAnalysisCache(rdb, time.Duration(cfg.Ai.AnalysisCacheTTL)*time.Minute)

	// 3. Services
	publisherService := service.NewPublisherService(cfg.App.EntryChangedTopic, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.App.EntryChangedTopic,
		uowFactory,
		analysisCache,
	)

	authService := service.NewAuthService(uowFactory, emailService, natsPub)
	userService := service.NewUserService(uowFactory, natsPub)
	entryService := service.NewEntryService(uowFactory, publisherService, natsPub)
	analysisService := service.NewAnalysisService(uowFactory, llmProvider, cfg.Ai.LLMModel, analysisCache)

	loginTickets := memory.NewLoginTicketRepository(15 * time.Minute)
	passwordlessService := service.NewPasswordlessService(
		cfg.Auth.PasswordlessLogin,
		uowFactory,
		loginTickets,
		emailService,
	)

	dashboardAggregator := dashboard.NewAggregator(sysLogger)
	adminService := service.NewAdminService(uowFactory, sysLogger, dashboardAggregator, natsPub)

	// 4. Controllers
	return &Container{
		AuthController:         controller.NewAuthController(authService),
		PasswordlessController: controller.NewPasswordlessController(passwordlessService),
		UserController:         controller.NewUserController(userService),
		EntryController:        controller.NewEntryController(entryService),
		AnalysisController:     controller.NewAnalysisController(analysisService),
		AdminController:        controller.NewAdminController(adminService, authService),
		ConsumerService:        consumerService,
		PasswordlessEnabled:    cfg.Auth.PasswordlessLogin,
	}
}
