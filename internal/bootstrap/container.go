package bootstrap

import (
	"context"
	"log"
	"time"

	"recipe-steps-be/internal/config"
	"recipe-steps-be/internal/controller"
	"recipe-steps-be/internal/handler"
	"recipe-steps-be/internal/pkg/logger"
	"recipe-steps-be/internal/repository/memory"
	"recipe-steps-be/internal/repository/unitofwork"
	"recipe-steps-be/internal/service"
	"recipe-steps-be/internal/websocket"

	pktNats "recipe-steps-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	StepsEditorController controller.IStepsEditorController
	RecipeStepsController controller.IRecipeStepsController

	// Background Services (Exposed for main.go to run)
	ConsumerService  service.IConsumerService
	CandidateService service.ICandidateService

	// WebSockets
	StepsEditorHandler *handler.StepsEditorHandler
	WebSocketHub       *websocket.Hub

	Logger logger.ILogger

	closers []func()
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Autosave Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. Infrastructure
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
	wsLogger := logger.NewIsolatedLogger(cfg.App.WsLogFilePath)
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// 4. Services
	ttl := time.Duration(cfg.Editor.SessionTTLMinutes) * time.Minute
	sessionRepo := memory.NewSessionRepository(ttl)

	var eventPublisher service.EventPublisher
	if natsPub != nil {
		eventPublisher = natsPub
	}

	publisherService := service.NewPublisherService(cfg.Keys.AutosaveTopic, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Keys.AutosaveTopic,
		uowFactory,
		eventPublisher,
		sysLogger,
	)
	candidateService := service.NewCandidateService(uowFactory, natsSub, ttl, sysLogger)

	stepEditorService := service.NewStepEditorService(
		uowFactory,
		sessionRepo,
		candidateService,
		publisherService,
		wsHub,
		cfg.Editor,
		sysLogger,
	)
	recipeStepsService := service.NewRecipeStepsService(uowFactory)

	c := &Container{
		StepsEditorController: controller.NewStepsEditorController(stepEditorService),
		RecipeStepsController: controller.NewRecipeStepsController(recipeStepsService),
		StepsEditorHandler:    handler.NewStepsEditorHandler(stepEditorService, wsHub, wsLogger),
		WebSocketHub:          wsHub,

		ConsumerService:  consumerService,
		CandidateService: candidateService,
		Logger:           sysLogger,
	}

	c.closers = append(c.closers, func() { pubSub.Close() }, func() { rdb.Close() })
	if natsPub != nil {
		c.closers = append(c.closers, natsPub.Close)
	}
	if natsSub != nil {
		c.closers = append(c.closers, natsSub.Close)
	}
	return c
}

// Close releases the bus, NATS and Redis connections
func (c *Container) Close() {
	for _, fn := range c.closers {
		fn()
	}
	c.Logger.Sync()
}
