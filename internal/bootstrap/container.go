package bootstrap

import (
	"context"
	"fmt"
	"time"

	"connector-selector/internal/config"
	"connector-selector/internal/controller"
	"connector-selector/internal/handler"
	"connector-selector/internal/pkg/logger"
	"connector-selector/internal/repository/memory"
	"connector-selector/internal/service"
	"connector-selector/internal/tracer"
	internalWS "connector-selector/internal/websocket"
	"connector-selector/pkg/advisor"
	"connector-selector/pkg/catalog"
	"connector-selector/pkg/events"
	"connector-selector/pkg/interpreter"
	"connector-selector/pkg/llm/factory"
	"connector-selector/pkg/scoring"

	pktNats "connector-selector/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
)

type Container struct {
	Config *config.Config

	Logger      *logger.ZapLogger
	AuditLogger *logger.ZapLogger

	Catalog   *catalog.Catalog
	Questions *catalog.QuestionSet
	Scorer    *scoring.Engine
	Sessions  *memory.SessionRepository

	// Advisor is the entry point of every conversation.
	Advisor *advisor.Service

	// HTTP surface
	AdvisorController controller.IAdvisorController
	EventFeedHandler  *handler.EventFeedHandler
	Hub               *internalWS.Hub

	// Background Services (Exposed for main.go to run)
	AuditService service.IAuditService

	rdb            *redis.Client
	natsPub        *pktNats.Publisher
	pubSub         *gochannel.GoChannel
	shutdownTracer tracer.ShutdownFunc
}

func NewContainer(cfg *config.Config) (*Container, error) {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	auditLogger := logger.NewIsolatedLogger(cfg.App.AuditLogFilePath)
	shutdownTracer := tracer.InitTracer(cfg.Telemetry, sysLogger)

	// 2. Catalogs
	cat, err := loadCatalog(cfg.Catalog.CandidatesFile)
	if err != nil {
		return nil, err
	}
	questions, err := loadQuestions(cfg.Catalog.QuestionsFile)
	if err != nil {
		return nil, err
	}
	sysLogger.Info("BOOTSTRAP", "Catalogs loaded", map[string]interface{}{
		"candidates": cat.Len(),
		"questions":  questions.Len(),
	})

	// 3. Interpreter: the model when configured, heuristics always behind it
	llmProvider, err := factory.NewLLMProvider(cfg.LLM())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize LLM provider: %w", err)
	}
	var primary interpreter.Interpreter
	if llmProvider != nil {
		primary = interpreter.NewLLM(llmProvider, cfg.Ai.InterpreterTimeout, sysLogger)
		sysLogger.Info("BOOTSTRAP", "Using LLM provider", map[string]interface{}{
			"provider": cfg.Ai.LLMProvider,
			"model":    cfg.Ai.LLMModel,
		})
	} else {
		sysLogger.Info("BOOTSTRAP", "No LLM provider configured, using heuristics only", nil)
	}
	interp := interpreter.NewResilient(primary, sysLogger)

	// 4. Event Bus
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NewStdLogger(false, false))
	publisherService := service.NewPublisherService(service.EventsTopic, pubSub)
	auditService := service.NewAuditService(pubSub, service.EventsTopic, auditLogger)

	publishers := events.Multi{publisherService}

	// NATS carries terminal outcomes to external consumers
	var natsPub *pktNats.Publisher
	if cfg.App.NatsURL != "" {
		natsPub, err = pktNats.NewPublisher(cfg.App.NatsURL, sysLogger)
		if err != nil {
			sysLogger.Warn("BOOTSTRAP", "Failed to connect to NATS publisher", map[string]interface{}{"error": err.Error()})
		} else {
			publishers = append(publishers, events.Filter{
				Next:  natsPub,
				Types: []string{events.TypeSessionCommitted, events.TypeSessionEscalated},
			})
		}
	}

	// 5. Services
	sessionRepo := memory.NewSessionRepository(cfg.App.SessionTTL)
	advisorService := advisor.NewService(cat, questions, cfg.Policy, interp, sessionRepo, publishers, sysLogger)

	// 6. Event feed, shared across instances through Redis when configured
	rdb := newRedisClient(cfg.App.RedisURL, sysLogger)
	hub := internalWS.NewHub(rdb, sysLogger)

	return &Container{
		Config:            cfg,
		Logger:            sysLogger,
		AuditLogger:       auditLogger,
		Catalog:           cat,
		Questions:         questions,
		Scorer:            scoring.NewEngine(questions, sysLogger),
		Sessions:          sessionRepo,
		Advisor:           advisorService,
		AdvisorController: controller.NewAdvisorController(advisorService, cat),
		EventFeedHandler:  handler.NewEventFeedHandler(hub, sysLogger),
		Hub:               hub,
		AuditService:      auditService,
		rdb:               rdb,
		natsPub:           natsPub,
		pubSub:            pubSub,
		shutdownTracer:    shutdownTracer,
	}, nil
}

// StartFeed attaches the websocket hub to the event bus.
func (c *Container) StartFeed(ctx context.Context) error {
	return c.Hub.Consume(ctx, c.pubSub, service.EventsTopic)
}

// Close releases the event bus, the broker connections and the tracer, then
// flushes both loggers.
func (c *Container) Close(ctx context.Context) {
	if err := c.pubSub.Close(); err != nil {
		c.Logger.Warn("BOOTSTRAP", "Failed to close event bus", map[string]interface{}{"error": err.Error()})
	}
	if c.natsPub != nil {
		c.natsPub.Close()
	}
	if c.rdb != nil {
		_ = c.rdb.Close()
	}
	if err := c.shutdownTracer(ctx); err != nil {
		c.Logger.Warn("BOOTSTRAP", "Failed to shut down tracer", map[string]interface{}{"error": err.Error()})
	}
	_ = c.AuditLogger.Sync()
	_ = c.Logger.Sync()
}

func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default()
	}
	return catalog.LoadFile(path)
}

func loadQuestions(path string) (*catalog.QuestionSet, error) {
	if path == "" {
		return catalog.DefaultQuestions()
	}
	return catalog.LoadQuestionsFile(path)
}

func newRedisClient(url string, log logger.ILogger) *redis.Client {
	if url == "" {
		return nil
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		log.Warn("BOOTSTRAP", "Invalid REDIS_URL, event feed stays local", map[string]interface{}{"error": err.Error()})
		return nil
	}
	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Warn("BOOTSTRAP", "Redis unreachable, event feed may stay local", map[string]interface{}{"error": err.Error()})
	}
	return rdb
}
