package bootstrap

import (
	"context"
	"log"

	"dossier-be/internal/config"
	"dossier-be/internal/controller"
	"dossier-be/internal/handler"
	"dossier-be/internal/pkg/logger"
	"dossier-be/internal/repository/memory"
	"dossier-be/internal/repository/unitofwork"
	"dossier-be/internal/service"
	"dossier-be/internal/websocket"
	"dossier-be/pkg/casefile"
	"dossier-be/pkg/casefile/gateway"
	"dossier-be/pkg/casefile/workspace"
	"dossier-be/pkg/embedding"
	"dossier-be/pkg/events"
	"dossier-be/pkg/llm/factory"
	"dossier-be/pkg/pdftext"

	pktNats "dossier-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	CaseFileController   controller.ICaseFileController
	WorkspaceController  controller.IWorkspaceController
	ProcessingController controller.IProcessingController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService
	ActivityService *service.ActivityService

	// WebSockets & Notification
	NotificationHandler *handler.NotificationHandler
	WebSocketHub        *websocket.Hub

	// Closed on shutdown
	Workspaces *memory.WorkspaceRepository
	natsPub    *pktNats.Publisher
	natsSub    *pktNats.Subscriber
}

func NewContainer(ctx context.Context, db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. AI Providers
	embeddingProvider, err := embedding.NewProvider(ctx, embedding.Config{
		Provider: cfg.Ai.EmbeddingProvider,
		APIKey:   cfg.EmbeddingAPIKey(),
		BaseURL:  cfg.Ai.OllamaBaseURL,
		Model:    cfg.Ai.OllamaModel,
	})
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize Embedding Provider: %v", err)
	}
	log.Printf("[INFO] Using Embedding Provider: %s", cfg.Ai.EmbeddingProvider)

	llmProvider, err := factory.NewLLMProvider(ctx, factory.Config{
		Provider: cfg.Ai.LLMProvider,
		Model:    cfg.Ai.LLMModel,
		BaseURL:  cfg.Ai.OllamaBaseURL,
		APIKey:   cfg.LLMAPIKey(),
	})
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// Scanned PDFs are read by Gemini when a key is configured.
	var ocr pdftext.OCR
	if cfg.Keys.GoogleGemini != "" {
		geminiOCR, err := pdftext.NewGeminiOCR(ctx, cfg.Keys.GoogleGemini, cfg.Ai.OCRModel)
		if err != nil {
			log.Printf("[WARN] OCR disabled: %v", err)
		} else {
			ocr = geminiOCR
			log.Printf("[INFO] Using OCR model: %s", cfg.Ai.OCRModel)
		}
	}

	// 4. Infrastructure
	// NATS
	var eventPublisher events.Publisher = events.Nop
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	} else {
		eventPublisher = natsPub
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
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v. Notifications stay local", err)
		rdb = nil
	}

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger("logs/notification.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// Storage
	blobs, err := gateway.NewLocalBlobStore(cfg.Storage.UploadsDir, cfg.UploadsBaseURL())
	if err != nil {
		log.Fatalf("[FATAL] Failed to prepare uploads directory: %v", err)
	}
	records := gateway.NewRecordStore(uowFactory)

	// 5. Services
	publisherService := service.NewPublisherService(cfg.Keys.EmbedDocumentTopic, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Keys.EmbedDocumentTopic,
		uowFactory,
		embeddingProvider,
		sysLogger,
	)

	extractionService := service.NewExtractionService(
		uowFactory,
		blobs,
		llmProvider,
		cfg.Ai.ExtractionModel,
		publisherService,
		eventPublisher,
		ocr,
		sysLogger,
	)
	retrievalService := service.NewRetrievalService(uowFactory, embeddingProvider, llmProvider, sysLogger)
	caseFileService := service.NewCaseFileService(uowFactory, eventPublisher, sysLogger)

	// Workspaces talk to remote collaborators when configured.
	var extractor casefile.Extractor = extractionService
	if cfg.Services.ExtractionURL != "" {
		extractor = gateway.NewExtractionClient(cfg.Services.ExtractionURL, cfg.Services.Timeout)
		log.Printf("[INFO] Using remote extraction service: %s", cfg.Services.ExtractionURL)
	}
	var retriever casefile.Retriever = retrievalService
	if cfg.Services.RetrievalURL != "" {
		retriever = gateway.NewRetrievalClient(cfg.Services.RetrievalURL, cfg.Services.Timeout)
		log.Printf("[INFO] Using remote retrieval service: %s", cfg.Services.RetrievalURL)
	}

	workspaceRepo := memory.NewWorkspaceRepository(cfg.Workspace.TTL)
	workspaceService := service.NewWorkspaceService(workspaceRepo, service.WorkspaceServiceConfig{
		Deps: workspace.Deps{
			Store:     records,
			Blobs:     blobs,
			Extractor: extractor,
			Retriever: retriever,
			Logger:    sysLogger,
		},
		Notifiers:  wsHub,
		Events:     eventPublisher,
		StaleAfter: cfg.Workspace.ProcessingStaleAfter,
	})

	// 5.5 Activity log (Worker)
	var activityService *service.ActivityService
	if natsSub != nil {
		activityService = service.NewActivityService(natsSub, logger.NewIsolatedLogger("logs/activity.log"))
	}

	// Handler
	notifHandler := handler.NewNotificationHandler(wsHub, workspaceRepo, wsLogger)

	// 6. Controllers
	return &Container{
		CaseFileController:   controller.NewCaseFileController(caseFileService),
		WorkspaceController:  controller.NewWorkspaceController(workspaceService),
		ProcessingController: controller.NewProcessingController(extractionService, retrievalService),

		ConsumerService: consumerService,
		ActivityService: activityService,

		NotificationHandler: notifHandler,
		WebSocketHub:        wsHub,

		Workspaces: workspaceRepo,
		natsPub:    natsPub,
		natsSub:    natsSub,
	}
}

// Close releases the bus connections and every open workspace.
func (c *Container) Close() {
	c.Workspaces.Flush()
	if c.natsSub != nil {
		c.natsSub.Close()
	}
	if c.natsPub != nil {
		c.natsPub.Close()
	}
}
