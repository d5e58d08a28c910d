package bootstrap

import (
	"context"
	"log"

	"pcru-chatbot-be/internal/config"
	"pcru-chatbot-be/internal/controller"
	"pcru-chatbot-be/internal/metrics"
	"pcru-chatbot-be/internal/pkg/logger"
	"pcru-chatbot-be/internal/repository/cache"
	"pcru-chatbot-be/internal/repository/memory"
	"pcru-chatbot-be/internal/repository/unitofwork"
	"pcru-chatbot-be/internal/service"
	"pcru-chatbot-be/pkg/exclusion"
	"pcru-chatbot-be/pkg/negation"
	"pcru-chatbot-be/pkg/ranking"
	"pcru-chatbot-be/pkg/textnorm"

	pktNats "pcru-chatbot-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	ChatController     controller.IChatController
	CategoryController controller.ICategoryController
	ReportController   controller.IReportController
	HealthController   controller.IHealthController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	closers []func()
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	c := &Container{}

	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	auditLogger := logger.NewIsolatedLogger(cfg.App.AuditLogFilePath)
	c.closers = append(c.closers, func() {
		_ = sysLogger.Sync()
		_ = auditLogger.Sync()
	})

	// 2. Event Bus
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 256},
		watermill.NewStdLogger(false, false),
	)
	c.closers = append(c.closers, func() { _ = pubSub.Close() })

	var forwarder service.EventForwarder
	if cfg.App.NatsURL != "" {
		natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		} else {
			forwarder = natsPub
			c.closers = append(c.closers, natsPub.Close)
		}
	}

	// 3. Exclusion Store (process-wide tier)
	var processTier exclusion.ProcessCache
	switch cfg.Session.ExclusionBackend {
	case "redis":
		opt, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
			opt = &redis.Options{Addr: cfg.App.RedisURL}
		}
		rdb := redis.NewClient(opt)
		if _, err := rdb.Ping(context.Background()).Result(); err != nil {
			log.Printf("[WARN] Failed to connect to Redis: %v", err)
		}
		processTier = cache.NewExclusionRedisRepository(rdb, cfg.Session.ExclusionKeyPrefix, cfg.Session.Expiration)
		c.closers = append(c.closers, func() { _ = rdb.Close() })
		log.Printf("[INFO] Exclusion backend: REDIS")
	default:
		processTier = memory.NewExclusionRepository(cfg.Session.Expiration)
		log.Printf("[INFO] Exclusion backend: MEMORY")
	}
	store := exclusion.NewStore(processTier, sysLogger)

	// 4. Retrieval pipeline
	tokenizer := textnorm.NewHTTPTokenizer(cfg.Tokenizer.URL, cfg.Tokenizer.Timeout, sysLogger)
	normalizer := textnorm.NewNormalizer(tokenizer, sysLogger, textnorm.WithFallbackCounter(metrics.TokenizerFallbacks))

	detector := negation.NewDetector(
		negation.AdjacencyAnalyzer{InlinePatterns: cfg.Chat.InlineNegationWords},
		negation.ParseDomainRules(cfg.Chat.NegationDomainRules),
	)

	ranker, err := ranking.NewRanker(normalizer, cfg.Chat.RankPoolSize, sysLogger)
	if err != nil {
		log.Fatalf("[FATAL] Failed to create ranking pool: %v", err)
	}
	c.closers = append(c.closers, ranker.Release)

	// 5. Services
	publisherService := service.NewPublisherService(cfg.Chat.TurnEventTopic, pubSub)
	c.ConsumerService = service.NewConsumerService(
		pubSub,
		cfg.Chat.TurnEventTopic,
		auditLogger,
		forwarder,
		sysLogger,
	)

	chatService := service.NewChatService(
		uowFactory,
		normalizer,
		detector,
		store,
		ranker,
		publisherService,
		sysLogger,
		service.ChatOptions{
			BotPronoun:          cfg.Chat.BotPronoun,
			AlternativesLimit:   cfg.Chat.AlternativesLimit,
			DefaultContactLimit: cfg.Chat.DefaultContactLimit,
			Filter:              ranking.DefaultFilterOptions(cfg.Chat.GenericTerms),
		},
	)
	categoryService := service.NewCategoryService(uowFactory)
	reportService := service.NewReportService(uowFactory)

	// 6. Controllers
	sessions := session.New(session.Config{
		Expiration:     cfg.Session.Expiration,
		KeyGenerator:   uuid.NewString,
		CookieHTTPOnly: true,
		CookieSecure:   cfg.IsProduction(),
	})

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("[FATAL] Failed to access sql.DB: %v", err)
	}

	c.ChatController = controller.NewChatController(chatService, sessions, sysLogger)
	c.CategoryController = controller.NewCategoryController(categoryService)
	c.ReportController = controller.NewReportController(reportService)
	c.HealthController = controller.NewHealthController(sqlDB)

	return c
}

// Close releases background resources in reverse creation order.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
}
