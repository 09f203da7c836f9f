package bootstrap

import (
	"context"
	"fmt"
	"time"

	"sigma-lms-be/internal/config"
	"sigma-lms-be/internal/controller"
	"sigma-lms-be/internal/pkg/logger"
	"sigma-lms-be/internal/pkg/serverutils"
	"sigma-lms-be/internal/repository/memory"
	"sigma-lms-be/internal/repository/unitofwork"
	"sigma-lms-be/internal/service"
	"sigma-lms-be/pkg/classify"
	"sigma-lms-be/pkg/docimport"
	pktNats "sigma-lms-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	ImportController controller.IImportController
	LessonController controller.ILessonController
	JwtMiddleware    fiber.Handler

	// Background services, started by main. Nil without a database.
	ConsumerService service.IConsumerService

	Logger logger.ILogger

	closers []func()
}

// NewPipeline builds the stateless reader and analyzer from the import
// settings. A configured style map file is merged over the defaults.
func NewPipeline(cfg config.ImportConfig, log logger.ILogger) (*docimport.Reader, *classify.Analyzer, error) {
	styles := docimport.DefaultStyleMap()
	if cfg.StyleMapPath != "" {
		loaded, err := docimport.LoadStyleMap(cfg.StyleMapPath)
		if err != nil {
			return nil, nil, fmt.Errorf("load style map: %w", err)
		}
		styles = loaded
	}

	reader := docimport.NewReader(docimport.Config{
		MaxFileSize: int64(cfg.MaxFileSizeMB) << 20,
		StyleMap:    styles,
		Logger:      log,
	})
	analyzer := classify.NewAnalyzer(classify.DefaultThresholds(), cfg.CollationLocale)
	return reader, analyzer, nil
}

// NewContainer wires the REST service. db may be nil, in which case import
// history is not recorded.
func NewContainer(db *gorm.DB, cfg *config.Config, sysLogger logger.ILogger) (*Container, error) {
	c := &Container{Logger: sysLogger}

	// 1. Import pipeline
	reader, analyzer, err := NewPipeline(cfg.Import, sysLogger)
	if err != nil {
		return nil, err
	}
	canonicalCache := memory.NewCanonicalCache(cfg.Import.CacheTTL)

	// 2. Audit trail over the in-process bus
	var (
		uowFactory unitofwork.RepositoryFactory
		publisher  service.IPublisherService
	)
	if db != nil {
		uowFactory = unitofwork.NewRepositoryFactory(db)

		pubSub := gochannel.NewGoChannel(
			gochannel.Config{},
			watermill.NewStdLogger(false, false),
		)
		c.closers = append(c.closers, func() { _ = pubSub.Close() })

		publisher = service.NewPublisherService(cfg.Keys.ImportAuditTopic, pubSub)
		c.ConsumerService = service.NewConsumerService(pubSub, cfg.Keys.ImportAuditTopic, uowFactory, sysLogger)
	} else {
		sysLogger.Warn("BOOTSTRAP", "No database configured, import history disabled", nil)
	}

	// 3. Infrastructure
	var eventPublisher service.EventPublisher
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL, sysLogger)
	if err != nil {
		sysLogger.Warn("BOOTSTRAP", "Failed to connect to NATS publisher", map[string]interface{}{"error": err.Error()})
	} else {
		eventPublisher = natsPub
		c.closers = append(c.closers, natsPub.Close)
	}

	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		sysLogger.Warn("BOOTSTRAP", "Failed to parse Redis URL, using direct address", map[string]interface{}{"error": err.Error()})
		opt = &redis.Options{Addr: cfg.App.RedisURL}
	}
	rdb := redis.NewClient(opt)
	pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		sysLogger.Warn("BOOTSTRAP", "Failed to connect to Redis, rate limiting disabled", map[string]interface{}{"error": err.Error()})
		_ = rdb.Close()
		rdb = nil
	} else {
		c.closers = append(c.closers, func() { _ = rdb.Close() })
	}
	rateLimiter := service.NewRateLimiter(rdb, cfg.Import.RateLimitPerMinute, time.Minute)

	// 4. Services
	importService := service.NewImportService(
		cfg.Import,
		reader,
		analyzer,
		canonicalCache,
		rateLimiter,
		publisher,
		eventPublisher,
		uowFactory,
		sysLogger,
	)
	lessonService := service.NewLessonService()

	// 5. Controllers
	c.ImportController = controller.NewImportController(importService)
	c.LessonController = controller.NewLessonController(lessonService)
	c.JwtMiddleware = serverutils.NewJwtMiddleware(cfg.Auth.JwtSecret)

	return c, nil
}

// Close releases connections in reverse order of creation.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
}
