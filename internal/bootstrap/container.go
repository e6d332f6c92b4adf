package bootstrap

import (
	"context"
	"log"

	"bilara-reader-be/internal/config"
	"bilara-reader-be/internal/controller"
	"bilara-reader-be/internal/handler"
	"bilara-reader-be/internal/pkg/logger"
	"bilara-reader-be/internal/pkg/serverutils"
	"bilara-reader-be/internal/repository/contract"
	"bilara-reader-be/internal/repository/filesystem"
	"bilara-reader-be/internal/repository/implementation"
	"bilara-reader-be/internal/repository/memory"
	"bilara-reader-be/internal/service"
	"bilara-reader-be/internal/websocket"

	pktNats "bilara-reader-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// preferenceTopic carries preference writes from the service layer to the
// state broadcaster.
const preferenceTopic = "reader.preference.changed"

type Container struct {
	// Controllers
	TextController       controller.ITextController
	PreferenceController controller.IPreferenceController
	EditionController    controller.IEditionController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// WebSockets & State Push
	StateHandler *handler.StateHandler
	WebSocketHub *websocket.Hub
}

// NewContainer wires the dependency graph. db may be nil, in which case
// preferences live in process memory only.
func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

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

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger("logs/state.log")
	throttle := serverutils.NewThrottle(cfg.Reader.BroadcastInterval)
	wsHub := websocket.NewHub(rdb, wsLogger)
	// Drop the broadcast throttle record once a session's last tab is gone.
	wsHub.OnSessionClosed(throttle.Forget)
	go wsHub.Run()

	// Initialize In-Memory Session Storage
	sessionRepo := memory.NewSessionRepository()

	// Preference storage: Postgres when configured, process memory otherwise.
	var prefRepo contract.PreferenceRepository
	if db != nil {
		prefRepo = implementation.NewPreferenceRepository(db)
	} else {
		log.Printf("[WARN] No database configured, preferences are process-local")
		prefRepo = memory.NewPreferenceRepository()
	}

	textRepo := filesystem.NewTextRepository(cfg.Sources.DataDir)

	// 3. Services
	publisherService := service.NewPublisherService(preferenceTopic, pubSub)
	preferenceService := service.NewPreferenceService(prefRepo, publisherService, sessionRepo)

	editionService := service.NewEditionService(cfg.Sources.EditionEndpoint, cfg.Sources.FetchTimeout, sysLogger)
	transliterationService := service.NewTransliterationService(cfg.Sources.TransliterationBaseURL, cfg.Sources.FetchTimeout, sessionRepo, sysLogger)
	dictionaryService := service.NewDictionaryService(cfg.Sources.DictionaryBaseURL, cfg.Sources.FetchTimeout)

	textService := service.NewTextService(
		textRepo,
		preferenceService,
		editionService,
		transliterationService,
		dictionaryService,
		sessionRepo,
		natsPub,
		sysLogger,
		cfg.Reader.DefaultLang,
	)

	consumerService := service.NewConsumerService(
		pubSub,
		preferenceTopic,
		wsHub,
		natsPub,
		throttle,
	)

	// Handler
	stateHandler := handler.NewStateHandler(wsHub, wsLogger)

	// 4. Controllers
	return &Container{
		TextController:       controller.NewTextController(textService),
		PreferenceController: controller.NewPreferenceController(preferenceService),
		EditionController:    controller.NewEditionController(editionService),

		StateHandler: stateHandler,
		WebSocketHub: wsHub,

		ConsumerService: consumerService,
	}
}
