package app

import (
	"context"
	"fmt"
	"os"

	"gorm.io/gorm"

	"github.com/yungbote/methodgraph-backend/internal/data/db"
	"github.com/yungbote/methodgraph-backend/internal/data/repos"
	"github.com/yungbote/methodgraph-backend/internal/http"
	"github.com/yungbote/methodgraph-backend/internal/modules/methods/configrule"
	"github.com/yungbote/methodgraph-backend/internal/observability"
	"github.com/yungbote/methodgraph-backend/internal/platform/logger"
	"github.com/yungbote/methodgraph-backend/internal/realtime"
	"github.com/yungbote/methodgraph-backend/internal/realtime/bus"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Cfg      Config
	Repos    repos.Set
	Services Services
	Server   *http.Server
	Bus      bus.Bus
	Metrics  *observability.Metrics

	store        *db.Service
	otelShutdown func(context.Context) error
	cancel       context.CancelFunc
}

func New(ctx context.Context) (*App, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading configuration...")
	cfg, err := LoadConfig(log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("load config: %w", err)
	}

	otelShutdown := observability.InitOTel(ctx, log, observability.OtelConfig{
		Enabled:     cfg.Otel.Enabled,
		ServiceName: cfg.Otel.ServiceName,
		Environment: logMode,
		Endpoint:    cfg.Otel.Endpoint,
		Insecure:    cfg.Otel.Insecure,
		Headers:     observability.ParseHeaders(cfg.Otel.Headers),
		SampleRatio: cfg.Otel.SampleRatio,
	})

	var metrics *observability.Metrics
	if cfg.MetricsEnabled {
		metrics = observability.Init(log)
	}

	store, err := db.Open(cfg.DB, log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("open store: %w", err)
	}
	if err := db.AutoMigrateAll(store.DB()); err != nil {
		_ = store.Close()
		log.Sync()
		return nil, fmt.Errorf("automigrate: %w", err)
	}
	theDB := store.DB()
	if err := metrics.RegisterDB(theDB, cfg.DB.Driver); err != nil {
		log.Warn("db pool metrics unavailable", "error", err)
	}

	eventBus, err := wireBus(log, cfg)
	if err != nil {
		_ = store.Close()
		log.Sync()
		return nil, err
	}

	evaluator := configrule.NewExprEvaluator(cfg.RuleCacheSize)
	reposet := wireRepos(theDB, log)
	aggs := wireAggregates(theDB, log, cfg, reposet, metrics, evaluator)
	serviceset := wireServices(theDB, log, cfg, reposet, aggs, eventBus, metrics, evaluator)
	handlerset := wireHandlers(theDB, log, serviceset)
	server := wireServer(log, cfg, handlerset, metrics)

	return &App{
		Log:          log,
		DB:           theDB,
		Cfg:          cfg,
		Repos:        reposet,
		Services:     serviceset,
		Server:       server,
		Bus:          eventBus,
		Metrics:      metrics,
		store:        store,
		otelShutdown: otelShutdown,
	}, nil
}

// wireBus connects to Redis when REDIS_ADDR is set and falls back to an
// in-process bus otherwise.
func wireBus(log *logger.Logger, cfg Config) (bus.Bus, error) {
	if cfg.Redis.Addr == "" {
		log.Info("REDIS_ADDR not set, domain events stay in process")
		return bus.NewMemoryBus(), nil
	}
	b, err := bus.NewRedisBus(log, cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("init redis bus: %w", err)
	}
	return b, nil
}

// Start runs background work: the event forwarder that logs every domain
// event seen on the bus.
func (a *App) Start() error {
	if a == nil || a.cancel != nil {
		return nil
	}
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel

	eventLog := a.Log.With("component", "EventForwarder")
	return a.Bus.StartForwarder(ctx, func(ev realtime.Event) {
		eventLog.Debug("domain event", "event", ev.Name, "event_id", ev.ID, "occurred_at", ev.OccurredAt)
	})
}

func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	a.Log.Info("Server listening", "addr", a.Cfg.HTTPAddr)
	return a.Server.Run(ctx, a.Cfg.HTTPAddr)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	if a.Bus != nil {
		if err := a.Bus.Close(); err != nil {
			a.Log.Warn("close bus", "error", err)
		}
	}
	if a.otelShutdown != nil {
		if err := a.otelShutdown(context.Background()); err != nil {
			a.Log.Warn("otel shutdown", "error", err)
		}
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.Log.Warn("close store", "error", err)
		}
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
