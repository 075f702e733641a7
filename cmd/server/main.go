package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	app "github.com/Energinet-DataHub/geh-actor-registry-sub000/internal/application/participant"
	"github.com/Energinet-DataHub/geh-actor-registry-sub000/internal/domain/participant"
	"github.com/Energinet-DataHub/geh-actor-registry-sub000/internal/domain/shared"
	"github.com/Energinet-DataHub/geh-actor-registry-sub000/internal/infrastructure/auth"
	"github.com/Energinet-DataHub/geh-actor-registry-sub000/internal/infrastructure/cache"
	"github.com/Energinet-DataHub/geh-actor-registry-sub000/internal/infrastructure/config"
	"github.com/Energinet-DataHub/geh-actor-registry-sub000/internal/infrastructure/event"
	"github.com/Energinet-DataHub/geh-actor-registry-sub000/internal/infrastructure/lock"
	"github.com/Energinet-DataHub/geh-actor-registry-sub000/internal/infrastructure/logger"
	"github.com/Energinet-DataHub/geh-actor-registry-sub000/internal/infrastructure/persistence"
	"github.com/Energinet-DataHub/geh-actor-registry-sub000/internal/infrastructure/scheduler"
	"github.com/Energinet-DataHub/geh-actor-registry-sub000/internal/infrastructure/telemetry"
	"github.com/Energinet-DataHub/geh-actor-registry-sub000/internal/interfaces/http/handler"
	"github.com/Energinet-DataHub/geh-actor-registry-sub000/internal/interfaces/http/middleware"
	"github.com/Energinet-DataHub/geh-actor-registry-sub000/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

//	@title			Actor Registry API
//	@version		1.0
//	@description	Registry of organizations, market actors, grid areas and actor consolidations

//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

const (
	version = "1.0.0"

	// operatorRole may run consolidations on demand
	operatorRole = "actor-registry.admin"

	shutdownTimeout = 30 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	bootLog, err := logger.New(logger.FromAppConfig(cfg.Log))
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	logPipeline, err := telemetry.NewLogPipeline(ctx, telemetry.LogsConfig{
		Enabled:           cfg.Telemetry.Enabled && cfg.Telemetry.LogsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, bootLog)
	if err != nil {
		bootLog.Fatal("Failed to initialize log exporter", zap.Error(err))
	}

	log, err := logger.New(logger.FromAppConfig(cfg.Log), logPipeline.Core(logger.ParseLevel(cfg.Log.Level)))
	if err != nil {
		bootLog.Fatal("Failed to initialize logger", zap.Error(err))
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting actor registry",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	if err := run(ctx, cfg, log); err != nil {
		log.Error("Actor registry stopped with error", zap.Error(err))
		_ = log.Sync()
		os.Exit(1)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := logPipeline.Shutdown(shutdownCtx); err != nil {
		log.Warn("Log exporter shutdown failed", zap.Error(err))
	}
	log.Info("Actor registry exited gracefully")
}

func run(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	// Telemetry
	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		return fmt.Errorf("initialize tracing: %w", err)
	}
	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.Enabled && cfg.Telemetry.MetricsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ExportInterval:    cfg.Telemetry.MetricsInterval,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		return fmt.Errorf("initialize metrics: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := meterProvider.Shutdown(shutdownCtx); err != nil {
			log.Warn("Meter provider shutdown failed", zap.Error(err))
		}
		if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
			log.Warn("Tracer provider shutdown failed", zap.Error(err))
		}
	}()

	metrics, err := telemetry.NewRegistryMetrics(meterProvider.Meter(telemetry.MeterName), log)
	if err != nil {
		return fmt.Errorf("create registry metrics: %w", err)
	}
	defer func() {
		_ = metrics.Close()
	}()

	// Database
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level), logger.WithSlowThreshold(cfg.Telemetry.DBSlowQueryThresh))
	db, err := persistence.NewDatabase(&cfg.Database, gormLog)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	dbTracing := telemetry.DefaultDBTracingConfig()
	dbTracing.Enabled = cfg.Telemetry.Enabled
	if err := telemetry.NewDBTracingPlugin(dbTracing, log).RegisterOtelGorm(db.DB); err != nil {
		return fmt.Errorf("register database tracing: %w", err)
	}
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	if err := metrics.ObserveDBPool(sqlDB.Stats); err != nil {
		return fmt.Errorf("observe connection pool: %w", err)
	}

	// Idempotency store and integration event sink
	storeFactory := cache.NewIdempotencyStoreFactory(cfg.Redis, cfg.App.Env != "production", log)
	idempotencyStore, err := storeFactory.CreateStore(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = idempotencyStore.Close()
	}()

	checks := map[string]handler.HealthCheck{
		"database": func(context.Context) error { return db.Ping() },
	}
	var sink event.IntegrationEventSink = event.NewLogSink(log)
	if client := storeFactory.Client(); client != nil {
		sink = event.NewRedisStreamSink(client, cfg.Event.IntegrationStream, 0)
		checks["redis"] = func(ctx context.Context) error { return client.Ping(ctx).Err() }
	}

	// Locking, repositories and outbox
	var entityLock shared.EntityLock
	switch cfg.Lock.Provider {
	case config.LockProviderInProcess:
		entityLock = lock.NewInProcessEntityLock()
	default:
		entityLock = persistence.NewGormEntityLock()
	}
	log.Info("Entity lock configured", zap.String("provider", cfg.Lock.Provider))

	organizationRepo := persistence.NewGormOrganizationRepository(db.DB)
	actorRepo := persistence.NewGormActorRepository(db.DB, entityLock)
	gridAreaRepo := persistence.NewGormGridAreaRepository(db.DB)
	delegationRepo := persistence.NewGormDelegationRepository(db.DB)
	reservationRepo := persistence.NewGormReservationRepository(db.DB)
	consolidationRepo := persistence.NewGormActorConsolidationRepository(db.DB)
	auditLogRepo := persistence.NewGormConsolidationAuditLogRepository(db.DB)
	outboxRepo := event.NewGormOutboxRepository(db.DB)
	uowProvider := persistence.NewGormUnitOfWorkProvider(db.DB)

	if err := metrics.ObserveOutbox(outboxRepo); err != nil {
		return fmt.Errorf("observe outbox: %w", err)
	}

	serializer := event.NewEventSerializer()
	event.RegisterParticipantEvents(serializer)
	outboxPublisher := event.NewOutboxPublisher(outboxRepo, serializer).WithMaxRetries(cfg.Event.MaxRetries)

	// Rule services
	uniqueNumber := participant.NewUniqueGlobalLocationNumberRuleService(organizationRepo, entityLock)
	uniqueBRI := participant.NewUniqueOrganizationBusinessRegisterIdentifierRuleService(organizationRepo)
	overlappingFunctions := participant.NewOverlappingEicFunctionsRuleService(actorRepo)
	uniqueGridAreas := participant.NewUniqueMarketRoleGridAreaRuleService(reservationRepo, entityLock)
	delegationCombinations := participant.NewAllowedMarketRoleCombinationsForDelegationRuleService(actorRepo, delegationRepo, nil)

	// Application services
	factory := app.NewActorFactoryService(app.ActorFactoryDeps{
		Actors:                 actorRepo,
		UnitOfWorkProvider:     uowProvider,
		EntityLock:             entityLock,
		DomainEvents:           outboxPublisher,
		UniqueNumber:           uniqueNumber,
		OverlappingFunctions:   overlappingFunctions,
		UniqueGridAreas:        uniqueGridAreas,
		DelegationCombinations: delegationCombinations,
		Logger:                 log,
	})
	organizationService := app.NewOrganizationService(organizationRepo, actorRepo, uowProvider, outboxPublisher, uniqueBRI)
	actorService := app.NewActorService(app.ActorServiceDeps{
		Actors:                 actorRepo,
		Organizations:          organizationRepo,
		GridAreas:              gridAreaRepo,
		Delegations:            delegationRepo,
		UnitOfWorkProvider:     uowProvider,
		EntityLock:             entityLock,
		DomainEvents:           outboxPublisher,
		Factory:                factory,
		UniqueGridAreas:        uniqueGridAreas,
		DelegationCombinations: delegationCombinations,
	})
	gridAreaService := app.NewGridAreaService(gridAreaRepo)
	consolidator := app.NewActorConsolidationService(app.ActorConsolidationDeps{
		Actors:               actorRepo,
		GridAreas:            gridAreaRepo,
		Consolidations:       consolidationRepo,
		AuditLog:             auditLogRepo,
		UnitOfWorkProvider:   uowProvider,
		EntityLock:           entityLock,
		DomainEvents:         outboxPublisher,
		OverlappingFunctions: overlappingFunctions,
		UniqueGridAreas:      uniqueGridAreas,
		Logger:               log,
	})
	consolidationService := app.NewConsolidationSchedulingService(
		actorRepo, gridAreaRepo, consolidationRepo, auditLogRepo, uowProvider, consolidator, log,
	)

	// Event delivery
	eventBus := event.NewInMemoryEventBus(log)
	dispatcher := event.NewIntegrationEventDispatcher(sink, serializer, event.ParticipantEventTypes...)
	eventBus.Subscribe(event.NewIdempotentHandler(dispatcher, idempotencyStore, shared.IdempotencyConfig{
		TTL:     cfg.Event.IdempotencyTTL,
		Enabled: true,
	}, log))

	var lifecycle []component
	lifecycle = append(lifecycle, component{"event bus", eventBus.Start, eventBus.Stop})
	if cfg.Event.ProcessorEnabled {
		processorCfg := event.DefaultOutboxProcessorConfig()
		processorCfg.BatchSize = cfg.Event.BatchSize
		processorCfg.PollInterval = cfg.Event.PollInterval
		processorCfg.CleanupEnabled = cfg.Event.CleanupEnabled
		processorCfg.CleanupRetention = cfg.Event.CleanupRetention
		processor := event.NewOutboxProcessor(outboxRepo, eventBus, serializer, processorCfg, log, metrics)
		lifecycle = append(lifecycle, component{"outbox processor", processor.Start, processor.Stop})
	}

	// Consolidation scheduling
	if cfg.Consolidation.Enabled {
		executor := scheduler.NewConsolidationExecutor(consolidationService)
		measured := scheduler.JobExecutorFunc(func(ctx context.Context, job *scheduler.Job) error {
			start := time.Now()
			err := executor.Execute(ctx, job)
			metrics.RecordConsolidationJob(ctx, time.Since(start), err)
			return err
		})

		schedulerCfg := scheduler.DefaultSchedulerConfig()
		schedulerCfg.Workers = cfg.Consolidation.Workers
		schedulerCfg.JobTimeout = cfg.Consolidation.JobTimeout
		schedulerCfg.RetryAttempts = cfg.Consolidation.RetryAttempts
		schedulerCfg.RetryDelay = cfg.Consolidation.RetryDelay
		jobs, err := scheduler.NewScheduler(schedulerCfg, measured, log)
		if err != nil {
			return fmt.Errorf("create consolidation scheduler: %w", err)
		}
		trigger := scheduler.NewConsolidationTrigger(cfg.Consolidation.PollInterval, consolidationService, jobs, log)
		lifecycle = append(lifecycle,
			component{"consolidation scheduler", jobs.Start, jobs.Stop},
			component{"consolidation trigger", trigger.Start, trigger.Stop},
		)
	}

	// HTTP
	engine, err := newEngine(cfg, log)
	if err != nil {
		return err
	}
	jwtService := auth.NewJWTService(cfg.JWT)
	jwtCfg := middleware.DefaultJWTConfig(jwtService, cfg.JWT.Required)
	jwtCfg.Logger = log

	var rateLimit gin.HandlerFunc
	var limiter *middleware.RateLimiter
	if cfg.HTTP.RateLimit > 0 {
		limiter = middleware.NewRateLimiter(cfg.HTTP.RateLimit, cfg.HTTP.RateWindow)
		rateLimit = middleware.RateLimit(limiter)
	}

	systemHandler := handler.NewSystemHandler(cfg.App.Name, version, checks)
	engine.GET("/health", systemHandler.Health)

	router.NewRouter(engine, router.WithAPIMiddleware(
		middleware.JWTAuth(jwtCfg),
		middleware.SpanAttributes(),
		rateLimit,
	)).
		Register(systemHandler).
		Register(handler.NewOrganizationHandler(organizationService, actorService)).
		Register(handler.NewActorHandler(actorService)).
		Register(handler.NewGridAreaHandler(gridAreaService)).
		Register(handler.NewConsolidationHandler(consolidationService, middleware.RequireRole(operatorRole, cfg.JWT.Required))).
		Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start background components in order, stop them in reverse
	started := make([]component, 0, len(lifecycle))
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		for i := len(started) - 1; i >= 0; i-- {
			if err := started[i].stop(shutdownCtx); err != nil {
				log.Warn("Component shutdown failed", zap.String("component", started[i].name), zap.Error(err))
			}
		}
	}()
	for _, c := range lifecycle {
		if err := c.start(ctx); err != nil {
			return fmt.Errorf("start %s: %w", c.name, err)
		}
		started = append(started, c)
		log.Info("Component started", zap.String("component", c.name))
	}

	g, gctx := errgroup.WithContext(ctx)
	if limiter != nil {
		g.Go(func() error {
			limiter.Run(gctx)
			return nil
		})
	}
	g.Go(func() error {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// component is a background service started before the HTTP server
type component struct {
	name  string
	start func(context.Context) error
	stop  func(context.Context) error
}

func newEngine(cfg *config.Config, log *zap.Logger) (*gin.Engine, error) {
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	requestTimeout := cfg.HTTP.WriteTimeout - time.Second
	if requestTimeout < 0 {
		requestTimeout = 0
	}
	return router.NewEngine(router.EngineConfig{
		HTTP: cfg.HTTP,
		Tracing: middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     cfg.Telemetry.Enabled,
		},
		Logger:         log,
		RequestTimeout: requestTimeout,
	})
}
