package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Gobusters/ectoenv"
	"github.com/Gobusters/ectologger"
	"github.com/Gobusters/ectologger/zapadapter"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"

	"github.com/Ramsey-B/fern/config"
	"github.com/Ramsey-B/fern/internal/handlers"
	datasetrepo "github.com/Ramsey-B/fern/internal/repositories/dataset"
	recordrepo "github.com/Ramsey-B/fern/internal/repositories/record"
	"github.com/Ramsey-B/fern/pkg/cache"
	"github.com/Ramsey-B/fern/pkg/crm"
	"github.com/Ramsey-B/fern/pkg/database"
	"github.com/Ramsey-B/fern/pkg/health"
	"github.com/Ramsey-B/fern/pkg/httpclient"
	"github.com/Ramsey-B/fern/pkg/kafka"
	"github.com/Ramsey-B/fern/pkg/matching"
	"github.com/Ramsey-B/fern/pkg/middleware"
	"github.com/Ramsey-B/fern/pkg/processor"
	fernredis "github.com/Ramsey-B/fern/pkg/redis"
	"github.com/Ramsey-B/fern/pkg/startup"
	"github.com/Ramsey-B/fern/pkg/tracing"
	"github.com/Ramsey-B/fern/pkg/tracing/exporters"
)

func main() {
	// .env is optional; real deployments use the environment directly
	_ = godotenv.Load()

	var cfg config.Config
	if err := ectoenv.BindEnv(&cfg); err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.TracingEnabled {
		shutdownTracing, err := initTracing(ctx, cfg)
		if err != nil {
			logger.WithError(err).Error("Failed to initialize tracing, continuing without it")
		} else {
			defer shutdownTracing()
		}
	}

	db, err := connectDatabase(cfg, logger)
	if err != nil {
		logger.WithError(err).Error("Failed to connect to database")
		os.Exit(1)
	}
	defer db.Close()

	if err := runMigrations(cfg, db, logger); err != nil {
		logger.WithError(err).Error("Failed to run migrations")
		os.Exit(1)
	}

	var redisClient *fernredis.Client
	var responseCache *cache.Cache
	if cfg.CacheEnabled {
		redisClient, err = fernredis.NewClient(fernredis.Config{
			Host:     cfg.RedisHost,
			Port:     cfg.RedisPort,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}, logger)
		if err != nil {
			logger.WithError(err).Warn("Redis unavailable, CRM responses will not be cached")
		} else {
			defer redisClient.Close()
			responseCache = cache.New(redisClient, logger, cfg.CacheTTL, cfg.CacheFilteredTTL)
		}
	}

	// Repositories and domain services
	datasetRepo := datasetrepo.NewRepository(db, logger)
	recordRepo := recordrepo.NewRepository(db, logger)
	engine := matching.NewEngine(matching.NewNormalizer(), logger)

	httpClient := httpclient.NewClient(httpclient.Config{
		Timeout:         cfg.CRMTimeout,
		MaxIdleConns:    100,
		IdleConnTimeout: 90 * time.Second,
	}, logger)
	crmClient := crm.NewClient(httpClient, responseCache, crm.Config{
		BaseURL:    cfg.CRMBaseURL,
		APIKey:     cfg.CRMAPIKey,
		BaseID:     cfg.CRMBaseID,
		MaxRecords: cfg.CRMMaxRecords,
	}, logger)

	// HTTP server
	e := newServer(cfg, logger)

	checker := health.NewChecker(db, redisClient, cfg.Version)
	checker.RegisterRoutes(e)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := e.Group("/api/v1")
	handlers.NewMatchHandler(engine, datasetRepo, recordRepo, logger).RegisterRoutes(api)
	handlers.NewDatasetHandler(datasetRepo, recordRepo, logger).RegisterRoutes(api)
	handlers.NewSyncHandler(crmClient, datasetRepo, recordRepo,
		crm.TableSpec{Name: cfg.CRMLeadsTable, DateField: cfg.CRMLeadsDateField, SortDesc: true},
		crm.TableSpec{Name: cfg.CRMCustomersTable, DateField: cfg.CRMCustomersDateField, SortDesc: true},
		logger).RegisterRoutes(api)
	if responseCache != nil {
		handlers.NewCacheHandler(responseCache, logger).RegisterRoutes(api)
	}

	// Bring dependencies up in order, then mark ready
	boot := startup.New(logger, cfg.StartupMaxAttempts)
	if cfg.KafkaConsumerEnabled {
		proc := processor.New(datasetRepo, recordRepo, logger)
		consumer := kafka.NewConsumer(kafka.ConsumerConfig{
			Brokers:       cfg.KafkaBrokers,
			Topic:         cfg.KafkaRecordsTopic,
			ConsumerGroup: cfg.KafkaConsumerGroup,
		}, logger, proc.HandleMessage)
		boot.AddDependency(&consumerDependency{consumer: consumer})
	}
	boot.AddDependency(&serverDependency{server: e, port: cfg.Port, logger: logger})

	if err := boot.Start(ctx); err != nil {
		logger.WithError(err).Error("Startup failed")
		os.Exit(1)
	}
	checker.SetReady(true)
	logger.Infof("%s listening on port %d", cfg.AppName, cfg.Port)

	<-ctx.Done()
	logger.Info("Shutting down")
	checker.SetReady(false)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := boot.Stop(shutdownCtx); err != nil {
		logger.WithError(err).Error("Shutdown finished with errors")
	}
}

func newLogger(cfg config.Config) ectologger.Logger {
	var zapLogger *zap.Logger
	if cfg.PrettyLogs {
		zapLogger, _ = zap.NewDevelopment()
	} else {
		zapLogger, _ = zap.NewProduction()
	}
	return zapadapter.NewZapEctoLogger(zapLogger, nil)
}

func newServer(cfg config.Config, logger ectologger.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(otelecho.Middleware(cfg.AppName))
	e.Use(middleware.Context())
	e.Use(middleware.Logger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.AllowOrigins,
		AllowMethods: cfg.AllowMethods,
	}))
	e.HTTPErrorHandler = middleware.Error(logger)

	e.Server.ReadTimeout = time.Duration(cfg.HttpServerReadTimeoutSeconds) * time.Second
	e.Server.WriteTimeout = time.Duration(cfg.HttpServerWriteTimeoutSeconds) * time.Second
	e.Server.IdleTimeout = time.Duration(cfg.HttpServerIdleTimeoutSeconds) * time.Second

	return e
}

func connectDatabase(cfg config.Config, logger ectologger.Logger) (database.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.DatabaseHost, cfg.DatabasePort, cfg.DatabaseUserName, cfg.DatabasePassword,
		cfg.DatabaseName, cfg.DatabaseSSLMode)

	db, err := sqlx.Connect(cfg.DatabaseDriver, dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.DatabaseMaxOpenConns)
	db.SetMaxIdleConns(cfg.DatabaseMaxIdleConns)
	db.SetConnMaxLifetime(cfg.DatabaseConnMaxLifetime)

	return database.NewDatabaseInstance(db, logger), nil
}

func runMigrations(cfg config.Config, db database.DB, logger ectologger.Logger) error {
	instance, ok := db.(*database.DatabaseInstance)
	if !ok {
		return fmt.Errorf("migrations require a concrete database instance")
	}

	driver, err := postgres.WithInstance(instance.DB.DB, &postgres.Config{})
	if err != nil {
		return err
	}

	ms := database.NewMigrationService(logger, &database.MigrationConfig{
		MigrationFolderPath: cfg.DatabaseMigrationFolderPath,
		Version:             uint(cfg.DatabaseMigrationVersion),
		Force:               cfg.DatabaseMigrationForce,
		AutoRollback:        cfg.DatabaseMigrationAutoRollback,
	})
	return ms.Migrate(cfg.DatabaseName, driver)
}

func initTracing(ctx context.Context, cfg config.Config) (func(), error) {
	exporter, err := exporters.NewOTLPExporter(ctx, exporters.OTLPConfig{
		Endpoint: cfg.TracingOTLPEndpoint,
		Protocol: cfg.TracingOTLPProtocol,
		Insecure: cfg.TracingInsecure,
		Timeout:  10 * time.Second,
	})
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(resource.NewSchemaless(
			attribute.String("service.name", cfg.AppName),
			attribute.String("service.version", cfg.Version),
		)),
	)
	otel.SetTracerProvider(tp)
	tracing.SetTracer(tp.Tracer(cfg.AppName))

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = tp.Shutdown(shutdownCtx)
	}, nil
}

// consumerDependency adapts the Kafka consumer to the startup orchestrator
type consumerDependency struct {
	consumer *kafka.Consumer
}

func (d *consumerDependency) GetName() string     { return "kafka-consumer" }
func (d *consumerDependency) DependsOn() []string { return nil }
func (d *consumerDependency) Start(ctx context.Context) error {
	return d.consumer.Start(ctx)
}
func (d *consumerDependency) Stop(ctx context.Context) error {
	return d.consumer.Stop()
}

// serverDependency adapts the echo server to the startup orchestrator
type serverDependency struct {
	server *echo.Echo
	port   int
	logger ectologger.Logger
}

func (d *serverDependency) GetName() string     { return "http-server" }
func (d *serverDependency) DependsOn() []string { return nil }
func (d *serverDependency) Start(ctx context.Context) error {
	go func() {
		if err := d.server.Start(fmt.Sprintf(":%d", d.port)); err != nil && err != http.ErrServerClosed {
			d.logger.WithError(err).Error("HTTP server stopped unexpectedly")
		}
	}()
	return nil
}
func (d *serverDependency) Stop(ctx context.Context) error {
	return d.server.Shutdown(ctx)
}
