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

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/suteetoe/marketplace/internal/events"
	"github.com/suteetoe/marketplace/internal/handler"
	"github.com/suteetoe/marketplace/internal/middleware"
	"github.com/suteetoe/marketplace/internal/model"
	"github.com/suteetoe/marketplace/internal/repository"
	"github.com/suteetoe/marketplace/internal/repository/memrepo"
	"github.com/suteetoe/marketplace/internal/service"
	"github.com/suteetoe/marketplace/internal/session"
	"github.com/suteetoe/marketplace/internal/upload"
	"github.com/suteetoe/marketplace/pkg/config"
	"github.com/suteetoe/marketplace/pkg/database"
	"github.com/suteetoe/marketplace/pkg/jwtutil"
	"github.com/suteetoe/marketplace/pkg/logger"
	"github.com/suteetoe/marketplace/pkg/metrics"
	"github.com/suteetoe/marketplace/web"
	"go.uber.org/zap"
)

func main() {
	// Load configuration from .env file and environment variables
	conf, err := config.Load("marketplace")
	if err != nil {
		fmt.Printf("Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	err = logger.InitLogger(&logger.LogConfig{
		Level:       conf.Log.Level,
		Environment: conf.Server.Env,
		ServiceName: conf.ServiceName,
	})
	if err != nil {
		fmt.Printf("Error initializing logger: %v\n", err)
		os.Exit(1)
	}
	log := logger.GetLogger()
	defer log.Sync()
	log.Info("Starting marketplace...", conf.LogConfig()...)

	var repo repository.Repository
	switch conf.DB.Driver {
	case "memory":
		repo = memrepo.New()
		log.Warn("Using in-memory storage; data is lost on restart")
	default:
		db, err := database.InitDB(&conf.DB, log)
		if err != nil {
			log.Fatal("Failed to initialize database", zap.Error(err))
		}
		defer database.Close(db)

		if err := database.MigrateModels(db, model.All()...); err != nil {
			log.Fatal("Failed to migrate database models", zap.Error(err))
		}
		repo = repository.New(db)
	}

	jwt := jwtutil.NewJWTUtil(&jwtutil.JWTConfig{
		SigningKey:      conf.JWT.SigningKey,
		ExpirationHours: conf.JWT.ExpirationHours,
	})

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	httpMetrics := metrics.NewHTTPMetrics(conf.ServiceName, registry)
	marketMetrics := metrics.NewMarketplace(conf.Metrics.Prefix, registry)

	var revoker session.Revoker = session.NewMemoryRevoker()
	if conf.Redis.URL != "" {
		redisRevoker, err := session.NewRedisRevoker(conf.Redis.URL)
		if err != nil {
			log.Fatal("Failed to connect to redis", zap.Error(err))
		}
		defer redisRevoker.Close()
		revoker = redisRevoker
		log.Info("Session revocation backed by redis")
	}

	var publisher events.Publisher = events.Noop{}
	if conf.AMQP.URL != "" {
		amqpPublisher, err := events.Dial(conf.AMQP.URL, conf.AMQP.Exchange)
		if err != nil {
			log.Fatal("Failed to connect to broker", zap.Error(err))
		}
		defer amqpPublisher.Close()
		publisher = amqpPublisher
		log.Info("Publishing events", zap.String("exchange", conf.AMQP.Exchange))
	}

	svc := service.New(repo,
		service.WithLogger(log),
		service.WithMetrics(marketMetrics),
		service.WithEvents(publisher),
	)

	uploads := upload.NewStore(conf.Upload.Dir, conf.Upload.MaxBytes)
	if err := os.MkdirAll(uploads.Dir(), 0o755); err != nil {
		log.Fatal("Failed to create upload directory", zap.String("dir", uploads.Dir()), zap.Error(err))
	}

	renderer, err := web.NewRenderer()
	if err != nil {
		log.Fatal("Failed to parse templates", zap.Error(err))
	}

	sessions := middleware.NewSessions(jwt, revoker, conf.Session, marketMetrics)

	e := echo.New()
	e.HideBanner = true
	e.Renderer = renderer

	// Apply global middleware - order matters
	e.Use(echomiddleware.Recover())
	e.Use(middleware.RequestIDMiddleware())
	e.Use(logger.Middleware())
	e.Use(httpMetrics.Middleware())
	e.Use(echomiddleware.BodyLimit(fmt.Sprintf("%dK", conf.Upload.MaxBytes/1024+64)))
	e.Use(sessions.Middleware())

	e.GET("/metrics", echo.WrapHandler(metrics.Handler(registry)))
	handler.New(svc, sessions, uploads).RegisterRoutes(e)

	go func() {
		log.Info("Starting server", zap.String("port", conf.Server.Port))
		if err := e.Start(":" + conf.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	log.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown failed", zap.Error(err))
	}
}
