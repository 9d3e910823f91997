package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Gehlin/Currency-calculator/internal/config"
	"github.com/Gehlin/Currency-calculator/internal/handler"
	"github.com/Gehlin/Currency-calculator/internal/middleware"
	"github.com/Gehlin/Currency-calculator/internal/service"
	"github.com/Gehlin/Currency-calculator/internal/session"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type Application struct {
	config   *config.Config
	router   *gin.Engine
	logger   *zap.Logger
	sessions *session.Store
	server   *http.Server
}

func New(cfg *config.Config) (*Application, error) {
	logger := initLogger(&cfg.Logging)
	return NewWithLogger(cfg, logger)
}

// NewWithLogger собирает приложение с готовым логгером (удобно в тестах).
func NewWithLogger(cfg *config.Config, logger *zap.Logger) (*Application, error) {
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
		logger.Info("Running in RELEASE mode")
	} else if cfg.Server.Mode == "test" {
		gin.SetMode(gin.TestMode)
	} else {
		gin.SetMode(gin.DebugMode)
		logger.Info("Running in DEBUG mode")
	}
	router := gin.New()

	currencyService := service.NewCurrencyService(cfg.API, logger)
	sessions, err := session.NewStore(currencyService, cfg.Session, cfg.Converter.DebounceDelay, logger)
	if err != nil {
		return nil, err
	}

	app := &Application{
		config:   cfg,
		router:   router,
		logger:   logger,
		sessions: sessions,
	}
	app.setupMiddleware()
	app.setupRouter(handler.NewCurrencyHandler(currencyService), handler.NewSessionHandler(sessions))
	logger.Info("Application initialized",
		zap.String("host", cfg.Server.Host),
		zap.String("port", cfg.Server.Port),
		zap.String("rates_api", cfg.API.CurrencyAPIURL),
		zap.Duration("debounce", cfg.Converter.DebounceDelay),
	)
	return app, nil
}

func initLogger(cfg *config.LoggingConfig) *zap.Logger {
	var logger *zap.Logger
	var err error
	if cfg.Format == "json" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	switch cfg.Level {
	case "debug":
		logger = logger.WithOptions(zap.IncreaseLevel(zap.DebugLevel))
	case "info":
		logger = logger.WithOptions(zap.IncreaseLevel(zap.InfoLevel))
	case "warn":
		logger = logger.WithOptions(zap.IncreaseLevel(zap.WarnLevel))
	case "error":
		logger = logger.WithOptions(zap.IncreaseLevel(zap.ErrorLevel))
	}
	return logger
}

func (a *Application) setupMiddleware() {
	a.router.Use(middleware.RecoveryMiddleware(a.logger))
	a.router.Use(middleware.LoggingMiddleware(a.logger))
	a.router.Use(middleware.CORSMiddleware())
	a.logger.Debug("Middleware configured")
}

func (a *Application) setupRouter(currencyHandler *handler.CurrencyHandler, sessionHandler *handler.SessionHandler) {
	a.router.GET("/health", handler.HealthCheck)
	a.router.GET("/", handler.Widget)
	a.router.GET("/ui", handler.Widget)

	apiV1 := a.router.Group("/api/v1")
	apiV1.GET("/convert", currencyHandler.Convert)
	apiV1.GET("/currencies", currencyHandler.Currencies)

	sessions := apiV1.Group("/sessions")
	sessions.POST("", sessionHandler.Create)
	sessions.GET("/:id", sessionHandler.Get)
	sessions.PATCH("/:id", sessionHandler.Update)
	sessions.POST("/:id/clear", sessionHandler.Clear)
	sessions.DELETE("/:id", sessionHandler.Delete)

	a.logger.Debug("Routes configured",
		zap.String("health", "GET /health"),
		zap.String("convert", "GET /api/v1/convert"),
		zap.String("sessions", "/api/v1/sessions"),
		zap.String("frontend", "GET /ui"),
	)
}

// Handler - роутер приложения, для httptest.
func (a *Application) Handler() http.Handler {
	return a.router
}

// Run блокируется до SIGINT/SIGTERM или ошибки сервера.
func (a *Application) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return a.Serve(ctx)
}

// Serve запускает HTTP сервер и очистку сессий, пока ctx не отменён.
func (a *Application) Serve(ctx context.Context) error {
	a.server = &http.Server{
		Addr:         a.config.Server.Addr(),
		Handler:      a.router,
		ReadTimeout:  a.config.Server.ReadTimeout,
		WriteTimeout: a.config.Server.WriteTimeout,
	}
	a.sessions.Start()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.logger.Info("Server starting",
			zap.String("address", a.server.Addr),
			zap.String("mode", a.config.Server.Mode),
		)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		a.logger.Info("Shutting down")
		return a.Shutdown()
	})
	return g.Wait()
}

// Shutdown корректно останавливает сервер, сессии и логгер.
func (a *Application) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var err error
	if a.server != nil {
		if shutdownErr := a.server.Shutdown(ctx); shutdownErr != nil {
			err = fmt.Errorf("graceful shutdown failed: %w", shutdownErr)
		}
	}
	a.sessions.Stop()
	_ = a.logger.Sync()

	if err == nil {
		a.logger.Info("Server stopped gracefully")
	}
	return err
}
