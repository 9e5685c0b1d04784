package app

import (
	"codehabit_backend/internal/collab"
	"codehabit_backend/internal/config"
	"codehabit_backend/internal/controller"
	"codehabit_backend/internal/model"
	"codehabit_backend/internal/repository"
	"codehabit_backend/internal/service"
	"codehabit_backend/internal/util"
	"codehabit_backend/pkg/configwatcher"
	"codehabit_backend/pkg/database"
	"codehabit_backend/pkg/logger"
	"codehabit_backend/pkg/monitoring"
	"codehabit_backend/pkg/security"
	"codehabit_backend/pkg/tracing"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	InterviewService = "interview"
	HabitsService    = "habits"

	shutdownTimeout = 5 * time.Second
)

type App struct {
	Name            string
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	hub             *collab.Hub
	tracer          *sdktrace.TracerProvider
	ctx             context.Context
	cancel          context.CancelFunc
	configCallbacks []func(*config.Config)
}

type interviewControllers struct {
	session *controller.SessionController
	collab  *controller.CollabController
	health  *controller.HealthController
}

type habitControllers struct {
	habit      *controller.HabitController
	completion *controller.CompletionController
	stats      *controller.StatsController
	health     *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

// newApp sets up what both services share: logging, database, redis, tracing and the
// middleware chain. Routes are registered by the caller.
func newApp(cfg *config.Config, name string, models []interface{}) (*App, error) {
	logger.InitLogger(cfg, name)
	logger.Log.Info("Logger initialized successfully")

	if cfg.IsRelease() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.InitDB(&cfg.Database, cfg.Server.Mode == "debug")
	if err != nil {
		return nil, fmt.Errorf("initialize database: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		Name:   name,
		Config: cfg,
		DB:     db,
		ctx:    ctx,
		cancel: cancel,
	}
	if err := app.init(models); err != nil {
		app.Close(context.Background())
		return nil, err
	}

	monitoring.Init()

	router := gin.Default()
	app.Router = router
	app.setupMiddlewares(router, cfg)

	app.RegisterConfigCallback(func(c *config.Config) {
		logger.SetMode(c.Server.Mode)
	})

	return app, nil
}

// init runs the startup steps that follow opening the database. On error the
// caller closes whatever was opened.
func (a *App) init(models []interface{}) error {
	cfg := a.Config
	if cfg.ForceMigrate || !cfg.IsRelease() {
		if err := database.Migrate(a.DB, models...); err != nil {
			return fmt.Errorf("migrate database: %w", err)
		}
	}

	if cfg.Redis.Enabled {
		rdb, err := database.InitRedis(&cfg.Redis)
		if err != nil {
			return fmt.Errorf("initialize redis: %w", err)
		}
		a.Redis = rdb
	}

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("codehabit-"+a.Name, cfg.Tracing.CollectorEndpoint)
		if err != nil {
			return fmt.Errorf("initialize tracing: %w", err)
		}
		a.tracer = tp
		if err := database.EnableTracing(a.DB); err != nil {
			logger.Log.Warn("Failed to enable database tracing", zap.Error(err))
		}
	}

	return util.RegisterValidators()
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(security.RateLimiter(a.ctx, cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute,
		"/api/health", "/metrics"))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// NewInterviewApp builds the collaborative interview service: REST sessions plus the
// realtime hub.
func NewInterviewApp(cfg *config.Config) (*App, error) {
	app, err := newApp(cfg, InterviewService, model.InterviewModels())
	if err != nil {
		return nil, err
	}

	sessions := repository.NewSessionRepository(app.DB)
	app.hub = collab.NewHub(sessions, cfg.Collab.SaveDebounce)
	go app.hub.Run(app.ctx)

	c := &interviewControllers{
		session: controller.NewSessionController(service.NewSessionService(sessions)),
		collab: controller.NewCollabController(app.hub, collab.ClientOptions{
			MaxMessageSize:    cfg.Collab.MaxMessageSize,
			MessagesPerSecond: cfg.Collab.MessagesPerSecond,
			Burst:             cfg.Collab.Burst,
			CheckOrigin:       security.AllowOrigin(cfg.CORS.AllowedOrigins),
		}),
		health: controller.NewHealthController(InterviewService, app.DB, app.Redis),
	}
	app.registerInterviewRoutes(app.Router, c)
	return app, nil
}

// NewHabitApp builds the habit tracker service.
func NewHabitApp(cfg *config.Config) (*App, error) {
	app, err := newApp(cfg, HabitsService, model.HabitModels())
	if err != nil {
		return nil, err
	}

	loc, err := cfg.Location()
	if err != nil {
		app.Close(context.Background())
		return nil, err
	}
	clock := service.NewClock(loc)

	habits := repository.NewHabitRepository(app.DB)
	completions := repository.NewCompletionRepository(app.DB)

	var cache *service.StatsCache
	if app.Redis != nil {
		cache = service.NewStatsCache(app.Redis, cfg.Redis.StatsTTL)
	}

	c := &habitControllers{
		habit:      controller.NewHabitController(service.NewHabitService(habits, completions, cache, clock)),
		completion: controller.NewCompletionController(service.NewCompletionService(habits, completions, cache)),
		stats:      controller.NewStatsController(service.NewStatsService(habits, completions, cache, clock)),
		health:     controller.NewHealthController(HabitsService, app.DB, app.Redis),
	}
	app.registerHabitRoutes(app.Router, c)
	return app, nil
}

func (a *App) applyConfig(cfg *config.Config) {
	for _, callback := range a.configCallbacks {
		callback(cfg)
	}
}

// Run serves until SIGINT/SIGTERM, then drains connections within shutdownTimeout.
func (a *App) Run() error {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	if a.Config.File != "" {
		go func() {
			if err := configwatcher.WatchConfig(a.ctx, a.Config.File, a.applyConfig); err != nil {
				logger.Log.Error("Config watcher stopped", zap.Error(err))
			}
		}()
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Log.Info("Server running", zap.String("service", a.Name), zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	var serveErr error
	select {
	case <-quit:
	case serveErr = <-errCh:
		logger.Log.Error("Server failed", zap.Error(serveErr))
	}
	logger.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", zap.Error(err))
	}
	a.Close(ctx)

	logger.Log.Info("Server exiting")
	return serveErr
}

// Close stops background work: the hub writes pending code before the pool closes.
// It only releases what was opened, so it is safe on a partially built App.
func (a *App) Close(ctx context.Context) {
	if a.hub != nil {
		a.hub.Stop(ctx)
	}
	if a.cancel != nil {
		a.cancel()
	}

	if a.tracer != nil {
		if err := a.tracer.Shutdown(ctx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if a.Redis != nil {
		a.Redis.Close()
	}
	if a.DB != nil {
		if sqlDB, err := a.DB.DB(); err == nil {
			sqlDB.Close()
		}
	}
	logger.Log.Sync()
}
