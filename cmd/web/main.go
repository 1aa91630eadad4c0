package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/iteach-web/api/swagger"
	"github.com/noah-isme/iteach-web/internal/handler"
	internalmiddleware "github.com/noah-isme/iteach-web/internal/middleware"
	"github.com/noah-isme/iteach-web/internal/repository"
	"github.com/noah-isme/iteach-web/internal/service"
	"github.com/noah-isme/iteach-web/pkg/cache"
	"github.com/noah-isme/iteach-web/pkg/config"
	"github.com/noah-isme/iteach-web/pkg/i18n"
	"github.com/noah-isme/iteach-web/pkg/logger"
	corsmiddleware "github.com/noah-isme/iteach-web/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/iteach-web/pkg/middleware/requestid"
	"github.com/noah-isme/iteach-web/pkg/render"
)

// @title iTeach Web
// @version 0.1.0
// @description Lesson dialogs and student schedule fragments in front of the lesson API
// @BasePath /
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	bundle, err := i18n.NewBundle(cfg.Locale.Default, cfg.Locale.Supported)
	if err != nil {
		logr.Fatal("failed to load locales", zap.Error(err))
	}

	validate := service.NewValidator()
	if err := service.RegisterValidationMessages(validate); err != nil {
		logr.Fatal("failed to register validation messages", zap.Error(err))
	}

	metrics := service.NewMetricsService()

	var sessionRepo service.SessionRepository
	switch cfg.Session.Store {
	case config.SessionStoreRedis:
		client, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Fatal("failed to connect to redis", zap.Error(err))
		}
		redisRepo := repository.NewSessionRepository(client, logr)
		defer redisRepo.Close() //nolint:errcheck
		sessionRepo = redisRepo
	default:
		logr.Warn("using in-memory session store; state is lost on restart and not shared between instances")
		sessionRepo = repository.NewMemorySessionRepository()
	}

	lessonAPI, err := repository.NewLessonAPIRepository(cfg.LessonAPI.BaseURL, cfg.LessonAPI.Timeout, nil, metrics, logr)
	if err != nil {
		logr.Fatal("invalid lesson api url", zap.Error(err))
	}

	sessions := service.NewSessionService(sessionRepo, metrics, cfg.Session.TTL, logr)
	sessions.SetSubmitTimeout(cfg.LessonAPI.Timeout)
	tokens := service.NewSessionTokenService(service.SessionTokenConfig{Secret: cfg.Session.Secret, TTL: cfg.Session.TTL})
	editor := service.NewLessonEditorService(lessonAPI, sessions, validate, metrics, logr, service.LessonEditorConfig{
		HomeRoute:   cfg.UI.HomeRoute,
		DialogWidth: cfg.UI.DialogWidth,
	})
	schedule := service.NewStudentScheduleService(lessonAPI, sessions, metrics, logr, service.StudentScheduleConfig{
		LessonDetailRoute: cfg.UI.LessonDetailRoute,
	})
	exports := service.NewExportService(schedule, logr, nil, nil)

	tmpl, err := render.Templates()
	if err != nil {
		logr.Fatal("failed to parse templates", zap.Error(err))
	}

	r := gin.New()
	r.SetHTMLTemplate(tmpl)
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metrics))

	metricsHandler := handler.NewMetricsHandler(metrics.Handler())
	r.GET("/health", metricsHandler.Health)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	app := r.Group("/")
	app.Use(internalmiddleware.Session(tokens, bundle, internalmiddleware.SessionCookie{
		Name:   cfg.Session.CookieName,
		Secure: cfg.Session.Secure,
	}, logr))
	handler.RegisterRoutes(app, handler.NewLessonHandler(editor, bundle), handler.NewStudentHandler(schedule, exports, bundle))

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "lesson_api", cfg.LessonAPI.BaseURL, "session_store", cfg.Session.Store)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Warn("graceful shutdown failed", zap.Error(err))
	}
	logr.Info("server stopped")
}
