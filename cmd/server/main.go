package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"socialnet/docs"
	"socialnet/internal/auth"
	"socialnet/internal/cache"
	"socialnet/internal/config"
	"socialnet/internal/db"
	"socialnet/internal/handler"
	"socialnet/internal/logger"
	"socialnet/internal/mailer"
	"socialnet/internal/repository"
	"socialnet/internal/router"
	"socialnet/internal/service"
)

// @title Social Network API
// @version 1.0
// @description Account signup and email activation for the social network.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the session token.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	appLog, err := logger.New(logger.ParseEnvironment(cfg.LogMode), cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = appLog.Sync() }()
	logger.SetGlobal(appLog)

	ctx := logger.NewContext(context.Background(), appLog)

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		appLog.Fatal(ctx, "database init", zap.Error(err))
	}
	if cfg.ResetDB {
		appLog.Warn(ctx, "RESET_DB set, dropping users table")
	}
	if err := db.Migrate(gormDB, cfg.ResetDB); err != nil {
		appLog.Fatal(ctx, "migrate", zap.Error(err))
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cacheClient.Close()
	if err := cacheClient.Ping(ctx); err != nil {
		appLog.Warn(ctx, "redis unavailable, profile cache disabled until it recovers", zap.Error(err))
	}

	var notifier mailer.Notifier = mailer.NewLogNotifier()
	if cfg.MailEnabled() {
		notifier = mailer.NewSendGridNotifier(cfg.SendGridAPIKey, cfg.SenderEmail)
	} else {
		appLog.Warn(ctx, "SENDGRID_API_KEY not set, verification links are only logged")
	}

	userRepo := repository.NewUserRepository(gormDB)
	jwtService := auth.NewJWTService(cfg.JWTSecret)

	userService := service.NewUserService(userRepo, cacheClient)
	signupValidator := service.NewSignupValidator(time.Now)
	signupService := service.NewSignupService(
		userRepo,
		signupValidator,
		auth.NewPasswordHasher(auth.BcryptCost),
		jwtService,
		notifier,
		cfg.BaseURL,
	)
	activationService := service.NewActivationService(userRepo, jwtService, userService, time.Now)

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = strings.TrimPrefix(strings.TrimPrefix(cfg.SwaggerHost, "https://"), "http://")
	}

	e := echo.New()
	e.HideBanner = true
	router.Register(
		e,
		cfg,
		appLog,
		handler.NewAuthHandler(signupService, activationService, signupValidator),
		handler.NewUserHandler(userService),
	)

	go func() {
		addr := ":" + cfg.ServerPort
		appLog.Info(ctx, "server listening",
			zap.String("addr", addr),
			zap.String("swagger", "http://"+docs.SwaggerInfo.Host+"/swagger/index.html"))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLog.Fatal(ctx, "server start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		appLog.Error(ctx, "shutdown", zap.Error(err))
	}
	appLog.Info(ctx, "server stopped")
}
