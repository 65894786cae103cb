package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"socialnet/internal/auth"
	"socialnet/internal/config"
	"socialnet/internal/db"
	apperrors "socialnet/internal/errors"
	"socialnet/internal/logger"
	"socialnet/internal/mailer"
	"socialnet/internal/repository"
	"socialnet/internal/service"
)

// seed registers demo users through the normal signup pipeline. The source is
// a JSON array of signup payloads, read from a file or fetched over HTTP.
func main() {
	source := flag.String("source", "", "path or http(s) URL of a JSON array of signup payloads")
	flag.Parse()
	if *source == "" {
		log.Fatal("-source is required")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	appLog, err := logger.New(logger.ParseEnvironment(cfg.LogMode), cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	logger.SetGlobal(appLog)
	ctx := logger.NewContext(context.Background(), appLog)

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		appLog.Fatal(ctx, "connect to database", zap.Error(err))
	}
	if err := db.Migrate(gormDB, false); err != nil {
		appLog.Fatal(ctx, "migrate", zap.Error(err))
	}

	requests, err := loadRequests(ctx, *source)
	if err != nil {
		appLog.Fatal(ctx, "load seed data", zap.Error(err))
	}
	appLog.Info(ctx, "seed data loaded", zap.Int("count", len(requests)))

	// Seeded accounts never get real mail.
	signup := service.NewSignupService(
		repository.NewUserRepository(gormDB),
		service.NewSignupValidator(time.Now),
		auth.NewPasswordHasher(auth.BcryptCost),
		auth.NewJWTService(cfg.JWTSecret),
		mailer.NewLogNotifier(),
		cfg.BaseURL,
	)

	var created, skipped int
	for _, req := range requests {
		res, err := signup.Register(ctx, req)
		switch {
		case errors.Is(err, apperrors.ErrDuplicateEmail):
			skipped++
		case err != nil:
			appLog.Warn(ctx, "seed user rejected", zap.String("email", req.EmailAddress()), zap.Error(err))
			skipped++
		default:
			created++
			appLog.Info(ctx, "seed user created", zap.String("username", res.User.Username))
		}
	}

	appLog.Info(ctx, "seed completed", zap.Int("created", created), zap.Int("skipped", skipped))
}

func loadRequests(ctx context.Context, source string) ([]service.SignupRequest, error) {
	var body io.ReadCloser
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("fetch %s: %w", source, err)
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, fmt.Errorf("fetch %s: status %d", source, resp.StatusCode)
		}
		body = resp.Body
	} else {
		f, err := os.Open(source)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", source, err)
		}
		body = f
	}
	defer body.Close()

	var requests []service.SignupRequest
	if err := json.NewDecoder(body).Decode(&requests); err != nil {
		return nil, fmt.Errorf("decode seed data: %w", err)
	}
	return requests, nil
}
