package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/controlfichajes/fichajes-backend-go/internal/config"
	appHTTP "github.com/controlfichajes/fichajes-backend-go/internal/handler/http"
	"github.com/controlfichajes/fichajes-backend-go/internal/pkg/database"
	"github.com/controlfichajes/fichajes-backend-go/internal/pkg/jwt"
	"github.com/controlfichajes/fichajes-backend-go/internal/pkg/logger"
	"github.com/controlfichajes/fichajes-backend-go/internal/pkg/ratelimit"
	"github.com/controlfichajes/fichajes-backend-go/internal/pkg/storage"
	"github.com/controlfichajes/fichajes-backend-go/internal/repository/postgresql"
	attendanceService "github.com/controlfichajes/fichajes-backend-go/internal/service/attendance"
	serviceAuth "github.com/controlfichajes/fichajes-backend-go/internal/service/auth"
	"github.com/controlfichajes/fichajes-backend-go/internal/service/file"
	incidentService "github.com/controlfichajes/fichajes-backend-go/internal/service/incident"
	reportService "github.com/controlfichajes/fichajes-backend-go/internal/service/report"
	userService "github.com/controlfichajes/fichajes-backend-go/internal/service/user"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 30 * time.Second

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, log, err := loadConfig()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		return runServer(ctx, cfg, log)
	},
}

func runServer(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL())
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	JWTService, err := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	if err != nil {
		return fmt.Errorf("init jwt: %w", err)
	}

	fileStorage, err := storage.NewLocalStorage(cfg.Storage.BasePath)
	if err != nil {
		return fmt.Errorf("init local storage: %w", err)
	}

	loginLimiter, closeRedis := newLoginLimiter(ctx, cfg)
	defer closeRedis()

	txManager := postgresql.NewTxManager(db)
	userRepo := postgresql.NewUserRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	incidentRepo := postgresql.NewIncidentRepository(db)

	fileService := file.NewFileService(fileStorage)
	authService := serviceAuth.NewAuthService(userRepo, JWTService)
	usersService := userService.NewUserService(userRepo)
	attendanceSvc := attendanceService.NewAttendanceService(txManager, attendanceRepo, userRepo, cfg.Location())
	incidentSvc := incidentService.NewIncidentService(txManager, incidentRepo, userRepo, fileService, cfg.Upload.MaxDocumentSize)
	reportSvc := reportService.NewReportService(attendanceSvc)

	router := appHTTP.NewRouter(
		appHTTP.RouterConfig{
			Logger:         log,
			LogLevel:       logger.ParseLevel(cfg.App.Env, cfg.App.LogLevel),
			AllowedOrigins: cfg.App.AllowedOrigins,
			RequestTimeout: cfg.App.RequestTimeout,
			ConciseLogs:    cfg.IsProduction(),
			TrustProxy:     cfg.App.TrustProxy,
		},
		JWTService,
		loginLimiter,
		appHTTP.NewAuthHandler(authService),
		appHTTP.NewUserHandler(usersService),
		appHTTP.NewAttendanceHandler(attendanceSvc, reportSvc),
		appHTTP.NewIncidentHandler(incidentSvc, cfg.Upload.MaxDocumentSize),
	)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("Starting HTTP server", "address", server.Addr, "timezone", cfg.App.Timezone)
		serverErr <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		slog.Info("Shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
	}

	slog.Info("Server stopped")
	return nil
}

// newLoginLimiter connects to Redis when configured. Without Redis login throttling is off.
func newLoginLimiter(ctx context.Context, cfg *config.Config) (ratelimit.Limiter, func()) {
	noop := func() {}
	if !cfg.RateLimit.Enabled || cfg.Redis.Addr == "" {
		slog.Info("login rate limiting disabled")
		return nil, noop
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		slog.Warn("redis unreachable, login rate limiting disabled", "addr", cfg.Redis.Addr, "error", err)
		_ = client.Close()
		return nil, noop
	}

	limiter := ratelimit.NewRedisLimiter(client, ratelimit.Config{
		Capacity:       cfg.RateLimit.Capacity,
		RefillInterval: cfg.RateLimit.RefillInterval,
		TTL:            cfg.RateLimit.TTL,
		Prefix:         "fichajes:rl",
	})
	return limiter, func() { _ = client.Close() }
}
