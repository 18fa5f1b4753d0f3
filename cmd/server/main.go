package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	grpcapi "reservation-backoffice/internal/api/grpc"
	httpapi "reservation-backoffice/internal/api/http"
	"reservation-backoffice/internal/cache"
	"reservation-backoffice/internal/config"
	"reservation-backoffice/internal/logger"
	"reservation-backoffice/internal/queue"
	"reservation-backoffice/internal/repository/postgres"
	"reservation-backoffice/internal/security"
	"reservation-backoffice/internal/service"

	_ "github.com/lib/pq"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting reservation back-office...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "http_address", cfg.GetServerAddress(), "grpc_address", cfg.GetGRPCAddress(), "timezone", cfg.App.Timezone)
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)
	logger.Info("Email configuration", "provider", cfg.Email.Provider, "from", cfg.Email.From)

	// Initialize Database
	logger.Debug("Connecting to database...", "connection_string", fmt.Sprintf("%s@%s:%d/%s", cfg.Database.User, cfg.Database.Host, cfg.Database.Port, cfg.Database.Database))
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)

	// Test database connection
	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Initialize Repositories
	store := postgres.NewStore(db)

	// Initialize Security
	tokenManager := security.NewTokenManager(cfg.JWT.Secret, cfg.AccessTokenTTL())

	// Initialize dashboard cache
	dashboardCache := service.NopCache()
	if cfg.Redis.Enabled {
		client, err := cache.Connect(context.Background(), cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			logger.Error("Failed to connect to redis", "error", err, "addr", cfg.Redis.Addr)
			log.Fatalf("Failed to connect to redis: %v", err)
		}
		defer client.Close()
		dashboardCache = cache.NewRedisCache(client, cfg.CacheTTL())
		logger.Info("Dashboard cache enabled", "addr", cfg.Redis.Addr, "ttl", cfg.CacheTTL())
	}

	// Initialize Email Service
	mailer, err := newMailer(cfg)
	if err != nil {
		logger.Error("Failed to initialize mailer", "error", err)
		log.Fatalf("Failed to initialize mailer: %v", err)
	}
	loc := cfg.Location()
	emailSvc := service.NewEmailService(mailer, loc, cfg.Email.FromName, cfg.App.BaseURL)

	// Initialize Services
	services := httpapi.Services{
		Auth:         service.NewAuthService(store.UserRepository, tokenManager),
		Commissions:  service.NewCommissionService(store.CommissionRepository, dashboardCache),
		Locations:    service.NewLocationService(store.LocationRepository, store.CommissionRepository, dashboardCache),
		Users:        service.NewUserService(store.UserRepository, store.CommissionRepository, emailSvc),
		Reservations: service.NewReservationService(store.ReservationRepository, store.LocationRepository, emailSvc, dashboardCache),
		Dashboard:    service.NewDashboardService(store.StatsRepository, store.CommissionRepository, dashboardCache, loc),
		Reports: service.NewReportService(
			store.StatsRepository,
			store.CommissionRepository,
			store.LocationRepository,
			store.UserRepository,
			emailSvc,
			loc,
		),
	}

	router := httpapi.NewRouter(services, httpapi.RouterConfig{
		Tokens:     tokenManager,
		Users:      store.UserRepository,
		CronSecret: cfg.Server.CronSecret,
		Location:   loc,
		Health:     db.PingContext,
	})
	httpServer := &http.Server{
		Addr:              cfg.GetServerAddress(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
	}

	// Set up gRPC server for health checks and slot pre-checks
	lis, err := net.Listen("tcp", cfg.GetGRPCAddress())
	if err != nil {
		logger.Error("Failed to listen", "error", err, "address", cfg.GetGRPCAddress())
		log.Fatalf("Failed to listen: %v", err)
	}
	grpcServer, healthServer := grpcapi.NewServer(security.NewSessionResolver(tokenManager, store.UserRepository), services.Reservations)

	errCh := make(chan error, 2)
	go func() {
		logger.Info("gRPC server listening", "address", cfg.GetGRPCAddress())
		if err := grpcServer.Serve(lis); err != nil {
			errCh <- fmt.Errorf("grpc server: %w", err)
		}
	}()
	go func() {
		logger.Info("HTTP server listening", "address", cfg.GetServerAddress())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	// Wait for interrupt signal or a server failure
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	select {
	case sig := <-sigChan:
		logger.Info("Received shutdown signal", "signal", sig.String())
	case err := <-errCh:
		logger.Error("Server failed", "error", err)
	}

	// Graceful shutdown
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	healthServer.SetServingStatus(grpcapi.ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("HTTP server shutdown failed", "error", err)
	}
	grpcServer.GracefulStop()
	logger.Info("Server stopped. Goodbye!")
}

// newMailer selects the email transport. "queue" hands messages to the broker and
// leaves delivery to cmd/mailer.
func newMailer(cfg *config.Config) (service.Mailer, error) {
	switch cfg.Email.Provider {
	case "smtp":
		return service.NewSMTPMailer(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.User, cfg.SMTP.Password, cfg.Email.From, cfg.Email.FromName), nil
	case "sendgrid":
		return service.NewSendGridMailer(cfg.SendGrid.APIKey, cfg.Email.From, cfg.Email.FromName), nil
	case "queue":
		return queue.NewPublisher(cfg.AMQP.URL, cfg.AMQP.Queue), nil
	}
	return nil, fmt.Errorf("unknown email provider: %q", cfg.Email.Provider)
}
