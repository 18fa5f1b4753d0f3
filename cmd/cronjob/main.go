package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"

	"reservation-backoffice/internal/config"
	"reservation-backoffice/internal/domain"
	"reservation-backoffice/internal/jobs"
	"reservation-backoffice/internal/logger"
	"reservation-backoffice/internal/queue"
	"reservation-backoffice/internal/repository/postgres"
	"reservation-backoffice/internal/scheduler"
	"reservation-backoffice/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	runOnce := flag.String("run-once", "", "Run a specific job once and exit (monthly-report, monthly-report-current)")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting reservation back-office cronjob...", "timezone", cfg.App.Timezone)

	// Initialize Database
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	store := postgres.NewStore(db)

	// Initialize Services
	mailer, err := newMailer(cfg)
	if err != nil {
		logger.Error("Failed to initialize mailer", "error", err)
		log.Fatalf("Failed to initialize mailer: %v", err)
	}
	loc := cfg.Location()
	emailService := service.NewEmailService(mailer, loc, cfg.Email.FromName, cfg.App.BaseURL)

	reportService := service.NewReportService(
		store.StatsRepository,
		store.CommissionRepository,
		store.LocationRepository,
		store.UserRepository,
		emailService,
		loc,
	)

	// Initialize Job Runner
	jobRunner := jobs.NewJobRunner(&jobs.Services{Reports: reportService}, cfg)

	// Check if running a single job
	if *runOnce != "" {
		logger.Info("Running job once", "job", *runOnce)
		if err := runJobOnce(jobRunner, *runOnce); err != nil {
			logger.Error("Job execution failed", "job", *runOnce, "error", err)
			os.Exit(1)
		}
		logger.Info("Job execution completed", "job", *runOnce)
		return
	}

	// Initialize Scheduler
	cronScheduler, err := scheduler.NewScheduler(jobRunner)
	if err != nil {
		log.Fatalf("Failed to initialize scheduler: %v", err)
	}

	// Start scheduler
	cronScheduler.Start()
	logger.Info("Cronjob scheduler is running. Press Ctrl+C to stop.")

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown
	logger.Info("Shutting down cronjob scheduler...")
	cronScheduler.Stop()
	logger.Info("Cronjob scheduler stopped. Goodbye!")
}

// runJobOnce runs a specific job once and exits
func runJobOnce(jobRunner *jobs.JobRunner, jobName string) error {
	ctx := context.Background()
	switch jobName {
	case "monthly-report":
		period := domain.ReportPeriod(jobRunner.Config().Scheduler.MonthlyReportPeriod)
		_, err := jobRunner.RunMonthlyReport(ctx, period)
		return err
	case "monthly-report-current":
		_, err := jobRunner.RunMonthlyReport(ctx, domain.ReportPeriodCurrent)
		return err
	default:
		fmt.Printf("Available jobs:\n")
		fmt.Printf("  - monthly-report\n")
		fmt.Printf("  - monthly-report-current\n")
		return fmt.Errorf("unknown job name: %q", jobName)
	}
}

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
