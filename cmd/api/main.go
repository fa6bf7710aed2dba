package main

import (
	"context"
	"log"

	"github.com/justsurfingit/job-board/internal/auth"
	"github.com/justsurfingit/job-board/internal/config"
	"github.com/justsurfingit/job-board/internal/database"
	"github.com/justsurfingit/job-board/internal/database/memstore"
	"github.com/justsurfingit/job-board/internal/events"
	"github.com/justsurfingit/job-board/internal/handlers"
	"github.com/justsurfingit/job-board/internal/logger"
	"github.com/justsurfingit/job-board/internal/queue"
	"github.com/justsurfingit/job-board/internal/repository"
	"github.com/justsurfingit/job-board/internal/services"
	"github.com/streadway/amqp"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	zlog, err := logger.New(cfg.LogJSON, cfg.LogDebug)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer zlog.Sync()

	ctx := context.Background()

	var (
		profiles     repository.ProfileRepository
		employers    repository.EmployerRepository
		jobs         repository.JobRepository
		applications repository.ApplicationRepository
	)
	if cfg.DatabaseURL != "" {
		db, err := database.Connect(cfg.DatabaseURL, zlog)
		if err != nil {
			zlog.Fatal("database connection failed", zap.Error(err))
		}
		profiles = database.NewProfileRepository(db)
		employers = database.NewEmployerRepository(db)
		jobs = database.NewJobRepository(db)
		applications = database.NewApplicationRepository(db)
	} else {
		zlog.Warn("DATABASE_URL not set, using in-memory store")
		store := memstore.New()
		profiles, employers = store.Profiles(), store.Employers()
		jobs, applications = store.Jobs(), store.Applications()
	}

	var llm *services.LLMService
	if cfg.GeminiAPIKey != "" {
		llm, err = services.NewLLMService(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, zlog)
		if err != nil {
			zlog.Fatal("llm init failed", zap.Error(err))
		}
	} else {
		zlog.Warn("GEMINI_API_KEY not set, AI extraction disabled")
	}

	var storage services.ResumeStorage
	if cfg.S3Bucket != "" {
		storage, err = services.NewS3Storage(ctx, services.S3Options{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
		})
	} else {
		storage, err = services.NewDiskStorage(cfg.UploadsDir)
	}
	if err != nil {
		zlog.Fatal("upload storage init failed", zap.Error(err))
	}

	dispatcher, closeDispatcher := newDispatcher(ctx, cfg, zlog)
	defer closeDispatcher()

	matcher := services.NewMatcherService(profiles, jobs, zlog)
	matcher.Threshold = cfg.MatchThreshold
	matcher.ActiveJobsOnly = cfg.SuggestActiveJobsOnly

	jobService := services.NewJobService(jobs, llm, zlog)
	applicationService := services.NewApplicationService(applications, jobs, profiles, dispatcher, zlog)
	profileService := services.NewProfileService(profiles, zlog)
	resumeService := services.NewResumeService(storage, llm, cfg.MaxResumeBytes, zlog)
	employerService := services.NewEmployerService(employers, storage, cfg.MaxLogoBytes, zlog)
	adminService := services.NewAdminService(profiles, employers, jobs, applications)

	uploadsDir := ""
	if cfg.S3Bucket == "" {
		uploadsDir = cfg.UploadsDir
	}
	r := handlers.NewRouter(handlers.RouterDeps{
		Jobs:         handlers.NewJobHandler(jobService, matcher),
		Applications: handlers.NewApplicationHandler(applicationService),
		Profiles:     handlers.NewProfileHandler(profileService, resumeService),
		Employers:    handlers.NewEmployerHandler(employerService),
		Email:        handlers.NewEmailHandler(dispatcher),
		Admin:        handlers.NewAdminHandler(adminService),
		UploadsDir:   uploadsDir,
		CORSOrigins:  cfg.CORSOrigins,
		Logger:       zlog,
	})

	zlog.Info("server starting", zap.String("port", cfg.HTTPPort))
	if err := r.Run(":" + cfg.HTTPPort); err != nil {
		zlog.Fatal("server failed", zap.Error(err))
	}
}

// newDispatcher publishes acceptance events to RabbitMQ when configured and
// otherwise sends them in-process.
func newDispatcher(ctx context.Context, cfg *config.Config, zlog *zap.Logger) (events.Dispatcher, func()) {
	if cfg.RabbitMQURL != "" {
		conn, err := amqp.Dial(cfg.RabbitMQURL)
		if err != nil {
			zlog.Fatal("rabbitmq connection failed", zap.Error(err))
		}
		pub, err := queue.NewPublisher(conn, cfg.NotifyExchange, cfg.NotifyQueue, zlog)
		if err != nil {
			zlog.Fatal("rabbitmq publisher init failed", zap.Error(err))
		}
		zlog.Info("acceptance emails delivered through rabbitmq", zap.String("exchange", cfg.NotifyExchange))
		return pub, func() {
			_ = pub.Close()
			_ = conn.Close()
		}
	}
	sender := newSender(ctx, cfg, zlog)
	return services.NewNotifyDispatcher(sender, cfg.NotifyMaxAttempts, cfg.NotifyBackoff, cfg.NotifyTimeout, zlog), func() {}
}

func newSender(ctx context.Context, cfg *config.Config, zlog *zap.Logger) events.Sender {
	if cfg.GmailCredentialsFile == "" {
		zlog.Warn("GMAIL_CREDENTIALS_FILE not set, acceptance emails will only be logged")
		return services.LogSender{Logger: zlog}
	}
	gmailService, err := auth.NewGmailService(ctx, cfg.GmailCredentialsFile, cfg.GmailTokenFile, nil)
	if err != nil {
		zlog.Warn("gmail unavailable, acceptance emails will only be logged", zap.Error(err))
		return services.LogSender{Logger: zlog}
	}
	zlog.Info("gmail service connected")
	return services.NewEmailService(gmailService, cfg.EmailFrom, zlog)
}
