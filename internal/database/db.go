package database

import (
	"errors"
	"fmt"
	"time"

	"github.com/justsurfingit/job-board/internal/common"
	"github.com/justsurfingit/job-board/internal/models"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Connect opens the Postgres connection, waits for it to answer and migrates
// the schema.
func Connect(dsn string, log *zap.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("postgres handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	deadline := time.Now().Add(30 * time.Second)
	backoff := 500 * time.Millisecond
	for {
		err := sqlDB.Ping()
		if err == nil {
			break
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("ping postgres: %w", err)
		}
		log.Warn("postgres not ready yet", zap.Error(err), zap.Duration("retry_in", backoff))
		time.Sleep(backoff)
		if backoff < 5*time.Second {
			backoff *= 2
		}
	}
	log.Info("database connection established")

	log.Info("running migrations")
	if err := db.AutoMigrate(&models.Profile{}, &models.EmployerProfile{}, &models.Job{}, &models.Application{}); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

// translate maps gorm errors onto the shared error codes.
func translate(err error, entity string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return common.NewError(common.CodeNotFound, entity+" not found", err)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return common.NewError(common.CodeConflict, entity+" already exists", err)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return common.NewError(common.CodeNotFound, "referenced record not found", err)
	default:
		return common.NewError(common.CodeInternal, "failed to access "+entity, err)
	}
}
