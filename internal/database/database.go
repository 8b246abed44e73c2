// Package database handles database connections and migrations.
package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"communityhub/internal/config"
	"communityhub/internal/middleware"
	"communityhub/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DB is the global database connection instance.
var DB *gorm.DB

// slogGormLogger bridges GORM's logger interface onto slog.
type slogGormLogger struct {
	logger *slog.Logger
	cfg    logger.Config
}

func (l *slogGormLogger) LogMode(level logger.LogLevel) logger.Interface {
	clone := *l
	clone.cfg.LogLevel = level
	return &clone
}

func (l *slogGormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if l.cfg.LogLevel >= logger.Info {
		l.logger.InfoContext(ctx, fmt.Sprintf(msg, data...))
	}
}

func (l *slogGormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if l.cfg.LogLevel >= logger.Warn {
		l.logger.WarnContext(ctx, fmt.Sprintf(msg, data...))
	}
}

func (l *slogGormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if l.cfg.LogLevel >= logger.Error {
		l.logger.ErrorContext(ctx, fmt.Sprintf(msg, data...))
	}
}

// Trace logs query text, row count and latency; not-found errors are skipped.
func (l *slogGormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.cfg.LogLevel <= logger.Silent {
		return
	}

	elapsed := time.Since(begin)
	sql, rows := fc()
	attrs := []any{
		slog.String("sql", sql),
		slog.Int64("rows", rows),
		slog.Duration("elapsed", elapsed),
	}

	switch {
	case err != nil && l.cfg.LogLevel >= logger.Error && !errors.Is(err, gorm.ErrRecordNotFound):
		l.logger.ErrorContext(ctx, "query error", append(attrs, slog.String("error", err.Error()))...)
	case l.cfg.SlowThreshold != 0 && elapsed > l.cfg.SlowThreshold && l.cfg.LogLevel >= logger.Warn:
		l.logger.WarnContext(ctx, "slow query", attrs...)
	case l.cfg.LogLevel >= logger.Info:
		l.logger.InfoContext(ctx, "query", attrs...)
	}
}

// dialectorFor selects the GORM driver from configuration.
// SQLite serves local development and tests, PostgreSQL everything else.
func dialectorFor(cfg *config.Config) gorm.Dialector {
	if cfg.DBDriver == "sqlite" {
		path := cfg.DBPath
		if path == "" {
			path = "communityhub.db"
		}
		return sqlite.Open(path)
	}

	sslMode := cfg.DBSSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName, sslMode,
	)
	return postgres.Open(dsn)
}

// Connect opens the database, runs migrations outside production, and sets
// pool limits. The handle is also stored in the package-level DB.
func Connect(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(dialectorFor(cfg), &gorm.Config{
		Logger: &slogGormLogger{
			logger: middleware.Logger,
			cfg: logger.Config{
				SlowThreshold:             200 * time.Millisecond,
				LogLevel:                  logger.Warn,
				IgnoreRecordNotFoundError: true,
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	middleware.Logger.Info("Database connected successfully")

	if cfg.Env != "production" && cfg.Env != "prod" {
		// Production schemas are managed by migrations, not AutoMigrate.
		err = db.AutoMigrate(
			&models.User{},
			&models.Community{},
			&models.CommunityMember{},
			&models.Post{},
			&models.PostLike{},
			&models.Comment{},
			&models.CommentLike{},
		)
		if err != nil {
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
		middleware.Logger.Info("Database migration completed")
	}

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetConnMaxLifetime(5 * time.Minute)
	}

	DB = db
	return DB, nil
}
