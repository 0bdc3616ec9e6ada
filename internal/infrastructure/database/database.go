package database

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/routinnet/routix-platform-ai/internal/config"
)

// Open connects to the configured database, runs migrations and seeds
// the algorithm catalog.
func Open(cfg config.DatabaseConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "mysql":
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Database)
		dialector = mysql.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(cfg.Database)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	if err := db.AutoMigrate(
		&userModel{},
		&conversationModel{},
		&messageModel{},
		&generationModel{},
		&algorithmModel{},
		&creditTransactionModel{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	if err := seedAlgorithms(db); err != nil {
		return nil, fmt.Errorf("failed to seed algorithms: %w", err)
	}

	slog.Info("database ready", "driver", cfg.Driver)
	return db, nil
}

// seedAlgorithms inserts the built-in algorithm catalog on first run.
func seedAlgorithms(db *gorm.DB) error {
	var count int64
	if err := db.Model(&algorithmModel{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	now := time.Now()
	seeds := []algorithmModel{
		{
			ID:          uuid.New().String(),
			Name:        "basic",
			DisplayName: "Basic",
			Description: "Fast single-pass thumbnail generation.",
			CostCredits: 1,
			IsActive:    true,
			CreatedAt:   now,
			UpdatedAt:   now,
		},
		{
			ID:          uuid.New().String(),
			Name:        "premium",
			DisplayName: "Premium",
			Description: "Higher-quality generation with style control.",
			CostCredits: 3,
			IsActive:    true,
			CreatedAt:   now,
			UpdatedAt:   now,
		},
		{
			ID:          uuid.New().String(),
			Name:        "pro",
			DisplayName: "Pro",
			Description: "Best quality, multiple candidates per run.",
			CostCredits: 5,
			IsActive:    true,
			CreatedAt:   now,
			UpdatedAt:   now,
		},
	}
	return db.Create(&seeds).Error
}
