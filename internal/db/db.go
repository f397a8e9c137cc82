package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/badziek/logitrans-app/internal/models"
)

type DB struct {
	Gorm *gorm.DB
}

// Connect opens the backing store. A postgres:// URL selects the
// Postgres driver; anything else is treated as a sqlite file path.
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	dialector := dialectorFor(databaseURL)

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql db: %w", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(2)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)

	ctxPing, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctxPing); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	return &DB{Gorm: gormDB}, nil
}

// Migrate creates the users and loads tables if they are missing.
func (d *DB) Migrate() error {
	if err := d.Gorm.AutoMigrate(&models.User{}, &models.Load{}); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

func (d *DB) Close() {
	if d == nil || d.Gorm == nil {
		return
	}

	sqlDB, err := d.Gorm.DB()
	if err != nil {
		return
	}
	_ = sqlDB.Close()
}

func dialectorFor(databaseURL string) gorm.Dialector {
	if strings.HasPrefix(databaseURL, "postgres://") || strings.HasPrefix(databaseURL, "postgresql://") {
		return postgres.Open(databaseURL)
	}
	return sqlite.Open(databaseURL)
}
