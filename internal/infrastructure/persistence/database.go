package persistence

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/babel-30/sugarplum-backend/internal/domain/order"
	applogger "github.com/babel-30/sugarplum-backend/internal/infrastructure/logger"
)

// Database wraps the GORM connection to the shop's sqlite file. Orders,
// product flags, and shop settings live here; the catalog itself never
// does, it stays in the snapshot cache.
type Database struct {
	DB *gorm.DB
}

// NewDatabase opens (or creates) the sqlite database at path and runs
// migrations. Use ":memory:" in tests.
func NewDatabase(path string, zapLogger *zap.Logger) (*Database, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: applogger.NewGormLogger(zapLogger, gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", path, err)
	}

	if err := db.AutoMigrate(
		&order.Order{},
		&ProductFlagsModel{},
		&ShopSettingsModel{},
	); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &Database{DB: db}, nil
}

// Close closes the underlying connection
func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return sqlDB.Close()
}

// Ping checks that the database is reachable
func (d *Database) Ping() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return sqlDB.Ping()
}
