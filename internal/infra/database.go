package infra

import (
	"fmt"

	"github.com/ArthurFritz8/Gestao-Empresarial/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx and runs AutoMigrate
// to create or update all tables.
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, fmt.Errorf("migrations: %w", err)
	}

	return db, nil
}

// RunMigrations applies the schema. Also used by the integration test suite.
func RunMigrations(db *gorm.DB) error {
	// gen_random_uuid() defaults need pgcrypto on Postgres < 13; harmless later.
	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS pgcrypto").Error; err != nil {
		return err
	}
	return db.AutoMigrate(
		&model.User{},
		&model.Product{},
		&model.ProductCompatibility{},
		&model.Sale{},
		&model.SaleItem{},
		&model.StockMovement{},
	)
}
