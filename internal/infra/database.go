package infra

import (
	"fmt"

	"foodhouse/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx and migrates the
// transaction-core schema. Aggregate invariants (order totals, cart version)
// are enforced in the service layer inside per-aggregate transactions; the
// schema only pins decimal precision and uniqueness.
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

	if err := db.AutoMigrate(
		&model.Store{},
		&model.OrderCounter{},
		&model.User{},
		&model.MenuItem{},
		&model.CustomizationGroup{},
		&model.CustomizationOption{},
		&model.CartSession{},
		&model.CartItem{},
		&model.CartItemOption{},
		&model.Order{},
		&model.OrderItem{},
		&model.OrderItemCustomization{},
		&model.Payment{},
		&model.Refund{},
	); err != nil {
		return nil, fmt.Errorf("AutoMigrate: %w", err)
	}

	return db, nil
}
