package database

import (
	"fmt"

	"appliance_store/config"
	"appliance_store/model"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Models lists every table owned by the checkout service, in migration order.
var Models = []any{
	&model.User{},
	&model.Product{},
	&model.ExtendedWarrantyCategory{},
	&model.ExtendedWarrantyCategoryMapping{},
	&model.Coupon{},
	&model.Order{},
	&model.OrderItem{},
	&model.CouponUsage{},
	&model.VirtualPosConfig{},
	&model.PaymentTransaction{},
	&model.ReturnRequest{},
}

// GormConfig is shared by the postgres connection and the sqlite test
// database. Foreign keys are not created: order items may outlive the
// catalog row they point to.
func GormConfig(level gormlogger.LogLevel) *gorm.Config {
	return &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   gormlogger.Default.LogMode(level),
	}
}

func ConnectDB(cfg config.AppConfig, log *zap.Logger) (*gorm.DB, error) {
	level := gormlogger.Warn
	if cfg.IsDevelopment() {
		level = gormlogger.Info
	}

	db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), GormConfig(level))
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}
	log.Info("connection opened to database", zap.String("host", cfg.Database.Host), zap.String("name", cfg.Database.Name))

	if err := Migrate(db); err != nil {
		return nil, err
	}
	log.Info("database migrated")

	SeedData(db, log)
	return db, nil
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models...); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}
