package postgres

import (
	"database/sql"
	"log"

	"github.com/SLAP-Solutions/pricelock-order-service/internal/config"
	"github.com/SLAP-Solutions/pricelock-order-service/internal/infrastructure/postgres/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func MustInitDB(cfg *config.OrderConfig) *gorm.DB {
	dsn := cfg.OrderDB.Dsn
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to init db: %v\n", err.Error())
	}

	db.AutoMigrate(&models.OrderModel{}, &models.VaultEntryModel{})

	return db
}

// MustSQLDB unwraps the raw connection for tooling that works below gorm,
// such as the migration runner.
func MustSQLDB(db *gorm.DB) *sql.DB {
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("failed to unwrap sql.DB: %v", err)
	}
	return sqlDB
}
