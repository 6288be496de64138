package database

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"printease-system/internal/database/models"
)

func NewConnection(dsn string) (*gorm.DB, error) {
	if dsn == "" {
		log.Fatal("DSN is required")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("failed to get sql.DB: %v", err)
	}

	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping DB: %w", err)
	}

	return db, nil
}

// defaultRoles are seeded on startup. Registration assigns "customer"; the
// admin route group requires access level 50.
var defaultRoles = []models.Role{
	{RoleName: "customer", AccessLevel: 10, Permissions: "orders:own"},
	{RoleName: "admin", AccessLevel: 50, Permissions: "catalog:write,orders:manage,leads:manage,settings:write"},
}

func Migrate(db *gorm.DB) error {
	db.AutoMigrate(&models.Service{})
	db.AutoMigrate(&models.Order{})
	db.AutoMigrate(&models.OrderItem{})
	db.AutoMigrate(&models.User{})
	db.AutoMigrate(&models.Role{})
	db.AutoMigrate(&models.QuotationLead{})
	db.AutoMigrate(&models.FeeTier{})

	for _, role := range defaultRoles {
		var existing models.Role
		if err := db.Where(models.Role{RoleName: role.RoleName}).Attrs(role).FirstOrCreate(&existing).Error; err != nil {
			return err
		}
	}
	return nil
}
