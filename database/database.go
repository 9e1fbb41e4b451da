package database

import (
	"fmt"
	"log"
	"os"

	"bistro-backend/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Connect() (*gorm.DB, error) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "host=localhost user=postgres password=postgres dbname=bistro port=5432 sslmode=disable"
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	return db, nil
}

func Migrate(db *gorm.DB) error {
	// Ensure PostgreSQL has gen_random_uuid() available (pgcrypto extension).
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto;`).Error; err != nil {
		return fmt.Errorf("failed to enable pgcrypto extension: %w", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.MenuItem{},
		&models.OpeningHours{},
		&models.ClosedDate{},
		&models.Order{},
		&models.OrderItem{},
	); err != nil {
		return err
	}

	return nil
}

func CreateDefaultAdmin(db *gorm.DB) error {
	adminEmail := os.Getenv("ADMIN_EMAIL")
	adminPassword := os.Getenv("ADMIN_PASSWORD")

	if adminEmail == "" {
		adminEmail = "admin@bistro.local"
	}
	if adminPassword == "" {
		adminPassword = "admin123"
	}

	var existingUser models.User
	result := db.Where("email = ?", adminEmail).First(&existingUser)
	if result.Error == nil {
		// Admin already exists
		return nil
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := models.User{
		Email:    adminEmail,
		Password: string(hashedPassword),
		Role:     "admin",
		Name:     "Admin",
	}

	if err := db.Create(&admin).Error; err != nil {
		return err
	}

	log.Printf("Default admin created: %s", adminEmail)
	return nil
}

// SeedOpeningHours creates a default weekly schedule when none exists. The
// slot generator treats a missing weekday row as a configuration error, so
// every weekday gets a row.
func SeedOpeningHours(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.OpeningHours{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	for day := 0; day < 7; day++ {
		row := models.OpeningHours{
			DayOfWeek: day,
			OpenTime:  "09:00",
			CloseTime: "21:00",
		}
		if err := db.Create(&row).Error; err != nil {
			return err
		}
	}

	log.Println("Seeded default opening hours (09:00-21:00, all week)")
	return nil
}
