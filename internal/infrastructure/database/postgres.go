package database

import (
	"fmt"
	"log"

	"github.com/sabaidee/pos-api/internal/config"
	"github.com/sabaidee/pos-api/internal/domain/entity"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewPostgresDB creates a new PostgreSQL database connection
func NewPostgresDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	logLevel := logger.Info

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true, // disables implicit prepared statement usage
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying SQL DB to set connection pool settings
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Set connection pool settings
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	log.Println("Successfully connected to PostgreSQL database")
	return db, nil
}

// AutoMigrate runs GORM auto-migration for all entities
func AutoMigrate(db *gorm.DB) error {
	log.Println("Running database migrations...")

	err := db.AutoMigrate(
		// User entities
		&entity.User{},

		// Catalog entities
		&entity.Category{},
		&entity.Product{},

		// Checkout entities
		&entity.CartLine{},
		&entity.HeldBill{},
		&entity.HeldBillItem{},
		&entity.Transaction{},
		&entity.TransactionItem{},

		// System entities
		&entity.IdempotencyKey{},
		&entity.StoreSettings{},
	)

	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Println("Database migrations completed successfully")
	return nil
}

type seedProduct struct {
	name     string
	price    int64
	cost     int64
	category string
	image    string
}

// SeedDefaultData seeds the database with default data (categories, demo
// products, store settings, and the admin user when configured).
func SeedDefaultData(db *gorm.DB) error {
	log.Println("Seeding default data...")

	// Create default categories
	categoryNames := []string{"Food", "Drink", "Side", "Dessert"}
	categories := make(map[string]*entity.Category)

	for _, name := range categoryNames {
		var existing entity.Category
		if err := db.Where("name = ?", name).First(&existing).Error; err != nil {
			existing = entity.Category{Name: name}
			if err := db.Create(&existing).Error; err != nil {
				log.Printf("Warning: failed to create category %s: %v", name, err)
				continue
			}
		}
		categories[name] = &existing
	}

	// Create demo products only when the catalog is empty
	var productCount int64
	db.Model(&entity.Product{}).Count(&productCount)
	if productCount == 0 {
		seedProducts := []seedProduct{
			{"ຕຳໝາກຫຸ່ງ (Papaya Salad)", 25000, 12000, "Food", "https://picsum.photos/id/1080/200/200"},
			{"ເຝີ (Pho Noodle)", 35000, 18000, "Food", "https://picsum.photos/id/225/200/200"},
			{"ລາບໄກ່ (Chicken Laap)", 40000, 25000, "Food", "https://picsum.photos/id/312/200/200"},
			{"ເຂົ້າໜຽວ (Sticky Rice)", 5000, 2000, "Side", "https://picsum.photos/id/431/200/200"},
			{"ເບຍລາວ (Beer Lao)", 15000, 11000, "Drink", "https://picsum.photos/id/420/200/200"},
			{"ນ້ຳດື່ມ (Water)", 5000, 2500, "Drink", "https://picsum.photos/id/500/200/200"},
			{"ກາເຟເຢັນ (Iced Coffee)", 20000, 8000, "Drink", "https://picsum.photos/id/700/200/200"},
			{"ປີ້ງໄກ່ (Grilled Chicken)", 50000, 35000, "Food", "https://picsum.photos/id/800/200/200"},
		}

		for _, sp := range seedProducts {
			product := entity.Product{
				Name:   sp.name,
				Price:  sp.price,
				Cost:   sp.cost,
				Image:  sp.image,
				Active: true,
			}
			if cat, ok := categories[sp.category]; ok {
				product.CategoryID = &cat.ID
			}
			if err := db.Create(&product).Error; err != nil {
				log.Printf("Warning: failed to create product %s: %v", sp.name, err)
			}
		}
	}

	// Create default store settings if none exist
	var settings entity.StoreSettings
	if err := db.First(&settings).Error; err != nil {
		defaults := entity.DefaultStoreSettings()
		defaults.Phone = "020-5555-8888"
		defaults.Address = "Vientiane, Laos"
		defaults.PhaJayTag = "POS_01"
		if err := db.Create(defaults).Error; err != nil {
			log.Printf("Warning: failed to create default settings: %v", err)
		}
	}

	// Create admin user if configured via environment variables
	adminEmail := viper.GetString("ADMIN_EMAIL")
	adminPassword := viper.GetString("ADMIN_PASSWORD")
	adminName := viper.GetString("ADMIN_NAME")

	if adminEmail != "" && adminPassword != "" {
		var existingAdmin entity.User
		if err := db.Where("email = ?", adminEmail).First(&existingAdmin).Error; err != nil {
			hashedPassword, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
			if err != nil {
				log.Printf("Warning: failed to hash admin password: %v", err)
			} else {
				if adminName == "" {
					adminName = "Admin"
				}
				adminUser := entity.User{
					Name:     adminName,
					Email:    adminEmail,
					Password: string(hashedPassword),
					Role:     entity.RoleAdmin,
					Active:   true,
				}
				if err := db.Create(&adminUser).Error; err != nil {
					log.Printf("Warning: failed to create admin user: %v", err)
				} else {
					log.Printf("Admin user created: %s", adminEmail)
				}
			}
		} else {
			log.Printf("Admin user already exists: %s", adminEmail)
		}
	}

	log.Println("Default data seeding completed")
	return nil
}
