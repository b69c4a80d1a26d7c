package db

import (
	"fmt"
	"log"
	"time"

	"github.com/diewo77/customer-portal/internal/config"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to PostgreSQL when a DSN is configured, otherwise to the
// SQLite file. PostgreSQL gets a few retries to let the container start.
func Open(cfg config.BackendConfig) (*gorm.DB, error) {
	gcfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)}
	if !cfg.UsePostgres() {
		log.Printf("Using SQLite database %s", cfg.SQLitePath)
		return gorm.Open(sqlite.Open(cfg.SQLitePath), gcfg)
	}
	var db *gorm.DB
	var err error
	for i := 0; i < 5; i++ {
		db, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), gcfg)
		if err == nil {
			return db, nil
		}
		log.Printf("Database connection attempt %d/5 failed, retrying...", i+1)
		time.Sleep(2 * time.Second)
	}
	return nil, fmt.Errorf("connect database: %w", err)
}

// Migrate creates or updates the schema.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&User{}, &Customer{}, &PasswordReset{}, &Place{}); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// DefaultPlaces is the built-in gazetteer.
var DefaultPlaces = []Place{
	{Name: "221B Baker Street, London", Lat: 51.5, Lon: -0.15},
	{Name: "MG Road, Bengaluru", Lat: 12.9, Lon: 77.6},
	{Name: "Connaught Place, New Delhi", Lat: 28.6315, Lon: 77.2167},
	{Name: "Marine Drive, Mumbai", Lat: 18.9430, Lon: 72.8238},
	{Name: "Champs-Elysees, Paris", Lat: 48.8698, Lon: 2.3075},
	{Name: "Times Square, New York", Lat: 40.758, Lon: -73.9855},
}

// Seed inserts the gazetteer. It is idempotent.
func Seed(db *gorm.DB) error {
	for _, p := range DefaultPlaces {
		if err := db.Where(Place{Name: p.Name}).FirstOrCreate(&p).Error; err != nil {
			return fmt.Errorf("seed place %q: %w", p.Name, err)
		}
	}
	return nil
}
