package database

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Mrjmbjmb/setlist-manager/internal/models"
)

type Client struct {
	DB *gorm.DB
}

// New opens (or creates) the sqlite catalog at the given path.
func New(path string) (*Client, error) {
	dsn := fmt.Sprintf("%s?_busy_timeout=5000&_foreign_keys=on", path)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", path, err)
	}

	// sqlite allows a single writer; keep the pool small so writes queue
	// behind the busy timeout instead of failing.
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(2)
	sqlDB.SetMaxOpenConns(4)
	sqlDB.SetConnMaxLifetime(time.Hour)

	log.Printf("✅ Database opened at %s", path)

	return &Client{DB: db}, nil
}

// AutoMigrate creates/updates tables based on struct definitions
func (c *Client) AutoMigrate() error {
	log.Println("Running Database Migrations...")
	err := c.DB.AutoMigrate(
		&models.Song{},
		&models.Setlist{},
		&models.SetlistEntry{},
	)
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	log.Println("✅ Migrations Complete")
	return nil
}
