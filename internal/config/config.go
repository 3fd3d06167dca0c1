package config

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/prasowlabs/moi-kanakku/internal/models"
)

type Config struct {
	PORT        string
	LOG_LEVEL   string
	DB_HOST     string
	DB_PORT     string
	DB_USER     string
	DB_PASSWORD string
	DB_NAME     string

	JWT_SECRET     string
	ADMIN_EMAIL    string
	API_SECRET_KEY string

	REDIS_ADDR    string
	KAFKA_ADDRESS string

	ES_URL      string
	ES_USER     string
	ES_PASSWORD string

	EMAIL_HOST string
	EMAIL_PORT string
	EMAIL_USER string
	EMAIL_PASS string

	FIREBASE_CREDENTIALS string

	UPLOAD_DIR string
}

func LoadConfig() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}

	config := &Config{
		PORT:                 os.Getenv("PORT"),
		LOG_LEVEL:            os.Getenv("LOG_LEVEL"),
		DB_HOST:              os.Getenv("DB_HOST"),
		DB_PORT:              os.Getenv("DB_PORT"),
		DB_USER:              os.Getenv("DB_USER"),
		DB_PASSWORD:          os.Getenv("DB_PASSWORD"),
		DB_NAME:              os.Getenv("DB_NAME"),
		JWT_SECRET:           os.Getenv("JWT_SECRET"),
		ADMIN_EMAIL:          os.Getenv("ADMIN_EMAIL"),
		API_SECRET_KEY:       os.Getenv("API_SECRET_KEY"),
		REDIS_ADDR:           os.Getenv("REDIS_ADDR"),
		KAFKA_ADDRESS:        os.Getenv("KAFKA_ADDRESS"),
		ES_URL:               os.Getenv("ES_URL"),
		ES_USER:              os.Getenv("ES_USER"),
		ES_PASSWORD:          os.Getenv("ES_PASSWORD"),
		EMAIL_HOST:           os.Getenv("EMAIL_HOST"),
		EMAIL_PORT:           os.Getenv("EMAIL_PORT"),
		EMAIL_USER:           os.Getenv("EMAIL_USER"),
		EMAIL_PASS:           os.Getenv("EMAIL_PASS"),
		FIREBASE_CREDENTIALS: os.Getenv("FIREBASE_CREDENTIALS"),
		UPLOAD_DIR:           os.Getenv("UPLOAD_DIR"),
	}

	if config.PORT == "" {
		config.PORT = "3000"
	}
	if config.UPLOAD_DIR == "" {
		config.UPLOAD_DIR = "uploads"
	}

	return config, nil
}

func InitDB(cfg *Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		cfg.DB_USER, cfg.DB_PASSWORD, cfg.DB_HOST, cfg.DB_PORT, cfg.DB_NAME,
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.AutoMigrate(models.All()...); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return db, nil
}

// SeedBootstrapAdmin promotes the configured admin email to an admin user.
// The flag on the user row is what authorization consults; the email itself
// is never compared at request time.
func SeedBootstrapAdmin(db *gorm.DB, email string) error {
	if email == "" {
		return nil
	}
	return db.Model(&models.User{}).
		Where("um_email = ?", email).
		Update("um_is_admin", true).Error
}
