package config

import (
	"fmt"
	"log"
	"os"

	"recipebook/models"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Config holds everything the process reads from the environment. It is
// built once in main and passed down; nothing in this package keeps state.
type Config struct {
	Port         string
	ClientOrigin string
	JWTSecret    string

	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string

	S3Bucket       string
	S3Region       string
	StorageBaseURL string

	OllamaURL   string
	OllamaModel string

	ModerationEnabled bool
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	return &Config{
		Port:         getenv("PORT", "3000"),
		ClientOrigin: getenv("CLIENT_ORIGIN", "http://localhost:5173"),
		JWTSecret:    os.Getenv("JWT_SECRET"),

		DBHost:     os.Getenv("DB_HOST"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		DBPort:     getenv("DB_PORT", "5432"),

		S3Bucket:       os.Getenv("S3_BUCKET"),
		S3Region:       getenv("S3_REGION", os.Getenv("AWS_REGION")),
		StorageBaseURL: os.Getenv("STORAGE_BASE_URL"),

		OllamaURL:   getenv("OLLAMA_URL", "http://localhost:11434"),
		OllamaModel: getenv("OLLAMA_MODEL", "mistral:latest"),

		ModerationEnabled: os.Getenv("MODERATION_ENABLED") == "true",
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// ConnectDB opens the Postgres connection and migrates the schema.
// TranslateError is on so unique-constraint failures surface as
// gorm.ErrDuplicatedKey instead of driver-specific errors.
func ConnectDB(cfg *Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		cfg.DBHost,
		cfg.DBUser,
		cfg.DBPassword,
		cfg.DBName,
		cfg.DBPort,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Recipe{},
		&models.SavedRecipe{},
	); err != nil {
		return nil, fmt.Errorf("auto migrate failed: %w", err)
	}

	return db, nil
}
