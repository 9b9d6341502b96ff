// Package configs provides application configuration loaded from environment variables.
// All configuration is externalized via environment variables for 12-factor app compliance.
package configs

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// AppConfig holds all application configuration.
// Load it once at startup using AppLoad().
type AppConfig struct {
	// DBDSN is the Postgres connection string.
	DBDSN string

	// Catalog contains settings for the upstream catalog API.
	Catalog CatalogConfig

	// Kafka contains connection settings for the change-event topic.
	// Publishing is disabled when Broker is empty.
	Kafka KafkaConfig

	// Export contains settings for CSV export of run results.
	Export ExportConfig
}

// CatalogConfig holds upstream catalog API settings.
type CatalogConfig struct {
	// BaseURL is the catalog API root (e.g., "https://tienda.mercadona.es/api").
	BaseURL string

	// Language is sent as the Accept-Language header on every request.
	Language string

	// ProductDelayMs is the fixed pause between product fetches, in milliseconds.
	ProductDelayMs int
}

// KafkaConfig holds Kafka connection settings for change events.
type KafkaConfig struct {
	// Broker is the Kafka broker address (e.g., "localhost:9092").
	Broker string

	// Topic is the Kafka topic price changes are published to.
	Topic string
}

// ExportConfig holds CSV export settings.
type ExportConfig struct {
	// SummaryCSV is the path the run summary is written to after each run.
	// Export is disabled when empty.
	SummaryCSV string
}

// getDatabaseDSN constructs the Postgres DSN from environment variables.
func getDatabaseDSN() string {
	dbUser := getEnv("DB_USER", "pricewatch")
	dbPassword := getEnv("DB_PASSWORD", "pricewatch")
	dbHost := getEnv("DB_HOST", "localhost")
	dbPort := getEnv("DB_PORT", "5432")
	dbName := getEnv("DB_NAME", "pricewatch")

	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		dbUser, dbPassword, dbHost, dbPort, dbName,
	)
}

// AppLoad loads all application configuration from environment variables.
// It attempts to load a .env file first (for local development).
// Call this once at application startup.
func AppLoad() *AppConfig {
	_ = godotenv.Load() // Ignore error - .env is optional

	return &AppConfig{
		DBDSN: getDatabaseDSN(),
		Catalog: CatalogConfig{
			BaseURL:        getEnv("CATALOG_BASE_URL", "https://tienda.mercadona.es/api"),
			Language:       getEnv("CATALOG_LANGUAGE", "es-ES,es;q=0.9"),
			ProductDelayMs: getEnvInt("CATALOG_PRODUCT_DELAY_MS", 100),
		},
		Kafka: KafkaConfig{
			Broker: getEnv("KAFKA_BROKER", ""),
			Topic:  getEnv("KAFKA_PRICE_CHANGE_TOPIC", "pricewatch_changes"),
		},
		Export: ExportConfig{
			SummaryCSV: getEnv("EXPORT_SUMMARY_CSV", ""),
		},
	}
}

// getEnv returns the environment variable value or a default.
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvInt returns the environment variable as int or a default.
func getEnvInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
