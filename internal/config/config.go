package config

import (
	"os"
	"strconv"
	"strings"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	Redis    RedisConfig
	Database DatabaseConfig
	Kafka    KafkaConfig
	Quotes   QuotesConfig
	Refresh  RefreshConfig
	Holdings HoldingsConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port string
	Host string
}

// RedisConfig holds Redis cache configuration. The special Addr value
// "memory" selects the in-process cache instead of Redis.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// DatabaseConfig holds PostgreSQL configuration for the holdings store
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// KafkaConfig holds Kafka configuration. Empty Brokers disables the
// quote event producer.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// QuotesConfig holds quote provider configuration
type QuotesConfig struct {
	Endpoint       string
	APIKey         string
	TimeoutSeconds int
}

// RefreshConfig holds the background refresh job configuration
type RefreshConfig struct {
	IntervalMinutes int
}

// HoldingsConfig selects the holdings source: a JSON file path, or
// PostgreSQL when Source is "postgres".
type HoldingsConfig struct {
	Source string
	File   string
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "3001"),
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "portfolioservice"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Kafka: KafkaConfig{
			Brokers: splitList(getEnv("KAFKA_BROKERS", "")),
			Topic:   getEnv("KAFKA_TOPIC", "quote-events"),
		},
		Quotes: QuotesConfig{
			Endpoint:       getEnv("QUOTE_ENDPOINT", "https://query1.finance.yahoo.com/v7/finance/quote"),
			APIKey:         getEnv("QUOTE_API_KEY", ""),
			TimeoutSeconds: getEnvInt("QUOTE_TIMEOUT_SECONDS", 10),
		},
		Refresh: RefreshConfig{
			IntervalMinutes: getEnvInt("REFRESH_INTERVAL_MINUTES", 15),
		},
		Holdings: HoldingsConfig{
			Source: getEnv("HOLDINGS_SOURCE", "file"),
			File:   getEnv("HOLDINGS_FILE", "data/holdings.json"),
		},
	}
}

// ConnectionString returns the PostgreSQL connection string
func (d *DatabaseConfig) ConnectionString() string {
	return "postgres://" + d.User + ":" + d.Password + "@" + d.Host + ":" + d.Port + "/" + d.DBName + "?sslmode=" + d.SSLMode
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
