package config

import (
	"fmt"
	"os"
)

// Config is built once in main and handed to each constructor. Nothing in
// this codebase reads the environment after startup.
type Config struct {
	Port string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	JWTSecret string

	// KafkaBrokers is optional; empty disables event publishing.
	KafkaBrokers string
}

func FromEnv() Config {
	return Config{
		Port:         getEnv("PORT", "3001"),
		DBHost:       getEnv("DB_HOST", "localhost"),
		DBPort:       getEnv("DB_PORT", "5432"),
		DBUser:       getEnv("DB_USER", "delivery"),
		DBPassword:   getEnv("DB_PASSWORD", "delivery"),
		DBName:       getEnv("DB_NAME", "delivery"),
		JWTSecret:    getEnv("JWT_SECRET", "dev-secret"),
		KafkaBrokers: getEnv("KAFKA_BROKERS", ""),
	}
}

func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
