// Package config loads and validates application configuration from
// environment variables. All problems found during loading are collected and
// reported together so a misconfigured deployment fails with one complete
// message instead of dying on the first missing variable.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// MinSecretLen is the minimum length in bytes of the token signing secret.
// HS512 wants a key at least as long as its output size.
const MinSecretLen = 64

// PoolConfig holds settings for the PostgreSQL connection pool.
type PoolConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	MaxSize  int
}

// AuthConfig holds token issuance settings. It is read-only after startup;
// concurrent reads from request handlers are safe.
type AuthConfig struct {
	JWTSecret     string
	TokenDuration time.Duration
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port string
}

// AppConfig is the top-level configuration for the application.
type AppConfig struct {
	DB     *PoolConfig
	Auth   *AuthConfig
	Server *ServerConfig
}

func getRequiredEnv(key string, errs *[]string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		*errs = append(*errs, fmt.Sprintf("missing required environment variable: %s", key))
		return ""
	}
	return value
}

func getOptionalEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getOptionalEnvInt(key string, defaultValue int, errs *[]string) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	valueInt, err := strconv.Atoi(valueStr)
	if err != nil {
		*errs = append(*errs, fmt.Sprintf("invalid value for %s: expected integer, got %q: %v", key, valueStr, err))
		return defaultValue
	}
	return valueInt
}

func getOptionalEnvDuration(key string, defaultValue time.Duration, errs *[]string) time.Duration {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	valueDuration, err := time.ParseDuration(valueStr)
	if err != nil {
		*errs = append(*errs, fmt.Sprintf("invalid value for %s: expected duration string, got %q: %v", key, valueStr, err))
		return defaultValue
	}
	return valueDuration
}

// clampPoolSize keeps the pool size within sane bounds.
func clampPoolSize(size int, varName string, errs *[]string) int {
	if size < 1 {
		*errs = append(*errs, fmt.Sprintf("pool size for %s (%d) is less than minimum 1, clamping to 1", varName, size))
		return 1
	}
	if size > 100 {
		*errs = append(*errs, fmt.Sprintf("pool size for %s (%d) is greater than maximum 100, clamping to 100", varName, size))
		return 100
	}
	return size
}

// LoadConfig reads, validates, and assembles the AppConfig. It returns a
// single aggregated error if any variable is missing or malformed.
func LoadConfig() (*AppConfig, error) {
	var errs []string

	dbUser := getRequiredEnv("DB_USER", &errs)
	dbPassword := getRequiredEnv("DB_PASSWORD", &errs)
	dbName := getRequiredEnv("DB_NAME", &errs)
	dbHost := getOptionalEnv("DB_HOST", "localhost")
	dbPort := getOptionalEnvInt("DB_PORT", 5432, &errs)
	poolSize := clampPoolSize(getOptionalEnvInt("DB_POOL_SIZE", 10, &errs), "DB_POOL_SIZE", &errs)

	jwtSecret := getRequiredEnv("JWT_SECRET", &errs)
	if _, exists := os.LookupEnv("JWT_SECRET"); exists && len(jwtSecret) < MinSecretLen {
		errs = append(errs, fmt.Sprintf("JWT_SECRET must be at least %d bytes, got %d", MinSecretLen, len(jwtSecret)))
	}
	tokenDuration := getOptionalEnvDuration("JWT_TOKEN_DURATION", 24*time.Hour, &errs)
	if tokenDuration <= 0 {
		errs = append(errs, fmt.Sprintf("JWT_TOKEN_DURATION must be positive, got %s", tokenDuration))
	}

	serverPort := getOptionalEnv("PORT", "8080")

	if len(errs) > 0 {
		return nil, fmt.Errorf("configuration errors:\n- %s", strings.Join(errs, "\n- "))
	}

	return &AppConfig{
		DB: &PoolConfig{
			Host:     dbHost,
			Port:     dbPort,
			User:     dbUser,
			Password: dbPassword,
			DBName:   dbName,
			MaxSize:  poolSize,
		},
		Auth: &AuthConfig{
			JWTSecret:     jwtSecret,
			TokenDuration: tokenDuration,
		},
		Server: &ServerConfig{
			Port: serverPort,
		},
	}, nil
}
