package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database DatabaseConfig
	App      AppConfig
	Source   SourceConfig
	Storage  StorageConfig
	Download DownloadConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	MaxConns int32
	MinConns int32
}

// AppConfig holds application configuration
type AppConfig struct {
	Port        int
	Env         string
	LogLevel    string
	FrontendURL string
}

// SourceConfig describes where the monthly attendance export is read from
type SourceConfig struct {
	Type            string // csv, xlsx, postgres
	Path            string
	Sheet           string
	Table           string
	RefreshInterval time.Duration
}

type StorageConfig struct {
	Type     string
	BasePath string
	BaseURL  string
}

// DownloadConfig holds the signing settings for export download links
type DownloadConfig struct {
	Secret  string
	LinkTTL time.Duration
}

// Load reads the configuration and validates it for the API server
func Load() (*Config, error) {
	config, err := Read()
	if err != nil {
		return nil, err
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Read loads .env and the environment without validating the result
func Read() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	maxConns, err := strconv.Atoi(getEnv("DB_MAX_CONNS", "10"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_CONNS: %w", err)
	}

	minConns, err := strconv.Atoi(getEnv("DB_MIN_CONNS", "1"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MIN_CONNS: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "attendance_audit"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		MaxConns: int32(maxConns),
		MinConns: int32(minConns),
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:        appPort,
		Env:         getEnv("APP_ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3000"),
	}

	// Source configuration
	refreshInterval, err := time.ParseDuration(getEnv("SOURCE_REFRESH_INTERVAL", "5m"))
	if err != nil {
		return nil, fmt.Errorf("invalid SOURCE_REFRESH_INTERVAL: %w", err)
	}

	config.Source = SourceConfig{
		Type:            strings.ToLower(getEnv("SOURCE_TYPE", "csv")),
		Path:            getEnv("SOURCE_PATH", "january.csv"),
		Sheet:           getEnv("SOURCE_SHEET", ""),
		Table:           getEnv("SOURCE_TABLE", "attendance_export_rows"),
		RefreshInterval: refreshInterval,
	}

	config.Storage = StorageConfig{
		Type:     getEnv("STORAGE_TYPE", "local"),
		BasePath: getEnv("STORAGE_BASE_PATH", "./exports"),
		BaseURL:  getEnv("STORAGE_BASE_URL", "http://localhost:8080"),
	}

	// Download link configuration
	linkTTL, err := time.ParseDuration(getEnv("DOWNLOAD_LINK_TTL", "15m"))
	if err != nil {
		return nil, fmt.Errorf("invalid DOWNLOAD_LINK_TTL: %w", err)
	}

	config.Download = DownloadConfig{
		Secret:  getEnv("DOWNLOAD_SECRET_KEY", ""),
		LinkTTL: linkTTL,
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Source.Type {
	case "csv", "xlsx":
		if c.Source.Path == "" {
			return fmt.Errorf("SOURCE_PATH is required for %s sources", c.Source.Type)
		}
	case "postgres":
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD is required")
		}
		if c.Source.Table == "" {
			return fmt.Errorf("SOURCE_TABLE is required")
		}
	default:
		return fmt.Errorf("unsupported SOURCE_TYPE: %s", c.Source.Type)
	}

	if c.Source.RefreshInterval <= 0 {
		return fmt.Errorf("SOURCE_REFRESH_INTERVAL must be positive")
	}
	if c.Download.Secret == "" {
		return fmt.Errorf("DOWNLOAD_SECRET_KEY is required")
	}
	if c.Download.LinkTTL <= 0 {
		return fmt.Errorf("DOWNLOAD_LINK_TTL must be positive")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// SlogLevel maps LOG_LEVEL onto a slog level, defaulting to info
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.App.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
