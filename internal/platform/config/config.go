package config

import (
	"fmt"
	"log"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage drivers selectable with LEDGER_STORAGE_DRIVER.
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds application configuration.
type Config struct {
	Port         string
	IsProduction bool
	LogLevel     slog.Level

	StorageDriver  string
	DatabaseURL    string
	SQLitePath     string
	EnableDBCheck  bool
	MigrationsPath string

	CommitRetryAttempts  int
	CommitRetryBaseDelay time.Duration

	RateLimit          string // ulule format, e.g. "300-M"
	CORSAllowedOrigins []string
	SeedCurrencies     bool
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LEDGER_STORAGE_DRIVER", DriverMemory)
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("SQLITE_PATH", "ledger.db")
	v.SetDefault("ENABLE_DB_CHECK", false)
	v.SetDefault("MIGRATIONS_PATH", "file://migrations/postgres")
	v.SetDefault("LEDGER_COMMIT_RETRY_ATTEMPTS", 5)
	v.SetDefault("LEDGER_COMMIT_RETRY_BASE_DELAY", "20ms")
	v.SetDefault("RATE_LIMIT", "300-M")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("SEED_CURRENCIES", true)
	v.AutomaticEnv()

	cfg := &Config{
		Port:           v.GetString("PORT"),
		IsProduction:   v.GetBool("IS_PRODUCTION"),
		StorageDriver:  strings.ToLower(strings.TrimSpace(v.GetString("LEDGER_STORAGE_DRIVER"))),
		DatabaseURL:    v.GetString("PGSQL_URL"),
		SQLitePath:     v.GetString("SQLITE_PATH"),
		EnableDBCheck:  v.GetBool("ENABLE_DB_CHECK"),
		MigrationsPath: v.GetString("MIGRATIONS_PATH"),
		RateLimit:      v.GetString("RATE_LIMIT"),
		SeedCurrencies: v.GetBool("SEED_CURRENCIES"),
	}

	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	levelStr := v.GetString("LOG_LEVEL")
	if err := cfg.LogLevel.UnmarshalText([]byte(levelStr)); err != nil {
		cfg.LogLevel = slog.LevelInfo
		log.Printf("Warning: Invalid value for LOG_LEVEL ('%s'). Defaulting to info.\n", levelStr)
	}

	switch cfg.StorageDriver {
	case DriverMemory, DriverSQLite:
	case DriverPostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("PGSQL_URL must be set when LEDGER_STORAGE_DRIVER is %s", DriverPostgres)
		}
	default:
		return nil, fmt.Errorf("unknown LEDGER_STORAGE_DRIVER %q", cfg.StorageDriver)
	}

	cfg.CommitRetryAttempts = v.GetInt("LEDGER_COMMIT_RETRY_ATTEMPTS")
	if cfg.CommitRetryAttempts < 1 {
		log.Printf("Warning: LEDGER_COMMIT_RETRY_ATTEMPTS must be at least 1 (got %d). Defaulting to 5.\n", cfg.CommitRetryAttempts)
		cfg.CommitRetryAttempts = 5
	}

	delayStr := v.GetString("LEDGER_COMMIT_RETRY_BASE_DELAY")
	delay, err := time.ParseDuration(delayStr)
	if err != nil || delay <= 0 {
		delay = 20 * time.Millisecond
		log.Printf("Warning: Invalid value for LEDGER_COMMIT_RETRY_BASE_DELAY ('%s'). Defaulting to %s.\n", delayStr, delay)
	}
	cfg.CommitRetryBaseDelay = delay

	if cfg.RateLimit == "" {
		cfg.RateLimit = "300-M"
		log.Printf("Warning: RATE_LIMIT not set. Defaulting to %s.\n", cfg.RateLimit)
	}

	for _, origin := range strings.Split(v.GetString("CORS_ALLOWED_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, origin)
		}
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		cfg.CORSAllowedOrigins = []string{"*"}
	}

	return cfg, nil
}
