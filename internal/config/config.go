package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Env variable names (documented for reference)
const (
	envBotToken      = "BOT_TOKEN"
	envGroupID       = "GROUP_ID"  // operator chat/group for new-complaint bundles
	envAdminIDs      = "ADMIN_IDS" // comma-separated telegram IDs
	envLogLevel      = "LOG_LEVEL"
	envMetricsAddr   = "METRICS_ADDR"
	envRedisAddr     = "REDIS_ADDR"
	envLocationsPath = "LOCATIONS_PATH"
	envLocalesPath   = "LOCALES_PATH"
	envPDFFontPath   = "PDF_FONT_PATH"
	envThrottle      = "THROTTLE_INTERVAL" // Go duration string, e.g. "500ms"

	envAdminAPIAddr  = "ADMIN_API_ADDR"
	envJWTSecret     = "JWT_SECRET"
	envAdminUser     = "ADMIN_USER"
	envAdminPassword = "ADMIN_PASSWORD"
)

// Config aggregates all runtime settings of the bot and the admin API.
// All fields are immutable after Load().
type Config struct {
	BotToken string
	GroupID  int64   // operator channel chat ID
	AdminIDs []int64 // telegram IDs allowed into the admin sub-flow

	LogLevel    string
	MetricsAddr string

	RedisAddr     string
	LocationsPath string
	LocalesPath   string
	PDFFontPath   string

	ThrottleInterval time.Duration

	AdminAPIAddr  string
	JWTSecret     string
	AdminUser     string
	AdminPassword string

	DB struct {
		Host     string
		Port     string
		User     string
		Password string
		Name     string
		SSLMode  string
	}
}

// MustLoad is a convenience wrapper around Load() that panics on error.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load reads environment variables (after best-effort .env loading), applies
// defaults, validates the result and returns a ready-to-use Config.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config

	cfg.BotToken = os.Getenv(envBotToken) // required, no default
	cfg.LogLevel = getEnv(envLogLevel, "info")
	cfg.MetricsAddr = getEnv(envMetricsAddr, ":9090")
	cfg.RedisAddr = getEnv(envRedisAddr, "localhost:6379")
	cfg.LocationsPath = getEnv(envLocationsPath, "data/locations.json")
	cfg.LocalesPath = getEnv(envLocalesPath, "locales")
	cfg.PDFFontPath = getEnv(envPDFFontPath, "/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf")

	cfg.AdminAPIAddr = getEnv(envAdminAPIAddr, ":8080")
	cfg.JWTSecret = os.Getenv(envJWTSecret)
	cfg.AdminUser = getEnv(envAdminUser, "admin")
	cfg.AdminPassword = os.Getenv(envAdminPassword)

	if s := os.Getenv(envGroupID); s != "" {
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", envGroupID, err)
		}
		cfg.GroupID = id
	}

	ids, err := ParseAdminIDs(os.Getenv(envAdminIDs))
	if err != nil {
		return Config{}, fmt.Errorf("invalid %s: %w", envAdminIDs, err)
	}
	cfg.AdminIDs = ids

	if s := os.Getenv(envThrottle); s != "" {
		d, err := time.ParseDuration(s)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", envThrottle, err)
		}
		cfg.ThrottleInterval = d
	} else {
		cfg.ThrottleInterval = 500 * time.Millisecond
	}

	cfg.DB.Host = getEnv("DB_HOST", "localhost")
	cfg.DB.Port = getEnv("DB_PORT", "5432")
	cfg.DB.User = getEnv("DB_USER", "postgres")
	cfg.DB.Password = getEnv("DB_PASSWORD", "postgres")
	cfg.DB.Name = getEnv("DB_NAME", "antikorbot")
	cfg.DB.SSLMode = getEnv("DB_SSLMODE", "disable")

	if cfg.BotToken == "" {
		return Config{}, fmt.Errorf("%s is required", envBotToken)
	}
	return cfg, nil
}

// DSN builds the Postgres connection string for gorm.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		c.DB.Host, c.DB.User, c.DB.Password, c.DB.Name, c.DB.Port, c.DB.SSLMode)
}

// IsAdmin reports whether the given telegram ID is on the admin allow-list.
func (c Config) IsAdmin(telegramID int64) bool {
	for _, id := range c.AdminIDs {
		if id == telegramID {
			return true
		}
	}
	return false
}

// ParseAdminIDs parses a comma-separated list of telegram IDs.
// Empty items are skipped; an empty input yields an empty list.
func ParseAdminIDs(s string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bad admin id %q: %w", part, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
