package cmd

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

const (
	FeedDriverPostgres = "postgres"
	FeedDriverRedis    = "redis"
)

type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string
	JWTSecret  string

	FeedDriver  string
	FeedChannel string
	FeedBridge  bool

	RedisAddr     string
	RedisPassword string

	AMQPURL               string
	NotificationsExchange string

	ResyncSchedule string
	EvictSchedule  string
	SessionIdleTTL time.Duration

	EnforceOrderTransitions bool
	AutoMigrate             bool
	LogLevel                slog.Level
}

// DSN is the libpq connection string shared by gorm and the change feed listener.
func (c Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode,
	)
}

// LoadConfig reads the configuration from the environment. A .env file in
// the working directory is loaded first when present; real environment
// variables take precedence over it.
func LoadConfig(envFile string) (Config, error) {
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load %s: %w", envFile, err)
	}

	var errs []error
	cfg := Config{
		HTTPPort:   getenv("HTTP_PORT", "8080"),
		DBHost:     getenv("DB_HOST", "localhost"),
		DBPort:     getenv("DB_PORT", "5432"),
		DBUser:     getenv("DB_USER", "postgres"),
		DBPassword: getenv("DB_PASSWORD", ""),
		DBName:     getenv("DB_NAME", "restaurant"),
		DBSslMode:  getenv("DB_SSLMODE", "disable"),
		JWTSecret:  getenv("JWT_SECRET", ""),

		FeedDriver:  strings.ToLower(getenv("FEED_DRIVER", FeedDriverPostgres)),
		FeedChannel: getenv("FEED_CHANNEL", "table_changes"),
		FeedBridge:  parseBool("FEED_BRIDGE", true, &errs),

		RedisAddr:     getenv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getenv("REDIS_PASSWORD", ""),

		AMQPURL:               getenv("AMQP_URL", ""),
		NotificationsExchange: getenv("NOTIFICATIONS_EXCHANGE", "notifications"),

		ResyncSchedule: getenv("RESYNC_SCHEDULE", "*/30 * * * * *"),
		EvictSchedule:  getenv("EVICT_SCHEDULE", "0 * * * * *"),
		SessionIdleTTL: parseDur("SESSION_IDLE_TTL", 10*time.Minute, &errs),

		EnforceOrderTransitions: parseBool("ENFORCE_ORDER_TRANSITIONS", false, &errs),
		AutoMigrate:             parseBool("AUTO_MIGRATE", false, &errs),
		LogLevel:                parseLevel("LOG_LEVEL", slog.LevelInfo, &errs),
	}

	if cfg.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if cfg.FeedDriver != FeedDriverPostgres && cfg.FeedDriver != FeedDriverRedis {
		errs = append(errs, fmt.Errorf("FEED_DRIVER: unsupported driver %q", cfg.FeedDriver))
	}
	if cfg.SessionIdleTTL <= 0 {
		errs = append(errs, errors.New("SESSION_IDLE_TTL must be positive"))
	}

	return cfg, errors.Join(errs...)
}

func getenv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func parseDur(key string, def time.Duration, errs *[]error) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return d
}

func parseBool(key string, def bool, errs *[]error) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return b
}

func parseLevel(key string, def slog.Level, errs *[]error) slog.Level {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(v)); err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return level
}
