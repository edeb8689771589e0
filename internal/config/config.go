package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the bot.
type Config struct {
	App       AppConfig
	Bot       BotConfig
	Postgres  PostgresConfig
	SQLite    SQLiteConfig
	Redis     RedisConfig
	Logger    LoggerConfig
	Lifecycle LifecycleConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name    string
	Env     string
	Host    string
	Port    string
	Version string
}

// BotConfig holds the chat transport credential and the single admin identity.
type BotConfig struct {
	Token      string
	AdminID    int64
	APIBaseURL string
}

// PostgresConfig holds DB connection values. An empty DSN selects the SQLite
// backend instead.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// SQLiteConfig holds the fallback database location.
type SQLiteConfig struct {
	Path string
}

// RedisConfig holds Redis connection values. An empty Addr keeps conversation
// state in process memory.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// LifecycleConfig holds the ticket lifecycle tunables.
type LifecycleConfig struct {
	TicketCooldown      time.Duration
	CallCooldown        time.Duration
	TicketWindow        time.Duration
	MaxTicketsPerWindow int
	TicketTTL           time.Duration
	RemindAfter         time.Duration
	RemindEvery         time.Duration
	SweepInterval       time.Duration
	OpenListLimit       int
}

// Load reads configuration from environment variables, applying defaults where
// possible. BOT_TOKEN and ADMIN_ID are required; a missing or malformed value
// is a startup error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	token := os.Getenv("BOT_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("BOT_TOKEN is required")
	}

	adminRaw := os.Getenv("ADMIN_ID")
	if adminRaw == "" {
		return nil, fmt.Errorf("ADMIN_ID is required")
	}
	adminID, err := strconv.ParseInt(adminRaw, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid ADMIN_ID: %w", err)
	}

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:    getEnv("APP_NAME", "support-bot"),
			Env:     getEnv("APP_ENV", "development"),
			Host:    getEnv("APP_HOST", "0.0.0.0"),
			Port:    getEnv("APP_PORT", "8080"),
			Version: getEnv("APP_VERSION", "dev"),
		},
		Bot: BotConfig{
			Token:      token,
			AdminID:    adminID,
			APIBaseURL: getEnv("BOT_API_BASE_URL", "https://api.telegram.org"),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		SQLite: SQLiteConfig{
			Path: getEnv("SQLITE_PATH", "data/support-bot.db"),
		},
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Lifecycle: LifecycleConfig{
			TicketCooldown:      getEnvAsSeconds("TICKET_COOLDOWN_SECONDS", 60),
			CallCooldown:        getEnvAsSeconds("CALL_COOLDOWN_SECONDS", 60),
			TicketWindow:        getEnvAsSeconds("TICKET_WINDOW_SECONDS", 600),
			MaxTicketsPerWindow: getEnvAsInt("TICKET_MAX_PER_WINDOW", 3),
			TicketTTL:           getEnvAsSeconds("TICKET_TTL_SECONDS", 1800),
			RemindAfter:         getEnvAsSeconds("REMIND_AFTER_SECONDS", 300),
			RemindEvery:         getEnvAsSeconds("REMIND_EVERY_SECONDS", 600),
			SweepInterval:       getEnvAsSeconds("SWEEP_INTERVAL_SECONDS", 60),
			OpenListLimit:       getEnvAsInt("SWEEP_OPEN_LIST_LIMIT", 200),
		},
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsSeconds(key string, fallback int) time.Duration {
	return time.Duration(getEnvAsInt(key, fallback)) * time.Second
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
