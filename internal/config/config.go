package config

import (
	"encoding/base64"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App      AppConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Logger   LoggerConfig
	Auth     AuthConfig
	Discord  DiscordConfig
	Cycle    CycleConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	FrontendURL           string
	RequestTimeoutSeconds int
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines token issuance and static-key parameters.
// JWTSecret is base64-encoded key material shared only by the token
// service; BotAPIKey is the static secret presented by the Discord bot.
type AuthConfig struct {
	JWTSecret         string
	JWTIssuer         string
	UserTokenTTLSec   int
	BotTokenTTLSec    int
	BotAPIKey         string
	SessionTTLMinutes int
}

// DiscordConfig holds OAuth client credentials and the guild gate target.
type DiscordConfig struct {
	APIBaseURL        string
	ClientID          string
	ClientSecret      string
	RedirectURL       string
	RequiredGuildID   string
	BotToken          string
	HTTPTimeoutSec    int
	MappingRefreshMin int
}

// CycleConfig anchors the bi-weekly content cycle arithmetic.
type CycleConfig struct {
	ReferenceStartDate string
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "command-centre"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			FrontendURL:           getEnv("APP_FRONTEND_URL", "http://localhost:5173"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			JWTSecret:         os.Getenv("AUTH_JWT_SECRET"),
			JWTIssuer:         getEnv("AUTH_JWT_ISSUER", "command-centre"),
			UserTokenTTLSec:   getEnvAsInt("AUTH_USER_TOKEN_TTL_SECONDS", 604800),
			BotTokenTTLSec:    getEnvAsInt("AUTH_BOT_TOKEN_TTL_SECONDS", 31536000),
			BotAPIKey:         os.Getenv("AUTH_BOT_API_KEY"),
			SessionTTLMinutes: getEnvAsInt("AUTH_SESSION_TTL_MINUTES", 720),
		},
		Discord: DiscordConfig{
			APIBaseURL:        getEnv("DISCORD_API_BASE_URL", "https://discord.com/api/v10"),
			ClientID:          os.Getenv("DISCORD_CLIENT_ID"),
			ClientSecret:      os.Getenv("DISCORD_CLIENT_SECRET"),
			RedirectURL:       os.Getenv("DISCORD_REDIRECT_URL"),
			RequiredGuildID:   os.Getenv("DISCORD_REQUIRED_GUILD_ID"),
			BotToken:          os.Getenv("DISCORD_BOT_TOKEN"),
			HTTPTimeoutSec:    getEnvAsInt("DISCORD_HTTP_TIMEOUT_SECONDS", 10),
			MappingRefreshMin: getEnvAsInt("DISCORD_MAPPING_REFRESH_MINUTES", 15),
		},
		Cycle: CycleConfig{
			ReferenceStartDate: getEnv("CYCLE_REFERENCE_START_DATE", "2025-01-06"),
		},
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// SigningKey decodes the base64 JWT secret. An empty or undecodable
// secret is a deployment error and must abort startup.
func (a AuthConfig) SigningKey() ([]byte, error) {
	if a.JWTSecret == "" {
		return nil, fmt.Errorf("AUTH_JWT_SECRET is not configured")
	}
	key, err := base64.StdEncoding.DecodeString(a.JWTSecret)
	if err != nil {
		return nil, fmt.Errorf("AUTH_JWT_SECRET is not valid base64: %w", err)
	}
	return key, nil
}

// SessionTTL returns the session lifetime.
func (a AuthConfig) SessionTTL() time.Duration {
	if a.SessionTTLMinutes <= 0 {
		return 12 * time.Hour
	}
	return time.Duration(a.SessionTTLMinutes) * time.Minute
}

// HTTPTimeout bounds outbound Discord API calls.
func (d DiscordConfig) HTTPTimeout() time.Duration {
	if d.HTTPTimeoutSec <= 0 {
		return 10 * time.Second
	}
	return time.Duration(d.HTTPTimeoutSec) * time.Second
}

// MappingRefreshInterval controls how often the name mapping cache reloads.
func (d DiscordConfig) MappingRefreshInterval() time.Duration {
	if d.MappingRefreshMin <= 0 {
		return 15 * time.Minute
	}
	return time.Duration(d.MappingRefreshMin) * time.Minute
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
