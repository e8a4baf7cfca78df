package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Database  DatabaseConfig
	JWT       JWTConfig
	App       AppConfig
	Storage   StorageConfig
	Upload    UploadConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
}

type DatabaseConfig struct {
	URL      string
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port           int
	Env            string
	LogLevel       string
	Timezone       string
	AllowedOrigins []string
	RequestTimeout time.Duration
	// TrustProxy honours X-Forwarded-For / X-Real-IP. Enable only behind a proxy that sets them.
	TrustProxy bool
}

type StorageConfig struct {
	BasePath string
}

type UploadConfig struct {
	MaxDocumentSize int64
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type RateLimitConfig struct {
	Enabled        bool
	Capacity       int
	RefillInterval time.Duration
	TTL            time.Duration
}

var defaults = map[string]interface{}{
	"DB_HOST":     "localhost",
	"DB_PORT":     5432,
	"DB_USER":     "postgres",
	"DB_NAME":     "control_fichajes",
	"DB_SSL_MODE": "disable",

	"APP_PORT":            8080,
	"APP_ENV":             "development",
	"LOG_LEVEL":           "",
	"APP_TIMEZONE":        "UTC",
	"APP_ALLOWED_ORIGINS": "http://localhost:5173,http://localhost:3000",
	"APP_REQUEST_TIMEOUT": "15s",
	"APP_TRUST_PROXY":     false,

	"JWT_ACCESS_EXPIRATION_TIME": "120m",

	"STORAGE_BASE_PATH":        "./uploads",
	"UPLOAD_MAX_DOCUMENT_SIZE": int64(10 << 20),

	"REDIS_ADDR": "",
	"REDIS_DB":   0,

	"RATE_LIMIT_ENABLED":         true,
	"RATE_LIMIT_CAPACITY":        10,
	"RATE_LIMIT_REFILL_INTERVAL": "6s",
	"RATE_LIMIT_TTL":             "10m",
}

// Load reads .env (when present), an optional config.yml and the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetConfigName("config")
	v.SetConfigType("yml")
	v.AddConfigPath(".")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config.yml: %w", err)
		}
	}

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	config := &Config{}

	config.Database = DatabaseConfig{
		URL:      v.GetString("DATABASE_URL"),
		Host:     v.GetString("DB_HOST"),
		Port:     v.GetInt("DB_PORT"),
		User:     v.GetString("DB_USER"),
		Password: v.GetString("DB_PASSWORD"),
		Name:     v.GetString("DB_NAME"),
		SSLMode:  v.GetString("DB_SSL_MODE"),
	}

	requestTimeout, err := time.ParseDuration(v.GetString("APP_REQUEST_TIMEOUT"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_REQUEST_TIMEOUT: %w", err)
	}

	config.App = AppConfig{
		Port:           v.GetInt("APP_PORT"),
		Env:            v.GetString("APP_ENV"),
		LogLevel:       v.GetString("LOG_LEVEL"),
		Timezone:       v.GetString("APP_TIMEZONE"),
		AllowedOrigins: splitList(v.GetString("APP_ALLOWED_ORIGINS")),
		RequestTimeout: requestTimeout,
		TrustProxy:     v.GetBool("APP_TRUST_PROXY"),
	}

	config.JWT = JWTConfig{
		Secret:           v.GetString("JWT_SECRET_KEY"),
		AccessExpiration: v.GetString("JWT_ACCESS_EXPIRATION_TIME"),
	}

	config.Storage = StorageConfig{
		BasePath: v.GetString("STORAGE_BASE_PATH"),
	}

	config.Upload = UploadConfig{
		MaxDocumentSize: v.GetInt64("UPLOAD_MAX_DOCUMENT_SIZE"),
	}

	config.Redis = RedisConfig{
		Addr:     v.GetString("REDIS_ADDR"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	refill, err := time.ParseDuration(v.GetString("RATE_LIMIT_REFILL_INTERVAL"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_REFILL_INTERVAL: %w", err)
	}
	ttl, err := time.ParseDuration(v.GetString("RATE_LIMIT_TTL"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_TTL: %w", err)
	}
	config.RateLimit = RateLimitConfig{
		Enabled:        v.GetBool("RATE_LIMIT_ENABLED"),
		Capacity:       v.GetInt("RATE_LIMIT_CAPACITY"),
		RefillInterval: refill,
		TTL:            ttl,
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.URL == "" && c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD or DATABASE_URL is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if _, err := time.ParseDuration(c.JWT.AccessExpiration); err != nil {
		return fmt.Errorf("invalid JWT_ACCESS_EXPIRATION_TIME: %w", err)
	}
	if _, err := time.LoadLocation(c.App.Timezone); err != nil {
		return fmt.Errorf("invalid APP_TIMEZONE: %w", err)
	}
	if c.Upload.MaxDocumentSize <= 0 {
		return fmt.Errorf("UPLOAD_MAX_DOCUMENT_SIZE must be positive")
	}
	if c.RateLimit.Capacity < 1 {
		c.RateLimit.Capacity = 1
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	if c.Database.URL != "" {
		return c.Database.URL
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// Location returns the time zone used to decide "today" for clock actions.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.App.Env, "production")
}

func splitList(value string) []string {
	if value == "" {
		return []string{}
	}
	var result []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			result = append(result, item)
		}
	}
	return result
}
