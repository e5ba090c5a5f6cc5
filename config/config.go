package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	S3        S3Config
	Admin     AdminConfig
	Translate TranslateConfig
	Cache     CacheConfig
	CORS      CORSConfig
}

type ServerConfig struct {
	Port        string
	GinMode     string
	Environment string
	SiteName    string
}

// DefaultSessionSecret signs admin sessions when ADMIN_SESSION_SECRET is unset.
// It is only accepted in development.
const DefaultSessionSecret = "change-me"

// IsDevelopment reports whether the admin gate should be bypassed.
func (s ServerConfig) IsDevelopment() bool {
	return s.Environment == "development"
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     string
	Password string
	DB       int
}

type S3Config struct {
	Endpoint        string // R2 / MinIO endpoint, empty for AWS
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	PublicBaseURL   string // CDN or bucket public URL prefix
}

type AdminConfig struct {
	BasicUser       string
	BasicPass       string
	SessionSecret   string
	SessionExpiry   time.Duration
	DefaultUsername string
	DefaultPassword string
}

type TranslateConfig struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

type CacheConfig struct {
	TTL            time.Duration
	RevalidateCron string
}

type CORSConfig struct {
	AllowedOrigins []string
}

func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config := &Config{
		Server: ServerConfig{
			Port:        getEnv("SERVER_PORT", "8080"),
			GinMode:     getEnv("GIN_MODE", "release"),
			Environment: getEnv("ENVIRONMENT", "production"),
			SiteName:    getEnv("SITE_NAME", "Hengyuan Packaging"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "giftbox"),
			Password: getEnv("DB_PASSWORD", "giftbox"),
			DBName:   getEnv("DB_NAME", "giftbox_site"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Enabled:  parseBool(getEnv("REDIS_ENABLED", "false")),
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       parseInt(getEnv("REDIS_DB", "0"), 0),
		},
		S3: S3Config{
			Endpoint:        getEnv("S3_ENDPOINT", ""),
			Region:          getEnv("S3_REGION", "auto"),
			Bucket:          getEnv("S3_BUCKET", ""),
			AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("S3_SECRET_ACCESS_KEY", ""),
			PublicBaseURL:   strings.TrimRight(getEnv("S3_PUBLIC_BASE_URL", ""), "/"),
		},
		Admin: AdminConfig{
			BasicUser:       getEnv("ADMIN_BASIC_USER", ""),
			BasicPass:       getEnv("ADMIN_BASIC_PASS", ""),
			SessionSecret:   getEnv("ADMIN_SESSION_SECRET", DefaultSessionSecret),
			SessionExpiry:   parseDuration(getEnv("ADMIN_SESSION_EXPIRY", "12h"), 12*time.Hour),
			DefaultUsername: getEnv("ADMIN_DEFAULT_USERNAME", "admin"),
			DefaultPassword: getEnv("ADMIN_DEFAULT_PASSWORD", ""),
		},
		Translate: TranslateConfig{
			APIKey:  getEnv("TRANSLATE_API_KEY", ""),
			BaseURL: getEnv("TRANSLATE_API_URL", "https://api-free.deepl.com/v2"),
			Timeout: parseDuration(getEnv("TRANSLATE_TIMEOUT", "10s"), 10*time.Second),
		},
		Cache: CacheConfig{
			TTL:            parseDuration(getEnv("RENDER_CACHE_TTL", "1h"), time.Hour),
			RevalidateCron: getEnv("REVALIDATE_CRON", "@every 10m"),
		},
		CORS: CORSConfig{
			AllowedOrigins: parseSlice(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
		},
	}

	if config.S3.PublicBaseURL == "" && config.S3.Endpoint != "" && config.S3.Bucket != "" {
		config.S3.PublicBaseURL = fmt.Sprintf("%s/%s", strings.TrimRight(config.S3.Endpoint, "/"), config.S3.Bucket)
	}

	return config, nil
}

// Validate rejects settings that would leave the admin surface open outside
// development.
func (c *Config) Validate() error {
	if c.Server.IsDevelopment() {
		return nil
	}
	if strings.TrimSpace(c.Admin.SessionSecret) == "" || c.Admin.SessionSecret == DefaultSessionSecret {
		return fmt.Errorf("ADMIN_SESSION_SECRET must be set when ENVIRONMENT is %q", c.Server.Environment)
	}
	return nil
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func (c *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	duration, err := time.ParseDuration(s)
	if err != nil {
		log.Printf("Invalid duration %s, using default %s", s, fallback)
		return fallback
	}
	return duration
}

func parseInt(s string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fallback
	}
	return n
}

func parseBool(s string) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(s))
	return err == nil && b
}

func parseSlice(s string) []string {
	if s == "" {
		return []string{}
	}
	var result []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}
