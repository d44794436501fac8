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
	JWT       JWTConfig
	CORS      CORSConfig
	S3        S3Config
	Redis     RedisConfig
	Theme     ThemeConfig
	Locale    LocaleConfig
	Analytics AnalyticsConfig
	Upload    UploadConfig
}

type ServerConfig struct {
	Port        string
	GinMode     string
	Environment string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type JWTConfig struct {
	Secret             string
	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

type S3Config struct {
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	BaseURL         string // CloudFront or S3 direct URL
}

// RedisConfig is optional: an empty Host disables the settings cache and
// refresh token revocation.
type RedisConfig struct {
	Host        string
	Port        string
	Password    string
	DB          int
	SettingsTTL time.Duration
}

type ThemeConfig struct {
	DefaultPrimary      string
	DefaultPrimaryHover string
	HoverDarkenPercent  float64
}

type LocaleConfig struct {
	Default          string
	SwitcherExcluded []string
}

type AnalyticsConfig struct {
	RetentionDays int
	PurgeSchedule string
}

type UploadConfig struct {
	MaxFileSize int64
}

func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config := &Config{
		Server: ServerConfig{
			Port:        getEnv("SERVER_PORT", "3001"),
			GinMode:     getEnv("GIN_MODE", "debug"),
			Environment: getEnv("ENVIRONMENT", "development"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "storefront"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		JWT: JWTConfig{
			Secret:             getEnv("JWT_SECRET", "secret"),
			AccessTokenExpiry:  parseDuration(getEnv("JWT_ACCESS_TOKEN_EXPIRY", "24h"), 24*time.Hour),
			RefreshTokenExpiry: parseDuration(getEnv("JWT_REFRESH_TOKEN_EXPIRY", "168h"), 168*time.Hour),
		},
		CORS: CORSConfig{
			AllowedOrigins: parseSlice(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
		},
		S3: S3Config{
			Region:          getEnv("AWS_REGION", "eu-central-1"),
			Bucket:          getEnv("AWS_S3_BUCKET", "storefront-uploads"),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
			BaseURL:         getEnv("AWS_S3_BASE_URL", ""),
		},
		Redis: RedisConfig{
			Host:        getEnv("REDIS_HOST", ""),
			Port:        getEnv("REDIS_PORT", "6379"),
			Password:    getEnv("REDIS_PASSWORD", ""),
			DB:          parseInt(getEnv("REDIS_DB", "0"), 0),
			SettingsTTL: parseDuration(getEnv("REDIS_SETTINGS_TTL", "10m"), 10*time.Minute),
		},
		Theme: ThemeConfig{
			DefaultPrimary:      getEnv("THEME_DEFAULT_PRIMARY", "#8b2635"),
			DefaultPrimaryHover: getEnv("THEME_DEFAULT_PRIMARY_HOVER", "#6b2d1f"),
			HoverDarkenPercent:  parseFloat(getEnv("THEME_HOVER_DARKEN_PERCENT", "20"), 20),
		},
		Locale: LocaleConfig{
			Default:          getEnv("LOCALE_DEFAULT", "en"),
			SwitcherExcluded: parseSlice(getEnv("LOCALE_SWITCHER_EXCLUDED", "az")),
		},
		Analytics: AnalyticsConfig{
			RetentionDays: parseInt(getEnv("ANALYTICS_RETENTION_DAYS", "90"), 90),
			PurgeSchedule: getEnv("ANALYTICS_PURGE_SCHEDULE", "0 3 * * *"),
		},
		Upload: UploadConfig{
			MaxFileSize: int64(parseInt(getEnv("UPLOAD_MAX_FILE_SIZE", "5242880"), 5*1024*1024)),
		},
	}

	return config, nil
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// Enabled reports whether a Redis server was configured.
func (c *RedisConfig) Enabled() bool {
	return c.Host != ""
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
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Printf("Invalid integer %s, using default %d", s, fallback)
		return fallback
	}
	return n
}

func parseFloat(s string, fallback float64) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		log.Printf("Invalid number %s, using default %v", s, fallback)
		return fallback
	}
	return f
}

func parseSlice(s string) []string {
	result := []string{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}
