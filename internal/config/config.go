package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	DB        DBConfig
	S3        S3Config
	Extractor ExtractorConfig
	Scan      ScanConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// S3Config holds attachment store settings.
type S3Config struct {
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	PresignExpiry int64  `mapstructure:"presign_expiry"`
}

// ExtractorProviderConfig holds settings for a single vision-model provider.
type ExtractorProviderConfig struct {
	Provider     string `mapstructure:"provider"`
	APIKey       string `mapstructure:"api_key"`
	DefaultModel string `mapstructure:"default_model"`
	TimeoutSecs  int    `mapstructure:"timeout_secs"`
}

// ExtractorConfig holds invoice extractor settings with fallback support.
type ExtractorConfig struct {
	Primary   ExtractorProviderConfig `mapstructure:"primary"`
	Secondary ExtractorProviderConfig `mapstructure:"secondary"`
}

// SecondaryConfig returns the secondary provider config, or nil if not configured.
func (e *ExtractorConfig) SecondaryConfig() *ExtractorProviderConfig {
	if e.Secondary.Provider != "" {
		return &e.Secondary
	}
	return nil
}

// ScanConfig holds invoice-scan limits.
type ScanConfig struct {
	MaxImageSizeMB int64 `mapstructure:"max_image_size_mb"`
}

// Load reads configuration from environment variables with the AUTOSTOCK_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("AUTOSTOCK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "autostock")
	v.SetDefault("db.password", "autostock_secret")
	v.SetDefault("db.name", "autostock_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// S3 defaults
	v.SetDefault("s3.region", "ap-south-1")
	v.SetDefault("s3.bucket", "autostock-bill-photos")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.presign_expiry", 3600)

	// Extractor defaults
	v.SetDefault("extractor.primary.provider", "gemini")
	v.SetDefault("extractor.primary.api_key", "")
	v.SetDefault("extractor.primary.default_model", "gemini-2.5-flash")
	v.SetDefault("extractor.primary.timeout_secs", 120)
	v.SetDefault("extractor.secondary.provider", "")
	v.SetDefault("extractor.secondary.api_key", "")
	v.SetDefault("extractor.secondary.default_model", "")
	v.SetDefault("extractor.secondary.timeout_secs", 120)

	// Scan defaults
	v.SetDefault("scan.max_image_size_mb", 5)

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                       "AUTOSTOCK_SERVER_PORT",
		"server.read_timeout":               "AUTOSTOCK_SERVER_READ_TIMEOUT",
		"server.write_timeout":              "AUTOSTOCK_SERVER_WRITE_TIMEOUT",
		"server.environment":                "AUTOSTOCK_SERVER_ENVIRONMENT",
		"db.host":                           "AUTOSTOCK_DB_HOST",
		"db.port":                           "AUTOSTOCK_DB_PORT",
		"db.user":                           "AUTOSTOCK_DB_USER",
		"db.password":                       "AUTOSTOCK_DB_PASSWORD",
		"db.name":                           "AUTOSTOCK_DB_NAME",
		"db.sslmode":                        "AUTOSTOCK_DB_SSLMODE",
		"db.max_open":                       "AUTOSTOCK_DB_MAX_OPEN",
		"db.max_idle":                       "AUTOSTOCK_DB_MAX_IDLE",
		"s3.region":                         "AUTOSTOCK_S3_REGION",
		"s3.bucket":                         "AUTOSTOCK_S3_BUCKET",
		"s3.endpoint":                       "AUTOSTOCK_S3_ENDPOINT",
		"s3.access_key":                     "AUTOSTOCK_S3_ACCESS_KEY",
		"s3.secret_key":                     "AUTOSTOCK_S3_SECRET_KEY",
		"s3.presign_expiry":                 "AUTOSTOCK_S3_PRESIGN_EXPIRY",
		"extractor.primary.provider":        "AUTOSTOCK_EXTRACTOR_PRIMARY_PROVIDER",
		"extractor.primary.api_key":         "AUTOSTOCK_EXTRACTOR_PRIMARY_API_KEY",
		"extractor.primary.default_model":   "AUTOSTOCK_EXTRACTOR_PRIMARY_DEFAULT_MODEL",
		"extractor.primary.timeout_secs":    "AUTOSTOCK_EXTRACTOR_PRIMARY_TIMEOUT_SECS",
		"extractor.secondary.provider":      "AUTOSTOCK_EXTRACTOR_SECONDARY_PROVIDER",
		"extractor.secondary.api_key":       "AUTOSTOCK_EXTRACTOR_SECONDARY_API_KEY",
		"extractor.secondary.default_model": "AUTOSTOCK_EXTRACTOR_SECONDARY_DEFAULT_MODEL",
		"extractor.secondary.timeout_secs":  "AUTOSTOCK_EXTRACTOR_SECONDARY_TIMEOUT_SECS",
		"scan.max_image_size_mb":            "AUTOSTOCK_SCAN_MAX_IMAGE_SIZE_MB",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if AUTOSTOCK_SERVER_PORT
	// is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("AUTOSTOCK_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.S3 = S3Config{
		Region:        v.GetString("s3.region"),
		Bucket:        v.GetString("s3.bucket"),
		Endpoint:      v.GetString("s3.endpoint"),
		AccessKey:     v.GetString("s3.access_key"),
		SecretKey:     v.GetString("s3.secret_key"),
		PresignExpiry: v.GetInt64("s3.presign_expiry"),
	}
	cfg.Extractor = ExtractorConfig{
		Primary: ExtractorProviderConfig{
			Provider:     v.GetString("extractor.primary.provider"),
			APIKey:       v.GetString("extractor.primary.api_key"),
			DefaultModel: v.GetString("extractor.primary.default_model"),
			TimeoutSecs:  v.GetInt("extractor.primary.timeout_secs"),
		},
		Secondary: ExtractorProviderConfig{
			Provider:     v.GetString("extractor.secondary.provider"),
			APIKey:       v.GetString("extractor.secondary.api_key"),
			DefaultModel: v.GetString("extractor.secondary.default_model"),
			TimeoutSecs:  v.GetInt("extractor.secondary.timeout_secs"),
		},
	}
	cfg.Scan = ScanConfig{
		MaxImageSizeMB: v.GetInt64("scan.max_image_size_mb"),
	}

	return cfg, nil
}
