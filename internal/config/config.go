package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"gallery/internal/domain"
)

// DefaultEnvFile is loaded before reading the environment when it exists.
const DefaultEnvFile = ".env"

// Config holds all application configuration.
type Config struct {
	Server  ServerConfig
	Storage StorageConfig
	Upload  UploadConfig
	Log     LogConfig
	CORS    CORSConfig
	Metrics MetricsConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// StorageConfig holds the remote object store settings. Endpoint, ProjectID
// and Bucket may be empty; the provider reports the resulting error when it
// is first called.
type StorageConfig struct {
	Provider        string `mapstructure:"provider"`
	Endpoint        string `mapstructure:"endpoint"`
	ProjectID       string `mapstructure:"project_id"`
	Bucket          string `mapstructure:"bucket"`
	Region          string `mapstructure:"region"`
	AccessKey       string `mapstructure:"access_key"`
	SecretKey       string `mapstructure:"secret_key"`
	PublicBaseURL   string `mapstructure:"public_base_url"`
	PresignExpiry   int64  `mapstructure:"presign_expiry"`
	ListConcurrency int    `mapstructure:"list_concurrency"`
}

// KeyPrefix returns the object key prefix derived from the project id.
func (s *StorageConfig) KeyPrefix() string {
	p := strings.Trim(s.ProjectID, "/")
	if p == "" {
		return ""
	}
	return p + "/"
}

// UploadConfig holds selection policy settings.
type UploadConfig struct {
	MaxFileSizeBytes int64 `mapstructure:"max_file_size_bytes"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// MetricsConfig holds Prometheus settings.
type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Namespace string `mapstructure:"namespace"`
}

// Load reads configuration from environment variables with the GALLERY_ prefix,
// after applying DefaultEnvFile if it exists.
func Load() (*Config, error) {
	return LoadFrom(DefaultEnvFile)
}

// LoadFrom is Load with an explicit env file. A missing file is not an error.
func LoadFrom(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("loading env file %s: %w", envFile, err)
		}
	}

	v := viper.New()
	v.SetEnvPrefix("GALLERY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "60s")
	v.SetDefault("server.environment", "development")

	// Storage defaults
	v.SetDefault("storage.provider", "s3")
	v.SetDefault("storage.endpoint", "")
	v.SetDefault("storage.project_id", "")
	v.SetDefault("storage.bucket", "")
	v.SetDefault("storage.region", "us-east-1")
	v.SetDefault("storage.public_base_url", "")
	v.SetDefault("storage.presign_expiry", 3600)
	v.SetDefault("storage.list_concurrency", 8)

	// Upload defaults
	v.SetDefault("upload.max_file_size_bytes", domain.DefaultMaxFileSizeBytes)

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.namespace", "gallery")

	envBindings := map[string]string{
		"server.port":                "GALLERY_SERVER_PORT",
		"server.read_timeout":        "GALLERY_SERVER_READ_TIMEOUT",
		"server.write_timeout":       "GALLERY_SERVER_WRITE_TIMEOUT",
		"server.environment":         "GALLERY_SERVER_ENVIRONMENT",
		"storage.provider":           "GALLERY_STORAGE_PROVIDER",
		"storage.endpoint":           "GALLERY_STORAGE_ENDPOINT",
		"storage.project_id":         "GALLERY_STORAGE_PROJECT_ID",
		"storage.bucket":             "GALLERY_STORAGE_BUCKET",
		"storage.region":             "GALLERY_STORAGE_REGION",
		"storage.access_key":         "GALLERY_STORAGE_ACCESS_KEY",
		"storage.secret_key":         "GALLERY_STORAGE_SECRET_KEY",
		"storage.public_base_url":    "GALLERY_STORAGE_PUBLIC_BASE_URL",
		"storage.presign_expiry":     "GALLERY_STORAGE_PRESIGN_EXPIRY",
		"storage.list_concurrency":   "GALLERY_STORAGE_LIST_CONCURRENCY",
		"upload.max_file_size_bytes": "GALLERY_UPLOAD_MAX_FILE_SIZE_BYTES",
		"log.level":                  "GALLERY_LOG_LEVEL",
		"log.format":                 "GALLERY_LOG_FORMAT",
		"cors.allowed_origins":       "GALLERY_CORS_ALLOWED_ORIGINS",
		"metrics.enabled":            "GALLERY_METRICS_ENABLED",
		"metrics.namespace":          "GALLERY_METRICS_NAMESPACE",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Hosting platforms set PORT; honour it unless GALLERY_SERVER_PORT is explicit.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("GALLERY_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.Storage = StorageConfig{
		Provider:        strings.ToLower(v.GetString("storage.provider")),
		Endpoint:        v.GetString("storage.endpoint"),
		ProjectID:       v.GetString("storage.project_id"),
		Bucket:          v.GetString("storage.bucket"),
		Region:          v.GetString("storage.region"),
		AccessKey:       v.GetString("storage.access_key"),
		SecretKey:       v.GetString("storage.secret_key"),
		PublicBaseURL:   v.GetString("storage.public_base_url"),
		PresignExpiry:   v.GetInt64("storage.presign_expiry"),
		ListConcurrency: v.GetInt("storage.list_concurrency"),
	}
	if cfg.Storage.ListConcurrency <= 0 {
		cfg.Storage.ListConcurrency = 1
	}

	cfg.Upload = UploadConfig{
		MaxFileSizeBytes: v.GetInt64("upload.max_file_size_bytes"),
	}
	if cfg.Upload.MaxFileSizeBytes <= 0 {
		cfg.Upload.MaxFileSizeBytes = domain.DefaultMaxFileSizeBytes
	}

	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}

	// Parse CORS allowed origins from comma-separated string
	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{AllowedOrigins: corsOrigins}

	cfg.Metrics = MetricsConfig{
		Enabled:   v.GetBool("metrics.enabled"),
		Namespace: v.GetString("metrics.namespace"),
	}

	return cfg, nil
}
