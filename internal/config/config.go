package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Server configuration
type ServerConfig struct {
	Port        string
	Environment string
	CORSOrigins []string
}

// MongoDB configuration
type MongoConfig struct {
	URI      string
	Database string
}

// JWT configuration
type JWTConfig struct {
	Secret     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// DeepL translation provider configuration
type DeepLConfig struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// MinIO object storage configuration
type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// Config holds all application configuration
type Config struct {
	Server ServerConfig
	Mongo  MongoConfig
	JWT    JWTConfig
	DeepL  DeepLConfig
	Minio  MinioConfig
}

// Default configuration values
const (
	DefaultPort        = "3000"
	DefaultEnvironment = "development"
	DefaultCORSOrigins = "http://localhost:5173,http://127.0.0.1:5173"
	DefaultMongoURI    = "mongodb://localhost:27017/cvfolio"
	DefaultMongoDB     = "cvfolio"
	DefaultAccessTTL   = time.Hour
	DefaultRefreshTTL  = 7 * 24 * time.Hour
	DefaultDeepLURL    = "https://api-free.deepl.com"
	DefaultDeepLWait   = 10 * time.Second
	DefaultMinioHost   = "localhost:9000"
	DefaultMinioKey    = "minioadmin"
	DefaultMinioBucket = "cvfolio-uploads"
)

// New builds a Config from environment variables with defaults.
func New() *Config {
	return &Config{
		Server: ServerConfig{
			Port:        getEnv("PORT", DefaultPort),
			Environment: getEnv("APP_ENV", DefaultEnvironment),
			CORSOrigins: splitList(getEnv("CORS_ORIGINS", DefaultCORSOrigins)),
		},
		Mongo: MongoConfig{
			URI:      getEnv("MONGO_URI", DefaultMongoURI),
			Database: getEnv("MONGO_DB", DefaultMongoDB),
		},
		JWT: JWTConfig{
			Secret:     getEnv("JWT_SECRET", ""),
			AccessTTL:  getEnvDuration("JWT_ACCESS_TTL", DefaultAccessTTL),
			RefreshTTL: getEnvDuration("JWT_REFRESH_TTL", DefaultRefreshTTL),
		},
		DeepL: DeepLConfig{
			APIKey:  getEnv("DEEPL_API_KEY", ""),
			BaseURL: getEnv("DEEPL_API_URL", DefaultDeepLURL),
			Timeout: getEnvDuration("DEEPL_TIMEOUT", DefaultDeepLWait),
		},
		Minio: MinioConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", DefaultMinioHost),
			AccessKey: getEnv("MINIO_ACCESS_KEY", DefaultMinioKey),
			SecretKey: getEnv("MINIO_SECRET_KEY", DefaultMinioKey),
			Bucket:    getEnv("MINIO_BUCKET", DefaultMinioBucket),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
	}
}

// Production reports whether the app runs with production hardening
// (secure cookies, strict env validation).
func (c *Config) Production() bool {
	return strings.EqualFold(c.Server.Environment, "production")
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
