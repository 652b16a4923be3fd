// Package config loads application settings from environment variables,
// which main populates from an optional .env file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BartekS5/twinren/pkg/utils"
)

const DefaultExts = "png,jpg,jpeg,bmp,gif"

// Config holds all configuration for the web server.
type Config struct {
	Port           string
	Env            string
	MaxUploadBytes int64
	AllowedExts    []string
	LogFile        string
	LogLevel       string
	Archive        ArchiveConfig
}

// ArchiveConfig selects where finished zips are kept. With no S3 endpoint
// they stay in an in-memory LRU cache holding at most CacheSize entries and
// CacheBytes bytes, whichever limit is hit first.
type ArchiveConfig struct {
	CacheSize  int
	CacheBytes int64
	S3         S3Config
}

type S3Config struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	URLExpiry time.Duration
}

// Enabled reports whether archives go to object storage.
func (c S3Config) Enabled() bool {
	return c.Endpoint != ""
}

// LoadConfig loads application settings from environment variables.
func LoadConfig() (*Config, error) {
	maxMB, err := intEnv("MAX_UPLOAD_MB", 100)
	if err != nil {
		return nil, err
	}
	if maxMB <= 0 {
		return nil, fmt.Errorf("MAX_UPLOAD_MB must be positive, got %d", maxMB)
	}

	cacheSize, err := intEnv("ARCHIVE_CACHE_SIZE", 64)
	if err != nil {
		return nil, err
	}
	if cacheSize <= 0 {
		return nil, fmt.Errorf("ARCHIVE_CACHE_SIZE must be positive, got %d", cacheSize)
	}

	cacheMB, err := intEnv("ARCHIVE_CACHE_MB", 512)
	if err != nil {
		return nil, err
	}
	if cacheMB <= 0 {
		return nil, fmt.Errorf("ARCHIVE_CACHE_MB must be positive, got %d", cacheMB)
	}

	exts := utils.ParseExtList(firstNonEmpty(os.Getenv("ALLOWED_EXTS"), DefaultExts))
	if len(exts) == 0 {
		return nil, fmt.Errorf("ALLOWED_EXTS does not name any extension")
	}

	s3, err := loadS3Config()
	if err != nil {
		return nil, err
	}

	env := strings.TrimSpace(os.Getenv("APP_ENV"))
	if env == "" {
		env = "local"
	}

	return &Config{
		Port:           normalizePort(firstNonEmpty(os.Getenv("PORT"), "5001")),
		Env:            env,
		MaxUploadBytes: int64(maxMB) << 20,
		AllowedExts:    exts,
		LogFile:        strings.TrimSpace(os.Getenv("LOG_FILE")),
		LogLevel:       firstNonEmpty(os.Getenv("LOG_LEVEL"), defaultLogLevel(env)),
		Archive: ArchiveConfig{
			CacheSize:  cacheSize,
			CacheBytes: int64(cacheMB) << 20,
			S3:         s3,
		},
	}, nil
}

func loadS3Config() (S3Config, error) {
	useSSL := true
	if raw := strings.TrimSpace(os.Getenv("ARCHIVE_S3_USE_SSL")); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return S3Config{}, fmt.Errorf("ARCHIVE_S3_USE_SSL: %w", err)
		}
		useSSL = v
	}
	expiry := time.Hour
	if raw := strings.TrimSpace(os.Getenv("ARCHIVE_S3_URL_EXPIRY")); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return S3Config{}, fmt.Errorf("ARCHIVE_S3_URL_EXPIRY: %w", err)
		}
		expiry = d
	}
	return S3Config{
		Endpoint:  strings.TrimSpace(os.Getenv("ARCHIVE_S3_ENDPOINT")),
		Region:    firstNonEmpty(os.Getenv("ARCHIVE_S3_REGION"), "us-east-1"),
		AccessKey: firstNonEmpty(os.Getenv("ARCHIVE_S3_ACCESS_KEY"), os.Getenv("MINIO_ROOT_USER")),
		SecretKey: firstNonEmpty(os.Getenv("ARCHIVE_S3_SECRET_KEY"), os.Getenv("MINIO_ROOT_PASSWORD")),
		Bucket:    firstNonEmpty(os.Getenv("ARCHIVE_S3_BUCKET"), "twinren-archives"),
		UseSSL:    useSSL,
		URLExpiry: expiry,
	}, nil
}

// defaultLogLevel enables debug output in development environments.
func defaultLogLevel(env string) string {
	switch strings.ToLower(env) {
	case "dev", "development":
		return "debug"
	}
	return "info"
}

func intEnv(key string, def int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return v, nil
}

func normalizePort(port string) string {
	if strings.HasPrefix(port, ":") || strings.Contains(port, ":") {
		return port
	}
	return ":" + port
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
