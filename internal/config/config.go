package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Addr        string
	DataDir     string
	OutputDir   string
	CORSOrigin  string
	TokenSecret string
	TokenTTL    time.Duration

	// Remote sync - empty DATABASE_URL disables the remote store.
	DatabaseURL string

	// Local cache backend - empty REDIS_URL falls back to the file backend.
	RedisURL string

	// Media normalization bounds.
	MediaMaxWidth int
	JPEGQuality   int
	LogoURL       string

	// Object storage - empty endpoint disables photo uploads.
	S3Endpoint    string
	S3AccessKey   string
	S3SecretKey   string
	S3Region      string
	S3UseSSL      bool
	PublicBaseURL string

	// Client suggestion index - empty URL disables Meilisearch.
	MeiliURL       string
	MeiliMasterKey string

	// SMTP - empty by default, email disabled if not configured.
	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string
	SMTPFromName string
}

func Load() Config {
	return Config{
		Addr:        getenv("API_ADDR", ":8686"),
		DataDir:     getenv("HOODREPORT_DATA_DIR", "./data"),
		OutputDir:   getenv("HOODREPORT_OUTPUT_DIR", "./data/exports"),
		CORSOrigin:  getenv("HOODREPORT_CORS_ORIGIN", "*"),
		TokenSecret: getenv("HOODREPORT_TOKEN_SECRET", "hoodreport-dev-secret"),
		TokenTTL:    time.Duration(getenvInt("HOODREPORT_TOKEN_TTL_SECONDS", 86400)) * time.Second,

		DatabaseURL: getenv("DATABASE_URL", ""),
		RedisURL:    getenv("REDIS_URL", ""),

		MediaMaxWidth: getenvInt("HOODREPORT_MEDIA_MAX_WIDTH", 1280),
		JPEGQuality:   getenvInt("HOODREPORT_JPEG_QUALITY", 80),
		LogoURL:       getenv("HOODREPORT_LOGO_URL", ""),

		S3Endpoint:    getenv("S3_ENDPOINT", ""),
		S3AccessKey:   getenv("S3_ACCESS_KEY", ""),
		S3SecretKey:   getenv("S3_SECRET_KEY", ""),
		S3Region:      getenv("S3_REGION", "us-east-1"),
		S3UseSSL:      getenvBool("S3_USE_SSL", false),
		PublicBaseURL: getenv("HOODREPORT_PUBLIC_BASE_URL", "http://localhost:8686"),

		MeiliURL:       getenv("MEILI_URL", ""),
		MeiliMasterKey: getenv("MEILI_MASTER_KEY", ""),

		SMTPHost:     getenv("SMTP_HOST", ""),
		SMTPPort:     getenv("SMTP_PORT", "587"),
		SMTPUsername: getenv("SMTP_USERNAME", ""),
		SMTPPassword: getenv("SMTP_PASSWORD", ""),
		SMTPFrom:     getenv("SMTP_FROM", ""),
		SMTPFromName: getenv("SMTP_FROM_NAME", "Alberta Hood Cleaning"),
	}
}

func getenv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getenvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getenvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}
