package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Addr        string
	TokenSecret string
	AccessTTL   time.Duration
	CORSOrigin  string
	// Redis holds the identity/mood snapshots; empty disables persistence
	RedisURL string
	// Gemini analysis; empty key means fallback responses everywhere
	GeminiAPIKey string
	GeminiModel  string
	// Meilisearch story search; empty URL falls back to in-memory scan
	MeiliURL       string
	MeiliMasterKey string
	// MinIO soundscape bucket; empty endpoint serves the static catalog
	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool
}

func Load() Config {
	return Config{
		Addr:           getenv("API_ADDR", ":8790"),
		TokenSecret:    getenv("ATLAS_TOKEN_SECRET", "atlas-dev-secret"),
		AccessTTL:      time.Duration(getenvInt("ATLAS_ACCESS_TTL_SECONDS", 86400)) * time.Second,
		CORSOrigin:     getenv("ATLAS_CORS_ORIGIN", "*"),
		RedisURL:       getenv("REDIS_URL", "redis://localhost:6379/0"),
		GeminiAPIKey:   getenv("GEMINI_API_KEY", ""),
		GeminiModel:    getenv("ATLAS_GEMINI_MODEL", "gemini-3-flash-preview"),
		MeiliURL:       getenv("MEILI_URL", ""),
		MeiliMasterKey: getenv("MEILI_MASTER_KEY", ""),
		MinioEndpoint:  getenv("MINIO_ENDPOINT", ""),
		MinioAccessKey: getenv("MINIO_ACCESS_KEY", ""),
		MinioSecretKey: getenv("MINIO_SECRET_KEY", ""),
		MinioBucket:    getenv("MINIO_BUCKET", "atlas-sanctuary"),
		MinioUseSSL:    getenvBool("MINIO_USE_SSL", false),
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
