package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string

	// Asset store selection and credentials.
	StorageBackend      string // "imagekit" or "s3"
	ImageKitPublicKey   string
	ImageKitPrivateKey  string
	ImageKitURLEndpoint string
	BasePath            string

	S3Bucket    string
	S3Region    string
	S3PublicURL string

	// Admin login. The password is stored as a bcrypt hash.
	AdminEmail        string
	AdminPasswordHash string
	JWTSecret         string
	TokenTTL          time.Duration

	CacheTTL time.Duration

	LogFile string
}

func LoadConfig() *Config {
	// Load .env only when present; deployed environments inject real env vars.
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			log.Println("error loading .env file:", err)
		}
	}

	return &Config{
		Port:                getEnv("PORT", "8080"),
		StorageBackend:      getEnv("STORAGE_BACKEND", "imagekit"),
		ImageKitPublicKey:   getEnv("IMAGEKIT_PUBLIC_KEY", ""),
		ImageKitPrivateKey:  getEnv("IMAGEKIT_PRIVATE_KEY", ""),
		ImageKitURLEndpoint: getEnv("IMAGEKIT_URL_ENDPOINT", ""),
		BasePath:            getEnv("ASSET_BASE_PATH", "/Aaaryamaan_Asset_Files"),
		S3Bucket:            getEnv("S3_BUCKET", ""),
		S3Region:            getEnv("S3_REGION", "us-east-1"),
		S3PublicURL:         getEnv("S3_PUBLIC_URL", ""),
		AdminEmail:          getEnv("ADMIN_EMAIL", ""),
		AdminPasswordHash:   getEnv("ADMIN_PASSWORD_HASH", ""),
		JWTSecret:           getEnv("JWT_SECRET", ""),
		TokenTTL:            getDurationEnv("TOKEN_TTL_SECONDS", 24*time.Hour),
		CacheTTL:            getDurationEnv("CACHE_TTL_SECONDS", time.Hour),
		LogFile:             getEnv("LOG_FILE", ""),
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	secs, err := strconv.Atoi(value)
	if err != nil || secs <= 0 {
		log.Printf("invalid %s=%q, using default", key, value)
		return fallback
	}
	return time.Duration(secs) * time.Second
}
