package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything the server reads from the environment.
// A missing .env file is not an error; defaults below are suitable
// for local development.
type Config struct {
	Addr      string
	JWTSecret string
	UploadDir string
	LogLevel  string
	LogFormat string

	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	MaxUploadBytes int64
}

// Load reads the .env file (if present) and assembles the Config.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: no .env file loaded")
	}

	return &Config{
		Addr:           getEnv("OMNICHAT_ADDR", ":8080"),
		JWTSecret:      getEnv("OMNICHAT_JWT_SECRET", "dev-only-secret"),
		UploadDir:      getEnv("OMNICHAT_UPLOAD_DIR", "uploads"),
		LogLevel:       getEnv("OMNICHAT_LOG_LEVEL", "info"),
		LogFormat:      getEnv("OMNICHAT_LOG_FORMAT", "text"),
		ReadTimeout:    getDuration("OMNICHAT_READ_TIMEOUT", 10*time.Second),
		WriteTimeout:   getDuration("OMNICHAT_WRITE_TIMEOUT", 10*time.Second),
		MaxUploadBytes: getInt64("OMNICHAT_MAX_UPLOAD_BYTES", MaxUploadBytes),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func getInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}
