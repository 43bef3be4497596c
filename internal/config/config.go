package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port           int
	WhisperURL     string
	WhisperModel   string // deployment-time model choice, never negotiated per request
	Language       string // default language hint, "auto" = autodetect
	SampleRate     int
	MaxUploadBytes int64
	MaxExportBytes int64
	TmpDir         string

	InferenceTimeout time.Duration
	GateWaitTimeout  time.Duration

	RateLimit  int
	RateWindow time.Duration

	CORSOrigins []string
	LogLevel    string
	LogFormat   string // "console" or "json"
}

func Load() *Config {
	// CORS origins: comma-separated list or "*" (default)
	corsOrigins := []string{"*"}
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		origins := strings.Split(v, ",")
		corsOrigins = make([]string, 0, len(origins))
		for _, o := range origins {
			o = strings.TrimSpace(o)
			if o != "" {
				corsOrigins = append(corsOrigins, o)
			}
		}
	}

	return &Config{
		Port:           getEnvInt("PORT", 8000),
		WhisperURL:     getEnv("WHISPER_URL", "http://localhost:8387"),
		WhisperModel:   getEnv("WHISPER_MODEL", "large-v3-turbo"),
		Language:       getEnv("LANGUAGE", "auto"),
		SampleRate:     getEnvInt("SAMPLE_RATE", 16000),
		MaxUploadBytes: getEnvInt64("MAX_UPLOAD_BYTES", 64<<20),
		MaxExportBytes: getEnvInt64("MAX_EXPORT_BYTES", 8<<20),
		TmpDir:         getEnv("TMP_DIR", os.TempDir()),

		InferenceTimeout: getEnvDuration("INFERENCE_TIMEOUT", 10*time.Minute),
		GateWaitTimeout:  getEnvDuration("GATE_WAIT_TIMEOUT", 2*time.Minute),

		RateLimit:  getEnvInt("RATE_LIMIT", 30),
		RateWindow: getEnvDuration("RATE_WINDOW", time.Minute),

		CORSOrigins: corsOrigins,
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogFormat:   getEnv("LOG_FORMAT", "console"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
