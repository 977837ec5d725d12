package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds the service settings. Everything is sourced from
// environment variables so deployments configure the binary without flags.
type Config struct {
	Addr        string // listen address
	GroqAPIKey  string // Groq API key, required for the AI endpoints
	GroqBaseURL string // OpenAI-compatible endpoint base
	Model       string // overrides the per-feature chat models when set
	MaxUploadMB int    // upload cap for resume PDFs
}

const (
	defaultAddr        = ":8080"
	defaultBaseURL     = "https://api.groq.com/openai/v1"
	defaultMaxUploadMB = 10
)

// Load reads configuration from the environment. A .env file in the
// working directory is loaded first when present.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Addr:        envOr("VELLUM_ADDR", defaultAddr),
		GroqAPIKey:  strings.TrimSpace(os.Getenv("GROQ_API_KEY")),
		GroqBaseURL: envOr("GROQ_BASE_URL", defaultBaseURL),
		Model:       strings.TrimSpace(os.Getenv("VELLUM_MODEL")),
		MaxUploadMB: envIntOr("VELLUM_MAX_UPLOAD_MB", defaultMaxUploadMB),
	}
}

// MaxUploadBytes converts the upload cap to bytes for request checks.
func (c Config) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) << 20
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
