package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	APIPort  string
	LogLevel string

	APIKey                string
	CORSAllowedOrigins    []string
	APIRateLimitRPS       float64
	APIRateLimitBurst     int
	APIMaxInFlight        int
	APIBackpressureWaitMS int

	ScrapeTimeout   time.Duration
	ScrapeMaxChars  int
	ScrapeUserAgent string

	OllamaURL      string
	OllamaGenModel string
	OllamaTimeout  time.Duration

	TTSBaseURL     string
	TTSDefaultLang string
	TTSTimeout     time.Duration

	StorageBackend string
	StoragePath    string
	GCSBucket      string
	GCSPrefix      string

	AudioTTL             time.Duration
	AudioCleanupSchedule string

	NATSURL     string
	NATSSubject string
	NATSWorkers int

	QuizMaxItems      int
	QuizDeterministic bool
	QuizSeed          int64

	LexiconPath string

	WorkerMetricsPort string
	MCPHTTPAddr       string
}

// Load reads an optional .env file first; real environment variables take precedence.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		APIPort:  mustEnv("API_PORT", "8000"),
		LogLevel: mustEnv("LOG_LEVEL", "info"),

		APIKey:                mustEnv("API_KEY", ""),
		CORSAllowedOrigins:    mustEnvList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		APIRateLimitRPS:       mustEnvFloat("API_RATE_LIMIT_RPS", 0),
		APIRateLimitBurst:     mustEnvInt("API_RATE_LIMIT_BURST", 20),
		APIMaxInFlight:        mustEnvInt("API_MAX_IN_FLIGHT", 64),
		APIBackpressureWaitMS: mustEnvInt("API_BACKPRESSURE_WAIT_MS", 250),

		ScrapeTimeout:   time.Duration(mustEnvInt("SCRAPE_TIMEOUT_SECONDS", 25)) * time.Second,
		ScrapeMaxChars:  mustEnvInt("SCRAPE_MAX_CHARS", 30000),
		ScrapeUserAgent: mustEnv("SCRAPE_USER_AGENT", "Mozilla/5.0 (EduAssist/1.0)"),

		OllamaURL:      mustEnv("OLLAMA_URL", ""),
		OllamaGenModel: mustEnv("OLLAMA_GEN_MODEL", "llama3.1:8b"),
		OllamaTimeout:  mustEnvDuration("OLLAMA_TIMEOUT", 90*time.Second),

		TTSBaseURL:     mustEnv("TTS_BASE_URL", "https://translate.google.com"),
		TTSDefaultLang: mustEnv("TTS_DEFAULT_LANG", "es"),
		TTSTimeout:     mustEnvDuration("TTS_TIMEOUT", 30*time.Second),

		StorageBackend: strings.ToLower(mustEnv("STORAGE_BACKEND", "localfs")),
		StoragePath:    mustEnv("STORAGE_PATH", "./data/storage"),
		GCSBucket:      mustEnv("GCS_BUCKET", ""),
		GCSPrefix:      mustEnv("GCS_PREFIX", "eduassist"),

		AudioTTL:             time.Duration(mustEnvInt("AUDIO_TTL_MINUTES", 60)) * time.Minute,
		AudioCleanupSchedule: mustEnv("AUDIO_CLEANUP_SCHEDULE", "@every 10m"),

		NATSURL:     mustEnv("NATS_URL", ""),
		NATSSubject: mustEnv("NATS_SUBJECT", "eduassist.speech.requested"),
		NATSWorkers: mustEnvInt("NATS_WORKERS", 4),

		QuizMaxItems:      mustEnvInt("QUIZ_MAX_ITEMS", 20),
		QuizDeterministic: mustEnvBool("QUIZ_DETERMINISTIC", false),
		QuizSeed:          int64(mustEnvInt("QUIZ_SEED", 42)),

		LexiconPath: mustEnv("LEXICON_PATH", ""),

		WorkerMetricsPort: mustEnv("WORKER_METRICS_PORT", "9090"),
		MCPHTTPAddr:       mustEnv("MCP_HTTP_ADDR", ""),
	}
}

func mustEnv(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}

func mustEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return fallback
	}
	return n
}

func mustEnvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return fallback
	}
	return f
}

func mustEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		return fallback
	}
	return parsed
}

func mustEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(strings.TrimSpace(v))
	if err != nil {
		return fallback
	}
	return d
}

// mustEnvList splits a comma separated value, dropping blanks.
func mustEnvList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
