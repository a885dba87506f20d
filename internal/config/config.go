package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Load reads the .env file specified by LITSYNTH_ENV (or .env by default),
// then loads the corresponding .secret file if it exists.
// All config is flat env vars read via os.Getenv after loading.
func Load() error {
	envFile := os.Getenv("LITSYNTH_ENV")
	if envFile == "" {
		envFile = ".env"
	}

	// Missing files are fine; the process environment still applies.
	_ = godotenv.Load(envFile)
	_ = godotenv.Load(envFile + ".secret")

	return nil
}

func ServerPort() int {
	port, err := strconv.Atoi(os.Getenv("SERVER_PORT"))
	if err != nil {
		return 8080
	}
	return port
}

func ServerAddr() string {
	return fmt.Sprintf(":%d", ServerPort())
}

// DatabaseURL is optional. Without it the synthesis journal is disabled.
func DatabaseURL() string {
	return os.Getenv("DATABASE_URL")
}

func OpenAIAPIKey() string {
	return os.Getenv("OPENAI_API_KEY")
}

func AnthropicAPIKey() string {
	return os.Getenv("ANTHROPIC_API_KEY")
}

func GeminiAPIKey() string {
	return os.Getenv("GEMINI_API_KEY")
}

func CerebrasAPIKey() string {
	return os.Getenv("CEREBRAS_API_KEY")
}

func CompatAPIKey() string {
	return os.Getenv("OPENAI_COMPAT_API_KEY")
}

// CompatBaseURL and CompatModel configure the openai_compatible judge
// provider (vLLM, Ollama, LM Studio and similar servers).
func CompatBaseURL() string {
	return os.Getenv("OPENAI_COMPAT_BASE_URL")
}

func CompatModel() string {
	return os.Getenv("OPENAI_COMPAT_MODEL")
}

// LLMProvider returns the configured judge provider.
// Defaults to "openai" if not set.
// Valid values: openai, anthropic, gemini, cerebras, openai_compatible, mock
func LLMProvider() string {
	p := os.Getenv("LLM_PROVIDER")
	if p == "" {
		return "openai"
	}
	return p
}

// EmbeddingProvider returns the configured embedding provider.
// Defaults to "openai" if not set.
// Valid values: openai, mock
func EmbeddingProvider() string {
	p := os.Getenv("EMBEDDING_PROVIDER")
	if p == "" {
		return "openai"
	}
	return p
}

// EmbeddingModel overrides the embedding model. Empty keeps the provider
// default.
func EmbeddingModel() string {
	return os.Getenv("EMBEDDING_MODEL")
}

// EmbeddingBaseURL points the openai embedding provider at a compatible
// endpoint.
func EmbeddingBaseURL() string {
	return os.Getenv("EMBEDDING_BASE_URL")
}

// EmbeddingDimensions returns EMBEDDING_DIMENSIONS, or 0 for the model's
// native width.
func EmbeddingDimensions() int {
	dims, err := strconv.Atoi(os.Getenv("EMBEDDING_DIMENSIONS"))
	if err != nil || dims <= 0 {
		return 0
	}
	return dims
}

// LLMAPIKey returns the API key for the configured judge provider.
func LLMAPIKey() string {
	switch LLMProvider() {
	case "anthropic":
		return AnthropicAPIKey()
	case "gemini":
		return GeminiAPIKey()
	case "cerebras":
		return CerebrasAPIKey()
	case "openai_compatible":
		return CompatAPIKey()
	case "mock":
		return ""
	default:
		return OpenAIAPIKey()
	}
}

// EmbeddingAPIKey returns the API key for the configured embedding provider.
func EmbeddingAPIKey() string {
	switch EmbeddingProvider() {
	case "mock":
		return ""
	default:
		return OpenAIAPIKey()
	}
}

// APIKeys parses API_KEYS ("name:key,name:key") into a table of client
// names keyed by raw key. An empty table disables authentication.
func APIKeys() map[string]string {
	out := make(map[string]string)
	for _, pair := range strings.Split(os.Getenv("API_KEYS"), ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		name, key, ok := strings.Cut(pair, ":")
		if !ok {
			name, key = "default", pair
		}
		if key = strings.TrimSpace(key); key != "" {
			out[key] = strings.TrimSpace(name)
		}
	}
	return out
}

// SynthesisConfigPath returns the optional engine YAML file.
func SynthesisConfigPath() string {
	return os.Getenv("SYNTHESIS_CONFIG")
}

// SessionTTL is how long an untouched synthesis session stays in memory.
// Defaults to 24h if not set or unparsable.
func SessionTTL() time.Duration {
	d, err := time.ParseDuration(os.Getenv("SESSION_TTL"))
	if err != nil || d <= 0 {
		return 24 * time.Hour
	}
	return d
}

// RateLimitRPS returns requests per second limit.
// Defaults to 100 if not set.
func RateLimitRPS() float64 {
	rps, err := strconv.ParseFloat(os.Getenv("RATE_LIMIT_RPS"), 64)
	if err != nil || rps <= 0 {
		return 100
	}
	return rps
}

// RateLimitBurst returns the burst size for rate limiting.
// Defaults to 20 if not set.
func RateLimitBurst() int {
	burst, err := strconv.Atoi(os.Getenv("RATE_LIMIT_BURST"))
	if err != nil || burst <= 0 {
		return 20
	}
	return burst
}

// LogLevel returns the log level (debug, info, warn, error).
// Defaults to "info" if not set.
func LogLevel() string {
	level := os.Getenv("LOG_LEVEL")
	if level == "" {
		return "info"
	}
	return level
}
