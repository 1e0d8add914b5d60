package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Variant selects the shape of the word table and the review rule.
type Variant string

const (
	// VariantTranslated keeps the English definition and the Korean
	// translation in separate columns and reviews any stored word.
	VariantTranslated Variant = "translated"
	// VariantBilingual keeps one bilingual definition per word and only
	// reviews words that have not been updated recently.
	VariantBilingual Variant = "bilingual"
)

type Config struct {
	Port        string
	DatabaseURL string
	DBLogLevel  string
	RedisURL    string

	Variant         Variant
	AllowDuplicates bool
	ReviewStaleness time.Duration
	MaxHistory      int
	SessionTTL      time.Duration
	RateLimitPerMin int64
	ImageDir        string
	ImportWordList  string
	ImportInterval  time.Duration

	LLMProvider     string
	LLMTemperature  float32
	OpenAIAPIKey    string
	OpenAIModel     string
	OpenAIBaseURL   string
	AnthropicAPIKey string
	AnthropicModel  string
	OllamaURL       string
	OllamaModel     string

	TranslateURL    string
	TranslateTarget string
}

func Load() *Config {
	return &Config{
		Port:        getEnv("PORT", "8501"),
		DatabaseURL: getEnv("DATABASE_URL", "english_dictionary.db"),
		DBLogLevel:  getEnv("DB_LOG_LEVEL", "warn"),
		RedisURL:    getEnv("REDIS_URL", ""),

		Variant:         Variant(strings.ToLower(getEnv("WORDBOOK_VARIANT", string(VariantTranslated)))),
		AllowDuplicates: getEnvBool("ALLOW_DUPLICATES", true),
		ReviewStaleness: getEnvDuration("REVIEW_STALENESS", 48*time.Hour),
		MaxHistory:      getEnvInt("MAX_HISTORY", 100),
		SessionTTL:      getEnvDuration("SESSION_TTL", 24*time.Hour),
		RateLimitPerMin: int64(getEnvInt("RATE_LIMIT_PER_MINUTE", 30)),
		ImageDir:        getEnv("IMAGE_DIR", "./img"),
		ImportWordList:  getEnv("IMPORT_WORDLIST", ""),
		ImportInterval:  getEnvDuration("IMPORT_INTERVAL", 10*time.Second),

		LLMProvider:     strings.ToLower(getEnv("LLM_PROVIDER", "openai")),
		LLMTemperature:  getEnvFloat("LLM_TEMPERATURE", 0.7),
		OpenAIAPIKey:    getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:     getEnv("OPENAI_MODEL", "gpt-4"),
		OpenAIBaseURL:   getEnv("OPENAI_BASE_URL", ""),
		AnthropicAPIKey: getEnv("ANTHROPIC_API_KEY", ""),
		AnthropicModel:  getEnv("ANTHROPIC_MODEL", "claude-sonnet-4-20250514"),
		OllamaURL:       getEnv("OLLAMA_URL", "http://localhost:11434"),
		OllamaModel:     getEnv("OLLAMA_MODEL", "qwen3:8b"),

		TranslateURL:    getEnv("TRANSLATE_URL", "https://translate.googleapis.com/translate_a/single"),
		TranslateTarget: getEnv("TRANSLATE_TARGET", "ko"),
	}
}

// Validate reports settings the server cannot start with.
func (c *Config) Validate() error {
	switch c.Variant {
	case VariantTranslated, VariantBilingual:
	default:
		return fmt.Errorf("unknown WORDBOOK_VARIANT %q (supported: translated, bilingual)", c.Variant)
	}

	switch c.LLMProvider {
	case "openai":
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required when using openai provider")
		}
	case "anthropic":
		if c.AnthropicAPIKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY is required when using anthropic provider")
		}
	case "ollama":
	default:
		return fmt.Errorf("unknown LLM provider: %s (supported: openai, anthropic, ollama)", c.LLMProvider)
	}

	if c.ReviewStaleness < 0 {
		return fmt.Errorf("REVIEW_STALENESS must not be negative")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if v, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return v
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float32) float32 {
	if v, err := strconv.ParseFloat(os.Getenv(key), 32); err == nil {
		return float32(v)
	}
	return defaultValue
}

// getEnvDuration accepts Go durations ("36h") or a plain number of days ("2").
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if days, err := strconv.Atoi(value); err == nil {
		return time.Duration(days) * 24 * time.Hour
	}
	return defaultValue
}
