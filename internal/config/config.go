// Package config provides environment-based configuration and logging setup.
package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
)

// LLM provider names.
const (
	ProviderOllama    = "ollama"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderBedrock   = "bedrock"
)

// DefaultMaxTokens is the default digest budget in tokens.
const DefaultMaxTokens = 1024

// Config holds all configuration values.
type Config struct {
	// Digest compilation
	MaxTokens      int    // token budget for the progress digest, <= 0 disables the budget
	TokenizerModel string // model whose tokenizer measures the digest

	// Summarization
	LLMProvider     string
	SummaryModel    string // language model used by the compression pass
	OllamaHost      string
	OpenAIAPIKey    string
	AnthropicAPIKey string

	// Logging
	LogFile  string
	LogLevel slog.Level
}

// Load reads configuration from environment variables.
func Load() Config {
	return Config{
		// Digest
		MaxTokens:      getEnvInt("RETRACE_MAX_TOKENS", DefaultMaxTokens),
		TokenizerModel: getEnv("RETRACE_TOKENIZER_MODEL", "gpt-4o"),

		// Summarization
		LLMProvider:     getEnv("RETRACE_LLM_PROVIDER", ""),
		SummaryModel:    getEnv("RETRACE_SUMMARY_MODEL", "llama3.2"),
		OllamaHost:      getEnv("OLLAMA_HOST", "http://localhost:11434"),
		OpenAIAPIKey:    getEnv("OPENAI_API_KEY", ""),
		AnthropicAPIKey: getEnv("ANTHROPIC_API_KEY", ""),

		// Logging
		LogFile:  getEnv("RETRACE_LOG_FILE", "/tmp/retrace.log"),
		LogLevel: parseLogLevel(getEnv("RETRACE_LOG_LEVEL", "INFO")),
	}
}

// SummarizerConfigured reports whether a compression collaborator is set up.
func (c Config) SummarizerConfigured() bool {
	return c.LLMProvider != ""
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		slog.Warn("invalid integer env var, using default", "key", key, "value", val, "default", defaultVal)
		return defaultVal
	}
	return n
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
