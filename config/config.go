package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/chris/aide/internal/secrets"
)

type Config struct {
	LLMProvider    string // anthropic, openai, groq, ollama
	AnthropicKey   string // API key (X-Api-Key header)
	AnthropicToken string // OAuth token (Authorization: Bearer header)
	OpenAIKey      string
	GroqKey        string
	LLMModel       string
	OllamaBaseURL  string
	DiscordToken   string
	DiscordWebhook string
	DatabaseURL    string // sqlite path or postgres:// URL
	HTTPAddr       string // empty disables the HTTP transport

	MaxToolRounds int
	ModelTimeout  time.Duration

	TaskReminderCron  string
	HabitReminderCron string
	SchedulerTimezone string

	LogLevel string
	LogFile  string
}

// secretKeys are read from the OS keyring when the environment leaves them unset.
var secretKeys = []string{
	"ANTHROPIC_API_KEY",
	"ANTHROPIC_AUTH_TOKEN",
	"OPENAI_API_KEY",
	"GROQ_API_KEY",
	"DISCORD_BOT_TOKEN",
}

// SecretKeys lists the settings that may be stored with `aide secrets set`.
func SecretKeys() []string {
	return append([]string(nil), secretKeys...)
}

func Load() *Config {
	_ = godotenv.Load() // ignore error if no .env

	return &Config{
		LLMProvider:    envOr("LLM_PROVIDER", "groq"),
		AnthropicKey:   secretOr("ANTHROPIC_API_KEY"),
		AnthropicToken: secretOr("ANTHROPIC_AUTH_TOKEN"),
		OpenAIKey:      secretOr("OPENAI_API_KEY"),
		GroqKey:        secretOr("GROQ_API_KEY"),
		LLMModel:       os.Getenv("LLM_MODEL"),
		OllamaBaseURL:  envOr("OLLAMA_BASE_URL", "http://localhost:11434/v1"),
		DiscordToken:   secretOr("DISCORD_BOT_TOKEN"),
		DiscordWebhook: os.Getenv("DISCORD_WEBHOOK_URL"),
		DatabaseURL:    envOr("DATABASE_URL", "./data/assistant.db"),
		HTTPAddr:       os.Getenv("HTTP_ADDR"),

		MaxToolRounds: intOr("MAX_TOOL_ROUNDS", 5),
		ModelTimeout:  durationOr("MODEL_TIMEOUT", 60*time.Second),

		TaskReminderCron:  envOr("TASK_REMINDER_CRON", "*/15 * * * *"),
		HabitReminderCron: envOr("HABIT_REMINDER_CRON", "0 21 * * *"),
		SchedulerTimezone: envOr("SCHEDULER_TIMEZONE", "UTC"),

		LogLevel: envOr("LOG_LEVEL", "info"),
		LogFile:  os.Getenv("LOG_FILE"),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// secretOr prefers the environment, then the OS keyring.
func secretOr(key string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return secrets.Lookup(key)
}

func intOr(key string, fallback int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func durationOr(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
