package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/carcarahealth/glica/internal/logger"
)

type Config struct {
	HTTP      HTTPConfig
	DB        DBConfig
	Redis     RedisConfig
	Reasoning ReasoningConfig
	Logger    LoggerConfig
}

type HTTPConfig struct {
	Port string
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

type RedisConfig struct {
	Host string
	Port string
}

type ReasoningConfig struct {
	Provider     string // "gemini" or "openai"
	GeminiAPIKey string
	OpenAIAPIKey string
}

type LoggerConfig struct {
	Level      logger.LogLevel
	OutputPath string
	Format     string
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseLogLevel(level string) logger.LogLevel {
	switch strings.ToLower(level) {
	case "debug":
		return logger.LevelDebug
	case "info":
		return logger.LevelInfo
	case "warn", "warning":
		return logger.LevelWarn
	case "error":
		return logger.LevelError
	default:
		return logger.LevelInfo
	}
}

func Load() (*Config, error) {
	cfg := &Config{
		HTTP: HTTPConfig{
			Port: getEnvOrDefault("HTTP_PORT", "8080"),
		},
		DB: DBConfig{
			Host:     getEnvOrDefault("DB_HOST", "localhost"),
			Port:     getEnvOrDefault("DB_PORT", "5432"),
			User:     getEnvOrDefault("DB_USER", "postgres"),
			Password: getEnvOrDefault("DB_PASSWORD", "postgres"),
			DBName:   getEnvOrDefault("DB_NAME", "glica"),
		},
		Redis: RedisConfig{
			Host: getEnvOrDefault("REDIS_HOST", ""),
			Port: getEnvOrDefault("REDIS_PORT", "6379"),
		},
		Reasoning: ReasoningConfig{
			Provider:     strings.ToLower(getEnvOrDefault("REASONING_PROVIDER", "gemini")),
			GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
			OpenAIAPIKey: os.Getenv("OPENAI_API_KEY"),
		},
		Logger: LoggerConfig{
			Level:      parseLogLevel(getEnvOrDefault("LOG_LEVEL", "info")),
			OutputPath: getEnvOrDefault("LOG_OUTPUT", "stdout"),
			Format:     getEnvOrDefault("LOG_FORMAT", "json"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Reasoning.Provider {
	case "gemini":
		if c.Reasoning.GeminiAPIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY is required when REASONING_PROVIDER=gemini")
		}
	case "openai":
		if c.Reasoning.OpenAIAPIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required when REASONING_PROVIDER=openai")
		}
	default:
		return fmt.Errorf("unknown REASONING_PROVIDER %q", c.Reasoning.Provider)
	}
	return nil
}
