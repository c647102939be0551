package config

import (
	"os"
)

type Config struct {
	Port         string
	Environment  string
	CORSOrigins  string
	DatabasePath string
	// LLM Configuration
	AnthropicAPIKey string
	GeminiAPIKey    string
	TavilyAPIKey    string
	DefaultModel    string
	// Debug flags
	Debug bool
}

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")

	return &Config{
		Port:         getEnv("PORT", "8080"),
		Environment:  env,
		CORSOrigins:  getEnv("CORS_ORIGINS", "http://localhost:3000"),
		DatabasePath: getEnv("DATABASE_PATH", "scholarflow.db"),
		// LLM Configuration
		AnthropicAPIKey: getEnv("ANTHROPIC_API_KEY", ""),
		GeminiAPIKey:    getEnv("GEMINI_API_KEY", ""),
		TavilyAPIKey:    getEnv("TAVILY_API_KEY", ""),
		DefaultModel:    getEnv("DEFAULT_MODEL", "gemini-2.5-flash"),
		// Debug flags - default to true in dev/test, false in production
		Debug: getEnv("DEBUG", getDefaultDebug(env)) == "true",
	}
}

// getDefaultDebug returns the default debug setting based on environment
func getDefaultDebug(env string) string {
	if env == "prod" {
		return "false"
	}
	return "true"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
