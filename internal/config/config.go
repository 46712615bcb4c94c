package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

const (
	EnvProduction  = "production"
	EnvDevelopment = "development"

	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

type Config struct {
	AppPort        string
	AppEnv         string
	TrustedProxies []string

	DbDriver    string
	DbHost      string
	DbPort      string
	DbUser      string
	DbPassword  string
	DbName      string
	DbParams    string
	SQLitePath  string
	AutoMigrate bool

	LLM LLMConfig

	ParseRateLimit    string
	PreviewDebounce   time.Duration
	PreviewMinLength  int
	TranslationFolder string
}

type LLMConfig struct {
	Provider     string
	Model        string
	APIKey       string
	BaseURL      string
	Temperature  float64
	Timeout      time.Duration
	MaxRetries   int
	RetryBackoff time.Duration
	RequireKey   bool
}

func LoadConfig() *Config {
	_ = godotenv.Load(".env")

	provider := strings.ToLower(getEnv("LLM_PROVIDER", "googleai"))

	return &Config{
		AppPort:        getEnv("APP_PORT", "8080"),
		AppEnv:         strings.ToLower(getEnv("APP_ENV", EnvProduction)),
		TrustedProxies: parseTrustedProxies(os.Getenv("TRUSTED_PROXIES")),

		DbDriver:    strings.ToLower(getEnv("DB_DRIVER", DriverMySQL)),
		DbHost:      getEnv("MYSQL_HOST", "db"),
		DbPort:      getEnv("MYSQL_PORT", "3306"),
		DbUser:      getEnv("MYSQL_USER", "taskflow"),
		DbPassword:  getEnv("MYSQL_PASSWORD", "taskflow"),
		DbName:      getEnv("MYSQL_DATABASE", "taskflow"),
		DbParams:    getEnv("MYSQL_PARAMS", "parseTime=true&multiStatements=true"),
		SQLitePath:  getEnv("SQLITE_PATH", "taskflow.db"),
		AutoMigrate: getBool("DB_AUTO_MIGRATE", false),

		LLM: LLMConfig{
			Provider:     provider,
			Model:        os.Getenv("LLM_MODEL"),
			APIKey:       apiKeyFor(provider),
			BaseURL:      os.Getenv("LLM_BASE_URL"),
			Temperature:  getFloat("LLM_TEMPERATURE", 0.1),
			Timeout:      getDuration("LLM_TIMEOUT", 30*time.Second),
			MaxRetries:   getInt("LLM_MAX_RETRIES", 2),
			RetryBackoff: getDuration("LLM_RETRY_BACKOFF", 500*time.Millisecond),
			RequireKey:   getBool("LLM_REQUIRE_KEY", false),
		},

		ParseRateLimit:    getEnv("PARSE_RATE_LIMIT", "30-M"),
		PreviewDebounce:   getDuration("PREVIEW_DEBOUNCE", time.Second),
		PreviewMinLength:  getInt("PREVIEW_MIN_LENGTH", 10),
		TranslationFolder: getEnv("TRANSLATION_FOLDER", "pkg/translator/translation"),
	}
}

// IsProduction hides error details from API clients.
func (c *Config) IsProduction() bool {
	return c.AppEnv != EnvDevelopment && c.AppEnv != "test"
}

// apiKeyFor prefers LLM_API_KEY, then the provider's conventional variable.
func apiKeyFor(provider string) string {
	if key := os.Getenv("LLM_API_KEY"); key != "" {
		return key
	}
	switch provider {
	case "openai":
		return os.Getenv("OPENAI_API_KEY")
	case "googleai", "gemini", "google":
		return os.Getenv("GEMINI_API_KEY")
	}
	return ""
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	value, exists := os.LookupEnv(key)
	if !exists || strings.TrimSpace(value) == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		zap.L().Warn("invalid boolean in environment, using default", zap.String("key", key), zap.Bool("default", fallback))
		return fallback
	}
	return parsed
}

func getInt(key string, fallback int) int {
	value, exists := os.LookupEnv(key)
	if !exists || strings.TrimSpace(value) == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		zap.L().Warn("invalid integer in environment, using default", zap.String("key", key), zap.Int("default", fallback))
		return fallback
	}
	return parsed
}

func getFloat(key string, fallback float64) float64 {
	value, exists := os.LookupEnv(key)
	if !exists || strings.TrimSpace(value) == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		zap.L().Warn("invalid number in environment, using default", zap.String("key", key), zap.Float64("default", fallback))
		return fallback
	}
	return parsed
}

func getDuration(key string, fallback time.Duration) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists || strings.TrimSpace(value) == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil || parsed <= 0 {
		zap.L().Warn("invalid duration in environment, using default", zap.String("key", key), zap.Duration("default", fallback))
		return fallback
	}
	return parsed
}

func parseTrustedProxies(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}

	parts := strings.Split(value, ",")
	proxies := make([]string, 0, len(parts))
	for _, part := range parts {
		proxy := strings.TrimSpace(part)
		if proxy == "" {
			continue
		}
		proxies = append(proxies, proxy)
	}

	if len(proxies) == 0 {
		return nil
	}

	return proxies
}
