package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	API       APIConfig
	Converter ConverterConfig
	Session   SessionConfig
	Logging   LoggingConfig
}
type ServerConfig struct {
	Port         string
	Host         string
	Mode         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}
type APIConfig struct {
	CurrencyAPIURL string
	Timeout        time.Duration
}
type ConverterConfig struct {
	DebounceDelay time.Duration
}
type SessionConfig struct {
	TTL   time.Duration
	Sweep string // cron spec, например "@every 1m"
}
type LoggingConfig struct {
	Level  string // "debug", "info", "warn", "error"
	Format string // "json" или "text"
}

// Метод для получения адреса сервера
func (s *ServerConfig) Addr() string {
	return s.Host + ":" + s.Port
}
func getEnv(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil || value < 0 {
		return defaultValue
	}
	return value
}
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// Load читает .env (если есть) и переменные окружения.
// Отсутствие .env не ошибка: используются значения по умолчанию.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		cwd, _ := os.Getwd()
		_ = godotenv.Load(filepath.Join(cwd, ".env"))
	}
	return FromEnv()
}

// FromEnv собирает конфигурацию только из окружения, без .env.
func FromEnv() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         strconv.Itoa(getEnvAsInt("PORT", 8080)),
			Host:         getEnv("HOST", "0.0.0.0"),
			Mode:         getEnv("GIN_MODE", "debug"),
			ReadTimeout:  getEnvAsDuration("READ_TIMEOUT", 10*time.Second),
			WriteTimeout: getEnvAsDuration("WRITE_TIMEOUT", 10*time.Second),
		},
		API: APIConfig{
			CurrencyAPIURL: getEnv("CURRENCY_API_URL", "https://api.frankfurter.app"),
			Timeout:        getEnvAsDuration("API_TIMEOUT", 10*time.Second),
		},
		Converter: ConverterConfig{
			DebounceDelay: getEnvAsDuration("DEBOUNCE_DELAY", 500*time.Millisecond),
		},
		Session: SessionConfig{
			TTL:   getEnvAsDuration("SESSION_TTL", 30*time.Minute),
			Sweep: getEnv("SESSION_SWEEP", "@every 1m"),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}
}
