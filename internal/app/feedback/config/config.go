package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	LLM       LLMConfig
	Kafka     KafkaConfig
	CORS      CORSConfig
	KeepAlive KeepAliveConfig
	API       APIConfig
}

type ServerConfig struct {
	Host string // Адрес хоста (по умолчанию 0.0.0.0)
	Port string // Порт сервера (по умолчанию 8080)
}

type DatabaseConfig struct {
	Host     string // Хост PostgreSQL
	Port     string // Порт PostgreSQL
	User     string // Имя пользователя БД
	Password string // Пароль БД
	DBName   string // Имя базы данных
	SSLMode  string // Режим SSL (disable/require/verify-full)
}

type LLMConfig struct {
	APIKey     string // API ключ; пустой ключ переводит клиент в degraded режим
	BaseURL    string // Базовый URL OpenAI-совместимого API
	Model      string // Имя модели
	TimeoutSec int    // Таймаут HTTP запроса в секундах
}

type KafkaConfig struct {
	Brokers []string // Список брокеров Kafka (формат: host:port)
	Topic   string   // Топик для событий FEEDBACK_CREATED
}

type CORSConfig struct {
	AllowedOrigins []string // Разрешенные origins (через запятую в env)
}

type KeepAliveConfig struct {
	URL      string // Внешний URL сервиса; пустой URL отключает self-ping
	Schedule string // Расписание в формате robfig/cron (по умолчанию каждые 14 минут)
}

type APIConfig struct {
	BasePath string // Префикс API (по умолчанию /api/v1)
}

func Load() (*Config, error) {
	// .env опционален: в контейнере конфигурация приходит через окружение
	_ = godotenv.Load()

	return &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnv("SERVER_PORT", "8080"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "feedback_service"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		LLM: LLMConfig{
			APIKey:     getEnv("LLM_API_KEY", ""),
			BaseURL:    getEnv("LLM_BASE_URL", "https://api.groq.com/openai/v1"),
			Model:      getEnv("LLM_MODEL", "llama-3.1-8b-instant"),
			TimeoutSec: getEnvInt("LLM_TIMEOUT_SEC", 30),
		},
		Kafka: KafkaConfig{
			Brokers: strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),
			Topic:   getEnv("KAFKA_TOPIC", "feedback_events"),
		},
		CORS: CORSConfig{
			AllowedOrigins: strings.Split(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000"), ","),
		},
		KeepAlive: KeepAliveConfig{
			URL:      getEnv("KEEPALIVE_URL", ""),
			Schedule: getEnv("KEEPALIVE_SCHEDULE", "@every 14m"),
		},
		API: APIConfig{
			BasePath: getEnv("API_BASE_PATH", "/api/v1"),
		},
	}, nil
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func (c *ServerConfig) Address() string {
	return c.Host + ":" + c.Port
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
