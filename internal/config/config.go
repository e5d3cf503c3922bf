package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// DefaultGatewayEndpoint is the messaging gateway used when
// WHATSAPP_API_ENDPOINT is not set.
const DefaultGatewayEndpoint = "https://publicapi.myoperator.co/chat/messages"

type Config struct {
	Port string

	WhatsAppAPIKey  string
	GatewayEndpoint string
	SendTimeout     time.Duration

	DBDriver   string
	DBPath     string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	LogLevel string
}

func LoadConfig() *Config {
	err := godotenv.Load()
	if err != nil {
		logrus.Warn("No .env file found, using process environment")
	}

	return &Config{
		Port: getEnv("PORT", "8080"),

		WhatsAppAPIKey:  getEnv("WHATSAPP_API_KEY", ""),
		GatewayEndpoint: getEnv("WHATSAPP_API_ENDPOINT", DefaultGatewayEndpoint),
		SendTimeout:     time.Duration(getEnvInt("SEND_TIMEOUT_SECONDS", 20)) * time.Second,

		DBDriver:   getEnv("DB_DRIVER", "sqlite"),
		DBPath:     getEnv("DB_PATH", "./notify.db"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "whatsapp_notify"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}

// GatewayConfigured reports whether the outbound credential is present.
// Sends and health probes are refused without it.
func (c *Config) GatewayConfigured() bool {
	return c.WhatsAppAPIKey != ""
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}
