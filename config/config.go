package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	ServerAddr     string
	MysqlDSN       string
	JWTSecret      string
	LogLevel       string
	PublishTimeout time.Duration
}

var Cfg *Config

func Load() {
	Cfg = &Config{
		ServerAddr:     ":" + getEnv("PORT", "4000"),
		MysqlDSN:       getEnv("MYSQL_DSN", "root:root@tcp(localhost:3306)/leonchat?charset=utf8mb4&parseTime=True&loc=UTC"),
		JWTSecret:      getEnv("JWT_SECRET", "leon-chat-secret-change-in-production"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		PublishTimeout: time.Duration(getEnvInt("PUBLISH_TIMEOUT_MS", 100)) * time.Millisecond,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
