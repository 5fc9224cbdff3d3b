package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	Env         string
	MongoURI    string
	DBName      string
	CORSOrigins string
}

var AppConfig *Config

func Load() {
	_ = godotenv.Load()

	AppConfig = &Config{
		Port:        GetEnv("PORT", "5000"),
		Env:         GetEnv("ENV", "development"),
		MongoURI:    GetEnv("MONGODB_URI", ""),
		DBName:      GetEnv("DB_NAME", "TaskFlow"),
		CORSOrigins: GetEnv("CORS_ORIGINS", "http://localhost:5173,https://taskflow-tms.web.app"),
	}

	if AppConfig.MongoURI == "" {
		log.Fatal("MONGODB_URI is required")
	}
}

func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
