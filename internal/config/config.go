package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort      string
	APIBaseURL    string // garment backend the gateway fans out to
	CORSOrigins   string
	RedisAddr     string // empty: in-process stash
	RedisPassword string
	RedisDB       int
}

func Load() *Config {
	if err := godotenv.Load(); err == nil {
		log.Println("[INFO] .env loaded")
	}

	cfg := &Config{
		HTTPPort:      getEnv("HTTP_PORT", "8080"),
		APIBaseURL:    getEnv("API_BASE_URL", ""),
		CORSOrigins:   getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),
	}

	if cfg.APIBaseURL == "" {
		log.Fatal("[FATAL] API_BASE_URL is not set. The gateway cannot run without the backend address.")
	}
	if cfg.CORSOrigins == "http://localhost:5173" {
		log.Println("[WARN] CORS_ALLOWED_ORIGINS is using the development default, set your own domain for production.")
	}
	if cfg.RedisAddr == "" {
		log.Println("[WARN] REDIS_ADDR is not set, duplicate-entry prefills are kept in process memory only.")
	}

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("[WARN] %s=%q is not a number, using %d.", key, v, def)
		return def
	}
	return n
}
