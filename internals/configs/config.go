package configs

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string

	// DB
	DBDriver      string // postgres | sqlite
	DBUser        string
	DBPassword    string
	DBHost        string
	DBPort        string
	DBName        string
	DBSSLMode     string
	DBPath        string // sqlite file
	DBAutoMigrate bool

	SlowQueryThreshold time.Duration

	// Auth
	JWTSecret string

	// HTTP
	CORSOrigins     []string
	RateLimitMax    int
	RateLimitWindow time.Duration
	RedisURL        string
	RequestTimeout  time.Duration

	// Paging alunos
	DefaultPageSize int
	MaxPageSize     int
}

// =======================
// ENV LOADER
// =======================
func LoadEnv() Config {
	if os.Getenv("RAILWAY_ENVIRONMENT") == "" {
		if err := godotenv.Load(); err != nil {
			log.Println("[INFO] .env não encontrado, usando ENV do sistema")
		} else {
			log.Println("[INFO] .env carregado")
		}
	} else {
		log.Println("[INFO] Running in Railway, usando ENV do sistema")
	}

	cfg := FromEnv()

	if cfg.JWTSecret == "" {
		log.Println("[WARN] JWT_SECRET não definido!")
	} else {
		log.Println("[INFO] JWT_SECRET carregado.")
	}
	return cfg
}

// FromEnv reads the process environment without touching .env files.
func FromEnv() Config {
	return Config{
		Port: GetEnv("PORT", "3000"),

		DBDriver:      strings.ToLower(GetEnv("DB_DRIVER", "postgres")),
		DBUser:        GetEnv("DB_USER"),
		DBPassword:    GetEnv("DB_PASSWORD"),
		DBHost:        GetEnv("DB_HOST", "localhost"),
		DBPort:        GetEnv("DB_PORT", "5432"),
		DBName:        GetEnv("DB_NAME"),
		DBSSLMode:     GetEnv("DB_SSLMODE", "require"),
		DBPath:        GetEnv("DB_PATH", "gestao_alunos.db"),
		DBAutoMigrate: GetEnvBool("DB_AUTO_MIGRATE", true),

		SlowQueryThreshold: GetEnvDuration("DB_SLOW_QUERY", 200*time.Millisecond),

		JWTSecret: GetEnv("JWT_SECRET"),

		CORSOrigins:     GetEnvList("CORS_ORIGINS", "http://localhost:3000"),
		RateLimitMax:    GetEnvInt("RATE_LIMIT_MAX", 100),
		RateLimitWindow: GetEnvDuration("RATE_LIMIT_WINDOW", time.Minute),
		RedisURL:        GetEnv("REDIS_URL"),
		RequestTimeout:  GetEnvDuration("REQUEST_TIMEOUT", 5*time.Second),

		DefaultPageSize: GetEnvInt("PAGE_SIZE", 10),
		MaxPageSize:     GetEnvInt("MAX_PAGE_SIZE", 100),
	}
}

func GetEnv(key string, defaultValue ...string) string {
	value, exists := os.LookupEnv(key)
	if (!exists || value == "") && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return value
}

func GetEnvInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("[WARN] %s inválido (%q), usando %d", key, v, def)
		return def
	}
	return n
}

func GetEnvBool(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Printf("[WARN] %s inválido (%q), usando %t", key, v, def)
		return def
	}
	return b
}

func GetEnvDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("[WARN] %s inválido (%q), usando %s", key, v, def)
		return def
	}
	return d
}

// GetEnvList splits a comma separated value, dropping empty items.
func GetEnvList(key, def string) []string {
	raw := GetEnv(key, def)
	out := make([]string, 0)
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
