package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Import   ImportConfig
	Keys     APIKeys
}

type AppConfig struct {
	Port               string
	BaseURL            string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	BodyLimitMB        int
	OtelEnabled        bool
	OtelEndpoint       string
}

type DatabaseConfig struct {
	Driver     string // "postgres" or "sqlite"
	Connection string
}

type AuthConfig struct {
	JwtSecret string
}

type ImportConfig struct {
	MaxFiles           int
	MaxFileSizeMB      int
	SectionMaxChars    int
	LessonPolicy       string // "per_file" or "per_section"
	ParseConcurrency   int
	CollationLocale    string
	StyleMapPath       string
	CacheTTL           time.Duration
	RateLimitPerMinute int
}

type APIKeys struct {
	ImportAuditTopic string
}

const (
	LessonPolicyPerFile    = "per_file"
	LessonPolicyPerSection = "per_section"
)

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			BodyLimitMB:        getEnvAsInt("APP_BODY_LIMIT_MB", 110),
			OtelEnabled:        getEnv("OTEL_ENABLED", "false") == "true",
			OtelEndpoint:       getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
		},
		Database: DatabaseConfig{
			Driver:     getEnv("DB_DRIVER", "postgres"),
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Auth: AuthConfig{
			JwtSecret: getEnv("JWT_SECRET", ""),
		},
		Import: ImportConfig{
			MaxFiles:           getEnvAsInt("IMPORT_MAX_FILES", 10),
			MaxFileSizeMB:      getEnvAsInt("IMPORT_MAX_FILE_SIZE_MB", 20),
			SectionMaxChars:    getEnvAsInt("IMPORT_SECTION_MAX_CHARS", 6000),
			LessonPolicy:       getEnv("IMPORT_LESSON_POLICY", LessonPolicyPerFile),
			ParseConcurrency:   getEnvAsInt("IMPORT_PARSE_CONCURRENCY", 1),
			CollationLocale:    getEnv("IMPORT_COLLATION_LOCALE", "ru"),
			StyleMapPath:       getEnv("IMPORT_STYLE_MAP_PATH", ""),
			CacheTTL:           time.Duration(getEnvAsInt("IMPORT_CACHE_TTL_MINUTES", 10)) * time.Minute,
			RateLimitPerMinute: getEnvAsInt("IMPORT_RATE_LIMIT_PER_MINUTE", 20),
		},
		Keys: APIKeys{
			ImportAuditTopic: getEnv("IMPORT_AUDIT_TOPIC_NAME", "IMPORT_COMPLETED"),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}
