package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port            string
	DatabaseURL     string
	RedisAddr       string
	JWTSecret       string
	JWTAccessExpiry time.Duration

	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURI  string
	GoogleTokenURL     string

	// Remote surface base URLs. Overridable so tests and staging can
	// point the gateways at fake servers.
	MailBaseURL     string
	CalendarBaseURL string
	DocsBaseURL     string
	SheetsBaseURL   string
	DriveBaseURL    string
	TasksBaseURL    string

	OpenAIAPIKey  string
	OpenAIBaseURL string
	OpenAIModel   string

	HTTPTimeout time.Duration
}

func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	accessExpiry := 15 * time.Minute
	if exp := os.Getenv("JWT_ACCESS_EXPIRY"); exp != "" {
		if parsed, err := time.ParseDuration(exp); err == nil {
			accessExpiry = parsed
		}
	}

	httpTimeout := 30 * time.Second
	if t := os.Getenv("HTTP_TIMEOUT"); t != "" {
		if parsed, err := time.ParseDuration(t); err == nil {
			httpTimeout = parsed
		}
	}

	return &Config{
		Port:            getEnv("PORT", "8080"),
		DatabaseURL:     getEnv("DATABASE_URL", "host=localhost user=postgres password=postgres dbname=execassist port=5432 sslmode=disable"),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		JWTSecret:       getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
		JWTAccessExpiry: accessExpiry,

		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		GoogleRedirectURI:  getEnv("GOOGLE_REDIRECT_URI", "http://localhost:8080/api/auth/google/callback"),
		GoogleTokenURL:     getEnv("GOOGLE_TOKEN_URL", "https://oauth2.googleapis.com/token"),

		MailBaseURL:     getEnv("MAIL_BASE_URL", "https://gmail.googleapis.com/gmail/v1"),
		CalendarBaseURL: getEnv("CALENDAR_BASE_URL", "https://www.googleapis.com/calendar/v3"),
		DocsBaseURL:     getEnv("DOCS_BASE_URL", "https://docs.googleapis.com/v1"),
		SheetsBaseURL:   getEnv("SHEETS_BASE_URL", "https://sheets.googleapis.com/v4"),
		DriveBaseURL:    getEnv("DRIVE_BASE_URL", "https://www.googleapis.com/drive/v3"),
		TasksBaseURL:    getEnv("TASKS_BASE_URL", "https://tasks.googleapis.com/tasks/v1"),

		OpenAIAPIKey:  getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL: getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		OpenAIModel:   getEnv("OPENAI_MODEL", "gpt-4o-mini"),

		HTTPTimeout: httpTimeout,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
