package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Keys     APIKeys
	Editor   EditorConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	WsLogFilePath      string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	OtelEnabled        bool
	OtelEndpoint       string
}

type DatabaseConfig struct {
	Connection string
}

type APIKeys struct {
	JwtSecret     string
	AutosaveTopic string // watermill topic for document autosave
}

// EditorConfig carries the mention editing policy and the grid used for caret geometry
type EditorConfig struct {
	TriggerScanLimit  int
	CandidateLimit    int
	DropdownOffset    float64
	CharWidth         float64
	LineHeight        float64
	Columns           int
	SessionTTLMinutes int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log.csv"),
			WsLogFilePath:      getEnv("WS_LOG_FILE_PATH", "logs/steps_editor.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			OtelEnabled:        getEnv("OTEL_ENABLED", "false") == "true",
			OtelEndpoint:       getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Keys: APIKeys{
			JwtSecret:     getEnv("JWT_SECRET", ""),
			AutosaveTopic: getEnv("AUTOSAVE_TOPIC", "RECIPE_STEPS_AUTOSAVE"),
		},
		Editor: EditorConfig{
			TriggerScanLimit:  getEnvAsInt("EDITOR_TRIGGER_SCAN_LIMIT", 50),
			CandidateLimit:    getEnvAsInt("EDITOR_CANDIDATE_LIMIT", 10),
			DropdownOffset:    getEnvAsFloat("EDITOR_DROPDOWN_OFFSET", 4),
			CharWidth:         getEnvAsFloat("EDITOR_CHAR_WIDTH", 8),
			LineHeight:        getEnvAsFloat("EDITOR_LINE_HEIGHT", 20),
			Columns:           getEnvAsInt("EDITOR_COLUMNS", 0),
			SessionTTLMinutes: getEnvAsInt("EDITOR_SESSION_TTL_MINUTES", 60),
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

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}
