package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Sources  SourceConfig
	Reader   ReaderConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	ClientURL          string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
}

type DatabaseConfig struct {
	Connection string
}

// SourceConfig points at the upstream text infrastructure: the segmented
// text archive on disk and the remote services that enrich it.
type SourceConfig struct {
	DataDir                string
	EditionEndpoint        string
	TransliterationBaseURL string
	DictionaryBaseURL      string
	FetchTimeout           time.Duration
}

type ReaderConfig struct {
	DefaultLang       string
	BroadcastInterval time.Duration
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			ClientURL:          getEnv("CLIENT_URL", "http://localhost:5173"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Sources: SourceConfig{
			DataDir:                getEnv("TEXT_DATA_DIR", "./data"),
			EditionEndpoint:        getEnv("EDITION_ENDPOINT", "https://suttacentral.net/api/publication/editions"),
			TransliterationBaseURL: getEnv("TRANSLITERATION_BASE_URL", "https://suttacentral.net/api/transliterated_sutta"),
			DictionaryBaseURL:      getEnv("DICTIONARY_BASE_URL", "https://suttacentral.net/api/dictionaries/lookup"),
			FetchTimeout:           getEnvAsDuration("SOURCE_FETCH_TIMEOUT", 10*time.Second),
		},
		Reader: ReaderConfig{
			DefaultLang:       getEnv("READER_DEFAULT_LANG", "en"),
			BroadcastInterval: getEnvAsDuration("STATE_BROADCAST_INTERVAL", 500*time.Millisecond),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}
