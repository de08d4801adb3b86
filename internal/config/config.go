package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Storage   StorageConfig
	Keys      APIKeys
	Ai        AIConfig
	Workspace WorkspaceConfig
	Services  ServicesConfig
	Tracing   TracingConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
}

type DatabaseConfig struct {
	Connection string
}

type StorageConfig struct {
	UploadsDir       string
	UploadsURLPrefix string // route prefix the uploads are served from
	MaxUploadBytes   int
}

type APIKeys struct {
	GoogleGemini       string
	Jina               string
	HuggingFace        string
	EmbedDocumentTopic string
}

type AIConfig struct {
	EmbeddingProvider string // "gemini", "jina" or "ollama"
	OllamaBaseURL     string
	OllamaModel       string // embedding model
	LLMProvider       string // "ollama", "gemini" or "huggingface"
	LLMModel          string // answers
	ExtractionModel   string // fact extraction; falls back to LLMModel
	OCRModel          string // Gemini model reading scanned PDFs
}

type WorkspaceConfig struct {
	TTL                  time.Duration
	ProcessingStaleAfter time.Duration
}

// ServicesConfig points the workspace at remote extraction and retrieval
// deployments. Empty URLs mean the in-process services are used.
type ServicesConfig struct {
	ExtractionURL string
	RetrievalURL  string
	Timeout       time.Duration
}

type TracingConfig struct {
	Enabled  bool
	Endpoint string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	llmModel := getEnv("LLM_MODEL", "llama3.1")

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Storage: StorageConfig{
			UploadsDir:       getEnv("UPLOADS_DIR", "uploads"),
			UploadsURLPrefix: getEnv("UPLOADS_URL_PREFIX", "/uploads"),
			MaxUploadBytes:   getEnvAsInt("MAX_UPLOAD_BYTES", 50*1024*1024),
		},
		Keys: APIKeys{
			GoogleGemini:       getEnv("GOOGLE_GEMINI_API_KEY", ""),
			Jina:               getEnv("JINA_API_KEY", ""),
			HuggingFace:        getEnv("HUGGINGFACE_API_KEY", ""),
			EmbedDocumentTopic: getEnv("EMBED_DOCUMENT_TOPIC_NAME", "EMBED_DOCUMENT"),
		},
		Ai: AIConfig{
			EmbeddingProvider: getEnv("EMBEDDING_PROVIDER", "ollama"),
			OllamaBaseURL:     getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OllamaModel:       getEnv("OLLAMA_EMBEDDING_MODEL", "nomic-embed-text"),
			LLMProvider:       getEnv("LLM_PROVIDER", "ollama"),
			LLMModel:          llmModel,
			ExtractionModel:   getEnv("LLM_EXTRACTION_MODEL", llmModel),
			OCRModel:          getEnv("OCR_MODEL", "gemini-2.0-flash"),
		},
		Workspace: WorkspaceConfig{
			TTL:                  getEnvAsDuration("WORKSPACE_TTL", time.Hour),
			ProcessingStaleAfter: getEnvAsDuration("PROCESSING_STALE_AFTER", 10*time.Minute),
		},
		Services: ServicesConfig{
			ExtractionURL: getEnv("EXTRACTION_SERVICE_URL", ""),
			RetrievalURL:  getEnv("RETRIEVAL_SERVICE_URL", ""),
			Timeout:       getEnvAsDuration("SERVICE_TIMEOUT", 5*time.Minute),
		},
		Tracing: TracingConfig{
			Enabled:  getEnv("OTEL_ENABLED", "false") == "true",
			Endpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
		},
	}
}

// UploadsBaseURL is the absolute URL prefix of stored blobs.
func (c *Config) UploadsBaseURL() string {
	return c.App.BaseURL + c.Storage.UploadsURLPrefix
}

// EmbeddingAPIKey picks the key of the configured embedding provider.
func (c *Config) EmbeddingAPIKey() string {
	if c.Ai.EmbeddingProvider == "jina" {
		return c.Keys.Jina
	}
	return c.Keys.GoogleGemini
}

// LLMAPIKey picks the key of the configured LLM provider.
func (c *Config) LLMAPIKey() string {
	if c.Ai.LLMProvider == "huggingface" {
		return c.Keys.HuggingFace
	}
	return c.Keys.GoogleGemini
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

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}
