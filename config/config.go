package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Backend names for the retrieval engine's vector index.
const (
	BackendLocal  = "local"
	BackendRemote = "remote"
)

// Embedding provider names.
const (
	EmbeddingHash   = "hash"
	EmbeddingOllama = "ollama"
)

// Config represents the complete application configuration
type Config struct {
	Server        ServerConfig
	KB            KBConfig
	Retrieval     RetrievalConfig
	Embedding     EmbeddingConfig
	Orchestrator  OrchestratorConfig
	AuditDatabase *DatabaseConfig // Optional: Postgres sink mirroring the audit log. Nil keeps audit in-memory only.
	Observability ObservabilityConfig
	Environment   string
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// KBConfig holds knowledge-base corpus configuration
type KBConfig struct {
	Path      string
	Bootstrap bool // write sample policy documents when the KB directory holds no recognized files
}

// RetrievalConfig selects and configures the vector index backend.
// Backend is a construction-time choice, not a per-query one.
type RetrievalConfig struct {
	Backend   string // local or remote
	IndexName string // remote index selection
	TopK      int
	Redis     RedisConfig
}

// RedisConfig holds connection settings for the remote index backend
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	PoolSize int
}

// EmbeddingConfig selects the embedding provider
type EmbeddingConfig struct {
	Provider string // hash or ollama
	Dim      int
	BaseURL  string // ollama only
	Model    string // ollama only
}

// OrchestratorConfig holds decision-pipeline settings
type OrchestratorConfig struct {
	ModelName           string
	ConfidenceThreshold float64
}

// DatabaseConfig holds PostgreSQL configuration for the audit sink
type DatabaseConfig struct {
	ConnectionString string
	MaxOpenConns     int
	MaxIdleConns     int
	ConnMaxLifetime  time.Duration
}

// ObservabilityConfig holds logging configuration
type ObservabilityConfig struct {
	LogLevel  string
	LogFormat string // json or console
}

// New creates a new Config instance by loading environment variables
func New() (*Config, error) {
	// Load .env if present; missing file is not an error.
	_ = godotenv.Load(".env")

	cfg := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Server: ServerConfig{
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			Port:            getEnvAsInt("SERVER_PORT", 8080),
			ReadTimeout:     getEnvAsDuration("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:    getEnvAsDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		KB: KBConfig{
			Path:      getEnv("KB_PATH", "./kb"),
			Bootstrap: getEnvAsBool("KB_BOOTSTRAP", true),
		},
		Retrieval: RetrievalConfig{
			Backend:   strings.ToLower(getEnv("RETRIEVAL_BACKEND", BackendLocal)),
			IndexName: getEnv("RETRIEVAL_INDEX_NAME", "support-kb"),
			TopK:      getEnvAsInt("RETRIEVAL_TOP_K", 4),
			Redis: RedisConfig{
				Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
				Password: getEnv("REDIS_PASSWORD", ""),
				DB:       getEnvAsInt("REDIS_DB", 0),
				PoolSize: getEnvAsInt("REDIS_POOL_SIZE", 10),
			},
		},
		Embedding: EmbeddingConfig{
			Provider: strings.ToLower(getEnv("EMBEDDING_PROVIDER", EmbeddingHash)),
			Dim:      getEnvAsInt("EMBEDDING_DIM", 256),
			BaseURL:  getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			Model:    getEnv("OLLAMA_EMBED_MODEL", "nomic-embed-text"),
		},
		Orchestrator: OrchestratorConfig{
			ModelName:           getEnv("MODEL_NAME", "support-rules-v1"),
			ConfidenceThreshold: getEnvAsFloat("CONFIDENCE_THRESHOLD", 0.5),
		},
		AuditDatabase: loadAuditDatabaseConfig(),
		Observability: ObservabilityConfig{
			LogLevel:  getEnv("LOG_LEVEL", "info"),
			LogFormat: getEnv("LOG_FORMAT", "json"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks if all required configuration fields are set
func (c *Config) Validate() error {
	if c.KB.Path == "" {
		return fmt.Errorf("knowledge base path is required")
	}

	switch c.Retrieval.Backend {
	case BackendLocal:
	case BackendRemote:
		if c.Retrieval.Redis.Addr == "" {
			return fmt.Errorf("redis address is required for the remote backend")
		}
		if c.Retrieval.IndexName == "" {
			return fmt.Errorf("index name is required for the remote backend")
		}
	default:
		return fmt.Errorf("unknown retrieval backend %q (want %s or %s)", c.Retrieval.Backend, BackendLocal, BackendRemote)
	}

	if c.Retrieval.TopK <= 0 {
		return fmt.Errorf("retrieval top-k must be positive")
	}

	switch c.Embedding.Provider {
	case EmbeddingHash, EmbeddingOllama:
	default:
		return fmt.Errorf("unknown embedding provider %q", c.Embedding.Provider)
	}
	if c.Embedding.Provider == EmbeddingHash && c.Embedding.Dim <= 0 {
		return fmt.Errorf("embedding dimension must be positive")
	}

	if c.Orchestrator.ConfidenceThreshold < 0 || c.Orchestrator.ConfidenceThreshold > 1 {
		return fmt.Errorf("confidence threshold must be in [0,1]")
	}

	if c.Observability.LogLevel == "" {
		return fmt.Errorf("log level is required")
	}

	return nil
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.Environment == "production" || c.Environment == "prod"
}

// Address returns the HTTP server address
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// DSN returns the PostgreSQL connection string
func (c *DatabaseConfig) DSN() string {
	return c.ConnectionString
}

// LogString returns a safe string for logging (no password)
func (c *DatabaseConfig) LogString() string {
	u, err := url.Parse(c.ConnectionString)
	if err != nil {
		return "host=<from DATABASE_URL_AUDIT>"
	}
	host := u.Hostname()
	port := u.Port()
	if port == "" {
		port = "5432"
	}
	db := strings.TrimPrefix(u.Path, "/")
	return fmt.Sprintf("host=%s port=%s database=%s", host, port, db)
}

// loadAuditDatabaseConfig loads the optional audit sink config from
// DATABASE_URL_AUDIT. Returns nil when not set (audit stays in-memory).
func loadAuditDatabaseConfig() *DatabaseConfig {
	dbURL := getEnv("DATABASE_URL_AUDIT", "")
	if dbURL == "" {
		return nil
	}
	return &DatabaseConfig{
		ConnectionString: dbURL,
		MaxOpenConns:     getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
		MaxIdleConns:     getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
		ConnMaxLifetime:  getEnvAsDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
	}
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
