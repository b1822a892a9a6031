package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Storage  StorageConfig
	OpenAI   OpenAIConfig
	Assembly AssemblyAIConfig
	Pipeline PipelineConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port            string
	Host            string
	Environment     string
	AllowedOrigins  []string
	ShutdownTimeout int
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host        string
	Port        string
	User        string
	Password    string
	Name        string
	SSLMode     string
	MaxConns    int
	MinConns    int
	AutoMigrate bool
}

// RedisConfig holds Redis configuration for the analysis cache.
// Leave Host empty to fall back to the in-memory cache.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// StorageConfig holds object storage configuration for the dataset store
// and rendered documents
type StorageConfig struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	UseSSL          bool
	PublicURL       string
}

// OpenAIConfig holds language-model service configuration.
// The API key is supplied per request by the caller; only the endpoint and
// model live in the environment.
type OpenAIConfig struct {
	BaseURL string
	Model   string
}

// AssemblyAIConfig holds speech-to-text service configuration
type AssemblyAIConfig struct {
	APIKey string
}

// PipelineConfig holds processing pipeline tunables
type PipelineConfig struct {
	MaxChunkSeconds     int
	ChunkOverlapSeconds int
	ChunkTimeout        time.Duration
	AnalysisCacheTTL    time.Duration
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables or defaults")
	}

	config := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			Host:            getEnv("HOST", "0.0.0.0"),
			Environment:     getEnv("ENVIRONMENT", "development"),
			AllowedOrigins:  []string{getEnv("ALLOWED_ORIGINS", "http://localhost:3000")},
			ShutdownTimeout: getEnvAsInt("SHUTDOWN_TIMEOUT", 10),
		},
		Database: DatabaseConfig{
			Host:        getEnv("DB_HOST", "localhost"),
			Port:        getEnv("DB_PORT", "5432"),
			User:        getEnv("DB_USER", "postgres"),
			Password:    getEnv("DB_PASSWORD", "postgres"),
			Name:        getEnv("DB_NAME", "meeting_summarizer"),
			SSLMode:     getEnv("DB_SSLMODE", "disable"),
			MaxConns:    getEnvAsInt("DB_MAX_CONNS", 25),
			MinConns:    getEnvAsInt("DB_MIN_CONNS", 5),
			AutoMigrate: getEnvAsBool("DB_AUTO_MIGRATE", false),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", ""),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Storage: StorageConfig{
			Endpoint:        getEnv("STORAGE_ENDPOINT", "localhost:9000"),
			AccessKeyID:     getEnv("STORAGE_ACCESS_KEY", "minioadmin"),
			SecretAccessKey: getEnv("STORAGE_SECRET_KEY", "minioadmin"),
			BucketName:      getEnv("STORAGE_BUCKET", "meeting-summarizer"),
			UseSSL:          getEnvAsBool("STORAGE_USE_SSL", false),
			PublicURL:       getEnv("STORAGE_PUBLIC_URL", ""),
		},
		OpenAI: OpenAIConfig{
			BaseURL: getEnv("OPENAI_API_URL", "https://api.openai.com"),
			Model:   getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		},
		Assembly: AssemblyAIConfig{
			APIKey: getEnv("ASSEMBLYAI_API_KEY", ""),
		},
		Pipeline: PipelineConfig{
			MaxChunkSeconds:     getEnvAsInt("PIPELINE_MAX_CHUNK_SECONDS", 300),
			ChunkOverlapSeconds: getEnvAsInt("PIPELINE_CHUNK_OVERLAP_SECONDS", 5),
			ChunkTimeout:        getEnvAsDuration("PIPELINE_CHUNK_TIMEOUT", "3m"),
			AnalysisCacheTTL:    getEnvAsDuration("PIPELINE_ANALYSIS_CACHE_TTL", "24h"),
		},
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Pipeline.MaxChunkSeconds <= 0 {
		return fmt.Errorf("PIPELINE_MAX_CHUNK_SECONDS must be positive")
	}
	if c.Pipeline.ChunkOverlapSeconds < 0 || c.Pipeline.ChunkOverlapSeconds >= c.Pipeline.MaxChunkSeconds {
		return fmt.Errorf("PIPELINE_CHUNK_OVERLAP_SECONDS must be in [0, PIPELINE_MAX_CHUNK_SECONDS)")
	}
	return nil
}

// GetDatabaseDSN returns the database connection string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// GetRedisAddr returns the Redis address
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}
	return duration
}
