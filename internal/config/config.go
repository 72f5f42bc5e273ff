package config

import (
	"os"
	"strconv"
)

// DatabaseConfig holds PostgreSQL settings for the optional word list.
// An empty Host disables the database.
type DatabaseConfig struct {
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
}

// Enabled reports whether a database host is configured.
func (c DatabaseConfig) Enabled() bool {
	return c.Host != ""
}

// MinIOConfig holds object storage settings for MinIO.
type MinIOConfig struct {
	Endpoint         string
	AccessKey        string
	SecretKey        string
	Bucket           string
	UseSSL           bool
	PresignExpirySec int
}

// StorageConfig selects the artifact backend and the slot layout.
type StorageConfig struct {
	// Backend is "fs" (local directory) or "minio".
	Backend   string
	Root      string
	UploadDir string
	DataDir   string
}

// AIConfig holds provider settings. GeminiAPIKey is only the fallback
// credential; a per-request key always wins.
type AIConfig struct {
	GeminiAPIKey      string
	GeminiModel       string
	RequestTimeoutSec int
}

// LogConfig controls the logrus adapter.
type LogConfig struct {
	Level  string
	Format string
}

// TracingConfig mirrors the standard OTEL_* variables the exporter setup needs.
type TracingConfig struct {
	Disabled    bool
	ServiceName string
	// Protocol is "grpc" or "http/protobuf".
	Protocol   string
	Endpoint   string
	Sampler    string
	SamplerArg string
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	AppHost          string
	Port             string
	CORSAllowOrigins string
	// BodyLimitMB caps request bodies, which bounds upload size.
	BodyLimitMB int
	Log         LogConfig
	Tracing     TracingConfig
	Storage          StorageConfig
	AI               AIConfig
	Database         DatabaseConfig
	MinIO            MinIOConfig
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
func Load() *AppConfig {
	return &AppConfig{
		AppHost:          getEnv("APP_HOST", "localhost:5000"),
		Port:             getEnv("PORT", "5000"),
		CORSAllowOrigins: getEnv("CORS_ALLOW_ORIGINS", "*"),
		BodyLimitMB:      getEnvInt("UPLOAD_MAX_MB", 32),
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Tracing: TracingConfig{
			Disabled:    getEnvBool("OTEL_SDK_DISABLED", false),
			ServiceName: getEnv("OTEL_SERVICE_NAME", "docclean"),
			Protocol:    getEnv("OTEL_EXPORTER_OTLP_PROTOCOL", "grpc"),
			Endpoint:    getEnv("OTEL_EXPORTER_OTLP_TRACES_ENDPOINT", getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "")),
			Sampler:     getEnv("OTEL_TRACES_SAMPLER", "parentbased_traceidratio"),
			SamplerArg:  getEnv("OTEL_TRACES_SAMPLER_ARG", "1.0"),
		},
		Storage: StorageConfig{
			Backend:   getEnv("STORAGE_BACKEND", "fs"),
			Root:      getEnv("STORAGE_ROOT", "."),
			UploadDir: getEnv("UPLOAD_DIR", "uploads"),
			DataDir:   getEnv("DATA_DIR", "data"),
		},
		AI: AIConfig{
			GeminiAPIKey:      getEnv("GEMINI_API_KEY", ""),
			GeminiModel:       getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
			RequestTimeoutSec: getEnvInt("AI_REQUEST_TIMEOUT_SEC", 120),
		},
		Database: DatabaseConfig{
			Host:               getEnv("DB_HOST", ""),
			Port:               getEnv("DB_PORT", "5432"),
			User:               getEnv("DB_USER", ""),
			Password:           getEnv("DB_PASSWORD", ""),
			Name:               getEnv("DB_NAME", ""),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300),
		},
		MinIO: MinIOConfig{
			Endpoint:         getEnv("MINIO_ENDPOINT", ""),
			AccessKey:        getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey:        getEnv("MINIO_SECRET_KEY", ""),
			Bucket:           getEnv("MINIO_BUCKET", ""),
			UseSSL:           getEnvBool("MINIO_USE_SSL", false),
			PresignExpirySec: getEnvInt("MINIO_PRESIGN_EXPIRY_SEC", 900),
		},
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}
