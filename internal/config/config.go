package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Log       LogConfig
	Engine    EngineConfig
	Extractor ExtractorConfig
	Store     StoreConfig
	DB        DBConfig
	S3        S3Config
	Upload    UploadConfig
	CORS      CORSConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// EngineConfig holds the field validation engine settings.
type EngineConfig struct {
	LineItemSlots    int     `mapstructure:"line_item_slots"`
	DomainsFile      string  `mapstructure:"domains_file"`
	SimilarityCutoff float64 `mapstructure:"similarity_cutoff"`
}

// ExtractorConfig holds the Document AI processor settings.
type ExtractorConfig struct {
	ProjectID          string `mapstructure:"project_id"`
	Location           string `mapstructure:"location"`
	ProcessorID        string `mapstructure:"processor_id"`
	ProcessorVersionID string `mapstructure:"processor_version_id"`
	AccessToken        string `mapstructure:"access_token"`
	Endpoint           string `mapstructure:"endpoint"`
	TimeoutSecs        int    `mapstructure:"timeout_secs"`
}

// Enabled reports whether enough is configured to call the processor.
func (e *ExtractorConfig) Enabled() bool {
	return e.ProjectID != "" && e.ProcessorID != ""
}

// Record store drivers.
const (
	StoreDriverMemory   = "memory"
	StoreDriverPostgres = "postgres"
)

// StoreConfig selects where processed records are kept.
type StoreConfig struct {
	Driver string        `mapstructure:"driver"`
	TTL    time.Duration `mapstructure:"ttl"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// S3Config holds AWS S3 settings. Source archival is off when Bucket is empty.
type S3Config struct {
	Region    string `mapstructure:"region"`
	Bucket    string `mapstructure:"bucket"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
}

// UploadConfig limits accepted documents.
type UploadConfig struct {
	MaxFileSizeMB int64 `mapstructure:"max_file_size_mb"`
}

// MaxBytes returns the size limit in bytes.
func (u *UploadConfig) MaxBytes() int64 {
	return u.MaxFileSizeMB * 1024 * 1024
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// Load reads configuration from environment variables with the FACTURAVAL_
// prefix. A .env file in the working directory is loaded first when present;
// variables already set in the environment win.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix("FACTURAVAL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "150s")
	v.SetDefault("server.environment", "development")

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// Engine defaults
	v.SetDefault("engine.line_item_slots", 20)
	v.SetDefault("engine.domains_file", "")
	v.SetDefault("engine.similarity_cutoff", 0.6)

	// Extractor defaults
	v.SetDefault("extractor.project_id", "")
	v.SetDefault("extractor.location", "us")
	v.SetDefault("extractor.processor_id", "")
	v.SetDefault("extractor.processor_version_id", "")
	v.SetDefault("extractor.access_token", "")
	v.SetDefault("extractor.endpoint", "")
	v.SetDefault("extractor.timeout_secs", 120)

	// Store defaults
	v.SetDefault("store.driver", StoreDriverMemory)
	v.SetDefault("store.ttl", "1h")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "facturaval")
	v.SetDefault("db.password", "facturaval_secret")
	v.SetDefault("db.name", "facturaval_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// S3 defaults
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.bucket", "")
	v.SetDefault("s3.endpoint", "")

	// Upload defaults
	v.SetDefault("upload.max_file_size_mb", 20)

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                    "FACTURAVAL_SERVER_PORT",
		"server.read_timeout":            "FACTURAVAL_SERVER_READ_TIMEOUT",
		"server.write_timeout":           "FACTURAVAL_SERVER_WRITE_TIMEOUT",
		"server.environment":             "FACTURAVAL_SERVER_ENVIRONMENT",
		"log.level":                      "FACTURAVAL_LOG_LEVEL",
		"log.format":                     "FACTURAVAL_LOG_FORMAT",
		"engine.line_item_slots":         "FACTURAVAL_ENGINE_LINE_ITEM_SLOTS",
		"engine.domains_file":            "FACTURAVAL_ENGINE_DOMAINS_FILE",
		"engine.similarity_cutoff":       "FACTURAVAL_ENGINE_SIMILARITY_CUTOFF",
		"extractor.project_id":           "FACTURAVAL_EXTRACTOR_PROJECT_ID",
		"extractor.location":             "FACTURAVAL_EXTRACTOR_LOCATION",
		"extractor.processor_id":         "FACTURAVAL_EXTRACTOR_PROCESSOR_ID",
		"extractor.processor_version_id": "FACTURAVAL_EXTRACTOR_PROCESSOR_VERSION_ID",
		"extractor.access_token":         "FACTURAVAL_EXTRACTOR_ACCESS_TOKEN",
		"extractor.endpoint":             "FACTURAVAL_EXTRACTOR_ENDPOINT",
		"extractor.timeout_secs":         "FACTURAVAL_EXTRACTOR_TIMEOUT_SECS",
		"store.driver":                   "FACTURAVAL_STORE_DRIVER",
		"store.ttl":                      "FACTURAVAL_STORE_TTL",
		"db.host":                        "FACTURAVAL_DB_HOST",
		"db.port":                        "FACTURAVAL_DB_PORT",
		"db.user":                        "FACTURAVAL_DB_USER",
		"db.password":                    "FACTURAVAL_DB_PASSWORD",
		"db.name":                        "FACTURAVAL_DB_NAME",
		"db.sslmode":                     "FACTURAVAL_DB_SSLMODE",
		"db.max_open":                    "FACTURAVAL_DB_MAX_OPEN",
		"db.max_idle":                    "FACTURAVAL_DB_MAX_IDLE",
		"s3.region":                      "FACTURAVAL_S3_REGION",
		"s3.bucket":                      "FACTURAVAL_S3_BUCKET",
		"s3.endpoint":                    "FACTURAVAL_S3_ENDPOINT",
		"s3.access_key":                  "FACTURAVAL_S3_ACCESS_KEY",
		"s3.secret_key":                  "FACTURAVAL_S3_SECRET_KEY",
		"upload.max_file_size_mb":        "FACTURAVAL_UPLOAD_MAX_FILE_SIZE_MB",
		"cors.allowed_origins":           "FACTURAVAL_CORS_ALLOWED_ORIGINS",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Hosting platforms set PORT. Use it unless FACTURAVAL_SERVER_PORT is set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("FACTURAVAL_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}
	cfg.Engine = EngineConfig{
		LineItemSlots:    v.GetInt("engine.line_item_slots"),
		DomainsFile:      v.GetString("engine.domains_file"),
		SimilarityCutoff: v.GetFloat64("engine.similarity_cutoff"),
	}
	cfg.Extractor = ExtractorConfig{
		ProjectID:          v.GetString("extractor.project_id"),
		Location:           v.GetString("extractor.location"),
		ProcessorID:        v.GetString("extractor.processor_id"),
		ProcessorVersionID: v.GetString("extractor.processor_version_id"),
		AccessToken:        v.GetString("extractor.access_token"),
		Endpoint:           v.GetString("extractor.endpoint"),
		TimeoutSecs:        v.GetInt("extractor.timeout_secs"),
	}
	cfg.Store = StoreConfig{
		Driver: strings.ToLower(v.GetString("store.driver")),
		TTL:    v.GetDuration("store.ttl"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.S3 = S3Config{
		Region:    v.GetString("s3.region"),
		Bucket:    v.GetString("s3.bucket"),
		Endpoint:  v.GetString("s3.endpoint"),
		AccessKey: v.GetString("s3.access_key"),
		SecretKey: v.GetString("s3.secret_key"),
	}
	cfg.Upload = UploadConfig{
		MaxFileSizeMB: v.GetInt64("upload.max_file_size_mb"),
	}

	// Parse CORS allowed origins from comma-separated string
	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: corsOrigins,
	}

	if cfg.Store.Driver != StoreDriverMemory && cfg.Store.Driver != StoreDriverPostgres {
		return nil, fmt.Errorf("unsupported store driver %q", cfg.Store.Driver)
	}
	if cfg.Engine.LineItemSlots < 1 {
		return nil, fmt.Errorf("engine.line_item_slots must be at least 1, got %d", cfg.Engine.LineItemSlots)
	}
	// The engine reads a zero cutoff as "use the default".
	if cfg.Engine.SimilarityCutoff <= 0 || cfg.Engine.SimilarityCutoff > 1 {
		return nil, fmt.Errorf("engine.similarity_cutoff must be within (0, 1], got %v", cfg.Engine.SimilarityCutoff)
	}

	return cfg, nil
}
