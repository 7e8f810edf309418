package config

import (
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// readSecret reads a Docker secret from a file path specified by an env var
// with _FILE suffix. If FOO is already set directly, the file is skipped.
// If FOO_FILE is set, reads the file content and sets FOO.
func readSecret(envKey string) {
	if os.Getenv(envKey) != "" {
		return
	}
	fileKey := envKey + "_FILE"
	filePath := os.Getenv(fileKey)
	if filePath == "" {
		return
	}
	data, err := os.ReadFile(filePath)
	if err != nil {
		return
	}
	val := strings.TrimSpace(string(data))
	os.Setenv(envKey, val)
}

type Config struct {
	Server    ServerConfig
	Log       LogConfig
	Database  DatabaseConfig
	Storage   StorageConfig
	S3        S3Config
	GCS       GCSConfig
	ML        MLConfig
	Auth      AuthConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	Pipeline  PipelineConfig
}

type ServerConfig struct {
	Port        string
	Env         string
	BodyLimitMB int
	CORSOrigins string
}

type LogConfig struct {
	Level  string
	Format string // "json" or "console"
}

type DatabaseConfig struct {
	URL         string
	AutoMigrate bool
	MaxConns    int32
}

// StorageConfig selects the object store backend: "s3" or "gcs".
type StorageConfig struct {
	Provider string
}

type S3Config struct {
	Bucket          string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Endpoint        string // optional, for MinIO / R2
	UsePathStyle    bool
}

type GCSConfig struct {
	Bucket          string
	CredentialsFile string
}

type MLConfig struct {
	BaseURL      string
	ProcessPath  string
	ForecastPath string
	Timeout      int // seconds
}

type AuthConfig struct {
	JWTSecret string
	JWKSURL   string
	Issuer    string
	Audience  string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type RateLimitConfig struct {
	UploadPerHour   int
	ForecastPerHour int
}

type PipelineConfig struct {
	StepTimeout time.Duration
}

// IsDevelopment reports whether the server runs in development mode.
func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Server.Env, "development")
}

func Load() (*Config, error) {
	// Read Docker Swarm secrets from _FILE env vars before Viper binds
	readSecret("DATABASE_URL")
	readSecret("AWS_ACCESS_KEY")
	readSecret("AWS_SECRET_KEY")
	readSecret("SUPABASE_JWT_SECRET")
	readSecret("REDIS_PASSWORD")

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	// Environment variables
	v.AutomaticEnv()

	// Bind environment variables with underscores to nested config keys
	_ = v.BindEnv("server.port", "SERVER_PORT", "PORT")
	_ = v.BindEnv("server.env", "SERVER_ENV")
	_ = v.BindEnv("server.body_limit_mb", "BODY_LIMIT_MB")
	_ = v.BindEnv("server.cors_origins", "CORS_ORIGINS")
	_ = v.BindEnv("log.level", "LOG_LEVEL")
	_ = v.BindEnv("log.format", "LOG_FORMAT")
	_ = v.BindEnv("database.url", "DATABASE_URL")
	_ = v.BindEnv("database.auto_migrate", "DATABASE_AUTO_MIGRATE")
	_ = v.BindEnv("database.max_conns", "DATABASE_MAX_CONNS")
	_ = v.BindEnv("storage.provider", "STORAGE_PROVIDER")
	_ = v.BindEnv("s3.bucket", "S3_BUCKET")
	_ = v.BindEnv("s3.region", "AWS_REGION")
	_ = v.BindEnv("s3.access_key_id", "AWS_ACCESS_KEY")
	_ = v.BindEnv("s3.secret_access_key", "AWS_SECRET_KEY")
	_ = v.BindEnv("s3.endpoint", "S3_ENDPOINT")
	_ = v.BindEnv("s3.use_path_style", "S3_USE_PATH_STYLE")
	_ = v.BindEnv("gcs.bucket", "GCS_BUCKET")
	_ = v.BindEnv("gcs.credentials_file", "GOOGLE_APPLICATION_CREDENTIALS")
	_ = v.BindEnv("ml.base_url", "ML_SERVICE_URL", "ML_API_URL")
	_ = v.BindEnv("ml.process_path", "ML_PROCESS_PATH")
	_ = v.BindEnv("ml.forecast_path", "ML_FORECAST_PATH")
	_ = v.BindEnv("ml.timeout", "ML_SERVICE_TIMEOUT")
	_ = v.BindEnv("auth.jwt_secret", "SUPABASE_JWT_SECRET")
	_ = v.BindEnv("auth.jwks_url", "SUPABASE_JWKS_URL")
	_ = v.BindEnv("auth.issuer", "AUTH_ISSUER")
	_ = v.BindEnv("auth.audience", "AUTH_AUDIENCE")
	_ = v.BindEnv("redis.addr", "REDIS_ADDR")
	_ = v.BindEnv("redis.password", "REDIS_PASSWORD")
	_ = v.BindEnv("redis.db", "REDIS_DB")
	_ = v.BindEnv("ratelimit.upload_per_hour", "RATELIMIT_UPLOAD_PER_HOUR")
	_ = v.BindEnv("ratelimit.forecast_per_hour", "RATELIMIT_FORECAST_PER_HOUR")
	_ = v.BindEnv("pipeline.step_timeout", "PIPELINE_STEP_TIMEOUT")

	// Defaults
	v.SetDefault("server.port", "8000")
	v.SetDefault("server.env", "development")
	v.SetDefault("server.body_limit_mb", 50)
	v.SetDefault("server.cors_origins", "http://localhost:3000")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("database.auto_migrate", true)
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("storage.provider", "s3")
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("ml.base_url", "http://localhost:8001")
	v.SetDefault("ml.process_path", "/process-file")
	v.SetDefault("ml.forecast_path", "/forecast")
	v.SetDefault("ml.timeout", 120)
	v.SetDefault("redis.db", 0)
	v.SetDefault("ratelimit.upload_per_hour", 50)
	v.SetDefault("ratelimit.forecast_per_hour", 30)
	v.SetDefault("pipeline.step_timeout", "60s")

	// Try to read config file (optional)
	_ = v.ReadInConfig()

	cfg := &Config{
		Server: ServerConfig{
			Port:        v.GetString("server.port"),
			Env:         v.GetString("server.env"),
			BodyLimitMB: v.GetInt("server.body_limit_mb"),
			CORSOrigins: v.GetString("server.cors_origins"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
		},
		Database: DatabaseConfig{
			URL:         v.GetString("database.url"),
			AutoMigrate: v.GetBool("database.auto_migrate"),
			MaxConns:    v.GetInt32("database.max_conns"),
		},
		Storage: StorageConfig{
			Provider: strings.ToLower(v.GetString("storage.provider")),
		},
		S3: S3Config{
			Bucket:          v.GetString("s3.bucket"),
			Region:          v.GetString("s3.region"),
			AccessKeyID:     v.GetString("s3.access_key_id"),
			SecretAccessKey: v.GetString("s3.secret_access_key"),
			Endpoint:        v.GetString("s3.endpoint"),
			UsePathStyle:    v.GetBool("s3.use_path_style"),
		},
		GCS: GCSConfig{
			Bucket:          v.GetString("gcs.bucket"),
			CredentialsFile: v.GetString("gcs.credentials_file"),
		},
		ML: MLConfig{
			BaseURL:      strings.TrimRight(v.GetString("ml.base_url"), "/"),
			ProcessPath:  v.GetString("ml.process_path"),
			ForecastPath: v.GetString("ml.forecast_path"),
			Timeout:      v.GetInt("ml.timeout"),
		},
		Auth: AuthConfig{
			JWTSecret: v.GetString("auth.jwt_secret"),
			JWKSURL:   v.GetString("auth.jwks_url"),
			Issuer:    v.GetString("auth.issuer"),
			Audience:  v.GetString("auth.audience"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("redis.addr"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		RateLimit: RateLimitConfig{
			UploadPerHour:   v.GetInt("ratelimit.upload_per_hour"),
			ForecastPerHour: v.GetInt("ratelimit.forecast_per_hour"),
		},
		Pipeline: PipelineConfig{
			StepTimeout: v.GetDuration("pipeline.step_timeout"),
		},
	}

	return cfg, nil
}
