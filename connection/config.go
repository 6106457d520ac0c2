package connection

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	StoreFirestore = "firestore"
	StoreSQLite    = "sqlite"
	StoreMemory    = "memory"

	AuthHMAC     = "hmac"
	AuthFirebase = "firebase"
	AuthJWKS     = "jwks"
)

// Config is read from an optional YAML file (CONFIG_FILE) and then from the
// environment, which wins.
type Config struct {
	Port         string   `yaml:"port"`
	GinMode      string   `yaml:"gin_mode"`
	BaseURL      string   `yaml:"base_url"`
	AllowOrigins []string `yaml:"allow_origins"`
	LogLevel     string   `yaml:"log_level"`

	StoreBackend    string `yaml:"store_backend"`
	CredentialsFile string `yaml:"credentials_file"`
	ProjectID       string `yaml:"firebase_project_id"`
	StorageBucket   string `yaml:"firebase_storage_bucket"`
	SQLitePath      string `yaml:"sqlite_path"`
	BlobDir         string `yaml:"blob_dir"`

	AuthMode    string `yaml:"auth_mode"`
	JWTSecret   string `yaml:"-"`
	JWKSURL     string `yaml:"jwks_url"`
	JWTIssuer   string `yaml:"jwt_issuer"`
	JWTAudience string `yaml:"jwt_audience"`

	DefaultWeeklyCapacity float64 `yaml:"default_weekly_capacity"`
}

func defaultConfig() Config {
	return Config{
		Port:                  "8080",
		GinMode:               "release",
		BaseURL:               "http://localhost:8080",
		AllowOrigins:          []string{"*"},
		LogLevel:              "info",
		StoreBackend:          StoreFirestore,
		SQLitePath:            "data/lifedashboard.db",
		BlobDir:               "data/blobs",
		AuthMode:              AuthFirebase,
		DefaultWeeklyCapacity: 20,
	}
}

func LoadConfig() (Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file found or failed to load")
	}

	cfg := defaultConfig()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config file: %w", err)
		}
	}

	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.GinMode = getEnv("GIN_MODE", cfg.GinMode)
	cfg.BaseURL = getEnv("BASE_URL", cfg.BaseURL)
	cfg.AllowOrigins = getEnvFields("ALLOW_ORIGINS", cfg.AllowOrigins)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.StoreBackend = strings.ToLower(getEnv("STORE_BACKEND", cfg.StoreBackend))
	cfg.CredentialsFile = getEnv("GOOGLE_APPLICATION_CREDENTIALS_1", cfg.CredentialsFile)
	cfg.ProjectID = getEnv("FIREBASE_PROJECT_ID", cfg.ProjectID)
	cfg.StorageBucket = getEnv("FIREBASE_STORAGE_BUCKET", cfg.StorageBucket)
	cfg.SQLitePath = getEnv("SQLITE_PATH", cfg.SQLitePath)
	cfg.BlobDir = getEnv("BLOB_DIR", cfg.BlobDir)
	cfg.AuthMode = strings.ToLower(getEnv("AUTH_MODE", cfg.AuthMode))
	cfg.JWTSecret = getEnv("JWT_SECRET_KEY", cfg.JWTSecret)
	cfg.JWKSURL = getEnv("JWKS_URL", cfg.JWKSURL)
	cfg.JWTIssuer = getEnv("JWT_ISSUER", cfg.JWTIssuer)
	cfg.JWTAudience = getEnv("JWT_AUDIENCE", cfg.JWTAudience)

	if v, ok := os.LookupEnv("DEFAULT_WEEKLY_CAPACITY"); ok {
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return cfg, fmt.Errorf("DEFAULT_WEEKLY_CAPACITY: %w", err)
		}
		cfg.DefaultWeeklyCapacity = f
	}

	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	switch c.StoreBackend {
	case StoreFirestore:
		if c.CredentialsFile == "" {
			return errors.New("environment variable GOOGLE_APPLICATION_CREDENTIALS_1 is not set")
		}
	case StoreSQLite:
		if c.SQLitePath == "" {
			return errors.New("SQLITE_PATH is empty")
		}
	case StoreMemory:
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend)
	}

	switch c.AuthMode {
	case AuthHMAC:
		if c.JWTSecret == "" {
			return errors.New("JWT_SECRET_KEY is required in hmac mode")
		}
	case AuthFirebase:
		if c.CredentialsFile == "" {
			return errors.New("firebase auth needs GOOGLE_APPLICATION_CREDENTIALS_1")
		}
	case AuthJWKS:
		if c.JWKSURL == "" {
			return errors.New("JWKS_URL is required in jwks mode")
		}
	default:
		return fmt.Errorf("unknown AUTH_MODE %q", c.AuthMode)
	}

	if c.DefaultWeeklyCapacity < 0 {
		return errors.New("DEFAULT_WEEKLY_CAPACITY must be >= 0")
	}
	return nil
}

// SlogLevel maps LOG_LEVEL onto a slog level, defaulting to info.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

func getEnv(env, fallback string) string {
	if value, exists := os.LookupEnv(env); exists {
		return value
	}
	return fallback
}

func getEnvFields(env string, fallback []string) []string {
	value, exists := os.LookupEnv(env)
	if !exists {
		return fallback
	}
	var fields []string
	for _, f := range strings.Split(value, ",") {
		if f = strings.TrimSpace(f); f != "" {
			fields = append(fields, f)
		}
	}
	return fields
}
