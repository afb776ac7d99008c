package config

import (
	"fmt"
	"os"
	"time"
)

type Config struct {
	DatabaseURL           string
	TemporalAddress       string
	HTTPListenAddr        string
	MetricsAddr           string
	LogLevel              string
	ServiceName           string
	RegistrarAccountsFile string
	// SyncStatusTTL is how long a "running" sync flag is trusted before it
	// is considered left over from a crashed run.
	SyncStatusTTL time.Duration
	MigrationsDir string

	S3Endpoint   string
	S3Region     string
	S3Bucket     string
	S3AccessKey  string
	S3SecretKey  string
	S3PresignTTL time.Duration
}

func Load() (*Config, error) {
	cfg := &Config{
		DatabaseURL:           getEnv("DATABASE_URL", ""),
		TemporalAddress:       getEnv("TEMPORAL_ADDRESS", "localhost:7233"),
		HTTPListenAddr:        getEnv("HTTP_LISTEN_ADDR", ":8080"),
		MetricsAddr:           getEnv("METRICS_ADDR", ""),
		LogLevel:              getEnv("LOG_LEVEL", "info"),
		ServiceName:           getEnv("SERVICE_NAME", ""),
		RegistrarAccountsFile: getEnv("REGISTRAR_ACCOUNTS_FILE", "registrar-accounts.yaml"),
		MigrationsDir:         getEnv("MIGRATIONS_DIR", "migrations"),
		S3Endpoint:            getEnv("S3_ENDPOINT", ""),
		S3Region:              getEnv("S3_REGION", "us-east-1"),
		S3Bucket:              getEnv("S3_BUCKET", ""),
		S3AccessKey:           getEnv("S3_ACCESS_KEY", ""),
		S3SecretKey:           getEnv("S3_SECRET_KEY", ""),
	}

	var err error
	cfg.SyncStatusTTL, err = getDuration("SYNC_STATUS_TTL", 30*time.Minute)
	if err != nil {
		return nil, err
	}
	cfg.S3PresignTTL, err = getDuration("S3_PRESIGN_TTL", 15*time.Minute)
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that the fields required by the given binary role are set.
func (c *Config) Validate(role string) error {
	switch role {
	case "cms-api":
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for %s", role)
		}
	case "worker":
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for %s", role)
		}
		if c.RegistrarAccountsFile == "" {
			return fmt.Errorf("REGISTRAR_ACCOUNTS_FILE is required for %s", role)
		}
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return d, nil
}
