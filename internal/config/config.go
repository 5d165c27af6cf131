package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig    `json:"server"`
	Database  DatabaseConfig  `json:"database"`
	Storage   StorageConfig   `json:"storage"`
	Gotenberg GotenbergConfig `json:"gotenberg"`
	Generate  GenerateConfig  `json:"generate"`
}

type ServerConfig struct {
	Port         string   `json:"port"`
	Environment  string   `json:"environment"`
	AllowOrigins []string `json:"allow_origins"`
}

type DatabaseConfig struct {
	Host     string `json:"host"`
	Port     string `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	DBName   string `json:"db_name"`
}

// StorageConfig selects the blob backend: "local" keeps template and output
// files under Dir, "gcs" uses a Cloud Storage bucket.
type StorageConfig struct {
	Backend         string        `json:"backend"`
	Dir             string        `json:"dir"`
	BucketName      string        `json:"bucket_name"`
	ProjectID       string        `json:"project_id"`
	CredentialsPath string        `json:"credentials_path"`
	OutputRetention time.Duration `json:"output_retention"`
}

type GotenbergConfig struct {
	URL     string        `json:"url"`
	Timeout time.Duration `json:"timeout"`
}

type GenerateConfig struct {
	// WorkerLimit bounds per-client rendering concurrency within one batch.
	WorkerLimit int `json:"worker_limit"`
}

func (d *DatabaseConfig) DSN() string {
	// Cloud SQL Unix socket support
	if len(d.Host) > 0 && d.Host[0] == '/' {
		return fmt.Sprintf("%s:%s@unix(%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			d.User, d.Password, d.Host, d.DBName)
	}
	// Standard TCP connection
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.User, d.Password, d.Host, d.Port, d.DBName)
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Failed to load .env file: %v, using system environment variables\n", err)
	}

	config := &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			Environment:  getEnv("ENVIRONMENT", "development"),
			AllowOrigins: parseAllowOrigins(),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "3306"),
			User:     getEnv("DB_USER", "root"),
			Password: getEnv("DB_PASSWORD", ""),
			DBName:   getEnv("DB_NAME", "docgen"),
		},
		Storage: StorageConfig{
			Backend:         getEnv("STORAGE_BACKEND", "local"),
			Dir:             getEnv("STORAGE_DIR", "./storage"),
			BucketName:      getEnv("GCS_BUCKET_NAME", ""),
			ProjectID:       getEnv("GOOGLE_CLOUD_PROJECT", ""),
			CredentialsPath: getEnv("GCS_CREDENTIALS_PATH", ""),
			OutputRetention: getEnvDuration("OUTPUT_RETENTION", 24*time.Hour),
		},
		Gotenberg: GotenbergConfig{
			URL:     getEnv("GOTENBERG_URL", ""),
			Timeout: getEnvDuration("GOTENBERG_TIMEOUT", 30*time.Second),
		},
		Generate: GenerateConfig{
			WorkerLimit: getEnvInt("WORKER_LIMIT", 4),
		},
	}

	if config.Storage.Backend != "local" && config.Storage.Backend != "gcs" {
		return nil, fmt.Errorf("unknown STORAGE_BACKEND %q", config.Storage.Backend)
	}
	if config.Storage.Backend == "gcs" && config.Storage.BucketName == "" {
		return nil, fmt.Errorf("STORAGE_BACKEND=gcs requires GCS_BUCKET_NAME")
	}
	if config.Generate.WorkerLimit < 1 {
		config.Generate.WorkerLimit = 1
	}

	return config, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
		fmt.Printf("Warning: invalid %s=%q, using %d\n", key, value, defaultValue)
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		fmt.Printf("Warning: invalid %s=%q, using %s\n", key, value, defaultValue)
	}
	return defaultValue
}

func parseAllowOrigins() []string {
	if origins := os.Getenv("ALLOW_ORIGINS"); origins != "" {
		var allowOrigins []string
		for _, origin := range strings.Split(origins, ",") {
			if trimmed := strings.TrimSpace(origin); trimmed != "" {
				allowOrigins = append(allowOrigins, trimmed)
			}
		}
		return allowOrigins
	}

	return []string{"http://localhost:8000"}
}
