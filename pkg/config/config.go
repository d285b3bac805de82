package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig   `json:"server"`
	Database DatabaseConfig `json:"database"`
	Storage  StorageConfig  `json:"storage"`
	Auth     AuthConfig     `json:"auth"`
	Shift    ShiftConfig    `json:"shift"`
}

type ServerConfig struct {
	Host string `json:"host"`
	Port int    `json:"port"`
}

type DatabaseConfig struct {
	DataDir string `json:"data_dir"`
}

type StorageConfig struct {
	UploadDir string `json:"upload_dir"`
}

type AuthConfig struct {
	JWTSecret       string `json:"jwt_secret"`
	TokenTTLMinutes int    `json:"token_ttl_minutes"`
}

type ShiftConfig struct {
	// Cron expression (with seconds) for the nightly auto-shift run.
	Schedule string `json:"schedule"`
	Enabled  bool   `json:"enabled"`
}

func LoadConfig(path string) (*Config, error) {
	// A .env file, when present, feeds the environment before the
	// variables are read. Its absence is not an error.
	_ = godotenv.Load()

	config := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "localhost"),
			Port: getEnvAsInt("SERVER_PORT", 8080),
		},
		Database: DatabaseConfig{
			DataDir: getEnv("DATABASE_DIR", "./data"),
		},
		Storage: StorageConfig{
			UploadDir: getEnv("UPLOAD_DIR", "./data/uploads"),
		},
		Auth: AuthConfig{
			JWTSecret:       getEnv("JWT_SECRET", ""),
			TokenTTLMinutes: getEnvAsInt("TOKEN_TTL_MINUTES", 60),
		},
		Shift: ShiftConfig{
			Schedule: getEnv("SHIFT_SCHEDULE", "0 5 0 * * *"),
			Enabled:  getEnvAsBool("SHIFT_ENABLED", true),
		},
	}

	// If a config file is specified, load it and override env vars
	if path != "" {
		file, err := os.Open(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, err
			}
			// File doesn't exist, use env vars only
		} else {
			defer file.Close()
			decoder := json.NewDecoder(file)
			if err := decoder.Decode(config); err != nil {
				return nil, err
			}
		}
	}

	if !filepath.IsAbs(config.Database.DataDir) {
		config.Database.DataDir, _ = filepath.Abs(config.Database.DataDir)
	}
	if !filepath.IsAbs(config.Storage.UploadDir) {
		config.Storage.UploadDir, _ = filepath.Abs(config.Storage.UploadDir)
	}

	return config, nil
}

// Helper functions for environment variables
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
