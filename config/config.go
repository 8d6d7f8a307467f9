package config

import (
	"os"
	"strconv"
)

// Config holds all configuration for the application.
// It follows the 12-factor app methodology by prioritizing environment variables.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Auth     AuthConfig
	Media    MediaConfig
}

type ServerConfig struct {
	Port        string
	Environment string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type AuthConfig struct {
	AccessSecret string
	// PrivilegedUserIDs holds identities treated as privileged by the
	// injected authorization predicate. Comma-separated in the env.
	PrivilegedUserIDs string
}

type MediaConfig struct {
	S3Bucket       string
	S3Region       string
	S3Endpoint     string
	AccessKey      string
	SecretKey      string
	PresignExpirySeconds int
}

// LoadConfig loads configuration from environment variables.
func LoadConfig() (*Config, error) {
	return &Config{
		Server: ServerConfig{
			Port:        getEnv("SERVER_PORT", "8080"),
			Environment: getEnv("APP_ENV", "development"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "user"),
			Password: getEnv("DB_PASSWORD", "password"),
			Name:     getEnv("DB_NAME", "whitebeat"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Auth: AuthConfig{
			AccessSecret:      getEnv("AUTH_ACCESS_SECRET", "dev-secret"),
			PrivilegedUserIDs: getEnv("AUTH_PRIVILEGED_USER_IDS", ""),
		},
		Media: MediaConfig{
			S3Bucket:             getEnv("MEDIA_S3_BUCKET", "whitebeat-media"),
			S3Region:             getEnv("MEDIA_S3_REGION", "us-east-1"),
			S3Endpoint:           getEnv("MEDIA_S3_ENDPOINT", ""),
			AccessKey:            getEnv("MEDIA_S3_ACCESS_KEY", ""),
			SecretKey:            getEnv("MEDIA_S3_SECRET_KEY", ""),
			PresignExpirySeconds: getEnvAsInt("MEDIA_PRESIGN_EXPIRY_SECONDS", 900),
		},
	}, nil
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
