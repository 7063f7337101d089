package config

import (
	"crypto/rand"
	"encoding/base64"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	// MinSessionSecretLength is the minimum required length for session secret in production
	MinSessionSecretLength = 32
)

// DefaultTasks is the task catalogue seeded on first start when SEED_TASKS is not set
var DefaultTasks = []string{
	"feeding",
	"varroa treatment",
	"honey harvest",
	"queen marking",
	"swarm control",
	"frame exchange",
}

type Config struct {
	ServerPort  string
	Environment string

	// Store
	DBType string // sqlite, postgres or mysql
	DBPath string // sqlite file path
	DBDSN  string // connection string for postgres/mysql

	// Session
	AllowedOrigins  []string
	SessionSecret   string
	LoginRateLimit  int // login attempts per LoginRateWindow per client IP
	LoginRateWindow time.Duration

	// Core tuning
	NumberingMaxAttempts int
	TaskCacheTTL         time.Duration
	SeedTasks            []string

	// Export storage (local directory or S3-compatible bucket)
	ExportDir         string
	S3Endpoint        string
	S3Region          string
	S3AccessKeyID     string
	S3SecretAccessKey string
	S3Bucket          string
	S3PublicURL       string
}

func Load() *Config {
	// Load .env file (ignore error if not present - use system env vars)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	environment := getEnv("ENVIRONMENT", "development")
	sessionSecret := getEnv("SESSION_SECRET", "")

	ValidateSessionSecret(sessionSecret, environment)

	if sessionSecret == "" && environment != "production" {
		sessionSecret = GenerateSecureSecret()
		log.Println("[INFO] Generated temporary session secret for development. Set SESSION_SECRET env var for persistence.")
	}

	seedTasks := DefaultTasks
	if raw := os.Getenv("SEED_TASKS"); raw != "" {
		seedTasks = splitList(raw)
	}

	return &Config{
		ServerPort:           getEnv("SERVER_PORT", "8080"),
		Environment:          environment,
		DBType:               strings.ToLower(getEnv("DB_TYPE", "sqlite")),
		DBPath:               getEnv("DB_PATH", "db/apiary.db"),
		DBDSN:                os.Getenv("DATABASE_DSN"),
		AllowedOrigins:       splitList(getEnv("ALLOWED_ORIGINS", "*")),
		SessionSecret:        sessionSecret,
		LoginRateLimit:       getEnvInt("LOGIN_RATE_LIMIT", 10),
		LoginRateWindow:      getEnvDuration("LOGIN_RATE_WINDOW", time.Minute),
		NumberingMaxAttempts: getEnvInt("NUMBERING_MAX_ATTEMPTS", 5),
		TaskCacheTTL:         getEnvDuration("TASK_CACHE_TTL", 10*time.Minute),
		SeedTasks:            seedTasks,
		ExportDir:            getEnv("EXPORT_DIR", "static/exports"),
		S3Endpoint:           os.Getenv("S3_ENDPOINT"),
		S3Region:             getEnv("S3_REGION", "auto"),
		S3AccessKeyID:        os.Getenv("S3_ACCESS_KEY_ID"),
		S3SecretAccessKey:    os.Getenv("S3_SECRET_ACCESS_KEY"),
		S3Bucket:             os.Getenv("S3_BUCKET"),
		S3PublicURL:          os.Getenv("S3_PUBLIC_URL"),
	}
}

// HasS3Storage reports whether every setting needed for bucket storage is present
func (c *Config) HasS3Storage() bool {
	return c.S3AccessKeyID != "" && c.S3SecretAccessKey != "" && c.S3Bucket != ""
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		log.Printf("Using default value for %s: %s", key, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		log.Printf("[WARNING] Invalid value for %s (%q), using %d", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := time.ParseDuration(value)
	if err != nil || parsed <= 0 {
		log.Printf("[WARNING] Invalid duration for %s (%q), using %s", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// ValidateSessionSecret validates the session secret meets security requirements
// In production, it must be at least 32 bytes and not a known insecure default
func ValidateSessionSecret(secret string, environment string) error {
	insecureDefaults := []string{
		"dev-secret-change-in-production",
		"change-me",
		"secret",
		"development",
		"test",
		"",
	}

	for _, insecure := range insecureDefaults {
		if strings.EqualFold(secret, insecure) {
			if environment == "production" {
				log.Fatal("[CRITICAL] SESSION_SECRET is set to an insecure default value. Generate a secure random secret with: openssl rand -base64 32")
			}
			log.Printf("[WARNING] SESSION_SECRET is set to an insecure default value. This is acceptable only in development.")
			return nil
		}
	}

	if environment == "production" && len(secret) < MinSessionSecretLength {
		log.Fatalf("[CRITICAL] SESSION_SECRET must be at least %d characters in production (current: %d)", MinSessionSecretLength, len(secret))
	}

	return nil
}

// GenerateSecureSecret generates a cryptographically secure random secret
func GenerateSecureSecret() string {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		log.Printf("[WARNING] Failed to generate secure secret: %v", err)
		return ""
	}
	return base64.StdEncoding.EncodeToString(bytes)
}
