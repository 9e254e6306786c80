// Package config loads the process-wide settings once at startup.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// MinSecretLength is the shortest HS256 signing secret accepted, in bytes.
const MinSecretLength = 32

const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// AuthConfig holds the token signing settings. It is immutable after Load.
type AuthConfig struct {
	Secret   []byte
	Lifetime time.Duration
}

type ServerConfig struct {
	Addr           string
	AllowedOrigins []string
}

type AppConfig struct {
	Auth    AuthConfig
	Server  ServerConfig
	Storage string
}

// Load reads .env (best-effort) and the environment. Every problem found is
// reported in the returned error so a misconfigured process fails once with
// the full list instead of one variable at a time.
func Load() (*AppConfig, error) {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds an AppConfig from the current environment only.
func FromEnv() (*AppConfig, error) {
	var problems []string

	secret := getRequiredEnv("JWT_SECRET", &problems)
	if secret != "" && len(secret) < MinSecretLength {
		problems = append(problems, fmt.Sprintf("JWT_SECRET must be at least %d bytes", MinSecretLength))
	}
	lifetime := getOptionalEnvDuration("JWT_LIFETIME", 7*24*time.Hour, &problems)
	if lifetime <= 0 {
		problems = append(problems, "JWT_LIFETIME must be positive")
	}

	storage := strings.ToLower(getOptionalEnv("STORAGE", StoragePostgres))
	if storage != StoragePostgres && storage != StorageMemory {
		problems = append(problems, fmt.Sprintf("STORAGE must be %q or %q, got %q", StoragePostgres, StorageMemory, storage))
	}

	if len(problems) > 0 {
		return nil, errors.New("config: " + strings.Join(problems, "; "))
	}

	auth := AuthConfig{Secret: []byte(secret), Lifetime: lifetime}
	server := ServerConfig{
		Addr:           getOptionalEnv("HTTP_ADDR", "0.0.0.0:8431"),
		AllowedOrigins: splitList(getOptionalEnv("CORS_ALLOWED_ORIGINS", "*")),
	}
	return &AppConfig{Auth: auth, Server: server, Storage: storage}, nil
}

func getRequiredEnv(key string, problems *[]string) string {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		*problems = append(*problems, "missing required environment variable: "+key)
		return ""
	}
	return value
}

func getOptionalEnv(key, def string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return def
}

func getOptionalEnvDuration(key string, def time.Duration, problems *[]string) time.Duration {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return def
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		*problems = append(*problems, fmt.Sprintf("invalid value for %s: %v", key, err))
		return def
	}
	return d
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
