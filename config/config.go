package config

import (
	"bufio"
	"errors"
	"os"
	"strings"
)

// Config holds all process-wide settings, read once at startup.
type Config struct {
	Port           string
	DatabasePath   string
	JWTSecret      string
	Env            string
	AllowedOrigins []string
}

// devSecret is used only when APP_ENV is not "production" and no
// JWT_SECRET is set. Never ship a build that relies on it.
const devSecret = "dev-only-secret-change-me"

var ErrMissingSecret = errors.New("JWT_SECRET must be set in production")

// FromEnv builds a Config from environment variables.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Port:         os.Getenv("PORT"),
		DatabasePath: os.Getenv("DATABASE_PATH"),
		JWTSecret:    os.Getenv("JWT_SECRET"),
		Env:          os.Getenv("APP_ENV"),
	}

	if cfg.Port == "" {
		cfg.Port = "3000"
	}
	if cfg.DatabasePath == "" {
		cfg.DatabasePath = "./todo.db"
	}
	if cfg.Env == "" {
		cfg.Env = "development"
	}

	if cfg.JWTSecret == "" {
		if cfg.Env == "production" {
			return nil, ErrMissingSecret
		}
		cfg.JWTSecret = devSecret
	}

	origins := os.Getenv("ALLOWED_ORIGINS")
	if origins == "" {
		cfg.AllowedOrigins = []string{"*"}
	} else {
		for _, o := range strings.Split(origins, ",") {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, strings.TrimSpace(o))
		}
	}

	return cfg, nil
}

// UsingDevSecret reports whether the fallback secret is in use, so the
// caller can log a warning.
func (c *Config) UsingDevSecret() bool {
	return c.JWTSecret == devSecret
}

// LoadEnv loads environment variables from a .env file. Missing files are
// not an error; existing environment variables are not overwritten.
func LoadEnv(filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if len(line) == 0 || strings.HasPrefix(line, "#") {
			continue
		}

		// Split on the first equals sign
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue // Skip malformed lines
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		value = strings.Trim(value, `"'`)

		if _, exists := os.LookupEnv(key); !exists {
			os.Setenv(key, value)
		}
	}

	return scanner.Err()
}
