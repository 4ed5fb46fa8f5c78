package config

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const minEncryptionKeyLen = 16

type Config struct {
	Port               string
	DatabaseURL        string
	SlackClientID      string
	SlackClientSecret  string
	SlackSigningSecret string
	SlackAPIURL        string
	BaseURL            string
	EncryptionKey      string
	RedisURL           string
	ReminderCheckToken string
	SchedulerEnabled   bool
	LogLevel           string
	NgrokAuthToken     string
}

// LoadEnv reads .env outside of Railway deployments, where variables are
// injected by the platform.
func LoadEnv() error {
	if os.Getenv("RAILWAY_ENVIRONMENT") != "" {
		return nil
	}
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("LoadEnv: failed to read .env: %w", err)
	}
	return nil
}

// Load builds the configuration from the environment. Every missing or invalid
// value is reported in the returned error.
func Load() (*Config, error) {
	if err := LoadEnv(); err != nil {
		return nil, err
	}
	return FromLookup(os.Getenv)
}

// FromLookup builds the configuration from getenv.
func FromLookup(getenv func(string) string) (*Config, error) {
	get := func(key string) string { return strings.TrimSpace(getenv(key)) }

	cfg := &Config{
		Port:               get("PORT"),
		DatabaseURL:        get("DATABASE_URL"),
		SlackClientID:      get("SLACK_CLIENT_ID"),
		SlackClientSecret:  get("SLACK_CLIENT_SECRET"),
		SlackSigningSecret: get("SLACK_SIGNING_SECRET"),
		SlackAPIURL:        get("SLACK_API_URL"),
		BaseURL:            strings.TrimRight(get("BASE_URL"), "/"),
		EncryptionKey:      get("ENCRYPTION_KEY"),
		RedisURL:           get("REDIS_URL"),
		ReminderCheckToken: get("REMINDER_CHECK_TOKEN"),
		LogLevel:           strings.ToLower(get("LOG_LEVEL")),
		NgrokAuthToken:     get("NGROK_AUTHTOKEN"),
	}

	var problems []string

	if cfg.Port == "" {
		cfg.Port = "8080"
	} else if _, err := strconv.Atoi(cfg.Port); err != nil {
		problems = append(problems, fmt.Sprintf("PORT must be numeric, got %q", cfg.Port))
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:" + cfg.Port
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	for key, value := range map[string]string{
		"DATABASE_URL":         cfg.DatabaseURL,
		"SLACK_CLIENT_ID":      cfg.SlackClientID,
		"SLACK_CLIENT_SECRET":  cfg.SlackClientSecret,
		"SLACK_SIGNING_SECRET": cfg.SlackSigningSecret,
		"ENCRYPTION_KEY":       cfg.EncryptionKey,
	} {
		if value == "" {
			problems = append(problems, key+" is required")
		}
	}
	if cfg.EncryptionKey != "" && len(cfg.EncryptionKey) < minEncryptionKeyLen {
		problems = append(problems, fmt.Sprintf("ENCRYPTION_KEY must be at least %d characters", minEncryptionKeyLen))
	}

	if raw := get("SCHEDULER_ENABLED"); raw != "" {
		enabled, err := strconv.ParseBool(raw)
		if err != nil {
			problems = append(problems, fmt.Sprintf("SCHEDULER_ENABLED must be a boolean, got %q", raw))
		}
		cfg.SchedulerEnabled = enabled
	}

	if len(problems) > 0 {
		sort.Strings(problems)
		return nil, fmt.Errorf("config: %s", strings.Join(problems, "; "))
	}
	return cfg, nil
}
