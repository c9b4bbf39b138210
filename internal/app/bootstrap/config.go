package bootstrap

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the resolved runtime configuration.
// It merges file defaults and environment overrides to support both local and deployed runs.
type Config struct {
	ServiceID string

	HTTPPort int

	DatabaseURL string
	RedisURL    string
	MaxDBConns  int32

	IngressStream   string
	IngressGroup    string
	IngressConsumer string
	EgressStream    string
	MailStream      string

	WebhookTimeout      time.Duration
	WebhookRetryMax     int
	WebhookRetryWaitMin time.Duration
	WebhookRetryWaitMax time.Duration
}

// configFile mirrors the YAML schema used by configs/default.yaml.
// It is intentionally separate from Config so runtime-only fields stay internal.
type configFile struct {
	Service struct {
		ID       string `yaml:"id"`
		HTTPPort int    `yaml:"http_port"`
	} `yaml:"service"`
	Dependencies struct {
		PostgresURL string `yaml:"postgres_url"`
		RedisURL    string `yaml:"redis_url"`
	} `yaml:"dependencies"`
	Streams struct {
		Ingress  string `yaml:"ingress"`
		Group    string `yaml:"group"`
		Consumer string `yaml:"consumer"`
		Egress   string `yaml:"egress"`
		Mail     string `yaml:"mail"`
	} `yaml:"streams"`
	Webhook struct {
		TimeoutSeconds int `yaml:"timeout_seconds"`
		RetryMax       int `yaml:"retry_max"`
	} `yaml:"webhook"`
}

// LoadConfig resolves configuration in priority order: defaults -> file -> env.
// This order keeps local bootstrap simple while allowing environment-specific overrides.
func LoadConfig(path string) (Config, error) {
	cfg := Config{
		ServiceID:           "notification-engine",
		HTTPPort:            8080,
		MaxDBConns:          20,
		IngressStream:       "notifications.ingress",
		IngressGroup:        "notification-engine",
		IngressConsumer:     "worker-1",
		EgressStream:        "notifications.egress",
		MailStream:          "notifications.mail",
		WebhookTimeout:      10 * time.Second,
		WebhookRetryMax:     3,
		WebhookRetryWaitMin: 500 * time.Millisecond,
		WebhookRetryWaitMax: 5 * time.Second,
	}

	raw, err := os.ReadFile(path)
	if err == nil {
		var f configFile
		if unmarshalErr := yaml.Unmarshal(raw, &f); unmarshalErr != nil {
			return Config{}, fmt.Errorf("parse config file: %w", unmarshalErr)
		}
		if f.Service.ID != "" {
			cfg.ServiceID = f.Service.ID
		}
		if f.Service.HTTPPort > 0 {
			cfg.HTTPPort = f.Service.HTTPPort
		}
		if f.Dependencies.PostgresURL != "" {
			cfg.DatabaseURL = f.Dependencies.PostgresURL
		}
		if f.Dependencies.RedisURL != "" {
			cfg.RedisURL = f.Dependencies.RedisURL
		}
		if f.Streams.Ingress != "" {
			cfg.IngressStream = f.Streams.Ingress
		}
		if f.Streams.Group != "" {
			cfg.IngressGroup = f.Streams.Group
		}
		if f.Streams.Consumer != "" {
			cfg.IngressConsumer = f.Streams.Consumer
		}
		if f.Streams.Egress != "" {
			cfg.EgressStream = f.Streams.Egress
		}
		if f.Streams.Mail != "" {
			cfg.MailStream = f.Streams.Mail
		}
		if f.Webhook.TimeoutSeconds > 0 {
			cfg.WebhookTimeout = time.Duration(f.Webhook.TimeoutSeconds) * time.Second
		}
		if f.Webhook.RetryMax > 0 {
			cfg.WebhookRetryMax = f.Webhook.RetryMax
		}
	}

	cfg.DatabaseURL = envOrDefault("DB_URL", envOrDefault("POSTGRES_URL", cfg.DatabaseURL))
	cfg.RedisURL = envOrDefault("REDIS_URL", cfg.RedisURL)
	cfg.HTTPPort = envInt("HTTP_PORT", cfg.HTTPPort)
	cfg.MaxDBConns = int32(envInt("DB_MAX_CONNS", int(cfg.MaxDBConns)))
	cfg.IngressStream = envOrDefault("INGRESS_STREAM", cfg.IngressStream)
	cfg.IngressGroup = envOrDefault("INGRESS_GROUP", cfg.IngressGroup)
	cfg.IngressConsumer = envOrDefault("INGRESS_CONSUMER", cfg.IngressConsumer)
	cfg.EgressStream = envOrDefault("EGRESS_STREAM", cfg.EgressStream)
	cfg.MailStream = envOrDefault("MAIL_STREAM", cfg.MailStream)
	cfg.WebhookTimeout = time.Duration(envInt("WEBHOOK_TIMEOUT_SECONDS", int(cfg.WebhookTimeout.Seconds()))) * time.Second
	cfg.WebhookRetryMax = envInt("WEBHOOK_RETRY_MAX", cfg.WebhookRetryMax)

	if cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("missing DB_URL/POSTGRES_URL")
	}
	if cfg.RedisURL == "" {
		return Config{}, fmt.Errorf("missing REDIS_URL")
	}

	return cfg, nil
}

// envOrDefault returns an env var when present, otherwise the provided fallback.
func envOrDefault(name, fallback string) string {
	if value := os.Getenv(name); value != "" {
		return value
	}
	return fallback
}

// envInt parses integer env vars with safe fallback on empty/invalid values.
func envInt(name string, fallback int) int {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
