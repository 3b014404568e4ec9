package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds worker configuration loaded from the environment.
type Config struct {
	AppName  string
	LogLevel string
	HTTPPort string

	RabbitURL       string
	Queue           string
	DeadLetterQueue string
	Exchange        string
	RoutingKey      string
	PrefetchCount   int
	WorkerCount     int
	MaxDeliveries   int

	DatabaseURL string
	LedgerTable string
	RedisURL    string

	TemplateServiceURL   string
	ProfileServiceURL    string
	DelegationServiceURL string
	RegistryServiceURL   string
	FeatureServiceURL    string
	ServiceToken         string
	ClientTimeout        time.Duration

	EmailEndpoint    string
	EmailAPIKey      string
	EmailFromAddress string
	EmailFromName    string
	PushEndpoint     string
	PushAPIKey       string

	TemplateCacheTTL  time.Duration
	DispatchStartHour int
	DispatchEndHour   int
	FanoutScope       string

	RetryMaxAttempts    int
	RetryInitialBackoff time.Duration
	RetryMaxBackoff     time.Duration
}

// Load loads configuration and performs basic validation.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		AppName:  getEnv("APP_NAME", "notification_worker"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		HTTPPort: getEnv("HTTP_PORT", "8083"),

		RabbitURL:       getEnv("RABBITMQ_URL", ""),
		Queue:           getEnv("NOTIFICATION_QUEUE", "notifications.queue"),
		DeadLetterQueue: getEnv("NOTIFICATION_DLQ", "notifications.dlq"),
		Exchange:        getEnv("NOTIFICATION_EXCHANGE", "notifications.direct"),
		RoutingKey:      getEnv("NOTIFICATION_ROUTING_KEY", "notification"),
		PrefetchCount:   getEnvAsInt("PREFETCH_COUNT", 1),
		WorkerCount:     getEnvAsInt("WORKER_COUNT", 1),
		MaxDeliveries:   getEnvAsInt("MAX_DELIVERIES", 4),

		DatabaseURL: getEnv("DATABASE_URL", ""),
		LedgerTable: getEnv("LEDGER_TABLE", "delivery_records"),
		RedisURL:    getEnv("REDIS_URL", ""),

		TemplateServiceURL:   getEnv("TEMPLATE_SERVICE_URL", ""),
		ProfileServiceURL:    getEnv("PROFILE_SERVICE_URL", ""),
		DelegationServiceURL: getEnv("DELEGATION_SERVICE_URL", ""),
		RegistryServiceURL:   getEnv("REGISTRY_SERVICE_URL", ""),
		FeatureServiceURL:    getEnv("FEATURE_SERVICE_URL", ""),
		ServiceToken:         getEnv("SERVICE_TOKEN", ""),
		ClientTimeout:        getEnvAsDuration("CLIENT_TIMEOUT", 10*time.Second),

		EmailEndpoint:    getEnv("EMAIL_ENDPOINT", ""),
		EmailAPIKey:      getEnv("EMAIL_API_KEY", ""),
		EmailFromAddress: getEnv("EMAIL_FROM_ADDRESS", "no-reply@island.example"),
		EmailFromName:    getEnv("EMAIL_FROM_NAME", "Digital Services"),
		PushEndpoint:     getEnv("PUSH_ENDPOINT", ""),
		PushAPIKey:       getEnv("PUSH_API_KEY", ""),

		TemplateCacheTTL:  getEnvAsDuration("TEMPLATE_CACHE_TTL", 5*time.Minute),
		DispatchStartHour: getEnvAsInt("DISPATCH_START_HOUR", 8),
		DispatchEndHour:   getEnvAsInt("DISPATCH_END_HOUR", 23),
		FanoutScope:       getEnv("FANOUT_SCOPE", "documents"),

		RetryMaxAttempts:    getEnvAsInt("RETRY_MAX_ATTEMPTS", 3),
		RetryInitialBackoff: getEnvAsDuration("RETRY_INITIAL_BACKOFF", time.Second),
		RetryMaxBackoff:     getEnvAsDuration("RETRY_MAX_BACKOFF", 15*time.Second),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	var missing []string
	if c.RabbitURL == "" {
		missing = append(missing, "RABBITMQ_URL")
	}
	if c.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if c.TemplateServiceURL == "" {
		missing = append(missing, "TEMPLATE_SERVICE_URL")
	}
	if c.ProfileServiceURL == "" {
		missing = append(missing, "PROFILE_SERVICE_URL")
	}
	if c.EmailEndpoint == "" {
		missing = append(missing, "EMAIL_ENDPOINT")
	}
	if c.PushEndpoint == "" {
		missing = append(missing, "PUSH_ENDPOINT")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %v", missing)
	}
	if c.DispatchStartHour < 0 || c.DispatchStartHour > 23 ||
		c.DispatchEndHour < 1 || c.DispatchEndHour > 24 ||
		c.DispatchStartHour >= c.DispatchEndHour {
		return fmt.Errorf("invalid dispatch window %d-%d", c.DispatchStartHour, c.DispatchEndHour)
	}
	return nil
}

func getEnv(key, def string) string {
	value, ok := os.LookupEnv(key)
	if !ok {
		return def
	}
	return value
}

func getEnvAsInt(key string, def int) int {
	if value, ok := os.LookupEnv(key); ok {
		i, err := strconv.Atoi(value)
		if err != nil {
			log.Printf("invalid int for %s, using default %d: %v", key, def, err)
			return def
		}
		return i
	}
	return def
}

func getEnvAsDuration(key string, def time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		d, err := time.ParseDuration(value)
		if err != nil {
			log.Printf("invalid duration for %s, using default %s: %v", key, def, err)
			return def
		}
		return d
	}
	return def
}
