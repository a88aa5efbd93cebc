// Package config provides application configuration.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Port           string
	BaseURL        string
	SiteName       string
	StoreDriver    string // "sqlite" or "postgres"
	DBPath         string
	DatabaseURL    string
	CatalogDir     string // empty = embedded catalog
	AhrefsUpstream string
	TawkUpstream   string
	ProxyTimeout   time.Duration
	PingURLs       []string
	PingInterval   time.Duration
	QuizTick       time.Duration
	AllowedOrigins []string
	Timeout        TimeoutConfig
}

// TimeoutConfig holds server-side timeouts.
type TimeoutConfig struct {
	HealthCheck time.Duration
	Shutdown    time.Duration
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Port:           getEnv("PORT", "8080"),
		BaseURL:        getEnv("BASE_URL", "https://connectingdotserp.com"),
		SiteName:       getEnv("SITE_NAME", "Connecting Dots ERP"),
		StoreDriver:    strings.ToLower(getEnv("STORE_DRIVER", "sqlite")),
		DBPath:         getEnv("DB_PATH", "./data/site.db"),
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		CatalogDir:     getEnv("CATALOG_DIR", ""),
		AhrefsUpstream: getEnv("AHREFS_UPSTREAM", "https://analytics.ahrefs.com/analytics.js"),
		TawkUpstream:   getEnv("TAWK_UPSTREAM", "https://embed.tawk.to"),
		ProxyTimeout:   getEnvDuration("PROXY_TIMEOUT", 10*time.Second),
		PingURLs:       getEnvList("PING_URLS"),
		PingInterval:   getEnvDuration("PING_INTERVAL", 5*time.Minute),
		QuizTick:       getEnvDuration("QUIZ_TICK", time.Second),
		AllowedOrigins: getEnvList("ALLOWED_ORIGINS"),
		Timeout: TimeoutConfig{
			HealthCheck: getEnvDuration("HEALTH_CHECK_TIMEOUT", 5*time.Second),
			Shutdown:    getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		},
	}
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = []string{"*"}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required configuration fields are set.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}
	if c.BaseURL == "" {
		return fmt.Errorf("BASE_URL cannot be empty")
	}
	switch c.StoreDriver {
	case "sqlite":
		if c.DBPath == "" {
			return fmt.Errorf("DB_PATH cannot be empty")
		}
	case "postgres":
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required when STORE_DRIVER=postgres")
		}
	default:
		return fmt.Errorf("STORE_DRIVER must be sqlite or postgres, got %q", c.StoreDriver)
	}
	if c.ProxyTimeout <= 0 {
		return fmt.Errorf("PROXY_TIMEOUT must be > 0")
	}
	if c.QuizTick <= 0 {
		return fmt.Errorf("QUIZ_TICK must be > 0")
	}
	return nil
}

// StoreDSN returns the data source for the configured driver.
func (c *Config) StoreDSN() string {
	if c.StoreDriver == "postgres" {
		return c.DatabaseURL
	}
	return c.DBPath
}

// IsDevelopment returns true when the site is served from a local origin.
func (c *Config) IsDevelopment() bool {
	return strings.Contains(c.BaseURL, "localhost") ||
		strings.Contains(c.BaseURL, "127.0.0.1")
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return d
}

func getEnvList(key string) []string {
	value, ok := os.LookupEnv(key)
	if !ok {
		return nil
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
