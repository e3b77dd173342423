package config

import (
	"fmt"
	"time"
)

// Config holds all configuration for the dashboard service.
type Config struct {
	Service       ServiceConfig       `yaml:"service"`
	Elasticsearch ElasticsearchConfig `yaml:"elasticsearch"`
	Mock          MockConfig          `yaml:"mock"`
	Logging       LoggingConfig       `yaml:"logging"`
	CORS          CORSConfig          `yaml:"cors"`
}

// ServiceConfig holds service-level configuration.
type ServiceConfig struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
	Port    int    `yaml:"port" env:"DASHBOARD_PORT"`
	Debug   bool   `yaml:"debug" env:"DASHBOARD_DEBUG"`
}

// ElasticsearchConfig holds Elasticsearch connection and query configuration.
type ElasticsearchConfig struct {
	URL          string        `yaml:"url" env:"ELASTICSEARCH_URL"`
	Username     string        `yaml:"username" env:"ELASTICSEARCH_USER"`
	Password     string        `yaml:"password" env:"ELASTICSEARCH_PASSWORD"`
	IndexPattern string        `yaml:"index_pattern" env:"ELASTICSEARCH_INDEX"`
	MaxRetries   int           `yaml:"max_retries"`
	Timeout      time.Duration `yaml:"timeout"`
	MaxResults   int           `yaml:"max_results"`
}

// MockConfig controls the synthetic dataset generated when the backend is
// unreachable.
type MockConfig struct {
	Records  int `yaml:"records"`
	SpanDays int `yaml:"span_days"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level" env:"LOG_LEVEL"`
	Format string `yaml:"format" env:"LOG_FORMAT"`
}

// CORSConfig holds CORS configuration.
type CORSConfig struct {
	Enabled          bool     `yaml:"enabled"`
	AllowedOrigins   []string `yaml:"allowed_origins" env:"CORS_ORIGINS"`
	AllowedMethods   []string `yaml:"allowed_methods"`
	AllowedHeaders   []string `yaml:"allowed_headers"`
	AllowCredentials bool     `yaml:"allow_credentials"`
	MaxAge           int      `yaml:"max_age"`
}

// Load loads configuration from file and environment variables.
func Load(path string) (*Config, error) {
	cfg, err := loadWithDefaults[Config](path, setDefaults)
	if err != nil {
		return nil, err
	}

	if validateErr := cfg.Validate(); validateErr != nil {
		return nil, fmt.Errorf("invalid configuration: %w", validateErr)
	}

	return cfg, nil
}

// setDefaults applies default values to the config.
func setDefaults(cfg *Config) {
	if cfg.Service.Name == "" {
		cfg.Service.Name = "cve-dashboard"
	}
	if cfg.Service.Version == "" {
		cfg.Service.Version = "1.0.0"
	}
	if cfg.Service.Port == 0 {
		cfg.Service.Port = 8095
	}

	if cfg.Elasticsearch.URL == "" {
		cfg.Elasticsearch.URL = "http://localhost:9200"
	}
	if cfg.Elasticsearch.IndexPattern == "" {
		cfg.Elasticsearch.IndexPattern = "nasional_cve*"
	}
	if cfg.Elasticsearch.MaxRetries == 0 {
		cfg.Elasticsearch.MaxRetries = 3
	}
	if cfg.Elasticsearch.Timeout == 0 {
		cfg.Elasticsearch.Timeout = 30 * time.Second
	}
	if cfg.Elasticsearch.MaxResults == 0 {
		cfg.Elasticsearch.MaxResults = 10000
	}

	if cfg.Mock.Records == 0 {
		cfg.Mock.Records = 1000
	}
	if cfg.Mock.SpanDays == 0 {
		cfg.Mock.SpanDays = 90
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}

	if len(cfg.CORS.AllowedOrigins) == 0 {
		cfg.CORS.AllowedOrigins = []string{"*"}
	}
	if len(cfg.CORS.AllowedMethods) == 0 {
		cfg.CORS.AllowedMethods = []string{"GET", "OPTIONS"}
	}
	if len(cfg.CORS.AllowedHeaders) == 0 {
		cfg.CORS.AllowedHeaders = []string{"Content-Type", "Authorization"}
	}
}

// validLogLevels and validLogFormats mirror the logger's accepted values.
var (
	validLogLevels  = map[string]bool{"debug": true, "info": true, "warn": true, "error": true, "fatal": true}
	validLogFormats = map[string]bool{"json": true, "console": true}
)

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Service.Port < 1 || c.Service.Port > 65535 {
		return &ValidationError{Field: "service.port", Message: fmt.Sprintf("invalid port: %d", c.Service.Port)}
	}
	if c.Elasticsearch.URL == "" {
		return &ValidationError{Field: "elasticsearch.url", Message: "is required"}
	}
	if c.Elasticsearch.IndexPattern == "" {
		return &ValidationError{Field: "elasticsearch.index_pattern", Message: "is required"}
	}
	if c.Elasticsearch.MaxResults < 1 {
		return &ValidationError{Field: "elasticsearch.max_results", Message: "must be greater than 0"}
	}
	if c.Mock.Records < 1 {
		return &ValidationError{Field: "mock.records", Message: "must be greater than 0"}
	}
	if !validLogLevels[c.Logging.Level] {
		return &ValidationError{Field: "logging.level", Message: fmt.Sprintf("unknown level %q", c.Logging.Level)}
	}
	if !validLogFormats[c.Logging.Format] {
		return &ValidationError{Field: "logging.format", Message: fmt.Sprintf("unknown format %q", c.Logging.Format)}
	}
	return nil
}
