package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config represents the complete application configuration
type Config struct {
	HTTP      HTTPConfig      `json:"http"`
	Storage   StorageConfig   `json:"storage"`
	Dashboard DashboardConfig `json:"dashboard"`
	Messaging MessagingConfig `json:"messaging"`
	Logging   LoggingConfig   `json:"logging"`
}

// HTTPConfig holds the HTTP server configuration
type HTTPConfig struct {
	Port            int           `json:"port" env:"HTTP_PORT" default:"8080"`
	EnableMetrics   bool          `json:"enable_metrics" env:"HTTP_ENABLE_METRICS" default:"true"`
	ReadTimeout     time.Duration `json:"read_timeout" env:"HTTP_READ_TIMEOUT" default:"10s"`
	WriteTimeout    time.Duration `json:"write_timeout" env:"HTTP_WRITE_TIMEOUT" default:"30s"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout" env:"HTTP_SHUTDOWN_TIMEOUT" default:"5s"`
}

// StorageConfig holds transcript and insight store configuration
type StorageConfig struct {
	// Region is the AWS region for both S3 and DynamoDB
	Region          string `json:"region" env:"AWS_REGION" default:"us-east-1"`
	AccessKeyID     string `json:"-" env:"AWS_ACCESS_KEY_ID"`
	SecretAccessKey string `json:"-" env:"AWS_SECRET_ACCESS_KEY"`

	// TranscriptBucket is the S3 bucket holding parsed transcript JSON
	TranscriptBucket string `json:"transcript_bucket" env:"TRANSCRIPT_BUCKET"`

	// TranscriptPrefix narrows enumeration to parsed transcript objects
	TranscriptPrefix string `json:"transcript_prefix" env:"TRANSCRIPT_PREFIX" default:"parsedFiles/"`

	// InsightTable is the DynamoDB table storing derived insights
	InsightTable string `json:"insight_table" env:"INSIGHT_TABLE" default:"coaching-insights"`
}

// DashboardConfig holds read-path configuration
type DashboardConfig struct {
	// MaxTranscripts bounds one refresh's enumeration for performance
	MaxTranscripts int `json:"max_transcripts" env:"DASHBOARD_MAX_TRANSCRIPTS" default:"100"`

	// CacheTTL is the validity window of the cached aggregate
	CacheTTL time.Duration `json:"cache_ttl" env:"DASHBOARD_CACHE_TTL" default:"15m"`
}

// MessagingConfig holds AMQP notification configuration
type MessagingConfig struct {
	Enabled   bool   `json:"enabled" env:"AMQP_ENABLED" default:"false"`
	URL       string `json:"-" env:"AMQP_URL"`
	QueueName string `json:"queue_name" env:"AMQP_QUEUE_NAME" default:"coaching-insight-notifications"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `json:"level" env:"LOG_LEVEL" default:"info"`
	Format string `json:"format" env:"LOG_FORMAT" default:"json"`
}

// Load reads the configuration from environment variables, optionally
// sourced from a .env file
func Load(logger *logrus.Logger) (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		logger.WithError(err).Warn("Failed to get current working directory")
		wd = "unknown"
	}

	possibleEnvFiles := []string{
		".env",
		"../.env",
		filepath.Join(wd, ".env"),
	}

	var loadedFrom string
	for _, envFile := range possibleEnvFiles {
		if _, statErr := os.Stat(envFile); statErr == nil {
			if loadErr := godotenv.Load(envFile); loadErr == nil {
				loadedFrom, _ = filepath.Abs(envFile)
				break
			}
		}
	}

	if loadedFrom != "" {
		logger.WithFields(logrus.Fields{
			"working_dir": wd,
			"path":        loadedFrom,
		}).Info("Successfully loaded .env file")
	} else {
		logger.WithField("working_dir", wd).Warn("No .env file found, using environment variables only")
	}

	config := &Config{}

	loadHTTPConfig(logger, &config.HTTP)
	loadStorageConfig(logger, &config.Storage)
	loadDashboardConfig(logger, &config.Dashboard)
	loadMessagingConfig(logger, &config.Messaging)
	loadLoggingConfig(logger, &config.Logging)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks the loaded configuration for values the service cannot
// run with
func (c *Config) Validate() error {
	if c.Storage.TranscriptBucket == "" {
		return fmt.Errorf("TRANSCRIPT_BUCKET is required")
	}
	if c.Storage.InsightTable == "" {
		return fmt.Errorf("INSIGHT_TABLE must not be empty")
	}
	if c.Dashboard.MaxTranscripts < 1 {
		return fmt.Errorf("DASHBOARD_MAX_TRANSCRIPTS must be at least 1")
	}
	if c.Dashboard.CacheTTL <= 0 {
		return fmt.Errorf("DASHBOARD_CACHE_TTL must be positive")
	}
	if c.Messaging.Enabled && c.Messaging.URL == "" {
		return fmt.Errorf("AMQP_URL is required when AMQP_ENABLED is set")
	}
	return nil
}

// loadHTTPConfig loads the HTTP configuration section
func loadHTTPConfig(logger *logrus.Logger, config *HTTPConfig) {
	httpPortStr := getEnv("HTTP_PORT", "8080")
	httpPort, err := strconv.Atoi(httpPortStr)
	if err != nil || httpPort < 1 || httpPort > 65535 {
		logger.Warn("Invalid HTTP_PORT value, using default: 8080")
		config.Port = 8080
	} else {
		config.Port = httpPort
	}

	config.EnableMetrics = getEnvBool("HTTP_ENABLE_METRICS", true)
	config.ReadTimeout = getEnvDuration("HTTP_READ_TIMEOUT", 10*time.Second)
	config.WriteTimeout = getEnvDuration("HTTP_WRITE_TIMEOUT", 30*time.Second)
	config.ShutdownTimeout = getEnvDuration("HTTP_SHUTDOWN_TIMEOUT", 5*time.Second)
}

// loadStorageConfig loads the storage configuration section
func loadStorageConfig(logger *logrus.Logger, config *StorageConfig) {
	config.Region = getEnv("AWS_REGION", "us-east-1")
	config.AccessKeyID = getEnv("AWS_ACCESS_KEY_ID", "")
	config.SecretAccessKey = getEnv("AWS_SECRET_ACCESS_KEY", "")
	config.TranscriptBucket = getEnv("TRANSCRIPT_BUCKET", "")
	config.TranscriptPrefix = getEnv("TRANSCRIPT_PREFIX", "parsedFiles/")
	config.InsightTable = getEnv("INSIGHT_TABLE", "coaching-insights")

	if config.TranscriptBucket == "" {
		logger.Warn("TRANSCRIPT_BUCKET is not set")
	}
}

// loadDashboardConfig loads the dashboard configuration section
func loadDashboardConfig(logger *logrus.Logger, config *DashboardConfig) {
	config.MaxTranscripts = getEnvInt("DASHBOARD_MAX_TRANSCRIPTS", 100)
	if config.MaxTranscripts < 1 {
		logger.Warn("Invalid DASHBOARD_MAX_TRANSCRIPTS value, using default: 100")
		config.MaxTranscripts = 100
	}

	config.CacheTTL = getEnvDuration("DASHBOARD_CACHE_TTL", 15*time.Minute)
	if config.CacheTTL <= 0 {
		logger.Warn("Invalid DASHBOARD_CACHE_TTL value, using default: 15m")
		config.CacheTTL = 15 * time.Minute
	}
}

// loadMessagingConfig loads the messaging configuration section
func loadMessagingConfig(logger *logrus.Logger, config *MessagingConfig) {
	config.Enabled = getEnvBool("AMQP_ENABLED", false)
	config.URL = getEnv("AMQP_URL", "")
	config.QueueName = getEnv("AMQP_QUEUE_NAME", "coaching-insight-notifications")

	if config.Enabled && config.URL == "" {
		logger.Warn("AMQP_ENABLED is set but AMQP_URL is empty")
	}
}

// loadLoggingConfig loads the logging configuration section
func loadLoggingConfig(logger *logrus.Logger, config *LoggingConfig) {
	config.Level = getEnv("LOG_LEVEL", "info")
	config.Format = getEnv("LOG_FORMAT", "json")
}

// Helper function to get an environment variable with a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// Helper function to get a boolean environment variable with a default value
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	switch strings.ToLower(value) {
	case "true", "yes", "1", "on":
		return true
	case "false", "no", "0", "off":
		return false
	default:
		return defaultValue
	}
}

// Helper function to get an integer environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	intValue, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	return intValue
}

// Helper function to get a duration environment variable with a default value
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	duration, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}

	return duration
}
