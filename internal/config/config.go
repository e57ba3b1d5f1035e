package config

import (
	"fmt"
	"os"
	"time"

	"github.com/yigit/unisphere-courses/internal/app/models"
	"github.com/yigit/unisphere-courses/internal/pkg/helpers"
	"gopkg.in/yaml.v3"
)

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port           string   `yaml:"port" env:"SERVER_PORT"`
		Mode           string   `yaml:"mode" env:"SERVER_MODE"`
		AllowedOrigins []string `yaml:"allowed_origins" env:"SERVER_ALLOWED_ORIGINS"`
	} `yaml:"server"`

	Database struct {
		Host            string `yaml:"host" env:"DB_HOST"`
		Port            string `yaml:"port" env:"DB_PORT"`
		User            string `yaml:"user" env:"DB_USER"`
		Password        string `yaml:"password" env:"DB_PASSWORD"`
		DBName          string `yaml:"dbname" env:"DB_NAME"`
		SSLMode         string `yaml:"sslmode" env:"DB_SSLMODE"`
		MaxOpenConns    int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
		MaxIdleConns    int    `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS"`
		ConnMaxLifetime string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`
		MigrationsDir   string `yaml:"migrations_dir" env:"DB_MIGRATIONS_DIR"`
	} `yaml:"database"`

	JWT struct {
		Secret string `yaml:"secret" env:"JWT_SECRET"`
		Issuer string `yaml:"issuer" env:"JWT_ISSUER"`
	} `yaml:"jwt"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`

	Discussion struct {
		BaseURL   string `yaml:"base_url" env:"DISCUSSION_BASE_URL"`
		Timeout   string `yaml:"timeout" env:"DISCUSSION_TIMEOUT"`
		Workers   int    `yaml:"workers" env:"DISCUSSION_WORKERS"`
		QueueSize int    `yaml:"queue_size" env:"DISCUSSION_QUEUE_SIZE"`
	} `yaml:"discussion"`

	Courses struct {
		IDPolicy       string `yaml:"id_policy" env:"COURSES_ID_POLICY"`
		SeedSampleData bool   `yaml:"seed_sample_data" env:"COURSES_SEED_SAMPLE_DATA"`
	} `yaml:"courses"`

	Redis struct {
		Addr     string `yaml:"addr" env:"REDIS_ADDR"`
		Password string `yaml:"password" env:"REDIS_PASSWORD"`
		DB       int    `yaml:"db" env:"REDIS_DB"`
		CacheTTL string `yaml:"cache_ttl" env:"REDIS_CACHE_TTL"`
	} `yaml:"redis"`
}

// LoadConfig loads configuration from a file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	// Load default config with sane defaults
	config := &Config{}
	setDefaults(config)

	// Try to read config file if it exists
	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	// Override with environment variables
	if err := processStructFields(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	// Server defaults
	config.Server.Port = "8080"
	config.Server.Mode = "development"

	// Database defaults
	config.Database.Host = "localhost"
	config.Database.Port = "5432"
	config.Database.User = "postgres"
	config.Database.Password = "postgres"
	config.Database.DBName = "courses"
	config.Database.SSLMode = "disable"
	config.Database.MaxOpenConns = 20
	config.Database.MaxIdleConns = 5
	config.Database.ConnMaxLifetime = "1h"
	config.Database.MigrationsDir = "migrations"

	// JWT defaults
	config.JWT.Issuer = "unisphere.app"

	// Logging defaults
	config.Logging.Level = "info"
	config.Logging.Format = "json"

	// Discussion defaults
	config.Discussion.Timeout = "3s"
	config.Discussion.Workers = 4
	config.Discussion.QueueSize = 256

	// Course defaults
	config.Courses.IDPolicy = string(models.CourseIDClient)

	// Redis defaults
	config.Redis.CacheTTL = "5m"
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	if config.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if config.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}

	switch models.CourseIDPolicy(config.Courses.IDPolicy) {
	case models.CourseIDClient, models.CourseIDStore:
	default:
		return fmt.Errorf("courses id_policy must be %q or %q, got %q",
			models.CourseIDClient, models.CourseIDStore, config.Courses.IDPolicy)
	}

	if _, err := time.ParseDuration(config.Discussion.Timeout); err != nil {
		return fmt.Errorf("invalid discussion timeout format: %w", err)
	}

	if config.Discussion.Workers < 0 || config.Discussion.QueueSize < 0 {
		return fmt.Errorf("discussion workers and queue_size must not be negative")
	}

	return nil
}

// GetPostgresConnectionString returns postgres connection string
func (c *Config) GetPostgresConnectionString() string {
	sslMode := c.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.DBName,
		sslMode,
	)
}

// DiscussionTimeout returns the per-call budget for Discussion Service requests.
func (c *Config) DiscussionTimeout() time.Duration {
	return helpers.ParseDuration(c.Discussion.Timeout, 3*time.Second)
}

// CacheTTL returns how long course listings stay cached.
func (c *Config) CacheTTL() time.Duration {
	return helpers.ParseDuration(c.Redis.CacheTTL, 5*time.Minute)
}

// CourseIDPolicy returns the configured courseID assignment policy.
func (c *Config) CourseIDPolicy() models.CourseIDPolicy {
	return models.CourseIDPolicy(c.Courses.IDPolicy)
}

// GetEnv gets an environment variable or returns a default value
func GetEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
