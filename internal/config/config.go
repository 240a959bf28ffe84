package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigFileName = "worker.yaml"
	DefaultSchedule       = "* * * * *"
	DefaultBatchSize      = 500
	DefaultHTTPTimeoutSec = 30
)

type SMTPDefaults struct {
	Host      string `yaml:"host"`
	Port      int    `yaml:"port"`
	Username  string `yaml:"username"`
	Password  string `yaml:"password"`
	FromEmail string `yaml:"from_email"`
	FromName  string `yaml:"from_name"`
}

type SMSDefaults struct {
	ProviderURL string `yaml:"provider_url"`
	AccountSID  string `yaml:"account_sid"`
	AuthToken   string `yaml:"auth_token"`
	FromNumber  string `yaml:"from_number"`
}

type Config struct {
	DatabaseURL string `yaml:"database_url"`
	NATSURL     string `yaml:"nats_url"`

	// BaseURL is the public host used to build status page, dashboard,
	// logo and unsubscribe links.
	BaseURL string `yaml:"base_url"`

	// Schedule is the cron spec shared by both note jobs.
	Schedule  string `yaml:"schedule"`
	BatchSize int    `yaml:"batch_size"`

	HTTPTimeoutSec int    `yaml:"http_timeout_sec"`
	LogFile        string `yaml:"log_file"`

	SMTP SMTPDefaults `yaml:"smtp"`
	SMS  SMSDefaults  `yaml:"sms"`
}

func DefaultConfig() *Config {
	return &Config{
		NATSURL:        "nats://localhost:4222",
		Schedule:       DefaultSchedule,
		BatchSize:      DefaultBatchSize,
		HTTPTimeoutSec: DefaultHTTPTimeoutSec,
	}
}

func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("database_url is required")
	}
	if c.NATSURL == "" {
		return fmt.Errorf("nats_url is required")
	}
	if c.BaseURL == "" {
		return fmt.Errorf("base_url is required")
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("batch_size must be positive")
	}
	return nil
}

func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		path = DefaultConfigFileName
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}

	if v := os.Getenv("ONEUPTIME_DATABASE_URL"); v != "" {
		cfg.DatabaseURL = v
	}
	if v := os.Getenv("ONEUPTIME_NATS_URL"); v != "" {
		cfg.NATSURL = v
	}
	if v := os.Getenv("ONEUPTIME_BASE_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv("ONEUPTIME_SCHEDULE"); v != "" {
		cfg.Schedule = v
	}
	if v := os.Getenv("ONEUPTIME_BATCH_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("parse ONEUPTIME_BATCH_SIZE: %w", err)
		}
		cfg.BatchSize = n
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}
