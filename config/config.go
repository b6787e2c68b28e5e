package config

import (
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the overall application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Push     PushConfig     `yaml:"push"`
	Storage  StorageConfig  `yaml:"storage"`
	Queue    QueueConfig    `yaml:"queue"`
}

// ServerConfig holds the server-related configuration.
type ServerConfig struct {
	Port            int     `yaml:"port"`
	PublicBaseURL   string  `yaml:"public_base_url"`
	RateLimitPerSec float64 `yaml:"rate_limit_per_sec"`
	RateLimitBurst  int     `yaml:"rate_limit_burst"`
	CacheTTLSeconds int     `yaml:"cache_ttl_seconds"`
}

// PushConfig holds the VAPID keys for web push notifications.
type PushConfig struct {
	PublicKey  string `yaml:"vapid_public_key"`
	PrivateKey string `yaml:"vapid_private_key"`
	Subject    string `yaml:"subject"`
	TTL        int    `yaml:"ttl"`
}

// DatabaseConfig holds the database connection configuration.
type DatabaseConfig struct {
	DSN                    string `yaml:"dsn"`
	MaxOpenConns           int    `yaml:"max_open_conns"`
	MaxIdleConns           int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `yaml:"conn_max_lifetime_minutes"`
}

// StorageConfig holds the S3-compatible blob storage configuration.
type StorageConfig struct {
	Endpoint      string `yaml:"endpoint"`
	AccessKey     string `yaml:"access_key"`
	SecretKey     string `yaml:"secret_key"`
	UseSSL        bool   `yaml:"use_ssl"`
	PublicBaseURL string `yaml:"public_base_url"`
}

// QueueConfig holds the ticket expiry settings.
type QueueConfig struct {
	SweepIntervalSeconds int           `yaml:"sweep_interval_seconds"`
	RetentionMinutes     int           `yaml:"retention_minutes"`
	SweepInterval        time.Duration `yaml:"-"`
	Retention            time.Duration `yaml:"-"`
}

// Load reads the configuration from the given path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, err
	}

	if cfg.Server.RateLimitPerSec <= 0 {
		cfg.Server.RateLimitPerSec = 10
	}
	if cfg.Server.RateLimitBurst <= 0 {
		cfg.Server.RateLimitBurst = 5
	}
	if cfg.Server.CacheTTLSeconds <= 0 {
		cfg.Server.CacheTTLSeconds = 60
	}

	if cfg.Push.TTL <= 0 {
		cfg.Push.TTL = 3600
	}

	if cfg.Queue.SweepIntervalSeconds <= 0 {
		log.Printf("queue.sweep_interval_seconds is not set or invalid; defaulting to 300")
		cfg.Queue.SweepIntervalSeconds = 300
	}
	if cfg.Queue.RetentionMinutes <= 0 {
		cfg.Queue.RetentionMinutes = 60
	}
	cfg.Queue.SweepInterval = time.Duration(cfg.Queue.SweepIntervalSeconds) * time.Second
	cfg.Queue.Retention = time.Duration(cfg.Queue.RetentionMinutes) * time.Minute

	return &cfg, nil
}
