// internal/form/config.go
package form

import (
	"fmt"
	"time"

	"loan-intake/internal/models"
)

type Config struct {
	MaxFileSize   int64         `mapstructure:"max_file_size"`
	RelayURL      string        `mapstructure:"relay_url"`
	Timeout       time.Duration `mapstructure:"timeout"`
	Retries       int           `mapstructure:"retries"`
	RetryInterval time.Duration `mapstructure:"retry_interval"`
}

func DefaultConfig() *Config {
	return &Config{
		MaxFileSize:   models.MaxFileSize,
		RelayURL:      "http://localhost:3001",
		Timeout:       30 * time.Second,
		Retries:       1,
		RetryInterval: 500 * time.Millisecond,
	}
}

func (c *Config) Validate() error {
	if c.MaxFileSize <= 0 {
		return fmt.Errorf("max_file_size must be positive")
	}
	if c.RelayURL == "" {
		return fmt.Errorf("relay_url is required")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.Retries < 0 || c.Retries > 1 {
		return fmt.Errorf("retries must be 0 or 1")
	}
	return nil
}
