// internal/relay/config.go
package relay

import (
	"fmt"
	"time"

	"loan-intake/internal/common/config"
	"loan-intake/internal/models"
)

type Config struct {
	Mail           config.MailConfig
	MaxFileSize    int64
	SendTimeout    time.Duration
	SendRetries    int
	RetryInterval  time.Duration
	AlertTimeout   time.Duration
	SubjectPrefix  string
	AllowedOrigins []string
}

func DefaultConfig() *Config {
	return &Config{
		MaxFileSize:   models.MaxFileSize,
		SendTimeout:   30 * time.Second,
		SendRetries:   1,
		RetryInterval: time.Second,
		AlertTimeout:  5 * time.Second,
		SubjectPrefix: "New Application",
	}
}

// FromAppConfig maps the loaded application config onto the relay's settings.
func FromAppConfig(cfg *config.Config) *Config {
	c := DefaultConfig()
	c.Mail = cfg.Mail
	c.AllowedOrigins = cfg.Server.AllowedOrigins
	if cfg.Relay.MaxFileSize > 0 {
		c.MaxFileSize = cfg.Relay.MaxFileSize
	}
	if cfg.Relay.SendTimeout > 0 {
		c.SendTimeout = config.GetDuration(cfg.Relay.SendTimeout)
	}
	if cfg.Relay.SendRetries >= 0 {
		c.SendRetries = cfg.Relay.SendRetries
	}
	if cfg.Relay.SubjectPrefix != "" {
		c.SubjectPrefix = cfg.Relay.SubjectPrefix
	}
	return c
}

// MaxBodySize bounds the whole request: every slot at the file limit plus room
// for the text fields and multipart framing.
func (c *Config) MaxBodySize() int64 {
	return int64(len(models.DocumentKinds))*c.MaxFileSize + 1<<20
}

// Validate checks structural settings. Missing mail credentials are reported per
// request instead.
func (c *Config) Validate() error {
	if c.MaxFileSize <= 0 {
		return fmt.Errorf("max file size must be positive")
	}
	if c.SendTimeout <= 0 {
		return fmt.Errorf("send timeout must be positive")
	}
	if c.SendRetries < 0 || c.SendRetries > 1 {
		return fmt.Errorf("send retries must be 0 or 1")
	}
	return nil
}
