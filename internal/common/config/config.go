// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Server    ServerConfig    `mapstructure:"server"`
	Mail      MailConfig      `mapstructure:"mail"`
	Relay     RelayConfig     `mapstructure:"relay"`
	Client    ClientConfig    `mapstructure:"client"`
	Documents DocumentsConfig `mapstructure:"documents"`
	Alerts    AlertsConfig    `mapstructure:"alerts"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Port            int      `mapstructure:"port"`
	Mode            string   `mapstructure:"mode"` // gin mode: debug, release, test
	AllowedOrigins  []string `mapstructure:"allowed_origins"`
	ShutdownTimeout int      `mapstructure:"shutdown_timeout"` // milliseconds
	MetricsEnabled  bool     `mapstructure:"metrics_enabled"`
}

// Address returns the listen address for the HTTP server.
func (s ServerConfig) Address() string {
	return fmt.Sprintf(":%d", s.Port)
}

// MailConfig holds the outbound mail transport settings. Account, Password and
// Recipient map onto EMAIL_USER, EMAIL_PASS and TO_EMAIL.
type MailConfig struct {
	Transport string `mapstructure:"transport"` // smtp or ses
	Account   string `mapstructure:"account"`
	Password  string `mapstructure:"password"`
	Recipient string `mapstructure:"recipient"`
	From      string `mapstructure:"from"`

	SMTP struct {
		Host   string `mapstructure:"host"`
		Port   int    `mapstructure:"port"`
		UseTLS bool   `mapstructure:"use_tls"`
	} `mapstructure:"smtp"`

	AWS struct {
		Region string `mapstructure:"region"`
	} `mapstructure:"aws"`
}

// Sender returns the envelope sender, falling back to the account name.
func (m MailConfig) Sender() string {
	if m.From != "" {
		return m.From
	}
	return m.Account
}

// RelayConfig holds settings for the intake endpoint.
type RelayConfig struct {
	MaxFileSize   int64  `mapstructure:"max_file_size"` // bytes
	SendTimeout   int    `mapstructure:"send_timeout"`  // milliseconds
	SendRetries   int    `mapstructure:"send_retries"`
	SubjectPrefix string `mapstructure:"subject_prefix"`
}

// ClientConfig holds settings used by the form engine's relay client.
type ClientConfig struct {
	RelayURL string `mapstructure:"relay_url"`
	Timeout  int    `mapstructure:"timeout"` // milliseconds
	Retries  int    `mapstructure:"retries"`
}

type DocumentsConfig struct {
	RegistryPath string `mapstructure:"registry_path"`
}

// AlertsConfig holds the optional operator SMS alert.
type AlertsConfig struct {
	SMS struct {
		Enabled     bool   `mapstructure:"enabled"`
		PhoneNumber string `mapstructure:"phone_number"`
		SenderID    string `mapstructure:"sender_id"`
		Region      string `mapstructure:"region"`
	} `mapstructure:"sms"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}
