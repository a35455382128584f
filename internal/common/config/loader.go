package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DefaultMaxFileSize = 5 * 1024 * 1024
	DefaultPort        = 3001
)

// Load reads configs/config.yaml, merges configs/config.<APP_ENVIRONMENT>.yaml and
// applies environment overrides.
func Load() (*Config, error) {
	loadEnvFile()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../../configs")
	v.AddConfigPath(".")

	setDefaults(v)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	v.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = v.MergeInConfig() // optional

	return finish(v, env)
}

// LoadFromFile loads configuration from a specific file path
func LoadFromFile(path string) (*Config, error) {
	loadEnvFile()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return finish(v, os.Getenv("APP_ENVIRONMENT"))
}

func finish(v *viper.Viper, env string) (*Config, error) {
	expandEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if cfg.App.Environment == "" {
		cfg.App.Environment = env
	}

	applyDefaults(&cfg)
	overrideFromEnv(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func loadEnvFile() {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
		"server/.env",
	}

	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

// Find project root by looking for go.mod
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		strVal, ok := v.Get(key).(string)
		if !ok {
			continue
		}
		if strings.Contains(strVal, "${") || (strings.HasPrefix(strVal, "$") && len(strVal) > 1) {
			// An unset variable expands to "", which is what the per-request
			// mail configuration check relies on.
			v.Set(key, os.ExpandEnv(strVal))
		}
	}
}

// overrideFromEnv applies the variable names the original deployment used.
func overrideFromEnv(cfg *Config) {
	if val := os.Getenv("EMAIL_USER"); val != "" {
		cfg.Mail.Account = val
	}
	if val := os.Getenv("EMAIL_PASS"); val != "" {
		cfg.Mail.Password = val
	}
	if val := os.Getenv("TO_EMAIL"); val != "" {
		cfg.Mail.Recipient = val
	}
	if val := os.Getenv("MAIL_TRANSPORT"); val != "" {
		cfg.Mail.Transport = strings.ToLower(val)
	}
	if val := os.Getenv("AWS_REGION"); val != "" && cfg.Mail.AWS.Region == "" {
		cfg.Mail.AWS.Region = val
	}
	if val := os.Getenv("PORT"); val != "" {
		if port, err := strconv.Atoi(val); err == nil {
			cfg.Server.Port = port
		}
	}
	if val := os.Getenv("RELAY_URL"); val != "" {
		cfg.Client.RelayURL = val
	}
}

// setDefaults registers defaults for settings where zero is a valid choice, so an
// explicit 0 in the file survives.
func setDefaults(v *viper.Viper) {
	v.SetDefault("relay.send_retries", 1)
	v.SetDefault("client.retries", 1)
}

// applyDefaults sets default values for optional configuration fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "loan-intake"
	}

	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultPort
	}
	if cfg.Server.Mode == "" {
		cfg.Server.Mode = "release"
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10000
	}

	if cfg.Mail.Transport == "" {
		cfg.Mail.Transport = "smtp"
	}
	if cfg.Mail.SMTP.Host == "" {
		cfg.Mail.SMTP.Host = "smtp.gmail.com"
	}
	if cfg.Mail.SMTP.Port == 0 {
		cfg.Mail.SMTP.Port = 587
		cfg.Mail.SMTP.UseTLS = true
	}
	if cfg.Mail.AWS.Region == "" {
		cfg.Mail.AWS.Region = "ap-south-1"
	}

	if cfg.Relay.MaxFileSize == 0 {
		cfg.Relay.MaxFileSize = DefaultMaxFileSize
	}
	if cfg.Relay.SendTimeout == 0 {
		cfg.Relay.SendTimeout = 30000
	}

	if cfg.Client.RelayURL == "" {
		cfg.Client.RelayURL = fmt.Sprintf("http://localhost:%d", cfg.Server.Port)
	}
	if cfg.Client.Timeout == 0 {
		cfg.Client.Timeout = 30000
	}

	if cfg.Alerts.SMS.Region == "" {
		cfg.Alerts.SMS.Region = cfg.Mail.AWS.Region
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}
}

// validateConfig checks structural settings only. Missing mail credentials are not a
// startup failure: the relay reports them per request as a configuration error.
func validateConfig(cfg *Config) error {
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535")
	}

	switch cfg.Mail.Transport {
	case "smtp", "ses":
	default:
		return fmt.Errorf("mail.transport must be smtp or ses, got %q", cfg.Mail.Transport)
	}

	if cfg.Relay.MaxFileSize < 0 {
		return fmt.Errorf("relay.max_file_size must be positive")
	}
	if cfg.Relay.SendTimeout < 0 || cfg.Client.Timeout < 0 {
		return fmt.Errorf("timeouts must be positive")
	}
	if cfg.Relay.SendRetries < 0 || cfg.Client.Retries < 0 {
		return fmt.Errorf("retries must not be negative")
	}

	if cfg.Alerts.SMS.Enabled && cfg.Alerts.SMS.PhoneNumber == "" {
		return fmt.Errorf("alerts.sms.phone_number is required when SMS alerts are enabled")
	}

	return nil
}

// GetDuration converts milliseconds from config to time.Duration
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}

// MissingMailSettings lists the original environment names of any unset mail setting.
// The SES transport authenticates through the AWS credential chain, so only the
// sender and recipient are required there.
func MissingMailSettings(m MailConfig) []string {
	var missing []string
	if strings.TrimSpace(m.Account) == "" {
		missing = append(missing, "EMAIL_USER")
	}
	if m.Transport != "ses" && strings.TrimSpace(m.Password) == "" {
		missing = append(missing, "EMAIL_PASS")
	}
	if strings.TrimSpace(m.Recipient) == "" {
		missing = append(missing, "TO_EMAIL")
	}
	return missing
}
