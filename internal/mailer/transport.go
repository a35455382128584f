// internal/mailer/transport.go
package mailer

import (
	"context"
	"fmt"

	"loan-intake/internal/common/aws"
	"loan-intake/internal/common/config"
	"loan-intake/internal/common/logger"
)

// Transport hands a message to an outbound mail service. A nil error means the
// service accepted the message, not that it was delivered.
type Transport interface {
	Send(ctx context.Context, msg *Message) error
	Name() string
}

// NewTransport builds the transport selected by cfg.Transport.
func NewTransport(ctx context.Context, cfg config.MailConfig, log logger.Logger) (Transport, error) {
	switch cfg.Transport {
	case "", "smtp":
		return NewSMTPTransport(SMTPOptions{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			UseTLS:   cfg.SMTP.UseTLS,
			Username: cfg.Account,
			Password: cfg.Password,
			Logger:   log,
		}), nil
	case "ses":
		client, err := aws.NewSESClient(ctx, cfg.AWS.Region)
		if err != nil {
			return nil, fmt.Errorf("failed to create SES client: %w", err)
		}
		return NewSESTransport(client, log), nil
	default:
		return nil, fmt.Errorf("unknown mail transport: %s", cfg.Transport)
	}
}
