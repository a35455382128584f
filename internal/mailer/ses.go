// internal/mailer/ses.go
package mailer

import (
	"context"
	"fmt"

	"loan-intake/internal/common/logger"
)

// RawEmailSender is satisfied by aws.SESClient.
type RawEmailSender interface {
	SendRawEmail(ctx context.Context, from string, to []string, raw []byte) (string, error)
}

// SESTransport sends the composed MIME message through Amazon SES.
type SESTransport struct {
	client RawEmailSender
	logger logger.Logger
}

func NewSESTransport(client RawEmailSender, log logger.Logger) *SESTransport {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &SESTransport{
		client: client,
		logger: log.WithFields(map[string]interface{}{"transport": "ses"}),
	}
}

func (t *SESTransport) Name() string { return "ses" }

func (t *SESTransport) Send(ctx context.Context, msg *Message) error {
	raw, err := Compose(msg)
	if err != nil {
		return err
	}

	messageID, err := t.client.SendRawEmail(ctx, msg.From, msg.To, raw)
	if err != nil {
		return fmt.Errorf("SES send failed: %w", err)
	}

	t.logger.Debug("Email accepted by SES", map[string]interface{}{
		"messageId":   messageID,
		"attachments": len(msg.Attachments),
		"bytes":       len(raw),
	})
	return nil
}
