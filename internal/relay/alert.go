// internal/relay/alert.go
package relay

import (
	"context"
	"fmt"
	"strings"

	"loan-intake/internal/common/aws"
	"loan-intake/internal/common/logger"
	"loan-intake/internal/models"
)

// Alerter notifies operators that an application has been forwarded.
type Alerter interface {
	Notify(ctx context.Context, app *models.Application, referenceID string) error
}

// SMSPublisher is satisfied by *aws.SNSClient.
type SMSPublisher interface {
	PublishSMS(ctx context.Context, phoneNumber, message, senderID string) (string, error)
}

var _ SMSPublisher = (*aws.SNSClient)(nil)

type SMSAlerter struct {
	publisher   SMSPublisher
	phoneNumber string
	senderID    string
	logger      logger.Logger
}

func NewSMSAlerter(publisher SMSPublisher, phoneNumber, senderID string, log logger.Logger) *SMSAlerter {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &SMSAlerter{
		publisher:   publisher,
		phoneNumber: phoneNumber,
		senderID:    senderID,
		logger:      log.WithFields(map[string]interface{}{"component": "sms-alert"}),
	}
}

func (a *SMSAlerter) Notify(ctx context.Context, app *models.Application, referenceID string) error {
	messageID, err := a.publisher.PublishSMS(ctx, a.phoneNumber, alertText(app, referenceID), a.senderID)
	if err != nil {
		return fmt.Errorf("failed to publish SMS alert: %w", err)
	}
	a.logger.Debug("SMS alert published", map[string]interface{}{
		"referenceId": referenceID,
		"messageId":   messageID,
	})
	return nil
}

// alertText keeps to a single SMS segment where possible.
func alertText(app *models.Application, referenceID string) string {
	name := strings.TrimSpace(app.FullName)
	if name == "" {
		name = "Unknown"
	}
	text := fmt.Sprintf("New loan application: %s", name)
	if mobile := strings.TrimSpace(app.Mobile); mobile != "" {
		text += fmt.Sprintf(" (%s)", mobile)
	}
	if amount := strings.TrimSpace(app.LoanAmount); amount != "" {
		text += fmt.Sprintf(", amount %s", amount)
	}
	if referenceID != "" {
		text += fmt.Sprintf(". Ref %s", referenceID)
	}
	return text
}
