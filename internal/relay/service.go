// internal/relay/service.go
package relay

import (
	"context"
	stderrors "errors"
	"net/mail"
	"strings"
	"time"

	"loan-intake/internal/common/config"
	"loan-intake/internal/common/errors"
	"loan-intake/internal/common/logger"
	"loan-intake/internal/common/metrics"
	"loan-intake/internal/common/observability"
	"loan-intake/internal/mailer"
	"loan-intake/pkg/registry"

	"github.com/google/uuid"
)

type ServiceDependencies struct {
	Logger        logger.Logger
	Transport     mailer.Transport
	Alerter       Alerter
	Observability *observability.Observability
	Documents     *registry.DocumentRegistry
}

// Service turns one parsed application into one outbound email.
type Service struct {
	config    *Config
	logger    logger.Logger
	transport mailer.Transport
	alerter   Alerter
	obs       *observability.Observability
	docs      *registry.DocumentRegistry
}

func NewService(deps ServiceDependencies, config *Config) *Service {
	log := deps.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	docs := deps.Documents
	if docs == nil {
		docs = registry.DefaultRegistry()
	}
	return &Service{
		config:    config,
		logger:    log,
		transport: deps.Transport,
		alerter:   deps.Alerter,
		obs:       deps.Observability,
		docs:      docs,
	}
}

// Execute composes the notification email and hands it to the transport. Field
// values are forwarded as received; the relay does not re-validate them.
func (s *Service) Execute(ctx context.Context, input *Input) (*Output, error) {
	if missing := config.MissingMailSettings(s.config.Mail); len(missing) > 0 {
		return nil, errors.NewMailNotConfiguredError(missing)
	}
	if s.transport == nil {
		return nil, errors.NewMailNotConfiguredError([]string{"mail transport"})
	}

	referenceID := uuid.New().String()
	msg := s.buildMessage(input, referenceID)

	s.logger.Info("Forwarding application", map[string]interface{}{
		"requestId":   input.RequestID,
		"referenceId": referenceID,
		"attachments": len(msg.Attachments),
		"bytes":       msg.Size(),
		"transport":   s.transport.Name(),
	})

	if err := s.send(ctx, msg); err != nil {
		return nil, err
	}

	for _, a := range input.Attachments {
		metrics.AttachmentsForwarded.WithLabelValues(string(a.Kind)).Inc()
		metrics.AttachmentBytes.WithLabelValues(string(a.Kind)).Add(float64(len(a.Data)))
	}

	s.logger.Info("Application forwarded", map[string]interface{}{
		"requestId":   input.RequestID,
		"referenceId": referenceID,
	})

	s.alert(ctx, input, referenceID)

	return &Output{OK: true, ReferenceID: referenceID}, nil
}

func (s *Service) buildMessage(input *Input, referenceID string) *mailer.Message {
	app := input.Application

	attachments := make([]mailer.Attachment, 0, len(input.Attachments))
	for _, a := range input.Attachments {
		attachments = append(attachments, mailer.Attachment{
			Filename:    a.Filename,
			ContentType: a.ContentType,
			Data:        a.Data,
		})
	}

	msg := &mailer.Message{
		From:        s.config.Mail.Sender(),
		To:          []string{s.config.Mail.Recipient},
		Subject:     BuildSubject(s.config.SubjectPrefix, app),
		Text:        BuildSummary(app, input.Attachments, s.docs),
		Attachments: attachments,
		Headers: map[string]string{
			"X-Reference-ID": referenceID,
		},
	}
	if replyTo := strings.TrimSpace(app.Email); replyTo != "" {
		if addr, err := mail.ParseAddress(replyTo); err == nil {
			msg.ReplyTo = addr.Address
		}
	}
	return msg
}

// send makes at most 1+SendRetries attempts, each bounded by SendTimeout. Only
// failures whose error code allows a retry are attempted again.
func (s *Service) send(ctx context.Context, msg *mailer.Message) error {
	name := s.transport.Name()

	var lastErr error
	for attempt := 1; ; attempt++ {
		err := s.attempt(ctx, msg)
		if err == nil {
			return nil
		}
		lastErr = err

		code := sendErrorCode(err)
		retries := min(s.config.SendRetries, errors.GetRetryCount(code))
		if !errors.IsRetryableErrorCode(code) || attempt > retries || ctx.Err() != nil {
			break
		}

		s.logger.Warn("Mail send failed, retrying", map[string]interface{}{
			"attempt":   attempt,
			"transport": name,
			"code":      string(code),
			"error":     err,
		})
		select {
		case <-ctx.Done():
			return errors.NewMailSendFailedError(name, ctx.Err())
		case <-time.After(s.config.RetryInterval):
		}
	}

	if sendErrorCode(lastErr) == errors.ErrCodeMailTimeout && ctx.Err() == nil {
		return errors.NewMailTimeoutError(name, s.config.SendTimeout)
	}
	return errors.NewMailSendFailedError(name, lastErr)
}

// sendErrorCode classifies one transport failure.
func sendErrorCode(err error) errors.ErrorCode {
	switch {
	case stderrors.Is(err, mailer.ErrInvalidMessage):
		return errors.ErrCodeInternal
	case stderrors.Is(err, context.DeadlineExceeded):
		return errors.ErrCodeMailTimeout
	default:
		return errors.ErrCodeMailSendFailed
	}
}

func (s *Service) attempt(ctx context.Context, msg *mailer.Message) error {
	attemptCtx, cancel := context.WithTimeout(ctx, s.config.SendTimeout)
	defer cancel()

	name := s.transport.Name()
	start := time.Now()
	err := s.transport.Send(attemptCtx, msg)
	elapsed := time.Since(start)

	outcome := "sent"
	if err != nil {
		outcome = "failed"
		if attemptCtx.Err() == context.DeadlineExceeded && !stderrors.Is(err, context.DeadlineExceeded) {
			err = stderrors.Join(err, context.DeadlineExceeded)
		}
	}
	metrics.MailSendDuration.WithLabelValues(name).Observe(elapsed.Seconds())
	s.obs.RecordMailDuration(ctx, elapsed, name, outcome)
	return err
}

// alert runs after the email has been accepted. Its failure never fails the request.
func (s *Service) alert(ctx context.Context, input *Input, referenceID string) {
	if s.alerter == nil {
		return
	}
	alertCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.config.AlertTimeout)
	defer cancel()

	if err := s.alerter.Notify(alertCtx, input.Application, referenceID); err != nil {
		s.logger.Warn("Operator alert failed", map[string]interface{}{
			"requestId":   input.RequestID,
			"referenceId": referenceID,
			"error":       err,
		})
	}
}
