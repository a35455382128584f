// internal/mailer/smtp.go
package mailer

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"time"

	"loan-intake/internal/common/logger"
)

type SMTPOptions struct {
	Host     string
	Port     int
	UseTLS   bool
	Username string
	Password string
	Logger   logger.Logger

	// TLSConfig overrides the STARTTLS configuration.
	TLSConfig *tls.Config
}

// SMTPTransport sends through an SMTP submission server with STARTTLS and PLAIN auth.
type SMTPTransport struct {
	opts   SMTPOptions
	logger logger.Logger
	dialer *net.Dialer
}

func NewSMTPTransport(opts SMTPOptions) *SMTPTransport {
	log := opts.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &SMTPTransport{
		opts:   opts,
		logger: log.WithFields(map[string]interface{}{"transport": "smtp"}),
		dialer: &net.Dialer{Timeout: 10 * time.Second},
	}
}

func (t *SMTPTransport) Name() string { return "smtp" }

func (t *SMTPTransport) Send(ctx context.Context, msg *Message) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context cancelled before sending email: %w", err)
	}

	raw, err := Compose(msg)
	if err != nil {
		return err
	}

	addr := net.JoinHostPort(t.opts.Host, strconv.Itoa(t.opts.Port))
	conn, err := t.dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	// Closing the connection unblocks any pending read when ctx is cancelled.
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	client, err := smtp.NewClient(conn, t.opts.Host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to start SMTP session: %w", err)
	}
	defer client.Close()

	if err := t.deliver(client, msg, raw); err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("%w: %v", ctx.Err(), err)
		}
		return err
	}

	t.logger.Debug("Email accepted by SMTP server", map[string]interface{}{
		"host":        t.opts.Host,
		"recipients":  len(msg.To),
		"attachments": len(msg.Attachments),
		"bytes":       len(raw),
	})
	return nil
}

func (t *SMTPTransport) deliver(client *smtp.Client, msg *Message, raw []byte) error {
	if t.opts.UseTLS {
		tlsConfig := t.opts.TLSConfig
		if tlsConfig == nil {
			tlsConfig = &tls.Config{ServerName: t.opts.Host}
		}
		if err := client.StartTLS(tlsConfig); err != nil {
			return fmt.Errorf("failed to start TLS: %w", err)
		}
	}

	if t.opts.Username != "" && t.opts.Password != "" {
		auth := smtp.PlainAuth("", t.opts.Username, t.opts.Password, t.opts.Host)
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("SMTP authentication failed: %w", err)
		}
	}

	if err := client.Mail(msg.From); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	for _, addr := range msg.To {
		if err := client.Rcpt(addr); err != nil {
			return fmt.Errorf("failed to set recipient %s: %w", addr, err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to open data writer: %w", err)
	}
	if _, err := w.Write(raw); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}

	// The server has queued the message once DATA is closed. A failed QUIT must not
	// surface as a send failure or the caller would deliver it again.
	if err := client.Quit(); err != nil {
		t.logger.Warn("SMTP QUIT failed after message was accepted", map[string]interface{}{
			"host":  t.opts.Host,
			"error": err,
		})
	}
	return nil
}
