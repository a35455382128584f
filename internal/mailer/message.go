// internal/mailer/message.go
package mailer

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidMessage marks a message that no transport could ever accept.
var ErrInvalidMessage = errors.New("invalid message")

type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Message is one outbound plain-text email with optional attachments.
type Message struct {
	From        string
	To          []string
	ReplyTo     string
	Subject     string
	Text        string
	Attachments []Attachment
	Headers     map[string]string
}

// Validate checks the envelope addresses.
func (m *Message) Validate() error {
	if !isValidEmail(m.From) {
		return fmt.Errorf("%w: invalid 'from' email address: %s", ErrInvalidMessage, m.From)
	}
	if len(m.To) == 0 {
		return fmt.Errorf("%w: message has no recipients", ErrInvalidMessage)
	}
	for _, addr := range m.To {
		if !isValidEmail(addr) {
			return fmt.Errorf("%w: invalid 'to' email address: %s", ErrInvalidMessage, addr)
		}
	}
	if m.ReplyTo != "" && !isValidEmail(m.ReplyTo) {
		return fmt.Errorf("%w: invalid 'replyTo' email address: %s", ErrInvalidMessage, m.ReplyTo)
	}
	return nil
}

// Size returns the total attachment payload in bytes.
func (m *Message) Size() int64 {
	var n int64
	for _, a := range m.Attachments {
		n += int64(len(a.Data))
	}
	return n
}

func isValidEmail(email string) bool {
	email = strings.TrimSpace(email)
	if email == "" {
		return false
	}
	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return false
	}
	if len(parts[0]) == 0 || len(parts[1]) == 0 {
		return false
	}
	return strings.Contains(parts[1], ".")
}
