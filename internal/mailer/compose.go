// internal/mailer/compose.go
package mailer

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net/textproto"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

const base64LineLength = 76

// Compose renders msg as an RFC 5322 multipart/mixed message. The text body is
// quoted-printable, attachments are base64.
func Compose(msg *Message) ([]byte, error) {
	if err := msg.Validate(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	writeHeader(&buf, "From", msg.From)
	writeHeader(&buf, "To", strings.Join(msg.To, ", "))
	if msg.ReplyTo != "" {
		writeHeader(&buf, "Reply-To", msg.ReplyTo)
	}
	writeHeader(&buf, "Subject", mime.QEncoding.Encode("utf-8", msg.Subject))
	writeHeader(&buf, "Date", time.Now().Format(time.RFC1123Z))
	writeHeader(&buf, "Message-ID", messageID(msg.From))

	keys := make([]string, 0, len(msg.Headers))
	for k := range msg.Headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		writeHeader(&buf, textproto.CanonicalMIMEHeaderKey(k), msg.Headers[k])
	}

	writeHeader(&buf, "MIME-Version", "1.0")
	writeHeader(&buf, "Content-Type", mime.FormatMediaType("multipart/mixed", map[string]string{"boundary": mw.Boundary()}))
	buf.WriteString("\r\n")

	textHeader := textproto.MIMEHeader{}
	textHeader.Set("Content-Type", "text/plain; charset=UTF-8")
	textHeader.Set("Content-Transfer-Encoding", "quoted-printable")
	pw, err := mw.CreatePart(textHeader)
	if err != nil {
		return nil, fmt.Errorf("failed to create text part: %w", err)
	}
	qp := quotedprintable.NewWriter(pw)
	if _, err := qp.Write([]byte(msg.Text)); err != nil {
		return nil, fmt.Errorf("failed to write text part: %w", err)
	}
	if err := qp.Close(); err != nil {
		return nil, fmt.Errorf("failed to close text part: %w", err)
	}

	for _, a := range msg.Attachments {
		if err := writeAttachment(mw, a); err != nil {
			return nil, err
		}
	}

	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to close multipart writer: %w", err)
	}
	return buf.Bytes(), nil
}

func writeHeader(buf *bytes.Buffer, key, value string) {
	// Strip CR/LF so a field value cannot inject headers.
	value = strings.NewReplacer("\r", "", "\n", " ").Replace(value)
	fmt.Fprintf(buf, "%s: %s\r\n", key, value)
}

func writeAttachment(mw *multipart.Writer, a Attachment) error {
	ct := a.ContentType
	if ct == "" {
		ct = "application/octet-stream"
	}
	name := a.Filename
	if name == "" {
		name = "attachment"
	}

	h := textproto.MIMEHeader{}
	h.Set("Content-Type", mime.FormatMediaType(ct, map[string]string{"name": name}))
	h.Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	h.Set("Content-Transfer-Encoding", "base64")

	pw, err := mw.CreatePart(h)
	if err != nil {
		return fmt.Errorf("failed to create attachment part %s: %w", name, err)
	}

	encoded := base64.StdEncoding.EncodeToString(a.Data)
	for len(encoded) > base64LineLength {
		if _, err := pw.Write([]byte(encoded[:base64LineLength] + "\r\n")); err != nil {
			return fmt.Errorf("failed to write attachment %s: %w", name, err)
		}
		encoded = encoded[base64LineLength:]
	}
	if _, err := pw.Write([]byte(encoded + "\r\n")); err != nil {
		return fmt.Errorf("failed to write attachment %s: %w", name, err)
	}
	return nil
}

func messageID(from string) string {
	domain := "localhost"
	if i := strings.LastIndex(from, "@"); i >= 0 && i < len(from)-1 {
		domain = strings.Trim(from[i+1:], "> ")
	}
	return fmt.Sprintf("<%s@%s>", uuid.New().String(), domain)
}
