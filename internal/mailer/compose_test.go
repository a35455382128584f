package mailer

import (
	"bytes"
	"io"
	"mime"
	"mime/multipart"
	"net/mail"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMessage() *Message {
	return &Message{
		From:    "loans@example.com",
		To:      []string{"ops@example.com"},
		Subject: "New Application - Asha Rao (9876543210)",
		Text:    "NEW LOAN APPLICATION\nFull Name: Asha Rao\n",
		Attachments: []Attachment{
			{Filename: "pan.pdf", ContentType: "application/pdf", Data: bytes.Repeat([]byte("%PDF"), 100)},
			{Filename: "aadhaar.png", ContentType: "image/png", Data: []byte{0x89, 'P', 'N', 'G'}},
		},
		Headers: map[string]string{"x-reference-id": "ref-1"},
	}
}

func TestCompose_Structure(t *testing.T) {
	raw, err := Compose(testMessage())
	require.NoError(t, err)

	parsed, err := mail.ReadMessage(bytes.NewReader(raw))
	require.NoError(t, err)

	assert.Equal(t, "loans@example.com", parsed.Header.Get("From"))
	assert.Equal(t, "ops@example.com", parsed.Header.Get("To"))
	assert.Equal(t, "ref-1", parsed.Header.Get("X-Reference-Id"))
	assert.Contains(t, parsed.Header.Get("Message-ID"), "@example.com>")

	dec := new(mime.WordDecoder)
	subject, err := dec.DecodeHeader(parsed.Header.Get("Subject"))
	require.NoError(t, err)
	assert.Equal(t, "New Application - Asha Rao (9876543210)", subject)

	mediaType, params, err := mime.ParseMediaType(parsed.Header.Get("Content-Type"))
	require.NoError(t, err)
	assert.Equal(t, "multipart/mixed", mediaType)

	mr := multipart.NewReader(parsed.Body, params["boundary"])

	text, err := mr.NextPart()
	require.NoError(t, err)
	assert.Equal(t, "text/plain; charset=UTF-8", text.Header.Get("Content-Type"))
	body, err := io.ReadAll(text)
	require.NoError(t, err)
	assert.Equal(t, "NEW LOAN APPLICATION\nFull Name: Asha Rao\n", strings.ReplaceAll(string(body), "\r\n", "\n"))

	for _, want := range testMessage().Attachments {
		part, err := mr.NextPart()
		require.NoError(t, err)
		assert.Equal(t, want.Filename, part.FileName())
		assert.Equal(t, "base64", part.Header.Get("Content-Transfer-Encoding"))

		encoded, err := io.ReadAll(part)
		require.NoError(t, err)
		for _, line := range strings.Split(strings.TrimSpace(string(encoded)), "\r\n") {
			assert.LessOrEqual(t, len(line), base64LineLength)
		}
	}

	_, err = mr.NextPart()
	assert.Equal(t, io.EOF, err)
}

func TestCompose_HeaderInjection(t *testing.T) {
	msg := testMessage()
	msg.Subject = "Hello\r\nBcc: victim@example.com"

	raw, err := Compose(msg)
	require.NoError(t, err)

	parsed, err := mail.ReadMessage(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Empty(t, parsed.Header.Get("Bcc"))
}

func TestMessage_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(m *Message)
		wantErr string
	}{
		{"valid", func(m *Message) {}, ""},
		{"bad from", func(m *Message) { m.From = "loans" }, "invalid 'from'"},
		{"no recipients", func(m *Message) { m.To = nil }, "no recipients"},
		{"bad recipient", func(m *Message) { m.To = []string{"ops@localhost"} }, "invalid 'to'"},
		{"bad reply-to", func(m *Message) { m.ReplyTo = "asha" }, "invalid 'replyTo'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := testMessage()
			tt.mutate(m)
			err := m.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestMessage_Size(t *testing.T) {
	assert.Equal(t, int64(404), testMessage().Size())
}
