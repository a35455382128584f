// test/e2e/e2e_test.go
package e2e

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http/httptest"
	"net/mail"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loan-intake/internal/common/config"
	"loan-intake/internal/common/logger"
	"loan-intake/internal/form"
	"loan-intake/internal/mailer"
	"loan-intake/internal/models"
	"loan-intake/internal/relay"
)

// recordingTransport composes every message exactly as a real transport would and
// keeps the raw bytes.
type recordingTransport struct {
	mu   sync.Mutex
	raw  [][]byte
	fail error
}

func (r *recordingTransport) Name() string { return "recording" }

func (r *recordingTransport) Send(ctx context.Context, msg *mailer.Message) error {
	if r.fail != nil {
		return r.fail
	}
	raw, err := mailer.Compose(msg)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.raw = append(r.raw, raw)
	return nil
}

func (r *recordingTransport) messages() [][]byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([][]byte(nil), r.raw...)
}

func startRelay(t *testing.T, mailCfg config.MailConfig, transport mailer.Transport) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := relay.DefaultConfig()
	cfg.Mail = mailCfg
	cfg.RetryInterval = time.Millisecond

	handler, err := relay.NewHandler(relay.HandlerOptions{
		CustomConfig: cfg,
		Logger:       logger.NewTestLogger(t),
		Transport:    transport,
	})
	require.NoError(t, err)

	ts := httptest.NewServer(relay.NewRouter(relay.RouterOptions{Handler: handler, Logger: logger.NewTestLogger(t)}))
	t.Cleanup(ts.Close)
	return ts
}

func newEngine(t *testing.T, relayURL string) *form.Engine {
	cfg := form.DefaultConfig()
	cfg.RelayURL = relayURL
	cfg.Timeout = 5 * time.Second
	cfg.RetryInterval = time.Millisecond

	log := logger.NewTestLogger(t)
	return form.New(form.Options{
		Config:    cfg,
		Submitter: form.NewRelayClient(form.RelayClientOptions{Config: cfg, Logger: log}),
		Logger:    log,
	})
}

func completeForm(t *testing.T, e *form.Engine) {
	t.Helper()
	fields := []struct{ name, value string }{
		{"fullName", "Asha Rao"},
		{"mobile", "98765 43210"},
		{"email", "asha@example.com"},
		{"city", "Pune"},
		{"state", "Maharashtra"},
		{"businessName", "Rao Traders"},
		{"businessType", "trading"},
		{"businessVintage", "3-5"},
		{"annualTurnover", "25-50l"},
		{"loanType", "below-50l"},
		{"loanAmount", "₹5,00,000"},
		{"loanPurpose", "Working capital"},
	}
	for _, f := range fields {
		require.NoError(t, e.SetField(f.name, f.value))
	}
	for _, kind := range models.DocumentKinds {
		data := []byte("%PDF-1.4\n" + string(kind))
		require.NoError(t, e.SetDocument(kind, &models.File{
			Name:        string(kind) + ".pdf",
			ContentType: models.ContentTypePDF,
			Size:        int64(len(data)),
			Data:        data,
		}))
	}
	for step := form.FirstStep; step <= form.LastStep; step++ {
		require.True(t, e.Advance(), "step %d: %v", step, e.Errors())
	}
}

func validMail() config.MailConfig {
	return config.MailConfig{
		Transport: "smtp",
		Account:   "relay@example.com",
		Password:  "app-password",
		Recipient: "loans@example.com",
	}
}

func TestSubmitCompleteApplication(t *testing.T) {
	transport := &recordingTransport{}
	ts := startRelay(t, validMail(), transport)
	e := newEngine(t, ts.URL)

	t.Log("🚀 Filling and submitting a complete application...")
	completeForm(t, e)

	result, err := e.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, form.StatusSubmitted, e.Status())
	assert.Equal(t, "Application Submitted!", e.Notice().Title)
	require.NotEmpty(t, result.ReferenceID)

	raw := transport.messages()
	require.Len(t, raw, 1, "exactly one email per submission")

	msg, err := mail.ReadMessage(bytes.NewReader(raw[0]))
	require.NoError(t, err)
	assert.Equal(t, "New Application - Asha Rao (9876543210)", decodeHeader(t, msg.Header.Get("Subject")))
	assert.Equal(t, "loans@example.com", msg.Header.Get("To"))
	assert.Equal(t, "asha@example.com", msg.Header.Get("Reply-To"))
	assert.Equal(t, result.ReferenceID, msg.Header.Get("X-Reference-ID"))

	mediaType, params, err := mime.ParseMediaType(msg.Header.Get("Content-Type"))
	require.NoError(t, err)
	require.Equal(t, "multipart/mixed", mediaType)

	mr := multipart.NewReader(msg.Body, params["boundary"])
	var body string
	var attachments []string
	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)
		data, err := io.ReadAll(part)
		require.NoError(t, err)
		if part.FileName() == "" {
			body = strings.ReplaceAll(string(data), "\r\n", "\n")
			continue
		}
		attachments = append(attachments, part.FileName())
	}

	assert.Contains(t, body, "NEW LOAN APPLICATION")
	assert.Contains(t, body, "Mobile: 9876543210")
	assert.Contains(t, body, "State: maharashtra")
	assert.Contains(t, body, "Loan Amount: ₹5,00,000")
	assert.Len(t, attachments, len(models.DocumentKinds))
	t.Log("✅ Relay forwarded the application with every document attached")
}

func TestSubmitWithMissingMailPassword(t *testing.T) {
	mailCfg := validMail()
	mailCfg.Password = ""
	transport := &recordingTransport{}
	ts := startRelay(t, mailCfg, transport)
	e := newEngine(t, ts.URL)
	completeForm(t, e)

	_, err := e.Submit(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, form.ErrSubmissionFailed)
	assert.Equal(t, form.StatusEditing, e.Status())
	assert.Equal(t, form.LastStep, e.Step())
	assert.Equal(t, "Missing EMAIL_PASS in server configuration", e.Notice().Description)
	assert.Equal(t, "Asha Rao", e.Application().FullName)
	assert.Empty(t, transport.messages())
}

func TestSubmitWhenMailServerFails(t *testing.T) {
	transport := &recordingTransport{fail: errors.New("454 TLS not available")}
	ts := startRelay(t, validMail(), transport)
	e := newEngine(t, ts.URL)
	completeForm(t, e)

	_, err := e.Submit(context.Background())

	require.Error(t, err)
	assert.Equal(t, "Email failed on server", e.Notice().Description)
	assert.Equal(t, form.StatusEditing, e.Status())
}

func TestIncompleteApplicationNeverReachesRelay(t *testing.T) {
	transport := &recordingTransport{}
	ts := startRelay(t, validMail(), transport)
	e := newEngine(t, ts.URL)
	completeForm(t, e)
	require.NoError(t, e.SetDocument(models.DocumentITR3Y, nil))

	_, err := e.Submit(context.Background())

	assert.ErrorIs(t, err, form.ErrValidationFailed)
	assert.Equal(t, form.Step4, e.Step())
	assert.Contains(t, e.Errors(), "itr3y")
	assert.Empty(t, transport.messages())
}

func decodeHeader(t *testing.T, v string) string {
	t.Helper()
	out, err := new(mime.WordDecoder).DecodeHeader(v)
	require.NoError(t, err)
	return out
}
