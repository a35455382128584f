package relay

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/textproto"
	"sync"
	"testing"
	"time"

	"loan-intake/internal/common/config"
	"loan-intake/internal/common/logger"
	"loan-intake/internal/mailer"
	"loan-intake/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// MockTransport records sent messages through testify's mock.
type MockTransport struct {
	mock.Mock
}

func (m *MockTransport) Send(ctx context.Context, msg *mailer.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *MockTransport) Name() string { return "mock" }

func (m *MockTransport) sent(t *testing.T) *mailer.Message {
	t.Helper()
	require.NotEmpty(t, m.Calls)
	return m.Calls[len(m.Calls)-1].Arguments.Get(1).(*mailer.Message)
}

// funcTransport delegates to SendFunc.
type funcTransport struct {
	SendFunc func(ctx context.Context, msg *mailer.Message) error
}

func (f *funcTransport) Send(ctx context.Context, msg *mailer.Message) error {
	return f.SendFunc(ctx, msg)
}

func (f *funcTransport) Name() string { return "func" }

type recordingAlerter struct {
	mu    sync.Mutex
	calls []string
	err   error
}

func (a *recordingAlerter) Notify(ctx context.Context, app *models.Application, referenceID string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.calls = append(a.calls, referenceID)
	return a.err
}

func testMailConfig() config.MailConfig {
	return config.MailConfig{
		Transport: "smtp",
		Account:   "relay@example.com",
		Password:  "app-password",
		Recipient: "loans@example.com",
	}
}

func testConfig() *Config {
	cfg := DefaultConfig()
	cfg.Mail = testMailConfig()
	cfg.RetryInterval = time.Millisecond
	return cfg
}

func newTestHandler(t *testing.T, cfg *Config, transport mailer.Transport, alerter Alerter) *Handler {
	t.Helper()
	h, err := NewHandler(HandlerOptions{
		CustomConfig: cfg,
		Logger:       logger.NewTestLogger(t),
		Transport:    transport,
		Alerter:      alerter,
	})
	require.NoError(t, err)
	return h
}

func newTestRouter(t *testing.T, h *Handler) *gin.Engine {
	return NewRouter(RouterOptions{Handler: h, Logger: logger.NewTestLogger(t), MetricsEnabled: true})
}

func testApplication() *models.Application {
	app := models.NewApplication()
	app.FullName = "Asha Rao"
	app.Mobile = "9876543210"
	app.Email = "asha@example.com"
	app.City = "Pune"
	app.State = "maharashtra"
	app.BusinessName = "Rao Traders"
	app.BusinessType = "trading"
	app.BusinessVintage = "3-5"
	app.AnnualTurnover = "25-50l"
	app.LoanAmount = "500000"
	app.LoanPurpose = "Working capital"
	return app
}

type filePart struct {
	field       string
	filename    string
	contentType string
	data        []byte
}

// multipartBody writes the text fields of app followed by files.
func multipartBody(t *testing.T, app *models.Application, files ...filePart) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if app != nil {
		for _, f := range models.TextFields {
			require.NoError(t, w.WriteField(string(f), app.Get(f)))
		}
	}
	for _, f := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="`+f.field+`"; filename="`+f.filename+`"`)
		h.Set("Content-Type", f.contentType)
		pw, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = pw.Write(f.data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func allDocuments() []filePart {
	parts := make([]filePart, 0, len(models.DocumentKinds))
	for _, k := range models.DocumentKinds {
		parts = append(parts, filePart{
			field:       string(k),
			filename:    string(k) + ".pdf",
			contentType: models.ContentTypePDF,
			data:        []byte("%PDF-1.4 " + string(k)),
		})
	}
	return parts
}
