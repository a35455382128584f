// internal/relay/handler.go
package relay

import (
	"context"
	"fmt"
	"net/http"

	"loan-intake/internal/calculator"
	"loan-intake/internal/common/config"
	"loan-intake/internal/common/errors"
	"loan-intake/internal/common/logger"
	"loan-intake/internal/common/metrics"
	"loan-intake/internal/common/observability"
	"loan-intake/internal/mailer"
	"loan-intake/pkg/registry"

	"github.com/gin-gonic/gin"
)

const RouteApply = "/apply"

// Executor is the part of Service the handler depends on.
type Executor interface {
	Execute(ctx context.Context, input *Input) (*Output, error)
}

type Handler struct {
	config       *Config
	logger       logger.Logger
	service      Executor
	errorHandler *errors.ErrorHandler
}

type HandlerOptions struct {
	AppConfig     *config.Config
	CustomConfig  *Config
	Logger        logger.Logger
	Transport     mailer.Transport
	Alerter       Alerter
	Observability *observability.Observability
	Documents     *registry.DocumentRegistry

	// Service replaces the mail-backed service; used by tests.
	Service Executor
}

func NewHandler(opts HandlerOptions) (*Handler, error) {
	relayConfig := createConfigFromAppConfig(opts.AppConfig, opts.CustomConfig)

	if err := relayConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration for relay: %w", err)
	}

	var loggerInstance logger.Logger
	if opts.Logger != nil {
		loggerInstance = opts.Logger
	} else {
		loggerInstance = logger.NewStructured("info", "json")
	}
	loggerInstance = loggerInstance.WithFields(map[string]interface{}{"component": "relay"})

	handler := &Handler{
		config:       relayConfig,
		logger:       loggerInstance,
		service:      opts.Service,
		errorHandler: errors.NewErrorHandler(loggerInstance),
	}

	if handler.service == nil {
		handler.service = NewService(ServiceDependencies{
			Logger:        loggerInstance,
			Transport:     opts.Transport,
			Alerter:       opts.Alerter,
			Observability: opts.Observability,
			Documents:     opts.Documents,
		}, relayConfig)
	}

	return handler, nil
}

func createConfigFromAppConfig(appConfig *config.Config, custom *Config) *Config {
	if custom != nil {
		return custom
	}
	if appConfig != nil {
		return FromAppConfig(appConfig)
	}
	return DefaultConfig()
}

// Apply accepts one multipart application and forwards it by email.
func (h *Handler) Apply(c *gin.Context) {
	metrics.SubmissionsActive.WithLabelValues(RouteApply).Inc()
	defer metrics.SubmissionsActive.WithLabelValues(RouteApply).Dec()
	metrics.SubmissionsReceived.WithLabelValues(RouteApply).Inc()

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.config.MaxBodySize())

	app, attachments, err := parseSubmission(c.Request, h.config.MaxFileSize)
	if err != nil {
		h.fail(c, err)
		return
	}
	if isEmptySubmission(app, attachments) {
		h.fail(c, errors.NewApplicationValidationFailedError("submission carries no field values and no documents"))
		return
	}

	output, err := h.service.Execute(c.Request.Context(), &Input{
		RequestID:   c.GetString(requestIDKey),
		Application: app,
		Attachments: attachments,
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	metrics.SubmissionsAccepted.WithLabelValues(RouteApply).Inc()
	c.JSON(http.StatusOK, output)
}

func (h *Handler) fail(c *gin.Context, err error) {
	stdErr := h.errorHandler.HandleRequestError(c, err)
	metrics.SubmissionsFailed.WithLabelValues(RouteApply, string(stdErr.Code)).Inc()
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{OK: true})
}

func (h *Handler) EMI(c *gin.Context) {
	var in calculator.EMIInput
	if err := c.ShouldBindQuery(&in); err != nil {
		h.errorHandler.HandleRequestError(c, errors.NewPayloadInvalidError(err.Error()))
		return
	}
	c.JSON(http.StatusOK, calculator.EMI(in))
}

func (h *Handler) Eligibility(c *gin.Context) {
	var in calculator.EligibilityInput
	if err := c.ShouldBindQuery(&in); err != nil {
		h.errorHandler.HandleRequestError(c, errors.NewPayloadInvalidError(err.Error()))
		return
	}
	c.JSON(http.StatusOK, calculator.Eligibility(in))
}
