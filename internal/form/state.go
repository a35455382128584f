// internal/form/state.go
package form

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"sync"

	"loan-intake/internal/common/errors"
	"loan-intake/internal/common/logger"
	"loan-intake/internal/models"
	"loan-intake/pkg/registry"
)

// Status is the submission phase of an Engine, orthogonal to its current step.
type Status string

const (
	StatusEditing    Status = "editing"
	StatusSubmitting Status = "submitting"
	StatusSubmitted  Status = "submitted"
)

type Options struct {
	Config    *Config
	Documents *registry.DocumentRegistry
	Submitter Submitter
	Logger    logger.Logger
}

// Engine owns one form session: field values, the current step, per-field errors
// and the submission procedure. All methods are safe for concurrent use.
type Engine struct {
	mu sync.Mutex

	config    *Config
	docs      *registry.DocumentRegistry
	submitter Submitter
	logger    logger.Logger

	app         *models.Application
	step        Step
	status      Status
	errors      FieldErrors
	notice      *Notice
	referenceID string
}

// New returns an engine on step 1 with an empty application.
func New(opts Options) *Engine {
	cfg := opts.Config
	if cfg == nil {
		cfg = DefaultConfig()
	}
	docs := opts.Documents
	if docs == nil {
		docs = registry.DefaultRegistry()
	}
	log := opts.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}

	return &Engine{
		config:    cfg,
		docs:      docs,
		submitter: opts.Submitter,
		logger:    log.WithFields(map[string]interface{}{"component": "form"}),
		app:       models.NewApplication(),
		step:      Step1,
		status:    StatusEditing,
		errors:    FieldErrors{},
	}
}

// SetField stores value in the named field and clears that field's error. Mobile
// numbers are reduced to at most ten digits and states to their stored form.
func (e *Engine) SetField(name, value string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.editableLocked(); err != nil {
		return err
	}
	if !models.IsKnownField(name) {
		return fmt.Errorf("%w: %s", ErrUnknownField, name)
	}

	field := models.Field(name)
	switch field {
	case models.FieldMobile:
		value = SanitizeMobile(value)
	case models.FieldState:
		if v, ok := models.NormalizeState(value); ok {
			value = v
		}
	}

	e.app.Set(field, value)
	delete(e.errors, name)
	return nil
}

// SetDocument stages file in slot kind; nil clears the slot. A file over the size
// limit or of a disallowed type leaves the slot empty and records a notice.
func (e *Engine) SetDocument(kind models.DocumentKind, file *models.File) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.editableLocked(); err != nil {
		return err
	}
	if !models.IsDocumentKind(string(kind)) {
		return fmt.Errorf("%w: %s", ErrUnknownDocument, kind)
	}

	if file == nil {
		delete(e.app.Documents, kind)
		return nil
	}

	if err := CheckFile(file, e.config.MaxFileSize); err != nil {
		delete(e.app.Documents, kind)
		label := e.docs.Label(kind)
		if stderrors.Is(err, ErrFileTooLarge) {
			e.notice = errorNotice("File too large", fmt.Sprintf("%s must be %d MB or smaller.", label, e.config.MaxFileSize/(1024*1024)))
		} else {
			e.notice = errorNotice("Unsupported file type", fmt.Sprintf("%s must be a PDF, JPEG or PNG file.", label))
		}
		e.errors[string(kind)] = e.notice.Description
		e.logger.Debug("Document rejected", map[string]interface{}{
			"document":    string(kind),
			"size":        fileSize(file),
			"contentType": file.ContentType,
			"reason":      err.Error(),
		})
		return fmt.Errorf("%w: %s", err, kind)
	}

	staged := *file
	staged.Size = fileSize(file)
	e.app.Documents[kind] = &staged
	delete(e.errors, string(kind))
	return nil
}

// Advance validates the current step only and moves forward when it is clean.
func (e *Engine) Advance() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.status != StatusEditing {
		return false
	}

	errs := ValidateStep(e.app, e.step, e.docs)
	if len(errs) > 0 {
		e.replaceErrorsLocked(e.step, errs)
		e.notice = errorNotice("Please fix the highlighted fields", fmt.Sprintf("%s has missing or invalid details.", e.step.Title()))
		return false
	}

	e.replaceErrorsLocked(e.step, nil)
	if e.step < LastStep {
		e.step++
	}
	return true
}

// Retreat moves back one step. Errors are kept.
func (e *Engine) Retreat() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.status != StatusEditing {
		return
	}
	if e.step > FirstStep {
		e.step--
	}
}

// Submit re-validates every step and, when all pass, sends exactly one payload
// through the Submitter. Validation failures never reach the network. On failure
// the form returns to step 4 with its data intact.
func (e *Engine) Submit(ctx context.Context) (*SubmitResult, error) {
	e.mu.Lock()
	switch e.status {
	case StatusSubmitting:
		e.mu.Unlock()
		return nil, ErrSubmissionInProgress
	case StatusSubmitted:
		e.mu.Unlock()
		return nil, ErrFormClosed
	}
	if e.submitter == nil {
		e.mu.Unlock()
		return nil, ErrSubmitterNotConfigured
	}

	if step, errs, ok := ValidateAll(e.app, e.docs); !ok {
		e.step = step
		e.replaceErrorsLocked(step, errs)
		e.notice = errorNotice("Incomplete application", fmt.Sprintf("Please complete %s before submitting.", step.Title()))
		e.mu.Unlock()
		return nil, fmt.Errorf("%w: step %d has %d errors", ErrValidationFailed, step, len(errs))
	}

	e.status = StatusSubmitting
	snapshot := e.app.Clone()
	e.mu.Unlock()

	result, err := e.send(ctx, snapshot)

	e.mu.Lock()
	defer e.mu.Unlock()

	if err != nil {
		e.status = StatusEditing
		e.step = LastStep
		e.notice = errorNotice("Submission failed", failureDetail(err))
		e.logger.Warn("Application submission failed", map[string]interface{}{
			"error": err,
		})
		return nil, fmt.Errorf("%w: %w", ErrSubmissionFailed, err)
	}

	e.status = StatusSubmitted
	e.referenceID = result.ReferenceID
	e.notice = &Notice{
		Title:       "Application Submitted!",
		Description: "We'll contact you within 24-48 hours.",
		Severity:    SeveritySuccess,
	}
	e.logger.Info("Application submitted", map[string]interface{}{
		"referenceId": result.ReferenceID,
	})
	return result, nil
}

func (e *Engine) send(ctx context.Context, app *models.Application) (*SubmitResult, error) {
	payload, err := BuildPayload(app)
	if err != nil {
		return nil, err
	}
	result, err := e.submitter.Submit(ctx, payload)
	if err != nil {
		return nil, err
	}
	if result == nil {
		result = &SubmitResult{}
	}
	return result, nil
}

func failureDetail(err error) string {
	var stdErr *errors.StandardError
	if stderrors.As(err, &stdErr) && strings.TrimSpace(stdErr.Message) != "" {
		return stdErr.Message
	}
	return err.Error()
}

func (e *Engine) editableLocked() error {
	switch e.status {
	case StatusSubmitted:
		return ErrFormClosed
	case StatusSubmitting:
		return ErrSubmissionInProgress
	}
	return nil
}

// replaceErrorsLocked drops the errors owned by step and stores errs in their place.
func (e *Engine) replaceErrorsLocked(step Step, errs FieldErrors) {
	for name := range e.errors {
		if s, ok := StepOf(name); ok && s == step {
			delete(e.errors, name)
		}
	}
	for name, msg := range errs {
		e.errors[name] = msg
	}
}

func (e *Engine) Step() Step {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.step
}

func (e *Engine) Status() Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.status
}

// Errors returns a copy of the current error mapping.
func (e *Engine) Errors() FieldErrors {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make(FieldErrors, len(e.errors))
	for k, v := range e.errors {
		out[k] = v
	}
	return out
}

// Application returns a copy of the current values.
func (e *Engine) Application() *models.Application {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.app.Clone()
}

// Notice returns the most recent notice, or nil.
func (e *Engine) Notice() *Notice {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.notice == nil {
		return nil
	}
	n := *e.notice
	return &n
}

// ReferenceID is set once the relay has accepted the application.
func (e *Engine) ReferenceID() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.referenceID
}
