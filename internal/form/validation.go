// internal/form/validation.go
package form

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"loan-intake/internal/models"
	"loan-intake/pkg/registry"
)

type Step int

const (
	Step1 Step = iota + 1
	Step2
	Step3
	Step4

	FirstStep = Step1
	LastStep  = Step4
)

func (s Step) Title() string {
	switch s {
	case Step1:
		return "Personal Details"
	case Step2:
		return "Business Details"
	case Step3:
		return "Loan Details"
	case Step4:
		return "Documents"
	}
	return fmt.Sprintf("Step %d", int(s))
}

// FieldErrors maps a field name or document kind to its error message.
// An empty map means the step is valid.
type FieldErrors map[string]string

var (
	emailRegex  = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	mobileRegex = regexp.MustCompile(`^\d{10}$`)
	nonDigit    = regexp.MustCompile(`\D`)
)

const mobileLength = 10

// SanitizeMobile keeps ASCII digits only and truncates to ten characters.
func SanitizeMobile(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
			if b.Len() == mobileLength {
				break
			}
		}
	}
	return b.String()
}

// ParseLoanAmount strips every non-digit and parses the rest. ok is false when
// nothing is left, or the value is not finite or not above zero.
func ParseLoanAmount(s string) (float64, bool) {
	digits := nonDigit.ReplaceAllString(s, "")
	if digits == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(digits, 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) || v <= 0 {
		return v, false
	}
	return v, true
}

// CheckFile enforces the attachment size and content type limits.
func CheckFile(f *models.File, maxSize int64) error {
	if f == nil {
		return nil
	}
	if fileSize(f) > maxSize {
		return ErrFileTooLarge
	}
	if !models.IsAllowedContentType(f.ContentType) {
		return ErrUnsupportedFileType
	}
	return nil
}

func fileSize(f *models.File) int64 {
	if n := int64(len(f.Data)); n > f.Size {
		return n
	}
	return f.Size
}

// StepFields lists the fields owned by step, in display order. Step 4 owns the
// document slots instead.
func StepFields(step Step) []models.Field {
	switch step {
	case Step1:
		return []models.Field{models.FieldFullName, models.FieldMobile, models.FieldEmail, models.FieldCity, models.FieldState}
	case Step2:
		return []models.Field{models.FieldBusinessName, models.FieldBusinessType, models.FieldBusinessVintage, models.FieldAnnualTurnover}
	case Step3:
		return []models.Field{models.FieldLoanType, models.FieldLoanAmount, models.FieldLoanPurpose}
	}
	return nil
}

// ValidateStep is a pure function of the application's current values. docs
// decides which document slots are mandatory; nil means all of them.
func ValidateStep(app *models.Application, step Step, docs *registry.DocumentRegistry) FieldErrors {
	errs := FieldErrors{}

	switch step {
	case Step1:
		required(errs, app.FullName, models.FieldFullName, "Full name is required")
		switch {
		case strings.TrimSpace(app.Mobile) == "":
			errs[string(models.FieldMobile)] = "Mobile number is required"
		case !mobileRegex.MatchString(app.Mobile):
			errs[string(models.FieldMobile)] = "Mobile number must be exactly 10 digits"
		}
		switch {
		case strings.TrimSpace(app.Email) == "":
			errs[string(models.FieldEmail)] = "Email is required"
		case !emailRegex.MatchString(strings.TrimSpace(app.Email)):
			errs[string(models.FieldEmail)] = "Enter a valid email address"
		}
		required(errs, app.City, models.FieldCity, "City is required")
		enum(errs, app.State, models.FieldState, "State is required", "Select a valid state", func(v string) bool {
			_, ok := models.NormalizeState(v)
			return ok
		})

	case Step2:
		required(errs, app.BusinessName, models.FieldBusinessName, "Business name is required")
		enum(errs, app.BusinessType, models.FieldBusinessType, "Business type is required", "Select a valid business type", oneOf(models.BusinessTypes))
		enum(errs, app.BusinessVintage, models.FieldBusinessVintage, "Business vintage is required", "Select a valid business vintage", oneOf(models.BusinessVintages))
		enum(errs, app.AnnualTurnover, models.FieldAnnualTurnover, "Annual turnover is required", "Select a valid annual turnover", oneOf(models.AnnualTurnovers))

	case Step3:
		enum(errs, app.LoanType, models.FieldLoanType, "Loan type is required", "Select a valid loan type", oneOf(models.LoanTypes))
		if strings.TrimSpace(app.LoanAmount) == "" {
			errs[string(models.FieldLoanAmount)] = "Loan amount is required"
		} else if _, ok := ParseLoanAmount(app.LoanAmount); !ok {
			errs[string(models.FieldLoanAmount)] = "Enter a valid loan amount greater than zero"
		}
		required(errs, app.LoanPurpose, models.FieldLoanPurpose, "Loan purpose is required")

	case Step4:
		if docs == nil {
			docs = registry.DefaultRegistry()
		}
		reqs := docs.Requirements()
		for _, kind := range models.DocumentKinds {
			if reqs[kind] && app.Document(kind) == nil {
				errs[string(kind)] = fmt.Sprintf("%s is required", docs.Label(kind))
			}
		}
	}

	return errs
}

// ValidateAll validates steps 1 to 4 in order and returns the first invalid step
// with its errors. ok is true when every step is valid.
func ValidateAll(app *models.Application, docs *registry.DocumentRegistry) (Step, FieldErrors, bool) {
	for step := FirstStep; step <= LastStep; step++ {
		if errs := ValidateStep(app, step, docs); len(errs) > 0 {
			return step, errs, false
		}
	}
	return LastStep, FieldErrors{}, true
}

// StepOf returns the step that owns a field or document slot.
func StepOf(name string) (Step, bool) {
	for step := Step1; step <= Step3; step++ {
		for _, f := range StepFields(step) {
			if string(f) == name {
				return step, true
			}
		}
	}
	if models.IsDocumentKind(name) {
		return Step4, true
	}
	return 0, false
}

func required(errs FieldErrors, value string, field models.Field, msg string) {
	if strings.TrimSpace(value) == "" {
		errs[string(field)] = msg
	}
}

func enum(errs FieldErrors, value string, field models.Field, missing, invalid string, valid func(string) bool) {
	switch {
	case strings.TrimSpace(value) == "":
		errs[string(field)] = missing
	case !valid(value):
		errs[string(field)] = invalid
	}
}

func oneOf(values []string) func(string) bool {
	return func(v string) bool {
		for _, allowed := range values {
			if v == allowed {
				return true
			}
		}
		return false
	}
}
