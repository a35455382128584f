// internal/models/application.go
package models

import "strings"

// Field is the wire name of an application text field.
type Field string

const (
	FieldFullName        Field = "fullName"
	FieldMobile          Field = "mobile"
	FieldEmail           Field = "email"
	FieldCity            Field = "city"
	FieldState           Field = "state"
	FieldBusinessName    Field = "businessName"
	FieldBusinessType    Field = "businessType"
	FieldBusinessVintage Field = "businessVintage"
	FieldAnnualTurnover  Field = "annualTurnover"
	FieldLoanType        Field = "loanType"
	FieldLoanAmount      Field = "loanAmount"
	FieldLoanPurpose     Field = "loanPurpose"
	FieldMessage         Field = "message"
)

// TextFields lists every text field in wire order.
var TextFields = []Field{
	FieldFullName, FieldMobile, FieldEmail, FieldCity, FieldState,
	FieldBusinessName, FieldBusinessType, FieldBusinessVintage, FieldAnnualTurnover,
	FieldLoanType, FieldLoanAmount, FieldLoanPurpose,
	FieldMessage,
}

// Loan track values. The threshold is an annual turnover of fifty lakh rupees.
const (
	LoanTypeBelowThreshold = "below-50l"
	LoanTypeAboveThreshold = "50l-above"
)

var (
	States = []string{
		"Andhra Pradesh", "Karnataka", "Kerala", "Maharashtra", "Tamil Nadu", "Telangana",
		"Delhi", "Gujarat", "Rajasthan", "Uttar Pradesh", "West Bengal", "Other",
	}
	BusinessTypes    = []string{"trading", "services", "manufacturing", "other"}
	BusinessVintages = []string{"0-1", "1-3", "3-5", "5+"}
	AnnualTurnovers  = []string{"0-5l", "5-10l", "10-25l", "25-50l", "50l+"}
	LoanTypes        = []string{LoanTypeBelowThreshold, LoanTypeAboveThreshold}
)

// NormalizeState maps a state label or value onto its stored lower-case value.
// ok is false when the input is not one of States.
func NormalizeState(s string) (string, bool) {
	v := strings.ToLower(strings.TrimSpace(s))
	for _, st := range States {
		if strings.ToLower(st) == v {
			return v, true
		}
	}
	return v, false
}

// Application is one loan-interest submission, held in memory for a single form session.
type Application struct {
	FullName        string `json:"fullName" yaml:"fullName"`
	Mobile          string `json:"mobile" yaml:"mobile"`
	Email           string `json:"email" yaml:"email"`
	City            string `json:"city" yaml:"city"`
	State           string `json:"state" yaml:"state"`
	BusinessName    string `json:"businessName" yaml:"businessName"`
	BusinessType    string `json:"businessType" yaml:"businessType"`
	BusinessVintage string `json:"businessVintage" yaml:"businessVintage"`
	AnnualTurnover  string `json:"annualTurnover" yaml:"annualTurnover"`
	LoanType        string `json:"loanType" yaml:"loanType"`
	LoanAmount      string `json:"loanAmount" yaml:"loanAmount"`
	LoanPurpose     string `json:"loanPurpose" yaml:"loanPurpose"`
	Message         string `json:"message,omitempty" yaml:"message,omitempty"`

	Documents map[DocumentKind]*File `json:"-" yaml:"-"`
}

// NewApplication returns an empty application with the loan track defaulted.
func NewApplication() *Application {
	return &Application{
		LoanType:  LoanTypeBelowThreshold,
		Documents: make(map[DocumentKind]*File, len(DocumentKinds)),
	}
}

func (a *Application) field(f Field) *string {
	switch f {
	case FieldFullName:
		return &a.FullName
	case FieldMobile:
		return &a.Mobile
	case FieldEmail:
		return &a.Email
	case FieldCity:
		return &a.City
	case FieldState:
		return &a.State
	case FieldBusinessName:
		return &a.BusinessName
	case FieldBusinessType:
		return &a.BusinessType
	case FieldBusinessVintage:
		return &a.BusinessVintage
	case FieldAnnualTurnover:
		return &a.AnnualTurnover
	case FieldLoanType:
		return &a.LoanType
	case FieldLoanAmount:
		return &a.LoanAmount
	case FieldLoanPurpose:
		return &a.LoanPurpose
	case FieldMessage:
		return &a.Message
	}
	return nil
}

// Get returns the value of f, or "" for an unknown field.
func (a *Application) Get(f Field) string {
	if p := a.field(f); p != nil {
		return *p
	}
	return ""
}

// Set stores v in f. It reports false for an unknown field.
func (a *Application) Set(f Field, v string) bool {
	p := a.field(f)
	if p == nil {
		return false
	}
	*p = v
	return true
}

// IsKnownField reports whether name is one of TextFields.
func IsKnownField(name string) bool {
	var a Application
	return a.field(Field(name)) != nil
}

// Document returns the file in slot k, or nil.
func (a *Application) Document(k DocumentKind) *File {
	if a.Documents == nil {
		return nil
	}
	return a.Documents[k]
}

// Values returns the text fields keyed by wire name.
func (a *Application) Values() map[string]string {
	out := make(map[string]string, len(TextFields))
	for _, f := range TextFields {
		out[string(f)] = a.Get(f)
	}
	return out
}

// Clone returns a deep copy. File data is shared since files are never mutated after staging.
func (a *Application) Clone() *Application {
	c := *a
	c.Documents = make(map[DocumentKind]*File, len(a.Documents))
	for k, f := range a.Documents {
		if f == nil {
			continue
		}
		cp := *f
		c.Documents[k] = &cp
	}
	return &c
}
