// internal/relay/models.go
package relay

import "loan-intake/internal/models"

// Input is one parsed /apply request.
type Input struct {
	RequestID   string
	Application *models.Application
	Attachments []Attachment
}

type Attachment struct {
	Kind        models.DocumentKind
	Filename    string
	ContentType string
	Data        []byte
}

type Output struct {
	OK          bool   `json:"ok"`
	ReferenceID string `json:"referenceId,omitempty"`
}

type HealthResponse struct {
	OK bool `json:"ok"`
}
