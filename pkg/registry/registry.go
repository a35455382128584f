// pkg/registry/registry.go
package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"loan-intake/internal/models"

	"github.com/xeipuuv/gojsonschema"
)

// LoadRegistry reads a registry file, checks it against the registry schema and
// the structural rules in Validate.
func LoadRegistry(path string) (*DocumentRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes and validates registry JSON.
func Parse(data []byte) (*DocumentRegistry, error) {
	if err := ValidateSchema(data); err != nil {
		return nil, err
	}
	var reg DocumentRegistry
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, err
	}
	if err := reg.Validate(); err != nil {
		return nil, err
	}
	return &reg, nil
}

// ValidateSchema checks raw registry JSON against the registry schema.
func ValidateSchema(data []byte) error {
	schemaLoader := gojsonschema.NewStringLoader(registrySchema)
	documentLoader := gojsonschema.NewBytesLoader(data)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}

	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return fmt.Errorf("registry schema validation failed: %s", strings.Join(errs, "; "))
	}

	return nil
}

// DefaultRegistry lists all seven document slots, each required.
func DefaultRegistry() *DocumentRegistry {
	return &DocumentRegistry{
		Version: "1.0.0",
		Documents: []Document{
			{Kind: models.DocumentPAN, Label: "PAN Card", Description: "Permanent Account Number card for identity and tax verification", Required: true, Tags: []string{"kyc"}},
			{Kind: models.DocumentAadhaar, Label: "Aadhaar Card", Description: "Unique Identification for KYC verification", Required: true, Tags: []string{"kyc"}},
			{Kind: models.DocumentGST, Label: "GST Registration", Description: "GST registration certificate", Required: true, Tags: []string{"business"}},
			{Kind: models.DocumentUdyam, Label: "Udyam Registration", Description: "Udyam Registration Number certificate", Required: true, Tags: []string{"business"}},
			{Kind: models.DocumentGST3B12M, Label: "GST Return (3B) of 12 months", Required: true, Tags: []string{"financial"}},
			{Kind: models.DocumentBankStatement12M, Label: "Bank Statement (Updated 12 months)", Required: true, Tags: []string{"financial"}},
			{Kind: models.DocumentITR3Y, Label: "Last Three Years Complete ITR", Required: true, Tags: []string{"financial"}},
		},
	}
}

// WithOptional returns a copy of r with the given kinds marked optional.
func (r *DocumentRegistry) WithOptional(kinds ...models.DocumentKind) *DocumentRegistry {
	out := &DocumentRegistry{
		Version:     r.Version,
		LastUpdated: r.LastUpdated,
		Documents:   make([]Document, len(r.Documents)),
	}
	copy(out.Documents, r.Documents)
	for i := range out.Documents {
		for _, k := range kinds {
			if out.Documents[i].Kind == k {
				out.Documents[i].Required = false
			}
		}
	}
	return out
}

// Lookup returns the entry for kind.
func (r *DocumentRegistry) Lookup(kind models.DocumentKind) (Document, bool) {
	for _, d := range r.Documents {
		if d.Kind == kind {
			return d, true
		}
	}
	return Document{}, false
}

// Label returns the display label for kind, falling back to the kind itself.
func (r *DocumentRegistry) Label(kind models.DocumentKind) string {
	if d, ok := r.Lookup(kind); ok && d.Label != "" {
		return d.Label
	}
	return string(kind)
}

// Requirements maps every document kind to whether it must be attached. Kinds
// absent from the registry are required.
func (r *DocumentRegistry) Requirements() map[models.DocumentKind]bool {
	out := make(map[models.DocumentKind]bool, len(models.DocumentKinds))
	for _, k := range models.DocumentKinds {
		out[k] = true
	}
	for _, d := range r.Documents {
		out[d.Kind] = d.Required
	}
	return out
}

// Validate checks for unknown kinds, duplicates and missing labels.
func (r *DocumentRegistry) Validate() error {
	if len(r.Documents) == 0 {
		return fmt.Errorf("registry contains no documents")
	}

	seen := make(map[models.DocumentKind]bool)
	for _, d := range r.Documents {
		if d.Kind == "" {
			return fmt.Errorf("document missing required field: kind")
		}
		if !models.IsDocumentKind(string(d.Kind)) {
			return fmt.Errorf("unknown document kind: %s", d.Kind)
		}
		if seen[d.Kind] {
			return fmt.Errorf("duplicate document kind: %s", d.Kind)
		}
		seen[d.Kind] = true

		if d.Label == "" {
			return fmt.Errorf("document %s missing required field: label", d.Kind)
		}
	}

	return nil
}
