// pkg/registry/schema.go
package registry

import "loan-intake/internal/models"

type DocumentRegistry struct {
	Version     string     `json:"version"`
	LastUpdated string     `json:"lastUpdated"`
	Documents   []Document `json:"documents"`
}

type Document struct {
	Kind        models.DocumentKind `json:"kind"`
	Label       string              `json:"label"`
	Description string              `json:"description,omitempty"`
	Required    bool                `json:"required"`
	Tags        []string            `json:"tags,omitempty"`
}

// registrySchema is the JSON schema a registry file must satisfy.
const registrySchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["version", "documents"],
  "properties": {
    "version": {"type": "string", "minLength": 1},
    "lastUpdated": {"type": "string"},
    "documents": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["kind", "label", "required"],
        "properties": {
          "kind": {
            "type": "string",
            "enum": ["pan", "aadhaar", "gst", "udyam", "gst3b12m", "bankStatement12m", "itr3y"]
          },
          "label": {"type": "string", "minLength": 1},
          "description": {"type": "string"},
          "required": {"type": "boolean"},
          "tags": {"type": "array", "items": {"type": "string"}}
        },
        "additionalProperties": false
      }
    }
  }
}`
