// internal/form/payload.go
package form

import (
	"bytes"
	"fmt"
	"mime"
	"mime/multipart"
	"net/textproto"

	"loan-intake/internal/models"
)

// Payload is a serialized multipart/form-data submission.
type Payload struct {
	Body        []byte
	ContentType string
	Documents   []models.DocumentKind
}

// BuildPayload writes every text field, empty or not, followed by one file part per
// populated document slot. Part names are the field and slot names.
func BuildPayload(app *models.Application) (*Payload, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, f := range models.TextFields {
		if err := w.WriteField(string(f), app.Get(f)); err != nil {
			return nil, fmt.Errorf("failed to write field %s: %w", f, err)
		}
	}

	var attached []models.DocumentKind
	for _, kind := range models.DocumentKinds {
		file := app.Document(kind)
		if file == nil {
			continue
		}
		if err := writeFile(w, kind, file); err != nil {
			return nil, err
		}
		attached = append(attached, kind)
	}

	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to close multipart writer: %w", err)
	}

	return &Payload{
		Body:        buf.Bytes(),
		ContentType: w.FormDataContentType(),
		Documents:   attached,
	}, nil
}

func writeFile(w *multipart.Writer, kind models.DocumentKind, file *models.File) error {
	name := file.Name
	if name == "" {
		name = string(kind)
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", mime.FormatMediaType("form-data", map[string]string{
		"name":     string(kind),
		"filename": name,
	}))
	h.Set("Content-Type", file.ContentType)

	part, err := w.CreatePart(h)
	if err != nil {
		return fmt.Errorf("failed to create part %s: %w", kind, err)
	}
	if _, err := part.Write(file.Data); err != nil {
		return fmt.Errorf("failed to write part %s: %w", kind, err)
	}
	return nil
}
