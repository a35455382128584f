// internal/relay/parse.go
package relay

import (
	stderrors "errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"loan-intake/internal/common/errors"
	"loan-intake/internal/models"
)

const maxTextFieldSize = 64 * 1024

// parseSubmission streams the multipart body, enforcing the per-file limit and the
// content type allow-list as each part arrives. Parts that name neither a text
// field nor a document slot are drained and ignored.
func parseSubmission(r *http.Request, maxFileSize int64) (*models.Application, []Attachment, error) {
	mr, err := r.MultipartReader()
	if err != nil {
		return nil, nil, errors.NewPayloadInvalidError(err.Error())
	}

	app := &models.Application{}
	seen := make(map[models.DocumentKind]bool)
	var attachments []Attachment

	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, readError(err)
		}

		name := part.FormName()
		switch {
		case part.FileName() == "" && models.IsKnownField(name):
			value, err := readLimited(part, maxTextFieldSize)
			if err != nil {
				return nil, nil, readError(err)
			}
			if int64(len(value)) > maxTextFieldSize {
				return nil, nil, errors.NewPayloadInvalidError(fmt.Sprintf("field %s exceeds %d bytes", name, maxTextFieldSize))
			}
			app.Set(models.Field(name), string(value))

		case part.FileName() != "" && models.IsDocumentKind(name):
			kind := models.DocumentKind(name)
			if seen[kind] {
				return nil, nil, errors.NewPayloadInvalidError(fmt.Sprintf("duplicate file part: %s", name))
			}
			seen[kind] = true

			contentType := part.Header.Get("Content-Type")
			if !models.IsAllowedContentType(contentType) {
				return nil, nil, errors.NewUnsupportedFileTypeError(name, contentType)
			}

			data, err := readLimited(part, maxFileSize)
			if err != nil {
				return nil, nil, readError(err)
			}
			if int64(len(data)) > maxFileSize {
				return nil, nil, errors.NewFileTooLargeError(name, int64(len(data)), maxFileSize)
			}

			attachments = append(attachments, Attachment{
				Kind:        kind,
				Filename:    part.FileName(),
				ContentType: contentType,
				Data:        data,
			})

		default:
			if _, err := io.Copy(io.Discard, part); err != nil {
				return nil, nil, readError(err)
			}
		}
		part.Close()
	}

	return app, orderAttachments(attachments), nil
}

// readLimited reads at most limit+1 bytes so the caller can tell an oversize part
// from one exactly at the limit.
func readLimited(part *multipart.Part, limit int64) ([]byte, error) {
	return io.ReadAll(io.LimitReader(part, limit+1))
}

func readError(err error) error {
	var maxErr *http.MaxBytesError
	if stderrors.As(err, &maxErr) {
		return errors.NewFileTooLargeError("request body", maxErr.Limit+1, maxErr.Limit)
	}
	return errors.NewPayloadInvalidError(err.Error())
}

// isEmptySubmission reports a body in which every known text field is blank and no
// document was attached.
func isEmptySubmission(app *models.Application, attachments []Attachment) bool {
	if len(attachments) > 0 {
		return false
	}
	for _, f := range models.TextFields {
		if strings.TrimSpace(app.Get(f)) != "" {
			return false
		}
	}
	return true
}

// orderAttachments sorts attachments into slot display order.
func orderAttachments(in []Attachment) []Attachment {
	out := make([]Attachment, 0, len(in))
	for _, kind := range models.DocumentKinds {
		for _, a := range in {
			if a.Kind == kind {
				out = append(out, a)
			}
		}
	}
	return out
}
