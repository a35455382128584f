package models

import (
	"mime"
	"strings"
)

// DocumentKind names one of the seven attachment slots. The value is also the
// multipart part name.
type DocumentKind string

const (
	DocumentPAN              DocumentKind = "pan"
	DocumentAadhaar          DocumentKind = "aadhaar"
	DocumentGST              DocumentKind = "gst"
	DocumentUdyam            DocumentKind = "udyam"
	DocumentGST3B12M         DocumentKind = "gst3b12m"
	DocumentBankStatement12M DocumentKind = "bankStatement12m"
	DocumentITR3Y            DocumentKind = "itr3y"
)

// DocumentKinds lists every slot in display order.
var DocumentKinds = []DocumentKind{
	DocumentPAN,
	DocumentAadhaar,
	DocumentGST,
	DocumentUdyam,
	DocumentGST3B12M,
	DocumentBankStatement12M,
	DocumentITR3Y,
}

// IsDocumentKind reports whether name is a known slot.
func IsDocumentKind(name string) bool {
	for _, k := range DocumentKinds {
		if string(k) == name {
			return true
		}
	}
	return false
}

// Attachment limits shared by the form engine and the relay.
const (
	MaxFileSize = 5 * 1024 * 1024

	ContentTypePDF  = "application/pdf"
	ContentTypeJPEG = "image/jpeg"
	ContentTypePNG  = "image/png"
)

var AllowedContentTypes = []string{ContentTypePDF, ContentTypeJPEG, ContentTypePNG}

// IsAllowedContentType reports whether ct is one of AllowedContentTypes.
// Parameters such as "; charset=" are ignored.
func IsAllowedContentType(ct string) bool {
	base, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return false
	}
	for _, a := range AllowedContentTypes {
		if strings.EqualFold(base, a) {
			return true
		}
	}
	return false
}

// File is a staged attachment.
type File struct {
	Name        string `json:"name" yaml:"name"`
	ContentType string `json:"contentType" yaml:"contentType"`
	Size        int64  `json:"size" yaml:"size"`
	Data        []byte `json:"-" yaml:"-"`
}
