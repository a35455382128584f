package form

import "errors"

var (
	ErrUnknownField           = errors.New("unknown field")
	ErrUnknownDocument        = errors.New("unknown document kind")
	ErrFormClosed             = errors.New("application already submitted")
	ErrSubmissionInProgress   = errors.New("submission already in progress")
	ErrValidationFailed       = errors.New("application validation failed")
	ErrSubmissionFailed       = errors.New("submission failed")
	ErrFileTooLarge           = errors.New("file too large")
	ErrUnsupportedFileType    = errors.New("unsupported file type")
	ErrSubmitterNotConfigured = errors.New("no submitter configured")
)
