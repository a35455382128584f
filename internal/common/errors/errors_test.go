package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRetryClassification(t *testing.T) {
	tests := []struct {
		code      ErrorCode
		retries   int
		retryable bool
		status    int
	}{
		{ErrCodeMailSendFailed, 1, true, http.StatusInternalServerError},
		{ErrCodeMailTimeout, 1, true, http.StatusInternalServerError},
		{ErrCodeRelayUnavailable, 1, true, http.StatusInternalServerError},
		{ErrCodeMailNotConfigured, 0, false, http.StatusInternalServerError},
		{ErrCodeInternal, 0, false, http.StatusInternalServerError},
		{ErrCodePayloadInvalid, 0, false, http.StatusBadRequest},
		{ErrCodeApplicationValidationFailed, 0, false, http.StatusBadRequest},
		{ErrCodeFileTooLarge, 0, false, http.StatusRequestEntityTooLarge},
		{ErrCodeUnsupportedFileType, 0, false, http.StatusUnsupportedMediaType},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.retries, GetRetryCount(tt.code))
			assert.Equal(t, tt.retryable, IsRetryableErrorCode(tt.code))
			assert.Equal(t, tt.status, HTTPStatus(tt.code))
		})
	}
}

func TestNormalize(t *testing.T) {
	assert.Nil(t, Normalize(nil))

	wrapped := fmt.Errorf("send: %w", NewMailTimeoutError("smtp", 0))
	assert.Equal(t, ErrCodeMailTimeout, Normalize(wrapped).Code)

	assert.Equal(t, ErrCodeInternal, Normalize(fmt.Errorf("boom")).Code)
}
