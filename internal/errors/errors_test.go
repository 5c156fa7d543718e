package errors

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIError_Error(t *testing.T) {
	err := New(http.StatusBadRequest, "INVALID_REQUEST", "bad input")
	assert.Equal(t, "bad input", err.Error())
}

func TestNewWithDetails(t *testing.T) {
	err := NewWithDetails(http.StatusUnprocessableEntity, "UNREADABLE_DOCUMENT", "cannot read", "truncated file")
	assert.Equal(t, http.StatusUnprocessableEntity, err.StatusCode)
	assert.Equal(t, "truncated file", err.Details)
}

func TestErrorResponse_RenderSetsStatusAndEnvelope(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/analyze", nil)

	require.NoError(t, render.Render(w, r, NewErrorResponse(ErrUnsupportedDocument)))

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.JSONEq(t, `{
		"success": false,
		"error": {
			"status_code": 422,
			"error_code": "UNSUPPORTED_DOCUMENT",
			"message": "Document does not match the supported credit report format"
		}
	}`, w.Body.String())
}

func TestPredefinedErrorCodes(t *testing.T) {
	tests := []struct {
		err    *APIError
		status int
		code   string
	}{
		{ErrMissingFile, http.StatusBadRequest, "MISSING_FILE"},
		{ErrInvalidUpload, http.StatusBadRequest, "INVALID_UPLOAD"},
		{ErrFileTooLarge, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE"},
		{ErrUnsupportedDocument, http.StatusUnprocessableEntity, "UNSUPPORTED_DOCUMENT"},
		{ErrUnreadableDocument, http.StatusUnprocessableEntity, "UNREADABLE_DOCUMENT"},
		{ErrRateLimitExceeded, http.StatusTooManyRequests, "RATE_LIMIT_EXCEEDED"},
		{ErrInternalServer, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.status, tt.err.StatusCode, tt.code)
		assert.Equal(t, tt.code, tt.err.ErrorCode)
	}
}

func TestInvalidUploadError(t *testing.T) {
	err := InvalidUploadError([]string{".pdf"})
	assert.Equal(t, http.StatusBadRequest, err.StatusCode)
	assert.Contains(t, err.Message, ".pdf")
}
