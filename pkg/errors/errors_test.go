package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAndWrap(t *testing.T) {
	err := New("something broke")
	assert.Contains(t, err.Error(), "something broke")
	assert.Contains(t, err.Location(), "errors_test.go:")

	base := fmt.Errorf("connection reset")
	wrapped := Wrap(base, "failed to fetch transcript")
	assert.Equal(t, "failed to fetch transcript: connection reset", wrapped.Error())
	assert.Equal(t, base, stderrors.Unwrap(wrapped))

	assert.Nil(t, Wrap(nil, "ignored"))
}

func TestWithFieldsAndCode(t *testing.T) {
	err := New("store write failed").
		WithField("insight_id", "insight_abc").
		WithFields(map[string]interface{}{"table": "coaching-insights"}).
		WithCode("WRITE_FAILED")

	fields := err.GetFields()
	assert.Equal(t, "insight_abc", fields["insight_id"])
	assert.Equal(t, "coaching-insights", fields["table"])
	assert.Equal(t, "WRITE_FAILED", err.GetCode())
}

func TestSentinelMatching(t *testing.T) {
	err := NewTranscriptListFailed("access denied")
	assert.True(t, IsErrorType(err, ErrTranscriptListFailed))
	assert.False(t, IsErrorType(err, ErrTranscriptNotFound))
	assert.Equal(t, "TRANSCRIPT_LIST_FAILED", GetErrorCode(err))
	assert.Contains(t, err.Error(), "access denied")

	invalid := NewInvalidTranscript("parsedFiles/broken.json")
	assert.True(t, IsErrorType(invalid, ErrInvalidTranscript))
	assert.Equal(t, "parsedFiles/broken.json", invalid.GetFields()["transcript_key"])
}

func TestHTTPStatusFromError(t *testing.T) {
	assert.Equal(t, http.StatusOK, HTTPStatusFromError(nil))
	assert.Equal(t, http.StatusBadRequest, HTTPStatusFromError(ErrInvalidInput))
	assert.Equal(t, http.StatusNotFound, HTTPStatusFromError(ErrTranscriptNotFound))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatusFromError(ErrTranscriptListFailed))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatusFromError(fmt.Errorf("unclassified")))
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, NewInvalidInput("keys must not be empty"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "INVALID_INPUT")
	assert.Contains(t, rec.Body.String(), "keys must not be empty")
}

func TestWriteErrorPlainError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, fmt.Errorf("boom"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	require.Contains(t, rec.Body.String(), "boom")
}
