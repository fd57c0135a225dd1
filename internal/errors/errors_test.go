package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAppError_ErrorString(t *testing.T) {
	err := New(CategoryCorpus, SeverityError, "index unavailable")
	require.Equal(t, "corpus (error): index unavailable", err.Error())

	wrapped := Wrap(fmt.Errorf("disk full"), CategoryStorage, SeverityFatal, "persist failed")
	require.Contains(t, wrapped.Error(), "disk full")
	require.ErrorContains(t, wrapped.Unwrap(), "disk full")
}

func TestAppError_Classification(t *testing.T) {
	err := ValidationError("question must not be empty")
	require.True(t, IsCategory(err, CategoryValidation))
	require.False(t, IsRetryable(err))
	require.Equal(t, CategoryValidation, GetCategory(err))
	require.Equal(t, CategoryInternal, GetCategory(fmt.Errorf("plain")))
}

func TestAppError_Retryable(t *testing.T) {
	err := WrapRetryable(fmt.Errorf("conn refused"), CategoryEvents, SeverityWarning, "publish failed")
	require.True(t, IsRetryable(err))
}

func TestHTTPErrorAdapter_StatusCodes(t *testing.T) {
	adapter := NewHTTPErrorAdapter(nil)
	cases := []struct {
		err  error
		want int
	}{
		{nil, http.StatusOK},
		{ValidationError("bad"), http.StatusBadRequest},
		{NotFoundError("conversation"), http.StatusNotFound},
		{New(CategoryGit, SeverityError, "clone failed"), http.StatusBadGateway},
		{New(CategoryCorpus, SeverityError, "empty index"), http.StatusUnprocessableEntity},
		{New(CategoryRuntime, SeverityError, "shutting down"), http.StatusServiceUnavailable},
		{fmt.Errorf("mystery"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, adapter.StatusCodeFor(tc.err))
	}
}

func TestHTTPErrorAdapter_FormatErrorResponse(t *testing.T) {
	adapter := NewHTTPErrorAdapter(nil)
	err := ValidationError("question must not be empty").WithContext("field", "question")
	resp := adapter.FormatErrorResponse(err)
	require.Equal(t, "question must not be empty", resp.Error)
	require.Equal(t, "validation", resp.Code)
	require.Equal(t, "question", resp.Details["field"])
}
