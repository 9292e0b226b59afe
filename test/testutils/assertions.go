package testutils

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/alchemorsel/pantry/pkg/errors"
)

// AssertAppError asserts that err carries the given application error code
func AssertAppError(t *testing.T, err error, code apperrors.ErrorCode, msgAndArgs ...interface{}) {
	t.Helper()
	require.Error(t, err, msgAndArgs...)
	assert.Equal(t, code, apperrors.GetCode(err), msgAndArgs...)
}

// DecodeJSON decodes the recorded response body into v
func DecodeJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), "body: %s", w.Body.String())
}

// AssertErrorResponse asserts the status code and error code of an API
// error response
func AssertErrorResponse(t *testing.T, w *httptest.ResponseRecorder, status int, code apperrors.ErrorCode) {
	t.Helper()
	require.Equal(t, status, w.Code, "body: %s", w.Body.String())

	var resp apperrors.ErrorResponse
	DecodeJSON(t, w, &resp)
	assert.Equal(t, code, resp.Error.Code)
	assert.NotEmpty(t, resp.Error.Message)
}
