package errors

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cacases/internal/shared/testutil"
)

func TestErrorHandler_HandleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
	}{
		{"not found", NewNotFoundError("entity Atlantis"), http.StatusNotFound, TypeNotFoundProblem},
		{"unknown entity", NewLookupError("Atlantis"), http.StatusInternalServerError, TypeUnknownEntity},
		{"validation", NewAppValidationError("bad limit"), http.StatusBadRequest, TypeValidationProblem},
		{"schema", NewSchemaError("x.csv", 0, "date", "day"), http.StatusInternalServerError, TypeSchemaMismatch},
		{"invariant", NewInvariantError("duplicate key"), http.StatusInternalServerError, TypeFrameInvariant},
		{"timeout", context.DeadlineExceeded, http.StatusGatewayTimeout, TypeTimeout},
		{"plain error", errors.New("boom"), http.StatusInternalServerError, TypeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, _ := testutil.NewTestLogger(t)
			handler := NewErrorHandler(logger, false)

			req := httptest.NewRequest(http.MethodGet, "/api/entities/x", nil)
			rec := httptest.NewRecorder()
			handler.HandleError(rec, req, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)

			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantType, body["type"])
			assert.Equal(t, "/api/entities/x", body["instance"])
			assert.Contains(t, body, "trace_id")
			assert.NotContains(t, body, "stack")
		})
	}
}

func TestErrorHandler_HandleError_Nil(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)
	handler := NewErrorHandler(logger, false)

	rec := httptest.NewRecorder()
	handler.HandleError(rec, httptest.NewRequest(http.MethodGet, "/", nil), nil)

	assert.Equal(t, 0, rec.Body.Len())
	assert.Equal(t, 0, logs.Count())
}

func TestErrorHandler_HandleError_LogsLevel(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)
	handler := NewErrorHandler(logger, true)

	handler.HandleError(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil), errors.New("boom"))
	handler.HandleError(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil), NewNotFoundError("run"))

	testutil.AssertLogContains(t, logs, slog.LevelError, "request failed")
	testutil.AssertLogContains(t, logs, slog.LevelWarn, "request failed")
}

func TestErrorHandler_ProblemExtensions(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	handler := NewErrorHandler(logger, false)

	req := httptest.NewRequest(http.MethodGet, "/api/entities/Atlantis", nil)
	problem := handler.ErrorToProblem(NewLookupError("Atlantis"), req)

	assert.Equal(t, "LOOKUP", problem.Extensions["error_code"])
	details, ok := problem.Extensions["details"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Atlantis", details["entity"])
}

func TestErrorHandler_NotFoundAndMethodNotAllowed(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	handler := NewErrorHandler(logger, false)

	rec := httptest.NewRecorder()
	handler.NotFound(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	handler.MethodNotAllowed(rec, httptest.NewRequest(http.MethodDelete, "/api/runs", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Contains(t, rec.Body.String(), "DELETE")
}

func TestErrorHandler_HandlePanic(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)
	handler := NewErrorHandler(logger, true)

	rec := httptest.NewRecorder()
	handler.HandlePanic(rec, httptest.NewRequest(http.MethodGet, "/", nil), "kaboom")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "kaboom")
	assert.True(t, logs.ContainsMessage("panic recovered"))
}
