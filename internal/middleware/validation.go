package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	apperrors "cacases/internal/errors"
)

// QueryParamValidator validates query parameters and answers 400 on failure.
type QueryParamValidator struct {
	logger       *slog.Logger
	errorHandler *apperrors.ErrorHandler
}

// NewQueryParamValidator creates a new query parameter validator
func NewQueryParamValidator(logger *slog.Logger, errorHandler *apperrors.ErrorHandler) *QueryParamValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &QueryParamValidator{
		logger:       logger.With(slog.String("component", "query_validator")),
		errorHandler: errorHandler,
	}
}

// ValidateInt validates an integer query parameter within [min, max]. The
// second result is false when a response has already been written.
func (v *QueryParamValidator) ValidateInt(w http.ResponseWriter, r *http.Request, param string, min, max, defaultValue int) (int, bool) {
	value := strings.TrimSpace(r.URL.Query().Get(param))
	if value == "" {
		return defaultValue, true
	}

	intValue, err := strconv.Atoi(value)
	if err != nil {
		v.reject(w, r, param, fmt.Sprintf("%s must be a valid integer", param))
		return 0, false
	}
	if intValue < min || intValue > max {
		v.reject(w, r, param, fmt.Sprintf("%s must be between %d and %d", param, min, max))
		return 0, false
	}
	return intValue, true
}

// ValidateString validates a free-text parameter no longer than maxLen.
func (v *QueryParamValidator) ValidateString(w http.ResponseWriter, r *http.Request, param string, maxLen int) (string, bool) {
	value := strings.TrimSpace(r.URL.Query().Get(param))
	if len(value) > maxLen {
		v.reject(w, r, param, fmt.Sprintf("%s must be at most %d characters", param, maxLen))
		return "", false
	}
	return value, true
}

func (v *QueryParamValidator) reject(w http.ResponseWriter, r *http.Request, param, message string) {
	v.logger.DebugContext(r.Context(), "query parameter rejected",
		slog.String("param", param),
		slog.String("value", r.URL.Query().Get(param)))
	v.errorHandler.HandleError(w, r, apperrors.NewAppValidationError(message).WithContext("param", param))
}
