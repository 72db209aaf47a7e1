package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ogurasousui/employee-directory/internal/core/employee"
)

const (
	codeInvalidInput     = "invalid_input"
	codeUnavailable      = "unavailable"
	codeTimeout          = "timeout"
	codeCanceled         = "canceled"
	codeInternal         = "internal_error"
	codeNotFound         = "not_found"
	codeMethodNotAllowed = "method_not_allowed"
	codeTooLarge         = "request_too_large"
)

// FieldError は入力項目ごとの検証エラーです。
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error     string       `json:"error"`
	Message   string       `json:"message"`
	Fields    []FieldError `json:"fields,omitempty"`
	RequestID string       `json:"request_id,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string, fields []FieldError) {
	writeJSON(w, status, errorResponse{
		Error:     code,
		Message:   message,
		Fields:    fields,
		RequestID: RequestIDFromContext(r.Context()),
	})
}

// writeServiceError はユースケースのエラーを HTTP ステータスへ変換します。
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, employee.ErrInvalidSkip):
		writeError(w, r, http.StatusBadRequest, codeInvalidInput, "invalid paging", []FieldError{{Field: "skip", Message: "must be zero or greater"}})
	case errors.Is(err, employee.ErrInvalidTake):
		writeError(w, r, http.StatusBadRequest, codeInvalidInput, "invalid paging", []FieldError{{Field: "take", Message: err.Error()}})
	case errors.Is(err, employee.ErrStoreUnavailable):
		writeError(w, r, http.StatusServiceUnavailable, codeUnavailable, "employee store is unavailable", nil)
	case errors.Is(err, context.DeadlineExceeded):
		writeError(w, r, http.StatusGatewayTimeout, codeTimeout, "request timed out", nil)
	case errors.Is(err, context.Canceled):
		writeError(w, r, http.StatusServiceUnavailable, codeCanceled, "request canceled", nil)
	default:
		writeError(w, r, http.StatusInternalServerError, codeInternal, "internal server error", nil)
	}
}
