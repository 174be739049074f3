package auth

// Shared response helpers. Every endpoint answers with the same envelope:
// success responses are {"status":"success","data":...} with an optional
// sibling "pagination" object on list endpoints, and error responses are
// {"status":"error","data":{"message":...}} produced from apperror values.
// Keeping the writers here, next to the middleware, gives every feature
// package a single import for both authentication and response shaping.

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/user/madang-go/apperror"
)

// Pagination describes the page window of a list response.
type Pagination struct {
	Page  int `json:"page" example:"1"`
	Limit int `json:"limit" example:"20"`
	Total int `json:"total" example:"42"` // Total records before paging.
}

// Envelope is the success response wrapper.
type Envelope struct {
	Status     string      `json:"status" example:"success"`
	Data       interface{} `json:"data"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

// WriteSuccess writes data wrapped in the success envelope.
func WriteSuccess(w http.ResponseWriter, status int, data interface{}) {
	writeJSON(w, status, Envelope{Status: "success", Data: data})
}

// WriteList writes a paginated success envelope.
func WriteList(w http.ResponseWriter, status int, data interface{}, p Pagination) {
	writeJSON(w, status, Envelope{Status: "success", Data: data, Pagination: &p})
}

// writeJSON serializes data to JSON and writes it with the given status.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			http.Error(w, `{"status":"error","data":{"message":"failed to encode response"}}`, http.StatusInternalServerError)
		}
	}
}

// ParsePagination reads the page and limit query parameters, applying the
// shared defaults and bounds: page >= 1 (default 1), 1 <= limit <= 100
// (default 20). Out-of-range or non-numeric values are a validation error.
func ParsePagination(r *http.Request) (page, limit int, err error) {
	page, limit = 1, 20
	if v := r.URL.Query().Get("page"); v != "" {
		n, convErr := strconv.Atoi(v)
		if convErr != nil || n < 1 {
			return 0, 0, apperror.NewValidationError("page must be an integer >= 1", nil)
		}
		page = n
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		n, convErr := strconv.Atoi(v)
		if convErr != nil || n < 1 || n > 100 {
			return 0, 0, apperror.NewValidationError("limit must be an integer between 1 and 100", nil)
		}
		limit = n
	}
	return page, limit, nil
}

// WriteError converts any error into the standardized error envelope.
// Errors that are not *apperror.AppError are wrapped as internal errors so
// the response shape stays consistent.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	appErr, ok := apperror.FromError(err)
	if !ok {
		appErr = apperror.NewInternalError("an unexpected error occurred", err)
	}
	writeJSON(w, appErr.StatusCode(), appErr.ToResponse())
}
