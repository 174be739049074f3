package apperror

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
)

func TestStatusCodes(t *testing.T) {
	cases := []struct {
		err  *AppError
		want int
	}{
		{NewAuthError("auth", nil), http.StatusUnauthorized},
		{NewForbiddenError("forbidden", nil), http.StatusForbidden},
		{NewNotFoundError("missing", nil), http.StatusNotFound},
		{NewValidationError("invalid", nil), http.StatusBadRequest},
		{NewBadRequestError("bad", nil), http.StatusBadRequest},
		{NewConflictError("dup", nil), http.StatusConflict},
		{NewStoreError("store", nil), http.StatusInternalServerError},
		{NewConfigError("config", nil), http.StatusInternalServerError},
		{NewInternalError("internal", nil), http.StatusInternalServerError},
		{NewAppError(UnknownError, "unknown", nil), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := tc.err.StatusCode(); got != tc.want {
			t.Fatalf("%s: got status %d, want %d", tc.err.Message, got, tc.want)
		}
	}
}

func TestErrorAndUnwrap(t *testing.T) {
	underlying := errors.New("disk full")
	err := NewStoreError("failed to save", underlying)

	if !strings.Contains(err.Error(), "failed to save") || !strings.Contains(err.Error(), "disk full") {
		t.Fatalf("unexpected message: %q", err.Error())
	}
	if !errors.Is(err, underlying) {
		t.Fatal("errors.Is does not reach the underlying error")
	}

	bare := NewNotFoundError("missing", nil)
	if bare.Error() != "missing" {
		t.Fatalf("unexpected bare message: %q", bare.Error())
	}
}

func TestFromErrorThroughWrapping(t *testing.T) {
	appErr := NewConflictError("nickname already exists", nil)
	wrapped := fmt.Errorf("signup: %w", appErr)

	got, ok := FromError(wrapped)
	if !ok || got.Type != ConflictError {
		t.Fatalf("FromError failed on wrapped error: %v %v", got, ok)
	}
	if !IsConflictError(wrapped) {
		t.Fatal("IsConflictError failed on wrapped error")
	}

	if _, ok := FromError(errors.New("plain")); ok {
		t.Fatal("plain error should not convert")
	}
	if _, ok := FromError(nil); ok {
		t.Fatal("nil should not convert")
	}
}

func TestToResponseHidesInternals(t *testing.T) {
	err := NewStoreError("failed to save", errors.New("open /secret/path: permission denied"))

	data, jsonErr := json.Marshal(err.ToResponse())
	if jsonErr != nil {
		t.Fatalf("marshal: %v", jsonErr)
	}
	body := string(data)
	if !strings.Contains(body, `"status":"error"`) || !strings.Contains(body, "failed to save") {
		t.Fatalf("unexpected body: %s", body)
	}
	if strings.Contains(body, "secret") {
		t.Fatalf("underlying error leaked into response: %s", body)
	}
}
