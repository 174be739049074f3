package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/user/madang-go/apperror"
)

func TestParsePagination(t *testing.T) {
	cases := []struct {
		name      string
		query     string
		wantPage  int
		wantLimit int
		wantErr   bool
	}{
		{"defaults", "", 1, 20, false},
		{"explicit", "page=3&limit=50", 3, 50, false},
		{"limit upper bound", "limit=100", 1, 100, false},
		{"page zero", "page=0", 0, 0, true},
		{"page negative", "page=-1", 0, 0, true},
		{"page not a number", "page=abc", 0, 0, true},
		{"limit zero", "limit=0", 0, 0, true},
		{"limit too large", "limit=101", 0, 0, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/posts?"+tc.query, nil)
			page, limit, err := ParsePagination(req)
			if tc.wantErr {
				if !apperror.IsValidationError(err) {
					t.Fatalf("expected validation error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if page != tc.wantPage || limit != tc.wantLimit {
				t.Fatalf("got page=%d limit=%d, want page=%d limit=%d", page, limit, tc.wantPage, tc.wantLimit)
			}
		})
	}
}

func TestWriteListEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteList(rec, http.StatusOK, []string{"a", "b"}, Pagination{Page: 1, Limit: 20, Total: 2})

	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected JSON content type, got %q", ct)
	}

	var body struct {
		Status     string      `json:"status"`
		Data       []string    `json:"data"`
		Pagination *Pagination `json:"pagination"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Status != "success" || len(body.Data) != 2 {
		t.Fatalf("unexpected envelope: %s", rec.Body.String())
	}
	if body.Pagination == nil || body.Pagination.Total != 2 {
		t.Fatalf("missing pagination: %s", rec.Body.String())
	}
}

func TestWriteSuccessOmitsPagination(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteSuccess(rec, http.StatusCreated, map[string]string{"ok": "yes"})

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(rec.Body.Bytes(), &raw); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, present := raw["pagination"]; present {
		t.Fatalf("pagination should be omitted: %s", rec.Body.String())
	}
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	WriteError(rec, req, apperror.NewNotFoundError("post not found", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	var body struct {
		Status string `json:"status"`
		Data   struct {
			Message string `json:"message"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Status != "error" || body.Data.Message != "post not found" {
		t.Fatalf("unexpected error envelope: %s", rec.Body.String())
	}

	// Plain errors come back as a 500 with the same shape.
	rec = httptest.NewRecorder()
	WriteError(rec, req, errors.New("boom"))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 for plain error, got %d", rec.Code)
	}
}
