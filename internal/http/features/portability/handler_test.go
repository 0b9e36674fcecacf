package portability

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/famhub/famhub/internal/http/middleware"
)

func newTestHandler() *Handler {
	return &Handler{
		logger: slog.New(slog.NewTextHandler(os.Stdout, nil)),
	}
}

func withFamilyID(req *http.Request, familyID string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("familyID", familyID)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func authenticated(req *http.Request) *http.Request {
	ctx := context.WithValue(req.Context(), middleware.UserIDKey, uuid.New())
	return req.WithContext(ctx)
}

func TestExport_InvalidFamilyID(t *testing.T) {
	handler := newTestHandler()

	req := httptest.NewRequest(http.MethodPost, "/v1/families/not-a-uuid/export", nil)
	req = withFamilyID(req, "not-a-uuid")
	rec := httptest.NewRecorder()

	defer func() {
		if r := recover(); r != nil {
			t.Errorf("Validation should have failed before reaching service")
		}
	}()

	handler.Export(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Status code = %d, want %d", rec.Code, http.StatusBadRequest)
	}

	var response map[string]string
	json.NewDecoder(rec.Body).Decode(&response)
	if response["error"] != "invalid family id" {
		t.Errorf("Error = %q, want %q", response["error"], "invalid family id")
	}
}

func TestHandlers_RequireAuthentication(t *testing.T) {
	familyID := uuid.New().String()
	handler := newTestHandler()

	tests := []struct {
		name   string
		invoke func(w http.ResponseWriter, r *http.Request)
		method string
		target string
	}{
		{"export", handler.Export, http.MethodPost, "/v1/families/" + familyID + "/export"},
		{"import", handler.Import, http.MethodPost, "/v1/import"},
		{"erase", handler.Erase, http.MethodDelete, "/v1/families/" + familyID},
		{"verify", handler.Verify, http.MethodGet, "/v1/families/" + familyID + "/integrity"},
		{"summary", handler.Summary, http.MethodGet, "/v1/families/" + familyID + "/summary"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.target, bytes.NewBufferString(`{"version":"1.0"}`))
			req = withFamilyID(req, familyID)
			rec := httptest.NewRecorder()

			defer func() {
				if r := recover(); r != nil {
					t.Errorf("Auth check should have failed before reaching any repository")
				}
			}()

			tt.invoke(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Errorf("Status code = %d, want %d", rec.Code, http.StatusUnauthorized)
			}
		})
	}
}

func TestImport_Validation(t *testing.T) {
	tests := []struct {
		name           string
		target         string
		body           string
		expectedStatus int
		expectedError  string
	}{
		{
			name:           "invalid json",
			target:         "/v1/import",
			body:           `{invalid}`,
			expectedStatus: http.StatusBadRequest,
			expectedError:  "invalid request body",
		},
		{
			name:           "invalid merge target",
			target:         "/v1/import?family_id=not-a-uuid",
			body:           `{"version":"1.0"}`,
			expectedStatus: http.StatusBadRequest,
			expectedError:  "invalid family_id",
		},
	}

	handler := newTestHandler()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, tt.target, bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			req = authenticated(req)
			rec := httptest.NewRecorder()

			defer func() {
				if r := recover(); r != nil {
					t.Errorf("Validation should have failed before reaching service")
				}
			}()

			handler.Import(rec, req)

			if rec.Code != tt.expectedStatus {
				t.Errorf("Status code = %d, want %d", rec.Code, tt.expectedStatus)
			}

			var response map[string]string
			json.NewDecoder(rec.Body).Decode(&response)
			if response["error"] != tt.expectedError {
				t.Errorf("Error = %q, want %q", response["error"], tt.expectedError)
			}
		})
	}
}

func TestErase_InvalidFamilyID(t *testing.T) {
	handler := newTestHandler()

	req := httptest.NewRequest(http.MethodDelete, "/v1/families/not-a-uuid", nil)
	req = withFamilyID(req, "not-a-uuid")
	rec := httptest.NewRecorder()

	handler.Erase(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Status code = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestVerify_InvalidFamilyID(t *testing.T) {
	handler := newTestHandler()

	req := httptest.NewRequest(http.MethodGet, "/v1/families/not-a-uuid/integrity", nil)
	req = withFamilyID(req, "not-a-uuid")
	rec := httptest.NewRecorder()

	handler.Verify(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Status code = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}
