package families

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

func authenticated(req *http.Request) *http.Request {
	ctx := context.WithValue(req.Context(), middleware.UserIDKey, uuid.New())
	return req.WithContext(ctx)
}

func TestCreate_Validation(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		expectedStatus int
		expectedError  string
	}{
		{
			name:           "invalid json",
			body:           `{invalid}`,
			expectedStatus: http.StatusBadRequest,
			expectedError:  "invalid request body",
		},
		{
			name:           "missing name",
			body:           `{}`,
			expectedStatus: http.StatusBadRequest,
			expectedError:  "name is required",
		},
		{
			name:           "blank name",
			body:           `{"name": "   "}`,
			expectedStatus: http.StatusBadRequest,
			expectedError:  "name is required",
		},
	}

	handler := newTestHandler()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/v1/families", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			req = authenticated(req)
			rec := httptest.NewRecorder()

			defer func() {
				if r := recover(); r != nil {
					t.Errorf("Validation should have failed before reaching repository")
				}
			}()

			handler.Create(rec, req)

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

func TestCreate_Unauthenticated(t *testing.T) {
	handler := newTestHandler()

	req := httptest.NewRequest(http.MethodPost, "/v1/families", bytes.NewBufferString(`{"name": "Smith"}`))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Status code = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func withFamilyID(req *http.Request, familyID string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("familyID", familyID)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestRename_Validation(t *testing.T) {
	tests := []struct {
		name           string
		familyID       string
		body           string
		expectedStatus int
		expectedError  string
	}{
		{
			name:           "invalid family id",
			familyID:       "not-a-uuid",
			body:           `{"name": "Smith"}`,
			expectedStatus: http.StatusBadRequest,
			expectedError:  "invalid family id",
		},
		{
			name:           "invalid json",
			familyID:       uuid.New().String(),
			body:           `{invalid}`,
			expectedStatus: http.StatusBadRequest,
			expectedError:  "invalid request body",
		},
		{
			name:           "blank name",
			familyID:       uuid.New().String(),
			body:           `{"name": "  "}`,
			expectedStatus: http.StatusBadRequest,
			expectedError:  "name is required",
		},
	}

	handler := newTestHandler()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPatch, "/v1/families/"+tt.familyID, bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			req = withFamilyID(req, tt.familyID)
			req = authenticated(req)
			rec := httptest.NewRecorder()

			defer func() {
				if r := recover(); r != nil {
					t.Errorf("Validation should have failed before reaching repository")
				}
			}()

			handler.Rename(rec, req)

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

func TestGuardedEndpoints_RequireAuthentication(t *testing.T) {
	familyID := uuid.New().String()
	handler := newTestHandler()

	tests := []struct {
		name   string
		invoke func(w http.ResponseWriter, r *http.Request)
		method string
		target string
	}{
		{"get", handler.Get, http.MethodGet, "/v1/families/" + familyID},
		{"rename", handler.Rename, http.MethodPatch, "/v1/families/" + familyID},
		{"list members", handler.ListMembers, http.MethodGet, "/v1/families/" + familyID + "/members"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.target, bytes.NewBufferString(`{"name": "Smith"}`))
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
