package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/dukerupert/homebase/internal/auth"
	"github.com/dukerupert/homebase/internal/errutil"
	"github.com/dukerupert/homebase/internal/respond"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var testTokens = auth.NewTokens([]byte("middleware-secret"), time.Hour)

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) respond.ErrorBody {
	t.Helper()
	var body respond.ErrorBody
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return body
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{"", ""},
		{"Bearer abc.def.ghi", "abc.def.ghi"},
		{"bearer abc", "abc"},
		{"Bearer   abc  ", "abc"},
		{"Basic dXNlcjpwdw==", ""},
		{"Bearer", ""},
		{"abc.def.ghi", ""},
	}
	for _, tt := range tests {
		req := httptest.NewRequest("GET", "/", nil)
		if tt.header != "" {
			req.Header.Set("Authorization", tt.header)
		}
		if got := BearerToken(req); got != tt.want {
			t.Errorf("BearerToken(%q) = %q, want %q", tt.header, got, tt.want)
		}
	}
}

func TestRequireAuthNoToken(t *testing.T) {
	handler := RequireAuth(testTokens)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("should not reach handler")
	}))

	req := httptest.NewRequest("GET", "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
	body := decodeError(t, rec)
	if body.Error != errutil.Title(errutil.CodeUnauthorized) || body.Message != "No token provided" {
		t.Errorf("body = %+v", body)
	}
}

func TestRequireAuthInvalidToken(t *testing.T) {
	other := auth.NewTokens([]byte("someone-else"), time.Hour)
	forged, err := other.Issue(auth.Identity{UserID: "u1", HouseholdID: "h1"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	for name, token := range map[string]string{
		"garbage": "invalid-token",
		"forged":  forged,
	} {
		t.Run(name, func(t *testing.T) {
			handler := RequireAuth(testTokens)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				t.Fatal("should not reach handler")
			}))

			req := httptest.NewRequest("GET", "/", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
			}
			body := decodeError(t, rec)
			if body.Error != errutil.Title(errutil.CodeUnauthorized) || body.Message != "Invalid or expired token" {
				t.Errorf("body = %+v", body)
			}
		})
	}
}

func TestRequireAuthValidToken(t *testing.T) {
	token, err := testTokens.Issue(auth.Identity{UserID: "u1", HouseholdID: "h1"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	var got auth.Identity
	handler := RequireAuth(testTokens)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := auth.FromContext(r.Context())
		if !ok {
			t.Fatal("expected Identity in request context")
		}
		got = id
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if got.UserID != "u1" || got.HouseholdID != "h1" {
		t.Errorf("identity = %+v", got)
	}
}
