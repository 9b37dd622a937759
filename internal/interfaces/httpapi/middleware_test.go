package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/matrixrace/matrixraceapp/internal/domain/user"
	"github.com/matrixrace/matrixraceapp/internal/usecase"
)

type stubVerifier struct {
	principal user.Principal
	err       error
}

func (v *stubVerifier) VerifyAccessToken(_ context.Context, _ string) (user.Principal, error) {
	if v.err != nil {
		return user.Principal{}, v.err
	}
	return v.principal, nil
}

func TestRequireAuth_MissingHeader(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("next handler must not run without credentials")
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/predictions/events/1", nil)
	RequireAuth(&stubVerifier{}, next).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}
}

func TestRequireAuth_InvalidToken(t *testing.T) {
	verifier := &stubVerifier{err: fmt.Errorf("%w: inactive token", usecase.ErrUnauthorized)}
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("next handler must not run for a rejected token")
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/predictions/events/1", nil)
	req.Header.Set("Authorization", "Bearer expired-token")
	RequireAuth(verifier, next).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}
}

func TestRequireAuth_AttachesPrincipal(t *testing.T) {
	verifier := &stubVerifier{principal: user.Principal{UserID: "user-1", Email: "user-1@example.com"}}

	var seen user.Principal
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, ok := principalFromContext(r.Context())
		if !ok {
			t.Fatalf("expected principal in request context")
		}
		seen = principal
		w.WriteHeader(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/predictions/events/1", nil)
	req.Header.Set("Authorization", "Bearer valid-token")
	RequireAuth(verifier, next).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if seen.UserID != "user-1" {
		t.Fatalf("expected principal user-1, got %q", seen.UserID)
	}
}

func TestRequireInternalJobToken(t *testing.T) {
	cases := []struct {
		name       string
		configured string
		provided   string
		wantStatus int
	}{
		{name: "valid token", configured: "secret", provided: "secret", wantStatus: http.StatusOK},
		{name: "wrong token", configured: "secret", provided: "nope", wantStatus: http.StatusUnauthorized},
		{name: "missing token", configured: "secret", provided: "", wantStatus: http.StatusUnauthorized},
		{name: "unconfigured", configured: "", provided: "secret", wantStatus: http.StatusServiceUnavailable},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			})

			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/v1/internal/ingestion/season", nil)
			if tc.provided != "" {
				req.Header.Set("X-Internal-Job-Token", tc.provided)
			}
			RequireInternalJobToken(tc.configured, next).ServeHTTP(rec, req)

			if rec.Code != tc.wantStatus {
				t.Fatalf("expected status %d, got %d", tc.wantStatus, rec.Code)
			}
		})
	}
}

func TestCORS_AllowedOrigin(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/events", nil)
	req.Header.Set("Origin", "https://matrixrace.app")
	CORS([]string{"https://matrixrace.app"}, next).ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://matrixrace.app" {
		t.Fatalf("expected allow-origin echo, got %q", got)
	}
}

func TestCORS_DisallowedOrigin(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/events", nil)
	req.Header.Set("Origin", "https://evil.example")
	CORS([]string{"https://matrixrace.app"}, next).ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("expected no allow-origin header, got %q", got)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected passthrough status 200, got %d", rec.Code)
	}
}

func TestCORS_PreflightShortCircuits(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("next handler must not run for preflight")
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/v1/predictions", nil)
	req.Header.Set("Origin", "https://matrixrace.app")
	CORS([]string{"*"}, next).ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("expected wildcard allow-origin, got %q", got)
	}
}

func TestShouldTraceRequest(t *testing.T) {
	cases := []struct {
		path string
		want bool
	}{
		{path: "/healthz", want: false},
		{path: "/HEALTHZ", want: false},
		{path: "/readyz", want: false},
		{path: "/v1/events", want: true},
		{path: "/v1/leagues/global-2026/standings", want: true},
	}

	for _, tc := range cases {
		if got := shouldTraceRequest(tc.path); got != tc.want {
			t.Fatalf("shouldTraceRequest(%q) = %v, want %v", tc.path, got, tc.want)
		}
	}
}
