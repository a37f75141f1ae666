package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	pkgAuth "github.com/angelmondragon/storefront/pkg/auth"
	"github.com/angelmondragon/storefront/pkg/config"
	"github.com/angelmondragon/storefront/pkg/shopapi"
)

type stubChecker struct {
	active bool
	err    error
}

func (s stubChecker) HasSession(context.Context, string) (bool, error) {
	return s.active, s.err
}

func authConfig() config.DevAPIConfig {
	return config.DevAPIConfig{JWTSecret: "secret", JWTIssuer: "storefront-test", SessionTTL: time.Hour}
}

func mintCookie(t *testing.T, cfg config.DevAPIConfig) *http.Cookie {
	t.Helper()
	token, err := pkgAuth.MintSessionToken(cfg, time.Now(), pkgAuth.SessionPayload{UserID: 7, Username: "admin", JTI: "access-1"})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return &http.Cookie{Name: pkgAuth.CookieName, Value: token}
}

func TestAuthSeedsContext(t *testing.T) {
	cfg := authConfig()
	var gotUser int
	var gotAccess string
	handler := Auth(cfg, stubChecker{active: true}, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser = UserIDFromContext(r.Context())
		gotAccess = AccessIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(mintCookie(t, cfg))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if gotUser != 7 || gotAccess != "access-1" {
		t.Fatalf("unexpected context values user=%d access=%q", gotUser, gotAccess)
	}
}

func TestAuthRejects(t *testing.T) {
	cfg := authConfig()
	cases := map[string]struct {
		cookie  *http.Cookie
		checker stubChecker
		status  int
	}{
		"missing cookie":  {cookie: nil, checker: stubChecker{active: true}, status: http.StatusUnauthorized},
		"garbage token":   {cookie: &http.Cookie{Name: pkgAuth.CookieName, Value: "nope"}, checker: stubChecker{active: true}, status: http.StatusUnauthorized},
		"revoked session": {cookie: mintCookie(t, cfg), checker: stubChecker{active: false}, status: http.StatusUnauthorized},
		"checker failure": {cookie: mintCookie(t, cfg), checker: stubChecker{err: errors.New("redis down")}, status: http.StatusInternalServerError},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			called := false
			handler := Auth(cfg, tc.checker, nil)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
				called = true
			}))
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tc.cookie != nil {
				req.AddCookie(tc.cookie)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			if called {
				t.Fatalf("handler should not run")
			}
			if rec.Code != tc.status {
				t.Fatalf("expected %d, got %d", tc.status, rec.Code)
			}
		})
	}
}

func TestRequestIDEchoesHeader(t *testing.T) {
	var seen string
	handler := RequestID(nil)(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen = r.Header.Get(shopapi.RequestIDHeader)
	}))

	cases := []struct {
		name   string
		header string
		echoed bool
	}{
		{"uuid", "5f0c6a8e-8a43-4c1e-9d7e-2f1b3c4d5e6f", true},
		{"token", "cli:abc_123.4", true},
		{"missing", "", false},
		{"too long", strings.Repeat("a", maxRequestIDLen+1), false},
		{"spaces", "abc 123", false},
		{"control chars", "abc\x00", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set(shopapi.RequestIDHeader, tc.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			got := rec.Header().Get(shopapi.RequestIDHeader)
			if got == "" || got != seen {
				t.Fatalf("expected handler and response to share an id, got %q and %q", seen, got)
			}
			if tc.echoed && got != tc.header {
				t.Fatalf("expected echoed id %q, got %q", tc.header, got)
			}
			if !tc.echoed {
				if _, err := uuid.Parse(got); err != nil {
					t.Fatalf("expected generated uuid, got %q", got)
				}
			}
		})
	}
}

func TestRecovererWritesInternalError(t *testing.T) {
	handler := Recoverer(nil)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}
