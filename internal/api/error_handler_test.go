package api

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/bloghub/blog-api/internal/core/domain"
)

func renderError(t *testing.T, err error, production bool) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := NewHTTPErrorHandler(zerolog.Nop(), production)
	handler(err, c)
	return rec
}

func TestErrorHandler_DomainMappings(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
		body string
	}{
		{"invalid credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized, `{"success":false,"message":"Invalid credentials"}`},
		{"invalid role", domain.ErrInvalidRole, http.StatusBadRequest, `{"success":false,"message":"Invalid role"}`},
		{"user exists", domain.ErrUserExists, http.StatusConflict, `{"success":false,"message":"User already exists"}`},
		{"email exists", domain.ErrEmailExists, http.StatusConflict, `{"success":false,"message":"Email already exists"}`},
		{"user not found", domain.ErrUserNotFound, http.StatusNotFound, `{"success":false,"message":"User not found"}`},
		{"blog not found", domain.ErrBlogNotFound, http.StatusNotFound, `{"success":false,"message":"Blog post not found"}`},
		{"token expired", domain.ErrTokenExpired, http.StatusUnauthorized, `{"success":false,"message":"Token expired"}`},
		{"token invalid", domain.ErrTokenInvalid, http.StatusUnauthorized, `{"success":false,"message":"Invalid token."}`},
		{"not owner", domain.ErrNotOwner, http.StatusForbidden, `{"success":false,"message":"You can only modify your own posts"}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := renderError(t, tc.err, true)
			if rec.Code != tc.code {
				t.Fatalf("expected %d, got %d", tc.code, rec.Code)
			}
			if got := strings.TrimSpace(rec.Body.String()); got != tc.body {
				t.Fatalf("expected body %s, got %s", tc.body, got)
			}
		})
	}
}

func TestErrorHandler_EchoHTTPError(t *testing.T) {
	rec := renderError(t, echo.NewHTTPError(http.StatusUnauthorized, "Invalid token."), true)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	want := `{"success":false,"message":"Invalid token."}`
	if got := strings.TrimSpace(rec.Body.String()); got != want {
		t.Fatalf("expected body %s, got %s", want, got)
	}
}

// Unknown-email and wrong-password logins both surface ErrInvalidCredentials,
// so their rendered responses must be byte for byte identical.
func TestErrorHandler_CredentialResponsesIndistinguishable(t *testing.T) {
	unknownEmail := renderError(t, domain.ErrInvalidCredentials, true)
	wrongPassword := renderError(t, domain.ErrInvalidCredentials, true)

	if unknownEmail.Code != wrongPassword.Code {
		t.Fatalf("status codes differ: %d vs %d", unknownEmail.Code, wrongPassword.Code)
	}
	if unknownEmail.Body.String() != wrongPassword.Body.String() {
		t.Fatalf("bodies differ: %s vs %s", unknownEmail.Body.String(), wrongPassword.Body.String())
	}
}

func TestErrorHandler_UnexpectedError(t *testing.T) {
	rec := renderError(t, errors.New("mongo: connection reset"), true)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	body := rec.Body.String()
	if strings.Contains(body, "mongo") {
		t.Fatalf("internal detail leaked: %s", body)
	}
	if strings.Contains(body, "stack") {
		t.Fatalf("stack trace present in production: %s", body)
	}
}

func TestErrorHandler_StackOutsideProduction(t *testing.T) {
	rec := renderError(t, errors.New("boom"), false)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "stack") {
		t.Fatalf("expected stack trace outside production, got %s", rec.Body.String())
	}
}
