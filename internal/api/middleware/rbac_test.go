package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/bloghub/blog-api/internal/core/domain"
)

func authorizeCase(t *testing.T, principal *domain.Principal, roles ...string) error {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if principal != nil {
		c.Set(principalKey, *principal)
	}

	handler := AuthorizeRoles(roles...)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	return handler(c)
}

func TestAuthorizeRoles_Allowed(t *testing.T) {
	p := &domain.Principal{ID: "user_1", Role: domain.RoleAdmin, Source: domain.TokenPrincipal}
	if err := authorizeCase(t, p, domain.RoleAdmin); err != nil {
		t.Fatalf("expected access, got %v", err)
	}
}

func TestAuthorizeRoles_MultipleRoles(t *testing.T) {
	p := &domain.Principal{ID: "user_1", Role: domain.RoleUser, Source: domain.SessionPrincipal}
	if err := authorizeCase(t, p, domain.RoleAdmin, domain.RoleUser); err != nil {
		t.Fatalf("expected access, got %v", err)
	}
}

func TestAuthorizeRoles_Denied(t *testing.T) {
	p := &domain.Principal{ID: "user_1", Role: domain.RoleUser, Source: domain.TokenPrincipal}
	err := authorizeCase(t, p, domain.RoleAdmin)

	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %v", err)
	}
	if he.Message != "Forbidden: You do not have permission to access this resource" {
		t.Fatalf("unexpected message: %v", he.Message)
	}
}

func TestAuthorizeRoles_NoPrincipal(t *testing.T) {
	err := authorizeCase(t, nil, domain.RoleAdmin)

	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %v", err)
	}
}
