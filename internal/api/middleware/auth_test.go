package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/bloghub/blog-api/internal/core/domain"
	"github.com/bloghub/blog-api/internal/core/ports"
	"github.com/bloghub/blog-api/internal/pkg/token"
)

type stubAuthService struct {
	refreshFn func(ctx context.Context, refreshToken string) (*ports.RefreshResult, error)
}

func (s *stubAuthService) Register(context.Context, string, string, string, string) (*ports.AuthResult, error) {
	panic("not used")
}
func (s *stubAuthService) Login(context.Context, string, string) (*ports.AuthResult, error) {
	panic("not used")
}
func (s *stubAuthService) StartSession(context.Context, domain.PublicUser) (*domain.Session, error) {
	panic("not used")
}
func (s *stubAuthService) Logout(context.Context, string) error { panic("not used") }
func (s *stubAuthService) Refresh(ctx context.Context, refreshToken string) (*ports.RefreshResult, error) {
	return s.refreshFn(ctx, refreshToken)
}

type stubSessions struct {
	sessions map[string]*domain.Session
}

func (s *stubSessions) Save(context.Context, domain.Session) error { panic("not used") }
func (s *stubSessions) Get(_ context.Context, id string) (*domain.Session, error) {
	if sess, ok := s.sessions[id]; ok {
		return sess, nil
	}
	return nil, domain.ErrSessionNotFound
}
func (s *stubSessions) Delete(context.Context, string) error { return nil }

func newCodec(t *testing.T, accessTTL time.Duration) *token.Codec {
	t.Helper()
	codec, err := token.NewCodec("access-secret", "refresh-secret", accessTTL, time.Hour)
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}
	return codec
}

func newGateContext(t *testing.T, req *http.Request) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func alice() *domain.User {
	return &domain.User{ID: "user_1", Name: "Alice", Email: "alice@example.com", Role: domain.RoleAdmin}
}

func TestAuthenticate_ValidToken(t *testing.T) {
	codec := newCodec(t, time.Minute)
	signed, err := codec.IssueAccess(alice())
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+signed)
	c, rec := newGateContext(t, req)

	called := false
	mw := Authenticate(codec, &stubSessions{}, &stubAuthService{})
	handler := mw(func(c echo.Context) error {
		called = true
		p, ok := PrincipalFrom(c)
		if !ok {
			t.Fatalf("principal not set")
		}
		if p.ID != "user_1" || p.Role != domain.RoleAdmin || p.Source != domain.TokenPrincipal {
			t.Fatalf("unexpected principal: %+v", p)
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthenticate_MissingToken(t *testing.T) {
	codec := newCodec(t, time.Minute)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c, _ := newGateContext(t, req)

	mw := Authenticate(codec, &stubSessions{}, &stubAuthService{})
	handler := mw(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	err := handler(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
	if he.Message != "Access denied. No token or session provided." {
		t.Fatalf("unexpected message: %v", he.Message)
	}
}

func TestAuthenticate_InvalidToken(t *testing.T) {
	codec := newCodec(t, time.Minute)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer not-a-token")
	c, _ := newGateContext(t, req)

	mw := Authenticate(codec, &stubSessions{}, &stubAuthService{})
	handler := mw(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	err := handler(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
	if he.Message != "Invalid token." {
		t.Fatalf("unexpected message: %v", he.Message)
	}
}

func expiredToken(t *testing.T) (codec *token.Codec, signed string) {
	t.Helper()
	// Sign with a codec whose TTL is already gone, verify with one sharing
	// the secret.
	short := newCodec(t, time.Nanosecond)
	signed, err := short.IssueAccess(alice())
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	time.Sleep(10 * time.Millisecond)
	return newCodec(t, time.Minute), signed
}

func TestAuthenticate_ExpiredWithoutRefreshToken(t *testing.T) {
	codec, signed := expiredToken(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+signed)
	c, _ := newGateContext(t, req)

	mw := Authenticate(codec, &stubSessions{}, &stubAuthService{
		refreshFn: func(context.Context, string) (*ports.RefreshResult, error) {
			t.Fatalf("refresh must not be called without a refresh token")
			return nil, nil
		},
	})
	handler := mw(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	err := handler(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
	if he.Message != "Token expired. Please provide refresh token or login again." {
		t.Fatalf("unexpected message: %v", he.Message)
	}
}

func TestAuthenticate_ExpiredWithRefreshHeader(t *testing.T) {
	codec, signed := expiredToken(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+signed)
	req.Header.Set(HeaderRefreshToken, "refresh-token-value")
	c, rec := newGateContext(t, req)

	called := false
	mw := Authenticate(codec, &stubSessions{}, &stubAuthService{
		refreshFn: func(_ context.Context, refreshToken string) (*ports.RefreshResult, error) {
			if refreshToken != "refresh-token-value" {
				t.Fatalf("unexpected refresh token: %s", refreshToken)
			}
			return &ports.RefreshResult{
				Token: "new-access-token",
				ID:    "user_1",
				Name:  "Alice",
				Email: "alice@example.com",
				Role:  domain.RoleAdmin,
			}, nil
		},
	})
	handler := mw(func(c echo.Context) error {
		called = true
		p, _ := PrincipalFrom(c)
		if p.ID != "user_1" || p.Role != domain.RoleAdmin {
			t.Fatalf("unexpected principal: %+v", p)
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("request did not self-heal")
	}
	if got := rec.Header().Get(HeaderNewAccessToken); got != "new-access-token" {
		t.Fatalf("expected new access token header, got %q", got)
	}
}

func TestAuthenticate_ExpiredWithRefreshInBody(t *testing.T) {
	codec, signed := expiredToken(t)

	body := `{"refreshToken":"body-refresh-token","title":"draft"}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+signed)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	c, _ := newGateContext(t, req)

	mw := Authenticate(codec, &stubSessions{}, &stubAuthService{
		refreshFn: func(_ context.Context, refreshToken string) (*ports.RefreshResult, error) {
			if refreshToken != "body-refresh-token" {
				t.Fatalf("unexpected refresh token: %s", refreshToken)
			}
			return &ports.RefreshResult{Token: "t", ID: "user_1", Role: domain.RoleUser}, nil
		},
	})

	var seen struct {
		Title string `json:"title"`
	}
	handler := mw(func(c echo.Context) error {
		// The gate read the body to find the refresh token; the handler
		// must still be able to bind it.
		if err := c.Bind(&seen); err != nil {
			t.Fatalf("bind after middleware: %v", err)
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if seen.Title != "draft" {
		t.Fatalf("body not restored, got %+v", seen)
	}
}

func TestAuthenticate_RefreshFailurePropagates(t *testing.T) {
	codec, signed := expiredToken(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+signed)
	req.Header.Set(HeaderRefreshToken, "refresh-of-deleted-user")
	c, _ := newGateContext(t, req)

	mw := Authenticate(codec, &stubSessions{}, &stubAuthService{
		refreshFn: func(context.Context, string) (*ports.RefreshResult, error) {
			return nil, domain.ErrUserNotFound
		},
	})
	handler := mw(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	err := handler(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
	if he.Message != "User not found" {
		t.Fatalf("unexpected message: %v", he.Message)
	}
}

func TestAuthenticate_SessionWins(t *testing.T) {
	codec := newCodec(t, time.Minute)

	sessions := &stubSessions{sessions: map[string]*domain.Session{
		"sess_1": {
			ID: "sess_1", UserID: "user_9", Email: "ida@example.com",
			UserName: "Ida", Role: domain.RoleUser, Authenticated: true,
			ExpiresAt: time.Now().Add(time.Hour),
		},
	}}

	// An invalid bearer token rides along; the authenticated session must
	// make token verification irrelevant.
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer garbage")
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "sess_1"})
	c, _ := newGateContext(t, req)

	called := false
	mw := Authenticate(codec, sessions, &stubAuthService{})
	handler := mw(func(c echo.Context) error {
		called = true
		p, _ := PrincipalFrom(c)
		if p.ID != "user_9" || p.Source != domain.SessionPrincipal {
			t.Fatalf("unexpected principal: %+v", p)
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
}

func TestAuthenticate_UnauthenticatedSessionFallsThrough(t *testing.T) {
	codec := newCodec(t, time.Minute)
	signed, err := codec.IssueAccess(alice())
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	sessions := &stubSessions{sessions: map[string]*domain.Session{
		"sess_1": {ID: "sess_1", UserID: "user_9", Authenticated: false, ExpiresAt: time.Now().Add(time.Hour)},
	}}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+signed)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "sess_1"})
	c, _ := newGateContext(t, req)

	mw := Authenticate(codec, sessions, &stubAuthService{})
	handler := mw(func(c echo.Context) error {
		p, _ := PrincipalFrom(c)
		if p.Source != domain.TokenPrincipal {
			t.Fatalf("expected token principal, got %+v", p)
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
}
