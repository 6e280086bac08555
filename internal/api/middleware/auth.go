package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/bloghub/blog-api/internal/api/metrics"
	"github.com/bloghub/blog-api/internal/core/domain"
	"github.com/bloghub/blog-api/internal/core/ports"
	"github.com/bloghub/blog-api/internal/pkg/token"
)

const (
	// SessionCookie is the cookie carrying the server-side session id.
	SessionCookie = "sessionId"
	// HeaderRefreshToken is the request header clients use to enable
	// auto-refresh on protected routes.
	HeaderRefreshToken = "X-Refresh-Token"
	// HeaderNewAccessToken carries a freshly minted access token back to
	// the client after a mid-request refresh.
	HeaderNewAccessToken = "X-New-Access-Token"

	// principalKey is the context key the resolved Principal is stored under.
	principalKey = "principal"
)

// PrincipalFrom returns the Principal resolved by Authenticate, or false if
// the middleware did not run.
func PrincipalFrom(c echo.Context) (domain.Principal, bool) {
	p, ok := c.Get(principalKey).(domain.Principal)
	return p, ok
}

// Authenticate resolves the request identity. A valid, authenticated
// server-side session short-circuits token handling entirely; otherwise the
// bearer token is verified, and an expired access token is transparently
// refreshed when the client supplied a refresh token (X-Refresh-Token
// header or refreshToken body field). On a successful mid-request refresh
// the new access token is returned in the X-New-Access-Token response
// header and the request proceeds.
func Authenticate(codec *token.Codec, sessions ports.SessionStore, auth ports.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			// Session channel first.
			if cookie, err := c.Cookie(SessionCookie); err == nil && cookie.Value != "" {
				sess, err := sessions.Get(c.Request().Context(), cookie.Value)
				if err == nil && sess.Authenticated {
					c.Set(principalKey, sess.Principal())
					return next(c)
				}
				if err != nil && !errors.Is(err, domain.ErrSessionNotFound) {
					return err
				}
				// Stale or unauthenticated session: fall through to tokens.
			}

			bearer, ok := bearerToken(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "Access denied. No token or session provided.")
			}

			claims, err := codec.VerifyAccess(bearer)
			if err == nil {
				c.Set(principalKey, claims.Principal())
				return next(c)
			}
			if !errors.Is(err, domain.ErrTokenExpired) {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token.")
			}

			// Expired access token: self-heal when a refresh token is present.
			refreshToken := refreshTokenFrom(c)
			if refreshToken == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Token expired. Please provide refresh token or login again.")
			}

			refreshed, err := auth.Refresh(c.Request().Context(), refreshToken)
			if err != nil {
				metrics.TokenRefreshTotal.WithLabelValues("failure", "middleware").Inc()
				return RefreshError(err)
			}
			metrics.TokenRefreshTotal.WithLabelValues("success", "middleware").Inc()

			c.Response().Header().Set(HeaderNewAccessToken, refreshed.Token)
			c.Set(principalKey, domain.Principal{
				ID:     refreshed.ID,
				Name:   refreshed.Name,
				Email:  refreshed.Email,
				Role:   refreshed.Role,
				Source: domain.TokenPrincipal,
			})
			return next(c)
		}
	}
}

// RefreshError translates an AuthService.Refresh failure into the HTTP
// error the client sees. Every token or lookup defect is a 401; only a
// genuine infrastructure failure propagates as-is.
func RefreshError(err error) error {
	switch {
	case errors.Is(err, domain.ErrTokenExpired):
		return echo.NewHTTPError(http.StatusUnauthorized, "Refresh token expired")
	case errors.Is(err, domain.ErrTokenInvalid):
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid refresh token")
	case errors.Is(err, domain.ErrUserNotFound):
		return echo.NewHTTPError(http.StatusUnauthorized, "User not found")
	default:
		return err
	}
}

func bearerToken(c echo.Context) (string, bool) {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// refreshTokenFrom looks for a refresh token in the dedicated header, then
// in the request body. The body is restored after reading so the handler
// can still bind it.
func refreshTokenFrom(c echo.Context) string {
	if t := c.Request().Header.Get(HeaderRefreshToken); t != "" {
		return t
	}

	req := c.Request()
	if req.Body == nil {
		return ""
	}
	body, err := io.ReadAll(req.Body)
	if err != nil {
		return ""
	}
	req.Body = io.NopCloser(bytes.NewReader(body))

	var payload struct {
		RefreshToken string `json:"refreshToken"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	return payload.RefreshToken
}
