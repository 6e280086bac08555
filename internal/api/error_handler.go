package api

import (
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/bloghub/blog-api/internal/core/domain"
)

// errorResponse is the envelope for all API errors. Stack is populated
// outside production only.
type errorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Stack   string `json:"stack,omitempty"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders the consistent JSON envelope: {"success": false, "message": ...}.
func NewHTTPErrorHandler(log zerolog.Logger, production bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg, unexpected := resolveError(err, log, c)

		resp := errorResponse{Success: false, Message: msg}
		if unexpected && !production {
			resp.Stack = string(debug.Stack())
		}
		_ = c.JSON(code, resp)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (code int, msg string, unexpected bool) {
	// Echo's own errors (bind failures, 404 from router, middleware rejections).
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message), false
	}

	// Known domain errors → deterministic HTTP codes.
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Invalid credentials", false
	case errors.Is(err, domain.ErrInvalidRole):
		return http.StatusBadRequest, "Invalid role", false
	case errors.Is(err, domain.ErrUserExists):
		return http.StatusConflict, "User already exists", false
	case errors.Is(err, domain.ErrEmailExists):
		return http.StatusConflict, "Email already exists", false
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, "User not found", false
	case errors.Is(err, domain.ErrBlogNotFound):
		return http.StatusNotFound, "Blog post not found", false
	case errors.Is(err, domain.ErrTokenExpired):
		return http.StatusUnauthorized, "Token expired", false
	case errors.Is(err, domain.ErrTokenInvalid):
		return http.StatusUnauthorized, "Invalid token.", false
	case errors.Is(err, domain.ErrNotOwner):
		return http.StatusForbidden, "You can only modify your own posts", false
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "Internal server error", true
}
