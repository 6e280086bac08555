package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/bloghub/blog-api/internal/api/metrics"
	"github.com/bloghub/blog-api/internal/api/middleware"
	"github.com/bloghub/blog-api/internal/core/ports"
)

const (
	headerAccessToken  = "X-Access-Token"
	headerRefreshToken = "X-Refresh-Token"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type registerRequest struct {
	Name     string `json:"name" validate:"required,min=2"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,password"`
	Role     string `json:"role" validate:"omitempty,oneof=user admin"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	// UseSession switches the client to cookie-based sessions instead of
	// bearer tokens.
	UseSession bool `json:"useSession"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
	Token        string `json:"token"`
}

// Register creates a new account and logs it in, returning a token pair.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "User registration details"
// @Success      201   {object}  envelope
// @Failure      400   {object}  map[string]any
// @Failure      409   {object}  map[string]any
// @Router       /api/auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.authService.Register(c.Request().Context(), req.Name, req.Email, req.Password, req.Role)
	if err != nil {
		return err
	}

	metrics.RegistrationsTotal.WithLabelValues(result.User.Role).Inc()
	c.Response().Header().Set(headerAccessToken, result.Token)
	c.Response().Header().Set(headerRefreshToken, result.RefreshToken)
	return respond(c, http.StatusCreated, "User registered successfully", result)
}

// Login authenticates by email and password and returns a token pair. With
// useSession set it also opens a server-side session and sets the cookie.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  envelope
// @Failure      400   {object}  map[string]any
// @Failure      401   {object}  map[string]any
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return err
	}
	metrics.LoginsTotal.WithLabelValues("success").Inc()

	if req.UseSession {
		sess, err := h.authService.StartSession(c.Request().Context(), result.User)
		if err != nil {
			return err
		}
		c.SetCookie(sessionCookie(sess.ID, sess.ExpiresAt))
	}

	c.Response().Header().Set(headerAccessToken, result.Token)
	c.Response().Header().Set(headerRefreshToken, result.RefreshToken)
	return respond(c, http.StatusOK, "Login successful", result)
}

// Logout destroys the server-side session when one exists and clears the
// cookie. Token-mode clients get a plain success; they discard their own
// tokens.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Success      200  {object}  envelope
// @Router       /api/auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	sessionID := ""
	if cookie, err := c.Cookie(middleware.SessionCookie); err == nil {
		sessionID = cookie.Value
	}

	if err := h.authService.Logout(c.Request().Context(), sessionID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Error logging out")
	}

	c.SetCookie(expiredSessionCookie())
	return respond(c, http.StatusOK, "Logout successful", nil)
}

// RefreshToken exchanges a refresh token for a new access token.
//
// @Summary      Refresh access token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      refreshRequest  true  "Refresh token"
// @Success      200   {object}  envelope
// @Failure      400   {object}  map[string]any
// @Failure      401   {object}  map[string]any
// @Router       /api/auth/refresh-token [post]
func (h *AuthHandler) RefreshToken(c echo.Context) error {
	var req refreshRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	refreshToken := req.RefreshToken
	if refreshToken == "" {
		refreshToken = req.Token
	}
	if refreshToken == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Either refreshToken or token is required")
	}

	result, err := h.authService.Refresh(c.Request().Context(), refreshToken)
	if err != nil {
		metrics.TokenRefreshTotal.WithLabelValues("failure", "endpoint").Inc()
		return middleware.RefreshError(err)
	}
	metrics.TokenRefreshTotal.WithLabelValues("success", "endpoint").Inc()

	c.Response().Header().Set(headerAccessToken, result.Token)
	return respond(c, http.StatusOK, "Token refreshed successfully", result)
}

func sessionCookie(id string, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    id,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

func expiredSessionCookie() *http.Cookie {
	return &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}
