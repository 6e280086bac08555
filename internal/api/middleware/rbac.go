package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bloghub/blog-api/internal/api/metrics"
)

// AuthorizeRoles gates a route on the authenticated Principal's role. It
// must run after Authenticate; a request without a resolved Principal or
// with a role outside the allow-list is rejected with 403.
func AuthorizeRoles(allowedRoles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			principal, ok := PrincipalFrom(c)
			if !ok || principal.Role == "" {
				metrics.RoleDeniedTotal.WithLabelValues("no_role").Inc()
				return echo.NewHTTPError(http.StatusForbidden, "Forbidden: You do not have permission to access this resource")
			}
			if _, ok := allowed[principal.Role]; !ok {
				metrics.RoleDeniedTotal.WithLabelValues(principal.Role).Inc()
				return echo.NewHTTPError(http.StatusForbidden, "Forbidden: You do not have permission to access this resource")
			}
			return next(c)
		}
	}
}
