package domain

import "time"

// PrincipalSource identifies which identity channel resolved a request.
type PrincipalSource string

const (
	SessionPrincipal PrincipalSource = "session"
	TokenPrincipal   PrincipalSource = "token"
)

// Principal is the authenticated identity attached to a request. It is
// rebuilt on every request from either a session record or a token payload
// and never persisted.
type Principal struct {
	ID     string          `json:"id"`
	Name   string          `json:"name"`
	Email  string          `json:"email"`
	Role   string          `json:"role"`
	Source PrincipalSource `json:"-"`
}

// Session is the server-side identity record for cookie-authenticated
// clients. When a valid, authenticated session is present on a request,
// token verification is skipped entirely.
type Session struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	Email         string    `json:"email"`
	UserName      string    `json:"user_name"`
	Role          string    `json:"role"`
	Authenticated bool      `json:"authenticated"`
	ExpiresAt     time.Time `json:"expires_at"`
}

// Principal converts a session record into the request identity.
func (s *Session) Principal() Principal {
	return Principal{
		ID:     s.UserID,
		Name:   s.UserName,
		Email:  s.Email,
		Role:   s.Role,
		Source: SessionPrincipal,
	}
}
