// Package token issues and verifies the signed identity tokens used by the
// auth subsystem. Access and refresh tokens share one claims shape but are
// signed with independent secrets and lifetimes.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/bloghub/blog-api/internal/core/domain"
)

// Claims is the identity snapshot embedded in every token.
type Claims struct {
	UserID string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Principal converts the token payload into the request identity.
func (c *Claims) Principal() domain.Principal {
	return domain.Principal{
		ID:     c.UserID,
		Name:   c.Name,
		Email:  c.Email,
		Role:   c.Role,
		Source: domain.TokenPrincipal,
	}
}

// Codec signs and verifies access and refresh tokens.
type Codec struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

// NewCodec builds a Codec. The access secret is mandatory; an empty refresh
// secret falls back to the access secret. The error here is meant to abort
// startup, not to be handled per call.
func NewCodec(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) (*Codec, error) {
	if accessSecret == "" {
		return nil, errors.New("token: access secret must not be empty")
	}
	if refreshSecret == "" {
		refreshSecret = accessSecret
	}
	if accessTTL <= 0 {
		accessTTL = 15 * time.Minute
	}
	if refreshTTL <= 0 {
		refreshTTL = accessTTL
	}
	return &Codec{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}, nil
}

// IssueAccess signs a short-lived access token for the given user.
func (c *Codec) IssueAccess(user *domain.User) (string, error) {
	return c.issue(user, c.accessSecret, c.accessTTL)
}

// IssueRefresh signs a refresh token for the given user.
func (c *Codec) IssueRefresh(user *domain.User) (string, error) {
	return c.issue(user, c.refreshSecret, c.refreshTTL)
}

// VerifyAccess decodes an access token. It fails with domain.ErrTokenExpired
// when the signature is valid but the expiry has passed, and with
// domain.ErrTokenInvalid for anything malformed or badly signed.
func (c *Codec) VerifyAccess(tokenString string) (*Claims, error) {
	return verify(tokenString, c.accessSecret)
}

// VerifyRefresh decodes a refresh token with the same failure semantics as
// VerifyAccess.
func (c *Codec) VerifyRefresh(tokenString string) (*Claims, error) {
	return verify(tokenString, c.refreshSecret)
}

func (c *Codec) issue(user *domain.User, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := Claims{
		UserID: user.ID,
		Name:   user.Name,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(secret)
}

func verify(tokenString string, secret []byte) (*Claims, error) {
	claims := &Claims{}
	tkn, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return secret, nil
	})
	if err != nil {
		// Expiry is reported before any other defect so callers can offer
		// the refresh flow instead of rejecting outright.
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, domain.ErrTokenInvalid
	}
	if !tkn.Valid {
		return nil, domain.ErrTokenInvalid
	}
	return claims, nil
}
