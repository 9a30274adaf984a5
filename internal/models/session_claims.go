package models

import "github.com/golang-jwt/jwt/v5"

// SessionClaims are the claims carried by session tokens. The registered
// ID claim is the jti checked against the logout blacklist.
type SessionClaims struct {
	jwt.RegisteredClaims
	UserID    string `json:"user_id"`
	Email     string `json:"email,omitempty"`
	Role      string `json:"role,omitempty"`
	TokenType string `json:"token_type"`
}

// IsAdmin reports whether the token was issued to an administrator.
func (c *SessionClaims) IsAdmin() bool {
	return c.Role == RoleAdmin
}
