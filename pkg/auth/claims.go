package auth

import (
	"github.com/golang-jwt/jwt/v5"
)

// SessionPayload captures the data available when minting a session token.
type SessionPayload struct {
	UserID   int
	Username string
	JTI      string
}

// SessionClaims is the typed JWT stored in the dev API session cookie.
type SessionClaims struct {
	UserID   int    `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}
