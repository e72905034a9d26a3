package models

import (
	"github.com/golang-jwt/jwt/v5"
)

// UserClaims carries identity and session-invalidation data inside JWTs.
// TokenVersion is compared against the user row on every authenticated
// request so that logout and password changes invalidate old tokens.
type UserClaims struct {
	jwt.RegisteredClaims
	UserID       uint   `json:"user_id"`
	Email        string `json:"email"`
	TokenVersion int    `json:"token_version"`
}
