package auth

import (
	"github.com/golang-jwt/jwt/v5"
)

// AccessTokenClaims carries the authenticated user identifier. The id claim
// is deliberately the only custom claim: role and everything else is resolved
// against the live user record on each request.
type AccessTokenClaims struct {
	UserID string `json:"id"`
	jwt.RegisteredClaims
}
