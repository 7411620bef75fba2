package types

import "github.com/golang-jwt/jwt/v5"

// Claims represents the custom claims carried by the session token.
type Claims struct {
	UserID string `json:"uid"`
	Email  string `json:"eml,omitempty"`
	jwt.RegisteredClaims
}
