package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/hdnotes/hd-notes-api/config"
	"github.com/hdnotes/hd-notes-api/internal/types"
)

// GenerateAccessToken produces the signed session token for a verified
// identity. There is no refresh path; clients re-authenticate after expiry.
func GenerateAccessToken(userID uuid.UUID, email string, cfg config.JWTConfig, now time.Time) (string, error) {
	claims := types.Claims{
		UserID: userID.String(),
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(cfg.TokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(cfg.SecretKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}
	return signed, nil
}

// ParseAccessToken validates signature, expiry and issuer, returning the
// embedded claims.
func ParseAccessToken(tokenString string, cfg config.JWTConfig) (*types.Claims, error) {
	claims := &types.Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(cfg.SecretKey), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s", types.ErrUnauthenticated, err)
	}
	if !token.Valid {
		return nil, types.ErrUnauthenticated
	}
	if claims.Issuer != cfg.Issuer {
		return nil, fmt.Errorf("%w: invalid issuer", types.ErrUnauthenticated)
	}
	if claims.UserID == "" {
		return nil, fmt.Errorf("%w: missing subject", types.ErrUnauthenticated)
	}
	return claims, nil
}
