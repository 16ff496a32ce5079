package auth

import (
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

// TokenTTL is the lifetime of issued access tokens.
const TokenTTL = 7 * 24 * time.Hour

// Claims are the identity claims embedded in an access token. Only identity
// travels in the token; authorization flags are re-read from the store on
// every request.
type Claims struct {
	UserID   string `json:"userId"`
	Email    string `json:"email"`
	SiteName string `json:"siteName"`
	jwt.RegisteredClaims
}

// IssueToken signs an HS256 token for the given identity, expiring TokenTTL
// from now.
func IssueToken(userID, email, siteName, secret string) (string, error) {
	now := time.Now().UTC()
	claims := Claims{
		UserID:   userID,
		Email:    email,
		SiteName: siteName,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// VerifyToken parses and validates a token. It fails closed: malformed
// structure, signature mismatch, and expiry all return nil, with no
// indication of which check failed.
func VerifyToken(token, secret string) *Claims {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return []byte(secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuedAt(),
	)
	if err != nil || !parsed.Valid {
		return nil
	}
	return claims
}
