package auth

import (
	"strings"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret"

func TestIssueAndVerifyToken(t *testing.T) {
	token, err := IssueToken("user-1", "alice@x.com", "alice-films", testSecret)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	if parts := strings.Split(token, "."); len(parts) != 3 {
		t.Fatalf("expected 3 token segments, got %d", len(parts))
	}
	claims := VerifyToken(token, testSecret)
	if claims == nil {
		t.Fatalf("expected token to verify")
	}
	if claims.UserID != "user-1" || claims.Email != "alice@x.com" || claims.SiteName != "alice-films" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	exp := claims.ExpiresAt.Time
	if want := claims.IssuedAt.Time.Add(TokenTTL); !exp.Equal(want) {
		t.Fatalf("expected expiry %v, got %v", want, exp)
	}
}

func TestVerifyTokenFailsClosed(t *testing.T) {
	token, err := IssueToken("user-1", "alice@x.com", "alice-films", testSecret)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	if claims := VerifyToken("", testSecret); claims != nil {
		t.Fatalf("expected empty token to fail")
	}
	if claims := VerifyToken("abc.def", testSecret); claims != nil {
		t.Fatalf("expected two-segment token to fail")
	}
	if claims := VerifyToken(token, "other-secret"); claims != nil {
		t.Fatalf("expected wrong secret to fail")
	}

	parts := strings.Split(token, ".")
	mutated := []byte(parts[2])
	if mutated[0] == 'A' {
		mutated[0] = 'B'
	} else {
		mutated[0] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(mutated)
	if claims := VerifyToken(tampered, testSecret); claims != nil {
		t.Fatalf("expected tampered signature to fail")
	}
}

func TestVerifyTokenExpired(t *testing.T) {
	now := time.Now().UTC()
	claims := Claims{
		UserID:   "user-1",
		Email:    "alice@x.com",
		SiteName: "alice-films",
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now.Add(-8 * 24 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(now.Add(-24 * time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign expired token: %v", err)
	}
	if got := VerifyToken(token, testSecret); got != nil {
		t.Fatalf("expected expired token to fail")
	}
}
