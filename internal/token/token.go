package token

import (
	"fmt"
	"time"

	"github.com/JusticeIsreal/url-shortener/internal/domain"
	"github.com/golang-jwt/jwt/v5"
)

// Claims carries the caller's rank alongside the standard registered claims.
// The subject is the user id.
type Claims struct {
	Rank string `json:"rank"`
	jwt.RegisteredClaims
}

// Issue signs a token for an administrative user.
func Issue(secret []byte, ttl time.Duration, user *domain.User) (string, error) {
	now := time.Now()
	claims := Claims{
		Rank: string(user.Rank),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// Parse verifies a token and returns the resolved caller identity.
func Parse(secret []byte, tokenString string) (domain.Identity, error) {
	claims := &Claims{}

	tok, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil || !tok.Valid {
		return domain.Identity{}, fmt.Errorf("invalid token: %w", err)
	}

	identity := domain.Identity{
		ID:   claims.Subject,
		Rank: domain.Rank(claims.Rank),
	}
	if identity.ID == "" || !identity.Rank.Valid() {
		return domain.Identity{}, fmt.Errorf("invalid token claims")
	}

	return identity, nil
}
