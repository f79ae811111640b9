package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/binbinrosa-ui/Boostweb-Starbucks/internal/domain"
)

const (
	// SessionTTL is the default token lifetime; RememberMeTTL applies when
	// the login request asks to stay signed in.
	SessionTTL    = 24 * time.Hour
	RememberMeTTL = 30 * 24 * time.Hour
)

type Claims struct {
	UserID   string
	Email    string
	UserType domain.UserType
}

type tokenClaims struct {
	jwt.RegisteredClaims
	UserID   string `json:"userId"`
	Email    string `json:"email"`
	UserType string `json:"userType"`
}

func TokenTTL(rememberMe bool) time.Duration {
	if rememberMe {
		return RememberMeTTL
	}
	return SessionTTL
}

func GenerateToken(userID, email string, userType domain.UserType, secret string, expiry time.Duration) (string, error) {
	now := time.Now()
	claims := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		UserID:   userID,
		Email:    email,
		UserType: string(userType),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("GenerateToken: %w", err)
	}
	return signed, nil
}

func ValidateToken(tokenString string, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &tokenClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("ValidateToken: %w", err)
	}

	tc, ok := token.Claims.(*tokenClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("ValidateToken: invalid token claims")
	}

	return &Claims{
		UserID:   tc.UserID,
		Email:    tc.Email,
		UserType: domain.UserType(tc.UserType),
	}, nil
}
