// Package jwt implementa auth.AuthVerifier contra tokens HMAC firmados
// por el servicio de sesiones. Acá sólo se verifica; la emisión vive afuera.
package jwt

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"vet-appointments/internal/ports/auth"

	gojwt "github.com/golang-jwt/jwt/v5"
)

var (
	ErrSecretMissing = errors.New("jwt secret not configured")
	ErrTokenEmpty    = errors.New("token is empty")
	ErrInvalidToken  = errors.New("invalid token")
)

type Verifier struct {
	secret []byte
}

func NewVerifier(secret string) (*Verifier, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, ErrSecretMissing
	}
	return &Verifier{secret: []byte(secret)}, nil
}

type tokenClaims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
	gojwt.RegisteredClaims
}

func (v *Verifier) Verify(ctx context.Context, token string) (auth.Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, ErrTokenEmpty
	}

	var claims tokenClaims
	parsed, err := gojwt.ParseWithClaims(token, &claims, func(t *gojwt.Token) (any, error) {
		// Sólo HMAC; un header alg=none o RS256 ajeno no pasa.
		if _, ok := t.Method.(*gojwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil || !parsed.Valid {
		return auth.Claims{}, ErrInvalidToken
	}

	userID := strings.TrimSpace(claims.Subject)
	if userID == "" {
		return auth.Claims{}, ErrInvalidToken
	}

	role := strings.TrimSpace(claims.Role)
	if role == "" {
		role = auth.RoleUser
	}

	return auth.Claims{
		UserID: userID,
		Email:  strings.TrimSpace(claims.Email),
		Name:   strings.TrimSpace(claims.Name),
		Role:   role,
	}, nil
}
