package jwt

import (
	"context"
	"errors"
	"testing"
	"time"

	"vet-appointments/internal/ports/auth"

	gojwt "github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims gojwt.MapClaims) string {
	t.Helper()
	token := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims)
	s, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}

func TestVerifier_RequiresSecret(t *testing.T) {
	if _, err := NewVerifier("   "); !errors.Is(err, ErrSecretMissing) {
		t.Fatalf("expected ErrSecretMissing, got %v", err)
	}
}

func TestVerifier_Verify_OK(t *testing.T) {
	v, err := NewVerifier(testSecret)
	if err != nil {
		t.Fatalf("NewVerifier: %v", err)
	}

	token := signToken(t, testSecret, gojwt.MapClaims{
		"sub":   "user-1",
		"email": "user@example.com",
		"name":  "User One",
		"role":  auth.RoleAdmin,
		"exp":   time.Now().Add(time.Hour).Unix(),
	})

	claims, err := v.Verify(context.Background(), token)
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if claims.UserID != "user-1" || claims.Email != "user@example.com" || claims.Role != auth.RoleAdmin {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if !claims.IsAdmin() {
		t.Fatalf("expected admin claims")
	}
}

func TestVerifier_Verify_DefaultsRoleToUser(t *testing.T) {
	v, _ := NewVerifier(testSecret)

	token := signToken(t, testSecret, gojwt.MapClaims{
		"sub": "user-1",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	claims, err := v.Verify(context.Background(), token)
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if claims.Role != auth.RoleUser {
		t.Fatalf("expected default role user, got %q", claims.Role)
	}
}

func TestVerifier_Verify_Rejections(t *testing.T) {
	v, _ := NewVerifier(testSecret)
	ctx := context.Background()

	if _, err := v.Verify(ctx, "  "); !errors.Is(err, ErrTokenEmpty) {
		t.Fatalf("expected ErrTokenEmpty, got %v", err)
	}

	// firmado con otro secret
	forged := signToken(t, "other-secret", gojwt.MapClaims{
		"sub": "user-1",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	if _, err := v.Verify(ctx, forged); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for bad signature, got %v", err)
	}

	// vencido
	expired := signToken(t, testSecret, gojwt.MapClaims{
		"sub": "user-1",
		"exp": time.Now().Add(-time.Hour).Unix(),
	})
	if _, err := v.Verify(ctx, expired); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}

	// sin subject
	noSub := signToken(t, testSecret, gojwt.MapClaims{
		"email": "user@example.com",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})
	if _, err := v.Verify(ctx, noSub); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken without sub, got %v", err)
	}
}
