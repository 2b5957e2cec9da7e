package service

import (
	"testing"
	"time"

	"github.com/coursely/coursely-backend/internal/config"
	"github.com/coursely/coursely-backend/internal/model"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const testSecret = "test-secret"

func signToken(t *testing.T, claims *Claims, secret string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestValidateToken(t *testing.T) {
	svc := NewIdentityService(&config.Config{JWTSecret: testSecret})
	userID := uuid.New()

	tokenStr := signToken(t, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		UserID: userID,
		Role:   model.RoleStudent,
	}, testSecret)

	claims, err := svc.ValidateToken(tokenStr)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.UserID != userID {
		t.Errorf("user id = %s, want %s", claims.UserID, userID)
	}
	if claims.Role != model.RoleStudent {
		t.Errorf("role = %s, want student", claims.Role)
	}
}

func TestValidateTokenWrongSecret(t *testing.T) {
	svc := NewIdentityService(&config.Config{JWTSecret: testSecret})

	tokenStr := signToken(t, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		UserID: uuid.New(),
		Role:   model.RoleStudent,
	}, "other-secret")

	if _, err := svc.ValidateToken(tokenStr); err == nil {
		t.Fatal("token signed with a different secret validated")
	}
}

func TestValidateTokenExpired(t *testing.T) {
	svc := NewIdentityService(&config.Config{JWTSecret: testSecret})

	tokenStr := signToken(t, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
		UserID: uuid.New(),
		Role:   model.RoleStudent,
	}, testSecret)

	if _, err := svc.ValidateToken(tokenStr); err == nil {
		t.Fatal("expired token validated")
	}
}

func TestValidateTokenMissingUserID(t *testing.T) {
	svc := NewIdentityService(&config.Config{JWTSecret: testSecret})

	tokenStr := signToken(t, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Role: model.RoleStudent,
	}, testSecret)

	if _, err := svc.ValidateToken(tokenStr); err == nil {
		t.Fatal("token without a user id validated")
	}
}
