package service

import (
	"errors"
	"fmt"

	"github.com/coursely/coursely-backend/internal/config"
	"github.com/coursely/coursely-backend/internal/model"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims carries the identity-provider claims this service trusts: the
// subject's id and role. Tokens are issued and signed by the external
// identity provider; this service only verifies them.
type Claims struct {
	jwt.RegisteredClaims
	UserID uuid.UUID  `json:"user_id"`
	Role   model.Role `json:"role"`
}

// IdentityService validates bearer tokens from the identity provider.
type IdentityService struct {
	cfg *config.Config
}

// NewIdentityService creates a new IdentityService.
func NewIdentityService(cfg *config.Config) *IdentityService {
	return &IdentityService{cfg: cfg}
}

// ValidateToken parses and validates a JWT, returning the claims.
func (s *IdentityService) ValidateToken(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	if claims.UserID == uuid.Nil {
		return nil, errors.New("token is missing the user id claim")
	}

	return claims, nil
}
