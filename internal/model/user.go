package model

import (
	"time"

	"github.com/google/uuid"
)

// Role enumerates the user roles carried in identity-provider claims.
type Role string

const (
	RoleStudent    Role = "student"
	RoleInstructor Role = "instructor"
	RoleAdmin      Role = "admin"
)

// User represents a platform user. Accounts are provisioned by the external
// identity provider; this service only reads them (names for result rows,
// ownership checks).
type User struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}
