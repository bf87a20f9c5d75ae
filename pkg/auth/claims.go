package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// StaffRole identifies what a dashboard user may do.
type StaffRole string

const (
	RoleStaff StaffRole = "staff"
	RoleAdmin StaffRole = "admin"
)

func (r StaffRole) IsValid() bool {
	switch r {
	case RoleStaff, RoleAdmin:
		return true
	}
	return false
}

// AccessTokenPayload is the data minted into a staff JWT.
type AccessTokenPayload struct {
	UserID uuid.UUID
	Role   StaffRole
	JTI    string
}

// AccessTokenClaims are the typed JWT claims carried by staff tokens.
type AccessTokenClaims struct {
	UserID uuid.UUID `json:"uid"`
	Role   StaffRole `json:"role"`
	jwt.RegisteredClaims
}
