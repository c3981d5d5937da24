package auth

import (
	"github.com/campuseats/campuseats-backend/pkg/enums"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID      uuid.UUID
	Role        enums.UserRole
	IsSuperuser bool
	JTI         string
}

// AccessTokenClaims represents the typed JWT issued to clients.
type AccessTokenClaims struct {
	UserID      uuid.UUID      `json:"user_id"`
	Role        enums.UserRole `json:"role"`
	IsSuperuser bool           `json:"is_superuser,omitempty"`
	jwt.RegisteredClaims
}

// EffectiveRole resolves the capability role carried by the token. Superusers
// act as admins regardless of the role column they registered with.
func (c *AccessTokenClaims) EffectiveRole() enums.UserRole {
	if c.IsSuperuser {
		return enums.UserRoleAdmin
	}
	return c.Role
}
