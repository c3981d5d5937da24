package auth

import (
	"github.com/campuseats/campuseats-backend/internal/users"
)

// RegisterInput captures the fields shared by student and vendor signup.
type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Phone     *string
}

// LoginRequest captures the user credentials sent to the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse contains the token pair and the authenticated user profile.
type AuthResponse struct {
	AccessToken  string         `json:"access_token"`
	RefreshToken string         `json:"refresh_token"`
	User         *users.UserDTO `json:"user"`
}

// UpdateProfileInput captures the mutable profile fields.
type UpdateProfileInput struct {
	Email     *string
	FirstName *string
	LastName  *string
	Phone     *string
}

// ChangePasswordInput carries a password rotation request.
type ChangePasswordInput struct {
	OldPassword string
	NewPassword string
}
