package auth

import (
	"time"

	"github.com/google/uuid"
)

// User is an identity record keyed by email. OTP and OTPExpiresAt travel as a
// pair: both set while a verification is pending, both nil otherwise.
type User struct {
	ID           uuid.UUID  `json:"id"`
	Email        string     `json:"email"`
	Name         string     `json:"name"`
	DateOfBirth  time.Time  `json:"dateOfBirth"`
	GoogleID     *string    `json:"-"`
	OTP          *string    `json:"-"`
	OTPExpiresAt *time.Time `json:"-"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// PublicUser is the identity shape returned to clients, without OTP fields.
type PublicUser struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

func (u *User) Public() PublicUser {
	return PublicUser{ID: u.ID, Name: u.Name, Email: u.Email}
}

type SignupRequest struct {
	Email       string `json:"email"`
	Name        string `json:"name"`
	DateOfBirth string `json:"dateOfBirth"`
}

type LoginRequest struct {
	Email string `json:"email"`
}

type VerifyOTPRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

type GoogleAuthRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	GoogleID string `json:"googleId"`
}

// AuthResponse is returned once an identity is verified.
type AuthResponse struct {
	Token string     `json:"token"`
	User  PublicUser `json:"user"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
