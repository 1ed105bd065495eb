// Package dto provides Data Transfer Objects for API requests and responses.
package dto

import (
	"time"

	"github.com/specforge/specforge/internal/model"
)

// SignupRequest represents the request body for member registration.
type SignupRequest struct {
	Email    string     `json:"email"`
	Password string     `json:"password"`
	Name     string     `json:"name"`
	Phone    string     `json:"phone,omitempty"`
	Gender   string     `json:"gender,omitempty"`
	Birthday *time.Time `json:"birthday,omitempty"`
}

// SigninRequest represents the request body for signing in.
type SigninRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SigninResponse carries the session token and the member profile.
type SigninResponse struct {
	Token  string          `json:"token"`
	Member *MemberResponse `json:"member"`
}

// ForgotPasswordRequest represents the request body for a reset request.
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// ResetPasswordRequest represents the request body for consuming a reset token.
type ResetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

// ChangePasswordRequest represents the request body for a password change.
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// UpdateProfileRequest represents the request body for a profile update.
type UpdateProfileRequest struct {
	Name     string     `json:"name"`
	Phone    string     `json:"phone,omitempty"`
	Gender   string     `json:"gender,omitempty"`
	Birthday *time.Time `json:"birthday,omitempty"`
}

// MemberResponse represents a member in API responses. The password
// hash and reset token state never leave the service.
type MemberResponse struct {
	ID          string     `json:"id"`
	MemberCode  string     `json:"member_code"`
	Email       string     `json:"email"`
	Phone       string     `json:"phone,omitempty"`
	Name        string     `json:"name,omitempty"`
	Gender      string     `json:"gender,omitempty"`
	Birthday    *time.Time `json:"birthday,omitempty"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// ErrorResponse represents an API error.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// ToMemberResponse converts a Member model to MemberResponse DTO.
func ToMemberResponse(m *model.Member) *MemberResponse {
	return &MemberResponse{
		ID:          m.ID,
		MemberCode:  m.MemberCode,
		Email:       m.Email,
		Phone:       m.Phone,
		Name:        m.Name,
		Gender:      m.Gender,
		Birthday:    m.Birthday,
		LastLoginAt: m.LastLoginAt,
		CreatedAt:   m.CreatedAt,
	}
}
