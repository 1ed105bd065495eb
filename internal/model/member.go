// Package model defines domain entities for the application.
package model

import "time"

// Member status values.
const (
	MemberStatusActive   = 1
	MemberStatusDisabled = 0
)

// Member represents a registered account that owns projects.
type Member struct {
	ID            string     `json:"id"`
	MemberCode    string     `json:"member_code"`
	Email         string     `json:"email"`
	Phone         string     `json:"phone,omitempty"`
	PasswordHash  string     `json:"-"` // Never serialize
	Name          string     `json:"name,omitempty"`
	Gender        string     `json:"gender,omitempty"`
	Birthday      *time.Time `json:"birthday,omitempty"`
	Status        int        `json:"status"`
	EmailVerified bool       `json:"email_verified"`
	LastLoginAt   *time.Time `json:"last_login_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`

	// Password reset state. Token is single-use with a bounded lifetime.
	ResetToken          string     `json:"-"`
	ResetTokenExpiresAt *time.Time `json:"-"`
}

// IsActive reports whether the member may authenticate.
func (m *Member) IsActive() bool {
	return m.Status == MemberStatusActive
}

// ResetTokenValid reports whether the given token matches and has not expired.
func (m *Member) ResetTokenValid(token string, now time.Time) bool {
	if m.ResetToken == "" || m.ResetToken != token {
		return false
	}
	if m.ResetTokenExpiresAt == nil {
		return false
	}
	return now.Before(*m.ResetTokenExpiresAt)
}
