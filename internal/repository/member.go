package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/specforge/specforge/internal/model"
)

// Common errors for member repository operations.
var (
	ErrMemberNotFound = errors.New("member not found")
	ErrEmailExists    = errors.New("email already exists")
	ErrPhoneExists    = errors.New("phone already exists")
)

const memberColumns = `
	id, member_code, email, phone, password_hash, name, gender, birthday,
	status, email_verified, reset_token, reset_token_expires_at,
	last_login_at, created_at, updated_at
`

// CreateMember inserts a new member into the database.
func (r *Repository) CreateMember(ctx context.Context, m *model.Member) error {
	query := `
		INSERT INTO members (
			id, member_code, email, phone, password_hash, name, gender,
			birthday, status, email_verified, created_at, updated_at
		)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.pool.Exec(ctx, query,
		m.ID,
		m.MemberCode,
		m.Email,
		m.Phone,
		m.PasswordHash,
		m.Name,
		m.Gender,
		m.Birthday,
		m.Status,
		m.EmailVerified,
		m.CreatedAt,
		m.UpdatedAt,
	)

	if err != nil {
		if constraint, ok := uniqueViolation(err); ok {
			if constraint == "members_phone_key" {
				return ErrPhoneExists
			}
			return ErrEmailExists
		}
		return fmt.Errorf("failed to create member: %w", err)
	}

	return nil
}

// GetMemberByID retrieves a member by their ID.
func (r *Repository) GetMemberByID(ctx context.Context, id string) (*model.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE id = $1`
	return r.scanMember(r.pool.QueryRow(ctx, query, id))
}

// GetMemberByEmail retrieves a member by their email address.
func (r *Repository) GetMemberByEmail(ctx context.Context, email string) (*model.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE email = $1`
	return r.scanMember(r.pool.QueryRow(ctx, query, email))
}

// GetMemberByResetToken retrieves a member holding the given password reset token.
func (r *Repository) GetMemberByResetToken(ctx context.Context, token string) (*model.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE reset_token = $1`
	return r.scanMember(r.pool.QueryRow(ctx, query, token))
}

// UpdateMemberProfile updates the mutable profile fields.
func (r *Repository) UpdateMemberProfile(ctx context.Context, m *model.Member) error {
	query := `
		UPDATE members
		SET name = $2, phone = NULLIF($3, ''), gender = $4, birthday = $5, updated_at = $6
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query, m.ID, m.Name, m.Phone, m.Gender, m.Birthday, time.Now().UTC())
	if err != nil {
		if _, ok := uniqueViolation(err); ok {
			return ErrPhoneExists
		}
		return fmt.Errorf("failed to update member profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrMemberNotFound
	}
	return nil
}

// UpdateMemberPassword replaces the stored password hash and clears any
// outstanding reset token.
func (r *Repository) UpdateMemberPassword(ctx context.Context, id, passwordHash string) error {
	query := `
		UPDATE members
		SET password_hash = $2, reset_token = NULL, reset_token_expires_at = NULL, updated_at = $3
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query, id, passwordHash, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to update member password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrMemberNotFound
	}
	return nil
}

// SetResetToken stores a password reset token and its expiry.
func (r *Repository) SetResetToken(ctx context.Context, id, token string, expiresAt time.Time) error {
	query := `
		UPDATE members
		SET reset_token = $2, reset_token_expires_at = $3, updated_at = $4
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query, id, token, expiresAt, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to set reset token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrMemberNotFound
	}
	return nil
}

// TouchLastLogin records a successful sign-in.
func (r *Repository) TouchLastLogin(ctx context.Context, id string) error {
	query := `UPDATE members SET last_login_at = $2, updated_at = $2 WHERE id = $1`

	if _, err := r.pool.Exec(ctx, query, id, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to touch last login: %w", err)
	}
	return nil
}

func (r *Repository) scanMember(row pgx.Row) (*model.Member, error) {
	var (
		m          model.Member
		phone      *string
		resetToken *string
	)

	err := row.Scan(
		&m.ID,
		&m.MemberCode,
		&m.Email,
		&phone,
		&m.PasswordHash,
		&m.Name,
		&m.Gender,
		&m.Birthday,
		&m.Status,
		&m.EmailVerified,
		&resetToken,
		&m.ResetTokenExpiresAt,
		&m.LastLoginAt,
		&m.CreatedAt,
		&m.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrMemberNotFound
		}
		return nil, fmt.Errorf("failed to scan member: %w", err)
	}

	if phone != nil {
		m.Phone = *phone
	}
	if resetToken != nil {
		m.ResetToken = *resetToken
	}

	return &m, nil
}

// uniqueViolation reports whether the error is a unique constraint violation
// and returns the violated constraint name.
func uniqueViolation(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return pgErr.ConstraintName, true
	}
	return "", false
}
