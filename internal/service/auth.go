package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/specforge/specforge/internal/auth"
	"github.com/specforge/specforge/internal/mailer"
	"github.com/specforge/specforge/internal/model"
	"github.com/specforge/specforge/internal/repository"
)

// resetTokenTTL bounds the lifetime of a password reset token.
const resetTokenTTL = 24 * time.Hour

// AuthService handles signup, signin, and the password reset lifecycle.
type AuthService struct {
	members   MemberStore
	mail      mailer.Mailer
	logger    *slog.Logger
	jwtSecret string
	jwtExpiry time.Duration
}

// NewAuthService creates a new AuthService.
func NewAuthService(members MemberStore, mail mailer.Mailer, logger *slog.Logger, jwtSecret string, jwtExpiry time.Duration) *AuthService {
	return &AuthService{
		members:   members,
		mail:      mail,
		logger:    logger,
		jwtSecret: jwtSecret,
		jwtExpiry: jwtExpiry,
	}
}

// SignupInput defines input for member registration.
type SignupInput struct {
	Email    string
	Password string
	Name     string
	Phone    string
	Gender   string
	Birthday *time.Time
}

// Signup registers a new member account.
func (s *AuthService) Signup(ctx context.Context, input SignupInput) (*model.Member, error) {
	if input.Email == "" {
		return nil, ErrEmailRequired
	}
	if input.Password == "" {
		return nil, ErrPasswordRequired
	}
	if input.Name == "" {
		return nil, ErrNameRequired
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	member := &model.Member{
		ID:           newID(),
		MemberCode:   newMemberCode(),
		Email:        strings.ToLower(strings.TrimSpace(input.Email)),
		Phone:        input.Phone,
		PasswordHash: hash,
		Name:         input.Name,
		Gender:       input.Gender,
		Birthday:     input.Birthday,
		Status:       model.MemberStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.members.CreateMember(ctx, member); err != nil {
		switch {
		case errors.Is(err, repository.ErrEmailExists):
			return nil, ErrEmailTaken
		case errors.Is(err, repository.ErrPhoneExists):
			return nil, ErrPhoneTaken
		}
		return nil, fmt.Errorf("create member: %w", err)
	}

	return member, nil
}

// SigninResult carries a session token and the authenticated member.
type SigninResult struct {
	Token  string
	Member *model.Member
}

// Signin authenticates a member by email and password.
func (s *AuthService) Signin(ctx context.Context, email, password string) (*SigninResult, error) {
	member, err := s.members.GetMemberByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	match, err := auth.VerifyPassword(password, member.PasswordHash)
	if err != nil || !match {
		return nil, ErrInvalidCredentials
	}

	if !member.IsActive() {
		return nil, ErrInvalidCredentials
	}

	token, err := auth.GenerateToken(member.ID, member.Email, s.jwtSecret, s.jwtExpiry)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	if err := s.members.TouchLastLogin(ctx, member.ID); err != nil {
		// Last-login tracking is best effort; sign-in still succeeds.
		s.logger.WarnContext(ctx, "failed to record last login",
			slog.String("member_id", member.ID),
			slog.String("error", err.Error()),
		)
	}

	return &SigninResult{Token: token, Member: member}, nil
}

// ForgotPassword issues a reset token and hands it to the mailer.
// Unknown emails succeed silently to prevent account enumeration.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	member, err := s.members.GetMemberByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		s.logger.InfoContext(ctx, "password reset requested for unknown email")
		return nil
	}

	token := uuid.New().String()
	expiresAt := time.Now().UTC().Add(resetTokenTTL)

	if err := s.members.SetResetToken(ctx, member.ID, token, expiresAt); err != nil {
		return fmt.Errorf("set reset token: %w", err)
	}

	if err := s.mail.SendPasswordReset(ctx, member.Email, token); err != nil {
		return fmt.Errorf("send reset email: %w", err)
	}

	return nil
}

// ResetPassword sets a new password given a valid reset token.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if newPassword == "" {
		return ErrPasswordRequired
	}

	member, err := s.members.GetMemberByResetToken(ctx, token)
	if err != nil {
		return ErrInvalidResetToken
	}

	if !member.ResetTokenValid(token, time.Now().UTC()) {
		return ErrInvalidResetToken
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	// The token is cleared together with the hash update, making it single-use.
	if err := s.members.UpdateMemberPassword(ctx, member.ID, hash); err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	return nil
}

// newMemberCode generates the public member code issued at signup.
func newMemberCode() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")
}
