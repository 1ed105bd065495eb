package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/specforge/specforge/internal/auth"
	"github.com/specforge/specforge/internal/model"
)

// MemberService exposes profile and credential operations for
// authenticated members.
type MemberService struct {
	members MemberStore
	logger  *slog.Logger
}

// NewMemberService creates a new MemberService.
func NewMemberService(members MemberStore, logger *slog.Logger) *MemberService {
	return &MemberService{members: members, logger: logger}
}

// GetProfile returns the member identified by memberID.
func (s *MemberService) GetProfile(ctx context.Context, memberID string) (*model.Member, error) {
	member, err := s.members.GetMemberByID(ctx, memberID)
	if err != nil {
		return nil, ErrMemberNotFound
	}
	return member, nil
}

// UpdateProfileInput defines the mutable profile fields.
type UpdateProfileInput struct {
	Name     string
	Phone    string
	Gender   string
	Birthday *time.Time
}

// UpdateProfile updates the member's profile fields and returns the
// refreshed record.
func (s *MemberService) UpdateProfile(ctx context.Context, memberID string, input UpdateProfileInput) (*model.Member, error) {
	member, err := s.members.GetMemberByID(ctx, memberID)
	if err != nil {
		return nil, ErrMemberNotFound
	}
	if input.Name == "" {
		return nil, ErrNameRequired
	}

	member.Name = input.Name
	member.Phone = input.Phone
	member.Gender = input.Gender
	member.Birthday = input.Birthday

	if err := s.members.UpdateMemberProfile(ctx, member); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}

	return s.members.GetMemberByID(ctx, memberID)
}

// ChangePassword replaces the member's password after verifying the
// current one.
func (s *MemberService) ChangePassword(ctx context.Context, memberID, oldPassword, newPassword string) error {
	if newPassword == "" {
		return ErrPasswordRequired
	}

	member, err := s.members.GetMemberByID(ctx, memberID)
	if err != nil {
		return ErrMemberNotFound
	}

	match, err := auth.VerifyPassword(oldPassword, member.PasswordHash)
	if err != nil || !match {
		return ErrWrongPassword
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.members.UpdateMemberPassword(ctx, memberID, hash); err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	s.logger.InfoContext(ctx, "member changed password", slog.String("member_id", memberID))
	return nil
}
