// Package service provides business logic for the application.
//
// Services depend on narrow store interfaces implemented by
// *repository.Repository, and on the provider.Client contract for AI
// calls, so every use case can be exercised with in-memory fakes.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/specforge/specforge/internal/model"
)

// Service errors. Ownership mismatches are deliberately masked as
// not-found so a caller cannot probe for resources owned by others.
var (
	ErrMemberNotFound     = errors.New("member not found")
	ErrProjectNotFound    = errors.New("project not found")
	ErrSpecNotFound       = errors.New("generated spec not found")
	ErrEmailTaken         = errors.New("email already in use")
	ErrPhoneTaken         = errors.New("phone number already in use")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidResetToken  = errors.New("invalid or expired reset token")
	ErrWrongPassword      = errors.New("old password is incorrect")
	ErrEmailRequired      = errors.New("email is required")
	ErrPasswordRequired   = errors.New("password is required")
	ErrNameRequired       = errors.New("name is required")
	ErrRequirementEmpty   = errors.New("requirement text is required")
)

// MemberStore is the persistence surface the services need for members.
type MemberStore interface {
	CreateMember(ctx context.Context, m *model.Member) error
	GetMemberByID(ctx context.Context, id string) (*model.Member, error)
	GetMemberByEmail(ctx context.Context, email string) (*model.Member, error)
	GetMemberByResetToken(ctx context.Context, token string) (*model.Member, error)
	UpdateMemberProfile(ctx context.Context, m *model.Member) error
	UpdateMemberPassword(ctx context.Context, id, passwordHash string) error
	SetResetToken(ctx context.Context, id, token string, expiresAt time.Time) error
	TouchLastLogin(ctx context.Context, id string) error
}

// ProjectStore is the persistence surface for projects.
type ProjectStore interface {
	CreateProject(ctx context.Context, p *model.Project) error
	GetProjectByID(ctx context.Context, id string) (*model.Project, error)
	ListProjectsByMember(ctx context.Context, memberID string) ([]*model.Project, error)
	UpdateProject(ctx context.Context, p *model.Project) error
	DeleteProject(ctx context.Context, id string) error
}

// SpecStore is the persistence surface for generated specs.
type SpecStore interface {
	CreateSpec(ctx context.Context, s *model.GeneratedSpec) error
	GetSpecByID(ctx context.Context, id string) (*model.GeneratedSpec, error)
	ListSpecsByProject(ctx context.Context, projectID string) ([]*model.GeneratedSpec, error)
	UpdateSpecContent(ctx context.Context, id string, content model.SpecContent) error
	DeleteSpec(ctx context.Context, id string) error
}

// newID generates a lexicographically sortable unique ID.
func newID() string {
	return ulid.Make().String()
}
