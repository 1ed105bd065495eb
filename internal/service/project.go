package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/specforge/specforge/internal/model"
)

// ErrProjectNameRequired indicates a project was submitted without a name.
var ErrProjectNameRequired = errors.New("project name is required")

// ProjectService handles owner-scoped project CRUD.
type ProjectService struct {
	projects ProjectStore
	members  MemberStore
}

// NewProjectService creates a new ProjectService.
func NewProjectService(projects ProjectStore, members MemberStore) *ProjectService {
	return &ProjectService{projects: projects, members: members}
}

func (s *ProjectService) resolveMember(ctx context.Context, memberID string) (*model.Member, error) {
	member, err := s.members.GetMemberByID(ctx, memberID)
	if err != nil {
		return nil, fmt.Errorf("resolve member %s: %w", memberID, ErrMemberNotFound)
	}
	return member, nil
}

// CreateProject creates a project owned by the acting member.
func (s *ProjectService) CreateProject(ctx context.Context, memberID, name, description string) (*model.Project, error) {
	if name == "" {
		return nil, ErrProjectNameRequired
	}

	member, err := s.resolveMember(ctx, memberID)
	if err != nil {
		return nil, err
	}

	project := &model.Project{
		ID:          newID(),
		MemberID:    member.ID,
		Name:        name,
		Description: description,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.projects.CreateProject(ctx, project); err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}

	return project, nil
}

// ListProjects returns all projects owned by the acting member.
func (s *ProjectService) ListProjects(ctx context.Context, memberID string) ([]*model.Project, error) {
	member, err := s.resolveMember(ctx, memberID)
	if err != nil {
		return nil, err
	}

	projects, err := s.projects.ListProjectsByMember(ctx, member.ID)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return projects, nil
}

// GetProject returns a single project the member owns. Foreign projects
// are indistinguishable from missing ones.
func (s *ProjectService) GetProject(ctx context.Context, memberID, projectID string) (*model.Project, error) {
	member, err := s.resolveMember(ctx, memberID)
	if err != nil {
		return nil, err
	}

	project, err := s.projects.GetProjectByID(ctx, projectID)
	if err != nil {
		return nil, ErrProjectNotFound
	}
	if !project.OwnedBy(member.ID) {
		return nil, ErrProjectNotFound
	}
	return project, nil
}

// UpdateProject changes the name and description of an owned project.
func (s *ProjectService) UpdateProject(ctx context.Context, memberID, projectID, name, description string) (*model.Project, error) {
	if name == "" {
		return nil, ErrProjectNameRequired
	}

	project, err := s.GetProject(ctx, memberID, projectID)
	if err != nil {
		return nil, err
	}

	project.Name = name
	project.Description = description

	if err := s.projects.UpdateProject(ctx, project); err != nil {
		return nil, fmt.Errorf("update project: %w", err)
	}
	return project, nil
}

// DeleteProject removes an owned project and its generated specs.
func (s *ProjectService) DeleteProject(ctx context.Context, memberID, projectID string) error {
	project, err := s.GetProject(ctx, memberID, projectID)
	if err != nil {
		return err
	}

	if err := s.projects.DeleteProject(ctx, project.ID); err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	return nil
}
