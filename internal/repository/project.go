package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/specforge/specforge/internal/model"
)

// ErrProjectNotFound indicates the project does not exist.
var ErrProjectNotFound = errors.New("project not found")

// CreateProject inserts a new project.
func (r *Repository) CreateProject(ctx context.Context, p *model.Project) error {
	query := `
		INSERT INTO projects (id, member_id, name, description, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.pool.Exec(ctx, query,
		p.ID,
		p.MemberID,
		p.Name,
		p.Description,
		p.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}

	return nil
}

// GetProjectByID retrieves a project by its ID.
func (r *Repository) GetProjectByID(ctx context.Context, id string) (*model.Project, error) {
	query := `
		SELECT id, member_id, name, description, created_at
		FROM projects
		WHERE id = $1
	`

	var p model.Project
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&p.ID,
		&p.MemberID,
		&p.Name,
		&p.Description,
		&p.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	return &p, nil
}

// ListProjectsByMember returns all projects owned by a member, oldest first.
func (r *Repository) ListProjectsByMember(ctx context.Context, memberID string) ([]*model.Project, error) {
	query := `
		SELECT id, member_id, name, description, created_at
		FROM projects
		WHERE member_id = $1
		ORDER BY created_at ASC, id ASC
	`

	rows, err := r.pool.Query(ctx, query, memberID)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	projects := make([]*model.Project, 0)
	for rows.Next() {
		var p model.Project
		if err := rows.Scan(&p.ID, &p.MemberID, &p.Name, &p.Description, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate projects: %w", err)
	}

	return projects, nil
}

// UpdateProject updates the name and description of a project.
// Ownership is immutable: member_id is never touched.
func (r *Repository) UpdateProject(ctx context.Context, p *model.Project) error {
	query := `
		UPDATE projects
		SET name = $2, description = $3
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query, p.ID, p.Name, p.Description)
	if err != nil {
		return fmt.Errorf("failed to update project: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrProjectNotFound
	}
	return nil
}

// DeleteProject removes a project and, via FK cascade, its generated specs.
func (r *Repository) DeleteProject(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrProjectNotFound
	}
	return nil
}
