package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/specforge/specforge/internal/model"
)

// ErrSpecNotFound indicates the generated spec does not exist.
var ErrSpecNotFound = errors.New("generated spec not found")

// CreateSpec inserts a new generated spec.
func (r *Repository) CreateSpec(ctx context.Context, s *model.GeneratedSpec) error {
	query := `
		INSERT INTO generated_specs (
			id, project_id, requirement_description,
			api_spec, db_schema, sequence_diagram, mock_data, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.pool.Exec(ctx, query,
		s.ID,
		s.ProjectID,
		s.RequirementDescription,
		s.APISpec,
		s.DBSchema,
		s.SequenceDiagram,
		s.MockData,
		s.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create generated spec: %w", err)
	}

	return nil
}

// GetSpecByID retrieves a generated spec by its ID.
func (r *Repository) GetSpecByID(ctx context.Context, id string) (*model.GeneratedSpec, error) {
	query := `
		SELECT id, project_id, requirement_description,
		       api_spec, db_schema, sequence_diagram, mock_data, created_at
		FROM generated_specs
		WHERE id = $1
	`

	var s model.GeneratedSpec
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&s.ID,
		&s.ProjectID,
		&s.RequirementDescription,
		&s.APISpec,
		&s.DBSchema,
		&s.SequenceDiagram,
		&s.MockData,
		&s.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSpecNotFound
		}
		return nil, fmt.Errorf("failed to get generated spec: %w", err)
	}

	return &s, nil
}

// ListSpecsByProject returns all generated specs for a project in creation order.
func (r *Repository) ListSpecsByProject(ctx context.Context, projectID string) ([]*model.GeneratedSpec, error) {
	query := `
		SELECT id, project_id, requirement_description,
		       api_spec, db_schema, sequence_diagram, mock_data, created_at
		FROM generated_specs
		WHERE project_id = $1
		ORDER BY created_at ASC, id ASC
	`

	rows, err := r.pool.Query(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list generated specs: %w", err)
	}
	defer rows.Close()

	specs := make([]*model.GeneratedSpec, 0)
	for rows.Next() {
		var s model.GeneratedSpec
		err := rows.Scan(
			&s.ID,
			&s.ProjectID,
			&s.RequirementDescription,
			&s.APISpec,
			&s.DBSchema,
			&s.SequenceDiagram,
			&s.MockData,
			&s.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan generated spec: %w", err)
		}
		specs = append(specs, &s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate generated specs: %w", err)
	}

	return specs, nil
}

// UpdateSpecContent overwrites the four content fields of a generated spec.
// The requirement description and timestamps are immutable.
func (r *Repository) UpdateSpecContent(ctx context.Context, id string, content model.SpecContent) error {
	query := `
		UPDATE generated_specs
		SET api_spec = $2, db_schema = $3, sequence_diagram = $4, mock_data = $5
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query,
		id,
		content.APISpec,
		content.DBSchema,
		content.SequenceDiagram,
		content.MockData,
	)
	if err != nil {
		return fmt.Errorf("failed to update generated spec: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrSpecNotFound
	}
	return nil
}

// DeleteSpec removes a generated spec.
func (r *Repository) DeleteSpec(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM generated_specs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete generated spec: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrSpecNotFound
	}
	return nil
}
