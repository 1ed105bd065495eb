package dto

import (
	"time"

	"github.com/specforge/specforge/internal/model"
)

// CreateProjectRequest represents the request body for creating a project.
type CreateProjectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// UpdateProjectRequest represents the request body for updating a project.
type UpdateProjectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// ProjectResponse represents a project in API responses.
type ProjectResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// ProjectListResponse represents a list of projects.
type ProjectListResponse struct {
	Data []ProjectResponse `json:"data"`
}

// ToProjectResponse converts a Project model to ProjectResponse DTO.
func ToProjectResponse(p *model.Project) *ProjectResponse {
	return &ProjectResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		CreatedAt:   p.CreatedAt,
	}
}

// ToProjectListResponse converts a slice of Project models to ProjectListResponse.
func ToProjectListResponse(projects []*model.Project) *ProjectListResponse {
	responses := make([]ProjectResponse, len(projects))
	for i, p := range projects {
		responses[i] = *ToProjectResponse(p)
	}
	return &ProjectListResponse{Data: responses}
}
