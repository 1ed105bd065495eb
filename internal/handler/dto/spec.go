package dto

import (
	"time"

	"github.com/specforge/specforge/internal/model"
)

// GenerateSpecRequest represents the request body for spec generation.
type GenerateSpecRequest struct {
	Requirement string `json:"requirement"`
}

// UpdateSpecRequest carries the four content fields for a full
// overwrite. All four are required; the submitted values are stored
// verbatim.
type UpdateSpecRequest struct {
	APISpec         string `json:"api_spec"`
	DBSchema        string `json:"db_schema"`
	SequenceDiagram string `json:"sequence_diagram"`
	MockData        string `json:"mock_data"`
}

// RefineSectionRequest represents the request body for section refinement.
type RefineSectionRequest struct {
	Section        string `json:"section"`
	Instruction    string `json:"instruction"`
	CurrentContent string `json:"current_content"`
}

// RefineSectionResponse carries the refined content back to the caller.
// Nothing is persisted until the caller accepts it via a spec update.
type RefineSectionResponse struct {
	RefinedContent string `json:"refined_content"`
}

// SpecResponse represents a generated spec in API responses.
type SpecResponse struct {
	ID                     string    `json:"id"`
	ProjectID              string    `json:"project_id"`
	RequirementDescription string    `json:"requirement_description"`
	APISpec                string    `json:"api_spec"`
	DBSchema               string    `json:"db_schema"`
	SequenceDiagram        string    `json:"sequence_diagram"`
	MockData               string    `json:"mock_data"`
	CreatedAt              time.Time `json:"created_at"`
}

// SpecListResponse represents a list of generated specs.
type SpecListResponse struct {
	Data []SpecResponse `json:"data"`
}

// ToSpecResponse converts a GeneratedSpec model to SpecResponse DTO.
func ToSpecResponse(s *model.GeneratedSpec) *SpecResponse {
	return &SpecResponse{
		ID:                     s.ID,
		ProjectID:              s.ProjectID,
		RequirementDescription: s.RequirementDescription,
		APISpec:                s.APISpec,
		DBSchema:               s.DBSchema,
		SequenceDiagram:        s.SequenceDiagram,
		MockData:               s.MockData,
		CreatedAt:              s.CreatedAt,
	}
}

// ToSpecListResponse converts a slice of GeneratedSpec models to SpecListResponse.
func ToSpecListResponse(specs []*model.GeneratedSpec) *SpecListResponse {
	responses := make([]SpecResponse, len(specs))
	for i, s := range specs {
		responses[i] = *ToSpecResponse(s)
	}
	return &SpecListResponse{Data: responses}
}
