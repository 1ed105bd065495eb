package model

import "time"

// Spec section labels used by the refinement flow.
const (
	SectionAPISpec         = "apiSpec"
	SectionDBSchema        = "dbSchema"
	SectionSequenceDiagram = "sequenceDiagram"
	SectionMockData        = "mockData"
)

// GeneratedSpec is the four-field structured artifact produced from a
// requirement text. All four content fields are always present strings;
// the response normalizer guarantees this regardless of what the AI
// provider returned.
type GeneratedSpec struct {
	ID                     string    `json:"id"`
	ProjectID              string    `json:"project_id"`
	RequirementDescription string    `json:"requirement_description"`
	APISpec                string    `json:"api_spec"`
	DBSchema               string    `json:"db_schema"`
	SequenceDiagram        string    `json:"sequence_diagram"`
	MockData               string    `json:"mock_data"`
	CreatedAt              time.Time `json:"created_at"`
}

// SpecContent carries the four content fields for a full overwrite.
type SpecContent struct {
	APISpec         string
	DBSchema        string
	SequenceDiagram string
	MockData        string
}
