package service

import (
	"encoding/json"

	"github.com/specforge/specforge/internal/model"
)

// Per-field defaults when the provider returned a valid JSON object but
// omitted a key.
const (
	defaultDBSchema        = "-- No DB Schema generated"
	defaultSequenceDiagram = "sequenceDiagram\nNote right of User: Parsing failed or empty"
	defaultMockData        = "{}"
)

// Per-field defaults when the provider text is not a JSON object of
// string values at all. The full raw text is preserved in APISpec so
// nothing the provider generated is silently discarded.
const (
	fallbackDBSchema        = "-- Error parsing AI response"
	fallbackSequenceDiagram = "sequenceDiagram\nNote right of User: Error parsing AI response"
	fallbackMockData        = "{}"
)

// NormalizeResult is the outcome of normalizing provider output.
type NormalizeResult struct {
	Content model.SpecContent
	// Parsed reports whether the raw text was a valid JSON object of
	// string values. False means the global fallback row was applied.
	Parsed bool
}

// Normalize converts free-form provider output into the four canonical
// content fields. It never fails: any text, including empty or garbage
// output, yields a storable record. The provider is untrusted; this
// function is the guarantee behind the NOT NULL columns.
func Normalize(raw string) NormalizeResult {
	var fields map[string]string
	if err := json.Unmarshal([]byte(raw), &fields); err != nil || fields == nil {
		return NormalizeResult{
			Content: model.SpecContent{
				APISpec:         raw,
				DBSchema:        fallbackDBSchema,
				SequenceDiagram: fallbackSequenceDiagram,
				MockData:        fallbackMockData,
			},
		}
	}

	content := model.SpecContent{
		APISpec:         raw,
		DBSchema:        defaultDBSchema,
		SequenceDiagram: defaultSequenceDiagram,
		MockData:        defaultMockData,
	}

	if v, ok := fields[model.SectionAPISpec]; ok {
		content.APISpec = v
	}
	if v, ok := fields[model.SectionDBSchema]; ok {
		content.DBSchema = v
	}
	if v, ok := fields[model.SectionSequenceDiagram]; ok {
		content.SequenceDiagram = v
	}
	if v, ok := fields[model.SectionMockData]; ok {
		content.MockData = v
	}

	return NormalizeResult{Content: content, Parsed: true}
}
