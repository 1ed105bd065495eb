// Package prompt renders the templates sent to the AI provider.
// Both builders are pure functions of their inputs: no network, no
// persistence, deterministic output.
package prompt

import "fmt"

// generationTemplate demands a bare JSON object with exactly four keys.
// The provider does not always comply; the response normalizer downstream
// handles every deviation.
const generationTemplate = `You are a technical architect. Based on the following requirement, generate a complete technical specification.

You must output ONLY a single JSON object with these exact four keys:
- "apiSpec": an OpenAPI 3.0 document (YAML or JSON) as a string
- "dbSchema": SQL DDL statements as a string
- "sequenceDiagram": a Mermaid sequence diagram as a string
- "mockData": example mock data in JSON as a string

Do NOT wrap the JSON object in a markdown code fence. Do NOT add commentary before or after the object.

Requirement: %s`

// refinementTemplate asks for a direct content replacement: plain text,
// no JSON wrapping, no fencing.
const refinementTemplate = `You are a technical expert. Refine the following content based on the instruction.
Section Type: %s
Instruction: %s
Current Content:
%s

Return ONLY the updated content as plain text, without any markdown formatting (no ` + "```" + `) and without JSON wrapping.`

// Generation renders the spec-generation prompt for a free-text requirement.
func Generation(requirement string) string {
	return fmt.Sprintf(generationTemplate, requirement)
}

// Refinement renders the section-refinement prompt.
func Refinement(section, instruction, currentContent string) string {
	return fmt.Sprintf(refinementTemplate, section, instruction, currentContent)
}
