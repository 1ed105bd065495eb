package prompt

import (
	"strings"
	"testing"
)

func TestGeneration_EmbedsRequirementVerbatim(t *testing.T) {
	t.Parallel()

	requirement := `a to-do list API with "quoted" text and
newlines`

	p := Generation(requirement)

	if !strings.Contains(p, requirement) {
		t.Error("generation prompt must embed the requirement verbatim")
	}
	if !strings.Contains(p, "technical architect") {
		t.Error("generation prompt must state the architect role")
	}
	for _, key := range []string{"apiSpec", "dbSchema", "sequenceDiagram", "mockData"} {
		if !strings.Contains(p, `"`+key+`"`) {
			t.Errorf("generation prompt must name the %s key", key)
		}
	}
	if !strings.Contains(p, "code fence") {
		t.Error("generation prompt must forbid markdown fencing")
	}
}

func TestGeneration_Deterministic(t *testing.T) {
	t.Parallel()

	if Generation("same input") != Generation("same input") {
		t.Error("generation prompt must be deterministic")
	}
}

func TestRefinement_EmbedsAllInputs(t *testing.T) {
	t.Parallel()

	p := Refinement("dbSchema", "add an index on email", "CREATE TABLE users (id INT);")

	if !strings.Contains(p, "technical expert") {
		t.Error("refinement prompt must state the expert role")
	}
	if !strings.Contains(p, "Section Type: dbSchema") {
		t.Error("refinement prompt must carry the section label")
	}
	if !strings.Contains(p, "add an index on email") {
		t.Error("refinement prompt must carry the instruction")
	}
	if !strings.Contains(p, "CREATE TABLE users (id INT);") {
		t.Error("refinement prompt must carry the current content")
	}
	if !strings.Contains(p, "plain text") {
		t.Error("refinement prompt must ask for plain text output")
	}
}
