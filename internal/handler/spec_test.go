package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/specforge/specforge/internal/handler/dto"
	"github.com/specforge/specforge/internal/provider"
)

func TestGenerateSpec(t *testing.T) {
	ai := &stubProvider{output: `{"apiSpec":"openapi: 3.0.0","dbSchema":"CREATE TABLE t ();","sequenceDiagram":"sequenceDiagram","mockData":"{}"}`}
	env := newTestEnv(t, ai)
	memberID, token := env.seedMember(t, "owner@example.com")
	projectID := env.seedProject(t, memberID, "alpha")

	rec := env.do(http.MethodPost, "/api/v1/projects/"+projectID+"/specs", token,
		`{"requirement":"order management API"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var spec dto.SpecResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &spec); err != nil {
		t.Fatal(err)
	}
	if spec.APISpec != "openapi: 3.0.0" {
		t.Errorf("api_spec = %q", spec.APISpec)
	}
	if spec.RequirementDescription != "order management API" {
		t.Errorf("requirement = %q", spec.RequirementDescription)
	}
	if spec.ProjectID != projectID {
		t.Errorf("project_id = %q", spec.ProjectID)
	}
}

func TestGenerateSpec_ProviderDownStillCreated(t *testing.T) {
	ai := &stubProvider{err: &provider.Error{Reason: "connection refused"}}
	env := newTestEnv(t, ai)
	memberID, token := env.seedMember(t, "owner@example.com")
	projectID := env.seedProject(t, memberID, "alpha")

	rec := env.do(http.MethodPost, "/api/v1/projects/"+projectID+"/specs", token,
		`{"requirement":"billing"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201 despite provider outage", rec.Code)
	}

	var spec dto.SpecResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &spec); err != nil {
		t.Fatal(err)
	}
	if spec.APISpec != "Error calling AI provider: connection refused" {
		t.Errorf("api_spec = %q", spec.APISpec)
	}
}

func TestGenerateSpec_EmptyRequirement(t *testing.T) {
	env := newTestEnv(t, &stubProvider{output: "{}"})
	memberID, token := env.seedMember(t, "owner@example.com")
	projectID := env.seedProject(t, memberID, "alpha")

	rec := env.do(http.MethodPost, "/api/v1/projects/"+projectID+"/specs", token,
		`{"requirement":""}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestGenerateSpec_ForeignProjectIs404(t *testing.T) {
	env := newTestEnv(t, &stubProvider{output: "{}"})
	ownerID, _ := env.seedMember(t, "owner@example.com")
	projectID := env.seedProject(t, ownerID, "alpha")
	_, intruderToken := env.seedMember(t, "intruder@example.com")

	rec := env.do(http.MethodPost, "/api/v1/projects/"+projectID+"/specs", intruderToken,
		`{"requirement":"peek"}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestListSpecs(t *testing.T) {
	ai := &stubProvider{output: `{"apiSpec":"a"}`}
	env := newTestEnv(t, ai)
	memberID, token := env.seedMember(t, "owner@example.com")
	projectID := env.seedProject(t, memberID, "alpha")

	for i := 0; i < 2; i++ {
		rec := env.do(http.MethodPost, "/api/v1/projects/"+projectID+"/specs", token,
			`{"requirement":"req"}`)
		if rec.Code != http.StatusCreated {
			t.Fatalf("generate status = %d", rec.Code)
		}
	}

	rec := env.do(http.MethodGet, "/api/v1/projects/"+projectID+"/specs", token, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}

	var list dto.SpecListResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatal(err)
	}
	if len(list.Data) != 2 {
		t.Fatalf("len = %d, want 2", len(list.Data))
	}
}

func TestUpdateAndDeleteSpec(t *testing.T) {
	ai := &stubProvider{output: `{"apiSpec":"a","dbSchema":"b","sequenceDiagram":"c","mockData":"d"}`}
	env := newTestEnv(t, ai)
	memberID, token := env.seedMember(t, "owner@example.com")
	projectID := env.seedProject(t, memberID, "alpha")

	rec := env.do(http.MethodPost, "/api/v1/projects/"+projectID+"/specs", token,
		`{"requirement":"req"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("generate status = %d", rec.Code)
	}
	var spec dto.SpecResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &spec); err != nil {
		t.Fatal(err)
	}

	rec = env.do(http.MethodPut, "/api/v1/specs/"+spec.ID, token,
		`{"api_spec":"edited","db_schema":"","sequence_diagram":"x","mock_data":"y"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("update status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var updated dto.SpecResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &updated); err != nil {
		t.Fatal(err)
	}
	if updated.APISpec != "edited" || updated.DBSchema != "" {
		t.Errorf("updated = %+v, content must be stored verbatim", updated)
	}

	rec = env.do(http.MethodDelete, "/api/v1/specs/"+spec.ID, token, "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", rec.Code)
	}

	rec = env.do(http.MethodDelete, "/api/v1/specs/"+spec.ID, token, "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("second delete status = %d, want 404", rec.Code)
	}
}

func TestRefineSection(t *testing.T) {
	ai := &stubProvider{output: "paths:\n  /orders:\n    get: {}"}
	env := newTestEnv(t, ai)
	_, token := env.seedMember(t, "owner@example.com")

	rec := env.do(http.MethodPost, "/api/v1/specs/refine", token,
		`{"section":"apiSpec","instruction":"add pagination","current_content":"paths: {}"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp dto.RefineSectionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.RefinedContent != ai.output {
		t.Errorf("refined_content = %q, want provider output verbatim", resp.RefinedContent)
	}
}
