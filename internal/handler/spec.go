package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/specforge/specforge/internal/auth"
	"github.com/specforge/specforge/internal/handler/dto"
	"github.com/specforge/specforge/internal/model"
	"github.com/specforge/specforge/internal/service"
)

// SpecHandler handles HTTP requests for generated specifications.
type SpecHandler struct {
	svc    *service.SpecService
	logger *slog.Logger
}

// NewSpecHandler creates a new SpecHandler.
func NewSpecHandler(svc *service.SpecService, logger *slog.Logger) *SpecHandler {
	return &SpecHandler{
		svc:    svc,
		logger: logger,
	}
}

// Generate handles POST /api/v1/projects/{projectID}/specs.
//
// Provider outages do not fail this endpoint: the stored spec then
// carries the diagnostic in its content fields and is returned with 201
// like any other result.
func (h *SpecHandler) Generate(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "projectID")
	memberID := auth.MemberIDFromContext(r.Context())

	var req dto.GenerateSpecRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	spec, err := h.svc.GenerateSpecification(r.Context(), memberID, projectID, req.Requirement)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("spec_generated",
		"spec_id", spec.ID,
		"project_id", projectID,
		"member_id", memberID,
	)

	writeJSON(w, http.StatusCreated, dto.ToSpecResponse(spec))
}

// List handles GET /api/v1/projects/{projectID}/specs.
func (h *SpecHandler) List(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "projectID")
	memberID := auth.MemberIDFromContext(r.Context())

	specs, err := h.svc.ListSpecsForProject(r.Context(), memberID, projectID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToSpecListResponse(specs))
}

// Update handles PUT /api/v1/specs/{specID}.
func (h *SpecHandler) Update(w http.ResponseWriter, r *http.Request) {
	specID := chi.URLParam(r, "specID")
	memberID := auth.MemberIDFromContext(r.Context())

	var req dto.UpdateSpecRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	spec, err := h.svc.UpdateSpec(r.Context(), memberID, specID, model.SpecContent{
		APISpec:         req.APISpec,
		DBSchema:        req.DBSchema,
		SequenceDiagram: req.SequenceDiagram,
		MockData:        req.MockData,
	})
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("spec_updated", "spec_id", specID)

	writeJSON(w, http.StatusOK, dto.ToSpecResponse(spec))
}

// Delete handles DELETE /api/v1/specs/{specID}.
func (h *SpecHandler) Delete(w http.ResponseWriter, r *http.Request) {
	specID := chi.URLParam(r, "specID")
	memberID := auth.MemberIDFromContext(r.Context())

	if err := h.svc.DeleteSpec(r.Context(), memberID, specID); err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("spec_deleted", "spec_id", specID)

	w.WriteHeader(http.StatusNoContent)
}

// Refine handles POST /api/v1/specs/refine.
// The refined content is returned as-is and nothing is persisted.
func (h *SpecHandler) Refine(w http.ResponseWriter, r *http.Request) {
	memberID := auth.MemberIDFromContext(r.Context())

	var req dto.RefineSectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	refined, err := h.svc.RefineSection(r.Context(), memberID, req.Section, req.Instruction, req.CurrentContent)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.RefineSectionResponse{RefinedContent: refined})
}

// handleServiceError maps service errors to HTTP responses.
func (h *SpecHandler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrProjectNotFound):
		writeError(w, http.StatusNotFound, "PROJECT_NOT_FOUND", "Project not found")
	case errors.Is(err, service.ErrSpecNotFound):
		writeError(w, http.StatusNotFound, "SPEC_NOT_FOUND", "Generated spec not found")
	case errors.Is(err, service.ErrMemberNotFound):
		writeError(w, http.StatusNotFound, "MEMBER_NOT_FOUND", "Member not found")
	case errors.Is(err, service.ErrRequirementEmpty):
		writeError(w, http.StatusBadRequest, "REQUIREMENT_REQUIRED", "Requirement text is required")
	default:
		h.logger.Error("internal_error", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}
