package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/specforge/specforge/internal/auth"
	"github.com/specforge/specforge/internal/handler/dto"
	"github.com/specforge/specforge/internal/service"
)

// ProjectHandler handles HTTP requests for project operations.
type ProjectHandler struct {
	svc    *service.ProjectService
	logger *slog.Logger
}

// NewProjectHandler creates a new ProjectHandler.
func NewProjectHandler(svc *service.ProjectService, logger *slog.Logger) *ProjectHandler {
	return &ProjectHandler{
		svc:    svc,
		logger: logger,
	}
}

// Create handles POST /api/v1/projects.
func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	memberID := auth.MemberIDFromContext(r.Context())

	project, err := h.svc.CreateProject(r.Context(), memberID, req.Name, req.Description)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("project_created",
		"project_id", project.ID,
		"member_id", memberID,
	)

	writeJSON(w, http.StatusCreated, dto.ToProjectResponse(project))
}

// List handles GET /api/v1/projects.
func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	memberID := auth.MemberIDFromContext(r.Context())

	projects, err := h.svc.ListProjects(r.Context(), memberID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToProjectListResponse(projects))
}

// Get handles GET /api/v1/projects/{projectID}.
func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "projectID")
	memberID := auth.MemberIDFromContext(r.Context())

	project, err := h.svc.GetProject(r.Context(), memberID, projectID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToProjectResponse(project))
}

// Update handles PUT /api/v1/projects/{projectID}.
func (h *ProjectHandler) Update(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "projectID")
	memberID := auth.MemberIDFromContext(r.Context())

	var req dto.UpdateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	project, err := h.svc.UpdateProject(r.Context(), memberID, projectID, req.Name, req.Description)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("project_updated", "project_id", projectID)

	writeJSON(w, http.StatusOK, dto.ToProjectResponse(project))
}

// Delete handles DELETE /api/v1/projects/{projectID}.
func (h *ProjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "projectID")
	memberID := auth.MemberIDFromContext(r.Context())

	if err := h.svc.DeleteProject(r.Context(), memberID, projectID); err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("project_deleted", "project_id", projectID)

	w.WriteHeader(http.StatusNoContent)
}

// handleServiceError maps service errors to HTTP responses.
func (h *ProjectHandler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrProjectNotFound):
		writeError(w, http.StatusNotFound, "PROJECT_NOT_FOUND", "Project not found")
	case errors.Is(err, service.ErrProjectNameRequired):
		writeError(w, http.StatusBadRequest, "NAME_REQUIRED", "Project name is required")
	case errors.Is(err, service.ErrMemberNotFound):
		writeError(w, http.StatusNotFound, "MEMBER_NOT_FOUND", "Member not found")
	default:
		h.logger.Error("internal_error", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}
