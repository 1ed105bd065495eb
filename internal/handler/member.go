package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/specforge/specforge/internal/auth"
	"github.com/specforge/specforge/internal/handler/dto"
	"github.com/specforge/specforge/internal/service"
)

// MemberHandler handles profile endpoints for the authenticated member.
type MemberHandler struct {
	svc    *service.MemberService
	logger *slog.Logger
}

// NewMemberHandler creates a new MemberHandler.
func NewMemberHandler(svc *service.MemberService, logger *slog.Logger) *MemberHandler {
	return &MemberHandler{
		svc:    svc,
		logger: logger,
	}
}

// Me handles GET /api/v1/members/me.
func (h *MemberHandler) Me(w http.ResponseWriter, r *http.Request) {
	memberID := auth.MemberIDFromContext(r.Context())

	member, err := h.svc.GetProfile(r.Context(), memberID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToMemberResponse(member))
}

// UpdateMe handles PUT /api/v1/members/me.
func (h *MemberHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	memberID := auth.MemberIDFromContext(r.Context())

	var req dto.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	member, err := h.svc.UpdateProfile(r.Context(), memberID, service.UpdateProfileInput{
		Name:     req.Name,
		Phone:    req.Phone,
		Gender:   req.Gender,
		Birthday: req.Birthday,
	})
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("member_profile_updated", "member_id", memberID)

	writeJSON(w, http.StatusOK, dto.ToMemberResponse(member))
}

// ChangePassword handles PUT /api/v1/members/me/password.
func (h *MemberHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	memberID := auth.MemberIDFromContext(r.Context())

	var req dto.ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	if err := h.svc.ChangePassword(r.Context(), memberID, req.OldPassword, req.NewPassword); err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Password has been changed",
	})
}

// handleServiceError maps service errors to HTTP responses.
func (h *MemberHandler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrMemberNotFound):
		writeError(w, http.StatusNotFound, "MEMBER_NOT_FOUND", "Member not found")
	case errors.Is(err, service.ErrNameRequired):
		writeError(w, http.StatusBadRequest, "NAME_REQUIRED", "Name is required")
	case errors.Is(err, service.ErrPasswordRequired):
		writeError(w, http.StatusBadRequest, "PASSWORD_REQUIRED", "Password is required")
	case errors.Is(err, service.ErrWrongPassword):
		writeError(w, http.StatusForbidden, "WRONG_PASSWORD", "Old password is incorrect")
	default:
		h.logger.Error("internal_error", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}
