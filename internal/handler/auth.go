package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/specforge/specforge/internal/handler/dto"
	"github.com/specforge/specforge/internal/service"
)

// AuthHandler handles signup, signin, and the password reset endpoints.
type AuthHandler struct {
	svc    *service.AuthService
	logger *slog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(svc *service.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		svc:    svc,
		logger: logger,
	}
}

// Signup handles POST /api/v1/auth/signup.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req dto.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	member, err := h.svc.Signup(r.Context(), service.SignupInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Phone:    req.Phone,
		Gender:   req.Gender,
		Birthday: req.Birthday,
	})
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("member_signed_up",
		"member_id", member.ID,
		"member_code", member.MemberCode,
	)

	writeJSON(w, http.StatusCreated, dto.ToMemberResponse(member))
}

// Signin handles POST /api/v1/auth/signin.
func (h *AuthHandler) Signin(w http.ResponseWriter, r *http.Request) {
	var req dto.SigninRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	result, err := h.svc.Signin(r.Context(), req.Email, req.Password)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("member_signed_in", "member_id", result.Member.ID)

	writeJSON(w, http.StatusOK, dto.SigninResponse{
		Token:  result.Token,
		Member: dto.ToMemberResponse(result.Member),
	})
}

// ForgotPassword handles POST /api/v1/auth/forgot-password.
// Always responds 202 so callers cannot probe for registered emails.
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req dto.ForgotPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	if err := h.svc.ForgotPassword(r.Context(), req.Email); err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{
		"message": "If the email is registered, a reset link has been sent",
	})
}

// ResetPassword handles POST /api/v1/auth/reset-password.
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req dto.ResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	if err := h.svc.ResetPassword(r.Context(), req.Token, req.NewPassword); err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Password has been reset",
	})
}

// handleServiceError maps service errors to HTTP responses.
func (h *AuthHandler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrEmailRequired):
		writeError(w, http.StatusBadRequest, "EMAIL_REQUIRED", "Email is required")
	case errors.Is(err, service.ErrPasswordRequired):
		writeError(w, http.StatusBadRequest, "PASSWORD_REQUIRED", "Password is required")
	case errors.Is(err, service.ErrNameRequired):
		writeError(w, http.StatusBadRequest, "NAME_REQUIRED", "Name is required")
	case errors.Is(err, service.ErrEmailTaken):
		writeError(w, http.StatusConflict, "EMAIL_TAKEN", "Email already in use")
	case errors.Is(err, service.ErrPhoneTaken):
		writeError(w, http.StatusConflict, "PHONE_TAKEN", "Phone number already in use")
	case errors.Is(err, service.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password")
	case errors.Is(err, service.ErrInvalidResetToken):
		writeError(w, http.StatusBadRequest, "INVALID_RESET_TOKEN", "Invalid or expired reset token")
	default:
		h.logger.Error("internal_error", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}
