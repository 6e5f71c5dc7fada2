package api

import (
	"log/slog"
	"net/http"

	"github.com/tasknest/tasknest-api/internal/api/shared"
	"github.com/tasknest/tasknest-api/internal/platform/logger"
	"github.com/tasknest/tasknest-api/internal/service"
)

// UserHandler handles account-related HTTP requests under /user.
type UserHandler struct {
	users    *service.UserService
	profiles *service.ProfileService
	logger   *slog.Logger
}

// NewUserHandler creates a new UserHandler with the given dependencies.
func NewUserHandler(users *service.UserService, profiles *service.ProfileService, log *slog.Logger) *UserHandler {
	if log == nil {
		log = slog.Default()
	}
	return &UserHandler{
		users:    users,
		profiles: profiles,
		logger:   log.With(slog.String("component", "user_handler")),
	}
}

// Register handles POST /user/register.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.Validate.Struct(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	user, err := h.users.Register(r.Context(), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to register user")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, user)
}

// Login handles POST /user/login. On success the token is returned in the
// body and also set as an HTTP-only cookie.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.Validate.Struct(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	result, err := h.users.Login(r.Context(), service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to authenticate user")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "token",
		Value:    result.Token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	shared.RespondWithJSON(w, r, http.StatusOK, result)
}

// Profile handles GET /user, returning the caller's account data with
// task statistics and recent tasks.
func (h *UserHandler) Profile(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := shared.UserID(r.Context())
	if !ok {
		log.Warn("user ID not found or invalid in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	profile, err := h.profiles.Profile(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load profile")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, profile)
}

// Productivity handles GET /user/productivity, the separate accessor for
// the full productivity breakdown.
func (h *UserHandler) Productivity(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := shared.UserID(r.Context())
	if !ok {
		log.Warn("user ID not found or invalid in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	report, err := h.profiles.Productivity(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load productivity report")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, report)
}

// Update handles PUT /user, a partial update of the caller's own account.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := shared.UserID(r.Context())
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	var req UpdateUserRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.Validate.Struct(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	user, err := h.users.Update(r.Context(), userID, service.UpdateUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update user")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, user)
}

// Delete handles DELETE /user, removing the caller's account and all of
// its tasks.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := shared.UserID(r.Context())
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	if err := h.users.Delete(r.Context(), userID); err != nil {
		HandleAPIError(w, r, err, "Failed to delete user")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
