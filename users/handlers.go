// Package users, handler layer. Decodes requests, reads the acting user from
// the request context where one is required, and delegates to the service.
package users

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/user/madang-go/apperror"
	"github.com/user/madang-go/auth"
)

// UserHandlers provides HTTP handlers for account management.
type UserHandlers struct {
	service *UserService
}

// NewUserHandlers creates new UserHandlers.
func NewUserHandlers(service *UserService) *UserHandlers {
	return &UserHandlers{service: service}
}

// HandleSignup godoc
// @Summary Sign up
// @Description Creates a new account. Email and nickname must be unique among active users.
// @Tags Users
// @Accept json
// @Produce json
// @Param signupBody body users.SignupRequest true "Signup details"
// @Success 201 {object} auth.Envelope "Account created"
// @Failure 400 {object} apperror.ErrorResponse "Bad Request - Missing fields or weak password"
// @Failure 409 {object} apperror.ErrorResponse "Conflict - Duplicate email or nickname"
// @Failure 500 {object} apperror.ErrorResponse "Internal Server Error"
// @Router /users/ [post]
func (h *UserHandlers) HandleSignup() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SignupRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			auth.WriteError(w, r, apperror.NewBadRequestError("invalid request body: "+err.Error(), nil))
			return
		}
		defer r.Body.Close()

		resp, err := h.service.Signup(req)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}
		auth.WriteSuccess(w, http.StatusCreated, resp)
	}
}

// HandleGetMe godoc
// @Summary Get own profile
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} auth.Envelope "Profile"
// @Failure 401 {object} apperror.ErrorResponse "Unauthorized"
// @Router /users/me [get]
func (h *UserHandlers) HandleGetMe() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := auth.CurrentUser(r.Context())
		if !ok {
			auth.WriteError(w, r, apperror.NewAuthError("no authenticated user in context", nil))
			return
		}
		auth.WriteSuccess(w, http.StatusOK, newProfileResponse(user))
	}
}

// HandleUpdateMe godoc
// @Summary Update own profile
// @Description Updates nickname, profile image, or password. Nickname uniqueness is re-checked.
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param updateBody body users.UpdateProfileRequest true "Fields to update"
// @Success 200 {object} auth.Envelope "Updated profile"
// @Failure 400 {object} apperror.ErrorResponse "Bad Request"
// @Failure 401 {object} apperror.ErrorResponse "Unauthorized"
// @Failure 409 {object} apperror.ErrorResponse "Conflict - Duplicate nickname"
// @Router /users/me [patch]
func (h *UserHandlers) HandleUpdateMe() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := auth.CurrentUser(r.Context())
		if !ok {
			auth.WriteError(w, r, apperror.NewAuthError("no authenticated user in context", nil))
			return
		}

		var req UpdateProfileRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			auth.WriteError(w, r, apperror.NewBadRequestError("invalid request body: "+err.Error(), nil))
			return
		}
		defer r.Body.Close()

		resp, err := h.service.UpdateProfile(user.UserID, &req)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}
		auth.WriteSuccess(w, http.StatusOK, resp)
	}
}

// HandleDeleteMe godoc
// @Summary Delete own account
// @Description Soft-deletes the account and scrubs nickname and profile image.
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} auth.Envelope "Account deleted"
// @Failure 400 {object} apperror.ErrorResponse "Bad Request - Account already deleted"
// @Failure 401 {object} apperror.ErrorResponse "Unauthorized"
// @Router /users/me [delete]
func (h *UserHandlers) HandleDeleteMe() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := auth.CurrentUser(r.Context())
		if !ok {
			auth.WriteError(w, r, apperror.NewAuthError("no authenticated user in context", nil))
			return
		}
		if err := h.service.Delete(user.UserID); err != nil {
			auth.WriteError(w, r, err)
			return
		}
		auth.WriteSuccess(w, http.StatusOK, map[string]string{"message": "account deleted"})
	}
}

// HandleGetUser godoc
// @Summary Get a user's public profile
// @Tags Users
// @Produce json
// @Param userId path string true "User ID"
// @Success 200 {object} auth.Envelope "Public profile"
// @Failure 404 {object} apperror.ErrorResponse "Not Found - Missing or deleted user"
// @Router /users/{userId} [get]
func (h *UserHandlers) HandleGetUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := chi.URLParam(r, "userId")
		resp, err := h.service.GetPublic(userID)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}
		auth.WriteSuccess(w, http.StatusOK, resp)
	}
}
