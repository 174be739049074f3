package auth

// HTTP handlers for the auth module. This is the controller layer: it decodes
// request payloads, performs basic field validation, and delegates to the
// AuthService.

import (
	"encoding/json"
	"net/http"

	"github.com/user/madang-go/apperror"
)

// Handlers wraps the AuthService to provide HTTP handlers.
type Handlers struct {
	service *AuthService
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(service *AuthService) *Handlers {
	return &Handlers{service: service}
}

// HandleIssueToken godoc
// @Summary Issue access token
// @Description Verifies email/password credentials and returns a time-limited bearer token.
// @Tags Auth
// @Accept json
// @Produce json
// @Param loginBody body auth.LoginRequest true "User credentials"
// @Success 200 {object} auth.Envelope "Token issued"
// @Failure 400 {object} apperror.ErrorResponse "Bad Request - Invalid input or missing fields"
// @Failure 401 {object} apperror.ErrorResponse "Unauthorized - Credentials do not match"
// @Failure 500 {object} apperror.ErrorResponse "Internal Server Error"
// @Router /auth/tokens [post]
func (h *Handlers) HandleIssueToken() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, r, apperror.NewBadRequestError("invalid request body: "+err.Error(), nil))
			return
		}
		defer r.Body.Close()

		if req.Email == "" || req.Password == "" {
			WriteError(w, r, apperror.NewBadRequestError("email and password are required", nil))
			return
		}

		resp, err := h.service.Login(req)
		if err != nil {
			WriteError(w, r, err)
			return
		}

		WriteSuccess(w, http.StatusOK, resp)
	}
}
