package auth

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/user/authgate-go/apperror"
)

// Handlers exposes the authentication endpoints over HTTP.
type Handlers struct {
	service *Service
}

// NewHandlers creates the HTTP handlers around the authenticator service.
func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// HandleAuthenticate godoc
// @Summary Authenticate
// @Description Verifies a username/password pair and returns a signed access token.
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body auth.LoginRequest true "User credentials"
// @Success 200 {object} auth.TokenResponse "Token issued"
// @Failure 400 {object} apperror.ErrorResponse "Malformed or incomplete request"
// @Failure 401 {object} apperror.ErrorResponse "Invalid credentials"
// @Failure 500 {object} apperror.ErrorResponse "Internal server error"
// @Router /api/authenticate [post]
func (h *Handlers) HandleAuthenticate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, r, apperror.NewBadRequestError("invalid request body", err))
			return
		}
		defer r.Body.Close()

		if req.Username == "" || req.Password == "" {
			WriteError(w, r, apperror.NewBadRequestError("username and password are required", nil))
			return
		}

		resp, err := h.service.Authenticate(r.Context(), req)
		if err != nil {
			WriteError(w, r, err)
			return
		}

		// Mirror the token into the response header for header-driven clients.
		w.Header().Set(authorizationHeader, "Bearer "+resp.Token)
		WriteJSON(w, http.StatusOK, resp)
	}
}

// HandleSignup godoc
// @Summary Sign up
// @Description Creates a new user account granted ROLE_USER.
// @Tags auth
// @Accept json
// @Produce json
// @Param signupBody body auth.SignupRequest true "New account details"
// @Success 201 {object} auth.User "User created"
// @Failure 400 {object} apperror.ErrorResponse "Malformed or incomplete request"
// @Failure 409 {object} apperror.ErrorResponse "Username already exists"
// @Failure 500 {object} apperror.ErrorResponse "Internal server error"
// @Router /api/signup [post]
func (h *Handlers) HandleSignup() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SignupRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, r, apperror.NewBadRequestError("invalid request body", err))
			return
		}
		defer r.Body.Close()

		if req.Username == "" || req.Password == "" {
			WriteError(w, r, apperror.NewBadRequestError("username and password are required", nil))
			return
		}
		if len(req.Username) > 50 {
			WriteError(w, r, apperror.NewValidationError("username must be at most 50 characters", nil))
			return
		}

		user, err := h.service.Signup(r.Context(), req)
		if err != nil {
			WriteError(w, r, err)
			return
		}

		user.Password = ""
		WriteJSON(w, http.StatusCreated, user)
	}
}

// WriteJSON serializes data as the response body with the given status.
func WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

// WriteError renders any error as the uniform JSON error body. Errors that
// are not AppErrors are wrapped as internal errors so no detail leaks.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	appErr, ok := apperror.FromError(err)
	if !ok {
		appErr = apperror.NewInternalError("an unexpected error occurred", err)
	}
	if appErr.StatusCode() >= http.StatusInternalServerError {
		log.Printf("request %s %s failed: %v", r.Method, r.URL.Path, appErr)
	}
	WriteJSON(w, appErr.StatusCode(), appErr.ToResponse())
}
