package users

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/user/authgate-go/apperror"
	"github.com/user/authgate-go/auth"
)

// Handlers exposes the user lookup endpoints.
type Handlers struct {
	store auth.UserStore
}

// NewHandlers creates the user HTTP handlers.
func NewHandlers(store auth.UserStore) *Handlers {
	return &Handlers{store: store}
}

// HandleGetCurrentUser godoc
// @Summary Get own user record
// @Description Returns the record of the authenticated user.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} auth.User "Current user"
// @Failure 401 {object} apperror.ErrorResponse "Not authenticated"
// @Failure 403 {object} apperror.ErrorResponse "Missing ROLE_USER"
// @Failure 404 {object} apperror.ErrorResponse "Account no longer exists"
// @Router /api/user [get]
func (h *Handlers) HandleGetCurrentUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, ok := auth.PrincipalFromContext(r.Context())
		if !ok {
			auth.WriteError(w, r, apperror.NewAuthError("authentication required", nil))
			return
		}
		h.respondWithUser(w, r, principal.Username)
	}
}

// HandleGetUser godoc
// @Summary Get a user by username
// @Description Returns any user's record. Requires ROLE_ADMIN.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param username path string true "Username to look up"
// @Success 200 {object} auth.User "Requested user"
// @Failure 401 {object} apperror.ErrorResponse "Not authenticated"
// @Failure 403 {object} apperror.ErrorResponse "Missing ROLE_ADMIN"
// @Failure 404 {object} apperror.ErrorResponse "No such user"
// @Router /api/user/{username} [get]
func (h *Handlers) HandleGetUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username := chi.URLParam(r, "username")
		if username == "" {
			auth.WriteError(w, r, apperror.NewBadRequestError("username is required", nil))
			return
		}
		h.respondWithUser(w, r, username)
	}
}

func (h *Handlers) respondWithUser(w http.ResponseWriter, r *http.Request, username string) {
	user, err := h.store.FindByUsername(r.Context(), username)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			auth.WriteError(w, r, apperror.NewNotFoundError("user not found", nil))
			return
		}
		auth.WriteError(w, r, apperror.NewDatabaseError("failed to load user", err))
		return
	}
	user.Password = ""
	auth.WriteJSON(w, http.StatusOK, user)
}
