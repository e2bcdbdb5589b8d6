package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/labstock/labstock-backend/internal/domain"
	"github.com/labstock/labstock-backend/internal/store"
)

// handleListUsers handles GET /users.
func (h *Handler) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.ListUsers(r.Context())
	if err != nil {
		h.logger.Error("listing users failed", "error", err)
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if users == nil {
		users = []domain.User{}
	}
	respondWithJSON(w, http.StatusOK, map[string][]domain.User{"users": users})
}

// handleGetUser handles GET /users/{id}.
func (h *Handler) handleGetUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.GetUserByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			respondWithError(w, http.StatusNotFound, "User not found")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	respondWithJSON(w, http.StatusOK, user)
}

// handleUpdateUser handles PUT /users/{id}. Users may only update their own
// profile.
func (h *Handler) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	actingUserID, ok := UserFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	id := chi.URLParam(r, "id")
	if id != actingUserID {
		respondWithError(w, http.StatusForbidden, "Cannot update another user's profile")
		return
	}

	var user domain.User
	if err := json.NewDecoder(r.Body).Decode(&user); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	user.ID = id

	updated, err := h.users.UpdateUser(r.Context(), &user)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrUserNotFound):
			respondWithError(w, http.StatusNotFound, "User not found")
		case errors.Is(err, store.ErrDuplicateUser):
			respondWithError(w, http.StatusConflict, "Email already in use")
		default:
			h.logger.Error("updating user failed", "error", err)
			respondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}
	respondWithJSON(w, http.StatusOK, updated)
}
