/**
 * @description
 * This file holds the handler set for the labstock API and the
 * authentication endpoints. Collection handlers live in their own files.
 */
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstock/labstock-backend/internal/app"
	"github.com/labstock/labstock-backend/internal/domain"
	"github.com/labstock/labstock-backend/internal/store"
	"github.com/labstock/labstock-backend/pkg/rabbitmq"
)

// Handler holds the services and repositories the route handlers use.
type Handler struct {
	iam       *app.IamService
	users     store.UserRepository
	inventory store.InventoryRepository
	history   store.HistoryRepository
	labs      store.LaboratoryRepository
	subs      store.SubscriptionRepository
	producer  rabbitmq.Publisher
	logger    *slog.Logger
}

// NewHandler creates a new Handler.
func NewHandler(
	iam *app.IamService,
	users store.UserRepository,
	inventory store.InventoryRepository,
	history store.HistoryRepository,
	labs store.LaboratoryRepository,
	subs store.SubscriptionRepository,
	producer rabbitmq.Publisher,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		iam:       iam,
		users:     users,
		inventory: inventory,
		history:   history,
		labs:      labs,
		subs:      subs,
		producer:  producer,
		logger:    logger,
	}
}

// handleSignUp handles POST /authentication/sign-up.
func (h *Handler) handleSignUp(w http.ResponseWriter, r *http.Request) {
	var req domain.SignUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.iam.SignUp(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrMissingFields):
			respondWithError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, store.ErrDuplicateUser):
			respondWithError(w, http.StatusConflict, "Username or email already exists")
		default:
			h.logger.Error("sign-up failed", "error", err)
			respondWithError(w, http.StatusInternalServerError, "Internal server error during registration")
		}
		return
	}

	respondWithJSON(w, http.StatusCreated, resp)
}

// handleSignIn handles POST /authentication/sign-in.
func (h *Handler) handleSignIn(w http.ResponseWriter, r *http.Request) {
	var req domain.SignInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.iam.SignIn(r.Context(), req)
	if err != nil {
		if errors.Is(err, app.ErrInvalidCredentials) {
			respondWithError(w, http.StatusUnauthorized, "Invalid username or password")
			return
		}
		h.logger.Error("sign-in failed", "error", err)
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondWithJSON(w, http.StatusOK, resp)
}
