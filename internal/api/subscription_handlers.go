package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/labstock/labstock-backend/internal/domain"
	"github.com/labstock/labstock-backend/internal/store"
)

// handleListSubscriptions handles GET /subscriptions.
func (h *Handler) handleListSubscriptions(w http.ResponseWriter, r *http.Request) {
	subs, err := h.subs.ListSubscriptions(r.Context())
	if err != nil {
		h.logger.Error("listing subscriptions failed", "error", err)
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if subs == nil {
		subs = []domain.Subscription{}
	}
	respondWithJSON(w, http.StatusOK, map[string][]domain.Subscription{"subscriptions": subs})
}

// handleGetSubscription handles GET /subscriptions/{id}.
func (h *Handler) handleGetSubscription(w http.ResponseWriter, r *http.Request) {
	sub, err := h.subs.GetSubscriptionByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, store.ErrSubscriptionNotFound) {
			respondWithError(w, http.StatusNotFound, "Subscription not found")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	respondWithJSON(w, http.StatusOK, sub)
}

// handleUpsertSubscription handles POST /subscriptions and PUT
// /subscriptions/{id}. Both converge on the same upsert: a user has a single
// subscription row whose plan and limits are replaced in place, which keeps
// the one-active-subscription-per-user invariant without a transaction.
func (h *Handler) handleUpsertSubscription(w http.ResponseWriter, r *http.Request) {
	actingUserID, ok := UserFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var sub domain.Subscription
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if sub.UserID == "" {
		sub.UserID = actingUserID
	}
	if sub.UserID != actingUserID {
		respondWithError(w, http.StatusForbidden, "Cannot modify another user's subscription")
		return
	}
	if sub.PlanType == "" {
		respondWithError(w, http.StatusBadRequest, "planType is required")
		return
	}
	if sub.StartDate.IsZero() {
		sub.StartDate = time.Now()
	}

	saved, err := h.subs.UpsertSubscription(r.Context(), &sub)
	if err != nil {
		h.logger.Error("saving subscription failed", "error", err)
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	status := http.StatusOK
	if r.Method == http.MethodPost {
		status = http.StatusCreated
	}
	respondWithJSON(w, status, saved)
}

// handleDeleteSubscription handles DELETE /subscriptions/{id}.
func (h *Handler) handleDeleteSubscription(w http.ResponseWriter, r *http.Request) {
	actingUserID, ok := UserFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	id := chi.URLParam(r, "id")

	existing, err := h.subs.GetSubscriptionByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrSubscriptionNotFound) {
			respondWithError(w, http.StatusNotFound, "Subscription not found")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if existing.UserID != actingUserID {
		respondWithError(w, http.StatusForbidden, "Cannot delete another user's subscription")
		return
	}

	if err := h.subs.DeleteSubscription(r.Context(), id); err != nil {
		h.logger.Error("deleting subscription failed", "error", err)
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleListPlans handles GET /plans. Plans are read-only reference data.
func (h *Handler) handleListPlans(w http.ResponseWriter, r *http.Request) {
	plans, err := h.subs.ListPlans(r.Context())
	if err != nil {
		h.logger.Error("listing plans failed", "error", err)
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if plans == nil {
		plans = []domain.SubscriptionPlan{}
	}
	respondWithJSON(w, http.StatusOK, map[string][]domain.SubscriptionPlan{"plans": plans})
}

// handleGetPlan handles GET /plans/{id}.
func (h *Handler) handleGetPlan(w http.ResponseWriter, r *http.Request) {
	plan, err := h.subs.GetPlanByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, store.ErrPlanNotFound) {
			respondWithError(w, http.StatusNotFound, "Plan not found")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	respondWithJSON(w, http.StatusOK, plan)
}
