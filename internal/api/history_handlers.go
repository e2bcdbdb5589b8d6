package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/labstock/labstock-backend/internal/domain"
)

// historyExchange is the topic exchange audit entries are mirrored to.
const historyExchange = "labstock.events"

// handleListHistory handles GET /history.
func (h *Handler) handleListHistory(w http.ResponseWriter, r *http.Request) {
	entries, err := h.history.ListEntries(r.Context())
	if err != nil {
		h.logger.Error("listing history failed", "error", err)
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if entries == nil {
		entries = []domain.HistoryEntry{}
	}
	respondWithJSON(w, http.StatusOK, map[string][]domain.HistoryEntry{"history": entries})
}

// handleCreateHistoryEntry handles POST /history. History is append-only:
// there is no update or delete route for this collection.
func (h *Handler) handleCreateHistoryEntry(w http.ResponseWriter, r *http.Request) {
	var entry domain.HistoryEntry
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if entry.InventoryItemID == "" || entry.Action == "" {
		respondWithError(w, http.StatusBadRequest, "inventoryItemId and action are required")
		return
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}

	created, err := h.history.CreateEntry(r.Context(), &entry)
	if err != nil {
		h.logger.Error("recording history entry failed", "error", err)
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	historyActionsTotal.WithLabelValues(string(created.Action)).Inc()

	// Mirror the entry onto the event bus. Publish failure must never fail
	// the request: the entry is already durably recorded.
	if err := h.producer.Publish(r.Context(), historyExchange, "history."+string(created.Action), created); err != nil {
		h.logger.Warn("failed to publish history event", "action", created.Action, "error", err)
	}

	respondWithJSON(w, http.StatusCreated, created)
}
