package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/labstock/labstock-backend/internal/domain"
	"github.com/labstock/labstock-backend/internal/store"
)

// handleListInventory handles GET /inventory.
func (h *Handler) handleListInventory(w http.ResponseWriter, r *http.Request) {
	items, err := h.inventory.ListItems(r.Context())
	if err != nil {
		h.logger.Error("listing inventory failed", "error", err)
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if items == nil {
		items = []domain.InventoryItem{}
	}
	respondWithJSON(w, http.StatusOK, map[string][]domain.InventoryItem{"inventory": items})
}

// handleGetInventoryItem handles GET /inventory/{id}.
func (h *Handler) handleGetInventoryItem(w http.ResponseWriter, r *http.Request) {
	item, err := h.inventory.GetItemByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, store.ErrItemNotFound) {
			respondWithError(w, http.StatusNotFound, "Inventory item not found")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	respondWithJSON(w, http.StatusOK, item)
}

// handleCreateInventoryItem handles POST /inventory.
func (h *Handler) handleCreateInventoryItem(w http.ResponseWriter, r *http.Request) {
	var item domain.InventoryItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if item.Name == "" || item.LaboratoryID == "" {
		respondWithError(w, http.StatusBadRequest, "Name and laboratoryId are required")
		return
	}
	if item.Quantity < 0 {
		respondWithError(w, http.StatusBadRequest, "Quantity must not be negative")
		return
	}

	created, err := h.inventory.CreateItem(r.Context(), &item)
	if err != nil {
		h.logger.Error("creating inventory item failed", "error", err)
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	respondWithJSON(w, http.StatusCreated, created)
}

// handleUpdateInventoryItem handles PUT /inventory/{id}.
func (h *Handler) handleUpdateInventoryItem(w http.ResponseWriter, r *http.Request) {
	var item domain.InventoryItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	item.ID = chi.URLParam(r, "id")
	if item.Quantity < 0 {
		respondWithError(w, http.StatusBadRequest, "Quantity must not be negative")
		return
	}

	updated, err := h.inventory.UpdateItem(r.Context(), &item)
	if err != nil {
		if errors.Is(err, store.ErrItemNotFound) {
			respondWithError(w, http.StatusNotFound, "Inventory item not found")
			return
		}
		h.logger.Error("updating inventory item failed", "error", err)
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	respondWithJSON(w, http.StatusOK, updated)
}

// handleDeleteInventoryItem handles DELETE /inventory/{id}.
func (h *Handler) handleDeleteInventoryItem(w http.ResponseWriter, r *http.Request) {
	if err := h.inventory.DeleteItem(r.Context(), chi.URLParam(r, "id")); err != nil {
		if errors.Is(err, store.ErrItemNotFound) {
			respondWithError(w, http.StatusNotFound, "Inventory item not found")
			return
		}
		h.logger.Error("deleting inventory item failed", "error", err)
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
