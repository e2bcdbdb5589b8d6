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

// handleListLaboratories handles GET /laboratories.
func (h *Handler) handleListLaboratories(w http.ResponseWriter, r *http.Request) {
	labs, err := h.labs.ListLaboratories(r.Context())
	if err != nil {
		h.logger.Error("listing laboratories failed", "error", err)
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if labs == nil {
		labs = []domain.Laboratory{}
	}
	respondWithJSON(w, http.StatusOK, map[string][]domain.Laboratory{"laboratories": labs})
}

// handleGetLaboratory handles GET /laboratories/{id}.
func (h *Handler) handleGetLaboratory(w http.ResponseWriter, r *http.Request) {
	lab, err := h.labs.GetLaboratoryByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, store.ErrLaboratoryNotFound) {
			respondWithError(w, http.StatusNotFound, "Laboratory not found")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	respondWithJSON(w, http.StatusOK, lab)
}

// handleCreateLaboratory handles POST /laboratories. The acting user becomes
// the laboratory's admin regardless of what the payload says.
func (h *Handler) handleCreateLaboratory(w http.ResponseWriter, r *http.Request) {
	actingUserID, ok := UserFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var lab domain.Laboratory
	if err := json.NewDecoder(r.Body).Decode(&lab); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if lab.Name == "" {
		respondWithError(w, http.StatusBadRequest, "Name is required")
		return
	}

	lab.AdminUserID = actingUserID
	if lab.RegistrationDate.IsZero() {
		lab.RegistrationDate = time.Now()
	}

	created, err := h.labs.CreateLaboratory(r.Context(), &lab)
	if err != nil {
		h.logger.Error("creating laboratory failed", "error", err)
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	respondWithJSON(w, http.StatusCreated, created)
}

// handleUpdateLaboratory handles PUT /laboratories/{id}. Only the admin may
// mutate a laboratory, membership included.
func (h *Handler) handleUpdateLaboratory(w http.ResponseWriter, r *http.Request) {
	actingUserID, ok := UserFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	id := chi.URLParam(r, "id")

	existing, err := h.labs.GetLaboratoryByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrLaboratoryNotFound) {
			respondWithError(w, http.StatusNotFound, "Laboratory not found")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if existing.AdminUserID != actingUserID {
		respondWithError(w, http.StatusForbidden, "Only the laboratory admin can update it")
		return
	}

	var lab domain.Laboratory
	if err := json.NewDecoder(r.Body).Decode(&lab); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	lab.ID = id
	// Ownership cannot be transferred through a plain update.
	lab.AdminUserID = existing.AdminUserID

	updated, err := h.labs.UpdateLaboratory(r.Context(), &lab)
	if err != nil {
		h.logger.Error("updating laboratory failed", "error", err)
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	respondWithJSON(w, http.StatusOK, updated)
}

// handleDeleteLaboratory handles DELETE /laboratories/{id}.
func (h *Handler) handleDeleteLaboratory(w http.ResponseWriter, r *http.Request) {
	actingUserID, ok := UserFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	id := chi.URLParam(r, "id")

	existing, err := h.labs.GetLaboratoryByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrLaboratoryNotFound) {
			respondWithError(w, http.StatusNotFound, "Laboratory not found")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if existing.AdminUserID != actingUserID {
		respondWithError(w, http.StatusForbidden, "Only the laboratory admin can delete it")
		return
	}

	if err := h.labs.DeleteLaboratory(r.Context(), id); err != nil {
		h.logger.Error("deleting laboratory failed", "error", err)
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleListLabResponsibles handles GET /labResponsibles.
func (h *Handler) handleListLabResponsibles(w http.ResponseWriter, r *http.Request) {
	responsibles, err := h.labs.ListLabResponsibles(r.Context())
	if err != nil {
		h.logger.Error("listing lab responsibles failed", "error", err)
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if responsibles == nil {
		responsibles = []domain.LabResponsible{}
	}
	respondWithJSON(w, http.StatusOK, map[string][]domain.LabResponsible{"labResponsibles": responsibles})
}

// handleGetLabResponsible handles GET /labResponsibles/{id}.
func (h *Handler) handleGetLabResponsible(w http.ResponseWriter, r *http.Request) {
	resp, err := h.labs.GetLabResponsibleByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, store.ErrLabResponsibleNotFound) {
			respondWithError(w, http.StatusNotFound, "Lab responsible not found")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	respondWithJSON(w, http.StatusOK, resp)
}

// handleCreateLabResponsible handles POST /labResponsibles.
func (h *Handler) handleCreateLabResponsible(w http.ResponseWriter, r *http.Request) {
	var resp domain.LabResponsible
	if err := json.NewDecoder(r.Body).Decode(&resp); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if resp.FullName == "" {
		respondWithError(w, http.StatusBadRequest, "Full name is required")
		return
	}

	created, err := h.labs.CreateLabResponsible(r.Context(), &resp)
	if err != nil {
		h.logger.Error("creating lab responsible failed", "error", err)
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	respondWithJSON(w, http.StatusCreated, created)
}

// handleUpdateLabResponsible handles PUT /labResponsibles/{id}.
func (h *Handler) handleUpdateLabResponsible(w http.ResponseWriter, r *http.Request) {
	var resp domain.LabResponsible
	if err := json.NewDecoder(r.Body).Decode(&resp); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	resp.ID = chi.URLParam(r, "id")

	updated, err := h.labs.UpdateLabResponsible(r.Context(), &resp)
	if err != nil {
		if errors.Is(err, store.ErrLabResponsibleNotFound) {
			respondWithError(w, http.StatusNotFound, "Lab responsible not found")
			return
		}
		h.logger.Error("updating lab responsible failed", "error", err)
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	respondWithJSON(w, http.StatusOK, updated)
}

// handleDeleteLabResponsible handles DELETE /labResponsibles/{id}.
func (h *Handler) handleDeleteLabResponsible(w http.ResponseWriter, r *http.Request) {
	if err := h.labs.DeleteLabResponsible(r.Context(), chi.URLParam(r, "id")); err != nil {
		if errors.Is(err, store.ErrLabResponsibleNotFound) {
			respondWithError(w, http.StatusNotFound, "Lab responsible not found")
			return
		}
		h.logger.Error("deleting lab responsible failed", "error", err)
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
