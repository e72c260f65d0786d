package handler

import (
	"log/slog"
	"net/http"

	"github.com/taskforge/taskforge-api/internal/service"
)

// MasterDataHandler serves the seeded status and priority reference data.
type MasterDataHandler struct {
	store service.MasterDataStore
}

// NewMasterDataHandler creates a new MasterDataHandler.
func NewMasterDataHandler(store service.MasterDataStore) *MasterDataHandler {
	return &MasterDataHandler{store: store}
}

// HandleStatuses handles GET /api/master-data/statuses requests.
func (h *MasterDataHandler) HandleStatuses(w http.ResponseWriter, r *http.Request) {
	statuses, err := h.store.ListStatuses(r.Context())
	if err != nil {
		slog.Error("listing statuses failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}
	writeJSON(w, http.StatusOK, statuses)
}

// HandlePriorities handles GET /api/master-data/priorities requests.
func (h *MasterDataHandler) HandlePriorities(w http.ResponseWriter, r *http.Request) {
	priorities, err := h.store.ListPriorities(r.Context())
	if err != nil {
		slog.Error("listing priorities failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}
	writeJSON(w, http.StatusOK, priorities)
}
