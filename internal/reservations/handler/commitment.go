package handler

import (
	"encoding/json"
	"net/http"

	"roomly/internal/reservations/service"
	httputil "roomly/pkg/http"
	"roomly/pkg/logger"
	"roomly/pkg/middleware"

	"github.com/julienschmidt/httprouter"
)

type CommitmentHandler struct {
	service service.CommitmentService
	log     *logger.Logger
}

func NewCommitmentHandler(service service.CommitmentService, log *logger.Logger) *CommitmentHandler {
	return &CommitmentHandler{
		service: service,
		log:     log,
	}
}

type acquireCommitmentRequest struct {
	SlotID string `json:"slot_id"`
}

func (h *CommitmentHandler) Acquire(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req acquireCommitmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Acquire", "error", writeErr)
		}
		return
	}

	userID := middleware.UserIDFromContext(r.Context())
	commitment, err := h.service.Acquire(r.Context(), userID, req.SlotID)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Acquire", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, commitment); err != nil {
		h.log.Error("failed to write created response", "handler", "Acquire", "error", err)
	}
}

func (h *CommitmentHandler) Cancel(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID := middleware.UserIDFromContext(r.Context())

	if err := h.service.Cancel(r.Context(), userID, ps.ByName("id")); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Cancel", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

func (h *CommitmentHandler) GetActive(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := middleware.UserIDFromContext(r.Context())

	commitment, err := h.service.GetActive(r.Context(), userID)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetActive", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, commitment); err != nil {
		h.log.Error("failed to write success response", "handler", "GetActive", "error", err)
	}
}
