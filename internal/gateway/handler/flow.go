package handler

import (
	"encoding/json"
	"net/http"

	"roomly/internal/gateway/service"
	httputil "roomly/pkg/http"
	"roomly/pkg/logger"
	"roomly/pkg/middleware"

	"github.com/julienschmidt/httprouter"
)

type FlowHandler struct {
	service *service.GatewayService
	log     *logger.Logger
}

func NewFlowHandler(gatewayService *service.GatewayService, log *logger.Logger) *FlowHandler {
	return &FlowHandler{
		service: gatewayService,
		log:     log,
	}
}

func (h *FlowHandler) RegisterRoutes(router *httprouter.Router) {
	router.Handle(http.MethodPost, "/api/v1/flows/execute", h.Execute)
	router.Handle(http.MethodGet, "/api/v1/flows", h.List)
}

type ExecuteFlowRequest struct {
	Flow  string         `json:"flow"`
	Input map[string]any `json:"input"`
}

type ListFlowsResponse struct {
	Flows []string `json:"flows"`
}

func (h *FlowHandler) Execute(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req ExecuteFlowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Warn("Failed to decode flow request", "error", err)
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Execute", "error", writeErr)
		}
		return
	}

	if req.Flow == "" {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Flow name is required",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Execute", "error", writeErr)
		}
		return
	}
	if req.Input == nil {
		req.Input = make(map[string]any)
	}

	userID := middleware.UserIDFromContext(r.Context())
	h.log.Info("Executing flow", "flow", req.Flow, "user_id", userID)

	output, err := h.service.ExecuteFlow(r.Context(), req.Flow, userID, req.Input)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Execute", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, output); err != nil {
		h.log.Error("failed to write success response", "handler", "Execute", "error", err)
	}
}

func (h *FlowHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	resp := ListFlowsResponse{Flows: h.service.AvailableFlows()}
	if err := httputil.WriteSuccess(w, resp); err != nil {
		h.log.Error("failed to write success response", "handler", "List", "error", err)
	}
}
