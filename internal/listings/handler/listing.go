package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"roomly/internal/listings/service"
	apperrors "roomly/pkg/errors"
	httputil "roomly/pkg/http"
	"roomly/pkg/logger"
	"roomly/pkg/middleware"
	"roomly/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type ListingHandler struct {
	service      service.ListingService
	availability service.AvailabilityService
	log          *logger.Logger
}

func NewListingHandler(listingService service.ListingService, availability service.AvailabilityService, log *logger.Logger) *ListingHandler {
	return &ListingHandler{
		service:      listingService,
		availability: availability,
		log:          log,
	}
}

func (h *ListingHandler) RegisterRoutes(router *httprouter.Router) {
	router.Handle(http.MethodPost, "/api/v1/listings", h.Create)
	router.Handle(http.MethodGet, "/api/v1/listings/id/:id", h.GetByID)
	router.Handle(http.MethodPatch, "/api/v1/listings/id/:id", h.Update)
	router.Handle(http.MethodDelete, "/api/v1/listings/id/:id", h.Delete)
	router.Handle(http.MethodGet, "/api/v1/listings/search", h.Search)

	router.Handle(http.MethodGet, "/api/v1/listings/id/:id/availability", h.GetAvailability)
	router.Handle(http.MethodGet, "/api/v1/listings/id/:id/can-book", h.CanBook)
}

func (h *ListingHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var listing model.Listing
	if err := json.NewDecoder(r.Body).Decode(&listing); err != nil {
		h.writeBadBody(w, "Create")
		return
	}

	// The authenticated caller is the owner; the body cannot claim someone
	// else's identity.
	if userID := middleware.UserIDFromContext(r.Context()); userID != "" {
		listing.OwnerID = userID
	}

	if err := h.service.Create(r.Context(), &listing); err != nil {
		h.writeErr(w, "Create", err)
		return
	}

	if err := httputil.WriteCreated(w, listing); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "error", err)
	}
}

func (h *ListingHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	listing, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeErr(w, "GetByID", err)
		return
	}

	if err := httputil.WriteSuccess(w, listing); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "error", err)
	}
}

func (h *ListingHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var updates model.ListingUpdate
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		h.writeBadBody(w, "Update")
		return
	}

	userID := middleware.UserIDFromContext(r.Context())
	if err := h.service.Update(r.Context(), userID, ps.ByName("id"), &updates); err != nil {
		h.writeErr(w, "Update", err)
		return
	}

	httputil.WriteNoContent(w)
}

func (h *ListingHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID := middleware.UserIDFromContext(r.Context())

	if err := h.service.Delete(r.Context(), userID, ps.ByName("id")); err != nil {
		h.writeErr(w, "Delete", err)
		return
	}

	httputil.WriteNoContent(w)
}

func (h *ListingHandler) Search(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query()

	minPrice, err := parsePriceParam(query.Get("min_price"))
	if err != nil {
		h.writeErr(w, "Search", err)
		return
	}
	maxPrice, err := parsePriceParam(query.Get("max_price"))
	if err != nil {
		h.writeErr(w, "Search", err)
		return
	}

	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeErr(w, "Search", err)
		return
	}

	listings, total, err := h.service.Search(r.Context(), query.Get("city"), minPrice, maxPrice, limit, offset)
	if err != nil {
		h.writeErr(w, "Search", err)
		return
	}

	if err := httputil.WritePaginated(w, listings, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "Search", "error", err)
	}
}

func (h *ListingHandler) GetAvailability(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	availability, err := h.availability.GetAvailability(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeErr(w, "GetAvailability", err)
		return
	}

	if err := httputil.WriteSuccess(w, availability); err != nil {
		h.log.Error("failed to write success response", "handler", "GetAvailability", "error", err)
	}
}

func (h *ListingHandler) CanBook(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID := middleware.UserIDFromContext(r.Context())

	verdict, err := h.availability.CanBook(r.Context(), ps.ByName("id"), userID)
	if err != nil {
		h.writeErr(w, "CanBook", err)
		return
	}

	if err := httputil.WriteSuccess(w, verdict); err != nil {
		h.log.Error("failed to write success response", "handler", "CanBook", "error", err)
	}
}

func parsePriceParam(raw string) (int64, error) {
	if raw == "" {
		return 0, nil
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || value < 0 {
		return 0, apperrors.InvalidInput(fmt.Sprintf("invalid price parameter: %s", raw))
	}
	return value, nil
}

func (h *ListingHandler) writeBadBody(w http.ResponseWriter, handlerName string) {
	if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
		Error: "Invalid request body",
	}); writeErr != nil {
		h.log.Error("failed to write JSON response", "handler", handlerName, "error", writeErr)
	}
}

func (h *ListingHandler) writeErr(w http.ResponseWriter, handlerName string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handlerName, "error", writeErr)
	}
}
