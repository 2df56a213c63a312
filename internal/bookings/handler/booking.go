package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"eventy/internal/bookings/service"
	httputil "eventy/pkg/http"
	"eventy/pkg/logger"
	"eventy/pkg/middleware"
)

type BookingHandler struct {
	service service.BookingService
	log     *logger.Logger
}

func NewBookingHandler(service service.BookingService, log *logger.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		log:     log,
	}
}

// createBookingRequest accepts both key spellings; older clients send
// eventId.
type createBookingRequest struct {
	EventID       string `json:"event_id"`
	EventIDLegacy string `json:"eventId"`
}

func (r createBookingRequest) eventID() string {
	if r.EventID != "" {
		return r.EventID
	}
	return r.EventIDLegacy
}

// RegisterRoutes binds the booking surface. Every route requires a logged-in
// user; the per-event listing is admin console territory.
func (h *BookingHandler) RegisterRoutes(
	router *httprouter.Router,
	authenticated func(httprouter.Handle) httprouter.Handle,
	adminOnly func(httprouter.Handle) httprouter.Handle,
) {
	router.GET("/api/bookings", authenticated(h.ListMine))
	router.POST("/api/bookings", authenticated(h.Create))
	router.PUT("/api/bookings/:id/cancel", authenticated(h.Cancel))
	router.GET("/api/bookings/event/:eventId", adminOnly(h.ListByEvent))
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		h.writeUnauthenticated(w, "Create")
		return
	}

	var req createBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Create", "error", writeErr)
		}
		return
	}

	booking, err := h.service.Create(r.Context(), principal.UserID, req.eventID())
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Create", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, booking); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "error", err)
	}
}

func (h *BookingHandler) ListMine(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		h.writeUnauthenticated(w, "ListMine")
		return
	}

	bookings, err := h.service.ListByUser(r.Context(), principal.UserID)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ListMine", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, bookings); err != nil {
		h.log.Error("failed to write success response", "handler", "ListMine", "error", err)
	}
}

func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		h.writeUnauthenticated(w, "Cancel")
		return
	}

	booking, err := h.service.Cancel(r.Context(), principal.UserID, ps.ByName("id"))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Cancel", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "Cancel", "error", err)
	}
}

func (h *BookingHandler) ListByEvent(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	bookings, err := h.service.ListByEvent(r.Context(), ps.ByName("eventId"))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ListByEvent", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, bookings); err != nil {
		h.log.Error("failed to write success response", "handler", "ListByEvent", "error", err)
	}
}

func (h *BookingHandler) writeUnauthenticated(w http.ResponseWriter, handlerName string) {
	if err := httputil.WriteJSON(w, http.StatusUnauthorized, httputil.ErrorResponse{
		Error: "Missing or invalid authorization header",
	}); err != nil {
		h.log.Error("failed to write JSON response", "handler", handlerName, "error", err)
	}
}
