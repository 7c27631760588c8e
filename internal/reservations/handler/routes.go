package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

// API bundles the reservation handlers behind one route table. Paths must
// stay in lockstep with pkg/client's ReservationClient.
type API struct {
	Commitments *CommitmentHandler
	Checkout    *CheckoutHandler
	Bookings    *BookingHandler
}

func NewAPI(commitments *CommitmentHandler, checkout *CheckoutHandler, bookings *BookingHandler) *API {
	return &API{
		Commitments: commitments,
		Checkout:    checkout,
		Bookings:    bookings,
	}
}

func (a *API) RegisterRoutes(router *httprouter.Router) {
	router.Handle(http.MethodPost, "/api/v1/commitments", a.Commitments.Acquire)
	router.Handle(http.MethodDelete, "/api/v1/commitments/id/:id", a.Commitments.Cancel)
	router.Handle(http.MethodGet, "/api/v1/commitments/active", a.Commitments.GetActive)

	router.Handle(http.MethodPost, "/api/v1/checkout", a.Checkout.Start)
	router.Handle(http.MethodPost, "/api/v1/checkout/id/:id/complete", a.Checkout.Complete)
	router.Handle(http.MethodDelete, "/api/v1/checkout/id/:id", a.Checkout.Cancel)
	router.Handle(http.MethodGet, "/api/v1/checkout/active", a.Checkout.GetActive)

	router.Handle(http.MethodGet, "/api/v1/bookings", a.Bookings.GetMine)
	router.Handle(http.MethodGet, "/api/v1/bookings/id/:id", a.Bookings.GetByID)
}
