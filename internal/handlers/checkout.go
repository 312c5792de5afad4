package handlers

import (
	"net/http"

	"github.com/AhsanAli-Soomro/ecomerce-web/internal/apperr"
	"github.com/AhsanAli-Soomro/ecomerce-web/internal/checkout"
)

type CheckoutHandler struct {
	Checkout *checkout.Orchestrator
	Carts    *CartHandler
}

// PlaceOrder handles POST /api/checkout. A persisted order whose
// confirmation could not be sent still succeeds, answered with 202 so the
// caller can tell the two outcomes apart.
func (h *CheckoutHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var details checkout.ShippingDetails
	if err := decodeBody(r, &details); err != nil {
		writeAppError(w, err)
		return
	}

	userCart := h.Carts.sessionCart(w, r)

	order, err := h.Checkout.PlaceOrder(r.Context(), userCart, details)
	if err != nil {
		if apperr.IsPartialFailure(err) {
			writeJSON(w, http.StatusAccepted, map[string]any{
				"order":   order,
				"warning": "order placed, confirmation could not be sent",
			})
			return
		}
		writeAppError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, order)
}
