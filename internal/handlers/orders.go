package handlers

import (
	"net/http"

	"github.com/AhsanAli-Soomro/ecomerce-web/internal/models"
	"github.com/AhsanAli-Soomro/ecomerce-web/internal/orders"
)

type OrderHandler struct {
	Orders *orders.Manager
}

// List handles GET /api/orders?status=pending|completed|all
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.Orders.List(r.URL.Query().Get("status"))
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// Get handles GET /api/orders/{id}
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	order, err := h.Orders.Get(r.PathValue("id"))
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

// Create handles POST /api/orders. Used for imported or phoned-in orders;
// the storefront flow goes through checkout instead.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var order models.Order
	if err := decodeBody(r, &order); err != nil {
		writeAppError(w, err)
		return
	}

	if err := h.Orders.Create(&order); err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, order)
}

// UpdateStatus handles PATCH /api/orders/{id}
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status string `json:"status"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeAppError(w, err)
		return
	}

	id := r.PathValue("id")
	if err := h.Orders.SetStatus(id, req.Status); err != nil {
		writeAppError(w, err)
		return
	}

	order, err := h.Orders.Get(id)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

// Delete handles DELETE /api/orders/{id}
func (h *OrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Orders.Delete(r.PathValue("id")); err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "order deleted"})
}
