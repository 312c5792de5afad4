package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"

	"github.com/AhsanAli-Soomro/ecomerce-web/internal/cart"
	"github.com/AhsanAli-Soomro/ecomerce-web/internal/catalog"
	"github.com/AhsanAli-Soomro/ecomerce-web/internal/models"
	"github.com/AhsanAli-Soomro/ecomerce-web/internal/pricing"
)

type CartHandler struct {
	Carts        *cart.Manager
	Catalog      *catalog.Catalog
	SessionStore sessions.Store
}

type cartView struct {
	Items         []models.CartItem `json:"items"`
	TotalQuantity int               `json:"totalQuantity"`
	TotalAmount   float64           `json:"totalAmount"`
}

// sessionCart resolves the caller's cart from the session cookie, assigning
// a fresh cart key on first contact.
func (h *CartHandler) sessionCart(w http.ResponseWriter, r *http.Request) *cart.Store {
	session, _ := h.SessionStore.Get(r, "cart-session")

	key, ok := session.Values["cart_key"].(string)
	if !ok || key == "" {
		key = uuid.New().String()
		session.Values["cart_key"] = key
		session.Save(r, w)
	}
	return h.Carts.Cart(key)
}

func (h *CartHandler) view(c *cart.Store) cartView {
	items := c.Items()
	totals := pricing.CartTotals(items)
	return cartView{
		Items:         items,
		TotalQuantity: totals.TotalQuantity,
		TotalAmount:   totals.TotalAmount,
	}
}

// Get handles GET /api/cart
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.view(h.sessionCart(w, r)))
}

// AddItem handles POST /api/cart/items. Adding the same product again
// increments its quantity instead of creating a second line.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductID string `json:"productId"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeAppError(w, err)
		return
	}

	p, err := h.Catalog.Get(req.ProductID)
	if err != nil {
		writeAppError(w, err)
		return
	}

	c := h.sessionCart(w, r)
	c.AddItem(*p)
	writeJSON(w, http.StatusOK, h.view(c))
}

// UpdateItem handles PATCH /api/cart/items. Quantities below one are
// ignored; the line keeps its previous quantity.
func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductID string `json:"productId"`
		Quantity  int    `json:"quantity"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeAppError(w, err)
		return
	}

	c := h.sessionCart(w, r)
	c.UpdateQuantity(req.ProductID, req.Quantity)
	writeJSON(w, http.StatusOK, h.view(c))
}

// RemoveItem handles DELETE /api/cart/items/{id}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	c := h.sessionCart(w, r)
	c.RemoveItem(r.PathValue("id"))
	writeJSON(w, http.StatusOK, h.view(c))
}

// Clear handles DELETE /api/cart
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	c := h.sessionCart(w, r)
	c.Clear()
	writeJSON(w, http.StatusOK, h.view(c))
}
