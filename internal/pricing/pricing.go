// Package pricing computes effective unit prices and cart totals. It is the
// single authority for sale arithmetic: both the live cart display and the
// checkout snapshot go through it, so an order's totalAmount always matches
// a recomputation over its captured cart.
package pricing

import (
	"math"

	"github.com/AhsanAli-Soomro/ecomerce-web/internal/models"
)

type Totals struct {
	TotalQuantity int     `json:"totalQuantity"`
	TotalAmount   float64 `json:"totalAmount"`
}

// ClampSale constrains a sale percentage to [0, 100]. Out-of-range values
// are a caller error; the documented policy is to clamp rather than reject
// so a bad catalog entry degrades to full price or free, never negative.
func ClampSale(sale float64) float64 {
	if sale < 0 {
		return 0
	}
	if sale > 100 {
		return 100
	}
	return sale
}

// EffectivePrice returns the sale-adjusted unit price.
func EffectivePrice(price, sale float64) float64 {
	sale = ClampSale(sale)
	if sale > 0 {
		return price - price*sale/100
	}
	return price
}

// ItemPrice returns the effective unit price of a cart item snapshot.
func ItemPrice(item models.CartItem) float64 {
	return EffectivePrice(item.Price, item.Sale)
}

// CartTotals aggregates quantity and amount over a cart. Amounts accumulate
// unrounded; rounding happens only at presentation boundaries.
func CartTotals(items []models.CartItem) Totals {
	var t Totals
	for _, item := range items {
		t.TotalQuantity += item.Quantity
		t.TotalAmount += ItemPrice(item) * float64(item.Quantity)
	}
	return t
}

// OrderTotals recomputes totals over an order's captured snapshot, using the
// same arithmetic as CartTotals.
func OrderTotals(items []models.OrderItem) Totals {
	var t Totals
	for _, item := range items {
		t.TotalQuantity += item.Quantity
		t.TotalAmount += ItemPrice(item.CartItem) * float64(item.Quantity)
	}
	return t
}

// RoundDisplay rounds a money value to 2 digits for display. Never used
// during accumulation.
func RoundDisplay(amount float64) float64 {
	return math.Round(amount*100) / 100
}
