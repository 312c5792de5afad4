// Package checkout turns a cart plus shipping details into a persisted
// order. The sequence is best-effort, not transactional: persistence
// decides success, notification failure downgrades to a partial result,
// and the cart is cleared only once the order is safely stored.
package checkout

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/AhsanAli-Soomro/ecomerce-web/internal/apperr"
	"github.com/AhsanAli-Soomro/ecomerce-web/internal/cart"
	"github.com/AhsanAli-Soomro/ecomerce-web/internal/models"
	"github.com/AhsanAli-Soomro/ecomerce-web/internal/notify"
	"github.com/AhsanAli-Soomro/ecomerce-web/internal/orders"
	"github.com/AhsanAli-Soomro/ecomerce-web/internal/pricing"
	"github.com/AhsanAli-Soomro/ecomerce-web/internal/store"
)

// ShippingDetails carries the customer-entered contact and address fields.
type ShippingDetails struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	UserPhone  string `json:"userphone"`
	Address    string `json:"address"`
	City       string `json:"city"`
	State      string `json:"state"`
	Country    string `json:"country"`
	PostalCode string `json:"postalCode"`
}

type Orchestrator struct {
	orders   *orders.Manager
	notifier notify.Notifier
}

func New(orderManager *orders.Manager, notifier notify.Notifier) *Orchestrator {
	return &Orchestrator{orders: orderManager, notifier: notifier}
}

// PlaceOrder validates the cart and shipping details, snapshots the cart
// into sale-adjusted line items, persists the order, dispatches the
// confirmation, and clears the cart.
//
// On full success the returned error is nil. If the order persisted but
// notification failed, the order is returned together with a
// *apperr.PartialFailure. On validation or persistence failure the cart is
// left untouched and no order exists.
func (o *Orchestrator) PlaceOrder(ctx context.Context, userCart *cart.Store, details ShippingDetails) (*models.Order, error) {
	items := userCart.Items()
	if len(items) == 0 {
		return nil, apperr.NewValidationError("cart", "must not be empty")
	}

	snapshot := make([]models.OrderItem, len(items))
	for i, item := range items {
		snapshot[i] = models.OrderItem{CartItem: item, SalePrice: pricing.ItemPrice(item)}
	}
	totals := pricing.CartTotals(items)

	order := &models.Order{
		OrderID:       orders.NewOrderID(),
		Name:          details.Name,
		Email:         details.Email,
		UserPhone:     details.UserPhone,
		Address:       details.Address,
		City:          details.City,
		State:         details.State,
		Country:       details.Country,
		PostalCode:    details.PostalCode,
		TotalQuantity: totals.TotalQuantity,
		TotalAmount:   totals.TotalAmount,
		Cart:          snapshot,
		Status:        models.OrderStatusPending,
		CreatedAt:     time.Now().UTC(),
	}

	err := o.orders.Create(order)
	if errors.Is(err, store.ErrDuplicateOrderID) {
		// One retry with a fresh code covers the astronomically unlikely
		// collision.
		order.OrderID = orders.NewOrderID()
		err = o.orders.Create(order)
	}
	if err != nil {
		return nil, err
	}

	// The order is persisted; from here on only the notification can fail,
	// and that never rolls the order back.
	userCart.Clear()

	if nerr := o.notifier.Send(ctx, order); nerr != nil {
		slog.Warn("Order placed but notification dispatch failed",
			"order_id", order.OrderID, "error", nerr)
		return order, &apperr.PartialFailure{OrderID: order.OrderID, Err: nerr}
	}

	return order, nil
}
