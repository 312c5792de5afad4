package store

import (
	"database/sql"
	"encoding/json"
	"strings"

	"github.com/AhsanAli-Soomro/ecomerce-web/internal/apperr"
	"github.com/AhsanAli-Soomro/ecomerce-web/internal/models"
)

// ErrDuplicateOrderID signals an order-id collision on insert so the caller
// can regenerate the code and retry.
var ErrDuplicateOrderID = apperr.NewValidationError("orderId", "already exists")

func (s *Store) CreateOrder(o *models.Order) error {
	cart, err := json.Marshal(o.Cart)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO orders (order_id, name, email, userphone, address, city, state, country, postal_code, total_quantity, total_amount, cart, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = s.DB.Exec(query, o.OrderID, o.Name, o.Email, o.UserPhone, o.Address, o.City,
		o.State, o.Country, o.PostalCode, o.TotalQuantity, o.TotalAmount, cart, o.Status, o.CreatedAt)
	if err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return ErrDuplicateOrderID
	}
	return err
}

const orderColumns = `order_id, name, email, userphone, address, city, state, country, postal_code, total_quantity, total_amount, cart, status, created_at`

func scanOrder(row interface{ Scan(...any) error }) (*models.Order, error) {
	var o models.Order
	var cart []byte
	err := row.Scan(&o.OrderID, &o.Name, &o.Email, &o.UserPhone, &o.Address, &o.City,
		&o.State, &o.Country, &o.PostalCode, &o.TotalQuantity, &o.TotalAmount, &cart, &o.Status, &o.CreatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(cart, &o.Cart); err != nil {
		return nil, err
	}
	return &o, nil
}

// GetAllOrders lists orders newest-first. An empty status lists everything;
// otherwise status filters on pending or completed.
func (s *Store) GetAllOrders(status string) ([]models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders`
	var args []any
	if status != "" {
		query += ` WHERE status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC, order_id`

	rows, err := s.DB.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
	}
	return orders, rows.Err()
}

func (s *Store) GetOrderByID(orderID string) (*models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE order_id = ?`
	o, err := scanOrder(s.DB.QueryRow(query, orderID))
	if err == sql.ErrNoRows {
		return nil, apperr.NewNotFoundError("order", orderID)
	}
	if err != nil {
		return nil, err
	}
	return o, nil
}

// UpdateOrderStatus moves an order between pending and completed. The cart
// snapshot and totals are immutable after creation; status is the only
// mutable field.
func (s *Store) UpdateOrderStatus(orderID, status string) error {
	res, err := s.DB.Exec(`UPDATE orders SET status = ? WHERE order_id = ?`, status, orderID)
	if err != nil {
		return err
	}
	return requireRow(res, "order", orderID)
}

// DeleteOrder removes an order from either status. Deleting an unknown id
// reports not-found so the caller can tell "already gone" from "succeeded".
func (s *Store) DeleteOrder(orderID string) error {
	res, err := s.DB.Exec(`DELETE FROM orders WHERE order_id = ?`, orderID)
	if err != nil {
		return err
	}
	return requireRow(res, "order", orderID)
}
