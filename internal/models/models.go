package models

import (
	"time"
)

const (
	OrderStatusPending   = "pending"
	OrderStatusCompleted = "completed"
)

type Rating struct {
	UserID string `json:"userId"`
	Rating int    `json:"rating"` // 1-5
}

type Comment struct {
	User string    `json:"user"`
	Text string    `json:"text"`
	Date time.Time `json:"date"`
}

type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Subcategory string    `json:"subcategory"`
	Price       float64   `json:"price"`
	Sale        float64   `json:"sale"` // percentage off, 0 = no discount
	Image       string    `json:"image"`
	Description string    `json:"description"`
	Ratings     []Rating  `json:"ratings"`
	Comments    []Comment `json:"comments"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CartItem is a snapshot of a product at the time it was added, plus a
// quantity. Later catalog edits do not touch an item already in a cart.
type CartItem struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Category  string  `json:"category"`
	Price     float64 `json:"price"`
	Sale      float64 `json:"sale"`
	Image     string  `json:"image"`
	Quantity  int     `json:"quantity"`
}

// OrderItem is a cart item annotated with the sale-adjusted unit price at
// submission time.
type OrderItem struct {
	CartItem
	SalePrice float64 `json:"salePrice"`
}

type Order struct {
	OrderID       string      `json:"orderId"` // Public "ORDER-..." reference
	Name          string      `json:"name"`
	Email         string      `json:"email"`
	UserPhone     string      `json:"userphone"`
	Address       string      `json:"address"`
	City          string      `json:"city"`
	State         string      `json:"state"`
	Country       string      `json:"country"`
	PostalCode    string      `json:"postalCode"`
	TotalQuantity int         `json:"totalQuantity"`
	TotalAmount   float64     `json:"totalAmount"`
	Cart          []OrderItem `json:"cart"`
	Status        string      `json:"status"`
	CreatedAt     time.Time   `json:"created_at"`
}

type Admin struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Password string `json:"-"` // Store hashed password
}
