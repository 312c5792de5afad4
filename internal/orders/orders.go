// Package orders is the lifecycle manager for placed orders: creation with
// a totals-revalidation gate, the pending/completed status machine, and
// deletion.
package orders

import (
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/AhsanAli-Soomro/ecomerce-web/internal/apperr"
	"github.com/AhsanAli-Soomro/ecomerce-web/internal/models"
	"github.com/AhsanAli-Soomro/ecomerce-web/internal/pricing"
)

// Store is the remote order collection. *store.Store satisfies it.
type Store interface {
	CreateOrder(o *models.Order) error
	GetAllOrders(status string) ([]models.Order, error)
	GetOrderByID(orderID string) (*models.Order, error)
	UpdateOrderStatus(orderID, status string) error
	DeleteOrder(orderID string) error
}

type Manager struct {
	store Store
}

func NewManager(store Store) *Manager {
	return &Manager{store: store}
}

// totals computed on different paths agree to well under a tenth of a cent;
// anything larger means the caller supplied stale or tampered numbers.
const totalsEpsilon = 1e-6

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// NewOrderID builds a human-readable order reference with uuid entropy
// behind it, so no uniqueness scan against existing orders is needed.
func NewOrderID() string {
	raw := strings.ReplaceAll(uuid.New().String(), "-", "")
	return "ORDER-" + strings.ToUpper(raw[:12])
}

// Create persists a new order after validating the shipping fields and
// recomputing the totals over the supplied cart snapshot. Divergent totals
// are rejected, never silently corrected.
func (m *Manager) Create(o *models.Order) error {
	if err := ValidateShipping(o); err != nil {
		return err
	}
	if len(o.Cart) == 0 {
		return apperr.NewValidationError("cart", "must not be empty")
	}

	recomputed := pricing.OrderTotals(o.Cart)
	if o.TotalQuantity != recomputed.TotalQuantity {
		return apperr.NewValidationError("totalQuantity", "does not match cart contents")
	}
	if math.Abs(o.TotalAmount-recomputed.TotalAmount) > totalsEpsilon {
		return apperr.NewValidationError("totalAmount", "does not match cart contents")
	}

	if o.Status == "" {
		o.Status = models.OrderStatusPending
	}
	if o.Status != models.OrderStatusPending && o.Status != models.OrderStatusCompleted {
		return apperr.NewValidationError("status", "must be pending or completed")
	}

	// Orders arriving without a reference (the admin import path) get one
	// here; checkout supplies its own so it can retry on collision.
	if o.OrderID == "" {
		o.OrderID = NewOrderID()
	}
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now().UTC()
	}

	return m.store.CreateOrder(o)
}

// SetStatus transitions an order between pending and completed. Both
// directions are valid; deletion is the only terminal move.
func (m *Manager) SetStatus(orderID, status string) error {
	if status != models.OrderStatusPending && status != models.OrderStatusCompleted {
		return apperr.NewValidationError("status", "must be pending or completed")
	}
	return m.store.UpdateOrderStatus(orderID, status)
}

func (m *Manager) Delete(orderID string) error {
	return m.store.DeleteOrder(orderID)
}

func (m *Manager) Get(orderID string) (*models.Order, error) {
	return m.store.GetOrderByID(orderID)
}

// List returns orders newest-first. Filter is "", "all", "pending", or
// "completed".
func (m *Manager) List(filter string) ([]models.Order, error) {
	switch filter {
	case "", "all":
		return m.store.GetAllOrders("")
	case models.OrderStatusPending, models.OrderStatusCompleted:
		return m.store.GetAllOrders(filter)
	default:
		return nil, apperr.NewValidationError("status", "must be all, pending, or completed")
	}
}

// ValidateShipping checks the required contact and shipping fields.
func ValidateShipping(o *models.Order) error {
	required := []struct{ field, value string }{
		{"name", o.Name},
		{"email", o.Email},
		{"userphone", o.UserPhone},
		{"address", o.Address},
		{"city", o.City},
		{"state", o.State},
		{"country", o.Country},
		{"postalCode", o.PostalCode},
	}
	for _, r := range required {
		if r.value == "" {
			return apperr.RequiredError(r.field)
		}
	}
	if !emailRegex.MatchString(o.Email) {
		return apperr.NewValidationError("email", "must be a valid email address")
	}
	return nil
}
