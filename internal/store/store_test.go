package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AhsanAli-Soomro/ecomerce-web/internal/apperr"
	"github.com/AhsanAli-Soomro/ecomerce-web/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, s.InitSchema())
	t.Cleanup(func() { s.DB.Close() })
	return s
}

func testProduct(name string) *models.Product {
	now := time.Now().UTC()
	return &models.Product{
		ID:          uuid.New().String(),
		Name:        name,
		Category:    "clothing",
		Subcategory: "shirts",
		Price:       49.99,
		Sale:        0,
		Image:       "/static/uploads/" + name + ".jpg",
		Description: "a " + name,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func TestProductCRUD(t *testing.T) {
	s := newTestStore(t)

	p := testProduct("shirt")
	require.NoError(t, s.CreateProduct(p))

	got, err := s.GetProductByID(p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.Name, got.Name)
	assert.Equal(t, p.Price, got.Price)
	assert.Empty(t, got.Ratings)
	assert.Empty(t, got.Comments)

	got.Price = 39.99
	got.Sale = 20
	require.NoError(t, s.UpdateProduct(got))

	updated, err := s.GetProductByID(p.ID)
	require.NoError(t, err)
	assert.Equal(t, 39.99, updated.Price)
	assert.Equal(t, 20.0, updated.Sale)

	require.NoError(t, s.DeleteProduct(p.ID))
	_, err = s.GetProductByID(p.ID)
	assert.True(t, apperr.IsNotFound(err))
}

func TestProductNotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetProductByID("missing")
	assert.True(t, apperr.IsNotFound(err))
	assert.True(t, apperr.IsNotFound(s.DeleteProduct("missing")))
	assert.True(t, apperr.IsNotFound(s.UpdateProduct(testProduct("ghost"))))
}

func TestRateProduct_UpsertsPerUser(t *testing.T) {
	s := newTestStore(t)
	p := testProduct("rated")
	require.NoError(t, s.CreateProduct(p))

	_, err := s.RateProduct(p.ID, "user-1", 4)
	require.NoError(t, err)
	_, err = s.RateProduct(p.ID, "user-2", 5)
	require.NoError(t, err)

	// Second rating from the same user replaces, not appends.
	got, err := s.RateProduct(p.ID, "user-1", 2)
	require.NoError(t, err)
	require.Len(t, got.Ratings, 2)
	assert.Equal(t, models.Rating{UserID: "user-1", Rating: 2}, got.Ratings[0])
	assert.Equal(t, models.Rating{UserID: "user-2", Rating: 5}, got.Ratings[1])
}

func TestAddComment_AppendOnly(t *testing.T) {
	s := newTestStore(t)
	p := testProduct("commented")
	require.NoError(t, s.CreateProduct(p))

	_, err := s.AddComment(p.ID, "alice", "love it")
	require.NoError(t, err)
	got, err := s.AddComment(p.ID, "bob", "runs small")
	require.NoError(t, err)

	require.Len(t, got.Comments, 2)
	assert.Equal(t, "alice", got.Comments[0].User)
	assert.Equal(t, "runs small", got.Comments[1].Text)
	assert.False(t, got.Comments[0].Date.IsZero())
}

func testOrder(id string, createdAt time.Time) *models.Order {
	return &models.Order{
		OrderID:    id,
		Name:       "Test Customer",
		Email:      "customer@example.com",
		UserPhone:  "+15550100",
		Address:    "1 Main St",
		City:       "Springfield",
		State:      "IL",
		Country:    "USA",
		PostalCode: "62701",
		Cart: []models.OrderItem{
			{CartItem: models.CartItem{ProductID: "p1", Name: "shirt", Price: 100, Sale: 10, Quantity: 2}, SalePrice: 90},
		},
		TotalQuantity: 2,
		TotalAmount:   180,
		Status:        models.OrderStatusPending,
		CreatedAt:     createdAt,
	}
}

func TestOrderLifecycle(t *testing.T) {
	s := newTestStore(t)
	o := testOrder("ORDER-AAA111", time.Now().UTC())
	require.NoError(t, s.CreateOrder(o))

	got, err := s.GetOrderByID(o.OrderID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPending, got.Status)
	assert.Equal(t, o.Cart, got.Cart)

	require.NoError(t, s.UpdateOrderStatus(o.OrderID, models.OrderStatusCompleted))
	got, err = s.GetOrderByID(o.OrderID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCompleted, got.Status)

	// Back to pending; the captured cart is untouched either way.
	require.NoError(t, s.UpdateOrderStatus(o.OrderID, models.OrderStatusPending))
	got, err = s.GetOrderByID(o.OrderID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPending, got.Status)
	assert.Equal(t, o.Cart, got.Cart)
	assert.Equal(t, o.TotalAmount, got.TotalAmount)

	require.NoError(t, s.DeleteOrder(o.OrderID))
	assert.True(t, apperr.IsNotFound(s.DeleteOrder(o.OrderID)))
}

func TestOrderStatusUnknownID(t *testing.T) {
	s := newTestStore(t)
	err := s.UpdateOrderStatus("ORDER-NOPE", models.OrderStatusCompleted)
	assert.True(t, apperr.IsNotFound(err))
}

func TestCreateOrder_DuplicateID(t *testing.T) {
	s := newTestStore(t)
	now := time.Now().UTC()
	require.NoError(t, s.CreateOrder(testOrder("ORDER-DUP", now)))

	err := s.CreateOrder(testOrder("ORDER-DUP", now))
	assert.ErrorIs(t, err, ErrDuplicateOrderID)
}

func TestGetAllOrders_NewestFirstAndFiltered(t *testing.T) {
	s := newTestStore(t)
	base := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, s.CreateOrder(testOrder("ORDER-OLD", base.Add(-2*time.Hour))))
	require.NoError(t, s.CreateOrder(testOrder("ORDER-MID", base.Add(-time.Hour))))
	require.NoError(t, s.CreateOrder(testOrder("ORDER-NEW", base)))
	require.NoError(t, s.UpdateOrderStatus("ORDER-MID", models.OrderStatusCompleted))

	all, err := s.GetAllOrders("")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "ORDER-NEW", all[0].OrderID)
	assert.Equal(t, "ORDER-MID", all[1].OrderID)
	assert.Equal(t, "ORDER-OLD", all[2].OrderID)

	pending, err := s.GetAllOrders(models.OrderStatusPending)
	require.NoError(t, err)
	require.Len(t, pending, 2)

	completed, err := s.GetAllOrders(models.OrderStatusCompleted)
	require.NoError(t, err)
	require.Len(t, completed, 1)
	assert.Equal(t, "ORDER-MID", completed[0].OrderID)
}

func TestAdminCRUD(t *testing.T) {
	s := newTestStore(t)
	id := uuid.New().String()
	require.NoError(t, s.CreateAdmin(id, "root", "hash1"))

	assert.ErrorIs(t, s.CreateAdmin(uuid.New().String(), "root", "hash2"), ErrUsernameTaken)

	admin, err := s.GetAdminByUsername("root")
	require.NoError(t, err)
	require.NotNil(t, admin)
	assert.Equal(t, "hash1", admin.Password)

	missing, err := s.GetAdminByUsername("ghost")
	require.NoError(t, err)
	assert.Nil(t, missing)

	require.NoError(t, s.UpdateAdmin(id, "root2", "hash3"))
	admin, err = s.GetAdminByUsername("root2")
	require.NoError(t, err)
	require.NotNil(t, admin)
	assert.Equal(t, "hash3", admin.Password)

	admins, err := s.ListAdmins()
	require.NoError(t, err)
	require.Len(t, admins, 1)
	assert.Empty(t, admins[0].Password, "list never exposes hashes")

	require.NoError(t, s.DeleteAdmin(id))
	assert.True(t, apperr.IsNotFound(s.DeleteAdmin(id)))
}

func TestDashboardStats(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.CreateProduct(testProduct("one")))
	require.NoError(t, s.CreateProduct(testProduct("two")))

	now := time.Now().UTC()
	require.NoError(t, s.CreateOrder(testOrder("ORDER-A", now)))
	require.NoError(t, s.CreateOrder(testOrder("ORDER-B", now.Add(time.Second))))
	require.NoError(t, s.UpdateOrderStatus("ORDER-B", models.OrderStatusCompleted))

	stats, err := s.GetDashboardStats()
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalProducts)
	assert.Equal(t, 2, stats.TotalOrders)
	assert.Equal(t, 1, stats.OrdersByStatus[models.OrderStatusPending])
	assert.Equal(t, 1, stats.OrdersByStatus[models.OrderStatusCompleted])
	assert.Equal(t, 180.0, stats.TotalRevenue)
}

func TestMigrate(t *testing.T) {
	dir := t.TempDir()
	s, err := NewStore(filepath.Join(dir, "migrate.db"))
	require.NoError(t, err)
	defer s.DB.Close()

	migrations := filepath.Join(dir, "migrations")
	require.NoError(t, writeFile(migrations, "001_init.sql", `CREATE TABLE widgets (id TEXT PRIMARY KEY);`))
	require.NoError(t, writeFile(migrations, "002_more.sql", `ALTER TABLE widgets ADD COLUMN name TEXT;`))

	require.NoError(t, s.Migrate(migrations))
	// Re-running is a no-op.
	require.NoError(t, s.Migrate(migrations))

	var count int
	require.NoError(t, s.DB.QueryRow(`SELECT COUNT(*) FROM schema_migrations`).Scan(&count))
	assert.Equal(t, 2, count)
}
