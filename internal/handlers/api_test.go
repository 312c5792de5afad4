package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gorilla/sessions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/AhsanAli-Soomro/ecomerce-web/internal/cart"
	"github.com/AhsanAli-Soomro/ecomerce-web/internal/catalog"
	"github.com/AhsanAli-Soomro/ecomerce-web/internal/checkout"
	"github.com/AhsanAli-Soomro/ecomerce-web/internal/models"
	"github.com/AhsanAli-Soomro/ecomerce-web/internal/notify"
	"github.com/AhsanAli-Soomro/ecomerce-web/internal/orders"
	"github.com/AhsanAli-Soomro/ecomerce-web/internal/store"
)

type testAPI struct {
	srv    *httptest.Server
	client *http.Client
	store  *store.Store
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	s, err := store.NewStore(filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	require.NoError(t, s.InitSchema())
	t.Cleanup(func() { s.DB.Close() })

	cat := catalog.New(s)
	require.NoError(t, cat.Refresh())

	sessionStore := sessions.NewCookieStore([]byte("test-session-key"))
	carts := cart.NewManager(func(string) cart.Slot { return &cart.MemorySlot{} })

	cartHandler := &CartHandler{Carts: carts, Catalog: cat, SessionStore: sessionStore}
	api := &API{
		Products: &ProductHandler{Catalog: cat, UploadDir: t.TempDir()},
		Cart:     cartHandler,
		Checkout: &CheckoutHandler{
			Checkout: checkout.New(orders.NewManager(s), notify.LogNotifier{}),
			Carts:    cartHandler,
		},
		Orders:  &OrderHandler{Orders: orders.NewManager(s)},
		Admin:   &AdminHandler{Store: s, SessionStore: sessionStore},
		Limiter: NewRateLimiter(0),
	}

	srv := httptest.NewServer(api.Routes())
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	return &testAPI{
		srv:    srv,
		client: &http.Client{Jar: jar},
		store:  s,
	}
}

func (a *testAPI) do(t *testing.T, method, path string, body any) (*http.Response, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, a.srv.URL+path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := a.client.Do(req)
	require.NoError(t, err)
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	return resp, data
}

func (a *testAPI) seedAdmin(t *testing.T) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("correct horse"), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, a.store.CreateAdmin("admin-1", "juliette", string(hash)))
}

func (a *testAPI) login(t *testing.T) {
	t.Helper()
	resp, _ := a.do(t, http.MethodPost, "/api/admin/login", map[string]string{
		"username": "juliette",
		"password": "correct horse",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func (a *testAPI) seedProduct(t *testing.T, id string, price, sale float64) {
	t.Helper()
	require.NoError(t, a.store.CreateProduct(&models.Product{
		ID:       id,
		Name:     "product " + id,
		Category: "clothing",
		Price:    price,
		Sale:     sale,
	}))
}

func TestProductEndpoints(t *testing.T) {
	api := newTestAPI(t)
	api.seedAdmin(t)

	// Mutations are closed to anonymous callers.
	resp, _ := api.do(t, http.MethodPost, "/api/products", map[string]any{"name": "x", "category": "y"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	api.login(t)

	resp, body := api.do(t, http.MethodPost, "/api/products", map[string]any{
		"name":     "knit scarf",
		"category": "accessories",
		"price":    40.0,
		"sale":     25.0,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created models.Product
	require.NoError(t, json.Unmarshal(body, &created))
	require.NotEmpty(t, created.ID)

	resp, body = api.do(t, http.MethodGet, "/api/products", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list []models.Product
	require.NoError(t, json.Unmarshal(body, &list))
	require.Len(t, list, 1)
	assert.Equal(t, "knit scarf", list[0].Name)

	resp, _ = api.do(t, http.MethodGet, "/api/products/"+created.ID, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = api.do(t, http.MethodGet, "/api/products/nope", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, body = api.do(t, http.MethodPut, "/api/products/"+created.ID, map[string]any{"price": 35.0})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var updated models.Product
	require.NoError(t, json.Unmarshal(body, &updated))
	assert.Equal(t, 35.0, updated.Price)
	assert.Equal(t, "knit scarf", updated.Name, "untouched fields survive a partial update")

	resp, body = api.do(t, http.MethodPost, "/api/products/"+created.ID+"/rate", map[string]any{
		"userId": "u1", "rating": 4,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var rated models.Product
	require.NoError(t, json.Unmarshal(body, &rated))
	require.Len(t, rated.Ratings, 1)
	assert.Equal(t, 4, rated.Ratings[0].Rating)

	resp, _ = api.do(t, http.MethodPost, "/api/products/"+created.ID+"/rate", map[string]any{
		"userId": "u1", "rating": 9,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "rating out of range")

	resp, body = api.do(t, http.MethodPost, "/api/products/"+created.ID+"/comments", map[string]any{
		"user": "jo", "text": "lovely",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var commented models.Product
	require.NoError(t, json.Unmarshal(body, &commented))
	require.Len(t, commented.Comments, 1)
	assert.Equal(t, "lovely", commented.Comments[0].Text)

	resp, _ = api.do(t, http.MethodDelete, "/api/products/"+created.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = api.do(t, http.MethodGet, "/api/products/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCartAndCheckoutFlow(t *testing.T) {
	api := newTestAPI(t)
	api.seedAdmin(t)
	api.seedProduct(t, "p1", 100, 10)
	api.seedProduct(t, "p2", 50, 0)

	resp, body := api.do(t, http.MethodGet, "/api/cart", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var view cartView
	require.NoError(t, json.Unmarshal(body, &view))
	assert.Empty(t, view.Items)

	// Same product twice merges into one line.
	for i := 0; i < 2; i++ {
		resp, body = api.do(t, http.MethodPost, "/api/cart/items", map[string]string{"productId": "p1"})
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}
	require.NoError(t, json.Unmarshal(body, &view))
	require.Len(t, view.Items, 1)
	assert.Equal(t, 2, view.Items[0].Quantity)

	resp, _ = api.do(t, http.MethodPost, "/api/cart/items", map[string]string{"productId": "missing"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, body = api.do(t, http.MethodPost, "/api/cart/items", map[string]string{"productId": "p2"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(body, &view))
	require.Len(t, view.Items, 2)
	assert.Equal(t, 3, view.TotalQuantity)
	assert.InDelta(t, 230.0, view.TotalAmount, 1e-9)

	// Quantities below one are ignored.
	resp, body = api.do(t, http.MethodPatch, "/api/cart/items", map[string]any{"productId": "p1", "quantity": 0})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(body, &view))
	assert.Equal(t, 2, view.Items[0].Quantity)

	resp, body = api.do(t, http.MethodPost, "/api/checkout", map[string]string{
		"name": "Jo Customer", "email": "jo@example.com", "userphone": "+15550100",
		"address": "1 Main St", "city": "Springfield", "state": "IL",
		"country": "USA", "postalCode": "62701",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var order models.Order
	require.NoError(t, json.Unmarshal(body, &order))
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, 3, order.TotalQuantity)
	assert.InDelta(t, 230.0, order.TotalAmount, 1e-9)

	resp, body = api.do(t, http.MethodGet, "/api/cart", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(body, &view))
	assert.Empty(t, view.Items, "cart cleared after checkout")

	api.login(t)
	resp, body = api.do(t, http.MethodGet, "/api/orders?status=pending", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var persisted []models.Order
	require.NoError(t, json.Unmarshal(body, &persisted))
	require.Len(t, persisted, 1)
	assert.Equal(t, order.OrderID, persisted[0].OrderID)

	resp, body = api.do(t, http.MethodPatch, "/api/orders/"+order.OrderID, map[string]string{"status": "completed"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var completed models.Order
	require.NoError(t, json.Unmarshal(body, &completed))
	assert.Equal(t, models.OrderStatusCompleted, completed.Status)
}

func TestCheckoutValidation(t *testing.T) {
	api := newTestAPI(t)
	api.seedProduct(t, "p1", 10, 0)

	// Empty cart.
	resp, _ := api.do(t, http.MethodPost, "/api/checkout", map[string]string{
		"name": "Jo", "email": "jo@example.com", "userphone": "1", "address": "a",
		"city": "c", "state": "s", "country": "co", "postalCode": "1",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	api.do(t, http.MethodPost, "/api/cart/items", map[string]string{"productId": "p1"})

	resp, _ = api.do(t, http.MethodPost, "/api/checkout", map[string]string{
		"name": "Jo", "email": "not-an-email", "userphone": "1", "address": "a",
		"city": "c", "state": "s", "country": "co", "postalCode": "1",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body := api.do(t, http.MethodGet, "/api/cart", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var view cartView
	require.NoError(t, json.Unmarshal(body, &view))
	assert.Len(t, view.Items, 1, "failed checkout leaves the cart alone")
}

func TestAdminAuth(t *testing.T) {
	api := newTestAPI(t)
	api.seedAdmin(t)

	resp, _ := api.do(t, http.MethodPost, "/api/admin/login", map[string]string{
		"username": "juliette", "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = api.do(t, http.MethodPost, "/api/admin/login", map[string]string{
		"username": "nobody", "password": "whatever",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	api.login(t)
	resp, _ = api.do(t, http.MethodGet, "/api/admin/dashboard", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = api.do(t, http.MethodPost, "/api/admin/logout", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = api.do(t, http.MethodGet, "/api/admin/dashboard", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAdminCRUD(t *testing.T) {
	api := newTestAPI(t)
	api.seedAdmin(t)
	api.login(t)

	resp, _ := api.do(t, http.MethodPost, "/api/admin/create", map[string]string{
		"username": "helper", "password": "short",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body := api.do(t, http.MethodPost, "/api/admin/create", map[string]string{
		"username": "helper", "password": "long enough now",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created map[string]string
	require.NoError(t, json.Unmarshal(body, &created))

	resp, _ = api.do(t, http.MethodPost, "/api/admin/create", map[string]string{
		"username": "helper", "password": "another password",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "duplicate username")

	resp, body = api.do(t, http.MethodGet, "/api/admin/list", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var admins []models.Admin
	require.NoError(t, json.Unmarshal(body, &admins))
	assert.Len(t, admins, 2)

	resp, _ = api.do(t, http.MethodPut, "/api/admin/update/"+created["id"], map[string]string{
		"username": "helper2", "password": "rotated password",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = api.do(t, http.MethodDelete, "/api/admin/delete/"+created["id"], nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = api.do(t, http.MethodDelete, "/api/admin/delete/"+created["id"], nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDashboardStats(t *testing.T) {
	api := newTestAPI(t)
	api.seedAdmin(t)
	api.seedProduct(t, "p1", 100, 0)
	api.login(t)

	api.do(t, http.MethodPost, "/api/cart/items", map[string]string{"productId": "p1"})
	resp, _ := api.do(t, http.MethodPost, "/api/checkout", map[string]string{
		"name": "Jo", "email": "jo@example.com", "userphone": "1", "address": "a",
		"city": "c", "state": "s", "country": "co", "postalCode": "1",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := api.do(t, http.MethodGet, "/api/admin/dashboard", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var stats store.DashboardStats
	require.NoError(t, json.Unmarshal(body, &stats))
	assert.Equal(t, 1, stats.TotalProducts)
	assert.Equal(t, 1, stats.TotalOrders)
	assert.Equal(t, 1, stats.OrdersByStatus[models.OrderStatusPending])
}

func TestImageUpload(t *testing.T) {
	api := newTestAPI(t)
	api.seedAdmin(t)
	api.seedProduct(t, "p1", 10, 0)
	api.login(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("image", "photo.png")
	require.NoError(t, err)
	require.NoError(t, png.Encode(part, image.NewRGBA(image.Rect(0, 0, 4, 4))))
	require.NoError(t, mw.Close())

	req, err := http.NewRequest(http.MethodPost, api.srv.URL+"/api/products/p1/image", &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := api.client.Do(req)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var p models.Product
	require.NoError(t, json.Unmarshal(body, &p))
	assert.True(t, len(p.Image) > len("/static/uploads/"))
	assert.Equal(t, "/static/uploads/", p.Image[:len("/static/uploads/")])
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(time.Minute)
	handler := rl.Middleware(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "ok")
	})

	req := httptest.NewRequest(http.MethodPost, "/api/checkout", nil)
	req.RemoteAddr = "203.0.113.9:1234"

	rec := httptest.NewRecorder()
	handler(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	handler(rec, req)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestAdminOrderCreateWithoutReference(t *testing.T) {
	api := newTestAPI(t)
	api.seedAdmin(t)
	api.login(t)

	payload := map[string]any{
		"name": "Jo", "email": "jo@example.com", "userphone": "1", "address": "a",
		"city": "c", "state": "s", "country": "co", "postalCode": "1",
		"totalQuantity": 1, "totalAmount": 100.0,
		"cart": []map[string]any{
			{"productId": "p1", "name": "shirt", "category": "clothing", "price": 100.0, "sale": 0.0, "quantity": 1, "salePrice": 100.0},
		},
	}

	resp, body := api.do(t, http.MethodPost, "/api/orders", payload)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var first models.Order
	require.NoError(t, json.Unmarshal(body, &first))
	require.NotEmpty(t, first.OrderID)
	assert.Equal(t, "ORDER-", first.OrderID[:len("ORDER-")])
	assert.False(t, first.CreatedAt.IsZero())

	// A second bare submission must not collide with the first.
	resp, body = api.do(t, http.MethodPost, "/api/orders", payload)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var second models.Order
	require.NoError(t, json.Unmarshal(body, &second))
	assert.NotEqual(t, first.OrderID, second.OrderID)

	// Fresh timestamps keep imported orders at the top of the listing.
	resp, body = api.do(t, http.MethodGet, "/api/orders", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var listed []models.Order
	require.NoError(t, json.Unmarshal(body, &listed))
	require.Len(t, listed, 2)
}
