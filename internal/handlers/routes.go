package handlers

import "net/http"

// API groups the handlers and owns the route table.
type API struct {
	Products *ProductHandler
	Cart     *CartHandler
	Checkout *CheckoutHandler
	Orders   *OrderHandler
	Admin    *AdminHandler
	Limiter  *RateLimiter
}

// Routes builds the mux. Catalog reads and cart operations are public;
// catalog and order mutations sit behind the admin session; the abuse-prone
// public writes go through the rate limiter.
func (a *API) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	auth := a.Admin.AuthMiddleware
	limited := a.Limiter.Middleware

	mux.HandleFunc("GET /api/products", a.Products.List)
	mux.HandleFunc("GET /api/products/{id}", a.Products.Get)
	mux.HandleFunc("POST /api/products", auth(a.Products.Create))
	mux.HandleFunc("PUT /api/products/{id}", auth(a.Products.Update))
	mux.HandleFunc("DELETE /api/products/{id}", auth(a.Products.Delete))
	mux.HandleFunc("POST /api/products/{id}/image", auth(a.Products.UploadImage))
	mux.HandleFunc("POST /api/products/{id}/rate", limited(a.Products.Rate))
	mux.HandleFunc("POST /api/products/{id}/comments", limited(a.Products.Comment))

	mux.HandleFunc("GET /api/cart", a.Cart.Get)
	mux.HandleFunc("DELETE /api/cart", a.Cart.Clear)
	mux.HandleFunc("POST /api/cart/items", a.Cart.AddItem)
	mux.HandleFunc("PATCH /api/cart/items", a.Cart.UpdateItem)
	mux.HandleFunc("DELETE /api/cart/items/{id}", a.Cart.RemoveItem)

	mux.HandleFunc("POST /api/checkout", limited(a.Checkout.PlaceOrder))

	mux.HandleFunc("GET /api/orders", auth(a.Orders.List))
	mux.HandleFunc("GET /api/orders/{id}", auth(a.Orders.Get))
	mux.HandleFunc("POST /api/orders", auth(a.Orders.Create))
	mux.HandleFunc("PATCH /api/orders/{id}", auth(a.Orders.UpdateStatus))
	mux.HandleFunc("DELETE /api/orders/{id}", auth(a.Orders.Delete))

	mux.HandleFunc("POST /api/admin/login", limited(a.Admin.LoginPost))
	mux.HandleFunc("POST /api/admin/logout", a.Admin.Logout)
	mux.HandleFunc("GET /api/admin/dashboard", auth(a.Admin.Dashboard))
	mux.HandleFunc("GET /api/admin/list", auth(a.Admin.List))
	mux.HandleFunc("POST /api/admin/create", auth(a.Admin.Create))
	mux.HandleFunc("PUT /api/admin/update/{id}", auth(a.Admin.Update))
	mux.HandleFunc("DELETE /api/admin/delete/{id}", auth(a.Admin.Delete))

	fs := http.FileServer(http.Dir("static"))
	mux.Handle("GET /static/", http.StripPrefix("/static/", fs))

	return mux
}
