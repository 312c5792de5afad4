package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gorilla/sessions"

	"github.com/AhsanAli-Soomro/ecomerce-web/internal/cart"
	"github.com/AhsanAli-Soomro/ecomerce-web/internal/catalog"
	"github.com/AhsanAli-Soomro/ecomerce-web/internal/checkout"
	"github.com/AhsanAli-Soomro/ecomerce-web/internal/config"
	"github.com/AhsanAli-Soomro/ecomerce-web/internal/handlers"
	"github.com/AhsanAli-Soomro/ecomerce-web/internal/notify"
	"github.com/AhsanAli-Soomro/ecomerce-web/internal/orders"
	"github.com/AhsanAli-Soomro/ecomerce-web/internal/store"
)

func main() {
	// Configure slog to output DEBUG level messages
	// This should be done as early as possible in main
	handlerOpts := &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}
	// Using TextHandler for console readability; for production JSONHandler might be preferred.
	logger := slog.New(slog.NewTextHandler(os.Stdout, handlerOpts))
	slog.SetDefault(logger)

	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// 2. Init DB
	db, err := store.NewStore(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize store", "error", err)
		os.Exit(1)
	}

	// Run Migrations
	if err := db.Migrate("migrations"); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	// 3. Session Setup
	sessionStore := sessions.NewCookieStore(cfg.SessionKey)
	sessionStore.Options.HttpOnly = true
	sessionStore.Options.Secure = cfg.CookieSecure // Configurable for production
	sessionStore.Options.SameSite = http.SameSiteLaxMode
	sessionStore.Options.Path = "/"
	if cfg.CookieDomain != "" {
		sessionStore.Options.Domain = cfg.CookieDomain
	}

	// 4. Cart persistence
	carts, closeCarts, err := openCarts(cfg)
	if err != nil {
		slog.Error("Failed to open cart storage", "error", err)
		os.Exit(1)
	}
	defer closeCarts()

	// 5. Domain services
	cat := catalog.New(db)
	if err := cat.Refresh(); err != nil {
		slog.Error("Failed to load catalog", "error", err)
		os.Exit(1)
	}

	orderManager := orders.NewManager(db)

	var notifier notify.Notifier = notify.LogNotifier{}
	if cfg.SMTPAddr != "" {
		notifier = &notify.SMTPNotifier{
			Addr:     cfg.SMTPAddr,
			From:     cfg.SMTPFrom,
			Operator: cfg.OperatorMail,
		}
	}

	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		slog.Error("Failed to create upload dir", "error", err)
		os.Exit(1)
	}

	// 6. Handlers
	cartHandler := &handlers.CartHandler{
		Carts:        carts,
		Catalog:      cat,
		SessionStore: sessionStore,
	}
	api := &handlers.API{
		Products: &handlers.ProductHandler{Catalog: cat, UploadDir: cfg.UploadDir},
		Cart:     cartHandler,
		Checkout: &handlers.CheckoutHandler{
			Checkout: checkout.New(orderManager, notifier),
			Carts:    cartHandler,
		},
		Orders:  &handlers.OrderHandler{Orders: orderManager},
		Admin:   &handlers.AdminHandler{Store: db, SessionStore: sessionStore},
		Limiter: handlers.NewRateLimiter(time.Second),
	}

	// Chain: Logger -> Security Headers -> Mux
	handler := handlers.LoggingMiddleware(
		handlers.SecurityHeadersMiddleware(
			api.Routes(),
		),
	)

	// 7. Start Server with Graceful Shutdown
	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: handler,
	}

	// Create a channel to listen for OS signals
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	// Goroutine to start the server
	go func() {
		slog.Info("Server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to listen and serve", "error", err)
			os.Exit(1)
		}
	}()

	// Block until a signal is received
	<-stop

	slog.Info("Shutting down server gracefully...")

	// Create a deadline to wait for.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Server shutdown failed", "error", err)
		os.Exit(1)
	}

	slog.Info("Server exited gracefully.")
}

// openCarts builds the cart manager for the configured backend and returns
// a close func for whatever storage it opened.
func openCarts(cfg *config.Config) (*cart.Manager, func(), error) {
	switch cfg.CartBackend {
	case "memory":
		return cart.NewManager(func(string) cart.Slot { return &cart.MemorySlot{} }), func() {}, nil
	case "file":
		if err := os.MkdirAll(cfg.CartDir, 0o755); err != nil {
			return nil, nil, err
		}
		m := cart.NewManager(func(name string) cart.Slot {
			return &cart.FileSlot{Path: filepath.Join(cfg.CartDir, name+".json")}
		})
		return m, func() {}, nil
	default: // pebble
		slots, err := cart.OpenPebbleSlots(cfg.CartDir)
		if err != nil {
			return nil, nil, err
		}
		m := cart.NewManager(slots.Slot)
		return m, func() {
			if err := slots.Close(); err != nil {
				slog.Error("Failed to close cart storage", "error", err)
			}
		}, nil
	}
}
