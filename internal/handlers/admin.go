package handlers

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"golang.org/x/crypto/bcrypt"

	"github.com/AhsanAli-Soomro/ecomerce-web/internal/apperr"
	"github.com/AhsanAli-Soomro/ecomerce-web/internal/store"
)

type AdminHandler struct {
	Store        *store.Store
	SessionStore sessions.Store
}

// LoginPost handles POST /api/admin/login
func (h *AdminHandler) LoginPost(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeAppError(w, err)
		return
	}

	admin, err := h.Store.GetAdminByUsername(req.Username)
	if err != nil {
		slog.Error("Failed to look up admin", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if admin == nil {
		writeError(w, http.StatusUnauthorized, "invalid username or password")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(req.Password)); err != nil {
		writeError(w, http.StatusUnauthorized, "invalid username or password")
		return
	}

	session, _ := h.SessionStore.Get(r, "admin-session")
	session.Values["authenticated"] = true
	session.Values["admin_id"] = admin.ID
	session.Options.Path = "/"
	if err := session.Save(r, w); err != nil {
		slog.Error("Failed to save session", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save session")
		return
	}

	slog.Info("Admin login successful", "admin_id", admin.ID)
	writeJSON(w, http.StatusOK, map[string]string{"message": "logged in"})
}

// Logout handles POST /api/admin/logout
func (h *AdminHandler) Logout(w http.ResponseWriter, r *http.Request) {
	session, _ := h.SessionStore.Get(r, "admin-session")
	session.Values["authenticated"] = false
	session.Options.MaxAge = -1
	session.Save(r, w)
	writeJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

// AuthMiddleware guards the admin endpoints.
func (h *AdminHandler) AuthMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, _ := h.SessionStore.Get(r, "admin-session")
		if auth, ok := session.Values["authenticated"].(bool); !ok || !auth {
			writeError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		next(w, r)
	}
}

// Dashboard handles GET /api/admin/dashboard
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Store.GetDashboardStats()
	if err != nil {
		slog.Error("Failed to fetch dashboard stats", "error", err)
		writeError(w, http.StatusInternalServerError, "error fetching stats")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// List handles GET /api/admin/list
func (h *AdminHandler) List(w http.ResponseWriter, r *http.Request) {
	admins, err := h.Store.ListAdmins()
	if err != nil {
		slog.Error("Failed to list admins", "error", err)
		writeError(w, http.StatusInternalServerError, "error listing admins")
		return
	}
	writeJSON(w, http.StatusOK, admins)
}

type adminRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (req adminRequest) validate() error {
	if req.Username == "" {
		return apperr.RequiredError("username")
	}
	if len(req.Password) < 8 {
		return apperr.NewValidationError("password", "must be at least 8 characters")
	}
	return nil
}

// Create handles POST /api/admin/create
func (h *AdminHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req adminRequest
	if err := decodeBody(r, &req); err != nil {
		writeAppError(w, err)
		return
	}
	if err := req.validate(); err != nil {
		writeAppError(w, err)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		slog.Error("Failed to hash password", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	id := uuid.New().String()
	if err := h.Store.CreateAdmin(id, req.Username, string(hash)); err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": id, "username": req.Username})
}

// Update handles PUT /api/admin/update/{id}
func (h *AdminHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req adminRequest
	if err := decodeBody(r, &req); err != nil {
		writeAppError(w, err)
		return
	}
	if err := req.validate(); err != nil {
		writeAppError(w, err)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		slog.Error("Failed to hash password", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	id := r.PathValue("id")
	if err := h.Store.UpdateAdmin(id, req.Username, string(hash)); err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": id, "username": req.Username})
}

// Delete handles DELETE /api/admin/delete/{id}
func (h *AdminHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.DeleteAdmin(r.PathValue("id")); err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "admin deleted"})
}
