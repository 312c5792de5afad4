package handlers

import (
	"net/http"

	"github.com/AhsanAli-Soomro/ecomerce-web/internal/catalog"
)

type ProductHandler struct {
	Catalog   *catalog.Catalog
	UploadDir string
}

// List handles GET /api/products
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Catalog.List())
}

// Get handles GET /api/products/{id}
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.Catalog.Get(r.PathValue("id"))
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// Create handles POST /api/products
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var draft catalog.Draft
	if err := decodeBody(r, &draft); err != nil {
		writeAppError(w, err)
		return
	}

	p, err := h.Catalog.Add(draft)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

// Update handles PUT /api/products/{id}
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	var patch catalog.Patch
	if err := decodeBody(r, &patch); err != nil {
		writeAppError(w, err)
		return
	}

	p, err := h.Catalog.Update(r.PathValue("id"), patch)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// Delete handles DELETE /api/products/{id}
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Catalog.Remove(r.PathValue("id")); err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "product deleted"})
}

// Rate handles POST /api/products/{id}/rate
func (h *ProductHandler) Rate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID string `json:"userId"`
		Rating int    `json:"rating"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeAppError(w, err)
		return
	}

	p, err := h.Catalog.Rate(r.PathValue("id"), req.UserID, req.Rating)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// Comment handles POST /api/products/{id}/comments. Comments live on their
// own sub-resource rather than overloading the product path.
func (h *ProductHandler) Comment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		User string `json:"user"`
		Text string `json:"text"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeAppError(w, err)
		return
	}

	p, err := h.Catalog.Comment(r.PathValue("id"), req.User, req.Text)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}
