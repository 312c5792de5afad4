package handlers

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/nfnt/resize"

	"github.com/AhsanAli-Soomro/ecomerce-web/internal/apperr"
)

const maxUploadSize = 10 << 20 // 10MB

// UploadImage handles POST /api/products/{id}/image. The image is resized
// to a fixed width, re-encoded as JPEG and stored under the upload dir with
// a random filename.
func (h *ProductHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeAppError(w, apperr.NewValidationError("image", "file too large"))
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		writeAppError(w, apperr.RequiredError("image"))
		return
	}
	defer file.Close()

	var img image.Image
	ext := filepath.Ext(header.Filename)
	switch ext {
	case ".png":
		img, err = png.Decode(file)
	case ".jpeg", ".jpg":
		img, err = jpeg.Decode(file)
	default:
		writeAppError(w, apperr.NewValidationError("image", "unsupported image format"))
		return
	}
	if err != nil {
		writeAppError(w, apperr.NewValidationError("image", "could not decode image"))
		return
	}

	resized := resize.Resize(800, 0, img, resize.Lanczos3)
	filename := fmt.Sprintf("%s.jpg", uuid.New().String())
	uploadPath := filepath.Join(h.UploadDir, filename)

	out, err := os.Create(uploadPath)
	if err != nil {
		slog.Error("Could not create upload file", "path", uploadPath, "error", err)
		writeError(w, http.StatusInternalServerError, "could not store image")
		return
	}
	if err := jpeg.Encode(out, resized, &jpeg.Options{Quality: 80}); err != nil {
		out.Close()
		slog.Error("Could not encode image", "path", uploadPath, "error", err)
		writeError(w, http.StatusInternalServerError, "could not store image")
		return
	}
	out.Close()

	p, err := h.Catalog.SetImage(id, "/static/uploads/"+filename)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}
