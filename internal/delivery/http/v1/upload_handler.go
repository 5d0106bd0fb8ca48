package v1

import (
	"net/http"
	"path/filepath"
	"strings"

	"storefront-backend/internal/domain"
	"storefront-backend/pkg/logger"
	"storefront-backend/pkg/utils"
)

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
	".gif":  true,
}

// UploadHandler accepts a product image, converts it to WebP and stores it.
// The returned URL is meant for a product's image field.
type UploadHandler struct {
	images        domain.ImageStore
	maxUploadSize int64
}

func NewUploadHandler(images domain.ImageStore, maxUploadSizeMB int64) *UploadHandler {
	return &UploadHandler{
		images:        images,
		maxUploadSize: maxUploadSizeMB << 20,
	}
}

func (h *UploadHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	log := logger.WithContext(r.Context())

	if h.images == nil {
		writeError(w, r, &domain.PreconditionError{Reason: "image storage is not configured"}, nil)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		log.Warn().Err(err).Msg("Upload: ParseMultipartForm failed")
		writeBadRequest(w, "File too large or invalid format")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeBadRequest(w, "Invalid file")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if !utils.IsImage(contentType) {
		writeBadRequest(w, "Invalid file type. Allowed: JPEG, PNG, WebP, GIF")
		return
	}
	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedExtensions[ext] {
		writeBadRequest(w, "Invalid file extension")
		return
	}

	data, newContentType, err := utils.ProcessImage(file, header.Filename)
	if err != nil {
		log.Warn().Err(err).Str("file", header.Filename).Msg("Upload: image processing failed")
		writeBadRequest(w, "File is not a readable image")
		return
	}

	url, err := h.images.UploadImage(r.Context(), data, newContentType)
	if err != nil {
		writeError(w, r, err, nil)
		return
	}

	log.Info().Str("url", url).Int("bytes", len(data)).Msg("Product image uploaded")
	writeOK(w, http.StatusCreated, map[string]string{"url": url})
}
