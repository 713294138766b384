// Package upload proxies admin image uploads to the external image host and
// keeps a reusable image library for the admin panel.
package upload

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"

	"github.com/testgcahm/gis/models"
	"github.com/testgcahm/gis/utils"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// maxUploadBytes caps uploads at 250KB, checked before any network call.
const maxUploadBytes = 250 * 1024

var (
	ErrFileTooLarge = errors.New("file too large (max 250KB)")
	ErrBadType      = errors.New("invalid file type")
)

var allowedTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/jpg":  true,
}

// Uploader sends an encoded image to the external host and returns its URL.
type Uploader interface {
	Upload(ctx context.Context, imageBase64 string) (string, error)
}

type Handler struct {
	uploader Uploader
	// images records uploads for the library listing; nil disables it.
	images   *mongo.Collection
	thumbDir string
	logger   *slog.Logger
}

func New(uploader Uploader, images *mongo.Collection, thumbDir string, logger *slog.Logger) *Handler {
	return &Handler{uploader: uploader, images: images, thumbDir: thumbDir, logger: logger}
}

// validateUpload enforces the type and size limits on the multipart file.
func validateUpload(size int64, contentType string) error {
	if !allowedTypes[contentType] {
		return ErrBadType
	}
	if size > maxUploadBytes {
		return ErrFileTooLarge
	}
	return nil
}

// ImageUpload accepts a multipart form with an "image" field, rejects
// oversized or non-jpeg/png files before touching the network, and proxies
// the rest to the image host.
func (h *Handler) ImageUpload(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := r.ParseMultipartForm(maxUploadBytes * 2); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid form data")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "No file uploaded or invalid file type")
		return
	}
	defer file.Close()

	if err := validateUpload(header.Size, header.Header.Get("Content-Type")); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes+1))
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to read file")
		return
	}
	if len(data) > maxUploadBytes {
		utils.RespondWithError(w, http.StatusBadRequest, ErrFileTooLarge.Error())
		return
	}

	url, err := h.uploader.Upload(r.Context(), base64.StdEncoding.EncodeToString(data))
	if err != nil {
		h.logger.Error("image host upload failed", "err", err)
		utils.RespondWithError(w, http.StatusBadGateway, "Image host upload failed")
		return
	}

	h.recordLibraryImage(r.Context(), header.Filename, url, data)

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "url": url})
}

// recordLibraryImage stores a thumbnail and a library record for the upload.
// Best effort: failures are logged, never surfaced to the admin.
func (h *Handler) recordLibraryImage(ctx context.Context, name, url string, data []byte) {
	if h.images == nil {
		return
	}

	record := models.LibraryImage{
		ID:   uuid.New().String(),
		Name: name,
		URL:  url,
	}

	if img, err := imaging.Decode(bytes.NewReader(data)); err == nil {
		thumb := imaging.Resize(img, 300, 0, imaging.Lanczos)
		thumbPath := filepath.Join(h.thumbDir, record.ID+".jpg")
		if err := imaging.Save(thumb, thumbPath); err == nil {
			record.Thumbnail = "/static/library/" + record.ID + ".jpg"
		} else {
			h.logger.Warn("thumbnail save failed", "err", err)
		}
	} else {
		h.logger.Warn("thumbnail decode failed", "err", err)
	}

	if _, err := h.images.InsertOne(ctx, record); err != nil {
		h.logger.Warn("library record insert failed", "err", err)
	}
}

// ImageLibrary lists previously uploaded images for reuse in the admin form.
func (h *Handler) ImageLibrary(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if h.images == nil {
		utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "images": []models.LibraryImage{}})
		return
	}

	cursor, err := h.images.Find(r.Context(), bson.M{})
	if err != nil {
		h.logger.Error("library list failed", "err", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to load image library")
		return
	}
	defer cursor.Close(r.Context())

	var images []models.LibraryImage
	if err := cursor.All(r.Context(), &images); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to load image library")
		return
	}
	if images == nil {
		images = []models.LibraryImage{}
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "images": images})
}
