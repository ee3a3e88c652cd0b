package documents

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"registration-service/internal/profiles"
	"registration-service/pkg/jwt"
)

// Handler exposes the standalone re-upload endpoint, used to replace a
// document after registration.
type Handler struct {
	svc       *Service
	profiles  *profiles.Service
	maxSizeMB int64
}

// NewHandler wires a handler to the upload pipeline.
func NewHandler(svc *Service, p *profiles.Service, maxSizeMB int64) *Handler {
	return &Handler{svc: svc, profiles: p, maxSizeMB: maxSizeMB}
}

// Routes returns a chi.Router with all document routes.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(jwt.RequireAuth)
	r.Post("/{bucket}", h.Upload)
	return r
}

func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	claims := jwt.GetClaims(r.Context())
	bucket := chi.URLParam(r, "bucket")

	column, ok := ProfileColumn(bucket)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown bucket"})
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxSizeMB*1024*1024)
	if err := r.ParseMultipartForm(h.maxSizeMB * 1024 * 1024); err != nil {
		writeJSON(w, http.StatusRequestEntityTooLarge, map[string]string{"error": "file too large or invalid form data"})
		return
	}

	file, header, err := r.FormFile("document")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "no document file provided"})
		return
	}
	defer file.Close()

	url, err := h.svc.Upload(r.Context(), file, bucket, claims.AccountID, header.Filename)
	if err != nil {
		writeJSON(w, uploadStatus(err), map[string]string{"error": err.Error()})
		return
	}

	// Best-effort: the object is durable even if the profile write fails.
	if err := h.profiles.UpdateDocumentURLs(r.Context(), claims.AccountID, map[string]string{column: url}); err != nil {
		writeJSON(w, http.StatusOK, map[string]string{
			"url":     url,
			"warning": "document uploaded, but profile update failed",
		})
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"url": url})
}

func uploadStatus(err error) int {
	switch {
	case errors.Is(err, ErrNoSource):
		return http.StatusBadRequest
	case errors.Is(err, ErrBucketNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrPayloadTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, ErrPermissionDenied):
		return http.StatusForbidden
	default:
		return http.StatusBadGateway
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
