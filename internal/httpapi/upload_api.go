package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/sinfiltro/feedserver/internal/logging"
	"github.com/sinfiltro/feedserver/internal/models"
	"github.com/sinfiltro/feedserver/internal/ratelimit"
	"github.com/sinfiltro/feedserver/internal/uploads"
)

// UploadAPI handles media file uploads.
type UploadAPI struct {
	uploadSvc *uploads.Service
	limiter   ratelimit.RateLimiter
	maxSize   int64
	logger    *logging.Logger
}

// NewUploadAPI creates a new upload API handler.
func NewUploadAPI(uploadSvc *uploads.Service, limiter ratelimit.RateLimiter, maxSize int64, logger *logging.Logger) *UploadAPI {
	if maxSize <= 0 {
		maxSize = 50 * 1024 * 1024
	}
	return &UploadAPI{
		uploadSvc: uploadSvc,
		limiter:   limiter,
		maxSize:   maxSize,
		logger:    logger,
	}
}

// RegisterRoutes registers upload routes on the given mux.
func (api *UploadAPI) RegisterRoutes(mux *http.ServeMux, corsMiddleware func(http.HandlerFunc) http.HandlerFunc) {
	mux.HandleFunc("/api/content/upload", corsMiddleware(api.handleUpload))
}

// handleUpload handles POST /api/content/upload with multipart fields
// "file" (required) and "title" (optional).
func (api *UploadAPI) handleUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if api.limiter != nil && !api.limiter.Allow(clientIP(r)) {
		api.writeJSON(w, http.StatusTooManyRequests, models.UploadEnvelope{
			Success: false,
			Message: "too many uploads, slow down",
		})
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, api.maxSize)
	if err := r.ParseMultipartForm(api.maxSize); err != nil {
		api.writeJSON(w, http.StatusBadRequest, models.UploadEnvelope{
			Success: false,
			Message: "invalid upload payload",
		})
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		api.writeJSON(w, http.StatusBadRequest, models.UploadEnvelope{
			Success: false,
			Message: "file is required",
		})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		api.writeJSON(w, http.StatusInternalServerError, models.UploadEnvelope{
			Success: false,
			Message: "failed to read file",
		})
		return
	}

	contentType := header.Header.Get("Content-Type")

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	item, err := api.uploadSvc.Upload(ctx, uploads.Request{
		Data:        data,
		ContentType: contentType,
		Filename:    header.Filename,
		Title:       r.FormValue("title"),
	})
	if err != nil {
		api.writeUploadError(w, err)
		return
	}

	api.writeJSON(w, http.StatusOK, models.UploadEnvelope{
		Success: true,
		Item:    item,
	})
}

// writeUploadError maps service errors to status codes. Write failures are
// real errors, unlike feed reads, because the client must know the upload
// did not happen.
func (api *UploadAPI) writeUploadError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, uploads.ErrInvalidMediaType), errors.Is(err, uploads.ErrModerationRejected):
		status = http.StatusBadRequest
	case errors.Is(err, uploads.ErrStorageWriteFailed):
		status = http.StatusInternalServerError
	default:
		api.logger.Error("Upload failed", logging.WithField("error", err.Error()))
	}

	api.writeJSON(w, status, models.UploadEnvelope{
		Success: false,
		Message: err.Error(),
	})
}

func (api *UploadAPI) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// clientIP extracts the caller address for rate limiting, honoring the
// first hop of X-Forwarded-For when a proxy sits in front.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if first := strings.TrimSpace(strings.Split(fwd, ",")[0]); first != "" {
			return first
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
