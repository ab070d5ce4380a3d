package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/sinfiltro/feedserver/internal/feed"
	"github.com/sinfiltro/feedserver/internal/logging"
	"github.com/sinfiltro/feedserver/internal/models"
)

// ContentAPI handles feed reads and like toggles.
type ContentAPI struct {
	feedSvc *feed.Service
	logger  *logging.Logger
}

// NewContentAPI creates a new content API handler.
func NewContentAPI(feedSvc *feed.Service, logger *logging.Logger) *ContentAPI {
	return &ContentAPI{
		feedSvc: feedSvc,
		logger:  logger,
	}
}

// RegisterRoutes registers content routes on the given mux.
func (api *ContentAPI) RegisterRoutes(mux *http.ServeMux, corsMiddleware func(http.HandlerFunc) http.HandlerFunc) {
	mux.HandleFunc("/api/content/feed/", corsMiddleware(api.handleGetFeed))
	mux.HandleFunc("/api/content/", corsMiddleware(api.handleLike))
}

// handleGetFeed handles GET /api/content/feed/:category. Store failures
// degrade to {success:false, data:[]} instead of an error status so the
// front end always gets a renderable envelope.
func (api *ContentAPI) handleGetFeed(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/api/content/feed/")
	category := strings.TrimSuffix(path, "/")
	if category == "" || strings.Contains(category, "/") {
		api.writeJSON(w, http.StatusBadRequest, models.FeedEnvelope{
			Success: false,
			Data:    []models.ContentItem{},
			Message: "category required",
		})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	items, err := api.feedSvc.GetFeed(ctx, category)
	if err != nil {
		api.logger.Error("Failed to fetch feed", logging.WithFields(map[string]interface{}{
			"category": category,
			"error":    err.Error(),
		}))
		api.writeJSON(w, http.StatusOK, models.FeedEnvelope{
			Success: false,
			Data:    []models.ContentItem{},
			Message: err.Error(),
		})
		return
	}

	api.writeJSON(w, http.StatusOK, models.FeedEnvelope{
		Success: true,
		Data:    items,
	})
}

// handleLike handles POST /api/content/:id/like.
func (api *ContentAPI) handleLike(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// Path shape: /api/content/{id}/like
	path := strings.TrimPrefix(r.URL.Path, "/api/content/")
	parts := strings.Split(strings.TrimSuffix(path, "/"), "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] != "like" {
		api.writeJSON(w, http.StatusBadRequest, models.LikeEnvelope{
			Success: false,
			Message: "invalid path",
		})
		return
	}
	itemID := parts[0]

	var req models.LikeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.writeJSON(w, http.StatusBadRequest, models.LikeEnvelope{
			Success: false,
			Message: "invalid request body",
		})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	matched, err := api.feedSvc.SetLike(ctx, itemID, req.Liked)
	if err != nil {
		api.logger.Error("Failed to update like", logging.WithFields(map[string]interface{}{
			"item":  itemID,
			"error": err.Error(),
		}))
		api.writeJSON(w, http.StatusOK, models.LikeEnvelope{
			Success: false,
			Message: err.Error(),
		})
		return
	}

	if !matched {
		api.writeJSON(w, http.StatusOK, models.LikeEnvelope{
			Success: false,
			Message: "Item not found",
		})
		return
	}

	api.writeJSON(w, http.StatusOK, models.LikeEnvelope{
		Success: true,
		Message: "Like updated",
	})
}

func (api *ContentAPI) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
