// Package httpapi exposes the content feed over HTTP/JSON.
package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"time"

	"github.com/sinfiltro/feedserver/internal/feed"
	"github.com/sinfiltro/feedserver/internal/logging"
	"github.com/sinfiltro/feedserver/internal/ratelimit"
	"github.com/sinfiltro/feedserver/internal/uploads"
)

type Server struct {
	feedSvc       *feed.Service
	uploadSvc     *uploads.Service
	uploadLimiter ratelimit.RateLimiter
	indexFile     string
	maxUploadSize int64
	logger        *logging.Logger
	server        *http.Server
}

func New(feedSvc *feed.Service, uploadSvc *uploads.Service, uploadLimiter ratelimit.RateLimiter, indexFile string, maxUploadSize int64, logger *logging.Logger) *Server {
	return &Server{
		feedSvc:       feedSvc,
		uploadSvc:     uploadSvc,
		uploadLimiter: uploadLimiter,
		indexFile:     indexFile,
		maxUploadSize: maxUploadSize,
		logger:        logger,
	}
}

func (s *Server) Start(addr string) error {
	mux := http.NewServeMux()

	// Content routes
	contentAPI := NewContentAPI(s.feedSvc, s.logger)
	contentAPI.RegisterRoutes(mux, s.corsMiddleware)

	// Upload route
	if s.uploadSvc != nil {
		uploadAPI := NewUploadAPI(s.uploadSvc, s.uploadLimiter, s.maxUploadSize, s.logger)
		uploadAPI.RegisterRoutes(mux, s.corsMiddleware)

		// Stored files are public by generated name.
		fileServer := http.FileServer(http.Dir(s.uploadSvc.Dir()))
		mux.Handle("/uploads/", http.StripPrefix("/uploads/", noDirListing(fileServer)))
	}

	// Front-end page
	mux.HandleFunc("/", s.handleIndex)

	// Health check
	mux.HandleFunc("/health", s.handleHealth)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	s.logger.Info("HTTP API server starting", logging.WithField("addr", addr))
	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}

func (s *Server) corsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next(w, r)
	}
}

// handleIndex serves the configured front-end HTML page at the root.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if s.indexFile == "" {
		http.NotFound(w, r)
		return
	}
	if _, err := os.Stat(s.indexFile); err != nil {
		s.logger.Warn("Index file missing", logging.WithField("path", s.indexFile))
		http.NotFound(w, r)
		return
	}
	http.ServeFile(w, r, s.indexFile)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// noDirListing hides directory indexes from the uploads file server.
func noDirListing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "" || r.URL.Path == "/" {
			http.NotFound(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}
