// Package uploads accepts user media files, stores them on disk, and
// records one content item per accepted file.
package uploads

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sinfiltro/feedserver/internal/config"
	"github.com/sinfiltro/feedserver/internal/logging"
	"github.com/sinfiltro/feedserver/internal/models"
)

var (
	// ErrInvalidMediaType is returned before any I/O when the declared
	// media type is neither image/* nor video/*.
	ErrInvalidMediaType = errors.New("only images and videos are allowed")
	// ErrStorageWriteFailed is returned when the file cannot be written.
	ErrStorageWriteFailed = errors.New("failed to store uploaded file")
	// ErrModerationRejected is returned when moderation refuses an image.
	ErrModerationRejected = errors.New("image rejected by moderation")
)

// Store is the metadata persistence surface used by uploads.
type Store interface {
	Insert(ctx context.Context, category string, item models.ContentItem) error
}

// Moderator screens uploaded image bytes. Optional.
type Moderator interface {
	ModerateImageBytes(ctx context.Context, imageBytes []byte) (*models.ModerationDecision, error)
}

// Request describes a single upload.
type Request struct {
	Data        []byte
	ContentType string
	// Filename is the client-supplied name; only its extension and its
	// use as a fallback title survive.
	Filename string
	Title    string
}

// Service validates, stores, and records uploads.
type Service struct {
	store      Store
	moderator  Moderator
	dir        string
	publicPath string
	modTimeout time.Duration
	logger     *logging.Logger
}

// NewService creates an upload service and ensures the storage directory
// exists. moderator may be nil to disable image screening.
func NewService(store Store, moderator Moderator, dir, publicPath string, modTimeout time.Duration, logger *logging.Logger) (*Service, error) {
	if dir == "" {
		dir = "uploads"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir %s: %w", dir, err)
	}

	return &Service{
		store:      store,
		moderator:  moderator,
		dir:        dir,
		publicPath: strings.TrimSuffix(publicPath, "/"),
		modTimeout: modTimeout,
		logger:     logger,
	}, nil
}

// Dir returns the storage directory files are written to.
func (s *Service) Dir() string {
	return s.dir
}

// Upload validates the declared media type, writes the bytes under a unique
// name, and persists one content item into the uploads bucket. A failed
// record insert removes the just-written file so no orphan stays behind.
func (s *Service) Upload(ctx context.Context, req Request) (*models.ContentItem, error) {
	kind, err := kindFromContentType(req.ContentType)
	if err != nil {
		return nil, err
	}

	if kind == models.KindImage && s.moderator != nil {
		if err := s.moderate(ctx, req.Data); err != nil {
			return nil, err
		}
	}

	name := uuid.NewString() + sanitizeExt(req.Filename)
	path := filepath.Join(s.dir, name)

	if err := os.WriteFile(path, req.Data, 0o644); err != nil {
		s.logger.Error("Failed to write upload", logging.WithFields(map[string]interface{}{
			"path":  path,
			"error": err.Error(),
		}))
		return nil, fmt.Errorf("%w: %v", ErrStorageWriteFailed, err)
	}

	title := req.Title
	if strings.TrimSpace(title) == "" {
		title = req.Filename
	}

	item := models.NewContentItem(kind, s.publicPath+"/"+name, title)

	if s.store == nil {
		return nil, s.removeOrphan(path, fmt.Errorf("store unavailable"))
	}
	if err := s.store.Insert(ctx, config.UploadsBucket, item); err != nil {
		return nil, s.removeOrphan(path, err)
	}

	s.logger.Info("Stored upload", logging.WithFields(map[string]interface{}{
		"id":   item.ID,
		"kind": string(kind),
		"file": name,
	}))

	return &item, nil
}

// removeOrphan deletes a written file whose metadata insert failed.
func (s *Service) removeOrphan(path string, cause error) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		s.logger.Warn("Failed to remove orphaned upload", logging.WithFields(map[string]interface{}{
			"path":  path,
			"error": err.Error(),
		}))
	}
	return fmt.Errorf("persist upload record: %w", cause)
}

func (s *Service) moderate(ctx context.Context, data []byte) error {
	timeout := s.modTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	moderationCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	decision, err := s.moderator.ModerateImageBytes(moderationCtx, data)
	if err != nil {
		// Moderation outages should not take uploads down with them.
		s.logger.Warn("Image moderation unavailable, accepting upload", logging.WithField("error", err.Error()))
		return nil
	}
	if decision != nil && decision.Status == models.ModerationRejected {
		return fmt.Errorf("%w: %s", ErrModerationRejected, decision.Reason)
	}
	return nil
}

// kindFromContentType maps the declared media type to a content kind.
func kindFromContentType(contentType string) (models.ContentKind, error) {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	switch {
	case strings.HasPrefix(ct, "image/"):
		return models.KindImage, nil
	case strings.HasPrefix(ct, "video/"):
		return models.KindVideo, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrInvalidMediaType, contentType)
	}
}

// sanitizeExt keeps the original extension when it looks like one, so
// stored files keep a recognizable suffix without trusting the full name.
func sanitizeExt(filename string) string {
	ext := strings.ToLower(filepath.Ext(filepath.Base(filename)))
	if ext == "" || ext == "." || len(ext) > 8 {
		return ""
	}
	for _, r := range ext[1:] {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return ""
		}
	}
	return ext
}
