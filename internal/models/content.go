package models

import (
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
)

// ContentKind identifies how a content item's src should be interpreted.
type ContentKind string

const (
	KindImage   ContentKind = "image"
	KindVideo   ContentKind = "video"
	KindYouTube ContentKind = "youtube"
)

// AllContentKinds returns all valid content kinds
func AllContentKinds() []ContentKind {
	return []ContentKind{KindImage, KindVideo, KindYouTube}
}

// IsValid reports whether the kind is one of the known variants.
func (k ContentKind) IsValid() bool {
	switch k {
	case KindImage, KindVideo, KindYouTube:
		return true
	}
	return false
}

// ContentItem is a single feed entry: an uploaded image/video or an
// externally hosted video. Only Likes and Liked ever change after creation.
type ContentItem struct {
	ID        string      `bson:"id" json:"id"`
	Kind      ContentKind `bson:"kind" json:"kind"`
	Src       string      `bson:"src" json:"src"`
	Title     string      `bson:"title" json:"title"`
	Likes     int         `bson:"likes" json:"likes"`
	Comments  int         `bson:"comments" json:"comments"`
	Views     string      `bson:"views" json:"views"`
	Liked     bool        `bson:"liked" json:"liked"`
	Thumbnail string      `bson:"thumbnail,omitempty" json:"thumbnail,omitempty"`
	CreatedAt time.Time   `bson:"created_at" json:"created_at"`
}

// NewContentItem creates an item with a fresh id, zeroed counters, and the
// image thumbnail default (images fall back to their own src).
func NewContentItem(kind ContentKind, src, title string) ContentItem {
	item := ContentItem{
		ID:        uuid.NewString(),
		Kind:      kind,
		Src:       src,
		Title:     NormalizeTitle(title),
		Views:     "0",
		CreatedAt: time.Now().UTC(),
	}
	if kind == KindImage {
		item.Thumbnail = src
	}
	return item
}

// NormalizeTitle NFC-normalizes a display title, collapses whitespace, and
// drops control characters.
func NormalizeTitle(title string) string {
	normalized := norm.NFC.String(title)

	var b strings.Builder
	b.Grow(len(normalized))
	lastSpace := false
	for _, r := range normalized {
		if unicode.IsControl(r) {
			continue
		}
		if unicode.IsSpace(r) {
			if !lastSpace && b.Len() > 0 {
				b.WriteRune(' ')
			}
			lastSpace = true
			continue
		}
		lastSpace = false
		b.WriteRune(r)
	}

	return strings.TrimSpace(b.String())
}

// LikeRequest is the body of POST /api/content/{id}/like.
type LikeRequest struct {
	Liked bool `json:"liked"`
}

// FeedEnvelope wraps feed reads. Store failures degrade to
// {success:false, data:[]} instead of an error status.
type FeedEnvelope struct {
	Success bool          `json:"success"`
	Data    []ContentItem `json:"data"`
	Message string        `json:"message,omitempty"`
}

// UploadEnvelope wraps a successful upload.
type UploadEnvelope struct {
	Success bool         `json:"success"`
	Item    *ContentItem `json:"item,omitempty"`
	Message string       `json:"message,omitempty"`
}

// LikeEnvelope wraps like toggles.
type LikeEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}
