// Package seed generates placeholder content for empty feed categories.
package seed

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sinfiltro/feedserver/internal/models"
)

// youtubeVideo is an externally hosted video in the placeholder pool.
type youtubeVideo struct {
	ID    string
	Title string
}

// sampleImage is an image URL in the placeholder pool.
type sampleImage struct {
	Src   string
	Title string
}

var youtubeVideos = []youtubeVideo{
	{ID: "dQw4w9WgXcQ", Title: "Rick Astley - Never Gonna Give You Up"},
	{ID: "hBf101GzX7k", Title: "¡La Casa! - Despacito"},
	{ID: "9bZ4u7Y19YM", Title: "Psy - GANGNAM STYLE"},
	{ID: "vSg0gK30R_Y", Title: "Mark Ronson - Uptown Funk ft. Bruno Mars"},
	{ID: "fJ9rZ394ZzQ", Title: "Queen - Bohemian Rhapsody"},
	{ID: "3GwWM3c8X8I", Title: "Ed Sheeran - Shape of You"},
}

var sampleImages = []sampleImage{
	{Src: "https://images.unsplash.com/photo-1580696950926-21bdd3d2fa6a?w=400&q=80", Title: "Montañas al amanecer"},
	{Src: "https://images.unsplash.com/photo-1442949574843-15be3e042b31?w=400&q=80", Title: "Naturaleza salvaje"},
	{Src: "https://images.unsplash.com/photo-1581178417684-25e6e8976b32?w=400&q=80", Title: "Carretera infinita"},
	{Src: "https://images.unsplash.com/photo-1466921544026-6211846c75cc?w=400&q=80", Title: "Playa de ensueño"},
	{Src: "https://images.unsplash.com/photo-1445778235215-6ac32007ce4a?w=400&q=80", Title: "Explosión de color"},
	{Src: "https://images.unsplash.com/photo-1511884642898-46fb2b0d0d1b?w=400&q=80", Title: "Olas del océano"},
}

// imageResizeSuffix is appended to pool image URLs so src and thumbnail
// resolve to feed-sized renditions.
const imageResizeSuffix = "&h=400&w=600&fit=crop"

// Generator produces batches of placeholder content items by sampling the
// fixed pools with replacement. Duplicates within a batch are expected.
type Generator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// New creates a generator with a time-seeded random source.
func New() *Generator {
	return NewWithSource(rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewWithSource creates a generator with a caller-supplied random source,
// mainly for tests.
func NewWithSource(rng *rand.Rand) *Generator {
	return &Generator{rng: rng}
}

// Batch generates count items, alternating youtube videos (even index) and
// images (odd index). Each item gets a fresh id, randomized engagement
// counters, liked=false, and a generation-time timestamp.
func (g *Generator) Batch(count int) []models.ContentItem {
	g.mu.Lock()
	defer g.mu.Unlock()

	items := make([]models.ContentItem, 0, count)
	now := time.Now().UTC()

	for i := 0; i < count; i++ {
		if i%2 == 0 {
			items = append(items, g.videoItem(now))
		} else {
			items = append(items, g.imageItem(now))
		}
	}

	return items
}

func (g *Generator) videoItem(now time.Time) models.ContentItem {
	vid := youtubeVideos[g.rng.Intn(len(youtubeVideos))]
	return models.ContentItem{
		ID:        uuid.NewString(),
		Kind:      models.KindYouTube,
		Src:       "https://www.youtube.com/watch?v=" + vid.ID,
		Title:     vid.Title,
		Likes:     g.intBetween(100, 5000),
		Comments:  g.intBetween(10, 500),
		Views:     fmt.Sprintf("%dK", g.intBetween(1, 99)),
		Liked:     false,
		Thumbnail: "https://img.youtube.com/vi/" + vid.ID + "/maxresdefault.jpg",
		CreatedAt: now,
	}
}

func (g *Generator) imageItem(now time.Time) models.ContentItem {
	img := sampleImages[g.rng.Intn(len(sampleImages))]
	src := img.Src + imageResizeSuffix
	return models.ContentItem{
		ID:        uuid.NewString(),
		Kind:      models.KindImage,
		Src:       src,
		Title:     img.Title,
		Likes:     g.intBetween(50, 2000),
		Comments:  g.intBetween(0, 300),
		Views:     fmt.Sprintf("%dK", g.intBetween(1, 500)),
		Liked:     false,
		Thumbnail: src,
		CreatedAt: now,
	}
}

// intBetween returns a uniform value in [min, max].
func (g *Generator) intBetween(min, max int) int {
	return min + g.rng.Intn(max-min+1)
}
