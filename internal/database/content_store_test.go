package database_test

import (
	"context"
	"testing"
	"time"

	"github.com/sinfiltro/feedserver/internal/database"
	"github.com/sinfiltro/feedserver/internal/models"
	"github.com/sinfiltro/feedserver/internal/testutil"
)

func newStore(t *testing.T) (*database.ContentStore, context.Context) {
	t.Helper()

	tdb := testutil.NewTestDB(t)
	t.Cleanup(tdb.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)

	return database.NewContentStore(tdb.DB), ctx
}

func TestListByCategoryEmpty(t *testing.T) {
	store, ctx := newStore(t)

	items, err := store.ListByCategory(ctx, "trends", 100)
	if err != nil {
		t.Fatalf("ListByCategory: %v", err)
	}
	if items == nil {
		t.Fatal("empty category must return an empty slice, not nil")
	}
	if len(items) != 0 {
		t.Fatalf("got %d items from an empty category", len(items))
	}
}

func TestInsertAndList(t *testing.T) {
	store, ctx := newStore(t)

	first := models.NewContentItem(models.KindImage, "https://example.com/a.jpg", "First")
	first.CreatedAt = time.Now().UTC().Add(-time.Minute)
	second := models.NewContentItem(models.KindYouTube, "https://www.youtube.com/embed/abc", "Second")

	if err := store.Insert(ctx, "trends", first); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if err := store.Insert(ctx, "trends", second); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	items, err := store.ListByCategory(ctx, "trends", 100)
	if err != nil {
		t.Fatalf("ListByCategory: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}
	// Newest first.
	if items[0].ID != second.ID || items[1].ID != first.ID {
		t.Errorf("order = [%s %s], want newest first", items[0].Title, items[1].Title)
	}

	// Categories are isolated collections.
	other, err := store.ListByCategory(ctx, "reco", 100)
	if err != nil {
		t.Fatalf("ListByCategory: %v", err)
	}
	if len(other) != 0 {
		t.Errorf("items leaked into another category: %d", len(other))
	}
}

func TestInsertBatchAndLimit(t *testing.T) {
	store, ctx := newStore(t)

	batch := make([]models.ContentItem, 5)
	for i := range batch {
		batch[i] = models.NewContentItem(models.KindImage, "https://example.com/a.jpg", "Item")
	}
	if err := store.InsertBatch(ctx, "recent", batch); err != nil {
		t.Fatalf("InsertBatch: %v", err)
	}
	if err := store.InsertBatch(ctx, "recent", nil); err != nil {
		t.Fatalf("InsertBatch with no items: %v", err)
	}

	items, err := store.ListByCategory(ctx, "recent", 3)
	if err != nil {
		t.Fatalf("ListByCategory: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("got %d items with limit 3", len(items))
	}
}

func TestSetLike(t *testing.T) {
	store, ctx := newStore(t)

	item := models.NewContentItem(models.KindImage, "https://example.com/a.jpg", "Likeable")
	if err := store.Insert(ctx, "trends", item); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	matched, err := store.SetLike(ctx, "trends", item.ID, true)
	if err != nil {
		t.Fatalf("SetLike: %v", err)
	}
	if !matched {
		t.Fatal("like did not match the inserted item")
	}

	items, err := store.ListByCategory(ctx, "trends", 1)
	if err != nil {
		t.Fatalf("ListByCategory: %v", err)
	}
	if items[0].Likes != 1 || !items[0].Liked {
		t.Errorf("after like: likes=%d liked=%v, want 1/true", items[0].Likes, items[0].Liked)
	}

	if _, err := store.SetLike(ctx, "trends", item.ID, false); err != nil {
		t.Fatalf("SetLike: %v", err)
	}
	items, _ = store.ListByCategory(ctx, "trends", 1)
	if items[0].Likes != 0 || items[0].Liked {
		t.Errorf("after unlike: likes=%d liked=%v, want 0/false", items[0].Likes, items[0].Liked)
	}
}

func TestSetLikeClampsAtZero(t *testing.T) {
	store, ctx := newStore(t)

	item := models.NewContentItem(models.KindImage, "https://example.com/a.jpg", "Never liked")
	if err := store.Insert(ctx, "trends", item); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	// Unlike with zero likes still matches but does not go negative.
	matched, err := store.SetLike(ctx, "trends", item.ID, false)
	if err != nil {
		t.Fatalf("SetLike: %v", err)
	}
	if !matched {
		t.Fatal("unlike of an existing item must report a match")
	}

	items, err := store.ListByCategory(ctx, "trends", 1)
	if err != nil {
		t.Fatalf("ListByCategory: %v", err)
	}
	if items[0].Likes != 0 {
		t.Errorf("likes = %d, want clamp at 0", items[0].Likes)
	}
}

func TestSetLikeUnknownItem(t *testing.T) {
	store, ctx := newStore(t)

	matched, err := store.SetLike(ctx, "trends", "does-not-exist", true)
	if err != nil {
		t.Fatalf("SetLike: %v", err)
	}
	if matched {
		t.Fatal("like of an unknown item must not report a match")
	}
}
