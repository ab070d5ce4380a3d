package feed

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/sinfiltro/feedserver/internal/models"
	"github.com/sinfiltro/feedserver/internal/testutil"
)

type fakeStore struct {
	buckets   map[string][]models.ContentItem
	listErr   error
	insertErr error
	likeErr   error

	batchInserts int
}

func newFakeStore() *fakeStore {
	return &fakeStore{buckets: make(map[string][]models.ContentItem)}
}

func (f *fakeStore) ListByCategory(ctx context.Context, category string, limit int) ([]models.ContentItem, error) {
	_ = ctx
	if f.listErr != nil {
		return nil, f.listErr
	}
	items := f.buckets[category]
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	out := make([]models.ContentItem, len(items))
	copy(out, items)
	return out, nil
}

func (f *fakeStore) InsertBatch(ctx context.Context, category string, items []models.ContentItem) error {
	_ = ctx
	if f.insertErr != nil {
		return f.insertErr
	}
	f.batchInserts++
	f.buckets[category] = append(f.buckets[category], items...)
	return nil
}

func (f *fakeStore) SetLike(ctx context.Context, category, itemID string, liked bool) (bool, error) {
	_ = ctx
	if f.likeErr != nil {
		return false, f.likeErr
	}
	for i := range f.buckets[category] {
		item := &f.buckets[category][i]
		if item.ID != itemID {
			continue
		}
		item.Liked = liked
		if liked {
			item.Likes++
		} else if item.Likes > 0 {
			item.Likes--
		}
		return true, nil
	}
	return false, nil
}

type fakeGenerator struct {
	calls int
}

func (f *fakeGenerator) Batch(count int) []models.ContentItem {
	f.calls++
	items := make([]models.ContentItem, 0, count)
	for i := 0; i < count; i++ {
		items = append(items, models.ContentItem{
			ID:   fmt.Sprintf("gen-%d-%d", f.calls, i),
			Kind: models.KindImage,
		})
	}
	return items
}

func newTestService(store ContentStore, gen Generator) *Service {
	return NewService(store, gen, Config{
		Categories: []string{"trends", "reco", "recent"},
		SeedCount:  12,
		PageLimit:  100,
	}, testutil.NullLogger())
}

func TestGetFeedSeedsEmptyCategory(t *testing.T) {
	store := newFakeStore()
	gen := &fakeGenerator{}
	svc := newTestService(store, gen)

	items, err := svc.GetFeed(context.Background(), "trends")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 12 {
		t.Fatalf("first read returned %d items, want 12", len(items))
	}
	if gen.calls != 1 {
		t.Fatalf("generator called %d times, want 1", gen.calls)
	}
	if len(store.buckets["trends"]) != 12 {
		t.Fatalf("store holds %d items, want 12", len(store.buckets["trends"]))
	}
}

func TestGetFeedSeedIsIdempotent(t *testing.T) {
	store := newFakeStore()
	gen := &fakeGenerator{}
	svc := newTestService(store, gen)

	first, err := svc.GetFeed(context.Background(), "trends")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	second, err := svc.GetFeed(context.Background(), "trends")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gen.calls != 1 {
		t.Fatalf("generator called %d times across two reads, want 1", gen.calls)
	}
	if store.batchInserts != 1 {
		t.Fatalf("store seeded %d times, want 1", store.batchInserts)
	}

	if len(first) != len(second) {
		t.Fatalf("reads disagree: %d vs %d items", len(first), len(second))
	}
	for i := range first {
		if first[i].ID != second[i].ID {
			t.Fatalf("item %d id changed between reads: %s vs %s", i, first[i].ID, second[i].ID)
		}
	}
}

func TestGetFeedSeparateCategories(t *testing.T) {
	store := newFakeStore()
	gen := &fakeGenerator{}
	svc := newTestService(store, gen)

	if _, err := svc.GetFeed(context.Background(), "trends"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.GetFeed(context.Background(), "recent"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gen.calls != 2 {
		t.Fatalf("generator called %d times for two categories, want 2", gen.calls)
	}
	if len(store.buckets["trends"]) != 12 || len(store.buckets["recent"]) != 12 {
		t.Fatal("each category should be seeded independently")
	}
}

func TestGetFeedListError(t *testing.T) {
	store := newFakeStore()
	store.listErr = errors.New("store down")
	svc := newTestService(store, &fakeGenerator{})

	if _, err := svc.GetFeed(context.Background(), "trends"); err == nil {
		t.Fatal("expected error when store read fails")
	}
}

func TestGetFeedSeedInsertError(t *testing.T) {
	store := newFakeStore()
	store.insertErr = errors.New("write refused")
	svc := newTestService(store, &fakeGenerator{})

	if _, err := svc.GetFeed(context.Background(), "trends"); err == nil {
		t.Fatal("expected error when seeding insert fails")
	}
}

func TestGetFeedNilStoreServesGeneratedBatch(t *testing.T) {
	gen := &fakeGenerator{}
	svc := newTestService(nil, gen)

	items, err := svc.GetFeed(context.Background(), "trends")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 12 {
		t.Fatalf("got %d items, want 12", len(items))
	}

	// Without a store each read regenerates.
	if _, err := svc.GetFeed(context.Background(), "trends"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gen.calls != 2 {
		t.Fatalf("generator called %d times, want 2", gen.calls)
	}
}

func TestGetFeedRespectsPageLimit(t *testing.T) {
	store := newFakeStore()
	for i := 0; i < 150; i++ {
		store.buckets["trends"] = append(store.buckets["trends"], models.ContentItem{ID: fmt.Sprintf("item-%d", i)})
	}
	svc := newTestService(store, &fakeGenerator{})

	items, err := svc.GetFeed(context.Background(), "trends")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 100 {
		t.Fatalf("got %d items, want page limit of 100", len(items))
	}
}

func TestNewServiceDefaults(t *testing.T) {
	svc := NewService(nil, &fakeGenerator{}, Config{}, testutil.NullLogger())

	if svc.cfg.SeedCount != 12 {
		t.Errorf("default seed count = %d, want 12", svc.cfg.SeedCount)
	}
	if svc.cfg.PageLimit != 100 {
		t.Errorf("default page limit = %d, want 100", svc.cfg.PageLimit)
	}
}
