package feed

import (
	"context"
	"errors"
	"testing"

	"github.com/sinfiltro/feedserver/internal/models"
)

func TestSetLikeTogglesAndNetsZero(t *testing.T) {
	store := newFakeStore()
	store.buckets["reco"] = []models.ContentItem{{ID: "item-1", Likes: 5}}
	svc := newTestService(store, &fakeGenerator{})

	matched, err := svc.SetLike(context.Background(), "item-1", true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !matched {
		t.Fatal("expected match in reco bucket")
	}
	if got := store.buckets["reco"][0]; got.Likes != 6 || !got.Liked {
		t.Fatalf("after like: likes=%d liked=%v", got.Likes, got.Liked)
	}

	matched, err = svc.SetLike(context.Background(), "item-1", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !matched {
		t.Fatal("expected match on unlike")
	}
	if got := store.buckets["reco"][0]; got.Likes != 5 || got.Liked {
		t.Fatalf("after unlike: likes=%d liked=%v, want net zero and liked=false", got.Likes, got.Liked)
	}
}

func TestSetLikeClampsAtZero(t *testing.T) {
	store := newFakeStore()
	store.buckets["trends"] = []models.ContentItem{{ID: "item-1", Likes: 0, Liked: true}}
	svc := newTestService(store, &fakeGenerator{})

	matched, err := svc.SetLike(context.Background(), "item-1", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !matched {
		t.Fatal("expected match")
	}
	if got := store.buckets["trends"][0]; got.Likes != 0 {
		t.Fatalf("likes = %d, must not go negative", got.Likes)
	}
	if store.buckets["trends"][0].Liked {
		t.Fatal("liked flag should be cleared")
	}
}

func TestSetLikeScansUploadsBucket(t *testing.T) {
	store := newFakeStore()
	store.buckets["uploads"] = []models.ContentItem{{ID: "upload-1"}}
	svc := newTestService(store, &fakeGenerator{})

	matched, err := svc.SetLike(context.Background(), "upload-1", true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !matched {
		t.Fatal("uploads bucket should be part of the like scan")
	}
	if got := store.buckets["uploads"][0]; got.Likes != 1 || !got.Liked {
		t.Fatalf("after like: likes=%d liked=%v", got.Likes, got.Liked)
	}
}

func TestSetLikeUnknownID(t *testing.T) {
	store := newFakeStore()
	store.buckets["trends"] = []models.ContentItem{{ID: "item-1", Likes: 3}}
	svc := newTestService(store, &fakeGenerator{})

	matched, err := svc.SetLike(context.Background(), "nope", true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if matched {
		t.Fatal("unknown id must not match")
	}
	if got := store.buckets["trends"][0]; got.Likes != 3 || got.Liked {
		t.Fatal("unknown id must not mutate any record")
	}
}

func TestSetLikeStoreError(t *testing.T) {
	store := newFakeStore()
	store.likeErr = errors.New("store down")
	svc := newTestService(store, &fakeGenerator{})

	if _, err := svc.SetLike(context.Background(), "item-1", true); err == nil {
		t.Fatal("expected error when store update fails")
	}
}

func TestSetLikeNilStore(t *testing.T) {
	svc := newTestService(nil, &fakeGenerator{})

	if _, err := svc.SetLike(context.Background(), "item-1", true); err == nil {
		t.Fatal("expected error when store is unavailable")
	}
}
