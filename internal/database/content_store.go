package database

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sinfiltro/feedserver/internal/models"
)

// ContentStore persists content items in per-category collections.
// A feed bucket named "trends" lives in the collection "content_trends".
type ContentStore struct {
	db *DB
}

func NewContentStore(db *DB) *ContentStore {
	return &ContentStore{db: db}
}

// collectionName maps a feed bucket to its MongoDB collection.
func collectionName(category string) string {
	return "content_" + category
}

// ListByCategory returns up to limit items for a category, newest first.
func (s *ContentStore) ListByCategory(ctx context.Context, category string, limit int) ([]models.ContentItem, error) {
	findOpts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetProjection(bson.M{"_id": 0})
	if limit > 0 {
		findOpts = findOpts.SetLimit(int64(limit))
	}

	cursor, err := s.db.Collection(collectionName(category)).Find(ctx, bson.M{}, findOpts)
	if err != nil {
		return nil, fmt.Errorf("find content in %s: %w", category, err)
	}
	defer cursor.Close(ctx)

	items := make([]models.ContentItem, 0)
	if err := cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("decode content in %s: %w", category, err)
	}

	return items, nil
}

// Insert persists a single item into a category.
func (s *ContentStore) Insert(ctx context.Context, category string, item models.ContentItem) error {
	if _, err := s.db.Collection(collectionName(category)).InsertOne(ctx, item); err != nil {
		return fmt.Errorf("insert content into %s: %w", category, err)
	}
	return nil
}

// InsertBatch persists a generated batch into a category in one write.
func (s *ContentStore) InsertBatch(ctx context.Context, category string, items []models.ContentItem) error {
	if len(items) == 0 {
		return nil
	}

	docs := make([]interface{}, 0, len(items))
	for _, item := range items {
		docs = append(docs, item)
	}

	if _, err := s.db.Collection(collectionName(category)).InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("insert %d items into %s: %w", len(items), category, err)
	}
	return nil
}

// SetLike updates the liked flag and like counter for an item in one
// category. Decrements are guarded so likes never goes below zero.
// Returns true when the category contained the item.
func (s *ContentStore) SetLike(ctx context.Context, category, itemID string, liked bool) (bool, error) {
	col := s.db.Collection(collectionName(category))

	if liked {
		res, err := col.UpdateOne(ctx,
			bson.M{"id": itemID},
			bson.M{"$set": bson.M{"liked": true}, "$inc": bson.M{"likes": 1}},
		)
		if err != nil {
			return false, fmt.Errorf("like item %s in %s: %w", itemID, category, err)
		}
		return res.MatchedCount > 0, nil
	}

	// Only decrement when there is something to take away.
	res, err := col.UpdateOne(ctx,
		bson.M{"id": itemID, "likes": bson.M{"$gt": 0}},
		bson.M{"$set": bson.M{"liked": false}, "$inc": bson.M{"likes": -1}},
	)
	if err != nil {
		return false, fmt.Errorf("unlike item %s in %s: %w", itemID, category, err)
	}
	if res.MatchedCount > 0 {
		return true, nil
	}

	// likes is already zero; still clear the flag if the item exists.
	res, err = col.UpdateOne(ctx,
		bson.M{"id": itemID},
		bson.M{"$set": bson.M{"liked": false}},
	)
	if err != nil {
		return false, fmt.Errorf("unlike item %s in %s: %w", itemID, category, err)
	}
	return res.MatchedCount > 0, nil
}
