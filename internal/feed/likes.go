package feed

import (
	"context"
	"fmt"

	"github.com/sinfiltro/feedserver/internal/config"
	"github.com/sinfiltro/feedserver/internal/logging"
)

// SetLike toggles the liked flag on an item located by id. The owning
// category of an id is not indexed anywhere, so every configured category
// plus the uploads bucket is tried in turn. The set is small and fixed,
// which is the only thing making this linear scan tolerable.
//
// Returns true when at least one bucket contained the item.
func (s *Service) SetLike(ctx context.Context, itemID string, liked bool) (bool, error) {
	if s.store == nil {
		return false, fmt.Errorf("set like %s: store unavailable", itemID)
	}

	buckets := append(append([]string{}, s.cfg.Categories...), config.UploadsBucket)

	matched := false
	for _, bucket := range buckets {
		ok, err := s.store.SetLike(ctx, bucket, itemID, liked)
		if err != nil {
			return false, fmt.Errorf("set like %s in %s: %w", itemID, bucket, err)
		}
		if ok {
			matched = true
		}
	}

	if matched {
		s.logger.Debug("Updated like", logging.WithFields(map[string]interface{}{
			"item":  itemID,
			"liked": liked,
		}))
	}

	return matched, nil
}
