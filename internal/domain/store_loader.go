package domain

import (
	"context"
	"fmt"
)

type ReadingLister interface {
	ListRecent(ctx context.Context, limit int) ([]Reading, error)
}

// LoadStoreFromRepository seeds the feed store with persisted readings so the
// history view is populated before the connection delivers anything.
func LoadStoreFromRepository(ctx context.Context, store *FeedStore, repo ReadingLister, limit int) error {
	readings, err := repo.ListRecent(ctx, limit)
	if err != nil {
		return fmt.Errorf("load cached readings: %w", err)
	}
	store.LoadHistory(readings)

	return nil
}
