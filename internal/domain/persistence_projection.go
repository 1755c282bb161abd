package domain

import (
	"context"

	"numwatch/internal/bus"
	"numwatch/internal/feed"
)

type ReadingInserter interface {
	Insert(ctx context.Context, reading Reading) (int64, error)
}

type WriteEnqueuer interface {
	Enqueue(name string, fn func(context.Context) error)
}

// StartPersistenceProjection mirrors bus readings into the database through
// the writer queue so UI rendering never waits on disk.
func StartPersistenceProjection(ctx context.Context, b bus.MessageBus, queue WriteEnqueuer, repo ReadingInserter) {
	sub := b.Subscribe(feed.TopicReading)
	go func() {
		defer b.Unsubscribe(sub, feed.TopicReading)
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-sub:
				if !ok {
					return
				}
				reading, ok := msg.(Reading)
				if !ok {
					continue
				}
				queue.Enqueue("insert reading", func(writeCtx context.Context) error {
					_, err := repo.Insert(writeCtx, reading)

					return err
				})
			}
		}
	}()
}
