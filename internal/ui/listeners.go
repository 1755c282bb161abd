package ui

import (
	"sync"

	"numwatch/internal/domain"
)

// startStoreListener invokes onChange for every feed store change until the
// returned stop function is called. onChange runs off the UI goroutine; the
// caller wraps UI work in fyne.Do.
func startStoreListener(store *domain.FeedStore, onChange func()) func() {
	if store == nil {
		return func() {}
	}

	done := make(chan struct{})
	var stopOnce sync.Once

	go func() {
		for {
			select {
			case <-done:
				return
			case <-store.Changes():
				select {
				case <-done:
					return
				default:
				}
				if onChange != nil {
					onChange()
				}
			}
		}
	}()

	return func() {
		stopOnce.Do(func() {
			close(done)
		})
	}
}
