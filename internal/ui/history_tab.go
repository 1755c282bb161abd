package ui

import (
	"fmt"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/widget"

	"numwatch/internal/domain"
)

// historyTab lists recently received readings, newest first.
type historyTab struct {
	store *domain.FeedStore

	mu      sync.RWMutex
	entries []domain.Reading

	list *widget.List
}

func newHistoryTab(store *domain.FeedStore) (*historyTab, error) {
	if store == nil {
		return nil, ErrMissingFeedStore
	}

	tab := &historyTab{store: store}
	tab.list = widget.NewList(
		func() int {
			tab.mu.RLock()
			defer tab.mu.RUnlock()

			return len(tab.entries)
		},
		func() fyne.CanvasObject {
			return widget.NewLabel("")
		},
		func(id widget.ListItemID, item fyne.CanvasObject) {
			tab.mu.RLock()
			defer tab.mu.RUnlock()
			if id < 0 || id >= len(tab.entries) {
				return
			}
			entry := tab.entries[id]
			item.(*widget.Label).SetText(fmt.Sprintf("%d at %s", entry.Number, formatLastUpdate(entry.DetectedAt)))
		},
	)
	tab.Refresh()

	return tab, nil
}

func (t *historyTab) Object() fyne.CanvasObject {
	return t.list
}

// Refresh re-renders from the current store contents. Must run on the UI
// goroutine.
func (t *historyTab) Refresh() {
	entries := t.store.RecentReadings()
	t.mu.Lock()
	t.entries = entries
	t.mu.Unlock()
	t.list.Refresh()
}
