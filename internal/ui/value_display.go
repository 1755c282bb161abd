package ui

import (
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/widget"

	"numwatch/internal/domain"
)

const valuePlaceholder = "--"

// valueDisplay is the minimal projection: just the current number, or a
// placeholder before the first reading. The text style is applied opaquely.
type valueDisplay struct {
	store *domain.FeedStore
	label *widget.Label
}

func newValueDisplay(store *domain.FeedStore, style fyne.TextStyle) (*valueDisplay, error) {
	if store == nil {
		return nil, ErrMissingFeedStore
	}

	label := widget.NewLabel(valuePlaceholder)
	label.TextStyle = style
	label.Alignment = fyne.TextAlignCenter

	d := &valueDisplay{store: store, label: label}
	d.Refresh()

	return d, nil
}

func (d *valueDisplay) Object() fyne.CanvasObject {
	return d.label
}

// Refresh re-renders from the current snapshot. Must run on the UI goroutine.
func (d *valueDisplay) Refresh() {
	snapshot := d.store.Snapshot()
	if snapshot.CurrentNumber == nil {
		d.label.SetText(valuePlaceholder)

		return
	}
	d.label.SetText(strconv.FormatInt(*snapshot.CurrentNumber, 10))
}
