package ui

import (
	"errors"
	"fmt"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"numwatch/internal/domain"
	"numwatch/internal/feed"
	"numwatch/internal/resources"
)

// ErrMissingFeedStore is returned when a consumer is constructed without the
// shared feed store. That is an integration bug in the caller, never a
// runtime condition to default around.
var ErrMissingFeedStore = errors.New("feed store is required")

// statusPanel projects the feed store into a human-readable status block. It
// holds no state of its own and never mutates the store.
type statusPanel struct {
	store *domain.FeedStore

	statusLabel *widget.Label
	statusIcon  *widget.Icon
	numberLabel *widget.Label
	updateLabel *widget.Label

	object fyne.CanvasObject
}

func newStatusPanel(store *domain.FeedStore) (*statusPanel, error) {
	if store == nil {
		return nil, ErrMissingFeedStore
	}

	p := &statusPanel{
		store:       store,
		statusLabel: widget.NewLabel(""),
		statusIcon:  widget.NewIcon(resources.UIIconResource(resources.UIIconDisconnected)),
		numberLabel: widget.NewLabel(""),
		updateLabel: widget.NewLabel(""),
	}
	p.object = container.NewVBox(
		container.NewHBox(p.statusIcon, p.statusLabel),
		p.numberLabel,
		p.updateLabel,
	)
	p.Refresh()

	return p, nil
}

func (p *statusPanel) Object() fyne.CanvasObject {
	return p.object
}

// Refresh re-renders from the current snapshot. Must run on the UI goroutine.
func (p *statusPanel) Refresh() {
	snapshot := p.store.Snapshot()

	label, importance, icon := statusDisplay(snapshot.State)
	text := "Connection: " + label
	if snapshot.ConnErr != "" {
		text += " (" + snapshot.ConnErr + ")"
	}
	p.statusLabel.SetText(text)
	p.statusLabel.Importance = importance
	p.statusIcon.SetResource(resources.UIIconResource(icon))

	p.numberLabel.SetText("Current Number: " + formatCurrentNumber(snapshot.CurrentNumber))
	p.updateLabel.SetText("Last Update: " + formatLastUpdate(snapshot.LastUpdate))
}

// statusDisplay maps the internal connection state to its consumer-facing
// label and purely cosmetic styling.
func statusDisplay(state feed.ConnectionState) (string, widget.Importance, resources.UIIcon) {
	switch state {
	case feed.ConnectionStateConnected:
		return "Connected", widget.SuccessImportance, resources.UIIconConnected
	case feed.ConnectionStateError:
		return "Error", widget.DangerImportance, resources.UIIconError
	case feed.ConnectionStateConnecting:
		return "Connecting", widget.MediumImportance, resources.UIIconDisconnected
	default:
		return "Disconnected", widget.MediumImportance, resources.UIIconDisconnected
	}
}

func formatCurrentNumber(number *int64) string {
	if number == nil {
		return "None"
	}

	return fmt.Sprintf("%d", *number)
}

func formatLastUpdate(at time.Time) string {
	if at.IsZero() {
		return "Never"
	}

	return at.Local().Format("15:04:05")
}
