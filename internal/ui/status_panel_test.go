package ui

import (
	"errors"
	"strings"
	"testing"
	"time"

	fynetest "fyne.io/fyne/v2/test"
	"fyne.io/fyne/v2/widget"

	"numwatch/internal/domain"
	"numwatch/internal/feed"
	"numwatch/internal/resources"
)

func TestNewStatusPanelRequiresStore(t *testing.T) {
	if _, err := newStatusPanel(nil); !errors.Is(err, ErrMissingFeedStore) {
		t.Fatalf("expected ErrMissingFeedStore, got %v", err)
	}
}

func TestStatusPanelPlaceholders(t *testing.T) {
	app := fynetest.NewApp()
	t.Cleanup(app.Quit)

	panel, err := newStatusPanel(domain.NewFeedStore())
	if err != nil {
		t.Fatalf("new status panel: %v", err)
	}

	if panel.statusLabel.Text != "Connection: Disconnected" {
		t.Fatalf("expected disconnected status, got %q", panel.statusLabel.Text)
	}
	if panel.numberLabel.Text != "Current Number: None" {
		t.Fatalf("expected None placeholder, got %q", panel.numberLabel.Text)
	}
	if panel.updateLabel.Text != "Last Update: Never" {
		t.Fatalf("expected Never placeholder, got %q", panel.updateLabel.Text)
	}
}

func TestStatusPanelRefreshAfterReading(t *testing.T) {
	app := fynetest.NewApp()
	t.Cleanup(app.Quit)

	store := domain.NewFeedStore()
	panel, err := newStatusPanel(store)
	if err != nil {
		t.Fatalf("new status panel: %v", err)
	}

	detectedAt := time.Date(2026, 8, 30, 14, 5, 9, 0, time.Local)
	store.ApplyReading(domain.Reading{Number: 42, DetectedAt: detectedAt})
	store.ApplyConnStatus(feed.ConnStatus{State: feed.ConnectionStateConnected})
	panel.Refresh()

	if panel.numberLabel.Text != "Current Number: 42" {
		t.Fatalf("expected number 42, got %q", panel.numberLabel.Text)
	}
	if panel.updateLabel.Text != "Last Update: 14:05:09" {
		t.Fatalf("expected local time of the reading, got %q", panel.updateLabel.Text)
	}
	if panel.statusLabel.Text != "Connection: Connected" {
		t.Fatalf("expected connected status, got %q", panel.statusLabel.Text)
	}
	if panel.statusLabel.Importance != widget.SuccessImportance {
		t.Fatalf("expected success importance for connected state")
	}
}

func TestStatusPanelShowsErrorDetail(t *testing.T) {
	app := fynetest.NewApp()
	t.Cleanup(app.Quit)

	store := domain.NewFeedStore()
	panel, err := newStatusPanel(store)
	if err != nil {
		t.Fatalf("new status panel: %v", err)
	}

	store.ApplyConnStatus(feed.ConnStatus{
		State: feed.ConnectionStateError,
		Err:   "dial websocket: connection refused",
	})
	panel.Refresh()

	if !strings.Contains(panel.statusLabel.Text, "Error") {
		t.Fatalf("expected error status, got %q", panel.statusLabel.Text)
	}
	if !strings.Contains(panel.statusLabel.Text, "connection refused") {
		t.Fatalf("expected error detail in label, got %q", panel.statusLabel.Text)
	}
	if panel.statusLabel.Importance != widget.DangerImportance {
		t.Fatalf("expected danger importance for error state")
	}
}

func TestStatusDisplay(t *testing.T) {
	tests := []struct {
		state      feed.ConnectionState
		wantLabel  string
		wantImport widget.Importance
		wantIcon   resources.UIIcon
	}{
		{feed.ConnectionStateConnected, "Connected", widget.SuccessImportance, resources.UIIconConnected},
		{feed.ConnectionStateError, "Error", widget.DangerImportance, resources.UIIconError},
		{feed.ConnectionStateConnecting, "Connecting", widget.MediumImportance, resources.UIIconDisconnected},
		{feed.ConnectionStateDisconnected, "Disconnected", widget.MediumImportance, resources.UIIconDisconnected},
	}

	for _, tt := range tests {
		label, importance, icon := statusDisplay(tt.state)
		if label != tt.wantLabel || importance != tt.wantImport || icon != tt.wantIcon {
			t.Fatalf("state %q: got (%q, %d, %q)", tt.state, label, importance, icon)
		}
	}
}

func TestFormatLastUpdate(t *testing.T) {
	if got := formatLastUpdate(time.Time{}); got != "Never" {
		t.Fatalf("expected Never for zero time, got %q", got)
	}
	at := time.Date(2026, 8, 30, 9, 0, 1, 0, time.Local)
	if got := formatLastUpdate(at); got != "09:00:01" {
		t.Fatalf("expected 09:00:01, got %q", got)
	}
}
