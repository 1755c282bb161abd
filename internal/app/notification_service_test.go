package app

import (
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"numwatch/internal/bus"
	"numwatch/internal/config"
	"numwatch/internal/domain"
	"numwatch/internal/feed"
	"numwatch/internal/notifications"
)

type captureSender struct {
	payloads chan notifications.Payload
}

func newCaptureSender() *captureSender {
	return &captureSender{payloads: make(chan notifications.Payload, 16)}
}

func (s *captureSender) Send(payload notifications.Payload) {
	s.payloads <- payload
}

func (s *captureSender) next(t *testing.T) notifications.Payload {
	t.Helper()
	select {
	case payload := <-s.payloads:
		return payload
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for notification")
		return notifications.Payload{}
	}
}

func (s *captureSender) expectNone(t *testing.T) {
	t.Helper()
	select {
	case payload := <-s.payloads:
		t.Fatalf("unexpected notification: %+v", payload)
	case <-time.After(100 * time.Millisecond):
	}
}

func startTestNotificationService(
	t *testing.T,
	cfg config.AppConfig,
	foreground bool,
) (bus.MessageBus, *captureSender) {
	t.Helper()

	b := bus.New(slog.New(slog.DiscardHandler))
	t.Cleanup(b.Close)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	sender := newCaptureSender()
	svc := NewNotificationService(
		b,
		func() config.AppConfig { return cfg },
		func() bool { return foreground },
		sender,
		slog.New(slog.DiscardHandler),
	)
	svc.Start(ctx)

	return b, sender
}

func TestNotificationServiceReadingNotifies(t *testing.T) {
	b, sender := startTestNotificationService(t, config.Default(), false)

	b.Publish(feed.TopicReading, domain.Reading{Number: 451, DetectedAt: time.Now()})

	payload := sender.next(t)
	if payload.Title != notificationTitleNumber {
		t.Fatalf("expected title %q, got %q", notificationTitleNumber, payload.Title)
	}
	if payload.Content != "451" {
		t.Fatalf("expected content 451, got %q", payload.Content)
	}
}

func TestNotificationServiceSuppressedWhenForeground(t *testing.T) {
	b, sender := startTestNotificationService(t, config.Default(), true)

	b.Publish(feed.TopicReading, domain.Reading{Number: 5, DetectedAt: time.Now()})

	sender.expectNone(t)
}

func TestNotificationServiceNotifyWhenFocusedOverride(t *testing.T) {
	cfg := config.Default()
	cfg.UI.Notifications.NotifyWhenFocused = true
	b, sender := startTestNotificationService(t, cfg, true)

	b.Publish(feed.TopicReading, domain.Reading{Number: 5, DetectedAt: time.Now()})

	if payload := sender.next(t); payload.Content != "5" {
		t.Fatalf("expected reading notification despite focus, got %+v", payload)
	}
}

func TestNotificationServiceReadingEventDisabled(t *testing.T) {
	cfg := config.Default()
	cfg.UI.Notifications.Events.NumberDetected = false
	b, sender := startTestNotificationService(t, cfg, false)

	b.Publish(feed.TopicReading, domain.Reading{Number: 5, DetectedAt: time.Now()})

	sender.expectNone(t)
}

func TestNotificationServiceConnStatusDedupe(t *testing.T) {
	b, sender := startTestNotificationService(t, config.Default(), false)

	b.Publish(feed.TopicConnStatus, feed.ConnStatus{State: feed.ConnectionStateConnecting})
	b.Publish(feed.TopicConnStatus, feed.ConnStatus{State: feed.ConnectionStateConnected})
	b.Publish(feed.TopicConnStatus, feed.ConnStatus{State: feed.ConnectionStateConnected})
	b.Publish(feed.TopicConnStatus, feed.ConnStatus{
		State: feed.ConnectionStateError,
		Err:   "read failed",
	})

	first := sender.next(t)
	if first.Title != notificationTitleFeed || first.Content != string(feed.ConnectionStateConnected) {
		t.Fatalf("expected connected notification first, got %+v", first)
	}

	second := sender.next(t)
	if !strings.Contains(second.Content, "read failed") {
		t.Fatalf("expected error detail in notification, got %+v", second)
	}

	sender.expectNone(t)
}
