package app

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"numwatch/internal/bus"
	"numwatch/internal/config"
	"numwatch/internal/domain"
	"numwatch/internal/feed"
	"numwatch/internal/notifications"
)

const (
	notificationTitleNumber = "Number detected"
	notificationTitleFeed   = "Feed connection"
)

// NotificationService listens to bus events and emits user-facing
// notifications according to the configured preferences.
type NotificationService struct {
	bus           bus.MessageBus
	currentConfig func() config.AppConfig
	isForeground  func() bool
	sender        notifications.Sender
	logger        *slog.Logger

	connStateMu  sync.Mutex
	lastState    feed.ConnectionState
	lastStateSet bool
}

func NewNotificationService(
	messageBus bus.MessageBus,
	currentConfig func() config.AppConfig,
	isForeground func() bool,
	sender notifications.Sender,
	logger *slog.Logger,
) *NotificationService {
	if logger == nil {
		logger = slog.Default().With("component", "app.notifications")
	}

	return &NotificationService{
		bus:           messageBus,
		currentConfig: currentConfig,
		isForeground:  isForeground,
		sender:        sender,
		logger:        logger,
	}
}

func (s *NotificationService) Start(ctx context.Context) {
	if s == nil || s.bus == nil || s.sender == nil {
		return
	}

	readingSub := s.bus.Subscribe(feed.TopicReading)
	connSub := s.bus.Subscribe(feed.TopicConnStatus)

	go func() {
		defer s.bus.Unsubscribe(readingSub, feed.TopicReading)
		defer s.bus.Unsubscribe(connSub, feed.TopicConnStatus)

		for {
			select {
			case <-ctx.Done():
				return
			case raw, ok := <-readingSub:
				if !ok {
					return
				}
				reading, ok := raw.(domain.Reading)
				if !ok {
					continue
				}
				s.handleReading(reading)
			case raw, ok := <-connSub:
				if !ok {
					return
				}
				status, ok := raw.(feed.ConnStatus)
				if !ok {
					continue
				}
				s.handleConnStatus(status)
			}
		}
	}()
}

func (s *NotificationService) handleReading(reading domain.Reading) {
	prefs := s.notificationPrefs()
	if !s.shouldNotify(prefs, prefs.Events.NumberDetected) {
		return
	}
	s.sender.Send(notifications.Payload{
		Title:   notificationTitleNumber,
		Content: fmt.Sprintf("%d", reading.Number),
	})
}

func (s *NotificationService) handleConnStatus(status feed.ConnStatus) {
	s.connStateMu.Lock()
	changed := !s.lastStateSet || s.lastState != status.State
	s.lastState = status.State
	s.lastStateSet = true
	s.connStateMu.Unlock()

	if !changed || status.State == feed.ConnectionStateConnecting {
		return
	}

	prefs := s.notificationPrefs()
	if !s.shouldNotify(prefs, prefs.Events.ConnectionStatus) {
		return
	}

	content := string(status.State)
	if status.Err != "" {
		content += ": " + status.Err
	}
	s.sender.Send(notifications.Payload{
		Title:   notificationTitleFeed,
		Content: content,
	})
}

func (s *NotificationService) notificationPrefs() config.NotificationConfig {
	if s.currentConfig == nil {
		return config.Default().UI.Notifications
	}

	return s.currentConfig().UI.Notifications
}

func (s *NotificationService) shouldNotify(prefs config.NotificationConfig, eventEnabled bool) bool {
	if !eventEnabled {
		return false
	}
	if prefs.NotifyWhenFocused {
		return true
	}
	if s.isForeground == nil {
		return true
	}

	return !s.isForeground()
}
