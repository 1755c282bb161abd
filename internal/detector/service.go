package detector

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/coder/websocket"

	"numwatch/internal/bus"
	"numwatch/internal/feed"
	"numwatch/internal/transport"
)

// Service owns a single live connection to the detection server for its whole
// lifetime. A closed or failed connection is terminal for the instance: a new
// session means a new Service. Automatic reconnection is deliberately not
// implemented.
type Service struct {
	logger    *slog.Logger
	transport transport.Transport
	codec     Codec
	bus       bus.MessageBus

	stopping  atomic.Bool
	closeOnce sync.Once
	done      chan struct{}
}

func NewService(logger *slog.Logger, b bus.MessageBus, tr transport.Transport, codec Codec) *Service {
	return &Service{
		logger:    logger,
		transport: tr,
		codec:     codec,
		bus:       b,
		done:      make(chan struct{}),
	}
}

func (s *Service) Start(ctx context.Context) {
	go s.run(ctx)
}

// Done is closed when the session has ended and the connection is closed.
func (s *Service) Done() <-chan struct{} {
	return s.done
}

// Shutdown closes the underlying connection. It is safe to call from any
// teardown path, the close happens exactly once.
func (s *Service) Shutdown() {
	s.stopping.Store(true)
	s.closeOnce.Do(func() {
		_ = s.transport.Close()
	})
}

func (s *Service) run(ctx context.Context) {
	defer close(s.done)

	s.publishConnStatus(feed.ConnectionStateConnecting, nil)
	if err := s.transport.Connect(ctx); err != nil {
		s.logger.Error("feed connect failed", "error", err)
		s.publishConnStatus(feed.ConnectionStateError, err)

		return
	}
	s.publishConnStatus(feed.ConnectionStateConnected, nil)

	err := s.runReader(ctx)
	orderly := s.stopping.Load() || isOrderlyClose(err)
	s.Shutdown()

	if orderly {
		s.logger.Info("feed session ended", "reason", err)
		s.publishConnStatus(feed.ConnectionStateDisconnected, nil)

		return
	}
	s.logger.Error("feed session failed", "error", err)
	s.publishConnStatus(feed.ConnectionStateError, err)
}

func (s *Service) runReader(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		payload, err := s.transport.ReadMessage(ctx)
		if err != nil {
			return err
		}

		s.bus.Publish(feed.TopicRawMessage, feed.RawMessage{Payload: string(payload), Len: len(payload)})

		reading, err := s.codec.Decode(payload, time.Now())
		if err != nil {
			// Malformed frames are dropped, they never end the session.
			s.logger.Warn("decode feed frame failed", "error", err)

			continue
		}
		if reading == nil {
			s.logger.Debug("ignoring off-type frame", "len", len(payload))

			continue
		}
		s.bus.Publish(feed.TopicReading, *reading)
	}
}

func (s *Service) publishConnStatus(state feed.ConnectionState, err error) {
	status := feed.ConnStatus{
		State:     state,
		Endpoint:  statusEndpoint(s.transport),
		Timestamp: time.Now(),
	}
	if err != nil {
		status.Err = err.Error()
	}
	s.bus.Publish(feed.TopicConnStatus, status)
}

// isOrderlyClose reports whether the reader ended through local teardown or a
// clean close from the server rather than a transport failure.
func isOrderlyClose(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return true
	}
	switch websocket.CloseStatus(err) {
	case websocket.StatusNormalClosure, websocket.StatusGoingAway:
		return true
	}

	return false
}

func statusEndpoint(tr transport.Transport) string {
	if resolver, ok := tr.(transport.StatusTargetResolver); ok {
		return resolver.StatusTarget()
	}

	return ""
}
