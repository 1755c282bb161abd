package transport

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/coder/websocket"
)

const (
	dialTimeout  = 10 * time.Second
	maxFrameSize = 64 * 1024
)

// WSTransport receives text frames over a single WebSocket connection.
// A transport instance handles at most one connection, it never redials.
type WSTransport struct {
	endpoint string

	mu   sync.Mutex
	conn *websocket.Conn
}

func NewWSTransport(endpoint string) *WSTransport {
	return &WSTransport{endpoint: endpoint}
}

func (t *WSTransport) Name() string {
	return "websocket"
}

func (t *WSTransport) Endpoint() string {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.endpoint
}

func (t *WSTransport) StatusTarget() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	parsed, err := url.Parse(t.endpoint)
	if err != nil || parsed.Host == "" {
		return t.endpoint
	}

	return parsed.Host
}

func (t *WSTransport) Connected() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.conn != nil
}

func (t *WSTransport) Connect(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	logger := transportLogger("websocket", "endpoint", t.endpoint)

	if t.conn != nil {
		logger.Debug("connect skipped: already connected")

		return nil
	}

	if t.endpoint == "" {
		logger.Warn("connect failed: endpoint is empty")

		return errors.New("websocket endpoint is empty")
	}

	dialCtx, cancel := context.WithTimeout(ctx, dialTimeout)
	defer cancel()

	logger.Info("connecting")
	conn, _, err := websocket.Dial(dialCtx, t.endpoint, nil)
	if err != nil {
		logger.Warn("connect failed", "error", err)

		return fmt.Errorf("dial websocket: %w", err)
	}
	conn.SetReadLimit(maxFrameSize)
	t.conn = conn
	logger.Info("connected")

	return nil
}

// Close tears down the connection. Closing an already-closed transport is a
// no-op.
func (t *WSTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	logger := transportLogger("websocket", "endpoint", t.endpoint)

	if t.conn == nil {
		logger.Debug("close skipped: not connected")

		return nil
	}
	err := t.conn.Close(websocket.StatusNormalClosure, "client shutdown")
	t.conn = nil
	if err != nil {
		// The peer may have closed first; the connection is gone either way.
		logger.Debug("close finished with error", "error", err)

		return nil
	}
	logger.Info("closed")

	return nil
}

// ReadMessage returns the next inbound text frame. Binary and control frames
// are skipped.
func (t *WSTransport) ReadMessage(ctx context.Context) ([]byte, error) {
	logger := transportLogger("websocket")
	conn, err := t.currentConn()
	if err != nil {
		logger.Debug("read failed: not connected", "error", err)

		return nil, err
	}

	for {
		msgType, payload, err := conn.Read(ctx)
		if err != nil {
			logger.Debug("read failed", "error", err)

			return nil, err
		}
		if msgType != websocket.MessageText {
			logger.Debug("skipping non-text frame", "type", msgType)

			continue
		}
		logger.Debug("read message", "len", len(payload))

		return payload, nil
	}
}

func (t *WSTransport) currentConn() (*websocket.Conn, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.conn == nil {
		return nil, errors.New("transport is not connected")
	}

	return t.conn, nil
}
