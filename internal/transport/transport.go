package transport

import "context"

// Transport provides one inbound message stream from the detection server.
// The feed protocol is receive-only, there is no outbound traffic.
type Transport interface {
	Name() string
	Connect(ctx context.Context) error
	Close() error
	ReadMessage(ctx context.Context) ([]byte, error)
}

type StatusTargetResolver interface {
	StatusTarget() string
}
