package feed

import "time"

// ConnectionState describes the feed connection lifecycle state shown in UI.
type ConnectionState string

const (
	ConnectionStateDisconnected ConnectionState = "disconnected"
	ConnectionStateConnecting   ConnectionState = "connecting"
	ConnectionStateConnected    ConnectionState = "connected"
	ConnectionStateError        ConnectionState = "error"
)

// ConnStatus is a bus event snapshot of the current feed connection status.
// Each event overwrites the previous state, there is no merging.
type ConnStatus struct {
	State     ConnectionState
	Err       string
	Endpoint  string
	Timestamp time.Time
}

// RawMessage carries an inbound text frame for debug/log views.
type RawMessage struct {
	Payload string
	Len     int
}
