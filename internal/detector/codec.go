package detector

import (
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"numwatch/internal/domain"
)

const messageTypeNumberDetected = "number_detected"

// wireMessage is one JSON text frame from the detection server:
//
//	{"type": "number_detected", "number": 42, "timestamp": 1700000000000}
//
// The timestamp is epoch milliseconds, but older server builds emit an ISO
// 8601 string instead, so both forms are accepted.
type wireMessage struct {
	Type      string          `json:"type"`
	Number    *json.Number    `json:"number"`
	Timestamp json.RawMessage `json:"timestamp"`
}

type Codec struct{}

func NewCodec() Codec {
	return Codec{}
}

// Decode parses one inbound frame. It returns nil for well-formed frames that
// are not number_detected events and an error for frames that cannot be
// interpreted.
func (Codec) Decode(payload []byte, receivedAt time.Time) (*domain.Reading, error) {
	var msg wireMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		return nil, fmt.Errorf("decode feed frame: %w", err)
	}
	if msg.Type != messageTypeNumberDetected {
		return nil, nil
	}
	if msg.Number == nil {
		return nil, errors.New("number_detected frame without number")
	}
	number, err := msg.Number.Int64()
	if err != nil {
		return nil, fmt.Errorf("parse detected number %q: %w", msg.Number.String(), err)
	}

	detectedAt := parseTimestamp(msg.Timestamp)
	if detectedAt.IsZero() {
		detectedAt = receivedAt
	}

	return &domain.Reading{
		Number:     number,
		DetectedAt: detectedAt,
		ReceivedAt: receivedAt,
	}, nil
}

func parseTimestamp(raw json.RawMessage) time.Time {
	if len(raw) == 0 {
		return time.Time{}
	}

	var millis int64
	if err := json.Unmarshal(raw, &millis); err == nil {
		if millis <= 0 {
			return time.Time{}
		}

		return time.UnixMilli(millis)
	}

	var text string
	if err := json.Unmarshal(raw, &text); err != nil {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999999"} {
		if parsed, err := time.ParseInLocation(layout, text, time.Local); err == nil {
			return parsed
		}
	}

	return time.Time{}
}
