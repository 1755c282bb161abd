package domain

import "time"

// Reading is one detected number received from the feed.
type Reading struct {
	LocalID    int64
	Number     int64
	DetectedAt time.Time
	ReceivedAt time.Time
}
