package domain

import (
	"context"
	"sync"
	"time"

	"numwatch/internal/bus"
	"numwatch/internal/feed"
)

const recentReadingsCap = 100

// FeedSnapshot is a consistent view of the feed-derived state. CurrentNumber
// is nil until the first reading arrives, LastUpdate is zero until then.
type FeedSnapshot struct {
	CurrentNumber *int64
	State         feed.ConnectionState
	ConnErr       string
	LastUpdate    time.Time
}

// FeedStore is the single source of truth for feed-derived state shared with
// all UI consumers. Consumers read snapshots and watch Changes, they never
// mutate the store.
type FeedStore struct {
	mu       sync.RWMutex
	snapshot FeedSnapshot
	recent   []Reading
	changes  chan struct{}
}

func NewFeedStore() *FeedStore {
	return &FeedStore{
		snapshot: FeedSnapshot{State: feed.ConnectionStateDisconnected},
		changes:  make(chan struct{}, 1),
	}
}

// LoadHistory seeds the recent readings list, newest first. It does not touch
// CurrentNumber: history is cached context, not a live observation.
func (s *FeedStore) LoadHistory(readings []Reading) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recent = append([]Reading(nil), readings...)
	if len(s.recent) > recentReadingsCap {
		s.recent = s.recent[:recentReadingsCap]
	}
	s.notify()
}

func (s *FeedStore) Start(ctx context.Context, b bus.MessageBus) {
	readingSub := b.Subscribe(feed.TopicReading)
	connSub := b.Subscribe(feed.TopicConnStatus)
	go func() {
		defer b.Unsubscribe(readingSub, feed.TopicReading)
		defer b.Unsubscribe(connSub, feed.TopicConnStatus)
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-readingSub:
				if !ok {
					return
				}
				reading, ok := msg.(Reading)
				if !ok {
					continue
				}
				s.ApplyReading(reading)
			case msg, ok := <-connSub:
				if !ok {
					return
				}
				status, ok := msg.(feed.ConnStatus)
				if !ok {
					continue
				}
				s.ApplyConnStatus(status)
			}
		}
	}()
}

// ApplyReading replaces CurrentNumber and LastUpdate together so consumers
// never observe a partially updated snapshot.
func (s *FeedStore) ApplyReading(reading Reading) {
	s.mu.Lock()
	defer s.mu.Unlock()

	number := reading.Number
	s.snapshot.CurrentNumber = &number
	s.snapshot.LastUpdate = reading.DetectedAt
	s.recent = append([]Reading{reading}, s.recent...)
	if len(s.recent) > recentReadingsCap {
		s.recent = s.recent[:recentReadingsCap]
	}
	s.notify()
}

// ApplyConnStatus overwrites the connection state regardless of the prior
// value.
func (s *FeedStore) ApplyConnStatus(status feed.ConnStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.State = status.State
	s.snapshot.ConnErr = status.Err
	s.notify()
}

func (s *FeedStore) Snapshot() FeedSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := s.snapshot
	if s.snapshot.CurrentNumber != nil {
		number := *s.snapshot.CurrentNumber
		out.CurrentNumber = &number
	}

	return out
}

func (s *FeedStore) RecentReadings() []Reading {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]Reading(nil), s.recent...)
}

func (s *FeedStore) Changes() <-chan struct{} {
	return s.changes
}

func (s *FeedStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = FeedSnapshot{State: s.snapshot.State}
	s.recent = nil
	s.notify()
}

func (s *FeedStore) notify() {
	select {
	case s.changes <- struct{}{}:
	default:
	}
}
