package persistence

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"numwatch/internal/domain"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(context.Background(), filepath.Join(t.TempDir(), "numwatch.db"))
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})

	return db
}

func TestReadingRepoInsertAndList(t *testing.T) {
	ctx := context.Background()
	repo := NewReadingRepo(openTestDB(t))

	base := time.UnixMilli(1700000000000)
	for i, number := range []int64{11, 22, 33} {
		at := base.Add(time.Duration(i) * time.Second)
		id, err := repo.Insert(ctx, domain.Reading{Number: number, DetectedAt: at, ReceivedAt: at})
		if err != nil {
			t.Fatalf("insert reading %d: %v", number, err)
		}
		if id <= 0 {
			t.Fatalf("expected positive local id, got %d", id)
		}
	}

	readings, err := repo.ListRecent(ctx, 10)
	if err != nil {
		t.Fatalf("list recent: %v", err)
	}
	if len(readings) != 3 {
		t.Fatalf("expected 3 readings, got %d", len(readings))
	}
	for i, want := range []int64{33, 22, 11} {
		if readings[i].Number != want {
			t.Fatalf("expected newest-first order [33 22 11], got %d at index %d", readings[i].Number, i)
		}
	}
	if !readings[0].ReceivedAt.Equal(base.Add(2 * time.Second)) {
		t.Fatalf("expected timestamps preserved at millisecond precision, got %v", readings[0].ReceivedAt)
	}
}

func TestReadingRepoListRecentLimit(t *testing.T) {
	ctx := context.Background()
	repo := NewReadingRepo(openTestDB(t))

	at := time.Now()
	for i := int64(0); i < 5; i++ {
		if _, err := repo.Insert(ctx, domain.Reading{Number: i, DetectedAt: at, ReceivedAt: at.Add(time.Duration(i) * time.Millisecond)}); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	readings, err := repo.ListRecent(ctx, 2)
	if err != nil {
		t.Fatalf("list recent: %v", err)
	}
	if len(readings) != 2 {
		t.Fatalf("expected limit applied, got %d readings", len(readings))
	}
	if readings[0].Number != 4 || readings[1].Number != 3 {
		t.Fatalf("expected readings [4 3], got [%d %d]", readings[0].Number, readings[1].Number)
	}
}

func TestReadingRepoPruneOlderThan(t *testing.T) {
	ctx := context.Background()
	repo := NewReadingRepo(openTestDB(t))

	cutoff := time.UnixMilli(1700000000000)
	old := cutoff.Add(-time.Hour)
	fresh := cutoff.Add(time.Hour)
	for _, at := range []time.Time{old, old.Add(time.Minute), fresh} {
		if _, err := repo.Insert(ctx, domain.Reading{Number: 1, DetectedAt: at, ReceivedAt: at}); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	pruned, err := repo.PruneOlderThan(ctx, cutoff)
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if pruned != 2 {
		t.Fatalf("expected 2 readings pruned, got %d", pruned)
	}

	remaining, err := repo.ListRecent(ctx, 10)
	if err != nil {
		t.Fatalf("list recent: %v", err)
	}
	if len(remaining) != 1 {
		t.Fatalf("expected 1 reading left, got %d", len(remaining))
	}
	if !remaining[0].ReceivedAt.Equal(fresh) {
		t.Fatalf("expected the fresh reading to survive, got %v", remaining[0].ReceivedAt)
	}
}
