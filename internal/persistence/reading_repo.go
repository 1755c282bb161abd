package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"numwatch/internal/domain"
)

type ReadingRepo struct {
	db *sql.DB
}

func NewReadingRepo(db *sql.DB) *ReadingRepo {
	return &ReadingRepo{db: db}
}

func (r *ReadingRepo) Insert(ctx context.Context, reading domain.Reading) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO readings(number, detected_at, received_at)
		VALUES(?, ?, ?)
	`, reading.Number, toUnixMillis(reading.DetectedAt), toUnixMillis(reading.ReceivedAt))
	if err != nil {
		return 0, fmt.Errorf("insert reading: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("get reading local id: %w", err)
	}

	return id, nil
}

// ListRecent returns up to limit readings, newest first.
func (r *ReadingRepo) ListRecent(ctx context.Context, limit int) ([]domain.Reading, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT local_id, number, detected_at, received_at
		FROM readings
		ORDER BY received_at DESC, local_id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent readings: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var out []domain.Reading
	for rows.Next() {
		var (
			reading    domain.Reading
			detectedAt int64
			receivedAt int64
		)
		if err := rows.Scan(&reading.LocalID, &reading.Number, &detectedAt, &receivedAt); err != nil {
			return nil, fmt.Errorf("scan reading: %w", err)
		}
		reading.DetectedAt = fromUnixMillis(detectedAt)
		reading.ReceivedAt = fromUnixMillis(receivedAt)
		out = append(out, reading)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate readings: %w", err)
	}

	return out, nil
}

func (r *ReadingRepo) PruneOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM readings WHERE received_at < ?
	`, toUnixMillis(cutoff))
	if err != nil {
		return 0, fmt.Errorf("prune readings: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, nil
	}

	return affected, nil
}
