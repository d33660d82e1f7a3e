package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/aliskhannn/kural-wallpaper/internal/domain/entities"
	"github.com/aliskhannn/kural-wallpaper/internal/infra/postgres"
)

// TxRunner runs fn inside a database transaction.
type TxRunner interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx pgx.Tx) error) error
}

// HistoryRepository records which verse was used for each day.
type HistoryRepository struct {
	db postgres.DBTX
	tx TxRunner
}

// NewHistoryRepository creates a new HistoryRepository.
func NewHistoryRepository(db postgres.DBTX, tx TxRunner) *HistoryRepository {
	return &HistoryRepository{db: db, tx: tx}
}

// Record stores the wallpaper for its date and bumps the verse usage counter.
// Regenerating the same day replaces that day's entry.
func (r *HistoryRepository) Record(ctx context.Context, w *entities.Wallpaper) error {
	date := dateOnly(w.Date)

	return r.tx.WithinTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		query := `
			INSERT INTO wallpaper_history (date_local, kural_no, path)
			VALUES ($1, $2, $3)
			ON CONFLICT (date_local) DO UPDATE
			SET kural_no = EXCLUDED.kural_no,
			    path = EXCLUDED.path,
			    created_at = now()
		`
		if _, err := tx.Exec(ctx, query, date, w.Verse.Number, w.Path); err != nil {
			return fmt.Errorf("insert history: %w", err)
		}

		query = `
			INSERT INTO kural_usage (kural_no, times_used, last_used)
			VALUES ($1, 1, $2)
			ON CONFLICT (kural_no) DO UPDATE
			SET times_used = kural_usage.times_used + 1,
			    last_used = EXCLUDED.last_used
		`
		if _, err := tx.Exec(ctx, query, w.Verse.Number, date); err != nil {
			return fmt.Errorf("update usage: %w", err)
		}

		return nil
	})
}

// GetByDate returns the verse number recorded for date, or 0 if the day has no entry.
func (r *HistoryRepository) GetByDate(ctx context.Context, date time.Time) (int, error) {
	query := `SELECT kural_no FROM wallpaper_history WHERE date_local = $1`

	var number int
	err := r.db.QueryRow(ctx, query, dateOnly(date)).Scan(&number)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get history by date: %w", err)
	}

	return number, nil
}

// dateOnly drops the clock part while keeping the calendar day of t.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
