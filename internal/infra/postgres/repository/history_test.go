package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aliskhannn/kural-wallpaper/internal/domain/entities"
	"github.com/aliskhannn/kural-wallpaper/internal/infra/postgres"
)

// Runs against a real database when TEST_DATABASE_URL is set.
func newTestHistory(t *testing.T) *HistoryRepository {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL is not set")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, dsn, postgres.PoolConfig{MaxConns: 2, MaxConnLifetime: time.Minute})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, postgres.EnsureSchema(ctx, pool))
	_, err = pool.Exec(ctx, `TRUNCATE wallpaper_history, kural_usage`)
	require.NoError(t, err)

	return NewHistoryRepository(pool, postgres.NewTransactor(pool))
}

func TestHistoryRepository_RecordAndGet(t *testing.T) {
	repo := newTestHistory(t)
	ctx := context.Background()
	day := time.Date(2024, time.June, 1, 21, 15, 0, 0, time.Local)

	number, err := repo.GetByDate(ctx, day)
	require.NoError(t, err)
	assert.Zero(t, number)

	w := &entities.Wallpaper{Verse: &entities.Verse{Number: 391}, Path: "/tmp/wallpaper_2024-06-01.png", Date: day}
	require.NoError(t, repo.Record(ctx, w))

	number, err = repo.GetByDate(ctx, day)
	require.NoError(t, err)
	assert.Equal(t, 391, number)

	// Regenerating the same day replaces the entry.
	w.Verse = &entities.Verse{Number: 396}
	require.NoError(t, repo.Record(ctx, w))

	number, err = repo.GetByDate(ctx, day)
	require.NoError(t, err)
	assert.Equal(t, 396, number)
}

func TestDateOnly(t *testing.T) {
	d := dateOnly(time.Date(2024, time.June, 1, 23, 59, 0, 0, time.FixedZone("IST", 5*3600+1800)))
	assert.Equal(t, time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC), d)
}
