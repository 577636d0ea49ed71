package inventory

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"ms-booking/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func setupTestDB(t *testing.T) *DB {
	sqldb, err := sql.Open(sqliteshim.ShimName, "file::memory:?cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { sqldb.Close() })

	// One connection keeps concurrent access from tripping SQLite busy errors.
	sqldb.SetMaxOpenConns(1)

	bunDB := bun.NewDB(sqldb, sqlitedialect.New())
	err = bunDB.ResetModel(context.Background(), (*models.Showtime)(nil))
	require.NoError(t, err)

	return &DB{Bun: bunDB}
}

func seedShowtime(t *testing.T, d *DB, id string, capacity, available int) {
	_, err := d.Bun.NewInsert().Model(&models.Showtime{
		ID:             id,
		MovieID:        "movie-1",
		Theater:        "PVR Cinemas",
		StartTime:      time.Now().Add(2 * time.Hour),
		Capacity:       capacity,
		AvailableSeats: available,
	}).Exec(context.Background())
	require.NoError(t, err)
}

func TestDecrementSeats(t *testing.T) {
	d := setupTestDB(t)
	seedShowtime(t, d, "show-1", 50, 50)
	ctx := context.Background()

	ok, err := d.DecrementSeats(ctx, "show-1", 3)
	require.NoError(t, err)
	assert.True(t, ok)

	showtime, err := d.GetShowtime(ctx, "show-1")
	require.NoError(t, err)
	assert.Equal(t, 47, showtime.AvailableSeats)
}

func TestDecrementSeats_Shortfall(t *testing.T) {
	d := setupTestDB(t)
	seedShowtime(t, d, "show-1", 50, 2)
	ctx := context.Background()

	ok, err := d.DecrementSeats(ctx, "show-1", 3)
	require.NoError(t, err)
	assert.False(t, ok, "shortfall must not mutate")

	showtime, err := d.GetShowtime(ctx, "show-1")
	require.NoError(t, err)
	assert.Equal(t, 2, showtime.AvailableSeats)
}

func TestDecrementSeats_ExactFit(t *testing.T) {
	d := setupTestDB(t)
	seedShowtime(t, d, "show-1", 50, 5)
	ctx := context.Background()

	ok, err := d.DecrementSeats(ctx, "show-1", 5)
	require.NoError(t, err)
	assert.True(t, ok, "exact remaining count must succeed")

	showtime, err := d.GetShowtime(ctx, "show-1")
	require.NoError(t, err)
	assert.Equal(t, 0, showtime.AvailableSeats)
}

func TestIncrementSeats(t *testing.T) {
	d := setupTestDB(t)
	seedShowtime(t, d, "show-1", 50, 47)
	ctx := context.Background()

	ok, err := d.IncrementSeats(ctx, "show-1", 3)
	require.NoError(t, err)
	assert.True(t, ok)

	showtime, err := d.GetShowtime(ctx, "show-1")
	require.NoError(t, err)
	assert.Equal(t, 50, showtime.AvailableSeats)
}

func TestIncrementSeats_PastCapacity(t *testing.T) {
	d := setupTestDB(t)
	seedShowtime(t, d, "show-1", 50, 49)
	ctx := context.Background()

	ok, err := d.IncrementSeats(ctx, "show-1", 3)
	require.NoError(t, err)
	assert.False(t, ok, "increment past capacity must not mutate")

	showtime, err := d.GetShowtime(ctx, "show-1")
	require.NoError(t, err)
	assert.Equal(t, 49, showtime.AvailableSeats)
}

func TestGetShowtime_NotFound(t *testing.T) {
	d := setupTestDB(t)

	_, err := d.GetShowtime(context.Background(), "no-such-show")
	assert.ErrorIs(t, err, ErrShowtimeNotFound)
}
