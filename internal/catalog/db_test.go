package catalog

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

	bunDB := bun.NewDB(sqldb, sqlitedialect.New())
	ctx := context.Background()
	require.NoError(t, bunDB.ResetModel(ctx, (*models.Movie)(nil)))
	require.NoError(t, bunDB.ResetModel(ctx, (*models.Showtime)(nil)))

	return &DB{Bun: bunDB}
}

func TestCreateAndGetMovie(t *testing.T) {
	d := setupTestDB(t)
	ctx := context.Background()

	movie := models.Movie{
		ID: "movie-1", Title: "Inception", Genre: "Sci-Fi", RuntimeMinutes: 148, Language: "English",
	}
	require.NoError(t, d.CreateMovie(ctx, movie))

	found, err := d.GetMovie(ctx, "movie-1")
	require.NoError(t, err)
	assert.Equal(t, "Inception", found.Title)
	assert.Equal(t, 148, found.RuntimeMinutes)
}

func TestCreateAndGetShowtime(t *testing.T) {
	d := setupTestDB(t)
	ctx := context.Background()

	showtime := models.Showtime{
		ID: "show-1", MovieID: "movie-1", Theater: "PVR Cinemas",
		StartTime: time.Now().Add(2 * time.Hour).Round(time.Second),
		Capacity:  50, AvailableSeats: 50,
	}
	require.NoError(t, d.CreateShowtime(ctx, showtime))

	found, err := d.GetShowtime(ctx, "show-1")
	require.NoError(t, err)
	assert.Equal(t, "movie-1", found.MovieID)
	assert.Equal(t, 50, found.Capacity)
}

func TestGet_NotFound(t *testing.T) {
	d := setupTestDB(t)
	ctx := context.Background()

	_, err := d.GetMovie(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = d.GetShowtime(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}
