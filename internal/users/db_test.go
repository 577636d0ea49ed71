package users

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
	require.NoError(t, bunDB.ResetModel(context.Background(), (*models.User)(nil)))

	return &DB{Bun: bunDB}
}

func TestCreateAndGetUser(t *testing.T) {
	d := setupTestDB(t)
	ctx := context.Background()

	user := models.User{
		ID: "user-1", FullName: "John Doe", Email: "john.doe@example.com",
		CreatedAt: time.Now().UTC().Round(time.Second),
	}
	require.NoError(t, d.CreateUser(ctx, user))

	found, err := d.GetUser(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "John Doe", found.FullName)
}

func TestGetUser_NotFound(t *testing.T) {
	d := setupTestDB(t)

	_, err := d.GetUser(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}
