package migrations

import (
	"context"
	"fmt"

	"ms-booking/internal/models"

	"github.com/uptrace/bun"
)

// Run creates the booking core tables if they do not exist yet.
func Run(ctx context.Context, db *bun.DB) error {
	tables := []interface{}{
		(*models.Movie)(nil),
		(*models.Showtime)(nil),
		(*models.User)(nil),
		(*models.Booking)(nil),
	}

	for _, table := range tables {
		if _, err := db.NewCreateTable().Model(table).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("create table for %T: %w", table, err)
		}
	}
	return nil
}
