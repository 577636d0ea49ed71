package inventory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"ms-booking/internal/models"

	"github.com/uptrace/bun"
)

// DB is the bun-backed showtime inventory store. The conditional UPDATEs keep
// 0 <= available_seats <= capacity even if a second writer slips past the
// per-showtime lock.
type DB struct {
	Bun *bun.DB
}

func (d *DB) GetShowtime(ctx context.Context, id string) (*models.Showtime, error) {
	var showtime models.Showtime
	err := d.Bun.NewSelect().
		Model(&showtime).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrShowtimeNotFound
		}
		return nil, fmt.Errorf("select showtime: %w", err)
	}
	return &showtime, nil
}

// DecrementSeats takes seatCount seats from the showtime. It reports false
// without mutating anything when fewer than seatCount seats remain.
func (d *DB) DecrementSeats(ctx context.Context, id string, seatCount int) (bool, error) {
	res, err := d.Bun.NewUpdate().
		Model((*models.Showtime)(nil)).
		Set("available_seats = available_seats - ?", seatCount).
		Where("id = ?", id).
		Where("available_seats >= ?", seatCount).
		Exec(ctx)
	if err != nil {
		return false, fmt.Errorf("decrement seats: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("decrement seats: %w", err)
	}
	return rows > 0, nil
}

// IncrementSeats returns seatCount seats to the showtime. It reports false
// without mutating anything when the increment would push availability past
// capacity, which means the release has no matching reserve.
func (d *DB) IncrementSeats(ctx context.Context, id string, seatCount int) (bool, error) {
	res, err := d.Bun.NewUpdate().
		Model((*models.Showtime)(nil)).
		Set("available_seats = available_seats + ?", seatCount).
		Where("id = ?", id).
		Where("available_seats + ? <= capacity", seatCount).
		Exec(ctx)
	if err != nil {
		return false, fmt.Errorf("increment seats: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("increment seats: %w", err)
	}
	return rows > 0, nil
}
