package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"ms-booking/internal/models"

	"github.com/uptrace/bun"
)

// ErrNotFound is returned when a movie or showtime id is unknown.
var ErrNotFound = errors.New("catalog entry not found")

// DB holds the immutable reference data describing what can be booked. The
// booking core reads it for validation and detail resolution; only the
// surrounding catalog management system writes it.
type DB struct {
	Bun *bun.DB
}

func (d *DB) GetMovie(ctx context.Context, id string) (*models.Movie, error) {
	var movie models.Movie
	err := d.Bun.NewSelect().
		Model(&movie).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select movie: %w", err)
	}
	return &movie, nil
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
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select showtime: %w", err)
	}
	return &showtime, nil
}

// CreateMovie seeds a movie record. Exposed for the surrounding catalog
// system and for tests; not part of the booking flow.
func (d *DB) CreateMovie(ctx context.Context, movie models.Movie) error {
	_, err := d.Bun.NewInsert().Model(&movie).Exec(ctx)
	return err
}

// CreateShowtime seeds a showtime with a full house of available seats.
func (d *DB) CreateShowtime(ctx context.Context, showtime models.Showtime) error {
	_, err := d.Bun.NewInsert().Model(&showtime).Exec(ctx)
	return err
}
