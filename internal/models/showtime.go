package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Showtime references its Movie by id, not by embedded copy. AvailableSeats is
// mutated only through the inventory store; 0 <= AvailableSeats <= Capacity.
type Showtime struct {
	bun.BaseModel `bun:"table:showtimes"`

	ID             string    `bun:"id,pk" json:"id"`
	MovieID        string    `bun:"movie_id,notnull" json:"movie_id"`
	Theater        string    `bun:"theater,notnull" json:"theater"`
	StartTime      time.Time `bun:"start_time,notnull" json:"start_time"`
	Capacity       int       `bun:"capacity,notnull" json:"capacity"`
	AvailableSeats int       `bun:"available_seats,notnull" json:"available_seats"`
}
