package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Booking struct {
	ID         uuid.UUID
	ShowtimeID int64
	SeatNumber int
	UserID     string
	CreatedAt  time.Time
}

type BookingRepository interface {
	Create(ctx context.Context, booking *Booking) error
	ExistsByShowtimeAndSeatNumber(ctx context.Context, showtimeID int64, seatNumber int) (bool, error)
	GetByShowtimeId(ctx context.Context, showtimeID int64) ([]Booking, error)
}
