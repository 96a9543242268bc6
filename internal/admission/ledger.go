package admission

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/metinatakli/showtime-booking/internal/domain"
	"github.com/metinatakli/showtime-booking/internal/keylock"
)

// Ledger records seat bookings, at most one per (showtime, seat).
type Ledger struct {
	showtimes domain.ShowtimeRepository
	bookings  domain.BookingRepository
	locker    keylock.Locker
	newID     func() uuid.UUID
	now       func() time.Time
}

func NewLedger(showtimes domain.ShowtimeRepository, bookings domain.BookingRepository, locker keylock.Locker) *Ledger {
	return &Ledger{
		showtimes: showtimes,
		bookings:  bookings,
		locker:    locker,
		newID:     uuid.New,
		now:       time.Now,
	}
}

func (l *Ledger) Create(ctx context.Context, showtimeID int64, seatNumber int, userID string) (*domain.Booking, error) {
	unlock, err := l.locker.Lock(ctx, showtimeKey(showtimeID))
	if err != nil {
		return nil, err
	}
	defer unlock()

	if _, err := l.showtimes.GetById(ctx, showtimeID); err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return nil, domain.ErrUnknownShowtime
		}

		return nil, err
	}

	taken, err := l.bookings.ExistsByShowtimeAndSeatNumber(ctx, showtimeID, seatNumber)
	if err != nil {
		return nil, err
	}

	if taken {
		return nil, &domain.SeatTakenError{ShowtimeID: showtimeID, SeatNumber: seatNumber}
	}

	booking := &domain.Booking{
		ID:         l.newID(),
		ShowtimeID: showtimeID,
		SeatNumber: seatNumber,
		UserID:     userID,
		CreatedAt:  l.now().UTC(),
	}

	if err := l.bookings.Create(ctx, booking); err != nil {
		return nil, err
	}

	return booking, nil
}

func (l *Ledger) GetByShowtime(ctx context.Context, showtimeID int64) ([]domain.Booking, error) {
	return l.bookings.GetByShowtimeId(ctx, showtimeID)
}
