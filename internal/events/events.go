// Package events publishes notifications about committed admission decisions.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/metinatakli/showtime-booking/internal/domain"
	"github.com/shopspring/decimal"
)

// Routing keys.
const (
	ShowtimeCreated = "showtime.created"
	ShowtimeUpdated = "showtime.updated"
	ShowtimeDeleted = "showtime.deleted"
	BookingCreated  = "booking.created"
)

type Publisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
	Close() error
}

type ShowtimeEvent struct {
	ShowtimeID int64           `json:"showtimeId"`
	MovieID    int64           `json:"movieId"`
	Theater    string          `json:"theater"`
	StartTime  time.Time       `json:"startTime"`
	EndTime    time.Time       `json:"endTime"`
	Price      decimal.Decimal `json:"price"`
}

func NewShowtimeEvent(s *domain.Showtime) ShowtimeEvent {
	return ShowtimeEvent{
		ShowtimeID: s.ID,
		MovieID:    s.MovieID,
		Theater:    s.Theater,
		StartTime:  s.StartTime,
		EndTime:    s.EndTime,
		Price:      s.Price,
	}
}

type BookingEvent struct {
	BookingID  uuid.UUID `json:"bookingId"`
	ShowtimeID int64     `json:"showtimeId"`
	SeatNumber int       `json:"seatNumber"`
	UserID     string    `json:"userId"`
	CreatedAt  time.Time `json:"createdAt"`
}

func NewBookingEvent(b *domain.Booking) BookingEvent {
	return BookingEvent{
		BookingID:  b.ID,
		ShowtimeID: b.ShowtimeID,
		SeatNumber: b.SeatNumber,
		UserID:     b.UserID,
		CreatedAt:  b.CreatedAt,
	}
}

// NoopPublisher discards every event. It is used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, string, any) error {
	return nil
}

func (NoopPublisher) Close() error {
	return nil
}
