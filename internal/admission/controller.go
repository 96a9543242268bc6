// Package admission decides whether showtime and booking requests may be
// applied. Every decision is either an accepted record or a typed rejection
// from the domain package.
package admission

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/metinatakli/showtime-booking/internal/domain"
	"github.com/metinatakli/showtime-booking/internal/keylock"
	"github.com/shopspring/decimal"
)

const (
	OpAddShowtime             = "add_showtime"
	OpUpdateShowtime          = "update_showtime"
	OpDeleteShowtime          = "delete_showtime"
	OpDeleteShowtimeByDetails = "delete_showtime_by_details"
	OpCreateBooking           = "create_booking"

	outcomeLockTimeout = "LOCK_TIMEOUT"
	outcomeError       = "ERROR"
)

type ShowtimeInput struct {
	MovieID   int64
	Theater   string
	StartTime time.Time
	EndTime   time.Time
	Price     decimal.Decimal
}

func (in ShowtimeInput) showtime() domain.Showtime {
	return domain.Showtime{
		MovieID:   in.MovieID,
		Theater:   in.Theater,
		StartTime: in.StartTime.UTC(),
		EndTime:   in.EndTime.UTC(),
		Price:     in.Price,
	}
}

type BookingInput struct {
	ShowtimeID int64
	SeatNumber int
	UserID     string
}

type Controller struct {
	registry *Registry
	ledger   *Ledger
	logger   *slog.Logger
}

func NewController(registry *Registry, ledger *Ledger, logger *slog.Logger) *Controller {
	return &Controller{
		registry: registry,
		ledger:   ledger,
		logger:   logger,
	}
}

func (c *Controller) AddShowtime(ctx context.Context, input ShowtimeInput) (*domain.Showtime, error) {
	defer observeDuration(OpAddShowtime, time.Now())

	showtime, err := c.registry.Add(ctx, input.showtime())
	c.decide(ctx, OpAddShowtime, err)

	return showtime, err
}

func (c *Controller) UpdateShowtime(ctx context.Context, id int64, input ShowtimeInput) (*domain.Showtime, error) {
	defer observeDuration(OpUpdateShowtime, time.Now())

	showtime, err := c.registry.Update(ctx, id, input.showtime())
	c.decide(ctx, OpUpdateShowtime, err, "showtime_id", id)

	return showtime, err
}

func (c *Controller) GetShowtime(ctx context.Context, id int64) (*domain.Showtime, error) {
	return c.registry.Get(ctx, id)
}

func (c *Controller) DeleteShowtime(ctx context.Context, id int64) (*domain.Showtime, error) {
	defer observeDuration(OpDeleteShowtime, time.Now())

	showtime, err := c.registry.DeleteById(ctx, id)
	c.decide(ctx, OpDeleteShowtime, err, "showtime_id", id)

	return showtime, err
}

// DeleteShowtimeByDetails parses startTime before any lookup, so a malformed
// timestamp is always reported as ErrInvalidTimeFormat.
func (c *Controller) DeleteShowtimeByDetails(ctx context.Context, movieTitle, theater, startTime string) (*domain.Showtime, error) {
	defer observeDuration(OpDeleteShowtimeByDetails, time.Now())

	start, err := domain.ParseTimestamp(startTime)
	if err != nil {
		c.decide(ctx, OpDeleteShowtimeByDetails, err, "start_time", startTime)
		return nil, err
	}

	showtime, err := c.registry.DeleteByDetails(ctx, movieTitle, theater, start)
	c.decide(ctx, OpDeleteShowtimeByDetails, err, "movie_title", movieTitle, "theater", theater)

	return showtime, err
}

func (c *Controller) CreateBooking(ctx context.Context, input BookingInput) (*domain.Booking, error) {
	defer observeDuration(OpCreateBooking, time.Now())

	booking, err := c.ledger.Create(ctx, input.ShowtimeID, input.SeatNumber, input.UserID)
	c.decide(ctx, OpCreateBooking, err, "showtime_id", input.ShowtimeID, "seat_number", input.SeatNumber)

	return booking, err
}

// ListBookings returns the bookings of an existing showtime.
func (c *Controller) ListBookings(ctx context.Context, showtimeID int64) ([]domain.Booking, error) {
	if _, err := c.registry.Get(ctx, showtimeID); err != nil {
		return nil, err
	}

	return c.ledger.GetByShowtime(ctx, showtimeID)
}

func observeDuration(operation string, start time.Time) {
	decisionDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

func (c *Controller) decide(ctx context.Context, operation string, err error, attrs ...any) {
	outcome := outcomeOf(err)
	decisionsTotal.WithLabelValues(operation, outcome).Inc()

	attrs = append(attrs, "operation", operation, "outcome", outcome)

	switch outcome {
	case outcomeAccepted:
		c.logger.InfoContext(ctx, "admission accepted", attrs...)
	case outcomeError, outcomeLockTimeout:
		c.logger.ErrorContext(ctx, "admission failed", append(attrs, "error", err)...)
	default:
		c.logger.WarnContext(ctx, "admission rejected", append(attrs, "error", err.Error())...)
	}
}

func outcomeOf(err error) string {
	if err == nil {
		return outcomeAccepted
	}

	if errors.Is(err, keylock.ErrTimeout) {
		return outcomeLockTimeout
	}

	if reason := domain.Reason(err); reason != "" {
		return reason
	}

	return outcomeError
}
