package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// LocalTimestampLayout is the zone-less ISO-8601 form accepted for start
// times in query strings. Values in this layout are read as UTC.
const LocalTimestampLayout = "2006-01-02T15:04:05"

type Showtime struct {
	ID        int64
	MovieID   int64
	Theater   string
	StartTime time.Time
	EndTime   time.Time
	Price     decimal.Decimal
}

// Overlaps reports whether the half-open interval [start, end) intersects
// the showtime's own [StartTime, EndTime). Touching boundaries do not overlap.
func (s Showtime) Overlaps(start, end time.Time) bool {
	return start.Before(s.EndTime) && end.After(s.StartTime)
}

func (s Showtime) ValidInterval() bool {
	return s.EndTime.After(s.StartTime)
}

// ParseTimestamp accepts RFC 3339 or the zone-less LocalTimestampLayout and
// always returns a UTC time.
func ParseTimestamp(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t.UTC(), nil
	}

	t, err := time.ParseInLocation(LocalTimestampLayout, value, time.UTC)
	if err != nil {
		return time.Time{}, ErrInvalidTimeFormat
	}

	return t, nil
}

type ShowtimeRepository interface {
	// NextID returns the next value of the monotonic showtime id sequence.
	NextID(ctx context.Context) (int64, error)
	Create(ctx context.Context, showtime *Showtime) error
	Update(ctx context.Context, showtime *Showtime) error
	GetById(ctx context.Context, id int64) (*Showtime, error)
	GetByTheater(ctx context.Context, theater string) ([]Showtime, error)
	GetByMovieAndTheaterAndStartTime(ctx context.Context, movieID int64, theater string, startTime time.Time) (*Showtime, error)
	// Delete removes the showtime and every booking made for it.
	Delete(ctx context.Context, id int64) error
}
