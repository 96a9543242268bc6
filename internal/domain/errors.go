package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrRecordNotFound    = errors.New("record not found")
	ErrEditConflict      = errors.New("edit conflict")
	ErrUnknownMovie      = errors.New("movie does not exist")
	ErrUnknownShowtime   = errors.New("showtime does not exist")
	ErrOverlapConflict   = errors.New("showtime overlaps with an existing showtime in the same theater")
	ErrSeatTaken         = errors.New("seat already booked for this showtime")
	ErrInvalidTimeFormat = errors.New("invalid time format, use ISO-8601 (e.g. 2025-03-23T15:00:00)")
	ErrInvalidInterval   = errors.New("end time must be after start time")
	ErrDuplicateTitle    = errors.New("a movie with this title already exists")
	ErrMovieInUse        = errors.New("movie has scheduled showtimes")
)

// Rejection reasons reported alongside admission errors.
const (
	ReasonNotFound          = "NOT_FOUND"
	ReasonUnknownMovie      = "UNKNOWN_MOVIE"
	ReasonUnknownShowtime   = "UNKNOWN_SHOWTIME"
	ReasonOverlapConflict   = "OVERLAP_CONFLICT"
	ReasonSeatTaken         = "SEAT_TAKEN"
	ReasonInvalidTimeFormat = "INVALID_TIME_FORMAT"
	ReasonInvalidInterval   = "INVALID_INTERVAL"
	ReasonDuplicateTitle    = "DUPLICATE_TITLE"
	ReasonMovieInUse        = "MOVIE_IN_USE"
	ReasonEditConflict      = "EDIT_CONFLICT"
)

// OverlapError describes a scheduling collision within one theater. Conflict
// is nil when the collision was detected by the store rather than by a scan.
type OverlapError struct {
	Theater  string
	Start    time.Time
	End      time.Time
	Conflict *Showtime
}

func (e *OverlapError) Error() string {
	if e.Conflict == nil {
		return fmt.Sprintf("showtime %s - %s overlaps with an existing showtime in theater %q",
			e.Start.Format(time.RFC3339), e.End.Format(time.RFC3339), e.Theater)
	}

	return fmt.Sprintf("showtime %s - %s overlaps with showtime %d (%s - %s) in theater %q",
		e.Start.Format(time.RFC3339),
		e.End.Format(time.RFC3339),
		e.Conflict.ID,
		e.Conflict.StartTime.Format(time.RFC3339),
		e.Conflict.EndTime.Format(time.RFC3339),
		e.Theater,
	)
}

func (e *OverlapError) Unwrap() error {
	return ErrOverlapConflict
}

type SeatTakenError struct {
	ShowtimeID int64
	SeatNumber int
}

func (e *SeatTakenError) Error() string {
	return fmt.Sprintf("seat %d already booked for showtime %d", e.SeatNumber, e.ShowtimeID)
}

func (e *SeatTakenError) Unwrap() error {
	return ErrSeatTaken
}

// Reason maps an admission error to its rejection reason. It returns an empty
// string for errors that are not business rejections.
func Reason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrRecordNotFound):
		return ReasonNotFound
	case errors.Is(err, ErrUnknownMovie):
		return ReasonUnknownMovie
	case errors.Is(err, ErrUnknownShowtime):
		return ReasonUnknownShowtime
	case errors.Is(err, ErrOverlapConflict):
		return ReasonOverlapConflict
	case errors.Is(err, ErrSeatTaken):
		return ReasonSeatTaken
	case errors.Is(err, ErrInvalidTimeFormat):
		return ReasonInvalidTimeFormat
	case errors.Is(err, ErrInvalidInterval):
		return ReasonInvalidInterval
	case errors.Is(err, ErrDuplicateTitle):
		return ReasonDuplicateTitle
	case errors.Is(err, ErrMovieInUse):
		return ReasonMovieInUse
	case errors.Is(err, ErrEditConflict):
		return ReasonEditConflict
	default:
		return ""
	}
}
