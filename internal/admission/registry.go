package admission

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/metinatakli/showtime-booking/internal/domain"
	"github.com/metinatakli/showtime-booking/internal/keylock"
)

// A theater change can race with another update moving the same showtime.
// After this many re-reads the update gives up with ErrEditConflict.
const maxRelockAttempts = 3

func theaterKey(theater string) string {
	return "theater:" + theater
}

func showtimeKey(id int64) string {
	return "showtime:" + strconv.FormatInt(id, 10)
}

// Registry owns the set of scheduled showtimes and keeps the showtimes of
// each theater pairwise non-overlapping.
type Registry struct {
	showtimes domain.ShowtimeRepository
	movies    domain.MovieCatalog
	locker    keylock.Locker
}

func NewRegistry(showtimes domain.ShowtimeRepository, movies domain.MovieCatalog, locker keylock.Locker) *Registry {
	return &Registry{
		showtimes: showtimes,
		movies:    movies,
		locker:    locker,
	}
}

func (r *Registry) Add(ctx context.Context, showtime domain.Showtime) (*domain.Showtime, error) {
	if !showtime.ValidInterval() {
		return nil, domain.ErrInvalidInterval
	}

	if err := r.resolveMovie(ctx, showtime.MovieID); err != nil {
		return nil, err
	}

	unlock, err := r.locker.Lock(ctx, theaterKey(showtime.Theater))
	if err != nil {
		return nil, err
	}
	defer unlock()

	if err := r.checkOverlap(ctx, showtime, 0); err != nil {
		return nil, err
	}

	id, err := r.showtimes.NextID(ctx)
	if err != nil {
		return nil, err
	}

	showtime.ID = id
	if err := r.showtimes.Create(ctx, &showtime); err != nil {
		return nil, err
	}

	return &showtime, nil
}

// Update replaces every field of the showtime except its id. Checks run in
// order: existence, interval, overlap against the target theater, then movie
// validity.
func (r *Registry) Update(ctx context.Context, id int64, showtime domain.Showtime) (*domain.Showtime, error) {
	for range maxRelockAttempts {
		current, err := r.showtimes.GetById(ctx, id)
		if err != nil {
			return nil, err
		}

		if !showtime.ValidInterval() {
			return nil, domain.ErrInvalidInterval
		}

		unlock, err := keylock.LockAll(ctx, r.locker, theaterKey(current.Theater), theaterKey(showtime.Theater))
		if err != nil {
			return nil, err
		}

		latest, err := r.showtimes.GetById(ctx, id)
		if err != nil {
			unlock()
			return nil, err
		}

		if latest.Theater != current.Theater {
			unlock()
			continue
		}

		updated, err := r.update(ctx, id, showtime)
		unlock()

		return updated, err
	}

	return nil, domain.ErrEditConflict
}

func (r *Registry) update(ctx context.Context, id int64, showtime domain.Showtime) (*domain.Showtime, error) {
	if err := r.checkOverlap(ctx, showtime, id); err != nil {
		return nil, err
	}

	if err := r.resolveMovie(ctx, showtime.MovieID); err != nil {
		return nil, err
	}

	showtime.ID = id
	if err := r.showtimes.Update(ctx, &showtime); err != nil {
		return nil, err
	}

	return &showtime, nil
}

func (r *Registry) Get(ctx context.Context, id int64) (*domain.Showtime, error) {
	return r.showtimes.GetById(ctx, id)
}

// DeleteById removes the showtime together with its bookings and returns the
// record as it was when removed.
func (r *Registry) DeleteById(ctx context.Context, id int64) (*domain.Showtime, error) {
	return r.delete(ctx, id, nil)
}

// DeleteByDetails removes the showtime of the movie that starts at startTime
// in the theater. A showtime moved away from those details by a concurrent
// update is no longer a match and is left in place.
func (r *Registry) DeleteByDetails(ctx context.Context, movieTitle, theater string, startTime time.Time) (*domain.Showtime, error) {
	movie, err := r.movies.GetByTitle(ctx, movieTitle)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return nil, domain.ErrUnknownMovie
		}

		return nil, err
	}

	showtime, err := r.showtimes.GetByMovieAndTheaterAndStartTime(ctx, movie.ID, theater, startTime)
	if err != nil {
		return nil, err
	}

	return r.delete(ctx, showtime.ID, func(s *domain.Showtime) bool {
		return s.MovieID == movie.ID && s.Theater == theater && s.StartTime.Equal(startTime)
	})
}

// delete holds the theater lock and the showtime's booking lock so that no
// booking can be admitted for a showtime that is being removed. The record is
// read again under the locks; if its theater moved before they were taken the
// locks are retaken for the new theater. A non-nil match rejects a record
// that no longer fits the caller's lookup with ErrRecordNotFound.
func (r *Registry) delete(ctx context.Context, id int64, match func(*domain.Showtime) bool) (*domain.Showtime, error) {
	for range maxRelockAttempts {
		current, err := r.showtimes.GetById(ctx, id)
		if err != nil {
			return nil, err
		}

		if match != nil && !match(current) {
			return nil, domain.ErrRecordNotFound
		}

		removed, retry, err := r.deleteLocked(ctx, current.Theater, id, match)
		if retry {
			continue
		}

		return removed, err
	}

	return nil, domain.ErrEditConflict
}

func (r *Registry) deleteLocked(ctx context.Context, theater string, id int64, match func(*domain.Showtime) bool) (*domain.Showtime, bool, error) {
	unlock, err := keylock.LockAll(ctx, r.locker, theaterKey(theater), showtimeKey(id))
	if err != nil {
		return nil, false, err
	}
	defer unlock()

	latest, err := r.showtimes.GetById(ctx, id)
	if err != nil {
		return nil, false, err
	}

	if match != nil && !match(latest) {
		return nil, false, domain.ErrRecordNotFound
	}

	if latest.Theater != theater {
		return nil, true, nil
	}

	if err := r.showtimes.Delete(ctx, id); err != nil {
		return nil, false, err
	}

	return latest, false, nil
}

func (r *Registry) resolveMovie(ctx context.Context, movieID int64) error {
	_, err := r.movies.GetById(ctx, movieID)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return domain.ErrUnknownMovie
		}

		return err
	}

	return nil
}

// checkOverlap scans the target theater, skipping the showtime being replaced.
// Ids start at 1, so excludeID 0 skips nothing.
func (r *Registry) checkOverlap(ctx context.Context, showtime domain.Showtime, excludeID int64) error {
	existing, err := r.showtimes.GetByTheater(ctx, showtime.Theater)
	if err != nil {
		return err
	}

	for _, other := range existing {
		if other.ID == excludeID {
			continue
		}

		if other.Overlaps(showtime.StartTime, showtime.EndTime) {
			return &domain.OverlapError{
				Theater:  showtime.Theater,
				Start:    showtime.StartTime,
				End:      showtime.EndTime,
				Conflict: &other,
			}
		}
	}

	return nil
}
