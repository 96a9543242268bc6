// Package memory is an in-process store used when no database is configured.
// It enforces the same referential rules as the Postgres schema: showtimes
// reference movies, bookings reference showtimes and cascade with them, and a
// seat is booked at most once per showtime.
package memory

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"github.com/metinatakli/showtime-booking/internal/domain"
)

type Store struct {
	mu sync.RWMutex

	movies    map[int64]domain.Movie
	showtimes map[int64]domain.Showtime
	bookings  map[int64][]domain.Booking

	movieSeq    int64
	showtimeSeq int64
}

func NewStore() *Store {
	return &Store{
		movies:    make(map[int64]domain.Movie),
		showtimes: make(map[int64]domain.Showtime),
		bookings:  make(map[int64][]domain.Booking),
	}
}

func (s *Store) Movies() *MovieRepository {
	return &MovieRepository{store: s}
}

func (s *Store) Showtimes() *ShowtimeRepository {
	return &ShowtimeRepository{store: s}
}

func (s *Store) Bookings() *BookingRepository {
	return &BookingRepository{store: s}
}

type MovieRepository struct {
	store *Store
}

func (r *MovieRepository) GetAll(ctx context.Context) ([]*domain.Movie, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	movies := make([]*domain.Movie, 0, len(r.store.movies))
	for _, m := range r.store.movies {
		movies = append(movies, &m)
	}

	slices.SortFunc(movies, func(a, b *domain.Movie) int {
		return cmp.Compare(a.ID, b.ID)
	})

	return movies, nil
}

func (r *MovieRepository) GetById(ctx context.Context, id int64) (*domain.Movie, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	movie, ok := r.store.movies[id]
	if !ok {
		return nil, domain.ErrRecordNotFound
	}

	return &movie, nil
}

func (r *MovieRepository) GetByTitle(ctx context.Context, title string) (*domain.Movie, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	movie, ok := r.store.movieByTitle(title)
	if !ok {
		return nil, domain.ErrRecordNotFound
	}

	return &movie, nil
}

func (r *MovieRepository) Create(ctx context.Context, movie *domain.Movie) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, exists := r.store.movieByTitle(movie.Title); exists {
		return domain.ErrDuplicateTitle
	}

	r.store.movieSeq++
	movie.ID = r.store.movieSeq
	r.store.movies[movie.ID] = *movie

	return nil
}

func (r *MovieRepository) UpdateByTitle(ctx context.Context, title string, movie *domain.Movie) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	current, ok := r.store.movieByTitle(title)
	if !ok {
		return domain.ErrRecordNotFound
	}

	if other, exists := r.store.movieByTitle(movie.Title); exists && other.ID != current.ID {
		return domain.ErrDuplicateTitle
	}

	movie.ID = current.ID
	r.store.movies[movie.ID] = *movie

	return nil
}

func (r *MovieRepository) DeleteByTitle(ctx context.Context, title string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	movie, ok := r.store.movieByTitle(title)
	if !ok {
		return domain.ErrRecordNotFound
	}

	for _, showtime := range r.store.showtimes {
		if showtime.MovieID == movie.ID {
			return domain.ErrMovieInUse
		}
	}

	delete(r.store.movies, movie.ID)

	return nil
}

func (s *Store) movieByTitle(title string) (domain.Movie, bool) {
	for _, m := range s.movies {
		if m.Title == title {
			return m, true
		}
	}

	return domain.Movie{}, false
}

type ShowtimeRepository struct {
	store *Store
}

func (r *ShowtimeRepository) NextID(ctx context.Context) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.store.showtimeSeq++

	return r.store.showtimeSeq, nil
}

func (r *ShowtimeRepository) Create(ctx context.Context, showtime *domain.Showtime) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.movies[showtime.MovieID]; !ok {
		return domain.ErrUnknownMovie
	}

	if _, exists := r.store.showtimes[showtime.ID]; exists {
		return domain.ErrEditConflict
	}

	r.store.showtimes[showtime.ID] = *showtime

	return nil
}

func (r *ShowtimeRepository) Update(ctx context.Context, showtime *domain.Showtime) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.showtimes[showtime.ID]; !ok {
		return domain.ErrRecordNotFound
	}

	if _, ok := r.store.movies[showtime.MovieID]; !ok {
		return domain.ErrUnknownMovie
	}

	r.store.showtimes[showtime.ID] = *showtime

	return nil
}

func (r *ShowtimeRepository) GetById(ctx context.Context, id int64) (*domain.Showtime, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	showtime, ok := r.store.showtimes[id]
	if !ok {
		return nil, domain.ErrRecordNotFound
	}

	return &showtime, nil
}

func (r *ShowtimeRepository) GetByTheater(ctx context.Context, theater string) ([]domain.Showtime, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var showtimes []domain.Showtime
	for _, s := range r.store.showtimes {
		if s.Theater == theater {
			showtimes = append(showtimes, s)
		}
	}

	slices.SortFunc(showtimes, func(a, b domain.Showtime) int {
		return a.StartTime.Compare(b.StartTime)
	})

	return showtimes, nil
}

func (r *ShowtimeRepository) GetByMovieAndTheaterAndStartTime(
	ctx context.Context,
	movieID int64,
	theater string,
	startTime time.Time,
) (*domain.Showtime, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, s := range r.store.showtimes {
		if s.MovieID == movieID && s.Theater == theater && s.StartTime.Equal(startTime) {
			return &s, nil
		}
	}

	return nil, domain.ErrRecordNotFound
}

func (r *ShowtimeRepository) Delete(ctx context.Context, id int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.showtimes[id]; !ok {
		return domain.ErrRecordNotFound
	}

	delete(r.store.showtimes, id)
	delete(r.store.bookings, id)

	return nil
}

type BookingRepository struct {
	store *Store
}

func (r *BookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.showtimes[booking.ShowtimeID]; !ok {
		return domain.ErrUnknownShowtime
	}

	for _, b := range r.store.bookings[booking.ShowtimeID] {
		if b.SeatNumber == booking.SeatNumber {
			return &domain.SeatTakenError{ShowtimeID: booking.ShowtimeID, SeatNumber: booking.SeatNumber}
		}
	}

	r.store.bookings[booking.ShowtimeID] = append(r.store.bookings[booking.ShowtimeID], *booking)

	return nil
}

func (r *BookingRepository) ExistsByShowtimeAndSeatNumber(ctx context.Context, showtimeID int64, seatNumber int) (bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, b := range r.store.bookings[showtimeID] {
		if b.SeatNumber == seatNumber {
			return true, nil
		}
	}

	return false, nil
}

func (r *BookingRepository) GetByShowtimeId(ctx context.Context, showtimeID int64) ([]domain.Booking, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	bookings := slices.Clone(r.store.bookings[showtimeID])
	if bookings == nil {
		bookings = []domain.Booking{}
	}

	slices.SortFunc(bookings, func(a, b domain.Booking) int {
		return cmp.Compare(a.SeatNumber, b.SeatNumber)
	})

	return bookings, nil
}
