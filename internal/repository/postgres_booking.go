package repository

import (
	"context"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/metinatakli/showtime-booking/internal/domain"
)

type PostgresBookingRepository struct {
	db *pgxpool.Pool
}

func NewPostgresBookingRepository(db *pgxpool.Pool) *PostgresBookingRepository {
	return &PostgresBookingRepository{
		db: db,
	}
}

func (p *PostgresBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	query := `
		INSERT INTO bookings (id, showtime_id, seat_number, user_id, created_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := p.db.Exec(ctx, query,
		booking.ID,
		booking.ShowtimeID,
		booking.SeatNumber,
		booking.UserID,
		booking.CreatedAt,
	)
	if err != nil {
		switch pgErrorCode(err) {
		case pgerrcode.UniqueViolation:
			return &domain.SeatTakenError{ShowtimeID: booking.ShowtimeID, SeatNumber: booking.SeatNumber}
		case pgerrcode.ForeignKeyViolation:
			return domain.ErrUnknownShowtime
		default:
			return err
		}
	}

	return nil
}

func (p *PostgresBookingRepository) ExistsByShowtimeAndSeatNumber(ctx context.Context, showtimeID int64, seatNumber int) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM bookings WHERE showtime_id = $1 AND seat_number = $2
		)`

	var exists bool
	if err := p.db.QueryRow(ctx, query, showtimeID, seatNumber).Scan(&exists); err != nil {
		return false, err
	}

	return exists, nil
}

func (p *PostgresBookingRepository) GetByShowtimeId(ctx context.Context, showtimeID int64) ([]domain.Booking, error) {
	query := `
		SELECT id, showtime_id, seat_number, user_id, created_at
		FROM bookings
		WHERE showtime_id = $1
		ORDER BY seat_number`

	rows, err := p.db.Query(ctx, query, showtimeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookings := []domain.Booking{}

	for rows.Next() {
		var booking domain.Booking

		err := rows.Scan(
			&booking.ID,
			&booking.ShowtimeID,
			&booking.SeatNumber,
			&booking.UserID,
			&booking.CreatedAt,
		)
		if err != nil {
			return nil, err
		}

		booking.CreatedAt = booking.CreatedAt.UTC()
		bookings = append(bookings, booking)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return bookings, nil
}
