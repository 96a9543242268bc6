package integration_test

import (
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/metinatakli/showtime-booking/internal/admission"
	"github.com/metinatakli/showtime-booking/internal/app"
	"github.com/metinatakli/showtime-booking/internal/keylock"
	"github.com/metinatakli/showtime-booking/internal/mocks"
	"github.com/metinatakli/showtime-booking/internal/repository"
	appvalidator "github.com/metinatakli/showtime-booking/internal/validator"
	"github.com/redis/go-redis/v9"
)

type TestApp struct {
	App          *app.Application
	DB           *pgxpool.Pool
	RedisClient  *redis.Client
	Publisher    *mocks.MockPublisher
	ShowtimeRepo *repository.PostgresShowtimeRepository
	BookingRepo  *repository.PostgresBookingRepository
	MovieRepo    *repository.PostgresMovieRepository
}

func newTestApp(cfg app.Config) (*TestApp, error) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	db, err := app.NewDatabasePool(cfg)
	if err != nil {
		return nil, err
	}

	redisClient, err := app.NewRedisClient(cfg)
	if err != nil {
		db.Close()
		return nil, err
	}

	movieRepo := repository.NewPostgresMovieRepository(db)
	showtimeRepo := repository.NewPostgresShowtimeRepository(db)
	bookingRepo := repository.NewPostgresBookingRepository(db)

	locker := keylock.NewRedisLocker(redisClient, logger,
		keylock.WithTTL(cfg.Lock.TTL),
		keylock.WithMaxWait(cfg.Lock.MaxWait),
	)

	controller := admission.NewController(
		admission.NewRegistry(showtimeRepo, movieRepo, locker),
		admission.NewLedger(showtimeRepo, bookingRepo, locker),
		logger,
	)

	publisher := &mocks.MockPublisher{}

	application := app.NewApp(
		cfg,
		logger,
		db,
		redisClient,
		appvalidator.NewValidator(),
		movieRepo,
		controller,
		publisher,
	)

	return &TestApp{
		App:          application,
		DB:           db,
		RedisClient:  redisClient,
		Publisher:    publisher,
		ShowtimeRepo: showtimeRepo,
		BookingRepo:  bookingRepo,
		MovieRepo:    movieRepo,
	}, nil
}

func (a *TestApp) Close() {
	a.RedisClient.Close()
	a.DB.Close()
}
