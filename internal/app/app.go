package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/exaring/otelpgx"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/metinatakli/showtime-booking/api"
	"github.com/metinatakli/showtime-booking/internal/admission"
	"github.com/metinatakli/showtime-booking/internal/domain"
	"github.com/metinatakli/showtime-booking/internal/events"
	"github.com/metinatakli/showtime-booking/internal/keylock"
	"github.com/metinatakli/showtime-booking/internal/repository"
	"github.com/metinatakli/showtime-booking/internal/repository/memory"
	appvalidator "github.com/metinatakli/showtime-booking/internal/validator"
	"github.com/metinatakli/showtime-booking/internal/vcs"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"
	"github.com/riandyrn/otelchi"
	"go.opentelemetry.io/contrib/bridges/otelslog"
)

const serviceName = "showtime-booking-api"

var (
	version = vcs.Version()
)

// Admission is the write path for showtimes and bookings.
type Admission interface {
	AddShowtime(ctx context.Context, input admission.ShowtimeInput) (*domain.Showtime, error)
	UpdateShowtime(ctx context.Context, id int64, input admission.ShowtimeInput) (*domain.Showtime, error)
	GetShowtime(ctx context.Context, id int64) (*domain.Showtime, error)
	DeleteShowtime(ctx context.Context, id int64) (*domain.Showtime, error)
	DeleteShowtimeByDetails(ctx context.Context, movieTitle, theater, startTime string) (*domain.Showtime, error)
	CreateBooking(ctx context.Context, input admission.BookingInput) (*domain.Booking, error)
	ListBookings(ctx context.Context, showtimeID int64) ([]domain.Booking, error)
}

type Application struct {
	config    Config
	logger    *slog.Logger
	db        *pgxpool.Pool
	redis     redis.UniversalClient
	validator *validator.Validate

	movieRepo domain.MovieRepository
	admission Admission
	publisher events.Publisher
}

func NewApp(
	cfg Config,
	logger *slog.Logger,
	db *pgxpool.Pool,
	redisClient redis.UniversalClient,
	validator *validator.Validate,
	movieRepo domain.MovieRepository,
	admission Admission,
	publisher events.Publisher,
) *Application {

	return &Application{
		config:    cfg,
		logger:    logger,
		db:        db,
		redis:     redisClient,
		validator: validator,
		movieRepo: movieRepo,
		admission: admission,
		publisher: publisher,
	}
}

func Run() error {
	cfg, displayVersion, err := LoadConfig(os.Args[1:])
	if err != nil {
		return err
	}

	if displayVersion {
		fmt.Printf("Version:\t%s\n", version)
		os.Exit(0)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	app := &Application{config: cfg, logger: logger}

	shutdownTelemetry, err := app.InitTelemetry()
	if err != nil {
		return err
	}
	defer shutdownTelemetry(context.Background())

	if cfg.OtelCollectorUrl != "" {
		logger = slog.New(NewMultiHandler(logger.Handler(), otelslog.NewHandler(serviceName)))
	}

	var (
		movieRepo    domain.MovieRepository
		showtimeRepo domain.ShowtimeRepository
		bookingRepo  domain.BookingRepository
		db           *pgxpool.Pool
	)

	if cfg.DB.DSN != "" {
		if cfg.DB.Migrate {
			if err := repository.Migrate(cfg.DB.DSN); err != nil {
				return err
			}
		}

		db, err = NewDatabasePool(cfg)
		if err != nil {
			return err
		}
		defer db.Close()

		movieRepo = repository.NewPostgresMovieRepository(db)
		showtimeRepo = repository.NewPostgresShowtimeRepository(db)
		bookingRepo = repository.NewPostgresBookingRepository(db)
	} else {
		logger.Warn("database DSN not set, keeping state in memory")

		store := memory.NewStore()
		movieRepo = store.Movies()
		showtimeRepo = store.Showtimes()
		bookingRepo = store.Bookings()
	}

	var (
		locker      keylock.Locker
		redisClient redis.UniversalClient
	)

	if cfg.Redis.URL != "" {
		rdb, err := NewRedisClient(cfg)
		if err != nil {
			return err
		}
		defer rdb.Close()

		redisClient = rdb
		locker = keylock.NewRedisLocker(rdb, logger,
			keylock.WithTTL(cfg.Lock.TTL),
			keylock.WithMaxWait(cfg.Lock.MaxWait),
		)
	} else {
		locker = keylock.NewLocalLocker(cfg.Lock.MaxWait)
	}

	var publisher events.Publisher = events.NoopPublisher{}

	if cfg.AMQP.URL != "" {
		amqpPublisher, err := events.NewAMQPPublisher(cfg.AMQP.URL, cfg.AMQP.Exchange, logger)
		if err != nil {
			return err
		}
		defer amqpPublisher.Close()

		publisher = amqpPublisher
	}

	controller := admission.NewController(
		admission.NewRegistry(showtimeRepo, movieRepo, locker),
		admission.NewLedger(showtimeRepo, bookingRepo, locker),
		logger,
	)

	app = NewApp(
		cfg,
		logger,
		db,
		redisClient,
		appvalidator.NewValidator(),
		movieRepo,
		controller,
		publisher,
	)

	return app.run()
}

func NewRedisClient(cfg Config) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:            cfg.Redis.URL,
		MaxIdleConns:    cfg.Redis.MaxIdleConns,
		MaxActiveConns:  cfg.Redis.MaxOpenConns,
		ConnMaxIdleTime: cfg.Redis.MaxIdleTime,
	})

	if err := redisotel.InstrumentTracing(rdb); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	err := rdb.Ping(ctx).Err()
	if err != nil {
		rdb.Close()
		return nil, err
	}

	return rdb, nil
}

func NewDatabasePool(cfg Config) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(cfg.DB.DSN)
	if err != nil {
		return nil, err
	}

	config.MaxConnIdleTime = cfg.DB.MaxIdleTime
	config.MaxConns = int32(cfg.DB.MaxOpenConns)
	config.ConnConfig.Tracer = otelpgx.NewTracer()

	db, err := pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	err = db.Ping(ctx)
	if err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

func (app *Application) run() error {
	srv := &http.Server{
		Addr:         fmt.Sprintf("0.0.0.0:%d", app.config.Port),
		Handler:      app.Routes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		ErrorLog:     slog.NewLogLogger(app.logger.Handler(), slog.LevelDebug),
	}

	shutdownError := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		app.logger.Info("shutting down server", "signal", s.String())

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		shutdownError <- srv.Shutdown(ctx)
	}()

	app.logger.Info("starting server", "addr", srv.Addr, "env", app.config.Env)

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	err = <-shutdownError
	if err != nil {
		return err
	}

	app.logger.Info("stopped server", "addr", srv.Addr)

	return nil
}

func (app *Application) Routes() http.Handler {
	r := chi.NewRouter()

	r.NotFound(app.notFoundResponse)
	r.MethodNotAllowed(app.methodNotAllowedResponse)

	r.Use(middleware.RequestID)
	r.Use(otelchi.Middleware(serviceName, otelchi.WithChiRoutes(r)))
	r.Use(app.logRequest)
	r.Use(app.recoverPanic)

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/openapi.json", app.GetOpenAPIDocument)

	return api.HandlerWithOptions(app, api.ChiServerOptions{
		BaseRouter:       r,
		ErrorHandlerFunc: app.paramErrorResponse,
	})
}
