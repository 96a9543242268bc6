package app

import (
	"flag"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is read from the environment first. Command-line flags override it.
type Config struct {
	Port             int         `env:"PORT" envDefault:"3000"`
	Env              string      `env:"ENV" envDefault:"dev"`
	OtelCollectorUrl string      `env:"OTEL_COLLECTOR_URL"`
	DB               DBConfig    `envPrefix:"DB_"`
	Redis            RedisConfig `envPrefix:"REDIS_"`
	AMQP             AMQPConfig  `envPrefix:"AMQP_"`
	Lock             LockConfig  `envPrefix:"LOCK_"`
}

// DBConfig selects the PostgreSQL store. An empty DSN keeps all state in memory.
type DBConfig struct {
	DSN          string        `env:"DSN"`
	MaxOpenConns int           `env:"MAX_OPEN_CONNS" envDefault:"25"`
	MaxIdleTime  time.Duration `env:"MAX_IDLE_TIME" envDefault:"15m"`
	Migrate      bool          `env:"MIGRATE" envDefault:"true"`
}

// RedisConfig enables locks shared between instances. Without a URL the
// locks are local to the process.
type RedisConfig struct {
	URL          string        `env:"URL"`
	MaxOpenConns int           `env:"MAX_OPEN_CONNS" envDefault:"25"`
	MaxIdleConns int           `env:"MAX_IDLE_CONNS" envDefault:"10"`
	MaxIdleTime  time.Duration `env:"MAX_IDLE_TIME" envDefault:"2m"`
}

type AMQPConfig struct {
	URL      string `env:"URL"`
	Exchange string `env:"EXCHANGE" envDefault:"showtime-booking.events"`
}

type LockConfig struct {
	MaxWait time.Duration `env:"MAX_WAIT" envDefault:"5s"`
	TTL     time.Duration `env:"TTL" envDefault:"10s"`
}

// LoadConfig returns the configuration and whether the version flag was set.
func LoadConfig(args []string) (Config, bool, error) {
	var cfg Config

	if err := env.Parse(&cfg); err != nil {
		return cfg, false, fmt.Errorf("failed to parse environment: %w", err)
	}

	fs := flag.NewFlagSet("api", flag.ContinueOnError)

	fs.IntVar(&cfg.Port, "port", cfg.Port, "server port")
	fs.StringVar(&cfg.Env, "env", cfg.Env, "Environment (dev|staging|prod)")
	fs.StringVar(&cfg.OtelCollectorUrl, "otel-collector-url", cfg.OtelCollectorUrl, "OpenTelemetry collector gRPC endpoint")

	fs.StringVar(&cfg.DB.DSN, "db-dsn", cfg.DB.DSN, "PostgreSQL DSN (empty keeps state in memory)")
	fs.IntVar(&cfg.DB.MaxOpenConns, "db-max-open-conns", cfg.DB.MaxOpenConns, "PostgreSQL max open connections")
	fs.DurationVar(&cfg.DB.MaxIdleTime, "db-max-idle-time", cfg.DB.MaxIdleTime, "PostgreSQL max idle time for connections")
	fs.BoolVar(&cfg.DB.Migrate, "db-migrate", cfg.DB.Migrate, "Apply schema migrations on startup")

	fs.StringVar(&cfg.Redis.URL, "redis-url", cfg.Redis.URL, "Redis address for shared locks (empty uses in-process locks)")
	fs.IntVar(&cfg.Redis.MaxOpenConns, "redis-max-open-conns", cfg.Redis.MaxOpenConns, "Redis max open connections")
	fs.IntVar(&cfg.Redis.MaxIdleConns, "redis-max-idle-conns", cfg.Redis.MaxIdleConns, "Redis max idle connections")
	fs.DurationVar(&cfg.Redis.MaxIdleTime, "redis-max-idle-time", cfg.Redis.MaxIdleTime, "Redis max idle time for connections")

	fs.StringVar(&cfg.AMQP.URL, "amqp-url", cfg.AMQP.URL, "RabbitMQ URL for domain events (empty disables publishing)")
	fs.StringVar(&cfg.AMQP.Exchange, "amqp-exchange", cfg.AMQP.Exchange, "RabbitMQ topic exchange for domain events")

	fs.DurationVar(&cfg.Lock.MaxWait, "lock-max-wait", cfg.Lock.MaxWait, "Maximum time a request waits for a lock")
	fs.DurationVar(&cfg.Lock.TTL, "lock-ttl", cfg.Lock.TTL, "Expiry of a shared lock")

	displayVersion := fs.Bool("version", false, "Display version and exit")

	if err := fs.Parse(args); err != nil {
		return cfg, false, err
	}

	return cfg, *displayVersion, nil
}
