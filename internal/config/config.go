package config

import (
	"fmt"
	"time"
)

type Config struct {
	Env              string                  `env:"ENV,default=local"`
	Logger           LoggerConfig            `env:",prefix=LOGGER_"`
	Observability    ObservabilityHTTPConfig `env:",prefix=OBSERVABILITY_"`
	ShutdownDuration time.Duration           `env:"SHUTDOWN_DURATION,default=30s"`
	DB               SQLiteConfig            `env:",prefix=DB_"`
	Web              WebHTTPConfig           `env:",prefix=WEB_"`
	FareAPI          FareAPIConfig           `env:",prefix=FARE_API_"`
	Session          SessionConfig           `env:",prefix=SESSION_"`
	Filters          FilterDefaultsConfig    `env:",prefix=FILTER_DEFAULT_"`
}

// FareAPIConfig describes the external fare-update API endpoint.
type FareAPIConfig struct {
	Scheme    string        `env:"SCHEME,default=https"`
	Host      string        `env:"HOST,default=127.0.0.1"`
	Port      uint16        `env:"PORT,default=8443"`
	Timeout   time.Duration `env:"TIMEOUT,default=30s"`
	RateLimit struct {
		Burst int     `env:"BURST,default=1"`
		RPS   float64 `env:"RPS,default=20.0"`
	} `env:",prefix=RATE_LIMIT_"`
}

func (c FareAPIConfig) ADDR() string {
	return fmt.Sprintf("%s://%s:%d", c.Scheme, c.Host, c.Port)
}

// FilterDefaultsConfig holds the filter values restored by "Clear".
// They vary per deployment, hence config rather than constants.
type FilterDefaultsConfig struct {
	FareCode     string `env:"FARE_CODE,default=E1"`
	BookingClass string `env:"BOOKING_CLASS,default=E"`
	Currency     string `env:"CURRENCY,default=NPR"`
}

type SessionConfig struct {
	TTL           time.Duration `env:"TTL,default=12h"`
	SweepSchedule string        `env:"SWEEP_SCHEDULE,default=*/15 * * * *"`
}

type LoggerConfig struct {
	Level string `env:"LEVEL,default=debug"`
}

type ObservabilityHTTPConfig struct {
	Host         string        `env:"HOST,default=127.0.0.1"`
	Port         uint16        `env:"PORT,default=8383"`
	ReadTimeout  time.Duration `env:"READ_TIMEOUT,default=30s"`
	WriteTimeout time.Duration `env:"WRITE_TIMEOUT,default=30s"`
	IdleTimeout  time.Duration `env:"IDLE_TIMEOUT,default=1m"`
}

func (a ObservabilityHTTPConfig) ADDR() string {
	return fmt.Sprintf("%s:%d", a.Host, a.Port)
}

type WebHTTPConfig struct {
	Host         string        `env:"HOST,default=0.0.0.0"`
	Port         uint16        `env:"PORT,default=8080"`
	ReadTimeout  time.Duration `env:"READ_TIMEOUT,default=30s"`
	WriteTimeout time.Duration `env:"WRITE_TIMEOUT,default=30s"`
	IdleTimeout  time.Duration `env:"IDLE_TIMEOUT,default=1m"`
	CookieSecure bool          `env:"COOKIE_SECURE,default=false"`
}

func (a WebHTTPConfig) ADDR() string {
	return fmt.Sprintf("%s:%d", a.Host, a.Port)
}

type SQLiteConfig struct {
	Path         string `env:"PATH,default=./data/fares.db"`
	MaxOpenConns int    `env:"MAX_OPEN_CONNS,default=25"`
	MaxIdleConns int    `env:"MAX_IDLE_CONNS,default=5"`
	MaxLifetime  string `env:"MAX_LIFETIME,default=5m"`
}
