// Package sqldb opens pooled sqlx connections for the SQL record store.
package sqldb

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/avast/retry-go"
	"github.com/jmoiron/sqlx"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/tursodatabase/libsql-client-go/libsql"
	_ "modernc.org/sqlite"
)

const (
	DriverPostgres = "pgx"
	DriverSQLite   = "sqlite"
	DriverLibSQL   = "libsql"
)

const (
	defaultConnMaxIdleTime = 5 * time.Minute
	defaultConnMaxLifetime = 30 * time.Minute
	defaultMaxIdleConns    = 5
	defaultMaxOpenConns    = 25
	defaultConnectAttempts = 3
	defaultConnectDelay    = 500 * time.Millisecond
)

type options struct {
	connMaxIdleTime time.Duration
	connMaxLifetime time.Duration
	maxIdleConns    int
	maxOpenConns    int
	connectAttempts uint
	connectDelay    time.Duration
}

type Option func(*options)

func WithConnMaxIdleTime(d time.Duration) Option {
	return func(o *options) {
		o.connMaxIdleTime = d
	}
}

func WithConnMaxLifetime(d time.Duration) Option {
	return func(o *options) {
		o.connMaxLifetime = d
	}
}

func WithMaxIdleConns(n int) Option {
	return func(o *options) {
		o.maxIdleConns = n
	}
}

func WithMaxOpenConns(n int) Option {
	return func(o *options) {
		o.maxOpenConns = n
	}
}

// WithConnectAttempts sets how many times the initial ping is tried before giving up.
func WithConnectAttempts(n uint, delay time.Duration) Option {
	return func(o *options) {
		if n > 0 {
			o.connectAttempts = n
		}
		o.connectDelay = delay
	}
}

// SQLiteDriver picks the libSQL driver for remote libsql:// and wss:// URLs
// and the embedded SQLite driver for everything else.
func SQLiteDriver(url string) string {
	if strings.HasPrefix(url, "libsql://") || strings.HasPrefix(url, "wss://") {
		return DriverLibSQL
	}
	return DriverSQLite
}

// Open opens a connection pool and pings it, retrying the ping while the
// database is still coming up. Requests never retry; this only runs at startup.
func Open(ctx context.Context, driverName, dsn string, opts ...Option) (*sqlx.DB, error) {
	const op = "sqldb.Open"

	o := options{
		connMaxIdleTime: defaultConnMaxIdleTime,
		connMaxLifetime: defaultConnMaxLifetime,
		maxIdleConns:    defaultMaxIdleConns,
		maxOpenConns:    defaultMaxOpenConns,
		connectAttempts: defaultConnectAttempts,
		connectDelay:    defaultConnectDelay,
	}
	for _, opt := range opts {
		opt(&o)
	}

	db, err := sqlx.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to open database: %w", op, err)
	}

	db.SetConnMaxIdleTime(o.connMaxIdleTime)
	db.SetConnMaxLifetime(o.connMaxLifetime)
	db.SetMaxIdleConns(o.maxIdleConns)
	db.SetMaxOpenConns(o.maxOpenConns)

	err = retry.Do(
		func() error {
			return db.PingContext(ctx)
		},
		retry.Context(ctx),
		retry.Attempts(o.connectAttempts),
		retry.Delay(o.connectDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("%s: failed to connect to database: %w", op, err)
	}

	return db, nil
}
