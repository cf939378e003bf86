package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"github.com/joseph-ayodele/invoices-tracker/internal/common"
)

type Config struct {
	DSN             string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
	DialTimeout     time.Duration
}

// Dialect is the SQL flavour behind a DB.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

// DB is the record store connection. Queries are written with ? placeholders
// and rebound for Postgres.
type DB struct {
	sql     *sql.DB
	pool    *pgxpool.Pool
	dialect Dialect
	logger  *slog.Logger
}

func isPostgres(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

// Open connects to Postgres for postgres:// DSNs and to SQLite otherwise,
// then creates the schema when missing.
func Open(ctx context.Context, cfg Config, logger *slog.Logger) (*DB, error) {
	if logger == nil {
		logger = slog.Default()
	}
	var db *DB
	var err error
	if isPostgres(cfg.DSN) {
		db, err = openPostgres(ctx, cfg, logger)
	} else {
		db, err = openSQLite(cfg, logger)
	}
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		return nil, err
	}
	if err := db.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	logger.Info("successfully connected to database", "dialect", db.dialect)
	return db, nil
}

func openPostgres(ctx context.Context, cfg Config, logger *slog.Logger) (*DB, error) {
	logger.Info("connecting to database", "dialect", DialectPostgres)
	pc, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, err
	}
	if cfg.MaxConns > 0 {
		pc.MaxConns = cfg.MaxConns
	}
	pc.MinConns = cfg.MinConns
	if cfg.MaxConnLifetime > 0 {
		pc.MaxConnLifetime = cfg.MaxConnLifetime
	}
	if cfg.MaxConnIdleTime > 0 {
		pc.MaxConnIdleTime = cfg.MaxConnIdleTime
	}
	pc.ConnConfig.RuntimeParams["application_name"] = "invoices-tracker"

	dialCtx, cancel := common.WithTimeout(ctx, cfg.DialTimeout)
	defer cancel()
	pool, err := pgxpool.NewWithConfig(dialCtx, pc)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(dialCtx); err != nil {
		pool.Close()
		return nil, err
	}

	return &DB{sql: stdlib.OpenDBFromPool(pool), pool: pool, dialect: DialectPostgres, logger: logger}, nil
}

func openSQLite(cfg Config, logger *slog.Logger) (*DB, error) {
	logger.Info("connecting to database", "dialect", DialectSQLite, "dsn", cfg.DSN)
	sqldb, err := sql.Open("sqlite", cfg.DSN)
	if err != nil {
		return nil, err
	}
	// One connection: SQLite serialises writers and :memory: is per connection.
	sqldb.SetMaxOpenConns(1)
	if _, err := sqldb.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		_ = sqldb.Close()
		return nil, err
	}
	return &DB{sql: sqldb, dialect: DialectSQLite, logger: logger}, nil
}

// Close closes the database connections gracefully
func (d *DB) Close() {
	d.logger.Info("closing database connections")
	if err := d.sql.Close(); err != nil {
		d.logger.Error("failed to close database", "error", err)
	}
	if d.pool != nil {
		d.pool.Close()
	}
}

// HealthCheck pings the database.
func (d *DB) HealthCheck(ctx context.Context, timeout time.Duration) error {
	d.logger.Debug("pinging database")
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return d.sql.PingContext(ctx)
}

func (d *DB) Dialect() Dialect { return d.dialect }

// rebind rewrites ? placeholders as $1, $2, ... for Postgres.
func (d *DB) rebind(q string) string {
	if d.dialect != DialectPostgres {
		return q
	}
	var b strings.Builder
	n := 0
	for _, r := range q {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS invoices (
		id             TEXT PRIMARY KEY,
		invoice_date   TEXT,
		job_name       TEXT NOT NULL DEFAULT '',
		supply_house   TEXT NOT NULL DEFAULT '',
		total_cost     NUMERIC NOT NULL DEFAULT 0,
		job_cost       NUMERIC NOT NULL DEFAULT 0,
		invoice_number TEXT NOT NULL DEFAULT '',
		processed_date TEXT NOT NULL,
		source_path    TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS invoices_date_idx ON invoices (invoice_date)`,
	`CREATE TABLE IF NOT EXISTS items (
		id                   TEXT PRIMARY KEY,
		part_number          TEXT NOT NULL DEFAULT '',
		original_description TEXT NOT NULL DEFAULT '',
		custom_description   TEXT NOT NULL DEFAULT '',
		quantity             NUMERIC NOT NULL DEFAULT 1,
		unit_price           NUMERIC NOT NULL DEFAULT 0,
		total_price          NUMERIC NOT NULL DEFAULT 0,
		item_date            TEXT,
		invoice_number       TEXT NOT NULL DEFAULT '',
		vendor               TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS items_part_idx ON items (part_number)`,
	`CREATE INDEX IF NOT EXISTS items_vendor_idx ON items (vendor)`,
	`CREATE INDEX IF NOT EXISTS items_date_idx ON items (item_date)`,
}

func (d *DB) migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := d.sql.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

func (d *DB) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := d.sql.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
