package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/pressly/goose/v3"
	"github.com/sethvargo/go-retry"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrations embed.FS

// requiredParams are merged into every DSN. BEGIN IMMEDIATE makes writers
// queue on the busy timeout instead of failing when they upgrade a read lock.
var requiredParams = []struct{ key, value string }{
	{"_pragma", "journal_mode(WAL)"},
	{"_pragma", "busy_timeout(5000)"},
	{"_pragma", "foreign_keys(1)"},
	{"_txlock", "immediate"},
}

// Open opens the SQLite database named by dsn and runs migrations. dsn is a
// file path (or ":memory:"), optionally prefixed with "sqlite://" or "file:".
// The required connection parameters are merged into any query string dsn
// already carries; parameters the caller set explicitly are kept.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", buildDSN(dsn))
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if isMemory(dsn) {
		// Every connection to :memory: is a separate database.
		db.SetMaxOpenConns(1)
	}

	if err := ping(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	if err := Migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return db, nil
}

// Migrate applies all pending migrations.
func Migrate(db *sql.DB) error {
	goose.SetBaseFS(migrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("set dialect: %w", err)
	}

	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}

	return nil
}

// Version returns the current migration version of db.
func Version(db *sql.DB) (int64, error) {
	if err := goose.SetDialect("sqlite3"); err != nil {
		return 0, fmt.Errorf("set dialect: %w", err)
	}
	v, err := goose.GetDBVersion(db)
	if err != nil {
		return 0, fmt.Errorf("get db version: %w", err)
	}
	return v, nil
}

// ping retries a few times so a volume that is still being mounted does
// not fail startup.
func ping(ctx context.Context, db *sql.DB) error {
	b := retry.WithMaxRetries(4, retry.NewExponential(100*time.Millisecond))
	return retry.Do(ctx, b, func(ctx context.Context) error {
		if err := db.PingContext(ctx); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
}

func buildDSN(dsn string) string {
	dsn = strings.TrimPrefix(dsn, "sqlite://")
	path, query, _ := strings.Cut(dsn, "?")

	given, err := url.ParseQuery(query)
	if err != nil {
		// Left to the driver to reject.
		given = url.Values{}
	}
	pragmaSet := make(map[string]bool)
	for _, p := range given["_pragma"] {
		pragmaSet[pragmaName(p)] = true
	}

	var params []string
	if query != "" {
		params = append(params, query)
	}
	for _, p := range requiredParams {
		if p.key == "_pragma" {
			if pragmaSet[pragmaName(p.value)] {
				continue
			}
		} else if given.Has(p.key) {
			continue
		}
		params = append(params, p.key+"="+p.value)
	}
	return path + "?" + strings.Join(params, "&")
}

// pragmaName returns the lower-cased name of a "_pragma" value such as
// "busy_timeout(5000)" or "busy_timeout=5000".
func pragmaName(v string) string {
	if i := strings.IndexAny(v, "(="); i >= 0 {
		v = v[:i]
	}
	return strings.ToLower(strings.TrimSpace(v))
}

func isMemory(dsn string) bool {
	return strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory")
}
