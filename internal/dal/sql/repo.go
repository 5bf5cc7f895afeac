package sql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/Roma7-7-7/vocab-api/internal/dal"
)

const pgUniqueViolation = "23505"

type (
	Client interface {
		ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
		QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
		QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	}

	Repository struct {
		db      *sql.DB
		client  Client
		queries *dal.Queries
		log     *slog.Logger
	}

	scanner interface {
		Scan(dest ...any) error
	}
)

func NewRepository(db *sql.DB, dbType dal.DBType, log *slog.Logger) *Repository {
	return &Repository{
		db:      db,
		client:  db,
		queries: dal.NewQueries(dbType),
		log:     log,
	}
}

// Transact runs txFunc against a repository bound to a single transaction.
// Calling Transact on a repository that is already bound to a transaction reuses it.
func (r *Repository) Transact(ctx context.Context, txFunc func(r dal.Repository) error) error {
	if r.db == nil {
		return txFunc(r)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // ignore rollback errors

	if err = txFunc(&Repository{client: tx, queries: r.queries, log: r.log}); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		code := liteErr.Code()
		return code == sqlite3.SQLITE_CONSTRAINT_UNIQUE ||
			(code == sqlite3.SQLITE_CONSTRAINT && strings.Contains(liteErr.Error(), "UNIQUE"))
	}
	return false
}
