package dal

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/Roma7-7-7/vocab-api/internal/dal/migrations"
)

// Open opens a connection pool for the db type and applies pending migrations.
func Open(ctx context.Context, dbType DBType, url string) (*sql.DB, error) {
	db, err := sql.Open(dbType.DriverName(), url)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if dbType == DBTypeSQLite {
		// sqlite allows a single writer; sharing one connection also keeps :memory: databases intact
		db.SetMaxOpenConns(1)
	}

	if err = db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err = Migrate(ctx, db, dbType); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

func Migrate(ctx context.Context, db *sql.DB, dbType DBType) error {
	goose.SetBaseFS(migrations.FS)
	goose.SetLogger(goose.NopLogger())

	dialect := "sqlite3"
	if dbType == DBTypePostgres {
		dialect = "pgx"
	}
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("set migrations dialect: %w", err)
	}

	if err := goose.UpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	return nil
}
