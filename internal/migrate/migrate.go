package migrate

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// Up applies all pending migrations in dir (the words table).
//
// It returns an error (no log.Fatal) so the caller can decide how to handle it.
func Up(dbURL, dir string, log *slog.Logger) error {
	return UpContext(context.Background(), dbURL, dir, log)
}

func UpContext(ctx context.Context, dbURL, dir string, log *slog.Logger) error {
	if log == nil {
		log = slog.Default()
	}

	db, err := sql.Open("pgx", dbURL)
	if err != nil {
		return fmt.Errorf("migrations: open db: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("migrations: database close", "err", err)
		}
	}()

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("migrations: set dialect: %w", err)
	}

	log.Info("running database migrations", "dir", dir)
	if err := goose.UpContext(ctx, db, dir); err != nil {
		return fmt.Errorf("migrations: goose up: %w", err)
	}
	log.Info("database migrations applied")
	return nil
}
