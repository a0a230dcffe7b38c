package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Word lists stored in the words table.
const (
	ListTarget = "target"
	ListGuess  = "guess"
)

// PostgresWords reads the corpus from the words table (see
// db/migrations). It implements words.Source.
type PostgresWords struct {
	db *pgxpool.Pool
}

func NewPostgresWords(db *pgxpool.Pool) *PostgresWords {
	return &PostgresWords{db: db}
}

func (s *PostgresWords) Load(ctx context.Context) ([]string, []string, error) {
	targets, err := s.list(ctx, ListTarget)
	if err != nil {
		return nil, nil, err
	}
	guesses, err := s.list(ctx, ListGuess)
	if err != nil {
		return nil, nil, err
	}
	return targets, guesses, nil
}

// Add inserts words into a list, ignoring ones already present.
func (s *PostgresWords) Add(ctx context.Context, list string, words ...string) error {
	batch := &pgx.Batch{}
	for _, w := range words {
		batch.Queue(`
			INSERT INTO words (word, list)
			VALUES (upper($1), $2)
			ON CONFLICT (word, list) DO NOTHING
		`, w, list)
	}
	if err := s.db.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("store: add %s words: %w", list, err)
	}
	return nil
}

func (s *PostgresWords) list(ctx context.Context, list string) ([]string, error) {
	rows, err := s.db.Query(ctx, `
		SELECT word
		FROM words
		WHERE list = $1
		ORDER BY word
	`, list)
	if err != nil {
		return nil, fmt.Errorf("store: query %s words: %w", list, err)
	}
	out, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("store: scan %s words: %w", list, err)
	}
	return out, nil
}
