package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/tymbaca/wordfreq/mapreduce"
	"github.com/tymbaca/wordfreq/pkg/caller"
	"github.com/tymbaca/wordfreq/pkg/tracer"
	_ "modernc.org/sqlite"
)

const schema = `
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;

CREATE TABLE IF NOT EXISTS runs (
    name TEXT PRIMARY KEY,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS word_counts (
    run TEXT NOT NULL REFERENCES runs(name) ON DELETE CASCADE,
    word TEXT NOT NULL,
    total INTEGER NOT NULL,
    PRIMARY KEY (run, word)
);
`

type SQLiteStorage struct {
	db *sql.DB
}

// New opens (or creates) the database at path and makes sure the schema
// exists.
func New(path string) (*SQLiteStorage, error) {
	// foreign_keys is per connection
	db, err := sql.Open("sqlite", "file:"+path+"?_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// sqlite allows a single writer
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteStorage{db: db}, nil
}

func (s *SQLiteStorage) Save(ctx context.Context, run string, counts map[string]int) (err error) {
	ctx, span := tracer.Start(ctx, caller.Name())
	defer span.End()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save run '%s': %w", run, err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, "DELETE FROM runs WHERE name = ?", run); err != nil {
		return fmt.Errorf("save run '%s': %w", run, err)
	}
	if _, err = tx.ExecContext(ctx, "INSERT INTO runs (name) VALUES (?)", run); err != nil {
		return fmt.Errorf("save run '%s': %w", run, err)
	}

	stmt, err := tx.PrepareContext(ctx, "INSERT INTO word_counts (run, word, total) VALUES (?, ?, ?)")
	if err != nil {
		return fmt.Errorf("save run '%s': %w", run, err)
	}
	defer stmt.Close()

	for word, total := range counts {
		if _, err = stmt.ExecContext(ctx, run, word, total); err != nil {
			return fmt.Errorf("save run '%s', word '%s': %w", run, word, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("save run '%s': %w", run, err)
	}

	return nil
}

func (s *SQLiteStorage) Load(ctx context.Context, run string) (map[string]int, error) {
	ctx, span := tracer.Start(ctx, caller.Name())
	defer span.End()

	var name string
	err := s.db.QueryRowContext(ctx, "SELECT name FROM runs WHERE name = ?", run).Scan(&name)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("load run '%s': %w", run, mapreduce.ErrRunNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load run '%s': %w", run, err)
	}

	rows, err := s.db.QueryContext(ctx, "SELECT word, total FROM word_counts WHERE run = ?", run)
	if err != nil {
		return nil, fmt.Errorf("load run '%s': %w", run, err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var (
			word  string
			total int
		)
		if err := rows.Scan(&word, &total); err != nil {
			return nil, fmt.Errorf("load run '%s': %w", run, err)
		}
		counts[word] = total
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load run '%s': %w", run, err)
	}

	return counts, nil
}

func (s *SQLiteStorage) Runs(ctx context.Context) ([]string, error) {
	ctx, span := tracer.Start(ctx, caller.Name())
	defer span.End()

	rows, err := s.db.QueryContext(ctx, "SELECT name FROM runs ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("list runs: %w", err)
		}
		runs = append(runs, name)
	}

	return runs, rows.Err()
}

func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}
