package artifact

import (
	"context"
	"database/sql"
	"fmt"
	"time"
	"jobreach/internal/extract"

	_ "embed"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var Schema string

// Store is the append-only record of every discovered candidate,
// independent of delivery outcome. it is what the deliver-only mode
// reads, so a scrape pass and a send pass can run at different times.
type Store struct {
	db *sql.DB
}

func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open artifact store: %w", err)
	}
	_, err = db.Exec(Schema)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply artifact schema: %w", err)
	}
	return &Store{db: db}, nil
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Append(ctx context.Context, c extract.Candidate) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO candidates (email, author, job_title, excerpt, query, discovered_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		c.Email, c.Author, c.JobTitle, c.Excerpt, c.Query, time.Now().Unix(),
	)
	return err
}

// List returns every recorded candidate in discovery order.
func (s *Store) List(ctx context.Context) ([]extract.Candidate, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT email, author, job_title, excerpt, query
		FROM candidates ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []extract.Candidate
	for rows.Next() {
		var c extract.Candidate
		err := rows.Scan(&c.Email, &c.Author, &c.JobTitle, &c.Excerpt, &c.Query)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) Close() error {
	return s.db.Close()
}
