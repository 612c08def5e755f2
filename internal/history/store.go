// Package history keeps a local sqlite log of classifications and derives
// label statistics from it.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/f3rmion/senti/internal/sentiment"
	_ "modernc.org/sqlite"
)

// Stats window bounds for Stats.
const (
	MinStatsWindow     = 5
	MaxStatsWindow     = 100
	DefaultStatsWindow = 10
)

const schema = `
CREATE TABLE IF NOT EXISTS classifications (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	text        TEXT    NOT NULL,
	label       TEXT    NOT NULL,
	probability INTEGER NOT NULL,
	created_at  INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_classifications_created ON classifications(created_at);
`

// Record is one stored classification.
type Record struct {
	ID          int64
	Text        string
	Label       string
	Probability int
	CreatedAt   time.Time
}

// Stats summarizes the most recent records.
type Stats struct {
	Total           int
	Positive        int
	Negative        int
	Neutral         int
	PositivePercent float64
	NegativePercent float64
	NeutralPercent  float64
}

// Store is a sqlite-backed classification log.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the history database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("creating history dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// sqlite serializes writers; a single connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{db: db, now: time.Now}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save appends a classification of text to the log.
func (s *Store) Save(ctx context.Context, text string, r sentiment.Result) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO classifications (text, label, probability, created_at) VALUES (?, ?, ?, ?)`,
		text, r.Label, r.Probability, s.now().UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("saving classification: %w", err)
	}
	return nil
}

// Recent returns up to n records, newest first.
func (s *Store) Recent(ctx context.Context, n int) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, text, label, probability, created_at FROM classifications
		 ORDER BY created_at DESC, id DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var r Record
		var created int64
		if err := rows.Scan(&r.ID, &r.Text, &r.Label, &r.Probability, &created); err != nil {
			return nil, fmt.Errorf("scanning history: %w", err)
		}
		r.CreatedAt = time.Unix(0, created)
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading history: %w", err)
	}

	return records, nil
}

// Stats counts labels over the last records. last must be within
// [MinStatsWindow, MaxStatsWindow].
func (s *Store) Stats(ctx context.Context, last int) (Stats, error) {
	if last < MinStatsWindow || last > MaxStatsWindow {
		return Stats{}, fmt.Errorf("last must be between %d and %d, got %d", MinStatsWindow, MaxStatsWindow, last)
	}

	records, err := s.Recent(ctx, last)
	if err != nil {
		return Stats{}, err
	}

	var st Stats
	st.Total = len(records)
	if st.Total == 0 {
		return st, nil
	}

	for _, r := range records {
		switch sentiment.Label(strings.ToLower(strings.TrimSpace(r.Label))) {
		case sentiment.Positive:
			st.Positive++
		case sentiment.Negative:
			st.Negative++
		case sentiment.Neutral:
			st.Neutral++
		}
	}

	total := float64(st.Total)
	st.PositivePercent = float64(st.Positive) * 100 / total
	st.NegativePercent = float64(st.Negative) * 100 / total
	st.NeutralPercent = float64(st.Neutral) * 100 / total

	return st, nil
}
