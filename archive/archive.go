// Package archive persists solve results to a sqlite file so repeated
// runs over the same puzzle library can be compared and replayed without
// re-searching.
package archive

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cespare/xxhash"
	_ "modernc.org/sqlite"

	"github.com/pzielasko/taquin/puzzle"
	"github.com/pzielasko/taquin/solver"
)

var ErrNotFound = errors.New("no archived solve")

const schema = `
CREATE TABLE IF NOT EXISTS solves (
	grid_key   TEXT NOT NULL,
	width      INTEGER NOT NULL,
	height     INTEGER NOT NULL,
	strategy   TEXT NOT NULL,
	found      INTEGER NOT NULL,
	path       TEXT NOT NULL,
	visited    INTEGER NOT NULL,
	processed  INTEGER NOT NULL,
	max_depth  INTEGER NOT NULL,
	elapsed_ms REAL NOT NULL,
	created_at INTEGER NOT NULL,
	PRIMARY KEY (grid_key, strategy)
);`

// An Entry is one archived solve: the grid it ran on, the strategy, and
// the result counters.
type Entry struct {
	GridKey   string
	Width     int
	Height    int
	Strategy  string
	Found     bool
	Path      string
	Visited   uint64
	Processed uint64
	MaxDepth  int
	ElapsedMs float64
	CreatedAt time.Time
}

// Archive wraps the sqlite handle. One row is kept per (grid, strategy);
// re-recording overwrites it.
type Archive struct {
	mu sync.Mutex
	db *sql.DB
}

// Open opens or creates the archive file and ensures the schema exists.
func Open(path string) (*Archive, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open archive %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create archive schema: %w", err)
	}
	return &Archive{db: db}, nil
}

func (a *Archive) Close() error {
	return a.db.Close()
}

// GridKey derives the archive key for a grid: an xxhash of the dimensions
// and cells, rendered as fixed-width hex.
func GridKey(p *puzzle.Puzzle) string {
	buf := make([]byte, 0, 2+len(p.Cells()))
	buf = append(buf, byte(p.Width()), byte(p.Height()))
	buf = append(buf, p.Cells()...)
	return fmt.Sprintf("%016x", xxhash.Sum64(buf))
}

// Record stores one solve, replacing any previous row for the same grid
// and strategy.
func (a *Archive) Record(p *puzzle.Puzzle, strat solver.Strategy, res *solver.Result) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	found := 0
	if res.Found {
		found = 1
	}
	_, err := a.db.Exec(`
INSERT INTO solves (grid_key, width, height, strategy, found, path, visited, processed, max_depth, elapsed_ms, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(grid_key, strategy)
DO UPDATE SET found=excluded.found, path=excluded.path, visited=excluded.visited,
	processed=excluded.processed, max_depth=excluded.max_depth,
	elapsed_ms=excluded.elapsed_ms, created_at=excluded.created_at;`,
		GridKey(p), p.Width(), p.Height(), strat.String(), found,
		puzzle.PathString(res.Path), res.VisitedStates, res.ProcessedStates,
		res.MaxDepth, float64(res.Elapsed.Nanoseconds())/1e6, time.Now().Unix())
	return err
}

// Lookup returns the archived solve for a grid under one strategy.
func (a *Archive) Lookup(p *puzzle.Puzzle, strat solver.Strategy) (*Entry, error) {
	row := a.db.QueryRow(`
SELECT grid_key, width, height, strategy, found, path, visited, processed, max_depth, elapsed_ms, created_at
FROM solves WHERE grid_key = ? AND strategy = ?;`, GridKey(p), strat.String())
	return scanEntry(row)
}

// Best returns the shortest archived solution for a grid across all
// strategies ever recorded for it.
func (a *Archive) Best(p *puzzle.Puzzle) (*Entry, error) {
	row := a.db.QueryRow(`
SELECT grid_key, width, height, strategy, found, path, visited, processed, max_depth, elapsed_ms, created_at
FROM solves WHERE grid_key = ? AND found = 1
ORDER BY length(path) ASC, created_at DESC LIMIT 1;`, GridKey(p))
	return scanEntry(row)
}

// Recent returns the latest archived solves, newest first.
func (a *Archive) Recent(limit int) ([]Entry, error) {
	rows, err := a.db.Query(`
SELECT grid_key, width, height, strategy, found, path, visited, processed, max_depth, elapsed_ms, created_at
FROM solves ORDER BY created_at DESC, grid_key LIMIT ?;`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e, err := scanRow(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRow(s scanner) (*Entry, error) {
	var (
		e       Entry
		found   int
		created int64
	)
	err := s.Scan(&e.GridKey, &e.Width, &e.Height, &e.Strategy, &found,
		&e.Path, &e.Visited, &e.Processed, &e.MaxDepth, &e.ElapsedMs, &created)
	if err != nil {
		return nil, err
	}
	e.Found = found != 0
	e.CreatedAt = time.Unix(created, 0)
	return &e, nil
}

func scanEntry(row *sql.Row) (*Entry, error) {
	e, err := scanRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}
