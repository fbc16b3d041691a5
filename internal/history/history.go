// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history persists analysis results in a local SQLite database so
// past runs of a journal stay queryable and indicator trends can be
// compared across days. The store is independent of the response cache:
// cache entries expire, history rows do not.
// Implements: prd005-analysis-history (R1-R3);
//
//	docs/ARCHITECTURE § Analysis History.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/journal-metrics/pkg/types"
)

const dbFile = "history.db"

// DefaultLimit bounds List when the caller does not set one.
const DefaultLimit = 10

// Store manages the analysis-history SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the history database at dir/history.db, creating
// the schema if it does not exist.
func Open(cfg types.HistoryConfig) (*Store, error) {
	if cfg.Dir == "" {
		return nil, fmt.Errorf("history directory not configured")
	}
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	dbPath := filepath.Join(cfg.Dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating history schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS analyses (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			issn TEXT NOT NULL,
			journal_name TEXT,
			mode TEXT NOT NULL,
			analyzed_at TEXT NOT NULL,
			impact_factor REAL,
			citescore REAL,
			self_citation_rate REAL,
			partial INTEGER NOT NULL DEFAULT 0,
			result TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_analyses_issn ON analyses(issn, analyzed_at)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Save appends one analysis result. The headline numbers are stored in
// columns for querying; the full record rides along as JSON.
func (s *Store) Save(ctx context.Context, result *types.AnalysisResult) error {
	if result == nil {
		return fmt.Errorf("nil analysis result")
	}
	encoded, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encoding analysis result: %w", err)
	}

	partial := 0
	if result.PartialData {
		partial = 1
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO analyses (issn, journal_name, mode, analyzed_at, impact_factor, citescore, self_citation_rate, partial, result)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		result.ISSN,
		result.JournalName,
		string(result.Mode),
		result.AnalyzedAt.UTC().Format(time.RFC3339),
		result.ImpactFactor.Current,
		result.CiteScore.Current,
		result.SelfCitation.Rate,
		partial,
		string(encoded),
	)
	if err != nil {
		return fmt.Errorf("inserting analysis: %w", err)
	}
	return nil
}

// List returns the most recent stored results for a journal, newest first.
// A non-positive limit uses DefaultLimit.
func (s *Store) List(ctx context.Context, issn string, limit int) ([]types.AnalysisResult, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT result FROM analyses WHERE issn = ? ORDER BY analyzed_at DESC, id DESC LIMIT ?`,
		issn, limit)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close()

	var results []types.AnalysisResult
	for rows.Next() {
		var encoded string
		if err := rows.Scan(&encoded); err != nil {
			return nil, fmt.Errorf("scanning history row: %w", err)
		}
		var r types.AnalysisResult
		if err := json.Unmarshal([]byte(encoded), &r); err != nil {
			return nil, fmt.Errorf("decoding stored result: %w", err)
		}
		results = append(results, r)
	}
	return results, rows.Err()
}
