// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store keeps parsed lineup tables in a local SQLite database so
// lineups can be queried and aggregated across games.
package store

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/lineups/pkg/types"
)

const (
	dbFile     = "lineups.db"
	dateLayout = "2006-01-02"
)

// Store manages the lineups SQLite database.
type Store struct {
	db         *sql.DB
	dataDir    string
	maxResults int
}

// NewStore opens or creates the database at dataDir/lineups.db and creates
// the schema if it does not exist.
func NewStore(cfg types.StoreConfig) (*Store, error) {
	dataDir := cfg.DataDir
	if dataDir == "" {
		dataDir = types.DefaultDataDir
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = types.DefaultMaxResults
	}

	s := &Store{
		db:         db,
		dataDir:    dataDir,
		maxResults: maxResults,
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS games (
			id TEXT PRIMARY KEY,
			source TEXT,
			division TEXT,
			team1 TEXT,
			team2 TEXT,
			date TEXT,
			content_hash TEXT NOT NULL,
			ingested_at TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS lineups (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			game_id TEXT NOT NULL REFERENCES games(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			team TEXT NOT NULL,
			opponent TEXT NOT NULL,
			lineup TEXT NOT NULL,
			min REAL,
			team_score INTEGER,
			opponent_score INTEGER,
			fga INTEGER,
			fgm INTEGER,
			off_reb INTEGER,
			def_reb INTEGER,
			assists INTEGER,
			turnovers INTEGER,
			steals INTEGER,
			UNIQUE (game_id, position)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_lineups_game_id ON lineups(game_id)`,
		`CREATE INDEX IF NOT EXISTS idx_lineups_team ON lineups(team COLLATE NOCASE)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// GameID returns the key a report is stored under: its filename without
// directory or extension.
func GameID(source string) string {
	base := filepath.Base(source)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// IngestStatus is the outcome of storing one table.
type IngestStatus string

const (
	StatusIndexed IngestStatus = "indexed"
	StatusUpdated IngestStatus = "updated"
	StatusSkipped IngestStatus = "skipped"
)

// IngestSummary holds counts from an ingestion run.
type IngestSummary struct {
	Indexed int
	Updated int
	Skipped int
	Failed  int
}

// Total returns the number of reports processed.
func (s IngestSummary) Total() int {
	return s.Indexed + s.Updated + s.Skipped + s.Failed
}

func (s *IngestSummary) add(status IngestStatus) {
	switch status {
	case StatusIndexed:
		s.Indexed++
	case StatusUpdated:
		s.Updated++
	case StatusSkipped:
		s.Skipped++
	}
}

// Ingest stores t as one game keyed by GameID(t.Source). A game whose rows
// are unchanged since the last ingest is skipped; changed rows replace the
// old ones in a single transaction.
func (s *Store) Ingest(ctx context.Context, t *types.Table) (IngestStatus, error) {
	if t.Source == "" {
		return "", fmt.Errorf("table has no source")
	}
	gameID := GameID(t.Source)
	hash := contentHash(t)

	var storedHash string
	err := s.db.QueryRowContext(ctx,
		`SELECT content_hash FROM games WHERE id = ?`, gameID,
	).Scan(&storedHash)
	switch {
	case err == nil && storedHash == hash:
		return StatusSkipped, nil
	case err != nil && err != sql.ErrNoRows:
		return "", fmt.Errorf("looking up game %s: %w", gameID, err)
	}
	isUpdate := err == nil

	if err := s.ingestGame(ctx, gameID, hash, t, isUpdate); err != nil {
		return "", err
	}
	if isUpdate {
		return StatusUpdated, nil
	}
	return StatusIndexed, nil
}

func (s *Store) ingestGame(ctx context.Context, gameID, hash string, t *types.Table, isUpdate bool) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if isUpdate {
		if _, err := tx.ExecContext(ctx, `DELETE FROM lineups WHERE game_id = ?`, gameID); err != nil {
			return fmt.Errorf("deleting old lineups: %w", err)
		}
	}

	dateStr := ""
	if !t.Match.Date.IsZero() {
		dateStr = t.Match.Date.Format(dateLayout)
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO games (id, source, division, team1, team2, date, content_hash, ingested_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			source=excluded.source, division=excluded.division,
			team1=excluded.team1, team2=excluded.team2, date=excluded.date,
			content_hash=excluded.content_hash, ingested_at=excluded.ingested_at`,
		gameID, t.Source, t.Match.Division, t.Match.Team1, t.Match.Team2,
		dateStr, hash, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("upserting game: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO lineups (game_id, position, team, opponent, lineup, min,
			team_score, opponent_score, fga, fgm, off_reb, def_reb, assists, turnovers, steals)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range t.Rows {
		_, err := stmt.ExecContext(ctx,
			gameID, i, r.Team, r.Opponent, r.Lineup, r.Min,
			r.TeamScore, r.OpponentScore, r.FGA, r.FGM,
			r.OR, r.DR, r.AS, r.TO, r.ST,
		)
		if err != nil {
			return fmt.Errorf("inserting lineup %d: %w", i+1, err)
		}
	}

	return tx.Commit()
}

// contentHash fingerprints the rows and match metadata of t.
func contentHash(t *types.Table) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s\x1f%s\x1f%s\x1f%s\x1e", t.Match.Division, t.Match.Team1, t.Match.Team2, t.Match.Date.Format(dateLayout))
	for _, rec := range t.Records() {
		io.WriteString(h, strings.Join(rec, "\x1f"))
		io.WriteString(h, "\x1e")
	}
	return hex.EncodeToString(h.Sum(nil))
}

// TableParser turns a report file into a table.
type TableParser interface {
	Parse(path string) (*types.Table, error)
}

// IngestFiles parses each report in paths and stores it, writing one
// status line per file and a summary to w. A file that fails to parse or
// store is counted and reported; the run continues with the next file.
func (s *Store) IngestFiles(ctx context.Context, p TableParser, paths []string, w io.Writer) (IngestSummary, error) {
	var summary IngestSummary

	for _, path := range paths {
		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		gameID := GameID(path)
		t, err := p.Parse(path)
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", gameID, err)
			summary.Failed++
			continue
		}

		status, err := s.Ingest(ctx, t)
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", gameID, err)
			summary.Failed++
			continue
		}
		summary.add(status)

		if status == StatusSkipped {
			fmt.Fprintf(w, "skipped %s\n", gameID)
		} else {
			fmt.Fprintf(w, "%s %s (%d lineups)\n", status, gameID, t.Len())
		}
	}

	fmt.Fprintf(w, "\nindexed: %d, updated: %d, skipped: %d, failed: %d\n",
		summary.Indexed, summary.Updated, summary.Skipped, summary.Failed)

	return summary, nil
}
