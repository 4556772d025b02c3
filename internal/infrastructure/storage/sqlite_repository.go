// Package storage persists finished scraping sessions into SQLite for
// reporting. Bulk document storage (Parquet, object stores) is a separate
// collaborator outside this repository.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite"

	"RISScanner/internal/domain"
	"RISScanner/internal/ports"
)

const schema = `
CREATE TABLE IF NOT EXISTS sessions (
    id                   TEXT PRIMARY KEY,
    municipality         TEXT NOT NULL,
    provider             TEXT NOT NULL,
    confidence           REAL NOT NULL,
    status               TEXT NOT NULL,
    meetings_found       INTEGER NOT NULL,
    documents_found      INTEGER NOT NULL,
    documents_downloaded INTEGER NOT NULL,
    errors               INTEGER NOT NULL,
    started_at           TIMESTAMP NOT NULL,
    finished_at          TIMESTAMP NOT NULL
);`

// SessionSummary is the stored projection of one session.
type SessionSummary struct {
	ID                  string
	Municipality        string
	Provider            domain.RISProvider
	Confidence          float64
	Status              domain.SessionStatus
	MeetingsFound       int
	DocumentsFound      int
	DocumentsDownloaded int
	Errors              int
	StartedAt           time.Time
	FinishedAt          time.Time
}

// SQLiteRepository persists session summaries in a local SQLite database.
type SQLiteRepository struct {
	db *sql.DB
}

var _ ports.SessionRepository = (*SQLiteRepository)(nil)

// Open connects to the database at path (":memory:" for tests) and applies
// the schema.
func Open(path string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &SQLiteRepository{db: db}, nil
}

// Close releases the database handle.
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

// SaveSession upserts one finished session's summary row.
func (r *SQLiteRepository) SaveSession(ctx context.Context, s domain.ScrapingSession) error {
	query, args, err := sq.Insert("sessions").
		Columns("id", "municipality", "provider", "confidence", "status",
			"meetings_found", "documents_found", "documents_downloaded",
			"errors", "started_at", "finished_at").
		Values(s.ID, s.Municipality.Name, s.Discovery.Provider.String(),
			s.Discovery.Confidence, string(s.Status),
			len(s.Meetings), len(s.Documents), s.Downloaded(),
			len(s.Errors), s.StartedAt, s.FinishedAt).
		Suffix(`ON CONFLICT(id) DO UPDATE SET
            status = excluded.status,
            meetings_found = excluded.meetings_found,
            documents_found = excluded.documents_found,
            documents_downloaded = excluded.documents_downloaded,
            errors = excluded.errors,
            finished_at = excluded.finished_at`).
		ToSql()
	if err != nil {
		return fmt.Errorf("build upsert: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert session: %w", err)
	}
	return nil
}

// RecentSessions returns the latest session summaries, newest first.
func (r *SQLiteRepository) RecentSessions(ctx context.Context, limit int) ([]SessionSummary, error) {
	if limit <= 0 {
		limit = 50
	}

	query, args, err := sq.Select("id", "municipality", "provider", "confidence",
		"status", "meetings_found", "documents_found", "documents_downloaded",
		"errors", "started_at", "finished_at").
		From("sessions").
		OrderBy("started_at DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var summaries []SessionSummary
	for rows.Next() {
		var s SessionSummary
		var provider, status string
		if err := rows.Scan(&s.ID, &s.Municipality, &provider, &s.Confidence,
			&status, &s.MeetingsFound, &s.DocumentsFound, &s.DocumentsDownloaded,
			&s.Errors, &s.StartedAt, &s.FinishedAt); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		s.Provider = domain.ParseProvider(provider)
		s.Status = domain.SessionStatus(status)
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	return summaries, nil
}
