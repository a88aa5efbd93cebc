package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements Repository using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite creates a new SQLite-backed repository.
func NewSQLite(dbPath string) (Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	// modernc applies _pragma parameters to every pooled connection.
	dsn := "file:" + dbPath + "?_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	query := `
	CREATE TABLE IF NOT EXISTS leads (
		id TEXT PRIMARY KEY,
		visitor_id TEXT NOT NULL DEFAULT '',
		name TEXT NOT NULL,
		email TEXT NOT NULL,
		country_code TEXT NOT NULL,
		contact TEXT NOT NULL,
		course TEXT NOT NULL DEFAULT '',
		page_slug TEXT NOT NULL DEFAULT '',
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_leads_created ON leads(created_at);

	CREATE TABLE IF NOT EXISTS quiz_attempts (
		id TEXT PRIMARY KEY,
		visitor_id TEXT NOT NULL DEFAULT '',
		quiz_id TEXT NOT NULL,
		correct INTEGER NOT NULL,
		incorrect INTEGER NOT NULL,
		unanswered INTEGER NOT NULL,
		total INTEGER NOT NULL,
		percentage INTEGER NOT NULL,
		time_taken_seconds INTEGER NOT NULL,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_attempts_visitor ON quiz_attempts(visitor_id, quiz_id, created_at);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Ping verifies database connectivity.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// SaveLead inserts a lead record.
func (s *SQLiteStore) SaveLead(ctx context.Context, lead *Lead) error {
	query := `
	INSERT INTO leads (id, visitor_id, name, email, country_code, contact, course, page_slug, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	return retryWrite(ctx, "insert lead", func() error {
		_, err := s.db.ExecContext(ctx, query,
			lead.ID, lead.VisitorID, lead.Name, lead.Email,
			lead.CountryCode, lead.Contact, lead.Course, lead.PageSlug,
			lead.CreatedAt.UnixMilli(),
		)
		return err
	})
}

// SaveAttempt inserts a quiz attempt record.
func (s *SQLiteStore) SaveAttempt(ctx context.Context, a *Attempt) error {
	query := `
	INSERT INTO quiz_attempts (id, visitor_id, quiz_id, correct, incorrect, unanswered,
		total, percentage, time_taken_seconds, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	return retryWrite(ctx, "insert quiz attempt", func() error {
		_, err := s.db.ExecContext(ctx, query,
			a.ID, a.VisitorID, a.QuizID, a.Correct, a.Incorrect, a.Unanswered,
			a.Total, a.Percentage, a.TimeTakenSeconds, a.CreatedAt.UnixMilli(),
		)
		return err
	})
}

// ListAttempts returns a visitor's attempts, newest first.
func (s *SQLiteStore) ListAttempts(ctx context.Context, visitorID, quizID string, limit int) ([]*Attempt, error) {
	query := `
		SELECT id, visitor_id, quiz_id, correct, incorrect, unanswered,
		       total, percentage, time_taken_seconds, created_at
		FROM quiz_attempts
		WHERE visitor_id = ? AND (? = '' OR quiz_id = ?)
		ORDER BY created_at DESC, id
		LIMIT ?`

	rows, err := s.db.QueryContext(ctx, query, visitorID, quizID, quizID, normalizeLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("query quiz attempts: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			slog.Warn("failed to close quiz attempt rows", "error", closeErr)
		}
	}()

	var attempts []*Attempt
	for rows.Next() {
		var a Attempt
		var createdAt int64
		if err := rows.Scan(
			&a.ID, &a.VisitorID, &a.QuizID, &a.Correct, &a.Incorrect, &a.Unanswered,
			&a.Total, &a.Percentage, &a.TimeTakenSeconds, &createdAt,
		); err != nil {
			return nil, fmt.Errorf("scan quiz attempt row: %w", err)
		}
		a.CreatedAt = time.UnixMilli(createdAt)
		attempts = append(attempts, &a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate quiz attempts: %w", err)
	}

	return attempts, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	return nil
}
