package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore implements Repository using a pgx connection pool.
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgres connects to databaseURL and prepares the schema.
func NewPostgres(ctx context.Context, databaseURL string) (Repository, error) {
	if databaseURL == "" {
		return nil, errors.New("postgres: database url is required")
	}

	connConfig, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database config: %w", err)
	}

	db, err := pgxpool.NewWithConfig(ctx, connConfig)
	if err != nil {
		return nil, fmt.Errorf("create database pool: %w", err)
	}

	if err := db.Ping(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	store := &PostgresStore{db: db}
	if err := store.initSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return store, nil
}

func (s *PostgresStore) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS leads (
			id TEXT PRIMARY KEY,
			visitor_id TEXT NOT NULL DEFAULT '',
			name TEXT NOT NULL,
			email TEXT NOT NULL,
			country_code TEXT NOT NULL,
			contact TEXT NOT NULL,
			course TEXT NOT NULL DEFAULT '',
			page_slug TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_leads_created ON leads(created_at)`,
		`CREATE TABLE IF NOT EXISTS quiz_attempts (
			id TEXT PRIMARY KEY,
			visitor_id TEXT NOT NULL DEFAULT '',
			quiz_id TEXT NOT NULL,
			correct INTEGER NOT NULL,
			incorrect INTEGER NOT NULL,
			unanswered INTEGER NOT NULL,
			total INTEGER NOT NULL,
			percentage INTEGER NOT NULL,
			time_taken_seconds INTEGER NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_attempts_visitor ON quiz_attempts(visitor_id, quiz_id, created_at)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}
	return nil
}

// Ping verifies database connectivity.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// SaveLead inserts a lead record.
func (s *PostgresStore) SaveLead(ctx context.Context, lead *Lead) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO leads (id, visitor_id, name, email, country_code, contact, course, page_slug, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		lead.ID, lead.VisitorID, lead.Name, lead.Email,
		lead.CountryCode, lead.Contact, lead.Course, lead.PageSlug, lead.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert lead: %w", err)
	}
	return nil
}

// SaveAttempt inserts a quiz attempt record.
func (s *PostgresStore) SaveAttempt(ctx context.Context, a *Attempt) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO quiz_attempts (id, visitor_id, quiz_id, correct, incorrect, unanswered,
			total, percentage, time_taken_seconds, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		a.ID, a.VisitorID, a.QuizID, a.Correct, a.Incorrect, a.Unanswered,
		a.Total, a.Percentage, a.TimeTakenSeconds, a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert quiz attempt: %w", err)
	}
	return nil
}

// ListAttempts returns a visitor's attempts, newest first.
func (s *PostgresStore) ListAttempts(ctx context.Context, visitorID, quizID string, limit int) ([]*Attempt, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, visitor_id, quiz_id, correct, incorrect, unanswered,
		       total, percentage, time_taken_seconds, created_at
		FROM quiz_attempts
		WHERE visitor_id = $1 AND ($2::text = '' OR quiz_id = $2)
		ORDER BY created_at DESC, id
		LIMIT $3`, visitorID, quizID, normalizeLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("query quiz attempts: %w", err)
	}
	defer rows.Close()

	var attempts []*Attempt
	for rows.Next() {
		var a Attempt
		if err := rows.Scan(
			&a.ID, &a.VisitorID, &a.QuizID, &a.Correct, &a.Incorrect, &a.Unanswered,
			&a.Total, &a.Percentage, &a.TimeTakenSeconds, &a.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan quiz attempt row: %w", err)
		}
		attempts = append(attempts, &a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate quiz attempts: %w", err)
	}
	return attempts, nil
}

// Close releases the pool.
func (s *PostgresStore) Close() error {
	s.db.Close()
	return nil
}
