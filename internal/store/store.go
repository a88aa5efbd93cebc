// Package store provides data persistence interfaces and implementations.
package store

import (
	"context"
	"fmt"
	"time"
)

// Lead is a counselling request captured by a course page form.
type Lead struct {
	ID          string    `json:"id"`
	VisitorID   string    `json:"visitorId,omitempty"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	CountryCode string    `json:"countryCode"`
	Contact     string    `json:"contact"`
	Course      string    `json:"course"`
	PageSlug    string    `json:"page,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Attempt is a completed quiz session.
type Attempt struct {
	ID               string    `json:"id"`
	VisitorID        string    `json:"visitorId,omitempty"`
	QuizID           string    `json:"quizId"`
	Correct          int       `json:"correct"`
	Incorrect        int       `json:"incorrect"`
	Unanswered       int       `json:"unanswered"`
	Total            int       `json:"total"`
	Percentage       int       `json:"percentage"`
	TimeTakenSeconds int       `json:"timeTaken"`
	CreatedAt        time.Time `json:"createdAt"`
}

// Repository defines the interface for persisting leads and quiz attempts.
type Repository interface {
	// SaveLead stores a captured lead.
	SaveLead(ctx context.Context, lead *Lead) error

	// SaveAttempt stores a completed quiz attempt.
	SaveAttempt(ctx context.Context, attempt *Attempt) error

	// ListAttempts returns a visitor's attempts for a quiz, newest first.
	// An empty quizID lists attempts for every quiz.
	ListAttempts(ctx context.Context, visitorID, quizID string, limit int) ([]*Attempt, error)

	// Ping verifies database connectivity and returns an error if the database is unreachable.
	Ping(ctx context.Context) error

	// Close closes the database connection.
	Close() error
}

// Drivers accepted by Open.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// DefaultListLimit caps ListAttempts when the caller passes no limit.
const DefaultListLimit = 50

// Open creates the repository for driver. dsn is a file path for SQLite and
// a connection URL for Postgres.
func Open(ctx context.Context, driver, dsn string) (Repository, error) {
	switch driver {
	case DriverSQLite, "":
		return NewSQLite(dsn)
	case DriverPostgres:
		return NewPostgres(ctx, dsn)
	default:
		return nil, fmt.Errorf("unknown store driver %q", driver)
	}
}

func normalizeLimit(limit int) int {
	if limit <= 0 || limit > DefaultListLimit {
		return DefaultListLimit
	}
	return limit
}
