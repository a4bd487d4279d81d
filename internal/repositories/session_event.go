package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/filmax/internal/models"
	"github.com/desertthunder/filmax/internal/shared"
)

// SessionEventRepository implements [models.Repository] for [models.SessionEvent] persistence.
type SessionEventRepository struct {
	db *sql.DB
}

var _ models.Repository[*models.SessionEvent] = (*SessionEventRepository)(nil)

// NewSessionEventRepository creates a new [SessionEventRepository] with the given database connection
func NewSessionEventRepository(db *sql.DB) *SessionEventRepository {
	return &SessionEventRepository{db: db}
}

// Create inserts a new event with generated ID and sequence
func (r *SessionEventRepository) Create(event *models.SessionEvent) error {
	if err := event.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	sequence, err := NextSequence(r.db, "session_events")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()

	query := `
		INSERT INTO session_events (id, sequence, kind, username, created_at) VALUES (?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query, id, sequence, string(event.Kind()), event.Username(), event.CreatedAt())
	if err != nil {
		return fmt.Errorf("failed to insert session event: %w", err)
	}

	event.SetID(id)
	event.SetSequence(sequence)
	return nil
}

// Get retrieves an event by ID
func (r *SessionEventRepository) Get(id string) (*models.SessionEvent, error) {
	query := `
		SELECT id, sequence, kind, username, created_at
		FROM session_events
		WHERE id = ?
	`

	event, err := scanSessionEvent(r.db.QueryRow(query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: session event %s", shared.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query session event: %w", err)
	}

	return event, nil
}

// List retrieves up to limit events, newest first. A non-positive limit returns every event.
func (r *SessionEventRepository) List(limit int) ([]*models.SessionEvent, error) {
	query := `
		SELECT id, sequence, kind, username, created_at
		FROM session_events
		ORDER BY sequence DESC
	`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query session events: %w", err)
	}
	defer rows.Close()

	var events []*models.SessionEvent
	for rows.Next() {
		event, err := scanSessionEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session event: %w", err)
		}
		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating session events: %w", err)
	}

	return events, nil
}

// Record creates an event of kind for username. It satisfies the session package's recorder.
func (r *SessionEventRepository) Record(kind models.SessionEventKind, username string) error {
	return r.Create(models.NewSessionEvent(kind, username))
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSessionEvent(row rowScanner) (*models.SessionEvent, error) {
	var (
		id        string
		sequence  int
		kind      string
		username  sql.NullString
		createdAt time.Time
	)

	if err := row.Scan(&id, &sequence, &kind, &username, &createdAt); err != nil {
		return nil, err
	}

	event := models.NewSessionEvent(models.SessionEventKind(kind), username.String)
	event.SetID(id)
	event.SetSequence(sequence)
	event.SetCreatedAt(createdAt)
	return event, nil
}
