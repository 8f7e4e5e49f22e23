package archive

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/voxhire/voxhire/internal/recruitai"
)

// ErrNotFound is returned when no archived session has the given id.
var ErrNotFound = errors.New("archived session not found")

const schema = `
CREATE TABLE IF NOT EXISTS sessions (
	id           TEXT PRIMARY KEY,
	interview_id TEXT NOT NULL,
	payload      TEXT NOT NULL,
	created_at   TEXT NOT NULL,
	submitted    INTEGER NOT NULL DEFAULT 0
);`

// Entry is one archived session as shown in listings.
type Entry struct {
	ID          string
	InterviewID string
	CreatedAt   time.Time
	Submitted   bool
}

// Store keeps submission payloads that could not reach the platform, so a
// finished interview is never lost to a flaky network. Single-file sqlite
// database, one row per failed submission.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open creates the database (and its parent directory) if needed.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("archive path is required")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("creating archive dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening archive db: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("preparing archive schema: %w", err)
	}

	return &Store{db: db, now: time.Now}, nil
}

// DefaultPath places the archive under the user config directory.
func DefaultPath(app string) (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolving user config dir: %w", err)
	}

	return filepath.Join(dir, app, "archive.db"), nil
}

// SaveFailed stores a submission payload and returns the new archive id.
func (s *Store) SaveFailed(ctx context.Context, interviewID string, payload *recruitai.SubmitRequest) (string, error) {
	if payload == nil {
		return "", fmt.Errorf("a submission payload is required")
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encoding submission payload: %w", err)
	}

	id := uuid.NewString()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO sessions (id, interview_id, payload, created_at, submitted) VALUES (?, ?, ?, ?, 0)`,
		id, interviewID, string(data), s.now().UTC().Format(time.RFC3339))
	if err != nil {
		return "", fmt.Errorf("archiving session: %w", err)
	}

	return id, nil
}

// List returns archived sessions, newest first.
func (s *Store) List(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, interview_id, created_at, submitted FROM sessions ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("listing archived sessions: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			entry     Entry
			createdAt string
			submitted int
		)
		if err := rows.Scan(&entry.ID, &entry.InterviewID, &createdAt, &submitted); err != nil {
			return nil, err
		}

		entry.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parsing archive timestamp: %w", err)
		}
		entry.Submitted = submitted != 0

		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

// Get loads the stored submission payload.
func (s *Store) Get(ctx context.Context, id string) (*recruitai.SubmitRequest, error) {
	var raw string
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM sessions WHERE id = ?`, id).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading archived session: %w", err)
	}

	var payload recruitai.SubmitRequest
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, fmt.Errorf("decoding archived payload: %w", err)
	}

	return &payload, nil
}

// MarkSubmitted flags an archived session as successfully resubmitted.
func (s *Store) MarkSubmitted(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE sessions SET submitted = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("marking session submitted: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}

	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
