package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/roach88/bitfuzz/internal/report"
)

// ErrNotFound is returned when the requested artifact does not exist.
var ErrNotFound = errors.New("artifact not found")

// Record is an artifact as read back from the store. Context and subjects
// stay in their raw JSON form; the store does not know the subject type.
type Record struct {
	ID         string          `json:"id"`
	Invariant  string          `json:"invariant"`
	Context    json.RawMessage `json:"context"`
	Error      string          `json:"error"`
	Subjects   json.RawMessage `json:"subjects"`
	RecordedAt time.Time       `json:"recorded_at"`
}

// WriteArtifact inserts an artifact. Duplicate IDs are silently ignored,
// which keeps retried reports idempotent.
func (s *Store) WriteArtifact(ctx context.Context, a report.Artifact) error {
	contextJSON, err := json.Marshal(a.Context)
	if err != nil {
		return fmt.Errorf("write artifact: encode context: %w", err)
	}
	subjectsJSON, err := json.Marshal(a.Subjects)
	if err != nil {
		return fmt.Errorf("write artifact: encode subjects: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO artifacts (id, invariant, context, error, subjects, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		a.ID,
		a.Invariant,
		string(contextJSON),
		a.Error,
		string(subjectsJSON),
		a.RecordedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("write artifact: %w", err)
	}
	return nil
}

// ReadArtifact returns one artifact by ID.
func (s *Store) ReadArtifact(ctx context.Context, id string) (Record, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, invariant, context, error, subjects, recorded_at
		FROM artifacts WHERE id = ?
	`, id)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return rec, err
}

// ListArtifacts returns all artifacts, most recent first.
func (s *Store) ListArtifacts(ctx context.Context) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, invariant, context, error, subjects, recorded_at
		FROM artifacts ORDER BY recorded_at DESC, id
	`)
	if err != nil {
		return nil, fmt.Errorf("list artifacts: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list artifacts: %w", err)
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (Record, error) {
	var (
		rec        Record
		contextStr string
		subjects   string
		recordedAt string
	)
	if err := row.Scan(&rec.ID, &rec.Invariant, &contextStr, &rec.Error, &subjects, &recordedAt); err != nil {
		return Record{}, err
	}
	rec.Context = json.RawMessage(contextStr)
	rec.Subjects = json.RawMessage(subjects)
	t, err := time.Parse(time.RFC3339Nano, recordedAt)
	if err != nil {
		return Record{}, fmt.Errorf("read artifact %s: bad timestamp %q: %w", rec.ID, recordedAt, err)
	}
	rec.RecordedAt = t
	return rec, nil
}

// Reporter adapts the store to the harness reporting contract.
func (s *Store) Reporter() report.Reporter {
	return storeReporter{s: s}
}

type storeReporter struct {
	s *Store
}

func (r storeReporter) Report(name string, ctx map[string]any, cause error, subjects ...any) error {
	return r.s.WriteArtifact(context.Background(), report.New(name, ctx, cause, subjects...))
}
