package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewArtifact(t *testing.T) {
	cause := errors.New("want 4, got 3")
	a := New("orCardinality", map[string]any{"min": 10}, cause, "left", "right")

	_, err := uuid.Parse(a.ID)
	require.NoError(t, err)
	assert.Equal(t, "orCardinality", a.Invariant)
	assert.Equal(t, "want 4, got 3", a.Error)
	assert.Equal(t, []any{"left", "right"}, a.Subjects)
	assert.Equal(t, time.UTC, a.RecordedAt.Location())
	assert.WithinDuration(t, time.Now(), a.RecordedAt, time.Minute)
}

func TestArtifactJSONShape(t *testing.T) {
	a := Artifact{
		ID:         "00000000-0000-0000-0000-000000000000",
		Invariant:  "orCardinality",
		Context:    map[string]any{"min": 10, "max": 20},
		Error:      "invariant orCardinality violated: want 4, got 3 (max=20, min=10)",
		Subjects:   []any{"left", "right"},
		RecordedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	data, err := json.MarshalIndent(a, "", "  ")
	require.NoError(t, err)

	g := goldie.New(t)
	g.Assert(t, "artifact", data)
}

func TestDiscard(t *testing.T) {
	err := Discard.Report("anything", nil, errors.New("boom"))
	assert.NoError(t, err)
}

func TestLogReporter(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	r := NewLogReporter(logger)

	err := r.Report("rankSelect", map[string]any{"index": 3}, errors.New("boom"), "subject-0")
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "invariant violated")
	assert.Contains(t, out, "invariant=rankSelect")
	assert.Contains(t, out, "ctx.index=3")
	assert.Contains(t, out, "subject.0=subject-0")
}

func TestDirReporterWritesOneFilePerReport(t *testing.T) {
	dir := t.TempDir()
	r, err := NewDirReporter(dir)
	require.NoError(t, err)

	require.NoError(t, r.Report("selectContains", nil, errors.New("boom"), "subject"))
	require.NoError(t, r.Report("selectContains", nil, errors.New("boom"), "subject"))

	matches, err := filepath.Glob(filepath.Join(dir, "selectContains-*.json"))
	require.NoError(t, err)
	require.Len(t, matches, 2)

	data, err := os.ReadFile(matches[0])
	require.NoError(t, err)

	var a Artifact
	require.NoError(t, json.Unmarshal(data, &a))
	assert.Equal(t, "selectContains", a.Invariant)
	assert.Equal(t, "boom", a.Error)
	require.Len(t, a.Subjects, 1)
}

func TestDirReporterCreatesNestedDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	_, err := NewDirReporter(dir)
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

type failingSink struct{ err error }

func (s failingSink) Report(string, map[string]any, error, ...any) error { return s.err }

type countingSink struct{ n int }

func (s *countingSink) Report(string, map[string]any, error, ...any) error {
	s.n++
	return nil
}

func TestMultiReporterAttemptsEverySink(t *testing.T) {
	sinkErr := errors.New("sink down")
	counter := &countingSink{}
	r := NewMultiReporter(failingSink{err: sinkErr}, counter)

	err := r.Report("equalsSymmetry", nil, errors.New("boom"))
	require.ErrorIs(t, err, sinkErr)
	assert.Equal(t, 1, counter.n)
}

func TestMultiReporterAllHealthy(t *testing.T) {
	a, b := &countingSink{}, &countingSink{}
	r := NewMultiReporter(a, b)

	require.NoError(t, r.Report("containsSelf", nil, errors.New("boom")))
	assert.Equal(t, 1, a.n)
	assert.Equal(t, 1, b.n)
}
