// Package report captures failing fuzz trials as durable artifacts.
//
// A Reporter is a narrow side-channel: the trial runner hands it the
// invariant name, the parameters that produced the failure, the causing
// error, and the subject(s) involved. Reporting never transforms or
// suppresses the cause; the runner always re-surfaces the original error
// after reporting.
package report

import (
	"time"

	"github.com/google/uuid"
)

// Artifact is the reproducible state of one failing trial. Subjects carry
// their own JSON form (the bitmap serializes as runs), so replaying the
// artifact outside the harness needs nothing but this record.
type Artifact struct {
	ID         string         `json:"id"`
	Invariant  string         `json:"invariant"`
	Context    map[string]any `json:"context,omitempty"`
	Error      string         `json:"error"`
	Subjects   []any          `json:"subjects,omitempty"`
	RecordedAt time.Time      `json:"recorded_at"`
}

// New builds an artifact for a failing trial.
func New(name string, context map[string]any, cause error, subjects ...any) Artifact {
	return Artifact{
		ID:         uuid.NewString(),
		Invariant:  name,
		Context:    context,
		Error:      cause.Error(),
		Subjects:   subjects,
		RecordedAt: time.Now().UTC(),
	}
}

// Reporter is the failure side-channel consumed by the trial runner.
// Implementations must tolerate concurrent calls: trials run on a worker
// pool and several may fail while the run winds down.
type Reporter interface {
	Report(name string, context map[string]any, cause error, subjects ...any) error
}

// Discard is a Reporter that drops every artifact.
var Discard Reporter = discard{}

type discard struct{}

func (discard) Report(string, map[string]any, error, ...any) error { return nil }
