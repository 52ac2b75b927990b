// Package fuzz is a parallel, randomized invariant-verification harness.
//
// The harness generates many random subjects through an injected generator,
// applies a caller-supplied invariant to each, and reports any violation as
// a reproducible failure artifact before surfacing the error. Invariants
// come in a small fixed set of shapes (value, derived, pair, range, index,
// action); each shape has one entry point.
//
// Trials run on a shared worker pool with no mutable state between trials.
// Cancellation is best-effort: once one trial fails, no further trials are
// dispatched, but trials already in flight run to completion and may report
// failures of their own.
package fuzz

import (
	"fmt"
	"log/slog"
	"reflect"
	"runtime"
	"sort"
	"strings"

	"github.com/roach88/bitfuzz/internal/report"
)

// Default trial parameters. The maxKeys defaults trade structural coverage
// against per-subject cost: forms that evaluate one check per subject get a
// generous bound, forms that expand into many sub-checks per subject get a
// small one.
const (
	// DefaultTrials is the global iteration count used when a form does
	// not set its own.
	DefaultTrials = 1000

	// DefaultMaxKeys bounds subjects for single-subject value, derived
	// and range invariants.
	DefaultMaxKeys = 1 << 9

	// DefaultPairMaxKeys bounds each subject of a two-subject comparison.
	DefaultPairMaxKeys = 1 << 8

	// DefaultSmallMaxKeys bounds subjects for index and action
	// invariants, which run many sub-checks per subject.
	DefaultSmallMaxKeys = 1 << 3
)

// Subject is the one capability the trial runner itself needs from a
// subject: its element count, used to drive index-parameterized checks.
// Everything else about the subject is opaque to the harness.
type Subject interface {
	Count() int
}

// Generator produces a fresh random subject bounded by maxKeys. It must be
// safe to call concurrently and must not share state between calls.
type Generator[S Subject] func(maxKeys int) (S, error)

// Harness runs randomized trials against generated subjects.
type Harness[S Subject] struct {
	generate Generator[S]
	reporter report.Reporter
	logger   *slog.Logger
	workers  int
	trials   int
}

// Option configures a harness.
type Option func(*settings)

type settings struct {
	reporter report.Reporter
	logger   *slog.Logger
	workers  int
	trials   int
}

// WithReporter sets the failure sink. Defaults to report.Discard.
func WithReporter(r report.Reporter) Option {
	return func(s *settings) { s.reporter = r }
}

// WithLogger sets the harness logger. Defaults to slog.Default.
func WithLogger(l *slog.Logger) Option {
	return func(s *settings) { s.logger = l }
}

// WithWorkers sets the worker pool size. Defaults to GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(s *settings) { s.workers = n }
}

// WithTrials overrides the default trial count used by forms that do not
// set their own. Forms with an explicit Trials field are unaffected.
func WithTrials(n int) Option {
	return func(s *settings) { s.trials = n }
}

// New builds a harness around the given subject generator.
func New[S Subject](gen Generator[S], opts ...Option) *Harness[S] {
	s := settings{
		reporter: report.Discard,
		logger:   slog.Default(),
		workers:  runtime.GOMAXPROCS(0),
		trials:   DefaultTrials,
	}
	for _, opt := range opts {
		opt(&s)
	}
	if s.workers < 1 {
		s.workers = 1
	}
	if s.trials < 1 {
		s.trials = DefaultTrials
	}
	return &Harness[S]{
		generate: gen,
		reporter: s.reporter,
		logger:   s.logger,
		workers:  s.workers,
		trials:   s.trials,
	}
}

// resolve fills zero-valued per-form parameters with harness defaults.
func (h *Harness[S]) resolve(trials, maxKeys, defaultMaxKeys int) (int, int) {
	if trials <= 0 {
		trials = h.trials
	}
	if maxKeys <= 0 {
		maxKeys = defaultMaxKeys
	}
	return trials, maxKeys
}

// reportFailure hands a failing trial to the reporter. A reporting error is
// logged but never displaces the invariant failure being reported.
func (h *Harness[S]) reportFailure(name string, ctx map[string]any, cause error, subjects ...any) {
	if err := h.reporter.Report(name, ctx, cause, subjects...); err != nil {
		h.logger.Error("failure artifact not persisted",
			"invariant", name,
			"error", err,
		)
	}
}

// generationFailed wraps and reports a subject-generation error. Generation
// errors are fatal to the run, same as invariant violations.
func (h *Harness[S]) generationFailed(name string, err error) error {
	wrapped := fmt.Errorf("generate subject for %s: %w", name, err)
	h.reportFailure(name, map[string]any{"stage": "generate"}, wrapped)
	return wrapped
}

// InvariantError is an invariant violation detected during a trial.
type InvariantError struct {
	// Name is the invariant's human-readable name, used for attribution.
	Name string

	// Context holds the parameters that produced the failure
	// (expected value, drawn range bounds, failing index).
	Context map[string]any

	// Want and Got are the compared values. For predicate forms Want is
	// true and Got is false.
	Want any
	Got  any
}

// Error implements the error interface.
func (e *InvariantError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "invariant %s violated: want %v, got %v", e.Name, e.Want, e.Got)
	if len(e.Context) > 0 {
		keys := make([]string, 0, len(e.Context))
		for k := range e.Context {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		sb.WriteString(" (")
		for i, k := range keys {
			if i > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "%s=%v", k, e.Context[k])
		}
		sb.WriteString(")")
	}
	return sb.String()
}

// equalFn returns eq, or structural equality when eq is nil.
// Equality is always value-based, never identity.
func equalFn[T any](eq func(a, b T) bool) func(a, b T) bool {
	if eq != nil {
		return eq
	}
	return func(a, b T) bool { return reflect.DeepEqual(a, b) }
}
