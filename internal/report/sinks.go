package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// LogReporter surfaces artifacts through structured logging. It is the
// default console sink; nothing is persisted.
type LogReporter struct {
	Logger *slog.Logger
}

// NewLogReporter returns a reporter writing to logger, or the default
// logger when nil.
func NewLogReporter(logger *slog.Logger) *LogReporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogReporter{Logger: logger}
}

func (r *LogReporter) Report(name string, context map[string]any, cause error, subjects ...any) error {
	attrs := []any{
		"invariant", name,
		"error", cause.Error(),
	}
	for k, v := range context {
		attrs = append(attrs, "ctx."+k, v)
	}
	for i, s := range subjects {
		attrs = append(attrs, fmt.Sprintf("subject.%d", i), fmt.Sprint(s))
	}
	r.Logger.Error("invariant violated", attrs...)
	return nil
}

// DirReporter persists one JSON file per artifact. Files are uuid-named,
// so concurrent reports from the worker pool never collide.
type DirReporter struct {
	dir string
}

// NewDirReporter creates dir if needed and returns a reporter writing
// artifacts into it.
func NewDirReporter(dir string) (*DirReporter, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create artifact dir: %w", err)
	}
	return &DirReporter{dir: dir}, nil
}

func (r *DirReporter) Report(name string, context map[string]any, cause error, subjects ...any) error {
	a := New(name, context, cause, subjects...)
	data, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return fmt.Errorf("encode artifact %s: %w", a.ID, err)
	}
	path := filepath.Join(r.dir, fmt.Sprintf("%s-%s.json", name, a.ID))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write artifact %s: %w", a.ID, err)
	}
	return nil
}

// MultiReporter fans an artifact out to several sinks. Every sink is
// attempted; errors are joined rather than short-circuiting, so one broken
// sink cannot starve the others.
type MultiReporter struct {
	sinks []Reporter
}

// NewMultiReporter combines the given sinks.
func NewMultiReporter(sinks ...Reporter) *MultiReporter {
	return &MultiReporter{sinks: sinks}
}

func (r *MultiReporter) Report(name string, context map[string]any, cause error, subjects ...any) error {
	var errs []error
	for _, s := range r.sinks {
		if err := s.Report(name, context, cause, subjects...); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
