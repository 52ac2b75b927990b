package fuzz

import (
	"context"
	"math/rand/v2"
)

// Verify* functions are top-level rather than methods because Go methods
// cannot introduce the value type parameter T.

// ValueInvariant asserts that a pure function of one random subject always
// produces the same value.
type ValueInvariant[S Subject, T any] struct {
	Name    string
	Trials  int // 0: harness default
	MaxKeys int // 0: DefaultMaxKeys
	Want    T
	Eval    func(s S) T
	Equal   func(a, b T) bool // nil: structural equality
}

// VerifyValue runs a single-subject value invariant. On mismatch the
// failure is reported with context {"value": want} and the violation is
// returned.
func VerifyValue[S Subject, T any](ctx context.Context, h *Harness[S], inv ValueInvariant[S, T]) error {
	trials, maxKeys := h.resolve(inv.Trials, inv.MaxKeys, DefaultMaxKeys)
	eq := equalFn(inv.Equal)
	return h.run(ctx, trials, func() error {
		s, err := h.generate(maxKeys)
		if err != nil {
			return h.generationFailed(inv.Name, err)
		}
		got := inv.Eval(s)
		if !eq(inv.Want, got) {
			verr := &InvariantError{
				Name:    inv.Name,
				Context: map[string]any{"value": inv.Want},
				Want:    inv.Want,
				Got:     got,
			}
			h.reportFailure(inv.Name, verr.Context, verr, s)
			return verr
		}
		return nil
	})
}

// RangeInvariant asserts a predicate over a random half-open interval
// [min, max) and a random subject. Bounds are drawn independently per trial
// from the full unsigned 32-bit space; they are not seeded or recorded
// beyond the failure artifact.
type RangeInvariant[S Subject] struct {
	Name    string
	Trials  int
	MaxKeys int // 0: DefaultMaxKeys
	Check   func(min, max uint64, s S) bool
}

// VerifyRange runs a range-parameterized invariant. Failures carry context
// {"min": min, "max": max}.
func VerifyRange[S Subject](ctx context.Context, h *Harness[S], inv RangeInvariant[S]) error {
	trials, maxKeys := h.resolve(inv.Trials, inv.MaxKeys, DefaultMaxKeys)
	return h.run(ctx, trials, func() error {
		s, err := h.generate(maxKeys)
		if err != nil {
			return h.generationFailed(inv.Name, err)
		}
		lo := rand.Uint64N(1 << 32)
		hi := lo + rand.Uint64N(1<<32-lo)
		if !inv.Check(lo, hi, s) {
			verr := &InvariantError{
				Name:    inv.Name,
				Context: map[string]any{"min": lo, "max": hi},
				Want:    true,
				Got:     false,
			}
			h.reportFailure(inv.Name, verr.Context, verr, s)
			return verr
		}
		return nil
	})
}

// DerivedInvariant asserts that two derivations of one random subject
// agree. Subjects failing the validity filter are discarded without
// backfill: the harness attempts Trials generations, not Trials
// evaluations.
type DerivedInvariant[S Subject, T any] struct {
	Name    string
	Trials  int
	MaxKeys int               // 0: DefaultMaxKeys
	Valid   func(s S) bool    // nil: every subject counts
	Left    func(s S) T
	Right   func(s S) T
	Equal   func(a, b T) bool // nil: structural equality
}

// VerifyDerived runs a two-derivation comparison over single subjects.
func VerifyDerived[S Subject, T any](ctx context.Context, h *Harness[S], inv DerivedInvariant[S, T]) error {
	trials, maxKeys := h.resolve(inv.Trials, inv.MaxKeys, DefaultMaxKeys)
	eq := equalFn(inv.Equal)
	return h.run(ctx, trials, func() error {
		s, err := h.generate(maxKeys)
		if err != nil {
			return h.generationFailed(inv.Name, err)
		}
		if inv.Valid != nil && !inv.Valid(s) {
			return nil
		}
		left, right := inv.Left(s), inv.Right(s)
		if !eq(left, right) {
			verr := &InvariantError{Name: inv.Name, Want: left, Got: right}
			h.reportFailure(inv.Name, nil, verr, s)
			return verr
		}
		return nil
	})
}

// PairInvariant asserts that two derivations of a pair of independently
// generated subjects agree.
type PairInvariant[S Subject, T any] struct {
	Name    string
	Trials  int
	MaxKeys int               // 0: DefaultPairMaxKeys
	Valid   func(a, b S) bool // nil: every pair counts
	Left    func(a, b S) T
	Right   func(a, b S) T
	Equal   func(a, b T) bool // nil: structural equality
}

// VerifyPair runs a two-subject comparison. Both subjects of a failing
// trial land in the artifact, in generation order.
func VerifyPair[S Subject, T any](ctx context.Context, h *Harness[S], inv PairInvariant[S, T]) error {
	trials, maxKeys := h.resolve(inv.Trials, inv.MaxKeys, DefaultPairMaxKeys)
	eq := equalFn(inv.Equal)
	return h.run(ctx, trials, func() error {
		a, err := h.generate(maxKeys)
		if err != nil {
			return h.generationFailed(inv.Name, err)
		}
		b, err := h.generate(maxKeys)
		if err != nil {
			return h.generationFailed(inv.Name, err)
		}
		if inv.Valid != nil && !inv.Valid(a, b) {
			return nil
		}
		left, right := inv.Left(a, b), inv.Right(a, b)
		if !eq(left, right) {
			verr := &InvariantError{Name: inv.Name, Want: left, Got: right}
			h.reportFailure(inv.Name, nil, verr, a, b)
			return verr
		}
		return nil
	})
}

// IndexInvariant asserts a predicate once per element index of a random
// subject, in ascending order. One subject thus expands into Count()
// sub-assertions; the first failing index aborts that subject's remaining
// indices, while other subjects' trials already in flight continue.
type IndexInvariant[S Subject] struct {
	Name    string
	Trials  int
	MaxKeys int            // 0: DefaultSmallMaxKeys
	Valid   func(s S) bool // nil: every subject counts
	Check   func(i int, s S) bool
}

// VerifyIndexed runs an index-parameterized invariant. Failures carry
// context {"index": i}.
func VerifyIndexed[S Subject](ctx context.Context, h *Harness[S], inv IndexInvariant[S]) error {
	trials, maxKeys := h.resolve(inv.Trials, inv.MaxKeys, DefaultSmallMaxKeys)
	return h.run(ctx, trials, func() error {
		s, err := h.generate(maxKeys)
		if err != nil {
			return h.generationFailed(inv.Name, err)
		}
		if inv.Valid != nil && !inv.Valid(s) {
			return nil
		}
		for i := 0; i < s.Count(); i++ {
			if !inv.Check(i, s) {
				verr := &InvariantError{
					Name:    inv.Name,
					Context: map[string]any{"index": i},
					Want:    true,
					Got:     false,
				}
				h.reportFailure(inv.Name, verr.Context, verr, s)
				return verr
			}
		}
		return nil
	})
}

// ActionInvariant runs a side-effecting check routine against each random
// subject. The routine performs its own assertions and returns whatever
// failure it detects; the harness adds nothing beyond reporting.
type ActionInvariant[S Subject] struct {
	Name    string
	Trials  int
	MaxKeys int            // 0: DefaultSmallMaxKeys
	Valid   func(s S) bool // nil: every subject counts
	Check   func(s S) error
}

// VerifyAction runs a bare action invariant.
func VerifyAction[S Subject](ctx context.Context, h *Harness[S], inv ActionInvariant[S]) error {
	trials, maxKeys := h.resolve(inv.Trials, inv.MaxKeys, DefaultSmallMaxKeys)
	return h.run(ctx, trials, func() error {
		s, err := h.generate(maxKeys)
		if err != nil {
			return h.generationFailed(inv.Name, err)
		}
		if inv.Valid != nil && !inv.Valid(s) {
			return nil
		}
		if err := inv.Check(s); err != nil {
			h.reportFailure(inv.Name, nil, err, s)
			return err
		}
		return nil
	})
}
