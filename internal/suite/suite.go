// Package suite is the invariant catalogue for the compressed bitmap.
//
// Each check names one algebraic or structural law of the bitmap and runs
// it through the fuzz harness. The catalogue is plain library code so the
// CLI and the tests drive the same checks.
package suite

import (
	"context"
	"fmt"

	"github.com/roach88/bitfuzz/internal/bitmap"
	"github.com/roach88/bitfuzz/internal/fuzz"
)

// Harness is the fuzz harness instantiated for the bitmap subject.
type Harness = fuzz.Harness[*bitmap.Bitmap]

// Check is one named invariant of the catalogue.
type Check struct {
	Name string
	Run  func(ctx context.Context, h *Harness) error
}

func nonEmpty(s *bitmap.Bitmap) bool { return !s.IsEmpty() }

func bitmapsEqual(a, b *bitmap.Bitmap) bool { return a.Equal(b) }

// All returns the full catalogue in a stable order.
func All() []Check {
	return []Check{
		{"rankSelect", rankSelect},
		{"selectContains", selectContains},
		{"firstSelectZero", firstSelectZero},
		{"lastSelectCardinality", lastSelectCardinality},
		{"andCardinality", andCardinality},
		{"orCardinality", orCardinality},
		{"xorCardinality", xorCardinality},
		{"strictSupersetNotContained", strictSupersetNotContained},
		{"containsAnd", containsAnd},
		{"limitCardinalityEqualsSelf", limitCardinalityEqualsSelf},
		{"limitCardinalityXorCardinality", limitCardinalityXorCardinality},
		{"containsRangeFirstLast", containsRangeFirstLast},
		{"intersectsRangeFirstLast", intersectsRangeFirstLast},
		{"containsSelf", containsSelf},
		{"containsSubset", containsSubset},
		{"disjointNoContainment", disjointNoContainment},
		{"disjointOrCardinality", disjointOrCardinality},
		{"disjointXorCardinality", disjointXorCardinality},
		{"equalsSymmetry", equalsSymmetry},
		{"orOfDisjunction", orOfDisjunction},
		{"orCoversXor", orCoversXor},
		{"xorViaAndNotOfOr", xorViaAndNotOfOr},
		{"rangeCardinalityVsMaterialisedRange", rangeCardinalityVsMaterialisedRange},
		{"absentValuesConsistentWithReference", absentValuesConsistentWithReference},
	}
}

// Lookup resolves check names against the catalogue. An empty name list
// returns the full catalogue.
func Lookup(names []string) ([]Check, error) {
	all := All()
	if len(names) == 0 {
		return all, nil
	}
	byName := make(map[string]Check, len(all))
	for _, c := range all {
		byName[c.Name] = c
	}
	out := make([]Check, 0, len(names))
	for _, name := range names {
		c, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("unknown check %q", name)
		}
		out = append(out, c)
	}
	return out, nil
}

// rank(select(i)) == i+1 for every valid index of a non-empty subject.
func rankSelect(ctx context.Context, h *Harness) error {
	return fuzz.VerifyIndexed(ctx, h, fuzz.IndexInvariant[*bitmap.Bitmap]{
		Name:  "rankSelect",
		Valid: nonEmpty,
		Check: func(i int, s *bitmap.Bitmap) bool {
			v, ok := s.Select(i)
			return ok && s.Rank(v) == i+1
		},
	})
}

// A subject contains every value select returns.
func selectContains(ctx context.Context, h *Harness) error {
	return fuzz.VerifyIndexed(ctx, h, fuzz.IndexInvariant[*bitmap.Bitmap]{
		Name:  "selectContains",
		Valid: nonEmpty,
		Check: func(i int, s *bitmap.Bitmap) bool {
			v, ok := s.Select(i)
			return ok && s.Contains(v)
		},
	})
}

func firstSelectZero(ctx context.Context, h *Harness) error {
	return fuzz.VerifyDerived(ctx, h, fuzz.DerivedInvariant[*bitmap.Bitmap, uint32]{
		Name:  "firstSelectZero",
		Valid: nonEmpty,
		Left: func(s *bitmap.Bitmap) uint32 {
			v, _ := s.First()
			return v
		},
		Right: func(s *bitmap.Bitmap) uint32 {
			v, _ := s.Select(0)
			return v
		},
	})
}

func lastSelectCardinality(ctx context.Context, h *Harness) error {
	return fuzz.VerifyDerived(ctx, h, fuzz.DerivedInvariant[*bitmap.Bitmap, uint32]{
		Name:  "lastSelectCardinality",
		Valid: nonEmpty,
		Left: func(s *bitmap.Bitmap) uint32 {
			v, _ := s.Last()
			return v
		},
		Right: func(s *bitmap.Bitmap) uint32 {
			v, _ := s.Select(s.Count() - 1)
			return v
		},
	})
}

func andCardinality(ctx context.Context, h *Harness) error {
	return fuzz.VerifyPair(ctx, h, fuzz.PairInvariant[*bitmap.Bitmap, int]{
		Name:    "andCardinality",
		MaxKeys: fuzz.DefaultMaxKeys,
		Left:    func(a, b *bitmap.Bitmap) int { return bitmap.And(a, b).Count() },
		Right:   bitmap.AndCount,
	})
}

func orCardinality(ctx context.Context, h *Harness) error {
	return fuzz.VerifyPair(ctx, h, fuzz.PairInvariant[*bitmap.Bitmap, int]{
		Name:    "orCardinality",
		MaxKeys: fuzz.DefaultMaxKeys,
		Left:    func(a, b *bitmap.Bitmap) int { return bitmap.Or(a, b).Count() },
		Right:   bitmap.OrCount,
	})
}

func xorCardinality(ctx context.Context, h *Harness) error {
	return fuzz.VerifyPair(ctx, h, fuzz.PairInvariant[*bitmap.Bitmap, int]{
		Name:    "xorCardinality",
		MaxKeys: fuzz.DefaultMaxKeys,
		Left:    func(a, b *bitmap.Bitmap) int { return bitmap.Xor(a, b).Count() },
		Right:   bitmap.XorCount,
	})
}

// A strict superset is never contained by its subset.
func strictSupersetNotContained(ctx context.Context, h *Harness) error {
	return fuzz.VerifyPair(ctx, h, fuzz.PairInvariant[*bitmap.Bitmap, bool]{
		Name:  "strictSupersetNotContained",
		Valid: func(a, b *bitmap.Bitmap) bool { return a.ContainsAll(b) && !a.Equal(b) },
		Left:  func(a, b *bitmap.Bitmap) bool { return false },
		Right: func(a, b *bitmap.Bitmap) bool { return b.ContainsAll(a) },
	})
}

// Containment coincides with intersection being the subset.
func containsAnd(ctx context.Context, h *Harness) error {
	return fuzz.VerifyPair(ctx, h, fuzz.PairInvariant[*bitmap.Bitmap, bool]{
		Name:  "containsAnd",
		Left:  func(a, b *bitmap.Bitmap) bool { return a.ContainsAll(b) },
		Right: func(a, b *bitmap.Bitmap) bool { return bitmap.And(a, b).Equal(b) },
	})
}

func limitCardinalityEqualsSelf(ctx context.Context, h *Harness) error {
	return fuzz.VerifyValue(ctx, h, fuzz.ValueInvariant[*bitmap.Bitmap, bool]{
		Name: "limitCardinalityEqualsSelf",
		Want: true,
		Eval: func(s *bitmap.Bitmap) bool { return s.Equal(s.Limit(s.Count())) },
	})
}

func limitCardinalityXorCardinality(ctx context.Context, h *Harness) error {
	return fuzz.VerifyDerived(ctx, h, fuzz.DerivedInvariant[*bitmap.Bitmap, int]{
		Name: "limitCardinalityXorCardinality",
		Left: func(s *bitmap.Bitmap) int { return s.Count() },
		Right: func(s *bitmap.Bitmap) int {
			half := s.Count() / 2
			return half + bitmap.XorCount(s, s.Limit(half))
		},
	})
}

// Filling [first, last) makes the span contained. The filled span is
// capped: without run containers a subject spanning the whole key space
// would materialize gigabytes of dense containers.
func containsRangeFirstLast(ctx context.Context, h *Harness) error {
	return fuzz.VerifyValue(ctx, h, fuzz.ValueInvariant[*bitmap.Bitmap, bool]{
		Name: "containsRangeFirstLast",
		Want: true,
		Eval: func(s *bitmap.Bitmap) bool {
			first, _ := s.First()
			last, _ := s.Last()
			lo, hi := uint64(first), uint64(last)
			if hi-lo > 1<<22 {
				hi = lo + 1<<22
			}
			c := s.Clone()
			c.AddRange(lo, hi)
			return c.ContainsRange(lo, hi)
		},
	})
}

func intersectsRangeFirstLast(ctx context.Context, h *Harness) error {
	return fuzz.VerifyValue(ctx, h, fuzz.ValueInvariant[*bitmap.Bitmap, bool]{
		Name: "intersectsRangeFirstLast",
		Want: true,
		Eval: func(s *bitmap.Bitmap) bool {
			first, _ := s.First()
			last, _ := s.Last()
			return s.IntersectsRange(uint64(first), uint64(last))
		},
	})
}

func containsSelf(ctx context.Context, h *Harness) error {
	return fuzz.VerifyValue(ctx, h, fuzz.ValueInvariant[*bitmap.Bitmap, bool]{
		Name: "containsSelf",
		Want: true,
		Eval: func(s *bitmap.Bitmap) bool { return s.ContainsAll(s.Clone()) },
	})
}

func containsSubset(ctx context.Context, h *Harness) error {
	return fuzz.VerifyValue(ctx, h, fuzz.ValueInvariant[*bitmap.Bitmap, bool]{
		Name: "containsSubset",
		Want: true,
		Eval: func(s *bitmap.Bitmap) bool { return s.ContainsAll(s.Limit(s.Count() / 2)) },
	})
}

// Disjoint non-empty subjects cannot contain each other.
func disjointNoContainment(ctx context.Context, h *Harness) error {
	return fuzz.VerifyPair(ctx, h, fuzz.PairInvariant[*bitmap.Bitmap, bool]{
		Name:  "disjointNoContainment",
		Valid: func(a, b *bitmap.Bitmap) bool { return bitmap.AndCount(a, b) == 0 },
		Left:  func(a, b *bitmap.Bitmap) bool { return false },
		Right: func(a, b *bitmap.Bitmap) bool { return a.ContainsAll(b) || b.ContainsAll(a) },
	})
}

func disjointOrCardinality(ctx context.Context, h *Harness) error {
	return fuzz.VerifyPair(ctx, h, fuzz.PairInvariant[*bitmap.Bitmap, int]{
		Name:  "disjointOrCardinality",
		Valid: func(a, b *bitmap.Bitmap) bool { return bitmap.AndCount(a, b) == 0 },
		Left:  func(a, b *bitmap.Bitmap) int { return a.Count() + b.Count() },
		Right: bitmap.OrCount,
	})
}

func disjointXorCardinality(ctx context.Context, h *Harness) error {
	return fuzz.VerifyPair(ctx, h, fuzz.PairInvariant[*bitmap.Bitmap, int]{
		Name:  "disjointXorCardinality",
		Valid: func(a, b *bitmap.Bitmap) bool { return bitmap.AndCount(a, b) == 0 },
		Left:  func(a, b *bitmap.Bitmap) int { return a.Count() + b.Count() },
		Right: bitmap.XorCount,
	})
}

func equalsSymmetry(ctx context.Context, h *Harness) error {
	return fuzz.VerifyPair(ctx, h, fuzz.PairInvariant[*bitmap.Bitmap, bool]{
		Name:  "equalsSymmetry",
		Left:  func(a, b *bitmap.Bitmap) bool { return a.Equal(b) },
		Right: func(a, b *bitmap.Bitmap) bool { return b.Equal(a) },
	})
}

// a | (a & b) == a.
func orOfDisjunction(ctx context.Context, h *Harness) error {
	return fuzz.VerifyPair(ctx, h, fuzz.PairInvariant[*bitmap.Bitmap, *bitmap.Bitmap]{
		Name:  "orOfDisjunction",
		Left:  func(a, b *bitmap.Bitmap) *bitmap.Bitmap { return a },
		Right: func(a, b *bitmap.Bitmap) *bitmap.Bitmap { return bitmap.Or(a, bitmap.And(a, b)) },
		Equal: bitmapsEqual,
	})
}

// a | b == a | (a ^ b).
func orCoversXor(ctx context.Context, h *Harness) error {
	return fuzz.VerifyPair(ctx, h, fuzz.PairInvariant[*bitmap.Bitmap, *bitmap.Bitmap]{
		Name:  "orCoversXor",
		Left:  func(a, b *bitmap.Bitmap) *bitmap.Bitmap { return bitmap.Or(a, b) },
		Right: func(a, b *bitmap.Bitmap) *bitmap.Bitmap { return bitmap.Or(a, bitmap.Xor(a, b)) },
		Equal: bitmapsEqual,
	})
}

// a ^ b == (a | b) \ (a & b).
func xorViaAndNotOfOr(ctx context.Context, h *Harness) error {
	return fuzz.VerifyPair(ctx, h, fuzz.PairInvariant[*bitmap.Bitmap, *bitmap.Bitmap]{
		Name:    "xorViaAndNotOfOr",
		MaxKeys: fuzz.DefaultMaxKeys,
		Left:    func(a, b *bitmap.Bitmap) *bitmap.Bitmap { return bitmap.Xor(a, b) },
		Right: func(a, b *bitmap.Bitmap) *bitmap.Bitmap {
			return bitmap.AndNot(bitmap.Or(a, b), bitmap.And(a, b))
		},
		Equal: bitmapsEqual,
	})
}

// Range cardinality agrees with intersecting a materialized range. The
// range is materialized only where the subject has values; values outside
// the subject cannot affect the intersection, and a full-width range would
// otherwise allocate gigabytes of dense containers.
func rangeCardinalityVsMaterialisedRange(ctx context.Context, h *Harness) error {
	return fuzz.VerifyRange(ctx, h, fuzz.RangeInvariant[*bitmap.Bitmap]{
		Name: "rangeCardinalityVsMaterialisedRange",
		Check: func(lo, hi uint64, s *bitmap.Bitmap) bool {
			r := bitmap.New()
			for _, run := range s.Runs() {
				if a, b := max(run.Lo, lo), min(run.Hi, hi); a < b {
					r.AddRange(a, b)
				}
			}
			return s.RangeCount(lo, hi) == bitmap.AndCount(r, s)
		},
	})
}

// Absent-value queries agree with a plain reference bit set at every
// present value and a handful of offsets around it. The size filter keeps
// the reference set's allocation bounded.
func absentValuesConsistentWithReference(ctx context.Context, h *Harness) error {
	offsets := []int64{0, 1, -1, 10, -10, 100, -100}

	return fuzz.VerifyAction(ctx, h, fuzz.ActionInvariant[*bitmap.Bitmap]{
		Name: "absentValuesConsistentWithReference",
		Valid: func(s *bitmap.Bitmap) bool {
			last, ok := s.Last()
			return !ok || (last > 0 && last < 1<<30)
		},
		Check: func(s *bitmap.Bitmap) error {
			ref := newRefSet(s)
			it := s.Iterator()
			for v, ok := it.Next(); ok; v, ok = it.Next() {
				for _, off := range offsets {
					pos := int64(v) + off
					if pos < 0 || pos >= 1<<32 {
						continue
					}
					x := uint32(pos)
					if want, got := ref.nextClear(x), s.NextAbsent(x); want != got {
						return fmt.Errorf("nextAbsent(%d): reference %d, bitmap %d", x, want, got)
					}
					if want, got := ref.prevClear(x), s.PrevAbsent(x); want != got {
						return fmt.Errorf("prevAbsent(%d): reference %d, bitmap %d", x, want, got)
					}
				}
			}
			return nil
		},
	})
}
