package bitmap

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Run is a maximal interval [Lo, Hi) of consecutive present values.
type Run struct {
	Lo uint64
	Hi uint64
}

// Runs returns the set as a minimal list of maximal runs, ascending.
// This is the portable serialized form: replaying AddRange over the runs
// reconstructs the set exactly.
func (b *Bitmap) Runs() []Run {
	var runs []Run
	it := b.Iterator()
	v, ok := it.Next()
	if !ok {
		return nil
	}
	cur := Run{Lo: uint64(v), Hi: uint64(v) + 1}
	for {
		v, ok = it.Next()
		if !ok {
			break
		}
		if uint64(v) == cur.Hi {
			cur.Hi++
			continue
		}
		runs = append(runs, cur)
		cur = Run{Lo: uint64(v), Hi: uint64(v) + 1}
	}
	return append(runs, cur)
}

// jsonForm is the wire shape of a bitmap: the cardinality plus the run list
// as [lo, hi) pairs.
type jsonForm struct {
	Count int         `json:"count"`
	Runs  [][2]uint64 `json:"runs"`
}

// MarshalJSON encodes the set in run form.
func (b *Bitmap) MarshalJSON() ([]byte, error) {
	runs := b.Runs()
	form := jsonForm{Count: b.Count(), Runs: make([][2]uint64, len(runs))}
	for i, r := range runs {
		form.Runs[i] = [2]uint64{r.Lo, r.Hi}
	}
	return json.Marshal(form)
}

// UnmarshalJSON decodes the run form produced by MarshalJSON.
func (b *Bitmap) UnmarshalJSON(data []byte) error {
	var form jsonForm
	if err := json.Unmarshal(data, &form); err != nil {
		return fmt.Errorf("decode bitmap: %w", err)
	}
	*b = Bitmap{}
	for _, r := range form.Runs {
		b.AddRange(r[0], r[1])
	}
	if got := b.Count(); got != form.Count {
		return fmt.Errorf("decode bitmap: run list holds %d values, count field says %d", got, form.Count)
	}
	return nil
}

// String renders a short human-readable summary. Long run lists are
// truncated.
func (b *Bitmap) String() string {
	const maxRuns = 8
	runs := b.Runs()
	var sb strings.Builder
	fmt.Fprintf(&sb, "bitmap{count=%d runs=", b.Count())
	for i, r := range runs {
		if i == maxRuns {
			fmt.Fprintf(&sb, " +%d more", len(runs)-maxRuns)
			break
		}
		if i > 0 {
			sb.WriteByte(' ')
		}
		if r.Hi == r.Lo+1 {
			fmt.Fprintf(&sb, "%d", r.Lo)
		} else {
			fmt.Fprintf(&sb, "[%d,%d)", r.Lo, r.Hi)
		}
	}
	sb.WriteByte('}')
	return sb.String()
}
