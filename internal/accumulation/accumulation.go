package accumulation

import (
	"sort"

	apperrors "github.com/formatlab/sacfit/internal/errors"
)

// Record describes one source's contribution to the accumulation curve, in
// processing order. Records are derived purely from the input mapping and
// never mutated after creation.
type Record struct {
	// Source is the source key.
	Source string
	// SetSize is the number of labels in this source's set.
	SetSize int
	// UniqueSize is the number of labels that appear in no other source's
	// set. This is global uniqueness: a property of the whole collection,
	// not of the processing order.
	UniqueSize int
	// PercentUnique is 100 * UniqueSize / SetSize.
	PercentUnique float64
	// CumulativeTotal is the running raw sum of SetSize over the sources
	// processed so far. Labels shared between sources count once per source.
	CumulativeTotal int
	// CumulativeUnique is the size of the union of all sets processed so far.
	CumulativeUnique int
	// AddedUnique is how many previously unseen labels this source
	// contributed when merged at this position.
	AddedUnique int
	// UniqueItems holds the globally unique labels of this source, sorted.
	UniqueItems []string
}

// Compute produces one Record per source, processing sources in descending
// set-size order. Ties are broken by ascending source key, so the output is
// deterministic for a given input regardless of map iteration order.
//
// Largest-first ordering front-loads unique discoveries, which gives the
// downstream log fit a smoother saturating trajectory; it changes only the
// intermediate records, never the final totals.
//
// An empty mapping, or any source with an empty label set, is rejected with
// an InvalidInputError: an empty set would make PercentUnique undefined.
func Compute(sets map[string]Set) ([]Record, error) {
	if len(sets) == 0 {
		return nil, apperrors.NewInvalidInputError("", "no sources supplied")
	}

	keys := make([]string, 0, len(sets))
	for key, set := range sets {
		if len(set) == 0 {
			return nil, apperrors.NewInvalidInputError(key, "source set is empty")
		}
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		si, sj := len(sets[keys[i]]), len(sets[keys[j]])
		if si != sj {
			return si > sj
		}
		return keys[i] < keys[j]
	})

	seen := make(Set)
	total := 0
	records := make([]Record, 0, len(keys))

	for _, key := range keys {
		set := sets[key]
		total += len(set)

		before := len(seen)
		seen.Merge(set)
		added := len(seen) - before

		// Global uniqueness: subtract every other source's set. Quadratic in
		// the number of sources, which stays in the tens here.
		unique := set.Clone()
		for other, otherSet := range sets {
			if other != key {
				unique.Subtract(otherSet)
			}
		}

		items := make([]string, 0, len(unique))
		for l := range unique {
			items = append(items, l)
		}
		sort.Strings(items)

		records = append(records, Record{
			Source:           key,
			SetSize:          len(set),
			UniqueSize:       len(unique),
			PercentUnique:    100.0 * float64(len(unique)) / float64(len(set)),
			CumulativeTotal:  total,
			CumulativeUnique: len(seen),
			AddedUnique:      added,
			UniqueItems:      items,
		})
	}

	return records, nil
}

// Totals extracts the (CumulativeTotal, CumulativeUnique) trajectory from the
// records as parallel float64 slices, ready for the curve fitter.
func Totals(records []Record) (xs, ys []float64) {
	xs = make([]float64, len(records))
	ys = make([]float64, len(records))
	for i, r := range records {
		xs[i] = float64(r.CumulativeTotal)
		ys[i] = float64(r.CumulativeUnique)
	}
	return xs, ys
}

// Sources returns the source keys in processing order.
func Sources(records []Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Source
	}
	return out
}
