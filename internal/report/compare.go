package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/formatlab/sacfit/internal/accumulation"
	apperrors "github.com/formatlab/sacfit/internal/errors"
	"github.com/formatlab/sacfit/internal/logging"
	"github.com/formatlab/sacfit/internal/registry"
)

// Holdings is a normalized view of a collection survey: the set of observed
// extensions, how many files carry each, and the total file count.
type Holdings struct {
	Set    accumulation.Set
	Counts map[string]int
	Total  int
}

// ReadHoldings parses a holdings CSV with "extension" and "file_count"
// columns. Extensions are lowercased, trimmed, converted to the *.<ext> glob
// form, and dropped (with a warning) when they contain spaces or are purely
// numeric.
func ReadHoldings(r io.Reader, logger logging.Logger) (*Holdings, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, apperrors.WrapError(err, "reading holdings header")
	}
	extCol, countCol := -1, -1
	for i, name := range header {
		switch name {
		case "extension":
			extCol = i
		case "file_count":
			countCol = i
		}
	}
	if extCol < 0 || countCol < 0 {
		return nil, apperrors.NewInvalidInputError("", "holdings CSV needs extension and file_count columns, got %v", header)
	}

	h := &Holdings{Set: make(accumulation.Set), Counts: make(map[string]int)}
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, apperrors.WrapError(err, "reading holdings row")
		}

		ext := strings.ToLower(strings.TrimSpace(row[extCol]))
		if strings.Contains(ext, " ") {
			logger.Warn("dropping extension with space in", logging.String("extension", ext))
			continue
		}
		if isNumeric(ext) {
			logger.Warn("dropping extension that appears to be just a number", logging.String("extension", ext))
			continue
		}
		count, err := strconv.Atoi(strings.TrimSpace(row[countCol]))
		if err != nil {
			return nil, apperrors.WrapError(err, "parsing file_count for %q", ext)
		}

		glob := "*." + ext
		h.Set.Add(glob)
		h.Counts[glob] = count
		h.Total += count
	}
	return h, nil
}

// ReadHoldingsFile opens and parses a holdings CSV from disk.
func ReadHoldingsFile(path string, logger logging.Logger) (*Holdings, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.WrapError(err, "reading %s", path)
	}
	defer f.Close()
	return ReadHoldings(f, logger)
}

// ComparisonRow reports, for one registry, the overlap with a collection:
// how many of the collection's extensions the registry knows (Common), how
// many it misses (Remainder), and how many files those misses account for
// (RemainderMass).
type ComparisonRow struct {
	Source          string
	Common          int
	Remainder       int
	RemainderMass   int
	CollectionTotal int
}

// AllRegistriesRow is the source key of the synthetic union row appended by
// Compare.
const AllRegistriesRow = "_ALL_"

// Compare evaluates each registry against the holdings, largest registry
// first, and appends a row for the union of all registries.
func Compare(sets registry.Sets, h *Holdings) []ComparisonRow {
	keys := make([]string, 0, len(sets))
	for k := range sets {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		si, sj := len(sets[keys[i]]), len(sets[keys[j]])
		if si != sj {
			return si > sj
		}
		return keys[i] < keys[j]
	})

	rows := make([]ComparisonRow, 0, len(keys)+1)
	union := make(accumulation.Set)
	for _, key := range keys {
		union.Merge(sets[key])
		rows = append(rows, compareOne(key, sets[key], h))
	}
	rows = append(rows, compareOne(AllRegistriesRow, union, h))
	return rows
}

// compareOne computes a single comparison row for the given candidate set.
func compareOne(source string, candidate accumulation.Set, h *Holdings) ComparisonRow {
	row := ComparisonRow{Source: source, CollectionTotal: h.Total}
	for ext := range h.Set {
		if candidate.Contains(ext) {
			row.Common++
		} else {
			row.Remainder++
			row.RemainderMass += h.Counts[ext]
		}
	}
	return row
}

// WriteComparison renders comparison rows as whitespace-separated columns,
// one registry per line, matching the original report layout.
func WriteComparison(w io.Writer, rows []ComparisonRow) error {
	for _, row := range rows {
		if _, err := fmt.Fprintf(w, "%s %d %d %d %d\n",
			row.Source, row.Common, row.Remainder, row.RemainderMass, row.CollectionTotal); err != nil {
			return err
		}
	}
	return nil
}

// isNumeric reports whether s is non-empty and consists only of digits.
func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
