package report

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/formatlab/sacfit/internal/accumulation"
	"github.com/formatlab/sacfit/internal/logging"
	"github.com/formatlab/sacfit/internal/registry"
)

func testLogger() logging.Logger {
	return logging.NewLogger(io.Discard, "test")
}

func TestReadHoldings(t *testing.T) {
	t.Parallel()

	const doc = `extension,file_count
PDF,100
doc ,25
has space,9
12345,7
png,3
`
	h, err := ReadHoldings(strings.NewReader(doc), testLogger())
	if err != nil {
		t.Fatalf("ReadHoldings returned error: %v", err)
	}

	if len(h.Set) != 3 {
		t.Fatalf("expected 3 kept extensions, got %d: %v", len(h.Set), h.Set)
	}
	if !h.Set.Contains("*.pdf") || !h.Set.Contains("*.doc") || !h.Set.Contains("*.png") {
		t.Errorf("normalization wrong: %v", h.Set)
	}
	if h.Counts["*.pdf"] != 100 {
		t.Errorf("count for *.pdf = %d, want 100", h.Counts["*.pdf"])
	}
	if h.Total != 128 {
		t.Errorf("Total = %d, want 128 (dropped rows excluded)", h.Total)
	}
}

func TestReadHoldings_BadHeader(t *testing.T) {
	t.Parallel()

	_, err := ReadHoldings(strings.NewReader("name,value\na,1\n"), testLogger())
	if err == nil {
		t.Fatal("expected error for missing columns")
	}
}

func TestCompare(t *testing.T) {
	t.Parallel()

	sets := registry.Sets{
		"big":   accumulation.NewSet("*.pdf", "*.doc", "*.xls"),
		"small": accumulation.NewSet("*.png"),
	}
	h := &Holdings{
		Set:    accumulation.NewSet("*.pdf", "*.png", "*.odd"),
		Counts: map[string]int{"*.pdf": 10, "*.png": 5, "*.odd": 2},
		Total:  17,
	}

	rows := Compare(sets, h)
	if len(rows) != 3 {
		t.Fatalf("expected 2 registries + union row, got %d", len(rows))
	}

	if rows[0].Source != "big" {
		t.Errorf("largest registry should come first, got %q", rows[0].Source)
	}
	if rows[0].Common != 1 || rows[0].Remainder != 2 || rows[0].RemainderMass != 7 {
		t.Errorf("big row wrong: %+v", rows[0])
	}
	if rows[1].Common != 1 || rows[1].RemainderMass != 12 {
		t.Errorf("small row wrong: %+v", rows[1])
	}

	all := rows[2]
	if all.Source != AllRegistriesRow {
		t.Errorf("last row should be %s, got %q", AllRegistriesRow, all.Source)
	}
	if all.Common != 2 || all.Remainder != 1 || all.RemainderMass != 2 {
		t.Errorf("union row wrong: %+v", all)
	}
	if all.CollectionTotal != 17 {
		t.Errorf("CollectionTotal = %d, want 17", all.CollectionTotal)
	}
}

func TestWriteComparison(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	rows := []ComparisonRow{{Source: "x", Common: 1, Remainder: 2, RemainderMass: 3, CollectionTotal: 4}}
	if err := WriteComparison(&buf, rows); err != nil {
		t.Fatalf("WriteComparison returned error: %v", err)
	}
	if buf.String() != "x 1 2 3 4\n" {
		t.Errorf("output = %q", buf.String())
	}
}
