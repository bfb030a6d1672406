package plot

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/formatlab/sacfit/internal/accumulation"
	"github.com/formatlab/sacfit/internal/fit"
)

func fixtures() ([]accumulation.Record, *fit.Result) {
	records := []accumulation.Record{
		{Source: "pronom", CumulativeTotal: 4, CumulativeUnique: 4},
		{Source: "mime", CumulativeTotal: 7, CumulativeUnique: 5},
		{Source: "tika", CumulativeTotal: 8, CumulativeUnique: 6},
	}
	res, err := fit.Fit([]float64{4, 7, 8}, []float64{4, 5, 6}, fit.WithSteps(20))
	if err != nil {
		panic(err)
	}
	return records, res
}

func TestRender(t *testing.T) {
	t.Parallel()

	records, res := fixtures()
	p, err := Render(records, res, DefaultOptions())
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	if p == nil {
		t.Fatal("Render returned nil plot")
	}
}

func TestRender_NoFit(t *testing.T) {
	t.Parallel()

	records, _ := fixtures()
	if _, err := Render(records, nil, DefaultOptions()); err != nil {
		t.Fatalf("Render without fit should succeed, got %v", err)
	}
}

func TestSave_WritesBothFormats(t *testing.T) {
	t.Parallel()

	records, res := fixtures()
	prefix := filepath.Join(t.TempDir(), "extensions.species")

	paths, err := Save(records, res, prefix, DefaultOptions())
	if err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("expected 2 output paths, got %v", paths)
	}
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			t.Errorf("expected %s to exist: %v", path, err)
			continue
		}
		if info.Size() == 0 {
			t.Errorf("%s is empty", path)
		}
	}
}
