package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"

	"github.com/formatlab/sacfit/internal/accumulation"
	apperrors "github.com/formatlab/sacfit/internal/errors"
	"github.com/formatlab/sacfit/internal/fit"
	"github.com/formatlab/sacfit/internal/registry"
)

// RecordJSON is the machine-readable form of an accumulation record, with
// the original column names as JSON keys.
type RecordJSON struct {
	Source        string   `json:"source"`
	NumExts       int      `json:"num_exts"`
	NumUniqExts   int      `json:"num_uniq_exts"`
	PercentUniq   float64  `json:"percent_uniq_exts"`
	TotalExts     int      `json:"total_exts"`
	TotalUniqExts int      `json:"total_uniq_exts"`
	AddedUniqExts int      `json:"added_uniq_exts"`
	UniqExts      []string `json:"uniq_exts"`
}

// FitJSON is the machine-readable form of a fit result.
type FitJSON struct {
	A          float64     `json:"a"`
	B          float64     `json:"b"`
	Covariance [2][2]float64 `json:"covariance"`
	XSamples   []float64   `json:"x_samples"`
	YFit       []float64   `json:"y_fit"`
	YLower     []float64   `json:"y_lower"`
	YUpper     []float64   `json:"y_upper"`
}

// CurveJSON bundles records and fit for one input, as served by the HTTP API
// and the -json output flag.
type CurveJSON struct {
	Records []RecordJSON `json:"records"`
	Fit     *FitJSON     `json:"fit,omitempty"`
}

// NewCurveJSON converts core results to their serialized form.
func NewCurveJSON(records []accumulation.Record, res *fit.Result) CurveJSON {
	out := CurveJSON{Records: make([]RecordJSON, len(records))}
	for i, r := range records {
		out.Records[i] = RecordJSON{
			Source:        r.Source,
			NumExts:       r.SetSize,
			NumUniqExts:   r.UniqueSize,
			PercentUniq:   r.PercentUnique,
			TotalExts:     r.CumulativeTotal,
			TotalUniqExts: r.CumulativeUnique,
			AddedUniqExts: r.AddedUnique,
			UniqExts:      r.UniqueItems,
		}
	}
	if res != nil {
		out.Fit = &FitJSON{
			A:          res.A,
			B:          res.B,
			Covariance: res.Covariance,
			XSamples:   res.XSamples,
			YFit:       res.YFit,
			YLower:     res.YLower,
			YUpper:     res.YUpper,
		}
	}
	return out
}

// WriteCurveFile writes the curve JSON to path.
func WriteCurveFile(path string, curve CurveJSON) error {
	return writeJSONFile(path, curve)
}

// WriteRegistryFile exports a loaded registry mapping as a JSON object of
// source to sorted extension list.
func WriteRegistryFile(path string, sets registry.Sets) error {
	raw := make(map[string][]string, len(sets))
	for source, set := range sets {
		exts := make([]string, 0, len(set))
		for l := range set {
			exts = append(exts, l)
		}
		sort.Strings(exts)
		raw[source] = exts
	}
	return writeJSONFile(path, raw)
}

func writeJSONFile(path string, v any) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return apperrors.WrapError(err, "creating output directory %s", dir)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return apperrors.WrapError(err, "creating %s", path)
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return apperrors.WrapError(err, "encoding %s", path)
	}
	return f.Close()
}
