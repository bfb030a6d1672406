package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/formatlab/sacfit/internal/accumulation"
	apperrors "github.com/formatlab/sacfit/internal/errors"
)

// csvHeader is the record column set, kept compatible with the original
// species.csv layout so downstream spreadsheets keep working.
var csvHeader = []string{
	"source",
	"num_exts",
	"num_uniq_exts",
	"percent_uniq_exts",
	"total_exts",
	"total_uniq_exts",
	"added_uniq_exts",
	"uniq_exts",
}

// CSVPath derives the species CSV output path from an input registry path:
// the input with its suffix replaced by ".species.csv".
func CSVPath(inputPath string) string {
	ext := filepath.Ext(inputPath)
	return strings.TrimSuffix(inputPath, ext) + ".species.csv"
}

// PlotPrefix derives the plot file prefix from the species CSV path.
func PlotPrefix(csvPath string) string {
	return strings.TrimSuffix(csvPath, filepath.Ext(csvPath))
}

// WriteRecords writes the accumulation records as a CSV table.
// Unique items are joined with semicolons inside the final column.
func WriteRecords(w io.Writer, records []accumulation.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return apperrors.WrapError(err, "writing CSV header")
	}
	for _, r := range records {
		row := []string{
			r.Source,
			strconv.Itoa(r.SetSize),
			strconv.Itoa(r.UniqueSize),
			strconv.FormatFloat(r.PercentUnique, 'f', 6, 64),
			strconv.Itoa(r.CumulativeTotal),
			strconv.Itoa(r.CumulativeUnique),
			strconv.Itoa(r.AddedUnique),
			strings.Join(r.UniqueItems, ";"),
		}
		if err := cw.Write(row); err != nil {
			return apperrors.WrapError(err, "writing CSV row for %s", r.Source)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteRecordsFile writes the records table to path, creating parent
// directories as needed.
func WriteRecordsFile(path string, records []accumulation.Record) error {
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
	if err := WriteRecords(f, records); err != nil {
		return err
	}
	return f.Close()
}

// FormatRecordsTable renders the records as an aligned text table for
// terminal display.
func FormatRecordsTable(records []accumulation.Record) string {
	var b strings.Builder
	nameWidth := len("Source")
	for _, r := range records {
		if len(r.Source) > nameWidth {
			nameWidth = len(r.Source)
		}
	}
	fmt.Fprintf(&b, "%-*s  %8s  %8s  %8s  %10s  %10s  %8s\n",
		nameWidth, "Source", "Size", "Unique", "%Unique", "CumTotal", "CumUnique", "Added")
	for _, r := range records {
		fmt.Fprintf(&b, "%-*s  %8d  %8d  %7.2f%%  %10d  %10d  %8d\n",
			nameWidth, r.Source, r.SetSize, r.UniqueSize, r.PercentUnique,
			r.CumulativeTotal, r.CumulativeUnique, r.AddedUnique)
	}
	return b.String()
}
