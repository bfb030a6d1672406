// Package plot renders the accumulation curve, the fitted log model and its
// 95% confidence band to PNG and SVG files.
package plot

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/formatlab/sacfit/internal/accumulation"
	apperrors "github.com/formatlab/sacfit/internal/errors"
	"github.com/formatlab/sacfit/internal/fit"
)

// Options controls chart rendering.
type Options struct {
	// Width and Height of the chart canvas.
	Width  vg.Length
	Height vg.Length
	// XLabel and YLabel override the default axis labels.
	XLabel string
	YLabel string
}

// DefaultOptions returns the chart geometry and labels used by the CLI.
func DefaultOptions() Options {
	return Options{
		Width:  10 * vg.Inch,
		Height: 6 * vg.Inch,
		XLabel: "Total File Extensions Recorded",
		YLabel: "Total Unique File Extensions",
	}
}

// Render builds the chart: one scatter point per source (labelled in the
// legend), the fitted curve, and the shaded confidence band behind it.
func Render(records []accumulation.Record, res *fit.Result, opts Options) (*plot.Plot, error) {
	p := plot.New()
	p.X.Label.Text = opts.XLabel
	p.Y.Label.Text = opts.YLabel
	p.X.Min = 0
	p.Y.Min = 0
	p.Legend.Top = true
	p.Legend.Left = true
	p.Add(plotter.NewGrid())

	if res != nil {
		if err := addBand(p, res); err != nil {
			return nil, err
		}
		if err := addFitLine(p, res); err != nil {
			return nil, err
		}
	}

	for i, r := range records {
		pts := plotter.XYs{{X: float64(r.CumulativeTotal), Y: float64(r.CumulativeUnique)}}
		s, err := plotter.NewScatter(pts)
		if err != nil {
			return nil, apperrors.WrapError(err, "building scatter for %s", r.Source)
		}
		s.GlyphStyle.Color = plotutil.Color(i)
		s.GlyphStyle.Radius = vg.Points(3)
		p.Add(s)
		p.Legend.Add(r.Source, s)
	}

	return p, nil
}

// addBand shades the region between the lower and upper confidence bounds.
func addBand(p *plot.Plot, res *fit.Result) error {
	n := len(res.XSamples)
	ring := make(plotter.XYs, 0, 2*n)
	for i := 0; i < n; i++ {
		ring = append(ring, plotter.XY{X: res.XSamples[i], Y: res.YUpper[i]})
	}
	for i := n - 1; i >= 0; i-- {
		ring = append(ring, plotter.XY{X: res.XSamples[i], Y: res.YLower[i]})
	}

	band, err := plotter.NewPolygon(ring)
	if err != nil {
		return apperrors.WrapError(err, "building confidence band")
	}
	band.Color = color.NRGBA{R: 0xE2, G: 0x36, B: 0x36, A: 0x33}
	band.LineStyle.Width = 0
	p.Add(band)
	p.Legend.Add("95% Confidence Interval", band)
	return nil
}

// addFitLine draws the fitted curve and labels it with the model equation.
func addFitLine(p *plot.Plot, res *fit.Result) error {
	pts := make(plotter.XYs, len(res.XSamples))
	for i := range res.XSamples {
		pts[i] = plotter.XY{X: res.XSamples[i], Y: res.YFit[i]}
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return apperrors.WrapError(err, "building fit line")
	}
	line.Color = color.NRGBA{R: 0xE2, G: 0x36, B: 0x36, A: 0xFF}
	line.Width = vg.Points(1.5)
	p.Add(line)
	p.Legend.Add(fmt.Sprintf("Fit: y = %.2f ln(x) + %.2f", res.A, res.B), line)
	return nil
}

// Save renders the chart to <prefix>.plot.png and <prefix>.plot.svg and
// returns the written paths.
func Save(records []accumulation.Record, res *fit.Result, prefix string, opts Options) ([]string, error) {
	p, err := Render(records, res, opts)
	if err != nil {
		return nil, err
	}
	paths := []string{prefix + ".plot.png", prefix + ".plot.svg"}
	for _, path := range paths {
		if err := p.Save(opts.Width, opts.Height, path); err != nil {
			return nil, apperrors.WrapError(err, "saving %s", path)
		}
	}
	return paths, nil
}
