package tui

import (
	"fmt"
	"strings"

	"github.com/formatlab/sacfit/internal/fit"
)

// ChartModel renders the fitted accumulation curve with its confidence band
// as a braille dot chart.
type ChartModel struct {
	fit    *fit.Result
	stage  string
	width  int
	height int
}

// NewChartModel creates an empty chart panel.
func NewChartModel() ChartModel {
	return ChartModel{stage: "waiting for data"}
}

// SetSize updates dimensions. Width and height include the panel border.
func (c *ChartModel) SetSize(w, h int) {
	c.width = w
	c.height = h
}

// SetStage updates the placeholder text shown before results arrive.
func (c *ChartModel) SetStage(stage string) {
	c.stage = stage
}

// SetFit stores the fit result to plot.
func (c *ChartModel) SetFit(res *fit.Result) {
	c.fit = res
}

// Reset clears the chart.
func (c *ChartModel) Reset() {
	c.fit = nil
	c.stage = "waiting for data"
}

// View renders the chart panel.
func (c ChartModel) View() string {
	innerWidth := c.width - 4
	innerHeight := c.height - 2
	if innerWidth < 4 {
		innerWidth = 4
	}
	if innerHeight < 3 {
		innerHeight = 3
	}

	var body strings.Builder
	if c.fit == nil || len(c.fit.XSamples) == 0 {
		body.WriteString(dimStyle.Render(c.stage))
	} else {
		legend := fitLegendStyle.Render(fmt.Sprintf("y = %.2f·ln(x) + %.2f", c.fit.A, c.fit.B))
		body.WriteString(legend)
		body.WriteString(chartBandStyle.Render("  ±1.96σ"))
		body.WriteString("\n")

		chartRows := innerHeight - 1
		if chartRows < 2 {
			chartRows = 2
		}
		yMin, yMax := seriesRange(c.fit.YLower, c.fit.YUpper)
		rows := RenderBrailleSeries(
			[][]float64{c.fit.YLower, c.fit.YFit, c.fit.YUpper},
			innerWidth, chartRows, yMin, yMax)
		styled := make([]string, len(rows))
		for i, r := range rows {
			styled[i] = chartCurveStyle.Render(r)
		}
		body.WriteString(strings.Join(styled, "\n"))
	}

	return panelStyle.Width(c.width - 2).Height(innerHeight).Render(body.String())
}

// seriesRange returns the combined min and max of the given series, padded so
// a flat band still has a visible span.
func seriesRange(series ...[]float64) (yMin, yMax float64) {
	first := true
	for _, values := range series {
		for _, v := range values {
			if first {
				yMin, yMax = v, v
				first = false
				continue
			}
			if v < yMin {
				yMin = v
			}
			if v > yMax {
				yMax = v
			}
		}
	}
	if yMax-yMin < 1e-9 {
		yMin -= 1
		yMax += 1
	}
	return yMin, yMax
}
