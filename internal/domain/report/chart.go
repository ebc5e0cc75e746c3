package report

import (
	"fmt"
	"io"

	chart "github.com/wcharczuk/go-chart/v2"
)

// RenderBarChart renders one report series as a PNG bar chart, mirroring the
// bar plots the reports are usually read with.
func RenderBarChart(w io.Writer, title string, labels []string, values []float64) error {
	if len(labels) != len(values) {
		return fmt.Errorf("chart %q: %d labels for %d values", title, len(labels), len(values))
	}
	if len(values) == 0 {
		return fmt.Errorf("chart %q: no data", title)
	}

	bars := make([]chart.Value, len(values))
	maxVal := 0.0
	for i, v := range values {
		bars[i] = chart.Value{Label: labels[i], Value: v}
		if v > maxVal {
			maxVal = v
		}
	}
	if maxVal <= 0 {
		// Keep the axis range non-degenerate for all-zero series.
		maxVal = 1
	}

	graph := chart.BarChart{
		Title:    title,
		Height:   512,
		BarWidth: 40,
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: maxVal * 1.1},
		},
		Bars: bars,
	}
	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render chart %q: %w", title, err)
	}
	return nil
}
