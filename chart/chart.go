// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package chart

import (
	"bytes"
	"errors"
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"

	"github.com/danielhkuo/livepoll/models"
)

// Image size of a rendered chart
const (
	Width  = 8 * vg.Inch
	Height = 4 * vg.Inch
)

var (
	ErrNoBars         = errors.New("chart needs at least one bar")
	ErrLengthMismatch = errors.New("labels and values differ in length")
)

// Percentages converts counts to shares of the total, 0-100.
// All zeros when nobody has voted.
func Percentages(counts []int) []float64 {
	pcts := make([]float64, len(counts))

	total := 0
	for _, c := range counts {
		total += c
	}
	if total == 0 {
		return pcts
	}

	for i, c := range counts {
		pcts[i] = float64(c) / float64(total) * 100
	}
	return pcts
}

// FormatPercent renders a percentage with one decimal place
func FormatPercent(p float64) string {
	return fmt.Sprintf("%.1f%%", p)
}

// FromResults splits tallies into bar labels and percentages, in option order
func FromResults(results []models.OptionResult) ([]string, []float64) {
	labels := make([]string, len(results))
	counts := make([]int, len(results))
	for i, r := range results {
		labels[i] = r.OptionText
		counts[i] = r.Count
	}
	return labels, Percentages(counts)
}

// BarPNG draws one bar per label on a fixed 0-100 axis, each bar labeled
// with its percentage
func BarPNG(title string, labels []string, pcts []float64) ([]byte, error) {
	if len(labels) == 0 {
		return nil, ErrNoBars
	}
	if len(labels) != len(pcts) {
		return nil, fmt.Errorf("%w: %d labels, %d values", ErrLengthMismatch, len(labels), len(pcts))
	}

	p := plot.New()
	p.Title.Text = title
	p.Y.Label.Text = "Percentage"

	// One chart per bar so each option gets its own color
	for i := range pcts {
		vals := make(plotter.Values, len(pcts))
		vals[i] = pcts[i]

		bars, err := plotter.NewBarChart(vals, vg.Points(40))
		if err != nil {
			return nil, fmt.Errorf("failed to build bars: %w", err)
		}
		bars.Color = plotutil.Color(i)
		bars.LineStyle.Width = 0
		p.Add(bars)
	}

	xys := make(plotter.XYs, len(pcts))
	texts := make([]string, len(pcts))
	for i, pct := range pcts {
		xys[i].X = float64(i)
		xys[i].Y = pct + 2
		if xys[i].Y > 95 {
			xys[i].Y = pct - 6
		}
		texts[i] = FormatPercent(pct)
	}
	values, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: texts})
	if err != nil {
		return nil, fmt.Errorf("failed to build labels: %w", err)
	}
	for i := range values.TextStyle {
		values.TextStyle[i].XAlign = text.XCenter
	}
	p.Add(values)

	p.NominalX(labels...)

	// After Add, which widens the range to fit the data
	p.Y.Min = 0
	p.Y.Max = 100

	w, err := p.WriterTo(Width, Height, "png")
	if err != nil {
		return nil, fmt.Errorf("failed to create png writer: %w", err)
	}

	var buf bytes.Buffer
	if _, err := w.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to render chart: %w", err)
	}
	return buf.Bytes(), nil
}
