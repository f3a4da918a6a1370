package report

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/wcharczuk/go-chart/v2"
)

// defaultTopN bounds bar charts; everything past the cutoff is
// folded into a single "others" bar so one busy group chat cannot
// stretch a chart beyond reading.
const defaultTopN = 12

const (
	chartWidth  = 960
	chartHeight = 420
	pieSize     = 420
)

// namedValue is a label with its total, the common input shape for
// both bar and pie charts.
type namedValue struct {
	Name  string
	Value int
}

// sortedValues orders entries by descending value, breaking ties by
// name so renders are deterministic.
func sortedValues(totals map[string]int) []namedValue {
	vals := make([]namedValue, 0, len(totals))
	for name, v := range totals {
		vals = append(vals, namedValue{Name: name, Value: v})
	}
	sort.Slice(vals, func(i, j int) bool {
		if vals[i].Value != vals[j].Value {
			return vals[i].Value > vals[j].Value
		}
		return vals[i].Name < vals[j].Name
	})
	return vals
}

// sumValues totals a map's values.
func sumValues(totals map[string]int) int {
	sum := 0
	for _, v := range totals {
		sum += v
	}
	return sum
}

// renderBar draws a descending bar chart of totals, collapsing the
// tail into "others" past topN entries. A zero total is the
// caller's signal to skip the chart entirely; calling with one
// produces an error.
func renderBar(
	w io.Writer, title string, totals map[string]int, topN int,
) error {
	if topN <= 1 {
		topN = defaultTopN
	}
	vals := sortedValues(totals)
	if len(vals) > topN {
		rest := 0
		for _, v := range vals[topN-1:] {
			rest += v.Value
		}
		vals = append(vals[:topN-1],
			namedValue{Name: "others", Value: rest})
	}
	bars := make([]chart.Value, 0, len(vals))
	maxVal := 0.0
	for _, v := range vals {
		if f := float64(v.Value); f > maxVal {
			maxVal = f
		}
		bars = append(bars, chart.Value{
			Label: v.Name,
			Value: float64(v.Value),
		})
	}
	if len(bars) == 0 {
		return fmt.Errorf("bar chart %q: no data", title)
	}
	bc := chart.BarChart{
		Title:    title,
		Width:    chartWidth,
		Height:   chartHeight,
		BarWidth: 40,
		Bars:     bars,
		XAxis: chart.Style{
			TextRotationDegrees: 45,
		},
	}
	// An explicit y-range keeps single-bar and all-equal inputs
	// renderable; the library rejects a zero-width data range.
	bc.YAxis.Range = &chart.ContinuousRange{
		Min: 0, Max: axisMax(maxVal),
	}
	if err := bc.Render(chart.SVG, w); err != nil {
		return fmt.Errorf("bar chart %q: %w", title, err)
	}
	return nil
}

// renderPie draws a share-of-total pie. Zero-valued slices are
// dropped; an all-zero input is an error, so callers must check the
// total first.
func renderPie(w io.Writer, title string, totals map[string]int) error {
	vals := sortedValues(totals)
	slices := make([]chart.Value, 0, len(vals))
	for _, v := range vals {
		if v.Value == 0 {
			continue
		}
		slices = append(slices, chart.Value{
			Label: v.Name,
			Value: float64(v.Value),
		})
	}
	if len(slices) == 0 {
		return fmt.Errorf("pie chart %q: no data", title)
	}
	pc := chart.PieChart{
		Title:  title,
		Width:  pieSize,
		Height: pieSize,
		Values: slices,
	}
	if err := pc.Render(chart.SVG, w); err != nil {
		return fmt.Errorf("pie chart %q: %w", title, err)
	}
	return nil
}

// dateSeries is one plotted line: per-day totals for one author.
type dateSeries struct {
	Name   string
	ByDate map[string]int
}

// renderDatePlot draws one line per series across the union of their
// date keys, zero-filling the gaps so every line spans the same
// range. Single-day inputs are padded by a day on each side to keep
// the x-axis range non-degenerate.
func renderDatePlot(
	w io.Writer, title string, series []dateSeries,
) error {
	first, last, ok := dateBounds(series)
	if !ok {
		return fmt.Errorf("date plot %q: no data", title)
	}
	if first.Equal(last) {
		first = first.AddDate(0, 0, -1)
		last = last.AddDate(0, 0, 1)
	}

	lines := make([]chart.Series, 0, len(series))
	maxVal := 0.0
	for _, s := range series {
		var xs []time.Time
		var ys []float64
		for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
			y := float64(s.ByDate[d.Format("2006-01-02")])
			if y > maxVal {
				maxVal = y
			}
			xs = append(xs, d)
			ys = append(ys, y)
		}
		lines = append(lines, chart.TimeSeries{
			Name:    s.Name,
			XValues: xs,
			YValues: ys,
		})
	}

	c := chart.Chart{
		Title:  title,
		Width:  chartWidth,
		Height: chartHeight,
		XAxis: chart.XAxis{
			ValueFormatter: chart.TimeDateValueFormatter,
		},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{
				Min: 0, Max: axisMax(maxVal),
			},
		},
		Series: lines,
	}
	c.Elements = []chart.Renderable{chart.Legend(&c)}
	if err := c.Render(chart.SVG, w); err != nil {
		return fmt.Errorf("date plot %q: %w", title, err)
	}
	return nil
}

// axisMax pads a data maximum into a non-degenerate axis top.
func axisMax(maxVal float64) float64 {
	if maxVal <= 0 {
		return 1
	}
	return maxVal
}

// dateBounds finds the earliest and latest date keys across all
// series. ok is false when no series holds any point.
func dateBounds(series []dateSeries) (time.Time, time.Time, bool) {
	var first, last time.Time
	found := false
	for _, s := range series {
		for key := range s.ByDate {
			d, err := time.Parse("2006-01-02", key)
			if err != nil {
				continue
			}
			if !found || d.Before(first) {
				first = d
			}
			if !found || d.After(last) {
				last = d
			}
			found = true
		}
	}
	return first, last, found
}
