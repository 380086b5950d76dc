// Package chart renders dataset visualizations as PNG images using
// go-chart. Every renderer writes a finished PNG to the supplied writer.
package chart

import (
	"fmt"
	"io"
	"sort"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"esglens/internal/dataset"
	apperrors "esglens/internal/errors"
	"esglens/internal/simulator"
)

const (
	defaultWidth  = 900
	defaultHeight = 480
)

var (
	colorEnvironmental = drawing.ColorFromHex("2e7d32")
	colorSocial        = drawing.ColorFromHex("1565c0")
	colorGovernance    = drawing.ColorFromHex("6a1b9a")
	colorTotal         = drawing.ColorFromHex("37474f")
	colorAccent        = drawing.ColorFromHex("00897b")
)

func lineStyle(c drawing.Color) chart.Style {
	return chart.Style{StrokeColor: c, StrokeWidth: 2.2}
}

func dotStyle(c drawing.Color) chart.Style {
	return chart.Style{StrokeWidth: 0, DotColor: c, DotWidth: 6}
}

// ScoreTrend renders a company's pillar scores over time as line series
func ScoreTrend(w io.Writer, company string, history []dataset.Record) error {
	if len(history) < 2 {
		return apperrors.ValidationError("history", "at least two years of data are required for a trend chart")
	}

	years := make([]float64, len(history))
	env := make([]float64, len(history))
	soc := make([]float64, len(history))
	gov := make([]float64, len(history))
	total := make([]float64, len(history))
	for i, r := range history {
		years[i] = float64(r.Year)
		env[i] = r.EnvironmentalScore
		soc[i] = r.SocialScore
		gov[i] = r.GovernanceScore
		total[i] = r.TotalESGScore
	}

	ch := chart.Chart{
		Title:      fmt.Sprintf("%s - ESG Score Trend", company),
		Width:      defaultWidth,
		Height:     defaultHeight,
		Background: chart.Style{Padding: chart.Box{Top: 24, Left: 16, Right: 16, Bottom: 32}},
		XAxis:      chart.XAxis{Name: "Year", ValueFormatter: yearFormatter},
		YAxis:      chart.YAxis{Name: "Score", Range: &chart.ContinuousRange{Min: 0, Max: 100}},
		Series: []chart.Series{
			chart.ContinuousSeries{Name: "Environmental", XValues: years, YValues: env, Style: lineStyle(colorEnvironmental)},
			chart.ContinuousSeries{Name: "Social", XValues: years, YValues: soc, Style: lineStyle(colorSocial)},
			chart.ContinuousSeries{Name: "Governance", XValues: years, YValues: gov, Style: lineStyle(colorGovernance)},
			chart.ContinuousSeries{Name: "Total ESG", XValues: years, YValues: total, Style: lineStyle(colorTotal)},
		},
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}

	if err := ch.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render trend chart: %w", err)
	}
	return nil
}

// ComparisonBars renders one bar per company for the given metric
func ComparisonBars(w io.Writer, metric string, records []dataset.Record) error {
	if len(records) == 0 {
		return apperrors.ErrEmptyDataset
	}
	if !dataset.KnownMetric(metric) {
		return fmt.Errorf("metric %q: %w", metric, apperrors.ErrMetricUnknown)
	}

	bars := make([]chart.Value, 0, len(records))
	for _, r := range records {
		v, _ := r.Metric(metric)
		bars = append(bars, chart.Value{Label: r.Company, Value: v, Style: chart.Style{FillColor: colorAccent, StrokeColor: colorAccent}})
	}

	ch := chart.BarChart{
		Title:      fmt.Sprintf("%s by Company", dataset.MetricDisplayName(metric)),
		Width:      defaultWidth,
		Height:     defaultHeight,
		Background: chart.Style{Padding: chart.Box{Top: 24, Left: 16, Right: 16, Bottom: 32}},
		BarWidth:   48,
		Bars:       bars,
	}

	if err := ch.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render comparison chart: %w", err)
	}
	return nil
}

// SectorBars renders average total ESG score per sector for one year
func SectorBars(w io.Writer, averages []dataset.SectorAverage, year int) error {
	bars := make([]chart.Value, 0, len(averages))
	for _, avg := range averages {
		if avg.Year != year {
			continue
		}
		bars = append(bars, chart.Value{Label: avg.Sector, Value: avg.TotalESGScore, Style: chart.Style{FillColor: colorSocial, StrokeColor: colorSocial}})
	}
	if len(bars) == 0 {
		return apperrors.ValidationError("year", fmt.Sprintf("no sector averages for year %d", year))
	}
	sort.Slice(bars, func(i, j int) bool { return bars[i].Value > bars[j].Value })

	ch := chart.BarChart{
		Title:      fmt.Sprintf("Average ESG Score by Sector (%d)", year),
		Width:      defaultWidth,
		Height:     defaultHeight,
		Background: chart.Style{Padding: chart.Box{Top: 24, Left: 16, Right: 16, Bottom: 32}},
		BarWidth:   56,
		Bars:       bars,
	}

	if err := ch.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render sector chart: %w", err)
	}
	return nil
}

// ScatterBubble plots ESG score against market cap for the given records
func ScatterBubble(w io.Writer, records []dataset.Record) error {
	if len(records) < 2 {
		return apperrors.ValidationError("records", "at least two companies are required for a scatter chart")
	}

	xs := make([]float64, len(records))
	ys := make([]float64, len(records))
	for i, r := range records {
		xs[i] = r.MarketCapBillion
		ys[i] = r.TotalESGScore
	}

	ch := chart.Chart{
		Title:      "ESG Score vs Market Cap",
		Width:      defaultWidth,
		Height:     defaultHeight,
		Background: chart.Style{Padding: chart.Box{Top: 24, Left: 16, Right: 16, Bottom: 32}},
		XAxis:      chart.XAxis{Name: "Market Cap ($B)"},
		YAxis:      chart.YAxis{Name: "Total ESG Score", Range: &chart.ContinuousRange{Min: 0, Max: 100}},
		Series: []chart.Series{
			chart.ContinuousSeries{Name: "Companies", XValues: xs, YValues: ys, Style: dotStyle(colorAccent)},
		},
	}

	if err := ch.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render scatter chart: %w", err)
	}
	return nil
}

// BreakdownBars renders the pillar breakdown for a single record
func BreakdownBars(w io.Writer, record dataset.Record) error {
	ch := chart.BarChart{
		Title:      fmt.Sprintf("%s - Pillar Breakdown (%d)", record.Company, record.Year),
		Width:      defaultWidth,
		Height:     defaultHeight,
		Background: chart.Style{Padding: chart.Box{Top: 24, Left: 16, Right: 16, Bottom: 32}},
		BarWidth:   72,
		YAxis:      chart.YAxis{Range: &chart.ContinuousRange{Min: 0, Max: 100}},
		Bars: []chart.Value{
			{Label: "Environmental", Value: record.EnvironmentalScore, Style: chart.Style{FillColor: colorEnvironmental, StrokeColor: colorEnvironmental}},
			{Label: "Social", Value: record.SocialScore, Style: chart.Style{FillColor: colorSocial, StrokeColor: colorSocial}},
			{Label: "Governance", Value: record.GovernanceScore, Style: chart.Style{FillColor: colorGovernance, StrokeColor: colorGovernance}},
			{Label: "Total", Value: record.TotalESGScore, Style: chart.Style{FillColor: colorTotal, StrokeColor: colorTotal}},
		},
	}

	if err := ch.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render breakdown chart: %w", err)
	}
	return nil
}

// CarbonEmitters renders the top-n carbon emitting companies
func CarbonEmitters(w io.Writer, records []dataset.Record, n int) error {
	if len(records) == 0 {
		return apperrors.ErrEmptyDataset
	}
	if n <= 0 {
		n = 10
	}

	sorted := append([]dataset.Record(nil), records...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].CarbonEmissionsMT > sorted[j].CarbonEmissionsMT })
	if len(sorted) > n {
		sorted = sorted[:n]
	}

	bars := make([]chart.Value, 0, len(sorted))
	for _, r := range sorted {
		bars = append(bars, chart.Value{Label: r.Company, Value: r.CarbonEmissionsMT, Style: chart.Style{FillColor: colorGovernance, StrokeColor: colorGovernance}})
	}

	ch := chart.BarChart{
		Title:      fmt.Sprintf("Top %d Carbon Emitters (Mt)", len(bars)),
		Width:      defaultWidth,
		Height:     defaultHeight,
		Background: chart.Style{Padding: chart.Box{Top: 24, Left: 16, Right: 16, Bottom: 32}},
		BarWidth:   48,
		Bars:       bars,
	}

	if err := ch.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render carbon chart: %w", err)
	}
	return nil
}

// Trajectory renders projected score development from a simulation
func Trajectory(w io.Writer, company string, points []simulator.TrajectoryPoint) error {
	if len(points) < 2 {
		return apperrors.ValidationError("points", "at least two projection points are required")
	}

	years := make([]float64, len(points))
	env := make([]float64, len(points))
	soc := make([]float64, len(points))
	gov := make([]float64, len(points))
	total := make([]float64, len(points))
	for i, p := range points {
		years[i] = float64(p.Year)
		env[i] = p.Environmental
		soc[i] = p.Social
		gov[i] = p.Governance
		total[i] = p.Total
	}

	ch := chart.Chart{
		Title:      fmt.Sprintf("%s - Projected Score Trajectory", company),
		Width:      defaultWidth,
		Height:     defaultHeight,
		Background: chart.Style{Padding: chart.Box{Top: 24, Left: 16, Right: 16, Bottom: 32}},
		XAxis:      chart.XAxis{Name: "Years From Now"},
		YAxis:      chart.YAxis{Name: "Score", Range: &chart.ContinuousRange{Min: 0, Max: 100}},
		Series: []chart.Series{
			chart.ContinuousSeries{Name: "Environmental", XValues: years, YValues: env, Style: lineStyle(colorEnvironmental)},
			chart.ContinuousSeries{Name: "Social", XValues: years, YValues: soc, Style: lineStyle(colorSocial)},
			chart.ContinuousSeries{Name: "Governance", XValues: years, YValues: gov, Style: lineStyle(colorGovernance)},
			chart.ContinuousSeries{Name: "Total", XValues: years, YValues: total, Style: lineStyle(colorTotal)},
		},
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}

	if err := ch.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render trajectory chart: %w", err)
	}
	return nil
}

// ProjectionBars renders a simulation result as current-vs-projected bars
// per pillar. Projected bars use the accent color.
func ProjectionBars(w io.Writer, company string, result simulator.Result) error {
	pillar := func(label string, current, projected float64, c drawing.Color) []chart.Value {
		return []chart.Value{
			{Label: label + " Now", Value: current, Style: chart.Style{FillColor: c, StrokeColor: c}},
			{Label: label + " Proj", Value: projected, Style: chart.Style{FillColor: colorAccent, StrokeColor: colorAccent}},
		}
	}

	var bars []chart.Value
	bars = append(bars, pillar("E", result.Current.Environmental, result.Projected.Environmental, colorEnvironmental)...)
	bars = append(bars, pillar("S", result.Current.Social, result.Projected.Social, colorSocial)...)
	bars = append(bars, pillar("G", result.Current.Governance, result.Projected.Governance, colorGovernance)...)
	bars = append(bars, pillar("Total", result.CurrentTotal, result.ProjectedTotal, colorTotal)...)

	ch := chart.BarChart{
		Title:      fmt.Sprintf("%s - Current vs Projected", company),
		Width:      defaultWidth,
		Height:     defaultHeight,
		Background: chart.Style{Padding: chart.Box{Top: 24, Left: 16, Right: 16, Bottom: 32}},
		BarWidth:   48,
		YAxis:      chart.YAxis{Range: &chart.ContinuousRange{Min: 0, Max: 100}},
		Bars:       bars,
	}

	if err := ch.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render projection chart: %w", err)
	}
	return nil
}

func yearFormatter(v interface{}) string {
	if f, ok := v.(float64); ok {
		return fmt.Sprintf("%d", int(f))
	}
	return fmt.Sprint(v)
}
