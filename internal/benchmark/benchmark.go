// Package benchmark compares companies against peer groups using
// percentile ranks, distribution statistics and quartile analysis.
package benchmark

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"esglens/internal/dataset"
	apperrors "esglens/internal/errors"
)

// Benchmarker runs peer comparisons over a dataset store
type Benchmarker struct {
	store *dataset.Store
}

// New creates a benchmarker over the given store
func New(store *dataset.Store) *Benchmarker {
	return &Benchmarker{store: store}
}

// PercentileRank returns the percentage of values strictly below v
func PercentileRank(values []float64, v float64) float64 {
	if len(values) == 0 {
		return 0
	}
	below := 0
	for _, x := range values {
		if x < v {
			below++
		}
	}
	return float64(below) / float64(len(values)) * 100
}

// MatrixCell is one company/metric entry in a comparison matrix
type MatrixCell struct {
	Value      float64 `json:"value"`
	Percentile float64 `json:"percentile"`
}

// Matrix holds metric values and percentile ranks for a peer set
type Matrix struct {
	Companies []string                         `json:"companies"`
	Metrics   []string                         `json:"metrics"`
	Cells     map[string]map[string]MatrixCell `json:"cells"`
}

// CompareMatrix builds a comparison matrix for the given companies and
// metrics, using each company's latest record. Percentiles rank each value
// against all companies' latest records, not just the selected peer set.
func (b *Benchmarker) CompareMatrix(companies, metrics []string) (*Matrix, error) {
	if len(companies) == 0 {
		return nil, apperrors.ValidationError("companies", "at least one company is required")
	}
	if len(metrics) == 0 {
		return nil, apperrors.ValidationError("metrics", "at least one metric is required")
	}
	for _, metric := range metrics {
		if !dataset.KnownMetric(metric) {
			return nil, fmt.Errorf("metric %q: %w", metric, apperrors.ErrMetricUnknown)
		}
	}

	records := make(map[string]dataset.Record, len(companies))
	for _, company := range companies {
		rec, ok := b.store.LatestFor(company)
		if !ok {
			return nil, fmt.Errorf("matrix for %q: %w", company, apperrors.ErrCompanyNotFound)
		}
		records[company] = rec
	}

	matrix := &Matrix{
		Companies: companies,
		Metrics:   metrics,
		Cells:     make(map[string]map[string]MatrixCell, len(companies)),
	}

	latest := b.store.Latest()
	for _, metric := range metrics {
		values := make([]float64, 0, len(latest))
		for _, r := range latest {
			v, _ := r.Metric(metric)
			values = append(values, v)
		}

		for _, company := range companies {
			v, _ := records[company].Metric(metric)
			if matrix.Cells[company] == nil {
				matrix.Cells[company] = make(map[string]MatrixCell, len(metrics))
			}
			matrix.Cells[company][metric] = MatrixCell{
				Value:      round1(v),
				Percentile: round1(PercentileRank(values, v)),
			}
		}
	}

	return matrix, nil
}

// peers returns the latest record per company, narrowed to a sector when
// one is given
func (b *Benchmarker) peers(sector string) ([]dataset.Record, error) {
	latest := b.store.Latest()
	if sector == "" {
		return latest, nil
	}
	filtered := make([]dataset.Record, 0, len(latest))
	for _, r := range latest {
		if r.Sector == sector {
			filtered = append(filtered, r)
		}
	}
	if len(filtered) == 0 {
		return nil, apperrors.ValidationError("sector", fmt.Sprintf("no companies in sector %q", sector))
	}
	return filtered, nil
}

// PeerStats summarizes how one company sits within its peer group
type PeerStats struct {
	Company    string  `json:"company"`
	Sector     string  `json:"sector,omitempty"`
	Metric     string  `json:"metric"`
	Value      float64 `json:"value"`
	PeerCount  int     `json:"peer_count"`
	Mean       float64 `json:"mean"`
	Median     float64 `json:"median"`
	StdDev     float64 `json:"std_dev"`
	Min        float64 `json:"min"`
	Max        float64 `json:"max"`
	Percentile float64 `json:"percentile"`
	ZScore     float64 `json:"z_score"`
	VsMean     float64 `json:"vs_mean"`
	VsMedian   float64 `json:"vs_median"`
}

// PeerStatistics computes distribution statistics for a company's metric
// against peers' latest records. An empty sector means all companies.
func (b *Benchmarker) PeerStatistics(company, metric, sector string) (*PeerStats, error) {
	if !dataset.KnownMetric(metric) {
		return nil, fmt.Errorf("metric %q: %w", metric, apperrors.ErrMetricUnknown)
	}

	rec, ok := b.store.LatestFor(company)
	if !ok {
		return nil, fmt.Errorf("statistics for %q: %w", company, apperrors.ErrCompanyNotFound)
	}
	value, err := rec.Metric(metric)
	if err != nil {
		return nil, err
	}

	latest, err := b.peers(sector)
	if err != nil {
		return nil, err
	}
	values := make([]float64, 0, len(latest))
	for _, r := range latest {
		v, _ := r.Metric(metric)
		values = append(values, v)
	}
	if len(values) == 0 {
		return nil, apperrors.ErrEmptyDataset
	}

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	mean := stat.Mean(values, nil)
	median := stat.Quantile(0.5, stat.Empirical, sorted, nil)

	stats := &PeerStats{
		Company:    company,
		Sector:     sector,
		Metric:     metric,
		Value:      round1(value),
		PeerCount:  len(values),
		Mean:       round1(mean),
		Median:     round1(median),
		Min:        round1(sorted[0]),
		Max:        round1(sorted[len(sorted)-1]),
		Percentile: round1(PercentileRank(values, value)),
		VsMean:     round1(value - mean),
		VsMedian:   round1(value - median),
	}

	if len(values) > 1 {
		std := stat.StdDev(values, nil)
		stats.StdDev = round1(std)
		if std > 0 {
			stats.ZScore = round2((value - mean) / std)
		}
	}

	return stats, nil
}

// QuartileBand describes one quartile of the peer distribution
type QuartileBand struct {
	Label     string   `json:"label"`
	Lower     float64  `json:"lower"`
	Upper     float64  `json:"upper"`
	Companies []string `json:"companies"`
}

// QuartileDistribution splits companies into quartiles by metric, using
// their latest records. An empty sector means all companies. Band edges
// come from the empirical quartiles of the metric's distribution.
func (b *Benchmarker) QuartileDistribution(metric, sector string) ([]QuartileBand, error) {
	if !dataset.KnownMetric(metric) {
		return nil, fmt.Errorf("metric %q: %w", metric, apperrors.ErrMetricUnknown)
	}

	latest, err := b.peers(sector)
	if err != nil {
		return nil, err
	}
	if len(latest) == 0 {
		return nil, apperrors.ErrEmptyDataset
	}

	values := make([]float64, 0, len(latest))
	for _, r := range latest {
		v, _ := r.Metric(metric)
		values = append(values, v)
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	q1 := stat.Quantile(0.25, stat.Empirical, sorted, nil)
	q2 := stat.Quantile(0.5, stat.Empirical, sorted, nil)
	q3 := stat.Quantile(0.75, stat.Empirical, sorted, nil)

	bands := []QuartileBand{
		{Label: "Q1 (bottom)", Lower: sorted[0], Upper: q1},
		{Label: "Q2", Lower: q1, Upper: q2},
		{Label: "Q3", Lower: q2, Upper: q3},
		{Label: "Q4 (top)", Lower: q3, Upper: sorted[len(sorted)-1]},
	}

	for i, r := range latest {
		v := values[i]
		switch {
		case v <= q1:
			bands[0].Companies = append(bands[0].Companies, r.Company)
		case v <= q2:
			bands[1].Companies = append(bands[1].Companies, r.Company)
		case v <= q3:
			bands[2].Companies = append(bands[2].Companies, r.Company)
		default:
			bands[3].Companies = append(bands[3].Companies, r.Company)
		}
	}

	for i := range bands {
		bands[i].Lower = round1(bands[i].Lower)
		bands[i].Upper = round1(bands[i].Upper)
		sort.Strings(bands[i].Companies)
	}

	return bands, nil
}

// Insights classifies a company's metrics into competitive bands
type Insights struct {
	Company         string             `json:"company"`
	Strengths       []MetricRank       `json:"strengths"`
	Weaknesses      []MetricRank       `json:"weaknesses"`
	Opportunities   []MetricRank       `json:"opportunities"`
	Recommendations []string           `json:"recommendations"`
	Percentiles     map[string]float64 `json:"percentiles"`
}

// MetricRank pairs a metric with its percentile rank
type MetricRank struct {
	Metric     string  `json:"metric"`
	Percentile float64 `json:"percentile"`
}

// insightMetrics lists the metrics covered by competitive insights: the
// four pillar scores plus diversity and board independence.
func insightMetrics() []string {
	return append(dataset.ScoreMetrics(), dataset.MetricDiversity, dataset.MetricBoardIndependence)
}

// CompetitiveInsights classifies a company's metrics by percentile rank
// against its peers: top quartile metrics are strengths, bottom quartile
// are weaknesses (each with a recommendation to close the gap to the peer
// mean), and the 25-50 band marks opportunities. An empty sector compares
// against all companies.
func (b *Benchmarker) CompetitiveInsights(company, sector string) (*Insights, error) {
	rec, ok := b.store.LatestFor(company)
	if !ok {
		return nil, fmt.Errorf("insights for %q: %w", company, apperrors.ErrCompanyNotFound)
	}

	latest, err := b.peers(sector)
	if err != nil {
		return nil, err
	}
	insights := &Insights{
		Company:     company,
		Percentiles: make(map[string]float64),
	}

	for _, metric := range insightMetrics() {
		values := make([]float64, 0, len(latest))
		for _, r := range latest {
			v, _ := r.Metric(metric)
			values = append(values, v)
		}

		v, _ := rec.Metric(metric)
		pct := round1(PercentileRank(values, v))
		insights.Percentiles[metric] = pct

		entry := MetricRank{Metric: metric, Percentile: pct}
		switch {
		case pct >= 75:
			insights.Strengths = append(insights.Strengths, entry)
		case pct <= 25:
			insights.Weaknesses = append(insights.Weaknesses, entry)
			if gap := stat.Mean(values, nil) - v; gap > 0 {
				insights.Recommendations = append(insights.Recommendations,
					fmt.Sprintf("Improve %s score by %.1f points to reach the peer average",
						dataset.MetricDisplayName(metric), round1(gap)))
			}
		case pct < 50:
			insights.Opportunities = append(insights.Opportunities, entry)
		}
	}

	return insights, nil
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
