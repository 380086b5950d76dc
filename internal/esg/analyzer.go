package esg

import (
	"fmt"
	"math"
	"sort"

	"esglens/internal/dataset"
	apperrors "esglens/internal/errors"
)

// Analyzer computes per-company metrics, sector benchmarks and
// rule-based risk flags over a dataset store
type Analyzer struct {
	thresholds RiskThresholds
}

// NewAnalyzer creates an analyzer with the given risk thresholds
func NewAnalyzer(thresholds RiskThresholds) *Analyzer {
	return &Analyzer{thresholds: thresholds}
}

// CompanyMetrics is the latest snapshot of a company plus pillar trends
type CompanyMetrics struct {
	Company string `json:"company"`
	Sector  string `json:"sector"`
	Country string `json:"country"`
	Year    int    `json:"year"`

	EnvironmentalScore float64 `json:"environmental_score"`
	SocialScore        float64 `json:"social_score"`
	GovernanceScore    float64 `json:"governance_score"`
	TotalESGScore      float64 `json:"total_esg_score"`
	Rating             Rating  `json:"rating"`

	// Deltas vs the previous year; zero when only one year of data exists
	EnvironmentalTrend float64 `json:"environmental_trend"`
	SocialTrend        float64 `json:"social_trend"`
	GovernanceTrend    float64 `json:"governance_trend"`
	TotalTrend         float64 `json:"total_trend"`

	CarbonEmissionsMT float64 `json:"carbon_emissions_mt"`
	ControversyScore  float64 `json:"controversy_score"`
	MarketCapBillion  float64 `json:"market_cap_billion"`
}

// CompanyMetrics returns the latest metrics and year-over-year trends for a company
func (a *Analyzer) CompanyMetrics(store *dataset.Store, company string) (CompanyMetrics, error) {
	history := store.History(company)
	if len(history) == 0 {
		return CompanyMetrics{}, fmt.Errorf("metrics for %q: %w", company, apperrors.ErrCompanyNotFound)
	}

	latest := history[len(history)-1]
	metrics := CompanyMetrics{
		Company:            latest.Company,
		Sector:             latest.Sector,
		Country:            latest.Country,
		Year:               latest.Year,
		EnvironmentalScore: latest.EnvironmentalScore,
		SocialScore:        latest.SocialScore,
		GovernanceScore:    latest.GovernanceScore,
		TotalESGScore:      latest.TotalESGScore,
		Rating:             RatingFor(latest.TotalESGScore),
		CarbonEmissionsMT:  latest.CarbonEmissionsMT,
		ControversyScore:   latest.ControversyScore,
		MarketCapBillion:   latest.MarketCapBillion,
	}

	if len(history) > 1 {
		prev := history[len(history)-2]
		metrics.EnvironmentalTrend = round1(latest.EnvironmentalScore - prev.EnvironmentalScore)
		metrics.SocialTrend = round1(latest.SocialScore - prev.SocialScore)
		metrics.GovernanceTrend = round1(latest.GovernanceScore - prev.GovernanceScore)
		metrics.TotalTrend = round1(latest.TotalESGScore - prev.TotalESGScore)
	}

	return metrics, nil
}

// RankedCompany is one row of a top/bottom performers ranking
type RankedCompany struct {
	Company string  `json:"company"`
	Sector  string  `json:"sector"`
	Metric  string  `json:"metric"`
	Value   float64 `json:"value"`
}

// TopPerformers ranks the n best companies on the given metric, using each
// company's most recent record
func (a *Analyzer) TopPerformers(store *dataset.Store, n int, metric string) ([]RankedCompany, error) {
	return a.rank(store, n, metric, true)
}

// BottomPerformers ranks the n worst companies on the given metric
func (a *Analyzer) BottomPerformers(store *dataset.Store, n int, metric string) ([]RankedCompany, error) {
	return a.rank(store, n, metric, false)
}

func (a *Analyzer) rank(store *dataset.Store, n int, metric string, descending bool) ([]RankedCompany, error) {
	if !dataset.KnownMetric(metric) {
		return nil, fmt.Errorf("rank by %q: %w", metric, apperrors.ErrMetricUnknown)
	}

	latest := store.Latest()
	ranked := make([]RankedCompany, 0, len(latest))
	for _, r := range latest {
		value, _ := r.Metric(metric)
		ranked = append(ranked, RankedCompany{
			Company: r.Company,
			Sector:  r.Sector,
			Metric:  metric,
			Value:   value,
		})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if descending {
			return ranked[i].Value > ranked[j].Value
		}
		return ranked[i].Value < ranked[j].Value
	})

	if n > 0 && n < len(ranked) {
		ranked = ranked[:n]
	}
	return ranked, nil
}

// SectorBenchmark compares a company's pillar scores against its sector means
type SectorBenchmark struct {
	Company string `json:"company"`
	Sector  string `json:"sector"`
	Year    int    `json:"year"`

	CompanyEnvironmental float64 `json:"company_environmental"`
	SectorEnvironmental  float64 `json:"sector_environmental"`
	CompanySocial        float64 `json:"company_social"`
	SectorSocial         float64 `json:"sector_social"`
	CompanyGovernance    float64 `json:"company_governance"`
	SectorGovernance     float64 `json:"sector_governance"`
	CompanyTotal         float64 `json:"company_total"`
	SectorTotal          float64 `json:"sector_total"`
}

// SectorBenchmark computes the company's latest pillar scores against the mean
// of its sector peers for the same year
func (a *Analyzer) SectorBenchmark(store *dataset.Store, company string) (SectorBenchmark, error) {
	latest, ok := store.LatestFor(company)
	if !ok {
		return SectorBenchmark{}, fmt.Errorf("benchmark for %q: %w", company, apperrors.ErrCompanyNotFound)
	}

	peers := store.SectorRecords(latest.Sector, latest.Year)
	var sumE, sumS, sumG, sumT float64
	for _, p := range peers {
		sumE += p.EnvironmentalScore
		sumS += p.SocialScore
		sumG += p.GovernanceScore
		sumT += p.TotalESGScore
	}
	n := float64(len(peers))

	return SectorBenchmark{
		Company:              company,
		Sector:               latest.Sector,
		Year:                 latest.Year,
		CompanyEnvironmental: latest.EnvironmentalScore,
		SectorEnvironmental:  round1(sumE / n),
		CompanySocial:        latest.SocialScore,
		SectorSocial:         round1(sumS / n),
		CompanyGovernance:    latest.GovernanceScore,
		SectorGovernance:     round1(sumG / n),
		CompanyTotal:         latest.TotalESGScore,
		SectorTotal:          round1(sumT / n),
	}, nil
}

// Risk severities
const (
	SeverityHigh   = "High"
	SeverityMedium = "Medium"
)

// Risk is a rule-based flag raised against a company's latest record
type Risk struct {
	Category    string `json:"category"`
	Severity    string `json:"severity"`
	Description string `json:"description"`
}

// IdentifyRisks evaluates the configured thresholds against a company's
// latest record and returns the flags raised
func (a *Analyzer) IdentifyRisks(store *dataset.Store, company string) ([]Risk, error) {
	latest, ok := store.LatestFor(company)
	if !ok {
		return nil, fmt.Errorf("risks for %q: %w", company, apperrors.ErrCompanyNotFound)
	}

	t := a.thresholds
	var risks []Risk

	if latest.EnvironmentalScore < t.Environmental.ScoreFlag {
		risks = append(risks, Risk{
			Category:    "Environmental",
			Severity:    severityBelow(latest.EnvironmentalScore, t.Environmental.ScoreHigh),
			Description: fmt.Sprintf("Environmental score (%.1f) below industry threshold", latest.EnvironmentalScore),
		})
	}
	if latest.CarbonEmissionsMT > t.Environmental.CarbonFlagMT {
		risks = append(risks, Risk{
			Category:    "Environmental",
			Severity:    severityAbove(latest.CarbonEmissionsMT, t.Environmental.CarbonHighMT),
			Description: fmt.Sprintf("High carbon emissions (%.1f MT)", latest.CarbonEmissionsMT),
		})
	}
	if latest.SocialScore < t.Social.ScoreFlag {
		risks = append(risks, Risk{
			Category:    "Social",
			Severity:    severityBelow(latest.SocialScore, t.Social.ScoreHigh),
			Description: fmt.Sprintf("Social score (%.1f) indicates workforce or community concerns", latest.SocialScore),
		})
	}
	if latest.SafetyIncidents > t.Social.IncidentsFlag {
		risks = append(risks, Risk{
			Category:    "Social",
			Severity:    severityAbove(float64(latest.SafetyIncidents), float64(t.Social.IncidentsHigh)),
			Description: fmt.Sprintf("Elevated safety incidents (%d reported)", latest.SafetyIncidents),
		})
	}
	if latest.GovernanceScore < t.Governance.ScoreFlag {
		risks = append(risks, Risk{
			Category:    "Governance",
			Severity:    severityBelow(latest.GovernanceScore, t.Governance.ScoreHigh),
			Description: fmt.Sprintf("Governance score (%.1f) suggests oversight concerns", latest.GovernanceScore),
		})
	}
	if latest.BoardIndependencePct < t.Governance.BoardIndependence {
		risks = append(risks, Risk{
			Category:    "Governance",
			Severity:    SeverityMedium,
			Description: fmt.Sprintf("Low board independence (%.1f%%)", latest.BoardIndependencePct),
		})
	}
	if latest.ControversyScore < t.Controversy.ScoreFlag {
		risks = append(risks, Risk{
			Category:    "Reputation",
			Severity:    severityBelow(latest.ControversyScore, t.Controversy.ScoreHigh),
			Description: fmt.Sprintf("Controversy score (%.1f) indicates reputational risks", latest.ControversyScore),
		})
	}

	return risks, nil
}

func severityBelow(value, highCutoff float64) string {
	if value < highCutoff {
		return SeverityHigh
	}
	return SeverityMedium
}

func severityAbove(value, highCutoff float64) string {
	if value > highCutoff {
		return SeverityHigh
	}
	return SeverityMedium
}

// Improvement is a pillar where the company trails its sector mean
type Improvement struct {
	Area           string  `json:"area"`
	Gap            float64 `json:"gap"`
	Recommendation string  `json:"recommendation"`
}

// ImprovementAreas lists pillars where the company is behind its sector
// average, with the gap in points
func (a *Analyzer) ImprovementAreas(store *dataset.Store, company string) ([]Improvement, error) {
	benchmark, err := a.SectorBenchmark(store, company)
	if err != nil {
		return nil, err
	}

	var improvements []Improvement
	if benchmark.CompanyEnvironmental < benchmark.SectorEnvironmental {
		improvements = append(improvements, Improvement{
			Area:           "Environmental",
			Gap:            round1(benchmark.SectorEnvironmental - benchmark.CompanyEnvironmental),
			Recommendation: "Focus on reducing carbon emissions and improving energy efficiency",
		})
	}
	if benchmark.CompanySocial < benchmark.SectorSocial {
		improvements = append(improvements, Improvement{
			Area:           "Social",
			Gap:            round1(benchmark.SectorSocial - benchmark.CompanySocial),
			Recommendation: "Enhance workforce diversity, safety programs, and community engagement",
		})
	}
	if benchmark.CompanyGovernance < benchmark.SectorGovernance {
		improvements = append(improvements, Improvement{
			Area:           "Governance",
			Gap:            round1(benchmark.SectorGovernance - benchmark.CompanyGovernance),
			Recommendation: "Strengthen board independence and improve executive compensation alignment",
		})
	}

	return improvements, nil
}

// SummaryStats describes the dataset as a whole using latest-year records
type SummaryStats struct {
	TotalCompanies int     `json:"total_companies"`
	TotalSectors   int     `json:"total_sectors"`
	TotalCountries int     `json:"total_countries"`
	AvgESGScore    float64 `json:"avg_esg_score"`
	AvgEScore      float64 `json:"avg_e_score"`
	AvgSScore      float64 `json:"avg_s_score"`
	AvgGScore      float64 `json:"avg_g_score"`
	TopPerformer   string  `json:"top_performer"`
	TopScore       float64 `json:"top_score"`
	YearsCovered   string  `json:"years_covered"`
}

// SummaryStats computes dataset-wide summary statistics
func (a *Analyzer) SummaryStats(store *dataset.Store) (SummaryStats, error) {
	latest := store.Latest()
	if len(latest) == 0 {
		return SummaryStats{}, apperrors.ErrEmptyDataset
	}

	var sumE, sumS, sumG, sumT float64
	sectors := make(map[string]bool)
	countries := make(map[string]bool)
	top := latest[0]

	for _, r := range latest {
		sumE += r.EnvironmentalScore
		sumS += r.SocialScore
		sumG += r.GovernanceScore
		sumT += r.TotalESGScore
		sectors[r.Sector] = true
		countries[r.Country] = true
		if r.TotalESGScore > top.TotalESGScore {
			top = r
		}
	}

	minYear, maxYear := store.YearRange()
	n := float64(len(latest))

	return SummaryStats{
		TotalCompanies: len(latest),
		TotalSectors:   len(sectors),
		TotalCountries: len(countries),
		AvgESGScore:    round1(sumT / n),
		AvgEScore:      round1(sumE / n),
		AvgSScore:      round1(sumS / n),
		AvgGScore:      round1(sumG / n),
		TopPerformer:   top.Company,
		TopScore:       top.TotalESGScore,
		YearsCovered:   fmt.Sprintf("%d - %d", minYear, maxYear),
	}, nil
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
