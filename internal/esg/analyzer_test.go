package esg

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"esglens/internal/dataset"
	apperrors "esglens/internal/errors"
)

func testStore() *dataset.Store {
	return dataset.NewStore([]dataset.Record{
		{Company: "Acme Corp", Sector: "Technology", Country: "USA", Year: 2022,
			EnvironmentalScore: 70, SocialScore: 65, GovernanceScore: 80, TotalESGScore: 71.6,
			CarbonEmissionsMT: 10, BoardIndependencePct: 85, ControversyScore: 80, MarketCapBillion: 100},
		{Company: "Acme Corp", Sector: "Technology", Country: "USA", Year: 2023,
			EnvironmentalScore: 74, SocialScore: 67, GovernanceScore: 82, TotalESGScore: 74.2,
			CarbonEmissionsMT: 9, BoardIndependencePct: 86, ControversyScore: 82, MarketCapBillion: 110},
		{Company: "Nimbus Soft", Sector: "Technology", Country: "Ireland", Year: 2023,
			EnvironmentalScore: 66, SocialScore: 71, GovernanceScore: 78, TotalESGScore: 71.6,
			CarbonEmissionsMT: 5, BoardIndependencePct: 90, ControversyScore: 85, MarketCapBillion: 60},
		{Company: "Grimstone Coal", Sector: "Energy", Country: "Australia", Year: 2023,
			EnvironmentalScore: 35, SocialScore: 44, GovernanceScore: 52, TotalESGScore: 43.6,
			CarbonEmissionsMT: 120, SafetyIncidents: 45, BoardIndependencePct: 40,
			ControversyScore: 45, MarketCapBillion: 20},
	})
}

func TestCompanyMetrics(t *testing.T) {
	analyzer := NewAnalyzer(DefaultThresholds())
	store := testStore()

	metrics, err := analyzer.CompanyMetrics(store, "Acme Corp")
	require.NoError(t, err)

	assert.Equal(t, 2023, metrics.Year)
	assert.Equal(t, 74.2, metrics.TotalESGScore)
	assert.Equal(t, 4.0, metrics.EnvironmentalTrend)
	assert.Equal(t, 2.0, metrics.SocialTrend)
	assert.Equal(t, "AA", metrics.Rating.Grade)
}

func TestCompanyMetricsSingleYearHasZeroTrend(t *testing.T) {
	analyzer := NewAnalyzer(DefaultThresholds())
	store := testStore()

	metrics, err := analyzer.CompanyMetrics(store, "Nimbus Soft")
	require.NoError(t, err)
	assert.Zero(t, metrics.TotalTrend)
	assert.Zero(t, metrics.EnvironmentalTrend)
}

func TestCompanyMetricsNotFound(t *testing.T) {
	analyzer := NewAnalyzer(DefaultThresholds())

	_, err := analyzer.CompanyMetrics(testStore(), "Ghost Inc")
	assert.ErrorIs(t, err, apperrors.ErrCompanyNotFound)
}

func TestTopAndBottomPerformers(t *testing.T) {
	analyzer := NewAnalyzer(DefaultThresholds())
	store := testStore()

	top, err := analyzer.TopPerformers(store, 2, dataset.MetricTotalESG)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "Acme Corp", top[0].Company)
	assert.Equal(t, 74.2, top[0].Value)

	bottom, err := analyzer.BottomPerformers(store, 1, dataset.MetricTotalESG)
	require.NoError(t, err)
	require.Len(t, bottom, 1)
	assert.Equal(t, "Grimstone Coal", bottom[0].Company)

	_, err = analyzer.TopPerformers(store, 5, "nonsense")
	assert.ErrorIs(t, err, apperrors.ErrMetricUnknown)
}

func TestSectorBenchmark(t *testing.T) {
	analyzer := NewAnalyzer(DefaultThresholds())

	benchmark, err := analyzer.SectorBenchmark(testStore(), "Acme Corp")
	require.NoError(t, err)

	assert.Equal(t, "Technology", benchmark.Sector)
	assert.Equal(t, 74.0, benchmark.CompanyEnvironmental)
	// Technology 2023: Acme (74) and Nimbus (66) => 70.0
	assert.Equal(t, 70.0, benchmark.SectorEnvironmental)
	assert.Equal(t, 72.9, benchmark.SectorTotal)
}

func TestIdentifyRisks(t *testing.T) {
	analyzer := NewAnalyzer(DefaultThresholds())
	store := testStore()

	risks, err := analyzer.IdentifyRisks(store, "Grimstone Coal")
	require.NoError(t, err)

	// E score 35 (High), carbon 120 (High), S score 44 (Medium),
	// incidents 45 (High), G score 52 (Medium), board 40 (Medium),
	// controversy 45 (High)
	require.Len(t, risks, 7)

	bySeverity := map[string]int{}
	for _, r := range risks {
		bySeverity[r.Severity]++
	}
	assert.Equal(t, 4, bySeverity[SeverityHigh])
	assert.Equal(t, 3, bySeverity[SeverityMedium])
}

func TestIdentifyRisksCleanCompany(t *testing.T) {
	analyzer := NewAnalyzer(DefaultThresholds())

	risks, err := analyzer.IdentifyRisks(testStore(), "Acme Corp")
	require.NoError(t, err)
	assert.Empty(t, risks)
}

func TestImprovementAreas(t *testing.T) {
	analyzer := NewAnalyzer(DefaultThresholds())

	// Nimbus trails Acme on E and G within Technology
	improvements, err := analyzer.ImprovementAreas(testStore(), "Nimbus Soft")
	require.NoError(t, err)

	areas := make([]string, 0, len(improvements))
	for _, imp := range improvements {
		areas = append(areas, imp.Area)
		assert.Greater(t, imp.Gap, 0.0)
		assert.NotEmpty(t, imp.Recommendation)
	}
	assert.Equal(t, []string{"Environmental", "Governance"}, areas)
}

func TestSummaryStats(t *testing.T) {
	analyzer := NewAnalyzer(DefaultThresholds())

	stats, err := analyzer.SummaryStats(testStore())
	require.NoError(t, err)

	assert.Equal(t, 3, stats.TotalCompanies)
	assert.Equal(t, 2, stats.TotalSectors)
	assert.Equal(t, 3, stats.TotalCountries)
	assert.Equal(t, "Acme Corp", stats.TopPerformer)
	assert.Equal(t, 74.2, stats.TopScore)
	assert.Equal(t, "2022 - 2023", stats.YearsCovered)
	// (74.2 + 71.6 + 43.6) / 3 = 63.1
	assert.Equal(t, 63.1, stats.AvgESGScore)
}

func TestRatingFor(t *testing.T) {
	tests := []struct {
		score float64
		grade string
	}{
		{85, "AAA"},
		{80, "AAA"},
		{75, "AA"},
		{65, "A"},
		{55, "BBB"},
		{45, "BB"},
		{35, "B"},
		{25, "CCC"},
		{10, "CC"},
	}

	for _, tt := range tests {
		rating := RatingFor(tt.score)
		assert.Equal(t, tt.grade, rating.Grade, "score %.0f", tt.score)
		assert.NotEmpty(t, rating.Color)
	}
}

func TestLoadThresholds(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "thresholds.yml")
	content := `
environmental:
  score_flag: 55
  score_high: 45
  carbon_flag_mt: 50
  carbon_high_mt: 100
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	thresholds, err := LoadThresholds(path)
	require.NoError(t, err)
	assert.Equal(t, 55.0, thresholds.Environmental.ScoreFlag)
	// Untouched sections keep defaults
	assert.Equal(t, 60.0, thresholds.Governance.ScoreFlag)
}

func TestLoadThresholdsMissingFile(t *testing.T) {
	thresholds, err := LoadThresholds(filepath.Join(t.TempDir(), "missing.yml"))
	require.Error(t, err)
	// Defaults still usable on error
	assert.Equal(t, DefaultThresholds(), thresholds)
}
