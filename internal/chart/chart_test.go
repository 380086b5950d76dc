package chart

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"esglens/internal/dataset"
	apperrors "esglens/internal/errors"
	"esglens/internal/simulator"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G'}

func testHistory() []dataset.Record {
	return []dataset.Record{
		{Company: "Acme Corp", Sector: "Technology", Country: "USA", Year: 2021,
			EnvironmentalScore: 60, SocialScore: 65, GovernanceScore: 70, TotalESGScore: 65,
			CarbonEmissionsMT: 40, MarketCapBillion: 100},
		{Company: "Acme Corp", Sector: "Technology", Country: "USA", Year: 2022,
			EnvironmentalScore: 64, SocialScore: 67, GovernanceScore: 72, TotalESGScore: 67.6,
			CarbonEmissionsMT: 35, MarketCapBillion: 120},
		{Company: "Acme Corp", Sector: "Technology", Country: "USA", Year: 2023,
			EnvironmentalScore: 68, SocialScore: 70, GovernanceScore: 74, TotalESGScore: 70.6,
			CarbonEmissionsMT: 30, MarketCapBillion: 150},
	}
}

func assertPNG(t *testing.T, buf *bytes.Buffer) {
	t.Helper()
	require.Greater(t, buf.Len(), len(pngMagic))
	assert.Equal(t, pngMagic, buf.Bytes()[:len(pngMagic)])
}

func TestScoreTrend(t *testing.T) {
	var buf bytes.Buffer
	err := ScoreTrend(&buf, "Acme Corp", testHistory())
	require.NoError(t, err)
	assertPNG(t, &buf)
}

func TestScoreTrendTooFewPoints(t *testing.T) {
	var buf bytes.Buffer
	err := ScoreTrend(&buf, "Acme Corp", testHistory()[:1])
	require.Error(t, err)
	assert.Zero(t, buf.Len())
}

func TestComparisonBars(t *testing.T) {
	records := []dataset.Record{
		{Company: "Acme Corp", TotalESGScore: 70.6},
		{Company: "Nimbus Soft", TotalESGScore: 64.2},
	}

	var buf bytes.Buffer
	err := ComparisonBars(&buf, dataset.MetricTotalESG, records)
	require.NoError(t, err)
	assertPNG(t, &buf)
}

func TestComparisonBarsUnknownMetric(t *testing.T) {
	var buf bytes.Buffer
	err := ComparisonBars(&buf, "bogus_metric", testHistory())
	assert.ErrorIs(t, err, apperrors.ErrMetricUnknown)
}

func TestComparisonBarsEmpty(t *testing.T) {
	var buf bytes.Buffer
	err := ComparisonBars(&buf, dataset.MetricTotalESG, nil)
	assert.ErrorIs(t, err, apperrors.ErrEmptyDataset)
}

func TestSectorBars(t *testing.T) {
	averages := []dataset.SectorAverage{
		{Sector: "Technology", Year: 2023, TotalESGScore: 71.2, Companies: 3},
		{Sector: "Energy", Year: 2023, TotalESGScore: 52.4, Companies: 2},
		{Sector: "Technology", Year: 2022, TotalESGScore: 68.9, Companies: 3},
	}

	var buf bytes.Buffer
	err := SectorBars(&buf, averages, 2023)
	require.NoError(t, err)
	assertPNG(t, &buf)
}

func TestSectorBarsNoDataForYear(t *testing.T) {
	var buf bytes.Buffer
	err := SectorBars(&buf, []dataset.SectorAverage{{Sector: "Energy", Year: 2022}}, 2023)
	require.Error(t, err)
}

func TestScatterBubble(t *testing.T) {
	var buf bytes.Buffer
	err := ScatterBubble(&buf, testHistory())
	require.NoError(t, err)
	assertPNG(t, &buf)
}

func TestScatterBubbleTooFewPoints(t *testing.T) {
	var buf bytes.Buffer
	err := ScatterBubble(&buf, testHistory()[:1])
	require.Error(t, err)
}

func TestBreakdownBars(t *testing.T) {
	var buf bytes.Buffer
	err := BreakdownBars(&buf, testHistory()[2])
	require.NoError(t, err)
	assertPNG(t, &buf)
}

func TestCarbonEmitters(t *testing.T) {
	records := []dataset.Record{
		{Company: "Grimstone Coal", CarbonEmissionsMT: 140},
		{Company: "Acme Corp", CarbonEmissionsMT: 30},
		{Company: "Nimbus Soft", CarbonEmissionsMT: 8},
	}

	var buf bytes.Buffer
	err := CarbonEmitters(&buf, records, 2)
	require.NoError(t, err)
	assertPNG(t, &buf)
}

func TestTrajectory(t *testing.T) {
	sim := simulator.New()
	points := sim.ProjectTrajectory(
		simulator.Scores{Environmental: 60, Social: 65, Governance: 55},
		simulator.Improvements{Environmental: 10, Social: 10, Governance: 10},
		5,
	)

	var buf bytes.Buffer
	err := Trajectory(&buf, "Acme Corp", points)
	require.NoError(t, err)
	assertPNG(t, &buf)
}

func TestTrajectoryTooFewPoints(t *testing.T) {
	var buf bytes.Buffer
	err := Trajectory(&buf, "Acme Corp", nil)
	require.Error(t, err)
}

func TestProjectionBars(t *testing.T) {
	sim := simulator.New()
	result := sim.SimulateImprovements(
		simulator.Scores{Environmental: 60, Social: 65, Governance: 55},
		simulator.Improvements{Environmental: 10, Social: 5, Governance: 20},
	)

	var buf bytes.Buffer
	err := ProjectionBars(&buf, "Acme Corp", result)
	require.NoError(t, err)
	assertPNG(t, &buf)
}
