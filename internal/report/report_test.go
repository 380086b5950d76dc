package report

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"esglens/internal/dataset"
	apperrors "esglens/internal/errors"
	"esglens/internal/esg"
)

func testGenerator() *Generator {
	store := dataset.NewStore([]dataset.Record{
		{
			Company: "Acme Corp", Sector: "Technology", Country: "USA", Year: 2022,
			EnvironmentalScore: 64, SocialScore: 67, GovernanceScore: 72, TotalESGScore: 67.6,
			CarbonEmissionsMT: 35, EnergyIntensity: 2.1, WaterUsageM3: 110000, WasteRecycledPct: 58,
			EmployeeTurnoverPct: 12, DiversityScore: 66, SafetyIncidents: 4, CommunityInvestmentUSD: 2_400_000,
			BoardIndependencePct: 78, ExecutivePayRatio: 140, ControversyScore: 72, MarketCapBillion: 120,
		},
		{
			Company: "Acme Corp", Sector: "Technology", Country: "USA", Year: 2023,
			EnvironmentalScore: 68, SocialScore: 70, GovernanceScore: 74, TotalESGScore: 70.6,
			CarbonEmissionsMT: 30, EnergyIntensity: 1.9, WaterUsageM3: 98000, WasteRecycledPct: 62,
			EmployeeTurnoverPct: 11, DiversityScore: 69, SafetyIncidents: 3, CommunityInvestmentUSD: 2_800_000,
			BoardIndependencePct: 80, ExecutivePayRatio: 132, ControversyScore: 75, MarketCapBillion: 150,
		},
		{
			Company: "Nimbus Soft", Sector: "Technology", Country: "Germany", Year: 2023,
			EnvironmentalScore: 61, SocialScore: 66, GovernanceScore: 65, TotalESGScore: 64,
			CarbonEmissionsMT: 12, EnergyIntensity: 1.2, WaterUsageM3: 40000, WasteRecycledPct: 70,
			EmployeeTurnoverPct: 15, DiversityScore: 72, SafetyIncidents: 1, CommunityInvestmentUSD: 900_000,
			BoardIndependencePct: 72, ExecutivePayRatio: 90, ControversyScore: 80, MarketCapBillion: 40,
		},
		{
			Company: "Grimstone Coal", Sector: "Energy", Country: "UK", Year: 2023,
			EnvironmentalScore: 32, SocialScore: 38, GovernanceScore: 44, TotalESGScore: 38,
			CarbonEmissionsMT: 140, EnergyIntensity: 9.4, WaterUsageM3: 800000, WasteRecycledPct: 20,
			EmployeeTurnoverPct: 22, DiversityScore: 40, SafetyIncidents: 48, CommunityInvestmentUSD: 300_000,
			BoardIndependencePct: 45, ExecutivePayRatio: 310, ControversyScore: 42, MarketCapBillion: 8,
		},
	})
	return NewGenerator(store, esg.NewAnalyzer(esg.DefaultThresholds()))
}

func TestCompanyReport(t *testing.T) {
	gen := testGenerator()

	var buf bytes.Buffer
	err := gen.CompanyReport(&buf, "Acme Corp", CompanyOptions{})
	require.NoError(t, err)

	assert.Greater(t, buf.Len(), 1000)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")), "output should be a PDF document")
}

func TestCompanyReportWithTrendChart(t *testing.T) {
	gen := testGenerator()

	var plain, withChart bytes.Buffer
	require.NoError(t, gen.CompanyReport(&plain, "Acme Corp", CompanyOptions{}))
	require.NoError(t, gen.CompanyReport(&withChart, "Acme Corp", CompanyOptions{IncludeTrendChart: true}))

	assert.True(t, bytes.HasPrefix(withChart.Bytes(), []byte("%PDF")))
	assert.Greater(t, withChart.Len(), plain.Len(), "embedded chart should grow the document")
}

func TestCompanyReportRiskHeavyCompany(t *testing.T) {
	gen := testGenerator()

	var buf bytes.Buffer
	err := gen.CompanyReport(&buf, "Grimstone Coal", CompanyOptions{})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
}

func TestCompanyReportUnknownCompany(t *testing.T) {
	gen := testGenerator()

	var buf bytes.Buffer
	err := gen.CompanyReport(&buf, "Nope Inc", CompanyOptions{})
	assert.ErrorIs(t, err, apperrors.ErrCompanyNotFound)
	assert.Zero(t, buf.Len())
}

func TestPortfolioReport(t *testing.T) {
	gen := testGenerator()

	var buf bytes.Buffer
	err := gen.PortfolioReport(&buf, 3)
	require.NoError(t, err)

	assert.Greater(t, buf.Len(), 1000)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
}

func TestPortfolioReportDefaultsTopN(t *testing.T) {
	gen := testGenerator()

	var buf bytes.Buffer
	err := gen.PortfolioReport(&buf, 0)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
}
