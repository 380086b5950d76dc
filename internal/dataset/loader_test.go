package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	apperrors "esglens/internal/errors"
)

const testHeader = "company,sector,country,year," +
	"environmental_score,social_score,governance_score,total_esg_score," +
	"carbon_emissions_mt,energy_intensity,water_usage_m3,waste_recycled_pct," +
	"employee_turnover_pct,diversity_score,safety_incidents,community_investment_usd," +
	"board_independence_pct,executive_pay_ratio,controversy_score,market_cap_billion"

func writeCSV(t *testing.T, rows ...string) string {
	t.Helper()
	content := testHeader + "\n"
	for _, row := range rows {
		content += row + "\n"
	}
	path := filepath.Join(t.TempDir(), "esg_data.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadCSV(t *testing.T) {
	path := writeCSV(t,
		"Acme Corp,Technology,USA,2023,72.35,68.1,81.0,73.6,12.5,3.2,50000,60.0,8.5,70.2,4,1200000,85.0,120.5,88.0,110.3",
		"Acme Corp,Technology,USA,2024,74.0,69.4,82.2,75.0,11.8,3.0,48000,62.5,8.1,71.0,3,1500000,86.0,118.2,89.5,125.7",
	)

	records, err := LoadCSV(path)
	require.NoError(t, err)
	require.Len(t, records, 2)

	first := records[0]
	assert.Equal(t, "Acme Corp", first.Company)
	assert.Equal(t, "Technology", first.Sector)
	assert.Equal(t, 2023, first.Year)
	// Scores round to one decimal
	assert.Equal(t, 72.4, first.EnvironmentalScore)
	assert.Equal(t, 4, first.SafetyIncidents)
	assert.Equal(t, 110.3, first.MarketCapBillion)
}

func TestLoadCSVSkipsInvalidRows(t *testing.T) {
	path := writeCSV(t,
		"Acme Corp,Technology,USA,2023,72.0,68.1,81.0,73.6,12.5,3.2,50000,60.0,8.5,70.2,4,1200000,85.0,120.5,88.0,110.3",
		"Bad Co,Energy,USA,not-a-year,50,50,50,50,0,0,0,0,0,0,0,0,0,0,0,0",
		"Out Of Range,Energy,USA,2023,150,50,50,50,0,0,0,0,0,0,0,0,0,0,0,0",
	)

	records, err := LoadCSV(path)
	require.NoError(t, err)
	assert.Len(t, records, 1)
	assert.Equal(t, "Acme Corp", records[0].Company)
}

func TestLoadCSVMissingColumns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.csv")
	require.NoError(t, os.WriteFile(path, []byte("company,year\nAcme,2023\n"), 0644))

	_, err := LoadCSV(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required columns")
}

func TestLoadCSVEmptyDataset(t *testing.T) {
	path := writeCSV(t)

	_, err := LoadCSV(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrEmptyDataset)
}

func TestLoadDispatch(t *testing.T) {
	_, err := Load("data.parquet")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported dataset format")
}

func TestLoadXLSX(t *testing.T) {
	workbook := excelize.NewFile()
	sheet := workbook.GetSheetName(0)

	header := []interface{}{
		"company", "sector", "country", "year",
		"environmental_score", "social_score", "governance_score", "total_esg_score",
	}
	require.NoError(t, workbook.SetSheetRow(sheet, "A1", &header))

	row := []interface{}{"Acme Corp", "Technology", "USA", 2024, 70.15, 65.0, 80.0, 71.7}
	require.NoError(t, workbook.SetSheetRow(sheet, "A2", &row))

	path := filepath.Join(t.TempDir(), "esg.xlsx")
	require.NoError(t, workbook.SaveAs(path))

	records, err := LoadXLSX(path)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Acme Corp", records[0].Company)
	assert.Equal(t, 70.2, records[0].EnvironmentalScore)
	// Optional columns default to zero
	assert.Zero(t, records[0].CarbonEmissionsMT)
}

func TestMetricLookup(t *testing.T) {
	r := Record{TotalESGScore: 75.5, SafetyIncidents: 7}

	value, err := r.Metric(MetricTotalESG)
	require.NoError(t, err)
	assert.Equal(t, 75.5, value)

	value, err = r.Metric(MetricSafetyIncidents)
	require.NoError(t, err)
	assert.Equal(t, 7.0, value)

	_, err = r.Metric("bogus")
	assert.Error(t, err)
	assert.False(t, KnownMetric("bogus"))
	assert.True(t, KnownMetric(MetricDiversity))
}

func TestMetricDisplayName(t *testing.T) {
	assert.Equal(t, "Total ESG", MetricDisplayName(MetricTotalESG))
	assert.Equal(t, "Board Independence", MetricDisplayName(MetricBoardIndependence))
	assert.Equal(t, "custom_metric", MetricDisplayName("custom_metric"))
}
