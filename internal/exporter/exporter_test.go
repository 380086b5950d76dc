package exporter

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"esglens/internal/dataset"
	"esglens/internal/esg"
)

func testRecords() []dataset.Record {
	return []dataset.Record{
		{
			Company: "Acme Corp", Sector: "Technology", Country: "USA", Year: 2023,
			EnvironmentalScore: 68, SocialScore: 70, GovernanceScore: 74, TotalESGScore: 70.6,
			CarbonEmissionsMT: 30, SafetyIncidents: 3, MarketCapBillion: 150,
		},
		{
			Company: "Grimstone Coal", Sector: "Energy", Country: "UK", Year: 2023,
			EnvironmentalScore: 32, SocialScore: 38, GovernanceScore: 44, TotalESGScore: 38,
			CarbonEmissionsMT: 140, SafetyIncidents: 48, MarketCapBillion: 8,
		},
	}
}

func TestRecordsCSV(t *testing.T) {
	dir := t.TempDir()
	e := New(dir, nil)

	path, err := e.RecordsCSV("export.csv", testRecords(), Options{})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "export.csv"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "company", rows[0][0])
	assert.Equal(t, "total_esg_score", rows[0][7])
	assert.Equal(t, "Acme Corp", rows[1][0])
	assert.Equal(t, "70.6", rows[1][7])
	assert.Equal(t, "48", rows[2][14])
}

func TestRecordsCSVWithBOM(t *testing.T) {
	dir := t.TempDir()
	e := New(dir, nil)

	path, err := e.RecordsCSV("bom.csv", testRecords(), Options{BOMPrefix: true})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte{0xEF, 0xBB, 0xBF}))
}

func TestRecordsCSVCreatesDirectory(t *testing.T) {
	dir := t.TempDir()
	e := New(dir, nil)

	path, err := e.RecordsCSV(filepath.Join("nested", "deep", "export.csv"), testRecords(), Options{})
	require.NoError(t, err)
	assert.FileExists(t, path)
}

func TestWriteRankingsCSV(t *testing.T) {
	ranked := []esg.RankedCompany{
		{Company: "Acme Corp", Sector: "Technology", Metric: dataset.MetricTotalESG, Value: 70.6},
		{Company: "Grimstone Coal", Sector: "Energy", Metric: dataset.MetricTotalESG, Value: 38},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteRankingsCSV(&buf, ranked))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "rank,company,sector,metric,value", lines[0])
	assert.Equal(t, "1,Acme Corp,Technology,total_esg_score,70.6", lines[1])
	assert.Equal(t, "2,Grimstone Coal,Energy,total_esg_score,38", lines[2])
}

func TestRecordsXLSX(t *testing.T) {
	dir := t.TempDir()
	e := New(dir, nil)

	path, err := e.RecordsXLSX("export.xlsx", testRecords())
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(xlsxSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "company", rows[0][0])
	assert.Equal(t, "Acme Corp", rows[1][0])
	assert.Equal(t, "Grimstone Coal", rows[2][0])
}
