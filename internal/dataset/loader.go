package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	apperrors "esglens/internal/errors"
)

// Load reads the dataset file, dispatching on the file extension.
// Supported formats: .csv and .xlsx.
func Load(path string) ([]Record, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return LoadCSV(path)
	case ".xlsx":
		return LoadXLSX(path)
	default:
		return nil, fmt.Errorf("unsupported dataset format: %s", filepath.Ext(path))
	}
}

// LoadCSV reads ESG records from a CSV file with a header row
func LoadCSV(path string) ([]Record, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	columns := indexColumns(header)
	if err := validateColumns(columns); err != nil {
		return nil, err
	}

	var records []Record
	line := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			slog.Warn("skipping malformed CSV row", "file", path, "line", line, "error", err)
			continue
		}

		record, err := parseRow(row, columns)
		if err != nil {
			slog.Warn("skipping invalid record", "file", path, "line", line, "error", err)
			continue
		}
		records = append(records, record)
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("load %s: %w", path, apperrors.ErrEmptyDataset)
	}
	return records, nil
}

// LoadXLSX reads ESG records from the first sheet of an Excel workbook
func LoadXLSX(path string) ([]Record, error) {
	workbook, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer workbook.Close()

	sheets := workbook.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook %s has no sheets", path)
	}

	rows, err := workbook.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("load %s: %w", path, apperrors.ErrEmptyDataset)
	}

	columns := indexColumns(rows[0])
	if err := validateColumns(columns); err != nil {
		return nil, err
	}

	var records []Record
	for i, row := range rows[1:] {
		record, err := parseRow(row, columns)
		if err != nil {
			slog.Warn("skipping invalid record", "file", path, "row", i+2, "error", err)
			continue
		}
		records = append(records, record)
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("load %s: %w", path, apperrors.ErrEmptyDataset)
	}
	return records, nil
}

// requiredColumns are the identity columns a dataset must carry
var requiredColumns = []string{
	"company", "sector", "country", "year",
	MetricEnvironmental, MetricSocial, MetricGovernance, MetricTotalESG,
}

// indexColumns maps normalized header names to their positions
func indexColumns(header []string) map[string]int {
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	return columns
}

// validateColumns checks that all required columns are present
func validateColumns(columns map[string]int) error {
	var missing []string
	for _, name := range requiredColumns {
		if _, ok := columns[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("dataset missing required columns: %s", strings.Join(missing, ", "))
	}
	return nil
}

// parseRow converts a raw row into a validated Record
func parseRow(row []string, columns map[string]int) (Record, error) {
	cell := func(name string) string {
		idx, ok := columns[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	year, err := strconv.Atoi(cell("year"))
	if err != nil {
		return Record{}, fmt.Errorf("parse year: %w", err)
	}

	record := Record{
		Company: cell("company"),
		Sector:  cell("sector"),
		Country: cell("country"),
		Year:    year,
	}

	floats := []struct {
		name     string
		target   *float64
		required bool
	}{
		{MetricEnvironmental, &record.EnvironmentalScore, true},
		{MetricSocial, &record.SocialScore, true},
		{MetricGovernance, &record.GovernanceScore, true},
		{MetricTotalESG, &record.TotalESGScore, true},
		{MetricCarbonEmissions, &record.CarbonEmissionsMT, false},
		{MetricEnergyIntensity, &record.EnergyIntensity, false},
		{MetricWaterUsage, &record.WaterUsageM3, false},
		{MetricWasteRecycled, &record.WasteRecycledPct, false},
		{MetricEmployeeTurnover, &record.EmployeeTurnoverPct, false},
		{MetricDiversity, &record.DiversityScore, false},
		{MetricCommunityInvest, &record.CommunityInvestmentUSD, false},
		{MetricBoardIndependence, &record.BoardIndependencePct, false},
		{MetricExecutivePayRatio, &record.ExecutivePayRatio, false},
		{MetricControversy, &record.ControversyScore, false},
		{MetricMarketCap, &record.MarketCapBillion, false},
	}

	for _, f := range floats {
		raw := cell(f.name)
		if raw == "" {
			if f.required {
				return Record{}, fmt.Errorf("missing %s", f.name)
			}
			continue
		}
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return Record{}, fmt.Errorf("parse %s: %w", f.name, err)
		}
		*f.target = value
	}

	if raw := cell(MetricSafetyIncidents); raw != "" {
		incidents, err := strconv.Atoi(raw)
		if err != nil {
			// Some sources store counts as floats
			f, ferr := strconv.ParseFloat(raw, 64)
			if ferr != nil {
				return Record{}, fmt.Errorf("parse %s: %w", MetricSafetyIncidents, err)
			}
			incidents = int(f)
		}
		record.SafetyIncidents = incidents
	}

	// Scores are reported to one decimal place
	record.EnvironmentalScore = round1(record.EnvironmentalScore)
	record.SocialScore = round1(record.SocialScore)
	record.GovernanceScore = round1(record.GovernanceScore)
	record.TotalESGScore = round1(record.TotalESGScore)

	if !record.IsValid() {
		return Record{}, fmt.Errorf("record failed validation: company=%q year=%d", record.Company, record.Year)
	}
	return record, nil
}

// round1 rounds to one decimal place
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
