// Package exporter writes dataset slices and analysis results to CSV
// and XLSX files for downstream use in spreadsheets.
package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"esglens/internal/dataset"
	"esglens/internal/esg"
)

// recordHeaders is the column order used for record exports
var recordHeaders = []string{
	"company", "sector", "country", "year",
	"environmental_score", "social_score", "governance_score", "total_esg_score",
	"carbon_emissions_mt", "energy_intensity", "water_usage_m3", "waste_recycled_pct",
	"employee_turnover_pct", "diversity_score", "safety_incidents", "community_investment_usd",
	"board_independence_pct", "executive_pay_ratio", "controversy_score", "market_cap_billion",
}

// Exporter writes export files under a base directory
type Exporter struct {
	baseDir string
	logger  *slog.Logger
}

// New creates an exporter rooted at baseDir
func New(baseDir string, logger *slog.Logger) *Exporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Exporter{baseDir: baseDir, logger: logger.With(slog.String("component", "exporter"))}
}

// Options configures CSV writing behavior
type Options struct {
	BOMPrefix bool // add UTF-8 BOM for Excel compatibility
}

// RecordsCSV writes records as CSV to the named file and returns the full path
func (e *Exporter) RecordsCSV(filename string, records []dataset.Record, opts Options) (string, error) {
	fullPath := e.resolvePath(filename)
	e.logger.Info("writing records CSV",
		slog.String("path", fullPath),
		slog.Int("records", len(records)))

	file, err := e.createFile(fullPath, opts)
	if err != nil {
		return "", err
	}
	defer file.Close()

	if err := WriteRecordsCSV(file, records); err != nil {
		return "", fmt.Errorf("write %s: %w", filename, err)
	}
	return fullPath, nil
}

// WriteRecordsCSV streams records as CSV to an arbitrary writer
func WriteRecordsCSV(w io.Writer, records []dataset.Record) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write(recordHeaders); err != nil {
		return fmt.Errorf("write headers: %w", err)
	}
	for i, r := range records {
		if err := writer.Write(recordRow(r)); err != nil {
			return fmt.Errorf("write record %d: %w", i, err)
		}
	}
	return writer.Error()
}

// RankingsCSV writes a ranking list as CSV and returns the full path
func (e *Exporter) RankingsCSV(filename string, ranked []esg.RankedCompany, opts Options) (string, error) {
	fullPath := e.resolvePath(filename)
	e.logger.Info("writing rankings CSV",
		slog.String("path", fullPath),
		slog.Int("companies", len(ranked)))

	file, err := e.createFile(fullPath, opts)
	if err != nil {
		return "", err
	}
	defer file.Close()

	if err := WriteRankingsCSV(file, ranked); err != nil {
		return "", fmt.Errorf("write %s: %w", filename, err)
	}
	return fullPath, nil
}

// WriteRankingsCSV streams a ranking list as CSV to an arbitrary writer
func WriteRankingsCSV(w io.Writer, ranked []esg.RankedCompany) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write([]string{"rank", "company", "sector", "metric", "value"}); err != nil {
		return fmt.Errorf("write headers: %w", err)
	}
	for i, rc := range ranked {
		row := []string{
			strconv.Itoa(i + 1),
			rc.Company,
			rc.Sector,
			rc.Metric,
			formatFloat(rc.Value),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write rank %d: %w", i+1, err)
		}
	}
	return writer.Error()
}

func (e *Exporter) createFile(fullPath string, opts Options) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return nil, fmt.Errorf("create export directory: %w", err)
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return nil, fmt.Errorf("create export file: %w", err)
	}

	if opts.BOMPrefix {
		if _, err := file.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
			file.Close()
			return nil, fmt.Errorf("write BOM: %w", err)
		}
	}
	return file, nil
}

func (e *Exporter) resolvePath(filename string) string {
	if filepath.IsAbs(filename) {
		return filename
	}
	return filepath.Join(e.baseDir, filename)
}

func recordRow(r dataset.Record) []string {
	return []string{
		r.Company,
		r.Sector,
		r.Country,
		strconv.Itoa(r.Year),
		formatFloat(r.EnvironmentalScore),
		formatFloat(r.SocialScore),
		formatFloat(r.GovernanceScore),
		formatFloat(r.TotalESGScore),
		formatFloat(r.CarbonEmissionsMT),
		formatFloat(r.EnergyIntensity),
		formatFloat(r.WaterUsageM3),
		formatFloat(r.WasteRecycledPct),
		formatFloat(r.EmployeeTurnoverPct),
		formatFloat(r.DiversityScore),
		strconv.Itoa(r.SafetyIncidents),
		formatFloat(r.CommunityInvestmentUSD),
		formatFloat(r.BoardIndependencePct),
		formatFloat(r.ExecutivePayRatio),
		formatFloat(r.ControversyScore),
		formatFloat(r.MarketCapBillion),
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
