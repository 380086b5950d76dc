package exporter

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"esglens/internal/dataset"
)

const xlsxSheet = "ESG Data"

// RecordsXLSX writes records as an XLSX workbook and returns the full path
func (e *Exporter) RecordsXLSX(filename string, records []dataset.Record) (string, error) {
	fullPath := e.resolvePath(filename)
	e.logger.Info("writing records XLSX",
		slog.String("path", fullPath),
		slog.Int("records", len(records)))

	file, err := e.createFile(fullPath, Options{})
	if err != nil {
		return "", err
	}
	defer file.Close()

	if err := WriteRecordsXLSX(file, records); err != nil {
		return "", fmt.Errorf("write %s: %w", filename, err)
	}
	return fullPath, nil
}

// WriteRecordsXLSX streams records as an XLSX workbook to an arbitrary writer
func WriteRecordsXLSX(w io.Writer, records []dataset.Record) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(xlsxSheet)
	if err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("drop default sheet: %w", err)
	}

	header := make([]interface{}, len(recordHeaders))
	for i, h := range recordHeaders {
		header[i] = h
	}
	if err := f.SetSheetRow(xlsxSheet, "A1", &header); err != nil {
		return fmt.Errorf("write header row: %w", err)
	}

	for i, r := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("row %d: %w", i+2, err)
		}
		row := []interface{}{
			r.Company, r.Sector, r.Country, r.Year,
			r.EnvironmentalScore, r.SocialScore, r.GovernanceScore, r.TotalESGScore,
			r.CarbonEmissionsMT, r.EnergyIntensity, r.WaterUsageM3, r.WasteRecycledPct,
			r.EmployeeTurnoverPct, r.DiversityScore, r.SafetyIncidents, r.CommunityInvestmentUSD,
			r.BoardIndependencePct, r.ExecutivePayRatio, r.ControversyScore, r.MarketCapBillion,
		}
		if err := f.SetSheetRow(xlsxSheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
