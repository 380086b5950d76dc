// Package report produces PDF reports for single companies and the
// full portfolio.
package report

import (
	"bytes"
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"

	"esglens/internal/chart"
	"esglens/internal/dataset"
	apperrors "esglens/internal/errors"
	"esglens/internal/esg"
)

// Generator assembles analysis results into PDF documents
type Generator struct {
	store    *dataset.Store
	analyzer *esg.Analyzer
}

// NewGenerator creates a report generator over the given store and analyzer
func NewGenerator(store *dataset.Store, analyzer *esg.Analyzer) *Generator {
	return &Generator{store: store, analyzer: analyzer}
}

// CompanyOptions controls optional sections of a company report
type CompanyOptions struct {
	IncludeTrendChart bool
}

// CompanyReport writes a full ESG report for one company as PDF
func (g *Generator) CompanyReport(w io.Writer, company string, opts CompanyOptions) error {
	metrics, err := g.analyzer.CompanyMetrics(g.store, company)
	if err != nil {
		return fmt.Errorf("company report: %w", err)
	}
	latest, ok := g.store.LatestFor(company)
	if !ok {
		return fmt.Errorf("company report: %w", apperrors.ErrCompanyNotFound)
	}
	risks, err := g.analyzer.IdentifyRisks(g.store, company)
	if err != nil {
		return fmt.Errorf("company report: %w", err)
	}
	improvements, err := g.analyzer.ImprovementAreas(g.store, company)
	if err != nil {
		return fmt.Errorf("company report: %w", err)
	}
	bench, err := g.analyzer.SectorBenchmark(g.store, company)
	if err != nil {
		return fmt.Errorf("company report: %w", err)
	}

	pdf := newDocument(fmt.Sprintf("ESG Report - %s", company))
	pdf.AddPage()

	writeTitle(pdf, fmt.Sprintf("ESG Performance Report: %s", company))
	writeSubtitle(pdf, fmt.Sprintf("%s · %s · Reporting year %d", metrics.Sector, metrics.Country, metrics.Year))

	// Executive summary
	writeHeading(pdf, "Executive Summary")
	summary := fmt.Sprintf(
		"%s holds an overall ESG score of %.1f (%s, %s). "+
			"Against the %s sector average of %.1f, the company is %s. "+
			"The assessment below covers pillar scores, operational metrics, risk flags and improvement areas.",
		company, metrics.TotalESGScore, metrics.Rating.Grade, esg.RatingText(metrics.TotalESGScore),
		bench.Sector, bench.SectorTotal, aboveBelow(metrics.TotalESGScore, bench.SectorTotal),
	)
	writeParagraph(pdf, summary)

	// Pillar scores
	writeHeading(pdf, "Pillar Scores")
	scoreTable(pdf, metrics, bench)

	// Company profile
	writeHeading(pdf, "Company Profile")
	keyValueTable(pdf, [][2]string{
		{"Sector", metrics.Sector},
		{"Country", metrics.Country},
		{"Market Cap", fmt.Sprintf("$%.1fB", metrics.MarketCapBillion)},
		{"ESG Rating", fmt.Sprintf("%s (%s)", metrics.Rating.Grade, esg.RatingText(metrics.TotalESGScore))},
		{"Controversy Score", fmt.Sprintf("%.1f", metrics.ControversyScore)},
	})

	// Operational metrics by pillar
	writeHeading(pdf, "Environmental Metrics")
	keyValueTable(pdf, [][2]string{
		{"Carbon Emissions", fmt.Sprintf("%.1f Mt", latest.CarbonEmissionsMT)},
		{"Energy Intensity", fmt.Sprintf("%.1f", latest.EnergyIntensity)},
		{"Water Usage", fmt.Sprintf("%.0f m3", latest.WaterUsageM3)},
		{"Waste Recycled", fmt.Sprintf("%.1f%%", latest.WasteRecycledPct)},
	})

	writeHeading(pdf, "Social Metrics")
	keyValueTable(pdf, [][2]string{
		{"Employee Turnover", fmt.Sprintf("%.1f%%", latest.EmployeeTurnoverPct)},
		{"Diversity Score", fmt.Sprintf("%.1f", latest.DiversityScore)},
		{"Safety Incidents", fmt.Sprintf("%d", latest.SafetyIncidents)},
		{"Community Investment", fmt.Sprintf("$%.0f", latest.CommunityInvestmentUSD)},
	})

	writeHeading(pdf, "Governance Metrics")
	keyValueTable(pdf, [][2]string{
		{"Board Independence", fmt.Sprintf("%.1f%%", latest.BoardIndependencePct)},
		{"Executive Pay Ratio", fmt.Sprintf("%.1f", latest.ExecutivePayRatio)},
		{"Controversy Score", fmt.Sprintf("%.1f", latest.ControversyScore)},
	})

	// Risks
	writeHeading(pdf, "Risk Assessment")
	if len(risks) == 0 {
		writeParagraph(pdf, "No risk flags raised against configured thresholds.")
	} else {
		riskTable(pdf, risks)
	}

	// Improvement areas
	writeHeading(pdf, "Improvement Areas")
	if len(improvements) == 0 {
		writeParagraph(pdf, "All pillar scores meet or exceed the sector average.")
	} else {
		for _, imp := range improvements {
			writeBullet(pdf, fmt.Sprintf("%s (gap %.1f vs sector): %s", imp.Area, imp.Gap, imp.Recommendation))
		}
	}

	if opts.IncludeTrendChart {
		if err := g.embedTrendChart(pdf, company); err != nil {
			return err
		}
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

// embedTrendChart renders the score trend PNG and places it on a new page
func (g *Generator) embedTrendChart(pdf *doc, company string) error {
	history := g.store.History(company)
	if len(history) < 2 {
		return nil
	}

	var buf bytes.Buffer
	if err := chart.ScoreTrend(&buf, company, history); err != nil {
		return fmt.Errorf("company report: %w", err)
	}

	pdf.AddPage()
	writeHeading(pdf, "Score Trend")
	opts := fpdf.ImageOptions{ImageType: "PNG", ReadDpi: true}
	pdf.RegisterImageOptionsReader("score-trend", opts, &buf)
	pdf.ImageOptions("score-trend", 15, pdf.GetY()+4, 180, 0, false, opts, 0, "")
	return nil
}

// PortfolioReport writes a dataset-wide summary as PDF
func (g *Generator) PortfolioReport(w io.Writer, topN int) error {
	stats, err := g.analyzer.SummaryStats(g.store)
	if err != nil {
		return fmt.Errorf("portfolio report: %w", err)
	}
	if topN <= 0 {
		topN = 10
	}
	top, err := g.analyzer.TopPerformers(g.store, topN, dataset.MetricTotalESG)
	if err != nil {
		return fmt.Errorf("portfolio report: %w", err)
	}
	bottom, err := g.analyzer.BottomPerformers(g.store, topN, dataset.MetricTotalESG)
	if err != nil {
		return fmt.Errorf("portfolio report: %w", err)
	}

	pdf := newDocument("ESG Portfolio Report")
	pdf.AddPage()

	writeTitle(pdf, "ESG Portfolio Report")
	writeSubtitle(pdf, fmt.Sprintf("Coverage period %s", stats.YearsCovered))

	writeHeading(pdf, "Dataset Overview")
	keyValueTable(pdf, [][2]string{
		{"Companies", fmt.Sprintf("%d", stats.TotalCompanies)},
		{"Sectors", fmt.Sprintf("%d", stats.TotalSectors)},
		{"Countries", fmt.Sprintf("%d", stats.TotalCountries)},
		{"Average ESG Score", fmt.Sprintf("%.1f", stats.AvgESGScore)},
		{"Average Environmental", fmt.Sprintf("%.1f", stats.AvgEScore)},
		{"Average Social", fmt.Sprintf("%.1f", stats.AvgSScore)},
		{"Average Governance", fmt.Sprintf("%.1f", stats.AvgGScore)},
		{"Top Performer", fmt.Sprintf("%s (%.1f)", stats.TopPerformer, stats.TopScore)},
	})

	writeHeading(pdf, fmt.Sprintf("Top %d Companies by ESG Score", len(top)))
	rankingTable(pdf, top)

	writeHeading(pdf, fmt.Sprintf("Bottom %d Companies by ESG Score", len(bottom)))
	rankingTable(pdf, bottom)

	writeHeading(pdf, "Sector Averages")
	sectorTable(pdf, g.store.SectorAverages(), g.store.MaxYear())

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

// doc couples an fpdf document with its codepage translator so text
// helpers can accept UTF-8 input
type doc struct {
	*fpdf.Fpdf
	tr func(string) string
}

func newDocument(title string) *doc {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(title, true)
	pdf.SetAutoPageBreak(true, 18)
	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.SetTextColor(120, 120, 120)
		pdf.CellFormat(0, 8, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	return &doc{Fpdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
}

func writeTitle(pdf *doc, text string) {
	pdf.SetFont("Helvetica", "B", 20)
	pdf.SetTextColor(33, 33, 33)
	pdf.CellFormat(0, 12, pdf.tr(text), "", 1, "L", false, 0, "")
}

func writeSubtitle(pdf *doc, text string) {
	pdf.SetFont("Helvetica", "", 11)
	pdf.SetTextColor(100, 100, 100)
	pdf.CellFormat(0, 7, pdf.tr(text), "", 1, "L", false, 0, "")
	pdf.Ln(3)
}

func writeHeading(pdf *doc, text string) {
	pdf.Ln(3)
	pdf.SetFont("Helvetica", "B", 13)
	pdf.SetTextColor(21, 101, 192)
	pdf.CellFormat(0, 9, pdf.tr(text), "", 1, "L", false, 0, "")
}

func writeParagraph(pdf *doc, text string) {
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(60, 60, 60)
	pdf.MultiCell(0, 5.5, pdf.tr(text), "", "L", false)
	pdf.Ln(1)
}

func writeBullet(pdf *doc, text string) {
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(60, 60, 60)
	pdf.CellFormat(6, 5.5, "-", "", 0, "R", false, 0, "")
	pdf.MultiCell(0, 5.5, pdf.tr(text), "", "L", false)
}

func tableHeader(pdf *doc, widths []float64, labels []string) {
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(236, 239, 241)
	pdf.SetTextColor(55, 71, 79)
	for i, label := range labels {
		pdf.CellFormat(widths[i], 7, pdf.tr(label), "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(60, 60, 60)
}

func scoreTable(pdf *doc, m esg.CompanyMetrics, bench esg.SectorBenchmark) {
	widths := []float64{50, 30, 35, 30, 35}
	tableHeader(pdf, widths, []string{"Pillar", "Score", "Sector Avg", "YoY Trend", "Rating"})

	rows := []struct {
		pillar    string
		score     float64
		sectorAvg float64
		trend     float64
	}{
		{"Environmental", m.EnvironmentalScore, bench.SectorEnvironmental, m.EnvironmentalTrend},
		{"Social", m.SocialScore, bench.SectorSocial, m.SocialTrend},
		{"Governance", m.GovernanceScore, bench.SectorGovernance, m.GovernanceTrend},
		{"Total ESG", m.TotalESGScore, bench.SectorTotal, m.TotalTrend},
	}
	for _, row := range rows {
		rating := esg.RatingFor(row.score)
		pdf.CellFormat(widths[0], 6.5, pdf.tr(row.pillar), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 6.5, fmt.Sprintf("%.1f", row.score), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[2], 6.5, fmt.Sprintf("%.1f", row.sectorAvg), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[3], 6.5, fmt.Sprintf("%+.1f", row.trend), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[4], 6.5, rating.Grade, "1", 0, "C", false, 0, "")
		pdf.Ln(-1)
	}
	pdf.Ln(2)
}

func keyValueTable(pdf *doc, rows [][2]string) {
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(60, 60, 60)
	for _, row := range rows {
		pdf.SetFont("Helvetica", "B", 9)
		pdf.CellFormat(60, 6.5, pdf.tr(row[0]), "1", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		pdf.CellFormat(120, 6.5, pdf.tr(row[1]), "1", 0, "L", false, 0, "")
		pdf.Ln(-1)
	}
	pdf.Ln(2)
}

func riskTable(pdf *doc, risks []esg.Risk) {
	widths := []float64{40, 25, 115}
	tableHeader(pdf, widths, []string{"Category", "Severity", "Description"})
	for _, risk := range risks {
		pdf.CellFormat(widths[0], 6.5, pdf.tr(risk.Category), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 6.5, pdf.tr(risk.Severity), "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[2], 6.5, pdf.tr(risk.Description), "1", 0, "L", false, 0, "")
		pdf.Ln(-1)
	}
	pdf.Ln(2)
}

func rankingTable(pdf *doc, ranked []esg.RankedCompany) {
	widths := []float64{15, 75, 55, 35}
	tableHeader(pdf, widths, []string{"#", "Company", "Sector", "Score"})
	for i, rc := range ranked {
		pdf.CellFormat(widths[0], 6.5, fmt.Sprintf("%d", i+1), "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[1], 6.5, pdf.tr(rc.Company), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[2], 6.5, pdf.tr(rc.Sector), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[3], 6.5, fmt.Sprintf("%.1f", rc.Value), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}
	pdf.Ln(2)
}

func sectorTable(pdf *doc, averages []dataset.SectorAverage, year int) {
	widths := []float64{55, 30, 30, 30, 35}
	tableHeader(pdf, widths, []string{"Sector", "Environmental", "Social", "Governance", "Total ESG"})
	for _, avg := range averages {
		if avg.Year != year {
			continue
		}
		pdf.CellFormat(widths[0], 6.5, pdf.tr(avg.Sector), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 6.5, fmt.Sprintf("%.1f", avg.EnvironmentalScore), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[2], 6.5, fmt.Sprintf("%.1f", avg.SocialScore), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[3], 6.5, fmt.Sprintf("%.1f", avg.GovernanceScore), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[4], 6.5, fmt.Sprintf("%.1f", avg.TotalESGScore), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}
	pdf.Ln(2)
}

func aboveBelow(value, reference float64) string {
	switch {
	case value > reference:
		return "above average"
	case value < reference:
		return "below average"
	default:
		return "in line with the average"
	}
}
