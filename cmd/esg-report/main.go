// Command esg-report generates ESG reports and exports from the command line.
// Without flags it prints a dataset summary and the rankings table. With
// -company or -portfolio it writes PDF reports, and -export writes the
// dataset as CSV or XLSX, or the rankings table as CSV.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/olekukonko/tablewriter"

	"esglens/internal/config"
	"esglens/internal/dataset"
	"esglens/internal/esg"
	"esglens/internal/exporter"
	"esglens/internal/report"
)

func main() {
	dataPath := flag.String("data", "", "path to the ESG dataset (defaults to the configured dataset)")
	company := flag.String("company", "", "generate a PDF report for this company")
	portfolio := flag.Bool("portfolio", false, "generate the portfolio PDF report")
	topN := flag.Int("top", 10, "number of companies in rankings and the portfolio report")
	metric := flag.String("metric", dataset.MetricTotalESG, "metric used for rankings")
	export := flag.String("export", "", "export mode: csv, xlsx or rankings")
	outputDir := flag.String("out", "", "output directory for reports and exports (defaults to configured dirs)")
	noChart := flag.Bool("no-chart", false, "omit the trend chart from company reports")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	path := *dataPath
	if path == "" {
		path = cfg.DatasetPath()
	}

	records, err := dataset.Load(path)
	if err != nil {
		slog.Error("Failed to load dataset",
			"path", path,
			"error", err,
			"hint", "pass -data or set ESG_DATASET_FILE")
		os.Exit(1)
	}
	store := dataset.NewStore(records)
	slog.Info("Loaded dataset", "path", path, "records", store.Len())

	thresholds := esg.DefaultThresholds()
	if tp := cfg.ThresholdsPath(); tp != "" {
		if loaded, err := esg.LoadThresholds(tp); err == nil {
			thresholds = loaded
		} else {
			slog.Warn("Failed to load risk thresholds, using defaults", "path", tp, "error", err)
		}
	}
	analyzer := esg.NewAnalyzer(thresholds)

	ran := false

	if *company != "" {
		ran = true
		if err := writeCompanyReport(cfg, store, analyzer, *company, *outputDir, !*noChart); err != nil {
			slog.Error("Failed to generate company report", "company", *company, "error", err)
			os.Exit(1)
		}
	}

	if *portfolio {
		ran = true
		if err := writePortfolioReport(cfg, store, analyzer, *topN, *outputDir); err != nil {
			slog.Error("Failed to generate portfolio report", "error", err)
			os.Exit(1)
		}
	}

	if *export != "" {
		ran = true
		if err := exportDataset(cfg, store, analyzer, *export, *metric, *topN, *outputDir); err != nil {
			slog.Error("Failed to export dataset", "format", *export, "error", err)
			os.Exit(1)
		}
	}

	if !ran {
		if err := printSummary(store, analyzer, *metric, *topN); err != nil {
			slog.Error("Failed to compute summary", "error", err)
			os.Exit(1)
		}
	}
}

// printSummary writes the dataset overview and rankings tables to stdout
func printSummary(store *dataset.Store, analyzer *esg.Analyzer, metric string, topN int) error {
	stats, err := analyzer.SummaryStats(store)
	if err != nil {
		return err
	}

	fmt.Println("Dataset Summary")
	summary := tablewriter.NewWriter(os.Stdout)
	summary.SetHeader([]string{"Companies", "Sectors", "Countries", "Years", "Avg ESG", "Top Performer"})
	summary.Append([]string{
		fmt.Sprintf("%d", stats.TotalCompanies),
		fmt.Sprintf("%d", stats.TotalSectors),
		fmt.Sprintf("%d", stats.TotalCountries),
		stats.YearsCovered,
		fmt.Sprintf("%.1f", stats.AvgESGScore),
		fmt.Sprintf("%s (%.1f)", stats.TopPerformer, stats.TopScore),
	})
	summary.Render()

	ranked, err := analyzer.TopPerformers(store, topN, metric)
	if err != nil {
		return err
	}

	fmt.Printf("\nTop %d by %s\n", len(ranked), dataset.MetricDisplayName(metric))
	rankings := tablewriter.NewWriter(os.Stdout)
	rankings.SetHeader([]string{"Rank", "Company", "Sector", "Score", "Rating"})
	for i, rc := range ranked {
		rankings.Append([]string{
			fmt.Sprintf("%d", i+1),
			rc.Company,
			rc.Sector,
			fmt.Sprintf("%.1f", rc.Value),
			esg.RatingFor(rc.Value).Grade,
		})
	}
	rankings.Render()

	fmt.Println("\nSector Averages")
	sectors := tablewriter.NewWriter(os.Stdout)
	sectors.SetHeader([]string{"Sector", "Year", "E", "S", "G", "Total", "Companies"})
	for _, avg := range store.SectorAverages() {
		if avg.Year != store.MaxYear() {
			continue
		}
		sectors.Append([]string{
			avg.Sector,
			fmt.Sprintf("%d", avg.Year),
			fmt.Sprintf("%.1f", avg.EnvironmentalScore),
			fmt.Sprintf("%.1f", avg.SocialScore),
			fmt.Sprintf("%.1f", avg.GovernanceScore),
			fmt.Sprintf("%.1f", avg.TotalESGScore),
			fmt.Sprintf("%d", avg.Companies),
		})
	}
	sectors.Render()

	return nil
}

// writeCompanyReport renders a single-company PDF into the reports directory
func writeCompanyReport(cfg *config.Config, store *dataset.Store, analyzer *esg.Analyzer, company, outputDir string, withChart bool) error {
	dir := outputDir
	if dir == "" {
		dir = cfg.Paths.ReportsDir
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	filename := fmt.Sprintf("esg-report-%s.pdf", sanitize(company))
	path := filepath.Join(dir, filename)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report file: %w", err)
	}
	defer f.Close()

	gen := report.NewGenerator(store, analyzer)
	if err := gen.CompanyReport(f, company, report.CompanyOptions{IncludeTrendChart: withChart}); err != nil {
		os.Remove(path)
		return err
	}

	slog.Info("Company report written", "company", company, "path", path)
	return nil
}

// writePortfolioReport renders the portfolio PDF into the reports directory
func writePortfolioReport(cfg *config.Config, store *dataset.Store, analyzer *esg.Analyzer, topN int, outputDir string) error {
	dir := outputDir
	if dir == "" {
		dir = cfg.Paths.ReportsDir
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	path := filepath.Join(dir, "esg-portfolio-report.pdf")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report file: %w", err)
	}
	defer f.Close()

	gen := report.NewGenerator(store, analyzer)
	if err := gen.PortfolioReport(f, topN); err != nil {
		os.Remove(path)
		return err
	}

	slog.Info("Portfolio report written", "path", path)
	return nil
}

// exportDataset writes the dataset or its rankings into the exports directory
func exportDataset(cfg *config.Config, store *dataset.Store, analyzer *esg.Analyzer, format, metric string, topN int, outputDir string) error {
	dir := outputDir
	if dir == "" {
		dir = cfg.Paths.ExportsDir
	}

	exp := exporter.New(dir, slog.Default())

	var path string
	var err error
	switch strings.ToLower(format) {
	case "csv":
		path, err = exp.RecordsCSV("esg_data.csv", store.Records(), exporter.Options{BOMPrefix: true})
	case "xlsx":
		path, err = exp.RecordsXLSX("esg_data.xlsx", store.Records())
	case "rankings":
		var ranked []esg.RankedCompany
		if ranked, err = analyzer.TopPerformers(store, topN, metric); err != nil {
			return err
		}
		path, err = exp.RankingsCSV("esg_rankings.csv", ranked, exporter.Options{BOMPrefix: true})
	default:
		return fmt.Errorf("unknown export format %q, want csv, xlsx or rankings", format)
	}
	if err != nil {
		return err
	}

	slog.Info("Dataset exported", "format", format, "path", path)
	return nil
}

// sanitize makes a company name safe for use in a filename
func sanitize(name string) string {
	replacer := strings.NewReplacer(" ", "-", "/", "-", "\\", "-", ":", "-")
	return replacer.Replace(name)
}
