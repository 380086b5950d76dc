package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"esglens/internal/benchmark"
	"esglens/internal/chart"
	"esglens/internal/dataset"
	apperrors "esglens/internal/errors"
	"esglens/internal/esg"
	"esglens/internal/report"
	"esglens/internal/simulator"
)

// AnalyticsService orchestrates analysis, simulation, benchmarking and
// report generation over the currently loaded dataset.
type AnalyticsService struct {
	data     *DataService
	analyzer *esg.Analyzer
	sim      *simulator.Simulator
	logger   *slog.Logger
}

// NewAnalyticsService creates the analytics facade over a data service
func NewAnalyticsService(data *DataService, analyzer *esg.Analyzer, logger *slog.Logger) *AnalyticsService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AnalyticsService{
		data:     data,
		analyzer: analyzer,
		sim:      simulator.New(),
		logger:   logger.With(slog.String("component", "analytics_service")),
	}
}

// Overview aggregates dataset-wide statistics and sector averages
type Overview struct {
	Stats          esg.SummaryStats        `json:"stats"`
	SectorAverages []dataset.SectorAverage `json:"sector_averages"`
	Years          []int                   `json:"years"`
	Sectors        []string                `json:"sectors"`
	Countries      []string                `json:"countries"`
}

// Overview returns the dashboard headline view of the dataset
func (s *AnalyticsService) Overview(ctx context.Context) (*Overview, error) {
	store, err := s.data.Store()
	if err != nil {
		return nil, err
	}
	stats, err := s.analyzer.SummaryStats(store)
	if err != nil {
		return nil, err
	}
	return &Overview{
		Stats:          stats,
		SectorAverages: store.SectorAverages(),
		Years:          store.Years(),
		Sectors:        store.Sectors(),
		Countries:      store.Countries(),
	}, nil
}

// CompanyProfile bundles everything the company view needs
type CompanyProfile struct {
	Metrics      esg.CompanyMetrics  `json:"metrics"`
	Latest       dataset.Record      `json:"latest"`
	History      []dataset.Record    `json:"history"`
	Benchmark    esg.SectorBenchmark `json:"benchmark"`
	Risks        []esg.Risk          `json:"risks"`
	Improvements []esg.Improvement   `json:"improvements"`
}

// CompanyProfile assembles the full analysis view for one company
func (s *AnalyticsService) CompanyProfile(ctx context.Context, company string) (*CompanyProfile, error) {
	store, err := s.data.Store()
	if err != nil {
		return nil, err
	}

	metrics, err := s.analyzer.CompanyMetrics(store, company)
	if err != nil {
		return nil, err
	}
	latest, ok := store.LatestFor(company)
	if !ok {
		return nil, fmt.Errorf("profile for %q: %w", company, apperrors.ErrCompanyNotFound)
	}
	bench, err := s.analyzer.SectorBenchmark(store, company)
	if err != nil {
		return nil, err
	}
	risks, err := s.analyzer.IdentifyRisks(store, company)
	if err != nil {
		return nil, err
	}
	improvements, err := s.analyzer.ImprovementAreas(store, company)
	if err != nil {
		return nil, err
	}

	return &CompanyProfile{
		Metrics:      metrics,
		Latest:       latest,
		History:      store.History(company),
		Benchmark:    bench,
		Risks:        risks,
		Improvements: improvements,
	}, nil
}

// Rankings returns the top and bottom n companies for a metric
func (s *AnalyticsService) Rankings(ctx context.Context, n int, metric string) (top, bottom []esg.RankedCompany, err error) {
	store, err := s.data.Store()
	if err != nil {
		return nil, nil, err
	}
	top, err = s.analyzer.TopPerformers(store, n, metric)
	if err != nil {
		return nil, nil, err
	}
	bottom, err = s.analyzer.BottomPerformers(store, n, metric)
	if err != nil {
		return nil, nil, err
	}
	return top, bottom, nil
}

// Query applies a filter to the dataset and returns matching records
func (s *AnalyticsService) Query(ctx context.Context, filter dataset.Filter) ([]dataset.Record, error) {
	store, err := s.data.Store()
	if err != nil {
		return nil, err
	}
	return store.Apply(filter), nil
}

// SimulationInput describes a what-if scenario for one company
type SimulationInput struct {
	Company      string                 `json:"company" validate:"required"`
	Improvements simulator.Improvements `json:"improvements"`
	Years        int                    `json:"years" validate:"gte=0,lte=30"`
	TargetScore  float64                `json:"target_score" validate:"gte=0,lte=100"`
}

// SimulationResult is a full what-if outcome for one company
type SimulationResult struct {
	Company         string                      `json:"company"`
	Result          simulator.Result            `json:"result"`
	Impact          simulator.ImpactMetrics     `json:"impact"`
	Trajectory      []simulator.TrajectoryPoint `json:"trajectory,omitempty"`
	Recommendations *simulator.Recommendations  `json:"recommendations,omitempty"`
}

// Simulate runs the improvement scenario against a company's latest scores
func (s *AnalyticsService) Simulate(ctx context.Context, input SimulationInput) (*SimulationResult, error) {
	store, err := s.data.Store()
	if err != nil {
		return nil, err
	}
	latest, ok := store.LatestFor(input.Company)
	if !ok {
		return nil, fmt.Errorf("simulate for %q: %w", input.Company, apperrors.ErrCompanyNotFound)
	}

	current := simulator.Scores{
		Environmental: latest.EnvironmentalScore,
		Social:        latest.SocialScore,
		Governance:    latest.GovernanceScore,
	}

	result := s.sim.SimulateImprovements(current, input.Improvements)
	out := &SimulationResult{
		Company: input.Company,
		Result:  result,
		Impact:  s.sim.ImpactMetrics(result),
	}

	if input.Years > 0 {
		out.Trajectory = s.sim.ProjectTrajectory(current, input.Improvements, input.Years)
	}
	if input.TargetScore > 0 {
		rec := s.sim.Recommendations(current, input.TargetScore)
		out.Recommendations = &rec
	}

	s.logger.InfoContext(ctx, "simulation complete",
		slog.String("company", input.Company),
		slog.Float64("current_total", result.CurrentTotal),
		slog.Float64("projected_total", result.ProjectedTotal))
	return out, nil
}

// MatchSector simulates raising a company's trailing pillars to its sector average
func (s *AnalyticsService) MatchSector(ctx context.Context, company string) (*SimulationResult, error) {
	store, err := s.data.Store()
	if err != nil {
		return nil, err
	}
	bench, err := s.analyzer.SectorBenchmark(store, company)
	if err != nil {
		return nil, err
	}

	current := simulator.Scores{
		Environmental: bench.CompanyEnvironmental,
		Social:        bench.CompanySocial,
		Governance:    bench.CompanyGovernance,
	}
	sectorAvg := simulator.Scores{
		Environmental: bench.SectorEnvironmental,
		Social:        bench.SectorSocial,
		Governance:    bench.SectorGovernance,
	}

	result := s.sim.MatchSector(current, sectorAvg)
	return &SimulationResult{
		Company: company,
		Result:  result,
		Impact:  s.sim.ImpactMetrics(result),
	}, nil
}

// CompareMatrix builds the peer comparison matrix
func (s *AnalyticsService) CompareMatrix(ctx context.Context, companies, metrics []string) (*benchmark.Matrix, error) {
	store, err := s.data.Store()
	if err != nil {
		return nil, err
	}
	return benchmark.New(store).CompareMatrix(companies, metrics)
}

// PeerStatistics computes distribution statistics for one company and
// metric, optionally narrowed to a sector peer group
func (s *AnalyticsService) PeerStatistics(ctx context.Context, company, metric, sector string) (*benchmark.PeerStats, error) {
	store, err := s.data.Store()
	if err != nil {
		return nil, err
	}
	return benchmark.New(store).PeerStatistics(company, metric, sector)
}

// QuartileDistribution splits companies into quartiles by metric,
// optionally narrowed to a sector peer group
func (s *AnalyticsService) QuartileDistribution(ctx context.Context, metric, sector string) ([]benchmark.QuartileBand, error) {
	store, err := s.data.Store()
	if err != nil {
		return nil, err
	}
	return benchmark.New(store).QuartileDistribution(metric, sector)
}

// CompetitiveInsights classifies a company's strengths and weaknesses
// against its peers, optionally narrowed to a sector
func (s *AnalyticsService) CompetitiveInsights(ctx context.Context, company, sector string) (*benchmark.Insights, error) {
	store, err := s.data.Store()
	if err != nil {
		return nil, err
	}
	return benchmark.New(store).CompetitiveInsights(company, sector)
}

// TrendChartPNG renders a company's score trend chart
func (s *AnalyticsService) TrendChartPNG(ctx context.Context, w io.Writer, company string) error {
	store, err := s.data.Store()
	if err != nil {
		return err
	}
	history := store.History(company)
	if len(history) == 0 {
		return fmt.Errorf("trend chart for %q: %w", company, apperrors.ErrCompanyNotFound)
	}
	return chart.ScoreTrend(w, company, history)
}

// BreakdownChartPNG renders a company's latest pillar breakdown
func (s *AnalyticsService) BreakdownChartPNG(ctx context.Context, w io.Writer, company string) error {
	store, err := s.data.Store()
	if err != nil {
		return err
	}
	latest, ok := store.LatestFor(company)
	if !ok {
		return fmt.Errorf("breakdown chart for %q: %w", company, apperrors.ErrCompanyNotFound)
	}
	return chart.BreakdownBars(w, latest)
}

// SectorChartPNG renders sector averages for the latest year
func (s *AnalyticsService) SectorChartPNG(ctx context.Context, w io.Writer) error {
	store, err := s.data.Store()
	if err != nil {
		return err
	}
	return chart.SectorBars(w, store.SectorAverages(), store.MaxYear())
}

// ScatterChartPNG renders ESG score against market cap for all companies
func (s *AnalyticsService) ScatterChartPNG(ctx context.Context, w io.Writer) error {
	store, err := s.data.Store()
	if err != nil {
		return err
	}
	return chart.ScatterBubble(w, store.Latest())
}

// CarbonChartPNG renders the top carbon emitters
func (s *AnalyticsService) CarbonChartPNG(ctx context.Context, w io.Writer, n int) error {
	store, err := s.data.Store()
	if err != nil {
		return err
	}
	return chart.CarbonEmitters(w, store.Latest(), n)
}

// ComparisonChartPNG renders a metric comparison for selected companies
func (s *AnalyticsService) ComparisonChartPNG(ctx context.Context, w io.Writer, metric string, companies []string) error {
	store, err := s.data.Store()
	if err != nil {
		return err
	}
	if len(companies) == 0 {
		return apperrors.ValidationError("companies", "at least one company is required")
	}

	records := make([]dataset.Record, 0, len(companies))
	for _, company := range companies {
		latest, ok := store.LatestFor(company)
		if !ok {
			return fmt.Errorf("comparison chart for %q: %w", company, apperrors.ErrCompanyNotFound)
		}
		records = append(records, latest)
	}
	return chart.ComparisonBars(w, metric, records)
}

// ProjectionChartPNG renders current-vs-projected bars for a simulated
// improvement of one company
func (s *AnalyticsService) ProjectionChartPNG(ctx context.Context, w io.Writer, company string, improvements simulator.Improvements) error {
	store, err := s.data.Store()
	if err != nil {
		return err
	}
	latest, ok := store.LatestFor(company)
	if !ok {
		return fmt.Errorf("projection chart for %q: %w", company, apperrors.ErrCompanyNotFound)
	}

	current := simulator.Scores{
		Environmental: latest.EnvironmentalScore,
		Social:        latest.SocialScore,
		Governance:    latest.GovernanceScore,
	}
	return chart.ProjectionBars(w, company, s.sim.SimulateImprovements(current, improvements))
}

// CompanyReportPDF writes the PDF report for one company
func (s *AnalyticsService) CompanyReportPDF(ctx context.Context, w io.Writer, company string, includeChart bool) error {
	store, err := s.data.Store()
	if err != nil {
		return err
	}
	gen := report.NewGenerator(store, s.analyzer)
	return gen.CompanyReport(w, company, report.CompanyOptions{IncludeTrendChart: includeChart})
}

// PortfolioReportPDF writes the dataset-wide PDF report
func (s *AnalyticsService) PortfolioReportPDF(ctx context.Context, w io.Writer, topN int) error {
	store, err := s.data.Store()
	if err != nil {
		return err
	}
	gen := report.NewGenerator(store, s.analyzer)
	return gen.PortfolioReport(w, topN)
}
