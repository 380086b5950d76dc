package dataset

import "fmt"

// Metric column names accepted by ranking and benchmarking operations
const (
	MetricTotalESG          = "total_esg_score"
	MetricEnvironmental     = "environmental_score"
	MetricSocial            = "social_score"
	MetricGovernance        = "governance_score"
	MetricCarbonEmissions   = "carbon_emissions_mt"
	MetricEnergyIntensity   = "energy_intensity"
	MetricWaterUsage        = "water_usage_m3"
	MetricWasteRecycled     = "waste_recycled_pct"
	MetricEmployeeTurnover  = "employee_turnover_pct"
	MetricDiversity         = "diversity_score"
	MetricSafetyIncidents   = "safety_incidents"
	MetricCommunityInvest   = "community_investment_usd"
	MetricBoardIndependence = "board_independence_pct"
	MetricExecutivePayRatio = "executive_pay_ratio"
	MetricControversy       = "controversy_score"
	MetricMarketCap         = "market_cap_billion"
)

// Record is a single (company, year) observation of ESG performance
type Record struct {
	Company string `json:"company"`
	Sector  string `json:"sector"`
	Country string `json:"country"`
	Year    int    `json:"year"`

	EnvironmentalScore float64 `json:"environmental_score"`
	SocialScore        float64 `json:"social_score"`
	GovernanceScore    float64 `json:"governance_score"`
	TotalESGScore      float64 `json:"total_esg_score"`

	CarbonEmissionsMT      float64 `json:"carbon_emissions_mt"`
	EnergyIntensity        float64 `json:"energy_intensity"`
	WaterUsageM3           float64 `json:"water_usage_m3"`
	WasteRecycledPct       float64 `json:"waste_recycled_pct"`
	EmployeeTurnoverPct    float64 `json:"employee_turnover_pct"`
	DiversityScore         float64 `json:"diversity_score"`
	SafetyIncidents        int     `json:"safety_incidents"`
	CommunityInvestmentUSD float64 `json:"community_investment_usd"`
	BoardIndependencePct   float64 `json:"board_independence_pct"`
	ExecutivePayRatio      float64 `json:"executive_pay_ratio"`
	ControversyScore       float64 `json:"controversy_score"`
	MarketCapBillion       float64 `json:"market_cap_billion"`
}

// IsValid checks basic sanity of a record
func (r Record) IsValid() bool {
	if r.Company == "" || r.Sector == "" || r.Country == "" || r.Year <= 0 {
		return false
	}
	for _, score := range []float64{r.EnvironmentalScore, r.SocialScore, r.GovernanceScore, r.TotalESGScore} {
		if score < 0 || score > 100 {
			return false
		}
	}
	return true
}

// Metric returns the named metric value from the record
func (r Record) Metric(name string) (float64, error) {
	switch name {
	case MetricTotalESG:
		return r.TotalESGScore, nil
	case MetricEnvironmental:
		return r.EnvironmentalScore, nil
	case MetricSocial:
		return r.SocialScore, nil
	case MetricGovernance:
		return r.GovernanceScore, nil
	case MetricCarbonEmissions:
		return r.CarbonEmissionsMT, nil
	case MetricEnergyIntensity:
		return r.EnergyIntensity, nil
	case MetricWaterUsage:
		return r.WaterUsageM3, nil
	case MetricWasteRecycled:
		return r.WasteRecycledPct, nil
	case MetricEmployeeTurnover:
		return r.EmployeeTurnoverPct, nil
	case MetricDiversity:
		return r.DiversityScore, nil
	case MetricSafetyIncidents:
		return float64(r.SafetyIncidents), nil
	case MetricCommunityInvest:
		return r.CommunityInvestmentUSD, nil
	case MetricBoardIndependence:
		return r.BoardIndependencePct, nil
	case MetricExecutivePayRatio:
		return r.ExecutivePayRatio, nil
	case MetricControversy:
		return r.ControversyScore, nil
	case MetricMarketCap:
		return r.MarketCapBillion, nil
	default:
		return 0, fmt.Errorf("unknown metric %q", name)
	}
}

// ScoreMetrics lists the four pillar score columns
func ScoreMetrics() []string {
	return []string{MetricEnvironmental, MetricSocial, MetricGovernance, MetricTotalESG}
}

// KnownMetric reports whether name is a recognized metric column
func KnownMetric(name string) bool {
	_, err := Record{}.Metric(name)
	return err == nil
}

// MetricDisplayName formats a metric column name for presentation
func MetricDisplayName(metric string) string {
	names := map[string]string{
		MetricTotalESG:          "Total ESG",
		MetricEnvironmental:     "Environmental",
		MetricSocial:            "Social",
		MetricGovernance:        "Governance",
		MetricCarbonEmissions:   "Carbon Emissions",
		MetricEnergyIntensity:   "Energy Intensity",
		MetricWaterUsage:        "Water Usage",
		MetricWasteRecycled:     "Waste Recycled",
		MetricEmployeeTurnover:  "Employee Turnover",
		MetricDiversity:         "Diversity",
		MetricSafetyIncidents:   "Safety Incidents",
		MetricCommunityInvest:   "Community Investment",
		MetricBoardIndependence: "Board Independence",
		MetricExecutivePayRatio: "Executive Pay Ratio",
		MetricControversy:       "Controversy",
		MetricMarketCap:         "Market Cap",
	}
	if name, ok := names[metric]; ok {
		return name
	}
	return metric
}
