package simulator

import (
	"fmt"
	"math"
)

// Pillar names used in simulation inputs and outputs
const (
	PillarEnvironmental = "environmental"
	PillarSocial        = "social"
	PillarGovernance    = "governance"
)

// Pillars lists the three score pillars in canonical order
func Pillars() []string {
	return []string{PillarEnvironmental, PillarSocial, PillarGovernance}
}

// Scores holds one score per pillar
type Scores struct {
	Environmental float64 `json:"environmental"`
	Social        float64 `json:"social"`
	Governance    float64 `json:"governance"`
}

// Get returns the score for a named pillar
func (s Scores) Get(pillar string) float64 {
	switch pillar {
	case PillarEnvironmental:
		return s.Environmental
	case PillarSocial:
		return s.Social
	case PillarGovernance:
		return s.Governance
	default:
		return 0
	}
}

// set assigns the score for a named pillar
func (s *Scores) set(pillar string, value float64) {
	switch pillar {
	case PillarEnvironmental:
		s.Environmental = value
	case PillarSocial:
		s.Social = value
	case PillarGovernance:
		s.Governance = value
	}
}

// Weights controls how pillar scores combine into a total
type Weights struct {
	Environmental float64
	Social        float64
	Governance    float64
}

// DefaultWeights returns the standard pillar weighting
func DefaultWeights() Weights {
	return Weights{Environmental: 0.33, Social: 0.33, Governance: 0.34}
}

// Get returns the weight for a named pillar
func (w Weights) Get(pillar string) float64 {
	switch pillar {
	case PillarEnvironmental:
		return w.Environmental
	case PillarSocial:
		return w.Social
	case PillarGovernance:
		return w.Governance
	default:
		return 0
	}
}

// Simulator models what-if scenarios over pillar scores
type Simulator struct {
	weights Weights
}

// New creates a simulator with default pillar weights
func New() *Simulator {
	return &Simulator{weights: DefaultWeights()}
}

// NewWithWeights creates a simulator with custom pillar weights
func NewWithWeights(weights Weights) *Simulator {
	return &Simulator{weights: weights}
}

// TotalScore combines pillar scores into the weighted total
func (s *Simulator) TotalScore(scores Scores) float64 {
	return scores.Environmental*s.weights.Environmental +
		scores.Social*s.weights.Social +
		scores.Governance*s.weights.Governance
}

// Improvements holds per-pillar improvement percentages
type Improvements struct {
	Environmental float64 `json:"environmental"`
	Social        float64 `json:"social"`
	Governance    float64 `json:"governance"`
}

// Get returns the improvement percentage for a named pillar
func (i Improvements) Get(pillar string) float64 {
	switch pillar {
	case PillarEnvironmental:
		return i.Environmental
	case PillarSocial:
		return i.Social
	case PillarGovernance:
		return i.Governance
	default:
		return 0
	}
}

// Result captures the outcome of an improvement simulation
type Result struct {
	Current        Scores       `json:"current"`
	Projected      Scores       `json:"projected"`
	Delta          Scores       `json:"delta"`
	CurrentTotal   float64      `json:"current_total"`
	ProjectedTotal float64      `json:"projected_total"`
	DeltaTotal     float64      `json:"delta_total"`
	Improvements   Improvements `json:"improvement_pct"`
}

// SimulateImprovements applies percentage improvements to each pillar,
// capping projected scores at 100
func (s *Simulator) SimulateImprovements(current Scores, improvements Improvements) Result {
	result := Result{
		Current:      current,
		Improvements: improvements,
	}

	for _, pillar := range Pillars() {
		score := current.Get(pillar)
		pct := improvements.Get(pillar)

		projected := math.Min(100, score+score*pct/100)
		result.Projected.set(pillar, projected)
		result.Delta.set(pillar, projected-score)
	}

	result.CurrentTotal = s.TotalScore(current)
	result.ProjectedTotal = s.TotalScore(result.Projected)
	result.DeltaTotal = result.ProjectedTotal - result.CurrentTotal
	return result
}

// TrajectoryPoint is one projected year of pillar scores
type TrajectoryPoint struct {
	Year          int     `json:"year"`
	Environmental float64 `json:"environmental"`
	Social        float64 `json:"social"`
	Governance    float64 `json:"governance"`
	Total         float64 `json:"total"`
}

// ProjectTrajectory projects pillar scores over the given number of years.
// Growth compounds with diminishing returns as a score approaches 100:
// each year's gain is (100-score) * rate/100 * 0.5.
func (s *Simulator) ProjectTrajectory(current Scores, annualRate Improvements, years int) []TrajectoryPoint {
	if years < 0 {
		years = 0
	}

	points := make([]TrajectoryPoint, 0, years+1)
	for year := 0; year <= years; year++ {
		var point TrajectoryPoint
		point.Year = year

		scores := Scores{}
		for _, pillar := range Pillars() {
			score := current.Get(pillar)
			rate := annualRate.Get(pillar)

			for i := 0; i < year; i++ {
				improvement := (100 - score) * (rate / 100) * 0.5
				score = math.Min(100, score+improvement)
			}
			scores.set(pillar, round1(score))
		}

		point.Environmental = scores.Environmental
		point.Social = scores.Social
		point.Governance = scores.Governance
		point.Total = round1(s.TotalScore(scores))
		points = append(points, point)
	}
	return points
}

// ImpactMetrics summarizes what a simulation achieved
type ImpactMetrics struct {
	TotalImprovement float64 `json:"total_improvement"`
	BestPillar       string  `json:"best_pillar"`
	BestImprovement  float64 `json:"best_improvement"`
	CurrentRating    string  `json:"current_rating"`
	ProjectedRating  string  `json:"projected_rating"`
	RatingChanged    bool    `json:"rating_changed"`
	PercentileGain   int     `json:"percentile_gain"`
}

// ImpactMetrics derives headline impact numbers from a simulation result
func (s *Simulator) ImpactMetrics(result Result) ImpactMetrics {
	metrics := ImpactMetrics{
		TotalImprovement: result.DeltaTotal,
	}

	for _, pillar := range Pillars() {
		if delta := result.Delta.Get(pillar); metrics.BestPillar == "" || delta > metrics.BestImprovement {
			metrics.BestPillar = pillar
			metrics.BestImprovement = delta
		}
	}

	metrics.CurrentRating = scoreToRating(result.CurrentTotal)
	metrics.ProjectedRating = scoreToRating(result.ProjectedTotal)
	metrics.RatingChanged = metrics.CurrentRating != metrics.ProjectedRating

	// Percentile approximated directly from the 0-100 score
	currentPercentile := min(99, int(result.CurrentTotal))
	projectedPercentile := min(99, int(result.ProjectedTotal))
	metrics.PercentileGain = projectedPercentile - currentPercentile

	return metrics
}

// scoreToRating maps a total score to the simulator's finer-grained scale
func scoreToRating(score float64) string {
	switch {
	case score >= 80:
		return "AAA"
	case score >= 75:
		return "AA"
	case score >= 70:
		return "A"
	case score >= 65:
		return "BBB"
	case score >= 60:
		return "BB"
	case score >= 55:
		return "B"
	case score >= 50:
		return "CCC"
	case score >= 40:
		return "CC"
	default:
		return "C"
	}
}

// PillarPlan is the improvement a single pillar needs to hit a target
type PillarPlan struct {
	Current        float64 `json:"current"`
	Target         float64 `json:"target"`
	IncreaseNeeded float64 `json:"increase_needed"`
	IncreasePct    float64 `json:"increase_pct"`
}

// Recommendations describes how to close the gap to a target total score
type Recommendations struct {
	Message       string                `json:"message,omitempty"`
	Gap           float64               `json:"gap,omitempty"`
	CurrentTotal  float64               `json:"current_total"`
	TargetTotal   float64               `json:"target_total"`
	PillarPlans   map[string]PillarPlan `json:"pillar_plans,omitempty"`
	TargetReached bool                  `json:"target_reached"`
}

// Recommendations computes per-pillar improvements needed to reach the
// target total score, distributing the gap evenly across pillars
func (s *Simulator) Recommendations(current Scores, target float64) Recommendations {
	currentTotal := s.TotalScore(current)

	rec := Recommendations{
		CurrentTotal: currentTotal,
		TargetTotal:  target,
	}

	if currentTotal >= target {
		rec.TargetReached = true
		rec.Message = fmt.Sprintf("Current score (%.1f) already meets or exceeds target (%.1f)", currentTotal, target)
		return rec
	}

	gap := target - currentTotal
	rec.Gap = gap
	rec.PillarPlans = make(map[string]PillarPlan, 3)

	for _, pillar := range Pillars() {
		score := current.Get(pillar)
		weight := s.weights.Get(pillar)

		pointsNeeded := gap / 3
		scoreIncrease := pointsNeeded / weight

		plan := PillarPlan{
			Current:        score,
			Target:         math.Min(100, score+scoreIncrease),
			IncreaseNeeded: scoreIncrease,
		}
		if score > 0 {
			plan.IncreasePct = scoreIncrease / score * 100
		}
		rec.PillarPlans[pillar] = plan
	}

	return rec
}

// MatchSector derives the improvement percentages needed to reach the
// sector average on each trailing pillar, then simulates them
func (s *Simulator) MatchSector(company, sectorAvg Scores) Result {
	var improvements Improvements

	for _, pillar := range Pillars() {
		current := company.Get(pillar)
		target := sectorAvg.Get(pillar)

		if current < target && current > 0 {
			pct := (target - current) / current * 100
			switch pillar {
			case PillarEnvironmental:
				improvements.Environmental = pct
			case PillarSocial:
				improvements.Social = pct
			case PillarGovernance:
				improvements.Governance = pct
			}
		}
	}

	return s.SimulateImprovements(company, improvements)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
