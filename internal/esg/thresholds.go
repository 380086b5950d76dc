package esg

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// RiskThresholds holds the cut points for the rule-based risk flags.
// Each pair is (flag below/above this value, escalate to High past the other).
type RiskThresholds struct {
	Environmental struct {
		ScoreFlag       float64 `yaml:"score_flag"`
		ScoreHigh       float64 `yaml:"score_high"`
		CarbonFlagMT    float64 `yaml:"carbon_flag_mt"`
		CarbonHighMT    float64 `yaml:"carbon_high_mt"`
	} `yaml:"environmental"`
	Social struct {
		ScoreFlag     float64 `yaml:"score_flag"`
		ScoreHigh     float64 `yaml:"score_high"`
		IncidentsFlag int     `yaml:"incidents_flag"`
		IncidentsHigh int     `yaml:"incidents_high"`
	} `yaml:"social"`
	Governance struct {
		ScoreFlag         float64 `yaml:"score_flag"`
		ScoreHigh         float64 `yaml:"score_high"`
		BoardIndependence float64 `yaml:"board_independence"`
	} `yaml:"governance"`
	Controversy struct {
		ScoreFlag float64 `yaml:"score_flag"`
		ScoreHigh float64 `yaml:"score_high"`
	} `yaml:"controversy"`
}

// DefaultThresholds returns the standard industry cut points
func DefaultThresholds() RiskThresholds {
	var t RiskThresholds
	t.Environmental.ScoreFlag = 50
	t.Environmental.ScoreHigh = 40
	t.Environmental.CarbonFlagMT = 50
	t.Environmental.CarbonHighMT = 100
	t.Social.ScoreFlag = 50
	t.Social.ScoreHigh = 40
	t.Social.IncidentsFlag = 20
	t.Social.IncidentsHigh = 40
	t.Governance.ScoreFlag = 60
	t.Governance.ScoreHigh = 50
	t.Governance.BoardIndependence = 60
	t.Controversy.ScoreFlag = 60
	t.Controversy.ScoreHigh = 50
	return t
}

// LoadThresholds reads risk thresholds from a YAML file, falling back to
// defaults for any section the file leaves out
func LoadThresholds(path string) (RiskThresholds, error) {
	thresholds := DefaultThresholds()

	data, err := os.ReadFile(path)
	if err != nil {
		return thresholds, fmt.Errorf("read thresholds file: %w", err)
	}
	if err := yaml.Unmarshal(data, &thresholds); err != nil {
		return DefaultThresholds(), fmt.Errorf("parse thresholds file: %w", err)
	}
	return thresholds, nil
}
