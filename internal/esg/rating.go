package esg

// Rating is a letter grade assigned to an ESG score
type Rating struct {
	Grade string `json:"grade"`
	Color string `json:"color"`
}

// RatingFor converts a 0-100 ESG score to a letter rating with display color
func RatingFor(score float64) Rating {
	switch {
	case score >= 80:
		return Rating{"AAA", "#006400"}
	case score >= 70:
		return Rating{"AA", "#228B22"}
	case score >= 60:
		return Rating{"A", "#32CD32"}
	case score >= 50:
		return Rating{"BBB", "#FFD700"}
	case score >= 40:
		return Rating{"BB", "#FFA500"}
	case score >= 30:
		return Rating{"B", "#FF6347"}
	case score >= 20:
		return Rating{"CCC", "#FF4500"}
	default:
		return Rating{"CC", "#DC143C"}
	}
}

// RatingText describes a score band in plain words, used in report tables
func RatingText(score float64) string {
	switch {
	case score >= 80:
		return "Excellent"
	case score >= 70:
		return "Good"
	case score >= 60:
		return "Average"
	case score >= 50:
		return "Fair"
	default:
		return "Poor"
	}
}
