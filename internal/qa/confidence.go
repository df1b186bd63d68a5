package qa

import "fmt"

// Level is the qualitative label for a confidence score.
type Level string

const (
	LevelHigh   Level = "high"
	LevelMedium Level = "medium"
	LevelLow    Level = "low"
)

const (
	HighThreshold   = 80.0
	MediumThreshold = 50.0
)

// LevelFor labels a score in [0,1]: >= 80% high, >= 50% medium, else low.
func LevelFor(score float64) Level {
	pct := score * 100
	switch {
	case pct >= HighThreshold:
		return LevelHigh
	case pct >= MediumThreshold:
		return LevelMedium
	default:
		return LevelLow
	}
}

func (l Level) Message() string {
	switch l {
	case LevelHigh:
		return "High confidence - Answer is very likely correct"
	case LevelMedium:
		return "Medium confidence - Answer might be approximate"
	default:
		return "Low confidence - Answer may not be reliable"
	}
}

// FormatConfidence renders a score as a percentage with one decimal.
func FormatConfidence(score float64) string {
	return fmt.Sprintf("%.1f%%", score*100)
}
