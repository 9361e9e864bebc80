package hotness

import (
	"fmt"
	"math"
	"strings"
)

// Level is a display bucket for a hotness score in [0,1].
type Level int

const (
	New Level = iota
	Cool
	Warm
	Hot
	VeryHot
)

// thresholds are the lower bounds of Cool through VeryHot.
var thresholds = [...]float64{0.2, 0.4, 0.6, 0.8}

var labels = [...]string{"New", "Cool", "Warm", "Hot", "Very Hot"}

// LevelOf buckets score. Out-of-range and NaN scores land in the nearest
// bucket, NaN in New.
func LevelOf(score float64) Level {
	if math.IsNaN(score) {
		return New
	}
	lvl := New
	for i, min := range thresholds {
		if score >= min {
			lvl = Level(i + 1)
		}
	}
	return lvl
}

func (l Level) String() string {
	if l < New || l > VeryHot {
		return labels[New]
	}
	return labels[l]
}

// Label is the badge shown next to an article.
func Label(score float64) string { return LevelOf(score).String() }

// ThresholdLabel describes a min-hotness filter value. Below the first
// bucket nothing is filtered out, hence "All".
func ThresholdLabel(min float64) string {
	lvl := LevelOf(min)
	if lvl == New {
		return "All"
	}
	return lvl.String()
}

// Percent renders score as a whole percentage, clamped to [0,100].
func Percent(score float64) string {
	if math.IsNaN(score) {
		score = 0
	}
	score = math.Max(0, math.Min(1, score))
	return fmt.Sprintf("%d%%", int(math.Round(score*100)))
}

// Bar draws score as a fixed-width meter.
func Bar(score float64, width int) string {
	if width <= 0 {
		return ""
	}
	if math.IsNaN(score) {
		score = 0
	}
	score = math.Max(0, math.Min(1, score))
	filled := int(math.Round(score * float64(width)))
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}
