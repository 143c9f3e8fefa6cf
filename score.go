package zalert

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// CriterionConfig configures one scoring criterion.
//
// Scoring selects the normalization curve: "" (linear between Min and Max),
// "threshold" (full points under FullPointsUnder, zero over ZeroPointsOver,
// linear between), or "peak" (maximum at Ideal, dropping linearly to zero at
// Min and Max).
type CriterionConfig struct {
	Weight    float64 `yaml:"weight"`
	Scoring   string  `yaml:"scoring"`
	Direction string  `yaml:"direction"`

	Min   float64 `yaml:"min"`
	Max   float64 `yaml:"max"`
	Ideal float64 `yaml:"ideal"`

	FullPointsUnder float64 `yaml:"full_points_under"`
	ZeroPointsOver  float64 `yaml:"zero_points_over"`
}

// BonusConfig configures a flat bonus awarded when a feature is present.
type BonusConfig struct {
	Points float64 `yaml:"points"`
}

// ScoringConfig is the scoring matrix: weighted criteria plus feature
// bonuses.
type ScoringConfig struct {
	Criteria map[string]CriterionConfig `yaml:"criteria"`
	Bonuses  map[string]BonusConfig     `yaml:"bonuses"`
}

// Validate returns an error if the scoring matrix is unusable.
func (c *ScoringConfig) Validate() error {
	if len(c.Criteria) == 0 {
		return Errorf(EINVALID, "scoring config has no criteria")
	}
	for name, crit := range c.Criteria {
		if crit.Weight <= 0 {
			return Errorf(EINVALID, "criterion %q has non-positive weight", name)
		}
	}
	return nil
}

// ScoreBreakdown holds the per-criterion detail behind one property's score.
type ScoreBreakdown struct {
	// CriterionScores maps criterion name to its normalized 0-100 score.
	// Criteria with missing data are absent, not zero.
	CriterionScores map[string]float64 `json:"criterionScores"`

	// BonusScores maps bonus name to points awarded (0 when not earned).
	BonusScores map[string]float64 `json:"bonusScores"`

	WeightedAverage float64 `json:"weightedAverage"`
	BonusTotal      float64 `json:"bonusTotal"`

	// FinalScore is the weighted average plus bonuses, capped at 100.
	FinalScore float64 `json:"finalScore"`

	// ValueRatio is FinalScore per $100k of asking price. Zero when the
	// price is unknown.
	ValueRatio float64 `json:"valueRatio"`
}

// Summary renders the breakdown as a compact single line, criteria sorted by
// name for stable output.
func (b *ScoreBreakdown) Summary() string {
	var parts []string
	for _, name := range sortedKeys(b.CriterionScores) {
		parts = append(parts, fmt.Sprintf("%s=%.0f", name, b.CriterionScores[name]))
	}
	for _, name := range sortedKeys(b.BonusScores) {
		if b.BonusScores[name] > 0 {
			parts = append(parts, fmt.Sprintf("+%s=%.0f", name, b.BonusScores[name]))
		}
	}
	return strings.Join(parts, " | ")
}

// ScoreProperty scores a property against the scoring matrix.
//
// Criteria whose value is missing from the property are skipped rather than
// penalized: the weighted average is taken over the criteria that could be
// evaluated. Bonuses require an explicit true; a nil three-valued feature
// earns nothing.
func ScoreProperty(prop *Property, cfg *ScoringConfig) *ScoreBreakdown {
	criterionScores := make(map[string]float64)
	var totalWeighted, totalWeight float64

	for name, crit := range cfg.Criteria {
		value, ok := criterionValue(prop, name)
		if !ok {
			continue
		}

		var normalized float64
		switch crit.Scoring {
		case "threshold":
			normalized = normalizeThreshold(value, crit)
		case "peak":
			normalized = normalizePeak(value, crit)
		default:
			normalized = normalizeLinear(value, crit)
		}

		criterionScores[name] = round1(normalized)
		totalWeighted += normalized * crit.Weight
		totalWeight += crit.Weight
	}

	var weightedAvg float64
	if totalWeight > 0 {
		weightedAvg = totalWeighted / totalWeight
	}

	bonusScores := make(map[string]float64)
	var bonusTotal float64
	features := map[string]*bool{
		"has_fireplace": prop.HasFireplace,
		"has_basement":  prop.HasBasement,
		"has_garage":    prop.HasGarage,
	}
	for name, bonus := range cfg.Bonuses {
		if flag := features[name]; flag != nil && *flag {
			bonusScores[name] = bonus.Points
			bonusTotal += bonus.Points
		} else {
			bonusScores[name] = 0
		}
	}

	final := math.Min(100, weightedAvg+bonusTotal)

	var valueRatio float64
	if prop.Price > 0 {
		valueRatio = round2(final / (float64(prop.Price) / 100_000))
	}

	return &ScoreBreakdown{
		CriterionScores: criterionScores,
		BonusScores:     bonusScores,
		WeightedAverage: round1(weightedAvg),
		BonusTotal:      round1(bonusTotal),
		FinalScore:      round1(final),
		ValueRatio:      valueRatio,
	}
}

// criterionValue returns the property's numeric value for a criterion. The
// second result is false when the data is missing and the criterion should
// be skipped.
func criterionValue(prop *Property, criterion string) (float64, bool) {
	switch criterion {
	case "commute":
		if len(prop.CommuteMinutes) == 0 {
			return 0, false
		}
		// Score against the worst destination.
		worst := 0
		for _, minutes := range prop.CommuteMinutes {
			if minutes > worst {
				worst = minutes
			}
		}
		return float64(worst), true
	case "lot_size_acres":
		return nonZero(prop.LotAcres)
	case "bedrooms":
		return nonZero(float64(prop.Bedrooms))
	case "bathrooms":
		return nonZero(prop.Bathrooms)
	default:
		return 0, false
	}
}

func nonZero(v float64) (float64, bool) {
	if v == 0 {
		return 0, false
	}
	return v, true
}

// normalizeLinear maps value onto 0-100 between Min and Max, inverted when
// Direction is "lower_is_better".
func normalizeLinear(value float64, cfg CriterionConfig) float64 {
	if cfg.Max == cfg.Min {
		return 50
	}
	var score float64
	if cfg.Direction == "lower_is_better" {
		score = (cfg.Max - value) / (cfg.Max - cfg.Min) * 100
	} else {
		score = (value - cfg.Min) / (cfg.Max - cfg.Min) * 100
	}
	return math.Max(0, math.Min(100, score))
}

// normalizeThreshold gives full points under FullPointsUnder, zero over
// ZeroPointsOver, and interpolates linearly in between.
func normalizeThreshold(value float64, cfg CriterionConfig) float64 {
	if value <= cfg.FullPointsUnder {
		return 100
	}
	if value >= cfg.ZeroPointsOver {
		return 0
	}
	return (cfg.ZeroPointsOver - value) / (cfg.ZeroPointsOver - cfg.FullPointsUnder) * 100
}

// normalizePeak peaks at Ideal and drops off linearly to zero at Min and Max.
func normalizePeak(value float64, cfg CriterionConfig) float64 {
	if value <= cfg.Min || value >= cfg.Max {
		return 0
	}
	if value <= cfg.Ideal {
		return (value - cfg.Min) / (cfg.Ideal - cfg.Min) * 100
	}
	return (cfg.Max - value) / (cfg.Max - cfg.Ideal) * 100
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
