package zalert_test

import (
	"fmt"
	"testing"

	"github.com/kmathews/zalert"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleScoringConfig() *zalert.ScoringConfig {
	return &zalert.ScoringConfig{
		Criteria: map[string]zalert.CriterionConfig{
			"lot_size_acres": {Weight: 40, Min: 0.5, Max: 5.0, Direction: "higher_is_better"},
			"commute":        {Weight: 25, Scoring: "threshold", FullPointsUnder: 20, ZeroPointsOver: 46},
			"bedrooms":       {Weight: 20, Scoring: "peak", Ideal: 3, Min: 1, Max: 5},
			"bathrooms":      {Weight: 15, Min: 0, Max: 2, Direction: "higher_is_better"},
		},
		Bonuses: map[string]zalert.BonusConfig{
			"has_garage":    {Points: 15},
			"has_basement":  {Points: 5},
			"has_fireplace": {Points: 3},
		},
	}
}

// sampleProperty returns a solid mid-range property; tests mutate the fields
// they care about.
func sampleProperty() *zalert.Property {
	return &zalert.Property{
		ZPID:           "111",
		Address:        "123 Test St",
		Price:          300000,
		Bedrooms:       3,
		Bathrooms:      2.0,
		SquareFeet:     1800,
		LotAcres:       3.0,
		YearBuilt:      2000,
		PropertyType:   "SINGLE_FAMILY",
		CommuteMinutes: map[string]int{"Work": 15, "School": 20},
	}
}

func TestScoreProperty(t *testing.T) {
	t.Parallel()

	t.Run("final score stays within 0-100", func(t *testing.T) {
		t.Parallel()

		bd := zalert.ScoreProperty(sampleProperty(), sampleScoringConfig())
		assert.GreaterOrEqual(t, bd.FinalScore, 0.0)
		assert.LessOrEqual(t, bd.FinalScore, 100.0)
	})

	t.Run("more land scores higher", func(t *testing.T) {
		t.Parallel()

		big := sampleProperty()
		big.LotAcres = 5.0
		small := sampleProperty()
		small.LotAcres = 1.0

		cfg := sampleScoringConfig()
		assert.Greater(t, zalert.ScoreProperty(big, cfg).FinalScore,
			zalert.ScoreProperty(small, cfg).FinalScore)
	})

	t.Run("bonuses add their flat points", func(t *testing.T) {
		t.Parallel()

		// A low-scoring base so bonuses cannot hit the 100 cap.
		boolTrue := true
		plain := sampleProperty()
		plain.LotAcres = 0.6
		plain.CommuteMinutes = map[string]int{"Work": 40}
		loaded := sampleProperty()
		loaded.LotAcres = 0.6
		loaded.CommuteMinutes = map[string]int{"Work": 40}
		loaded.HasGarage = &boolTrue
		loaded.HasBasement = &boolTrue
		loaded.HasFireplace = &boolTrue

		cfg := sampleScoringConfig()
		diff := zalert.ScoreProperty(loaded, cfg).FinalScore - zalert.ScoreProperty(plain, cfg).FinalScore
		assert.InDelta(t, 23.0, diff, 0.001)
	})

	t.Run("score is capped at 100", func(t *testing.T) {
		t.Parallel()

		boolTrue := true
		perfect := sampleProperty()
		perfect.Price = 100000
		perfect.LotAcres = 5.0
		perfect.CommuteMinutes = map[string]int{"Work": 10, "School": 15}
		perfect.HasGarage = &boolTrue
		perfect.HasBasement = &boolTrue
		perfect.HasFireplace = &boolTrue

		bd := zalert.ScoreProperty(perfect, sampleScoringConfig())
		assert.Equal(t, 100.0, bd.FinalScore)
	})

	t.Run("missing data is skipped, not penalized", func(t *testing.T) {
		t.Parallel()

		partial := sampleProperty()
		partial.Bathrooms = 0

		bd := zalert.ScoreProperty(partial, sampleScoringConfig())
		assert.NotContains(t, bd.CriterionScores, "bathrooms")
		assert.Greater(t, bd.FinalScore, 0.0)
	})

	t.Run("unknown bonus features award zero, same as false", func(t *testing.T) {
		t.Parallel()

		boolFalse := false
		explicit := sampleProperty()
		explicit.HasGarage = &boolFalse
		explicit.HasBasement = &boolFalse
		explicit.HasFireplace = &boolFalse
		unknown := sampleProperty()

		cfg := sampleScoringConfig()
		sExplicit := zalert.ScoreProperty(explicit, cfg)
		sUnknown := zalert.ScoreProperty(unknown, cfg)

		assert.Equal(t, sExplicit.FinalScore, sUnknown.FinalScore)
		assert.Equal(t, 0.0, sUnknown.BonusTotal)
	})

	t.Run("unconfigured fields are not scored", func(t *testing.T) {
		t.Parallel()

		bd := zalert.ScoreProperty(sampleProperty(), sampleScoringConfig())
		assert.NotContains(t, bd.CriterionScores, "sqft")
		assert.NotContains(t, bd.CriterionScores, "year_built")
	})

	t.Run("matches a hand-calculated weighted average", func(t *testing.T) {
		t.Parallel()

		// Lot 3.0 acres: (3.0-0.5)/(5.0-0.5)*100 = 55.6  (weight 40)
		// Commute worst=20, full zone: 100                (weight 25)
		// Bedrooms 3 at peak ideal: 100                   (weight 20)
		// Bathrooms 2 of 2: 100                           (weight 15)
		// Weighted avg = 8222/100 = 82.2
		bd := zalert.ScoreProperty(sampleProperty(), sampleScoringConfig())
		assert.InDelta(t, 82.2, bd.WeightedAverage, 1.5)
	})
}

func TestScoreProperty_BedroomPeak(t *testing.T) {
	t.Parallel()

	cfg := sampleScoringConfig()

	tests := []struct {
		bedrooms int
		want     float64
	}{
		{bedrooms: 3, want: 100.0},
		{bedrooms: 2, want: 50.0},
		{bedrooms: 4, want: 50.0},
		{bedrooms: 5, want: 0.0},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d bedrooms", tt.bedrooms), func(t *testing.T) {
			t.Parallel()

			prop := sampleProperty()
			prop.Bedrooms = tt.bedrooms
			bd := zalert.ScoreProperty(prop, cfg)
			assert.Equal(t, tt.want, bd.CriterionScores["bedrooms"])
		})
	}
}

func TestScoreProperty_Commute(t *testing.T) {
	t.Parallel()

	cfg := sampleScoringConfig()
	commuteScore := func(minutes map[string]int) float64 {
		prop := sampleProperty()
		prop.CommuteMinutes = minutes
		return zalert.ScoreProperty(prop, cfg).CriterionScores["commute"]
	}

	t.Run("full points under the threshold", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, 100.0, commuteScore(map[string]int{"Work": 15}))
	})

	t.Run("zero points at the far threshold", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, 0.0, commuteScore(map[string]int{"Work": 46}))
	})

	t.Run("linear in the partial zone", func(t *testing.T) {
		t.Parallel()
		// (46-33)/(46-20)*100 = 50
		assert.Equal(t, 50.0, commuteScore(map[string]int{"Work": 33}))
	})

	t.Run("worst destination governs", func(t *testing.T) {
		t.Parallel()
		// Worst is 40: (46-40)/(46-20)*100 = 23.1
		assert.InDelta(t, 23.1, commuteScore(map[string]int{"Work": 10, "School": 40}), 0.05)
	})

	t.Run("missing commute data is skipped", func(t *testing.T) {
		t.Parallel()

		prop := sampleProperty()
		prop.CommuteMinutes = nil
		bd := zalert.ScoreProperty(prop, cfg)
		assert.NotContains(t, bd.CriterionScores, "commute")
		assert.Greater(t, bd.FinalScore, 0.0)
	})
}

func TestScoreProperty_ValueRatio(t *testing.T) {
	t.Parallel()

	cfg := sampleScoringConfig()

	t.Run("ratio is score per hundred thousand dollars", func(t *testing.T) {
		t.Parallel()

		prop := sampleProperty()
		prop.Price = 300000
		bd := zalert.ScoreProperty(prop, cfg)
		assert.InDelta(t, bd.FinalScore/3.0, bd.ValueRatio, 0.15)
	})

	t.Run("cheaper house has the higher ratio", func(t *testing.T) {
		t.Parallel()

		cheap := sampleProperty()
		cheap.Price = 150000
		expensive := sampleProperty()
		expensive.Price = 450000

		assert.Greater(t, zalert.ScoreProperty(cheap, cfg).ValueRatio,
			zalert.ScoreProperty(expensive, cfg).ValueRatio)
	})

	t.Run("unknown price yields zero ratio", func(t *testing.T) {
		t.Parallel()

		prop := sampleProperty()
		prop.Price = 0
		assert.Equal(t, 0.0, zalert.ScoreProperty(prop, cfg).ValueRatio)
	})
}

func TestScoreBreakdown_Summary(t *testing.T) {
	t.Parallel()

	boolTrue := true
	prop := sampleProperty()
	prop.HasGarage = &boolTrue

	summary := zalert.ScoreProperty(prop, sampleScoringConfig()).Summary()
	assert.Contains(t, summary, "lot_size_acres")
	assert.Contains(t, summary, "+has_garage")
	assert.NotContains(t, summary, "+has_basement", "unearned bonuses stay out of the summary")
}

func TestScoringConfig_Validate(t *testing.T) {
	t.Parallel()

	t.Run("valid config passes", func(t *testing.T) {
		t.Parallel()
		require.NoError(t, sampleScoringConfig().Validate())
	})

	t.Run("no criteria fails", func(t *testing.T) {
		t.Parallel()

		cfg := &zalert.ScoringConfig{}
		err := cfg.Validate()
		require.Error(t, err)
		assert.Equal(t, zalert.EINVALID, zalert.ErrorCode(err))
	})

	t.Run("non-positive weight fails", func(t *testing.T) {
		t.Parallel()

		cfg := sampleScoringConfig()
		crit := cfg.Criteria["commute"]
		crit.Weight = 0
		cfg.Criteria["commute"] = crit

		err := cfg.Validate()
		require.Error(t, err)
		assert.Equal(t, zalert.EINVALID, zalert.ErrorCode(err))
	})
}
