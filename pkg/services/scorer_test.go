package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridianfp/advisor-engine/pkg/config"
	"github.com/meridianfp/advisor-engine/pkg/models"
)

func scoredCandidate(category models.Category, urgency, impact float64, benefit models.Benefit) models.ScoredCandidate {
	return models.ScoredCandidate{
		Candidate: models.Candidate{
			Category: category,
			Type:     "TEST_TYPE",
			Urgency:  urgency,
			Impact:   impact,
			Benefit:  benefit,
		},
	}
}

func TestScorer_BaseScoreWeights(t *testing.T) {
	scorer := NewScorer(config.DefaultPolicy())
	uc := &models.UserContext{}

	// 90 urgency, 95 impact: 90*0.4 + 95*0.6 = 93.0.
	in := []models.ScoredCandidate{
		scoredCandidate(models.CategoryProtection, 90, 95, models.Benefit{Kind: models.BenefitRiskMitigation, Amount: models.ZeroGBP()}),
	}
	out := scorer.Score(in, uc)

	require.Len(t, out, 1)
	assert.InDelta(t, 93.0, out[0].BaseScore, 1e-9)
	assert.Equal(t, 0.0, out[0].BenefitScore)
	assert.Equal(t, 1.0, out[0].AcceptanceAdjustment)
	assert.InDelta(t, 93.0, out[0].FinalScore, 1e-9)
}

func TestScorer_BenefitNormalization(t *testing.T) {
	scorer := NewScorer(config.DefaultPolicy())
	uc := &models.UserContext{}

	// 400000 against the 250000 risk-mitigation reference:
	// 400000 / 650000.
	in := []models.ScoredCandidate{
		scoredCandidate(models.CategoryProtection, 90, 95, models.Benefit{
			Kind:   models.BenefitRiskMitigation,
			Amount: models.GBP(400000),
		}),
	}
	out := scorer.Score(in, uc)

	wantBenefit := 400000.0 / 650000.0
	assert.InDelta(t, wantBenefit, out[0].BenefitScore, 1e-9)
	assert.InDelta(t, 93.0*(1+wantBenefit), out[0].FinalScore, 1e-9)
}

func TestScorer_BenefitHasDiminishingReturns(t *testing.T) {
	scorer := NewScorer(config.DefaultPolicy())
	uc := &models.UserContext{}

	small := scoredCandidate(models.CategoryTax, 50, 50, models.Benefit{Kind: models.BenefitTaxSaving, Amount: models.GBP(10000)})
	huge := scoredCandidate(models.CategoryTax, 50, 50, models.Benefit{Kind: models.BenefitTaxSaving, Amount: models.GBP(10000000)})

	out := scorer.Score([]models.ScoredCandidate{small, huge}, uc)
	assert.Greater(t, out[1].BenefitScore, out[0].BenefitScore)
	assert.Less(t, out[1].BenefitScore, 1.0)
}

func TestScorer_PreferredCategoryBoost(t *testing.T) {
	scorer := NewScorer(config.DefaultPolicy())

	uc := &models.UserContext{
		Profile: models.Profile{
			PreferredCategories: []models.Category{models.CategoryRetirement},
		},
	}

	in := []models.ScoredCandidate{
		scoredCandidate(models.CategoryRetirement, 70, 90, models.Benefit{Kind: models.BenefitRetirementAdequacy, Amount: models.ZeroGBP()}),
		scoredCandidate(models.CategorySavings, 70, 90, models.Benefit{Kind: models.BenefitTaxExemption, Amount: models.ZeroGBP()}),
	}
	out := scorer.Score(in, uc)

	assert.InDelta(t, out[1].BaseScore*1.2, out[0].BaseScore, 1e-9)
}

func TestScorer_AcceptanceAdjustment(t *testing.T) {
	policy := config.DefaultPolicy()
	scorer := NewScorer(policy)

	tests := []struct {
		name    string
		rates   map[models.Category]float64
		wantAdj float64
	}{
		{"no history is neutral", nil, 1.0},
		{"history scales", map[models.Category]float64{models.CategoryTax: 0.6}, 0.6},
		{"floor applies with history", map[models.Category]float64{models.CategoryTax: 0.05}, policy.MinAcceptanceAdjustment},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &models.UserContext{Behavior: models.BehaviorStats{AcceptanceRates: tt.rates}}
			in := []models.ScoredCandidate{
				scoredCandidate(models.CategoryTax, 50, 50, models.Benefit{Kind: models.BenefitTaxSaving, Amount: models.ZeroGBP()}),
			}
			out := scorer.Score(in, uc)
			assert.InDelta(t, tt.wantAdj, out[0].AcceptanceAdjustment, 1e-9)
			assert.InDelta(t, 50.0*tt.wantAdj, out[0].FinalScore, 1e-9)
		})
	}
}

func TestScorer_IsPure(t *testing.T) {
	scorer := NewScorer(config.DefaultPolicy())
	uc := &models.UserContext{}

	in := []models.ScoredCandidate{
		scoredCandidate(models.CategoryEstate, 60, 85, models.Benefit{Kind: models.BenefitTaxSaving, Amount: models.GBP(50000)}),
	}

	first := scorer.Score(in, uc)
	second := scorer.Score(in, uc)
	assert.Equal(t, first, second)
	// The input slice is never mutated.
	assert.Equal(t, 0.0, in[0].FinalScore)
}
