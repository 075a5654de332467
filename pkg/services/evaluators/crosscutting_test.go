package evaluators

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridianfp/advisor-engine/pkg/config"
	"github.com/meridianfp/advisor-engine/pkg/models"
)

func TestCrossCuttingEvaluator_MissingGoals(t *testing.T) {
	ev := NewCrossCuttingEvaluator(config.DefaultPolicy())

	uc := testContext(midYear)
	uc.Profile.Goals = nil

	out := ev.Evaluate(uc)
	require.Len(t, out, 1)

	c := out[0]
	assert.Equal(t, TypeSetFinancialGoals, c.Type)
	assert.Equal(t, 30.0, c.Urgency)
	assert.Equal(t, 60.0, c.Impact)
	assert.Equal(t, models.BenefitFlexibility, c.Benefit.Kind)
	assert.True(t, c.Benefit.Amount.IsZero())
}

func TestCrossCuttingEvaluator_RiskProfileNearRetirement(t *testing.T) {
	ev := NewCrossCuttingEvaluator(config.DefaultPolicy())

	uc := testContext(midYear)
	uc.Profile.Age = 64
	uc.Investment.EquityShare = 0.90

	out := ev.Evaluate(uc)
	require.Len(t, out, 1)
	assert.Equal(t, TypeReviewRiskProfile, out[0].Type)
	assert.Equal(t, 55.0, out[0].Urgency)
	assert.Equal(t, 65.0, out[0].Impact)
}

func TestCrossCuttingEvaluator_YoungHighEquityFine(t *testing.T) {
	ev := NewCrossCuttingEvaluator(config.DefaultPolicy())

	uc := testContext(midYear)
	uc.Profile.Age = 30
	uc.Investment.EquityShare = 0.95

	assert.Empty(t, ev.Evaluate(uc))
}

func TestCrossCuttingEvaluator_ThresholdsFromPolicy(t *testing.T) {
	policy := config.DefaultPolicy()
	policy.Thresholds.CrossCutting.RiskReviewAge = 50
	policy.Thresholds.CrossCutting.MaxEquityShare = 0.60
	policy.Thresholds.CrossCutting.TargetEquityShare = 0.40
	ev := NewCrossCuttingEvaluator(policy)

	// Age 55 with 70% equity is fine under defaults but flagged under
	// the tightened policy.
	uc := testContext(midYear)
	uc.Profile.Age = 55
	uc.Investment.EquityShare = 0.70
	uc.Investment.TotalValue = models.GBP(100000)

	out := ev.Evaluate(uc)
	require.Len(t, out, 1)
	assert.Equal(t, TypeReviewRiskProfile, out[0].Type)
	// Excess is measured against the configured target share.
	assert.Equal(t, "GBP 30000.00", out[0].Benefit.Amount.String())

	assert.Empty(t, NewCrossCuttingEvaluator(config.DefaultPolicy()).Evaluate(uc))
}

func TestCrossCuttingEvaluator_WorksWithoutInvestmentSection(t *testing.T) {
	ev := NewCrossCuttingEvaluator(config.DefaultPolicy())

	uc := testContext(midYear)
	uc.Profile.Goals = nil
	uc.Profile.Age = 70
	uc.Investment = nil

	out := ev.Evaluate(uc)
	require.Len(t, out, 1)
	assert.Equal(t, TypeSetFinancialGoals, out[0].Type)
}
