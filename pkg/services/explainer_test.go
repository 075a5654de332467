package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/meridianfp/advisor-engine/pkg/models"
)

func TestExplainer_MaterializesRecommendations(t *testing.T) {
	e := NewExplainer(zap.NewNop())
	userID := uuid.New()
	now := time.Now().UTC()
	deadline := now.AddDate(0, 0, 40)

	ranked := []models.ScoredCandidate{
		{
			Candidate: models.Candidate{
				Category:       models.CategorySavings,
				Type:           "USE_ISA_ALLOWANCE",
				Priority:       models.PriorityHigh,
				Title:          "Use your remaining ISA allowance",
				ActionRequired: "Move savings into your ISA before the tax-year end",
				Deadline:       &deadline,
				Urgency:        90,
				Impact:         70,
				Benefit: models.Benefit{
					Kind:   models.BenefitTaxExemption,
					Amount: models.GBP(10000),
				},
				Reasons: []string{"You have GBP 10000.00 of unused ISA allowance"},
			},
			FinalScore: 112.4,
		},
	}

	recs := e.Explain(ranked, userID, now)
	require.Len(t, recs, 1)

	rec := recs[0]
	assert.NotEqual(t, uuid.Nil, rec.ID)
	assert.Equal(t, userID, rec.UserID)
	assert.Equal(t, models.StatusNew, rec.Status)
	assert.Equal(t, 112.4, rec.Score)
	assert.Equal(t, now, rec.GeneratedAt)
	require.NotNil(t, rec.ExpiresAt)
	assert.Equal(t, deadline, *rec.ExpiresAt)
	assert.Contains(t, rec.Description, "GBP 10000.00")
	assert.NotEmpty(t, rec.Reasons)
}

func TestExplainer_PreservesOrder(t *testing.T) {
	e := NewExplainer(zap.NewNop())
	now := time.Now().UTC()

	ranked := []models.ScoredCandidate{
		{Candidate: models.Candidate{Type: "INCREASE_LIFE_COVER", Benefit: models.Benefit{Kind: models.BenefitRiskMitigation, Amount: models.GBP(1)}}, FinalScore: 90},
		{Candidate: models.Candidate{Type: "USE_ISA_ALLOWANCE", Benefit: models.Benefit{Kind: models.BenefitTaxExemption, Amount: models.GBP(1)}}, FinalScore: 80},
		{Candidate: models.Candidate{Type: "SET_FINANCIAL_GOALS", Benefit: models.Benefit{Kind: models.BenefitFlexibility, Amount: models.ZeroGBP()}}, FinalScore: 30},
	}

	recs := e.Explain(ranked, uuid.New(), now)
	require.Len(t, recs, 3)
	assert.Equal(t, "INCREASE_LIFE_COVER", recs[0].Type)
	assert.Equal(t, "USE_ISA_ALLOWANCE", recs[1].Type)
	assert.Equal(t, "SET_FINANCIAL_GOALS", recs[2].Type)
}

func TestExplainer_NoBenefitSlotTemplate(t *testing.T) {
	e := NewExplainer(zap.NewNop())

	recs := e.Explain([]models.ScoredCandidate{
		{Candidate: models.Candidate{
			Type:    "SET_FINANCIAL_GOALS",
			Title:   "Set your financial goals",
			Benefit: models.Benefit{Kind: models.BenefitFlexibility, Amount: models.ZeroGBP()},
		}},
	}, uuid.New(), time.Now().UTC())

	require.Len(t, recs, 1)
	assert.NotContains(t, recs[0].Description, "%s")
}

func TestExplainer_UnknownTypeGetsGenericDescription(t *testing.T) {
	e := NewExplainer(zap.NewNop())

	recs := e.Explain([]models.ScoredCandidate{
		{Candidate: models.Candidate{
			Type:  "SOME_FUTURE_TYPE",
			Title: "A future recommendation",
		}},
	}, uuid.New(), time.Now().UTC())

	require.Len(t, recs, 1)
	// Unknown types degrade to generic text rather than being dropped.
	assert.Contains(t, recs[0].Description, "A future recommendation")
	assert.NotContains(t, recs[0].Description, "%s")
}

func TestExplainer_EveryKnownTypeHasTemplate(t *testing.T) {
	for recType, tmpl := range descriptionTemplates {
		assert.NotEmpty(t, tmpl, "empty template for %s", recType)
	}
	for kind, phrase := range benefitPhrases {
		assert.NotEmpty(t, phrase, "empty phrase for %s", kind)
	}
}
