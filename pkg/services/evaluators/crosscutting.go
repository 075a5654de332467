package evaluators

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/meridianfp/advisor-engine/pkg/config"
	"github.com/meridianfp/advisor-engine/pkg/models"
)

// Recommendation types emitted by the cross-cutting evaluator.
const (
	TypeSetFinancialGoals = "SET_FINANCIAL_GOALS"
	TypeReviewRiskProfile = "REVIEW_RISK_PROFILE"
)

// CrossCuttingEvaluator covers rules that span domains: missing goals
// and an equity allocation out of line with the user's age.
type CrossCuttingEvaluator struct {
	thresholds config.CrossCuttingThresholds
}

// NewCrossCuttingEvaluator creates the cross-cutting evaluator.
func NewCrossCuttingEvaluator(policy *config.Policy) *CrossCuttingEvaluator {
	return &CrossCuttingEvaluator{thresholds: policy.Thresholds.CrossCutting}
}

func (e *CrossCuttingEvaluator) Name() string              { return "cross-cutting" }
func (e *CrossCuttingEvaluator) Category() models.Category { return models.CategoryCrossCutting }

func (e *CrossCuttingEvaluator) Evaluate(uc *models.UserContext) []models.Candidate {
	var out []models.Candidate

	if len(uc.Profile.Goals) == 0 {
		out = append(out, models.Candidate{
			Category:       models.CategoryCrossCutting,
			Type:           TypeSetFinancialGoals,
			Priority:       models.PriorityMedium,
			Title:          "Set your financial goals",
			ActionRequired: "Record your savings, retirement, and protection goals",
			Urgency:        30,
			Impact:         60,
			Benefit: models.Benefit{
				Kind:   models.BenefitFlexibility,
				Amount: models.ZeroGBP(),
			},
			Reasons: []string{
				"You have no financial goals recorded",
				"Goals let every other recommendation be tailored to you",
			},
		})
	}

	if inv := uc.Investment; inv != nil && uc.Profile.Age >= e.thresholds.RiskReviewAge &&
		inv.EquityShare > e.thresholds.MaxEquityShare && inv.TotalValue.IsPositive() {
		excess := inv.EquityShare - e.thresholds.TargetEquityShare
		out = append(out, models.Candidate{
			Category:       models.CategoryCrossCutting,
			Type:           TypeReviewRiskProfile,
			Priority:       models.PriorityMedium,
			Title:          "Review your investment risk profile",
			ActionRequired: "Reassess your equity exposure against your time horizon",
			Urgency:        55,
			Impact:         65,
			Benefit: models.Benefit{
				Kind:   models.BenefitRiskReduction,
				Amount: models.NewMoney(inv.TotalValue.Amount.Mul(decimal.NewFromFloat(excess)), inv.TotalValue.Currency),
			},
			Reasons: []string{
				fmt.Sprintf("At age %d, %.0f%% of your portfolio is in equities", uc.Profile.Age, inv.EquityShare*100),
				"A shorter horizon leaves less time to recover from market falls",
			},
		})
	}

	return out
}
