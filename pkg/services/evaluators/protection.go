package evaluators

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/meridianfp/advisor-engine/pkg/config"
	"github.com/meridianfp/advisor-engine/pkg/models"
)

// Recommendation types emitted by the protection evaluator.
const (
	TypeIncreaseLifeCover       = "INCREASE_LIFE_COVER"
	TypeAddIncomeProtection     = "ADD_INCOME_PROTECTION"
	TypeAddCriticalIllnessCover = "ADD_CRITICAL_ILLNESS_COVER"
)

// ProtectionEvaluator flags gaps between held and recommended insurance
// cover for users with financial dependents.
type ProtectionEvaluator struct {
	thresholds config.ProtectionThresholds
}

// NewProtectionEvaluator creates the protection evaluator.
func NewProtectionEvaluator(policy *config.Policy) *ProtectionEvaluator {
	return &ProtectionEvaluator{thresholds: policy.Thresholds.Protection}
}

func (e *ProtectionEvaluator) Name() string              { return "protection" }
func (e *ProtectionEvaluator) Category() models.Category { return models.CategoryProtection }

func (e *ProtectionEvaluator) Evaluate(uc *models.UserContext) []models.Candidate {
	p := uc.Protection
	if p == nil {
		return nil
	}

	var out []models.Candidate

	gap := p.RecommendedLifeCover.Sub(p.LifeCover)
	if uc.Profile.Dependents > 0 && gap.Float64() >= e.thresholds.MinCoverGap {
		out = append(out, models.Candidate{
			Category:       models.CategoryProtection,
			Type:           TypeIncreaseLifeCover,
			Priority:       models.PriorityHigh,
			Title:          "Increase your life cover",
			ActionRequired: "Obtain quotes for additional life insurance cover",
			Urgency:        90,
			Impact:         95,
			Benefit: models.Benefit{
				Kind:   models.BenefitRiskMitigation,
				Amount: gap,
			},
			Reasons: []string{
				fmt.Sprintf("Current life cover is %s", p.LifeCover),
				fmt.Sprintf("Recommended cover for your situation is %s", p.RecommendedLifeCover),
				fmt.Sprintf("You have %d financial dependents", uc.Profile.Dependents),
			},
		})
	}

	if !p.HasIncomeProtection && uc.Profile.AnnualIncome.IsPositive() {
		out = append(out, models.Candidate{
			Category:       models.CategoryProtection,
			Type:           TypeAddIncomeProtection,
			Priority:       models.PriorityHigh,
			Title:          "Add income protection insurance",
			ActionRequired: "Compare income protection policies covering your salary",
			Urgency:        80,
			Impact:         85,
			Benefit: models.Benefit{
				Kind:   models.BenefitFinancialResilience,
				Amount: models.NewMoney(uc.Profile.AnnualIncome.Amount.Mul(decimal.NewFromFloat(e.thresholds.IncomeProtectionShare)), uc.Profile.AnnualIncome.Currency),
			},
			Reasons: []string{
				"You have no income protection in place",
				fmt.Sprintf("Your income of %s would stop if you were unable to work", uc.Profile.AnnualIncome),
			},
		})
	}

	if !p.HasCriticalIllnessCover && uc.Profile.Dependents > 0 {
		out = append(out, models.Candidate{
			Category:       models.CategoryProtection,
			Type:           TypeAddCriticalIllnessCover,
			Priority:       models.PriorityMedium,
			Title:          "Consider critical illness cover",
			ActionRequired: "Review critical illness policies alongside your life cover",
			Urgency:        55,
			Impact:         70,
			Benefit: models.Benefit{
				Kind:   models.BenefitRiskMitigation,
				Amount: uc.Profile.AnnualIncome,
			},
			Reasons: []string{
				"You have no critical illness cover",
				fmt.Sprintf("You have %d financial dependents", uc.Profile.Dependents),
			},
		})
	}

	return out
}
