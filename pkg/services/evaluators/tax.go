package evaluators

import (
	"fmt"

	"github.com/meridianfp/advisor-engine/pkg/config"
	"github.com/meridianfp/advisor-engine/pkg/models"
)

// Recommendation types emitted by the tax evaluator.
const (
	TypeClaimHigherRateRelief = "CLAIM_HIGHER_RATE_RELIEF"
	TypeUseMarriageAllowance  = "USE_MARRIAGE_ALLOWANCE"
)

// TaxEvaluator flags unclaimed higher-rate pension relief and an unused
// marriage allowance transfer.
type TaxEvaluator struct {
	thresholds config.TaxThresholds
}

// NewTaxEvaluator creates the tax evaluator.
func NewTaxEvaluator(policy *config.Policy) *TaxEvaluator {
	return &TaxEvaluator{thresholds: policy.Thresholds.Tax}
}

func (e *TaxEvaluator) Name() string              { return "tax" }
func (e *TaxEvaluator) Category() models.Category { return models.CategoryTax }

func (e *TaxEvaluator) Evaluate(uc *models.UserContext) []models.Candidate {
	t := uc.Tax
	if t == nil || !t.UKResident {
		return nil
	}

	var out []models.Candidate

	if t.MarginalRate >= e.thresholds.HigherRate && t.PensionReliefUnclaimed.Float64() >= e.thresholds.MinUnclaimedRelief {
		out = append(out, models.Candidate{
			Category:       models.CategoryTax,
			Type:           TypeClaimHigherRateRelief,
			Priority:       models.PriorityHigh,
			Title:          "Claim your higher-rate pension tax relief",
			ActionRequired: "Claim the additional relief via self-assessment",
			Urgency:        65,
			Impact:         75,
			Benefit: models.Benefit{
				Kind:   models.BenefitTaxRelief,
				Amount: t.PensionReliefUnclaimed,
			},
			Reasons: []string{
				fmt.Sprintf("You pay tax at %.0f%% but your pension scheme only reclaims basic-rate relief", t.MarginalRate*100),
				fmt.Sprintf("An estimated %s of relief is unclaimed", t.PensionReliefUnclaimed),
			},
		})
	}

	if t.Married && t.SpouseNonTaxpayer && t.MarginalRate <= e.thresholds.BasicRate {
		out = append(out, models.Candidate{
			Category:       models.CategoryTax,
			Type:           TypeUseMarriageAllowance,
			Priority:       models.PriorityLow,
			Title:          "Transfer the marriage allowance",
			ActionRequired: "Have your spouse transfer part of their personal allowance to you",
			Urgency:        40,
			Impact:         50,
			Benefit: models.Benefit{
				Kind:   models.BenefitTaxSaving,
				Amount: models.GBP(e.thresholds.MarriageAllowanceSaving),
			},
			Reasons: []string{
				"Your spouse does not use their full personal allowance",
				fmt.Sprintf("Transferring it saves about %s a year", models.GBP(e.thresholds.MarriageAllowanceSaving)),
			},
		})
	}

	return out
}
