package evaluators

import (
	"fmt"

	"github.com/meridianfp/advisor-engine/pkg/config"
	"github.com/meridianfp/advisor-engine/pkg/models"
)

// Recommendation types emitted by the estate evaluator.
const (
	TypeMitigateIHTLiability   = "MITIGATE_IHT_LIABILITY"
	TypeUseAnnualGiftExemption = "USE_ANNUAL_GIFT_EXEMPTION"
)

// EstateEvaluator flags projected inheritance-tax exposure and the
// unused annual gift exemption.
type EstateEvaluator struct {
	thresholds config.EstateThresholds
	deadline   config.DeadlinePolicy
}

// NewEstateEvaluator creates the estate evaluator.
func NewEstateEvaluator(policy *config.Policy) *EstateEvaluator {
	return &EstateEvaluator{
		thresholds: policy.Thresholds.Estate,
		deadline:   policy.Deadline,
	}
}

func (e *EstateEvaluator) Name() string              { return "estate" }
func (e *EstateEvaluator) Category() models.Category { return models.CategoryEstate }

func (e *EstateEvaluator) Evaluate(uc *models.UserContext) []models.Candidate {
	est := uc.Estate
	if est == nil {
		return nil
	}

	var out []models.Candidate

	if est.IHTLiability.Float64() >= e.thresholds.MinIHTLiability {
		priority := models.PriorityHigh
		if est.IHTLiability.Float64() >= e.thresholds.CriticalIHTLiability {
			priority = models.PriorityCritical
		}

		out = append(out, models.Candidate{
			Category:       models.CategoryEstate,
			Type:           TypeMitigateIHTLiability,
			Priority:       priority,
			Title:          "Plan for your inheritance-tax liability",
			ActionRequired: "Review trusts, gifting, and life cover written in trust",
			Urgency:        60,
			Impact:         85,
			Benefit: models.Benefit{
				Kind:   models.BenefitTaxSaving,
				Amount: est.IHTLiability,
			},
			Reasons: []string{
				fmt.Sprintf("Your estate of %s has a projected IHT liability of %s", est.NetEstate, est.IHTLiability),
			},
		})

		giftRemaining := models.GBP(e.thresholds.AnnualGiftExemption).Sub(est.GiftExemptionUsed)
		if giftRemaining.IsPositive() {
			yearEnd := taxYearEnd(uc.GeneratedAt)
			days := daysUntil(uc.GeneratedAt, yearEnd)

			out = append(out, models.Candidate{
				Category:       models.CategoryEstate,
				Type:           TypeUseAnnualGiftExemption,
				Priority:       models.PriorityMedium,
				Title:          "Use your annual gift exemption",
				ActionRequired: "Gift up to the annual exemption before the tax-year end",
				Deadline:       &yearEnd,
				Urgency:        e.deadline.Urgency(days),
				Impact:         55,
				Benefit: models.Benefit{
					Kind:   models.BenefitTaxExemption,
					Amount: giftRemaining,
				},
				Reasons: []string{
					fmt.Sprintf("You have %s of this year's gift exemption unused", giftRemaining),
					"Gifts within the exemption leave your estate immediately",
				},
			})
		}
	}

	return out
}
