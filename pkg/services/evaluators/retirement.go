package evaluators

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/meridianfp/advisor-engine/pkg/config"
	"github.com/meridianfp/advisor-engine/pkg/models"
)

// Recommendation types emitted by the retirement evaluator.
const (
	TypeIncreasePensionContributions = "INCREASE_PENSION_CONTRIBUTIONS"
	TypeUsePensionAnnualAllowance    = "USE_PENSION_ANNUAL_ALLOWANCE"
	TypeReducePensionForTaper        = "REDUCE_PENSION_FOR_TAPER"
)

// RetirementEvaluator flags pots behind their target, unused annual
// allowance, and contributions at risk of the tapered allowance charge.
type RetirementEvaluator struct {
	thresholds config.RetirementThresholds
	deadline   config.DeadlinePolicy
	basicRate  float64
}

// NewRetirementEvaluator creates the retirement evaluator.
func NewRetirementEvaluator(policy *config.Policy) *RetirementEvaluator {
	return &RetirementEvaluator{
		thresholds: policy.Thresholds.Retirement,
		deadline:   policy.Deadline,
		basicRate:  policy.Thresholds.Tax.BasicRate,
	}
}

func (e *RetirementEvaluator) Name() string              { return "retirement" }
func (e *RetirementEvaluator) Category() models.Category { return models.CategoryRetirement }

func (e *RetirementEvaluator) Evaluate(uc *models.UserContext) []models.Candidate {
	r := uc.Retirement
	if r == nil {
		return nil
	}

	var out []models.Candidate
	overTaper := r.AdjustedIncome.Float64() > e.thresholds.TaperIncomeThreshold

	if r.TargetPotValue.IsPositive() {
		adequate := r.TargetPotValue.Amount.Mul(decimal.NewFromFloat(1 - e.thresholds.AdequacyShortfallShare))
		if r.PotValue.Amount.LessThan(adequate) && !overTaper {
			shortfall := r.TargetPotValue.Sub(r.PotValue)
			out = append(out, models.Candidate{
				Category:       models.CategoryRetirement,
				Type:           TypeIncreasePensionContributions,
				Priority:       models.PriorityHigh,
				Title:          "Increase your pension contributions",
				ActionRequired: "Raise your regular pension contribution rate",
				Urgency:        70,
				Impact:         90,
				Benefit: models.Benefit{
					Kind:   models.BenefitRetirementAdequacy,
					Amount: shortfall,
				},
				Reasons: []string{
					fmt.Sprintf("Your pension pot is %s", r.PotValue),
					fmt.Sprintf("Your target for retirement at your age is %s", r.TargetPotValue),
				},
			})
		}
	}

	remaining := r.AnnualAllowance.Sub(r.AllowanceUsed)
	if remaining.Float64() >= e.thresholds.MinAllowanceRemaining && !overTaper {
		yearEnd := taxYearEnd(uc.GeneratedAt)
		days := daysUntil(uc.GeneratedAt, yearEnd)

		relief := remaining.Amount.Mul(e.marginalRate(uc))
		out = append(out, models.Candidate{
			Category:       models.CategoryRetirement,
			Type:           TypeUsePensionAnnualAllowance,
			Priority:       models.PriorityMedium,
			Title:          "Use your pension annual allowance",
			ActionRequired: "Make a one-off pension contribution before the tax-year end",
			Deadline:       &yearEnd,
			Urgency:        e.deadline.Urgency(days),
			Impact:         80,
			Benefit: models.Benefit{
				Kind:   models.BenefitTaxRelief,
				Amount: models.NewMoney(relief, remaining.Currency),
			},
			Reasons: []string{
				fmt.Sprintf("You have %s of unused pension annual allowance", remaining),
				"Contributions attract tax relief at your marginal rate",
			},
		})
	}

	if overTaper && r.AnnualContrib.IsPositive() {
		out = append(out, models.Candidate{
			Category:       models.CategoryRetirement,
			Type:           TypeReducePensionForTaper,
			Priority:       models.PriorityHigh,
			Title:          "Review contributions against the tapered allowance",
			ActionRequired: "Check whether your contributions exceed your tapered annual allowance",
			Urgency:        75,
			Impact:         70,
			Benefit: models.Benefit{
				Kind:   models.BenefitTaxSaving,
				Amount: models.NewMoney(r.AnnualContrib.Amount.Mul(decimal.NewFromFloat(e.thresholds.TaperMarginalRate)), r.AnnualContrib.Currency),
			},
			Reasons: []string{
				fmt.Sprintf("Your adjusted income of %s is above the taper threshold", r.AdjustedIncome),
				"Contributions above a tapered allowance trigger an annual allowance charge",
			},
		})
	}

	return out
}

// marginalRate returns the user's marginal rate as a decimal
// multiplier, falling back to the configured basic rate when the tax
// section is unavailable. The fallback only affects the benefit
// estimate, never a trigger condition.
func (e *RetirementEvaluator) marginalRate(uc *models.UserContext) decimal.Decimal {
	if uc.Tax != nil && uc.Tax.MarginalRate > 0 {
		return decimal.NewFromFloat(uc.Tax.MarginalRate)
	}
	return decimal.NewFromFloat(e.basicRate)
}
