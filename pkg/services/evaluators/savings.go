package evaluators

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/meridianfp/advisor-engine/pkg/config"
	"github.com/meridianfp/advisor-engine/pkg/models"
)

// Recommendation types emitted by the savings evaluator.
const (
	TypeUseISAAllowance    = "USE_ISA_ALLOWANCE"
	TypeBuildEmergencyFund = "BUILD_EMERGENCY_FUND"
)

// SavingsEvaluator flags unused ISA allowance ahead of the tax-year end
// and emergency funds below the target number of months of expenses.
type SavingsEvaluator struct {
	thresholds config.SavingsThresholds
	deadline   config.DeadlinePolicy
}

// NewSavingsEvaluator creates the savings evaluator.
func NewSavingsEvaluator(policy *config.Policy) *SavingsEvaluator {
	return &SavingsEvaluator{
		thresholds: policy.Thresholds.Savings,
		deadline:   policy.Deadline,
	}
}

func (e *SavingsEvaluator) Name() string              { return "savings" }
func (e *SavingsEvaluator) Category() models.Category { return models.CategorySavings }

func (e *SavingsEvaluator) Evaluate(uc *models.UserContext) []models.Candidate {
	s := uc.Savings
	if s == nil {
		return nil
	}

	var out []models.Candidate

	remaining := s.ISAAllowance.Sub(s.ISAUsed)
	if remaining.Float64() >= e.thresholds.MinISARemaining {
		yearEnd := taxYearEnd(uc.GeneratedAt)
		days := daysUntil(uc.GeneratedAt, yearEnd)

		priority := models.PriorityMedium
		if days < 60 {
			priority = models.PriorityHigh
		}

		out = append(out, models.Candidate{
			Category:       models.CategorySavings,
			Type:           TypeUseISAAllowance,
			Priority:       priority,
			Title:          "Use your remaining ISA allowance",
			ActionRequired: "Move savings into your ISA before the tax-year end",
			Deadline:       &yearEnd,
			Urgency:        e.deadline.Urgency(days),
			Impact:         70,
			Benefit: models.Benefit{
				Kind:   models.BenefitTaxExemption,
				Amount: remaining,
			},
			Reasons: []string{
				fmt.Sprintf("You have %s of unused ISA allowance", remaining),
				fmt.Sprintf("The allowance expires in %d days and does not carry over", days),
			},
		})
	}

	if uc.Profile.MonthlyExpenses.IsPositive() {
		months, _ := s.TotalBalance.Amount.Div(uc.Profile.MonthlyExpenses.Amount).Float64()
		if months < e.thresholds.EmergencyFundMonths {
			target := models.NewMoney(
				uc.Profile.MonthlyExpenses.Amount.Mul(decimal.NewFromFloat(e.thresholds.EmergencyFundMonths)),
				uc.Profile.MonthlyExpenses.Currency,
			)
			shortfall := target.Sub(s.TotalBalance)

			urgency := 60.0
			switch {
			case months < 1:
				urgency = 85
			case months < 2:
				urgency = 70
			}

			out = append(out, models.Candidate{
				Category:       models.CategorySavings,
				Type:           TypeBuildEmergencyFund,
				Priority:       models.PriorityHigh,
				Title:          "Build up your emergency fund",
				ActionRequired: "Set up a regular transfer into accessible savings",
				Urgency:        urgency,
				Impact:         75,
				Benefit: models.Benefit{
					Kind:   models.BenefitFinancialResilience,
					Amount: shortfall,
				},
				Reasons: []string{
					fmt.Sprintf("Your accessible savings cover %.1f months of expenses", months),
					fmt.Sprintf("The target is %.0f months (%s)", e.thresholds.EmergencyFundMonths, target),
				},
			})
		}
	}

	return out
}
