package evaluators

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/meridianfp/advisor-engine/pkg/config"
	"github.com/meridianfp/advisor-engine/pkg/models"
)

// Recommendation types emitted by the investment evaluator.
const (
	TypeReduceConcentrationRisk = "REDUCE_CONCENTRATION_RISK"
	TypeHarvestCapitalGains     = "HARVEST_CAPITAL_GAINS"
	TypeRebalancePortfolio      = "REBALANCE_PORTFOLIO"
)

// InvestmentEvaluator flags concentration risk, unused capital gains
// exemption, and allocation drift.
type InvestmentEvaluator struct {
	thresholds config.InvestmentThresholds
	deadline   config.DeadlinePolicy
}

// NewInvestmentEvaluator creates the investment evaluator.
func NewInvestmentEvaluator(policy *config.Policy) *InvestmentEvaluator {
	return &InvestmentEvaluator{
		thresholds: policy.Thresholds.Investment,
		deadline:   policy.Deadline,
	}
}

func (e *InvestmentEvaluator) Name() string              { return "investment" }
func (e *InvestmentEvaluator) Category() models.Category { return models.CategoryInvestment }

func (e *InvestmentEvaluator) Evaluate(uc *models.UserContext) []models.Candidate {
	inv := uc.Investment
	if inv == nil {
		return nil
	}

	var out []models.Candidate

	if inv.LargestHoldingShare > e.thresholds.ConcentrationShare && inv.TotalValue.IsPositive() {
		excess := inv.LargestHoldingShare - e.thresholds.ConcentrationShare
		priority := models.PriorityMedium
		if inv.LargestHoldingShare > e.thresholds.HighConcentrationShare {
			priority = models.PriorityHigh
		}

		out = append(out, models.Candidate{
			Category:       models.CategoryInvestment,
			Type:           TypeReduceConcentrationRisk,
			Priority:       priority,
			Title:          "Reduce concentration in your largest holding",
			ActionRequired: "Diversify out of your largest position gradually",
			Urgency:        65,
			Impact:         80,
			Benefit: models.Benefit{
				Kind:   models.BenefitRiskReduction,
				Amount: models.NewMoney(inv.TotalValue.Amount.Mul(decimal.NewFromFloat(excess)), inv.TotalValue.Currency),
			},
			Reasons: []string{
				fmt.Sprintf("Your largest holding is %.0f%% of the portfolio", inv.LargestHoldingShare*100),
				fmt.Sprintf("Holdings above %.0f%% expose you to single-asset risk", e.thresholds.ConcentrationShare*100),
			},
		})
	}

	if inv.UnrealizedGains.Float64() > e.thresholds.CGTExemptAmount {
		yearEnd := taxYearEnd(uc.GeneratedAt)
		days := daysUntil(uc.GeneratedAt, yearEnd)
		saving := decimal.NewFromFloat(e.thresholds.CGTExemptAmount).Mul(decimal.NewFromFloat(e.thresholds.CGTRate))

		out = append(out, models.Candidate{
			Category:       models.CategoryInvestment,
			Type:           TypeHarvestCapitalGains,
			Priority:       models.PriorityMedium,
			Title:          "Realize gains within your CGT exemption",
			ActionRequired: "Sell and rebuy holdings to use this year's exempt amount",
			Deadline:       &yearEnd,
			Urgency:        e.deadline.Urgency(days),
			Impact:         60,
			Benefit: models.Benefit{
				Kind:   models.BenefitTaxExemption,
				Amount: models.NewMoney(saving, inv.UnrealizedGains.Currency),
			},
			Reasons: []string{
				fmt.Sprintf("You hold %s of unrealized gains", inv.UnrealizedGains),
				fmt.Sprintf("Up to %s of gains can be realized tax-free this year", models.GBP(e.thresholds.CGTExemptAmount)),
			},
		})
	}

	if inv.AllocationDrift > e.thresholds.DriftShare && inv.TotalValue.IsPositive() {
		out = append(out, models.Candidate{
			Category:       models.CategoryInvestment,
			Type:           TypeRebalancePortfolio,
			Priority:       models.PriorityMedium,
			Title:          "Rebalance your portfolio",
			ActionRequired: "Bring your allocation back to its target weights",
			Urgency:        50,
			Impact:         65,
			Benefit: models.Benefit{
				Kind:   models.BenefitRiskReduction,
				Amount: models.NewMoney(inv.TotalValue.Amount.Mul(decimal.NewFromFloat(inv.AllocationDrift)), inv.TotalValue.Currency),
			},
			Reasons: []string{
				fmt.Sprintf("Your allocation has drifted %.0f%% from target", inv.AllocationDrift*100),
			},
		})
	}

	return out
}
