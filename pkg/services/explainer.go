package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/meridianfp/advisor-engine/pkg/models"
)

// descriptionTemplates render the one-line explanation per
// recommendation type. The %s verb receives the benefit phrase.
var descriptionTemplates = map[string]string{
	"INCREASE_LIFE_COVER":             "Your life cover falls short of what your dependents would need. Closing the gap provides %s.",
	"ADD_INCOME_PROTECTION":           "Income protection replaces part of your salary if you cannot work, giving you %s.",
	"ADD_CRITICAL_ILLNESS_COVER":      "Critical illness cover pays a lump sum on serious diagnosis, providing %s.",
	"USE_ISA_ALLOWANCE":               "Money moved into your ISA before the deadline grows tax-free, securing %s.",
	"BUILD_EMERGENCY_FUND":            "An emergency fund keeps a setback from becoming a crisis, adding %s.",
	"REDUCE_CONCENTRATION_RISK":       "Spreading your largest position across more holdings delivers %s.",
	"HARVEST_CAPITAL_GAINS":           "Realizing gains within this year's exempt amount locks in %s.",
	"REBALANCE_PORTFOLIO":             "Returning to your target allocation restores %s.",
	"INCREASE_PENSION_CONTRIBUTIONS":  "Higher regular contributions close the gap to your retirement target, worth %s.",
	"USE_PENSION_ANNUAL_ALLOWANCE":    "A one-off contribution before the tax-year end captures %s.",
	"REDUCE_PENSION_FOR_TAPER":        "Keeping contributions inside your tapered allowance avoids a charge, preserving %s.",
	"CLAIM_HIGHER_RATE_RELIEF":        "A self-assessment claim recovers relief your scheme cannot, returning %s.",
	"USE_MARRIAGE_ALLOWANCE":          "Transferring unused personal allowance between spouses yields %s.",
	"MITIGATE_IHT_LIABILITY":          "Estate planning now can reduce or remove the projected charge, protecting %s.",
	"USE_ANNUAL_GIFT_EXEMPTION":       "Gifts within the annual exemption leave your estate at once, sheltering %s.",
	"SET_FINANCIAL_GOALS":             "Recorded goals let your plan and future recommendations be tailored to you.",
	"REVIEW_RISK_PROFILE":             "Aligning your equity exposure with your horizon delivers %s.",
}

var benefitPhrases = map[models.BenefitKind]string{
	models.BenefitRiskMitigation:      "an estimated %s of additional cover",
	models.BenefitTaxSaving:           "an estimated tax saving of %s",
	models.BenefitTaxRelief:           "an estimated %s of tax relief",
	models.BenefitTaxExemption:        "an estimated %s sheltered from tax",
	models.BenefitRetirementAdequacy:  "an estimated %s toward your retirement target",
	models.BenefitFinancialResilience: "an estimated %s of financial resilience",
	models.BenefitRiskReduction:       "an estimated %s of reduced risk exposure",
	models.BenefitFlexibility:         "greater financial flexibility",
}

// Explainer turns ranked candidates into recommendation records with
// human-readable reasoning. It never alters scores or ordering, and a
// missing template degrades to a generic explanation rather than
// dropping the candidate: losing a valid recommendation to a formatting
// gap is the worse failure.
type Explainer struct {
	logger *zap.Logger
}

// NewExplainer creates an Explainer.
func NewExplainer(logger *zap.Logger) *Explainer {
	return &Explainer{logger: logger}
}

// Explain materializes recommendation records for the ranked set.
func (e *Explainer) Explain(ranked []models.ScoredCandidate, userID uuid.UUID, generatedAt time.Time) []*models.Recommendation {
	recs := make([]*models.Recommendation, 0, len(ranked))
	for _, c := range ranked {
		rec := &models.Recommendation{
			ID:             uuid.New(),
			UserID:         userID,
			Category:       c.Category,
			Type:           c.Type,
			Priority:       c.Priority,
			Title:          c.Title,
			Description:    e.describe(c),
			Reasons:        c.Reasons,
			Benefit:        c.Benefit,
			ActionRequired: c.ActionRequired,
			Deadline:       c.Deadline,
			Urgency:        c.Urgency,
			Impact:         c.Impact,
			Score:          c.FinalScore,
			Status:         models.StatusNew,
			GeneratedAt:    generatedAt,
			ExpiresAt:      c.Deadline,
			UpdatedAt:      generatedAt,
		}
		recs = append(recs, rec)
	}
	return recs
}

func (e *Explainer) describe(c models.ScoredCandidate) string {
	tmpl, ok := descriptionTemplates[c.Type]
	if !ok {
		e.logger.Warn("No description template for recommendation type, using generic text",
			zap.String("type", c.Type))
		return genericDescription(c)
	}

	// Templates without a benefit slot stand on their own.
	if !strings.Contains(tmpl, "%s") {
		return tmpl
	}

	phrase, ok := benefitPhrases[c.Benefit.Kind]
	if !ok {
		e.logger.Warn("No benefit phrase for kind, using generic text",
			zap.String("kind", string(c.Benefit.Kind)))
		return genericDescription(c)
	}
	if strings.Contains(phrase, "%s") {
		phrase = fmt.Sprintf(phrase, c.Benefit.Amount)
	}
	return fmt.Sprintf(tmpl, phrase)
}

func genericDescription(c models.ScoredCandidate) string {
	return fmt.Sprintf("We recommend: %s. Review the reasons below for how this was identified.", c.Title)
}
