package services

import (
	"github.com/meridianfp/advisor-engine/pkg/config"
	"github.com/meridianfp/advisor-engine/pkg/models"
)

// Score weights are part of the scoring contract, not tunable policy:
// impact dominates urgency 60/40.
const (
	urgencyWeight = 0.4
	impactWeight  = 0.6
)

// Scorer assigns each candidate a composite rank score from urgency,
// impact, estimated benefit, and the user's historical acceptance rate
// for the category. Score is a pure function: identical inputs always
// produce identical output.
type Scorer struct {
	policy *config.Policy
}

// NewScorer creates a Scorer.
func NewScorer(policy *config.Policy) *Scorer {
	return &Scorer{policy: policy}
}

// Score computes composite scores for every candidate. The intermediate
// components are retained on each ScoredCandidate for explainability.
func (s *Scorer) Score(candidates []models.ScoredCandidate, uc *models.UserContext) []models.ScoredCandidate {
	out := make([]models.ScoredCandidate, len(candidates))
	for i, c := range candidates {
		base := c.Urgency*urgencyWeight + c.Impact*impactWeight
		if uc.Profile.PrefersCategory(c.Category) {
			base *= s.policy.PreferredCategoryBoost
		}

		// Normalize the benefit magnitude against a per-kind reference
		// scale: larger benefits push the score up with diminishing
		// returns, never unboundedly.
		benefit := 0.0
		if m := c.Benefit.Amount.Float64(); m > 0 {
			benefit = m / (m + s.policy.ReferenceFor(string(c.Benefit.Kind)))
		}

		acceptance, hasHistory := uc.Behavior.AcceptanceRate(c.Category)
		if hasHistory && acceptance < s.policy.MinAcceptanceAdjustment {
			acceptance = s.policy.MinAcceptanceAdjustment
		}

		c.BaseScore = base
		c.BenefitScore = benefit
		c.AcceptanceAdjustment = acceptance
		c.FinalScore = base * (1 + benefit) * acceptance
		out[i] = c
	}
	return out
}
