// Package evaluators holds the per-domain rule evaluators that inspect
// a user context and propose candidate recommendations. Evaluators are
// pure: no I/O, no randomness, and absence of a trigger condition is
// normal control flow (an empty candidate list), never an error.
// Numeric thresholds are policy data injected from configuration.
package evaluators

import (
	"time"

	"github.com/meridianfp/advisor-engine/pkg/config"
	"github.com/meridianfp/advisor-engine/pkg/models"
)

// Evaluator proposes zero or more candidates for one financial domain.
// Implementations must be deterministic for a given context and must
// skip (emit nothing) when their section of the context is unavailable.
type Evaluator interface {
	Name() string
	Category() models.Category
	Evaluate(uc *models.UserContext) []models.Candidate
}

// Registry is the fixed, ordered set of evaluators. Registration order
// is the deterministic tie-break key for equal-score candidates, so the
// order here must never depend on runtime conditions.
type Registry struct {
	evaluators []Evaluator
}

// NewRegistry builds the standard registry in its canonical order.
func NewRegistry(policy *config.Policy) *Registry {
	return &Registry{
		evaluators: []Evaluator{
			NewProtectionEvaluator(policy),
			NewSavingsEvaluator(policy),
			NewInvestmentEvaluator(policy),
			NewRetirementEvaluator(policy),
			NewTaxEvaluator(policy),
			NewEstateEvaluator(policy),
			NewCrossCuttingEvaluator(policy),
		},
	}
}

// Evaluators returns the registered evaluators in registration order.
func (r *Registry) Evaluators() []Evaluator {
	return r.evaluators
}

// taxYearEnd returns the end of the UK tax year (5 April) that the
// given instant falls in.
func taxYearEnd(t time.Time) time.Time {
	end := time.Date(t.Year(), time.April, 5, 23, 59, 59, 0, time.UTC)
	if t.After(end) {
		end = end.AddDate(1, 0, 0)
	}
	return end
}

// daysUntil returns whole days from now until deadline, never negative.
func daysUntil(now, deadline time.Time) int {
	d := int(deadline.Sub(now).Hours() / 24)
	if d < 0 {
		return 0
	}
	return d
}
