package services

import (
	"sort"
	"time"

	"github.com/meridianfp/advisor-engine/pkg/config"
	"github.com/meridianfp/advisor-engine/pkg/models"
)

// Resolver deduplicates and resolves conflicts between scored
// candidates. It is a greedy, single pass in descending score order:
// once a candidate is rejected it is never reconsidered, even if a
// later conflict check would have favored it. Favoring the highest
// score at each step is a deliberate, tested policy decision.
type Resolver struct {
	policy *config.Policy
}

// NewResolver creates a Resolver.
func NewResolver(policy *config.Policy) *Resolver {
	return &Resolver{policy: policy}
}

// Filter keeps a candidate only if no earlier-kept candidate shares its
// type, none conflicts with it, and its type is not inside a cool-down
// window from a recent terminal action. recent maps recommendation type
// to its latest terminal action.
func (r *Resolver) Filter(scored []models.ScoredCandidate, recent map[string]models.TypeActivity, now time.Time) []models.ScoredCandidate {
	ordered := make([]models.ScoredCandidate, len(scored))
	copy(ordered, scored)
	sort.SliceStable(ordered, func(i, j int) bool {
		return rankLess(ordered[i], ordered[j])
	})

	seen := make(map[string]bool, len(ordered))
	var kept []models.ScoredCandidate

	for _, c := range ordered {
		if seen[c.Type] {
			continue
		}
		if r.conflictsWithKept(c, kept) {
			continue
		}
		if r.inCooldown(c.Type, recent, now) {
			continue
		}
		seen[c.Type] = true
		kept = append(kept, c)
	}

	return kept
}

func (r *Resolver) conflictsWithKept(c models.ScoredCandidate, kept []models.ScoredCandidate) bool {
	for _, k := range kept {
		if r.policy.ConflictsWith(c.Type, k.Type) {
			return true
		}
	}
	return false
}

// inCooldown suppresses types the user recently completed or dismissed.
func (r *Resolver) inCooldown(recType string, recent map[string]models.TypeActivity, now time.Time) bool {
	activity, ok := recent[recType]
	if !ok {
		return false
	}

	var window time.Duration
	switch activity.Action {
	case models.ActionCompleted:
		window = time.Duration(r.policy.CompletedCooldownDays) * 24 * time.Hour
	case models.ActionDismissed:
		window = time.Duration(r.policy.DismissedCooldownDays) * 24 * time.Hour
	default:
		return false
	}

	return now.Sub(activity.OccurredAt) < window
}

// rankLess is the single ordering used by both the resolver and the
// ranker: final score descending, ties broken by evaluator registration
// index and then per-evaluator emission order. The tie-break never
// depends on evaluator completion time, keeping output deterministic.
func rankLess(a, b models.ScoredCandidate) bool {
	if a.FinalScore != b.FinalScore {
		return a.FinalScore > b.FinalScore
	}
	if a.EvaluatorIndex != b.EvaluatorIndex {
		return a.EvaluatorIndex < b.EvaluatorIndex
	}
	return a.EmissionIndex < b.EmissionIndex
}
