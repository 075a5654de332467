package services

import (
	"sort"

	"github.com/meridianfp/advisor-engine/pkg/config"
	"github.com/meridianfp/advisor-engine/pkg/models"
)

// Ranker sorts survivors by final score descending and truncates to the
// active-set limit. This is the sole point enforcing the cap; enforcing
// it anywhere else risks divergent truncation behavior.
type Ranker struct {
	policy *config.Policy
}

// NewRanker creates a Ranker.
func NewRanker(policy *config.Policy) *Ranker {
	return &Ranker{policy: policy}
}

// Rank orders candidates best-first and caps the result.
func (r *Ranker) Rank(candidates []models.ScoredCandidate) []models.ScoredCandidate {
	ranked := make([]models.ScoredCandidate, len(candidates))
	copy(ranked, candidates)
	sort.SliceStable(ranked, func(i, j int) bool {
		return rankLess(ranked[i], ranked[j])
	})

	if len(ranked) > r.policy.MaxActive {
		ranked = ranked[:r.policy.MaxActive]
	}
	return ranked
}
