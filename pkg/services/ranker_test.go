package services

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridianfp/advisor-engine/pkg/config"
	"github.com/meridianfp/advisor-engine/pkg/models"
)

func TestRanker_OrdersByScoreDescending(t *testing.T) {
	r := NewRanker(config.DefaultPolicy())

	in := []models.ScoredCandidate{
		resolverCandidate("LOW", 20, 0, 0),
		resolverCandidate("HIGH", 95, 1, 0),
		resolverCandidate("MID", 60, 2, 0),
	}

	out := r.Rank(in)
	require.Len(t, out, 3)
	assert.Equal(t, "HIGH", out[0].Type)
	assert.Equal(t, "MID", out[1].Type)
	assert.Equal(t, "LOW", out[2].Type)
}

func TestRanker_EnforcesCap(t *testing.T) {
	policy := config.DefaultPolicy()
	policy.MaxActive = 20
	r := NewRanker(policy)

	in := make([]models.ScoredCandidate, 25)
	for i := range in {
		in[i] = resolverCandidate(fmt.Sprintf("TYPE_%d", i), float64(i), 0, i)
	}

	out := r.Rank(in)
	require.Len(t, out, 20)
	// The 5 lowest-scored candidates are the ones cut.
	for _, c := range out {
		assert.GreaterOrEqual(t, c.FinalScore, 5.0)
	}
}

func TestRanker_DeterministicTieBreak(t *testing.T) {
	r := NewRanker(config.DefaultPolicy())

	tied := []models.ScoredCandidate{
		resolverCandidate("E0_FIRST", 80, 0, 0),
		resolverCandidate("E0_SECOND", 80, 0, 1),
		resolverCandidate("E1_FIRST", 80, 1, 0),
		resolverCandidate("E2_FIRST", 80, 2, 0),
	}

	// Any input permutation must produce the same output order.
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 10; i++ {
		in := make([]models.ScoredCandidate, len(tied))
		copy(in, tied)
		rng.Shuffle(len(in), func(a, b int) { in[a], in[b] = in[b], in[a] })

		out := r.Rank(in)
		require.Len(t, out, 4)
		assert.Equal(t, "E0_FIRST", out[0].Type)
		assert.Equal(t, "E0_SECOND", out[1].Type)
		assert.Equal(t, "E1_FIRST", out[2].Type)
		assert.Equal(t, "E2_FIRST", out[3].Type)
	}
}

func TestRanker_UnderCapKeepsAll(t *testing.T) {
	r := NewRanker(config.DefaultPolicy())

	in := []models.ScoredCandidate{
		resolverCandidate("ONLY", 50, 0, 0),
	}
	assert.Len(t, r.Rank(in), 1)
	assert.Empty(t, r.Rank(nil))
}
