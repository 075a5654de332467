package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/meridianfp/advisor-engine/pkg/adapters"
	"github.com/meridianfp/advisor-engine/pkg/models"
	"github.com/meridianfp/advisor-engine/pkg/repositories"
)

// storeBehaviorAdapter derives acceptance rates from the local action
// log instead of calling out to a behavior module. Wired as the default
// so generation never depends on a remote service for its own audit
// data.
type storeBehaviorAdapter struct {
	actions repositories.UserActionRepository
}

// NewStoreBehaviorAdapter creates a BehaviorAdapter backed by the
// user-action repository.
func NewStoreBehaviorAdapter(actions repositories.UserActionRepository) adapters.BehaviorAdapter {
	return &storeBehaviorAdapter{actions: actions}
}

var _ adapters.BehaviorAdapter = (*storeBehaviorAdapter)(nil)

func (a *storeBehaviorAdapter) GetBehaviorStats(ctx context.Context, userID uuid.UUID) (*models.BehaviorStats, error) {
	counts, err := a.actions.ActionCounts(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to derive behavior stats: %w", err)
	}

	rates := make(map[models.Category]float64, len(counts))
	for cat, c := range counts {
		if rate, ok := c.Rate(); ok {
			rates[cat] = rate
		}
	}
	return &models.BehaviorStats{AcceptanceRates: rates}, nil
}
