package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/meridianfp/advisor-engine/pkg/apperrors"
	"github.com/meridianfp/advisor-engine/pkg/models"
	"github.com/meridianfp/advisor-engine/pkg/repositories"
	"github.com/meridianfp/advisor-engine/pkg/services/evaluators"
)

// RecommendationService is the public surface of the engine: it runs
// the generation pipeline and manages the lifecycle of persisted
// recommendations.
type RecommendationService interface {
	// Generate runs the full pipeline for a user and atomically replaces
	// their active recommendation set. Returns ErrGenerationInProgress
	// when another run for the same user holds the generation lock.
	Generate(ctx context.Context, userID uuid.UUID) (*models.RecommendationSet, error)

	// List returns a user's recommendations, optionally filtered by
	// status, best-scored first.
	List(ctx context.Context, userID uuid.UUID, status *models.Status) ([]*models.Recommendation, error)

	// Transition applies a user action to a recommendation, enforcing
	// the lifecycle state machine. notes is stored with the audit record
	// (dismissal reason, completion note).
	Transition(ctx context.Context, recommendationID uuid.UUID, action models.ActionType, notes string) (*models.Recommendation, error)

	// History returns the user's append-only action log, newest first.
	History(ctx context.Context, userID uuid.UUID) ([]*models.UserAction, error)
}

type recommendationService struct {
	builder   ContextBuilder
	registry  *evaluators.Registry
	scorer    *Scorer
	resolver  *Resolver
	ranker    *Ranker
	explainer *Explainer
	locker    UserLocker
	recs      repositories.RecommendationRepository
	actions   repositories.UserActionRepository
	logger    *zap.Logger
}

// NewRecommendationService wires the pipeline stages together.
func NewRecommendationService(
	builder ContextBuilder,
	registry *evaluators.Registry,
	scorer *Scorer,
	resolver *Resolver,
	ranker *Ranker,
	explainer *Explainer,
	locker UserLocker,
	recs repositories.RecommendationRepository,
	actions repositories.UserActionRepository,
	logger *zap.Logger,
) RecommendationService {
	return &recommendationService{
		builder:   builder,
		registry:  registry,
		scorer:    scorer,
		resolver:  resolver,
		ranker:    ranker,
		explainer: explainer,
		locker:    locker,
		recs:      recs,
		actions:   actions,
		logger:    logger,
	}
}

var _ RecommendationService = (*recommendationService)(nil)

func (s *recommendationService) Generate(ctx context.Context, userID uuid.UUID) (*models.RecommendationSet, error) {
	release, acquired, err := s.locker.TryLock(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire generation lock: %w", err)
	}
	if !acquired {
		return nil, fmt.Errorf("%w: user %s", apperrors.ErrGenerationInProgress, userID)
	}
	defer release()

	start := time.Now()

	uc, err := s.builder.Build(ctx, userID)
	if err != nil {
		return nil, err
	}

	scored, err := s.evaluate(ctx, uc)
	if err != nil {
		return nil, err
	}

	scored = s.scorer.Score(scored, uc)

	recent, err := s.actions.LatestTerminalByType(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent activity: %w", err)
	}

	now := uc.GeneratedAt
	resolved := s.resolver.Filter(scored, recent, now)
	ranked := s.ranker.Rank(resolved)
	recs := s.explainer.Explain(ranked, userID, now)

	if err := s.recs.ReplaceActiveSet(ctx, userID, recs); err != nil {
		return nil, fmt.Errorf("failed to persist recommendation set: %w", err)
	}

	s.logger.Info("Generated recommendation set",
		zap.String("user_id", userID.String()),
		zap.Int("candidates", len(scored)),
		zap.Int("recommendations", len(recs)),
		zap.Duration("duration", time.Since(start)))

	return s.assembleSet(uc, recs), nil
}

// evaluate fans the context out across all registered evaluators.
// Evaluators are pure so they run concurrently, but ordering metadata
// is fixed up front: each candidate carries its evaluator's
// registration index and its emission position, never anything derived
// from completion order. A panicking evaluator fails this one run; the
// recover here is what keeps a bad context from taking the process down
// with it.
func (s *recommendationService) evaluate(ctx context.Context, uc *models.UserContext) ([]models.ScoredCandidate, error) {
	evs := s.registry.Evaluators()
	perEvaluator := make([][]models.ScoredCandidate, len(evs))
	failures := make([]error, len(evs))

	var wg sync.WaitGroup
	for i, ev := range evs {
		wg.Add(1)
		go func(idx int, ev evaluators.Evaluator) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					failures[idx] = fmt.Errorf("evaluator %s panicked: %v", ev.Name(), r)
				}
			}()
			candidates := ev.Evaluate(uc)
			scored := make([]models.ScoredCandidate, len(candidates))
			for j, c := range candidates {
				scored[j] = models.ScoredCandidate{
					Candidate:      c,
					EvaluatorIndex: idx,
					EmissionIndex:  j,
				}
			}
			perEvaluator[idx] = scored
		}(i, ev)
	}
	wg.Wait()

	for _, ferr := range failures {
		if ferr != nil {
			s.logger.Error("Evaluator failed during generation",
				zap.String("user_id", uc.UserID.String()),
				zap.Error(ferr))
			return nil, ferr
		}
	}

	var all []models.ScoredCandidate
	for _, batch := range perEvaluator {
		all = append(all, batch...)
	}
	return all, nil
}

func (s *recommendationService) assembleSet(uc *models.UserContext, recs []*models.Recommendation) *models.RecommendationSet {
	total := models.ZeroGBP()
	for _, r := range recs {
		if r.Benefit.Amount.Currency == total.Currency {
			total = total.Add(r.Benefit.Amount)
		}
	}

	return &models.RecommendationSet{
		UserID:                uc.UserID,
		Recommendations:       recs,
		TotalPotentialBenefit: total,
		ContextSummary:        uc.SectionAvailability(),
		GeneratedAt:           uc.GeneratedAt,
	}
}

func (s *recommendationService) List(ctx context.Context, userID uuid.UUID, status *models.Status) ([]*models.Recommendation, error) {
	return s.recs.ListByUser(ctx, userID, status)
}

func (s *recommendationService) Transition(ctx context.Context, recommendationID uuid.UUID, action models.ActionType, notes string) (*models.Recommendation, error) {
	rec, err := s.recs.GetByID(ctx, recommendationID)
	if err != nil {
		return nil, err
	}

	target := models.StatusForAction(action)
	if !rec.Status.CanTransitionTo(target) {
		return nil, fmt.Errorf("%w: %s -> %s", apperrors.ErrInvalidTransition, rec.Status, target)
	}

	now := time.Now().UTC()
	rec.Status = target
	rec.UpdatedAt = now
	switch target {
	case models.StatusCompleted:
		rec.CompletedAt = &now
	case models.StatusDismissed:
		rec.DismissedAt = &now
		if notes != "" {
			rec.DismissalReason = &notes
		}
	}

	userAction := &models.UserAction{
		ID:               uuid.New(),
		RecommendationID: rec.ID,
		UserID:           rec.UserID,
		Action:           action,
		Notes:            notes,
		CreatedAt:        now,
	}

	if err := s.recs.Transition(ctx, rec, userAction); err != nil {
		return nil, err
	}

	s.logger.Info("Recommendation transitioned",
		zap.String("recommendation_id", rec.ID.String()),
		zap.String("user_id", rec.UserID.String()),
		zap.String("action", string(action)),
		zap.String("status", string(rec.Status)))

	return rec, nil
}

func (s *recommendationService) History(ctx context.Context, userID uuid.UUID) ([]*models.UserAction, error) {
	return s.actions.ListByUser(ctx, userID)
}

// RecalculateMany regenerates recommendation sets for a batch of users
// with bounded parallelism. Per-user failures are collected, not fatal:
// one bad upstream must not sink the batch.
func RecalculateMany(ctx context.Context, svc RecommendationService, userIDs []uuid.UUID, parallelism int, logger *zap.Logger) map[uuid.UUID]error {
	if parallelism < 1 {
		parallelism = 1
	}

	var mu sync.Mutex
	failures := make(map[uuid.UUID]error)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallelism)
	for _, id := range userIDs {
		g.Go(func() error {
			if _, err := svc.Generate(gctx, id); err != nil {
				logger.Warn("Batch recalculation failed for user",
					zap.String("user_id", id.String()),
					zap.Error(err))
				mu.Lock()
				failures[id] = err
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	return failures
}
