package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/meridianfp/advisor-engine/pkg/adapters"
	"github.com/meridianfp/advisor-engine/pkg/apperrors"
	"github.com/meridianfp/advisor-engine/pkg/models"
)

// ContextBuilder assembles a point-in-time snapshot of a user's
// financial state from the module adapters.
type ContextBuilder interface {
	// Build returns an immutable UserContext for the user. A section
	// whose module cannot be read is marked unavailable rather than
	// defaulted; if every section is unavailable the build fails with
	// ErrUpstreamUnavailable. A missing user fails with ErrNotFound.
	Build(ctx context.Context, userID uuid.UUID) (*models.UserContext, error)
}

type contextBuilder struct {
	modules adapters.Modules
	timeout time.Duration
	logger  *zap.Logger
}

// NewContextBuilder creates a ContextBuilder. timeout bounds each
// upstream module read.
func NewContextBuilder(modules adapters.Modules, timeout time.Duration, logger *zap.Logger) ContextBuilder {
	return &contextBuilder{
		modules: modules,
		timeout: timeout,
		logger:  logger,
	}
}

var _ ContextBuilder = (*contextBuilder)(nil)

func (b *contextBuilder) Build(ctx context.Context, userID uuid.UUID) (*models.UserContext, error) {
	// The profile is the spine of the snapshot: without it there is no
	// user, so its failure fails the whole build.
	profile, err := b.readProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	uc := &models.UserContext{
		UserID:      userID,
		GeneratedAt: time.Now().UTC(),
		Profile:     *profile,
	}

	// Sections are independent and read concurrently; a failed read
	// leaves its section nil (unavailable) and never aborts the others.
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		uc.Protection = readSection(b, gctx, userID, "protection", b.modules.Protection.GetProtection)
		return nil
	})
	g.Go(func() error {
		uc.Savings = readSection(b, gctx, userID, "savings", b.modules.Savings.GetSavings)
		return nil
	})
	g.Go(func() error {
		uc.Investment = readSection(b, gctx, userID, "investment", b.modules.Investment.GetInvestment)
		return nil
	})
	g.Go(func() error {
		uc.Retirement = readSection(b, gctx, userID, "retirement", b.modules.Retirement.GetRetirement)
		return nil
	})
	g.Go(func() error {
		uc.Tax = readSection(b, gctx, userID, "tax", b.modules.Tax.GetTax)
		return nil
	})
	g.Go(func() error {
		uc.Estate = readSection(b, gctx, userID, "estate", b.modules.Estate.GetEstate)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if uc.AvailableSections() == 0 {
		return nil, fmt.Errorf("%w: no financial module could be read for user %s",
			apperrors.ErrUpstreamUnavailable, userID)
	}

	// Behavioral stats are best-effort: a user without readable history
	// is simply treated as having none.
	if stats := readSection(b, ctx, userID, "behavior", b.modules.Behavior.GetBehaviorStats); stats != nil {
		uc.Behavior = *stats
	}

	return uc, nil
}

func (b *contextBuilder) readProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	rctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	profile, err := b.modules.Profile.GetProfile(rctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: user %s", apperrors.ErrNotFound, userID)
		}
		return nil, fmt.Errorf("%w: profile for user %s", apperrors.ErrUpstreamUnavailable, userID)
	}
	return profile, nil
}

// readSection reads one module section with a timeout, returning nil
// (section unavailable) on any failure. A 404 from a module means the
// user has no data there, which is also treated as unavailable: a rule
// must not fire on figures that were never recorded.
func readSection[T any](b *contextBuilder, ctx context.Context, userID uuid.UUID, name string,
	get func(context.Context, uuid.UUID) (*T, error)) *T {

	rctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	section, err := get(rctx, userID)
	if err != nil {
		b.logger.Warn("Section unavailable, skipping its rules",
			zap.String("section", name),
			zap.String("user_id", userID.String()),
			zap.Error(err))
		return nil
	}
	return section
}
