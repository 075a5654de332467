// Package adapters defines the read-only boundary to the financial
// modules that supply raw figures for recommendation generation. Each
// adapter is a synchronous getter returning plain data; a failed read
// surfaces as apperrors.ErrUpstreamUnavailable scoped to that section.
package adapters

import (
	"context"

	"github.com/google/uuid"

	"github.com/meridianfp/advisor-engine/pkg/models"
)

// ProfileAdapter reads the user's profile, goals, and preferences.
// Returns apperrors.ErrNotFound when the user does not exist.
type ProfileAdapter interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error)
}

// ProtectionAdapter reads insurance cover aggregates.
type ProtectionAdapter interface {
	GetProtection(ctx context.Context, userID uuid.UUID) (*models.ProtectionSection, error)
}

// SavingsAdapter reads savings balances and ISA allowance usage.
type SavingsAdapter interface {
	GetSavings(ctx context.Context, userID uuid.UUID) (*models.SavingsSection, error)
}

// InvestmentAdapter reads portfolio allocation and unrealized gains.
type InvestmentAdapter interface {
	GetInvestment(ctx context.Context, userID uuid.UUID) (*models.InvestmentSection, error)
}

// RetirementAdapter reads pension pot and allowance usage.
type RetirementAdapter interface {
	GetRetirement(ctx context.Context, userID uuid.UUID) (*models.RetirementSection, error)
}

// TaxAdapter reads residency flags and marginal-rate data.
type TaxAdapter interface {
	GetTax(ctx context.Context, userID uuid.UUID) (*models.TaxSection, error)
}

// EstateAdapter reads estate valuation and inheritance-tax figures.
type EstateAdapter interface {
	GetEstate(ctx context.Context, userID uuid.UUID) (*models.EstateSection, error)
}

// BehaviorAdapter reads per-category historical acceptance rates.
type BehaviorAdapter interface {
	GetBehaviorStats(ctx context.Context, userID uuid.UUID) (*models.BehaviorStats, error)
}

// Modules bundles every adapter the context builder needs.
type Modules struct {
	Profile    ProfileAdapter
	Protection ProtectionAdapter
	Savings    SavingsAdapter
	Investment InvestmentAdapter
	Retirement RetirementAdapter
	Tax        TaxAdapter
	Estate     EstateAdapter
	Behavior   BehaviorAdapter
}
