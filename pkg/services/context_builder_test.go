package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/meridianfp/advisor-engine/pkg/adapters"
	"github.com/meridianfp/advisor-engine/pkg/apperrors"
	"github.com/meridianfp/advisor-engine/pkg/models"
)

// mockModules implements every module adapter with configurable
// per-section failures.
type mockModules struct {
	profile    *models.Profile
	profileErr error

	protectionErr bool
	savingsErr    bool
	investmentErr bool
	retirementErr bool
	taxErr        bool
	estateErr     bool
	behaviorErr   bool
}

var errUpstream = errors.New("upstream read failed")

func (m *mockModules) GetProfile(context.Context, uuid.UUID) (*models.Profile, error) {
	if m.profileErr != nil {
		return nil, m.profileErr
	}
	if m.profile == nil {
		return &models.Profile{Age: 40, AnnualIncome: models.GBP(50000)}, nil
	}
	return m.profile, nil
}

func (m *mockModules) GetProtection(context.Context, uuid.UUID) (*models.ProtectionSection, error) {
	if m.protectionErr {
		return nil, errUpstream
	}
	return &models.ProtectionSection{LifeCover: models.GBP(100000)}, nil
}

func (m *mockModules) GetSavings(context.Context, uuid.UUID) (*models.SavingsSection, error) {
	if m.savingsErr {
		return nil, errUpstream
	}
	return &models.SavingsSection{TotalBalance: models.GBP(10000)}, nil
}

func (m *mockModules) GetInvestment(context.Context, uuid.UUID) (*models.InvestmentSection, error) {
	if m.investmentErr {
		return nil, errUpstream
	}
	return &models.InvestmentSection{TotalValue: models.GBP(50000)}, nil
}

func (m *mockModules) GetRetirement(context.Context, uuid.UUID) (*models.RetirementSection, error) {
	if m.retirementErr {
		return nil, errUpstream
	}
	return &models.RetirementSection{PotValue: models.GBP(80000)}, nil
}

func (m *mockModules) GetTax(context.Context, uuid.UUID) (*models.TaxSection, error) {
	if m.taxErr {
		return nil, errUpstream
	}
	return &models.TaxSection{UKResident: true, MarginalRate: 0.20}, nil
}

func (m *mockModules) GetEstate(context.Context, uuid.UUID) (*models.EstateSection, error) {
	if m.estateErr {
		return nil, errUpstream
	}
	return &models.EstateSection{NetEstate: models.GBP(250000)}, nil
}

func (m *mockModules) GetBehaviorStats(context.Context, uuid.UUID) (*models.BehaviorStats, error) {
	if m.behaviorErr {
		return nil, errUpstream
	}
	return &models.BehaviorStats{AcceptanceRates: map[models.Category]float64{
		models.CategorySavings: 0.8,
	}}, nil
}

func bundled(m *mockModules) adapters.Modules {
	return adapters.Modules{
		Profile:    m,
		Protection: m,
		Savings:    m,
		Investment: m,
		Retirement: m,
		Tax:        m,
		Estate:     m,
		Behavior:   m,
	}
}

func TestContextBuilder_AllSectionsAvailable(t *testing.T) {
	b := NewContextBuilder(bundled(&mockModules{}), time.Second, zap.NewNop())
	userID := uuid.New()

	uc, err := b.Build(context.Background(), userID)
	require.NoError(t, err)

	assert.Equal(t, userID, uc.UserID)
	assert.Equal(t, 6, uc.AvailableSections())
	assert.False(t, uc.GeneratedAt.IsZero())

	rate, ok := uc.Behavior.AcceptanceRate(models.CategorySavings)
	assert.True(t, ok)
	assert.Equal(t, 0.8, rate)
}

func TestContextBuilder_PartialSectionFailure(t *testing.T) {
	m := &mockModules{savingsErr: true, estateErr: true}
	b := NewContextBuilder(bundled(m), time.Second, zap.NewNop())

	uc, err := b.Build(context.Background(), uuid.New())
	require.NoError(t, err)

	assert.Nil(t, uc.Savings)
	assert.Nil(t, uc.Estate)
	assert.NotNil(t, uc.Protection)
	assert.Equal(t, 4, uc.AvailableSections())
}

func TestContextBuilder_AllSectionsFailed(t *testing.T) {
	m := &mockModules{
		protectionErr: true, savingsErr: true, investmentErr: true,
		retirementErr: true, taxErr: true, estateErr: true,
	}
	b := NewContextBuilder(bundled(m), time.Second, zap.NewNop())

	_, err := b.Build(context.Background(), uuid.New())
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrUpstreamUnavailable))
}

func TestContextBuilder_MissingUser(t *testing.T) {
	m := &mockModules{profileErr: apperrors.ErrNotFound}
	b := NewContextBuilder(bundled(m), time.Second, zap.NewNop())

	_, err := b.Build(context.Background(), uuid.New())
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestContextBuilder_ProfileReadFailure(t *testing.T) {
	m := &mockModules{profileErr: errUpstream}
	b := NewContextBuilder(bundled(m), time.Second, zap.NewNop())

	_, err := b.Build(context.Background(), uuid.New())
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrUpstreamUnavailable))
}

func TestContextBuilder_BehaviorFailureIsNotFatal(t *testing.T) {
	m := &mockModules{behaviorErr: true}
	b := NewContextBuilder(bundled(m), time.Second, zap.NewNop())

	uc, err := b.Build(context.Background(), uuid.New())
	require.NoError(t, err)

	// No stats read means every category reads as no-history.
	rate, ok := uc.Behavior.AcceptanceRate(models.CategorySavings)
	assert.False(t, ok)
	assert.Equal(t, 1.0, rate)
}
