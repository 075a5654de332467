package adapters

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/meridianfp/advisor-engine/pkg/apperrors"
	"github.com/meridianfp/advisor-engine/pkg/models"
	"github.com/meridianfp/advisor-engine/pkg/retry"
)

// HTTPClient implements every module adapter against the financial
// modules API. Transient failures are retried with backoff; anything
// that survives the retries is reported as ErrUpstreamUnavailable so
// the context builder can mark the section unavailable.
type HTTPClient struct {
	baseURL string
	client  *http.Client
	retry   *retry.Config
	logger  *zap.Logger
}

var (
	_ ProfileAdapter    = (*HTTPClient)(nil)
	_ ProtectionAdapter = (*HTTPClient)(nil)
	_ SavingsAdapter    = (*HTTPClient)(nil)
	_ InvestmentAdapter = (*HTTPClient)(nil)
	_ RetirementAdapter = (*HTTPClient)(nil)
	_ TaxAdapter        = (*HTTPClient)(nil)
	_ EstateAdapter     = (*HTTPClient)(nil)
	_ BehaviorAdapter   = (*HTTPClient)(nil)
)

// NewHTTPClient creates a module adapter client. timeout bounds each
// upstream read; maxRetries bounds transient-error retries per read.
func NewHTTPClient(baseURL string, timeout time.Duration, maxRetries int, logger *zap.Logger) *HTTPClient {
	retryCfg := retry.DefaultConfig()
	retryCfg.MaxRetries = maxRetries

	return &HTTPClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		retry:   retryCfg,
		logger:  logger,
	}
}

// NewModules wires an HTTPClient into the adapter bundle the context
// builder consumes.
func NewModules(c *HTTPClient) Modules {
	return Modules{
		Profile:    c,
		Protection: c,
		Savings:    c,
		Investment: c,
		Retirement: c,
		Tax:        c,
		Estate:     c,
		Behavior:   c,
	}
}

// normalizable is implemented by payload types that must sanity-check
// their money fields after decoding. A payload that fails normalization
// is treated like any other upstream failure, never handed to the
// pipeline half-formed.
type normalizable interface {
	Normalize() error
}

// getJSON fetches one module section, retrying transient failures.
func getJSON(ctx context.Context, c *HTTPClient, path string, out any) error {
	url := c.baseURL + path

	err := retry.DoIfRetryable(ctx, c.retry, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}

		resp, err := c.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusNotFound:
			return apperrors.ErrNotFound
		case resp.StatusCode != http.StatusOK:
			return fmt.Errorf("module returned %d for %s", resp.StatusCode, path)
		}

		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return err
		}
		if n, ok := out.(normalizable); ok {
			return n.Normalize()
		}
		return nil
	})
	if err == nil {
		return nil
	}
	if errors.Is(err, apperrors.ErrNotFound) {
		return err
	}

	c.logger.Warn("Module read failed",
		zap.String("path", path),
		zap.Error(err))
	return fmt.Errorf("%w: %s: %v", apperrors.ErrUpstreamUnavailable, path, err)
}

func (c *HTTPClient) GetProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	var out models.Profile
	if err := getJSON(ctx, c, "/api/modules/profile/"+userID.String(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) GetProtection(ctx context.Context, userID uuid.UUID) (*models.ProtectionSection, error) {
	var out models.ProtectionSection
	if err := getJSON(ctx, c, "/api/modules/protection/"+userID.String(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) GetSavings(ctx context.Context, userID uuid.UUID) (*models.SavingsSection, error) {
	var out models.SavingsSection
	if err := getJSON(ctx, c, "/api/modules/savings/"+userID.String(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) GetInvestment(ctx context.Context, userID uuid.UUID) (*models.InvestmentSection, error) {
	var out models.InvestmentSection
	if err := getJSON(ctx, c, "/api/modules/investments/"+userID.String(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) GetRetirement(ctx context.Context, userID uuid.UUID) (*models.RetirementSection, error) {
	var out models.RetirementSection
	if err := getJSON(ctx, c, "/api/modules/retirement/"+userID.String(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) GetTax(ctx context.Context, userID uuid.UUID) (*models.TaxSection, error) {
	var out models.TaxSection
	if err := getJSON(ctx, c, "/api/modules/tax/"+userID.String(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) GetEstate(ctx context.Context, userID uuid.UUID) (*models.EstateSection, error) {
	var out models.EstateSection
	if err := getJSON(ctx, c, "/api/modules/estate/"+userID.String(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) GetBehaviorStats(ctx context.Context, userID uuid.UUID) (*models.BehaviorStats, error) {
	var out models.BehaviorStats
	if err := getJSON(ctx, c, "/api/modules/behavior/"+userID.String(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}
