package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Policy is the engine's externally configured policy data: evaluator
// thresholds, scoring constants, the conflict-pair table, and cool-down
// windows. Thresholds track the tax year and change annually, so they
// live here rather than in evaluator code. LoadPolicy starts from
// DefaultPolicy and overlays the YAML file, so a policy file only needs
// to name the values it changes.
type Policy struct {
	// MaxActive bounds the user's active recommendation set.
	MaxActive int `yaml:"max_active"`

	// PreferredCategoryBoost multiplies the base score when the
	// candidate's category is in the user's preferred set.
	PreferredCategoryBoost float64 `yaml:"preferred_category_boost"`

	// MinAcceptanceAdjustment floors the behavioral score multiplier so
	// a dismissive history dampens but never zeroes a category.
	MinAcceptanceAdjustment float64 `yaml:"min_acceptance_adjustment"`

	// Cool-down windows, in days, per terminal action.
	CompletedCooldownDays int `yaml:"completed_cooldown_days"`
	DismissedCooldownDays int `yaml:"dismissed_cooldown_days"`

	// ConflictPairs lists recommendation types declared mutually
	// exclusive. The table is symmetric: (A,B) also blocks (B,A).
	ConflictPairs []ConflictPair `yaml:"conflict_pairs"`

	// BenefitReference holds the per-kind reference magnitude (GBP) used
	// to normalize estimated benefits with diminishing returns.
	BenefitReference map[string]float64 `yaml:"benefit_reference"`

	Deadline   DeadlinePolicy      `yaml:"deadline"`
	Thresholds EvaluatorThresholds `yaml:"thresholds"`
}

// ConflictPair declares two mutually exclusive recommendation types.
type ConflictPair struct {
	A string `yaml:"a"`
	B string `yaml:"b"`
}

// DeadlinePolicy maps days-to-deadline onto urgency steps. The steps
// must be monotonic: a closer deadline never lowers urgency.
type DeadlinePolicy struct {
	Within30Urgency  float64 `yaml:"within_30_urgency"`
	Within60Urgency  float64 `yaml:"within_60_urgency"`
	Within120Urgency float64 `yaml:"within_120_urgency"`
	BaseUrgency      float64 `yaml:"base_urgency"`
}

// Urgency returns the urgency score for a deadline the given number of
// days away.
func (d DeadlinePolicy) Urgency(daysLeft int) float64 {
	switch {
	case daysLeft < 30:
		return d.Within30Urgency
	case daysLeft < 60:
		return d.Within60Urgency
	case daysLeft < 120:
		return d.Within120Urgency
	default:
		return d.BaseUrgency
	}
}

// EvaluatorThresholds groups the per-domain numeric thresholds.
type EvaluatorThresholds struct {
	Protection   ProtectionThresholds   `yaml:"protection"`
	Savings      SavingsThresholds      `yaml:"savings"`
	Investment   InvestmentThresholds   `yaml:"investment"`
	Retirement   RetirementThresholds   `yaml:"retirement"`
	Tax          TaxThresholds          `yaml:"tax"`
	Estate       EstateThresholds       `yaml:"estate"`
	CrossCutting CrossCuttingThresholds `yaml:"cross_cutting"`
}

// ProtectionThresholds configures the protection evaluator.
type ProtectionThresholds struct {
	// MinCoverGap is the smallest life-cover shortfall (GBP) worth
	// recommending on; trivial gaps are noise.
	MinCoverGap float64 `yaml:"min_cover_gap"`
	// IncomeProtectionShare is the fraction of salary (0-1) a typical
	// income protection policy replaces, used for the benefit estimate.
	IncomeProtectionShare float64 `yaml:"income_protection_share"`
}

// SavingsThresholds configures the savings evaluator.
type SavingsThresholds struct {
	// EmergencyFundMonths is the target emergency fund in months of expenses.
	EmergencyFundMonths float64 `yaml:"emergency_fund_months"`
	// MinISARemaining is the smallest unused ISA allowance (GBP) worth flagging.
	MinISARemaining float64 `yaml:"min_isa_remaining"`
}

// InvestmentThresholds configures the investment evaluator.
type InvestmentThresholds struct {
	// ConcentrationShare is the single-holding share (0-1) above which
	// concentration risk is flagged.
	ConcentrationShare float64 `yaml:"concentration_share"`
	// HighConcentrationShare is the single-holding share (0-1) above
	// which the flag escalates to high priority.
	HighConcentrationShare float64 `yaml:"high_concentration_share"`
	// DriftShare is the allocation drift (0-1) above which rebalancing
	// is recommended.
	DriftShare float64 `yaml:"drift_share"`
	// CGTExemptAmount is the annual capital gains exempt amount (GBP).
	CGTExemptAmount float64 `yaml:"cgt_exempt_amount"`
	// CGTRate is the capital gains tax rate (0-1) on investments, used
	// for the harvest-gains benefit estimate.
	CGTRate float64 `yaml:"cgt_rate"`
}

// RetirementThresholds configures the retirement evaluator.
type RetirementThresholds struct {
	// AdequacyShortfallShare flags pots below (1 - share) of target.
	AdequacyShortfallShare float64 `yaml:"adequacy_shortfall_share"`
	// TaperIncomeThreshold is the adjusted income (GBP) at which the
	// pension annual allowance starts tapering.
	TaperIncomeThreshold float64 `yaml:"taper_income_threshold"`
	// MinAllowanceRemaining is the smallest unused annual allowance
	// (GBP) worth flagging.
	MinAllowanceRemaining float64 `yaml:"min_allowance_remaining"`
	// TaperMarginalRate is the marginal rate (0-1) assumed for users
	// above the taper threshold, used for the taper benefit estimate.
	TaperMarginalRate float64 `yaml:"taper_marginal_rate"`
}

// TaxThresholds configures the tax evaluator.
type TaxThresholds struct {
	// BasicRate and HigherRate are the income tax band rates (0-1).
	// Relief rules trigger on the user's marginal rate relative to these.
	BasicRate  float64 `yaml:"basic_rate"`
	HigherRate float64 `yaml:"higher_rate"`
	// MarriageAllowanceSaving is the fixed annual saving (GBP) from
	// transferring the marriage allowance.
	MarriageAllowanceSaving float64 `yaml:"marriage_allowance_saving"`
	// MinUnclaimedRelief is the smallest unclaimed higher-rate pension
	// relief (GBP) worth flagging.
	MinUnclaimedRelief float64 `yaml:"min_unclaimed_relief"`
}

// EstateThresholds configures the estate evaluator.
type EstateThresholds struct {
	// MinIHTLiability is the smallest projected inheritance-tax
	// liability (GBP) worth flagging.
	MinIHTLiability float64 `yaml:"min_iht_liability"`
	// CriticalIHTLiability is the liability (GBP) above which the flag
	// escalates to critical priority.
	CriticalIHTLiability float64 `yaml:"critical_iht_liability"`
	// AnnualGiftExemption is the annual gift exemption (GBP).
	AnnualGiftExemption float64 `yaml:"annual_gift_exemption"`
}

// CrossCuttingThresholds configures the cross-cutting evaluator's
// age-versus-equity risk review rule.
type CrossCuttingThresholds struct {
	// RiskReviewAge is the age from which a high equity allocation is
	// queried.
	RiskReviewAge int `yaml:"risk_review_age"`
	// MaxEquityShare is the equity share (0-1) above which the review
	// triggers for users at or past RiskReviewAge.
	MaxEquityShare float64 `yaml:"max_equity_share"`
	// TargetEquityShare is the reference equity share (0-1) the excess
	// is measured against for the benefit estimate.
	TargetEquityShare float64 `yaml:"target_equity_share"`
}

// DefaultPolicy returns the built-in policy for the current tax year.
func DefaultPolicy() *Policy {
	return &Policy{
		MaxActive:               20,
		PreferredCategoryBoost:  1.2,
		MinAcceptanceAdjustment: 0.25,
		CompletedCooldownDays:   180,
		DismissedCooldownDays:   90,
		ConflictPairs: []ConflictPair{
			{A: "INCREASE_PENSION_CONTRIBUTIONS", B: "REDUCE_PENSION_FOR_TAPER"},
			{A: "USE_PENSION_ANNUAL_ALLOWANCE", B: "REDUCE_PENSION_FOR_TAPER"},
			{A: "HARVEST_CAPITAL_GAINS", B: "REBALANCE_PORTFOLIO"},
		},
		BenefitReference: map[string]float64{
			"RISK_MITIGATION":      250000,
			"TAX_SAVING":           10000,
			"TAX_RELIEF":           10000,
			"TAX_EXEMPTION":        10000,
			"RETIREMENT_ADEQUACY":  100000,
			"FINANCIAL_RESILIENCE": 25000,
			"RISK_REDUCTION":       50000,
			"FLEXIBILITY":          10000,
		},
		Deadline: DeadlinePolicy{
			Within30Urgency:  95,
			Within60Urgency:  90,
			Within120Urgency: 75,
			BaseUrgency:      60,
		},
		Thresholds: EvaluatorThresholds{
			Protection: ProtectionThresholds{
				MinCoverGap:           10000,
				IncomeProtectionShare: 0.60,
			},
			Savings: SavingsThresholds{
				EmergencyFundMonths: 3,
				MinISARemaining:     500,
			},
			Investment: InvestmentThresholds{
				ConcentrationShare:     0.25,
				HighConcentrationShare: 0.50,
				DriftShare:             0.10,
				CGTExemptAmount:        3000,
				CGTRate:                0.20,
			},
			Retirement: RetirementThresholds{
				AdequacyShortfallShare: 0.20,
				TaperIncomeThreshold:   260000,
				MinAllowanceRemaining:  1000,
				TaperMarginalRate:      0.45,
			},
			Tax: TaxThresholds{
				BasicRate:               0.20,
				HigherRate:              0.40,
				MarriageAllowanceSaving: 252,
				MinUnclaimedRelief:      100,
			},
			Estate: EstateThresholds{
				MinIHTLiability:      1000,
				CriticalIHTLiability: 100000,
				AnnualGiftExemption:  3000,
			},
			CrossCutting: CrossCuttingThresholds{
				RiskReviewAge:     60,
				MaxEquityShare:    0.80,
				TargetEquityShare: 0.60,
			},
		},
	}
}

// LoadPolicy returns the default policy overlaid with the YAML file at
// path, or the defaults when path is empty.
func LoadPolicy(path string) (*Policy, error) {
	p := DefaultPolicy()
	if path == "" {
		return p, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read policy file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("failed to parse policy file %s: %w", path, err)
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("invalid policy in %s: %w", path, err)
	}
	return p, nil
}

// Validate rejects policies that would break engine invariants.
func (p *Policy) Validate() error {
	if p.MaxActive <= 0 {
		return fmt.Errorf("max_active must be positive, got %d", p.MaxActive)
	}
	if p.MinAcceptanceAdjustment < 0 || p.MinAcceptanceAdjustment > 1 {
		return fmt.Errorf("min_acceptance_adjustment must be in [0,1], got %v", p.MinAcceptanceAdjustment)
	}
	if p.CompletedCooldownDays < 0 || p.DismissedCooldownDays < 0 {
		return fmt.Errorf("cool-down windows must be non-negative")
	}
	d := p.Deadline
	if d.Within30Urgency < d.Within60Urgency ||
		d.Within60Urgency < d.Within120Urgency ||
		d.Within120Urgency < d.BaseUrgency {
		return fmt.Errorf("deadline urgency steps must be monotonic")
	}
	if d.Within30Urgency > 100 || d.BaseUrgency < 0 {
		return fmt.Errorf("deadline urgency steps must be in [0,100]")
	}
	for _, pair := range p.ConflictPairs {
		if pair.A == "" || pair.B == "" || pair.A == pair.B {
			return fmt.Errorf("invalid conflict pair (%q, %q)", pair.A, pair.B)
		}
	}
	th := p.Thresholds
	rates := map[string]float64{
		"protection.income_protection_share": th.Protection.IncomeProtectionShare,
		"investment.cgt_rate":                th.Investment.CGTRate,
		"retirement.taper_marginal_rate":     th.Retirement.TaperMarginalRate,
		"tax.basic_rate":                     th.Tax.BasicRate,
		"tax.higher_rate":                    th.Tax.HigherRate,
	}
	for name, rate := range rates {
		if rate <= 0 || rate > 1 {
			return fmt.Errorf("%s must be in (0,1], got %v", name, rate)
		}
	}
	if th.CrossCutting.MaxEquityShare <= th.CrossCutting.TargetEquityShare {
		return fmt.Errorf("cross_cutting.max_equity_share must exceed target_equity_share")
	}
	return nil
}

// ConflictsWith reports whether two recommendation types are declared
// mutually exclusive.
func (p *Policy) ConflictsWith(a, b string) bool {
	for _, pair := range p.ConflictPairs {
		if (pair.A == a && pair.B == b) || (pair.A == b && pair.B == a) {
			return true
		}
	}
	return false
}

// ReferenceFor returns the benefit normalization constant for a kind.
// Unknown kinds fall back to a conservative reference so the benefit
// multiplier stays small rather than exploding.
func (p *Policy) ReferenceFor(kind string) float64 {
	if ref, ok := p.BenefitReference[kind]; ok && ref > 0 {
		return ref
	}
	return 100000
}
