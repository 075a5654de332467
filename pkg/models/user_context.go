package models

import (
	"time"

	"github.com/google/uuid"
)

// UserContext is a point-in-time snapshot of one user's financial state.
// It is built fresh for every generation run and never mutated after
// construction. A nil section pointer means the owning module could not
// be read; evaluators must skip unavailable sections rather than rule on
// defaults.
type UserContext struct {
	UserID      uuid.UUID
	GeneratedAt time.Time

	Profile Profile

	Protection *ProtectionSection
	Savings    *SavingsSection
	Investment *InvestmentSection
	Retirement *RetirementSection
	Tax        *TaxSection
	Estate     *EstateSection

	Behavior BehaviorStats
}

// SectionAvailability reports, per financial module, whether its data
// made it into this snapshot.
func (c *UserContext) SectionAvailability() map[Category]bool {
	return map[Category]bool{
		CategoryProtection: c.Protection != nil,
		CategorySavings:    c.Savings != nil,
		CategoryInvestment: c.Investment != nil,
		CategoryRetirement: c.Retirement != nil,
		CategoryTax:        c.Tax != nil,
		CategoryEstate:     c.Estate != nil,
	}
}

// AvailableSections counts sections that were successfully read.
func (c *UserContext) AvailableSections() int {
	n := 0
	for _, ok := range c.SectionAvailability() {
		if ok {
			n++
		}
	}
	return n
}

// Profile holds identity, demographic, and preference data.
type Profile struct {
	Age                 int
	LifeStage           string
	Dependents          int
	AnnualIncome        Money
	MonthlyExpenses     Money
	Goals               []string
	RiskTolerance       string
	PreferredCategories []Category
}

// PrefersCategory reports whether the user has marked a category as a
// preferred recommendation type.
func (p Profile) PrefersCategory(c Category) bool {
	for _, pc := range p.PreferredCategories {
		if pc == c {
			return true
		}
	}
	return false
}

// ProtectionSection aggregates insurance cover figures.
type ProtectionSection struct {
	LifeCover               Money
	RecommendedLifeCover    Money
	HasIncomeProtection     bool
	HasCriticalIllnessCover bool
}

// SavingsSection aggregates cash savings and ISA allowance usage.
type SavingsSection struct {
	TotalBalance Money
	ISAAllowance Money
	ISAUsed      Money
}

// InvestmentSection aggregates portfolio allocation and gains.
type InvestmentSection struct {
	TotalValue          Money
	LargestHoldingShare float64 // 0-1 share of portfolio in the largest holding
	EquityShare         float64 // 0-1 share of portfolio in equities
	AllocationDrift     float64 // 0-1 absolute drift from the target allocation
	UnrealizedGains     Money
}

// RetirementSection aggregates pension pot and allowance usage.
type RetirementSection struct {
	PotValue         Money
	TargetPotValue   Money
	AnnualAllowance  Money
	AllowanceUsed    Money
	AdjustedIncome   Money // income measure used for the taper test
	AnnualContrib    Money
}

// TaxSection holds residency flags and marginal-rate data.
type TaxSection struct {
	UKResident             bool
	MarginalRate           float64 // 0.20, 0.40, 0.45
	Married                bool
	SpouseNonTaxpayer      bool
	PensionReliefUnclaimed Money // higher-rate relief claimable via self-assessment
}

// EstateSection aggregates estate value and inheritance-tax exposure.
type EstateSection struct {
	NetEstate         Money
	IHTLiability      Money
	GiftExemptionUsed Money
}

// ActionCounts are per-category tallies from the action log. Accepted
// includes completed actions; completing implies having accepted.
type ActionCounts struct {
	Accepted  int
	Dismissed int
}

// Rate converts the tallies into an acceptance rate. The second return
// is false when there is no history to rate.
func (c ActionCounts) Rate() (float64, bool) {
	total := c.Accepted + c.Dismissed
	if total == 0 {
		return 1.0, false
	}
	return float64(c.Accepted) / float64(total), true
}

// BehaviorStats carries per-category historical acceptance rates.
// A category absent from the map means the user has no history there.
type BehaviorStats struct {
	AcceptanceRates map[Category]float64
}

// AcceptanceRate returns the user's historical acceptance rate for a
// category, or (1.0, false) when there is no history. New users are
// never penalized.
func (b BehaviorStats) AcceptanceRate(c Category) (float64, bool) {
	if b.AcceptanceRates == nil {
		return 1.0, false
	}
	rate, ok := b.AcceptanceRates[c]
	if !ok {
		return 1.0, false
	}
	return rate, true
}
