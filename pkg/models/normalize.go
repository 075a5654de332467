package models

import "fmt"

// normalizeMoney prepares a decoded money field for engine arithmetic.
// Upstream modules report sterling; a field omitted from the payload
// decodes as a zero amount with no currency and is filled in here. Any
// other currency is rejected so mixed-currency arithmetic can never
// reach the evaluators.
func normalizeMoney(field string, m *Money) error {
	if m.Currency == "" && m.Amount.IsZero() {
		m.Currency = "GBP"
		return nil
	}
	if m.Currency != "GBP" {
		return fmt.Errorf("%s: unsupported currency %q", field, m.Currency)
	}
	return nil
}

// Normalize validates a freshly decoded profile's money fields.
func (p *Profile) Normalize() error {
	if err := normalizeMoney("annual_income", &p.AnnualIncome); err != nil {
		return err
	}
	return normalizeMoney("monthly_expenses", &p.MonthlyExpenses)
}

// Normalize validates a freshly decoded protection section.
func (s *ProtectionSection) Normalize() error {
	if err := normalizeMoney("life_cover", &s.LifeCover); err != nil {
		return err
	}
	return normalizeMoney("recommended_life_cover", &s.RecommendedLifeCover)
}

// Normalize validates a freshly decoded savings section.
func (s *SavingsSection) Normalize() error {
	if err := normalizeMoney("total_balance", &s.TotalBalance); err != nil {
		return err
	}
	if err := normalizeMoney("isa_allowance", &s.ISAAllowance); err != nil {
		return err
	}
	return normalizeMoney("isa_used", &s.ISAUsed)
}

// Normalize validates a freshly decoded investment section.
func (s *InvestmentSection) Normalize() error {
	if err := normalizeMoney("total_value", &s.TotalValue); err != nil {
		return err
	}
	return normalizeMoney("unrealized_gains", &s.UnrealizedGains)
}

// Normalize validates a freshly decoded retirement section.
func (s *RetirementSection) Normalize() error {
	fields := []struct {
		name string
		m    *Money
	}{
		{"pot_value", &s.PotValue},
		{"target_pot_value", &s.TargetPotValue},
		{"annual_allowance", &s.AnnualAllowance},
		{"allowance_used", &s.AllowanceUsed},
		{"adjusted_income", &s.AdjustedIncome},
		{"annual_contrib", &s.AnnualContrib},
	}
	for _, f := range fields {
		if err := normalizeMoney(f.name, f.m); err != nil {
			return err
		}
	}
	return nil
}

// Normalize validates a freshly decoded tax section.
func (s *TaxSection) Normalize() error {
	return normalizeMoney("pension_relief_unclaimed", &s.PensionReliefUnclaimed)
}

// Normalize validates a freshly decoded estate section.
func (s *EstateSection) Normalize() error {
	if err := normalizeMoney("net_estate", &s.NetEstate); err != nil {
		return err
	}
	if err := normalizeMoney("iht_liability", &s.IHTLiability); err != nil {
		return err
	}
	return normalizeMoney("gift_exemption_used", &s.GiftExemptionUsed)
}
