package models

import (
	"testing"
)

func TestMoney_AddSub(t *testing.T) {
	a := GBP(1250.50)
	b := GBP(749.50)

	sum := a.Add(b)
	if got := sum.String(); got != "GBP 2000.00" {
		t.Errorf("Add = %q, want %q", got, "GBP 2000.00")
	}

	diff := a.Sub(b)
	if got := diff.String(); got != "GBP 501.00" {
		t.Errorf("Sub = %q, want %q", got, "GBP 501.00")
	}
}

func TestMoney_MixedCurrencyPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("adding mixed currencies did not panic")
		}
	}()
	GBP(100).Add(Money{Amount: GBP(100).Amount, Currency: "EUR"})
}

func TestMoney_Predicates(t *testing.T) {
	if !ZeroGBP().IsZero() {
		t.Error("ZeroGBP().IsZero() = false")
	}
	if ZeroGBP().IsPositive() {
		t.Error("ZeroGBP().IsPositive() = true")
	}
	if !GBP(0.01).IsPositive() {
		t.Error("GBP(0.01).IsPositive() = false")
	}
	if GBP(-5).IsPositive() {
		t.Error("GBP(-5).IsPositive() = true")
	}
}

func TestMoney_ExactDecimalArithmetic(t *testing.T) {
	// 0.1 + 0.2 must be exactly 0.3, not a float approximation.
	sum := GBP(0.1).Add(GBP(0.2))
	if got := sum.String(); got != "GBP 0.30" {
		t.Errorf("0.1 + 0.2 = %q, want %q", got, "GBP 0.30")
	}
}

func TestUserContext_SectionAvailability(t *testing.T) {
	uc := &UserContext{
		Savings: &SavingsSection{},
		Tax:     &TaxSection{},
	}

	avail := uc.SectionAvailability()
	if !avail[CategorySavings] || !avail[CategoryTax] {
		t.Error("populated sections reported unavailable")
	}
	if avail[CategoryProtection] || avail[CategoryEstate] {
		t.Error("nil sections reported available")
	}
	if got := uc.AvailableSections(); got != 2 {
		t.Errorf("AvailableSections() = %d, want 2", got)
	}
}

func TestBehaviorStats_AcceptanceRate(t *testing.T) {
	stats := BehaviorStats{AcceptanceRates: map[Category]float64{
		CategorySavings: 0.4,
	}}

	rate, ok := stats.AcceptanceRate(CategorySavings)
	if !ok || rate != 0.4 {
		t.Errorf("AcceptanceRate(SAVINGS) = (%v, %v), want (0.4, true)", rate, ok)
	}

	// No history in a category must read as a neutral 1.0.
	rate, ok = stats.AcceptanceRate(CategoryEstate)
	if ok || rate != 1.0 {
		t.Errorf("AcceptanceRate(ESTATE) = (%v, %v), want (1.0, false)", rate, ok)
	}

	var empty BehaviorStats
	rate, ok = empty.AcceptanceRate(CategorySavings)
	if ok || rate != 1.0 {
		t.Errorf("empty AcceptanceRate = (%v, %v), want (1.0, false)", rate, ok)
	}
}

func TestActionCounts_Rate(t *testing.T) {
	tests := []struct {
		name     string
		counts   ActionCounts
		wantRate float64
		wantOK   bool
	}{
		{"no history", ActionCounts{}, 1.0, false},
		{"all accepted", ActionCounts{Accepted: 4}, 1.0, true},
		{"all dismissed", ActionCounts{Dismissed: 5}, 0.0, true},
		{"mixed", ActionCounts{Accepted: 1, Dismissed: 3}, 0.25, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rate, ok := tt.counts.Rate()
			if rate != tt.wantRate || ok != tt.wantOK {
				t.Errorf("Rate() = (%v, %v), want (%v, %v)", rate, ok, tt.wantRate, tt.wantOK)
			}
		})
	}
}
