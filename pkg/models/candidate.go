package models

import "time"

// Category identifies the financial domain a recommendation belongs to.
type Category string

const (
	CategoryProtection   Category = "PROTECTION"
	CategorySavings      Category = "SAVINGS"
	CategoryInvestment   Category = "INVESTMENT"
	CategoryRetirement   Category = "RETIREMENT"
	CategoryTax          Category = "TAX"
	CategoryEstate       Category = "ESTATE"
	CategoryCrossCutting Category = "CROSS_CUTTING"
)

// AllCategories lists every category in a fixed order.
var AllCategories = []Category{
	CategoryProtection,
	CategorySavings,
	CategoryInvestment,
	CategoryRetirement,
	CategoryTax,
	CategoryEstate,
	CategoryCrossCutting,
}

// Priority is the evaluator-assigned tier of a candidate.
type Priority string

const (
	PriorityLow      Priority = "LOW"
	PriorityMedium   Priority = "MEDIUM"
	PriorityHigh     Priority = "HIGH"
	PriorityCritical Priority = "CRITICAL"
)

// BenefitKind classifies what an estimated benefit represents.
type BenefitKind string

const (
	BenefitRiskMitigation      BenefitKind = "RISK_MITIGATION"
	BenefitTaxSaving           BenefitKind = "TAX_SAVING"
	BenefitTaxRelief           BenefitKind = "TAX_RELIEF"
	BenefitTaxExemption        BenefitKind = "TAX_EXEMPTION"
	BenefitRetirementAdequacy  BenefitKind = "RETIREMENT_ADEQUACY"
	BenefitFinancialResilience BenefitKind = "FINANCIAL_RESILIENCE"
	BenefitRiskReduction       BenefitKind = "RISK_REDUCTION"
	BenefitFlexibility         BenefitKind = "FLEXIBILITY"
)

// Benefit is the structured estimated gain attached to a candidate.
type Benefit struct {
	Kind   BenefitKind `json:"kind"`
	Amount Money       `json:"amount"`
}

// Candidate is an unscored recommendation proposal emitted by one rule
// evaluator. It carries no identity until persisted.
type Candidate struct {
	Category       Category
	Type           string
	Priority       Priority
	Title          string
	Description    string
	ActionRequired string
	Deadline       *time.Time
	Urgency        float64 // 0-100, evaluator domain logic
	Impact         float64 // 0-100, evaluator domain logic
	Benefit        Benefit
	Reasons        []string
}

// ScoredCandidate is a Candidate plus its composite score and the
// intermediate components, retained for explainability and testing.
// EvaluatorIndex/EmissionIndex form the deterministic tie-break key:
// they reflect evaluator registration order and per-evaluator emission
// order, never completion order.
type ScoredCandidate struct {
	Candidate

	EvaluatorIndex int
	EmissionIndex  int

	BaseScore            float64
	BenefitScore         float64
	AcceptanceAdjustment float64
	FinalScore           float64
}
