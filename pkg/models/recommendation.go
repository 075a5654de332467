package models

import (
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a persisted recommendation.
type Status string

const (
	StatusNew        Status = "NEW"
	StatusViewed     Status = "VIEWED"
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
	StatusDismissed  Status = "DISMISSED"

	// StatusSuperseded marks prior active recommendations replaced by a
	// fresh generation run. It is only reachable through regeneration,
	// never through a user transition.
	StatusSuperseded Status = "SUPERSEDED"
)

// ParseStatus validates a caller-supplied status string.
func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case StatusNew, StatusViewed, StatusInProgress, StatusCompleted, StatusDismissed, StatusSuperseded:
		return Status(s), true
	}
	return "", false
}

// Active reports whether the status counts toward the bounded active set.
func (s Status) Active() bool {
	return s == StatusNew || s == StatusViewed || s == StatusInProgress
}

// Terminal reports whether no further transitions are possible.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusDismissed || s == StatusSuperseded
}

// transitions is the legal state machine. All edges are one-directional;
// nothing leaves a terminal state.
var transitions = map[Status][]Status{
	StatusNew:        {StatusViewed, StatusDismissed},
	StatusViewed:     {StatusInProgress, StatusDismissed},
	StatusInProgress: {StatusCompleted, StatusDismissed},
}

// CanTransitionTo reports whether the edge s -> target is legal.
func (s Status) CanTransitionTo(target Status) bool {
	for _, t := range transitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// ActionType records what a user did to a recommendation.
type ActionType string

const (
	ActionViewed    ActionType = "VIEWED"
	ActionAccepted  ActionType = "ACCEPTED"
	ActionDismissed ActionType = "DISMISSED"
	ActionCompleted ActionType = "COMPLETED"
)

// ParseActionType validates a caller-supplied action string.
func ParseActionType(s string) (ActionType, bool) {
	switch ActionType(s) {
	case ActionViewed, ActionAccepted, ActionDismissed, ActionCompleted:
		return ActionType(s), true
	}
	return "", false
}

// StatusForAction maps a user action to the lifecycle state it produces.
// Accepting a recommendation moves it into IN_PROGRESS.
func StatusForAction(a ActionType) Status {
	switch a {
	case ActionViewed:
		return StatusViewed
	case ActionAccepted:
		return StatusInProgress
	case ActionCompleted:
		return StatusCompleted
	case ActionDismissed:
		return StatusDismissed
	}
	return ""
}

// Recommendation is a persisted, explainable action recommendation.
type Recommendation struct {
	ID              uuid.UUID  `json:"id"`
	UserID          uuid.UUID  `json:"user_id"`
	Category        Category   `json:"category"`
	Type            string     `json:"type"`
	Priority        Priority   `json:"priority"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	Reasons         []string   `json:"reasons"`
	Benefit         Benefit    `json:"benefit"`
	ActionRequired  string     `json:"action_required"`
	Deadline        *time.Time `json:"deadline,omitempty"`
	Urgency         float64    `json:"urgency"`
	Impact          float64    `json:"impact"`
	Score           float64    `json:"score"`
	Status          Status     `json:"status"`
	GeneratedAt     time.Time  `json:"generated_at"`
	ExpiresAt       *time.Time `json:"expires_at,omitempty"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
	DismissedAt     *time.Time `json:"dismissed_at,omitempty"`
	DismissalReason *string    `json:"dismissal_reason,omitempty"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// UserAction is an append-only audit record of a lifecycle transition.
type UserAction struct {
	ID               uuid.UUID  `json:"id"`
	RecommendationID uuid.UUID  `json:"recommendation_id"`
	UserID           uuid.UUID  `json:"user_id"`
	Action           ActionType `json:"action"`
	Notes            string     `json:"notes,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}

// TypeActivity is the most recent terminal action recorded for a
// recommendation type, used for cool-down suppression.
type TypeActivity struct {
	Type       string
	Action     ActionType
	OccurredAt time.Time
}

// RecommendationSet is the result of one generation run.
type RecommendationSet struct {
	UserID                uuid.UUID          `json:"user_id"`
	Recommendations       []*Recommendation  `json:"recommendations"`
	TotalPotentialBenefit Money              `json:"total_potential_benefit"`
	ContextSummary        map[Category]bool  `json:"context_summary"`
	GeneratedAt           time.Time          `json:"generated_at"`
}
