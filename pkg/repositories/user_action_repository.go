package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/meridianfp/advisor-engine/pkg/database"
	"github.com/meridianfp/advisor-engine/pkg/models"
)

// UserActionRepository provides read access to the append-only action log.
// Writes happen inside RecommendationRepository.Transition so the status
// change and its audit record commit together.
type UserActionRepository interface {
	// ListByUser returns a user's full action history, newest first.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.UserAction, error)

	// LatestTerminalByType returns, per recommendation type, the most
	// recent COMPLETED or DISMISSED action. Used for cool-down checks.
	LatestTerminalByType(ctx context.Context, userID uuid.UUID) (map[string]models.TypeActivity, error)

	// ActionCounts returns per-category counts of accepted (including
	// completed) and dismissed actions, the raw material for acceptance
	// rates.
	ActionCounts(ctx context.Context, userID uuid.UUID) (map[models.Category]models.ActionCounts, error)
}

type userActionRepository struct {
	db *database.DB
}

// NewUserActionRepository creates a new UserActionRepository.
func NewUserActionRepository(db *database.DB) UserActionRepository {
	return &userActionRepository{db: db}
}

var _ UserActionRepository = (*userActionRepository)(nil)

func (r *userActionRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.UserAction, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, recommendation_id, user_id, action_type, notes, created_at
		FROM user_actions
		WHERE user_id = $1
		ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query user actions: %w", err)
	}
	defer rows.Close()

	var actions []*models.UserAction
	for rows.Next() {
		var a models.UserAction
		if err := rows.Scan(&a.ID, &a.RecommendationID, &a.UserID, &a.Action, &a.Notes, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user action: %w", err)
		}
		actions = append(actions, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user actions: %w", err)
	}
	return actions, nil
}

func (r *userActionRepository) LatestTerminalByType(ctx context.Context, userID uuid.UUID) (map[string]models.TypeActivity, error) {
	rows, err := r.db.Query(ctx, `
		SELECT DISTINCT ON (r.recommendation_type)
			r.recommendation_type, a.action_type, a.created_at
		FROM user_actions a
		JOIN recommendations r ON r.id = a.recommendation_id
		WHERE a.user_id = $1 AND a.action_type IN ($2, $3)
		ORDER BY r.recommendation_type, a.created_at DESC`,
		userID, models.ActionCompleted, models.ActionDismissed)
	if err != nil {
		return nil, fmt.Errorf("failed to query terminal actions: %w", err)
	}
	defer rows.Close()

	activity := make(map[string]models.TypeActivity)
	for rows.Next() {
		var ta models.TypeActivity
		if err := rows.Scan(&ta.Type, &ta.Action, &ta.OccurredAt); err != nil {
			return nil, fmt.Errorf("failed to scan terminal action: %w", err)
		}
		activity[ta.Type] = ta
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating terminal actions: %w", err)
	}
	return activity, nil
}

func (r *userActionRepository) ActionCounts(ctx context.Context, userID uuid.UUID) (map[models.Category]models.ActionCounts, error) {
	rows, err := r.db.Query(ctx, `
		SELECT r.category,
			COUNT(*) FILTER (WHERE a.action_type IN ($2, $3)) AS accepted,
			COUNT(*) FILTER (WHERE a.action_type = $4) AS dismissed
		FROM user_actions a
		JOIN recommendations r ON r.id = a.recommendation_id
		WHERE a.user_id = $1
		GROUP BY r.category`,
		userID, models.ActionAccepted, models.ActionCompleted, models.ActionDismissed)
	if err != nil {
		return nil, fmt.Errorf("failed to query action counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[models.Category]models.ActionCounts)
	for rows.Next() {
		var cat models.Category
		var c models.ActionCounts
		if err := rows.Scan(&cat, &c.Accepted, &c.Dismissed); err != nil {
			return nil, fmt.Errorf("failed to scan action counts: %w", err)
		}
		counts[cat] = c
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating action counts: %w", err)
	}
	return counts, nil
}
