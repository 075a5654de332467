package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/meridianfp/advisor-engine/pkg/apperrors"
	"github.com/meridianfp/advisor-engine/pkg/database"
	"github.com/meridianfp/advisor-engine/pkg/models"
)

// RecommendationRepository provides data access for recommendations.
type RecommendationRepository interface {
	// ReplaceActiveSet atomically supersedes the user's current
	// NEW/VIEWED/IN_PROGRESS recommendations and inserts the new set.
	// Completed and dismissed history is untouched. All-or-nothing: a
	// partial write would break the dedup and cap invariants.
	ReplaceActiveSet(ctx context.Context, userID uuid.UUID, recs []*models.Recommendation) error

	// GetByID returns a recommendation, or apperrors.ErrNotFound.
	GetByID(ctx context.Context, id uuid.UUID) (*models.Recommendation, error)

	// ListByUser returns a user's recommendations, newest first,
	// optionally filtered by status.
	ListByUser(ctx context.Context, userID uuid.UUID, status *models.Status) ([]*models.Recommendation, error)

	// Transition persists a lifecycle change together with its audit
	// action in one transaction.
	Transition(ctx context.Context, rec *models.Recommendation, action *models.UserAction) error
}

type recommendationRepository struct {
	db *database.DB
}

// NewRecommendationRepository creates a new RecommendationRepository.
func NewRecommendationRepository(db *database.DB) RecommendationRepository {
	return &recommendationRepository{db: db}
}

var _ RecommendationRepository = (*recommendationRepository)(nil)

const recommendationColumns = `
	id, user_id, category, recommendation_type, priority, title, description,
	reasons, benefit_kind, benefit_amount::text, benefit_currency, action_required,
	deadline, urgency, impact, score, status, generated_at, expires_at,
	completed_at, dismissed_at, dismissal_reason, updated_at`

func (r *recommendationRepository) ReplaceActiveSet(ctx context.Context, userID uuid.UUID, recs []*models.Recommendation) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		UPDATE recommendations
		SET status = $1, updated_at = now()
		WHERE user_id = $2 AND status IN ($3, $4, $5)`,
		models.StatusSuperseded, userID, models.StatusNew, models.StatusViewed, models.StatusInProgress,
	)
	if err != nil {
		return fmt.Errorf("failed to supersede active set: %w", err)
	}

	for _, rec := range recs {
		reasons, err := json.Marshal(rec.Reasons)
		if err != nil {
			return fmt.Errorf("failed to marshal reasons: %w", err)
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO recommendations (
				id, user_id, category, recommendation_type, priority, title,
				description, reasons, benefit_kind, benefit_amount, benefit_currency,
				action_required, deadline, urgency, impact, score, status,
				generated_at, expires_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)`,
			rec.ID, rec.UserID, rec.Category, rec.Type, rec.Priority, rec.Title,
			rec.Description, reasons, rec.Benefit.Kind, rec.Benefit.Amount.Amount.String(),
			rec.Benefit.Amount.Currency, rec.ActionRequired, rec.Deadline,
			rec.Urgency, rec.Impact, rec.Score, rec.Status,
			rec.GeneratedAt, rec.ExpiresAt, rec.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert recommendation %s: %w", rec.Type, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit active set: %w", err)
	}
	return nil
}

func (r *recommendationRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Recommendation, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+recommendationColumns+` FROM recommendations WHERE id = $1`, id)

	rec, err := scanRecommendation(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return rec, nil
}

func (r *recommendationRepository) ListByUser(ctx context.Context, userID uuid.UUID, status *models.Status) ([]*models.Recommendation, error) {
	query := `SELECT ` + recommendationColumns + ` FROM recommendations WHERE user_id = $1`
	args := []any{userID}
	if status != nil {
		query += ` AND status = $2`
		args = append(args, *status)
	}
	query += ` ORDER BY score DESC, generated_at DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query recommendations: %w", err)
	}
	defer rows.Close()

	var recs []*models.Recommendation
	for rows.Next() {
		rec, err := scanRecommendation(rows)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating recommendations: %w", err)
	}
	return recs, nil
}

func (r *recommendationRepository) Transition(ctx context.Context, rec *models.Recommendation, action *models.UserAction) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	result, err := tx.Exec(ctx, `
		UPDATE recommendations
		SET status = $2, completed_at = $3, dismissed_at = $4, dismissal_reason = $5, updated_at = now()
		WHERE id = $1`,
		rec.ID, rec.Status, rec.CompletedAt, rec.DismissedAt, rec.DismissalReason,
	)
	if err != nil {
		return fmt.Errorf("failed to update recommendation status: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO user_actions (id, recommendation_id, user_id, action_type, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		action.ID, action.RecommendationID, action.UserID, action.Action, action.Notes, action.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record user action: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transition: %w", err)
	}
	return nil
}

// scanRecommendation reads one row in recommendationColumns order.
func scanRecommendation(row pgx.Row) (*models.Recommendation, error) {
	var rec models.Recommendation
	var reasons []byte
	var amount string

	err := row.Scan(
		&rec.ID, &rec.UserID, &rec.Category, &rec.Type, &rec.Priority,
		&rec.Title, &rec.Description, &reasons, &rec.Benefit.Kind, &amount,
		&rec.Benefit.Amount.Currency, &rec.ActionRequired, &rec.Deadline,
		&rec.Urgency, &rec.Impact, &rec.Score, &rec.Status, &rec.GeneratedAt,
		&rec.ExpiresAt, &rec.CompletedAt, &rec.DismissedAt, &rec.DismissalReason,
		&rec.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(reasons, &rec.Reasons); err != nil {
		return nil, fmt.Errorf("failed to unmarshal reasons: %w", err)
	}
	rec.Benefit.Amount.Amount, err = decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("failed to parse benefit amount: %w", err)
	}
	return &rec, nil
}
