package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a record id does not exist.
var ErrNotFound = errors.New("record not found")

// Strategy is a stored record of a business's positioning facts plus
// the generated targeting matrix.
type Strategy struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user_id"`
	Name            string    `json:"name"`
	BusinessType    string    `json:"business_type"`
	Objectives      string    `json:"objectives"`
	Audience        string    `json:"audience"`
	Differentiation string    `json:"differentiation"`
	MatrixContent   string    `json:"matrix_content"`
	CreatedAt       time.Time `json:"created_at"`
}

// ContentPlan is a stored multi-week content outline for a strategy.
type ContentPlan struct {
	ID                    string    `json:"id"`
	StrategyID            string    `json:"strategy_id"`
	SpecialConsiderations string    `json:"special_considerations"`
	ContentPlanText       string    `json:"content_plan_text"`
	CreatedAt             time.Time `json:"created_at"`
}

// SocialPost is a stored generated post. ContentPlanID is empty when
// the post was generated without a plan.
type SocialPost struct {
	ID            string    `json:"id"`
	StrategyID    string    `json:"strategy_id"`
	ContentPlanID string    `json:"content_plan_id,omitempty"`
	PostType      string    `json:"post_type"`
	PostText      string    `json:"post_text"`
	CreatedAt     time.Time `json:"created_at"`
}

// SaveStrategy inserts a strategy, assigning id and timestamp when
// unset.
func (s *Store) SaveStrategy(ctx context.Context, rec *Strategy) error {
	if rec.Name == "" || rec.MatrixContent == "" {
		return errors.New("strategy name and content are required")
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.UserID == "" {
		rec.UserID = "anonymous"
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO strategies
			(id, user_id, name, business_type, objectives, audience, differentiation, matrix_content, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.UserID, rec.Name, rec.BusinessType, rec.Objectives,
		rec.Audience, rec.Differentiation, rec.MatrixContent, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("save strategy: %w", err)
	}
	return nil
}

// GetStrategy loads one strategy by id.
func (s *Store) GetStrategy(ctx context.Context, id string) (Strategy, error) {
	var rec Strategy
	err := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, name, business_type, objectives, audience, differentiation, matrix_content, created_at
		FROM strategies WHERE id = ?`, id).
		Scan(&rec.ID, &rec.UserID, &rec.Name, &rec.BusinessType, &rec.Objectives,
			&rec.Audience, &rec.Differentiation, &rec.MatrixContent, &rec.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Strategy{}, ErrNotFound
	}
	if err != nil {
		return Strategy{}, fmt.Errorf("get strategy: %w", err)
	}
	return rec, nil
}

// ListStrategies returns a user's strategies, newest first.
func (s *Store) ListStrategies(ctx context.Context, userID string) ([]Strategy, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, name, business_type, objectives, audience, differentiation, matrix_content, created_at
		FROM strategies WHERE user_id = ? ORDER BY created_at DESC, rowid DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list strategies: %w", err)
	}
	defer rows.Close()

	var out []Strategy
	for rows.Next() {
		var rec Strategy
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.Name, &rec.BusinessType, &rec.Objectives,
			&rec.Audience, &rec.Differentiation, &rec.MatrixContent, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan strategy: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// SaveContentPlan inserts a content plan under its parent strategy.
func (s *Store) SaveContentPlan(ctx context.Context, rec *ContentPlan) error {
	if rec.StrategyID == "" || rec.ContentPlanText == "" {
		return errors.New("strategy id and plan text are required")
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO content_plans (id, strategy_id, special_considerations, content_plan_text, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		rec.ID, rec.StrategyID, rec.SpecialConsiderations, rec.ContentPlanText, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("save content plan: %w", err)
	}
	return nil
}

// GetContentPlan loads one content plan by id.
func (s *Store) GetContentPlan(ctx context.Context, id string) (ContentPlan, error) {
	var rec ContentPlan
	err := s.db.QueryRowContext(ctx, `
		SELECT id, strategy_id, special_considerations, content_plan_text, created_at
		FROM content_plans WHERE id = ?`, id).
		Scan(&rec.ID, &rec.StrategyID, &rec.SpecialConsiderations, &rec.ContentPlanText, &rec.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ContentPlan{}, ErrNotFound
	}
	if err != nil {
		return ContentPlan{}, fmt.Errorf("get content plan: %w", err)
	}
	return rec, nil
}

// ListContentPlans returns a strategy's plans, newest first.
func (s *Store) ListContentPlans(ctx context.Context, strategyID string) ([]ContentPlan, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, strategy_id, special_considerations, content_plan_text, created_at
		FROM content_plans WHERE strategy_id = ? ORDER BY created_at DESC, rowid DESC`, strategyID)
	if err != nil {
		return nil, fmt.Errorf("list content plans: %w", err)
	}
	defer rows.Close()

	var out []ContentPlan
	for rows.Next() {
		var rec ContentPlan
		if err := rows.Scan(&rec.ID, &rec.StrategyID, &rec.SpecialConsiderations,
			&rec.ContentPlanText, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan content plan: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// SaveSocialPost inserts a generated post.
func (s *Store) SaveSocialPost(ctx context.Context, rec *SocialPost) error {
	if rec.StrategyID == "" || rec.PostType == "" || rec.PostText == "" {
		return errors.New("strategy id, post type, and post text are required")
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	planID := sql.NullString{String: rec.ContentPlanID, Valid: rec.ContentPlanID != ""}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO social_media_posts (id, strategy_id, content_plan_id, post_type, post_text, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.StrategyID, planID, rec.PostType, rec.PostText, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("save social post: %w", err)
	}
	return nil
}

// ListRecentPosts returns up to limit posts for a strategy, most
// recent first, for the do-not-repeat prompt section.
func (s *Store) ListRecentPosts(ctx context.Context, strategyID string, limit int) ([]SocialPost, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, strategy_id, COALESCE(content_plan_id, ''), post_type, post_text, created_at
		FROM social_media_posts WHERE strategy_id = ?
		ORDER BY created_at DESC, rowid DESC LIMIT ?`, strategyID, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent posts: %w", err)
	}
	defer rows.Close()

	var out []SocialPost
	for rows.Next() {
		var rec SocialPost
		if err := rows.Scan(&rec.ID, &rec.StrategyID, &rec.ContentPlanID,
			&rec.PostType, &rec.PostText, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan social post: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
