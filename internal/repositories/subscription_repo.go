package repositories

import (
	"context"
	"time"

	"monktrader/internal/models"
)

type SubscriptionRepository interface {
	GetActiveByUser(ctx context.Context, userID int64) (*models.Subscription, error)
	CreateFreeTier(ctx context.Context, userID int64, planType string, durationDays int) error
}

type subscriptionRepo struct {
	db Database
}

func NewSubscriptionRepo(db Database) SubscriptionRepository {
	return &subscriptionRepo{db: db}
}

func (r *subscriptionRepo) GetActiveByUser(ctx context.Context, userID int64) (*models.Subscription, error) {
	sub := &models.Subscription{}
	query := `
		SELECT id, user_id, plan_id, plan_type, start_date, end_date, created_at, is_active, payment_id
		FROM mt_subscriptions
		WHERE user_id = $1 AND is_active = TRUE
		ORDER BY created_at DESC
		LIMIT 1
	`
	err := r.db.QueryRow(ctx, query, userID).Scan(&sub.ID, &sub.UserID, &sub.PlanID, &sub.PlanType,
		&sub.StartDate, &sub.EndDate, &sub.CreatedAt, &sub.IsActive, &sub.PaymentID)
	if err != nil {
		return nil, err
	}
	return sub, nil
}

// CreateFreeTier grants the long-lived free subscription new accounts get.
// There is no payment record behind it.
func (r *subscriptionRepo) CreateFreeTier(ctx context.Context, userID int64, planType string, durationDays int) error {
	today := time.Now().UTC().Truncate(24 * time.Hour)
	query := `
		INSERT INTO mt_subscriptions (user_id, plan_id, plan_type, start_date, end_date, created_at, is_active, payment_id)
		VALUES ($1, 0, $2, $3, $4, $3, TRUE, NULL)
	`
	_, err := r.db.Exec(ctx, query, userID, planType, today, today.AddDate(0, 0, durationDays))
	return err
}
