package repositories

import (
	"context"

	"monktrader/internal/models"
)

type PlanRepository interface {
	GetByID(ctx context.Context, id int64) (*models.Plan, error)
	ListActiveByDevice(ctx context.Context, deviceType string) ([]*models.Plan, error)
}

type planRepo struct {
	db Database
}

func NewPlanRepo(db Database) PlanRepository {
	return &planRepo{db: db}
}

func (r *planRepo) GetByID(ctx context.Context, id int64) (*models.Plan, error) {
	plan := &models.Plan{}
	query := `
		SELECT id, plan_name, duration_days, price_before_tax
		FROM mt_subscription_master
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&plan.ID, &plan.PlanName, &plan.DurationDays, &plan.PriceBeforeTax)
	if err != nil {
		return nil, err
	}
	return plan, nil
}

func (r *planRepo) ListActiveByDevice(ctx context.Context, deviceType string) ([]*models.Plan, error) {
	query := `
		SELECT id, plan_name, duration_days, original_price, discount_percent,
		       price_before_tax, gst_percent, gst_amount, final_price,
		       product_id, device_type, features, is_trial, is_active,
		       created_at, updated_at
		FROM mt_subscription_master
		WHERE is_active = TRUE AND device_type = $1
		ORDER BY duration_days
	`
	rows, err := r.db.Query(ctx, query, deviceType)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var plans []*models.Plan
	for rows.Next() {
		plan := &models.Plan{}
		if err := rows.Scan(&plan.ID, &plan.PlanName, &plan.DurationDays, &plan.OriginalPrice,
			&plan.DiscountPercent, &plan.PriceBeforeTax, &plan.GSTPercent, &plan.GSTAmount,
			&plan.FinalPrice, &plan.ProductID, &plan.DeviceType, &plan.Features,
			&plan.IsTrial, &plan.IsActive, &plan.CreatedAt, &plan.UpdatedAt); err != nil {
			return nil, err
		}
		plans = append(plans, plan)
	}
	return plans, rows.Err()
}
