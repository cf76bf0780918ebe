package repositories

import (
	"context"

	"monktrader/internal/models"
)

type PromoRepository interface {
	GetActiveByCode(ctx context.Context, code string) (*models.Promocode, error)
}

type promoRepo struct {
	db Database
}

func NewPromoRepo(db Database) PromoRepository {
	return &promoRepo{db: db}
}

// GetActiveByCode resolves a promo code case-insensitively and only returns
// codes that are active and inside their validity window right now.
func (r *promoRepo) GetActiveByCode(ctx context.Context, code string) (*models.Promocode, error) {
	promo := &models.Promocode{}
	query := `
		SELECT id, promocode, promocode_type, promocode_value, applicable_plan,
		       status, valid_from, valid_to, created_at
		FROM mt_promocodes
		WHERE LOWER(promocode) = LOWER($1)
		  AND status = 'active'
		  AND valid_from <= NOW()
		  AND valid_to >= NOW()
	`
	err := r.db.QueryRow(ctx, query, code).Scan(&promo.ID, &promo.Code, &promo.Type,
		&promo.Value, &promo.ApplicablePlan, &promo.Status, &promo.ValidFrom, &promo.ValidTo, &promo.CreatedAt)
	if err != nil {
		return nil, err
	}
	return promo, nil
}
