package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/jackc/pgx/v5"

	"monktrader/internal/models"
	"monktrader/internal/repositories"
)

// Quote kinds.
const (
	QuoteDiscount = "discount"
	QuoteFreeDays = "free_days"
)

// Quote is the priced outcome of a plan plus an optional promo code. For paid
// quotes all amounts are whole rupees, floored at each stage so that the
// amount the gateway charges can be reproduced exactly at verification time.
// A free-days quote carries no amounts at all.
type Quote struct {
	Type           string `json:"type"`
	PlanName       string `json:"plan_name"`
	Price          int64  `json:"price"`
	DiscountAmount int64  `json:"discount_amount"`
	GST            int64  `json:"gst"`
	FinalPrice     int64  `json:"final_price"`
	FreeDays       int    `json:"free_days,omitempty"`
	DurationDays   int    `json:"duration_days"`
}

// PricingService computes the final charge for a plan and optional promo code.
type PricingService interface {
	Price(ctx context.Context, planID int64, promocode *string, planType string) (*Quote, error)
}

type pricingService struct {
	plans  repositories.PlanRepository
	promos repositories.PromoRepository
	config repositories.ConfigRepository
}

func NewPricingService(plans repositories.PlanRepository, promos repositories.PromoRepository,
	config repositories.ConfigRepository) PricingService {
	return &pricingService{plans: plans, promos: promos, config: config}
}

// Price resolves the plan, the GST rule and the promo code, then computes
//
//	discounted = max(price - discount, 0)
//	gst        = floor(gst% / 100 * discounted)
//	final      = floor(discounted + gst)
//
// Percent discounts apply to the original price, never to an already
// discounted one; only a single promo applies. A free_days promo
// short-circuits with a free-days quote and skips GST entirely.
func (s *pricingService) Price(ctx context.Context, planID int64, promocode *string, planType string) (*Quote, error) {
	plan, err := s.plans.GetByID(ctx, planID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPlanNotFound
		}
		return nil, fmt.Errorf("fetch plan: %w", err)
	}

	gstPercent, err := s.config.GetGSTPercent(ctx)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTaxConfigMissing
		}
		return nil, fmt.Errorf("fetch gst config: %w", err)
	}

	price := plan.PriceBeforeTax
	discount := 0.0

	if promocode != nil && *promocode != "" {
		promo, err := s.promos.GetActiveByCode(ctx, *promocode)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, &PromoError{Reason: "Invalid or expired promocode"}
			}
			return nil, fmt.Errorf("fetch promocode: %w", err)
		}

		applicable := strings.ToUpper(strings.TrimSpace(derefOr(promo.ApplicablePlan, "ALL")))
		if applicable == "" {
			applicable = "ALL"
		}
		if applicable != "ALL" && applicable != strings.ToUpper(planType) {
			return nil, promoErrorf("This promocode is only valid for %s plans.", strings.ToLower(applicable))
		}

		switch promo.Type {
		case models.PromoFlatDiscount:
			discount = promo.Value
		case models.PromoPercentDiscount:
			discount = promo.Value / 100.0 * price
		case models.PromoFreeDays:
			return &Quote{
				Type:         QuoteFreeDays,
				PlanName:     plan.PlanName,
				FreeDays:     int(promo.Value),
				DurationDays: plan.DurationDays,
			}, nil
		default:
			return nil, fmt.Errorf("unknown promocode type %q", promo.Type)
		}
	}

	discounted := math.Max(price-discount, 0)
	gstAmount := math.Floor(gstPercent / 100.0 * discounted)
	finalPrice := math.Floor(discounted + gstAmount)

	return &Quote{
		Type:           QuoteDiscount,
		PlanName:       plan.PlanName,
		Price:          int64(math.Floor(price)),
		DiscountAmount: int64(math.Floor(discount)),
		GST:            int64(gstAmount),
		FinalPrice:     int64(finalPrice),
		DurationDays:   plan.DurationDays,
	}, nil
}

func derefOr(s *string, fallback string) string {
	if s == nil {
		return fallback
	}
	return *s
}
