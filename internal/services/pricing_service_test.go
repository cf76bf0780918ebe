package services

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"monktrader/internal/models"
)

func strPtr(s string) *string { return &s }

func pricingFixture(gst float64, promos map[string]*models.Promocode) PricingService {
	plans := &stubPlanRepo{plans: map[int64]*models.Plan{
		1: {ID: 1, PlanName: "MONTHLY", DurationDays: 30, PriceBeforeTax: 999},
		2: {ID: 2, PlanName: "ANNUAL", DurationDays: 365, PriceBeforeTax: 7999},
	}}
	return NewPricingService(plans, &stubPromoRepo{promos: promos}, &stubConfigRepo{gst: gst})
}

func activePromo(code, kind string, value float64, applicable *string) *models.Promocode {
	return &models.Promocode{
		Code:           code,
		Type:           kind,
		Value:          value,
		ApplicablePlan: applicable,
		Status:         "active",
		ValidFrom:      time.Now().Add(-time.Hour),
		ValidTo:        time.Now().Add(time.Hour),
	}
}

func TestPriceWithoutPromocode(t *testing.T) {
	svc := pricingFixture(18, nil)

	quote, err := svc.Price(context.Background(), 1, nil, "MONTHLY")
	require.NoError(t, err)

	assert.Equal(t, QuoteDiscount, quote.Type)
	assert.Equal(t, int64(999), quote.Price)
	assert.Equal(t, int64(0), quote.DiscountAmount)
	assert.Equal(t, int64(179), quote.GST)
	assert.Equal(t, int64(1178), quote.FinalPrice)
	assert.Equal(t, 30, quote.DurationDays)
}

func TestPriceFlatDiscount(t *testing.T) {
	svc := pricingFixture(18, map[string]*models.Promocode{
		"save100": activePromo("SAVE100", models.PromoFlatDiscount, 100, nil),
	})

	quote, err := svc.Price(context.Background(), 1, strPtr("SAVE100"), "MONTHLY")
	require.NoError(t, err)

	// 999 - 100 = 899; floor(18% of 899) = 161; 899 + 161 = 1060.
	assert.Equal(t, int64(999), quote.Price)
	assert.Equal(t, int64(100), quote.DiscountAmount)
	assert.Equal(t, int64(161), quote.GST)
	assert.Equal(t, int64(1060), quote.FinalPrice)
}

func TestPricePercentDiscountOfOriginalPrice(t *testing.T) {
	svc := pricingFixture(18, map[string]*models.Promocode{
		"ten": activePromo("TEN", models.PromoPercentDiscount, 10, nil),
	})

	quote, err := svc.Price(context.Background(), 1, strPtr("TEN"), "MONTHLY")
	require.NoError(t, err)

	// 10% of 999 = 99.9; discounted = 899.1; gst = floor(161.838) = 161;
	// final = floor(899.1 + 161) = 1060.
	assert.Equal(t, int64(99), quote.DiscountAmount)
	assert.Equal(t, int64(161), quote.GST)
	assert.Equal(t, int64(1060), quote.FinalPrice)
}

func TestPriceFlatDiscountClampsAtZero(t *testing.T) {
	svc := pricingFixture(18, map[string]*models.Promocode{
		"mega": activePromo("MEGA", models.PromoFlatDiscount, 5000, nil),
	})

	quote, err := svc.Price(context.Background(), 1, strPtr("MEGA"), "MONTHLY")
	require.NoError(t, err)

	assert.Equal(t, int64(0), quote.GST)
	assert.Equal(t, int64(0), quote.FinalPrice)
}

func TestPriceFreeDaysSkipsAmounts(t *testing.T) {
	svc := pricingFixture(18, map[string]*models.Promocode{
		"trial30": activePromo("TRIAL30", models.PromoFreeDays, 30, nil),
	})

	quote, err := svc.Price(context.Background(), 1, strPtr("TRIAL30"), "MONTHLY")
	require.NoError(t, err)

	assert.Equal(t, QuoteFreeDays, quote.Type)
	assert.Equal(t, 30, quote.FreeDays)
	assert.Zero(t, quote.FinalPrice)
	assert.Zero(t, quote.GST)
}

func TestPricePlanRestriction(t *testing.T) {
	svc := pricingFixture(18, map[string]*models.Promocode{
		"annual50": activePromo("ANNUAL50", models.PromoFlatDiscount, 50, strPtr("ANNUAL")),
	})

	_, err := svc.Price(context.Background(), 1, strPtr("ANNUAL50"), "MONTHLY")
	var promoErr *PromoError
	require.ErrorAs(t, err, &promoErr)
	assert.Equal(t, "This promocode is only valid for annual plans.", promoErr.Reason)

	// Restriction matching is case-insensitive on the plan type.
	quote, err := svc.Price(context.Background(), 2, strPtr("ANNUAL50"), "annual")
	require.NoError(t, err)
	assert.Equal(t, int64(50), quote.DiscountAmount)
}

func TestPriceWildcardRestrictionAppliesEverywhere(t *testing.T) {
	svc := pricingFixture(18, map[string]*models.Promocode{
		"any": activePromo("ANY", models.PromoFlatDiscount, 10, strPtr("ALL")),
	})

	_, err := svc.Price(context.Background(), 1, strPtr("ANY"), "MONTHLY")
	assert.NoError(t, err)
	_, err = svc.Price(context.Background(), 2, strPtr("ANY"), "ANNUAL")
	assert.NoError(t, err)
}

func TestPricePromocodeOutsideValidityWindow(t *testing.T) {
	expired := activePromo("OLD", models.PromoFlatDiscount, 100, nil)
	expired.ValidTo = time.Now().Add(-time.Minute)
	future := activePromo("SOON", models.PromoFlatDiscount, 100, nil)
	future.ValidFrom = time.Now().Add(time.Hour)

	svc := pricingFixture(18, map[string]*models.Promocode{
		"old":  expired,
		"soon": future,
	})

	for _, code := range []string{"OLD", "SOON"} {
		_, err := svc.Price(context.Background(), 1, &code, "MONTHLY")
		var promoErr *PromoError
		require.ErrorAs(t, err, &promoErr)
		assert.Equal(t, "Invalid or expired promocode", promoErr.Reason)
	}
}

func TestPriceUnknownPromocode(t *testing.T) {
	svc := pricingFixture(18, nil)

	_, err := svc.Price(context.Background(), 1, strPtr("NOPE"), "MONTHLY")
	var promoErr *PromoError
	require.ErrorAs(t, err, &promoErr)
	assert.Equal(t, "Invalid or expired promocode", promoErr.Reason)
}

func TestPricePlanNotFound(t *testing.T) {
	svc := pricingFixture(18, nil)

	_, err := svc.Price(context.Background(), 404, nil, "MONTHLY")
	assert.ErrorIs(t, err, ErrPlanNotFound)
}

func TestPriceMissingTaxConfig(t *testing.T) {
	plans := &stubPlanRepo{plans: map[int64]*models.Plan{
		1: {ID: 1, PlanName: "MONTHLY", DurationDays: 30, PriceBeforeTax: 999},
	}}
	svc := NewPricingService(plans, &stubPromoRepo{}, &stubConfigRepo{err: pgx.ErrNoRows})

	_, err := svc.Price(context.Background(), 1, nil, "MONTHLY")
	assert.ErrorIs(t, err, ErrTaxConfigMissing)
}
