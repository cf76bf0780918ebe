package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"monktrader/internal/models"
	"monktrader/internal/notify"
	"monktrader/internal/repositories"
)

func settlementFixture(pricing PricingService, gateway RazorpayClient,
	payments repositories.PaymentRepository) SettlementService {
	plans := &stubPlanRepo{plans: map[int64]*models.Plan{
		1: {ID: 1, PlanName: "MONTHLY", DurationDays: 30, PriceBeforeTax: 999},
	}}
	return NewSettlementService(pricing, gateway, payments, plans, notify.NopNotifier{})
}

func paidQuote() *Quote {
	return &Quote{
		Type:         QuoteDiscount,
		PlanName:     "MONTHLY",
		Price:        999,
		GST:          179,
		FinalPrice:   1178,
		DurationDays: 30,
	}
}

func TestCreateOrderSubmitsFinalAmountInPaise(t *testing.T) {
	pricing := &stubPricing{quote: paidQuote()}
	gateway := &stubRazorpay{order: &RazorpayOrder{ID: "order_1", Currency: "INR", Status: "created"}}
	payments := &stubPaymentRepo{}
	svc := settlementFixture(pricing, gateway, payments)

	order, err := svc.CreateOrder(context.Background(), 7, 1, nil)
	require.NoError(t, err)

	assert.Equal(t, int64(117800), order.Amount)
	require.Len(t, payments.created, 1)
	assert.Equal(t, int64(7), payments.created[0].UserID)
	assert.Equal(t, "order_1", payments.created[0].RazorpayOrderID)
	assert.Equal(t, float64(1178), payments.created[0].Amount)
}

func TestCreateOrderRejectsFreeDaysPromo(t *testing.T) {
	pricing := &stubPricing{quote: &Quote{Type: QuoteFreeDays, FreeDays: 30}}
	gateway := &stubRazorpay{order: &RazorpayOrder{ID: "order_1"}}
	svc := settlementFixture(pricing, gateway, &stubPaymentRepo{})

	_, err := svc.CreateOrder(context.Background(), 7, 1, strPtr("TRIAL30"))
	var promoErr *PromoError
	require.ErrorAs(t, err, &promoErr)
	assert.Zero(t, gateway.orderCalls)
}

func TestCreateOrderGatewayFailure(t *testing.T) {
	pricing := &stubPricing{quote: paidQuote()}
	gateway := &stubRazorpay{orderErr: assert.AnError}
	payments := &stubPaymentRepo{}
	svc := settlementFixture(pricing, gateway, payments)

	_, err := svc.CreateOrder(context.Background(), 7, 1, nil)
	assert.ErrorIs(t, err, ErrGatewayUnavailable)
	assert.Empty(t, payments.created)
}

func TestCreateOrderUnknownPlan(t *testing.T) {
	svc := settlementFixture(&stubPricing{quote: paidQuote()}, &stubRazorpay{}, &stubPaymentRepo{})

	_, err := svc.CreateOrder(context.Background(), 7, 404, nil)
	assert.ErrorIs(t, err, ErrPlanNotFound)
}

func TestVerifyRazorpayUnknownOrder(t *testing.T) {
	pricing := &stubPricing{quote: paidQuote()}
	gateway := &stubRazorpay{validSig: true}
	svc := settlementFixture(pricing, gateway, &stubPaymentRepo{})

	_, err := svc.VerifyRazorpayPayment(context.Background(), 7, &RazorpayVerification{
		PaymentID:       "pay_1",
		RazorpayOrderID: "order_unknown",
		Amount:          1178,
	})
	assert.ErrorIs(t, err, ErrOrderMismatch)
}

func TestVerifyRazorpayAmountMismatchBeforeSignature(t *testing.T) {
	pricing := &stubPricing{quote: paidQuote()}
	gateway := &stubRazorpay{validSig: true}
	payments := &stubPaymentRepo{orders: map[string]*models.PaymentOrder{
		"order_1": {UserID: 7, RazorpayOrderID: "order_1", PlanID: 1, Amount: 1178, Status: models.OrderStatusCreated},
	}}
	svc := settlementFixture(pricing, gateway, payments)

	_, err := svc.VerifyRazorpayPayment(context.Background(), 7, &RazorpayVerification{
		PaymentID:       "pay_1",
		RazorpayOrderID: "order_1",
		Amount:          999, // does not match the stored 1178
	})
	assert.ErrorIs(t, err, ErrOrderMismatch)
	assert.Zero(t, gateway.verifyCalls)
	assert.Empty(t, payments.settled)
}

func TestVerifyRazorpayInvalidSignature(t *testing.T) {
	pricing := &stubPricing{quote: paidQuote()}
	gateway := &stubRazorpay{validSig: false}
	payments := &stubPaymentRepo{orders: map[string]*models.PaymentOrder{
		"order_1": {UserID: 7, RazorpayOrderID: "order_1", PlanID: 1, Amount: 1178, Status: models.OrderStatusCreated},
	}}
	svc := settlementFixture(pricing, gateway, payments)

	_, err := svc.VerifyRazorpayPayment(context.Background(), 7, &RazorpayVerification{
		PaymentID:         "pay_1",
		RazorpayOrderID:   "order_1",
		RazorpaySignature: "bogus",
		Amount:            1178,
	})
	assert.ErrorIs(t, err, ErrInvalidSignature)
	assert.Empty(t, payments.settled)
}

func TestVerifyRazorpaySettlesRecomputedAmount(t *testing.T) {
	pricing := &stubPricing{quote: paidQuote()}
	gateway := &stubRazorpay{validSig: true}
	payments := &stubPaymentRepo{orders: map[string]*models.PaymentOrder{
		"order_1": {UserID: 7, RazorpayOrderID: "order_1", PlanID: 1, Amount: 1178, Status: models.OrderStatusCreated},
	}}
	svc := settlementFixture(pricing, gateway, payments)

	amount, err := svc.VerifyRazorpayPayment(context.Background(), 7, &RazorpayVerification{
		PaymentID:         "pay_1",
		RazorpayOrderID:   "order_1",
		RazorpaySignature: "sig",
		Amount:            1178,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1178), amount)

	require.Len(t, payments.settled, 1)
	rec := payments.settled[0]
	assert.Equal(t, int64(7), rec.UserID)
	assert.Equal(t, "pay_1", rec.PaymentID)
	assert.Equal(t, float64(1178), rec.Amount)
	assert.Equal(t, models.PaymentTypeRazorpay, rec.PaymentType)
	assert.Equal(t, "MONTHLY", rec.PlanType)
	assert.Equal(t, 30, rec.DurationDays)
}

func TestVerifyRazorpayReplayedCallback(t *testing.T) {
	pricing := &stubPricing{quote: paidQuote()}
	gateway := &stubRazorpay{validSig: true}
	payments := &stubPaymentRepo{
		orders: map[string]*models.PaymentOrder{
			"order_1": {UserID: 7, RazorpayOrderID: "order_1", PlanID: 1, Amount: 1178, Status: models.OrderStatusPaid},
		},
		settleErr: repositories.ErrAlreadySettled,
	}
	svc := settlementFixture(pricing, gateway, payments)

	_, err := svc.VerifyRazorpayPayment(context.Background(), 7, &RazorpayVerification{
		PaymentID:         "pay_1",
		RazorpayOrderID:   "order_1",
		RazorpaySignature: "sig",
		Amount:            1178,
	})
	assert.ErrorIs(t, err, repositories.ErrAlreadySettled)
}

func TestVerifyApplePaymentRequiresReceipt(t *testing.T) {
	svc := settlementFixture(&stubPricing{quote: paidQuote()}, &stubRazorpay{}, &stubPaymentRepo{})

	_, err := svc.VerifyApplePayment(context.Background(), 7, &AppleVerification{
		PaymentID: "txn_1",
		PlanID:    1,
		Amount:    1178,
	})
	assert.ErrorIs(t, err, ErrOrderMismatch)
}

func TestVerifyApplePaymentRejectsClaimedAmountMismatch(t *testing.T) {
	payments := &stubPaymentRepo{}
	svc := settlementFixture(&stubPricing{quote: paidQuote()}, &stubRazorpay{}, payments)

	_, err := svc.VerifyApplePayment(context.Background(), 7, &AppleVerification{
		PaymentID: "txn_1",
		Receipt:   "base64receipt",
		PlanID:    1,
		Amount:    1, // computed price is 1178
	})
	assert.ErrorIs(t, err, ErrOrderMismatch)
	assert.Empty(t, payments.settled)
}

func TestVerifyApplePaymentSettles(t *testing.T) {
	payments := &stubPaymentRepo{}
	svc := settlementFixture(&stubPricing{quote: paidQuote()}, &stubRazorpay{}, payments)

	amount, err := svc.VerifyApplePayment(context.Background(), 7, &AppleVerification{
		PaymentID: "txn_1",
		Receipt:   "base64receipt",
		PlanID:    1,
		Amount:    1178,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1178), amount)

	require.Len(t, payments.settled, 1)
	rec := payments.settled[0]
	assert.Equal(t, models.PaymentTypeApple, rec.PaymentType)
	require.NotNil(t, rec.Receipt)
	assert.Equal(t, "base64receipt", *rec.Receipt)
	assert.Nil(t, rec.RazorpayOrderID)
}

func TestVerifyApplePaymentRejectsFreeDaysPromo(t *testing.T) {
	pricing := &stubPricing{quote: &Quote{Type: QuoteFreeDays, FreeDays: 30}}
	svc := settlementFixture(pricing, &stubRazorpay{}, &stubPaymentRepo{})

	_, err := svc.VerifyApplePayment(context.Background(), 7, &AppleVerification{
		PaymentID: "txn_1",
		Receipt:   "base64receipt",
		PlanID:    1,
	})
	var promoErr *PromoError
	assert.ErrorAs(t, err, &promoErr)
}
