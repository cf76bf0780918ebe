package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"monktrader/internal/models"
	"monktrader/internal/notify"
	"monktrader/internal/repositories"
)

// RazorpayVerification is the signed callback the checkout SDK posts back
// after a successful payment.
type RazorpayVerification struct {
	PaymentID         string
	RazorpayOrderID   string
	RazorpaySignature string
	Amount            float64
	Email             *string
	Contact           *string
	Promocode         *string
}

// AppleVerification is the StoreKit receipt variant. There is no stored order
// for this flow; the claimed amount is checked against the recomputed price
// instead.
type AppleVerification struct {
	PaymentID string
	Receipt   string
	Amount    float64
	PlanID    int64
	Email     *string
	Contact   *string
	Promocode *string
}

// SettlementService creates gateway orders from quotes and turns verified
// callbacks into transactions and subscription changes.
type SettlementService interface {
	CreateOrder(ctx context.Context, userID, planID int64, promocode *string) (*RazorpayOrder, error)
	VerifyRazorpayPayment(ctx context.Context, userID int64, req *RazorpayVerification) (int64, error)
	VerifyApplePayment(ctx context.Context, userID int64, req *AppleVerification) (int64, error)
}

type settlementService struct {
	pricing  PricingService
	razorpay RazorpayClient
	payments repositories.PaymentRepository
	plans    repositories.PlanRepository
	notifier notify.Notifier
}

func NewSettlementService(pricing PricingService, razorpay RazorpayClient,
	payments repositories.PaymentRepository, plans repositories.PlanRepository,
	notifier notify.Notifier) SettlementService {
	return &settlementService{
		pricing:  pricing,
		razorpay: razorpay,
		payments: payments,
		plans:    plans,
		notifier: notifier,
	}
}

// CreateOrder prices the plan, submits a gateway order for the final amount
// in paise and persists the order snapshot in created state. The snapshot is
// what verification later compares the claimed amount against.
func (s *settlementService) CreateOrder(ctx context.Context, userID, planID int64, promocode *string) (*RazorpayOrder, error) {
	plan, err := s.plans.GetByID(ctx, planID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPlanNotFound
		}
		return nil, fmt.Errorf("fetch plan: %w", err)
	}

	quote, err := s.pricing.Price(ctx, planID, promocode, plan.PlanName)
	if err != nil {
		return nil, err
	}
	if quote.Type == QuoteFreeDays {
		return nil, &PromoError{Reason: "Promocode grants free days; no payment order is required"}
	}

	order, err := s.razorpay.CreateOrder(ctx, quote.FinalPrice*100, uuid.NewString())
	if err != nil {
		s.notifier.NotifyInternal(ctx, fmt.Sprintf("[Razorpay Order Error] UID %d: %v", userID, err))
		return nil, ErrGatewayUnavailable
	}

	if err := s.payments.CreateOrder(ctx, &models.PaymentOrder{
		UserID:          userID,
		RazorpayOrderID: order.ID,
		PlanID:          planID,
		Amount:          float64(quote.FinalPrice),
		Promocode:       promocode,
	}); err != nil {
		s.notifier.NotifyInternal(ctx, fmt.Sprintf("[Order Persist Error] UID %d, order %s: %v", userID, order.ID, err))
		return nil, fmt.Errorf("persist payment order: %w", err)
	}

	return order, nil
}

// VerifyRazorpayPayment settles a signed gateway callback. The stored order's
// snapshot guards against edited payloads, the HMAC guards against forged
// ones, and the price is recomputed from stored identifiers so no
// client-supplied amount ever reaches the financial record.
func (s *settlementService) VerifyRazorpayPayment(ctx context.Context, userID int64, req *RazorpayVerification) (int64, error) {
	order, err := s.payments.GetOrderForUser(ctx, req.RazorpayOrderID, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.notifier.NotifyInternal(ctx, fmt.Sprintf("[Razorpay Verify Error] UID %d: unknown order %s", userID, req.RazorpayOrderID))
			return 0, ErrOrderMismatch
		}
		return 0, fmt.Errorf("fetch payment order: %w", err)
	}
	if order.Amount != req.Amount {
		s.notifier.NotifyInternal(ctx, fmt.Sprintf("[Razorpay Verify Error] UID %d, order %s: amount mismatch (claimed %.2f, stored %.2f)",
			userID, req.RazorpayOrderID, req.Amount, order.Amount))
		return 0, ErrOrderMismatch
	}

	if !s.razorpay.VerifySignature(req.RazorpayOrderID, req.PaymentID, req.RazorpaySignature) {
		s.notifier.NotifyInternal(ctx, fmt.Sprintf("[Razorpay Verify Error] UID %d, order %s: invalid signature", userID, req.RazorpayOrderID))
		return 0, ErrInvalidSignature
	}

	quote, err := s.reprice(ctx, order.PlanID, req.Promocode)
	if err != nil {
		s.notifier.NotifyInternal(ctx, fmt.Sprintf("[Razorpay Verify Error] UID %d: %v", userID, err))
		return 0, err
	}

	err = s.payments.Settle(ctx, &repositories.SettlementRecord{
		UserID:            userID,
		PaymentID:         req.PaymentID,
		RazorpayOrderID:   &req.RazorpayOrderID,
		RazorpaySignature: &req.RazorpaySignature,
		Amount:            float64(quote.FinalPrice),
		Currency:          "INR",
		Email:             req.Email,
		Contact:           req.Contact,
		PaymentType:       models.PaymentTypeRazorpay,
		Promocode:         req.Promocode,
		PlanID:            order.PlanID,
		PlanType:          quote.PlanName,
		DurationDays:      quote.DurationDays,
	})
	if err != nil {
		s.notifier.NotifyInternal(ctx, fmt.Sprintf("[Razorpay Verify Error] UID %d, order %s: %v", userID, req.RazorpayOrderID, err))
		return 0, err
	}

	s.notifier.NotifyInternal(ctx, fmt.Sprintf("[Razorpay Verified] UID %d, Rs.%d", userID, quote.FinalPrice))
	return quote.FinalPrice, nil
}

// VerifyApplePayment settles an App Store purchase. There is no prior order
// snapshot, so the claimed amount is compared against the recomputed price;
// a mismatch is rejected rather than trusted.
func (s *settlementService) VerifyApplePayment(ctx context.Context, userID int64, req *AppleVerification) (int64, error) {
	if req.Receipt == "" {
		return 0, ErrOrderMismatch
	}

	quote, err := s.reprice(ctx, req.PlanID, req.Promocode)
	if err != nil {
		s.notifier.NotifyInternal(ctx, fmt.Sprintf("[Apple Verify Error] UID %d: %v", userID, err))
		return 0, err
	}

	if float64(quote.FinalPrice) != req.Amount {
		s.notifier.NotifyInternal(ctx, fmt.Sprintf("[Apple Verify Error] UID %d: amount mismatch (claimed %.2f, computed %d)",
			userID, req.Amount, quote.FinalPrice))
		return 0, ErrOrderMismatch
	}

	err = s.payments.Settle(ctx, &repositories.SettlementRecord{
		UserID:       userID,
		PaymentID:    req.PaymentID,
		Amount:       float64(quote.FinalPrice),
		Currency:     "INR",
		Email:        req.Email,
		Contact:      req.Contact,
		PaymentType:  models.PaymentTypeApple,
		Receipt:      &req.Receipt,
		Promocode:    req.Promocode,
		PlanID:       req.PlanID,
		PlanType:     quote.PlanName,
		DurationDays: quote.DurationDays,
	})
	if err != nil {
		s.notifier.NotifyInternal(ctx, fmt.Sprintf("[Apple Verify Error] UID %d: %v", userID, err))
		return 0, err
	}

	s.notifier.NotifyInternal(ctx, fmt.Sprintf("[Apple Verified] UID %d, Rs.%d", userID, quote.FinalPrice))
	return quote.FinalPrice, nil
}

// reprice re-runs the pricing engine against stored identifiers. The result
// is authoritative for the amount written to the transaction record. A promo
// deactivated between order creation and verification fails here.
func (s *settlementService) reprice(ctx context.Context, planID int64, promocode *string) (*Quote, error) {
	plan, err := s.plans.GetByID(ctx, planID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPlanNotFound
		}
		return nil, fmt.Errorf("fetch plan: %w", err)
	}

	quote, err := s.pricing.Price(ctx, planID, promocode, plan.PlanName)
	if err != nil {
		return nil, err
	}
	if quote.Type == QuoteFreeDays {
		return nil, &PromoError{Reason: "Free-days promocode cannot settle a payment"}
	}
	return quote, nil
}
