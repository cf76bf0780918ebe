package services

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"monktrader/internal/models"
	"monktrader/internal/repositories"
)

// Shared in-memory fakes for the service tests.

type stubPlanRepo struct {
	plans map[int64]*models.Plan
}

func (s *stubPlanRepo) GetByID(ctx context.Context, id int64) (*models.Plan, error) {
	if plan, ok := s.plans[id]; ok {
		return plan, nil
	}
	return nil, pgx.ErrNoRows
}

func (s *stubPlanRepo) ListActiveByDevice(ctx context.Context, deviceType string) ([]*models.Plan, error) {
	var out []*models.Plan
	for _, p := range s.plans {
		out = append(out, p)
	}
	return out, nil
}

type stubPromoRepo struct {
	promos map[string]*models.Promocode
}

// GetActiveByCode applies the same status and validity-window filter the SQL
// query does.
func (s *stubPromoRepo) GetActiveByCode(ctx context.Context, code string) (*models.Promocode, error) {
	promo, ok := s.promos[strings.ToLower(code)]
	if !ok || promo.Status != "active" {
		return nil, pgx.ErrNoRows
	}
	now := time.Now()
	if now.Before(promo.ValidFrom) || now.After(promo.ValidTo) {
		return nil, pgx.ErrNoRows
	}
	return promo, nil
}

type stubConfigRepo struct {
	gst float64
	err error
}

func (s *stubConfigRepo) GetGSTPercent(ctx context.Context) (float64, error) {
	if s.err != nil {
		return 0, s.err
	}
	return s.gst, nil
}

type stubPaymentRepo struct {
	orders    map[string]*models.PaymentOrder
	created   []*models.PaymentOrder
	settled   []*repositories.SettlementRecord
	settleErr error
}

func (s *stubPaymentRepo) CreateOrder(ctx context.Context, order *models.PaymentOrder) error {
	s.created = append(s.created, order)
	return nil
}

func (s *stubPaymentRepo) GetOrderForUser(ctx context.Context, razorpayOrderID string, userID int64) (*models.PaymentOrder, error) {
	order, ok := s.orders[razorpayOrderID]
	if !ok || order.UserID != userID {
		return nil, pgx.ErrNoRows
	}
	return order, nil
}

func (s *stubPaymentRepo) Settle(ctx context.Context, rec *repositories.SettlementRecord) error {
	if s.settleErr != nil {
		return s.settleErr
	}
	s.settled = append(s.settled, rec)
	return nil
}

type stubRazorpay struct {
	order       *RazorpayOrder
	orderErr    error
	orderCalls  int
	validSig    bool
	verifyCalls int
}

func (s *stubRazorpay) CreateOrder(ctx context.Context, amountPaise int64, receipt string) (*RazorpayOrder, error) {
	s.orderCalls++
	if s.orderErr != nil {
		return nil, s.orderErr
	}
	order := *s.order
	order.Amount = amountPaise
	order.Receipt = receipt
	return &order, nil
}

func (s *stubRazorpay) VerifySignature(orderID, paymentID, signature string) bool {
	s.verifyCalls++
	return s.validSig
}

type stubUserRepo struct {
	byEmail map[string]*models.User
	byID    map[int64]*models.User
	nextID  int64
	stamped []int64
}

func (s *stubUserRepo) GetByID(ctx context.Context, id int64) (*models.User, error) {
	if u, ok := s.byID[id]; ok {
		return u, nil
	}
	return nil, pgx.ErrNoRows
}

func (s *stubUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if u, ok := s.byEmail[strings.ToLower(email)]; ok {
		return u, nil
	}
	return nil, pgx.ErrNoRows
}

func (s *stubUserRepo) FindByEmailOrProvider(ctx context.Context, email *string, providerUserID, provider string) (*models.User, error) {
	if email != nil {
		if u, ok := s.byEmail[strings.ToLower(*email)]; ok {
			return u, nil
		}
	}
	for _, u := range s.byID {
		if u.ProviderUserID != nil && *u.ProviderUserID == providerUserID {
			return u, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (s *stubUserRepo) Create(ctx context.Context, user *models.User) (int64, error) {
	s.nextID++
	user.ID = s.nextID
	if s.byID == nil {
		s.byID = map[int64]*models.User{}
	}
	s.byID[user.ID] = user
	if user.Email != nil {
		if s.byEmail == nil {
			s.byEmail = map[string]*models.User{}
		}
		s.byEmail[strings.ToLower(*user.Email)] = user
	}
	return user.ID, nil
}

func (s *stubUserRepo) TouchJWTStamps(ctx context.Context, userID int64, issuedAt, expiresAt time.Time) error {
	s.stamped = append(s.stamped, userID)
	return nil
}

func (s *stubUserRepo) UpdateProfile(ctx context.Context, userID int64, firstName, lastName, phoneNumber *string) error {
	return nil
}

func (s *stubUserRepo) ListBlockedIDs(ctx context.Context) ([]int64, error) {
	var ids []int64
	for id, u := range s.byID {
		if u.IsBlocked {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

type stubOTPRepo struct {
	latest      *models.OTP
	created     []string
	reissued    []int64
	invalidated []int64
}

func (s *stubOTPRepo) GetLatestByEmail(ctx context.Context, email string) (*models.OTP, error) {
	if s.latest == nil {
		return nil, pgx.ErrNoRows
	}
	return s.latest, nil
}

func (s *stubOTPRepo) Create(ctx context.Context, email, code string, now, expiresAt time.Time) error {
	s.created = append(s.created, code)
	return nil
}

func (s *stubOTPRepo) Reissue(ctx context.Context, id int64, code string, now, expiresAt time.Time) error {
	s.reissued = append(s.reissued, id)
	return nil
}

func (s *stubOTPRepo) GetValid(ctx context.Context, email, code string) (*models.OTP, error) {
	if s.latest != nil && s.latest.IsValid && s.latest.Code == code &&
		strings.EqualFold(s.latest.Email, email) && time.Now().Before(s.latest.ExpiresAt) {
		return s.latest, nil
	}
	return nil, pgx.ErrNoRows
}

func (s *stubOTPRepo) Invalidate(ctx context.Context, id int64) error {
	s.invalidated = append(s.invalidated, id)
	if s.latest != nil && s.latest.ID == id {
		s.latest.IsValid = false
	}
	return nil
}

func (s *stubOTPRepo) DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	return 0, nil
}

type stubSubscriptionRepo struct {
	active    *models.Subscription
	freeTiers []int64
}

func (s *stubSubscriptionRepo) GetActiveByUser(ctx context.Context, userID int64) (*models.Subscription, error) {
	if s.active == nil {
		return nil, pgx.ErrNoRows
	}
	return s.active, nil
}

func (s *stubSubscriptionRepo) CreateFreeTier(ctx context.Context, userID int64, planType string, durationDays int) error {
	s.freeTiers = append(s.freeTiers, userID)
	return nil
}

type stubCache struct {
	strings map[string]string
}

func (s *stubCache) GetPlans(ctx context.Context, deviceType string) ([]*models.Plan, error) {
	return nil, nil
}

func (s *stubCache) SetPlans(ctx context.Context, deviceType string, plans []*models.Plan, ttl time.Duration) error {
	return nil
}

func (s *stubCache) SetString(ctx context.Context, key, value string, ttl time.Duration) error {
	if s.strings == nil {
		s.strings = map[string]string{}
	}
	s.strings[key] = value
	return nil
}

func (s *stubCache) GetString(ctx context.Context, key string) (string, error) {
	return s.strings[key], nil
}

func (s *stubCache) Delete(ctx context.Context, key string) error {
	delete(s.strings, key)
	return nil
}

type stubMailer struct {
	sent []string
	err  error
}

func (s *stubMailer) SendOTP(ctx context.Context, email, code string) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, code)
	return nil
}

type stubProviderVerifier struct {
	identity *ProviderIdentity
	err      error
}

func (s *stubProviderVerifier) VerifyGoogle(ctx context.Context, idToken string) (*ProviderIdentity, error) {
	return s.identity, s.err
}

func (s *stubProviderVerifier) VerifyApple(ctx context.Context, idToken string) (*ProviderIdentity, error) {
	return s.identity, s.err
}

type stubPricing struct {
	quote *Quote
	err   error
	calls int
}

func (s *stubPricing) Price(ctx context.Context, planID int64, promocode *string, planType string) (*Quote, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.quote, nil
}
