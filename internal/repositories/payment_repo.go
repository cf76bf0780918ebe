package repositories

import (
	"context"
	"errors"
	"time"

	"monktrader/internal/models"
)

// ErrAlreadySettled is returned when a verification attempt finds the order
// no longer in created state. Replayed callbacks for an already-paid order
// must not produce a second transaction or subscription.
var ErrAlreadySettled = errors.New("payment order already settled")

// SettlementRecord is everything the settlement unit of work writes: the
// transaction audit row, the order transition and the subscription swap.
type SettlementRecord struct {
	UserID            int64
	PaymentID         string
	RazorpayOrderID   *string
	RazorpaySignature *string
	Amount            float64
	Currency          string
	Email             *string
	Contact           *string
	PaymentType       string
	Receipt           *string
	Promocode         *string
	PlanID            int64
	PlanType          string
	DurationDays      int
}

type PaymentRepository interface {
	CreateOrder(ctx context.Context, order *models.PaymentOrder) error
	GetOrderForUser(ctx context.Context, razorpayOrderID string, userID int64) (*models.PaymentOrder, error)
	Settle(ctx context.Context, rec *SettlementRecord) error
}

type paymentRepo struct {
	db Database
}

func NewPaymentRepo(db Database) PaymentRepository {
	return &paymentRepo{db: db}
}

func (r *paymentRepo) CreateOrder(ctx context.Context, order *models.PaymentOrder) error {
	query := `
		INSERT INTO mt_payment_orders (user_id, razorpay_order_id, plan_id, amount, promocode, status, created_at)
		VALUES ($1, $2, $3, $4, $5, 'created', NOW())
	`
	_, err := r.db.Exec(ctx, query, order.UserID, order.RazorpayOrderID, order.PlanID, order.Amount, order.Promocode)
	return err
}

func (r *paymentRepo) GetOrderForUser(ctx context.Context, razorpayOrderID string, userID int64) (*models.PaymentOrder, error) {
	order := &models.PaymentOrder{}
	query := `
		SELECT id, user_id, razorpay_order_id, plan_id, amount, promocode, status, created_at
		FROM mt_payment_orders
		WHERE razorpay_order_id = $1 AND user_id = $2
	`
	err := r.db.QueryRow(ctx, query, razorpayOrderID, userID).Scan(&order.ID, &order.UserID,
		&order.RazorpayOrderID, &order.PlanID, &order.Amount, &order.Promocode, &order.Status, &order.CreatedAt)
	if err != nil {
		return nil, err
	}
	return order, nil
}

// Settle commits a verified payment in one transaction: audit row, order
// transition guarded on the created status, subscription deactivation and the
// new active subscription. Any failure rolls back the whole unit of work so
// an order can never end up paid without a matching subscription.
func (r *paymentRepo) Settle(ctx context.Context, rec *SettlementRecord) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO mt_transactions (
			user_id, payment_id, razorpay_order_id, razorpay_signature,
			amount, currency, email, contact, payment_status, payment_type,
			receipt, promocode, notes, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 'captured', $9, $10, $11, '{}', NOW())
	`, rec.UserID, rec.PaymentID, rec.RazorpayOrderID, rec.RazorpaySignature,
		rec.Amount, rec.Currency, rec.Email, rec.Contact, rec.PaymentType, rec.Receipt, rec.Promocode)
	if err != nil {
		return err
	}

	if rec.RazorpayOrderID != nil {
		tag, err := tx.Exec(ctx, `
			UPDATE mt_payment_orders
			SET status = 'paid'
			WHERE razorpay_order_id = $1 AND user_id = $2 AND status = 'created'
		`, *rec.RazorpayOrderID, rec.UserID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrAlreadySettled
		}
	}

	_, err = tx.Exec(ctx, `
		UPDATE mt_subscriptions
		SET is_active = FALSE
		WHERE user_id = $1 AND is_active = TRUE
	`, rec.UserID)
	if err != nil {
		return err
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	_, err = tx.Exec(ctx, `
		INSERT INTO mt_subscriptions (
			user_id, plan_id, plan_type, start_date, end_date,
			created_at, is_active, payment_id
		) VALUES ($1, $2, $3, $4, $5, $4, TRUE, $6)
	`, rec.UserID, rec.PlanID, rec.PlanType, today,
		today.AddDate(0, 0, rec.DurationDays), rec.PaymentID)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}
