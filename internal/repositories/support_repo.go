package repositories

import (
	"context"

	"monktrader/internal/models"
)

type SupportRepository interface {
	Create(ctx context.Context, ticket *models.SupportTicket) (int64, error)
}

type supportRepo struct {
	db Database
}

func NewSupportRepo(db Database) SupportRepository {
	return &supportRepo{db: db}
}

func (r *supportRepo) Create(ctx context.Context, ticket *models.SupportTicket) (int64, error) {
	query := `
		INSERT INTO mt_support_tickets (user_id, subject, message, status, created_at)
		VALUES ($1, $2, $3, 'open', NOW())
		RETURNING id
	`
	var id int64
	err := r.db.QueryRow(ctx, query, ticket.UserID, ticket.Subject, ticket.Message).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}
