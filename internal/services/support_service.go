package services

import (
	"context"
	"fmt"

	"monktrader/internal/models"
	"monktrader/internal/notify"
	"monktrader/internal/repositories"
)

type SupportService interface {
	RaiseTicket(ctx context.Context, userID int64, subject, message string) (int64, error)
}

type supportService struct {
	tickets  repositories.SupportRepository
	notifier notify.Notifier
}

func NewSupportService(tickets repositories.SupportRepository, notifier notify.Notifier) SupportService {
	return &supportService{tickets: tickets, notifier: notifier}
}

func (s *supportService) RaiseTicket(ctx context.Context, userID int64, subject, message string) (int64, error) {
	id, err := s.tickets.Create(ctx, &models.SupportTicket{
		UserID:  userID,
		Subject: subject,
		Message: message,
	})
	if err != nil {
		return 0, fmt.Errorf("create ticket: %w", err)
	}

	s.notifier.NotifySupport(ctx, fmt.Sprintf("[Support Ticket #%d] UID %d: %s: %s", id, userID, subject, message))
	return id, nil
}
