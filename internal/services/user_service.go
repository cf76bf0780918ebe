package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"monktrader/internal/models"
	"monktrader/internal/repositories"
)

var ErrUserNotFound = errors.New("user not found")

// Profile is the account view returned to the app: the user plus whatever
// subscription currently grants access.
type Profile struct {
	User         *models.User         `json:"user"`
	Subscription *models.Subscription `json:"subscription"`
}

type UserService interface {
	GetProfile(ctx context.Context, userID int64) (*Profile, error)
	UpdateProfile(ctx context.Context, userID int64, firstName, lastName, phoneNumber *string) error
}

type userService struct {
	users repositories.UserRepository
	subs  repositories.SubscriptionRepository
}

func NewUserService(users repositories.UserRepository, subs repositories.SubscriptionRepository) UserService {
	return &userService{users: users, subs: subs}
}

func (s *userService) GetProfile(ctx context.Context, userID int64) (*Profile, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("fetch user: %w", err)
	}

	sub, err := s.subs.GetActiveByUser(ctx, userID)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("fetch subscription: %w", err)
	}

	return &Profile{User: user, Subscription: sub}, nil
}

func (s *userService) UpdateProfile(ctx context.Context, userID int64, firstName, lastName, phoneNumber *string) error {
	return s.users.UpdateProfile(ctx, userID, firstName, lastName, phoneNumber)
}
