package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jackc/pgx/v5"

	"monktrader/internal/caching"
	"monktrader/internal/models"
	"monktrader/internal/notify"
	"monktrader/internal/repositories"
)

const (
	otpTTL          = 5 * time.Minute
	otpResendWindow = 60 * time.Second
	otpMaxAttempts  = 3
	accessTokenTTL  = 30 * 24 * time.Hour

	// New accounts get a hundred-year free-tier window instead of a
	// nullable end date.
	freeTierPlanType = "FREE"
	freeTierDays     = 36500
)

// AuthResult is what both login flows hand back to the handler.
type AuthResult struct {
	Token     string `json:"token"`
	UserID    int64  `json:"user_id"`
	IsNewUser bool   `json:"is_new_user"`
}

type SocialLoginRequest struct {
	Platform    string
	IDToken     string
	Email       *string
	PhoneNumber *string
	FirstName   *string
	LastName    *string
}

type AuthService interface {
	GenerateOTP(ctx context.Context, email string) error
	VerifyOTP(ctx context.Context, email, code string) (*AuthResult, error)
	SocialLogin(ctx context.Context, req *SocialLoginRequest) (*AuthResult, error)
}

type authService struct {
	users     repositories.UserRepository
	otps      repositories.OTPRepository
	subs      repositories.SubscriptionRepository
	cache     caching.CacheService
	mailer    Mailer
	providers ProviderVerifier
	notifier  notify.Notifier
	jwtSecret []byte
}

func NewAuthService(users repositories.UserRepository, otps repositories.OTPRepository,
	subs repositories.SubscriptionRepository, cache caching.CacheService, mailer Mailer,
	providers ProviderVerifier, notifier notify.Notifier, jwtSecret string) AuthService {
	return &authService{
		users:     users,
		otps:      otps,
		subs:      subs,
		cache:     cache,
		mailer:    mailer,
		providers: providers,
		notifier:  notifier,
		jwtSecret: []byte(jwtSecret),
	}
}

// GenerateOTP issues a 6-digit code, throttled to one send per minute and
// three sends per code lifetime, and mails it out.
func (s *authService) GenerateOTP(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	now := time.Now().UTC()

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("fetch user: %w", err)
	}
	if user != nil && user.IsBlocked {
		s.notifier.NotifyInternal(ctx, fmt.Sprintf("[Blocked OTP Attempt] Email: %s", email))
		return ErrUserBlocked
	}

	// Redis-side resend throttle; the row-level checks below back it up
	// if Redis was flushed.
	throttleKey := fmt.Sprintf("monktrader:otp_throttle:%s", email)
	if val, err := s.cache.GetString(ctx, throttleKey); err == nil && val != "" {
		return ErrOTPThrottled
	}

	recent, err := s.otps.GetLatestByEmail(ctx, email)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("fetch otp: %w", err)
	}
	if recent != nil {
		if now.Sub(recent.LastSentAt) < otpResendWindow {
			return ErrOTPThrottled
		}
		if recent.AttemptCount >= otpMaxAttempts {
			return ErrOTPLimitExceeded
		}
	}

	code, err := randomOTP()
	if err != nil {
		return fmt.Errorf("generate otp: %w", err)
	}

	expiresAt := now.Add(otpTTL)
	if recent != nil {
		err = s.otps.Reissue(ctx, recent.ID, code, now, expiresAt)
	} else {
		err = s.otps.Create(ctx, email, code, now, expiresAt)
	}
	if err != nil {
		return fmt.Errorf("store otp: %w", err)
	}

	if err := s.mailer.SendOTP(ctx, email, code); err != nil {
		s.notifier.NotifyInternal(ctx, fmt.Sprintf("[OTP Mail Error] %s: %v", email, err))
		return fmt.Errorf("send otp mail: %w", err)
	}

	if err := s.cache.SetString(ctx, throttleKey, "1", otpResendWindow); err != nil {
		// Throttle degrades to the row-level check only.
		s.notifier.NotifyInternal(ctx, fmt.Sprintf("[OTP Throttle Cache Error] %s: %v", email, err))
	}
	return nil
}

// VerifyOTP checks the code, invalidates it and logs the user in, creating
// the account and its free-tier subscription on first login.
func (s *authService) VerifyOTP(ctx context.Context, email, code string) (*AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	otp, err := s.otps.GetValid(ctx, email, code)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidOTP
		}
		return nil, fmt.Errorf("fetch otp: %w", err)
	}
	if err := s.otps.Invalidate(ctx, otp.ID); err != nil {
		return nil, fmt.Errorf("invalidate otp: %w", err)
	}

	user, err := s.users.GetByEmail(ctx, email)
	isNew := false
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("fetch user: %w", err)
		}
		userID, err := s.users.Create(ctx, &models.User{Email: &email})
		if err != nil {
			return nil, fmt.Errorf("create user: %w", err)
		}
		if err := s.subs.CreateFreeTier(ctx, userID, freeTierPlanType, freeTierDays); err != nil {
			return nil, fmt.Errorf("create free tier subscription: %w", err)
		}
		user = &models.User{ID: userID, Email: &email}
		isNew = true
	}
	if user.IsBlocked {
		s.notifier.NotifyInternal(ctx, fmt.Sprintf("[Blocked Login Attempt] User ID %d tried to log in.", user.ID))
		return nil, ErrUserBlocked
	}

	token, err := s.issueToken(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, UserID: user.ID, IsNewUser: isNew}, nil
}

// SocialLogin verifies the provider's identity token, then finds or creates
// the matching account.
func (s *authService) SocialLogin(ctx context.Context, req *SocialLoginRequest) (*AuthResult, error) {
	platform := strings.ToLower(req.Platform)

	var identity *ProviderIdentity
	var err error
	switch platform {
	case "google":
		identity, err = s.providers.VerifyGoogle(ctx, req.IDToken)
	case "apple":
		identity, err = s.providers.VerifyApple(ctx, req.IDToken)
	default:
		return nil, ErrUnsupportedPlatform
	}
	if err != nil {
		return nil, fmt.Errorf("%s token verification failed: %w", platform, err)
	}

	email := req.Email
	if email == nil && identity.Email != "" {
		email = &identity.Email
	}

	user, err := s.users.FindByEmailOrProvider(ctx, email, identity.Subject, platform)
	isNew := false
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("fetch user: %w", err)
		}
		userID, err := s.users.Create(ctx, &models.User{
			Email:          email,
			PhoneNumber:    req.PhoneNumber,
			FirstName:      req.FirstName,
			LastName:       req.LastName,
			Provider:       &platform,
			ProviderUserID: &identity.Subject,
		})
		if err != nil {
			return nil, fmt.Errorf("create user: %w", err)
		}
		if err := s.subs.CreateFreeTier(ctx, userID, freeTierPlanType, freeTierDays); err != nil {
			return nil, fmt.Errorf("create free tier subscription: %w", err)
		}
		user = &models.User{ID: userID}
		isNew = true
	}
	if user.IsBlocked {
		s.notifier.NotifyInternal(ctx, fmt.Sprintf("[Blocked Login Attempt] User ID %d tried to log in.", user.ID))
		return nil, ErrUserBlocked
	}

	token, err := s.issueToken(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, UserID: user.ID, IsNewUser: isNew}, nil
}

func (s *authService) issueToken(ctx context.Context, userID int64) (string, error) {
	now := time.Now().UTC()
	exp := now.Add(accessTokenTTL)

	claims := jwt.MapClaims{
		"user_id": userID,
		"iat":     now.Unix(),
		"exp":     exp.Unix(),
		"type":    "access",
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	if err := s.users.TouchJWTStamps(ctx, userID, now, exp); err != nil {
		return "", fmt.Errorf("record token stamps: %w", err)
	}
	return token, nil
}

func randomOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
