package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
)

// ProviderIdentity is the verified identity a social provider vouches for.
type ProviderIdentity struct {
	Subject string
	Email   string
}

// ProviderVerifier validates third-party identity tokens.
type ProviderVerifier interface {
	VerifyGoogle(ctx context.Context, idToken string) (*ProviderIdentity, error)
	VerifyApple(ctx context.Context, idToken string) (*ProviderIdentity, error)
}

type providerVerifier struct {
	googleClientID string
	appleClientID  string
	appleKeysURL   string
	appleJWKS      *keyfunc.JWKS
	http           *http.Client
}

// NewProviderVerifier builds the verifier. Apple's signing keys are fetched
// from the JWKS endpoint and refreshed hourly in the background.
func NewProviderVerifier(googleClientID, appleClientID, appleKeysURL string) (ProviderVerifier, error) {
	jwks, err := keyfunc.Get(appleKeysURL, keyfunc.Options{
		RefreshInterval:  time.Hour,
		RefreshRateLimit: time.Minute,
		RefreshErrorHandler: func(err error) {
			// Stale keys keep working until the next successful refresh.
		},
	})
	if err != nil {
		return nil, fmt.Errorf("fetch apple jwks: %w", err)
	}

	return &providerVerifier{
		googleClientID: googleClientID,
		appleClientID:  appleClientID,
		appleKeysURL:   appleKeysURL,
		appleJWKS:      jwks,
		http:           &http.Client{Timeout: 5 * time.Second},
	}, nil
}

// VerifyGoogle checks the id token against Google's tokeninfo endpoint and
// validates the audience.
func (v *providerVerifier) VerifyGoogle(ctx context.Context, idToken string) (*ProviderIdentity, error) {
	endpoint := "https://oauth2.googleapis.com/tokeninfo?id_token=" + idToken
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := v.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tokeninfo request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("invalid token response from Google: status %d", resp.StatusCode)
	}

	var payload struct {
		Aud   string `json:"aud"`
		Sub   string `json:"sub"`
		Email string `json:"email"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("tokeninfo response: %w", err)
	}
	if payload.Aud != v.googleClientID {
		return nil, fmt.Errorf("invalid audience in Google token")
	}

	return &ProviderIdentity{Subject: payload.Sub, Email: payload.Email}, nil
}

// VerifyApple validates the identity token's signature against Apple's
// published keys, plus issuer and audience.
func (v *providerVerifier) VerifyApple(ctx context.Context, idToken string) (*ProviderIdentity, error) {
	token, err := jwt.Parse(idToken, v.appleJWKS.Keyfunc,
		jwt.WithValidMethods([]string{"RS256"}),
		jwt.WithAudience(v.appleClientID),
		jwt.WithIssuer("https://appleid.apple.com"),
	)
	if err != nil {
		return nil, fmt.Errorf("parse apple token: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("apple token not valid")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("apple token claims malformed")
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return nil, fmt.Errorf("apple token missing subject")
	}
	email, _ := claims["email"].(string)

	return &ProviderIdentity{Subject: sub, Email: email}, nil
}
