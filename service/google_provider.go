package application

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"

	"github.com/DaneshVerma/CitySettel/domain"
)

// FederatedProvider is the opaque sign-in provider consumed by the google
// callback: authorization code in, normalized profile out.
type FederatedProvider interface {
	Profile(ctx context.Context, code string) (*domain.FederatedProfile, error)
}

type GoogleProvider struct {
	clientID     string
	clientSecret string
	redirectURL  string
	tokenURL     string
	userInfoURL  string
	client       *http.Client
	breaker      *gobreaker.CircuitBreaker
	logger       *logrus.Logger
}

func NewGoogleProvider(clientID, clientSecret, redirectURL string, client *http.Client, logger *logrus.Logger) *GoogleProvider {
	return &GoogleProvider{
		clientID:     clientID,
		clientSecret: clientSecret,
		redirectURL:  redirectURL,
		tokenURL:     "https://oauth2.googleapis.com/token",
		userInfoURL:  "https://www.googleapis.com/oauth2/v2/userinfo",
		client:       client,
		breaker:      NewCircuitBreaker("google", logger),
		logger:       logger,
	}
}

func (provider *GoogleProvider) Profile(ctx context.Context, code string) (*domain.FederatedProfile, error) {
	result, err := provider.breaker.Execute(func() (interface{}, error) {
		accessToken, err := provider.exchange(ctx, code)
		if err != nil {
			return nil, err
		}
		return provider.userInfo(ctx, accessToken)
	})
	if err != nil {
		provider.logger.WithError(err).Error("google sign-in")
		return nil, err
	}
	return result.(*domain.FederatedProfile), nil
}

func (provider *GoogleProvider) exchange(ctx context.Context, code string) (string, error) {
	form := url.Values{
		"code":          {code},
		"client_id":     {provider.clientID},
		"client_secret": {provider.clientSecret},
		"redirect_uri":  {provider.redirectURL},
		"grant_type":    {"authorization_code"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, provider.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := provider.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("google token exchange failed: %d", resp.StatusCode)
	}

	var payload struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", err
	}
	return payload.AccessToken, nil
}

func (provider *GoogleProvider) userInfo(ctx context.Context, accessToken string) (*domain.FederatedProfile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, provider.userInfoURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := provider.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google userinfo failed: %d", resp.StatusCode)
	}

	var payload struct {
		ID         string `json:"id"`
		Email      string `json:"email"`
		GivenName  string `json:"given_name"`
		FamilyName string `json:"family_name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}

	return &domain.FederatedProfile{
		ID:         payload.ID,
		Email:      payload.Email,
		GivenName:  payload.GivenName,
		FamilyName: payload.FamilyName,
	}, nil
}
