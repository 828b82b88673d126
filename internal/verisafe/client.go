// Package verisafe integrates with the Verisafe identity provider: it
// looks up the social accounts linked to a user and turns the stored
// Google OAuth tokens into a token source for provider API calls. It also
// verifies Verisafe-issued access tokens for the surrounding service layer.
package verisafe

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/opencrafts-io/keepup/internal/common"
)

const providerGoogle = "google"

// SocialAccount is one linked third-party account as reported by Verisafe.
type SocialAccount struct {
	Provider     string `json:"provider"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Client talks to the Verisafe socials API and builds per-owner Google
// token sources.
type Client struct {
	baseURL      string
	clientID     string
	clientSecret string
	httpClient   *http.Client
}

func NewClient(baseURL, googleClientID, googleClientSecret string) *Client {
	return &Client{
		baseURL:      baseURL,
		clientID:     googleClientID,
		clientSecret: googleClientSecret,
		httpClient:   &http.Client{Timeout: 15 * time.Second},
	}
}

// SocialAccounts fetches every social account linked to owner.
func (c *Client) SocialAccounts(ctx context.Context, owner uuid.UUID) ([]SocialAccount, error) {
	url := fmt.Sprintf("%s/socials/user/%s", c.baseURL, owner)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("verisafe request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("verisafe socials: %v: %w", err, common.ErrUnavailable)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("verisafe socials: owner %s: %w", owner, common.ErrNoLinkedAccount)
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("verisafe socials: status %d: %w", resp.StatusCode, common.ErrUnauthorized)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("verisafe socials: status %d: %w", resp.StatusCode, common.ErrUnavailable)
	}

	var accounts []SocialAccount
	if err := json.NewDecoder(resp.Body).Decode(&accounts); err != nil {
		return nil, fmt.Errorf("verisafe socials: decode: %v: %w", err, common.ErrUnavailable)
	}
	return accounts, nil
}

// GoogleAccount returns the owner's linked Google account, or
// common.ErrNoLinkedAccount if none is linked.
func (c *Client) GoogleAccount(ctx context.Context, owner uuid.UUID) (*SocialAccount, error) {
	accounts, err := c.SocialAccounts(ctx, owner)
	if err != nil {
		return nil, err
	}
	for i := range accounts {
		if accounts[i].Provider == providerGoogle {
			return &accounts[i], nil
		}
	}
	return nil, fmt.Errorf("owner %s: %w", owner, common.ErrNoLinkedAccount)
}

// TokenSource builds an auto-refreshing Google OAuth token source from the
// owner's stored tokens. The access token is treated as already expired so
// the first use revalidates it against the token endpoint.
func (c *Client) TokenSource(ctx context.Context, owner uuid.UUID) (oauth2.TokenSource, error) {
	account, err := c.GoogleAccount(ctx, owner)
	if err != nil {
		return nil, err
	}

	conf := &oauth2.Config{
		ClientID:     c.clientID,
		ClientSecret: c.clientSecret,
		Endpoint:     google.Endpoint,
	}
	tok := &oauth2.Token{
		AccessToken:  account.AccessToken,
		RefreshToken: account.RefreshToken,
		Expiry:       time.Now().Add(-time.Minute),
	}
	return conf.TokenSource(ctx, tok), nil
}
