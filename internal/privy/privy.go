package privy

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/plank-app/plank-backend/internal/pkg/utils"
)

const (
	defaultBaseUrl = "https://auth.privy.io"
	tokenIssuer    = "privy.io"
)

var ErrUnverifiedToken = errors.New("privy: token is not valid")

// Profile is the slice of a Privy user the rest of the app cares about.
// Absent linked accounts stay nil.
type Profile struct {
	Email         *string
	WalletAddress *string
}

type Config struct {
	AppId           string
	AppSecret       string
	VerificationKey string // ES256 public key PEM from the Privy dashboard
	BaseUrl         string // defaults to the hosted Privy API
}

// Client verifies Privy access tokens locally and fetches user records over
// the Privy REST API. Construct once at startup and inject.
type Client struct {
	appId           string
	appSecret       string
	verificationKey any
	baseUrl         string
	httpClient      *http.Client
}

func NewClient(cfg Config) (*Client, error) {
	key, err := jwt.ParseECPublicKeyFromPEM([]byte(cfg.VerificationKey))
	if err != nil {
		return nil, fmt.Errorf("privy: parsing verification key: %w", err)
	}

	baseUrl := cfg.BaseUrl
	if baseUrl == "" {
		baseUrl = defaultBaseUrl
	}

	return &Client{
		appId:           cfg.AppId,
		appSecret:       cfg.AppSecret,
		verificationKey: key,
		baseUrl:         baseUrl,
		httpClient:      &http.Client{Timeout: 10 * time.Second},
	}, nil
}

// VerifyAuthToken checks the access token signature and claims against the app
// verification key and returns the Privy DID the token was issued for.
func (c *Client) VerifyAuthToken(_ context.Context, token string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims,
		func(t *jwt.Token) (any, error) { return c.verificationKey, nil },
		jwt.WithValidMethods([]string{"ES256"}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithAudience(c.appId),
	)
	if err != nil {
		return "", err
	}
	if !parsed.Valid || claims.Subject == "" {
		return "", ErrUnverifiedToken
	}
	return claims.Subject, nil
}

type linkedAccount struct {
	Type    string `json:"type"`
	Address string `json:"address"`
}

type privyUser struct {
	Id             string          `json:"id"`
	LinkedAccounts []linkedAccount `json:"linked_accounts"`
}

// UserProfile fetches the Privy user behind a DID and extracts the linked
// email and wallet addresses.
func (c *Client) UserProfile(ctx context.Context, subjectId string) (Profile, error) {
	uri := fmt.Sprintf("%s/api/v1/users/%s", c.baseUrl, subjectId)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return Profile{}, err
	}
	req.SetBasicAuth(c.appId, c.appSecret)
	req.Header.Set("privy-app-id", c.appId)

	res, err := c.httpClient.Do(req)
	if err != nil {
		return Profile{}, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return Profile{}, fmt.Errorf("privy: user fetch returned status %d", res.StatusCode)
	}

	resBody := utils.JsonDecode[privyUser](res.Body)

	var profile Profile
	for _, account := range resBody.LinkedAccounts {
		if account.Address == "" {
			continue
		}
		switch account.Type {
		case "email":
			if profile.Email == nil {
				address := account.Address
				profile.Email = &address
			}
		case "wallet":
			if profile.WalletAddress == nil {
				address := account.Address
				profile.WalletAddress = &address
			}
		}
	}
	return profile, nil
}
