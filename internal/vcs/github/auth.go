package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// accessTokenSource exchanges a GitHub App JWT for an installation token
// and caches it until shortly before expiry.
type accessTokenSource struct {
	httpClient     *http.Client
	baseURL        string
	appID          string
	privateKeyPath string
	installationID string

	mu        sync.Mutex
	token     string
	expiresAt time.Time
}

type accessTokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Token returns a valid installation access token.
func (s *accessTokenSource) Token(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token != "" && time.Until(s.expiresAt) > time.Minute {
		return s.token, nil
	}

	appJWT, err := s.appJWT()
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/app/installations/%s/access_tokens", s.baseURL, s.installationID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, nil)
	if err != nil {
		return "", fmt.Errorf("build access token request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("Authorization", "Bearer "+appJWT)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch access token: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("access token request returned status %d", resp.StatusCode)
	}

	var out accessTokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode access token response: %w", err)
	}
	if out.Token == "" {
		return "", fmt.Errorf("access token response carries no token")
	}

	s.token = out.Token
	s.expiresAt = out.ExpiresAt
	return s.token, nil
}

func (s *accessTokenSource) appJWT() (string, error) {
	raw, err := os.ReadFile(s.privateKeyPath)
	if err != nil {
		return "", fmt.Errorf("read github private key: %w", err)
	}
	key, err := jwt.ParseRSAPrivateKeyFromPEM(raw)
	if err != nil {
		return "", fmt.Errorf("parse github private key: %w", err)
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"iss": s.appID,
		"iat": now.Add(-time.Minute).Unix(),
		"exp": now.Add(9 * time.Minute).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(key)
	if err != nil {
		return "", fmt.Errorf("sign github app jwt: %w", err)
	}
	return signed, nil
}
