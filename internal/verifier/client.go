// Package verifier validates identity provider ID tokens against the
// provider's account lookup endpoint.
package verifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/axionhelmets/storefront-server/internal/logger"
	"github.com/axionhelmets/storefront-server/internal/model"
)

const lookupPath = "/v1/accounts:lookup"

// providerPassword is the provider id reported for email/password accounts.
const providerPassword = "password"

// maxResponseBytes bounds the lookup response body read into memory.
const maxResponseBytes = 1 << 20

// Client verifies ID tokens issued by the external identity provider.
type Client struct {
	httpClient *http.Client
	endpoint   string
	apiKey     string
	logger     *logger.Logger
}

// NewClient creates a verifier that calls endpoint with apiKey. Each call is
// a single attempt bounded by timeout.
func NewClient(endpoint, apiKey string, timeout time.Duration, logger *logger.Logger) *Client {
	return NewClientWithHTTP(&http.Client{Timeout: timeout}, endpoint, apiKey, logger)
}

// NewClientWithHTTP creates a verifier using the given HTTP client.
func NewClientWithHTTP(httpClient *http.Client, endpoint, apiKey string, logger *logger.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		endpoint:   strings.TrimRight(endpoint, "/"),
		apiKey:     apiKey,
		logger:     logger,
	}
}

type lookupRequest struct {
	IDToken string `json:"idToken"`
}

type lookupResponse struct {
	Users []account `json:"users"`
}

type account struct {
	LocalID          string         `json:"localId"`
	Email            string         `json:"email"`
	DisplayName      string         `json:"displayName"`
	PhotoURL         string         `json:"photoUrl"`
	ProviderUserInfo []providerInfo `json:"providerUserInfo"`
}

type providerInfo struct {
	ProviderID string `json:"providerId"`
}

// Verify checks token with the identity provider and returns the normalized
// identity. Rejections wrap model.ErrInvalidToken; provider outages wrap
// model.ErrUpstreamVerifier.
func (c *Client) Verify(ctx context.Context, token string) (model.VerifiedIdentity, error) {
	if token == "" {
		return model.VerifiedIdentity{}, fmt.Errorf("%w: empty token", model.ErrInvalidToken)
	}

	body, err := json.Marshal(lookupRequest{IDToken: token})
	if err != nil {
		return model.VerifiedIdentity{}, fmt.Errorf("failed to marshal lookup request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.lookupURL(), bytes.NewReader(body))
	if err != nil {
		return model.VerifiedIdentity{}, fmt.Errorf("failed to build lookup request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("Verifier: lookup request failed",
			"error", err.Error())
		return model.VerifiedIdentity{}, fmt.Errorf("%w: %v", model.ErrUpstreamVerifier, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return model.VerifiedIdentity{}, fmt.Errorf("%w: read response: %v", model.ErrUpstreamVerifier, err)
	}

	switch {
	case resp.StatusCode >= http.StatusInternalServerError:
		c.logger.Warn("Verifier: provider returned server error",
			"status", resp.StatusCode)
		return model.VerifiedIdentity{}, fmt.Errorf("%w: status %d", model.ErrUpstreamVerifier, resp.StatusCode)
	case resp.StatusCode >= http.StatusBadRequest:
		c.logger.Debug("Verifier: token rejected",
			"status", resp.StatusCode)
		return model.VerifiedIdentity{}, fmt.Errorf("%w: provider status %d", model.ErrInvalidToken, resp.StatusCode)
	}

	var lookup lookupResponse
	if err := json.Unmarshal(payload, &lookup); err != nil {
		return model.VerifiedIdentity{}, fmt.Errorf("%w: malformed response: %v", model.ErrUpstreamVerifier, err)
	}

	if len(lookup.Users) == 0 {
		return model.VerifiedIdentity{}, fmt.Errorf("%w: no account for token", model.ErrInvalidToken)
	}

	return normalize(lookup.Users[0])
}

func (c *Client) lookupURL() string {
	q := url.Values{}
	q.Set("key", c.apiKey)
	return c.endpoint + lookupPath + "?" + q.Encode()
}

func normalize(a account) (model.VerifiedIdentity, error) {
	if a.LocalID == "" {
		return model.VerifiedIdentity{}, fmt.Errorf("%w: account has no subject", model.ErrInvalidToken)
	}

	email := model.NormalizeEmail(a.Email)
	if email == "" {
		return model.VerifiedIdentity{}, fmt.Errorf("%w: account has no email", model.ErrInvalidToken)
	}

	displayName := strings.TrimSpace(a.DisplayName)
	if displayName == "" {
		displayName = model.EmailLocalPart(email)
	}

	var avatar *string
	if a.PhotoURL != "" {
		photo := a.PhotoURL
		avatar = &photo
	}

	method := model.SignInMethodPassword
	if len(a.ProviderUserInfo) > 0 && a.ProviderUserInfo[0].ProviderID != "" &&
		a.ProviderUserInfo[0].ProviderID != providerPassword {
		method = model.SignInMethodFederated
	}

	return model.VerifiedIdentity{
		SubjectID:    a.LocalID,
		Email:        email,
		DisplayName:  displayName,
		AvatarURL:    avatar,
		SignInMethod: method,
	}, nil
}
