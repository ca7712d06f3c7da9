package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rpupo63/jhipster-sample-services/errs"
	"golang.org/x/oauth2"
)

// UserInfoClient reads the claims of the token holder from the identity
// provider's userinfo endpoint.
type UserInfoClient struct {
	endpoint   string
	httpClient *http.Client
}

func NewUserInfoClient(endpoint string, timeout time.Duration) *UserInfoClient {
	return &UserInfoClient{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *UserInfoClient) FetchUserInfo(ctx context.Context, accessToken string) (map[string]any, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: accessToken,
		TokenType:   "Bearer",
	}))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return nil, errs.NewInternalErrorWithCause("could not build userinfo request", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, errs.NewInternalErrorWithCause("userinfo request failed", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, errs.NewInvalidTokenError(fmt.Errorf("userinfo endpoint rejected the token"))
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, errs.NewInternalErrorWithCause("userinfo request failed",
			fmt.Errorf("status %d: %s", resp.StatusCode, body))
	}

	var claims map[string]any
	decoder := json.NewDecoder(resp.Body)
	decoder.UseNumber()
	if err := decoder.Decode(&claims); err != nil {
		return nil, errs.NewInternalErrorWithCause("could not decode userinfo response", err)
	}
	return claims, nil
}
