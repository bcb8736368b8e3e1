// Package nuvemshop implements the authorization-code exchange against the
// Nuvemshop / Tiendanube token endpoint.
package nuvemshop

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/goliatone/go-nuvemshop/core"
)

const (
	maxExchangeResponseBodyBytes = 1 << 20

	grantTypeAuthorizationCode = "authorization_code"
)

type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

type ExchangeClientConfig struct {
	ClientID     string
	ClientSecret string
	TokenURL     string
	UserAgent    string
	// RequestTimeout bounds a single exchange. Zero keeps the transport default.
	RequestTimeout time.Duration
	HTTPClient     HTTPDoer
}

// ConfigFromOAuth maps the process configuration onto the client config.
func ConfigFromOAuth(cfg core.OAuthConfig) ExchangeClientConfig {
	return ExchangeClientConfig{
		ClientID:       cfg.ClientID,
		ClientSecret:   cfg.ClientSecret,
		TokenURL:       cfg.TokenURL,
		UserAgent:      cfg.UserAgent,
		RequestTimeout: cfg.RequestTimeout,
	}
}

type ExchangeClient struct {
	config     ExchangeClientConfig
	httpClient HTTPDoer
}

func NewExchangeClient(cfg ExchangeClientConfig) *ExchangeClient {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	tokenURL := strings.TrimSpace(cfg.TokenURL)
	if tokenURL == "" {
		tokenURL = core.DefaultTokenURL
	}
	userAgent := strings.TrimSpace(cfg.UserAgent)
	if userAgent == "" {
		userAgent = core.DefaultUserAgent
	}
	timeout := cfg.RequestTimeout
	if timeout < 0 {
		timeout = 0
	}
	return &ExchangeClient{
		config: ExchangeClientConfig{
			ClientID:       strings.TrimSpace(cfg.ClientID),
			ClientSecret:   strings.TrimSpace(cfg.ClientSecret),
			TokenURL:       tokenURL,
			UserAgent:      userAgent,
			RequestTimeout: timeout,
		},
		httpClient: httpClient,
	}
}

type exchangeRequest struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
	GrantType    string `json:"grant_type"`
	Code         string `json:"code"`
}

// Exchange posts the authorization code once. Any response without a
// non-empty access_token is a failure.
func (c *ExchangeClient) Exchange(ctx context.Context, code string) (core.TokenData, error) {
	if c == nil || c.httpClient == nil {
		return core.TokenData{}, &ExchangeError{
			Message: "http client is not configured",
			Cause:   ErrTokenExchangeFailed,
		}
	}
	if c.config.ClientID == "" || c.config.ClientSecret == "" {
		return core.TokenData{}, &ExchangeError{
			Message: "client id and client secret are required",
			Cause:   ErrTokenExchangeFailed,
		}
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return core.TokenData{}, &ExchangeError{
			Message: "authorization code is required",
			Cause:   ErrTokenExchangeFailed,
		}
	}

	body, err := json.Marshal(exchangeRequest{
		ClientID:     c.config.ClientID,
		ClientSecret: c.config.ClientSecret,
		GrantType:    grantTypeAuthorizationCode,
		Code:         code,
	})
	if err != nil {
		return core.TokenData{}, &ExchangeError{
			Message: "encode exchange request",
			Cause:   err,
		}
	}

	if ctx == nil {
		ctx = context.Background()
	}
	requestCtx := ctx
	cancel := func() {}
	if c.config.RequestTimeout > 0 {
		requestCtx, cancel = context.WithTimeout(ctx, c.config.RequestTimeout)
	}
	defer cancel()

	httpReq, err := http.NewRequestWithContext(requestCtx, http.MethodPost, c.config.TokenURL, bytes.NewReader(body))
	if err != nil {
		return core.TokenData{}, &ExchangeError{
			Message: "build exchange request",
			Cause:   err,
		}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.config.UserAgent)

	response, err := c.httpClient.Do(httpReq)
	if err != nil {
		return core.TokenData{}, &ExchangeError{
			Message: "exchange request failed",
			Cause:   err,
		}
	}
	defer response.Body.Close()

	raw, readErr := io.ReadAll(io.LimitReader(response.Body, maxExchangeResponseBodyBytes+1))
	if readErr != nil {
		return core.TokenData{}, &ExchangeError{
			StatusCode: response.StatusCode,
			Message:    "read exchange response",
			Cause:      readErr,
		}
	}
	if int64(len(raw)) > maxExchangeResponseBodyBytes {
		return core.TokenData{}, &ExchangeError{
			StatusCode: response.StatusCode,
			Message:    fmt.Sprintf("exchange response exceeds %d bytes", maxExchangeResponseBodyBytes),
			Cause:      ErrTokenExchangeFailed,
		}
	}

	payload := map[string]any{}
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()
	if err := decoder.Decode(&payload); err != nil {
		return core.TokenData{}, &ExchangeError{
			StatusCode: response.StatusCode,
			Message:    "decode exchange response",
			Cause:      err,
		}
	}

	errorCode := strings.TrimSpace(readAnyString(payload["error"]))
	errorDescription := strings.TrimSpace(readAnyString(payload["error_description"]))
	if response.StatusCode < http.StatusOK || response.StatusCode >= http.StatusMultipleChoices || errorCode != "" {
		if errorDescription == "" {
			errorDescription = "nuvemshop token exchange failed"
		}
		return core.TokenData{}, &ExchangeError{
			StatusCode: response.StatusCode,
			ErrorCode:  errorCode,
			Message:    errorDescription,
			Cause:      ErrTokenExchangeFailed,
		}
	}

	accessToken := strings.TrimSpace(readAnyString(payload["access_token"]))
	if accessToken == "" {
		return core.TokenData{}, &ExchangeError{
			StatusCode: response.StatusCode,
			Message:    "exchange response missing access token",
			Cause:      ErrTokenExchangeFailed,
		}
	}

	return core.TokenData{
		AccessToken: accessToken,
		TokenType:   readAnyString(payload["token_type"]),
		Scope:       readAnyString(payload["scope"]),
		UserID:      core.StoreID(readAnyInt64(payload["user_id"])),
	}, nil
}

func readAnyString(value any) string {
	switch typed := value.(type) {
	case string:
		return typed
	case json.Number:
		return typed.String()
	default:
		return ""
	}
}

func readAnyInt64(value any) int64 {
	switch typed := value.(type) {
	case int64:
		return typed
	case float64:
		return int64(typed)
	case json.Number:
		parsed, err := typed.Int64()
		if err == nil {
			return parsed
		}
	case string:
		parsed, err := strconv.ParseInt(strings.TrimSpace(typed), 10, 64)
		if err == nil {
			return parsed
		}
	}
	return 0
}

var _ core.TokenExchanger = (*ExchangeClient)(nil)
