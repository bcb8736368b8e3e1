package core

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrMissingCode        = errors.New("core: authorization code is required")
	ErrInvalidStoreID     = errors.New("core: invalid store id")
	ErrMissingAccessToken = errors.New("core: access token is required")
	ErrTokenNotFound      = errors.New("core: token not found")
)

// StoreID identifies a merchant store on the platform.
type StoreID int64

// ParseStoreID accepts base-10 positive integers only.
func ParseStoreID(raw string) (StoreID, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0, fmt.Errorf("%w: empty value", ErrInvalidStoreID)
	}
	if strings.HasPrefix(trimmed, "+") {
		return 0, fmt.Errorf("%w: %q", ErrInvalidStoreID, raw)
	}
	parsed, err := strconv.ParseInt(trimmed, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidStoreID, raw)
	}
	id := StoreID(parsed)
	if !id.Valid() {
		return 0, fmt.Errorf("%w: %q", ErrInvalidStoreID, raw)
	}
	return id, nil
}

func (id StoreID) Valid() bool {
	return id > 0
}

func (id StoreID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// TokenData is the token payload returned by the platform's token endpoint.
type TokenData struct {
	AccessToken string
	TokenType   string
	Scope       string
	// UserID is the store id the platform reports next to the token.
	UserID StoreID
}

// TokenRecord is the persisted row: one per store, replaced wholesale on
// every successful exchange.
type TokenRecord struct {
	StoreID     StoreID
	AccessToken string
	TokenType   string
	Scope       string
}

func NewTokenRecord(storeID StoreID, data TokenData) TokenRecord {
	return TokenRecord{
		StoreID:     storeID,
		AccessToken: data.AccessToken,
		TokenType:   data.TokenType,
		Scope:       data.Scope,
	}
}

func (r TokenRecord) Validate() error {
	if !r.StoreID.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidStoreID, int64(r.StoreID))
	}
	if strings.TrimSpace(r.AccessToken) == "" {
		return ErrMissingAccessToken
	}
	return nil
}

// MaskedToken keeps the first four characters for operator output.
func (r TokenRecord) MaskedToken() string {
	token := strings.TrimSpace(r.AccessToken)
	if len(token) <= 4 {
		return strings.Repeat("*", len(token))
	}
	return token[:4] + "…"
}

type CallbackRequest struct {
	Code    string
	StoreID string
}

type CallbackResult struct {
	StoreID StoreID
	Record  TokenRecord
}
