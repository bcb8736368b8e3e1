package nuvemshop

import (
	"errors"
	"fmt"
	"strings"
)

var ErrTokenExchangeFailed = errors.New("providers/nuvemshop: token exchange failed")

type ExchangeError struct {
	StatusCode int
	ErrorCode  string
	Message    string
	Cause      error
}

func (e *ExchangeError) Error() string {
	if e == nil {
		return ErrTokenExchangeFailed.Error()
	}
	base := ErrTokenExchangeFailed.Error()
	if strings.TrimSpace(e.ErrorCode) != "" {
		base += ": " + strings.TrimSpace(e.ErrorCode)
	}
	if strings.TrimSpace(e.Message) != "" {
		base += ": " + strings.TrimSpace(e.Message)
	}
	if e.StatusCode > 0 {
		base += fmt.Sprintf(" (status=%d)", e.StatusCode)
	}
	if e.Cause != nil && !errors.Is(e.Cause, ErrTokenExchangeFailed) {
		base += ": " + e.Cause.Error()
	}
	return base
}

func (e *ExchangeError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}
