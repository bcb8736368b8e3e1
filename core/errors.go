package core

import (
	"errors"
	"net/http"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

const (
	ServiceErrorBadInput       = "SERVICE_BAD_INPUT"
	ServiceErrorMissingCode    = "SERVICE_MISSING_CODE"
	ServiceErrorInvalidStoreID = "SERVICE_INVALID_STORE_ID"
	ServiceErrorExchangeFailed = "SERVICE_TOKEN_EXCHANGE_FAILED"
	ServiceErrorStorageFailed  = "SERVICE_STORAGE_FAILED"
	ServiceErrorNotFound       = "SERVICE_NOT_FOUND"
	ServiceErrorInternal       = "SERVICE_INTERNAL_ERROR"
)

const (
	MessageMissingCode    = "Missing required query parameter: code."
	MessageInvalidStoreID = "Query parameter store_id must be a positive integer."
	MessageInternal       = "An internal server error occurred."
)

type ErrorMapper func(err error) *goerrors.Error

func serviceErrorMapper(err error) *goerrors.Error {
	if err == nil {
		return nil
	}

	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		return ensureServiceErrorEnvelope(richErr)
	}

	switch {
	case errors.Is(err, ErrMissingCode):
		return newServiceError(MessageMissingCode, goerrors.CategoryBadInput, ServiceErrorMissingCode)
	case errors.Is(err, ErrInvalidStoreID):
		return newServiceError(MessageInvalidStoreID, goerrors.CategoryBadInput, ServiceErrorInvalidStoreID)
	case errors.Is(err, ErrMissingAccessToken):
		return newServiceError(err.Error(), goerrors.CategoryBadInput, ServiceErrorBadInput)
	case errors.Is(err, ErrTokenNotFound):
		return newServiceError(err.Error(), goerrors.CategoryNotFound, ServiceErrorNotFound)
	}

	mapped := goerrors.MapToError(err, goerrors.DefaultErrorMappers())
	return ensureServiceErrorEnvelope(mapped)
}

// DefaultErrorMapper is the mapper services use when none is configured.
func DefaultErrorMapper(err error) *goerrors.Error {
	return serviceErrorMapper(err)
}

func newServiceError(message string, category goerrors.Category, textCode string) *goerrors.Error {
	return ensureServiceErrorEnvelope(
		goerrors.New(message, category).
			WithTextCode(textCode),
	)
}

func wrapServiceError(source error, category goerrors.Category, message string, textCode string) *goerrors.Error {
	if source == nil {
		return newServiceError(message, category, textCode)
	}
	return ensureServiceErrorEnvelope(
		goerrors.Wrap(source, category, message).
			WithTextCode(textCode),
	)
}

func ensureServiceErrorEnvelope(err *goerrors.Error) *goerrors.Error {
	if err == nil {
		return nil
	}
	if err.Code == 0 {
		err.Code = serviceHTTPStatus(err.Category)
	}
	if strings.TrimSpace(err.TextCode) == "" {
		err.TextCode = defaultServiceTextCode(err.Category)
	}
	if err.Category == goerrors.CategoryInternal && strings.TrimSpace(err.Message) == "" {
		err.Message = "An unexpected error occurred"
	}
	return err
}

func defaultServiceTextCode(category goerrors.Category) string {
	switch category {
	case goerrors.CategoryBadInput, goerrors.CategoryValidation:
		return ServiceErrorBadInput
	case goerrors.CategoryNotFound:
		return ServiceErrorNotFound
	case goerrors.CategoryExternal:
		return ServiceErrorExchangeFailed
	default:
		return ServiceErrorInternal
	}
}

func serviceHTTPStatus(category goerrors.Category) int {
	switch category {
	case goerrors.CategoryBadInput, goerrors.CategoryValidation:
		return http.StatusBadRequest
	case goerrors.CategoryNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// HTTPStatus resolves the response status for an error returned by the service.
func HTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}
	mapped := serviceErrorMapper(err)
	if mapped == nil || mapped.Code == 0 {
		return http.StatusInternalServerError
	}
	return mapped.Code
}

// PublicMessage returns text that is safe to show the caller. Client errors
// keep their message; everything else is reported generically.
func PublicMessage(err error) string {
	if err == nil {
		return ""
	}
	mapped := serviceErrorMapper(err)
	if mapped == nil || mapped.Code >= http.StatusInternalServerError {
		return MessageInternal
	}
	if message := strings.TrimSpace(mapped.Message); message != "" {
		return message
	}
	return MessageInternal
}

// TextCode returns the stable service text code for err.
func TextCode(err error) string {
	mapped := serviceErrorMapper(err)
	if mapped == nil {
		return ""
	}
	return mapped.TextCode
}
