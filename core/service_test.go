package core

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	goerrors "github.com/goliatone/go-errors"
)

func newTestService(t *testing.T, exchanger TokenExchanger, store TokenStore, logger Logger) *Service {
	t.Helper()
	opts := []Option{WithTokenExchanger(exchanger), WithTokenStore(store)}
	if logger != nil {
		opts = append(opts, WithLogger(logger))
	}
	svc, err := NewService(opts...)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestNewService_RequiresStore(t *testing.T) {
	readOnly, err := NewService(WithTokenStore(newMemoryTokenStore()))
	if err != nil {
		t.Fatalf("expected store-only service for reads: %v", err)
	}
	if _, err := readOnly.CompleteCallback(context.Background(), CallbackRequest{Code: "abc"}); HTTPStatus(err) != http.StatusInternalServerError {
		t.Fatalf("expected 500 when no exchanger is configured, got %v", err)
	}
	if _, err := NewService(WithTokenExchanger(&stubExchanger{})); err == nil {
		t.Fatalf("expected missing store error")
	}

	svc := newTestService(t, &stubExchanger{}, newMemoryTokenStore(), nil)
	deps := svc.Dependencies()
	if deps.Logger == nil {
		t.Fatalf("expected default logger")
	}
	if deps.ErrorMapper == nil {
		t.Fatalf("expected default error mapper")
	}
}

func TestCompleteCallback_MissingCodeSkipsExchangeAndStore(t *testing.T) {
	exchanger := &stubExchanger{data: TokenData{AccessToken: "tok"}}
	store := newMemoryTokenStore()
	svc := newTestService(t, exchanger, store, nil)

	_, err := svc.CompleteCallback(context.Background(), CallbackRequest{Code: "  ", StoreID: "42"})
	if err == nil {
		t.Fatalf("expected missing code error")
	}
	if status := HTTPStatus(err); status != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", status)
	}
	if code := TextCode(err); code != ServiceErrorMissingCode {
		t.Fatalf("expected missing code text code, got %q", code)
	}
	if len(exchanger.calls) != 0 {
		t.Fatalf("expected no exchange calls, got %d", len(exchanger.calls))
	}
	if len(store.upserts) != 0 {
		t.Fatalf("expected no store writes, got %d", len(store.upserts))
	}
}

func TestCompleteCallback_MalformedStoreIDSkipsExchange(t *testing.T) {
	exchanger := &stubExchanger{data: TokenData{AccessToken: "tok"}}
	store := newMemoryTokenStore()
	svc := newTestService(t, exchanger, store, nil)

	for _, raw := range []string{"abc", "-1", "0", "4.2", "42; DROP TABLE tokens"} {
		_, err := svc.CompleteCallback(context.Background(), CallbackRequest{Code: "code", StoreID: raw})
		if err == nil {
			t.Fatalf("expected invalid store id error for %q", raw)
		}
		if status := HTTPStatus(err); status != http.StatusBadRequest {
			t.Fatalf("expected 400 for %q, got %d", raw, status)
		}
		if code := TextCode(err); code != ServiceErrorInvalidStoreID {
			t.Fatalf("expected invalid store id code for %q, got %q", raw, code)
		}
	}
	if len(exchanger.calls) != 0 {
		t.Fatalf("expected no exchange calls, got %d", len(exchanger.calls))
	}
}

func TestCompleteCallback_MissingAccessTokenIsServerErrorWithoutStore(t *testing.T) {
	exchanger := &stubExchanger{data: TokenData{TokenType: "bearer", Scope: "read"}}
	store := newMemoryTokenStore()
	logger := &recordingLogger{}
	svc := newTestService(t, exchanger, store, logger)

	_, err := svc.CompleteCallback(context.Background(), CallbackRequest{Code: "code", StoreID: "42"})
	if err == nil {
		t.Fatalf("expected exchange failure")
	}
	if status := HTTPStatus(err); status != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", status)
	}
	if code := TextCode(err); code != ServiceErrorExchangeFailed {
		t.Fatalf("expected exchange failed code, got %q", code)
	}
	if PublicMessage(err) != MessageInternal {
		t.Fatalf("expected generic public message, got %q", PublicMessage(err))
	}
	if len(store.upserts) != 0 {
		t.Fatalf("expected store to be untouched")
	}

	entry, ok := logger.last()
	if !ok || entry.level != "error" {
		t.Fatalf("expected error log entry, got %#v", entry)
	}
	cause, ok := argValue(entry.args, "cause")
	if !ok || !strings.Contains(cause.(string), "access token is required") {
		t.Fatalf("expected logged cause, got %#v", entry.args)
	}
}

func TestCompleteCallback_ExchangeErrorIsServerError(t *testing.T) {
	exchanger := &stubExchanger{err: errors.New("dial tcp: connection refused")}
	store := newMemoryTokenStore()
	svc := newTestService(t, exchanger, store, nil)

	_, err := svc.CompleteCallback(context.Background(), CallbackRequest{Code: "code", StoreID: "42"})
	if status := HTTPStatus(err); status != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", status)
	}
	if strings.Contains(PublicMessage(err), "connection refused") {
		t.Fatalf("public message leaked cause: %q", PublicMessage(err))
	}
	if len(store.upserts) != 0 {
		t.Fatalf("expected store to be untouched")
	}
}

func TestCompleteCallback_StoresExchangedToken(t *testing.T) {
	exchanger := &stubExchanger{data: TokenData{AccessToken: "tok123", TokenType: "bearer", Scope: "read"}}
	store := newMemoryTokenStore()
	svc := newTestService(t, exchanger, store, nil)

	result, err := svc.CompleteCallback(context.Background(), CallbackRequest{Code: "abc", StoreID: "42"})
	if err != nil {
		t.Fatalf("complete callback: %v", err)
	}
	if result.StoreID != 42 {
		t.Fatalf("expected store 42, got %d", result.StoreID)
	}
	if len(exchanger.calls) != 1 || exchanger.calls[0] != "abc" {
		t.Fatalf("unexpected exchange calls: %#v", exchanger.calls)
	}
	if len(store.upserts) != 1 {
		t.Fatalf("expected one upsert, got %d", len(store.upserts))
	}
	call := store.upserts[0]
	want := TokenData{AccessToken: "tok123", TokenType: "bearer", Scope: "read"}
	if call.storeID != 42 || call.data != want {
		t.Fatalf("unexpected upsert: %#v", call)
	}
}

func TestCompleteCallback_FallsBackToResponseUserID(t *testing.T) {
	exchanger := &stubExchanger{data: TokenData{AccessToken: "tok", UserID: 777}}
	store := newMemoryTokenStore()
	svc := newTestService(t, exchanger, store, nil)

	result, err := svc.CompleteCallback(context.Background(), CallbackRequest{Code: "abc"})
	if err != nil {
		t.Fatalf("complete callback: %v", err)
	}
	if result.StoreID != 777 {
		t.Fatalf("expected fallback store id 777, got %d", result.StoreID)
	}

	exchanger.data = TokenData{AccessToken: "tok"}
	_, err = svc.CompleteCallback(context.Background(), CallbackRequest{Code: "abc"})
	if status := HTTPStatus(err); status != http.StatusBadRequest {
		t.Fatalf("expected 400 without any store id, got %d", status)
	}
	if len(store.upserts) != 1 {
		t.Fatalf("expected only the first callback to write, got %d", len(store.upserts))
	}
}

func TestCompleteCallback_StorageFailureIsServerError(t *testing.T) {
	exchanger := &stubExchanger{data: TokenData{AccessToken: "tok"}}
	store := newMemoryTokenStore()
	store.upsertErr = errors.New("pq: connection reset")
	svc := newTestService(t, exchanger, store, nil)

	_, err := svc.CompleteCallback(context.Background(), CallbackRequest{Code: "abc", StoreID: "9"})
	if err == nil {
		t.Fatalf("expected storage error")
	}
	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) {
		t.Fatalf("expected go-errors type, got %T", err)
	}
	if richErr.TextCode != ServiceErrorStorageFailed {
		t.Fatalf("expected storage failed code, got %q", richErr.TextCode)
	}
	if richErr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", richErr.Code)
	}
}

func TestSaveAndGetToken(t *testing.T) {
	store := newMemoryTokenStore()
	svc := newTestService(t, &stubExchanger{}, store, nil)
	ctx := context.Background()

	if _, err := svc.SaveToken(ctx, 5, TokenData{}); HTTPStatus(err) != http.StatusBadRequest {
		t.Fatalf("expected bad input for empty access token, got %v", err)
	}
	if _, err := svc.SaveToken(ctx, 5, TokenData{AccessToken: "a", Scope: "read"}); err != nil {
		t.Fatalf("save token: %v", err)
	}
	record, err := svc.GetToken(ctx, 5)
	if err != nil {
		t.Fatalf("get token: %v", err)
	}
	if record.AccessToken != "a" || record.Scope != "read" {
		t.Fatalf("unexpected record: %#v", record)
	}
	if _, err := svc.GetToken(ctx, 6); HTTPStatus(err) != http.StatusNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCompleteCallback_LogsStoredTokenWithoutSecret(t *testing.T) {
	exchanger := &stubExchanger{data: TokenData{AccessToken: "tok-secret", TokenType: "bearer"}}
	logger := &recordingLogger{}
	svc := newTestService(t, exchanger, newMemoryTokenStore(), logger)

	if _, err := svc.CompleteCallback(context.Background(), CallbackRequest{Code: "abc", StoreID: "42"}); err != nil {
		t.Fatalf("complete callback: %v", err)
	}
	entry, ok := logger.last()
	if !ok || entry.level != "info" || entry.msg != "token stored" {
		t.Fatalf("expected token stored info entry, got %#v", entry)
	}
	if storeID, _ := argValue(entry.args, "store_id"); storeID != "42" {
		t.Fatalf("expected store_id 42, got %#v", storeID)
	}
	if operation, _ := argValue(entry.args, "operation"); operation != "complete_callback" {
		t.Fatalf("expected operation field, got %#v", operation)
	}
	for _, arg := range entry.args {
		if text, ok := arg.(string); ok && strings.Contains(text, "tok-secret") {
			t.Fatalf("expected access token to stay out of logs")
		}
	}
}
