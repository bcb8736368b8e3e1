package core

import (
	"context"
	"fmt"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
	glog "github.com/goliatone/go-logger/glog"
)

// Service completes OAuth callbacks: validate, exchange, persist.
type Service struct {
	logger         Logger
	loggerProvider LoggerProvider
	errorMapper    ErrorMapper
	exchanger      TokenExchanger
	store          TokenStore
}

type ServiceDependencies struct {
	Logger         Logger
	LoggerProvider LoggerProvider
	ErrorMapper    ErrorMapper
	Exchanger      TokenExchanger
	Store          TokenStore
}

func NewService(opts ...Option) (*Service, error) {
	builder := defaultServiceBuilder()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&builder)
	}

	// explicit logger, then the provider's named logger, then the default
	provider, resolved := glog.Resolve("callback", builder.loggerProvider, builder.logger)
	logger := builder.logger
	if logger == nil && builder.loggerProvider != nil {
		logger = builder.loggerProvider.GetLogger("callback")
	}
	if logger == nil {
		logger = resolved
	}
	logger = glog.Ensure(logger)
	if builder.errorMapper == nil {
		builder.errorMapper = DefaultErrorMapper
	}
	if builder.store == nil {
		return nil, fmt.Errorf("core: token store is required")
	}

	return &Service{
		logger:         logger,
		loggerProvider: provider,
		errorMapper:    builder.errorMapper,
		exchanger:      builder.exchanger,
		store:          builder.store,
	}, nil
}

func (s *Service) Dependencies() ServiceDependencies {
	if s == nil {
		return ServiceDependencies{}
	}
	return ServiceDependencies{
		Logger:         s.logger,
		LoggerProvider: s.loggerProvider,
		ErrorMapper:    s.errorMapper,
		Exchanger:      s.exchanger,
		Store:          s.store,
	}
}

// CompleteCallback handles one authorization redirect. A missing code or a
// malformed store id fails before any network call. When the callback carries
// no store_id the store reported by the token endpoint is used.
func (s *Service) CompleteCallback(ctx context.Context, req CallbackRequest) (result CallbackResult, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{}
	if raw := strings.TrimSpace(req.StoreID); raw != "" {
		fields["store_id"] = raw
	}
	defer func() {
		if result.StoreID.Valid() {
			fields["store_id"] = result.StoreID.String()
		}
		s.observe(ctx, startedAt, opCompleteCallback, err, fields)
	}()

	if s == nil || s.exchanger == nil || s.store == nil {
		err = newServiceError("core: callback service is not configured", goerrors.CategoryInternal, ServiceErrorInternal)
		return CallbackResult{}, err
	}

	code := strings.TrimSpace(req.Code)
	if code == "" {
		err = s.mapError(ErrMissingCode)
		return CallbackResult{}, err
	}

	var storeID StoreID
	if raw := strings.TrimSpace(req.StoreID); raw != "" {
		storeID, err = ParseStoreID(raw)
		if err != nil {
			err = s.mapError(err)
			return CallbackResult{}, err
		}
	}

	data, exchangeErr := s.exchanger.Exchange(ctx, code)
	if exchangeErr == nil && strings.TrimSpace(data.AccessToken) == "" {
		exchangeErr = ErrMissingAccessToken
	}
	if exchangeErr != nil {
		fields["cause"] = exchangeErr.Error()
		err = wrapServiceError(exchangeErr, goerrors.CategoryExternal, "core: token exchange failed", ServiceErrorExchangeFailed)
		return CallbackResult{}, err
	}

	if !storeID.Valid() {
		storeID = data.UserID
	}
	if !storeID.Valid() {
		err = s.mapError(fmt.Errorf("%w: callback and token response carry no store id", ErrInvalidStoreID))
		return CallbackResult{}, err
	}

	record, storeErr := s.store.Upsert(ctx, storeID, data)
	if storeErr != nil {
		fields["cause"] = storeErr.Error()
		err = wrapServiceError(storeErr, goerrors.CategoryInternal, "core: store token failed", ServiceErrorStorageFailed)
		return CallbackResult{}, err
	}

	return CallbackResult{StoreID: storeID, Record: record}, nil
}

// SaveToken writes a token outside the callback flow.
func (s *Service) SaveToken(ctx context.Context, storeID StoreID, data TokenData) (record TokenRecord, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"store_id": storeID.String()}
	defer func() {
		s.observe(ctx, startedAt, opSaveToken, err, fields)
	}()

	if s == nil || s.store == nil {
		err = newServiceError("core: token store is not configured", goerrors.CategoryInternal, ServiceErrorInternal)
		return TokenRecord{}, err
	}
	if err = NewTokenRecord(storeID, data).Validate(); err != nil {
		err = s.mapError(err)
		return TokenRecord{}, err
	}
	record, err = s.store.Upsert(ctx, storeID, data)
	if err != nil {
		fields["cause"] = err.Error()
		err = wrapServiceError(err, goerrors.CategoryInternal, "core: store token failed", ServiceErrorStorageFailed)
		return TokenRecord{}, err
	}
	return record, nil
}

func (s *Service) GetToken(ctx context.Context, storeID StoreID) (TokenRecord, error) {
	if s == nil || s.store == nil {
		return TokenRecord{}, newServiceError("core: token store is not configured", goerrors.CategoryInternal, ServiceErrorInternal)
	}
	if !storeID.Valid() {
		return TokenRecord{}, s.mapError(fmt.Errorf("%w: %d", ErrInvalidStoreID, int64(storeID)))
	}
	record, err := s.store.Get(ctx, storeID)
	if err != nil {
		return TokenRecord{}, s.mapError(err)
	}
	return record, nil
}

func (s *Service) mapError(err error) error {
	if err == nil {
		return nil
	}
	if s == nil || s.errorMapper == nil {
		return err
	}
	mapped := s.errorMapper(err)
	if mapped == nil {
		return err
	}
	return mapped
}
