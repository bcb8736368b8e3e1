package core

import (
	"context"

	glog "github.com/goliatone/go-logger/glog"
)

// TokenExchanger trades an authorization code for a token payload.
type TokenExchanger interface {
	Exchange(ctx context.Context, code string) (TokenData, error)
}

type TokenWriter interface {
	Upsert(ctx context.Context, storeID StoreID, data TokenData) (TokenRecord, error)
}

type TokenReader interface {
	Get(ctx context.Context, storeID StoreID) (TokenRecord, error)
}

type TokenStore interface {
	TokenWriter
	TokenReader
}

type SchemaEnsurer interface {
	EnsureSchema(ctx context.Context) error
}

type Logger = glog.Logger

type LoggerProvider = glog.LoggerProvider

type FieldsLogger = glog.FieldsLogger
