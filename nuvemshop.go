// Package nuvemshop receives the Nuvemshop OAuth redirect, exchanges the
// authorization code for an access token, and stores it per store.
package nuvemshop

import "github.com/goliatone/go-nuvemshop/core"

type Config = core.Config

type Option = core.Option

type Service = core.Service

type ServiceDependencies = core.ServiceDependencies

type StoreID = core.StoreID
type TokenData = core.TokenData
type TokenRecord = core.TokenRecord
type TokenExchanger = core.TokenExchanger
type TokenStore = core.TokenStore

type CallbackRequest = core.CallbackRequest
type CallbackResult = core.CallbackResult

var (
	WithLogger         = core.WithLogger
	WithLoggerProvider = core.WithLoggerProvider
	WithErrorMapper    = core.WithErrorMapper
	WithTokenExchanger = core.WithTokenExchanger
	WithTokenStore     = core.WithTokenStore
)

func DefaultConfig() Config {
	return core.DefaultConfig()
}

func NewService(opts ...Option) (*Service, error) {
	return core.NewService(opts...)
}
