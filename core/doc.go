// Package core contains the callback domain contracts, configuration, and the
// orchestration that turns an OAuth authorization code into a persisted store
// token. Transport and storage adapters depend on this package; core must not
// depend on provider-specific or transport-specific adapters.
package core
