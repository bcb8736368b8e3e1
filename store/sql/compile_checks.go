package sqlstore

import "github.com/goliatone/go-nuvemshop/core"

var (
	_ core.TokenStore    = (*TokenStore)(nil)
	_ core.SchemaEnsurer = (*TokenStore)(nil)
)
