package query

import (
	gocmd "github.com/goliatone/go-command"
	"github.com/goliatone/go-nuvemshop/core"
)

var _ gocmd.Querier[GetStoreTokenMessage, core.TokenRecord] = (*GetStoreTokenQuery)(nil)
