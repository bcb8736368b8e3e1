package query

import (
	"context"

	"github.com/goliatone/go-nuvemshop/core"
)

type TokenReader interface {
	GetToken(ctx context.Context, storeID core.StoreID) (core.TokenRecord, error)
}

type GetStoreTokenQuery struct {
	reader TokenReader
}

func NewGetStoreTokenQuery(reader TokenReader) *GetStoreTokenQuery {
	return &GetStoreTokenQuery{reader: reader}
}

func (q *GetStoreTokenQuery) Query(ctx context.Context, msg GetStoreTokenMessage) (core.TokenRecord, error) {
	if q == nil || q.reader == nil {
		return core.TokenRecord{}, queryDependencyError("query: token reader is required")
	}
	if err := msg.Validate(); err != nil {
		return core.TokenRecord{}, err
	}
	return q.reader.GetToken(ctx, msg.StoreID)
}
