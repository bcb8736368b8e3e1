package sqlstore

import (
	"github.com/goliatone/go-nuvemshop/core"
	"github.com/uptrace/bun"
)

type tokenRecord struct {
	bun.BaseModel `bun:"table:tokens,alias:t"`

	StoreID     int64  `bun:"store_id,pk"`
	AccessToken string `bun:"access_token,type:text,notnull"`
	TokenType   string `bun:"token_type,type:varchar(255),nullzero"`
	Scope       string `bun:"scope,type:varchar(255),nullzero"`
}

func newTokenRecord(storeID core.StoreID, data core.TokenData) *tokenRecord {
	return &tokenRecord{
		StoreID:     int64(storeID),
		AccessToken: data.AccessToken,
		TokenType:   data.TokenType,
		Scope:       data.Scope,
	}
}

func (r *tokenRecord) toDomain() core.TokenRecord {
	if r == nil {
		return core.TokenRecord{}
	}
	return core.TokenRecord{
		StoreID:     core.StoreID(r.StoreID),
		AccessToken: r.AccessToken,
		TokenType:   r.TokenType,
		Scope:       r.Scope,
	}
}
