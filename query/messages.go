package query

import "github.com/goliatone/go-nuvemshop/core"

const TypeGetStoreToken = "nuvemshop.query.token.get"

type GetStoreTokenMessage struct {
	StoreID core.StoreID
}

func (GetStoreTokenMessage) Type() string { return TypeGetStoreToken }

func (m GetStoreTokenMessage) Validate() error {
	if !m.StoreID.Valid() {
		return queryValidationError("store_id", "store id must be a positive integer")
	}
	return nil
}
