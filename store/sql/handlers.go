package sqlstore

import (
	"strconv"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
)

// tokens are keyed by the platform store id, so the uuid accessors are inert.
func tokenHandlers() repository.ModelHandlers[*tokenRecord] {
	return repository.ModelHandlers[*tokenRecord]{
		NewRecord: func() *tokenRecord {
			return &tokenRecord{}
		},
		GetID: func(*tokenRecord) uuid.UUID {
			return uuid.Nil
		},
		SetID: func(*tokenRecord, uuid.UUID) {},
		GetIdentifier: func() string {
			return "store_id"
		},
		GetIdentifierValue: func(record *tokenRecord) string {
			if record == nil {
				return ""
			}
			return strconv.FormatInt(record.StoreID, 10)
		},
	}
}
