package sqlstore

import (
	"context"
	"fmt"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-nuvemshop/core"
	"github.com/uptrace/bun"
)

type TokenStore struct {
	db   *bun.DB
	repo repository.Repository[*tokenRecord]
}

func NewTokenStore(db *bun.DB) (*TokenStore, error) {
	if db == nil {
		return nil, fmt.Errorf("sqlstore: bun db is required")
	}
	repo := repository.NewRepository[*tokenRecord](db, tokenHandlers())
	if validator, ok := repo.(repository.Validator); ok {
		if err := validator.Validate(); err != nil {
			return nil, fmt.Errorf("sqlstore: invalid token repository wiring: %w", err)
		}
	}
	return &TokenStore{
		db:   db,
		repo: repo,
	}, nil
}

// EnsureSchema creates the tokens table when it does not exist yet.
func (s *TokenStore) EnsureSchema(ctx context.Context) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("sqlstore: token store is not configured")
	}
	if _, err := s.db.NewCreateTable().
		Model((*tokenRecord)(nil)).
		IfNotExists().
		Exec(ctx); err != nil {
		return fmt.Errorf("sqlstore: ensure tokens table: %w", err)
	}
	return nil
}

// Upsert writes the token for storeID in one statement, replacing every
// non-key column of an existing row.
func (s *TokenStore) Upsert(ctx context.Context, storeID core.StoreID, data core.TokenData) (core.TokenRecord, error) {
	if s == nil || s.db == nil {
		return core.TokenRecord{}, fmt.Errorf("sqlstore: token store is not configured")
	}
	if err := core.NewTokenRecord(storeID, data).Validate(); err != nil {
		return core.TokenRecord{}, fmt.Errorf("sqlstore: %w", err)
	}

	record := newTokenRecord(storeID, data)
	if _, err := s.db.NewInsert().
		Model(record).
		On("CONFLICT (store_id) DO UPDATE").
		Set("access_token = EXCLUDED.access_token").
		Set("token_type = EXCLUDED.token_type").
		Set("scope = EXCLUDED.scope").
		Exec(ctx); err != nil {
		return core.TokenRecord{}, fmt.Errorf("sqlstore: upsert token for store %d: %w", record.StoreID, err)
	}
	return record.toDomain(), nil
}

func (s *TokenStore) Get(ctx context.Context, storeID core.StoreID) (core.TokenRecord, error) {
	if s == nil || s.repo == nil {
		return core.TokenRecord{}, fmt.Errorf("sqlstore: token store is not configured")
	}
	if !storeID.Valid() {
		return core.TokenRecord{}, fmt.Errorf("sqlstore: %w: %d", core.ErrInvalidStoreID, int64(storeID))
	}
	records, _, err := s.repo.List(ctx,
		repository.SelectBy("store_id", "=", storeID.String()),
		repository.SelectPaginate(1, 0),
	)
	if err != nil {
		return core.TokenRecord{}, fmt.Errorf("sqlstore: get token for store %d: %w", int64(storeID), err)
	}
	if len(records) == 0 {
		return core.TokenRecord{}, fmt.Errorf("sqlstore: store %d: %w", int64(storeID), core.ErrTokenNotFound)
	}
	return records[0].toDomain(), nil
}
