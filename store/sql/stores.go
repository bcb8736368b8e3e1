package sqlstore

import (
	"fmt"

	"github.com/uptrace/bun"
)

// Stores holds every SQL-backed store sharing one bun pool.
type Stores struct {
	db     *bun.DB
	Tokens *TokenStore
}

// NewStores accepts a *bun.DB or anything exposing DB() *bun.DB, such as a
// *persistence.Client.
func NewStores(source any) (*Stores, error) {
	db, err := bunDBFrom(source)
	if err != nil {
		return nil, err
	}
	tokens, err := NewTokenStore(db)
	if err != nil {
		return nil, err
	}
	return &Stores{db: db, Tokens: tokens}, nil
}

func (s *Stores) DB() *bun.DB {
	if s == nil {
		return nil
	}
	return s.db
}

func bunDBFrom(source any) (*bun.DB, error) {
	switch typed := source.(type) {
	case nil:
		return nil, fmt.Errorf("sqlstore: database source is required")
	case *bun.DB:
		if typed == nil {
			return nil, fmt.Errorf("sqlstore: bun db is nil")
		}
		return typed, nil
	case interface{ DB() *bun.DB }:
		db := typed.DB()
		if db == nil {
			return nil, fmt.Errorf("sqlstore: %T returned a nil bun db", source)
		}
		return db, nil
	default:
		return nil, fmt.Errorf("sqlstore: unsupported database source %T", source)
	}
}
