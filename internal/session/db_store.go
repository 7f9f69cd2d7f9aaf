package session

import (
	"context"
	"time"

	"fieldnote/api/internal/store"
)

// DBStore keeps refresh sessions in the relational store, for deployments
// without Redis.
type DBStore struct {
	store store.Store
}

func NewDBStore(st store.Store) *DBStore {
	return &DBStore{store: st}
}

func (s *DBStore) SaveRefreshSession(ctx context.Context, tokenHash string, user store.User, expiresAt time.Time) error {
	return s.store.SaveRefreshSession(ctx, tokenHash, user.ID, expiresAt)
}

func (s *DBStore) LookupRefreshSession(ctx context.Context, tokenHash string) (store.User, error) {
	return s.store.LookupRefreshSession(ctx, tokenHash)
}

func (s *DBStore) RevokeRefreshSession(ctx context.Context, tokenHash string) error {
	return s.store.RevokeRefreshSession(ctx, tokenHash)
}
