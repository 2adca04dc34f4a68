package out

import (
	"context"
	"errors"
	"fmt"

	"inkstone/internal/modules/ledger/domain"
	ledgerout "inkstone/internal/modules/ledger/port/out"
	"inkstone/internal/platform/blob"
	apperrors "inkstone/internal/platform/errors"
)

const activeKey = "ledger/active-session"

type BlobActiveSessionStore struct {
	store blob.Store
}

func NewBlobActiveSessionStore(store blob.Store) ledgerout.ActiveSessionStore {
	return &BlobActiveSessionStore{store: store}
}

func (s *BlobActiveSessionStore) SaveActive(ctx context.Context, session domain.ActiveSession) error {
	if err := blob.SetJSON(ctx, s.store, activeKey, session); err != nil {
		return fmt.Errorf("write active session: %w", err)
	}
	return nil
}

func (s *BlobActiveSessionStore) LoadActive(ctx context.Context) (domain.ActiveSession, error) {
	active := domain.ActiveSession{}
	found, err := blob.GetJSON(ctx, s.store, activeKey, &active)
	if err != nil {
		return domain.ActiveSession{}, fmt.Errorf("read active session: %w", err)
	}
	if !found || active.SessionID == "" {
		return domain.ActiveSession{}, apperrors.ErrNoActiveSession
	}
	return active, nil
}

func (s *BlobActiveSessionStore) ClearActive(ctx context.Context) error {
	if err := s.store.Delete(ctx, activeKey); err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return fmt.Errorf("clear active session: %w", err)
	}
	return nil
}
