package out

import (
	"context"
	"fmt"

	"inkstone/internal/modules/ledger/domain"
	ledgerout "inkstone/internal/modules/ledger/port/out"
	"inkstone/internal/platform/blob"
)

const ledgerKey = "ledger/sessions"

type ledgerRecord struct {
	SchemaVersion int `json:"schema_version"`
	domain.Ledger
}

type BlobLedgerStore struct {
	store blob.Store
}

func NewBlobLedgerStore(store blob.Store) ledgerout.LedgerStore {
	return &BlobLedgerStore{store: store}
}

func (s *BlobLedgerStore) Load(ctx context.Context) (domain.Ledger, bool, error) {
	record := ledgerRecord{}
	found, err := blob.GetJSON(ctx, s.store, ledgerKey, &record)
	if err != nil {
		return domain.Ledger{}, false, fmt.Errorf("load ledger: %w", err)
	}
	return record.Ledger, found, nil
}

func (s *BlobLedgerStore) Save(ctx context.Context, ledger domain.Ledger) error {
	return blob.SetJSON(ctx, s.store, ledgerKey, ledgerRecord{SchemaVersion: domain.SchemaVersion, Ledger: ledger})
}
