package out

import (
	"context"
	"fmt"

	"inkstone/internal/modules/prompt/domain"
	promptout "inkstone/internal/modules/prompt/port/out"
	"inkstone/internal/platform/blob"
)

const stateKey = "prompt/state"

type stateRecord struct {
	SchemaVersion int `json:"schema_version"`
	domain.State
}

type BlobStateStore struct {
	store blob.Store
}

func NewBlobStateStore(store blob.Store) promptout.StateStore {
	return &BlobStateStore{store: store}
}

func (s *BlobStateStore) Load(ctx context.Context) (domain.State, bool, error) {
	record := stateRecord{}
	found, err := blob.GetJSON(ctx, s.store, stateKey, &record)
	if err != nil {
		return domain.State{}, false, fmt.Errorf("load prompt state: %w", err)
	}
	return record.State, found, nil
}

func (s *BlobStateStore) Save(ctx context.Context, state domain.State) error {
	return blob.SetJSON(ctx, s.store, stateKey, stateRecord{SchemaVersion: domain.SchemaVersion, State: state})
}
