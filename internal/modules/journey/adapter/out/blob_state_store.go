package out

import (
	"context"
	"fmt"
	"time"

	"inkstone/internal/modules/journey/domain"
	journeyout "inkstone/internal/modules/journey/port/out"
	"inkstone/internal/platform/blob"
)

const stateKey = "journey/state"

type BlobStateStore struct {
	store blob.Store
}

func NewBlobStateStore(store blob.Store) journeyout.StateStore {
	return &BlobStateStore{store: store}
}

// stateRecord is the persisted shape of domain.State. An empty PinnedPhase
// means the phase is computed.
type stateRecord struct {
	SchemaVersion  int                `json:"schema_version"`
	StartDate      *time.Time         `json:"start_date,omitempty"`
	Phase          string             `json:"phase"`
	PinnedPhase    string             `json:"pinned_phase,omitempty"`
	DailyStoneGoal int                `json:"daily_stone_goal"`
	Unlocked       domain.UnlockState `json:"unlocked"`
	LastWeek       int                `json:"last_week"`
	LastPhase      string             `json:"last_phase"`
	UpdatedAt      time.Time          `json:"updated_at"`
	Revision       int64              `json:"revision"`
}

func (s *BlobStateStore) Load(ctx context.Context) (domain.State, bool, error) {
	record := stateRecord{}
	found, err := blob.GetJSON(ctx, s.store, stateKey, &record)
	if err != nil || !found {
		return domain.State{}, false, err
	}
	state, err := fromRecord(record)
	if err != nil {
		return domain.State{}, false, fmt.Errorf("decode journey state: %w", err)
	}
	return state, true, nil
}

func (s *BlobStateStore) Save(ctx context.Context, state domain.State) error {
	return blob.SetJSON(ctx, s.store, stateKey, toRecord(state))
}

func toRecord(state domain.State) stateRecord {
	record := stateRecord{
		SchemaVersion:  domain.SchemaVersion,
		StartDate:      state.StartDate,
		Phase:          string(state.Phase),
		DailyStoneGoal: state.DailyStoneGoal,
		Unlocked:       state.Unlocked,
		LastWeek:       state.LastWeek,
		LastPhase:      string(state.LastPhase),
		UpdatedAt:      state.UpdatedAt,
		Revision:       state.Revision,
	}
	if pinned, ok := state.PinnedPhase(); ok {
		record.PinnedPhase = string(pinned)
	}
	return record
}

func fromRecord(record stateRecord) (domain.State, error) {
	phase, err := domain.ParsePhase(record.Phase)
	if err != nil {
		return domain.State{}, err
	}
	lastPhase := domain.PhaseStone
	if record.LastPhase != "" {
		if lastPhase, err = domain.ParsePhase(record.LastPhase); err != nil {
			return domain.State{}, err
		}
	}
	state := domain.State{
		StartDate:      record.StartDate,
		Phase:          phase,
		Mode:           domain.Computed{},
		DailyStoneGoal: record.DailyStoneGoal,
		Unlocked:       record.Unlocked,
		LastWeek:       record.LastWeek,
		LastPhase:      lastPhase,
		UpdatedAt:      record.UpdatedAt,
		Revision:       record.Revision,
	}
	if record.PinnedPhase != "" {
		pinned, err := domain.ParsePhase(record.PinnedPhase)
		if err != nil {
			return domain.State{}, err
		}
		state.Mode = domain.Pinned{Phase: pinned}
	}
	if state.DailyStoneGoal < 1 {
		state.DailyStoneGoal = domain.DefaultDailyStoneGoal
	}
	return state, nil
}
