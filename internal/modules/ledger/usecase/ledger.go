package usecase

import (
	"context"
	"errors"
	"fmt"

	journeyin "inkstone/internal/modules/journey/port/in"
	"inkstone/internal/modules/ledger/domain"
	ledgerdto "inkstone/internal/modules/ledger/dto"
	ledgerin "inkstone/internal/modules/ledger/port/in"
	ledgerout "inkstone/internal/modules/ledger/port/out"
	"inkstone/internal/modules/ledger/service"
	promptin "inkstone/internal/modules/prompt/port/in"
	apperrors "inkstone/internal/platform/errors"
)

type Interactor struct {
	svc         *service.LedgerService
	journey     journeyin.Usecase
	prompts     promptin.Usecase
	activeStore ledgerout.ActiveSessionStore
}

func NewInteractor(svc *service.LedgerService, journey journeyin.Usecase, prompts promptin.Usecase, activeStore ledgerout.ActiveSessionStore) ledgerin.Usecase {
	return &Interactor{svc: svc, journey: journey, prompts: prompts, activeStore: activeStore}
}

func (i *Interactor) RecordStone(ctx context.Context, input ledgerdto.StoneInput) (ledgerdto.StoneOutput, error) {
	if input.DurationSec < 0 {
		return ledgerdto.StoneOutput{}, fmt.Errorf("%w: duration must be non-negative", apperrors.ErrInvalidInput)
	}
	stone := i.svc.RecordStone(ctx, input.DurationSec, input.Reflection)
	return i.stoneOutput(ctx, stone)
}

func (i *Interactor) AttachReflection(ctx context.Context, text string) (ledgerdto.StoneOutput, error) {
	stone, ok := i.svc.AttachReflection(ctx, text)
	if !ok {
		return ledgerdto.StoneOutput{}, fmt.Errorf("stone session today: %w", apperrors.ErrNotFound)
	}
	return i.stoneOutput(ctx, stone)
}

func (i *Interactor) stoneOutput(ctx context.Context, stone domain.StoneSession) (ledgerdto.StoneOutput, error) {
	status, err := i.journey.Status(ctx)
	if err != nil {
		return ledgerdto.StoneOutput{}, err
	}
	today := i.svc.SessionsToday(ctx)
	return ledgerdto.StoneOutput{
		SessionID:      stone.ID,
		Date:           stone.Date,
		DurationSec:    stone.DurationSec,
		Reflection:     stone.Reflection,
		SessionsToday:  today,
		DailyGoal:      status.DailyStoneGoal,
		CanPracticeNow: today < status.DailyStoneGoal,
	}, nil
}

func (i *Interactor) StartWriting(ctx context.Context) (ledgerdto.StartWritingOutput, error) {
	if _, err := i.activeStore.LoadActive(ctx); err == nil {
		return ledgerdto.StartWritingOutput{}, apperrors.ErrActiveSessionExists
	} else if !errors.Is(err, apperrors.ErrNoActiveSession) {
		return ledgerdto.StartWritingOutput{}, err
	}

	status, err := i.journey.Status(ctx)
	if err != nil {
		return ledgerdto.StartWritingOutput{}, err
	}
	session := i.svc.StartWriting(ctx, status.Phase)
	if err := i.activeStore.SaveActive(ctx, domain.ActiveSession{SessionID: session.ID, StartedAt: session.StartedAt}); err != nil {
		i.svc.DiscardWriting(ctx, session.ID)
		return ledgerdto.StartWritingOutput{}, err
	}
	if i.prompts != nil {
		if _, err := i.prompts.Begin(ctx, session.ID); err != nil {
			i.svc.DiscardWriting(ctx, session.ID)
			if clearErr := i.activeStore.ClearActive(ctx); clearErr != nil {
				err = errors.Join(err, clearErr)
			}
			return ledgerdto.StartWritingOutput{}, err
		}
	}
	return ledgerdto.StartWritingOutput{SessionID: session.ID, StartedAt: session.StartedAt, Phase: session.Phase}, nil
}

// EndWriting ends input.SessionID, or the active session when no id is given.
// Ending an unknown or already ended session reports Ended=false.
func (i *Interactor) EndWriting(ctx context.Context, input ledgerdto.EndWritingInput) (ledgerdto.EndWritingOutput, error) {
	if input.WordCount < 0 {
		return ledgerdto.EndWritingOutput{}, fmt.Errorf("%w: word count must be non-negative", apperrors.ErrInvalidInput)
	}
	active, activeErr := i.activeStore.LoadActive(ctx)
	if activeErr != nil && !errors.Is(activeErr, apperrors.ErrNoActiveSession) {
		return ledgerdto.EndWritingOutput{}, activeErr
	}
	sessionID := input.SessionID
	if sessionID == "" {
		if activeErr != nil {
			return ledgerdto.EndWritingOutput{}, activeErr
		}
		sessionID = active.SessionID
	}

	session, path, ended := i.svc.EndWriting(ctx, sessionID, input.WordCount)
	if activeErr == nil && active.SessionID == sessionID {
		if err := i.activeStore.ClearActive(ctx); err != nil {
			return ledgerdto.EndWritingOutput{}, err
		}
		if i.prompts != nil {
			if _, err := i.prompts.End(ctx); err != nil {
				return ledgerdto.EndWritingOutput{}, err
			}
		}
	}
	if !ended {
		return ledgerdto.EndWritingOutput{SessionID: sessionID}, nil
	}
	return ledgerdto.EndWritingOutput{
		SessionID:   session.ID,
		Ended:       true,
		DurationMin: session.DurationMin,
		WordCount:   session.WordCount,
		Path:        path,
	}, nil
}

// RecordResonance rates input.SessionID, or the latest writing session when
// no id is given.
func (i *Interactor) RecordResonance(ctx context.Context, input ledgerdto.ResonanceInput) (ledgerdto.ResonanceOutput, error) {
	if !domain.ValidResonance(input.Score) {
		return ledgerdto.ResonanceOutput{}, fmt.Errorf("%w: resonance must be between %d and %d, got %d",
			apperrors.ErrInvalidInput, domain.MinResonance, domain.MaxResonance, input.Score)
	}
	sessionID := input.SessionID
	if sessionID == "" {
		if latest, ok := i.svc.Snapshot(ctx).LatestWriting(); ok {
			sessionID = latest.ID
		}
	}
	entry, rated := i.svc.RecordResonance(ctx, sessionID, input.Score)
	return ledgerdto.ResonanceOutput{ScoreID: entry.ID, SessionID: entry.SessionID, Score: entry.Score, Rated: rated}, nil
}

func (i *Interactor) Stats(ctx context.Context) (ledgerdto.StatsOutput, error) {
	status, err := i.journey.Status(ctx)
	if err != nil {
		return ledgerdto.StatsOutput{}, err
	}
	ledger := i.svc.Snapshot(ctx)
	today := i.svc.Today()
	sessionsToday := ledger.SessionsToday(today)
	out := ledgerdto.StatsOutput{
		Today:                   today,
		SessionsToday:           sessionsToday,
		DailyGoal:               status.DailyStoneGoal,
		CanPracticeNow:          sessionsToday < status.DailyStoneGoal,
		AverageResonanceAllTime: ledger.AverageResonanceAllTime(),
		TotalStoneSessions:      len(ledger.Stones),
		TotalWritingSessions:    len(ledger.Writing),
	}
	if status.Started {
		weekStart := domain.DateKey(status.WeekStart)
		out.WritingSessionsThisWeek = ledger.WritingSessionsSince(weekStart)
		out.AverageResonanceThisWeek = ledger.AverageResonanceSince(weekStart)
	}
	if active, err := i.activeStore.LoadActive(ctx); err == nil {
		out.ActiveSessionID = active.SessionID
	}
	return out, nil
}
