package usecase

import (
	"context"

	journeydto "inkstone/internal/modules/journey/dto"
	journeyin "inkstone/internal/modules/journey/port/in"
	"inkstone/internal/modules/prompt/domain"
	"inkstone/internal/modules/prompt/dto"
	promptin "inkstone/internal/modules/prompt/port/in"
	"inkstone/internal/modules/prompt/service"
	apperrors "inkstone/internal/platform/errors"
)

type Interactor struct {
	svc     *service.PromptService
	journey journeyin.Usecase
}

func NewInteractor(svc *service.PromptService, journey journeyin.Usecase) promptin.Usecase {
	return &Interactor{svc: svc, journey: journey}
}

func (i *Interactor) schedule(ctx context.Context) (service.Schedule, error) {
	status, err := i.journey.Status(ctx)
	if err != nil {
		return service.Schedule{}, err
	}
	return service.Schedule{
		Phase:     status.Phase,
		Interval:  status.PromptInterval,
		Scheduled: status.PromptsScheduled,
		OnDemand:  status.Started && status.PromptMode != journeydto.PromptModeOff,
	}, nil
}

func (i *Interactor) Begin(ctx context.Context, sessionID string) (dto.StateOutput, error) {
	schedule, err := i.schedule(ctx)
	if err != nil {
		return dto.StateOutput{}, err
	}
	return i.toState(i.svc.Begin(ctx, sessionID, schedule)), nil
}

func (i *Interactor) End(ctx context.Context) (dto.StateOutput, error) {
	return i.toState(i.svc.End(ctx)), nil
}

func (i *Interactor) CheckAndShow(ctx context.Context) (dto.CheckOutput, error) {
	schedule, err := i.schedule(ctx)
	if err != nil {
		return dto.CheckOutput{}, err
	}
	state, shown := i.svc.Check(ctx, schedule)
	return dto.CheckOutput{Prompt: i.toPrompt(state), Shown: shown}, nil
}

func (i *Interactor) ShowNow(ctx context.Context) (dto.PromptOutput, error) {
	if !i.svc.State(ctx).Active {
		return dto.PromptOutput{}, apperrors.ErrNoActiveSession
	}
	schedule, err := i.schedule(ctx)
	if err != nil {
		return dto.PromptOutput{}, err
	}
	if !schedule.OnDemand {
		return dto.PromptOutput{}, apperrors.ErrPromptsLocked
	}
	state, _ := i.svc.ShowNow(ctx, schedule)
	p := i.toPrompt(state)
	if p == nil {
		return dto.PromptOutput{}, apperrors.ErrNoActivePrompt
	}
	return *p, nil
}

func (i *Interactor) Dismiss(ctx context.Context) (dto.DismissOutput, error) {
	if i.svc.State(ctx).Current == nil {
		return dto.DismissOutput{}, apperrors.ErrNoActivePrompt
	}
	_, ok, remaining := i.svc.Dismiss(ctx)
	return dto.DismissOutput{Dismissed: ok, RemainingMs: remaining.Milliseconds()}, nil
}

func (i *Interactor) SetEnabled(ctx context.Context, enabled bool) (dto.StateOutput, error) {
	return i.toState(i.svc.SetEnabled(ctx, enabled)), nil
}

func (i *Interactor) Current(ctx context.Context) (*dto.PromptOutput, error) {
	return i.toPrompt(i.svc.State(ctx)), nil
}

func (i *Interactor) State(ctx context.Context) (dto.StateOutput, error) {
	return i.toState(i.svc.State(ctx)), nil
}

func (i *Interactor) toPrompt(state domain.State) *dto.PromptOutput {
	if state.Current == nil {
		return nil
	}
	return &dto.PromptOutput{
		ID:            state.Current.ID,
		Message:       state.Current.Message,
		Type:          string(state.Current.Type),
		MinDisplayMs:  i.svc.MinDisplay().Milliseconds(),
		DisplayedAt:   state.DisplayedAt,
		DismissibleAt: state.DismissibleAt,
	}
}

func (i *Interactor) toState(state domain.State) dto.StateOutput {
	return dto.StateOutput{
		Active:       state.Active,
		Enabled:      state.Enabled,
		SessionID:    state.SessionID,
		Current:      i.toPrompt(state),
		NextPromptAt: state.NextPromptAt,
		ShownToday:   len(state.ShownToday),
		Shown:        state.Shown,
		Answered:     state.Answered,
	}
}
