package usecase

import (
	"context"
	"fmt"

	"inkstone/internal/modules/journey/domain"
	"inkstone/internal/modules/journey/dto"
	journeyin "inkstone/internal/modules/journey/port/in"
	"inkstone/internal/modules/journey/service"
	apperrors "inkstone/internal/platform/errors"
)

type Interactor struct {
	svc *service.JourneyService
}

func NewInteractor(svc *service.JourneyService) journeyin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Status(ctx context.Context) (dto.StatusOutput, error) {
	return toStatus(i.svc.Current(ctx)), nil
}

func (i *Interactor) Start(ctx context.Context) (dto.StatusOutput, error) {
	view, started := i.svc.Start(ctx)
	if !started {
		return toStatus(view), apperrors.ErrJourneyStarted
	}
	return toStatus(view), nil
}

func (i *Interactor) Skip(ctx context.Context) (dto.StatusOutput, error) {
	return toStatus(i.svc.Skip(ctx)), nil
}

func (i *Interactor) Reset(ctx context.Context) (dto.StatusOutput, error) {
	return toStatus(i.svc.Reset(ctx)), nil
}

func (i *Interactor) SetDailyGoal(ctx context.Context, goal int) (dto.StatusOutput, error) {
	if goal < 1 {
		return dto.StatusOutput{}, fmt.Errorf("%w: daily goal must be at least 1, got %d", apperrors.ErrInvalidInput, goal)
	}
	return toStatus(i.svc.SetDailyGoal(ctx, goal)), nil
}

func (i *Interactor) Tick(ctx context.Context) (dto.TickOutput, error) {
	view, result := i.svc.Tick(ctx)
	out := dto.TickOutput{Status: toStatus(view)}
	if result.PhaseChange != nil {
		out.PhaseChange = &dto.PhaseChangeOutput{
			From:      string(result.PhaseChange.From),
			To:        string(result.PhaseChange.To),
			FromTitle: result.PhaseChange.From.Title(),
			ToTitle:   result.PhaseChange.To.Title(),
		}
	}
	for _, ev := range result.Unlocks {
		out.Unlocks = append(out.Unlocks, dto.UnlockEventOutput{
			Feature:     ev.Feature,
			Title:       ev.Title,
			Description: ev.Description,
			Icon:        ev.Icon,
		})
	}
	return out, nil
}

func (i *Interactor) ForcePhase(ctx context.Context, phase string) (dto.StatusOutput, error) {
	p, err := domain.ParsePhase(phase)
	if err != nil {
		return dto.StatusOutput{}, err
	}
	return toStatus(i.svc.ForcePhase(ctx, p)), nil
}

func (i *Interactor) ClearPin(ctx context.Context) (dto.StatusOutput, error) {
	return toStatus(i.svc.ClearPin(ctx)), nil
}

func (i *Interactor) ForceDay(ctx context.Context, day int) (dto.StatusOutput, error) {
	if day < 0 {
		return dto.StatusOutput{}, fmt.Errorf("%w: day must be non-negative, got %d", apperrors.ErrInvalidInput, day)
	}
	return toStatus(i.svc.ForceDay(ctx, day)), nil
}

func (i *Interactor) ForceUnlock(ctx context.Context, feature string) (dto.StatusOutput, error) {
	f, err := domain.ParseFeature(feature)
	if err != nil {
		return dto.StatusOutput{}, err
	}
	return toStatus(i.svc.ForceUnlock(ctx, f)), nil
}

func toStatus(view service.View) dto.StatusOutput {
	state, pos := view.State, view.Position
	_, pinned := state.PinnedPhase()
	out := dto.StatusOutput{
		Started:        state.Started(),
		DaysSinceStart: pos.ElapsedDays,
		Week:           pos.Week,
		Day:            pos.DayOfWeek,
		Phase:          string(state.Phase),
		PhaseTitle:     state.Phase.Title(),
		PhaseProgress:  domain.Progress(state.Phase, pos.ElapsedDays),
		Pinned:         pinned,
		DailyStoneGoal: state.DailyStoneGoal,
		Unlocked: dto.UnlocksOutput{
			TextEditor:            state.Unlocked.TextEditor,
			MultipleChapters:      state.Unlocked.MultipleChapters,
			FullChapterManagement: state.Unlocked.FullChapterManagement,
			ReflectionWorkspace:   state.Unlocked.ReflectionWorkspace,
			CommunityFeatures:     state.Unlocked.CommunityFeatures,
			FullEditor:            state.Unlocked.FullEditor,
			ExportFeatures:        state.Unlocked.ExportFeatures,
		},
	}
	if state.StartDate != nil {
		out.StartDate = *state.StartDate
		out.WeekStart = domain.WeekStart(*state.StartDate, pos.Week)
	}
	for _, f := range state.Unlocked.Features() {
		out.Features = append(out.Features, string(f))
	}
	limit, limited := domain.MaxChapters(pos.Week)
	out.MaxChapters = limit
	out.ChaptersUnlimited = !limited
	out.PromptInterval, out.PromptsScheduled = domain.PromptInterval(pos.Week)
	out.PromptMode = string(domain.PromptModeFor(pos.Week))
	return out
}
