package in

import (
	"context"

	"inkstone/internal/modules/journey/dto"
	journeyin "inkstone/internal/modules/journey/port/in"
)

type CLIHandler struct {
	usecase journeyin.Usecase
}

func NewCLIHandler(usecase journeyin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Status(ctx context.Context) (dto.StatusOutput, error) {
	return h.usecase.Status(ctx)
}

func (h CLIHandler) Start(ctx context.Context) (dto.StatusOutput, error) {
	return h.usecase.Start(ctx)
}

func (h CLIHandler) Skip(ctx context.Context) (dto.StatusOutput, error) {
	return h.usecase.Skip(ctx)
}

func (h CLIHandler) Reset(ctx context.Context) (dto.StatusOutput, error) {
	return h.usecase.Reset(ctx)
}

func (h CLIHandler) SetDailyGoal(ctx context.Context, goal int) (dto.StatusOutput, error) {
	return h.usecase.SetDailyGoal(ctx, goal)
}

func (h CLIHandler) Tick(ctx context.Context) (dto.TickOutput, error) {
	return h.usecase.Tick(ctx)
}

func (h CLIHandler) ForcePhase(ctx context.Context, phase string) (dto.StatusOutput, error) {
	return h.usecase.ForcePhase(ctx, phase)
}

func (h CLIHandler) ClearPin(ctx context.Context) (dto.StatusOutput, error) {
	return h.usecase.ClearPin(ctx)
}

func (h CLIHandler) ForceDay(ctx context.Context, day int) (dto.StatusOutput, error) {
	return h.usecase.ForceDay(ctx, day)
}

func (h CLIHandler) ForceUnlock(ctx context.Context, feature string) (dto.StatusOutput, error) {
	return h.usecase.ForceUnlock(ctx, feature)
}
