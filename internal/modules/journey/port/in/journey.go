package in

import (
	"context"

	"inkstone/internal/modules/journey/dto"
)

type Usecase interface {
	Status(ctx context.Context) (dto.StatusOutput, error)
	Start(ctx context.Context) (dto.StatusOutput, error)
	Skip(ctx context.Context) (dto.StatusOutput, error)
	Reset(ctx context.Context) (dto.StatusOutput, error)
	SetDailyGoal(ctx context.Context, goal int) (dto.StatusOutput, error)
	Tick(ctx context.Context) (dto.TickOutput, error)
	ForcePhase(ctx context.Context, phase string) (dto.StatusOutput, error)
	ClearPin(ctx context.Context) (dto.StatusOutput, error)
	ForceDay(ctx context.Context, day int) (dto.StatusOutput, error)
	ForceUnlock(ctx context.Context, feature string) (dto.StatusOutput, error)
}
