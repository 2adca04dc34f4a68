package in

import (
	"context"

	"inkstone/internal/modules/prompt/dto"
)

type Usecase interface {
	Begin(ctx context.Context, sessionID string) (dto.StateOutput, error)
	End(ctx context.Context) (dto.StateOutput, error)
	CheckAndShow(ctx context.Context) (dto.CheckOutput, error)
	ShowNow(ctx context.Context) (dto.PromptOutput, error)
	Dismiss(ctx context.Context) (dto.DismissOutput, error)
	SetEnabled(ctx context.Context, enabled bool) (dto.StateOutput, error)
	Current(ctx context.Context) (*dto.PromptOutput, error)
	State(ctx context.Context) (dto.StateOutput, error)
}
