package in

import (
	"context"

	"inkstone/internal/modules/prompt/dto"
	promptin "inkstone/internal/modules/prompt/port/in"
)

type CLIHandler struct {
	usecase promptin.Usecase
}

func NewCLIHandler(usecase promptin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Check(ctx context.Context) (dto.CheckOutput, error) {
	return h.usecase.CheckAndShow(ctx)
}

func (h CLIHandler) ShowNow(ctx context.Context) (dto.PromptOutput, error) {
	return h.usecase.ShowNow(ctx)
}

func (h CLIHandler) Dismiss(ctx context.Context) (dto.DismissOutput, error) {
	return h.usecase.Dismiss(ctx)
}

func (h CLIHandler) SetEnabled(ctx context.Context, enabled bool) (dto.StateOutput, error) {
	return h.usecase.SetEnabled(ctx, enabled)
}

func (h CLIHandler) Current(ctx context.Context) (*dto.PromptOutput, error) {
	return h.usecase.Current(ctx)
}

func (h CLIHandler) State(ctx context.Context) (dto.StateOutput, error) {
	return h.usecase.State(ctx)
}
