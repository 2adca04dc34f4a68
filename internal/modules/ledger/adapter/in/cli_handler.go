package in

import (
	"context"

	ledgerdto "inkstone/internal/modules/ledger/dto"
	ledgerin "inkstone/internal/modules/ledger/port/in"
)

type CLIHandler struct {
	usecase ledgerin.Usecase
}

func NewCLIHandler(usecase ledgerin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) StoneDone(ctx context.Context, durationSec int, reflection string) (ledgerdto.StoneOutput, error) {
	return h.usecase.RecordStone(ctx, ledgerdto.StoneInput{DurationSec: durationSec, Reflection: reflection})
}

func (h CLIHandler) Reflect(ctx context.Context, text string) (ledgerdto.StoneOutput, error) {
	return h.usecase.AttachReflection(ctx, text)
}

func (h CLIHandler) StartWriting(ctx context.Context) (ledgerdto.StartWritingOutput, error) {
	return h.usecase.StartWriting(ctx)
}

func (h CLIHandler) EndWriting(ctx context.Context, sessionID string, wordCount int) (ledgerdto.EndWritingOutput, error) {
	return h.usecase.EndWriting(ctx, ledgerdto.EndWritingInput{SessionID: sessionID, WordCount: wordCount})
}

func (h CLIHandler) Resonance(ctx context.Context, sessionID string, score int) (ledgerdto.ResonanceOutput, error) {
	return h.usecase.RecordResonance(ctx, ledgerdto.ResonanceInput{SessionID: sessionID, Score: score})
}

func (h CLIHandler) Stats(ctx context.Context) (ledgerdto.StatsOutput, error) {
	return h.usecase.Stats(ctx)
}
