package in

import (
	"context"

	"inkstone/internal/modules/ledger/dto"
)

type Usecase interface {
	RecordStone(ctx context.Context, input dto.StoneInput) (dto.StoneOutput, error)
	AttachReflection(ctx context.Context, text string) (dto.StoneOutput, error)
	StartWriting(ctx context.Context) (dto.StartWritingOutput, error)
	EndWriting(ctx context.Context, input dto.EndWritingInput) (dto.EndWritingOutput, error)
	RecordResonance(ctx context.Context, input dto.ResonanceInput) (dto.ResonanceOutput, error)
	Stats(ctx context.Context) (dto.StatsOutput, error)
}
