package out

import (
	"context"

	"inkstone/internal/modules/journey/domain"
)

type StateStore interface {
	Load(ctx context.Context) (domain.State, bool, error)
	Save(ctx context.Context, state domain.State) error
}
