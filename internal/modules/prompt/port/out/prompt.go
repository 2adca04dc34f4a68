package out

import (
	"context"

	"inkstone/internal/modules/prompt/domain"
)

type StateStore interface {
	Load(ctx context.Context) (domain.State, bool, error)
	Save(ctx context.Context, state domain.State) error
}

type CatalogSource interface {
	Load(ctx context.Context) (domain.Catalog, error)
}
