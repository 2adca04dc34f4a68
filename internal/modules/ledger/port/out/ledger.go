package out

import (
	"context"

	"inkstone/internal/modules/ledger/domain"
)

type LedgerStore interface {
	Load(ctx context.Context) (domain.Ledger, bool, error)
	Save(ctx context.Context, ledger domain.Ledger) error
}

type ActiveSessionStore interface {
	SaveActive(ctx context.Context, session domain.ActiveSession) error
	LoadActive(ctx context.Context) (domain.ActiveSession, error)
	ClearActive(ctx context.Context) error
}

// Journal mirrors the ledger into human-readable notes.
type Journal interface {
	WriteWritingSession(ctx context.Context, session domain.WritingSession) (string, error)
	WriteStoneDay(ctx context.Context, date string, stones []domain.StoneSession) (string, error)
}
