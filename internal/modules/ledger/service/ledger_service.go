package service

import (
	"context"
	"fmt"
	"sync"

	"inkstone/internal/modules/ledger/domain"
	ledgerout "inkstone/internal/modules/ledger/port/out"
	"inkstone/internal/platform/clock"
	"inkstone/internal/platform/id"
	"inkstone/internal/platform/logger"
)

// LedgerService owns the in-memory session log. Mutations are written to the
// store and mirrored to the journal afterwards; neither failure is returned.
// A newer revision written by another process is picked up before each
// operation.
type LedgerService struct {
	mu      sync.Mutex
	clock   clock.Clock
	idGen   id.Generator
	store   ledgerout.LedgerStore
	journal ledgerout.Journal
	log     *logger.Logger
	ledger  domain.Ledger
}

func NewLedgerService(clock clock.Clock, idGen id.Generator, store ledgerout.LedgerStore, journal ledgerout.Journal, log *logger.Logger) *LedgerService {
	return &LedgerService{
		clock:   clock,
		idGen:   idGen,
		store:   store,
		journal: journal,
		log:     log.With("service", "LedgerService"),
	}
}

func (s *LedgerService) Load(ctx context.Context) error {
	ledger, _, err := s.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load ledger: %w", err)
	}
	s.mu.Lock()
	s.ledger = ledger
	s.mu.Unlock()
	return nil
}

// Today is the ledger's date key for now.
func (s *LedgerService) Today() string {
	return domain.DateKey(s.clock.Now())
}

func (s *LedgerService) Snapshot(ctx context.Context) domain.Ledger {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refresh(ctx)
	return s.ledger.Clone()
}

func (s *LedgerService) SessionsToday(ctx context.Context) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refresh(ctx)
	return s.ledger.SessionsToday(domain.DateKey(s.clock.Now()))
}

func (s *LedgerService) RecordStone(ctx context.Context, durationSec int, reflection string) domain.StoneSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refresh(ctx)
	now := s.clock.Now()
	stone := domain.StoneSession{
		ID:          s.idGen.New(),
		Date:        domain.DateKey(now),
		CreatedAt:   now,
		DurationSec: durationSec,
		Completed:   true,
		Reflection:  domain.TrimReflection(reflection),
	}
	s.ledger.AddStone(stone)
	s.persist(ctx)
	s.journalStones(ctx, stone.Date)
	s.log.Info("stone session recorded", "id", stone.ID, "duration_sec", durationSec)
	return stone
}

// AttachReflection sets the reflection of today's latest stone session.
func (s *LedgerService) AttachReflection(ctx context.Context, text string) (domain.StoneSession, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refresh(ctx)
	today := domain.DateKey(s.clock.Now())
	i := s.ledger.LatestStoneOn(today)
	if i < 0 {
		return domain.StoneSession{}, false
	}
	s.ledger.Stones[i].Reflection = domain.TrimReflection(text)
	s.persist(ctx)
	s.journalStones(ctx, today)
	return s.ledger.Stones[i], true
}

func (s *LedgerService) StartWriting(ctx context.Context, phase string) domain.WritingSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refresh(ctx)
	now := s.clock.Now()
	session := domain.WritingSession{
		ID:        s.idGen.New(),
		Date:      domain.DateKey(now),
		StartedAt: now,
		Phase:     phase,
	}
	s.ledger.AddWriting(session)
	s.persist(ctx)
	s.log.Info("writing session started", "id", session.ID, "phase", phase)
	return session
}

// DiscardWriting drops an open session that could not be started fully.
func (s *LedgerService) DiscardWriting(ctx context.Context, sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refresh(ctx)
	if !s.ledger.DiscardWriting(sessionID) {
		return
	}
	s.persist(ctx)
	s.log.Warn("writing session discarded", "id", sessionID)
}

// EndWriting finalizes the session and journals it. ok is false when the id
// is unknown or the session already ended.
func (s *LedgerService) EndWriting(ctx context.Context, sessionID string, wordCount int) (domain.WritingSession, string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refresh(ctx)
	session, ok := s.ledger.EndWriting(sessionID, s.clock.Now(), wordCount)
	if !ok {
		s.log.Debug("end ignored", "id", sessionID)
		return domain.WritingSession{}, "", false
	}
	s.persist(ctx)
	path := s.journalWriting(ctx, session)
	s.log.Info("writing session ended", "id", session.ID, "minutes", session.DurationMin, "words", wordCount)
	return session, path, true
}

// RecordResonance appends score and rates sessionID when it exists.
func (s *LedgerService) RecordResonance(ctx context.Context, sessionID string, score int) (domain.ResonanceScore, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refresh(ctx)
	now := s.clock.Now()
	entry := domain.ResonanceScore{
		ID:         s.idGen.New(),
		Date:       domain.DateKey(now),
		Score:      score,
		SessionID:  sessionID,
		RecordedAt: now,
	}
	rated, ok := s.ledger.AddResonance(entry)
	s.persist(ctx)
	if ok && rated.Ended {
		s.journalWriting(ctx, rated)
	}
	return entry, ok
}

// refresh must be called with mu held. A read failure keeps the in-memory
// ledger.
func (s *LedgerService) refresh(ctx context.Context) {
	stored, found, err := s.store.Load(ctx)
	if err != nil {
		s.log.Warn("reload ledger failed", "error", err)
		return
	}
	if found && stored.Revision > s.ledger.Revision {
		s.ledger = stored
	}
}

func (s *LedgerService) persist(ctx context.Context) {
	s.ledger.Revision++
	if err := s.store.Save(ctx, s.ledger); err != nil {
		s.log.Error("persist ledger failed", "error", err)
	}
}

func (s *LedgerService) journalStones(ctx context.Context, date string) {
	if s.journal == nil {
		return
	}
	if _, err := s.journal.WriteStoneDay(ctx, date, s.ledger.StonesOn(date)); err != nil {
		s.log.Warn("journal stone day failed", "date", date, "error", err)
	}
}

func (s *LedgerService) journalWriting(ctx context.Context, session domain.WritingSession) string {
	if s.journal == nil {
		return ""
	}
	path, err := s.journal.WriteWritingSession(ctx, session)
	if err != nil {
		s.log.Warn("journal writing session failed", "id", session.ID, "error", err)
		return ""
	}
	return path
}
