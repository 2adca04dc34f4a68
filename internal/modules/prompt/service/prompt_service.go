package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"inkstone/internal/modules/prompt/domain"
	promptout "inkstone/internal/modules/prompt/port/out"
	"inkstone/internal/platform/clock"
	"inkstone/internal/platform/logger"
)

// Schedule is the prompt cadence of the current journey week and the phase
// whose pool prompts are drawn from. OnDemand is false while the journey
// allows no prompts at all.
type Schedule struct {
	Phase     string
	Interval  time.Duration
	Scheduled bool
	OnDemand  bool
}

type PromptService struct {
	mu         sync.Mutex
	clock      clock.Clock
	picker     domain.Picker
	catalog    domain.Catalog
	store      promptout.StateStore
	log        *logger.Logger
	minDisplay time.Duration
	state      domain.State
}

func NewPromptService(clock clock.Clock, picker domain.Picker, catalog domain.Catalog, store promptout.StateStore, log *logger.Logger, minDisplay time.Duration) *PromptService {
	if minDisplay <= 0 {
		minDisplay = domain.DefaultMinDisplay
	}
	return &PromptService{
		clock:      clock,
		picker:     picker,
		catalog:    catalog,
		store:      store,
		log:        log.With("service", "PromptService"),
		minDisplay: minDisplay,
		state:      domain.NewState(),
	}
}

func (s *PromptService) Load(ctx context.Context) error {
	state, found, err := s.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load prompts: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if found {
		s.state = state
	} else {
		s.state = domain.NewState()
	}
	return nil
}

func (s *PromptService) MinDisplay() time.Duration {
	return s.minDisplay
}

func (s *PromptService) State(ctx context.Context) domain.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refresh(ctx)
	return s.state
}

func (s *PromptService) Begin(ctx context.Context, sessionID string, schedule Schedule) domain.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refresh(ctx)
	s.state = s.state.Begin(s.clock.Now(), sessionID, schedule.Interval, schedule.Scheduled)
	s.persist(ctx)
	s.log.Debug("prompt session begun", "session_id", sessionID, "interval", schedule.Interval.String())
	return s.state
}

func (s *PromptService) End(ctx context.Context) domain.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refresh(ctx)
	if !s.state.Active {
		return s.state
	}
	s.state = s.state.End()
	s.persist(ctx)
	return s.state
}

// Check shows a prompt when one is due. shown is true only when this call
// displayed it.
func (s *PromptService) Check(ctx context.Context, schedule Schedule) (domain.State, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refresh(ctx)
	now := s.clock.Now()
	if s.state.Active && schedule.Scheduled && s.state.NextPromptAt.IsZero() {
		s.state = s.state.Schedule(now, schedule.Interval)
		s.persist(ctx)
		return s.state, false
	}
	if !s.state.Due(now, schedule.Scheduled) {
		return s.state, false
	}
	return s.state, s.show(ctx, now, schedule)
}

// ShowNow displays a prompt on demand in an active session. A prompt already
// on screen is kept.
func (s *PromptService) ShowNow(ctx context.Context, schedule Schedule) (domain.State, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refresh(ctx)
	if !s.state.Active || !s.state.Enabled || s.state.Current != nil || !schedule.OnDemand {
		return s.state, false
	}
	return s.state, s.show(ctx, s.clock.Now(), schedule)
}

// show must be called with mu held.
func (s *PromptService) show(ctx context.Context, now time.Time, schedule Schedule) bool {
	p, ok := domain.Select(s.catalog.Pool(schedule.Phase), s.state.ShownToday, s.picker)
	if !ok {
		s.log.Warn("no prompts for phase", "phase", schedule.Phase)
		return false
	}
	s.state = s.state.Show(now, p, s.minDisplay, schedule.Interval, schedule.Scheduled)
	s.persist(ctx)
	s.log.Info("prompt shown", "id", p.ID, "phase", schedule.Phase)
	return true
}

// Dismiss clears the displayed prompt. remaining is how long the prompt must
// still stay up when the dismissal was refused.
func (s *PromptService) Dismiss(ctx context.Context) (domain.State, bool, time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refresh(ctx)
	now := s.clock.Now()
	next, ok := s.state.Dismiss(now)
	if !ok {
		remaining := time.Duration(0)
		if s.state.Current != nil {
			remaining = s.state.DismissibleAt.Sub(now)
		}
		return s.state, false, remaining
	}
	s.state = next
	s.persist(ctx)
	return s.state, true, 0
}

func (s *PromptService) SetEnabled(ctx context.Context, enabled bool) domain.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refresh(ctx)
	s.state = s.state.WithEnabled(enabled)
	s.persist(ctx)
	s.log.Info("prompts toggled", "enabled", enabled)
	return s.state
}

// refresh must be called with mu held. A newer revision written by another
// process replaces the in-memory state; a read failure keeps it.
func (s *PromptService) refresh(ctx context.Context) {
	stored, found, err := s.store.Load(ctx)
	if err != nil {
		s.log.Warn("reload prompts failed", "error", err)
		return
	}
	if found && stored.Revision > s.state.Revision {
		s.log.Debug("prompts reloaded", "revision", stored.Revision)
		s.state = stored
	}
}

func (s *PromptService) persist(ctx context.Context) {
	s.state.Revision++
	if err := s.store.Save(ctx, s.state); err != nil {
		s.log.Error("persist prompts failed", "error", err)
	}
}
