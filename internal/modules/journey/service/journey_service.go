package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"inkstone/internal/modules/journey/domain"
	journeyout "inkstone/internal/modules/journey/port/out"
	"inkstone/internal/platform/clock"
	"inkstone/internal/platform/logger"
)

const dateLayout = "2006-01-02"

// View is the journey state as seen at one instant.
type View struct {
	State    domain.State
	Position domain.Position
}

// JourneyService owns the in-memory journey state. Every mutation is applied
// in memory first and then written to the store; a failed write is logged and
// the in-memory state stays authoritative. Before each operation a newer
// revision written by another process replaces the in-memory state.
type JourneyService struct {
	mu          sync.Mutex
	clock       clock.Clock
	store       journeyout.StateStore
	log         *logger.Logger
	defaultGoal int
	state       domain.State
}

func NewJourneyService(clock clock.Clock, store journeyout.StateStore, log *logger.Logger, defaultGoal int) *JourneyService {
	return &JourneyService{
		clock:       clock,
		store:       store,
		log:         log.With("service", "JourneyService"),
		defaultGoal: defaultGoal,
		state:       domain.NewState(defaultGoal),
	}
}

func (s *JourneyService) Load(ctx context.Context) error {
	state, found, err := s.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load journey: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if found {
		s.state = state
	} else {
		s.state = domain.NewState(s.defaultGoal)
	}
	return nil
}

// Current recomputes the phase and unlocks without touching the tick
// bookkeeping, so reading never consumes a transition.
func (s *JourneyService) Current(ctx context.Context) View {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refresh(ctx)
	now := s.clock.Now()
	prev := s.state
	s.state = s.state.Recompute(now)
	if s.state.Phase != prev.Phase || s.state.Unlocked != prev.Unlocked {
		s.persist(ctx)
	}
	return s.viewAt(now)
}

func (s *JourneyService) Start(ctx context.Context) (View, bool) {
	return s.mutateReport(ctx, func(state domain.State, now time.Time) (domain.State, bool) {
		next, started := state.Begin(now)
		if started {
			s.log.Info("journey started", "start_date", next.StartDate.Format(dateLayout))
		}
		return next, started
	})
}

func (s *JourneyService) Skip(ctx context.Context) View {
	return s.mutate(ctx, func(state domain.State, now time.Time) domain.State {
		next := state.SkipPhase(now)
		s.log.Info("phase skipped", "from", string(state.Phase), "to", string(next.Phase))
		return next
	})
}

func (s *JourneyService) Reset(ctx context.Context) View {
	return s.mutate(ctx, func(state domain.State, now time.Time) domain.State {
		s.log.Info("journey reset")
		return state.Reset(now)
	})
}

func (s *JourneyService) SetDailyGoal(ctx context.Context, goal int) View {
	return s.mutate(ctx, func(state domain.State, now time.Time) domain.State {
		return state.WithDailyGoal(now, goal)
	})
}

// Tick advances the transition bookkeeping and returns what changed since
// the previous tick.
func (s *JourneyService) Tick(ctx context.Context) (View, domain.TickResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refresh(ctx)
	now := s.clock.Now()
	prev := s.state
	next, result := prev.Advance(now)
	s.state = next
	if !next.UpdatedAt.Equal(prev.UpdatedAt) {
		s.persist(ctx)
	}
	if result.PhaseChange != nil {
		s.log.Info("phase changed", "from", string(result.PhaseChange.From), "to", string(result.PhaseChange.To))
	}
	for _, ev := range result.Unlocks {
		s.log.Info("feature unlocked", "feature", ev.Feature)
	}
	return s.viewAt(now), result
}

func (s *JourneyService) ForcePhase(ctx context.Context, phase domain.Phase) View {
	return s.mutate(ctx, func(state domain.State, now time.Time) domain.State {
		s.log.Warn("phase pinned", "phase", string(phase))
		return state.Pin(now, phase)
	})
}

func (s *JourneyService) ClearPin(ctx context.Context) View {
	return s.mutate(ctx, func(state domain.State, now time.Time) domain.State {
		return state.Unpin(now)
	})
}

func (s *JourneyService) ForceDay(ctx context.Context, day int) View {
	return s.mutate(ctx, func(state domain.State, now time.Time) domain.State {
		s.log.Warn("journey day forced", "day", day)
		return state.ForceDay(now, day)
	})
}

func (s *JourneyService) ForceUnlock(ctx context.Context, feature domain.Feature) View {
	return s.mutate(ctx, func(state domain.State, now time.Time) domain.State {
		s.log.Warn("feature forced", "feature", string(feature))
		return state.Unlock(now, feature)
	})
}

func (s *JourneyService) mutate(ctx context.Context, fn func(domain.State, time.Time) domain.State) View {
	view, _ := s.mutateReport(ctx, func(state domain.State, now time.Time) (domain.State, bool) {
		return fn(state, now), true
	})
	return view
}

func (s *JourneyService) mutateReport(ctx context.Context, fn func(domain.State, time.Time) (domain.State, bool)) (View, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refresh(ctx)
	now := s.clock.Now()
	next, changed := fn(s.state, now)
	if changed {
		s.state = next.Recompute(now)
		s.persist(ctx)
	}
	return s.viewAt(now), changed
}

func (s *JourneyService) viewAt(now time.Time) View {
	return View{State: s.state, Position: s.state.Position(now)}
}

// refresh must be called with mu held. A read failure keeps the in-memory
// state.
func (s *JourneyService) refresh(ctx context.Context) {
	stored, found, err := s.store.Load(ctx)
	if err != nil {
		s.log.Warn("reload journey failed", "error", err)
		return
	}
	if found && stored.Revision > s.state.Revision {
		s.log.Debug("journey reloaded", "revision", stored.Revision)
		s.state = stored
	}
}

// persist must be called with mu held.
func (s *JourneyService) persist(ctx context.Context) {
	s.state.Revision++
	if err := s.store.Save(ctx, s.state); err != nil {
		s.log.Error("persist journey failed", "error", err)
	}
}
