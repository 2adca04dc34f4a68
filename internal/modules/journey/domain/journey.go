package domain

import "time"

const (
	SchemaVersion         = 1
	DefaultDailyStoneGoal = 2
)

// PhaseMode says where the current phase comes from: derived from the
// calendar (Computed) or fixed by an override (Pinned).
type PhaseMode interface {
	phaseMode()
}

type Computed struct{}

type Pinned struct {
	Phase Phase
}

func (Computed) phaseMode() {}
func (Pinned) phaseMode()   {}

// State is the journey of the single local user. LastWeek and LastPhase hold
// the values seen by the previous tick; transitions are diffed against them.
// Revision counts stored writes so a process can tell when another one has
// written a newer state.
type State struct {
	StartDate      *time.Time
	Phase          Phase
	Mode           PhaseMode
	DailyStoneGoal int
	Unlocked       UnlockState
	LastWeek       int
	LastPhase      Phase
	UpdatedAt      time.Time
	Revision       int64
}

// TickResult carries what changed since the previous tick.
type TickResult struct {
	PhaseChange *PhaseChange
	Unlocks     []UnlockEvent
}

func (r TickResult) Empty() bool {
	return r.PhaseChange == nil && len(r.Unlocks) == 0
}

func NewState(dailyStoneGoal int) State {
	if dailyStoneGoal < 1 {
		dailyStoneGoal = DefaultDailyStoneGoal
	}
	return State{
		Phase:          PhaseStone,
		Mode:           Computed{},
		DailyStoneGoal: dailyStoneGoal,
		LastPhase:      PhaseStone,
	}
}

func (s State) Started() bool {
	return s.StartDate != nil
}

func (s State) Position(now time.Time) Position {
	return Locate(s.StartDate, now)
}

func (s State) PinnedPhase() (Phase, bool) {
	if p, ok := s.Mode.(Pinned); ok {
		return p.Phase, true
	}
	return "", false
}

// Begin starts the journey today. It reports false and leaves the state alone
// when a journey is already running.
func (s State) Begin(now time.Time) (State, bool) {
	if s.Started() {
		return s, false
	}
	start := Midnight(now)
	next := NewState(s.DailyStoneGoal)
	next.StartDate = &start
	next.LastWeek = 1
	next.UpdatedAt = now
	return next, true
}

// Reset forgets the journey but keeps the daily goal.
func (s State) Reset(now time.Time) State {
	next := NewState(s.DailyStoneGoal)
	next.UpdatedAt = now
	return next
}

// Recompute derives phase and unlocks for now. Under a computed mode the
// phase only moves forward; under a pin the pinned phase is used as is.
// Unlock flags are only ever added.
func (s State) Recompute(now time.Time) State {
	if pinned, ok := s.PinnedPhase(); ok {
		s.Phase = pinned
	} else if s.Started() {
		if computed := PhaseFor(s.Position(now).ElapsedDays); computed.Rank() > s.Phase.Rank() {
			s.Phase = computed
		}
	}
	if s.Started() {
		s.Unlocked = s.Unlocked.Union(UnlocksFor(s.Position(now).Week))
	}
	return s
}

// Advance recomputes the state and diffs it against the previous tick.
func (s State) Advance(now time.Time) (State, TickResult) {
	next := s.Recompute(now)
	if !next.Started() {
		return next, TickResult{}
	}
	week := next.Position(now).Week
	result := TickResult{Unlocks: CheckTransition(s.LastWeek, week)}
	if next.Phase.Rank() > s.LastPhase.Rank() {
		result.PhaseChange = &PhaseChange{From: s.LastPhase, To: next.Phase}
	}
	next.LastWeek = week
	next.LastPhase = next.Phase
	if next.changedFrom(s) {
		next.UpdatedAt = now
	}
	return next, result
}

// SkipPhase moves the start date back so that the next phase begins today.
// The last phase has nothing to skip to.
func (s State) SkipPhase(now time.Time) State {
	if !s.Started() {
		s, _ = s.Begin(now)
	}
	current := PhaseFor(s.Position(now).ElapsedDays)
	next, ok := current.Next()
	if !ok {
		return s
	}
	start := Midnight(now).AddDate(0, 0, -next.StartDay())
	s.StartDate = &start
	s.UpdatedAt = now
	return s.Recompute(now)
}

// ForceDay moves the start date so that today is elapsed day n. The phase and
// unlocks are rebuilt from scratch for that day, which may move them back.
// LastWeek is kept so the next tick announces a crossing into the new week.
func (s State) ForceDay(now time.Time, day int) State {
	if day < 0 {
		day = 0
	}
	start := Midnight(now).AddDate(0, 0, -day)
	s.StartDate = &start
	s.Phase = PhaseFor(day)
	s.Unlocked = UnlocksFor(PositionFor(day).Week)
	if s.LastWeek == 0 {
		s.LastWeek = 1
	}
	s.UpdatedAt = now
	return s.Recompute(now)
}

func (s State) Pin(now time.Time, phase Phase) State {
	s.Mode = Pinned{Phase: phase}
	s.Phase = phase
	s.UpdatedAt = now
	return s
}

// Unpin returns to calendar-derived phases. The phase is taken straight from
// the calendar, so it can be earlier than the pinned one.
func (s State) Unpin(now time.Time) State {
	s.Mode = Computed{}
	s.Phase = PhaseStone
	if s.Started() {
		s.Phase = PhaseFor(s.Position(now).ElapsedDays)
	}
	s.UpdatedAt = now
	return s.Recompute(now)
}

func (s State) Unlock(now time.Time, f Feature) State {
	s.Unlocked = s.Unlocked.With(f)
	s.UpdatedAt = now
	return s
}

func (s State) WithDailyGoal(now time.Time, goal int) State {
	s.DailyStoneGoal = goal
	s.UpdatedAt = now
	return s
}

func (s State) changedFrom(prev State) bool {
	return s.Phase != prev.Phase ||
		s.Unlocked != prev.Unlocked ||
		s.LastWeek != prev.LastWeek ||
		s.LastPhase != prev.LastPhase
}
