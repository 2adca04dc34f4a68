package domain

import "time"

const (
	SchemaVersion     = 1
	DefaultMinDisplay = 2 * time.Second
	dateLayout        = "2006-01-02"
)

// Picker is the source of randomness for prompt selection. *rand.Rand from
// math/rand/v2 satisfies it.
type Picker interface {
	IntN(n int) int
}

// State is the scheduler of the single local user. A session is active
// between Begin and End; at most one prompt is displayed at a time. Revision
// counts stored writes.
type State struct {
	Active        bool      `json:"active"`
	SessionID     string    `json:"session_id,omitempty"`
	SessionStart  time.Time `json:"session_start"`
	Current       *Prompt   `json:"current,omitempty"`
	DisplayedAt   time.Time `json:"displayed_at"`
	DismissibleAt time.Time `json:"dismissible_at"`
	NextPromptAt  time.Time `json:"next_prompt_at"`
	ShownToday    []string  `json:"shown_today"`
	ShownDate     string    `json:"shown_date"`
	Enabled       bool      `json:"enabled"`
	Shown         int       `json:"shown"`
	Answered      int       `json:"answered"`
	Revision      int64     `json:"revision"`
}

func NewState() State {
	return State{Enabled: true}
}

// Begin opens a session. The shown-today list is reset when the day changed
// since it was last written. The first prompt is due one interval from now.
func (s State) Begin(now time.Time, sessionID string, interval time.Duration, scheduled bool) State {
	s = s.resetDay(now)
	s.Active = true
	s.SessionID = sessionID
	s.SessionStart = now
	s.Current = nil
	s.DisplayedAt = time.Time{}
	s.DismissibleAt = time.Time{}
	s.NextPromptAt = time.Time{}
	if scheduled {
		s.NextPromptAt = now.Add(interval)
	}
	return s
}

func (s State) End() State {
	s.Active = false
	s.SessionID = ""
	s.Current = nil
	s.DisplayedAt = time.Time{}
	s.DismissibleAt = time.Time{}
	s.NextPromptAt = time.Time{}
	return s
}

// Due reports whether a scheduled prompt should be shown at now.
func (s State) Due(now time.Time, scheduled bool) bool {
	if !s.Active || !s.Enabled || s.Current != nil || !scheduled {
		return false
	}
	return !s.NextPromptAt.IsZero() && !now.Before(s.NextPromptAt)
}

// Schedule sets the next due time when none is set yet, which happens when
// prompts become scheduled in the middle of a session.
func (s State) Schedule(now time.Time, interval time.Duration) State {
	if s.NextPromptAt.IsZero() {
		s.NextPromptAt = now.Add(interval)
	}
	return s
}

// Show displays p and schedules the following prompt interval from now.
func (s State) Show(now time.Time, p Prompt, minDisplay time.Duration, interval time.Duration, scheduled bool) State {
	s = s.resetDay(now)
	shown := p
	s.Current = &shown
	s.DisplayedAt = now
	s.DismissibleAt = now.Add(minDisplay)
	s.ShownToday = append(append([]string(nil), s.ShownToday...), p.ID)
	s.Shown++
	s.NextPromptAt = time.Time{}
	if scheduled {
		s.NextPromptAt = now.Add(interval)
	}
	return s
}

// Dismiss clears the displayed prompt. It is refused before the minimum
// display time has passed.
func (s State) Dismiss(now time.Time) (State, bool) {
	if s.Current == nil || now.Before(s.DismissibleAt) {
		return s, false
	}
	s.Current = nil
	s.DisplayedAt = time.Time{}
	s.DismissibleAt = time.Time{}
	s.Answered++
	return s, true
}

func (s State) WithEnabled(enabled bool) State {
	s.Enabled = enabled
	if !enabled {
		s.Current = nil
		s.DisplayedAt = time.Time{}
		s.DismissibleAt = time.Time{}
	}
	return s
}

func (s State) resetDay(now time.Time) State {
	if today := now.Format(dateLayout); s.ShownDate != today {
		s.ShownDate = today
		s.ShownToday = nil
	}
	return s
}

// Select picks a prompt from pool that was not shown today. When every
// prompt was shown the whole pool is eligible again. ok is false only for an
// empty pool.
func Select(pool []Prompt, shownToday []string, picker Picker) (Prompt, bool) {
	if len(pool) == 0 {
		return Prompt{}, false
	}
	shown := make(map[string]bool, len(shownToday))
	for _, id := range shownToday {
		shown[id] = true
	}
	candidates := make([]Prompt, 0, len(pool))
	for _, p := range pool {
		if !shown[p.ID] {
			candidates = append(candidates, p)
		}
	}
	if len(candidates) == 0 {
		candidates = pool
	}
	return candidates[picker.IntN(len(candidates))], true
}
