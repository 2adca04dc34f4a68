package domain

import "time"

// Ledger is the append-only log of practice. Sessions are kept in the order
// they were recorded. Revision counts stored writes.
type Ledger struct {
	Stones    []StoneSession   `json:"stones"`
	Writing   []WritingSession `json:"writing"`
	Resonance []ResonanceScore `json:"resonance"`
	Revision  int64            `json:"revision"`
}

func (l Ledger) Clone() Ledger {
	return Ledger{
		Stones:    append([]StoneSession(nil), l.Stones...),
		Writing:   append([]WritingSession(nil), l.Writing...),
		Resonance: append([]ResonanceScore(nil), l.Resonance...),
		Revision:  l.Revision,
	}
}

func (l *Ledger) AddStone(s StoneSession) {
	l.Stones = append(l.Stones, s)
}

// LatestStoneOn returns the index of the last stone session on date, or -1.
func (l Ledger) LatestStoneOn(date string) int {
	for i := len(l.Stones) - 1; i >= 0; i-- {
		if l.Stones[i].Date == date {
			return i
		}
	}
	return -1
}

func (l Ledger) StonesOn(date string) []StoneSession {
	out := []StoneSession{}
	for _, s := range l.Stones {
		if s.Date == date {
			out = append(out, s)
		}
	}
	return out
}

// SessionsToday counts completed stone sessions dated today.
func (l Ledger) SessionsToday(today string) int {
	n := 0
	for _, s := range l.Stones {
		if s.Date == today && s.Completed {
			n++
		}
	}
	return n
}

func (l *Ledger) AddWriting(w WritingSession) {
	l.Writing = append(l.Writing, w)
}

func (l Ledger) writingIndex(id string) int {
	for i := range l.Writing {
		if l.Writing[i].ID == id {
			return i
		}
	}
	return -1
}

func (l Ledger) FindWriting(id string) (WritingSession, bool) {
	if i := l.writingIndex(id); i >= 0 {
		return l.Writing[i], true
	}
	return WritingSession{}, false
}

// LatestWriting returns the most recently started writing session.
func (l Ledger) LatestWriting() (WritingSession, bool) {
	if len(l.Writing) == 0 {
		return WritingSession{}, false
	}
	return l.Writing[len(l.Writing)-1], true
}

// EndWriting finalizes the session once. ok is false for an unknown id or a
// session that already ended; the ledger is then left unchanged.
func (l *Ledger) EndWriting(id string, now time.Time, wordCount int) (WritingSession, bool) {
	i := l.writingIndex(id)
	if i < 0 || l.Writing[i].Ended {
		return WritingSession{}, false
	}
	w := &l.Writing[i]
	w.DurationMin = DurationMinutes(w.StartedAt, now)
	w.WordCount = wordCount
	w.Ended = true
	return *w, true
}

// DiscardWriting removes a session that never ended. Ended sessions are kept.
func (l *Ledger) DiscardWriting(id string) bool {
	i := l.writingIndex(id)
	if i < 0 || l.Writing[i].Ended {
		return false
	}
	l.Writing = append(l.Writing[:i], l.Writing[i+1:]...)
	return true
}

// AddResonance appends the score and rates the matching writing session, if
// any. The score is appended even when no session matches.
func (l *Ledger) AddResonance(r ResonanceScore) (WritingSession, bool) {
	l.Resonance = append(l.Resonance, r)
	i := l.writingIndex(r.SessionID)
	if r.SessionID == "" || i < 0 {
		return WritingSession{}, false
	}
	l.Writing[i].Resonance = r.Score
	return l.Writing[i], true
}

// WritingSessionsSince counts writing sessions dated on or after from.
func (l Ledger) WritingSessionsSince(from string) int {
	n := 0
	for _, w := range l.Writing {
		if w.Date >= from {
			n++
		}
	}
	return n
}

// AverageResonanceSince averages scores dated on or after from, rounded to
// one decimal. No scores average to 0.
func (l Ledger) AverageResonanceSince(from string) float64 {
	sum, n := 0, 0
	for _, r := range l.Resonance {
		if r.Date >= from {
			sum += r.Score
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return Round1(float64(sum) / float64(n))
}

func (l Ledger) AverageResonanceAllTime() float64 {
	return l.AverageResonanceSince("")
}
