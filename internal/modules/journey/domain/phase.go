package domain

import (
	"fmt"
	"strings"

	apperrors "inkstone/internal/platform/errors"
)

type Phase string

const (
	PhaseStone       Phase = "stone"
	PhaseTransfer    Phase = "transfer"
	PhaseApplication Phase = "application"
	PhaseAutonomous  Phase = "autonomous"
)

// phaseTable is the single source of truth for phase boundaries. A zero
// length marks the open-ended last phase.
var phaseTable = []struct {
	phase    Phase
	title    string
	startDay int
	length   int
}{
	{PhaseStone, "Stone", 0, 7},
	{PhaseTransfer, "Transfer", 7, 14},
	{PhaseApplication, "Application", 21, 63},
	{PhaseAutonomous, "Autonomous", 84, 0},
}

func Phases() []Phase {
	out := make([]Phase, 0, len(phaseTable))
	for _, row := range phaseTable {
		out = append(out, row.phase)
	}
	return out
}

func ParsePhase(raw string) (Phase, error) {
	p := Phase(strings.ToLower(strings.TrimSpace(raw)))
	if err := p.Validate(); err != nil {
		return "", err
	}
	return p, nil
}

func (p Phase) Validate() error {
	if p.Rank() < 0 {
		return fmt.Errorf("%w: unknown phase %q", apperrors.ErrInvalidInput, string(p))
	}
	return nil
}

// Rank orders phases from 0 (stone) upward; unknown phases rank -1.
func (p Phase) Rank() int {
	for i, row := range phaseTable {
		if row.phase == p {
			return i
		}
	}
	return -1
}

func (p Phase) Title() string {
	if r := p.Rank(); r >= 0 {
		return phaseTable[r].title
	}
	return string(p)
}

// StartDay is the first elapsed day belonging to p.
func (p Phase) StartDay() int {
	if r := p.Rank(); r >= 0 {
		return phaseTable[r].startDay
	}
	return 0
}

func (p Phase) Next() (Phase, bool) {
	r := p.Rank()
	if r < 0 || r+1 >= len(phaseTable) {
		return p, false
	}
	return phaseTable[r+1].phase, true
}

func PhaseFor(elapsedDays int) Phase {
	current := PhaseStone
	for _, row := range phaseTable {
		if elapsedDays >= row.startDay {
			current = row.phase
		}
	}
	return current
}

// Progress is the percentage of phase p completed after elapsedDays, clamped
// to [0,100]. The last phase is always complete.
func Progress(p Phase, elapsedDays int) float64 {
	r := p.Rank()
	if r < 0 {
		return 0
	}
	row := phaseTable[r]
	if row.length == 0 {
		return 100
	}
	pct := float64(elapsedDays-row.startDay) / float64(row.length) * 100
	switch {
	case pct < 0:
		return 0
	case pct > 100:
		return 100
	default:
		return pct
	}
}
