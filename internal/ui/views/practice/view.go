package practice

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	ledgerdto "inkstone/internal/modules/ledger/dto"
	"inkstone/internal/ui/theme"
)

// StatsMsg carries fresh ledger numbers into the view.
type StatsMsg struct {
	Stats ledgerdto.StatsOutput
	Err   error
}

// Model shows today's stone practice and the current writing session. The
// stone timer runs locally until the user stops it.
type Model struct {
	stats        ledgerdto.StatsOutput
	err          error
	stoneStarted time.Time
	now          time.Time
	width        int
	height       int
}

func New() Model {
	return Model{}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case StatsMsg:
		m.err = msg.Err
		if msg.Err == nil {
			m.stats = msg.Stats
		}
	}
	return m, nil
}

// SetNow refreshes the clock used for running timers.
func (m *Model) SetNow(now time.Time) {
	m.now = now
}

func (m Model) StoneRunning() bool {
	return !m.stoneStarted.IsZero()
}

func (m *Model) StartStone(now time.Time) {
	m.stoneStarted = now
	m.now = now
}

// StopStone ends the local timer and returns how long it ran.
func (m *Model) StopStone(now time.Time) time.Duration {
	if m.stoneStarted.IsZero() {
		return 0
	}
	elapsed := now.Sub(m.stoneStarted)
	m.stoneStarted = time.Time{}
	return elapsed
}

func (m Model) ActiveSessionID() string {
	return m.stats.ActiveSessionID
}

func (m Model) View() string {
	if m.err != nil {
		return theme.Hot.Render("practice: " + m.err.Error())
	}
	s := m.stats
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Stone practice") + "\n")
	sb.WriteString(fmt.Sprintf("%s %d / %d\n", theme.Muted.Render("today:"), s.SessionsToday, s.DailyGoal))
	switch {
	case m.StoneRunning():
		sb.WriteString(theme.Hot.Render("● "+formatElapsed(m.now.Sub(m.stoneStarted))) + theme.Muted.Render("  space: finish") + "\n")
	case s.CanPracticeNow:
		sb.WriteString(theme.Muted.Render("space: begin a stone session") + "\n")
	default:
		sb.WriteString(theme.Muted.Render("Daily goal reached. Rest well.") + "\n")
	}

	sb.WriteString("\n" + theme.Title.Render("Writing") + "\n")
	if s.ActiveSessionID != "" {
		sb.WriteString(theme.Hot.Render("● session in progress") + theme.Muted.Render("  palette: write:end <words>") + "\n")
	} else {
		sb.WriteString(theme.Muted.Render("w: start a writing session") + "\n")
	}
	sb.WriteString(fmt.Sprintf("%s %d\n", theme.Muted.Render("this week:"), s.WritingSessionsThisWeek))
	sb.WriteString(fmt.Sprintf("%s %.1f\n", theme.Muted.Render("resonance this week:"), s.AverageResonanceThisWeek))
	sb.WriteString(fmt.Sprintf("%s %.1f", theme.Muted.Render("resonance all time:"), s.AverageResonanceAllTime))
	return theme.Pane.Width(max(20, m.width-4)).Render(sb.String())
}

func formatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	d = d.Truncate(time.Second)
	return fmt.Sprintf("%02d:%02d", int(d.Minutes()), int(d.Seconds())%60)
}
