package prompts

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	promptdto "inkstone/internal/modules/prompt/dto"
	"inkstone/internal/ui/theme"
)

// StateMsg carries the scheduler state into the view.
type StateMsg struct {
	State promptdto.StateOutput
	Err   error
}

type Model struct {
	state  promptdto.StateOutput
	err    error
	now    time.Time
	width  int
	height int
}

func New() Model {
	return Model{}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case StateMsg:
		m.err = msg.Err
		if msg.Err == nil {
			m.state = msg.State
		}
	}
	return m, nil
}

func (m *Model) SetNow(now time.Time) {
	m.now = now
}

func (m Model) Current() *promptdto.PromptOutput {
	return m.state.Current
}

func (m Model) Enabled() bool {
	return m.state.Enabled
}

// Card renders the displayed prompt, or "" when there is none.
func (m Model) Card() string {
	p := m.state.Current
	if p == nil {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(theme.Muted.Render(strings.ToUpper(p.Type)) + "\n\n")
	sb.WriteString(p.Message + "\n\n")
	if wait := p.DismissibleAt.Sub(m.now); wait > 0 {
		sb.WriteString(theme.Muted.Render(fmt.Sprintf("take a moment… %ds", int(wait.Round(time.Second).Seconds()))))
	} else {
		sb.WriteString(theme.Muted.Render("d: dismiss"))
	}
	w := min(m.width-4, 64)
	if w < 20 {
		w = 48
	}
	return theme.Card.Width(w).Render(sb.String())
}

func (m Model) View() string {
	if m.err != nil {
		return theme.Hot.Render("prompts: " + m.err.Error())
	}
	s := m.state
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Prompts") + "\n")
	enabled := "on"
	if !s.Enabled {
		enabled = "off"
	}
	sb.WriteString(theme.Muted.Render("enabled: ") + enabled + theme.Muted.Render("  (e: toggle)") + "\n")
	if s.Active {
		next := "manual only (p: prompt me)"
		if !s.NextPromptAt.IsZero() {
			next = s.NextPromptAt.Format("15:04:05")
		}
		sb.WriteString(theme.Muted.Render("next:    ") + next + "\n")
	} else {
		sb.WriteString(theme.Muted.Render("Prompts appear during writing sessions.") + "\n")
	}
	sb.WriteString(fmt.Sprintf("%s %d shown today, %d shown, %d answered\n",
		theme.Muted.Render("counts: "), s.ShownToday, s.Shown, s.Answered))
	if card := m.Card(); card != "" {
		sb.WriteString("\n" + card)
	}
	return theme.Pane.Width(max(20, m.width-4)).Render(sb.String())
}
