package journey

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	journeydto "inkstone/internal/modules/journey/dto"
	"inkstone/internal/ui/theme"
)

// StatusMsg carries a fresh journey status into the view.
type StatusMsg struct {
	Status journeydto.StatusOutput
	Err    error
}

type unlockRow struct {
	label string
	week  int
	on    func(journeydto.UnlocksOutput) bool
}

var unlockRows = []unlockRow{
	{"Text editor", 2, func(u journeydto.UnlocksOutput) bool { return u.TextEditor }},
	{"Multiple chapters", 4, func(u journeydto.UnlocksOutput) bool { return u.MultipleChapters }},
	{"Chapter management", 7, func(u journeydto.UnlocksOutput) bool { return u.FullChapterManagement }},
	{"Reflection workspace", 7, func(u journeydto.UnlocksOutput) bool { return u.ReflectionWorkspace }},
	{"Community", 10, func(u journeydto.UnlocksOutput) bool { return u.CommunityFeatures }},
	{"Full editor", 10, func(u journeydto.UnlocksOutput) bool { return u.FullEditor }},
	{"Export", 10, func(u journeydto.UnlocksOutput) bool { return u.ExportFeatures }},
}

type Model struct {
	status  journeydto.StatusOutput
	err     error
	loaded  bool
	bar     progress.Model
	spinner spinner.Model
	width   int
	height  int
}

func New() Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)
	return Model{
		bar:     progress.New(progress.WithDefaultGradient()),
		spinner: sp,
	}
}

func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.bar.Width = max(10, min(m.width-8, 60))
	case StatusMsg:
		m.loaded = true
		m.err = msg.Err
		if msg.Err == nil {
			m.status = msg.Status
		}
	case spinner.TickMsg:
		if m.loaded {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) Status() journeydto.StatusOutput {
	return m.status
}

func (m Model) View() string {
	if !m.loaded {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" Loading journey…")
	}
	if m.err != nil {
		return theme.Hot.Render("journey: " + m.err.Error())
	}
	s := m.status
	var sb strings.Builder
	if !s.Started {
		sb.WriteString(theme.Title.Render("Your journey has not started") + "\n\n")
		sb.WriteString(theme.Muted.Render("Open the palette with : and run journey:start"))
		return theme.Pane.Width(max(20, m.width-4)).Render(sb.String())
	}

	title := s.PhaseTitle
	if s.Pinned {
		title += theme.Muted.Render("  (pinned)")
	}
	sb.WriteString(theme.Title.Render(title) + "\n")
	sb.WriteString(theme.Muted.Render(fmt.Sprintf("Week %d · Day %d · %d days since %s",
		s.Week, s.Day, s.DaysSinceStart, s.StartDate.Format("Jan 2"))) + "\n\n")
	sb.WriteString(m.bar.ViewAs(s.PhaseProgress/100) + "\n\n")

	sb.WriteString(theme.Title.Render("Unlocks") + "\n")
	for _, row := range unlockRows {
		if row.on(s.Unlocked) {
			sb.WriteString(theme.Hot.Render("  ● ") + row.label + "\n")
		} else {
			sb.WriteString(theme.Muted.Render(fmt.Sprintf("  ○ %s  (week %d)", row.label, row.week)) + "\n")
		}
	}
	sb.WriteString("\n")

	chapters := "unlimited"
	if !s.ChaptersUnlimited {
		chapters = fmt.Sprintf("%d", s.MaxChapters)
	}
	cadence := "not yet"
	switch s.PromptMode {
	case journeydto.PromptModeScheduled:
		cadence = "every " + s.PromptInterval.String()
	case journeydto.PromptModeManual:
		cadence = "on request (p)"
	}
	sb.WriteString(theme.Muted.Render("chapters: ") + chapters + "\n")
	sb.WriteString(theme.Muted.Render("prompts:  ") + cadence + "\n")
	sb.WriteString(theme.Muted.Render("goal:     ") + fmt.Sprintf("%d stone sessions a day", s.DailyStoneGoal))
	return theme.Pane.Width(max(20, m.width-4)).Render(sb.String())
}
