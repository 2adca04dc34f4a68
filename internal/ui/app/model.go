package app

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	journeydto "inkstone/internal/modules/journey/dto"
	ledgerdto "inkstone/internal/modules/ledger/dto"
	promptdto "inkstone/internal/modules/prompt/dto"
	"inkstone/internal/ui/components"
	"inkstone/internal/ui/theme"
	journeyview "inkstone/internal/ui/views/journey"
	practiceview "inkstone/internal/ui/views/practice"
	promptsview "inkstone/internal/ui/views/prompts"
)

// ─── ports ───────────────────────────────────────────────────────────────────

type journeyPort interface {
	Status(ctx context.Context) (journeydto.StatusOutput, error)
	Start(ctx context.Context) (journeydto.StatusOutput, error)
	Skip(ctx context.Context) (journeydto.StatusOutput, error)
	SetDailyGoal(ctx context.Context, goal int) (journeydto.StatusOutput, error)
	Tick(ctx context.Context) (journeydto.TickOutput, error)
}

type ledgerPort interface {
	StoneDone(ctx context.Context, durationSec int, reflection string) (ledgerdto.StoneOutput, error)
	Reflect(ctx context.Context, text string) (ledgerdto.StoneOutput, error)
	StartWriting(ctx context.Context) (ledgerdto.StartWritingOutput, error)
	EndWriting(ctx context.Context, sessionID string, wordCount int) (ledgerdto.EndWritingOutput, error)
	Resonance(ctx context.Context, sessionID string, score int) (ledgerdto.ResonanceOutput, error)
	Stats(ctx context.Context) (ledgerdto.StatsOutput, error)
}

type promptPort interface {
	Check(ctx context.Context) (promptdto.CheckOutput, error)
	ShowNow(ctx context.Context) (promptdto.PromptOutput, error)
	Dismiss(ctx context.Context) (promptdto.DismissOutput, error)
	SetEnabled(ctx context.Context, enabled bool) (promptdto.StateOutput, error)
	State(ctx context.Context) (promptdto.StateOutput, error)
}

// Options sets how often the dashboard runs its periodic checks.
type Options struct {
	PhaseEvery  time.Duration
	PromptEvery time.Duration
}

// ─── tab index ───────────────────────────────────────────────────────────────

type tabID int

const (
	tabJourney tabID = iota
	tabPractice
	tabPrompts
	tabCount
)

var tabLabels = [tabCount]string{"Journey", "Practice", "Prompts"}

// ─── async messages ──────────────────────────────────────────────────────────

type phaseTickMsg struct{}

type promptTickMsg struct{}

type clockTickMsg time.Time

type tickedMsg struct {
	out journeydto.TickOutput
	err error
}

type checkedMsg struct {
	out promptdto.CheckOutput
	err error
}

// actionMsg reports the result of a user action; refresh reloads every view.
type actionMsg struct {
	status string
	err    error
}

// ─── key bindings ────────────────────────────────────────────────────────────

type keyMap struct {
	Tab     key.Binding
	Help    key.Binding
	Palette key.Binding
	Quit    key.Binding
	Stone   key.Binding
	Write   key.Binding
	Prompt  key.Binding
	Dismiss key.Binding
	Toggle  key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Tab:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Palette: key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "palette")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
		Stone:   key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "stone timer")),
		Write:   key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "start writing")),
		Prompt:  key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "prompt me")),
		Dismiss: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "dismiss prompt")),
		Toggle:  key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "prompts on/off")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Help, k.Palette, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.Stone, k.Write},
		{k.Prompt, k.Dismiss, k.Toggle},
		{k.Help, k.Palette, k.Quit},
	}
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the root Bubble Tea model. It owns tab routing, the periodic
// journey and prompt checks, the celebration overlay and the command palette.
type Model struct {
	journey journeyPort
	ledger  ledgerPort
	prompts promptPort
	opts    Options

	journeyView  journeyview.Model
	practiceView practiceview.Model
	promptsView  promptsview.Model

	activeTab   tabID
	keys        keyMap
	help        help.Model
	showHelp    bool
	palette     components.Palette
	celebration []string
	status      string
	width       int
	height      int
}

func NewModel(journey journeyPort, ledger ledgerPort, prompts promptPort, opts Options) Model {
	if opts.PhaseEvery <= 0 {
		opts.PhaseEvery = time.Minute
	}
	if opts.PromptEvery <= 0 {
		opts.PromptEvery = 30 * time.Second
	}
	return Model{
		journey:      journey,
		ledger:       ledger,
		prompts:      prompts,
		opts:         opts,
		journeyView:  journeyview.New(),
		practiceView: practiceview.New(),
		promptsView:  promptsview.New(),
		activeTab:    tabJourney,
		keys:         defaultKeys(),
		help:         help.New(),
		palette:      components.NewPalette(),
		status:       "ready",
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.journeyView.Init(),
		m.refreshCmd(),
		m.tickCmd(),
		m.checkCmd(),
		clockTick(),
	)
}

// ─── update ──────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.palette.Visible() {
		var cmd tea.Cmd
		m.palette, cmd = m.palette.Update(msg)
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.palette.SetWidth(min(m.width-4, 80))
		m.help.Width = m.width
		m.propagateSize()
		return m, nil

	case phaseTickMsg:
		return m, m.tickCmd()

	case promptTickMsg:
		return m, m.checkCmd()

	case clockTickMsg:
		now := time.Time(msg)
		m.practiceView.SetNow(now)
		m.promptsView.SetNow(now)
		return m, clockTick()

	case tickedMsg:
		if msg.err != nil {
			m.status = "journey tick: " + msg.err.Error()
		} else {
			m.journeyView, _ = m.journeyView.Update(journeyview.StatusMsg{Status: msg.out.Status})
			m.celebrate(msg.out)
		}
		return m, tea.Tick(m.opts.PhaseEvery, func(time.Time) tea.Msg { return phaseTickMsg{} })

	case checkedMsg:
		cmds := []tea.Cmd{tea.Tick(m.opts.PromptEvery, func(time.Time) tea.Msg { return promptTickMsg{} })}
		if msg.err != nil {
			m.status = "prompt check: " + msg.err.Error()
		} else if msg.out.Shown {
			cmds = append(cmds, m.loadPromptsCmd())
		}
		return m, tea.Batch(cmds...)

	case actionMsg:
		if msg.err != nil {
			m.status = msg.err.Error()
		} else {
			m.status = msg.status
		}
		return m, m.refreshCmd()

	case journeyview.StatusMsg:
		m.journeyView, _ = m.journeyView.Update(msg)
		return m, nil

	case practiceview.StatsMsg:
		m.practiceView, _ = m.practiceView.Update(msg)
		return m, nil

	case promptsview.StateMsg:
		m.promptsView, _ = m.promptsView.Update(msg)
		return m, nil

	case components.PaletteSubmitMsg:
		return m.executePalette(msg.Input)

	case components.PaletteCancelMsg:
		m.status = "ready"
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.journeyView, cmd = m.journeyView.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if len(m.celebration) > 0 {
		m.celebration = nil
		return m, nil
	}
	if m.showHelp {
		if msg.String() == "?" || msg.String() == "esc" {
			m.showHelp = false
		}
		return m, nil
	}

	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "tab":
		m.activeTab = (m.activeTab + 1) % tabCount
	case "shift+tab":
		m.activeTab = (m.activeTab + tabCount - 1) % tabCount
	case "?":
		m.showHelp = !m.showHelp
	case ":":
		return m, m.palette.Open()
	case " ":
		now := time.Now()
		if !m.practiceView.StoneRunning() {
			m.practiceView.StartStone(now)
			m.activeTab = tabPractice
			m.status = "stone session running"
			return m, nil
		}
		elapsed := m.practiceView.StopStone(now)
		return m, m.stoneDoneCmd(int(elapsed.Seconds()), "")
	case "w":
		return m, m.startWritingCmd()
	case "p":
		return m, m.showNowCmd()
	case "d":
		return m, m.dismissCmd()
	case "e":
		return m, m.setEnabledCmd(!m.promptsView.Enabled())
	}
	return m, nil
}

// celebrate queues the overlay lines for a tick that crossed a boundary.
func (m *Model) celebrate(out journeydto.TickOutput) {
	if out.PhaseChange != nil {
		m.celebration = append(m.celebration, fmt.Sprintf("You have entered the %s phase", out.PhaseChange.ToTitle))
	}
	for _, ev := range out.Unlocks {
		m.celebration = append(m.celebration, fmt.Sprintf("[%s] %s: %s", ev.Icon, ev.Title, ev.Description))
	}
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	tabBar := m.renderTabBar()
	statusBar := m.renderStatusBar()
	contentH := max(1, m.height-lipgloss.Height(tabBar)-lipgloss.Height(statusBar))

	var content string
	switch {
	case len(m.celebration) > 0:
		content = lipgloss.Place(m.width, contentH, lipgloss.Center, lipgloss.Center, m.renderCelebration())
	case m.showHelp:
		content = lipgloss.NewStyle().Width(m.width).Height(contentH).Render(m.help.View(m.keys))
	case m.palette.Visible():
		content = lipgloss.Place(m.width, contentH, lipgloss.Center, lipgloss.Center, m.palette.View())
	case m.promptsView.Current() != nil && m.activeTab != tabPrompts:
		content = lipgloss.JoinVertical(lipgloss.Left, m.activeView(), m.promptsView.Card())
	default:
		content = m.activeView()
	}
	return lipgloss.JoinVertical(lipgloss.Left, tabBar, content, statusBar)
}

func (m Model) activeView() string {
	switch m.activeTab {
	case tabJourney:
		return m.journeyView.View()
	case tabPractice:
		return m.practiceView.View()
	case tabPrompts:
		return m.promptsView.View()
	}
	return ""
}

func (m Model) renderCelebration() string {
	var sb strings.Builder
	sb.WriteString(theme.Hot.Render("✦ Milestone ✦") + "\n\n")
	for _, line := range m.celebration {
		sb.WriteString(line + "\n")
	}
	sb.WriteString("\n" + theme.Muted.Render("press any key"))
	return theme.Celebration.Render(sb.String())
}

func (m Model) renderTabBar() string {
	parts := make([]string, tabCount)
	for i := tabID(0); i < tabCount; i++ {
		if i == m.activeTab {
			parts[i] = theme.Hot.Render(" " + tabLabels[i] + " ")
		} else {
			parts[i] = theme.Muted.Render(" " + tabLabels[i] + " ")
		}
	}
	bar := "inkstone  " + strings.Join(parts, theme.Muted.Render(" │ "))
	return lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar) + "\n"
}

func (m Model) renderStatusBar() string {
	left := m.status
	if status := m.journeyView.Status(); status.Started {
		left = theme.Hot.Render(fmt.Sprintf("● %s w%d", status.PhaseTitle, status.Week)) + "  " + left
	}
	right := theme.Muted.Render("?:help  tab:switch  :::palette  q:quit")
	gap := max(1, m.width-lipgloss.Width(left)-lipgloss.Width(right))
	bar := left + strings.Repeat(" ", gap) + right
	return "\n" + lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar)
}

// ─── palette execution ───────────────────────────────────────────────────────

func (m Model) executePalette(input string) (tea.Model, tea.Cmd) {
	if strings.TrimSpace(input) == "" {
		return m, nil
	}
	parts := strings.Fields(input)
	rest := strings.TrimSpace(strings.TrimPrefix(input, parts[0]))

	switch parts[0] {
	case "journey:start":
		return m, m.action("journey started", func(ctx context.Context) error {
			_, err := m.journey.Start(ctx)
			return err
		})

	case "journey:skip":
		return m, m.action("skipped to the next phase", func(ctx context.Context) error {
			_, err := m.journey.Skip(ctx)
			return err
		})

	case "journey:goal":
		goal, err := strconv.Atoi(rest)
		if err != nil {
			m.status = "usage: journey:goal <n>"
			return m, nil
		}
		return m, m.action(fmt.Sprintf("daily goal set to %d", goal), func(ctx context.Context) error {
			_, err := m.journey.SetDailyGoal(ctx, goal)
			return err
		})

	case "stone:done":
		seconds := 0
		if len(parts) >= 2 {
			n, err := strconv.Atoi(parts[1])
			if err != nil {
				m.status = "usage: stone:done <seconds> [reflection]"
				return m, nil
			}
			seconds = n
			rest = strings.TrimSpace(strings.TrimPrefix(rest, parts[1]))
		}
		return m, m.stoneDoneCmd(seconds, rest)

	case "stone:reflect":
		if rest == "" {
			m.status = "usage: stone:reflect <text>"
			return m, nil
		}
		return m, m.action("reflection saved", func(ctx context.Context) error {
			_, err := m.ledger.Reflect(ctx, rest)
			return err
		})

	case "write:start":
		return m, m.startWritingCmd()

	case "write:end":
		words, err := strconv.Atoi(rest)
		if err != nil {
			m.status = "usage: write:end <words>"
			return m, nil
		}
		return m, m.action("writing session ended", func(ctx context.Context) error {
			_, err := m.ledger.EndWriting(ctx, "", words)
			return err
		})

	case "write:resonance":
		score, err := strconv.Atoi(rest)
		if err != nil {
			m.status = "usage: write:resonance <1-10>"
			return m, nil
		}
		return m, m.action("resonance recorded", func(ctx context.Context) error {
			_, err := m.ledger.Resonance(ctx, "", score)
			return err
		})

	case "prompt:show":
		return m, m.showNowCmd()

	case "prompt:dismiss":
		return m, m.dismissCmd()

	case "prompt:on":
		return m, m.setEnabledCmd(true)

	case "prompt:off":
		return m, m.setEnabledCmd(false)

	default:
		m.status = "unknown command: " + parts[0]
	}
	return m, nil
}

// ─── helpers ─────────────────────────────────────────────────────────────────

func (m *Model) propagateSize() {
	sz := tea.WindowSizeMsg{Width: m.width, Height: m.height - 3}
	m.journeyView, _ = m.journeyView.Update(sz)
	m.practiceView, _ = m.practiceView.Update(sz)
	m.promptsView, _ = m.promptsView.Update(sz)
}

func clockTick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return clockTickMsg(t) })
}

// ─── async commands ──────────────────────────────────────────────────────────

func (m Model) action(done string, fn func(ctx context.Context) error) tea.Cmd {
	return func() tea.Msg {
		return actionMsg{status: done, err: fn(context.Background())}
	}
}

func (m Model) refreshCmd() tea.Cmd {
	return tea.Batch(m.loadJourneyCmd(), m.loadStatsCmd(), m.loadPromptsCmd())
}

func (m Model) loadJourneyCmd() tea.Cmd {
	return func() tea.Msg {
		status, err := m.journey.Status(context.Background())
		return journeyview.StatusMsg{Status: status, Err: err}
	}
}

func (m Model) loadStatsCmd() tea.Cmd {
	return func() tea.Msg {
		stats, err := m.ledger.Stats(context.Background())
		return practiceview.StatsMsg{Stats: stats, Err: err}
	}
}

func (m Model) loadPromptsCmd() tea.Cmd {
	return func() tea.Msg {
		state, err := m.prompts.State(context.Background())
		return promptsview.StateMsg{State: state, Err: err}
	}
}

func (m Model) tickCmd() tea.Cmd {
	return func() tea.Msg {
		out, err := m.journey.Tick(context.Background())
		return tickedMsg{out: out, err: err}
	}
}

func (m Model) checkCmd() tea.Cmd {
	return func() tea.Msg {
		out, err := m.prompts.Check(context.Background())
		return checkedMsg{out: out, err: err}
	}
}

func (m Model) stoneDoneCmd(seconds int, reflection string) tea.Cmd {
	return func() tea.Msg {
		out, err := m.ledger.StoneDone(context.Background(), seconds, reflection)
		if err != nil {
			return actionMsg{err: err}
		}
		return actionMsg{status: fmt.Sprintf("stone session %d/%d recorded", out.SessionsToday, out.DailyGoal)}
	}
}

func (m Model) startWritingCmd() tea.Cmd {
	return m.action("writing session started", func(ctx context.Context) error {
		_, err := m.ledger.StartWriting(ctx)
		return err
	})
}

func (m Model) showNowCmd() tea.Cmd {
	return m.action("prompt shown", func(ctx context.Context) error {
		_, err := m.prompts.ShowNow(ctx)
		return err
	})
}

func (m Model) dismissCmd() tea.Cmd {
	return func() tea.Msg {
		out, err := m.prompts.Dismiss(context.Background())
		if err != nil {
			return actionMsg{err: err}
		}
		if !out.Dismissed {
			return actionMsg{status: fmt.Sprintf("stay with it %.1fs more", float64(out.RemainingMs)/1000)}
		}
		return actionMsg{status: "prompt dismissed"}
	}
}

func (m Model) setEnabledCmd(enabled bool) tea.Cmd {
	label := "prompts off"
	if enabled {
		label = "prompts on"
	}
	return m.action(label, func(ctx context.Context) error {
		_, err := m.prompts.SetEnabled(ctx, enabled)
		return err
	})
}
