package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/balkashynov/flowstate/internal/engine"
	"github.com/balkashynov/flowstate/internal/models"
	"github.com/balkashynov/flowstate/internal/rewards"
)

type section int

const (
	sectionTimeline section = iota
	sectionTodos
	sectionRituals
	sectionSanctuary
	sectionAchievements
	sectionCount
)

var sectionTitles = [sectionCount]string{"Timeline", "To-dos", "Rituals", "Sanctuary", "Achievements"}

// row is one selectable line of a section.
type row struct {
	label       string
	status      string
	statusColor string
	labelColor  string
	details     []string

	taskID      int64
	todoID      int64
	challengeID string
	crystal     models.CrystalType
}

type rowSource []row

func (s rowSource) String(i int) string { return s[i].label }
func (s rowSource) Len() int            { return len(s) }

// DashboardModel browses the snapshot and dispatches the quick actions:
// toggling tasks, claiming rituals and fusing crystals.
type DashboardModel struct {
	width  int
	height int

	ctx   context.Context
	svc   Engine
	clock func() time.Time
	user  string
	snap  *models.UserData

	section  section
	selected int
	offset   int
	perPage  int

	searching bool
	search    textinput.Model
	query     string

	keys dashboardKeys
	help help.Model
	glow *Glow

	notice string
	err    error
}

// glowTickMsg drives the highlight on the selected row.
type glowTickMsg struct{}

func NewDashboardModel(ctx context.Context, svc Engine, user string, clock func() time.Time) (DashboardModel, error) {
	snap, err := svc.Snapshot()
	if err != nil {
		return DashboardModel{}, err
	}
	if clock == nil {
		clock = time.Now
	}
	ti := textinput.New()
	ti.Prompt = "Search: "
	ti.CharLimit = 60

	return DashboardModel{
		ctx:     ctx,
		svc:     svc,
		clock:   clock,
		user:    user,
		snap:    snap,
		perPage: 10,
		search:  ti,
		keys:    newDashboardKeys(),
		help:    help.New(),
		glow:    NewGlow(DefaultGlowConfig()),
	}, nil
}

func (m DashboardModel) glowTick() tea.Cmd {
	if !m.glow.ShouldTick() {
		return nil
	}
	return tea.Tick(m.glow.Interval(), func(time.Time) tea.Msg {
		return glowTickMsg{}
	})
}

func (m DashboardModel) Init() tea.Cmd {
	return m.glowTick()
}

func (m DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case glowTickMsg:
		return m, m.glowTick()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		// header, tabs, borders, help
		m.perPage = max(3, (m.height-14)/2)
		return m, nil

	case tea.KeyMsg:
		if m.searching {
			return m.handleSearchKeys(msg)
		}
		return m.handleKeys(msg)
	}
	return m, nil
}

func (m DashboardModel) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.searching = false
		m.query = ""
		m.search.SetValue("")
		m.search.Blur()
		m.glow.SetActive(true)
		return m.clampSelection(), m.glowTick()
	case "enter":
		m.searching = false
		m.search.Blur()
		m.glow.SetActive(true)
		return m.clampSelection(), m.glowTick()
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.query = m.search.Value()
	m.selected, m.offset = 0, 0
	return m, cmd
}

func (m DashboardModel) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.err = nil
	switch {
	case key.Matches(msg, m.keys.Quit):
		if m.query != "" {
			m.query = ""
			m.search.SetValue("")
			return m.clampSelection(), nil
		}
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.selected > 0 {
			m.selected--
			m.glow.Reset()
		}
		return m.scroll(), nil

	case key.Matches(msg, m.keys.Down):
		if m.selected < len(m.visibleRows())-1 {
			m.selected++
			m.glow.Reset()
		}
		return m.scroll(), nil

	case key.Matches(msg, m.keys.Next):
		return m.switchSection((m.section + 1) % sectionCount), nil

	case key.Matches(msg, m.keys.Prev):
		return m.switchSection((m.section + sectionCount - 1) % sectionCount), nil

	case key.Matches(msg, m.keys.Search):
		m.searching = true
		m.glow.SetActive(false)
		return m, m.search.Focus()

	case key.Matches(msg, m.keys.Toggle):
		r, ok := m.current()
		switch {
		case !ok:
		case r.taskID != 0:
			return m.dispatch(engine.TaskToggled{ID: r.taskID}), nil
		case r.todoID != 0:
			return m.dispatch(engine.TodoToggled{ID: r.todoID}), nil
		}

	case key.Matches(msg, m.keys.Claim):
		if r, ok := m.current(); ok && r.challengeID != "" {
			return m.dispatch(engine.ChallengeClaimed{ID: r.challengeID}), nil
		}

	case key.Matches(msg, m.keys.Fuse):
		if r, ok := m.current(); ok && r.crystal != "" {
			return m.dispatch(engine.CrystalFused{Input: r.crystal}), nil
		}
	}
	return m, nil
}

func (m DashboardModel) switchSection(s section) DashboardModel {
	m.section = s
	m.selected, m.offset = 0, 0
	m.query = ""
	m.search.SetValue("")
	m.notice = ""
	m.glow.Reset()
	return m
}

// dispatch applies ev and reloads the snapshot so every section reflects it.
func (m DashboardModel) dispatch(ev engine.Event) DashboardModel {
	out, err := m.svc.Dispatch(m.ctx, ev)
	if err != nil {
		m.err = err
		return m
	}
	if snap, err := m.svc.Snapshot(); err == nil {
		m.snap = snap
	}
	m.notice = actionNotice(ev, out)
	return m.clampSelection()
}

func actionNotice(ev engine.Event, out engine.Outcome) string {
	var parts []string
	switch e := ev.(type) {
	case engine.ChallengeClaimed:
		parts = append(parts, fmt.Sprintf("Claimed +%d dust", out.DustEarned))
	case engine.CrystalFused:
		if out.Forged != nil {
			parts = append(parts, fmt.Sprintf("%d %s fused into %s", rewards.FusionCost, e.Input.Title(), out.Forged.Type.Title()))
		}
	default:
		parts = append(parts, "Updated")
	}
	if n := len(out.Completed); n > 0 {
		parts = append(parts, fmt.Sprintf("%d ritual(s) complete", n))
	}
	for _, up := range out.TierUps {
		parts = append(parts, fmt.Sprintf("%s reached %s", up.Title, up.Tier))
	}
	return strings.Join(parts, " · ")
}

func (m DashboardModel) clampSelection() DashboardModel {
	n := len(m.visibleRows())
	if m.selected >= n {
		m.selected = max(0, n-1)
	}
	return m.scroll()
}

// scroll keeps the selection inside the visible page.
func (m DashboardModel) scroll() DashboardModel {
	if m.selected < m.offset {
		m.offset = m.selected
	}
	if m.selected >= m.offset+m.perPage {
		m.offset = m.selected - m.perPage + 1
	}
	return m
}

func (m DashboardModel) current() (row, bool) {
	rows := m.visibleRows()
	if m.selected < 0 || m.selected >= len(rows) {
		return row{}, false
	}
	return rows[m.selected], true
}

// visibleRows is the current section filtered by the search query.
func (m DashboardModel) visibleRows() []row {
	rows := buildRows(m.snap, m.section)
	if m.query == "" {
		return rows
	}
	matches := fuzzy.FindFrom(m.query, rowSource(rows))
	out := make([]row, 0, len(matches))
	for _, match := range matches {
		out = append(out, rows[match.Index])
	}
	return out
}

func buildRows(u *models.UserData, s section) []row {
	switch s {
	case sectionTimeline:
		return timelineRows(u)
	case sectionTodos:
		return todoRows(u)
	case sectionRituals:
		return ritualRows(u)
	case sectionSanctuary:
		return sanctuaryRows(u)
	default:
		return achievementRows(u)
	}
}

func doneStatus(done bool) (string, string) {
	if done {
		return "✓ done", ColorSuccess
	}
	return "○ todo", ColorSecondaryText
}

func timelineRows(u *models.UserData) []row {
	rows := make([]row, 0, len(u.Tasks))
	for _, t := range u.Tasks {
		status, color := doneStatus(t.Completed)
		rows = append(rows, row{
			label:       strings.TrimSpace(t.Emoji + " " + t.Title),
			status:      status,
			statusColor: color,
			taskID:      t.ID,
			details: []string{
				fmt.Sprintf("Starts: %s", t.Time),
				fmt.Sprintf("Length: %s", formatDuration(time.Duration(t.Duration)*time.Minute)),
				fmt.Sprintf("Category: %s", t.Category),
				fmt.Sprintf("ID: %d", t.ID),
			},
		})
	}
	return rows
}

func todoRows(u *models.UserData) []row {
	rows := make([]row, 0, len(u.Todos))
	for _, t := range u.Todos {
		status, color := doneStatus(t.Completed)
		rows = append(rows, row{
			label:       strings.TrimSpace(t.Emoji + " " + t.Title),
			status:      status,
			statusColor: color,
			labelColor:  priorityColor(t.Priority),
			todoID:      t.ID,
			details: []string{
				fmt.Sprintf("Priority: %s", t.Priority),
				fmt.Sprintf("ID: %d", t.ID),
			},
		})
	}
	return rows
}

func priorityColor(p models.Priority) string {
	switch p {
	case models.PriorityHigh:
		return ColorError
	case models.PriorityMedium:
		return ColorWarning
	default:
		return ""
	}
}

func ritualRows(u *models.UserData) []row {
	rows := make([]row, 0, len(u.Challenges))
	for _, c := range u.Challenges {
		status, color := fmt.Sprintf("%d/%d", c.CurrentProgress, c.Target), ColorSecondaryText
		switch {
		case c.Claimed:
			status, color = "claimed", ColorDisabledText
		case c.Completed:
			status, color = "claim!", ColorDust
		}
		rows = append(rows, row{
			label:       c.Title,
			status:      status,
			statusColor: color,
			challengeID: c.ID,
			details: []string{
				c.Description,
				fmt.Sprintf("Resets: %s", c.Frequency),
				fmt.Sprintf("Reward: %d dust", c.RewardDust),
				progressBar(c.CurrentProgress, c.Target, 20),
			},
		})
	}
	return rows
}

func sanctuaryRows(u *models.UserData) []row {
	inv := models.Inventory(u.Sanctuary)
	var rows []row
	for _, t := range models.CrystalChain {
		n := inv[t]
		if n == 0 {
			continue
		}
		details := []string{fmt.Sprintf("Owned: %d", n)}
		if next, ok := t.Next(); ok {
			details = append(details, fmt.Sprintf("Fuse %d into one %s", rewards.FusionCost, next.Title()))
		} else {
			details = append(details, "The rarest crystal")
		}
		rows = append(rows, row{
			label:       t.Title(),
			labelColor:  crystalColor(t),
			status:      fmt.Sprintf("×%d", n),
			statusColor: crystalColor(t),
			crystal:     t,
			details:     details,
		})
	}
	return rows
}

func achievementRows(u *models.UserData) []row {
	rows := make([]row, 0, len(u.Achievements))
	for _, a := range u.Achievements {
		status := fmt.Sprintf("lvl %d", a.Level)
		if !a.Unlocked {
			status = "locked"
		}
		details := []string{a.Description, fmt.Sprintf("Tier: %s", a.Tier)}
		if a.Maxed() {
			details = append(details, "Maxed out")
		} else {
			details = append(details, progressBar(a.Progress, a.MaxProgress, 20))
		}
		rows = append(rows, row{
			label:       a.Title,
			status:      status,
			statusColor: tierColors[a.Tier],
			details:     details,
		})
	}
	return rows
}

// progressBar renders n/total as a fixed-width bar.
func progressBar(n, total, width int) string {
	if total <= 0 {
		return ""
	}
	filled := min(width, n*width/total)
	return fmt.Sprintf("%s%s %d/%d", strings.Repeat("█", filled), strings.Repeat("░", width-filled), n, total)
}

func (m DashboardModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	header := m.renderHeader()
	tabs := m.renderTabs()

	var content string
	if m.width < 90 {
		content = m.renderRows(m.width - 2)
	} else {
		leftWidth := m.width * 60 / 100
		rightWidth := m.width - leftWidth - 3
		content = lipgloss.JoinHorizontal(lipgloss.Top,
			m.renderRows(leftWidth),
			" ",
			m.renderDetails(rightWidth),
		)
	}

	var bottom string
	if m.searching {
		bottom = lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorPrimaryText)).
			Background(lipgloss.Color(ColorBorder)).
			Padding(0, 1).
			Width(m.width - 2).
			Render(m.search.View())
	} else {
		bottom = lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorHelpText)).
			Align(lipgloss.Center).
			Width(m.width).
			Render(m.help.View(m.keys))
	}

	status := ""
	if m.err != nil {
		status = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorError)).Render("✗ " + m.err.Error())
	} else if m.notice != "" {
		status = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSuccess)).Render("✓ " + m.notice)
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, tabs, content, status, bottom)
}

func (m DashboardModel) renderHeader() string {
	now := m.clock()
	u := m.snap

	greeting := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorAccentBright)).
		Render(fmt.Sprintf("Good %s, %s", engine.Greeting(now), m.user))

	pro := ""
	if u.IsPro {
		pro = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorDust)).Bold(true).Render("  ★ PRO")
	}

	stats := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSecondaryText)).Render(fmt.Sprintf(
		"🔥 %d day streak · ✦ %d dust · ✓ %d done today",
		u.Streak.Current, u.Stats.FocusDust, engine.CompletedToday(u)))

	focus := ""
	if t, ok := engine.CurrentTask(u.Tasks, now); ok {
		focus = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPrimaryText)).Render(
			fmt.Sprintf("Now: %s %s (until %s)", t.Emoji, t.Title, endClock(t)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, greeting+pro, stats, focus)
}

func endClock(t models.Task) string {
	start, err := t.StartMinute()
	if err != nil {
		return "?"
	}
	return models.FormatClock(start + t.Duration)
}

func (m DashboardModel) renderTabs() string {
	tabs := make([]string, 0, sectionCount)
	for i, title := range sectionTitles {
		style := lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color(ColorSecondaryText))
		if section(i) == m.section {
			style = style.
				Bold(true).
				Foreground(lipgloss.Color(ColorPrimaryText)).
				Background(lipgloss.Color(ColorAccentMain))
		}
		tabs = append(tabs, style.Render(title))
	}
	return "\n" + lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m DashboardModel) renderRows(width int) string {
	var b strings.Builder
	rows := m.visibleRows()

	if len(rows) == 0 {
		msg := "Nothing here yet"
		if m.query != "" {
			msg = fmt.Sprintf("No match for %q", m.query)
		}
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSecondaryText)).Italic(true).Render(msg))
	}

	statusWidth := 10
	labelWidth := max(10, width-statusWidth-8)
	end := min(len(rows), m.offset+m.perPage)

	for i := m.offset; i < end; i++ {
		r := rows[i]
		label := truncate(r.label, labelWidth)
		pad := strings.Repeat(" ", max(0, labelWidth-lipgloss.Width(label)))

		if i == m.selected {
			base := r.labelColor
			if base == "" {
				base = ColorSecondaryText
			}
			label = m.glow.Render(label, base, labelWidth)
		} else if r.labelColor != "" {
			label = lipgloss.NewStyle().Foreground(lipgloss.Color(r.labelColor)).Render(label)
		}
		status := lipgloss.NewStyle().Foreground(lipgloss.Color(r.statusColor)).Render(r.status)
		content := label + pad + " " + status

		if i == m.selected {
			b.WriteString(lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color(ColorAccentMain)).
				Bold(true).
				Padding(0, 1).
				Render(content))
		} else {
			b.WriteString("  " + content)
		}
		b.WriteString("\n")
	}

	if len(rows) > m.perPage {
		b.WriteString(lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorHelpText)).
			Align(lipgloss.Center).
			Width(width - 2).
			Render(fmt.Sprintf("%d-%d of %d", m.offset+1, end, len(rows))))
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorBorder)).
		Width(width).
		Render(b.String())
}

func (m DashboardModel) renderDetails(width int) string {
	var b strings.Builder
	r, ok := m.current()
	if !ok {
		b.WriteString(renderLogo(width))
		b.WriteString("\n\n")
		b.WriteString(lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorSecondaryText)).
			Italic(true).
			Align(lipgloss.Center).
			Width(width).
			Render("Select an entry to view details"))
	} else {
		b.WriteString(lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(ColorPrimaryText)).
			Width(width).
			Render(r.label))
		b.WriteString("\n\n")
		detail := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSecondaryText)).Width(width - 2)
		for _, d := range r.details {
			b.WriteString(detail.Render(d))
			b.WriteString("\n")
		}
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorBorder)).
		Width(width).
		Render(b.String())
}
