// Package tui provides the interactive Bubble Tea dashboard for tend.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/theirongolddev/tend/internal/config"
	"github.com/theirongolddev/tend/internal/model"
	"github.com/theirongolddev/tend/internal/pipeline"
	"github.com/theirongolddev/tend/internal/state"
	"github.com/theirongolddev/tend/internal/store"
	"github.com/theirongolddev/tend/internal/tui/components"
	"github.com/theirongolddev/tend/internal/tui/theme"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// DataLoadedMsg is sent when the store has been opened and read.
type DataLoadedMsg struct {
	KV       *store.Store
	State    *state.State
	LoadTime time.Duration
	Err      error
}

const (
	tabToday = iota
	tabBudget
	tabHabits
	tabMeals
	tabCycle
	tabHealth
	tabSettings
)

type formKind int

const (
	formNone formKind = iota
	formSetup
	formTransaction
)

// App is the root Bubble Tea model.
type App struct {
	cfg    config.Config
	dbPath string
	opts   []state.Option

	// Data
	kv       *store.Store
	st       *state.State
	loaded   bool
	loadErr  error
	loadTime time.Duration
	today    pipeline.Summary

	// UI state
	width     int
	height    int
	activeTab int
	showHelp  bool
	status    components.StatusMessage

	// Per-tab state
	habitCursor int
	txCursor    int
	settings    settingsState

	// Modal huh forms: first-run setup and quick-add transaction
	form      *huh.Form
	formKind  formKind
	setupVals *setupValues
	txVals    *txValues
	needSetup bool

	spinner spinner.Model
}

const (
	minTerminalWidth = 80
	compactWidth     = 120
	maxContentWidth  = 180
	minContentHeight = 5

	// tickInterval re-evaluates "today" so the dashboard rolls over at midnight.
	tickInterval = time.Minute
)

// NewApp creates the dashboard model. The store at dbPath is opened by Init;
// callers release it with Close once the program exits.
func NewApp(cfg config.Config, dbPath string, opts ...state.Option) App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent).Background(theme.Active.Surface)

	return App{
		cfg:       cfg,
		dbPath:    dbPath,
		opts:      opts,
		needSetup: !config.Exists(),
		spinner:   sp,
	}
}

// Close releases the store.
func (a App) Close() error {
	if a.kv == nil {
		return nil
	}
	return a.kv.Close()
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnableMouseCellMotion,
		loadDataCmd(a.dbPath, a.opts),
		a.spinner.Tick,
		tickCmd(),
	)
}

// recompute rebuilds the day summary. All state access happens on the
// Update goroutine.
func (a *App) recompute() {
	if a.st == nil {
		return
	}
	a.today = pipeline.Today(a.st, a.cfg, a.st.Now())

	if a.habitCursor >= len(a.today.Habits) {
		a.habitCursor = len(a.today.Habits) - 1
	}
	if a.habitCursor < 0 {
		a.habitCursor = 0
	}
	if n := len(a.recentTransactions()); a.txCursor >= n {
		a.txCursor = n - 1
	}
	if a.txCursor < 0 {
		a.txCursor = 0
	}
}

func (a *App) flash(msg string) {
	a.status = components.StatusMessage{Text: msg}
}

func (a *App) flashErr(err error) {
	a.status = components.StatusMessage{Text: err.Error(), Error: true}
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.form != nil {
			a.form = a.form.WithWidth(msg.Width).WithHeight(msg.Height)
		}
		return a, nil

	case tea.MouseMsg:
		if !a.loaded || a.showHelp || a.form != nil {
			return a, nil
		}
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			a.moveCursor(-1)
		case tea.MouseButtonWheelDown:
			a.moveCursor(1)
		case tea.MouseButtonLeft:
			if msg.Action == tea.MouseActionPress && msg.Y == 0 {
				if tab := a.tabAtX(msg.X); tab >= 0 {
					a.activeTab = tab
				}
			}
		}
		return a, nil

	case tea.KeyMsg:
		return a.updateKey(msg)

	case DataLoadedMsg:
		a.loaded = true
		a.loadTime = msg.LoadTime
		if msg.Err != nil {
			a.loadErr = msg.Err
			return a, nil
		}
		a.kv = msg.KV
		a.st = msg.State
		a.recompute()

		if a.needSetup {
			return a, a.openForm(formSetup)
		}
		return a, nil

	case spinner.TickMsg:
		if !a.loaded {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil

	case tickMsg:
		if a.loaded && a.form == nil {
			a.recompute()
		}
		return a, tickCmd()
	}

	// Forward unhandled messages to the active form (cursor blinks, etc.)
	if a.form != nil {
		return a.updateForm(msg)
	}
	return a, nil
}

func (a App) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" {
		return a, tea.Quit
	}
	if !a.loaded {
		return a, nil
	}
	if a.loadErr != nil {
		return a, tea.Quit
	}

	// Modal forms intercept all keys
	if a.form != nil {
		return a.updateForm(msg)
	}

	if a.activeTab == tabSettings && a.settings.editing {
		return a.updateSettingsInput(msg)
	}

	if key == "?" {
		a.showHelp = !a.showHelp
		return a, nil
	}
	if a.showHelp {
		a.showHelp = false
		return a, nil
	}

	a.status = components.StatusMessage{}

	switch key {
	case "q":
		return a, tea.Quit
	case "j", "down":
		a.moveCursor(1)
		return a, nil
	case "k", "up":
		a.moveCursor(-1)
		return a, nil
	case "r":
		return a.reload()
	case "a":
		return a, a.openForm(formTransaction)
	case "w":
		return a.addWater()
	}

	switch a.activeTab {
	case tabHabits:
		switch key {
		case " ", "enter":
			return a.recordHabit(false)
		case "u", "backspace":
			return a.recordHabit(true)
		}
	case tabBudget:
		if key == "d" {
			return a.deleteTransaction()
		}
	case tabHealth:
		if key == "W" {
			return a.undoWater()
		}
	case tabSettings:
		if key == "enter" {
			return a.settingsStartEdit()
		}
	}

	switch key {
	case "left", "shift+tab":
		a.activeTab = (a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs)
	case "right", "tab":
		a.activeTab = (a.activeTab + 1) % len(components.Tabs)
	default:
		if r := []rune(key); len(r) == 1 {
			if idx := components.TabIdxByKey(r[0]); idx >= 0 {
				a.activeTab = idx
			}
		}
	}
	return a, nil
}

func (a *App) moveCursor(delta int) {
	switch a.activeTab {
	case tabHabits:
		a.habitCursor = clampCursor(a.habitCursor+delta, len(a.today.Habits))
	case tabBudget:
		a.txCursor = clampCursor(a.txCursor+delta, len(a.recentTransactions()))
	case tabSettings:
		if !a.settings.editing {
			a.settings.cursor = clampCursor(a.settings.cursor+delta, settingsFieldCount)
		}
	}
}

func clampCursor(c, n int) int {
	if c >= n {
		c = n - 1
	}
	if c < 0 {
		c = 0
	}
	return c
}

func (a App) reload() (tea.Model, tea.Cmd) {
	res, err := pipeline.Load(a.kv, a.opts...)
	if err != nil {
		a.flashErr(err)
		return a, nil
	}
	a.st = res.State
	a.loadTime = res.Elapsed
	a.recompute()
	a.flash("Reloaded")
	return a, nil
}

func (a App) recordHabit(undo bool) (tea.Model, tea.Cmd) {
	if len(a.today.Habits) == 0 {
		return a, nil
	}
	h := a.today.Habits[a.habitCursor].Habit
	day := model.DayKey(a.today.Day)

	var err error
	if undo {
		_, err = a.st.DecrementHabit(h.ID, day)
	} else {
		_, err = a.st.RecordHabit(h.ID, day)
	}
	if err != nil {
		a.flashErr(err)
		return a, nil
	}
	a.recompute()
	a.flash("Updated " + h.Name)
	return a, nil
}

func (a App) addWater() (tea.Model, tea.Cmd) {
	ml := a.cfg.Water.GlassML
	if ml <= 0 {
		ml = config.DefaultConfig().Water.GlassML
	}
	if _, err := a.st.AddWater(model.DayKey(a.today.Day), ml); err != nil {
		a.flashErr(err)
		return a, nil
	}
	a.recompute()
	a.flash(fmt.Sprintf("+%d ml water", ml))
	return a, nil
}

func (a App) undoWater() (tea.Model, tea.Cmd) {
	e, ok, err := a.st.UndoWater(model.DayKey(a.today.Day))
	switch {
	case err != nil:
		a.flashErr(err)
	case !ok:
		a.flash("No water logged today")
	default:
		a.recompute()
		a.flash(fmt.Sprintf("Removed %d ml", e.Amount))
	}
	return a, nil
}

func (a App) deleteTransaction() (tea.Model, tea.Cmd) {
	txs := a.recentTransactions()
	if len(txs) == 0 {
		return a, nil
	}
	tx := txs[a.txCursor]
	if err := a.st.DeleteTransaction(tx.ID); err != nil {
		a.flashErr(err)
		return a, nil
	}
	a.recompute()
	a.flash("Deleted " + txLabel(tx))
	return a, nil
}

func (a App) contentWidth() int {
	cw := a.width
	if cw > maxContentWidth {
		cw = maxContentWidth
	}
	return cw
}

func (a App) isCompactLayout() bool {
	return a.contentWidth() < compactWidth
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}
	if !a.loaded {
		return a.viewLoading()
	}
	if a.loadErr != nil {
		return a.viewError()
	}
	if a.form != nil {
		return a.form.View()
	}
	if a.showHelp {
		return a.viewHelp()
	}
	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := a.height
	if h < 5 {
		h = 5
	}
	msg := fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  tend needs at least %d columns.\n",
		a.width,
		minTerminalWidth,
	)
	return padHeight(truncateHeight(msg, h), h)
}

func (a App) centeredCard(body string) string {
	t := theme.Active
	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3).
		Render(body)
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, card,
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewLoading() string {
	t := theme.Active
	logoStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	subtitleStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	var b strings.Builder
	b.WriteString(logoStyle.Render("◈ tend"))
	b.WriteString(subtitleStyle.Render(" · daily wellness"))
	b.WriteString("\n\n")
	b.WriteString(a.spinner.View())
	b.WriteString(subtitleStyle.Render(" Opening " + a.dbPath))
	return a.centeredCard(b.String())
}

func (a App) viewError() string {
	t := theme.Active
	errStyle := lipgloss.NewStyle().Foreground(t.Red).Background(t.Surface).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	return a.centeredCard(errStyle.Render("Could not load data") + "\n\n" +
		dimStyle.Render(a.loadErr.Error()) + "\n\n" +
		dimStyle.Render("Press any key to exit"))
}

func (a App) viewHelp() string {
	t := theme.Active

	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	sectionStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.Cyan).Background(t.Surface).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n\n")

	section := func(name string, binds [][2]string) {
		b.WriteString(sectionStyle.Render(name))
		b.WriteString("\n")
		for _, bind := range binds {
			fmt.Fprintf(&b, "  %s  %s\n",
				keyStyle.Render(fmt.Sprintf("%-10s", bind[0])),
				descStyle.Render(bind[1]))
		}
		b.WriteString("\n")
	}

	section("Navigation", [][2]string{
		{"t b h m", "Today, Budget, Habits, Meals"},
		{"c e x", "Cycle, Health, Settings"},
		{"← →", "Previous / Next tab"},
		{"j k", "Move in lists"},
	})
	section("Actions", [][2]string{
		{"a", "Add a transaction"},
		{"w / W", "Add a glass of water / undo"},
		{"space", "Check habit (Habits)"},
		{"u", "Undo habit check (Habits)"},
		{"d", "Delete transaction (Budget)"},
		{"Enter", "Edit setting (Settings)"},
		{"r", "Reload data"},
		{"?", "Toggle help"},
		{"q", "Quit"},
	})
	b.WriteString(dimStyle.Render("Press any key to close"))

	return a.centeredCard(b.String())
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()
	h := a.height

	header := components.RenderTabBar(a.activeTab, w)

	hints := "[?]help  [a]dd  [w]ater  [q]uit"
	info := fmt.Sprintf("%s · loaded in %s", a.today.Day.Format("Mon Jan 2"), a.loadTime.Round(time.Millisecond))
	statusBar := components.RenderStatusBar(w, hints, info, a.status)

	contentH := h - lipgloss.Height(header) - lipgloss.Height(statusBar)
	if contentH < minContentHeight {
		contentH = minContentHeight
	}

	var content string
	switch a.activeTab {
	case tabToday:
		content = a.renderTodayTab(cw)
	case tabBudget:
		content = a.renderBudgetTab(cw)
	case tabHabits:
		content = a.renderHabitsTab(cw)
	case tabMeals:
		content = a.renderMealsTab(cw)
	case tabCycle:
		content = a.renderCycleTab(cw)
	case tabHealth:
		content = a.renderHealthTab(cw)
	case tabSettings:
		content = a.renderSettingsTab(cw)
	}

	content = padHeight(truncateHeight(content, contentH), contentH)
	content = fillLinesWithBackground(content, cw, t.Background)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
	return lipgloss.Place(w, h, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

// ─── Helpers ────────────────────────────────────────────────────

type tickMsg struct{}

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(time.Time) tea.Msg {
		return tickMsg{}
	})
}

// loadDataCmd opens and reads the store off the UI goroutine.
func loadDataCmd(dbPath string, opts []state.Option) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		kv, res, err := pipeline.Open(dbPath, opts...)
		if err != nil {
			return DataLoadedMsg{Err: err, LoadTime: time.Since(start)}
		}
		return DataLoadedMsg{KV: kv, State: res.State, LoadTime: time.Since(start)}
	}
}

func truncStr(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}

// fillLinesWithBackground pads each line to width w with background color.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = lipgloss.PlaceHorizontal(w, lipgloss.Left, line,
			lipgloss.WithWhitespaceBackground(bg))
	}
	return strings.Join(lines, "\n")
}

// tabAtX returns the tab index at the given X coordinate, or -1 if none.
// Hitboxes are derived from the same width rules used by RenderTabBar.
func (a App) tabAtX(x int) int {
	pos := 0
	for i, tab := range components.Tabs {
		tabW := components.TabVisualWidth(tab, i == a.activeTab)
		if x >= pos && x < pos+tabW {
			return i
		}
		pos += tabW

		// Separator is one column between tabs.
		if i < len(components.Tabs)-1 {
			pos++
		}
	}
	return -1
}
