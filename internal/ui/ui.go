package ui

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/pimenu/internal/engine"
	"github.com/five82/pimenu/internal/executor"
	"github.com/five82/pimenu/internal/prefs"
	"github.com/five82/pimenu/internal/state"
)

// Panel size of the windowed mode, in cells.
const (
	PanelWidth  = 48
	PanelHeight = 16
)

const (
	headerHeight = 1
	noticeTTL    = 4 * time.Second
	logTailLines = 200
)

// mode is what the screen currently shows.
type mode int

const (
	modeMenu mode = iota
	modeExecuting
	modeOutput
	modeLog
)

// Options configures the UI.
type Options struct {
	Context    context.Context
	Engine     *engine.Engine
	Store      *state.Store
	Logger     *slog.Logger
	Fullscreen bool
	SaveDir    string
	LogPath    string
	PollTick   time.Duration
	ThemeName  string
	PrefsPath  string
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx        context.Context
	eng        *engine.Engine
	store      *state.Store
	logger     *slog.Logger
	fullscreen bool
	saveDir    string
	logPath    string
	prefsPath  string
	pollTick   time.Duration
	keys       keyMap

	// Effects, replaceable in tests
	copyText func(string) error
	now      func() time.Time

	// UI state
	theme    Theme
	mode     mode
	width    int
	height   int
	ready    bool
	showHelp bool
	icons    *iconArt

	// Menu state
	items []engine.Selectable
	focus int

	// Execution state
	spinner  spinner.Model
	running  executor.Target
	started  time.Time
	inflight *inflight

	// Output state
	output      viewport.Model
	buttonFocus int

	// Log view
	logView viewport.Model

	// Status
	snapshot  state.Snapshot
	notice    string
	noticeAt  time.Time
	noticeBad bool
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	pollTick := opts.PollTick
	if pollTick == 0 {
		pollTick = time.Second
	}

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = prefs.DefaultTheme
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	m := Model{
		ctx:        ctx,
		eng:        opts.Engine,
		store:      opts.Store,
		logger:     logger,
		fullscreen: opts.Fullscreen,
		saveDir:    opts.SaveDir,
		logPath:    opts.LogPath,
		prefsPath:  opts.PrefsPath,
		pollTick:   pollTick,
		keys:       DefaultKeyMap(),
		copyText:   clipboard.WriteAll,
		now:        time.Now,
		theme:      GetTheme(themeName),
		icons:      newIconArt(),
		spinner:    spinner.New(spinner.WithSpinner(spinner.Dot)),
		inflight:   &inflight{},
		output:     viewport.New(0, 0),
		logView:    viewport.New(0, 0),
	}
	m.refreshItems()
	if warnings := m.eng.Warnings(); len(warnings) > 0 {
		m.setNotice(warnings[0], true)
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd(m.pollTick)}
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.resizeViewports()
		return m, nil

	case tickMsg:
		return m.handleTick(time.Time(msg))

	case snapshotMsg:
		m.snapshot = state.Snapshot(msg)
		return m, nil

	case spinner.TickMsg:
		if m.mode != modeExecuting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case execDoneMsg:
		return m.handleExecDone(msg)

	case savedMsg:
		if msg.err != nil {
			m.logger.Error("save output failed", "error", msg.err)
			m.setNotice("Save failed: "+msg.err.Error(), true)
		} else {
			m.logger.Info("output saved", "path", msg.path)
			m.setNotice("Saved to "+msg.path, false)
		}
		return m, nil

	case copiedMsg:
		if msg.err != nil {
			m.logger.Warn("copy output failed", "error", msg.err)
			m.setNotice("Copy failed: "+msg.err.Error(), true)
		} else {
			m.setNotice("Output copied", false)
		}
		return m, nil

	case logLinesMsg:
		if msg.err != nil {
			m.setNotice("Log unavailable: "+msg.err.Error(), true)
			m.mode = modeMenu
			return m, nil
		}
		m.logView.SetContent(joinLines(msg.lines, "The log is empty."))
		m.logView.GotoBottom()
		return m, nil
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	if m.showHelp {
		return m.renderHelp()
	}

	var body string
	switch m.mode {
	case modeExecuting:
		body = m.renderExecuting()
	case modeOutput:
		body = m.renderOutput()
	case modeLog:
		body = m.renderLog()
	default:
		body = m.renderMenu()
	}
	return m.renderHeader() + "\n" + body
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	// Nothing else is accepted while a command runs.
	if m.mode == modeExecuting {
		return m, nil
	}

	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		if m.prefsPath != "" {
			if err := prefs.Save(m.prefsPath, prefs.Prefs{Theme: m.theme.Name}); err != nil {
				m.logger.Warn("save prefs failed", "error", err)
			}
		}
		return m, nil
	}

	switch m.mode {
	case modeOutput:
		return m.handleOutputKey(msg)
	case modeLog:
		return m.handleLogKey(msg)
	default:
		return m.handleMenuKey(msg)
	}
}

func (m Model) handleMenuKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	g := m.grid()
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Logs):
		m.mode = modeLog
		return m, readLogCmd(m.logPath)
	case key.Matches(msg, m.keys.Up):
		m.focus = g.move(m.focus, -1, 0)
	case key.Matches(msg, m.keys.Down):
		m.focus = g.move(m.focus, 1, 0)
	case key.Matches(msg, m.keys.Left):
		m.focus = g.move(m.focus, 0, -1)
	case key.Matches(msg, m.keys.Right):
		m.focus = g.move(m.focus, 0, 1)
	case key.Matches(msg, m.keys.Select):
		return m.selectItem(m.focus)
	case key.Matches(msg, m.keys.Back):
		action, err := m.eng.Back()
		return m.applyAction(action, err)
	case key.Matches(msg, m.keys.Reload):
		return m.forceReload()
	default:
		if r := msg.Runes; len(r) == 1 && r[0] >= '1' && r[0] <= '9' {
			if i := int(r[0] - '1'); i < len(m.items) {
				return m.selectItem(i)
			}
		}
	}
	return m, nil
}

// selectItem hands the button with the given id to the engine.
func (m Model) selectItem(id int) (tea.Model, tea.Cmd) {
	if id < 0 || id >= len(m.items) {
		return m, nil
	}
	action, err := m.eng.Select(m.items[id].ID)
	return m.applyAction(action, err)
}

// applyAction updates the screen after the engine acted on a selection.
func (m Model) applyAction(action engine.Action, err error) (tea.Model, tea.Cmd) {
	switch action.Kind {
	case engine.ActionExecute:
		m.mode = modeExecuting
		m.running = action.Target
		m.started = m.now()
		return m, tea.Batch(m.spinner.Tick, runCmd(m.ctx, m.eng, action.Target, m.inflight))

	case engine.ActionReload:
		if m.store != nil {
			m.store.Acknowledge()
			m.snapshot = m.store.Snapshot()
		}
		m.refreshItems()
		m.focus = 0

	case engine.ActionDescend, engine.ActionAscend:
		m.refreshItems()
		m.focus = 0
	}

	switch {
	case err != nil:
		m.logger.Warn("menu action failed", "error", err)
		m.setNotice(err.Error(), true)
	case action.Notice != "":
		m.setNotice(action.Notice, false)
	}
	return m, nil
}

func (m Model) forceReload() (tea.Model, tea.Cmd) {
	if err := m.eng.Reload(); err != nil {
		m.setNotice(err.Error(), true)
		return m, nil
	}
	return m.applyAction(engine.Action{Kind: engine.ActionReload, Notice: "Menu reloaded"}, nil)
}

func (m Model) handleExecDone(msg execDoneMsg) (tea.Model, tea.Cmd) {
	m.eng.Complete(msg.target, msg.outcome)
	m.refreshItems()
	m.focus = 0

	m.mode = modeOutput
	m.buttonFocus = len(outputButtons) - 1
	m.resizeViewports()
	m.output.SetContent(outcomeText(msg.outcome))
	m.output.GotoTop()
	return m, nil
}

func (m Model) handleLogKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Close), key.Matches(msg, m.keys.Logs):
		m.mode = modeMenu
		return m, nil
	}
	var cmd tea.Cmd
	m.logView, cmd = m.logView.Update(msg)
	return m, cmd
}

// handleMouse maps taps to buttons. Only presses of the primary button count;
// the wheel scrolls the output and log views.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.mode == modeExecuting || msg.Action != tea.MouseActionPress {
		return m, nil
	}
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	if msg.Button == tea.MouseButtonWheelUp || msg.Button == tea.MouseButtonWheelDown {
		var cmd tea.Cmd
		switch m.mode {
		case modeOutput:
			m.output, cmd = m.output.Update(msg)
		case modeLog:
			m.logView, cmd = m.logView.Update(msg)
		}
		return m, cmd
	}
	if msg.Button != tea.MouseButtonLeft {
		return m, nil
	}

	switch m.mode {
	case modeOutput:
		if i := m.outputButtonAt(msg.X, msg.Y); i >= 0 {
			m.buttonFocus = i
			return m.pressOutputButton(i)
		}
	case modeLog:
		m.mode = modeMenu
	default:
		if msg.Y < headerHeight && m.eng.Depth() == 1 {
			// The root frame has no Back button; the header stands in for it.
			action, err := m.eng.Back()
			return m.applyAction(action, err)
		}
		if i := m.grid().hit(msg.X, msg.Y); i >= 0 {
			m.focus = i
			return m.selectItem(i)
		}
	}
	return m, nil
}

// handleTick refreshes the store snapshot and expires notices.
func (m Model) handleTick(now time.Time) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	if m.notice != "" && now.Sub(m.noticeAt) > noticeTTL {
		m.notice = ""
	}
	cmds = append(cmds, tickCmd(m.pollTick))
	return m, tea.Batch(cmds...)
}

func (m *Model) refreshItems() {
	m.items = m.eng.Items()
	if m.focus >= len(m.items) {
		m.focus = 0
	}
}

func (m *Model) setNotice(text string, bad bool) {
	m.notice = text
	m.noticeBad = bad
	m.noticeAt = m.now()
}

// panelWidth and panelHeight bound the drawing area: the whole terminal in
// fullscreen mode, a fixed panel otherwise.
func (m Model) panelWidth() int {
	if m.fullscreen {
		return m.width
	}
	return min(m.width, PanelWidth)
}

func (m Model) panelHeight() int {
	if m.fullscreen {
		return m.height
	}
	return min(m.height, PanelHeight)
}

func (m Model) gridHeight() int {
	return max(m.panelHeight()-headerHeight, 0)
}

func (m Model) grid() grid {
	return layoutGrid(len(m.items), 0, headerHeight, m.panelWidth(), m.gridHeight())
}

func (m Model) renderMenu() string {
	return m.renderGrid(m.grid())
}

func (m *Model) resizeViewports() {
	w := m.panelWidth()
	h := max(m.gridHeight()-outputButtonHeight, 1)
	m.output.Width = w
	m.output.Height = h
	m.logView.Width = w
	m.logView.Height = max(m.gridHeight(), 1)
}

// Run starts the Bubble Tea program and blocks until it exits or ctx ends.
// A command still running when the program exits is killed before Run
// returns.
func Run(opts Options) error {
	return run(opts, tea.WithAltScreen(), tea.WithMouseCellMotion())
}

func run(opts Options, programOpts ...tea.ProgramOption) error {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	opts.Context = runCtx

	m := New(opts)
	p := tea.NewProgram(m, append(programOpts, tea.WithContext(ctx))...)
	_, err := p.Run()

	cancel()
	m.inflight.closeAndWait()

	if err != nil && errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
