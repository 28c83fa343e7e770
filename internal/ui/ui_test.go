package ui

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/pimenu/internal/engine"
	"github.com/five82/pimenu/internal/executor"
	"github.com/five82/pimenu/internal/menu"
	"github.com/five82/pimenu/internal/prefs"
	"github.com/five82/pimenu/internal/reload"
	"github.com/five82/pimenu/internal/state"
)

const testMenu = `
- name: tools
  label: Tools
  items:
    - name: ping
      label: Ping
    - name: uptime
      label: Uptime
      command: uptime
- name: power
  label: Power
  items: []
- name: reboot
  label: Reboot
  command: sudo reboot
`

type stubRunner struct {
	mu      sync.Mutex
	targets []executor.Target
	outcome executor.Outcome
}

func (s *stubRunner) Execute(_ context.Context, target executor.Target) executor.Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.targets = append(s.targets, target)
	return s.outcome
}

type fixture struct {
	model    Model
	runner   *stubRunner
	store    *state.Store
	menuPath string
	saveDir  string
}

func newFixture(t *testing.T, content string) *fixture {
	t.Helper()
	dir := t.TempDir()
	menuPath := filepath.Join(dir, "pimenu.yaml")
	if err := os.WriteFile(menuPath, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	runner := &stubRunner{outcome: executor.Outcome{Status: executor.StatusSuccess, Output: "pong\n"}}
	eng, err := engine.New(engine.Options{
		Load:   func() (*menu.Tree, time.Time, error) { return menu.Load(menuPath) },
		Policy: reload.NewPolicy(menuPath),
		Runner: runner,
	})
	if err != nil {
		t.Fatalf("engine.New: %v", err)
	}
	store := &state.Store{}
	saveDir := t.TempDir()
	m := New(Options{
		Engine:    eng,
		Store:     store,
		SaveDir:   saveDir,
		PrefsPath: filepath.Join(dir, "prefs.toml"),
	})
	f := &fixture{model: m, runner: runner, store: store, menuPath: menuPath, saveDir: saveDir}
	f.send(t, tea.WindowSizeMsg{Width: 120, Height: 40})
	return f
}

// send feeds msg to the model and returns the command it produced.
func (f *fixture) send(t *testing.T, msg tea.Msg) tea.Cmd {
	t.Helper()
	next, cmd := f.model.Update(msg)
	model, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want ui.Model", next)
	}
	f.model = model
	return cmd
}

func (f *fixture) tap(t *testing.T, x, y int) tea.Cmd {
	t.Helper()
	return f.send(t, tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// drain runs cmd and any batched commands, returning the messages produced.
func drain(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, drain(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func findMsg[T tea.Msg](t *testing.T, msgs []tea.Msg) T {
	t.Helper()
	for _, msg := range msgs {
		if v, ok := msg.(T); ok {
			return v
		}
	}
	var zero T
	t.Fatalf("no %T among %d messages", zero, len(msgs))
	return zero
}

func captions(items []engine.Selectable) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Caption()
	}
	return out
}

func TestGridShape(t *testing.T) {
	tests := []struct {
		n, rows, cols int
	}{
		{0, 0, 0},
		{1, 1, 1},
		{2, 1, 2},
		{3, 1, 3},
		{4, 2, 2},
		{5, 2, 3},
		{7, 2, 4},
		{9, 3, 3},
		{10, 3, 4},
	}
	for _, tt := range tests {
		rows, cols := gridShape(tt.n)
		if rows != tt.rows || cols != tt.cols {
			t.Fatalf("gridShape(%d) = %dx%d, want %dx%d", tt.n, rows, cols, tt.rows, tt.cols)
		}
	}
}

func TestGrid_HitTesting(t *testing.T) {
	g := layoutGrid(5, 0, 1, 48, 15)

	tests := []struct {
		name string
		x, y int
		want int
	}{
		{"header row", 0, 0, -1},
		{"first cell", 0, 1, 0},
		{"second cell", 16, 1, 1},
		{"last column takes remainder", 47, 1, 2},
		{"second row", 0, 8, 3},
		{"empty trailing cell", 40, 14, -1},
		{"below grid", 0, 16, -1},
		{"right of grid", 48, 2, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := g.hit(tt.x, tt.y); got != tt.want {
				t.Fatalf("hit(%d, %d) = %d, want %d", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestGrid_MoveStaysOnButtons(t *testing.T) {
	g := layoutGrid(5, 0, 0, 30, 10) // 2x3, last row has two buttons

	if got := g.move(0, 0, -1); got != 0 {
		t.Fatalf("move left from 0 = %d, want 0", got)
	}
	if got := g.move(2, 1, 0); got != 4 {
		t.Fatalf("move down from 2 = %d, want 4 (nearest existing)", got)
	}
	if got := g.move(4, -1, 0); got != 1 {
		t.Fatalf("move up from 4 = %d, want 1", got)
	}
}

func TestModel_WindowedPanelSize(t *testing.T) {
	f := newFixture(t, testMenu)
	if f.model.panelWidth() != PanelWidth || f.model.panelHeight() != PanelHeight {
		t.Fatalf("panel = %dx%d, want %dx%d", f.model.panelWidth(), f.model.panelHeight(), PanelWidth, PanelHeight)
	}

	f.model.fullscreen = true
	if f.model.panelWidth() != 120 || f.model.panelHeight() != 40 {
		t.Fatalf("fullscreen panel = %dx%d, want 120x40", f.model.panelWidth(), f.model.panelHeight())
	}
}

func TestModel_TapGroupThenLeafRunsAndReturnsToRoot(t *testing.T) {
	f := newFixture(t, testMenu)

	// 1x3 grid in a 48 wide panel: columns start at 0, 16, 32.
	f.tap(t, 2, 5)
	if got := captions(f.model.items); strings.Join(got, ",") != "Back…,Ping,Uptime" {
		t.Fatalf("items after tapping Tools = %v", got)
	}
	if !strings.Contains(f.model.View(), "Tools") {
		t.Fatalf("header should show the breadcrumb")
	}

	cmd := f.tap(t, 20, 5)
	if f.model.mode != modeExecuting {
		t.Fatalf("mode = %v, want executing", f.model.mode)
	}
	if f.model.running.Kind != executor.KindBreadcrumb || strings.Join(f.model.running.Path, " ") != "tools ping" {
		t.Fatalf("running = %#v, want breadcrumb tools ping", f.model.running)
	}

	// Input other than ctrl+c is dropped while running.
	f.send(t, tea.KeyMsg{Type: tea.KeyEsc})
	f.tap(t, 2, 5)
	if f.model.mode != modeExecuting {
		t.Fatalf("mode changed while executing")
	}

	done := findMsg[execDoneMsg](t, drain(cmd))
	f.send(t, done)

	if f.model.mode != modeOutput {
		t.Fatalf("mode = %v, want output", f.model.mode)
	}
	if !strings.Contains(f.model.output.View(), "pong") {
		t.Fatalf("output view = %q, want pong", f.model.output.View())
	}
	if got := captions(f.model.items); strings.Join(got, ",") != "Tools…,Power…,Reboot" {
		t.Fatalf("items after execution = %v, want root", got)
	}
	if len(f.runner.targets) != 1 {
		t.Fatalf("runner called %d times, want 1", len(f.runner.targets))
	}

	f.send(t, tea.KeyMsg{Type: tea.KeyEsc})
	if f.model.mode != modeMenu {
		t.Fatalf("mode after close = %v, want menu", f.model.mode)
	}
}

func TestModel_CtrlCQuitsWhileExecuting(t *testing.T) {
	f := newFixture(t, testMenu)
	f.send(t, keyRunes("3"))
	if f.model.mode != modeExecuting {
		t.Fatalf("mode = %v, want executing", f.model.mode)
	}
	cmd := f.send(t, tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatalf("ctrl+c returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("ctrl+c did not quit")
	}
}

func TestModel_EmptyGroupShowsNoticeAndBack(t *testing.T) {
	f := newFixture(t, testMenu)
	f.send(t, keyRunes("2"))

	if got := captions(f.model.items); len(got) != 1 || got[0] != "Back…" {
		t.Fatalf("items = %v, want only Back…", got)
	}
	if !strings.Contains(f.model.notice, "Power") {
		t.Fatalf("notice = %q, want it to name the group", f.model.notice)
	}

	f.send(t, tea.KeyMsg{Type: tea.KeyEnter})
	if len(f.model.items) != 3 {
		t.Fatalf("Back did not return to root: %v", captions(f.model.items))
	}
}

func TestModel_BackAtRootReloadsChangedMenu(t *testing.T) {
	f := newFixture(t, testMenu)
	f.store.MarkChanged(time.Now())
	f.send(t, fetchSnapshotCmd(f.store)())
	if !f.model.snapshot.Stale() {
		t.Fatalf("snapshot should be stale")
	}

	if err := os.WriteFile(f.menuPath, []byte("- name: a\n  label: Alpha\n  command: true\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	future := time.Now().Add(time.Hour)
	if err := os.Chtimes(f.menuPath, future, future); err != nil {
		t.Fatalf("Chtimes: %v", err)
	}

	f.send(t, tea.KeyMsg{Type: tea.KeyEsc})
	if got := captions(f.model.items); len(got) != 1 || got[0] != "Alpha" {
		t.Fatalf("items after reload = %v, want [Alpha]", got)
	}
	if f.store.Snapshot().Stale() {
		t.Fatalf("reload should acknowledge the change")
	}
}

func TestModel_BrokenReloadKeepsMenuAndShowsError(t *testing.T) {
	f := newFixture(t, testMenu)
	if err := os.WriteFile(f.menuPath, []byte("- name: [oops"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	f.send(t, keyRunes("R"))
	if !f.model.noticeBad || !strings.Contains(f.model.notice, "reload menu") {
		t.Fatalf("notice = %q (bad=%v), want reload error", f.model.notice, f.model.noticeBad)
	}
	if len(f.model.items) != 3 {
		t.Fatalf("items = %v, want previous menu", captions(f.model.items))
	}
}

func TestModel_OutputSaveAndCopy(t *testing.T) {
	f := newFixture(t, testMenu)
	var copied string
	f.model.copyText = func(s string) error {
		copied = s
		return nil
	}
	f.model.now = func() time.Time { return time.Date(2025, 1, 2, 3, 4, 5, 0, time.Local) }

	cmd := f.send(t, keyRunes("3"))
	f.send(t, findMsg[execDoneMsg](t, drain(cmd)))

	saved := findMsg[savedMsg](t, drain(f.send(t, keyRunes("s"))))
	if saved.err != nil {
		t.Fatalf("save failed: %v", saved.err)
	}
	if want := filepath.Join(f.saveDir, "sudo_2025-01-02_03-04-05.txt"); saved.path != want {
		t.Fatalf("saved to %q, want %q", saved.path, want)
	}
	data, err := os.ReadFile(saved.path)
	if err != nil || string(data) != "pong\n" {
		t.Fatalf("saved content = %q, %v; want pong", data, err)
	}
	f.send(t, saved)
	if !strings.HasPrefix(f.model.notice, "Saved to ") {
		t.Fatalf("notice = %q, want saved notice", f.model.notice)
	}

	f.send(t, findMsg[copiedMsg](t, drain(f.send(t, keyRunes("c")))))
	if copied != "pong\n" {
		t.Fatalf("copied %q, want pong", copied)
	}
	if f.model.notice != "Output copied" {
		t.Fatalf("notice = %q, want Output copied", f.model.notice)
	}
}

func TestModel_OutputButtonsRespondToTaps(t *testing.T) {
	f := newFixture(t, testMenu)
	f.model.copyText = func(string) error { return errors.New("no clipboard") }

	cmd := f.send(t, keyRunes("3"))
	f.send(t, findMsg[execDoneMsg](t, drain(cmd)))

	buttonsY := headerHeight + f.model.output.Height
	f.send(t, findMsg[copiedMsg](t, drain(f.tap(t, 20, buttonsY))))
	if !f.model.noticeBad || !strings.Contains(f.model.notice, "no clipboard") {
		t.Fatalf("notice = %q, want copy failure", f.model.notice)
	}

	f.tap(t, 40, buttonsY+1)
	if f.model.mode != modeMenu {
		t.Fatalf("Close tap left mode %v", f.model.mode)
	}
}

func TestModel_CycleThemePersistsPreference(t *testing.T) {
	f := newFixture(t, testMenu)
	before := f.model.theme.Name

	f.send(t, keyRunes("T"))
	if f.model.theme.Name == before {
		t.Fatalf("theme did not change from %q", before)
	}
	if got := prefs.Load(f.model.prefsPath).Theme; got != f.model.theme.Name {
		t.Fatalf("saved theme = %q, want %q", got, f.model.theme.Name)
	}
}

func TestModel_HelpOverlayClosesOnAnyKey(t *testing.T) {
	f := newFixture(t, testMenu)
	f.send(t, keyRunes("?"))
	if !f.model.showHelp || !strings.Contains(f.model.View(), "Reload menu") {
		t.Fatalf("help overlay not shown")
	}
	f.send(t, keyRunes("x"))
	if f.model.showHelp {
		t.Fatalf("help overlay still shown")
	}
}

func TestNextTheme(t *testing.T) {
	if got := NextTheme("Nightfox"); got != "Kanagawa" {
		t.Fatalf("NextTheme(Nightfox) = %q, want Kanagawa", got)
	}
	if got := NextTheme("Slate"); got != "Nightfox" {
		t.Fatalf("NextTheme(Slate) = %q, want Nightfox", got)
	}
	if got := NextTheme("Unknown"); got != "Nightfox" {
		t.Fatalf("NextTheme(Unknown) = %q, want Nightfox", got)
	}
	if GetTheme("Unknown").Name != prefs.DefaultTheme {
		t.Fatalf("unknown theme should fall back to %q", prefs.DefaultTheme)
	}
}

func TestButtonColor(t *testing.T) {
	p := classicButtons
	tests := []struct {
		item engine.Selectable
		want string
	}{
		{engine.Selectable{Kind: engine.KindBack}, p.Back},
		{engine.Selectable{Kind: engine.KindGroup}, p.Group},
		{engine.Selectable{Kind: engine.KindLeaf}, p.Leaf},
		{engine.Selectable{Kind: engine.KindLeaf, Color: "#123456"}, "#123456"},
	}
	for _, tt := range tests {
		if got := buttonColor(tt.item, p); got != tt.want {
			t.Fatalf("buttonColor(%+v) = %q, want %q", tt.item, got, tt.want)
		}
	}
}

func TestOutcomeText(t *testing.T) {
	tests := []struct {
		name string
		in   executor.Outcome
		want string
	}{
		{"output", executor.Outcome{Status: executor.StatusSuccess, Output: "hi\n"}, "hi\n"},
		{"empty", executor.Outcome{Status: executor.StatusSuccess}, "(no output)"},
		{"exit code", executor.Outcome{Status: executor.StatusSuccess, Output: "x\n", ExitCode: 2}, "x\n\n[exit status 2]"},
		{"timeout", executor.Outcome{Status: executor.StatusTimedOut, Message: executor.TimeoutMessage}, executor.TimeoutMessage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := outcomeText(tt.in); got != tt.want {
				t.Fatalf("outcomeText = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestThemeNames_Resolve(t *testing.T) {
	for _, name := range ThemeNames() {
		if got := GetTheme(name).Name; got != name {
			t.Fatalf("GetTheme(%q).Name = %q", name, got)
		}
	}
}

func TestModel_TapHeaderAtRootReloadsChangedMenu(t *testing.T) {
	f := newFixture(t, testMenu)
	f.store.MarkChanged(time.Now())
	f.send(t, fetchSnapshotCmd(f.store)())
	if !strings.Contains(f.model.View(), "tap to reload") {
		t.Fatalf("header should offer the reload")
	}

	if err := os.WriteFile(f.menuPath, []byte("- name: a\n  label: Alpha\n  command: true\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	future := time.Now().Add(time.Hour)
	if err := os.Chtimes(f.menuPath, future, future); err != nil {
		t.Fatalf("Chtimes: %v", err)
	}

	f.tap(t, 40, 0)
	if got := captions(f.model.items); len(got) != 1 || got[0] != "Alpha" {
		t.Fatalf("items after header tap = %v, want [Alpha]", got)
	}
	if f.store.Snapshot().Stale() {
		t.Fatalf("reload should acknowledge the change")
	}
}

func TestModel_TapHeaderBelowRootDoesNothing(t *testing.T) {
	f := newFixture(t, testMenu)
	f.send(t, keyRunes("1"))
	f.tap(t, 40, 0)
	if got := captions(f.model.items); strings.Join(got, ",") != "Back…,Ping,Uptime" {
		t.Fatalf("items after header tap = %v, want Tools frame", got)
	}
}

func TestModel_PingCommandShowsStatistics(t *testing.T) {
	pingPath, err := exec.LookPath("ping")
	if err != nil {
		t.Skip("ping not installed")
	}
	if err := exec.Command(pingPath, "-c1", "localhost").Run(); err != nil {
		t.Skipf("ping localhost unavailable: %v", err)
	}

	dir := t.TempDir()
	menuPath := filepath.Join(dir, "pimenu.yaml")
	content := "- name: net\n  label: Network\n  items:\n    - name: ping\n      label: Ping\n      command: ping -c1 localhost\n"
	if err := os.WriteFile(menuPath, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	eng, err := engine.New(engine.Options{
		Load:   func() (*menu.Tree, time.Time, error) { return menu.Load(menuPath) },
		Runner: executor.New(executor.Options{}),
	})
	if err != nil {
		t.Fatalf("engine.New: %v", err)
	}
	f := &fixture{model: New(Options{Engine: eng})}
	f.send(t, tea.WindowSizeMsg{Width: 120, Height: 40})

	f.send(t, keyRunes("1"))
	cmd := f.send(t, keyRunes("2"))
	if f.model.mode != modeExecuting {
		t.Fatalf("mode = %v, want executing", f.model.mode)
	}
	f.send(t, findMsg[execDoneMsg](t, drain(cmd)))

	if eng.Depth() != 1 {
		t.Fatalf("depth = %d, want 1", eng.Depth())
	}
	if f.model.mode != modeOutput {
		t.Fatalf("mode = %v, want output", f.model.mode)
	}
	if got := f.model.title(); got != "ping -c1 localhost" {
		t.Fatalf("title = %q, want the command", got)
	}
	if view := f.model.output.View(); !strings.Contains(view, "packets transmitted") {
		t.Fatalf("output view = %q, want ping statistics", view)
	}
}
