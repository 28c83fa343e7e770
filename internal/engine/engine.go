package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/five82/pimenu/internal/executor"
	"github.com/five82/pimenu/internal/icons"
	"github.com/five82/pimenu/internal/menu"
	"github.com/five82/pimenu/internal/nav"
)

// BackIcon is the icon of the synthetic Back entry.
const BackIcon = "arrow.left"

// ErrUnknownItem is returned by Select for an id that is not on screen.
var ErrUnknownItem = errors.New("no such item")

// Loader reads the menu and reports the file's modification time.
type Loader func() (*menu.Tree, time.Time, error)

// ChangeDetector reports whether the menu file changed since lastKnown.
type ChangeDetector interface {
	HasChanged(lastKnown time.Time) bool
}

// IconSource resolves icon names. *icons.Resolver implements it.
type IconSource interface {
	Resolve(name string) icons.Handle
}

// Runner executes a target. *executor.Executor implements it.
type Runner interface {
	Execute(ctx context.Context, target executor.Target) executor.Outcome
}

// Options wire the engine's collaborators.
type Options struct {
	Load   Loader
	Policy ChangeDetector
	Icons  IconSource
	Runner Runner
	Logger *slog.Logger
}

// Engine owns the menu tree and the navigation stack. Its methods must be
// called from a single goroutine (the UI loop); only the tree reference is
// safe to read concurrently.
type Engine struct {
	load   Loader
	policy ChangeDetector
	icons  IconSource
	runner Runner
	logger *slog.Logger

	tree     atomic.Pointer[menu.Tree]
	loadedAt time.Time
	stack    nav.Stack
	last     *Run
}

// Run records a finished execution.
type Run struct {
	Target     executor.Target
	Outcome    executor.Outcome
	FinishedAt time.Time
}

// New loads the menu and positions the stack at the root. A load failure is
// returned unchanged so the caller can treat it as fatal.
func New(opts Options) (*Engine, error) {
	if opts.Load == nil {
		return nil, errors.New("engine requires a menu loader")
	}
	if opts.Runner == nil {
		return nil, errors.New("engine requires a runner")
	}
	e := &Engine{
		load:   opts.Load,
		policy: opts.Policy,
		icons:  opts.Icons,
		runner: opts.Runner,
		logger: opts.Logger,
	}
	if e.logger == nil {
		e.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if e.icons == nil {
		e.icons = icons.NewResolver("", e.logger)
	}

	tree, mtime, err := e.load()
	if err != nil {
		return nil, err
	}
	e.install(tree, mtime)
	return e, nil
}

func (e *Engine) install(tree *menu.Tree, mtime time.Time) {
	e.tree.Store(tree)
	e.loadedAt = mtime
	e.stack.Reset(tree.Items())
	for _, w := range tree.Warnings {
		e.logger.Warn("menu warning", "warning", w)
	}
	e.logger.Info("menu loaded", "items", len(tree.Items()), "mtime", mtime)
}

// Tree returns the active menu tree.
func (e *Engine) Tree() *menu.Tree {
	return e.tree.Load()
}

// LoadedAt is the modification time recorded when the active tree was loaded.
func (e *Engine) LoadedAt() time.Time {
	return e.loadedAt
}

// Warnings returns non-fatal problems of the active tree.
func (e *Engine) Warnings() []string {
	return e.Tree().Warnings
}

// Depth is the number of frames on the stack; 1 is the root.
func (e *Engine) Depth() int {
	return e.stack.Depth()
}

// Path is the breadcrumb of the visible frame.
func (e *Engine) Path() []string {
	return e.stack.Current().Path
}

// Labels maps the visible breadcrumb to item labels for display.
func (e *Engine) Labels() []string {
	path := e.Path()
	labels := make([]string, 0, len(path))
	for i := range path {
		if node, ok := e.Tree().Find(path[:i+1]); ok {
			labels = append(labels, node.Label)
			continue
		}
		labels = append(labels, path[i])
	}
	return labels
}

// Last returns the most recent execution, if any.
func (e *Engine) Last() (Run, bool) {
	if e.last == nil {
		return Run{}, false
	}
	return *e.last, true
}

// Items returns the visible frame as selectable entries. IDs are positions in
// the returned slice and stay valid until the next navigation.
func (e *Engine) Items() []Selectable {
	entries := e.stack.Entries()
	items := make([]Selectable, 0, len(entries))
	for i, entry := range entries {
		if entry.Back {
			items = append(items, Selectable{
				ID:    i,
				Kind:  KindBack,
				Label: "Back",
				Icon:  e.icons.Resolve(BackIcon),
			})
			continue
		}
		node := entry.Node
		iconName := node.Icon
		if iconName == "" {
			iconName = icons.DefaultName(node.Label)
		}
		kind := KindLeaf
		if node.IsGroup() {
			kind = KindGroup
		}
		items = append(items, Selectable{
			ID:    i,
			Kind:  kind,
			Label: node.Label,
			Icon:  e.icons.Resolve(iconName),
			Color: node.Color,
			Node:  node,
		})
	}
	return items
}

// Select resolves the entry with the given id and acts on it. Groups and Back are
// handled here; leaves come back as ActionExecute for the caller to run.
func (e *Engine) Select(id int) (Action, error) {
	entries := e.stack.Entries()
	if id < 0 || id >= len(entries) {
		return Action{}, fmt.Errorf("select %d: %w", id, ErrUnknownItem)
	}
	entry := entries[id]
	if entry.Back {
		return e.Back()
	}

	node := entry.Node
	if node.IsGroup() {
		err := e.stack.Descend(node.Children, node.Actions)
		if errors.Is(err, nav.ErrEmptyGroup) {
			notice := fmt.Sprintf("%s has no items", node.Label)
			e.logger.Warn("empty group", "path", strings.Join(node.Actions, "/"))
			return Action{Kind: ActionDescend, Notice: notice}, nil
		}
		return Action{Kind: ActionDescend}, err
	}

	return Action{Kind: ActionExecute, Target: TargetFor(node)}, nil
}

// TargetFor returns what running a leaf means.
func TargetFor(node *menu.Node) executor.Target {
	if node.Kind() == menu.KindCommand {
		return executor.Raw(node.Command)
	}
	return executor.Breadcrumb(node.Actions)
}

// Back pops one frame. At the root it checks the menu file instead and reloads
// it when it changed; an unchanged file makes Back a no-op there.
func (e *Engine) Back() (Action, error) {
	if e.stack.Ascend() {
		return Action{Kind: ActionAscend}, nil
	}
	if e.policy == nil || !e.policy.HasChanged(e.loadedAt) {
		return Action{Kind: ActionNone}, nil
	}
	if err := e.Reload(); err != nil {
		return Action{Kind: ActionNone, Notice: err.Error()}, err
	}
	return Action{Kind: ActionReload, Notice: "Menu reloaded"}, nil
}

// Reload rebuilds the tree. On success the tree is swapped and the stack reset;
// on failure the current tree stays active and the error is returned.
func (e *Engine) Reload() error {
	tree, mtime, err := e.load()
	if err != nil {
		e.logger.Error("menu reload failed, keeping previous menu", "error", err)
		return fmt.Errorf("reload menu: %w", err)
	}
	e.install(tree, mtime)
	return nil
}

// Execute runs target through the runner. It touches no engine state and may be
// called from a worker goroutine; pass the result to Complete on the UI goroutine.
func (e *Engine) Execute(ctx context.Context, target executor.Target) executor.Outcome {
	return e.runner.Execute(ctx, target)
}

// Complete records a finished execution and returns to the root frame,
// whatever the outcome.
func (e *Engine) Complete(target executor.Target, outcome executor.Outcome) {
	e.stack.Reset(e.Tree().Items())
	e.last = &Run{Target: target, Outcome: outcome, FinishedAt: time.Now()}
	e.logger.Info("execution complete", "target", target.Text(), "status", outcome.Status.String(), "duration", outcome.Duration)
}
