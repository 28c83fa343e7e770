package engine

import (
	"github.com/five82/pimenu/internal/executor"
	"github.com/five82/pimenu/internal/icons"
	"github.com/five82/pimenu/internal/menu"
)

// ItemKind classifies a selectable entry.
type ItemKind int

const (
	KindBack ItemKind = iota
	KindGroup
	KindLeaf
)

// Selectable is plain data for the presentation layer: what to draw and the id
// to hand back to Select.
type Selectable struct {
	ID    int
	Kind  ItemKind
	Label string
	Icon  icons.Handle
	// Color is the configured override; empty means the kind's default.
	Color string
	Node  *menu.Node
}

// Caption is the button text. Groups and Back end in an ellipsis to show that
// they lead somewhere else.
func (s Selectable) Caption() string {
	if s.Kind == KindBack || s.Kind == KindGroup {
		return s.Label + "…"
	}
	return s.Label
}

// ActionKind says what a selection did.
type ActionKind int

const (
	// ActionNone changed nothing (Back at the root with an unchanged menu file).
	ActionNone ActionKind = iota
	ActionDescend
	ActionAscend
	ActionReload
	// ActionExecute asks the caller to run Target.
	ActionExecute
)

// Action is the result of Select or Back.
type Action struct {
	Kind   ActionKind
	Target executor.Target
	// Notice is a short non-fatal message for the user, if any.
	Notice string
}
