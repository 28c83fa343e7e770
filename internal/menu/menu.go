package menu

import (
	"fmt"
	"strings"
)

// Kind classifies how a node reacts to selection.
type Kind int

const (
	// KindGroup opens a nested frame with the node's children.
	KindGroup Kind = iota
	// KindCommand runs the node's raw command through a shell.
	KindCommand
	// KindScript runs the default script with the node's breadcrumb as arguments.
	KindScript
)

func (k Kind) String() string {
	switch k {
	case KindGroup:
		return "group"
	case KindCommand:
		return "command"
	case KindScript:
		return "script"
	default:
		return "unknown"
	}
}

// Item is one entry of the menu file as written by the user.
type Item struct {
	Name    string  `yaml:"name"`
	Label   string  `yaml:"label"`
	Icon    string  `yaml:"icon,omitempty"`
	Color   string  `yaml:"color,omitempty"`
	Command string  `yaml:"command,omitempty"`
	Items   *[]Item `yaml:"items,omitempty"`
}

// Node is a validated entry of the menu tree.
type Node struct {
	Name     string
	Label    string
	Icon     string
	Color    string
	Command  string
	Children []*Node
	// Actions is the breadcrumb of ancestor names plus the node's own name.
	Actions []string

	group bool
}

// Kind reports whether the node is a group or which kind of leaf it is.
func (n *Node) Kind() Kind {
	switch {
	case n.group:
		return KindGroup
	case n.Command != "":
		return KindCommand
	default:
		return KindScript
	}
}

// IsGroup reports whether selecting the node descends into its children.
func (n *Node) IsGroup() bool {
	return n.group
}

// Tree is the immutable result of one menu load.
type Tree struct {
	Root *Node
	// Warnings lists non-fatal problems found while building, such as empty groups.
	Warnings []string
}

// Items returns the top-level entries.
func (t *Tree) Items() []*Node {
	if t == nil || t.Root == nil {
		return nil
	}
	return t.Root.Children
}

// Find walks the tree along a breadcrumb of names and returns the node at its end.
func (t *Tree) Find(path []string) (*Node, bool) {
	if t == nil || t.Root == nil {
		return nil, false
	}
	node := t.Root
	for _, name := range path {
		var next *Node
		for _, child := range node.Children {
			if child.Name == name {
				next = child
				break
			}
		}
		if next == nil {
			return nil, false
		}
		node = next
	}
	return node, true
}

// ConfigError reports an invalid menu entry.
type ConfigError struct {
	Path   []string
	Index  int
	Reason string
}

func (e *ConfigError) Error() string {
	where := fmt.Sprintf("item #%d", e.Index+1)
	if len(e.Path) > 0 {
		where = fmt.Sprintf("%s under %q", where, strings.Join(e.Path, "/"))
	}
	return fmt.Sprintf("menu %s: %s", where, e.Reason)
}

// Build validates the configured items and assembles a tree under a synthetic root.
// It does not touch shared state.
func Build(items []Item) (*Tree, error) {
	tree := &Tree{Root: &Node{group: true}}
	children, err := buildLevel(items, nil, tree)
	if err != nil {
		return nil, err
	}
	tree.Root.Children = children
	if len(children) == 0 {
		tree.Warnings = append(tree.Warnings, "menu has no items")
	}
	return tree, nil
}

func buildLevel(items []Item, parent []string, tree *Tree) ([]*Node, error) {
	nodes := make([]*Node, 0, len(items))
	for i, item := range items {
		name := strings.TrimSpace(item.Name)
		if name == "" {
			return nil, &ConfigError{Path: parent, Index: i, Reason: "name is required"}
		}
		if strings.TrimSpace(item.Label) == "" {
			return nil, &ConfigError{Path: parent, Index: i, Reason: fmt.Sprintf("item %q: label is required", name)}
		}
		command := strings.TrimSpace(item.Command)
		if item.Items != nil && command != "" {
			return nil, &ConfigError{Path: parent, Index: i, Reason: fmt.Sprintf("item %q: items and command are mutually exclusive", name)}
		}

		actions := make([]string, len(parent)+1)
		copy(actions, parent)
		actions[len(parent)] = name

		node := &Node{
			Name:    name,
			Label:   item.Label,
			Icon:    strings.TrimSpace(item.Icon),
			Color:   strings.TrimSpace(item.Color),
			Command: command,
			Actions: actions,
		}
		if item.Items != nil {
			node.group = true
			if len(*item.Items) == 0 {
				tree.Warnings = append(tree.Warnings, fmt.Sprintf("group %q has no items", strings.Join(actions, "/")))
			}
			children, err := buildLevel(*item.Items, actions, tree)
			if err != nil {
				return nil, err
			}
			node.Children = children
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}
