// Package nav tracks where the user is inside the menu tree.
package nav

import (
	"errors"

	"github.com/five82/pimenu/internal/menu"
)

// ErrEmptyGroup is returned by Descend when the group has no items. The frame is
// still pushed so the user sees a frame with only Back.
var ErrEmptyGroup = errors.New("group has no items")

// Frame is one level of navigation: the siblings shown and the breadcrumb that
// leads to them.
type Frame struct {
	Items []*menu.Node
	Path  []string
}

// Entry is one rendered slot of a frame. Back entries carry no node.
type Entry struct {
	Back bool
	Node *menu.Node
}

// Entries returns the rendered list for the frame: the items, prefixed with a
// Back entry unless the frame is the root.
func (f Frame) Entries(atRoot bool) []Entry {
	entries := make([]Entry, 0, len(f.Items)+1)
	if !atRoot {
		entries = append(entries, Entry{Back: true})
	}
	for _, item := range f.Items {
		entries = append(entries, Entry{Node: item})
	}
	return entries
}

// Stack is the ordered list of frames; the last frame is the visible one.
// The zero value has no frames; call Reset before use.
type Stack struct {
	frames []Frame
}

// Reset drops every frame and pushes a single root frame.
func (s *Stack) Reset(rootItems []*menu.Node) {
	s.frames = append(s.frames[:0], newFrame(rootItems, nil))
}

// Descend pushes a frame bound to items and path.
func (s *Stack) Descend(items []*menu.Node, path []string) error {
	s.frames = append(s.frames, newFrame(items, path))
	if len(items) == 0 {
		return ErrEmptyGroup
	}
	return nil
}

// Ascend pops the visible frame. It returns false without changing anything when
// the stack is already at the root frame.
func (s *Stack) Ascend() bool {
	if len(s.frames) <= 1 {
		return false
	}
	s.frames[len(s.frames)-1] = Frame{}
	s.frames = s.frames[:len(s.frames)-1]
	return true
}

// Current returns a copy of the visible frame.
func (s *Stack) Current() Frame {
	if len(s.frames) == 0 {
		return Frame{}
	}
	top := s.frames[len(s.frames)-1]
	return newFrame(top.Items, top.Path)
}

// Depth is the number of frames; 1 means root.
func (s *Stack) Depth() int {
	return len(s.frames)
}

// AtRoot reports whether only the root frame remains.
func (s *Stack) AtRoot() bool {
	return len(s.frames) <= 1
}

// Entries returns the rendered list of the visible frame.
func (s *Stack) Entries() []Entry {
	return s.Current().Entries(s.AtRoot())
}

func newFrame(items []*menu.Node, path []string) Frame {
	f := Frame{
		Items: make([]*menu.Node, len(items)),
		Path:  make([]string, len(path)),
	}
	copy(f.Items, items)
	copy(f.Path, path)
	return f
}
