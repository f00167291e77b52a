package node

import (
	"slices"

	"github.com/google/uuid"
)

// Entity is an in-memory Node that also drives Lifecycle callbacks on its
// components.
type Entity struct {
	id         string
	name       string
	parent     *Entity
	children   []*Entity
	components []any
	active     bool
	enabled    map[any]bool
	destroyed  bool
}

func New(name string) *Entity {
	return &Entity{
		id:      uuid.NewString(),
		name:    name,
		active:  true,
		enabled: map[any]bool{},
	}
}

func (e *Entity) ID() string   { return e.id }
func (e *Entity) Name() string { return e.name }

func (e *Entity) Parent() Node {
	if e.parent == nil {
		return nil
	}
	return e.parent
}

func (e *Entity) Children() []Node {
	out := make([]Node, len(e.children))
	for i, c := range e.children {
		out[i] = c
	}
	return out
}

func (e *Entity) Components() []any {
	return slices.Clone(e.components)
}

// ActiveInHierarchy is true when the entity and all its ancestors are active.
func (e *Entity) ActiveInHierarchy() bool {
	for cur := e; cur != nil; cur = cur.parent {
		if !cur.active {
			return false
		}
	}
	return true
}

func (e *Entity) Destroyed() bool { return e.destroyed }

// AddComponent attaches c, calls Construct and, when the entity is active in
// the hierarchy, Enable. Components must be comparable.
func (e *Entity) AddComponent(c any) {
	if e.destroyed || c == nil {
		return
	}
	e.components = append(e.components, c)
	if l, ok := c.(Lifecycle); ok {
		l.Construct()
		if e.ActiveInHierarchy() {
			e.enable(c)
		}
	}
}

// AddChild re-parents child under e.
func (e *Entity) AddChild(child *Entity) {
	child.SetParent(e)
}

// SetParent moves e under parent, or to the root when parent is nil.
// Components are enabled or disabled to follow the new hierarchy.
func (e *Entity) SetParent(parent *Entity) {
	if e.destroyed || e.parent == parent {
		return
	}
	wasActive := e.ActiveInHierarchy()
	if e.parent != nil {
		e.parent.children = slices.DeleteFunc(e.parent.children, func(c *Entity) bool { return c == e })
	}
	e.parent = parent
	if parent != nil {
		parent.children = append(parent.children, e)
	}
	if now := e.ActiveInHierarchy(); now != wasActive {
		e.propagate(now)
	}
}

// SetActive toggles the entity, enabling or disabling components of the
// entity and its descendants whose effective state changed.
func (e *Entity) SetActive(active bool) {
	if e.destroyed || e.active == active {
		return
	}
	wasActive := e.ActiveInHierarchy()
	e.active = active
	if now := e.ActiveInHierarchy(); now != wasActive {
		e.propagate(now)
	}
}

func (e *Entity) propagate(active bool) {
	if !e.active && active {
		return
	}
	for _, c := range e.components {
		if active {
			e.enable(c)
		} else {
			e.disable(c)
		}
	}
	for _, child := range e.children {
		child.propagate(active)
	}
}

func (e *Entity) enable(c any) {
	l, ok := c.(Lifecycle)
	if !ok || e.enabled[c] {
		return
	}
	e.enabled[c] = true
	l.Enable()
}

func (e *Entity) disable(c any) {
	l, ok := c.(Lifecycle)
	if !ok || !e.enabled[c] {
		return
	}
	delete(e.enabled, c)
	l.Disable()
}

// Destroy tears down children first, then disables and destroys every
// component of e, and detaches e from its parent. It runs at most once.
func (e *Entity) Destroy() {
	if e.destroyed {
		return
	}
	for _, child := range slices.Clone(e.children) {
		child.Destroy()
	}
	for _, c := range e.components {
		e.disable(c)
		if l, ok := c.(Lifecycle); ok {
			l.Destroy()
		}
	}
	e.destroyed = true
	if e.parent != nil {
		e.parent.children = slices.DeleteFunc(e.parent.children, func(c *Entity) bool { return c == e })
		e.parent = nil
	}
	e.components = nil
}
