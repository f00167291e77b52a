// Package node describes the host that bindings and models live on: a tree
// of nodes, each owning zero or more components, plus the lifecycle callbacks
// the host delivers to those components.
//
// Entity is a small in-memory host used by tests and tools. Real hosts only
// need to satisfy Node and call Lifecycle methods in the documented order:
// Construct, then any number of Enable/Disable pairs, then Destroy.
package node

// Node owns components and sits in a parent/child hierarchy.
type Node interface {
	ID() string
	Name() string
	Components() []any
	AddComponent(c any)
	Parent() Node
	Children() []Node
}

// Lifecycle is implemented by components that want host callbacks.
type Lifecycle interface {
	Construct()
	Enable()
	Disable()
	Destroy()
}

// Find returns the first component of type T on n.
func Find[T any](n Node) (T, bool) {
	var zero T
	if n == nil {
		return zero, false
	}
	for _, c := range n.Components() {
		if t, ok := c.(T); ok {
			return t, true
		}
	}
	return zero, false
}

// FindInParent searches n and then its ancestors.
func FindInParent[T any](n Node) (T, bool) {
	for cur := n; cur != nil; cur = cur.Parent() {
		if t, ok := Find[T](cur); ok {
			return t, true
		}
	}
	var zero T
	return zero, false
}

// FindInChildren searches n and then its descendants depth first, pre-order.
func FindInChildren[T any](n Node) (T, bool) {
	if t, ok := Find[T](n); ok {
		return t, true
	}
	if n != nil {
		for _, child := range n.Children() {
			if t, ok := FindInChildren[T](child); ok {
				return t, true
			}
		}
	}
	var zero T
	return zero, false
}
