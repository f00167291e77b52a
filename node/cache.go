package node

import "reflect"

type lookup struct {
	value any
	found bool
}

// Cache memoises typed lookups around one node. Results, including misses,
// are kept for the lifetime of the cache; the hierarchy is assumed not to
// change underneath it.
type Cache struct {
	node       Node
	components map[reflect.Type]lookup
	parents    map[reflect.Type]lookup
	children   map[reflect.Type]lookup
}

func NewCache(n Node) *Cache {
	return &Cache{node: n}
}

func (c *Cache) Node() Node {
	if c == nil {
		return nil
	}
	return c.node
}

// Len reports the number of memoised lookups across all three caches.
func (c *Cache) Len() int {
	return len(c.components) + len(c.parents) + len(c.children)
}

func memo[T any](m *map[reflect.Type]lookup, find func() (T, bool)) (T, bool) {
	key := reflect.TypeFor[T]()
	if *m == nil {
		*m = map[reflect.Type]lookup{}
	}
	if hit, ok := (*m)[key]; ok {
		if !hit.found {
			var zero T
			return zero, false
		}
		return hit.value.(T), true
	}
	t, found := find()
	(*m)[key] = lookup{value: t, found: found}
	return t, found
}

// Component returns the first component of type T on the cached node.
func Component[T any](c *Cache) (T, bool) {
	return memo(&c.components, func() (T, bool) { return Find[T](c.node) })
}

// ComponentOrAdd returns the component of type T, adding the one built by
// create when the node has none.
func ComponentOrAdd[T any](c *Cache, create func() T) T {
	if t, ok := Component[T](c); ok {
		return t
	}
	t := create()
	if c.node != nil {
		c.node.AddComponent(t)
	}
	c.components[reflect.TypeFor[T]()] = lookup{value: t, found: true}
	return t
}

// Parent returns the first T on the node or its ancestors.
func Parent[T any](c *Cache) (T, bool) {
	return memo(&c.parents, func() (T, bool) { return FindInParent[T](c.node) })
}

// Child returns the first T on the node or its descendants.
func Child[T any](c *Cache) (T, bool) {
	return memo(&c.children, func() (T, bool) { return FindInChildren[T](c.node) })
}
