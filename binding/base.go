package binding

import "github.com/delaneyj/servable/node"

// Binding is implemented by every binding that reads a model through a
// reference. Tooling uses it instead of probing unknown values.
type Binding interface {
	IsValid() bool
	Model() any
}

// Base is embedded by binding types. After Bind it forwards the host
// lifecycle to the Instance, so the binding itself can be added to a node as
// a node.Lifecycle component, and it offers cached lookups around the node.
type Base struct {
	inst  *Instance
	cache *node.Cache
}

func (b *Base) bindingBase() *Base { return b }

func (b *Base) attach(i *Instance) {
	b.inst = i
	b.cache = node.NewCache(i.cfg.node)
}

// Instance is nil until Bind is called.
func (b *Base) Instance() *Instance {
	return b.inst
}

func (b *Base) Node() node.Node {
	return b.cache.Node()
}

// Cache memoises component, parent and child lookups on the binding's node.
func (b *Base) Cache() *node.Cache {
	if b.cache == nil {
		b.cache = node.NewCache(nil)
	}
	return b.cache
}

func (b *Base) Construct() {
	if b.inst != nil {
		b.inst.Construct()
	}
}

func (b *Base) Enable() {
	if b.inst != nil {
		b.inst.Enable()
	}
}

func (b *Base) Disable() {
	if b.inst != nil {
		b.inst.Disable()
	}
}

func (b *Base) Destroy() {
	if b.inst != nil {
		b.inst.Destroy()
	}
}

var _ node.Lifecycle = (*Base)(nil)
