package observable

import "reflect"

// Command is a parameterless multicast signal.
type Command struct {
	listeners listeners[func()]
}

func NewCommand() *Command {
	return &Command{}
}

func (c *Command) Emit() {
	for _, e := range c.listeners.snapshot() {
		guard("command", e.key, e.fn)
	}
}

// AddListener registers fn under a fresh key. Unlike Data there is nothing
// to replay, so fn is not called.
func (c *Command) AddListener(fn func()) Key {
	if fn == nil {
		return 0
	}
	key := NextKey()
	c.listeners.put(key, fn)
	return key
}

func (c *Command) AddListenerKey(key Key, fn func()) {
	if fn == nil {
		return
	}
	c.listeners.put(key, fn)
}

func (c *Command) RemoveListener(key Key) {
	c.listeners.delete(key)
}

func (c *Command) HasListener(key Key) bool {
	return c.listeners.has(key)
}

func (c *Command) ListenerCount() int {
	return c.listeners.len()
}

func (c *Command) Kind() Kind {
	return KindCommand
}

// PayloadType is nil for a parameterless command.
func (c *Command) PayloadType() reflect.Type {
	return nil
}

func (c *Command) AddReflectListener(key Key, fn func(reflect.Value)) {
	if fn == nil {
		return
	}
	c.AddListenerKey(key, func() { fn(reflect.Value{}) })
}

// Command1 is a multicast signal carrying a payload of type T.
type Command1[T any] struct {
	listeners listeners[func(T)]
}

func NewCommand1[T any]() *Command1[T] {
	return &Command1[T]{}
}

func (c *Command1[T]) Emit(payload T) {
	for _, e := range c.listeners.snapshot() {
		fn := e.fn
		guard("command", e.key, func() { fn(payload) })
	}
}

func (c *Command1[T]) AddListener(fn func(T)) Key {
	if fn == nil {
		return 0
	}
	key := NextKey()
	c.listeners.put(key, fn)
	return key
}

func (c *Command1[T]) AddListenerKey(key Key, fn func(T)) {
	if fn == nil {
		return
	}
	c.listeners.put(key, fn)
}

func (c *Command1[T]) RemoveListener(key Key) {
	c.listeners.delete(key)
}

func (c *Command1[T]) HasListener(key Key) bool {
	return c.listeners.has(key)
}

func (c *Command1[T]) ListenerCount() int {
	return c.listeners.len()
}

func (c *Command1[T]) Kind() Kind {
	return KindCommand
}

func (c *Command1[T]) PayloadType() reflect.Type {
	return reflect.TypeFor[T]()
}

func (c *Command1[T]) AddReflectListener(key Key, fn func(reflect.Value)) {
	if fn == nil {
		return
	}
	c.AddListenerKey(key, func(v T) {
		fn(reflect.ValueOf(&v).Elem())
	})
}
