package observable

import (
	"fmt"
	"reflect"
)

// Data is a value cell that notifies its listeners when the value changes.
// The zero value holds the zero T and compares values with reflect.DeepEqual.
type Data[T any] struct {
	value     T
	equal     func(a, b T) bool
	listeners listeners[func(T)]
}

// NewData creates a cell that compares values with ==. When T is an
// interface, or a struct or array that may hold one, values whose dynamic
// type cannot be compared with == fall back to reflect.DeepEqual.
func NewData[T comparable](value T) *Data[T] {
	return &Data[T]{
		value: value,
		equal: comparer[T](),
	}
}

func comparer[T comparable]() func(a, b T) bool {
	switch reflect.TypeFor[T]().Kind() {
	case reflect.Interface, reflect.Struct, reflect.Array:
		return func(a, b T) bool {
			if !strictlyComparable(a) || !strictlyComparable(b) {
				return reflect.DeepEqual(a, b)
			}
			return a == b
		}
	default:
		return func(a, b T) bool { return a == b }
	}
}

func strictlyComparable(v any) bool {
	if v == nil {
		return true
	}
	return reflect.ValueOf(v).Comparable()
}

// NewDataFunc creates a cell that uses equal to detect changes. A nil equal
// falls back to reflect.DeepEqual.
func NewDataFunc[T any](value T, equal func(a, b T) bool) *Data[T] {
	return &Data[T]{
		value: value,
		equal: equal,
	}
}

func (d *Data[T]) Value() T {
	return d.value
}

func (d *Data[T]) SetValue(value T) {
	if d.same(d.value, value) {
		return
	}
	d.value = value
	d.Touch()
}

func (d *Data[T]) same(a, b T) bool {
	if d.equal != nil {
		return d.equal(a, b)
	}
	return reflect.DeepEqual(a, b)
}

// Touch notifies every listener with the current value, in registration
// order, whether or not the value changed.
func (d *Data[T]) Touch() {
	for _, e := range d.listeners.snapshot() {
		d.call(e.key, e.fn)
	}
}

func (d *Data[T]) call(key Key, fn func(T)) {
	value := d.value
	guard("data", key, func() { fn(value) })
}

// AddListener registers fn under a fresh key and immediately calls it with
// the current value. A nil fn is ignored and yields the zero key.
func (d *Data[T]) AddListener(fn func(T)) Key {
	if fn == nil {
		return 0
	}
	key := NextKey()
	d.AddListenerKey(key, fn)
	return key
}

// AddListenerKey registers fn under key, replacing any listener already
// registered with that key, and immediately calls it with the current value.
func (d *Data[T]) AddListenerKey(key Key, fn func(T)) {
	if fn == nil {
		return
	}
	d.listeners.put(key, fn)
	d.call(key, fn)
}

func (d *Data[T]) RemoveListener(key Key) {
	d.listeners.delete(key)
}

func (d *Data[T]) HasListener(key Key) bool {
	return d.listeners.has(key)
}

func (d *Data[T]) ListenerCount() int {
	return d.listeners.len()
}

func (d *Data[T]) Kind() Kind {
	return KindData
}

func (d *Data[T]) PayloadType() reflect.Type {
	return reflect.TypeFor[T]()
}

func (d *Data[T]) AddReflectListener(key Key, fn func(reflect.Value)) {
	if fn == nil {
		return
	}
	d.AddListenerKey(key, func(v T) {
		fn(reflect.ValueOf(&v).Elem())
	})
}

// String renders the current value, or "null" when it is a nil value.
func (d *Data[T]) String() string {
	v := any(d.value)
	if isNil(v) {
		return "null"
	}
	return fmt.Sprint(v)
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Pointer, reflect.Slice:
		return rv.IsNil()
	}
	return false
}
