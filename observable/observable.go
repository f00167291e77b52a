// Package observable provides the reactive leaves of servable: Data, a value
// cell with change notification and replay on subscribe, and Command and
// Command1, multicast signals without a stored value.
//
// Listeners are kept in registration order and identified by a Key. Every
// listener call runs inside its own failure boundary: a panicking listener is
// reported to the ErrorHandler and the remaining listeners still run.
//
// Nothing in this package is safe for concurrent use.
package observable

import "reflect"

type Kind uint8

const (
	KindData Kind = iota + 1
	KindCommand
)

func (k Kind) String() string {
	switch k {
	case KindData:
		return "data"
	case KindCommand:
		return "command"
	default:
		return "unknown"
	}
}

// Observable is the type-erased surface shared by Data, Command and
// Command1. The binding engine uses it to subscribe methods whose payload
// type is only known at runtime.
type Observable interface {
	Kind() Kind
	// PayloadType is the value type for Data, the payload type for Command1
	// and nil for Command.
	PayloadType() reflect.Type
	// AddReflectListener registers fn under key. Data replays the current
	// value; commands do not. The zero reflect.Value is passed for Command.
	AddReflectListener(key Key, fn func(reflect.Value))
	RemoveListener(key Key)
	HasListener(key Key) bool
	ListenerCount() int
}

var (
	_ Observable = (*Data[int])(nil)
	_ Observable = (*Command)(nil)
	_ Observable = (*Command1[int])(nil)
)
