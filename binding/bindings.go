package binding

import (
	"reflect"

	"github.com/delaneyj/servable/observable"
	"github.com/delaneyj/servable/reference"
)

var declarations = map[reflect.Type]any{}

// declared builds the declaration of B once and reuses it afterwards.
func declared[B any](build func() *Declaration[B]) *Declaration[B] {
	key := reflect.TypeFor[B]()
	if d, ok := declarations[key]; ok {
		return d.(*Declaration[B])
	}
	d := build()
	declarations[key] = d
	return d
}

// DataBinding calls OnValue with the current value of a referenced Data and
// again on every change, from construction until destruction.
type DataBinding[T any] struct {
	Base
	ref     *reference.Data[T]
	OnValue func(T)
}

func NewDataBinding[T any](ref *reference.Data[T], onValue func(T), opts ...Option) *DataBinding[T] {
	b := &DataBinding[T]{ref: ref, OnValue: onValue}
	Bind(declared(func() *Declaration[*DataBinding[T]] {
		return Declare[*DataBinding[T]]().
			Method("value", (*DataBinding[T]).value, OnData("Data"))
	}), b, opts...)
	return b
}

// Data is the referenced observable, nil while the reference is invalid.
func (b *DataBinding[T]) Data() *observable.Data[T] {
	return b.ref.Observable()
}

func (b *DataBinding[T]) Reference() *reference.Data[T] { return b.ref }

func (b *DataBinding[T]) IsValid() bool { return b.ref.IsValid() }

func (b *DataBinding[T]) Model() any { return b.ref.Target() }

func (b *DataBinding[T]) value(v T) {
	if b.OnValue != nil {
		b.OnValue(v)
	}
}

// CommandBinding calls OnCommand whenever a referenced Command emits.
type CommandBinding struct {
	Base
	ref       *reference.Command
	OnCommand func()
}

func NewCommandBinding(ref *reference.Command, onCommand func(), opts ...Option) *CommandBinding {
	b := &CommandBinding{ref: ref, OnCommand: onCommand}
	Bind(declared(func() *Declaration[*CommandBinding] {
		return Declare[*CommandBinding]().
			Method("command", (*CommandBinding).command, OnCommand("Command"))
	}), b, opts...)
	return b
}

func (b *CommandBinding) Command() *observable.Command {
	return b.ref.Observable()
}

// Emit fires the referenced command, doing nothing while it is unresolved.
func (b *CommandBinding) Emit() {
	if c := b.ref.Observable(); c != nil {
		c.Emit()
	}
}

func (b *CommandBinding) Reference() *reference.Command { return b.ref }

func (b *CommandBinding) IsValid() bool { return b.ref.IsValid() }

func (b *CommandBinding) Model() any { return b.ref.Target() }

func (b *CommandBinding) command() {
	if b.OnCommand != nil {
		b.OnCommand()
	}
}

// Command1Binding calls OnCommand with the payload of a referenced Command1.
type Command1Binding[T any] struct {
	Base
	ref       *reference.Command1[T]
	OnCommand func(T)
}

func NewCommand1Binding[T any](ref *reference.Command1[T], onCommand func(T), opts ...Option) *Command1Binding[T] {
	b := &Command1Binding[T]{ref: ref, OnCommand: onCommand}
	Bind(declared(func() *Declaration[*Command1Binding[T]] {
		return Declare[*Command1Binding[T]]().
			Method("command", (*Command1Binding[T]).command, OnCommand("Command"))
	}), b, opts...)
	return b
}

func (b *Command1Binding[T]) Command() *observable.Command1[T] {
	return b.ref.Observable()
}

func (b *Command1Binding[T]) Emit(payload T) {
	if c := b.ref.Observable(); c != nil {
		c.Emit(payload)
	}
}

func (b *Command1Binding[T]) Reference() *reference.Command1[T] { return b.ref }

func (b *Command1Binding[T]) IsValid() bool { return b.ref.IsValid() }

func (b *Command1Binding[T]) Model() any { return b.ref.Target() }

func (b *Command1Binding[T]) command(payload T) {
	if b.OnCommand != nil {
		b.OnCommand(payload)
	}
}

var (
	_ Binding = (*DataBinding[int])(nil)
	_ Binding = (*CommandBinding)(nil)
	_ Binding = (*Command1Binding[int])(nil)
)
