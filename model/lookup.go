// Package model resolves observable members of a model by name.
//
// A model either publishes an explicit member table by implementing Locator
// (usually by embedding Base), or exposes its observables as exported fields
// or exported zero-argument methods, which are found by reflection. Fields
// promoted from embedded structs are found as well.
package model

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/delaneyj/servable/observable"
)

var (
	ErrNilTarget      = errors.New("target is nil")
	ErrMemberNotFound = errors.New("member not found")
	ErrNilMember      = errors.New("member is nil")
	ErrKindMismatch   = errors.New("member kind mismatch")
)

// Locator is implemented by models that publish their observables through
// an explicit table.
type Locator interface {
	Observable(name string) (observable.Observable, bool)
}

var observableType = reflect.TypeFor[observable.Observable]()

// Lookup finds the observable named name on target. A member accessor that
// panics is reported as ErrNilMember.
func Lookup(target any, name string) (obs observable.Observable, err error) {
	if IsNil(target) {
		return nil, ErrNilTarget
	}
	defer func() {
		if r := recover(); r != nil {
			obs, err = nil, fmt.Errorf("%w: %s on %T: %v", ErrNilMember, name, target, r)
		}
	}()
	if l, ok := target.(Locator); ok {
		if found, ok := l.Observable(name); ok {
			if IsNil(found) {
				return nil, fmt.Errorf("%w: %s on %T", ErrNilMember, name, target)
			}
			return found, nil
		}
	}
	obs, err = reflectLookup(reflect.ValueOf(target), name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s on %T", err, name, target)
	}
	return obs, nil
}

func reflectLookup(v reflect.Value, name string) (observable.Observable, error) {
	if m := v.MethodByName(name); m.IsValid() {
		t := m.Type()
		if t.NumIn() == 0 && t.NumOut() == 1 && t.Out(0).Implements(observableType) {
			return fromValue(m.Call(nil)[0])
		}
	}
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return nil, ErrMemberNotFound
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil, ErrMemberNotFound
	}
	sf, ok := v.Type().FieldByName(name)
	if !ok || !sf.IsExported() {
		return nil, ErrMemberNotFound
	}
	f, err := v.FieldByIndexErr(sf.Index)
	if err != nil {
		return nil, ErrNilMember
	}
	switch {
	case sf.Type.Implements(observableType):
		return fromValue(f)
	case f.CanAddr() && reflect.PointerTo(sf.Type).Implements(observableType):
		return fromValue(f.Addr())
	}
	return nil, ErrMemberNotFound
}

func fromValue(v reflect.Value) (observable.Observable, error) {
	if !v.IsValid() || ((v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface) && v.IsNil()) {
		return nil, ErrNilMember
	}
	obs, ok := v.Interface().(observable.Observable)
	if !ok || IsNil(obs) {
		return nil, ErrNilMember
	}
	return obs, nil
}

// Data resolves name as an *observable.Data[T].
func Data[T any](target any, name string) (*observable.Data[T], error) {
	return As[*observable.Data[T]](target, name)
}

// Command resolves name as a parameterless *observable.Command.
func Command(target any, name string) (*observable.Command, error) {
	return As[*observable.Command](target, name)
}

// Command1 resolves name as an *observable.Command1[T].
func Command1[T any](target any, name string) (*observable.Command1[T], error) {
	return As[*observable.Command1[T]](target, name)
}

// As resolves name and asserts it to O.
func As[O observable.Observable](target any, name string) (O, error) {
	var zero O
	obs, err := Lookup(target, name)
	if err != nil {
		return zero, err
	}
	typed, ok := obs.(O)
	if !ok {
		return zero, fmt.Errorf("%w: %s on %T is %s, want %s", ErrKindMismatch, name, target, describe(obs), reflect.TypeFor[O]())
	}
	return typed, nil
}

func describe(obs observable.Observable) string {
	if pt := obs.PayloadType(); pt != nil {
		return fmt.Sprintf("%s[%s]", obs.Kind(), pt)
	}
	return obs.Kind().String()
}

// IsNil reports whether v is nil or a typed nil pointer, map, slice, func,
// channel or interface.
func IsNil(v any) bool {
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

func reflectNames(target any) []string {
	if IsNil(target) {
		return nil
	}
	var names []string
	seen := map[string]bool{}
	v := reflect.ValueOf(target)
	t := v.Type()
	for i := 0; i < t.NumMethod(); i++ {
		m := t.Method(i)
		mt := m.Type
		if mt.NumIn() == 1 && mt.NumOut() == 1 && mt.Out(0).Implements(observableType) {
			names = append(names, m.Name)
			seen[m.Name] = true
		}
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return names
	}
	for _, sf := range reflect.VisibleFields(t) {
		if !sf.IsExported() || sf.Anonymous || seen[sf.Name] {
			continue
		}
		if sf.Type.Implements(observableType) || reflect.PointerTo(sf.Type).Implements(observableType) {
			names = append(names, sf.Name)
			seen[sf.Name] = true
		}
	}
	return names
}
