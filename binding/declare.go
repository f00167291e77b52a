package binding

import (
	"errors"
	"fmt"
	"reflect"
)

var ErrConfiguration = errors.New("binding configuration error")

type method struct {
	name    string
	fn      reflect.Value
	params  []reflect.Type
	markers []Marker
}

func (m *method) arity() int {
	return len(m.params)
}

// check reports a configuration error when the method signature cannot
// serve marker.
func (m *method) check(marker Marker) error {
	switch marker.Kind {
	case MarkConstruct, MarkEnable, MarkDisable, MarkDestroy:
		if m.arity() != 0 {
			return fmt.Errorf("%w: %s %s must not take parameters, has %d", ErrConfiguration, marker, m.name, m.arity())
		}
	case MarkData:
		if m.arity() != 1 {
			return fmt.Errorf("%w: %s %s must take exactly one value parameter, has %d", ErrConfiguration, marker, m.name, m.arity())
		}
	case MarkCommand:
		if m.arity() > 1 {
			return fmt.Errorf("%w: %s %s must take no parameters or one payload parameter, has %d", ErrConfiguration, marker, m.name, m.arity())
		}
	default:
		return fmt.Errorf("%w: %s has unknown marker %d", ErrConfiguration, m.name, marker.Kind)
	}
	return nil
}

// Declaration is the registration table of a binding type B: which methods
// run on which lifecycle event or member notification, in declaration order.
// Build it once per type, usually in a package level variable.
type Declaration[B any] struct {
	methods []*method
	// dropped holds problems that removed a method or marker, signature
	// holds markers kept but unusable by their method.
	dropped   []error
	signature []error
	names     map[string]bool
}

func Declare[B any]() *Declaration[B] {
	return &Declaration[B]{}
}

// Method adds a method of B. fn is a method expression such as
// (*View).onScore, or any func whose first parameter accepts a B. Lifecycle
// markers may appear once per method; OnData and OnCommand may repeat.
//
// Names identify methods and must be unique within a declaration; a
// repeated name drops the later method.
//
// Problems are recorded rather than returned: an unusable fn drops the
// method, a signature that does not fit a marker keeps the
// marker inert and is reported each time an instance is constructed.
func (d *Declaration[B]) Method(name string, fn any, markers ...Marker) *Declaration[B] {
	if d.names[name] {
		d.dropped = append(d.dropped, fmt.Errorf("%w: method %s declared twice", ErrConfiguration, name))
		return d
	}
	m, err := newMethod[B](name, fn)
	if err != nil {
		d.dropped = append(d.dropped, err)
		return d
	}
	seen := map[MarkerKind]bool{}
	for _, marker := range markers {
		switch {
		case marker.Kind.named() && marker.Member == "":
			d.dropped = append(d.dropped, fmt.Errorf("%w: %s %s has no member name", ErrConfiguration, marker, name))
			continue
		case !marker.Kind.named() && seen[marker.Kind]:
			d.dropped = append(d.dropped, fmt.Errorf("%w: %s repeated on %s", ErrConfiguration, marker, name))
			continue
		}
		seen[marker.Kind] = true
		if err := m.check(marker); err != nil {
			d.signature = append(d.signature, err)
		}
		m.markers = append(m.markers, marker)
	}
	if d.names == nil {
		d.names = map[string]bool{}
	}
	d.names[name] = true
	d.methods = append(d.methods, m)
	return d
}

func newMethod[B any](name string, fn any) (*method, error) {
	if fn == nil {
		return nil, fmt.Errorf("%w: %s is nil", ErrConfiguration, name)
	}
	fv := reflect.ValueOf(fn)
	ft := fv.Type()
	recv := reflect.TypeFor[B]()
	switch {
	case ft.Kind() != reflect.Func:
		return nil, fmt.Errorf("%w: %s is %s, not a method", ErrConfiguration, name, ft)
	case fv.IsNil():
		return nil, fmt.Errorf("%w: %s is nil", ErrConfiguration, name)
	case ft.IsVariadic():
		return nil, fmt.Errorf("%w: %s must not be variadic", ErrConfiguration, name)
	case ft.NumIn() == 0 || !recv.AssignableTo(ft.In(0)):
		return nil, fmt.Errorf("%w: %s is %s, want a method of %s", ErrConfiguration, name, ft, recv)
	}
	m := &method{name: name, fn: fv}
	for i := 1; i < ft.NumIn(); i++ {
		m.params = append(m.params, ft.In(i))
	}
	return m, nil
}

// Err joins every configuration problem found while declaring.
func (d *Declaration[B]) Err() error {
	return errors.Join(append(append([]error(nil), d.dropped...), d.signature...)...)
}

// Len is the number of usable methods.
func (d *Declaration[B]) Len() int {
	return len(d.methods)
}
