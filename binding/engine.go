package binding

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"github.com/cespare/xxhash/v2"
	"github.com/delaneyj/servable/model"
	"github.com/delaneyj/servable/node"
	"github.com/delaneyj/servable/observability"
	"github.com/delaneyj/servable/observable"
)

type State uint8

const (
	StateCreated State = iota
	StateConstructed
	StateDestroyed
)

func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateConstructed:
		return "constructed"
	case StateDestroyed:
		return "destroyed"
	default:
		return "unknown"
	}
}

type Option func(*config)

type config struct {
	source    any
	hasSource bool
	node      node.Node
	observer  observability.Observer
}

// WithSource resolves OnData and OnCommand members on target instead of on
// the binding itself.
func WithSource(target any) Option {
	return func(c *config) {
		c.source = target
		c.hasSource = true
	}
}

// WithNode attaches the binding to a host node, used by Base lookups.
func WithNode(n node.Node) Option {
	return func(c *config) { c.node = n }
}

// WithObserver sends engine events to o instead of observability.Default().
func WithObserver(o observability.Observer) Option {
	return func(c *config) { c.observer = o }
}

type registration struct {
	method *method
	marker Marker
	key    observable.Key
	obs    observable.Observable
}

// Instance runs the declaration of one binding value through the host
// lifecycle. No method of Instance panics; every problem is reported as an
// event and the offending method or marker is skipped.
type Instance struct {
	name    string
	self    any
	recv    reflect.Value
	methods []*method
	cfg     config
	state   State
	enabled bool
	regs    []registration
}

// Bind prepares self for the lifecycle described by d. When self embeds
// Base, the Base forwards host callbacks to the returned Instance.
func Bind[B any](d *Declaration[B], self B, opts ...Option) *Instance {
	i := &Instance{
		name: reflect.TypeFor[B]().String(),
		self: self,
		recv: reflect.ValueOf(&self).Elem(),
	}
	for _, opt := range opts {
		opt(&i.cfg)
	}
	if model.IsNil(self) {
		i.emit(observability.EventConfigError, observability.LevelError, "binding is nil", "", Marker{}, fmt.Errorf("%w: nil %s", ErrConfiguration, i.name))
		return i
	}
	if d != nil {
		i.methods = d.methods
		for _, err := range d.dropped {
			i.emit(observability.EventConfigError, observability.LevelError, "invalid binding declaration", "", Marker{}, err)
		}
	}
	if h, ok := any(self).(interface{ bindingBase() *Base }); ok {
		h.bindingBase().attach(i)
	}
	return i
}

func (i *Instance) Name() string { return i.name }

func (i *Instance) State() State { return i.state }

func (i *Instance) Enabled() bool { return i.enabled }

func (i *Instance) Node() node.Node { return i.cfg.node }

// Source is the object named members are resolved on.
func (i *Instance) Source() any {
	if i.cfg.hasSource {
		return i.cfg.source
	}
	return i.self
}

// Registrations is the number of listeners currently held by the instance.
func (i *Instance) Registrations() int {
	return len(i.regs)
}

// Construct runs OnConstruct methods and subscribes every OnData and
// OnCommand method. Only the first call has an effect.
func (i *Instance) Construct() {
	if i.state != StateCreated {
		i.emit(observability.EventLifecycle, observability.LevelWarning, "construct ignored", "", Marker{Kind: MarkConstruct}, fmt.Errorf("instance is %s", i.state))
		return
	}
	i.state = StateConstructed
	i.validate()
	i.invoke(MarkConstruct)
	i.subscribe()
}

// validate reports every marker whose method signature cannot serve it.
// Those markers are skipped for the rest of the instance's life.
func (i *Instance) validate() {
	for _, m := range i.methods {
		for _, marker := range m.markers {
			if err := m.check(marker); err != nil {
				i.emit(observability.EventConfigError, observability.LevelError, "marker skipped", m.name, marker, err)
			}
		}
	}
}

func (i *Instance) Enable() {
	if i.state != StateConstructed || i.enabled {
		i.emit(observability.EventLifecycle, observability.LevelVerbose, "enable ignored", "", Marker{Kind: MarkEnable}, nil)
		return
	}
	i.enabled = true
	i.invoke(MarkEnable)
}

func (i *Instance) Disable() {
	if i.state != StateConstructed || !i.enabled {
		i.emit(observability.EventLifecycle, observability.LevelVerbose, "disable ignored", "", Marker{Kind: MarkDisable}, nil)
		return
	}
	i.enabled = false
	i.invoke(MarkDisable)
}

// Destroy disables the instance if needed, runs OnDestroy methods and
// removes every listener added by Construct. Only the first call after
// Construct has an effect.
func (i *Instance) Destroy() {
	switch i.state {
	case StateCreated:
		i.state = StateDestroyed
		return
	case StateDestroyed:
		i.emit(observability.EventLifecycle, observability.LevelWarning, "destroy ignored", "", Marker{Kind: MarkDestroy}, errors.New("instance already destroyed"))
		return
	}
	if i.enabled {
		i.Disable()
	}
	i.state = StateDestroyed
	i.invoke(MarkDestroy)
	i.unsubscribe()
}

func (i *Instance) invoke(kind MarkerKind) {
	for _, m := range i.methods {
		for _, marker := range m.markers {
			if marker.Kind != kind {
				continue
			}
			if m.check(marker) != nil {
				continue
			}
			i.call(m, marker)
		}
	}
}

func (i *Instance) call(m *method, marker Marker) {
	defer func() {
		if r := recover(); r != nil {
			i.emit(observability.EventHandlerFailure, observability.LevelError, "method panicked", m.name, marker, fmt.Errorf("%v", r))
		}
	}()
	m.fn.Call([]reflect.Value{i.recv})
}

func (i *Instance) subscribe() {
	source := i.Source()
	for _, m := range i.methods {
		for _, marker := range m.markers {
			if !marker.Kind.named() || m.check(marker) != nil {
				continue
			}
			obs, err := i.resolve(source, m, marker)
			if err != nil {
				i.emit(observability.EventResolutionFailure, observability.LevelWarning, "marker skipped", m.name, marker, err)
				continue
			}
			key := i.key(m, marker)
			i.regs = append(i.regs, registration{method: m, marker: marker, key: key, obs: obs})
			obs.AddReflectListener(key, i.handler(m))
			i.emit(observability.EventRegistered, observability.LevelVerbose, "listener registered", m.name, marker, nil)
		}
	}
}

func (i *Instance) unsubscribe() {
	source := i.Source()
	for _, m := range i.methods {
		for _, marker := range m.markers {
			if !marker.Kind.named() || m.check(marker) != nil {
				continue
			}
			key := i.key(m, marker)
			obs, err := i.resolve(source, m, marker)
			if err != nil {
				if i.registered(key) {
					i.emit(observability.EventResolutionFailure, observability.LevelWarning, "member no longer resolvable", m.name, marker, err)
				}
				continue
			}
			obs.RemoveListener(key)
		}
	}
	removed := map[observable.Key]bool{}
	for _, reg := range i.regs {
		reg.obs.RemoveListener(reg.key)
		if removed[reg.key] {
			continue
		}
		removed[reg.key] = true
		i.emit(observability.EventUnregistered, observability.LevelVerbose, "listener removed", reg.method.name, reg.marker, nil)
	}
	i.regs = nil
}

func (i *Instance) registered(key observable.Key) bool {
	for _, reg := range i.regs {
		if reg.key == key {
			return true
		}
	}
	return false
}

// resolve finds the member named by marker and checks that its kind and
// payload type fit the method exactly.
func (i *Instance) resolve(source any, m *method, marker Marker) (obs observable.Observable, err error) {
	defer func() {
		if r := recover(); r != nil {
			obs, err = nil, fmt.Errorf("%w: resolving %s: %v", model.ErrMemberNotFound, marker.Member, r)
		}
	}()
	obs, err = model.Lookup(source, marker.Member)
	if err != nil {
		return nil, err
	}
	var want reflect.Type
	if m.arity() == 1 {
		want = m.params[0]
	}
	switch {
	case marker.Kind == MarkData && obs.Kind() != observable.KindData,
		marker.Kind == MarkCommand && obs.Kind() != observable.KindCommand:
		return nil, fmt.Errorf("%w: %s is %s", model.ErrKindMismatch, marker.Member, obs.Kind())
	case obs.PayloadType() != want:
		return nil, fmt.Errorf("%w: %s carries %v, %s expects %v", model.ErrKindMismatch, marker.Member, obs.PayloadType(), m.name, want)
	}
	return obs, nil
}

// key is identical for handlers built from the same instance, method and
// marker, so adding twice replaces and removing needs no stored closure.
func (i *Instance) key(m *method, marker Marker) observable.Key {
	id := fmt.Sprintf("%p\x00%s\x00%d\x00%s", i, m.name, marker.Kind, marker.Member)
	return observable.Key(xxhash.Sum64String(id))
}

func (i *Instance) handler(m *method) func(reflect.Value) {
	if m.arity() == 0 {
		return func(reflect.Value) {
			m.fn.Call([]reflect.Value{i.recv})
		}
	}
	return func(v reflect.Value) {
		m.fn.Call([]reflect.Value{i.recv, v})
	}
}

func (i *Instance) emit(t observability.EventType, level observability.Level, msg, methodName string, marker Marker, err error) {
	data := map[string]any{}
	if methodName != "" {
		data["method"] = methodName
	}
	if marker.Kind != 0 {
		data["marker"] = marker.String()
	}
	if err != nil {
		data["error"] = err.Error()
	}
	observability.Emit(context.Background(), i.cfg.observer, observability.Event{
		Type:    t,
		Level:   level,
		Source:  i.name,
		Message: msg,
		Data:    data,
	})
}
