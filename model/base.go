package model

import (
	"fmt"
	"sort"

	"github.com/delaneyj/servable/observable"
)

// Members is an explicit name to observable table.
type Members struct {
	byName map[string]observable.Observable
	order  []string
}

// Register publishes obs under name, replacing an earlier registration with
// the same name.
func (m *Members) Register(name string, obs observable.Observable) *Members {
	if m.byName == nil {
		m.byName = map[string]observable.Observable{}
	}
	if _, ok := m.byName[name]; !ok {
		m.order = append(m.order, name)
	}
	m.byName[name] = obs
	return m
}

func (m *Members) Observable(name string) (observable.Observable, bool) {
	obs, ok := m.byName[name]
	return obs, ok
}

// Names returns member names in registration order.
func (m *Members) Names() []string {
	return append([]string(nil), m.order...)
}

// Base is embedded by models to publish an explicit member table. It
// implements Locator.
type Base struct {
	members Members
}

// Publish registers obs under name.
func (b *Base) Publish(name string, obs observable.Observable) {
	b.members.Register(name, obs)
}

func (b *Base) Observable(name string) (observable.Observable, bool) {
	return b.members.Observable(name)
}

func (b *Base) Members() []string {
	return b.members.Names()
}

// MemberInfo summarises one member for tooling.
type MemberInfo struct {
	Name        string
	Kind        observable.Kind
	PayloadType string
	Value       string
	Listeners   int
}

// Describe lists the members published by target. Locator tables are listed
// in registration order; reflected members are sorted by name.
func Describe(target any) []MemberInfo {
	var names []string
	if b, ok := target.(interface{ Members() []string }); ok {
		names = b.Members()
	} else {
		names = reflectNames(target)
		sort.Strings(names)
	}
	out := make([]MemberInfo, 0, len(names))
	for _, name := range names {
		obs, err := Lookup(target, name)
		if err != nil {
			continue
		}
		info := MemberInfo{
			Name:      name,
			Kind:      obs.Kind(),
			Listeners: obs.ListenerCount(),
		}
		if pt := obs.PayloadType(); pt != nil {
			info.PayloadType = pt.String()
		}
		if s, ok := obs.(fmt.Stringer); ok {
			info.Value = s.String()
		}
		out = append(out, info)
	}
	return out
}
