package prefs

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"sort"
)

// Flat is an engine-native preference store that only holds ints, floats
// and strings. Getters return def when the key is missing or holds another
// type.
type Flat interface {
	Int(key string, def int) int
	SetInt(key string, value int)
	Float(key string, def float64) float64
	SetFloat(key string, value float64)
	String(key string, def string) string
	SetString(key string, value string)
	HasKey(key string) bool
	DeleteKey(key string)
}

// MemoryFlat is an in-memory Flat.
type MemoryFlat struct {
	values map[string]any
}

func NewMemoryFlat() *MemoryFlat {
	return &MemoryFlat{values: map[string]any{}}
}

func flatValue[T any](m *MemoryFlat, key string, def T) T {
	if v, ok := m.values[key].(T); ok {
		return v
	}
	return def
}

func (m *MemoryFlat) Int(key string, def int) int {
	return flatValue(m, key, def)
}

func (m *MemoryFlat) Float(key string, def float64) float64 {
	return flatValue(m, key, def)
}

func (m *MemoryFlat) String(key string, def string) string {
	return flatValue(m, key, def)
}

func (m *MemoryFlat) SetInt(key string, value int) {
	m.values[key] = value
}

func (m *MemoryFlat) SetFloat(key string, value float64) {
	m.values[key] = value
}

func (m *MemoryFlat) SetString(key string, value string) {
	m.values[key] = value
}

func (m *MemoryFlat) DeleteKey(key string) {
	delete(m.values, key)
}

func (m *MemoryFlat) HasKey(key string) bool {
	_, ok := m.values[key]
	return ok
}

// Keys returns the stored keys in sorted order.
func (m *MemoryFlat) Keys() []string {
	keys := make([]string, 0, len(m.values))
	for k := range m.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// FlatStore adapts a Flat to Store. Bools are stored as ints 0 and 1,
// integer kinds as ints, float kinds as floats, strings as strings and
// every other type as JSON text.
type FlatStore struct {
	flat Flat
}

func NewFlatStore(flat Flat) *FlatStore {
	return &FlatStore{flat: flat}
}

func (s *FlatStore) Flat() Flat { return s.flat }

func (s *FlatStore) Get(key string, dst any) (bool, error) {
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return false, fmt.Errorf("%w: %s: destination %T is not a non-nil pointer", ErrUnsupported, key, dst)
	}
	if !s.flat.HasKey(key) {
		return false, nil
	}
	v := rv.Elem()
	switch v.Kind() {
	case reflect.Bool:
		v.SetBool(s.flat.Int(key, 0) > 0)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n := int64(s.flat.Int(key, 0))
		if v.OverflowInt(n) {
			return false, fmt.Errorf("%w: %s: %d overflows %s", ErrLoadFailed, key, n, v.Type())
		}
		v.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n := s.flat.Int(key, 0)
		if n < 0 || v.OverflowUint(uint64(n)) {
			return false, fmt.Errorf("%w: %s: %d overflows %s", ErrLoadFailed, key, n, v.Type())
		}
		v.SetUint(uint64(n))
	case reflect.Float32, reflect.Float64:
		v.SetFloat(s.flat.Float(key, 0))
	case reflect.String:
		v.SetString(s.flat.String(key, ""))
	case reflect.Interface:
		return false, fmt.Errorf("%w: %s: flat stores need a concrete destination type", ErrUnsupported, key)
	default:
		raw := s.flat.String(key, "")
		if err := json.Unmarshal([]byte(raw), dst); err != nil {
			return false, fmt.Errorf("%w: %s: %v", ErrLoadFailed, key, err)
		}
	}
	return true, nil
}

func (s *FlatStore) Set(key string, value any) error {
	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Bool:
		n := 0
		if v.Bool() {
			n = 1
		}
		s.flat.SetInt(key, n)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n := v.Int()
		if n < math.MinInt || n > math.MaxInt {
			return fmt.Errorf("%w: %s: %d does not fit an int", ErrSaveFailed, key, n)
		}
		s.flat.SetInt(key, int(n))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n := v.Uint()
		if n > math.MaxInt {
			return fmt.Errorf("%w: %s: %d does not fit an int", ErrSaveFailed, key, n)
		}
		s.flat.SetInt(key, int(n))
	case reflect.Float32, reflect.Float64:
		s.flat.SetFloat(key, v.Float())
	case reflect.String:
		s.flat.SetString(key, v.String())
	default:
		raw, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrSaveFailed, key, err)
		}
		s.flat.SetString(key, string(raw))
	}
	return nil
}

func (s *FlatStore) Delete(key string) error {
	s.flat.DeleteKey(key)
	return nil
}

// Keys works when the underlying Flat can enumerate its keys.
func (s *FlatStore) Keys() ([]string, error) {
	l, ok := s.flat.(interface{ Keys() []string })
	if !ok {
		return nil, fmt.Errorf("%w: %T cannot list keys", ErrUnsupported, s.flat)
	}
	return l.Keys(), nil
}

var (
	_ Flat    = (*MemoryFlat)(nil)
	_ Store   = (*FlatStore)(nil)
	_ Lister  = (*FlatStore)(nil)
	_ Deleter = (*FlatStore)(nil)
)
