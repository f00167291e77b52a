package binding_test

import (
	"testing"

	"github.com/delaneyj/servable/binding"
	"github.com/delaneyj/servable/node"
	"github.com/delaneyj/servable/observability"
	"github.com/delaneyj/servable/observable"
	"github.com/delaneyj/servable/reference"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type player struct {
	Score  *observable.Data[int]
	Name   *observable.Data[string]
	Jump   *observable.Command
	Select *observable.Command1[string]
}

func newPlayer() *player {
	return &player{
		Score:  observable.NewData(10),
		Name:   observable.NewData("ada"),
		Jump:   observable.NewCommand(),
		Select: observable.NewCommand1[string](),
	}
}

func TestDataBinding(t *testing.T) {
	p := newPlayer()
	var got []int
	b := binding.NewDataBinding(reference.NewData[int](p, "Score"), func(v int) { got = append(got, v) })
	assert.True(t, b.IsValid())
	assert.Same(t, p, b.Model())
	assert.Same(t, p.Score, b.Data())

	n := node.New("hud")
	n.AddComponent(b)
	p.Score.SetValue(11)
	assert.Equal(t, []int{10, 11}, got)

	n.Destroy()
	p.Score.SetValue(12)
	assert.Equal(t, []int{10, 11}, got)
	assert.Equal(t, 0, p.Score.ListenerCount())
}

// a binding whose reference has no target yet is reported and stays inert
func TestDataBindingWithoutTarget(t *testing.T) {
	rec := &observability.Recorder{}
	ref := reference.NewData[int](nil, "Score")
	calls := 0
	b := binding.NewDataBinding(ref, func(int) { calls++ }, binding.WithObserver(rec))
	assert.False(t, b.IsValid())
	assert.Nil(t, b.Model())

	assert.NotPanics(t, b.Construct)
	assert.Zero(t, calls)
	assert.Equal(t, 1, rec.Count(observability.EventResolutionFailure))
	assert.Zero(t, b.Instance().Registrations())
	assert.NotPanics(t, b.Destroy)
}

// the element type must match exactly
func TestDataBindingTypeMismatch(t *testing.T) {
	rec := &observability.Recorder{}
	p := newPlayer()
	b := binding.NewDataBinding(reference.NewData[int](p, "Name"), func(int) {}, binding.WithObserver(rec))
	assert.False(t, b.IsValid())
	b.Construct()
	assert.Equal(t, 1, rec.Count(observability.EventResolutionFailure))
	assert.Equal(t, 0, p.Name.ListenerCount())
}

func TestDataBindingNilCallback(t *testing.T) {
	p := newPlayer()
	b := binding.NewDataBinding(reference.NewData[int](p, "Score"), nil)
	b.Construct()
	assert.NotPanics(t, func() { p.Score.SetValue(1) })
	b.Destroy()
}

func TestCommandBinding(t *testing.T) {
	p := newPlayer()
	jumps := 0
	b := binding.NewCommandBinding(reference.NewCommand(p, "Jump"), func() { jumps++ })
	assert.True(t, b.IsValid())
	assert.Same(t, p.Jump, b.Command())

	b.Construct()
	assert.Zero(t, jumps, "commands do not replay")
	b.Emit()
	p.Jump.Emit()
	assert.Equal(t, 2, jumps)

	b.Destroy()
	p.Jump.Emit()
	assert.Equal(t, 2, jumps)
}

func TestCommandBindingUnresolved(t *testing.T) {
	b := binding.NewCommandBinding(reference.NewCommand(newPlayer(), "Missing"), nil,
		binding.WithObserver(&observability.Recorder{}))
	assert.False(t, b.IsValid())
	assert.NotPanics(t, b.Emit)
}

func TestCommand1Binding(t *testing.T) {
	p := newPlayer()
	var picked []string
	b := binding.NewCommand1Binding(reference.NewCommand1[string](p, "Select"), func(s string) { picked = append(picked, s) })
	require.True(t, b.IsValid())
	assert.Same(t, p.Select, b.Command())

	b.Construct()
	b.Emit("sword")
	p.Select.Emit("shield")
	b.Destroy()
	p.Select.Emit("bow")
	assert.Equal(t, []string{"sword", "shield"}, picked)
}

// retargeting the reference between lifetimes moves the binding
func TestBindingFollowsReference(t *testing.T) {
	first, second := newPlayer(), newPlayer()
	second.Score.SetValue(20)
	ref := reference.NewData[int](first, "Score")

	var got []int
	record := func(v int) { got = append(got, v) }
	a := binding.NewDataBinding(ref, record)
	a.Construct()
	a.Destroy()

	ref.SetTarget(second)
	b := binding.NewDataBinding(ref, record)
	b.Construct()
	first.Score.SetValue(99)
	assert.Equal(t, []int{10, 20}, got)
	b.Destroy()
}

func TestBindingsImplementBinding(t *testing.T) {
	p := newPlayer()
	all := []binding.Binding{
		binding.NewDataBinding(reference.NewData[int](p, "Score"), nil),
		binding.NewCommandBinding(reference.NewCommand(p, "Jump"), nil),
		binding.NewCommand1Binding(reference.NewCommand1[string](p, "Select"), nil),
	}
	for _, b := range all {
		assert.True(t, b.IsValid())
		assert.Same(t, p, b.Model())
	}
}
