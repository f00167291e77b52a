// Package reference points a binding at a named observable member of a model
// that may be assigned late or swapped at any time.
//
// Resolution is lazy and cached. Reassigning the target or the member name
// drops the cache immediately; a short time to live catches any change that
// happened behind the reference's back.
package reference

import (
	"time"

	"github.com/delaneyj/servable/model"
	"github.com/delaneyj/servable/observable"
)

const DefaultTTL = 5 * time.Second

// Resolver finds member on target.
type Resolver[O observable.Observable] func(target any, member string) (O, error)

type Option func(*options)

type options struct {
	ttl   time.Duration
	clock func() time.Time
}

// WithTTL sets how long a resolved observable is reused. Zero or negative
// disables caching.
func WithTTL(ttl time.Duration) Option {
	return func(o *options) { o.ttl = ttl }
}

// WithClock replaces time.Now, mostly for tests.
func WithClock(clock func() time.Time) Option {
	return func(o *options) {
		if clock != nil {
			o.clock = clock
		}
	}
}

// Ref is a cached by-name reference to an observable of type O. It does not
// own the target or the observable.
type Ref[O observable.Observable] struct {
	target   any
	member   string
	resolve  Resolver[O]
	cached   O
	hasCache bool
	deadline time.Time
	err      error
	opts     options
}

func New[O observable.Observable](target any, member string, resolve Resolver[O], opts ...Option) *Ref[O] {
	r := &Ref[O]{
		target:  target,
		member:  member,
		resolve: resolve,
		opts:    options{ttl: DefaultTTL, clock: time.Now},
	}
	for _, opt := range opts {
		opt(&r.opts)
	}
	return r
}

func (r *Ref[O]) Target() any {
	return r.target
}

// SetTarget points the reference at a new model and drops the cache.
func (r *Ref[O]) SetTarget(target any) {
	r.target = target
	r.Invalidate()
}

func (r *Ref[O]) Member() string {
	return r.member
}

func (r *Ref[O]) SetMember(member string) {
	r.member = member
	r.Invalidate()
}

func (r *Ref[O]) Invalidate() {
	var zero O
	r.cached = zero
	r.hasCache = false
}

// Observable returns the referenced observable, resolving it when the cache
// is empty or expired. It returns the zero O when the target is nil or the
// member cannot be resolved; Err then explains why.
func (r *Ref[O]) Observable() O {
	var zero O
	if model.IsNil(r.target) {
		r.Invalidate()
		r.err = model.ErrNilTarget
		return zero
	}
	now := r.opts.clock()
	if r.hasCache && now.Before(r.deadline) {
		return r.cached
	}
	r.Invalidate()
	obs, err := r.resolve(r.target, r.member)
	r.err = err
	if err != nil || model.IsNil(obs) {
		return zero
	}
	if r.opts.ttl > 0 {
		r.cached = obs
		r.hasCache = true
		r.deadline = now.Add(r.opts.ttl)
	}
	return obs
}

// Err is the error of the last resolution, nil after a successful one.
func (r *Ref[O]) Err() error {
	return r.err
}

func (r *Ref[O]) IsValid() bool {
	return !model.IsNil(r.target) && !model.IsNil(r.Observable())
}

// Data references an *observable.Data[T].
type Data[T any] struct {
	*Ref[*observable.Data[T]]
}

func NewData[T any](target any, member string, opts ...Option) *Data[T] {
	return &Data[T]{New[*observable.Data[T]](target, member, model.Data[T], opts...)}
}

// Command references a parameterless *observable.Command.
type Command struct {
	*Ref[*observable.Command]
}

func NewCommand(target any, member string, opts ...Option) *Command {
	return &Command{New[*observable.Command](target, member, model.Command, opts...)}
}

// Command1 references an *observable.Command1[T].
type Command1[T any] struct {
	*Ref[*observable.Command1[T]]
}

func NewCommand1[T any](target any, member string, opts ...Option) *Command1[T] {
	return &Command1[T]{New[*observable.Command1[T]](target, member, model.Command1[T], opts...)}
}
