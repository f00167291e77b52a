package observable

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
)

var ErrListenerPanic = errors.New("listener panicked")

// ListenerPanicError is reported when a listener panics during Touch, Emit or
// the replay of AddListener.
type ListenerPanicError struct {
	Source string
	Key    Key
	Value  any
	Stack  []byte
}

func (e *ListenerPanicError) Error() string {
	return fmt.Sprintf("%s listener %d: %v", e.Source, e.Key, e.Value)
}

func (e *ListenerPanicError) Unwrap() error {
	return ErrListenerPanic
}

// ErrorHandler receives every failure isolated by an observable.
type ErrorHandler func(err error)

var onError ErrorHandler = logError

func logError(err error) {
	slog.Default().Error("observable listener failed", slog.Any("error", err))
}

// SetErrorHandler replaces the handler for listener failures and returns the
// previous one. A nil handler restores the default, which logs through
// slog.Default().
func SetErrorHandler(h ErrorHandler) ErrorHandler {
	prev := onError
	if h == nil {
		h = logError
	}
	onError = h
	return prev
}

func guard(source string, key Key, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			onError(&ListenerPanicError{
				Source: source,
				Key:    key,
				Value:  r,
				Stack:  debug.Stack(),
			})
		}
	}()
	fn()
}
