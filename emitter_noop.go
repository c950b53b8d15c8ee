package libemit

import "github.com/pkg/errors"

// EventEmitter is the behavior shared by Emitter and NoopEmitter. Hosts that make event
// delivery optional can depend on it and plug in NoopEmitter.
type EventEmitter[K ~string, V any] interface {
	// On registers a persistent listener for the given event.
	On(event K, l *Listener[K, V]) error

	// Once registers a listener that is removed right before its first invocation.
	Once(event K, l *Listener[K, V]) error

	// Off removes the given listeners from the event, or all of them when none is given.
	Off(event K, ls ...*Listener[K, V])

	// Emit calls the listeners of the event synchronously and reports whether there were any.
	Emit(event K, args ...V) (bool, error)

	// RemoveEvent forgets the event and its listeners.
	RemoveEvent(event K)

	// RemoveAll forgets every event and listener.
	RemoveAll()
}

var (
	_ EventEmitter[string, any] = (*Emitter[string, any])(nil)
	_ EventEmitter[string, any] = NoopEmitter[string, any]{}
)

// NoopEmitter accepts valid registrations and drops them. Emit never finds listeners.
type NoopEmitter[K ~string, V any] struct{}

func (NoopEmitter[K, V]) On(event K, l *Listener[K, V]) error { return noopRegister(event, l) }

func (NoopEmitter[K, V]) Once(event K, l *Listener[K, V]) error { return noopRegister(event, l) }

func (NoopEmitter[K, V]) Off(K, ...*Listener[K, V]) {}

func (NoopEmitter[K, V]) Emit(K, ...V) (bool, error) { return false, nil }

func (NoopEmitter[K, V]) RemoveEvent(K) {}

func (NoopEmitter[K, V]) RemoveAll() {}

func noopRegister[K ~string, V any](event K, l *Listener[K, V]) error {
	if !l.valid() {
		return errors.Wrapf(ErrInvalidHandler, "cannot register on event %q", event)
	}
	return nil
}
