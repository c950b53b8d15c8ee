package libemit

import "sync/atomic"

type (
	// Event is the context handed to every callback. Args keeps the order and arity used on Emit.
	Event[K ~string, V any] struct {
		Name  K
		Args  []V
		Owner any
	}

	// Callback is the behavior run when an event is emitted.
	Callback[K ~string, V any] func(Event[K, V]) error

	// Listener wraps a Callback so that it has a stable identity. The same *Listener is what
	// On deduplicates against and what Off removes.
	Listener[K ~string, V any] struct {
		callback Callback[K, V]
	}

	entry[K ~string, V any] struct {
		listener *Listener[K, V]
		once     bool
		// fired is only used by once entries, which may sit in several snapshots at a time.
		fired atomic.Bool
	}
)

// NewListener wraps cb into a Listener.
func NewListener[K ~string, V any](cb func(Event[K, V]) error) *Listener[K, V] {
	return &Listener[K, V]{callback: cb}
}

// Arg returns the i-th argument, or the zero value when the event carries fewer arguments.
func (e Event[K, V]) Arg(i int) (v V) {
	if i < 0 || i >= len(e.Args) {
		return
	}
	return e.Args[i]
}

func (l *Listener[K, V]) valid() bool {
	return l != nil && l.callback != nil
}

func (l *Listener[K, V]) invoke(e Event[K, V]) error {
	return l.callback(e)
}

func indexOfListener[K ~string, V any](entries []*entry[K, V], l *Listener[K, V]) int {
	for i := len(entries) - 1; i >= 0; i-- {
		if entries[i].listener == l {
			return i
		}
	}
	return -1
}

// claim reports whether the entry may run. Once entries can be claimed a single time.
func (en *entry[K, V]) claim() bool {
	if !en.once {
		return true
	}
	return en.fired.CompareAndSwap(false, true)
}
