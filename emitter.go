package libemit

import (
	"slices"
	"sync"

	"github.com/pkg/errors"
)

// Emitter maps event ids (of type K) to ordered listeners that receive arguments of type V.
// Listeners run synchronously, in registration order, on a snapshot taken when Emit is called,
// so callbacks may register or remove listeners freely; changes apply from the next Emit on.
// The lock only guards the registry and is never held while a callback runs.
type Emitter[K ~string, V any] struct {
	listeners map[K][]*entry[K, V]
	// order keeps event ids in definition order for Events and the pattern lookups.
	order  []K
	owner  any
	logger logger
	lock   sync.RWMutex
}

// NewEmitter creates a new Emitter and returns a pointer to it.
func NewEmitter[K ~string, V any](opts ...Option) *Emitter[K, V] {
	o := newOptions(opts)

	e := &Emitter[K, V]{
		listeners: make(map[K][]*entry[K, V]),
		logger:    o.logger.WithField("type", "emitter"),
		owner:     o.owner,
	}

	return e
}

// On registers l as a persistent listener for the given event. Registering a listener that is
// already present for the event is a no-op.
func (e *Emitter[K, V]) On(event K, l *Listener[K, V]) error {
	return e.register(event, l, false)
}

// Once registers l for the given event. The listener is removed right before its first invocation.
func (e *Emitter[K, V]) Once(event K, l *Listener[K, V]) error {
	return e.register(event, l, true)
}

// OnMany registers every listener in ls with On semantics. Nothing is registered when any of
// them is invalid.
func (e *Emitter[K, V]) OnMany(event K, ls ...*Listener[K, V]) error {
	return e.registerMany(event, ls, false)
}

// OnceMany registers every listener in ls with Once semantics.
func (e *Emitter[K, V]) OnceMany(event K, ls ...*Listener[K, V]) error {
	return e.registerMany(event, ls, true)
}

// Off removes listeners from the given event. Without listeners, every listener of the event is
// removed; the event itself stays defined. Unknown events and listeners are ignored.
func (e *Emitter[K, V]) Off(event K, ls ...*Listener[K, V]) {
	e.lock.Lock()
	defer e.lock.Unlock()

	e.off(event, ls)
}

// Emit calls every listener registered for event with args, in registration order.
// It returns false when the event has no listeners. The first callback error stops the pass:
// remaining listeners are skipped and the error is returned as an *ErrListenerFailed.
// Panics raised by callbacks are not recovered.
func (e *Emitter[K, V]) Emit(event K, args ...V) (bool, error) {
	e.lock.RLock()
	snapshot := slices.Clone(e.listeners[event])
	e.lock.RUnlock()

	if len(snapshot) == 0 {
		return false, nil
	}

	return true, e.dispatch(event, snapshot, args)
}

// RemoveEvent forgets the event and all of its listeners.
func (e *Emitter[K, V]) RemoveEvent(event K) {
	e.lock.Lock()
	defer e.lock.Unlock()

	e.removeEvent(event)
}

// RemoveAll forgets every event and listener.
func (e *Emitter[K, V]) RemoveAll() {
	e.lock.Lock()
	defer e.lock.Unlock()

	e.listeners = make(map[K][]*entry[K, V])
	e.order = nil
	e.log().Debugln("all events removed")
}

// DefineEvent makes event known to the emitter without registering any listener, so that
// pattern based registration can reach it.
func (e *Emitter[K, V]) DefineEvent(event K) {
	e.DefineEvents(event)
}

// DefineEvents calls DefineEvent for each event.
func (e *Emitter[K, V]) DefineEvents(events ...K) {
	e.lock.Lock()
	defer e.lock.Unlock()

	for _, event := range events {
		e.define(event)
	}
}

// Events returns the defined events in definition order.
func (e *Emitter[K, V]) Events() []K {
	e.lock.RLock()
	defer e.lock.RUnlock()

	return slices.Clone(e.order)
}

// Listeners returns the listeners registered for event, in dispatch order.
func (e *Emitter[K, V]) Listeners(event K) []*Listener[K, V] {
	e.lock.RLock()
	defer e.lock.RUnlock()

	return flatten(e.listeners[event])
}

func (e *Emitter[K, V]) register(event K, l *Listener[K, V], once bool) error {
	if !l.valid() {
		return errors.Wrapf(ErrInvalidHandler, "cannot register on event %q", event)
	}

	e.lock.Lock()
	defer e.lock.Unlock()

	e.add(event, l, once)
	return nil
}

func (e *Emitter[K, V]) registerMany(event K, ls []*Listener[K, V], once bool) error {
	for i, l := range ls {
		if !l.valid() {
			return errors.Wrapf(ErrInvalidHandler, "listener #%d cannot be registered on event %q", i, event)
		}
	}

	e.lock.Lock()
	defer e.lock.Unlock()

	for _, l := range ls {
		e.add(event, l, once)
	}
	return nil
}

func (e *Emitter[K, V]) dispatch(event K, snapshot []*entry[K, V], args []V) error {
	e.log().Debugf("dispatching %q to %d listener(s)", event, len(snapshot))

	owner := e.owner
	if owner == nil {
		owner = e
	}

	for i, en := range snapshot {
		if !en.claim() {
			continue
		}
		if en.once {
			e.detach(event, en)
		}

		err := en.listener.invoke(Event[K, V]{
			Name:  event,
			Args:  slices.Clone(args),
			Owner: owner,
		})
		if err == nil {
			continue
		}

		if errors.Is(err, ErrRemoveListener) {
			e.detach(event, en)
			continue
		}

		e.log().Debugf("listener #%d for %q failed, skipping %d listener(s): %s", i, event, len(snapshot)-i-1, err)
		return wrapErrorListenerFailed(err, string(event), i)
	}

	return nil
}

// detach removes a single dispatched entry from the live registry.
func (e *Emitter[K, V]) detach(event K, en *entry[K, V]) {
	e.lock.Lock()
	defer e.lock.Unlock()

	entries, ok := e.listeners[event]
	if !ok {
		return
	}
	e.listeners[event] = slices.DeleteFunc(entries, func(other *entry[K, V]) bool {
		return other == en
	})
}

// The methods below expect the lock to be held.

func (e *Emitter[K, V]) define(event K) {
	if e.listeners == nil {
		e.listeners = make(map[K][]*entry[K, V])
	}
	if _, ok := e.listeners[event]; ok {
		return
	}

	e.listeners[event] = []*entry[K, V]{}
	e.order = append(e.order, event)
}

func (e *Emitter[K, V]) add(event K, l *Listener[K, V], once bool) {
	e.define(event)

	if indexOfListener(e.listeners[event], l) != -1 {
		e.log().Debugf("listener already registered on %q, ignoring", event)
		return
	}

	e.listeners[event] = append(e.listeners[event], &entry[K, V]{listener: l, once: once})
	e.log().Debugf("listener added to %q (once=%t)", event, once)
}

func (e *Emitter[K, V]) off(event K, ls []*Listener[K, V]) {
	entries, ok := e.listeners[event]
	if !ok {
		return
	}

	if len(ls) == 0 {
		e.listeners[event] = []*entry[K, V]{}
		e.log().Debugf("removed %d listener(s) from %q", len(entries), event)
		return
	}

	before := len(entries)
	for _, l := range ls {
		entries = slices.DeleteFunc(entries, func(en *entry[K, V]) bool {
			return en.listener == l
		})
	}
	e.listeners[event] = entries

	if removed := before - len(entries); removed > 0 {
		e.log().Debugf("removed %d listener(s) from %q", removed, event)
	}
}

func (e *Emitter[K, V]) removeEvent(event K) {
	if _, ok := e.listeners[event]; !ok {
		return
	}

	delete(e.listeners, event)
	e.order = slices.DeleteFunc(e.order, func(other K) bool { return other == event })
	e.log().Debugf("event %q removed", event)
}

func (e *Emitter[K, V]) log() logger {
	if e.logger == nil {
		return noopLogger{}
	}
	return e.logger
}

func flatten[K ~string, V any](entries []*entry[K, V]) []*Listener[K, V] {
	res := make([]*Listener[K, V], 0, len(entries))
	for _, en := range entries {
		res = append(res, en.listener)
	}
	return res
}
