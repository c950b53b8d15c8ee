package libemit

import (
	"regexp"
	"slices"

	"github.com/pkg/errors"
)

// Pattern lookups only reach events that are already defined, either through a registration or
// through DefineEvent. Matching events are visited in definition order.

// ListenersMatching returns the listeners of every defined event whose id matches re.
func (e *Emitter[K, V]) ListenersMatching(re *regexp.Regexp) map[K][]*Listener[K, V] {
	e.lock.RLock()
	defer e.lock.RUnlock()

	res := make(map[K][]*Listener[K, V])
	for _, event := range e.matching(re) {
		res[event] = flatten(e.listeners[event])
	}
	return res
}

// OnMatching registers l with On semantics on every defined event matching re.
func (e *Emitter[K, V]) OnMatching(re *regexp.Regexp, l *Listener[K, V]) error {
	return e.registerMatching(re, l, false)
}

// OnceMatching registers l with Once semantics on every defined event matching re.
// Each event owns its own entry, so l can fire once per matching event.
func (e *Emitter[K, V]) OnceMatching(re *regexp.Regexp, l *Listener[K, V]) error {
	return e.registerMatching(re, l, true)
}

// OffMatching calls Off on every defined event matching re.
func (e *Emitter[K, V]) OffMatching(re *regexp.Regexp, ls ...*Listener[K, V]) {
	e.lock.Lock()
	defer e.lock.Unlock()

	for _, event := range e.matching(re) {
		e.off(event, ls)
	}
}

// RemoveMatching forgets every event matching re together with its listeners.
func (e *Emitter[K, V]) RemoveMatching(re *regexp.Regexp) {
	e.lock.Lock()
	defer e.lock.Unlock()

	for _, event := range e.matching(re) {
		e.removeEvent(event)
	}
}

// EmitMatching emits args on every defined event matching re. Snapshots of all matching events
// are taken before the first callback runs. It returns false when no listener was found, and
// stops at the first callback error exactly like Emit.
func (e *Emitter[K, V]) EmitMatching(re *regexp.Regexp, args ...V) (bool, error) {
	type batch struct {
		event    K
		snapshot []*entry[K, V]
	}

	e.lock.RLock()
	events := e.matching(re)
	batches := make([]batch, 0, len(events))
	for _, event := range events {
		if len(e.listeners[event]) == 0 {
			continue
		}
		batches = append(batches, batch{event: event, snapshot: slices.Clone(e.listeners[event])})
	}
	e.lock.RUnlock()

	if len(batches) == 0 {
		return false, nil
	}

	for _, b := range batches {
		if err := e.dispatch(b.event, b.snapshot, args); err != nil {
			return true, err
		}
	}
	return true, nil
}

func (e *Emitter[K, V]) registerMatching(re *regexp.Regexp, l *Listener[K, V], once bool) error {
	if !l.valid() {
		return errors.Wrapf(ErrInvalidHandler, "cannot register on events matching %q", re)
	}

	e.lock.Lock()
	defer e.lock.Unlock()

	for _, event := range e.matching(re) {
		e.add(event, l, once)
	}
	return nil
}

// matching expects the lock to be held. A nil pattern matches nothing.
func (e *Emitter[K, V]) matching(re *regexp.Regexp) []K {
	if re == nil {
		return nil
	}

	var res []K
	for _, event := range e.order {
		if re.MatchString(string(event)) {
			res = append(res, event)
		}
	}
	return res
}
