package libemit

import (
	"github.com/stretchr/testify/mock"
)

// mockCallback records every invocation through testify's mock.Mock. Expectations set with
// On("Handle", name, args) decide the error returned to the emitter.
type mockCallback struct {
	mock.Mock

	tapHandle func(Event[string, int])
}

func (m *mockCallback) Handle(e Event[string, int]) error {
	if m.tapHandle != nil {
		m.tapHandle(e)
	}
	args := m.MethodCalled("Handle", e.Name, e.Args)
	return args.Error(0)
}

func (m *mockCallback) listener() *Listener[string, int] {
	return NewListener(m.Handle)
}

// recorder collects the names of the listeners that ran, in call order.
type recorder struct {
	calls []string
}

func (r *recorder) listener(name string) *Listener[string, int] {
	return NewListener(func(Event[string, int]) error {
		r.calls = append(r.calls, name)
		return nil
	})
}
