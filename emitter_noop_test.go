package libemit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type notifier struct {
	events EventEmitter[string, int]
}

func (n *notifier) publish(name string, v int) bool {
	found, _ := n.events.Emit(name, v)
	return found
}

func TestNoopEmitter(t *testing.T) {
	rec := &recorder{}
	n := &notifier{events: NoopEmitter[string, int]{}}

	require.NoError(t, n.events.On("x", rec.listener("A")))
	require.NoError(t, n.events.Once("x", rec.listener("B")))
	assert.ErrorIs(t, n.events.On("x", nil), ErrInvalidHandler)
	assert.ErrorIs(t, n.events.Once("x", nil), ErrInvalidHandler)

	assert.False(t, n.publish("x", 1))
	assert.Empty(t, rec.calls)

	assert.NotPanics(t, func() {
		n.events.Off("x")
		n.events.RemoveEvent("x")
		n.events.RemoveAll()
	})
}

func TestEmitterBehindInterface(t *testing.T) {
	rec := &recorder{}
	n := &notifier{events: NewEmitter[string, int]()}

	require.NoError(t, n.events.On("x", rec.listener("A")))
	assert.True(t, n.publish("x", 1))
	assert.Equal(t, []string{"A"}, rec.calls)
}
