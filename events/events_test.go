package events

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmitInSubscriptionOrder(t *testing.T) {
	e := NewEmitter()
	var got []string
	e.On(Rendered, func(Payload) { got = append(got, "first") })
	e.On(Rendered, func(Payload) { got = append(got, "second") })
	e.On(Reset, func(Payload) { got = append(got, "reset") })

	n := e.Emit(Payload{Name: Rendered})

	assert.Equal(t, 2, n)
	assert.Equal(t, []string{"first", "second"}, got)
}

func TestOffRemovesOnlyThatListener(t *testing.T) {
	e := NewEmitter()
	calls := 0
	sub := e.On(NodeClick, func(Payload) { t.Fatal("removed listener ran") })
	e.On(NodeClick, func(Payload) { calls++ })

	assert.True(t, e.Off(sub))
	assert.False(t, e.Off(sub))

	e.Emit(Payload{Name: NodeClick})
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, e.Count(NodeClick))
}

func TestOnce(t *testing.T) {
	e := NewEmitter()
	calls := 0
	e.Once(NoMatch, func(Payload) { calls++ })

	e.Emit(Payload{Name: NoMatch})
	e.Emit(Payload{Name: NoMatch})

	assert.Equal(t, 1, calls)
	assert.Zero(t, e.Count(NoMatch))
}

func TestListenerMayUnsubscribeDuringEmit(t *testing.T) {
	e := NewEmitter()
	var sub Subscription
	calls := 0
	sub = e.On(NodeOver, func(Payload) {
		calls++
		e.Off(sub)
	})
	e.On(NodeOver, func(Payload) { calls++ })

	e.Emit(Payload{Name: NodeOver})
	e.Emit(Payload{Name: NodeOver})

	assert.Equal(t, 3, calls)
}

func TestPayloadIsDelivered(t *testing.T) {
	e := NewEmitter()
	var got Payload
	e.On(NodeClick, func(p Payload) { got = p })

	e.Emit(Payload{Name: NodeClick, NodeID: "1", Point: &Point{X: 3, Y: 4}})

	require.NotNil(t, got.Point)
	assert.Equal(t, "1", got.NodeID)
	assert.Equal(t, Point{X: 3, Y: 4}, *got.Point)
}

func TestSubscriptionsAreUnique(t *testing.T) {
	e := NewEmitter()
	a := e.On(Rendered, func(Payload) {})
	b := e.On(Rendered, func(Payload) {})
	assert.NotEqual(t, a.ID, b.ID)
}

func TestConcurrentSubscribe(t *testing.T) {
	e := NewEmitter()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sub := e.On(Rendered, func(Payload) {})
			e.Emit(Payload{Name: Rendered})
			e.Off(sub)
		}()
	}
	wg.Wait()
	assert.Zero(t, e.Count(Rendered))
}
