package match3

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEventQueueDrain(t *testing.T) {
	q := &EventQueue{}
	q.OnEvent(Selected{At: C(1, 1)})
	q.OnEvent(CellChanged{At: C(0, 0)})

	assert.Equal(t, 2, q.Len())
	assert.Equal(t, []Event{Selected{At: C(1, 1)}, CellChanged{At: C(0, 0)}}, q.Drain())
	assert.Zero(t, q.Len())
	assert.Empty(t, q.Drain())
}

func TestEventQueueSkipsCellChanges(t *testing.T) {
	q := &EventQueue{SkipCellChanges: true}
	q.OnEvent(CellChanged{At: C(0, 0)})
	q.OnEvent(NoMatch{})

	assert.Equal(t, []Event{NoMatch{}}, q.Drain())
}

func TestListenerFuncReceivesInOrder(t *testing.T) {
	e, err := NewEngine(Config{Width: 4, Height: 4, GemTypes: 3, Seed: 1})
	if err != nil {
		t.Fatal(err)
	}
	var got []string
	e.Subscribe(ListenerFunc(func(ev Event) { got = append(got, Describe(ev)) }))

	e.Tap(C(0, 0))
	e.Tap(C(0, 0))

	assert.Equal(t, []string{"selected (0,0)", "deselected (0,0)"}, got)
}
